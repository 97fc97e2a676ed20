package eventstore

import (
	"git.home.luguber.info/inful/projectsite/internal/foundation/errors"
)

var (
	// ErrDatabaseOpenFailed indicates the SQLite database could not be opened.
	ErrDatabaseOpenFailed = errors.StructuralIOError("could not open build history database").Build()

	// ErrInitializeSchemaFailed indicates the database schema could not be initialized.
	ErrInitializeSchemaFailed = errors.StructuralIOError("failed to initialize build history schema").Build()

	// ErrEventAppendFailed indicates appending an event failed.
	ErrEventAppendFailed = errors.StructuralIOError("failed to append build event").Warning().Build()

	// ErrEventQueryFailed indicates querying events failed.
	ErrEventQueryFailed = errors.StructuralIOError("failed to query build events").Build()
)
