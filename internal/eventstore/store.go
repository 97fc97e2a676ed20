package eventstore

import (
	"context"
	"time"
)

// Store persists and retrieves build events.
type Store interface {
	// Append adds a new event to the store.
	Append(ctx context.Context, e Event) error

	// GetByBuildID retrieves all events of one build in insertion order.
	GetByBuildID(ctx context.Context, buildID string) ([]Event, error)

	// GetRange retrieves events with start <= timestamp <= end in insertion order.
	GetRange(ctx context.Context, start, end time.Time) ([]Event, error)

	// Close releases the store.
	Close() error
}
