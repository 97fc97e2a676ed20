package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ClassifiedError is a structured error with a kind, a severity, a cause chain and context.
type ClassifiedError struct {
	kind     ErrorKind
	severity Severity
	message  string
	help     string
	cause    error
	context  ErrorContext
}

// Error implements the standard error interface.
func (e *ClassifiedError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.kind, e.severity, e.message, e.cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.kind, e.severity, e.message)
}

// Unwrap implements Go 1.13+ error unwrapping.
func (e *ClassifiedError) Unwrap() error {
	return e.cause
}

// Kind returns the error kind.
func (e *ClassifiedError) Kind() ErrorKind {
	return e.kind
}

// Severity returns the error severity.
func (e *ClassifiedError) Severity() Severity {
	return e.severity
}

// Message returns the error message without the cause.
func (e *ClassifiedError) Message() string {
	return e.message
}

// Help returns an optional remediation hint.
func (e *ClassifiedError) Help() string {
	return e.help
}

// Cause returns the underlying error.
func (e *ClassifiedError) Cause() error {
	return e.cause
}

// Context returns the error context.
func (e *ClassifiedError) Context() ErrorContext {
	return e.context
}

// WithContext adds context to the error and returns a new error.
func (e *ClassifiedError) WithContext(key string, value any) *ClassifiedError {
	cp := *e
	cp.context = e.context.Merge(ErrorContext{key: value})
	return &cp
}

// WithCause returns a copy of the error wrapping cause. Used to attach a concrete
// cause to a package-level sentinel while keeping errors.Is matching on the sentinel.
func (e *ClassifiedError) WithCause(cause error) *ClassifiedError {
	cp := *e
	cp.cause = cause
	return &cp
}

// Is matches another ClassifiedError with the same kind and message.
func (e *ClassifiedError) Is(target error) bool {
	if other, ok := target.(*ClassifiedError); ok {
		return e.kind == other.kind && e.message == other.message
	}
	return false
}

// IsKind checks if the error belongs to a specific kind.
func (e *ClassifiedError) IsKind(kind ErrorKind) bool {
	return e.kind == kind
}

// IsFatal checks if the error is fatal (should stop execution).
func (e *ClassifiedError) IsFatal() bool {
	return e.severity == SeverityFatal
}

// Chain returns the messages of this error and every wrapped cause, outermost first.
func (e *ClassifiedError) Chain() []string {
	chain := []string{e.message}
	for cause := e.cause; cause != nil; cause = stderrors.Unwrap(cause) {
		if ce, ok := cause.(*ClassifiedError); ok {
			chain = append(chain, ce.message)
			continue
		}
		msg := cause.Error()
		// fmt.Errorf("%w") repeats the inner message; keep only the outer prefix.
		if inner := stderrors.Unwrap(cause); inner != nil {
			msg = strings.TrimSuffix(strings.TrimSuffix(msg, inner.Error()), ": ")
		}
		if msg != "" {
			chain = append(chain, msg)
		}
	}
	return chain
}

// AsClassified finds the first ClassifiedError in err's chain.
func AsClassified(err error) (*ClassifiedError, bool) {
	var classified *ClassifiedError
	if stderrors.As(err, &classified) {
		return classified, true
	}
	return nil, false
}

// HasKind checks if the outermost classified error in the chain has the given kind.
func HasKind(err error, kind ErrorKind) bool {
	if classified, ok := AsClassified(err); ok {
		return classified.IsKind(kind)
	}
	return false
}

// GetKind extracts the kind from an error, or returns KindInternal.
func GetKind(err error) ErrorKind {
	if classified, ok := AsClassified(err); ok {
		return classified.Kind()
	}
	return KindInternal
}

// GetSeverity extracts the severity from an error. Unclassified errors are fatal.
func GetSeverity(err error) Severity {
	if classified, ok := AsClassified(err); ok {
		return classified.Severity()
	}
	return SeverityFatal
}

// IsWarning reports whether err is a classified warning.
func IsWarning(err error) bool {
	return err != nil && GetSeverity(err) == SeverityWarning
}
