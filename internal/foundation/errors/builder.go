package errors

// ErrorBuilder provides a fluent API for creating ClassifiedError instances.
type ErrorBuilder struct {
	kind     ErrorKind
	severity Severity
	message  string
	help     string
	cause    error
	context  ErrorContext
}

// NewError creates a new ErrorBuilder with the specified kind and message.
func NewError(kind ErrorKind, message string) *ErrorBuilder {
	return &ErrorBuilder{
		kind:     kind,
		severity: SeverityFatal,
		message:  message,
		context:  make(ErrorContext),
	}
}

// WrapError creates a new ErrorBuilder that wraps an existing error.
func WrapError(err error, kind ErrorKind, message string) *ErrorBuilder {
	b := NewError(kind, message)
	b.cause = err
	return b
}

// WithSeverity sets the error severity.
func (b *ErrorBuilder) WithSeverity(severity Severity) *ErrorBuilder {
	b.severity = severity
	return b
}

// WithCause sets the underlying cause.
func (b *ErrorBuilder) WithCause(cause error) *ErrorBuilder {
	b.cause = cause
	return b
}

// WithHelp attaches a remediation hint shown by the CLI adapter.
func (b *ErrorBuilder) WithHelp(help string) *ErrorBuilder {
	b.help = help
	return b
}

// WithContext adds a context key-value pair.
func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	b.context = b.context.Set(key, value)
	return b
}

// WithContextMap adds multiple context values.
func (b *ErrorBuilder) WithContextMap(ctx ErrorContext) *ErrorBuilder {
	b.context = b.context.Merge(ctx)
	return b
}

// Fatal sets the severity to fatal.
func (b *ErrorBuilder) Fatal() *ErrorBuilder {
	return b.WithSeverity(SeverityFatal)
}

// Warning sets the severity to warning.
func (b *ErrorBuilder) Warning() *ErrorBuilder {
	return b.WithSeverity(SeverityWarning)
}

// Build creates the final ClassifiedError.
func (b *ErrorBuilder) Build() *ClassifiedError {
	return &ClassifiedError{
		kind:     b.kind,
		severity: b.severity,
		message:  b.message,
		help:     b.help,
		cause:    b.cause,
		context:  b.context,
	}
}

// Convenience constructors for common error patterns

// StructuralIOError creates a fatal output-directory or write error.
func StructuralIOError(message string) *ErrorBuilder {
	return NewError(KindStructuralIO, message).Fatal()
}

// SourceUnreachableError creates a warning for a release or funding source that could not be reached.
func SourceUnreachableError(message string) *ErrorBuilder {
	return NewError(KindSourceUnreachable, message).Warning()
}

// ManifestError creates a per-release manifest warning.
func ManifestError(message string) *ErrorBuilder {
	return NewError(KindManifest, message).Warning()
}

// ConfigError creates a configuration error. Callers downgrade it to a warning
// when it only disables one optional component.
func ConfigError(message string) *ErrorBuilder {
	return NewError(KindConfig, message).Fatal()
}

// ComponentError creates a component-internal failure.
func ComponentError(message string) *ErrorBuilder {
	return NewError(KindComponent, message).Warning()
}

// InternalError creates an internal error.
func InternalError(message string) *ErrorBuilder {
	return NewError(KindInternal, message).Fatal()
}
