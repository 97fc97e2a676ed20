// Package errors provides the classified error type used across projectsite.
//
// Every error surfaced to the operator carries an ErrorKind, a Severity (fatal or
// warning) and a cause chain. Fatal errors halt the build; warnings are logged and
// the build continues with degraded output.
//
// Example usage:
//
//	err := errors.SourceUnreachableError("failed fetching releases").
//		WithCause(httpErr).
//		WithContext("repository", "owner/name").
//		Build()
package errors
