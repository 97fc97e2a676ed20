package errors

import "maps"

// ErrorKind is the closed set of failure classes the site builder distinguishes.
type ErrorKind string

const (
	// KindStructuralIO covers output directory preparation and page writes.
	KindStructuralIO ErrorKind = "structural_io"
	// KindSourceUnreachable covers release and funding fetches over the network.
	KindSourceUnreachable ErrorKind = "source_unreachable"
	// KindManifest covers malformed or version-mismatched release manifests.
	KindManifest ErrorKind = "manifest"
	// KindConfig covers bad repository URLs, missing paths and invalid overrides.
	KindConfig ErrorKind = "config"
	// KindComponent covers failures inside one component builder (render, markdown).
	KindComponent ErrorKind = "component"
	KindInternal  ErrorKind = "internal"
)

// Severity indicates whether an error halts the build or only degrades it.
type Severity string

const (
	SeverityFatal   Severity = "fatal"   // Process exits non-zero
	SeverityWarning Severity = "warning" // Logged, build continues with degraded output
)

// ErrorContext provides structured context for errors.
type ErrorContext map[string]any

// Set adds or updates a context value.
func (c ErrorContext) Set(key string, value any) ErrorContext {
	if c == nil {
		c = make(ErrorContext)
	}
	c[key] = value
	return c
}

// Get retrieves a context value.
func (c ErrorContext) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	value, exists := c[key]
	return value, exists
}

// GetString retrieves a string context value.
func (c ErrorContext) GetString(key string) (string, bool) {
	if value, exists := c.Get(key); exists {
		if str, ok := value.(string); ok {
			return str, true
		}
	}
	return "", false
}

// Merge combines two contexts, with other taking precedence.
func (c ErrorContext) Merge(other ErrorContext) ErrorContext {
	if c == nil {
		return other
	}
	if other == nil {
		return c
	}
	result := make(ErrorContext)
	maps.Copy(result, c)
	maps.Copy(result, other)
	return result
}
