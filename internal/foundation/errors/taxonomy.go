package errors

import stderrors "errors"

const (
	msgReleaseNotFound   = "release not found"
	msgUnsupportedSource = "unsupported source location"
	msgDocsUnavailable   = "documentation unavailable"
	msgWriteFailure      = "artifact write failed"
)

// Constructors for the generation pipeline's failure taxonomy. Only the
// orchestrator decides whether one of these abandons an entry, a single
// plugin, or nothing at all.

// ReleaseNotFound reports that the registry has no release for the requested
// version (or no release at all when tag is "main").
func ReleaseNotFound(pkg, tag string) *ErrorBuilder {
	return NewError(CategoryNotFound, msgReleaseNotFound).
		WithContext("package", pkg).
		WithContext("tag", tag)
}

// UnsupportedSourceLocation reports a declared source_code_uri that does not
// match a recognized hosting pattern.
func UnsupportedSourceLocation(pkg, uri string) *ErrorBuilder {
	return NewError(CategorySource, msgUnsupportedSource).
		UserAction().
		WithContext("package", pkg).
		WithContext("source_code_uri", uri)
}

// DocumentationUnavailable reports that a logical plugin has no fetchable documentation.
func DocumentationUnavailable(plugin string) *ErrorBuilder {
	return NewError(CategoryDocs, msgDocsUnavailable).
		Warning().
		WithContext("plugin", plugin)
}

// WriteFailure reports a filesystem error while writing an artifact.
func WriteFailure(path string, cause error) *ErrorBuilder {
	return WrapError(cause, CategoryFileSystem, msgWriteFailure).
		WithContext("path", path)
}

// SkippedByPolicy reports an entry or release deliberately not processed.
func SkippedByPolicy(reason string) *ErrorBuilder {
	return NewError(CategoryPolicy, reason).Info()
}

// matches reports whether err's chain holds a ClassifiedError with the given category and message.
func matches(err error, category ErrorCategory, message string) bool {
	return stderrors.Is(err, &ClassifiedError{category: category, message: message})
}

// IsReleaseNotFound reports whether err carries a ReleaseNotFound classification.
func IsReleaseNotFound(err error) bool { return matches(err, CategoryNotFound, msgReleaseNotFound) }

// IsUnsupportedSourceLocation reports whether err carries an UnsupportedSourceLocation classification.
func IsUnsupportedSourceLocation(err error) bool {
	return matches(err, CategorySource, msgUnsupportedSource)
}

// IsDocumentationUnavailable reports whether err carries a DocumentationUnavailable classification.
func IsDocumentationUnavailable(err error) bool { return matches(err, CategoryDocs, msgDocsUnavailable) }

// IsWriteFailure reports whether err carries a WriteFailure classification.
func IsWriteFailure(err error) bool { return matches(err, CategoryFileSystem, msgWriteFailure) }

// IsSkippedByPolicy reports whether err carries a SkippedByPolicy classification.
func IsSkippedByPolicy(err error) bool { return HasCategory(err, CategoryPolicy) }
