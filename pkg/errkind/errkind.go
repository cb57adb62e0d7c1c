// Package errkind defines the error categories shared by the gitctx core
// packages. Callers match with errors.Is and report each category differently:
// validation and not-found errors are user-correctable, permission errors carry
// a remediation hint, traversal errors are always fatal to the operation that
// raised them.
package errkind

import (
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrValidation indicates a user-supplied value (name, pattern, email,
	// signing key) failed a validation rule. Never retried.
	ErrValidation = errors.Base("validation failed")

	// ErrNotFound indicates a named context, template or file does not exist.
	ErrNotFound = errors.Base("not found")

	// ErrPermission indicates the filesystem denied an operation. Wrapped
	// errors include a remediation hint for the user.
	ErrPermission = errors.Base("permission denied")

	// ErrTraversal indicates a resolved path escaped its expected base
	// directory. This signals a hostile or corrupted name and always fails
	// the operation that raised it.
	ErrTraversal = errors.Base("path escapes base directory")

	// ErrMalformedData indicates invalid JSON or a payload of the wrong shape.
	ErrMalformedData = errors.Base("malformed data")
)
