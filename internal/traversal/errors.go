package traversal

import "fmt"

const (
	errorNotFoundFormat   = "path '%s' does not exist"
	errorPermissionFormat = "cannot read %s: %v"
)

// NotFoundError reports a walk root that does not exist. It is fatal.
type NotFoundError struct {
	Path string
	Err  error
}

func (notFoundError *NotFoundError) Error() string {
	return fmt.Sprintf(errorNotFoundFormat, notFoundError.Path)
}

func (notFoundError *NotFoundError) Unwrap() error {
	return notFoundError.Err
}

// PermissionError reports an entry that could not be listed or opened during
// the walk. The walk records it and continues.
type PermissionError struct {
	Path string
	Err  error
}

func (permissionError *PermissionError) Error() string {
	return fmt.Sprintf(errorPermissionFormat, permissionError.Path, permissionError.Err)
}

func (permissionError *PermissionError) Unwrap() error {
	return permissionError.Err
}
