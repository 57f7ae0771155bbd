package device

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned for any call on a session after Close.
	ErrClosed = errors.New("session closed")

	// ErrNilBuffer indicates an operation on a null buffer handle.
	ErrNilBuffer = errors.New("nil buffer")

	// ErrReleased indicates use of a buffer after it was released.
	ErrReleased = errors.New("buffer already released")

	// ErrUnknownBuffer indicates a buffer that was not allocated by this session.
	ErrUnknownBuffer = errors.New("buffer not owned by session")

	// ErrOutOfRange indicates a transfer that does not fit in the buffer.
	ErrOutOfRange = errors.New("transfer out of range")
)

// Error is a failed device-resource call. Op names the originating
// operation (allocate, release, write, read, fill, finish, or a kernel name)
// and Buffer the label of the buffer involved, if any.
type Error struct {
	Op     string
	Buffer string
	Err    error
}

func (e *Error) Error() string {
	if e.Buffer != "" {
		return fmt.Sprintf("device %s %s: %v", e.Op, e.Buffer, e.Err)
	}
	return fmt.Sprintf("device %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsDeviceError reports whether err carries a device-resource failure.
func IsDeviceError(err error) bool {
	var de *Error
	return errors.As(err, &de)
}
