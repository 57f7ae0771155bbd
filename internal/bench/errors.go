package bench

import (
	"errors"
	"fmt"

	"github.com/fxnlabs/spgemm-bench/internal/mmio"
	"github.com/fxnlabs/spgemm-bench/internal/spgemm"
)

var (
	// ErrFileIO is returned when the matrix file cannot be read or parsed.
	ErrFileIO = errors.New("file I/O error")

	// ErrUnsupportedType is returned for element types other than single
	// or double precision, including complex matrix files.
	ErrUnsupportedType = spgemm.ErrUnsupportedType

	// ErrNotSquare is returned when the input cannot be multiplied by itself.
	ErrNotSquare = errors.New("matrix is not square")

	ErrNotSetup     = errors.New("benchmark not set up")
	ErrAlreadySetup = errors.New("benchmark already set up")
	ErrTornDown     = errors.New("benchmark already torn down")
)

// fileError classifies a reader failure as an unsupported element type or
// a generic file error.
func fileError(msg string, err error) error {
	if errors.Is(err, mmio.ErrUnsupported) {
		return fmt.Errorf("%w: %s: %w", ErrUnsupportedType, msg, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrFileIO, msg, err)
}
