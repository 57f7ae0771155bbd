package spgemm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fxnlabs/spgemm-bench/internal/device"
	"github.com/fxnlabs/spgemm-bench/internal/sparse"
)

// ErrUnsupportedType is returned for element types other than single and
// double precision floating point.
var ErrUnsupportedType = errors.New("unsupported element type")

// Precision selects the element type of a benchmark at run time.
type Precision int

const (
	Single Precision = iota + 1
	Double
)

func (p Precision) String() string {
	switch p {
	case Single:
		return "single"
	case Double:
		return "double"
	default:
		return fmt.Sprintf("precision(%d)", int(p))
	}
}

// ParsePrecision accepts "single"/"float"/"s" and "double"/"d".
func ParsePrecision(s string) (Precision, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single", "float", "float32", "s":
		return Single, nil
	case "double", "float64", "d":
		return Double, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedType, s)
	}
}

// PrecisionOf maps a value type to its Precision.
func PrecisionOf[T sparse.Float]() Precision {
	if device.ElemSize[T]() == 4 {
		return Single
	}
	return Double
}
