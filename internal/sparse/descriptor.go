// Package sparse defines the plain matrix, vector and scalar descriptors
// shared with kernels, and the views that attach behavior to them without
// changing their layout.
package sparse

import "github.com/fxnlabs/spgemm-bench/internal/device"

// IndexSize is the size in bytes of one column index or row offset.
const IndexSize = 4

// Index is the element type of index buffers.
type Index = int32

// Float is the set of supported value types.
type Float interface {
	~float32 | ~float64
}

// Scalar is a single value held in a device buffer.
type Scalar struct {
	Value    *device.Buffer
	OffValue int
}

// Vector is a dense vector held in a device buffer.
type Vector struct {
	N         int
	Values    *device.Buffer
	OffValues int
}

// CsrMatrix is a compressed sparse row matrix in device memory.
// RowPointer holds NumRows+1 offsets; ColIndices and Values hold
// NumNonzeros entries. RowBlocks is optional SpMV metadata.
type CsrMatrix struct {
	NumRows     int
	NumCols     int
	NumNonzeros int

	Values     *device.Buffer
	ColIndices *device.Buffer
	RowPointer *device.Buffer
	RowBlocks  *device.Buffer

	OffValues    int
	OffColInd    int
	OffRowOff    int
	OffRowBlocks int

	RowBlockSize int
}

// CooMatrix is a coordinate-format matrix in device memory.
type CooMatrix struct {
	NumRows     int
	NumCols     int
	NumNonzeros int

	Values     *device.Buffer
	ColIndices *device.Buffer
	RowIndices *device.Buffer

	OffValues int
	OffColInd int
	OffRowInd int
}

// InitScalar resets s to the empty state.
func InitScalar(s *Scalar) { AsScalarView(s).Clear() }

// InitVector resets v to the empty state.
func InitVector(v *Vector) { AsVectorView(v).Clear() }

// InitCsrMatrix resets m to the empty state.
func InitCsrMatrix(m *CsrMatrix) { AsCsrView(m).Clear() }

// InitCooMatrix resets m to the empty state.
func InitCooMatrix(m *CooMatrix) { AsCooView(m).Clear() }
