package sparse

import (
	"unsafe"

	"github.com/fxnlabs/spgemm-bench/internal/device"
)

// The views below are defined types over the plain descriptors: they share
// the underlying struct, add no fields, and convert to and from the plain
// type by pointer conversion. The compiler rejects the conversions in the
// As*View and Plain helpers if the underlying types ever diverge.

// ScalarView adds behavior to a Scalar.
type ScalarView Scalar

// VectorView adds behavior to a Vector.
type VectorView Vector

// CsrView adds behavior to a CsrMatrix.
type CsrView CsrMatrix

// CooView adds behavior to a CooMatrix.
type CooView CooMatrix

// Sizes are compared in both directions; a uintptr constant cannot be
// negative, so any difference fails the build.
const (
	_ = uintptr(unsafe.Sizeof(ScalarView{}) - unsafe.Sizeof(Scalar{}))
	_ = uintptr(unsafe.Sizeof(Scalar{}) - unsafe.Sizeof(ScalarView{}))
	_ = uintptr(unsafe.Sizeof(VectorView{}) - unsafe.Sizeof(Vector{}))
	_ = uintptr(unsafe.Sizeof(Vector{}) - unsafe.Sizeof(VectorView{}))
	_ = uintptr(unsafe.Sizeof(CsrView{}) - unsafe.Sizeof(CsrMatrix{}))
	_ = uintptr(unsafe.Sizeof(CsrMatrix{}) - unsafe.Sizeof(CsrView{}))
	_ = uintptr(unsafe.Sizeof(CooView{}) - unsafe.Sizeof(CooMatrix{}))
	_ = uintptr(unsafe.Sizeof(CooMatrix{}) - unsafe.Sizeof(CooView{}))
)

func AsScalarView(s *Scalar) *ScalarView { return (*ScalarView)(s) }
func AsVectorView(v *Vector) *VectorView { return (*VectorView)(v) }
func AsCsrView(m *CsrMatrix) *CsrView { return (*CsrView)(m) }
func AsCooView(m *CooMatrix) *CooView { return (*CooView)(m) }
func (s *ScalarView) Plain() *Scalar { return (*Scalar)(s) }
func (v *VectorView) Plain() *Vector { return (*Vector)(v) }
func (m *CsrView) Plain() *CsrMatrix { return (*CsrMatrix)(m) }
func (m *CooView) Plain() *CooMatrix { return (*CooMatrix)(m) }

// Clear resets every field to its empty representation.
func (s *ScalarView) Clear() {
	s.Value = nil
	s.OffValue = 0
}

// Clear resets every field to its empty representation.
func (v *VectorView) Clear() {
	v.N = 0
	v.Values = nil
	v.OffValues = 0
}

// Clear resets every field to its empty representation. It does not
// release the buffers; callers that own them must do so first.
func (m *CsrView) Clear() {
	m.NumRows, m.NumCols, m.NumNonzeros = 0, 0, 0
	m.Values, m.ColIndices, m.RowPointer, m.RowBlocks = nil, nil, nil, nil
	m.OffValues, m.OffColInd, m.OffRowOff, m.OffRowBlocks = 0, 0, 0, 0
	m.RowBlockSize = 0
}

// IsEmpty reports whether m is in the state Clear leaves it in.
func (m *CsrView) IsEmpty() bool {
	return *m == (CsrView{})
}

// Buffers returns the non-nil buffers of m in release order.
func (m *CsrView) Buffers() []*device.Buffer {
	var bufs []*device.Buffer
	for _, b := range []*device.Buffer{m.Values, m.ColIndices, m.RowPointer, m.RowBlocks} {
		if b != nil {
			bufs = append(bufs, b)
		}
	}
	return bufs
}

// Clear resets every field to its empty representation.
func (m *CooView) Clear() {
	m.NumRows, m.NumCols, m.NumNonzeros = 0, 0, 0
	m.Values, m.ColIndices, m.RowIndices = nil, nil, nil
	m.OffValues, m.OffColInd, m.OffRowInd = 0, 0, 0
}
