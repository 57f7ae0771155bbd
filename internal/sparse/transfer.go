package sparse

import (
	"context"
	"fmt"

	"github.com/fxnlabs/spgemm-bench/internal/device"
)

// AllocateCsr allocates values, column indices and row pointer buffers
// sized exactly for a rows x cols matrix with nnz entries and records the
// counts in m. m must be empty. On failure the buffers allocated so far are
// released and m is left empty.
func AllocateCsr[T Float](sess *device.Session, m *CsrMatrix, rows, cols, nnz int, flags device.MemFlags, name string) error {
	if !AsCsrView(m).IsEmpty() {
		return fmt.Errorf("allocate %s: descriptor already holds buffers", name)
	}

	values, err := sess.Allocate(nnz*device.ElemSize[T](), flags, name+".values")
	if err != nil {
		return err
	}
	colIndices, err := sess.Allocate(nnz*IndexSize, flags, name+".col_indices")
	if err != nil {
		_ = sess.Release(values)
		return err
	}
	rowPointer, err := sess.Allocate((rows+1)*IndexSize, flags, name+".row_pointer")
	if err != nil {
		_ = sess.Release(colIndices)
		_ = sess.Release(values)
		return err
	}

	m.NumRows, m.NumCols, m.NumNonzeros = rows, cols, nnz
	m.Values, m.ColIndices, m.RowPointer = values, colIndices, rowPointer
	return nil
}

// ReleaseCsr releases every non-nil buffer of m and then clears it.
// Releasing stops at the first failure; buffers already released are
// nil'ed so a later call does not release them twice.
func ReleaseCsr(sess *device.Session, m *CsrMatrix) error {
	v := AsCsrView(m)
	for _, slot := range []**device.Buffer{&v.Values, &v.ColIndices, &v.RowPointer, &v.RowBlocks} {
		if *slot == nil {
			continue
		}
		if err := sess.Release(*slot); err != nil {
			return err
		}
		*slot = nil
	}
	v.Clear()
	return nil
}

// Upload writes host into the buffers of m, which must already be sized
// for it. host must satisfy the CSR invariants checked by Validate.
func Upload[T Float](ctx context.Context, sess *device.Session, host *HostCSR[T], m *CsrMatrix) error {
	if err := host.Validate(); err != nil {
		return fmt.Errorf("upload: %w", err)
	}
	if host.Rows != m.NumRows || host.Cols != m.NumCols || host.NNZ() != m.NumNonzeros {
		return fmt.Errorf("upload: host matrix %dx%d (%d nnz) does not match descriptor %dx%d (%d nnz)",
			host.Rows, host.Cols, host.NNZ(), m.NumRows, m.NumCols, m.NumNonzeros)
	}
	if err := device.WriteSlice(ctx, sess, m.Values, m.OffValues, host.Values); err != nil {
		return err
	}
	if err := device.WriteSlice(ctx, sess, m.ColIndices, m.OffColInd, host.ColIdx); err != nil {
		return err
	}
	return device.WriteSlice(ctx, sess, m.RowPointer, m.OffRowOff, host.RowPtr)
}

// Download reads m back into host memory.
func Download[T Float](ctx context.Context, sess *device.Session, m *CsrMatrix) (*HostCSR[T], error) {
	host := &HostCSR[T]{
		Rows:   m.NumRows,
		Cols:   m.NumCols,
		RowPtr: make([]Index, m.NumRows+1),
		ColIdx: make([]Index, m.NumNonzeros),
		Values: make([]T, m.NumNonzeros),
	}
	if err := device.ReadSlice(ctx, sess, m.Values, m.OffValues, host.Values); err != nil {
		return nil, err
	}
	if err := device.ReadSlice(ctx, sess, m.ColIndices, m.OffColInd, host.ColIdx); err != nil {
		return nil, err
	}
	if err := device.ReadSlice(ctx, sess, m.RowPointer, m.OffRowOff, host.RowPtr); err != nil {
		return nil, err
	}
	return host, nil
}

// AllocateScalar allocates room for one T in s.
func AllocateScalar[T Float](sess *device.Session, s *Scalar, flags device.MemFlags, name string) error {
	buf, err := sess.Allocate(device.ElemSize[T](), flags, name+".value")
	if err != nil {
		return err
	}
	AsScalarView(s).Clear()
	s.Value = buf
	return nil
}

// ReleaseScalar releases the buffer of s and clears it.
func ReleaseScalar(sess *device.Session, s *Scalar) error {
	if err := sess.Release(s.Value); err != nil {
		return err
	}
	AsScalarView(s).Clear()
	return nil
}

// FillScalar stores v in s.
func FillScalar[T Float](ctx context.Context, sess *device.Session, s *Scalar, v T) error {
	return device.FillValue(ctx, sess, s.Value, v, s.OffValue, 1)
}

// ReadScalar returns the value held in s.
func ReadScalar[T Float](ctx context.Context, sess *device.Session, s *Scalar) (T, error) {
	out := make([]T, 1)
	if err := device.ReadSlice(ctx, sess, s.Value, s.OffValue, out); err != nil {
		return 0, err
	}
	return out[0], nil
}
