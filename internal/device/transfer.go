package device

import (
	"context"
	"encoding/binary"
	"fmt"
)

// ElemSize returns the encoded size of one T in bytes.
func ElemSize[T any]() int {
	var zero T
	return binary.Size(zero)
}

// WriteSlice encodes src little-endian and writes it starting at element
// offset of buf.
func WriteSlice[T any](ctx context.Context, s *Session, buf *Buffer, offset int, src []T) error {
	data, err := binary.Append(nil, binary.LittleEndian, src)
	if err != nil {
		return &Error{Op: "write", Buffer: buf.Label(), Err: err}
	}
	return s.Write(ctx, buf, offset*ElemSize[T](), data)
}

// ReadSlice fills dst with elements read from buf starting at element offset.
func ReadSlice[T any](ctx context.Context, s *Session, buf *Buffer, offset int, dst []T) error {
	size := ElemSize[T]()
	if size <= 0 {
		return &Error{Op: "read", Buffer: buf.Label(), Err: fmt.Errorf("type %T has no fixed size", *new(T))}
	}
	raw := make([]byte, size*len(dst))
	if err := s.Read(ctx, buf, offset*size, raw); err != nil {
		return err
	}
	if len(dst) == 0 {
		return nil
	}
	if _, err := binary.Decode(raw, binary.LittleEndian, dst); err != nil {
		return &Error{Op: "read", Buffer: buf.Label(), Err: err}
	}
	return nil
}

// FillValue sets count elements of buf, starting at element offset, to v.
func FillValue[T any](ctx context.Context, s *Session, buf *Buffer, v T, offset, count int) error {
	pattern, err := binary.Append(nil, binary.LittleEndian, v)
	if err != nil {
		return &Error{Op: "fill", Buffer: buf.Label(), Err: err}
	}
	return s.Fill(ctx, buf, pattern, offset*len(pattern), count*len(pattern))
}
