package device

import (
	"context"
	"fmt"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/fxnlabs/spgemm-bench/internal/metrics"
	"go.uber.org/zap"
)

// Buffer is a handle to memory owned by a Session. A nil *Buffer is the
// null handle used by empty descriptors.
type Buffer struct {
	id       uint64
	handle   uintptr
	size     int
	flags    MemFlags
	label    string
	released bool
}

// Size returns the buffer length in bytes.
func (b *Buffer) Size() int {
	if b == nil {
		return 0
	}
	return b.size
}

// Label returns the diagnostic name given at allocation.
func (b *Buffer) Label() string {
	if b == nil {
		return "<nil>"
	}
	return b.label
}

func (b *Buffer) Flags() MemFlags { return b.flags }

// Stats is a snapshot of session allocation counters.
type Stats struct {
	Allocations      uint64
	Releases         uint64
	Outstanding      int
	BytesOutstanding int64
}

// Session is the explicitly passed device context. It is created once per
// process, handed by pointer to every lifecycle and timing operation, and
// closed at shutdown. All transfers are blocking.
type Session struct {
	backend Backend
	logger  *zap.Logger

	mu     sync.Mutex
	live   map[uint64]*Buffer
	nextID uint64
	stats  Stats
	closed bool
}

// NewSession initializes backend and wraps it in a session.
func NewSession(backend Backend, logger *zap.Logger) (*Session, error) {
	if backend == nil {
		return nil, fmt.Errorf("no backend available")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := backend.Initialize(); err != nil {
		return nil, &Error{Op: "initialize", Err: err}
	}
	return &Session{
		backend: backend,
		logger:  logger.Named("device").With(zap.String("backend", backend.Name())),
		live:    make(map[uint64]*Buffer),
	}, nil
}

// Backend returns the backend behind the session.
func (s *Session) Backend() Backend {
	return s.backend
}

// Info returns device information from the backend.
func (s *Session) Info() DeviceInfo {
	return s.backend.GetDeviceInfo()
}

// Allocate reserves size bytes on the device. Zero-length buffers are valid
// (an empty matrix still owns its three buffers) and never reach the backend.
func (s *Session) Allocate(size int, flags MemFlags, label string) (*Buffer, error) {
	if size < 0 {
		return nil, &Error{Op: "allocate", Buffer: label, Err: fmt.Errorf("negative size %d", size)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, &Error{Op: "allocate", Buffer: label, Err: ErrClosed}
	}

	var handle uintptr
	if size > 0 {
		h, err := s.backend.Allocate(size, flags)
		if err != nil {
			return nil, &Error{Op: "allocate", Buffer: label, Err: err}
		}
		handle = h
	}

	s.nextID++
	buf := &Buffer{id: s.nextID, handle: handle, size: size, flags: flags, label: label}
	s.live[buf.id] = buf
	s.stats.Allocations++
	s.stats.Outstanding++
	s.stats.BytesOutstanding += int64(size)

	metrics.DeviceAllocations.Inc()
	metrics.DeviceBuffersOutstanding.Inc()
	metrics.DeviceBytesOutstanding.Add(float64(size))

	s.logger.Debug("allocated buffer",
		zap.String("buffer", label),
		zap.String("size", humanize.IBytes(uint64(size))),
		zap.Stringer("flags", flags))
	return buf, nil
}

// Release returns buf to the device. Releasing nil, a released buffer or a
// buffer from another session is an error.
func (s *Session) Release(buf *Buffer) error {
	if buf == nil {
		return &Error{Op: "release", Buffer: buf.Label(), Err: ErrNilBuffer}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return &Error{Op: "release", Buffer: buf.label, Err: ErrClosed}
	}
	if buf.released {
		return &Error{Op: "release", Buffer: buf.label, Err: ErrReleased}
	}
	if owned, ok := s.live[buf.id]; !ok || owned != buf {
		return &Error{Op: "release", Buffer: buf.label, Err: ErrUnknownBuffer}
	}

	if buf.size > 0 {
		if err := s.backend.Release(buf.handle); err != nil {
			return &Error{Op: "release", Buffer: buf.label, Err: err}
		}
	}

	buf.released = true
	delete(s.live, buf.id)
	s.stats.Releases++
	s.stats.Outstanding--
	s.stats.BytesOutstanding -= int64(buf.size)

	metrics.DeviceReleases.Inc()
	metrics.DeviceBuffersOutstanding.Dec()
	metrics.DeviceBytesOutstanding.Sub(float64(buf.size))

	s.logger.Debug("released buffer", zap.String("buffer", buf.label))
	return nil
}

// Write copies src into buf at byte offset, blocking until complete.
func (s *Session) Write(ctx context.Context, buf *Buffer, offset int, src []byte) error {
	if err := s.check(ctx, "write", buf, offset, len(src)); err != nil {
		return err
	}
	if len(src) == 0 {
		return nil
	}
	if err := s.backend.Write(buf.handle, offset, src); err != nil {
		return &Error{Op: "write", Buffer: buf.label, Err: err}
	}
	return nil
}

// Read copies len(dst) bytes from buf at byte offset, blocking until complete.
func (s *Session) Read(ctx context.Context, buf *Buffer, offset int, dst []byte) error {
	if err := s.check(ctx, "read", buf, offset, len(dst)); err != nil {
		return err
	}
	if len(dst) == 0 {
		return nil
	}
	if err := s.backend.Read(buf.handle, offset, dst); err != nil {
		return &Error{Op: "read", Buffer: buf.label, Err: err}
	}
	return nil
}

// Fill repeats pattern over size bytes of buf starting at byte offset.
func (s *Session) Fill(ctx context.Context, buf *Buffer, pattern []byte, offset, size int) error {
	if err := s.check(ctx, "fill", buf, offset, size); err != nil {
		return err
	}
	if size == 0 {
		return nil
	}
	if err := s.backend.Fill(buf.handle, pattern, offset, size); err != nil {
		return &Error{Op: "fill", Buffer: buf.label, Err: err}
	}
	return nil
}

// Sync blocks until all submitted device work completed.
func (s *Session) Sync(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return &Error{Op: "finish", Err: err}
	}
	if err := s.backend.Finish(); err != nil {
		return &Error{Op: "finish", Err: err}
	}
	return nil
}

// Stats returns a snapshot of allocation counters.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Close releases the backend. Buffers still outstanding are leaks: they are
// released, logged and reported in the returned error.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	leaked := len(s.live)
	for id, buf := range s.live {
		s.logger.Warn("releasing leaked buffer",
			zap.String("buffer", buf.label),
			zap.String("size", humanize.IBytes(uint64(buf.size))))
		if buf.size > 0 {
			_ = s.backend.Release(buf.handle)
		}
		buf.released = true
		metrics.DeviceBuffersOutstanding.Dec()
		metrics.DeviceBytesOutstanding.Sub(float64(buf.size))
		delete(s.live, id)
	}

	if err := s.backend.Cleanup(); err != nil {
		return &Error{Op: "cleanup", Err: err}
	}
	if leaked > 0 {
		return fmt.Errorf("%d device buffers leaked", leaked)
	}
	return nil
}

func (s *Session) check(ctx context.Context, op string, buf *Buffer, offset, size int) error {
	if buf == nil {
		return &Error{Op: op, Buffer: buf.Label(), Err: ErrNilBuffer}
	}
	if err := ctx.Err(); err != nil {
		return &Error{Op: op, Buffer: buf.label, Err: err}
	}

	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return &Error{Op: op, Buffer: buf.label, Err: ErrClosed}
	}
	if buf.released {
		return &Error{Op: op, Buffer: buf.label, Err: ErrReleased}
	}
	if offset < 0 || size < 0 || offset+size > buf.size {
		return &Error{Op: op, Buffer: buf.label,
			Err: fmt.Errorf("%w: [%d, %d) of %d bytes", ErrOutOfRange, offset, offset+size, buf.size)}
	}
	return nil
}
