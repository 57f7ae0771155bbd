package device

import (
	"fmt"
	"runtime"
	"sync"

	"go.uber.org/zap"
)

// HostBackend implements Backend with buffers in host memory. It is always
// available and is the fallback when no accelerator is detected.
type HostBackend struct {
	logger      *zap.Logger
	mu          sync.Mutex
	initialized bool
	next        uintptr
	buffers     map[uintptr][]byte
}

// NewHostBackend creates a new host backend instance
func NewHostBackend(logger *zap.Logger) *HostBackend {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HostBackend{
		logger:  logger,
		buffers: make(map[uintptr][]byte),
	}
}

func (h *HostBackend) Name() string { return "host" }

// Initialize prepares the host backend for use
func (h *HostBackend) Initialize() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.initialized {
		return nil
	}
	h.initialized = true
	h.logger.Info("host backend initialized")
	return nil
}

// Cleanup drops the buffer table. Buffers still live at this point were
// leaked by the caller; the Session reports them before calling Cleanup.
func (h *HostBackend) Cleanup() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.buffers = make(map[uintptr][]byte)
	h.initialized = false
	return nil
}

// IsAvailable checks if the backend is available (always true for host)
func (h *HostBackend) IsAvailable() bool {
	return true
}

// GetDeviceInfo returns device information for the host
func (h *HostBackend) GetDeviceInfo() DeviceInfo {
	total, available := systemMemory()
	return DeviceInfo{
		Name:              fmt.Sprintf("Host (%s)", runtime.GOARCH),
		Backend:           h.Name(),
		TotalMemory:       total,
		AvailableMemory:   available,
		ComputeCapability: "N/A",
		DriverVersion:     runtime.Version(),
	}
}

func (h *HostBackend) Allocate(size int, flags MemFlags) (uintptr, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.initialized {
		return 0, fmt.Errorf("host backend not initialized")
	}
	if size <= 0 {
		return 0, fmt.Errorf("invalid buffer size %d", size)
	}
	h.next++
	h.buffers[h.next] = make([]byte, size)
	return h.next, nil
}

func (h *HostBackend) Release(handle uintptr) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.buffers[handle]; !ok {
		return fmt.Errorf("unknown buffer handle %d", handle)
	}
	delete(h.buffers, handle)
	return nil
}

func (h *HostBackend) Write(handle uintptr, offset int, src []byte) error {
	mem, err := h.span(handle, offset, len(src))
	if err != nil {
		return err
	}
	copy(mem, src)
	return nil
}

func (h *HostBackend) Read(handle uintptr, offset int, dst []byte) error {
	mem, err := h.span(handle, offset, len(dst))
	if err != nil {
		return err
	}
	copy(dst, mem)
	return nil
}

func (h *HostBackend) Fill(handle uintptr, pattern []byte, offset, size int) error {
	if len(pattern) == 0 || size%len(pattern) != 0 {
		return fmt.Errorf("fill size %d is not a multiple of pattern size %d", size, len(pattern))
	}
	mem, err := h.span(handle, offset, size)
	if err != nil {
		return err
	}
	for i := 0; i < size; i += len(pattern) {
		copy(mem[i:], pattern)
	}
	return nil
}

// Finish is a no-op: host transfers complete synchronously.
func (h *HostBackend) Finish() error {
	return nil
}

// Outstanding returns the number of buffers currently held by the backend.
func (h *HostBackend) Outstanding() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.buffers)
}

func (h *HostBackend) span(handle uintptr, offset, size int) ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	mem, ok := h.buffers[handle]
	if !ok {
		return nil, fmt.Errorf("unknown buffer handle %d", handle)
	}
	if offset < 0 || size < 0 || offset+size > len(mem) {
		return nil, fmt.Errorf("range [%d, %d) out of bounds for %d byte buffer", offset, offset+size, len(mem))
	}
	return mem[offset : offset+size], nil
}
