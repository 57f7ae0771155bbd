package device

// DeviceInfo contains information about the compute device
type DeviceInfo struct {
	Name              string `json:"name"`
	Backend           string `json:"backend"`
	TotalMemory       int64  `json:"totalMemory"`     // in bytes
	AvailableMemory   int64  `json:"availableMemory"` // in bytes
	ComputeCapability string `json:"computeCapability"`
	DriverVersion     string `json:"driverVersion"`
	RuntimeVersion    string `json:"runtimeVersion,omitempty"`
}

// MemFlags describes how kernels may access a buffer.
type MemFlags uint8

const (
	MemReadWrite MemFlags = iota
	MemReadOnly
	MemWriteOnly
)

func (f MemFlags) String() string {
	switch f {
	case MemReadOnly:
		return "read-only"
	case MemWriteOnly:
		return "write-only"
	default:
		return "read-write"
	}
}

// Backend defines the buffer-level interface a compute device must provide.
// The benchmark harness never talks to a Backend directly; it goes through a
// Session, which owns bookkeeping, validation and metrics.
//
// Implementation notes:
// - Handles are opaque to callers; zero is never a valid handle
// - Transfers are blocking: Read and Write return once the copy completed
// - Finish blocks until every previously submitted command completed
// - Cleanup must release the device context, not individual buffers
type Backend interface {
	// Name returns a short backend identifier ("host", "cuda").
	Name() string

	// Allocate reserves size bytes of device memory and returns its handle.
	// size is always positive; zero-length buffers never reach the backend.
	Allocate(size int, flags MemFlags) (uintptr, error)

	// Release returns the memory behind handle to the device.
	Release(handle uintptr) error

	// Write copies src into the buffer starting at byte offset.
	Write(handle uintptr, offset int, src []byte) error

	// Read copies len(dst) bytes starting at byte offset into dst.
	Read(handle uintptr, offset int, dst []byte) error

	// Fill repeats pattern over size bytes starting at byte offset.
	Fill(handle uintptr, pattern []byte, offset, size int) error

	// Finish blocks until all submitted work completed.
	Finish() error

	// GetDeviceInfo returns information about the device.
	GetDeviceInfo() DeviceInfo

	// IsAvailable performs a quick check without heavy initialization.
	IsAvailable() bool

	// Initialize prepares the backend for use. Called once before first use.
	Initialize() error

	// Cleanup releases the device context held by the backend.
	Cleanup() error
}
