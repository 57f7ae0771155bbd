//go:build cuda

package device

/*
#cgo LDFLAGS: -lcudart
#include <cuda_runtime_api.h>
#include <stdlib.h>
*/
import "C"
import (
	"fmt"
	"sync"
	"unsafe"

	"go.uber.org/zap"
)

// CUDABackend implements Backend on the CUDA runtime API. Buffers are raw
// device pointers returned by cudaMalloc.
type CUDABackend struct {
	logger      *zap.Logger
	mu          sync.Mutex
	initialized bool
	available   bool
	deviceInfo  DeviceInfo
}

// NewCUDABackend creates a new CUDA backend instance
func NewCUDABackend(logger *zap.Logger) *CUDABackend {
	backend := &CUDABackend{
		logger: logger,
	}

	if err := backend.checkDevice(); err != nil {
		logger.Warn("CUDA device not available", zap.Error(err))
		backend.available = false
	} else {
		backend.available = true
	}

	return backend
}

func (c *CUDABackend) Name() string { return "cuda" }

// Initialize selects device 0 and forces context creation
func (c *CUDABackend) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.available {
		return fmt.Errorf("CUDA device not available")
	}
	if c.initialized {
		return nil
	}

	if r := C.cudaSetDevice(0); r != C.cudaSuccess {
		return fmt.Errorf("cudaSetDevice: %s", cudaErrorString(r))
	}
	// cudaFree(NULL) creates the primary context.
	if r := C.cudaFree(nil); r != C.cudaSuccess {
		return fmt.Errorf("context creation: %s", cudaErrorString(r))
	}

	var prop C.struct_cudaDeviceProp
	if r := C.cudaGetDeviceProperties(&prop, 0); r != C.cudaSuccess {
		return fmt.Errorf("cudaGetDeviceProperties: %s", cudaErrorString(r))
	}
	var free, total C.size_t
	if r := C.cudaMemGetInfo(&free, &total); r != C.cudaSuccess {
		return fmt.Errorf("cudaMemGetInfo: %s", cudaErrorString(r))
	}
	var driver, runtimeVersion C.int
	C.cudaDriverGetVersion(&driver)
	C.cudaRuntimeGetVersion(&runtimeVersion)

	c.deviceInfo = DeviceInfo{
		Name:              C.GoString(&prop.name[0]),
		Backend:           c.Name(),
		TotalMemory:       int64(total),
		AvailableMemory:   int64(free),
		ComputeCapability: fmt.Sprintf("%d.%d", int(prop.major), int(prop.minor)),
		DriverVersion:     formatCUDAVersion(int(driver)),
		RuntimeVersion:    formatCUDAVersion(int(runtimeVersion)),
	}

	c.initialized = true
	c.logger.Info("CUDA backend initialized",
		zap.String("device", c.deviceInfo.Name),
		zap.String("compute_capability", c.deviceInfo.ComputeCapability),
		zap.Float64("total_memory_gb", float64(c.deviceInfo.TotalMemory)/(1<<30)))
	return nil
}

func (c *CUDABackend) Allocate(size int, flags MemFlags) (uintptr, error) {
	var ptr unsafe.Pointer
	if r := C.cudaMalloc(&ptr, C.size_t(size)); r != C.cudaSuccess {
		return 0, fmt.Errorf("cudaMalloc(%d bytes): %s", size, cudaErrorString(r))
	}
	return uintptr(ptr), nil
}

func (c *CUDABackend) Release(handle uintptr) error {
	if r := C.cudaFree(unsafe.Pointer(handle)); r != C.cudaSuccess {
		return fmt.Errorf("cudaFree: %s", cudaErrorString(r))
	}
	return nil
}

func (c *CUDABackend) Write(handle uintptr, offset int, src []byte) error {
	r := C.cudaMemcpy(unsafe.Pointer(handle+uintptr(offset)), unsafe.Pointer(&src[0]),
		C.size_t(len(src)), C.cudaMemcpyHostToDevice)
	if r != C.cudaSuccess {
		return fmt.Errorf("cudaMemcpy HtoD: %s", cudaErrorString(r))
	}
	return nil
}

func (c *CUDABackend) Read(handle uintptr, offset int, dst []byte) error {
	r := C.cudaMemcpy(unsafe.Pointer(&dst[0]), unsafe.Pointer(handle+uintptr(offset)),
		C.size_t(len(dst)), C.cudaMemcpyDeviceToHost)
	if r != C.cudaSuccess {
		return fmt.Errorf("cudaMemcpy DtoH: %s", cudaErrorString(r))
	}
	return nil
}

// Fill expands pattern on the host and uploads it; cudaMemset only handles
// single-byte patterns.
func (c *CUDABackend) Fill(handle uintptr, pattern []byte, offset, size int) error {
	if len(pattern) == 0 || size%len(pattern) != 0 {
		return fmt.Errorf("fill size %d is not a multiple of pattern size %d", size, len(pattern))
	}
	staged := make([]byte, size)
	for i := 0; i < size; i += len(pattern) {
		copy(staged[i:], pattern)
	}
	return c.Write(handle, offset, staged)
}

func (c *CUDABackend) Finish() error {
	if r := C.cudaDeviceSynchronize(); r != C.cudaSuccess {
		return fmt.Errorf("cudaDeviceSynchronize: %s", cudaErrorString(r))
	}
	return nil
}

// GetDeviceInfo returns information about the CUDA device
func (c *CUDABackend) GetDeviceInfo() DeviceInfo {
	return c.deviceInfo
}

// IsAvailable checks if CUDA is available
func (c *CUDABackend) IsAvailable() bool {
	return c.available
}

// Cleanup resets the device, destroying the primary context
func (c *CUDABackend) Cleanup() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.initialized {
		return nil
	}

	c.logger.Debug("cleaning up CUDA backend")
	if r := C.cudaDeviceReset(); r != C.cudaSuccess {
		return fmt.Errorf("cudaDeviceReset: %s", cudaErrorString(r))
	}
	c.initialized = false
	return nil
}

// checkDevice verifies CUDA device availability
func (c *CUDABackend) checkDevice() error {
	var count C.int
	if r := C.cudaGetDeviceCount(&count); r != C.cudaSuccess {
		return fmt.Errorf("cudaGetDeviceCount: %s", cudaErrorString(r))
	}
	if count == 0 {
		return fmt.Errorf("no CUDA device")
	}
	return nil
}

func cudaErrorString(err C.cudaError_t) string {
	return C.GoString(C.cudaGetErrorString(err))
}

// formatCUDAVersion renders 12040 as "12.4".
func formatCUDAVersion(v int) string {
	return fmt.Sprintf("%d.%d", v/1000, (v%1000)/10)
}
