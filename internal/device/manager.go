package device

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Backend preferences accepted by NewManager.
const (
	PreferAuto = "auto"
	PreferHost = "host"
	PreferCUDA = "cuda"
)

// Manager handles backend selection and lifecycle
type Manager struct {
	backend Backend
	mu      sync.RWMutex
	logger  *zap.Logger
}

// NewManager creates a new device manager and selects a backend according
// to preference: "auto" tries CUDA and falls back to the host backend,
// "host" always uses the host, "cuda" fails when no CUDA device is usable.
func NewManager(logger *zap.Logger, preference string) (*Manager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Manager{
		logger: logger.Named("device"),
	}

	if err := m.detect(preference); err != nil {
		return nil, err
	}

	return m, nil
}

// detect selects the backend. Initialization is left to the Session.
func (m *Manager) detect(preference string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch preference {
	case "", PreferAuto, PreferCUDA:
	case PreferHost:
		m.backend = NewHostBackend(m.logger)
		return nil
	default:
		return fmt.Errorf("unknown device backend %q", preference)
	}

	// Try CUDA first (only if build tag is enabled)
	if cudaBackend := m.tryCreateCUDABackend(); cudaBackend != nil && cudaBackend.IsAvailable() {
		m.logger.Info("using CUDA backend")
		m.backend = cudaBackend
		return nil
	}

	if preference == PreferCUDA {
		return fmt.Errorf("CUDA backend requested but no CUDA device is available")
	}

	m.logger.Info("using host backend (no accelerator available)")
	m.backend = NewHostBackend(m.logger)
	return nil
}

// GetBackend returns the current backend
func (m *Manager) GetBackend() Backend {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.backend
}

// GetDeviceInfo returns device information from the current backend
func (m *Manager) GetDeviceInfo() DeviceInfo {
	backend := m.GetBackend()
	if backend == nil {
		return DeviceInfo{Name: "No backend available"}
	}
	return backend.GetDeviceInfo()
}

// IsAcceleratorAvailable returns true if a non-host backend is active
func (m *Manager) IsAcceleratorAvailable() bool {
	backend := m.GetBackend()
	if backend == nil {
		return false
	}
	_, isHost := backend.(*HostBackend)
	return !isHost
}

// GetBackendType returns a string describing the current backend type
func (m *Manager) GetBackendType() string {
	backend := m.GetBackend()
	if backend == nil {
		return "none"
	}
	return backend.Name()
}

// Cleanup releases resources held by the current backend
func (m *Manager) Cleanup() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.backend != nil {
		if err := m.backend.Cleanup(); err != nil {
			return err
		}
		m.backend = nil
	}
	return nil
}
