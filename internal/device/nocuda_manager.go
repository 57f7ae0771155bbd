//go:build !cuda

package device

// tryCreateCUDABackend returns nil when the cuda build tag is NOT present
func (m *Manager) tryCreateCUDABackend() Backend {
	return nil
}
