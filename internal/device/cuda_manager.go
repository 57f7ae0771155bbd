//go:build cuda

package device

// tryCreateCUDABackend attempts to create a CUDA backend when cuda build tag is present
func (m *Manager) tryCreateCUDABackend() Backend {
	return NewCUDABackend(m.logger)
}
