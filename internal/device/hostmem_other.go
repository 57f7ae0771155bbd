//go:build !linux

package device

func systemMemory() (total, available int64) {
	return fallbackTotalMemory, fallbackAvailableMemory
}
