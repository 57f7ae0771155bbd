package device

// Reported when the platform does not expose memory statistics.
const (
	fallbackTotalMemory     int64 = 8 << 30
	fallbackAvailableMemory int64 = 4 << 30
)
