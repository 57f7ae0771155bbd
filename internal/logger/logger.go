package logger

import (
	"go.uber.org/zap"
)

// New builds a production zap logger at the given verbosity. Encoding
// selects "json" (the default) or "console"; an empty value keeps json.
func New(verbosity string, encoding ...string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	level, err := zap.ParseAtomicLevel(verbosity)
	if err != nil {
		return nil, err
	}
	config.Level = level
	if len(encoding) > 0 && encoding[0] != "" {
		config.Encoding = encoding[0]
		if encoding[0] == "console" {
			config.EncoderConfig = zap.NewDevelopmentEncoderConfig()
		}
	}
	return config.Build()
}
