package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		verbosity string
		encoding  []string
		enabled   zapcore.Level
		disabled  zapcore.Level
		wantErr   bool
	}{
		{name: "info", verbosity: "info", enabled: zapcore.InfoLevel, disabled: zapcore.DebugLevel},
		{name: "debug", verbosity: "debug", enabled: zapcore.DebugLevel, disabled: zapcore.DebugLevel - 1},
		// zap treats an empty level as info
		{name: "empty verbosity", verbosity: "", enabled: zapcore.InfoLevel, disabled: zapcore.DebugLevel},
		{name: "console", verbosity: "warn", encoding: []string{"console"}, enabled: zapcore.WarnLevel, disabled: zapcore.InfoLevel},
		{name: "explicit json", verbosity: "error", encoding: []string{"json"}, enabled: zapcore.ErrorLevel, disabled: zapcore.WarnLevel},
		{name: "empty encoding keeps json", verbosity: "info", encoding: []string{""}, enabled: zapcore.InfoLevel, disabled: zapcore.DebugLevel},
		{name: "unknown verbosity", verbosity: "loud", wantErr: true},
		{name: "unknown encoding", verbosity: "info", encoding: []string{"xml"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.verbosity, tt.encoding...)
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, log)
				return
			}
			require.NoError(t, err)
			assert.True(t, log.Core().Enabled(tt.enabled))
			assert.False(t, log.Core().Enabled(tt.disabled))
		})
	}
}
