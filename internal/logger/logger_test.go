package logger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/tillpoint/internal/logger"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		cfg       logger.Config
		wantErr   bool
		wantDebug bool
	}{
		{name: "Production", cfg: logger.Config{Level: "warn", Encoding: "json"}},
		{name: "Development", cfg: logger.Config{Development: true, Level: "info"}, wantDebug: true},
		{name: "BadLevel", cfg: logger.Config{Level: "loud"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := logger.New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantDebug, l.Core().Enabled(zap.DebugLevel))
		})
	}
}
