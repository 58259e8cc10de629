package config //nolint:testpackage

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		name    string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"Warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, err := ParseLogLevel(tt.name)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.want, level)
		})
	}
}

func TestLoadServerConfig(t *testing.T) {
	t.Setenv("REVERSI_SERVER_HOST", "localhost")
	t.Setenv("REVERSI_SERVER_PORT", "3000")
	t.Setenv("REVERSI_REDIS_URL", "")
	t.Setenv("REVERSI_POSTGRES_URL", "")
	t.Setenv("REVERSI_SERVER_PREFORK", "")
	t.Setenv("REVERSI_MOVE_DELAY", "250ms")
	t.Setenv("REVERSI_PASS_DELAY", "")
	t.Setenv("REVERSI_SESSION_TTL", "1h")
	t.Setenv("REVERSI_ADMIN_USERNAME", "admin")
	t.Setenv("REVERSI_ADMIN_PASSWORD", "")

	cfg := LoadServerConfig()

	require.Equal(t, &ServerConfig{
		ServerHost: "localhost",
		ServerPort: "3000",
		MoveDelay:  250 * time.Millisecond,
		PassDelay:  defaultPassDelay,
		SessionTTL: time.Hour,

		AdminUsername: "admin",
	}, cfg)
}

func TestLoadPlayConfigDefaults(t *testing.T) {
	t.Setenv("REVERSI_MOVE_DELAY", "")
	t.Setenv("REVERSI_PASS_DELAY", "2s")

	cfg := LoadPlayConfig()

	require.Equal(t, defaultMoveDelay, cfg.MoveDelay)
	require.Equal(t, 2*time.Second, cfg.PassDelay)
}

func TestCheckPrefork(t *testing.T) {
	require.NoError(t, checkPrefork(false))
	require.Error(t, checkPrefork(true))
}
