package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lk16/reversi/internal"
	"github.com/lk16/reversi/internal/config"
	"github.com/lk16/reversi/internal/models"
	"github.com/lk16/reversi/internal/repository"
	"github.com/lk16/reversi/internal/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPruneGames(t *testing.T) {
	tests := []struct {
		name       string
		cfg        config.ServerConfig
		username   string
		password   string
		wantStatus int
	}{
		{"disabled", config.ServerConfig{}, "admin", "secret", http.StatusNotFound},
		{"no credentials", config.ServerConfig{AdminUsername: "admin", AdminPassword: "secret"}, "", "", http.StatusUnauthorized},
		{"wrong password", config.ServerConfig{AdminUsername: "admin", AdminPassword: "secret"}, "admin", "wrong", http.StatusUnauthorized},
		{"valid", config.ServerConfig{AdminUsername: "admin", AdminPassword: "secret"}, "admin", "secret", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			manager := sessions.NewManager(
				repository.NewMemorySessionRepository(time.Hour),
				repository.NewMemoryResultRepository(),
				sessions.Config{SessionTTL: time.Hour},
			)
			t.Cleanup(manager.Close)

			app := internal.BuildApp(&cfg, manager)

			req := httptest.NewRequest(http.MethodPost, "/api/admin/prune", nil)
			if tt.username != "" {
				req.SetBasicAuth(tt.username, tt.password)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)

			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			if tt.wantStatus == http.StatusOK {
				prune := decode[models.PruneResponse](t, resp)
				assert.Empty(t, prune.Removed)
			}
		})
	}
}
