package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/schoolcore/internal/config"
	"github.com/yigit/schoolcore/internal/pkg/auth"
	"github.com/yigit/schoolcore/internal/pkg/logger"
	"github.com/yigit/schoolcore/internal/seed"
)

func memoryConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("DB_DRIVER", config.DriverMemory)
	t.Setenv("JWT_SECRET", "bootstrap-test-secret")
	t.Setenv("DB_SEED_DEFAULTS", "true")
	t.Setenv("AUTH_BCRYPT_COST", "4")
	t.Setenv("SERVER_CORS_ORIGINS", "http://localhost:3000")

	dir := t.TempDir()
	cfg, err := config.LoadConfig(filepath.Join(dir, "missing.yaml"), filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	return cfg
}

func TestMemoryDriverWiring(t *testing.T) {
	cfg := memoryConfig(t)
	ctx := context.Background()
	lgr := logger.Nop()

	repos, closeStore, err := SetupRepositories(ctx, cfg, lgr)
	require.NoError(t, err)
	defer closeStore()

	deps, err := BuildDependencies(ctx, cfg, repos, lgr)
	require.NoError(t, err)
	assert.Nil(t, deps.LateFineJob)

	router, err := SetupRouter(cfg, deps, lgr)
	require.NoError(t, err)
	handler := WithCORS(cfg, router)

	token, err := deps.JWTService.GenerateAccessToken(auth.Principal{ID: 1, Role: auth.RolePrincipal})
	require.NoError(t, err)

	t.Run("default classes are seeded", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/classes/all", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		all, err := repos.Classes.ListAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, len(seed.DefaultClasses))
	})

	t.Run("metrics are exposed", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("cors preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/classes", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("request id is echoed", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})
}

func TestLateFineJobIsBuiltWhenEnabled(t *testing.T) {
	t.Setenv("LEDGER_LATE_FINE_JOB_ENABLED", "true")
	cfg := memoryConfig(t)
	ctx := context.Background()

	repos, closeStore, err := SetupRepositories(ctx, cfg, logger.Nop())
	require.NoError(t, err)
	defer closeStore()

	deps, err := BuildDependencies(ctx, cfg, repos, logger.Nop())
	require.NoError(t, err)
	assert.NotNil(t, deps.LateFineJob)
}
