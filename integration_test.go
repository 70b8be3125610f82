package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/cache"
	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/config"
	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/middleware"
	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/router"
	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// setupRouter wires the production router against an in-memory database
func setupRouter(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.SetDB(testutil.NewTestBridge(t))
	t.Cleanup(func() { config.SetDB(nil) })

	logger := zap.NewNop()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	ctl := newController(ctx, cfg, cache.NewMemoryStore(), logger)
	rejectAll := middleware.CheckJWT(func(ctx context.Context, token string) (interface{}, error) {
		return nil, errors.New("no admin tokens in this test")
	}, logger)
	return router.New(cfg, ctl, rejectAll, logger)
}

// TestHealthEndpointIntegration tests the /api/v1/health endpoint with full routing
func TestHealthEndpointIntegration(t *testing.T) {
	r := setupRouter(t, &config.Config{GoEnv: "test"})

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":true,"message":"Store API is running"}`, w.Body.String())
}

// TestHealthEndpointMethod tests that only GET is routed
func TestHealthEndpointMethod(t *testing.T) {
	r := setupRouter(t, &config.Config{GoEnv: "test"})

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		req, _ := http.NewRequest(method, "/api/v1/health", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code, "%s should not be routed", method)
	}
}

// TestAPIV1Prefix tests that endpoints require the /api/v1 prefix
func TestAPIV1Prefix(t *testing.T) {
	r := setupRouter(t, &config.Config{GoEnv: "test"})

	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	r := setupRouter(t, &config.Config{GoEnv: "test"})

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/admin/backup", nil)
	req.Header.Set("Authorization", "Bearer whatever")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name       string
		origins    string
		origin     string
		wantHeader string
	}{
		{name: "any origin when unset", origins: "", origin: "https://loja.example.com", wantHeader: "*"},
		{name: "listed origin", origins: "https://a.example.com, https://b.example.com", origin: "https://b.example.com", wantHeader: "https://b.example.com"},
		{name: "unlisted origin", origins: "https://a.example.com", origin: "https://evil.example.com", wantHeader: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupRouter(t, &config.Config{GoEnv: "test", CORSOrigins: tt.origins})

			req, _ := http.NewRequest(http.MethodGet, "/api/v1/health", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantHeader, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}
