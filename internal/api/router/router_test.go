package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"skillswap/config"
	"skillswap/internal/api/handler"
	"skillswap/internal/service"
	"skillswap/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupEngine() *gin.Engine {
	cfg := &config.Config{
		Server: config.ServerConfig{BodyLimit: 1 << 20, CORS: config.CORSConfig{AllowOrigins: []string{"http://localhost:5173"}}},
		Swap:   config.SwapConfig{CreateRateLimit: 10, CreateRateWindow: time.Minute},
	}
	jwtMgr := jwt.NewManager(&config.AuthConfig{JWTSecret: "test-secret-key-for-unit-tests", AccessTokenTTL: time.Hour})
	h := handler.NewHandler(&service.Service{})
	return Setup(cfg, h, jwtMgr, nil, zap.NewNop())
}

func TestSetup_Health(t *testing.T) {
	r := setupEngine()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
}

func TestSetup_ProtectedRoutesRequireToken(t *testing.T) {
	r := setupEngine()

	routes := []struct{ method, path string }{
		{"GET", "/api/v1/swaps"},
		{"POST", "/api/v1/swaps/request"},
		{"GET", "/api/v1/swaps/export"},
		{"PUT", "/api/v1/swaps/abc/accept"},
		{"PUT", "/api/v1/swaps/abc/complete"},
		{"GET", "/api/v1/users/abc"},
		{"PUT", "/api/v1/users/me"},
		{"POST", "/api/v1/auth/logout"},
	}
	for _, rt := range routes {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(rt.method, rt.path, nil))
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401, got %d", rt.method, rt.path, w.Code)
		}
	}
}

func TestSetup_CORSPreflight(t *testing.T) {
	r := setupEngine()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("OPTIONS", "/api/v1/swaps", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("unexpected allow origin %q", got)
	}
}
