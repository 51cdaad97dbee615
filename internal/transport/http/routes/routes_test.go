package routes_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/skabera/TaskManagementSystem/internal/infra/config"
	httproutes "github.com/skabera/TaskManagementSystem/internal/transport/http/routes"
)

func newTestEngine(t *testing.T, deps httproutes.Dependencies) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if deps.Config == nil {
		deps.Config = &config.AppConfig{App: config.AppSettings{Env: "test"}}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return httproutes.Register(deps)
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestEngine(t, httproutes.Dependencies{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/healthz", nil)

	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}

type failingDatabase struct{}

func (failingDatabase) Ping(ctx context.Context) error {
	return errors.New("connection refused")
}

func TestReadinessReportsFailingDependency(t *testing.T) {
	r := newTestEngine(t, httproutes.Dependencies{Database: failingDatabase{}})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/readyz", nil)

	r.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "database") {
		t.Fatalf("expected failing check named in body, got %s", w.Body.String())
	}
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	r := newTestEngine(t, httproutes.Dependencies{})

	for _, path := range []string{"/api/tasks", "/api/projects", "/api/roles"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, path, nil)

		r.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected status 401 for %s, got %d", path, w.Code)
		}
	}
}

func TestMetricsEndpointIsExposed(t *testing.T) {
	r := newTestEngine(t, httproutes.Dependencies{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/metrics", nil)

	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}
