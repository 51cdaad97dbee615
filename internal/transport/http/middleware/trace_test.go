package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/skabera/TaskManagementSystem/internal/infra/logger"
)

func TestEnrichContextGeneratesTraceID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var seen *RequestContext
	var ctxTraceID string

	router := gin.New()
	router.Use(EnrichContext())
	router.GET("/ping", func(c *gin.Context) {
		seen = GetRequestContext(c)
		ctxTraceID = logger.TraceID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("User-Agent", "taskmg-tests/1.0")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	echoed := rr.Header().Get("X-Trace-ID")
	if echoed == "" {
		t.Fatal("expected generated trace ID echoed on response")
	}
	if seen == nil || seen.TraceID != echoed {
		t.Fatalf("expected request context trace %q, got %+v", echoed, seen)
	}
	if ctxTraceID != echoed {
		t.Fatalf("expected trace ID on request context, got %q", ctxTraceID)
	}
	if seen.UserAgent != "taskmg-tests/1.0" {
		t.Fatalf("expected user agent captured, got %q", seen.UserAgent)
	}
}

func TestEnrichContextHonorsInboundTraceHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(EnrichContext())
	router.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	cases := []struct {
		name   string
		header string
		value  string
	}{
		{name: "trace header", header: "X-Trace-ID", value: "trace-from-client"},
		{name: "legacy request header", header: "X-Request-ID", value: "legacy-correlation"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			req.Header.Set(tc.header, tc.value)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			if got := rr.Header().Get("X-Trace-ID"); got != tc.value {
				t.Fatalf("expected trace ID %q echoed, got %q", tc.value, got)
			}
		})
	}
}

func TestGetRequestContextWithoutEnrichment(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/ping", nil)

	reqCtx := GetRequestContext(c)
	if reqCtx == nil {
		t.Fatal("expected non-nil request context")
	}
	if reqCtx.TraceID != "" || reqCtx.AccountID != "" {
		t.Fatalf("expected empty request context, got %+v", reqCtx)
	}
	if GetTraceID(c) != "" {
		t.Fatal("expected empty trace ID without enrichment")
	}
}
