package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skabera/TaskManagementSystem/internal/infra/logger"
)

const (
	traceHeader = "X-Trace-ID"
	// Some clients still send the older correlation header; it is
	// accepted as a trace ID so their logs line up with ours.
	legacyTraceHeader = "X-Request-ID"

	requestContextKey = "taskmg_request_context"
)

// RequestContext carries the per-request metadata the transport layer
// hands down to usecases: the trace ID echoed back to the client, and
// the caller identity once RequireAuth resolves it.
type RequestContext struct {
	TraceID   string
	AccountID string
	IP        string
	UserAgent string
}

// EnrichContext establishes the request's trace identity. One ID serves
// the whole request: read from X-Trace-ID or the legacy X-Request-ID,
// generated when absent, echoed on the response, and planted on the
// request context so logger.WithContext sees it outside the transport
// layer.
func EnrichContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := strings.TrimSpace(c.GetHeader(traceHeader))
		if traceID == "" {
			traceID = strings.TrimSpace(c.GetHeader(legacyTraceHeader))
		}
		if traceID == "" {
			traceID = uuid.NewString()
		}

		c.Header(traceHeader, traceID)
		c.Set(requestContextKey, &RequestContext{
			TraceID:   traceID,
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		})
		c.Request = c.Request.WithContext(logger.WithTraceID(c.Request.Context(), traceID))

		c.Next()
	}
}

// GetTraceID returns the request's trace ID, or "" before EnrichContext ran.
func GetTraceID(c *gin.Context) string {
	return GetRequestContext(c).TraceID
}

// GetRequestContext never returns nil; without enrichment it yields an
// empty context so callers can read fields unconditionally.
func GetRequestContext(c *gin.Context) *RequestContext {
	if v, ok := c.Get(requestContextKey); ok {
		if reqCtx, ok := v.(*RequestContext); ok {
			return reqCtx
		}
	}
	return &RequestContext{}
}
