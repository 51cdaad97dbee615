package port

import (
	"context"
	"time"
)

// RateLimitStore persists sliding-window attempt counters. Attempts are
// bucketed per scope (the guarded operation, e.g. "login") and
// identifier (the actor being throttled); the store owns how the pair
// maps onto storage keys.
type RateLimitStore interface {
	RecordAttempt(ctx context.Context, scope, identifier string, at time.Time) error
	CountAttempts(ctx context.Context, scope, identifier string, window time.Duration, reference time.Time) (int, error)
	TrimWindow(ctx context.Context, scope, identifier string, window time.Duration, reference time.Time) error
	OldestAttempt(ctx context.Context, scope, identifier string, window time.Duration, reference time.Time) (time.Time, bool, error)
}
