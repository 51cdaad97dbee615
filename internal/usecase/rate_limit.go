package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/skabera/TaskManagementSystem/internal/core/port"
)

// RateLimitExceededError reports a tripped sliding-window limit together
// with the time remaining until the window frees up.
type RateLimitExceededError struct {
	Scope      string
	RetryAfter time.Duration
}

func (e *RateLimitExceededError) Error() string {
	if e == nil {
		return "rate limit exceeded"
	}
	return fmt.Sprintf("rate limit exceeded for %s", e.Scope)
}

// enforceRateLimit applies the sliding window for scope/identifier.
// Store failures degrade open: they are logged and the request proceeds.
func enforceRateLimit(ctx context.Context, store port.RateLimitStore, log *zap.Logger, scope, identifier string, limit int, window time.Duration, now time.Time) error {
	if store == nil || limit <= 0 {
		return nil
	}
	if window <= 0 {
		window = time.Hour
	}

	key := normalizeIdentifierKey(identifier)
	if key == "" {
		return nil
	}

	if err := store.TrimWindow(ctx, scope, key, window, now); err != nil {
		log.Warn("rate limit trim failed", zap.String("scope", scope), zap.Error(err))
		return nil
	}

	count, err := store.CountAttempts(ctx, scope, key, window, now)
	if err != nil {
		log.Warn("rate limit count failed", zap.String("scope", scope), zap.Error(err))
		return nil
	}

	if count >= limit {
		retryAfter := time.Duration(0)
		if oldest, ok, err := store.OldestAttempt(ctx, scope, key, window, now); err == nil && ok {
			reset := oldest.Add(window)
			if reset.After(now) {
				retryAfter = reset.Sub(now)
			}
		} else if err != nil {
			log.Warn("rate limit oldest lookup failed", zap.String("scope", scope), zap.Error(err))
		}
		return &RateLimitExceededError{Scope: scope, RetryAfter: retryAfter}
	}

	if err := store.RecordAttempt(ctx, scope, key, now); err != nil {
		log.Warn("rate limit record failed", zap.String("scope", scope), zap.Error(err))
	}

	return nil
}

func normalizeIdentifierKey(identifier string) string {
	return strings.ToLower(strings.TrimSpace(identifier))
}
