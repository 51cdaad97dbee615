package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	red "github.com/redis/go-redis/v9"

	"github.com/skabera/TaskManagementSystem/internal/core/port"
)

const defaultRateLimitPrefix = "rate-limit"

// RateLimitRepository keeps one sorted set per scope/identifier pair,
// with attempt timestamps (nanoseconds) as both member and score. Scores
// stay exact integers so window bounds never suffer float rounding.
type RateLimitRepository struct {
	client *red.Client
	prefix string
	ttl    time.Duration
}

// NewRateLimitRepository constructs a rate limit repository. The TTL
// caps how long an idle scope/identifier set lingers; it should exceed
// the widest enforcement window.
func NewRateLimitRepository(client *red.Client, keyPrefix string, ttl time.Duration) *RateLimitRepository {
	prefix := strings.TrimSpace(keyPrefix)
	if prefix == "" {
		prefix = defaultRateLimitPrefix
	}

	return &RateLimitRepository{client: client, prefix: prefix, ttl: ttl}
}

// RecordAttempt appends an attempt timestamp and refreshes the set TTL
// in a single round trip.
func (r *RateLimitRepository) RecordAttempt(ctx context.Context, scope, identifier string, at time.Time) error {
	key := r.key(scope, identifier)
	if key == "" {
		return errors.New("scope and identifier are required")
	}

	nanos := at.UnixNano()

	pipe := r.client.TxPipeline()
	pipe.ZAdd(ctx, key, red.Z{Score: float64(nanos), Member: strconv.FormatInt(nanos, 10)})
	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis record attempt: %w", err)
	}

	return nil
}

// CountAttempts reports how many attempts fall inside the window ending
// at reference.
func (r *RateLimitRepository) CountAttempts(ctx context.Context, scope, identifier string, window time.Duration, reference time.Time) (int, error) {
	key, lo, hi, err := r.windowBounds(scope, identifier, window, reference)
	if err != nil {
		return 0, err
	}

	count, err := r.client.ZCount(ctx, key, lo, hi).Result()
	if err != nil {
		return 0, fmt.Errorf("redis count attempts: %w", err)
	}

	return int(count), nil
}

// TrimWindow drops attempts that slid out of the window ending at
// reference.
func (r *RateLimitRepository) TrimWindow(ctx context.Context, scope, identifier string, window time.Duration, reference time.Time) error {
	key, lo, _, err := r.windowBounds(scope, identifier, window, reference)
	if err != nil {
		return err
	}

	if err := r.client.ZRemRangeByScore(ctx, key, "-inf", lo).Err(); err != nil {
		return fmt.Errorf("redis trim window: %w", err)
	}

	return nil
}

// OldestAttempt returns the earliest attempt still inside the window,
// which callers use to compute the retry-after hint.
func (r *RateLimitRepository) OldestAttempt(ctx context.Context, scope, identifier string, window time.Duration, reference time.Time) (time.Time, bool, error) {
	key, lo, hi, err := r.windowBounds(scope, identifier, window, reference)
	if err != nil {
		return time.Time{}, false, err
	}

	members, err := r.client.ZRangeByScore(ctx, key, &red.ZRangeBy{Min: lo, Max: hi, Count: 1}).Result()
	if err != nil {
		return time.Time{}, false, fmt.Errorf("redis oldest attempt: %w", err)
	}
	if len(members) == 0 {
		return time.Time{}, false, nil
	}

	nanos, err := strconv.ParseInt(members[0], 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse attempt timestamp: %w", err)
	}

	return time.Unix(0, nanos), true, nil
}

func (r *RateLimitRepository) windowBounds(scope, identifier string, window time.Duration, reference time.Time) (key, lo, hi string, err error) {
	key = r.key(scope, identifier)
	if key == "" {
		return "", "", "", errors.New("scope and identifier are required")
	}
	if window <= 0 {
		return "", "", "", errors.New("window must be positive")
	}

	lo = strconv.FormatInt(reference.Add(-window).UnixNano(), 10)
	hi = strconv.FormatInt(reference.UnixNano(), 10)
	return key, lo, hi, nil
}

func (r *RateLimitRepository) key(scope, identifier string) string {
	scope = strings.TrimSpace(scope)
	identifier = strings.TrimSpace(identifier)
	if scope == "" || identifier == "" {
		return ""
	}
	return fmt.Sprintf("%s:%s:%s", r.prefix, scope, identifier)
}

var _ port.RateLimitStore = (*RateLimitRepository)(nil)
