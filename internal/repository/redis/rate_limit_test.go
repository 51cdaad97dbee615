package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	red "github.com/redis/go-redis/v9"
)

func newTestRateLimitRepository(t *testing.T) (*RateLimitRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := red.NewClient(&red.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	repo := NewRateLimitRepository(client, "taskmg:rate-limit", 2*time.Minute)
	return repo, mr
}

func TestRateLimitRepository_RecordAndCount(t *testing.T) {
	repo, _ := newTestRateLimitRepository(t)
	reference := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		at := reference.Add(-time.Duration(i*10) * time.Second)
		if err := repo.RecordAttempt(context.Background(), "login", "203.0.113.50", at); err != nil {
			t.Fatalf("RecordAttempt returned error: %v", err)
		}
	}

	count, err := repo.CountAttempts(context.Background(), "login", "203.0.113.50", time.Minute, reference)
	if err != nil {
		t.Fatalf("CountAttempts returned error: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 attempts, got %d", count)
	}
}

func TestRateLimitRepository_ScopesAreIsolated(t *testing.T) {
	repo, mr := newTestRateLimitRepository(t)
	reference := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	if err := repo.RecordAttempt(context.Background(), "login", "203.0.113.50", reference); err != nil {
		t.Fatalf("RecordAttempt returned error: %v", err)
	}
	if err := repo.RecordAttempt(context.Background(), "register", "203.0.113.50", reference); err != nil {
		t.Fatalf("RecordAttempt returned error: %v", err)
	}

	if !mr.Exists("taskmg:rate-limit:login:203.0.113.50") {
		t.Fatal("expected per-scope key for login attempts")
	}

	count, err := repo.CountAttempts(context.Background(), "register", "203.0.113.50", time.Minute, reference)
	if err != nil {
		t.Fatalf("CountAttempts returned error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected register scope untouched by login attempts, got %d", count)
	}
}

func TestRateLimitRepository_CountExcludesAttemptsOutsideWindow(t *testing.T) {
	repo, _ := newTestRateLimitRepository(t)
	reference := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	if err := repo.RecordAttempt(context.Background(), "login", "203.0.113.50", reference.Add(-2*time.Minute)); err != nil {
		t.Fatalf("RecordAttempt returned error: %v", err)
	}
	if err := repo.RecordAttempt(context.Background(), "login", "203.0.113.50", reference.Add(-30*time.Second)); err != nil {
		t.Fatalf("RecordAttempt returned error: %v", err)
	}

	count, err := repo.CountAttempts(context.Background(), "login", "203.0.113.50", time.Minute, reference)
	if err != nil {
		t.Fatalf("CountAttempts returned error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected only in-window attempt, got %d", count)
	}
}

func TestRateLimitRepository_TrimWindowDropsStaleAttempts(t *testing.T) {
	repo, _ := newTestRateLimitRepository(t)
	reference := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	stale := reference.Add(-5 * time.Minute)
	fresh := reference.Add(-20 * time.Second)
	if err := repo.RecordAttempt(context.Background(), "register", "user", stale); err != nil {
		t.Fatalf("RecordAttempt returned error: %v", err)
	}
	if err := repo.RecordAttempt(context.Background(), "register", "user", fresh); err != nil {
		t.Fatalf("RecordAttempt returned error: %v", err)
	}

	if err := repo.TrimWindow(context.Background(), "register", "user", time.Minute, reference); err != nil {
		t.Fatalf("TrimWindow returned error: %v", err)
	}

	count, err := repo.CountAttempts(context.Background(), "register", "user", time.Hour, reference)
	if err != nil {
		t.Fatalf("CountAttempts returned error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected stale attempt removed, got %d remaining", count)
	}
}

func TestRateLimitRepository_OldestAttempt(t *testing.T) {
	repo, _ := newTestRateLimitRepository(t)
	reference := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	oldest := reference.Add(-45 * time.Second)
	if err := repo.RecordAttempt(context.Background(), "verify", "user", oldest); err != nil {
		t.Fatalf("RecordAttempt returned error: %v", err)
	}
	if err := repo.RecordAttempt(context.Background(), "verify", "user", reference.Add(-5*time.Second)); err != nil {
		t.Fatalf("RecordAttempt returned error: %v", err)
	}

	got, ok, err := repo.OldestAttempt(context.Background(), "verify", "user", time.Minute, reference)
	if err != nil {
		t.Fatalf("OldestAttempt returned error: %v", err)
	}
	if !ok {
		t.Fatal("expected an attempt inside the window")
	}
	if !got.Equal(oldest) {
		t.Fatalf("expected oldest %v, got %v", oldest, got)
	}
}

func TestRateLimitRepository_OldestAttemptEmptyWindow(t *testing.T) {
	repo, _ := newTestRateLimitRepository(t)
	reference := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	_, ok, err := repo.OldestAttempt(context.Background(), "verify", "nobody", time.Minute, reference)
	if err != nil {
		t.Fatalf("OldestAttempt returned error: %v", err)
	}
	if ok {
		t.Fatal("expected no attempt for empty window")
	}
}

func TestRateLimitRepository_RejectsNonPositiveWindow(t *testing.T) {
	repo, _ := newTestRateLimitRepository(t)
	reference := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	if _, err := repo.CountAttempts(context.Background(), "login", "user", 0, reference); err == nil {
		t.Fatal("expected error for zero window")
	}
	if err := repo.TrimWindow(context.Background(), "login", "user", 0, reference); err == nil {
		t.Fatal("expected error for zero window")
	}
	if _, _, err := repo.OldestAttempt(context.Background(), "login", "user", 0, reference); err == nil {
		t.Fatal("expected error for zero window")
	}
}

func TestRateLimitRepository_RejectsMissingScope(t *testing.T) {
	repo, _ := newTestRateLimitRepository(t)
	reference := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	if err := repo.RecordAttempt(context.Background(), "", "user", reference); err == nil {
		t.Fatal("expected error for missing scope")
	}
	if err := repo.RecordAttempt(context.Background(), "login", "  ", reference); err == nil {
		t.Fatal("expected error for missing identifier")
	}
}
