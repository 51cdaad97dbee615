package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	red "github.com/redis/go-redis/v9"

	"github.com/skabera/TaskManagementSystem/internal/repository"
)

func newTestOTPRepository(t *testing.T) (*OTPRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := red.NewClient(&red.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewOTPRepository(client, "taskmg:otp"), mr
}

func TestOTPRepository_StoreAndFetch(t *testing.T) {
	repo, mr := newTestOTPRepository(t)
	fixed := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	repo.WithClock(func() time.Time { return fixed })

	record, err := repo.Store(context.Background(), "login", "acct-1", "654321", 5*time.Minute)
	if err != nil {
		t.Fatalf("Store returned error: %v", err)
	}
	if record.ExpiresAt != fixed.Add(5*time.Minute) {
		t.Fatalf("expected expiry %v, got %v", fixed.Add(5*time.Minute), record.ExpiresAt)
	}

	fetched, err := repo.Fetch(context.Background(), "login", "acct-1")
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if fetched.Code != "654321" {
		t.Fatalf("expected code 654321, got %s", fetched.Code)
	}
	if fetched.Attempts != 0 {
		t.Fatalf("expected zero attempts, got %d", fetched.Attempts)
	}

	ttl := mr.TTL("taskmg:otp:login:acct-1")
	if ttl <= 0 || ttl > 5*time.Minute {
		t.Fatalf("expected ttl within (0, 5m], got %v", ttl)
	}
}

func TestOTPRepository_StoreReplacesPriorCode(t *testing.T) {
	repo, _ := newTestOTPRepository(t)
	fixed := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	repo.WithClock(func() time.Time { return fixed })

	if _, err := repo.Store(context.Background(), "login", "acct-1", "111111", 5*time.Minute); err != nil {
		t.Fatalf("Store returned error: %v", err)
	}
	if _, err := repo.IncrementAttempts(context.Background(), "login", "acct-1"); err != nil {
		t.Fatalf("IncrementAttempts returned error: %v", err)
	}

	if _, err := repo.Store(context.Background(), "login", "acct-1", "222222", 5*time.Minute); err != nil {
		t.Fatalf("Store returned error: %v", err)
	}

	fetched, err := repo.Fetch(context.Background(), "login", "acct-1")
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if fetched.Code != "222222" {
		t.Fatalf("expected replacement code, got %s", fetched.Code)
	}
	if fetched.Attempts != 0 {
		t.Fatalf("expected attempts reset, got %d", fetched.Attempts)
	}
}

func TestOTPRepository_IncrementAttempts(t *testing.T) {
	repo, _ := newTestOTPRepository(t)

	if _, err := repo.Store(context.Background(), "login", "acct-1", "123456", time.Minute); err != nil {
		t.Fatalf("Store returned error: %v", err)
	}

	for want := 1; want <= 3; want++ {
		got, err := repo.IncrementAttempts(context.Background(), "login", "acct-1")
		if err != nil {
			t.Fatalf("IncrementAttempts returned error: %v", err)
		}
		if got != want {
			t.Fatalf("expected attempts %d, got %d", want, got)
		}
	}

	if _, err := repo.IncrementAttempts(context.Background(), "login", "acct-ghost"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOTPRepository_IncrementAttemptsAfterExpiryLeavesNoKey(t *testing.T) {
	repo, mr := newTestOTPRepository(t)

	if _, err := repo.Store(context.Background(), "login", "acct-1", "123456", time.Minute); err != nil {
		t.Fatalf("Store returned error: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := repo.IncrementAttempts(context.Background(), "login", "acct-1"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after expiry, got %v", err)
	}
	if mr.Exists("taskmg:otp:login:acct-1") {
		t.Fatal("expected no key recreated by the failed increment")
	}
}

func TestOTPRepository_IncrementAttemptsKeepsTTL(t *testing.T) {
	repo, mr := newTestOTPRepository(t)

	if _, err := repo.Store(context.Background(), "login", "acct-1", "123456", time.Minute); err != nil {
		t.Fatalf("Store returned error: %v", err)
	}

	if _, err := repo.IncrementAttempts(context.Background(), "login", "acct-1"); err != nil {
		t.Fatalf("IncrementAttempts returned error: %v", err)
	}

	if ttl := mr.TTL("taskmg:otp:login:acct-1"); ttl <= 0 {
		t.Fatalf("expected ttl retained after increment, got %v", ttl)
	}
}

func TestOTPRepository_DeleteIsSingleUse(t *testing.T) {
	repo, _ := newTestOTPRepository(t)

	if _, err := repo.Store(context.Background(), "login", "acct-1", "123456", time.Minute); err != nil {
		t.Fatalf("Store returned error: %v", err)
	}

	if err := repo.Delete(context.Background(), "login", "acct-1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := repo.Delete(context.Background(), "login", "acct-1"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
	if _, err := repo.Fetch(context.Background(), "login", "acct-1"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestOTPRepository_FetchAfterTTLExpiry(t *testing.T) {
	repo, mr := newTestOTPRepository(t)

	if _, err := repo.Store(context.Background(), "login", "acct-1", "123456", time.Minute); err != nil {
		t.Fatalf("Store returned error: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := repo.Fetch(context.Background(), "login", "acct-1"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after expiry, got %v", err)
	}
}

func TestOTPRepository_StoreValidatesInput(t *testing.T) {
	repo, _ := newTestOTPRepository(t)

	if _, err := repo.Store(context.Background(), "", "acct-1", "123456", time.Minute); err == nil {
		t.Fatal("expected error for missing purpose")
	}
	if _, err := repo.Store(context.Background(), "login", "acct-1", "123456", 0); err == nil {
		t.Fatal("expected error for non-positive ttl")
	}
}
