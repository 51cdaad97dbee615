package port

import (
	"context"
	"time"
)

// OTPRecord is a stored one-time passcode with its verification state.
type OTPRecord struct {
	Purpose    string
	Identifier string
	Code       string
	Attempts   int
	CreatedAt  time.Time
	ExpiresAt  time.Time
}

// OTPStore persists short-lived one-time passcodes. Store replaces any
// prior code for the same purpose/identifier atomically; Delete enforces
// single-use semantics.
type OTPStore interface {
	Store(ctx context.Context, purpose, identifier, code string, ttl time.Duration) (*OTPRecord, error)
	Fetch(ctx context.Context, purpose, identifier string) (*OTPRecord, error)
	IncrementAttempts(ctx context.Context, purpose, identifier string) (int, error)
	Delete(ctx context.Context, purpose, identifier string) error
}
