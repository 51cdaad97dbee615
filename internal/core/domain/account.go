package domain

import (
	"strings"
	"time"
)

// AccountStatus enumerates possible account states.
type AccountStatus string

const (
	AccountStatusPending  AccountStatus = "pending"
	AccountStatusActive   AccountStatus = "active"
	AccountStatusDisabled AccountStatus = "disabled"
)

// Account mirrors the persisted representation in the accounts table.
type Account struct {
	ID               string
	Email            string
	FirstName        string
	LastName         string
	PasswordHash     string
	PasswordAlgo     string
	Status           AccountStatus
	TwoFactorEnabled bool
	EmailVerified    bool
	IsActive         bool
	CreatedAt        time.Time
	LastLogin        *time.Time
}

// DisplayName joins first and last name, trimming surrounding whitespace.
// Returns the empty string when both parts are absent.
func (a Account) DisplayName() string {
	return strings.TrimSpace(strings.TrimSpace(a.FirstName) + " " + strings.TrimSpace(a.LastName))
}

// RefreshToken represents a persisted refresh token (stored as a hash).
type RefreshToken struct {
	ID        string
	AccountID string
	TokenHash string
	IP        *string
	UserAgent *string
	CreatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
}
