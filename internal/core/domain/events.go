package domain

import "time"

// AccountRegisteredEvent is emitted after a new account is persisted.
type AccountRegisteredEvent struct {
	EventID      string
	AccountID    string
	Email        string
	RegisteredAt time.Time
	Metadata     map[string]any
}

// OTPIssuedEvent carries a one-time passcode for downstream email delivery.
// The auth state is committed before this event is published; delivery
// failures never roll back the passcode.
type OTPIssuedEvent struct {
	EventID   string
	AccountID string
	Email     string
	Code      string
	Purpose   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// LoginSucceededEvent is emitted after a session is issued.
type LoginSucceededEvent struct {
	EventID   string
	AccountID string
	Email     string
	IP        *string
	UserAgent *string
	LoginAt   time.Time
}
