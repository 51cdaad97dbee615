package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/skabera/TaskManagementSystem/internal/core/domain"
	"github.com/skabera/TaskManagementSystem/internal/core/port"
	"github.com/skabera/TaskManagementSystem/internal/infra/logger"
)

// StubPublisher logs events instead of sending them to Kafka. Useful
// when no broker is configured, typically in development.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a log-only event publisher.
func NewStubPublisher(log *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: log}
}

func (p *StubPublisher) logEvent(eventType, accountID string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("stub event published",
		zap.String("event_type", eventType),
		zap.String("account_id", accountID),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishAccountRegistered logs tasks.account.registered events.
func (p *StubPublisher) PublishAccountRegistered(_ context.Context, event domain.AccountRegisteredEvent) error {
	payload := map[string]any{
		"account_id":    event.AccountID,
		"email":         logger.MaskEmail(event.Email),
		"registered_at": event.RegisteredAt,
		"metadata":      event.Metadata,
	}
	p.logEvent("tasks.account.registered", event.AccountID, event.RegisteredAt, payload)
	return nil
}

// PublishOTPIssued logs tasks.auth.otp.issued events. The code itself
// is not logged.
func (p *StubPublisher) PublishOTPIssued(_ context.Context, event domain.OTPIssuedEvent) error {
	payload := map[string]any{
		"account_id": event.AccountID,
		"email":      logger.MaskEmail(event.Email),
		"purpose":    event.Purpose,
		"issued_at":  event.IssuedAt,
		"expires_at": event.ExpiresAt,
	}
	p.logEvent("tasks.auth.otp.issued", event.AccountID, event.IssuedAt, payload)
	return nil
}

// PublishLoginSucceeded logs tasks.auth.login.succeeded events.
func (p *StubPublisher) PublishLoginSucceeded(_ context.Context, event domain.LoginSucceededEvent) error {
	payload := map[string]any{
		"account_id": event.AccountID,
		"email":      logger.MaskEmail(event.Email),
		"login_at":   event.LoginAt,
	}
	p.logEvent("tasks.auth.login.succeeded", event.AccountID, event.LoginAt, payload)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
