package port

import (
	"context"

	"github.com/skabera/TaskManagementSystem/internal/core/domain"
)

// EventPublisher fans domain events out to downstream consumers. OTP
// issuance events feed the mailer service; publish failures are logged
// by callers and never fail the originating request.
type EventPublisher interface {
	PublishAccountRegistered(ctx context.Context, event domain.AccountRegisteredEvent) error
	PublishOTPIssued(ctx context.Context, event domain.OTPIssuedEvent) error
	PublishLoginSucceeded(ctx context.Context, event domain.LoginSucceededEvent) error
}
