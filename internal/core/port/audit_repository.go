package port

import (
	"context"

	"github.com/skabera/TaskManagementSystem/internal/core/domain"
)

// AuditRepository abstracts persistence for the audit log.
type AuditRepository interface {
	Record(ctx context.Context, entry domain.AuditEntry) error
	List(ctx context.Context, limit, offset int) ([]domain.AuditEntry, error)
}
