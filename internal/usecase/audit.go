package usecase

import (
	"context"
	"fmt"

	"github.com/skabera/TaskManagementSystem/internal/core/domain"
	"github.com/skabera/TaskManagementSystem/internal/core/port"
)

// AuditService exposes read access to the audit log.
type AuditService struct {
	audit port.AuditRepository
}

// NewAuditService constructs an AuditService instance.
func NewAuditService(audit port.AuditRepository) *AuditService {
	return &AuditService{audit: audit}
}

// List returns audit entries newest first.
func (s *AuditService) List(ctx context.Context, limit, offset int) ([]domain.AuditEntry, error) {
	entries, err := s.audit.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	return entries, nil
}
