package domain

import "time"

// AuditEntry records a security-relevant or mutating action for later review.
type AuditEntry struct {
	ID         string
	Action     string
	EntityType string
	EntityID   *string
	ActorID    *string
	IP         *string
	UserAgent  *string
	CreatedAt  time.Time
}
