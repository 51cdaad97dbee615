package domain

import "time"

// Role represents a named role assignable to accounts.
type Role struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}

// AccountRole links an account to a role.
type AccountRole struct {
	AccountID  string
	RoleID     string
	AssignedAt time.Time
}
