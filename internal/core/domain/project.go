package domain

import "time"

// Project mirrors the persisted representation in the projects table.
type Project struct {
	ID          string
	Name        string
	Description string
	StartDate   *time.Time
	EndDate     *time.Time
	CreatedAt   time.Time
}
