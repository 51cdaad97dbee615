package domain

import "time"

// Comment mirrors the persisted representation in the comments table.
type Comment struct {
	ID        string
	TaskID    string
	AuthorID  string
	Content   string
	CreatedAt time.Time
}
