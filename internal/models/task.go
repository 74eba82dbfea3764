package models

import "time"

// Task represents a single task record. UserID is stamped from the
// authenticated identity at creation and is never writable afterwards.
type Task struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsCompleted bool      `json:"isCompleted"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ResourceID identifies the task for authorization decisions.
func (t Task) ResourceID() int64 { return t.ID }

// OwnerID reports the recorded owner for authorization decisions.
func (t Task) OwnerID() int64 { return t.UserID }
