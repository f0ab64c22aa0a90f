package models

import (
	"time"
)

type Notification struct {
	ID        string    `json:"id" db:"id"`
	ChildID   string    `json:"child_id" db:"child_id"`
	Message   string    `json:"message" db:"message"`
	IsRead    bool      `json:"is_read" db:"is_read"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
