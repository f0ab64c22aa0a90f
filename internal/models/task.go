package models

import (
	"time"
)

type Task struct {
	ID          string     `json:"id" db:"id"`
	ParentID    string     `json:"parent_id" db:"parent_id"`
	ChildID     string     `json:"child_id" db:"child_id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	DueDate     *time.Time `json:"due_date,omitempty" db:"due_date"`
	XPReward    int        `json:"xp_reward" db:"xp_reward"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// TaskWithStatus is a task joined with the counterpart's display name and the
// status derived from the child's submission. Tasks have no status column of
// their own; a task with no submission row reads as "not_submitted".
type TaskWithStatus struct {
	Task
	ChildName        string `json:"child_name,omitempty" db:"child_name"`
	ParentName       string `json:"parent_name,omitempty" db:"parent_name"`
	SubmissionStatus string `json:"submission_status" db:"submission_status"`
}

const StatusNotSubmitted = "not_submitted"
