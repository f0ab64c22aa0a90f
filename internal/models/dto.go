package models

import "time"

// Data Transfer Objects

type SignupParentRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8"`
}

type SignupChildRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8"`
	ParentID string `json:"parent_id" validate:"required,uuid"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	User      *User     `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type CreateTaskRequest struct {
	ParentID    string     `json:"parent_id" validate:"required,uuid"`
	ChildID     string     `json:"child_id" validate:"required,uuid"`
	Title       string     `json:"title" validate:"required,min=1,max=255"`
	Description string     `json:"description" validate:"max=1000"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	XPReward    int        `json:"xp_reward" validate:"required,gt=0"`
}

type CreateSubmissionRequest struct {
	TaskID         string `json:"task_id" validate:"required,uuid"`
	ChildID        string `json:"child_id" validate:"required,uuid"`
	SubmissionText string `json:"submission_text"`
	FileContent    []byte `json:"-"`
	FileName       string `json:"-"`
}

type ReviewSubmissionRequest struct {
	Status   string `json:"status" validate:"required,oneof=approved rejected"`
	Feedback string `json:"feedback"`
}

// StatusCount is one row of a child's per-status submission breakdown.
type StatusCount struct {
	Status  string   `json:"status"`
	Count   int      `json:"count"`
	TaskIDs []string `json:"task_ids"`
}

type ChildSummary struct {
	ChildID   string        `json:"child_id"`
	ChildName string        `json:"child_name"`
	TotalXP   int           `json:"total_xp"`
	Level     int           `json:"level"`
	Statuses  []StatusCount `json:"statuses"`
}

type ParentSummary struct {
	ParentID string         `json:"parent_id"`
	Approved int            `json:"approved"`
	Rejected int            `json:"rejected"`
	Pending  int            `json:"pending"`
	TotalXP  int            `json:"total_xp"`
	Children []ChildSummary `json:"children"`
}

type SubmissionStateResponse struct {
	Submitted bool   `json:"submitted"`
	Status    string `json:"status,omitempty"`
}

type XPResponse struct {
	UserID  string `json:"user_id"`
	TotalXP int    `json:"total_xp"`
	Level   int    `json:"level"`
}
