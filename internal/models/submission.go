package models

import (
	"fmt"
	"time"
)

type Submission struct {
	ID             string     `json:"id" db:"id"`
	TaskID         string     `json:"task_id" db:"task_id"`
	ChildID        string     `json:"child_id" db:"child_id"`
	SubmissionText string     `json:"submission_text" db:"submission_text"`
	FileURL        *string    `json:"file_url,omitempty" db:"file_url"`
	Status         string     `json:"status" db:"status"` // pending, approved, rejected
	Feedback       *string    `json:"feedback,omitempty" db:"feedback"`
	SubmittedAt    time.Time  `json:"submitted_at" db:"submitted_at"`
	ReviewedAt     *time.Time `json:"reviewed_at,omitempty" db:"reviewed_at"`
}

type SubmissionWithTask struct {
	Submission
	TaskTitle string `json:"task_title" db:"task_title"`
	XPReward  int    `json:"xp_reward" db:"xp_reward"`
	ChildName string `json:"child_name" db:"child_name"`
}

type SubmissionStatus string

const (
	SubmissionStatusPending  SubmissionStatus = "pending"
	SubmissionStatusApproved SubmissionStatus = "approved"
	SubmissionStatusRejected SubmissionStatus = "rejected"
)

func (s SubmissionStatus) String() string {
	return string(s)
}

// IsValidReviewStatus reports whether status is an allowed review decision.
// Only approved and rejected are decisions; pending is the initial state.
func IsValidReviewStatus(status string) bool {
	switch status {
	case "approved", "rejected":
		return true
	default:
		return false
	}
}

// ReviewTarget carries the task and child a review acts on, looked up inside
// the review transaction.
type ReviewTarget struct {
	TaskID    string
	TaskTitle string
	XPReward  int
	ChildID   string
}

// ApprovalMessage is the notification text for an approved submission.
func ApprovalMessage(taskTitle string, xpAwarded int) string {
	return fmt.Sprintf("Your submission for %q has been approved! You earned %d XP.", taskTitle, xpAwarded)
}

// RejectionMessage is the notification text for a rejected submission. The
// parent's feedback is included when present.
func RejectionMessage(taskTitle, feedback string) string {
	if feedback != "" {
		return fmt.Sprintf("Your submission for %q was not approved: %s", taskTitle, feedback)
	}
	return fmt.Sprintf("Your submission for %q was not approved. Check the feedback from your parent.", taskTitle)
}
