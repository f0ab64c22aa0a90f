package models

// SubmissionReviewedEvent is published after a review transaction commits.
type SubmissionReviewedEvent struct {
	SubmissionID string `json:"submission_id"`
	TaskID       string `json:"task_id"`
	ChildID      string `json:"child_id"`
	Status       string `json:"status"`
	XPAwarded    int    `json:"xp_awarded"`
	Timestamp    int64  `json:"timestamp"`
}
