package service

import "errors"

// Sentinel errors translated to HTTP statuses at the delivery boundary.
var (
	ErrParentNotFound       = errors.New("parent not found")
	ErrChildNotFound        = errors.New("child not found")
	ErrTaskNotFound         = errors.New("task not found")
	ErrSubmissionNotFound   = errors.New("submission not found")
	ErrNotificationNotFound = errors.New("notification not found")

	ErrInvalidRole         = errors.New("invalid role")
	ErrInvalidReviewStatus = errors.New("invalid review status")
	ErrMissingField        = errors.New("missing required field")
	ErrInvalidArgument     = errors.New("invalid argument")

	ErrDuplicateSubmission = errors.New("submission already exists for this task")
	ErrAlreadyReviewed     = errors.New("submission has already been reviewed")
	ErrEmailTaken          = errors.New("email is already registered")

	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrFileTooLarge    = errors.New("file size exceeds limit")
	ErrFileTypeBlocked = errors.New("file type not allowed")
)
