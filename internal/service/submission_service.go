package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gameup-app/gameup-backend/internal/models"
	"github.com/gameup-app/gameup-backend/internal/repository"
	"github.com/gameup-app/gameup-backend/internal/service/integration"
	"github.com/gameup-app/gameup-backend/internal/service/storage"
)

type SubmissionService interface {
	CreateSubmission(ctx context.Context, req *models.CreateSubmissionRequest) (*models.Submission, error)
	ReviewSubmission(ctx context.Context, submissionID string, req *models.ReviewSubmissionRequest) (*models.Submission, error)
	GetSubmissionByID(ctx context.Context, id string) (*models.Submission, error)
	GetSubmissionsByChild(ctx context.Context, childID string) ([]models.SubmissionWithTask, error)
	GetSubmissionsByTask(ctx context.Context, taskID string) ([]models.SubmissionWithTask, error)
	GetSubmissionsByParent(ctx context.Context, parentID string, pendingOnly bool) ([]models.SubmissionWithTask, error)
	GetSubmissionState(ctx context.Context, taskID, childID string) (*models.SubmissionStateResponse, error)
}

type UploadPolicy struct {
	MaxSize           int64
	AllowedExtensions []string
}

type submissionService struct {
	submissionRepo repository.SubmissionRepository
	taskRepo       repository.TaskRepository
	userRepo       repository.UserRepository
	store          storage.Storage
	events         integration.EventPublisher
	policy         UploadPolicy
	logger         zerolog.Logger
}

func NewSubmissionService(
	submissionRepo repository.SubmissionRepository,
	taskRepo repository.TaskRepository,
	userRepo repository.UserRepository,
	store storage.Storage,
	events integration.EventPublisher,
	policy UploadPolicy,
	logger zerolog.Logger,
) SubmissionService {
	return &submissionService{
		submissionRepo: submissionRepo,
		taskRepo:       taskRepo,
		userRepo:       userRepo,
		store:          store,
		events:         events,
		policy:         policy,
		logger:         logger,
	}
}

func (s *submissionService) CreateSubmission(ctx context.Context, req *models.CreateSubmissionRequest) (*models.Submission, error) {
	if req.TaskID == "" || req.ChildID == "" {
		return nil, fmt.Errorf("%w: task_id and child_id are required", ErrMissingField)
	}

	task, err := s.taskRepo.GetByID(ctx, req.TaskID)
	if err != nil {
		return nil, fmt.Errorf("failed to check task existence: %w", err)
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}

	childExists, err := s.userRepo.Exists(ctx, req.ChildID, models.RoleChild.String())
	if err != nil {
		return nil, fmt.Errorf("failed to check child existence: %w", err)
	}
	if !childExists {
		return nil, ErrChildNotFound
	}

	var fileURL *string
	if len(req.FileContent) > 0 {
		if err := s.validateAttachment(req.FileName, req.FileContent); err != nil {
			return nil, err
		}

		url, err := s.store.Save(ctx, req.FileName, req.FileContent)
		if err != nil {
			return nil, fmt.Errorf("failed to store attachment: %w", err)
		}
		fileURL = &url
	}

	submission := &models.Submission{
		ID:             uuid.New().String(),
		TaskID:         req.TaskID,
		ChildID:        req.ChildID,
		SubmissionText: req.SubmissionText,
		FileURL:        fileURL,
		Status:         models.SubmissionStatusPending.String(),
		SubmittedAt:    time.Now(),
	}

	if err := s.submissionRepo.Create(ctx, submission); err != nil {
		// The stored attachment is orphaned if the insert did not land.
		if fileURL != nil {
			if delErr := s.store.Delete(ctx, *fileURL); delErr != nil {
				s.logger.Error().Err(delErr).Str("file_url", *fileURL).Msg("Failed to delete orphaned attachment")
			}
		}
		// The unique index on (task_id, child_id) is the duplicate guard;
		// a violation means the child already submitted for this task.
		if repository.IsUniqueViolation(err) {
			return nil, ErrDuplicateSubmission
		}
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}

	s.logger.Info().
		Str("submission_id", submission.ID).
		Str("task_id", submission.TaskID).
		Str("child_id", submission.ChildID).
		Bool("has_file", fileURL != nil).
		Msg("Submission created")

	return submission, nil
}

func (s *submissionService) validateAttachment(fileName string, content []byte) error {
	if int64(len(content)) > s.policy.MaxSize {
		return fmt.Errorf("%w: %d bytes exceeds the %d byte limit", ErrFileTooLarge, len(content), s.policy.MaxSize)
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	for _, allowed := range s.policy.AllowedExtensions {
		if ext == allowed {
			return nil
		}
	}

	return fmt.Errorf("%w: %s", ErrFileTypeBlocked, ext)
}

// ReviewSubmission transitions a pending submission to approved or rejected.
// The status update, XP award and notification insert share one transaction;
// a submission that is no longer pending is a conflict, never a double award.
func (s *submissionService) ReviewSubmission(ctx context.Context, submissionID string, req *models.ReviewSubmissionRequest) (*models.Submission, error) {
	if !models.IsValidReviewStatus(req.Status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidReviewStatus, req.Status)
	}

	existing, err := s.submissionRepo.GetByID(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	if existing == nil {
		return nil, ErrSubmissionNotFound
	}
	if existing.Status != models.SubmissionStatusPending.String() {
		return nil, ErrAlreadyReviewed
	}

	tx, err := s.submissionRepo.BeginReview(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin review: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	transitioned, err := tx.MarkReviewed(ctx, submissionID, req.Status, req.Feedback)
	if err != nil {
		return nil, fmt.Errorf("failed to update submission: %w", err)
	}
	if !transitioned {
		// Lost a race with a concurrent review.
		return nil, ErrAlreadyReviewed
	}

	target, err := tx.Target(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve review target: %w", err)
	}
	if target == nil {
		return nil, ErrTaskNotFound
	}

	xpAwarded := 0
	var message string
	if req.Status == models.SubmissionStatusApproved.String() {
		credited, err := tx.AddXP(ctx, target.ChildID, target.XPReward)
		if err != nil {
			return nil, fmt.Errorf("failed to award XP: %w", err)
		}
		if !credited {
			return nil, ErrChildNotFound
		}
		xpAwarded = target.XPReward
		message = models.ApprovalMessage(target.TaskTitle, target.XPReward)
	} else {
		message = models.RejectionMessage(target.TaskTitle, req.Feedback)
	}

	notification := &models.Notification{
		ID:        uuid.New().String(),
		ChildID:   target.ChildID,
		Message:   message,
		CreatedAt: time.Now(),
	}
	if err := tx.InsertNotification(ctx, notification); err != nil {
		return nil, fmt.Errorf("failed to insert notification: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit review: %w", err)
	}
	committed = true

	s.logger.Info().
		Str("submission_id", submissionID).
		Str("status", req.Status).
		Int("xp_awarded", xpAwarded).
		Msg("Submission reviewed")

	s.publishReviewed(ctx, submissionID, target, req.Status, xpAwarded)

	updated, err := s.submissionRepo.GetByID(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload submission: %w", err)
	}

	return updated, nil
}

func (s *submissionService) publishReviewed(ctx context.Context, submissionID string, target *models.ReviewTarget, status string, xpAwarded int) {
	if s.events == nil {
		return
	}

	event := &models.SubmissionReviewedEvent{
		SubmissionID: submissionID,
		TaskID:       target.TaskID,
		ChildID:      target.ChildID,
		Status:       status,
		XPAwarded:    xpAwarded,
		Timestamp:    time.Now().Unix(),
	}

	if err := s.events.PublishSubmissionReviewed(ctx, event); err != nil {
		s.logger.Error().Err(err).Msg("Failed to publish submission reviewed event")
	}
}

func (s *submissionService) GetSubmissionByID(ctx context.Context, id string) (*models.Submission, error) {
	submission, err := s.submissionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	if submission == nil {
		return nil, ErrSubmissionNotFound
	}

	return submission, nil
}

func (s *submissionService) GetSubmissionsByChild(ctx context.Context, childID string) ([]models.SubmissionWithTask, error) {
	submissions, err := s.submissionRepo.GetByChildID(ctx, childID)
	if err != nil {
		return nil, fmt.Errorf("failed to get submissions by child: %w", err)
	}
	return submissions, nil
}

func (s *submissionService) GetSubmissionsByTask(ctx context.Context, taskID string) ([]models.SubmissionWithTask, error) {
	submissions, err := s.submissionRepo.GetByTaskID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get submissions by task: %w", err)
	}
	return submissions, nil
}

// GetSubmissionsByParent returns the parent's review queue across all of
// their tasks, newest first. With pendingOnly set, only submissions still
// awaiting review are included.
func (s *submissionService) GetSubmissionsByParent(ctx context.Context, parentID string, pendingOnly bool) ([]models.SubmissionWithTask, error) {
	parentExists, err := s.userRepo.Exists(ctx, parentID, models.RoleParent.String())
	if err != nil {
		return nil, fmt.Errorf("failed to check parent existence: %w", err)
	}
	if !parentExists {
		return nil, ErrParentNotFound
	}

	submissions, err := s.submissionRepo.GetByParentID(ctx, parentID, pendingOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to get submissions by parent: %w", err)
	}
	return submissions, nil
}

func (s *submissionService) GetSubmissionState(ctx context.Context, taskID, childID string) (*models.SubmissionStateResponse, error) {
	submission, err := s.submissionRepo.GetByTaskAndChild(ctx, taskID, childID)
	if err != nil {
		return nil, fmt.Errorf("failed to check submission state: %w", err)
	}

	if submission == nil {
		return &models.SubmissionStateResponse{Submitted: false}, nil
	}

	return &models.SubmissionStateResponse{
		Submitted: true,
		Status:    submission.Status,
	}, nil
}
