package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gameup-app/gameup-backend/internal/models"
	"github.com/gameup-app/gameup-backend/internal/repository"
)

type SummaryService interface {
	SummarizeChild(ctx context.Context, childID string) (*models.ChildSummary, error)
	SummarizeParent(ctx context.Context, parentID string) (*models.ParentSummary, error)
}

type summaryService struct {
	submissionRepo repository.SubmissionRepository
	userRepo       repository.UserRepository
	logger         zerolog.Logger
}

func NewSummaryService(submissionRepo repository.SubmissionRepository, userRepo repository.UserRepository, logger zerolog.Logger) SummaryService {
	return &summaryService{
		submissionRepo: submissionRepo,
		userRepo:       userRepo,
		logger:         logger,
	}
}

// SummarizeChild aggregates a child's full submission history by status.
// A child with no submissions yields an empty breakdown, not an error.
func (s *summaryService) SummarizeChild(ctx context.Context, childID string) (*models.ChildSummary, error) {
	child, err := s.userRepo.GetByID(ctx, childID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up child: %w", err)
	}
	if child == nil || child.Role != models.RoleChild.String() {
		return nil, ErrChildNotFound
	}

	counts, err := s.submissionRepo.CountByStatus(ctx, childID)
	if err != nil {
		return nil, fmt.Errorf("failed to count submissions: %w", err)
	}
	if counts == nil {
		counts = []models.StatusCount{}
	}

	return &models.ChildSummary{
		ChildID:   child.ID,
		ChildName: child.Name,
		TotalXP:   child.TotalXP,
		Level:     child.Level(),
		Statuses:  counts,
	}, nil
}

// SummarizeParent folds the per-child summaries of all the parent's children
// into one aggregate. A failing child lookup is logged and skipped so one bad
// row does not blank the whole dashboard.
func (s *summaryService) SummarizeParent(ctx context.Context, parentID string) (*models.ParentSummary, error) {
	parentExists, err := s.userRepo.Exists(ctx, parentID, models.RoleParent.String())
	if err != nil {
		return nil, fmt.Errorf("failed to check parent existence: %w", err)
	}
	if !parentExists {
		return nil, ErrParentNotFound
	}

	children, err := s.userRepo.GetChildrenByParent(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list children: %w", err)
	}

	summary := &models.ParentSummary{
		ParentID: parentID,
		Children: []models.ChildSummary{},
	}

	for _, child := range children {
		childSummary, err := s.SummarizeChild(ctx, child.ID)
		if err != nil {
			s.logger.Error().Err(err).
				Str("child_id", child.ID).
				Str("parent_id", parentID).
				Msg("Failed to summarize child, skipping")
			continue
		}

		for _, count := range childSummary.Statuses {
			switch count.Status {
			case models.SubmissionStatusApproved.String():
				summary.Approved += count.Count
			case models.SubmissionStatusRejected.String():
				summary.Rejected += count.Count
			case models.SubmissionStatusPending.String():
				summary.Pending += count.Count
			}
		}
		summary.TotalXP += childSummary.TotalXP
		summary.Children = append(summary.Children, *childSummary)
	}

	return summary, nil
}
