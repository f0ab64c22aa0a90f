package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gameup-app/gameup-backend/internal/models"
	"github.com/gameup-app/gameup-backend/internal/repository"
)

const leaderboardSize = 10

type UserService interface {
	GetXP(ctx context.Context, userID string) (*models.XPResponse, error)
	GetLeaderboard(ctx context.Context) ([]models.ChildWithXP, error)
	GetChildren(ctx context.Context, parentID string) ([]models.User, error)
}

type userService struct {
	userRepo repository.UserRepository
	logger   zerolog.Logger
}

func NewUserService(userRepo repository.UserRepository, logger zerolog.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		logger:   logger,
	}
}

func (s *userService) GetXP(ctx context.Context, userID string) (*models.XPResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, ErrChildNotFound
	}

	return &models.XPResponse{
		UserID:  user.ID,
		TotalXP: user.TotalXP,
		Level:   user.Level(),
	}, nil
}

func (s *userService) GetLeaderboard(ctx context.Context) ([]models.ChildWithXP, error) {
	entries, err := s.userRepo.GetLeaderboard(ctx, leaderboardSize)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}
	return entries, nil
}

func (s *userService) GetChildren(ctx context.Context, parentID string) ([]models.User, error) {
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
	return children, nil
}
