package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gameup-app/gameup-backend/internal/models"
	"github.com/gameup-app/gameup-backend/internal/repository"
)

type TaskService interface {
	CreateTask(ctx context.Context, req *models.CreateTaskRequest) (*models.Task, error)
	GetTaskByID(ctx context.Context, id string) (*models.Task, error)
	ListTasksByRole(ctx context.Context, userID, role string) ([]models.TaskWithStatus, error)
}

type taskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
	logger   zerolog.Logger
}

func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository, logger zerolog.Logger) TaskService {
	return &taskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
		logger:   logger,
	}
}

func (s *taskService) CreateTask(ctx context.Context, req *models.CreateTaskRequest) (*models.Task, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrMissingField)
	}
	if req.XPReward <= 0 {
		return nil, fmt.Errorf("%w: xp_reward must be positive, got %d", ErrInvalidArgument, req.XPReward)
	}

	parentExists, err := s.userRepo.Exists(ctx, req.ParentID, models.RoleParent.String())
	if err != nil {
		return nil, fmt.Errorf("failed to check parent existence: %w", err)
	}
	if !parentExists {
		return nil, ErrParentNotFound
	}

	// The child must be one of the parent's own accounts.
	child, err := s.userRepo.GetByID(ctx, req.ChildID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up child: %w", err)
	}
	if child == nil || child.Role != models.RoleChild.String() ||
		child.ParentID == nil || *child.ParentID != req.ParentID {
		return nil, ErrChildNotFound
	}

	now := time.Now()
	task := &models.Task{
		ID:          uuid.New().String(),
		ParentID:    req.ParentID,
		ChildID:     req.ChildID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		XPReward:    req.XPReward,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("parent_id", task.ParentID).
		Str("child_id", task.ChildID).
		Int("xp_reward", task.XPReward).
		Msg("Task created")

	return task, nil
}

func (s *taskService) GetTaskByID(ctx context.Context, id string) (*models.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}

	return task, nil
}

// ListTasksByRole returns the task list visible to an actor. Parents see
// tasks they created, children see tasks assigned to them; both ordered
// newest first with the derived submission status attached.
func (s *taskService) ListTasksByRole(ctx context.Context, userID, role string) ([]models.TaskWithStatus, error) {
	switch role {
	case models.RoleParent.String():
		tasks, err := s.taskRepo.GetByParentID(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to list tasks by parent: %w", err)
		}
		return tasks, nil
	case models.RoleChild.String():
		tasks, err := s.taskRepo.GetByChildID(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to list tasks by child: %w", err)
		}
		return tasks, nil
	default:
		return nil, ErrInvalidRole
	}
}
