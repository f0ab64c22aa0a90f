package repository

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"

	"github.com/gameup-app/gameup-backend/internal/models"
)

type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id string) (*models.Task, error)
	GetByParentID(ctx context.Context, parentID string) ([]models.TaskWithStatus, error)
	GetByChildID(ctx context.Context, childID string) ([]models.TaskWithStatus, error)
}

type taskRepository struct {
	*PostgresRepository
}

func NewTaskRepository(db *sql.DB, logger zerolog.Logger) TaskRepository {
	return &taskRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *taskRepository) Create(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (id, parent_id, child_id, title, description, due_date, xp_reward, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		task.ID,
		task.ParentID,
		task.ChildID,
		task.Title,
		task.Description,
		task.DueDate,
		task.XPReward,
		task.CreatedAt,
		task.UpdatedAt,
	)

	return err
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*models.Task, error) {
	query := `
		SELECT id, parent_id, child_id, title, description, due_date, xp_reward, created_at, updated_at
		FROM tasks
		WHERE id = $1
	`

	task := &models.Task{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&task.ID,
		&task.ParentID,
		&task.ChildID,
		&task.Title,
		&task.Description,
		&task.DueDate,
		&task.XPReward,
		&task.CreatedAt,
		&task.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return task, err
}

// GetByParentID lists a parent's tasks joined with the child's display name
// and the status derived from the child's submission. Missing submission rows
// read as not_submitted; this COALESCE is the single place that derivation
// lives for the parent view.
func (r *taskRepository) GetByParentID(ctx context.Context, parentID string) ([]models.TaskWithStatus, error) {
	query := `
		SELECT
			t.id, t.parent_id, t.child_id, t.title, t.description, t.due_date, t.xp_reward, t.created_at, t.updated_at,
			c.name AS child_name,
			COALESCE(s.status, 'not_submitted') AS submission_status
		FROM tasks t
		JOIN users c ON t.child_id = c.id
		LEFT JOIN submissions s ON s.task_id = t.id AND s.child_id = t.child_id
		WHERE t.parent_id = $1
		ORDER BY t.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.TaskWithStatus
	for rows.Next() {
		var task models.TaskWithStatus
		err := rows.Scan(
			&task.ID,
			&task.ParentID,
			&task.ChildID,
			&task.Title,
			&task.Description,
			&task.DueDate,
			&task.XPReward,
			&task.CreatedAt,
			&task.UpdatedAt,
			&task.ChildName,
			&task.SubmissionStatus,
		)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}

func (r *taskRepository) GetByChildID(ctx context.Context, childID string) ([]models.TaskWithStatus, error) {
	query := `
		SELECT
			t.id, t.parent_id, t.child_id, t.title, t.description, t.due_date, t.xp_reward, t.created_at, t.updated_at,
			p.name AS parent_name,
			COALESCE(s.status, 'not_submitted') AS submission_status
		FROM tasks t
		JOIN users p ON t.parent_id = p.id
		LEFT JOIN submissions s ON s.task_id = t.id AND s.child_id = t.child_id
		WHERE t.child_id = $1
		ORDER BY t.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, childID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.TaskWithStatus
	for rows.Next() {
		var task models.TaskWithStatus
		err := rows.Scan(
			&task.ID,
			&task.ParentID,
			&task.ChildID,
			&task.Title,
			&task.Description,
			&task.DueDate,
			&task.XPReward,
			&task.CreatedAt,
			&task.UpdatedAt,
			&task.ParentName,
			&task.SubmissionStatus,
		)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}
