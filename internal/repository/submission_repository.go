package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/gameup-app/gameup-backend/internal/models"
)

type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.Submission) error
	GetByID(ctx context.Context, id string) (*models.Submission, error)
	GetByTaskAndChild(ctx context.Context, taskID, childID string) (*models.Submission, error)
	GetByChildID(ctx context.Context, childID string) ([]models.SubmissionWithTask, error)
	GetByTaskID(ctx context.Context, taskID string) ([]models.SubmissionWithTask, error)
	GetByParentID(ctx context.Context, parentID string, pendingOnly bool) ([]models.SubmissionWithTask, error)
	CountByStatus(ctx context.Context, childID string) ([]models.StatusCount, error)
	BeginReview(ctx context.Context) (ReviewTx, error)
}

// ReviewTx scopes the statements of one submission review to a single
// database transaction. Either every effect (status transition, XP award,
// notification) commits, or none of them do.
type ReviewTx interface {
	// MarkReviewed transitions the submission out of pending. Returns false
	// when the submission is absent or no longer pending.
	MarkReviewed(ctx context.Context, id, status, feedback string) (bool, error)
	// Target resolves the task and child the submission belongs to.
	Target(ctx context.Context, submissionID string) (*models.ReviewTarget, error)
	// AddXP credits a child's XP total. Returns false when no child row matched.
	AddXP(ctx context.Context, childID string, amount int) (bool, error)
	InsertNotification(ctx context.Context, n *models.Notification) error
	Commit() error
	Rollback() error
}

type submissionRepository struct {
	*PostgresRepository
}

func NewSubmissionRepository(db *sql.DB, logger zerolog.Logger) SubmissionRepository {
	return &submissionRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

const submissionColumns = `id, task_id, child_id, submission_text, file_url, status, feedback, submitted_at, reviewed_at`

func (r *submissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	query := `
		INSERT INTO submissions (id, task_id, child_id, submission_text, file_url, status, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		submission.ID,
		submission.TaskID,
		submission.ChildID,
		submission.SubmissionText,
		submission.FileURL,
		submission.Status,
		submission.SubmittedAt,
	)

	return err
}

func scanSubmission(row *sql.Row) (*models.Submission, error) {
	submission := &models.Submission{}
	err := row.Scan(
		&submission.ID,
		&submission.TaskID,
		&submission.ChildID,
		&submission.SubmissionText,
		&submission.FileURL,
		&submission.Status,
		&submission.Feedback,
		&submission.SubmittedAt,
		&submission.ReviewedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return submission, err
}

func (r *submissionRepository) GetByID(ctx context.Context, id string) (*models.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE id = $1`
	return scanSubmission(r.db.QueryRowContext(ctx, query, id))
}

func (r *submissionRepository) GetByTaskAndChild(ctx context.Context, taskID, childID string) (*models.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE task_id = $1 AND child_id = $2`
	return scanSubmission(r.db.QueryRowContext(ctx, query, taskID, childID))
}

const submissionWithTaskQuery = `
	SELECT
		s.id, s.task_id, s.child_id, s.submission_text, s.file_url, s.status, s.feedback, s.submitted_at, s.reviewed_at,
		t.title AS task_title, t.xp_reward,
		c.name AS child_name
	FROM submissions s
	JOIN tasks t ON s.task_id = t.id
	JOIN users c ON s.child_id = c.id
`

func (r *submissionRepository) GetByChildID(ctx context.Context, childID string) ([]models.SubmissionWithTask, error) {
	query := submissionWithTaskQuery + `
		WHERE s.child_id = $1
		ORDER BY s.submitted_at DESC
	`
	return r.querySubmissionsWithTask(ctx, query, childID)
}

func (r *submissionRepository) GetByTaskID(ctx context.Context, taskID string) ([]models.SubmissionWithTask, error) {
	query := submissionWithTaskQuery + `
		WHERE s.task_id = $1
		ORDER BY s.submitted_at DESC
	`
	return r.querySubmissionsWithTask(ctx, query, taskID)
}

// GetByParentID is the parent's review queue: every submission against one of
// the parent's tasks, optionally narrowed to those still awaiting review.
func (r *submissionRepository) GetByParentID(ctx context.Context, parentID string, pendingOnly bool) ([]models.SubmissionWithTask, error) {
	query := submissionWithTaskQuery + `
		WHERE t.parent_id = $1
	`
	if pendingOnly {
		query += ` AND s.status = 'pending'`
	}
	query += ` ORDER BY s.submitted_at DESC`

	return r.querySubmissionsWithTask(ctx, query, parentID)
}

func (r *submissionRepository) querySubmissionsWithTask(ctx context.Context, query string, args ...interface{}) ([]models.SubmissionWithTask, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var submissions []models.SubmissionWithTask
	for rows.Next() {
		var s models.SubmissionWithTask
		err := rows.Scan(
			&s.ID,
			&s.TaskID,
			&s.ChildID,
			&s.SubmissionText,
			&s.FileURL,
			&s.Status,
			&s.Feedback,
			&s.SubmittedAt,
			&s.ReviewedAt,
			&s.TaskTitle,
			&s.XPReward,
			&s.ChildName,
		)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, s)
	}

	return submissions, rows.Err()
}

func (r *submissionRepository) CountByStatus(ctx context.Context, childID string) ([]models.StatusCount, error) {
	query := `
		SELECT status, COUNT(*), ARRAY_AGG(task_id ORDER BY submitted_at DESC)
		FROM submissions
		WHERE child_id = $1
		GROUP BY status
	`

	rows, err := r.db.QueryContext(ctx, query, childID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []models.StatusCount
	for rows.Next() {
		var count models.StatusCount
		if err := rows.Scan(&count.Status, &count.Count, pq.Array(&count.TaskIDs)); err != nil {
			return nil, err
		}
		counts = append(counts, count)
	}

	return counts, rows.Err()
}

func (r *submissionRepository) BeginReview(ctx context.Context) (ReviewTx, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &reviewTx{tx: tx}, nil
}

type reviewTx struct {
	tx *sql.Tx
}

func (t *reviewTx) MarkReviewed(ctx context.Context, id, status, feedback string) (bool, error) {
	query := `
		UPDATE submissions
		SET status = $1, feedback = $2, reviewed_at = $3
		WHERE id = $4 AND status = 'pending'
	`

	result, err := t.tx.ExecContext(ctx, query, status, feedback, time.Now(), id)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	return affected > 0, err
}

func (t *reviewTx) Target(ctx context.Context, submissionID string) (*models.ReviewTarget, error) {
	query := `
		SELECT t.id, t.title, t.xp_reward, s.child_id
		FROM submissions s
		JOIN tasks t ON s.task_id = t.id
		WHERE s.id = $1
	`

	target := &models.ReviewTarget{}
	err := t.tx.QueryRowContext(ctx, query, submissionID).Scan(
		&target.TaskID,
		&target.TaskTitle,
		&target.XPReward,
		&target.ChildID,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return target, err
}

func (t *reviewTx) AddXP(ctx context.Context, childID string, amount int) (bool, error) {
	query := `
		UPDATE users
		SET total_xp = total_xp + $1, updated_at = $2
		WHERE id = $3 AND role = 'child'
	`

	result, err := t.tx.ExecContext(ctx, query, amount, time.Now(), childID)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	return affected > 0, err
}

func (t *reviewTx) InsertNotification(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (id, child_id, message, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := t.tx.ExecContext(ctx, query, n.ID, n.ChildID, n.Message, n.IsRead, n.CreatedAt)
	return err
}

func (t *reviewTx) Commit() error {
	return t.tx.Commit()
}

func (t *reviewTx) Rollback() error {
	return t.tx.Rollback()
}
