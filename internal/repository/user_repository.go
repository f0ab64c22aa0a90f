package repository

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"

	"github.com/gameup-app/gameup-backend/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmailAndRole(ctx context.Context, email, role string) (*models.User, error)
	GetChildrenByParent(ctx context.Context, parentID string) ([]models.User, error)
	GetLeaderboard(ctx context.Context, limit int) ([]models.ChildWithXP, error)
	Exists(ctx context.Context, id, role string) (bool, error)
}

type userRepository struct {
	*PostgresRepository
}

func NewUserRepository(db *sql.DB, logger zerolog.Logger) UserRepository {
	return &userRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

const userColumns = `id, name, email, password_hash, role, parent_id, total_xp, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, role, parent_id, total_xp, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.ParentID,
		user.TotalXP,
		user.CreatedAt,
		user.UpdatedAt,
	)

	return err
}

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.ParentID,
		&user.TotalXP,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return user, err
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *userRepository) GetByEmailAndRole(ctx context.Context, email, role string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND role = $2`
	return scanUser(r.db.QueryRowContext(ctx, query, email, role))
}

func (r *userRepository) GetChildrenByParent(ctx context.Context, parentID string) ([]models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE parent_id = $1 AND role = 'child'
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var children []models.User
	for rows.Next() {
		var user models.User
		err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&user.PasswordHash,
			&user.Role,
			&user.ParentID,
			&user.TotalXP,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		children = append(children, user)
	}

	return children, rows.Err()
}

func (r *userRepository) GetLeaderboard(ctx context.Context, limit int) ([]models.ChildWithXP, error) {
	query := `
		SELECT id, name, total_xp
		FROM users
		WHERE role = 'child'
		ORDER BY total_xp DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.ChildWithXP
	for rows.Next() {
		var entry models.ChildWithXP
		if err := rows.Scan(&entry.ID, &entry.Name, &entry.TotalXP); err != nil {
			return nil, err
		}
		entry.Level = entry.TotalXP/models.XPPerLevel + 1
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func (r *userRepository) Exists(ctx context.Context, id, role string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1 AND role = $2)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, id, role).Scan(&exists)
	return exists, err
}
