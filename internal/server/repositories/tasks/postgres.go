// Package tasks provides the PostgreSQL-backed repository for owned work
// items. Every lookup and mutation filters on (task id, owner id): an
// id-only query is a forbidden pattern here.
package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgresRepository implements task storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Create inserts a task and fills in the server-assigned timestamps.
// A colliding task id (globally unique by primary key) yields
// common.ErrorAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {

	query :=
		`INSERT INTO tasks (id, user_id, title, description, due, priority, completed)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		task.ID, task.UserID, task.Title, task.Description, task.Due, task.Priority, task.Completed).
		Scan(&task.CreatedAt, &task.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return task, nil
}

const selectTask = `SELECT id, user_id, title, description, due, priority, completed, created_at, updated_at FROM tasks`

// GetByID returns the task with taskID owned by userID, or common.ErrorNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, userID int64, taskID string) (*models.Task, error) {
	query := selectTask + ` WHERE id = $1 AND user_id = $2`

	task := &models.Task{}
	err := r.db.QueryRowContext(ctx, query, taskID, userID).Scan(
		&task.ID, &task.UserID, &task.Title, &task.Description, &task.Due,
		&task.Priority, &task.Completed, &task.CreatedAt, &task.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return task, nil
}

// ListByUser returns all of userID's tasks, newest first. The descending
// creation-time order is part of the API contract.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Task, error) {
	query := selectTask + ` WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Task{}
	for rows.Next() {
		task := &models.Task{}
		if err := rows.Scan(
			&task.ID, &task.UserID, &task.Title, &task.Description, &task.Due,
			&task.Priority, &task.Completed, &task.CreatedAt, &task.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		result = append(result, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}

// Update writes the full mutable field set of task back to its row, scoped
// to the owner, and bumps updated_at. common.ErrorNotFound when no owned
// row matches.
func (r *PostgresRepository) Update(ctx context.Context, task *models.Task) (*models.Task, error) {
	query :=
		`UPDATE tasks
		 SET title = $1, description = $2, due = $3, priority = $4, completed = $5, updated_at = now()
		 WHERE id = $6 AND user_id = $7
		 RETURNING updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		task.Title, task.Description, task.Due, task.Priority, task.Completed,
		task.ID, task.UserID).
		Scan(&task.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return task, nil
}

// Delete removes the task with taskID owned by userID. Deletion is
// immediate, not soft.
func (r *PostgresRepository) Delete(ctx context.Context, userID int64, taskID string) error {
	query := `DELETE FROM tasks WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, taskID, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}
