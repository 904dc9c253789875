package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/opt"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

const maxTitleLength = 200

// CreateTaskParams are the caller-supplied fields for a new task. ID may be
// empty, in which case the server assigns a UUID.
type CreateTaskParams struct {
	ID          string
	Title       string
	Description *string
	Due         *time.Time
	Priority    string
	Completed   bool
}

// TaskPatch is an explicit optional-field patch: each field is independently
// present-or-absent, so only fields the caller sent are applied. Description
// and Due may be set to null to clear them.
type TaskPatch struct {
	Title       opt.Value[string]
	Description opt.Value[string]
	Due         opt.Value[time.Time]
	Priority    opt.Value[string]
	Completed   opt.Value[bool]
}

// TaskService implements the owner-scoped task operations. Every repository
// call it makes is filtered by the caller's user id.
type TaskService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewTaskService constructs a TaskService using the given repositories.
func NewTaskService(db *sql.DB, m repomanager.RepositoryManager) *TaskService {
	return &TaskService{db: db, repomanager: m}
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", fmt.Errorf("%w: title must not be empty", common.ErrorValidation)
	}
	if len(title) > maxTitleLength {
		return "", fmt.Errorf("%w: title exceeds %d characters", common.ErrorValidation, maxTitleLength)
	}
	return title, nil
}

// Create validates params and inserts a task owned by userID. Priority
// defaults to "low"; a caller-supplied id that collides with any existing
// task yields ErrorAlreadyExists.
func (s *TaskService) Create(ctx context.Context, userID int64, params CreateTaskParams) (*models.Task, error) {
	title, err := validateTitle(params.Title)
	if err != nil {
		return nil, err
	}

	priority := params.Priority
	if priority == "" {
		priority = models.PriorityLow
	}
	if !models.ValidPriority(priority) {
		return nil, fmt.Errorf("%w: unknown priority %q", common.ErrorValidation, priority)
	}

	id := params.ID
	if id == "" {
		id = uuid.NewString()
	}

	task := &models.Task{
		ID:          id,
		UserID:      userID,
		Title:       title,
		Description: params.Description,
		Due:         params.Due,
		Priority:    priority,
		Completed:   params.Completed,
	}

	repo := s.repomanager.Tasks(s.db)
	return repo.Create(ctx, task)
}

// List returns all of userID's tasks, newest first.
func (s *TaskService) List(ctx context.Context, userID int64) ([]*models.Task, error) {
	repo := s.repomanager.Tasks(s.db)
	return repo.ListByUser(ctx, userID)
}

// Get returns the task with taskID if userID owns it.
func (s *TaskService) Get(ctx context.Context, userID int64, taskID string) (*models.Task, error) {
	repo := s.repomanager.Tasks(s.db)
	return repo.GetByID(ctx, userID, taskID)
}

// Patch applies only the fields present in patch to the task owned by
// userID, inside a transaction so the read-modify-write is atomic.
// ErrorNotFound when the task is absent or owned by someone else.
func (s *TaskService) Patch(ctx context.Context, userID int64, taskID string, patch TaskPatch) (*models.Task, error) {
	var result *models.Task

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Tasks(tx)

		task, err := repo.GetByID(ctx, userID, taskID)
		if err != nil {
			return err
		}

		if patch.Title.IsSet() {
			title, ok := patch.Title.Get()
			if !ok {
				return fmt.Errorf("%w: title must not be null", common.ErrorValidation)
			}
			if task.Title, err = validateTitle(title); err != nil {
				return err
			}
		}

		if patch.Description.IsSet() {
			if desc, ok := patch.Description.Get(); ok {
				task.Description = &desc
			} else {
				task.Description = nil
			}
		}

		if patch.Due.IsSet() {
			if due, ok := patch.Due.Get(); ok {
				task.Due = &due
			} else {
				task.Due = nil
			}
		}

		if patch.Priority.IsSet() {
			priority, ok := patch.Priority.Get()
			if !ok || !models.ValidPriority(priority) {
				return fmt.Errorf("%w: unknown priority", common.ErrorValidation)
			}
			task.Priority = priority
		}

		if patch.Completed.IsSet() {
			completed, ok := patch.Completed.Get()
			if !ok {
				return fmt.Errorf("%w: completed must not be null", common.ErrorValidation)
			}
			task.Completed = completed
		}

		result, err = repo.Update(ctx, task)
		return err
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// Delete removes the task with taskID if userID owns it. ErrorNotFound
// otherwise.
func (s *TaskService) Delete(ctx context.Context, userID int64, taskID string) error {
	repo := s.repomanager.Tasks(s.db)
	return repo.Delete(ctx, userID, taskID)
}
