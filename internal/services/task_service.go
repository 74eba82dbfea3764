package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lmoretti/taskvault-be/internal/apperr"
	"github.com/lmoretti/taskvault-be/internal/auth"
	"github.com/lmoretti/taskvault-be/internal/models"
)

// TaskInput carries the caller-controlled fields for task creation. There
// is deliberately no owner field: the owner always comes from the
// authenticated identity.
type TaskInput struct {
	Title       string
	Description string
}

// TaskPatch carries optional updates; nil fields are left unchanged.
type TaskPatch struct {
	Title       *string
	Description *string
	IsCompleted *bool
}

// TaskServiceProvider defines the interface for task services.
type TaskServiceProvider interface {
	Create(ctx context.Context, actor auth.Identity, input TaskInput) (models.Task, error)
	GetByID(ctx context.Context, actor auth.Identity, id int64) (models.Task, error)
	Update(ctx context.Context, actor auth.Identity, id int64, patch TaskPatch) (models.Task, error)
	Delete(ctx context.Context, actor auth.Identity, id int64) error
	ListByOwner(ctx context.Context, actor auth.Identity) ([]models.Task, error)
}

// TaskService provides owner-scoped task CRUD. Read-modify-write paths run
// fetch, ownership check and mutation inside one transaction so a
// concurrent delete cannot slip between the check and the write.
type TaskService struct {
	db *sql.DB
}

// NewTaskService creates a new TaskService.
func NewTaskService(db *sql.DB) *TaskService {
	return &TaskService{db: db}
}

const taskColumns = "id, user_id, title, description, is_completed, created_at, updated_at"

func scanTask(row interface{ Scan(...any) error }) (models.Task, error) {
	var t models.Task
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.IsCompleted, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// Create stores a new task owned by the acting identity. Any owner value a
// caller may have sent in the payload never reaches this function.
func (s *TaskService) Create(ctx context.Context, actor auth.Identity, input TaskInput) (models.Task, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO tasks(user_id, title, description, is_completed, created_at, updated_at) VALUES(?, ?, ?, 0, ?, ?)",
		actor.ID, input.Title, input.Description, now, now)
	if err != nil {
		return models.Task{}, apperr.Internal(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Task{}, apperr.Internal(err)
	}

	log.Info().Int64("task_id", id).Int64("user_id", actor.ID).Msg("Task created")
	return models.Task{
		ID:          id,
		UserID:      actor.ID,
		Title:       input.Title,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// GetByID returns a task if the actor owns it. Absence is reported before
// ownership, so a missing id and a foreign id stay distinguishable only by
// their outcome kind, never by content.
func (s *TaskService) GetByID(ctx context.Context, actor auth.Identity, id int64) (models.Task, error) {
	task, found, err := s.fetch(ctx, s.db, id)
	if err != nil {
		return models.Task{}, err
	}
	if err := authorize(task, found, actor, id, "access"); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// Update applies a patch to a task the actor owns. The whole
// fetch-authorize-mutate sequence shares one transaction.
func (s *TaskService) Update(ctx context.Context, actor auth.Identity, id int64, patch TaskPatch) (models.Task, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Task{}, apperr.Internal(err)
	}
	defer tx.Rollback()

	task, found, err := s.fetch(ctx, tx, id)
	if err != nil {
		return models.Task{}, err
	}
	if err := authorize(task, found, actor, id, "update"); err != nil {
		return models.Task{}, err
	}

	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.IsCompleted != nil {
		task.IsCompleted = *patch.IsCompleted
	}
	task.UpdatedAt = time.Now().UTC()

	_, err = tx.ExecContext(ctx,
		"UPDATE tasks SET title = ?, description = ?, is_completed = ?, updated_at = ? WHERE id = ?",
		task.Title, task.Description, task.IsCompleted, task.UpdatedAt, task.ID)
	if err != nil {
		return models.Task{}, apperr.Internal(err)
	}
	if err := tx.Commit(); err != nil {
		return models.Task{}, apperr.Internal(err)
	}

	log.Info().Int64("task_id", id).Int64("user_id", actor.ID).Msg("Task updated")
	return task, nil
}

// Delete removes a task the actor owns, within one transaction.
func (s *TaskService) Delete(ctx context.Context, actor auth.Identity, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Internal(err)
	}
	defer tx.Rollback()

	task, found, err := s.fetch(ctx, tx, id)
	if err != nil {
		return err
	}
	if err := authorize(task, found, actor, id, "delete"); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", task.ID); err != nil {
		return apperr.Internal(err)
	}
	if err := tx.Commit(); err != nil {
		return apperr.Internal(err)
	}

	log.Info().Int64("task_id", id).Int64("user_id", actor.ID).Msg("Task deleted")
	return nil
}

// ListByOwner returns the actor's tasks, newest first. The owner filter is
// part of the query itself; no unscoped listing exists.
func (s *TaskService) ListByOwner(ctx context.Context, actor auth.Identity) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE user_id = ? ORDER BY created_at DESC, id DESC", actor.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal(err)
	}
	return tasks, nil
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *TaskService) fetch(ctx context.Context, q querier, id int64) (models.Task, bool, error) {
	row := q.QueryRowContext(ctx, "SELECT "+taskColumns+" FROM tasks WHERE id = ?", id)
	task, err := scanTask(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Task{}, false, nil
		}
		return models.Task{}, false, apperr.Internal(err)
	}
	return task, true, nil
}

// authorize runs the ownership decision and converts it to the typed
// failure handlers translate for clients.
func authorize(task models.Task, found bool, actor auth.Identity, id int64, op string) error {
	var res auth.Resource
	if found {
		res = task
	}
	switch auth.Authorize(res, actor, op) {
	case auth.NotFound:
		log.Warn().Int64("actor_id", actor.ID).Int64("task_id", id).Str("operation", op).Msg("Task lookup found nothing")
		return apperr.New(apperr.KindNotFound, "Task not found")
	case auth.Forbid:
		return apperr.New(apperr.KindForbidden, "Not authorized to "+op+" this task")
	default:
		return nil
	}
}
