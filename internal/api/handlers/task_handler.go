package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/rs/zerolog/log"

	"github.com/lmoretti/taskvault-be/internal/apperr"
	"github.com/lmoretti/taskvault-be/internal/auth"
	"github.com/lmoretti/taskvault-be/internal/models"
	"github.com/lmoretti/taskvault-be/internal/sanitize"
	"github.com/lmoretti/taskvault-be/internal/services"
)

// TaskHandler handles HTTP requests for task resources. Every method takes
// its acting identity from the request context only.
type TaskHandler struct {
	service services.TaskServiceProvider
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(service services.TaskServiceProvider) *TaskHandler {
	return &TaskHandler{service: service}
}

// CreatePayload defines the caller-controlled fields for task creation.
// Owner fields in the incoming JSON have no counterpart here and are
// dropped on decode.
type CreatePayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (p CreatePayload) validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&p.Description, validation.Length(0, 1000)),
	)
}

// UpdatePayload defines optional task updates; absent fields stay unchanged.
type UpdatePayload struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	IsCompleted *bool   `json:"isCompleted"`
}

func (p UpdatePayload) validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.NilOrNotEmpty, validation.Length(1, 255)),
		validation.Field(&p.Description, validation.Length(0, 1000)),
	)
}

// TaskListResponse wraps a listing with its total.
type TaskListResponse struct {
	Tasks []models.Task `json:"tasks"`
	Total int           `json:"total"`
}

// List returns the caller's tasks, newest first.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity(w, r)
	if !ok {
		return
	}
	tasks, err := h.service.ListByOwner(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, TaskListResponse{Tasks: tasks, Total: len(tasks)})
}

// Create stores a new task owned by the caller.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity(w, r)
	if !ok {
		return
	}

	var payload CreatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apperr.New(apperr.KindValidation, "Invalid request body"))
		return
	}
	payload.Title = sanitize.String(payload.Title)
	payload.Description = sanitize.String(payload.Description)
	if err := payload.validate(); err != nil {
		writeError(w, apperr.New(apperr.KindValidation, err.Error()))
		return
	}

	task, err := h.service.Create(r.Context(), actor, services.TaskInput{
		Title:       payload.Title,
		Description: payload.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// Get returns a single task by id.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity(w, r)
	if !ok {
		return
	}
	id, err := taskID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	task, err := h.service.GetByID(r.Context(), actor, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// Update applies a partial update to a task.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity(w, r)
	if !ok {
		return
	}
	id, err := taskID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var payload UpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apperr.New(apperr.KindValidation, "Invalid request body"))
		return
	}
	if payload.Title != nil {
		clean := sanitize.String(*payload.Title)
		payload.Title = &clean
	}
	if payload.Description != nil {
		clean := sanitize.String(*payload.Description)
		payload.Description = &clean
	}
	if err := payload.validate(); err != nil {
		writeError(w, apperr.New(apperr.KindValidation, err.Error()))
		return
	}

	task, err := h.service.Update(r.Context(), actor, id, services.TaskPatch{
		Title:       payload.Title,
		Description: payload.Description,
		IsCompleted: payload.IsCompleted,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// Delete removes a task.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity(w, r)
	if !ok {
		return
	}
	id, err := taskID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), actor, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// taskID parses the {id} URL parameter. Anything that is not an integer is
// rejected here, before any store call sees the value.
func taskID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperr.New(apperr.KindValidation, "Task id must be an integer")
	}
	return id, nil
}

func identity(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	actor, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve identity from context")
		writeError(w, apperr.New(apperr.KindInternal, "an unexpected error occurred"))
		return auth.Identity{}, false
	}
	return actor, true
}
