package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"task-tracker/db"
	"task-tracker/models"
)

// Handler serves the task endpoints on top of an injected store.
type Handler struct {
	store  db.TaskStore
	logger *log.Logger
}

func NewHandler(store db.TaskStore, logger *log.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

type okResponse struct {
	OK bool `json:"ok"`
}

type deletedResponse struct {
	Deleted bool `json:"deleted"`
}

// Home godoc
// @Summary      Liveness check
// @Tags         health
// @Produce      json
// @Success      200  {object}  okResponse
// @Router       / [get]
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

// Health godoc
// @Summary      Readiness check
// @Description  Pings the task store
// @Tags         health
// @Produce      json
// @Success      200  {object}  okResponse
// @Failure      503  {object}  errorResponse
// @Router       /healthz [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		h.logger.Warn("store ping failed", "err", err)
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

// ListTasks godoc
// @Summary      List tasks
// @Description  Returns every task, newest first
// @Tags         tasks
// @Produce      json
// @Success      200  {array}   models.Task
// @Failure      500  {object}  errorResponse
// @Router       /tasks [get]
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.store.List(r.Context())
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

// CreateTask godoc
// @Summary      Create a task
// @Description  Trims the title and stores a new, not yet done task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        task  body      models.NewTask  true  "Task to create"
// @Success      201   {object}  models.Task
// @Failure      400   {object}  errorResponse
// @Failure      413   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /tasks [post]
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var body models.NewTask
	if err := decodeJSON(w, r, &body); err != nil {
		writeBodyError(w, err)
		return
	}
	if err := body.Normalize(); err != nil {
		writeBodyError(w, err)
		return
	}

	task, err := h.store.Create(r.Context(), body.Title)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	h.logger.Debug("task created", "id", task.ID)
	writeJSON(w, http.StatusCreated, task)
}

// UpdateTask godoc
// @Summary      Update a task
// @Description  Partial update: only the fields present in the body change
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id    path      int               true  "Task ID"
// @Param        task  body      models.TaskPatch  true  "Fields to change"
// @Success      200   {object}  models.Task
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      413   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /tasks/{id} [put]
func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	var patch models.TaskPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeBodyError(w, err)
		return
	}
	if err := patch.Normalize(); err != nil {
		writeBodyError(w, err)
		return
	}

	task, err := h.store.Update(r.Context(), id, patch)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// DeleteTask godoc
// @Summary      Delete a task
// @Tags         tasks
// @Produce      json
// @Param        id   path      int  true  "Task ID"
// @Success      200  {object}  deletedResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /tasks/{id} [delete]
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		h.storeError(w, r, err)
		return
	}
	h.logger.Debug("task deleted", "id", id)
	writeJSON(w, http.StatusOK, deletedResponse{Deleted: true})
}

func taskID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid task ID")
		return 0, false
	}
	return id, true
}

// storeError maps a store failure onto the response. Unknown errors are
// passed through verbatim with a 500.
func (h *Handler) storeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, db.ErrTaskNotFound):
		writeError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, db.ErrEmptyPatch):
		writeError(w, http.StatusBadRequest, "No fields to update")
	default:
		h.logger.Error("store failure", "method", r.Method, "path", r.URL.Path, "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
