package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/taskboard/internal/http/respond"
	"github.com/hongminglow/taskboard/internal/models/dto"
	"github.com/hongminglow/taskboard/internal/service"
)

const invalidTaskID = "Invalid task ID"

// TaskHandler serves the caller's own task routes.
type TaskHandler struct {
	svc *service.TaskService
	rw  *respond.Writer
}

func NewTaskHandler(svc *service.TaskService, rw *respond.Writer) *TaskHandler {
	return &TaskHandler{svc: svc, rw: rw}
}

// Routes expects authentication and the role guard to be applied by the caller.
func (h *TaskHandler) Routes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Get("/stats", h.handleStats)
	r.Post("/", h.handleCreate)
	r.Get("/{id}", h.handleGet)
	r.Put("/{id}", h.handleUpdate)
	r.Delete("/{id}", h.handleDelete)
}

func (h *TaskHandler) handleList(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		h.rw.Fail(w, r, err)
		return
	}
	q, err := dto.ParseTaskQuery(r.URL.Query())
	if err != nil {
		h.rw.Fail(w, r, err)
		return
	}
	list, err := h.svc.ListMine(r.Context(), p, q)
	if err != nil {
		h.rw.Fail(w, r, err)
		return
	}
	h.rw.Page(w, "Tasks retrieved successfully", map[string]any{"tasks": list.Tasks}, list.Pagination)
}

func (h *TaskHandler) handleStats(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		h.rw.Fail(w, r, err)
		return
	}
	stats, err := h.svc.Stats(r.Context(), p)
	if err != nil {
		h.rw.Fail(w, r, err)
		return
	}
	h.rw.JSON(w, http.StatusOK, "Task statistics retrieved", map[string]any{"stats": stats})
}

func (h *TaskHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		h.rw.Fail(w, r, err)
		return
	}
	var req dto.CreateTaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.rw.Fail(w, r, err)
		return
	}
	in, err := req.Parse()
	if err != nil {
		h.rw.Fail(w, r, err)
		return
	}
	task, err := h.svc.Create(r.Context(), p, in)
	if err != nil {
		h.rw.Fail(w, r, err)
		return
	}
	h.rw.JSON(w, http.StatusCreated, "Task created successfully", map[string]any{"task": task})
}

func (h *TaskHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		h.rw.Fail(w, r, err)
		return
	}
	id, err := pathID(r, invalidTaskID)
	if err != nil {
		h.rw.Fail(w, r, err)
		return
	}
	task, err := h.svc.Get(r.Context(), p, id)
	if err != nil {
		h.rw.Fail(w, r, err)
		return
	}
	h.rw.JSON(w, http.StatusOK, "Task retrieved successfully", map[string]any{"task": task})
}

func (h *TaskHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		h.rw.Fail(w, r, err)
		return
	}
	id, err := pathID(r, invalidTaskID)
	if err != nil {
		h.rw.Fail(w, r, err)
		return
	}
	var req dto.UpdateTaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.rw.Fail(w, r, err)
		return
	}
	patch, err := req.Parse()
	if err != nil {
		h.rw.Fail(w, r, err)
		return
	}
	task, err := h.svc.Update(r.Context(), p, id, patch)
	if err != nil {
		h.rw.Fail(w, r, err)
		return
	}
	h.rw.JSON(w, http.StatusOK, "Task updated successfully", map[string]any{"task": task})
}

func (h *TaskHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		h.rw.Fail(w, r, err)
		return
	}
	id, err := pathID(r, invalidTaskID)
	if err != nil {
		h.rw.Fail(w, r, err)
		return
	}
	if err := h.svc.Delete(r.Context(), p, id); err != nil {
		h.rw.Fail(w, r, err)
		return
	}
	h.rw.JSON(w, http.StatusOK, "Task deleted successfully", nil)
}
