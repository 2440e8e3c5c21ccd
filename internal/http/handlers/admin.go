package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/taskboard/internal/http/respond"
	"github.com/hongminglow/taskboard/internal/models/dto"
	"github.com/hongminglow/taskboard/internal/service"
)

// AdminHandler serves the admin-only routes.
type AdminHandler struct {
	tasks *service.TaskService
	users *service.AuthService
	rw    *respond.Writer
}

func NewAdminHandler(tasks *service.TaskService, users *service.AuthService, rw *respond.Writer) *AdminHandler {
	return &AdminHandler{tasks: tasks, users: users, rw: rw}
}

// Routes expects authentication and the admin guard to be applied by the caller.
func (h *AdminHandler) Routes(r chi.Router) {
	r.Get("/tasks", h.handleAllTasks)
	r.Get("/users", h.handleUsers)
	r.Delete("/users/{id}", h.handleDeleteUser)
}

func (h *AdminHandler) handleAllTasks(w http.ResponseWriter, r *http.Request) {
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
	list, err := h.tasks.ListAll(r.Context(), p, q)
	if err != nil {
		h.rw.Fail(w, r, err)
		return
	}
	h.rw.Page(w, "All tasks retrieved successfully", map[string]any{"tasks": list.Tasks}, list.Pagination)
}

func (h *AdminHandler) handleUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		h.rw.Fail(w, r, err)
		return
	}
	h.rw.JSON(w, http.StatusOK, "All users retrieved successfully", map[string]any{"users": users})
}

func (h *AdminHandler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		h.rw.Fail(w, r, err)
		return
	}
	id, err := pathID(r, "Invalid user ID")
	if err != nil {
		h.rw.Fail(w, r, err)
		return
	}
	if err := h.users.DeleteUser(r.Context(), p, id); err != nil {
		h.rw.Fail(w, r, err)
		return
	}
	h.rw.JSON(w, http.StatusOK, "User deleted successfully", nil)
}
