package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/hongminglow/taskboard/internal/apperr"
	"github.com/hongminglow/taskboard/internal/models"
	"github.com/hongminglow/taskboard/internal/models/dto"
	"github.com/hongminglow/taskboard/internal/pagination"
	"github.com/hongminglow/taskboard/internal/policy"
	"github.com/hongminglow/taskboard/internal/storage"
)

// TaskList is one page of tasks plus its pagination block.
type TaskList struct {
	Tasks      []models.Task
	Pagination pagination.Info
}

// TaskService applies the access policy around task persistence.
type TaskService struct {
	store storage.TaskStore
	log   *zap.Logger
}

func NewTaskService(store storage.TaskStore, log *zap.Logger) *TaskService {
	return &TaskService{store: store, log: log}
}

// Create stores a new task owned by p.
func (s *TaskService) Create(ctx context.Context, p models.Principal, in dto.CreateTaskInput) (models.Task, error) {
	task, err := s.store.CreateTask(ctx, models.Task{
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
		UserID:      p.ID,
	})
	if err != nil {
		if errors.Is(err, storage.ErrForeignKey) {
			return models.Task{}, apperr.Unauthorized("User no longer exists")
		}
		return models.Task{}, apperr.Internal("failed to create task", err)
	}
	s.log.Debug("task created", zap.String("task_id", task.ID), zap.String("user_id", p.ID))
	return task, nil
}

// ListMine lists p's own tasks, whatever p's role.
func (s *TaskService) ListMine(ctx context.Context, p models.Principal, q dto.TaskQuery) (TaskList, error) {
	q.Filter = policy.OwnerScope(p).Apply(q.Filter)
	return s.list(ctx, q)
}

// ListAll lists every task visible to p, with owner details attached.
// Admins see all tasks; anyone else is narrowed to their own.
func (s *TaskService) ListAll(ctx context.Context, p models.Principal, q dto.TaskQuery) (TaskList, error) {
	q.Filter = policy.ScopeForList(p).Apply(q.Filter)
	q.Filter.IncludeOwner = true
	return s.list(ctx, q)
}

func (s *TaskService) list(ctx context.Context, q dto.TaskQuery) (TaskList, error) {
	tasks, err := s.store.ListTasks(ctx, q.Filter, q.Sort, q.Page.Skip(), q.Page.Limit)
	if err != nil {
		return TaskList{}, apperr.Internal("failed to list tasks", err)
	}
	total, err := s.store.CountTasks(ctx, q.Filter)
	if err != nil {
		return TaskList{}, apperr.Internal("failed to count tasks", err)
	}
	return TaskList{Tasks: tasks, Pagination: q.Page.Info(total)}, nil
}

// Get returns a task p may access.
func (s *TaskService) Get(ctx context.Context, p models.Principal, id string) (models.Task, error) {
	return policy.Resolve(ctx, s.store, id, p)
}

// Update resolves the task, then applies patch. Status may move freely between values.
func (s *TaskService) Update(ctx context.Context, p models.Principal, id string, patch storage.TaskPatch) (models.Task, error) {
	if _, err := policy.Resolve(ctx, s.store, id, p); err != nil {
		return models.Task{}, err
	}
	task, err := s.store.UpdateTask(ctx, id, patch)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Task{}, apperr.NotFound("Task not found")
		}
		return models.Task{}, apperr.Internal("failed to update task", err)
	}
	return task, nil
}

// Delete resolves the task, then removes it. Losing a race with another delete yields NotFound.
func (s *TaskService) Delete(ctx context.Context, p models.Principal, id string) error {
	task, err := policy.Resolve(ctx, s.store, id, p)
	if err != nil {
		return err
	}
	if err := s.store.DeleteTask(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.NotFound("Task not found")
		}
		return apperr.Internal("failed to delete task", err)
	}
	s.log.Info("task deleted",
		zap.String("task_id", id),
		zap.String("owner_id", task.UserID),
		zap.String("actor_id", p.ID))
	return nil
}

// Stats counts p's own tasks by status.
func (s *TaskService) Stats(ctx context.Context, p models.Principal) (models.TaskStats, error) {
	scope := policy.OwnerScope(p)
	var stats models.TaskStats
	counts := []struct {
		status models.TaskStatus
		dst    *int
	}{
		{"", &stats.Total},
		{models.StatusPending, &stats.Pending},
		{models.StatusInProgress, &stats.InProgress},
		{models.StatusCompleted, &stats.Completed},
	}
	for _, c := range counts {
		n, err := s.store.CountTasks(ctx, scope.Apply(storage.TaskFilter{Status: c.status}))
		if err != nil {
			return models.TaskStats{}, apperr.Internal("failed to count tasks", fmt.Errorf("count %q: %w", c.status, err))
		}
		*c.dst = n
	}
	return stats, nil
}
