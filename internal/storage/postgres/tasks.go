package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hongminglow/taskboard/internal/models"
	"github.com/hongminglow/taskboard/internal/storage"
)

const taskColumns = `t.id::text, t.title, t.description, t.status::text, t.priority::text, t.due_date, t.user_id::text, t.created_at, t.updated_at`

// CreateTask inserts a task row.
func (s *Store) CreateTask(ctx context.Context, task models.Task) (models.Task, error) {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	query := `
		INSERT INTO tasks AS t (id, title, description, status, priority, due_date, user_id)
		VALUES ($1, $2, $3, $4::task_status, $5::task_priority, $6, $7)
		RETURNING ` + taskColumns
	row := s.pool.QueryRow(ctx, query,
		task.ID, task.Title, task.Description, string(task.Status), string(task.Priority), task.DueDate, task.UserID)
	return scanTask(row)
}

// FindTaskByID fetches a task by primary key.
func (s *Store) FindTaskByID(ctx context.Context, id string) (models.Task, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks t WHERE t.id = $1`, id)
	return scanTask(row)
}

// ListTasks returns one page of tasks matching filter.
func (s *Store) ListTasks(ctx context.Context, filter storage.TaskFilter, sort storage.TaskSort, skip, take int) ([]models.Task, error) {
	var args queryArgs
	query := `SELECT ` + taskColumns + `, u.name, u.email FROM tasks t JOIN users u ON u.id = t.user_id` +
		buildTaskWhere(filter, &args) +
		buildTaskOrder(sort)
	query += " LIMIT " + args.add(take) + " OFFSET " + args.add(skip)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var owner models.TaskOwner
		task, err := scanTaskWith(rows, &owner.Name, &owner.Email)
		if err != nil {
			return nil, err
		}
		if filter.IncludeOwner {
			task.User = &owner
		}
		tasks = append(tasks, task)
	}
	return tasks, mapError(rows.Err())
}

// CountTasks counts tasks matching filter.
func (s *Store) CountTasks(ctx context.Context, filter storage.TaskFilter) (int, error) {
	var args queryArgs
	query := `SELECT COUNT(*) FROM tasks t` + buildTaskWhere(filter, &args)
	var n int
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, mapError(err)
	}
	return n, nil
}

// UpdateTask applies patch and bumps updated_at.
func (s *Store) UpdateTask(ctx context.Context, id string, patch storage.TaskPatch) (models.Task, error) {
	var args queryArgs
	sets := []string{"updated_at = NOW()"}
	if patch.Title != nil {
		sets = append(sets, "title = "+args.add(*patch.Title))
	}
	switch {
	case patch.ClearDescription:
		sets = append(sets, "description = NULL")
	case patch.Description != nil:
		sets = append(sets, "description = "+args.add(*patch.Description))
	}
	if patch.Status != nil {
		sets = append(sets, "status = "+args.add(string(*patch.Status))+"::task_status")
	}
	if patch.Priority != nil {
		sets = append(sets, "priority = "+args.add(string(*patch.Priority))+"::task_priority")
	}
	switch {
	case patch.ClearDueDate:
		sets = append(sets, "due_date = NULL")
	case patch.DueDate != nil:
		sets = append(sets, "due_date = "+args.add(*patch.DueDate))
	}

	query := fmt.Sprintf(`UPDATE tasks AS t SET %s WHERE t.id = %s RETURNING %s`,
		strings.Join(sets, ", "), args.add(id), taskColumns)
	return scanTask(s.pool.QueryRow(ctx, query, args...))
}

// DeleteTask removes a task.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanTask(row pgx.Row) (models.Task, error) {
	return scanTaskWith(row)
}

func scanTaskWith(row pgx.Row, extra ...any) (models.Task, error) {
	var task models.Task
	var status, priority string
	dest := []any{&task.ID, &task.Title, &task.Description, &status, &priority, &task.DueDate, &task.UserID, &task.CreatedAt, &task.UpdatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return models.Task{}, mapError(err)
	}
	task.Status = models.TaskStatus(status)
	task.Priority = models.Priority(priority)
	return task, nil
}
