// Package policy decides which tasks a principal may see and change.
//
// Admins may act on any task. Everyone else may act only on tasks they own,
// and the same rule covers read, update and delete.
package policy

import (
	"context"
	"errors"
	"fmt"

	"github.com/hongminglow/taskboard/internal/apperr"
	"github.com/hongminglow/taskboard/internal/models"
	"github.com/hongminglow/taskboard/internal/storage"
)

// TaskFinder is the lookup Resolve needs.
type TaskFinder interface {
	FindTaskByID(ctx context.Context, id string) (models.Task, error)
}

// CanAccess reports whether p may read, update or delete t.
func CanAccess(p models.Principal, t models.Task) bool {
	return p.IsAdmin() || (p.ID != "" && t.UserID == p.ID)
}

// Scope is the owner restriction applied to list queries.
// An empty OwnerID means no restriction.
type Scope struct {
	OwnerID string
}

// Unrestricted reports whether the scope admits every owner.
func (s Scope) Unrestricted() bool {
	return s.OwnerID == ""
}

// Apply sets the owner clause on f, replacing whatever was there.
func (s Scope) Apply(f storage.TaskFilter) storage.TaskFilter {
	f.OwnerID = s.OwnerID
	return f
}

// ScopeForList returns no restriction for admins and the principal's own id otherwise.
func ScopeForList(p models.Principal) Scope {
	if p.IsAdmin() {
		return Scope{}
	}
	return Scope{OwnerID: p.ID}
}

// OwnerScope restricts to p's own tasks regardless of role.
func OwnerScope(p models.Principal) Scope {
	return Scope{OwnerID: p.ID}
}

// Resolve loads the task and checks access. A missing task is NotFound for
// every principal; an existing task the principal may not touch is Forbidden.
func Resolve(ctx context.Context, finder TaskFinder, id string, p models.Principal) (models.Task, error) {
	task, err := finder.FindTaskByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Task{}, apperr.NotFound("Task not found")
		}
		return models.Task{}, apperr.Internal("failed to load task", fmt.Errorf("find task %s: %w", id, err))
	}
	if !CanAccess(p, task) {
		return models.Task{}, apperr.Forbidden("You do not have permission to access this task")
	}
	return task, nil
}
