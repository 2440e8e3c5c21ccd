// Package memory is an in-process Store used by tests and STORE=memory runs.
package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hongminglow/taskboard/internal/models"
	"github.com/hongminglow/taskboard/internal/storage"
)

// Ensure Store satisfies the storage.Store interface at compile time.
var _ storage.Store = (*Store)(nil)

// Store keeps users and tasks in maps guarded by a single lock.
type Store struct {
	mu    sync.RWMutex
	users map[string]models.User
	tasks map[string]models.Task
	now   func() time.Time
}

// Option customizes a Store.
type Option func(*Store)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New returns an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		users: make(map[string]models.User),
		tasks: make(map[string]models.Task),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close is a no-op.
func (s *Store) Close() {}

// CreateUser inserts a user, rejecting duplicate emails.
func (s *Store) CreateUser(_ context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return models.User{}, storage.ErrAlreadyExists
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	now := s.now()
	user.CreatedAt, user.UpdatedAt = now, now
	s.users[user.ID] = user
	return user, nil
}

func (s *Store) FindUserByID(_ context.Context, id string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return user, nil
}

func (s *Store) FindUserByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

// ListUsers returns users newest first.
func (s *Store) ListUsers(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.User, 0, len(s.users))
	for _, user := range s.users {
		out = append(out, user)
	}
	slices.SortFunc(out, func(a, b models.User) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (s *Store) UpdateUserRole(_ context.Context, id string, role models.Role) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	user.Role = role
	user.UpdatedAt = s.now()
	s.users[id] = user
	return user, nil
}

// DeleteUser removes the user and every task they own.
func (s *Store) DeleteUser(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.users, id)
	for taskID, task := range s.tasks {
		if task.UserID == id {
			delete(s.tasks, taskID)
		}
	}
	return nil
}

// CreateTask inserts a task; the owner must exist.
func (s *Store) CreateTask(_ context.Context, task models.Task) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[task.UserID]; !ok {
		return models.Task{}, storage.ErrForeignKey
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	now := s.now()
	task.CreatedAt, task.UpdatedAt = now, now
	task.User = nil
	task = cloneTask(task)
	s.tasks[task.ID] = task
	return cloneTask(task), nil
}

func (s *Store) FindTaskByID(_ context.Context, id string) (models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok {
		return models.Task{}, storage.ErrNotFound
	}
	return cloneTask(task), nil
}

func (s *Store) ListTasks(_ context.Context, filter storage.TaskFilter, sort storage.TaskSort, skip, take int) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.filterLocked(filter)
	slices.SortFunc(matched, taskComparator(sort))

	if skip >= len(matched) {
		return []models.Task{}, nil
	}
	end := len(matched)
	if take > 0 && skip+take < end {
		end = skip + take
	}
	page := matched[skip:end]

	out := make([]models.Task, 0, len(page))
	for _, task := range page {
		task = cloneTask(task)
		if filter.IncludeOwner {
			if owner, ok := s.users[task.UserID]; ok {
				task.User = &models.TaskOwner{Name: owner.Name, Email: owner.Email}
			}
		}
		out = append(out, task)
	}
	return out, nil
}

func (s *Store) CountTasks(_ context.Context, filter storage.TaskFilter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.filterLocked(filter)), nil
}

func (s *Store) UpdateTask(_ context.Context, id string, patch storage.TaskPatch) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return models.Task{}, storage.ErrNotFound
	}
	if patch.Title != nil {
		task.Title = *patch.Title
	}
	switch {
	case patch.ClearDescription:
		task.Description = nil
	case patch.Description != nil:
		desc := *patch.Description
		task.Description = &desc
	}
	if patch.Status != nil {
		task.Status = *patch.Status
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}
	switch {
	case patch.ClearDueDate:
		task.DueDate = nil
	case patch.DueDate != nil:
		due := *patch.DueDate
		task.DueDate = &due
	}
	task.UpdatedAt = s.now()
	s.tasks[id] = task
	return cloneTask(task), nil
}

func (s *Store) DeleteTask(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (s *Store) filterLocked(filter storage.TaskFilter) []models.Task {
	needle := strings.ToLower(filter.Search)
	out := make([]models.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		if filter.OwnerID != "" && task.UserID != filter.OwnerID {
			continue
		}
		if filter.Status != "" && task.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && task.Priority != filter.Priority {
			continue
		}
		if needle != "" && !matchesSearch(task, needle) {
			continue
		}
		out = append(out, task)
	}
	return out
}

func matchesSearch(task models.Task, needle string) bool {
	if strings.Contains(strings.ToLower(task.Title), needle) {
		return true
	}
	return task.Description != nil && strings.Contains(strings.ToLower(*task.Description), needle)
}

// taskComparator mirrors Postgres ordering: NULL due dates sort as the largest value.
func taskComparator(sort storage.TaskSort) func(a, b models.Task) int {
	return func(a, b models.Task) int {
		var c int
		switch sort.Field {
		case storage.SortUpdatedAt:
			c = a.UpdatedAt.Compare(b.UpdatedAt)
		case storage.SortTitle:
			c = strings.Compare(a.Title, b.Title)
		case storage.SortDueDate:
			c = compareDue(a.DueDate, b.DueDate)
		case storage.SortPriority:
			c = cmp.Compare(a.Priority.Rank(), b.Priority.Rank())
		case storage.SortStatus:
			c = cmp.Compare(a.Status.Rank(), b.Status.Rank())
		default:
			c = a.CreatedAt.Compare(b.CreatedAt)
		}
		if sort.Order == storage.OrderDesc {
			c = -c
		}
		if c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	}
}

func compareDue(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return a.Compare(*b)
	}
}

func cloneTask(t models.Task) models.Task {
	if t.Description != nil {
		desc := *t.Description
		t.Description = &desc
	}
	if t.DueDate != nil {
		due := *t.DueDate
		t.DueDate = &due
	}
	if t.User != nil {
		owner := *t.User
		t.User = &owner
	}
	return t
}
