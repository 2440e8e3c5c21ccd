package storage

import (
	"context"
	"errors"
	"time"

	"github.com/hongminglow/taskboard/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// ErrForeignKey indicates a reference to a missing related record.
var ErrForeignKey = errors.New("related record not found")

// UserStore captures user persistence operations.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByID(ctx context.Context, id string) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUserRole(ctx context.Context, id string, role models.Role) (models.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// TaskStore captures task persistence operations. Implementations only
// execute the filters they are given; scoping decisions happen upstream.
type TaskStore interface {
	CreateTask(ctx context.Context, task models.Task) (models.Task, error)
	FindTaskByID(ctx context.Context, id string) (models.Task, error)
	ListTasks(ctx context.Context, filter TaskFilter, sort TaskSort, skip, take int) ([]models.Task, error)
	CountTasks(ctx context.Context, filter TaskFilter) (int, error)
	UpdateTask(ctx context.Context, id string, patch TaskPatch) (models.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// Store is the full persistence capability handed to services.
type Store interface {
	UserStore
	TaskStore
	Close()
}

// TaskFilter narrows task queries. Zero-valued fields impose no restriction.
type TaskFilter struct {
	OwnerID      string
	Status       models.TaskStatus
	Priority     models.Priority
	Search       string
	IncludeOwner bool
}

// SortField names a sortable task column.
type SortField string

const (
	SortCreatedAt SortField = "createdAt"
	SortUpdatedAt SortField = "updatedAt"
	SortTitle     SortField = "title"
	SortDueDate   SortField = "dueDate"
	SortPriority  SortField = "priority"
	SortStatus    SortField = "status"
)

// SortFields lists the accepted sort keys.
var SortFields = []SortField{SortCreatedAt, SortUpdatedAt, SortTitle, SortDueDate, SortPriority, SortStatus}

func (f SortField) Valid() bool {
	for _, v := range SortFields {
		if v == f {
			return true
		}
	}
	return false
}

// SortOrder is asc or desc.
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

func (o SortOrder) Valid() bool {
	return o == OrderAsc || o == OrderDesc
}

// TaskSort orders task listings.
type TaskSort struct {
	Field SortField
	Order SortOrder
}

// DefaultTaskSort is newest first.
var DefaultTaskSort = TaskSort{Field: SortCreatedAt, Order: OrderDesc}

// TaskPatch holds a partial task update. Nil pointers leave the column unchanged;
// Clear* flags set the nullable column to NULL.
type TaskPatch struct {
	Title            *string
	Description      *string
	ClearDescription bool
	Status           *models.TaskStatus
	Priority         *models.Priority
	DueDate          *time.Time
	ClearDueDate     bool
}

// Empty reports whether the patch changes nothing.
func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && !p.ClearDescription &&
		p.Status == nil && p.Priority == nil && p.DueDate == nil && !p.ClearDueDate
}
