package dto

import (
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hongminglow/taskboard/internal/apperr"
	"github.com/hongminglow/taskboard/internal/models"
	"github.com/hongminglow/taskboard/internal/pagination"
	"github.com/hongminglow/taskboard/internal/storage"
)

const (
	maxTitleLen       = 200
	maxDescriptionLen = 2000
)

type CreateTaskRequest struct {
	Title       string            `json:"title"`
	Description *string           `json:"description"`
	Status      models.TaskStatus `json:"status"`
	Priority    models.Priority   `json:"priority"`
	DueDate     *string           `json:"dueDate"`
}

// CreateTaskInput is a validated create request.
type CreateTaskInput struct {
	Title       string
	Description *string
	Status      models.TaskStatus
	Priority    models.Priority
	DueDate     *time.Time
}

// Parse validates the request and applies defaults (PENDING, MEDIUM).
func (r CreateTaskRequest) Parse() (CreateTaskInput, error) {
	var errs []apperr.FieldError
	in := CreateTaskInput{
		Title:       strings.TrimSpace(r.Title),
		Description: r.Description,
		Status:      r.Status,
		Priority:    r.Priority,
	}

	errs = append(errs, validateTitle(in.Title)...)
	errs = append(errs, validateDescription(in.Description)...)
	if in.Status == "" {
		in.Status = models.StatusPending
	} else if !in.Status.Valid() {
		errs = append(errs, invalidStatus())
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	} else if !in.Priority.Valid() {
		errs = append(errs, invalidPriority())
	}
	due, err := parseDueDate(r.DueDate)
	if err != nil {
		errs = append(errs, *err)
	}
	in.DueDate = due

	if len(errs) > 0 {
		return CreateTaskInput{}, apperr.Validation(errs)
	}
	return in, nil
}

// UpdateTaskRequest is a partial update. Description and dueDate may be set to null.
type UpdateTaskRequest struct {
	Title       *string            `json:"title"`
	Description Nullable[string]   `json:"description"`
	Status      *models.TaskStatus `json:"status"`
	Priority    *models.Priority   `json:"priority"`
	DueDate     Nullable[string]   `json:"dueDate"`
}

// Parse validates the request into a storage patch.
func (r UpdateTaskRequest) Parse() (storage.TaskPatch, error) {
	var errs []apperr.FieldError
	var patch storage.TaskPatch

	if r.Title != nil {
		title := strings.TrimSpace(*r.Title)
		errs = append(errs, validateTitle(title)...)
		patch.Title = &title
	}
	if r.Description.Set {
		if r.Description.Valid {
			errs = append(errs, validateDescription(r.Description.Ptr())...)
			patch.Description = r.Description.Ptr()
		} else {
			patch.ClearDescription = true
		}
	}
	if r.Status != nil {
		if !r.Status.Valid() {
			errs = append(errs, invalidStatus())
		}
		patch.Status = r.Status
	}
	if r.Priority != nil {
		if !r.Priority.Valid() {
			errs = append(errs, invalidPriority())
		}
		patch.Priority = r.Priority
	}
	if r.DueDate.Set {
		due, err := parseDueDate(r.DueDate.Ptr())
		switch {
		case err != nil:
			errs = append(errs, *err)
		case due == nil:
			patch.ClearDueDate = true
		default:
			patch.DueDate = due
		}
	}

	if len(errs) > 0 {
		return storage.TaskPatch{}, apperr.Validation(errs)
	}
	return patch, nil
}

// TaskQuery is a validated list request.
type TaskQuery struct {
	Filter storage.TaskFilter
	Sort   storage.TaskSort
	Page   pagination.Page
}

// ParseTaskQuery validates list query parameters. Owner is never read from input.
func ParseTaskQuery(values url.Values) (TaskQuery, error) {
	var errs []apperr.FieldError
	q := TaskQuery{
		Sort: storage.DefaultTaskSort,
		Page: pagination.Parse(values.Get("page"), values.Get("limit")),
	}

	if raw := values.Get("status"); raw != "" {
		status := models.TaskStatus(raw)
		if !status.Valid() {
			errs = append(errs, invalidStatus())
		}
		q.Filter.Status = status
	}
	if raw := values.Get("priority"); raw != "" {
		priority := models.Priority(raw)
		if !priority.Valid() {
			errs = append(errs, invalidPriority())
		}
		q.Filter.Priority = priority
	}
	q.Filter.Search = strings.TrimSpace(values.Get("search"))

	if raw := values.Get("sortBy"); raw != "" {
		field := storage.SortField(raw)
		if !field.Valid() {
			errs = append(errs, apperr.FieldError{Field: "sortBy", Message: "sortBy must be one of createdAt, updatedAt, title, dueDate, priority, status"})
		}
		q.Sort.Field = field
	}
	if raw := values.Get("order"); raw != "" {
		order := storage.SortOrder(raw)
		if !order.Valid() {
			errs = append(errs, apperr.FieldError{Field: "order", Message: "order must be asc or desc"})
		}
		q.Sort.Order = order
	}

	if len(errs) > 0 {
		return TaskQuery{}, apperr.Validation(errs)
	}
	return q, nil
}

func validateTitle(title string) []apperr.FieldError {
	switch n := utf8.RuneCountInString(title); {
	case n == 0:
		return []apperr.FieldError{{Field: "title", Message: "Title is required"}}
	case n > maxTitleLen:
		return []apperr.FieldError{{Field: "title", Message: "Title is too long"}}
	}
	return nil
}

func validateDescription(desc *string) []apperr.FieldError {
	if desc != nil && utf8.RuneCountInString(*desc) > maxDescriptionLen {
		return []apperr.FieldError{{Field: "description", Message: "Description is too long"}}
	}
	return nil
}

func parseDueDate(raw *string) (*time.Time, *apperr.FieldError) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *raw)
	if err != nil {
		return nil, &apperr.FieldError{Field: "dueDate", Message: "Invalid datetime"}
	}
	t = t.UTC()
	return &t, nil
}

func invalidStatus() apperr.FieldError {
	return apperr.FieldError{Field: "status", Message: "status must be one of PENDING, IN_PROGRESS, COMPLETED"}
}

func invalidPriority() apperr.FieldError {
	return apperr.FieldError{Field: "priority", Message: "priority must be one of LOW, MEDIUM, HIGH"}
}
