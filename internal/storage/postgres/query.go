package postgres

import (
	"fmt"
	"strings"

	"github.com/hongminglow/taskboard/internal/storage"
)

var sortColumns = map[storage.SortField]string{
	storage.SortCreatedAt: "t.created_at",
	storage.SortUpdatedAt: "t.updated_at",
	storage.SortTitle:     "t.title",
	storage.SortDueDate:   "t.due_date",
	storage.SortPriority:  "t.priority",
	storage.SortStatus:    "t.status",
}

// queryArgs collects positional parameters.
type queryArgs []any

func (a *queryArgs) add(v any) string {
	*a = append(*a, v)
	return fmt.Sprintf("$%d", len(*a))
}

// buildTaskWhere renders the WHERE clause for f, appending its parameters to args.
func buildTaskWhere(f storage.TaskFilter, args *queryArgs) string {
	var clauses []string
	if f.OwnerID != "" {
		clauses = append(clauses, "t.user_id = "+args.add(f.OwnerID))
	}
	if f.Status != "" {
		clauses = append(clauses, "t.status = "+args.add(string(f.Status))+"::task_status")
	}
	if f.Priority != "" {
		clauses = append(clauses, "t.priority = "+args.add(string(f.Priority))+"::task_priority")
	}
	if f.Search != "" {
		p := args.add("%" + escapeLike(f.Search) + "%")
		clauses = append(clauses, fmt.Sprintf(`(t.title ILIKE %[1]s ESCAPE '\' OR t.description ILIKE %[1]s ESCAPE '\')`, p))
	}
	if len(clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(clauses, " AND ")
}

// buildTaskOrder renders ORDER BY with a stable id tiebreak.
func buildTaskOrder(s storage.TaskSort) string {
	col, ok := sortColumns[s.Field]
	if !ok {
		col = sortColumns[storage.SortCreatedAt]
	}
	dir := "DESC"
	if s.Order == storage.OrderAsc {
		dir = "ASC"
	}
	return fmt.Sprintf(" ORDER BY %s %s, t.id %s", col, dir, dir)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
