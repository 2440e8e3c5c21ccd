package pagination

import (
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Page is a normalized page request.
type Page struct {
	Page  int
	Limit int
}

// Info is the pagination block returned alongside list results.
type Info struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// New clamps page to >= 1 and limit to [1, MaxLimit].
func New(page, limit int) Page {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Page{Page: page, Limit: limit}
}

// Parse reads raw query values. Empty or non-numeric input takes the default.
func Parse(page, limit string) Page {
	return New(atoiDefault(page, DefaultPage), atoiDefault(limit, DefaultLimit))
}

// Skip is the number of rows preceding this page.
func (p Page) Skip() int {
	return (p.Page - 1) * p.Limit
}

// Info builds the pagination block for a total row count.
func (p Page) Info(total int) Info {
	return Info{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: TotalPages(total, p.Limit),
	}
}

// TotalPages is ceil(total/limit).
func TotalPages(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

func atoiDefault(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return def
	}
	return n
}
