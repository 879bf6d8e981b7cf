package filter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atulkashyap404/taskmaster/internal/model"
)

// All is the wildcard value for the priority and category selectors.
const All = "all"

// Status selects by completion.
type Status string

const (
	StatusAll       Status = "all"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

var ErrInvalidStatus = errors.New("invalid status")

// Statuses lists status filters in display order.
func Statuses() []Status { return []Status{StatusAll, StatusActive, StatusCompleted} }

// ParseStatus accepts all|active|completed; empty means all.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case "", StatusAll:
		return StatusAll, nil
	case StatusActive:
		return StatusActive, nil
	case StatusCompleted:
		return StatusCompleted, nil
	}
	return "", fmt.Errorf("%w: %q (want all|active|completed)", ErrInvalidStatus, s)
}

// Criteria is what the list view's search box and selectors hold.
// Empty Priority/Category mean "all".
type Criteria struct {
	Search   string
	Priority string
	Category string
	Status   Status
}

// Identity reports whether c lets every todo through.
func (c Criteria) Identity() bool {
	return c.Search == "" &&
		(c.Priority == "" || c.Priority == All) &&
		(c.Category == "" || c.Category == All) &&
		(c.Status == "" || c.Status == StatusAll)
}

// Match reports whether t satisfies every criterion.
func (c Criteria) Match(t model.Todo) bool {
	if c.Search != "" && !strings.Contains(strings.ToLower(t.Title), strings.ToLower(c.Search)) {
		return false
	}
	if c.Priority != "" && c.Priority != All && string(t.Priority) != c.Priority {
		return false
	}
	if c.Category != "" && c.Category != All && string(t.Category) != c.Category {
		return false
	}
	switch c.Status {
	case StatusActive:
		return !t.Completed
	case StatusCompleted:
		return t.Completed
	}
	return true
}

// Apply returns the todos matching c, in their original order.
// The input is never modified.
func Apply(todos []model.Todo, c Criteria) []model.Todo {
	out := make([]model.Todo, 0, len(todos))
	for _, t := range todos {
		if c.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// Next cycles through opts after cur, wrapping to the first.
func Next[T ~string](opts []T, cur T) T {
	for i, o := range opts {
		if o == cur {
			return opts[(i+1)%len(opts)]
		}
	}
	return opts[0]
}

// PriorityOptions is "all" followed by every priority.
func PriorityOptions() []string {
	out := []string{All}
	for _, p := range model.AllPriorities() {
		out = append(out, string(p))
	}
	return out
}

// CategoryOptions is "all" followed by every category.
func CategoryOptions() []string {
	out := []string{All}
	for _, c := range model.AllCategories() {
		out = append(out, string(c))
	}
	return out
}

// ParsePriority validates a priority selector value.
func ParsePriority(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == All {
		return All, nil
	}
	p, err := model.ParsePriority(s)
	if err != nil {
		return "", err
	}
	return string(p), nil
}

// ParseCategory validates a category selector value.
func ParseCategory(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == All {
		return All, nil
	}
	c, err := model.ParseCategory(s)
	if err != nil {
		return "", err
	}
	return string(c), nil
}
