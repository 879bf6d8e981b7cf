package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Todo is the domain model for a task entry.
// JSON names match the persisted slot format.
type Todo struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"createdAt"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Priority    Priority   `json:"priority"`
	Category    Category   `json:"category"`
}

// HasDue reports whether the todo carries a due date.
func (t Todo) HasDue() bool { return t.DueDate != nil && !t.DueDate.IsZero() }

// Draft is what the creation form produces. The store assigns ID and CreatedAt.
type Draft struct {
	Title       string
	Description string
	Priority    Priority
	Category    Category
	DueDate     *time.Time
	Completed   bool
}

// NewDraft returns a draft with the form defaults (medium, personal).
func NewDraft(title string) Draft {
	return Draft{
		Title:    title,
		Priority: PriorityMedium,
		Category: CategoryPersonal,
	}
}

// WithDefaults replaces an empty or unknown priority or category with the
// form defaults, so every stored record survives a reload.
func (t Todo) WithDefaults() Todo {
	if !t.Priority.Valid() {
		t.Priority = PriorityMedium
	}
	if !t.Category.Valid() {
		t.Category = CategoryPersonal
	}
	return t
}

// Patch carries the fields to merge in an update. Nil means "leave as is".
// ID and CreatedAt are never patched.
type Patch struct {
	Title       *string
	Description *string
	Completed   *bool
	Priority    *Priority
	Category    *Category
	DueDate     *time.Time
	ClearDue    bool
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil &&
		p.Priority == nil && p.Category == nil && p.DueDate == nil && !p.ClearDue
}

// Apply returns a copy of t with the patch merged in.
func (p Patch) Apply(t Todo) Todo {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	switch {
	case p.ClearDue:
		t.DueDate = nil
	case p.DueDate != nil:
		d := *p.DueDate
		t.DueDate = &d
	}
	return t
}

// Priority is the urgency level of a todo.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Category classifies a todo.
type Category string

const (
	CategoryPersonal Category = "personal"
	CategoryWork     Category = "work"
	CategoryShopping Category = "shopping"
	CategoryHealth   Category = "health"
	CategoryOther    Category = "other"
)

var (
	ErrInvalidPriority = errors.New("invalid priority")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidDate     = errors.New("invalid date")
)

// AllPriorities lists priorities in display order.
func AllPriorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// AllCategories lists categories in display order.
func AllCategories() []Category {
	return []Category{CategoryPersonal, CategoryWork, CategoryShopping, CategoryHealth, CategoryOther}
}

func (p Priority) String() string { return string(p) }
func (c Category) String() string { return string(c) }

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	for _, x := range AllPriorities() {
		if p == x {
			return true
		}
	}
	return false
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, x := range AllCategories() {
		if c == x {
			return true
		}
	}
	return false
}

// ParsePriority is case-insensitive and trims spaces.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q (want low|medium|high)", ErrInvalidPriority, s)
	}
	return p, nil
}

// ParseCategory is case-insensitive and trims spaces.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q (want personal|work|shopping|health|other)", ErrInvalidCategory, s)
	}
	return c, nil
}

// DateLayout is the layout accepted by the due-date picker.
const DateLayout = "2006-01-02"

// ParseDue parses a due date as entered by the user: either YYYY-MM-DD
// (local midnight) or a full RFC 3339 timestamp.
func ParseDue(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(DateLayout, s, time.Local); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q (want YYYY-MM-DD)", ErrInvalidDate, s)
}
