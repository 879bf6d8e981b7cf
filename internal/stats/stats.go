package stats

import (
	"fmt"
	"time"

	"github.com/atulkashyap404/taskmaster/internal/model"
)

// DueSoonWindow is how far ahead a due date still counts as "soon".
const DueSoonWindow = 3 * 24 * time.Hour

// Summary holds the counters shown on the stats panel.
type Summary struct {
	Total          int
	Active         int
	Completed      int
	CompletionRate float64 // percent, 0..100
	DueSoon        int
}

// Compute derives the summary with the default 3-day window.
func Compute(todos []model.Todo, now time.Time) Summary {
	return ComputeWindow(todos, now, DueSoonWindow)
}

// ComputeWindow is Compute with a custom due-soon window. Overdue active
// todos count as due soon.
func ComputeWindow(todos []model.Todo, now time.Time, window time.Duration) Summary {
	var s Summary
	s.Total = len(todos)
	for _, t := range todos {
		if t.Completed {
			s.Completed++
			continue
		}
		s.Active++
		if t.HasDue() && t.DueDate.Sub(now) < window {
			s.DueSoon++
		}
	}
	if s.Total > 0 {
		s.CompletionRate = float64(s.Completed) / float64(s.Total) * 100
	}
	return s
}

// RateString renders the rate with one decimal, e.g. "66.7%".
func (s Summary) RateString() string {
	return fmt.Sprintf("%.1f%%", s.CompletionRate)
}
