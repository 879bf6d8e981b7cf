package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/atulkashyap404/taskmaster/internal/model"
	"github.com/atulkashyap404/taskmaster/internal/stats"
)

const maxTitle = 80

// DueLabel formats a due date the way the list shows it ("Jan 2, 2006").
func DueLabel(t model.Todo) string {
	if !t.HasDue() {
		return ""
	}
	return t.DueDate.Local().Format("Jan 2, 2006")
}

// Truncate shortens s to n runes with an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

// TodoLines renders one todo card: checkbox + title, optional description,
// then badges and due date.
func TodoLines(idx int, t model.Todo) []string {
	box := MutedStyle.Render(current.BoxUnchecked)
	title := Truncate(t.Title, maxTitle)
	if t.Completed {
		box = SuccessStyle.Render(current.BoxChecked)
		title = DoneStyle.Render(title)
	}
	head := fmt.Sprintf("%s %s %s  %s", MutedStyle.Render(fmt.Sprintf("%2d.", idx)), box, title,
		MutedStyle.Render(ShortID(t.ID)))

	lines := []string{head}
	if t.Description != "" {
		lines = append(lines, "       "+MutedStyle.Render(Truncate(t.Description, maxTitle)))
	}
	meta := []string{PriorityBadge(t.Priority), CategoryBadge(t.Category)}
	if d := DueLabel(t); d != "" {
		meta = append(meta, MutedStyle.Render(current.SymDue+" "+d))
	}
	lines = append(lines, "       "+strings.Join(meta, " "))
	return lines
}

// ShortID is the first block of a UUID, enough to reference it from the CLI.
func ShortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// ListLines renders every todo, or a placeholder when there are none.
// Indexes are 1-based positions in the unfiltered collection when pos is
// given, otherwise positions in todos.
func ListLines(todos []model.Todo, pos func(model.Todo) int) []string {
	if len(todos) == 0 {
		return []string{MutedStyle.Render("No todos found")}
	}
	var out []string
	for i, t := range todos {
		n := i + 1
		if pos != nil {
			n = pos(t)
		}
		out = append(out, TodoLines(n, t)...)
	}
	return out
}

// Header is the one-line counter strip used above lists.
func Header(s stats.Summary) string {
	return fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		TitleStyle.Render("Todos"),
		SuccessStyle.Render(current.SymDone), s.Completed,
		PendingStyle.Render(current.SymPending), s.Active,
		AccentStyle.Render("Total"), s.Total,
	)
}

type card struct {
	title, value, caption string
}

// StatsPanel renders the four counter cards and the completion rate.
func StatsPanel(s stats.Summary, dueSoonDays int, width int) string {
	cards := []card{
		{"Total Tasks", fmt.Sprint(s.Total), "All todo items"},
		{"Active Tasks", fmt.Sprint(s.Active), "Tasks to be completed"},
		{"Completed Tasks", fmt.Sprint(s.Completed), "Finished tasks"},
		{"Due Soon", fmt.Sprint(s.DueSoon), fmt.Sprintf("Tasks due in %d days", dueSoonDays)},
	}
	rendered := make([]string, 0, len(cards))
	for _, c := range cards {
		body := TitleStyle.Render(c.title) + "\n" +
			AccentStyle.Bold(true).Render(c.value) + "\n" +
			MutedStyle.Render(c.caption)
		rendered = append(rendered, BoxStyle.Width(24).Render(body))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)

	barWidth := width
	if barWidth <= 0 {
		barWidth = lipgloss.Width(row) - 12
	}
	rate := TitleStyle.Render("Completion Rate") + "\n" +
		ProgressBar(s.CompletionRate, barWidth) + "\n" +
		MutedStyle.Render(s.RateString()+" of tasks completed")
	return lipgloss.JoinVertical(lipgloss.Left, row, BoxStyle.Render(rate))
}
