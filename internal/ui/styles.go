package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/atulkashyap404/taskmaster/internal/model"
)

var (
	TitleStyle    lipgloss.Style
	SuccessStyle  lipgloss.Style
	PendingStyle  lipgloss.Style
	AccentStyle   lipgloss.Style
	MutedStyle    lipgloss.Style
	ErrorStyle    lipgloss.Style
	SelectedStyle lipgloss.Style
	DoneStyle     lipgloss.Style
	HelpStyle     lipgloss.Style
	BoxStyle      lipgloss.Style
)

func init() { rebuildStyles() }

func rebuildStyles() {
	t := current
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(t.Title)
	SuccessStyle = lipgloss.NewStyle().Foreground(t.Success)
	PendingStyle = lipgloss.NewStyle().Foreground(t.Pending)
	AccentStyle = lipgloss.NewStyle().Foreground(t.Accent)
	MutedStyle = lipgloss.NewStyle().Faint(true)
	ErrorStyle = lipgloss.NewStyle().Foreground(t.Error).Bold(true)
	SelectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	DoneStyle = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	HelpStyle = lipgloss.NewStyle().Faint(true)
	BoxStyle = lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(t.BorderColor).
		Padding(0, 1)
}

// OK prints a success line.
func OK(w io.Writer, msg string) {
	fmt.Fprintln(w, SuccessStyle.Render(current.SymDone+" "+msg))
}

// Fail prints an error line.
func Fail(w io.Writer, msg string) {
	fmt.Fprintln(w, ErrorStyle.Render(current.SymFail+" "+msg))
}

// Badge colors per priority and category, matching the web dashboard.
var (
	priorityColors = map[model.Priority]lipgloss.Color{
		model.PriorityLow:    "33",
		model.PriorityMedium: "178",
		model.PriorityHigh:   "160",
	}
	categoryColors = map[model.Category]lipgloss.Color{
		model.CategoryPersonal: "135",
		model.CategoryWork:     "34",
		model.CategoryShopping: "205",
		model.CategoryHealth:   "37",
		model.CategoryOther:    "245",
	}
)

func badge(text string, c lipgloss.TerminalColor) string {
	if current.Name == "mono" {
		return "[" + text + "]"
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("15")).
		Background(c).
		Padding(0, 1).
		Render(text)
}

// PriorityBadge renders a colored priority pill.
func PriorityBadge(p model.Priority) string {
	return badge(string(p), priorityColors[p])
}

// CategoryBadge renders a colored category pill.
func CategoryBadge(c model.Category) string {
	return badge(string(c), categoryColors[c])
}
