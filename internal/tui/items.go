package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atulkashyap404/taskmaster/internal/model"
	"github.com/atulkashyap404/taskmaster/internal/ui"
)

// listItem adapts a Todo to bubbles/list.Item
type listItem struct {
	todo model.Todo
}

func (i listItem) Title() string       { return i.todo.Title }
func (i listItem) Description() string { return i.todo.Description }
func (i listItem) FilterValue() string { return i.todo.Title }

func toItems(todos []model.Todo) []list.Item {
	out := make([]list.Item, 0, len(todos))
	for _, t := range todos {
		out = append(out, listItem{todo: t})
	}
	return out
}

// itemDelegate renders a todo as a two-line card.
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 2 }
func (d itemDelegate) Spacing() int                              { return 1 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	t := it.todo
	th := ui.Current()

	box := ui.MutedStyle.Render(th.BoxUnchecked)
	title := ui.Truncate(t.Title, 60)
	if t.Completed {
		box = ui.SuccessStyle.Render(th.BoxChecked)
		title = ui.DoneStyle.Render(title)
	}
	if t.Description != "" {
		title += "  " + ui.MutedStyle.Render(ui.Truncate(t.Description, 40))
	}

	meta := []string{ui.PriorityBadge(t.Priority), ui.CategoryBadge(t.Category)}
	if due := ui.DueLabel(t); due != "" {
		meta = append(meta, ui.MutedStyle.Render(th.SymDue+" "+due))
	}

	prefix := "  "
	if index == m.Index() {
		prefix = ui.SelectedStyle.Render("> ")
	}
	fmt.Fprintf(w, "%s%s %s\n", prefix, box, title)
	fmt.Fprintf(w, "    %s", strings.Join(meta, " "))
}
