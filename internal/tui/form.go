package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atulkashyap404/taskmaster/internal/filter"
	"github.com/atulkashyap404/taskmaster/internal/model"
	"github.com/atulkashyap404/taskmaster/internal/ui"
)

type field int

const (
	fieldTitle field = iota
	fieldDescription
	fieldPriority
	fieldCategory
	fieldDue
	fieldCount
)

// todoForm is the creation dialog. With editID set it edits instead.
type todoForm struct {
	editID   string
	focus    field
	title    textinput.Model
	desc     textinput.Model
	due      textinput.Model
	dueSeed  string
	priority model.Priority
	category model.Category
	err      string
}

func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	return ti
}

func newForm() todoForm {
	f := todoForm{
		title:    newInput("New todo title...", 200),
		desc:     newInput("Optional description", 500),
		due:      newInput("YYYY-MM-DD (optional)", 25),
		priority: model.PriorityMedium,
		category: model.CategoryPersonal,
	}
	f.title.Focus()
	return f
}

func editForm(t model.Todo) todoForm {
	f := newForm()
	f.editID = t.ID
	f.title.SetValue(t.Title)
	f.title.CursorEnd()
	f.desc.SetValue(t.Description)
	f.priority = t.Priority
	f.category = t.Category
	if t.HasDue() {
		f.dueSeed = t.DueDate.Local().Format(model.DateLayout)
		f.due.SetValue(f.dueSeed)
	}
	return f
}

func (f *todoForm) setFocus(to field) {
	f.focus = (to + fieldCount) % fieldCount
	f.title.Blur()
	f.desc.Blur()
	f.due.Blur()
	switch f.focus {
	case fieldTitle:
		f.title.Focus()
	case fieldDescription:
		f.desc.Focus()
	case fieldDue:
		f.due.Focus()
	}
}

// update handles keys that belong to the form itself. submit is true when
// the user asked to save.
func (f todoForm) update(msg tea.Msg) (todoForm, tea.Cmd, bool) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "enter":
			return f, nil, true
		case "tab", "down":
			f.setFocus(f.focus + 1)
			return f, nil, false
		case "shift+tab", "up":
			f.setFocus(f.focus - 1)
			return f, nil, false
		case "left", "right", " ":
			if f.focus == fieldPriority {
				f.priority = cycle(model.AllPriorities(), f.priority, k.String() == "left")
				return f, nil, false
			}
			if f.focus == fieldCategory {
				f.category = cycle(model.AllCategories(), f.category, k.String() == "left")
				return f, nil, false
			}
		}
	}
	var cmd tea.Cmd
	switch f.focus {
	case fieldTitle:
		f.title, cmd = f.title.Update(msg)
	case fieldDescription:
		f.desc, cmd = f.desc.Update(msg)
	case fieldDue:
		f.due, cmd = f.due.Update(msg)
	}
	return f, cmd, false
}

func cycle[T ~string](opts []T, cur T, back bool) T {
	if !back {
		return filter.Next(opts, cur)
	}
	for i, o := range opts {
		if o == cur {
			return opts[(i-1+len(opts))%len(opts)]
		}
	}
	return opts[0]
}

// draft validates the inputs. Only the title is required.
func (f *todoForm) draft() (model.Draft, bool) {
	title := strings.TrimSpace(f.title.Value())
	if title == "" {
		f.err = "Title cannot be empty"
		f.setFocus(fieldTitle)
		return model.Draft{}, false
	}
	d := model.NewDraft(title)
	d.Description = strings.TrimSpace(f.desc.Value())
	d.Priority = f.priority
	d.Category = f.category
	if v := strings.TrimSpace(f.due.Value()); v != "" {
		due, err := model.ParseDue(v)
		if err != nil {
			f.err = "Due date must be YYYY-MM-DD"
			f.setFocus(fieldDue)
			return model.Draft{}, false
		}
		d.DueDate = &due
	}
	f.err = ""
	return d, true
}

// patch turns the edited inputs into an update. The due date is only
// touched when its input differs from what the form was opened with.
func (f *todoForm) patch() (model.Patch, bool) {
	d, ok := f.draft()
	if !ok {
		return model.Patch{}, false
	}
	p := model.Patch{
		Title:       &d.Title,
		Description: &d.Description,
		Priority:    &d.Priority,
		Category:    &d.Category,
	}
	switch {
	case strings.TrimSpace(f.due.Value()) == f.dueSeed:
	case d.DueDate != nil:
		p.DueDate = d.DueDate
	default:
		p.ClearDue = true
	}
	return p, true
}

func (f todoForm) view() string {
	label := func(fl field, s string) string {
		if f.focus == fl {
			return ui.AccentStyle.Render("▸ " + s)
		}
		return ui.MutedStyle.Render("  " + s)
	}
	heading := "Add New Todo"
	if f.editID != "" {
		heading = "Edit Todo"
	}
	if f.err != "" {
		heading += "  " + ui.ErrorStyle.Render(f.err)
	}
	lines := []string{
		ui.TitleStyle.Render(heading),
		label(fieldTitle, "Title"), f.title.View(),
		label(fieldDescription, "Description"), f.desc.View(),
		label(fieldPriority, "Priority") + "  " + selector(model.AllPriorities(), f.priority),
		label(fieldCategory, "Category") + "  " + selector(model.AllCategories(), f.category),
		label(fieldDue, "Due date"), f.due.View(),
		ui.HelpStyle.Render("tab/shift+tab move • ←/→ choose • enter save • esc cancel"),
	}
	return ui.Panel(lines)
}

func selector[T ~string](opts []T, cur T) string {
	parts := make([]string, 0, len(opts))
	for _, o := range opts {
		if o == cur {
			parts = append(parts, ui.SelectedStyle.Render(" "+string(o)+" "))
		} else {
			parts = append(parts, ui.MutedStyle.Render(" "+string(o)+" "))
		}
	}
	return strings.Join(parts, "")
}

// dueHint is shown under the stats when something is close to its deadline.
func dueHint(n int, days int) string {
	if n == 0 {
		return ""
	}
	return ui.PendingStyle.Render(ui.Current().SymDue + " " + plural(n, "task") + " due within " + plural(days, "day"))
}

func plural(n int, word string) string {
	s := strings.TrimSpace(word)
	if n != 1 {
		s += "s"
	}
	return strconv.Itoa(n) + " " + s
}
