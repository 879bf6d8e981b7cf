// Package tui is the interactive dashboard: stats on top, a filterable
// todo list below, and a form to add or edit todos.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/atulkashyap404/taskmaster/internal/config"
	"github.com/atulkashyap404/taskmaster/internal/filter"
	"github.com/atulkashyap404/taskmaster/internal/model"
	"github.com/atulkashyap404/taskmaster/internal/stats"
	"github.com/atulkashyap404/taskmaster/internal/store"
	"github.com/atulkashyap404/taskmaster/internal/ui"
)

type mode int

const (
	modeList mode = iota
	modeSearch
	modeForm
)

// deleted remembers the last removed todo for single-level undo.
type deleted struct {
	todo  model.Todo
	index int
}

type Model struct {
	store *store.Store
	cfg   *config.Config
	now   func() time.Time

	list   list.Model
	search textinput.Model
	form   todoForm
	crit   filter.Criteria
	mode   mode

	undo   *deleted
	flash  string
	width  int
	height int
}

var (
	quitBind   = key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit"))
	addBind    = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	editBind   = key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit"))
	toggleBind = key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle"))
	deleteBind = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	undoBind   = key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo"))
	searchBind = key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search"))
	prioBind   = key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "priority"))
	catBind    = key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "category"))
	statusBind = key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "status"))
	clearBind  = key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear filters"))

	acceptBind = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "keep search"))
	cancelBind = key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "cancel"))
)

// Option tweaks a Model.
type Option func(*Model)

// WithClock sets the time source used for due-soon stats.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// New builds the dashboard over s.
func New(s *store.Store, cfg *config.Config, opts ...Option) Model {
	if cfg == nil {
		cfg = config.Default()
	}
	l := list.New(nil, itemDelegate{}, 80, 16)
	l.SetShowTitle(false)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false)
	l.Styles.HelpStyle = ui.HelpStyle
	l.Styles.PaginationStyle = ui.HelpStyle
	l.SetStatusBarItemName("todo", "todos")
	l.KeyMap.Quit = quitBind
	short := []key.Binding{addBind, toggleBind, deleteBind, searchBind}
	full := []key.Binding{addBind, editBind, toggleBind, deleteBind, undoBind, searchBind, prioBind, catBind, statusBind, clearBind}
	l.AdditionalShortHelpKeys = func() []key.Binding { return short }
	l.AdditionalFullHelpKeys = func() []key.Binding { return full }

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "Search todos..."
	search.CharLimit = 100

	m := Model{
		store:  s,
		cfg:    cfg,
		now:    time.Now,
		list:   l,
		search: search,
		crit:   filter.Criteria{Priority: filter.All, Category: filter.All, Status: filter.StatusAll},
		width:  80,
		height: 24,
	}
	for _, o := range opts {
		o(&m)
	}
	m.refresh()
	return m
}

// Run starts the dashboard and blocks until the user quits. The store
// persists on every change, so nothing is flushed on exit.
func Run(s *store.Store, cfg *config.Config) error {
	p := tea.NewProgram(New(s, cfg), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return s.Err()
}

// Criteria returns the active filter.
func (m Model) Criteria() filter.Criteria { return m.crit }

// Visible returns the todos currently listed.
func (m Model) Visible() []model.Todo {
	items := m.list.Items()
	out := make([]model.Todo, 0, len(items))
	for _, it := range items {
		if li, ok := it.(listItem); ok {
			out = append(out, li.todo)
		}
	}
	return out
}

// refresh re-derives the visible list from the store and keeps the
// cursor in range.
func (m *Model) refresh() {
	idx := m.list.Index()
	m.list.SetItems(toItems(filter.Apply(m.store.Todos(), m.crit)))
	if n := len(m.list.Items()); idx >= n {
		idx = n - 1
	}
	if idx < 0 {
		idx = 0
	}
	m.list.Select(idx)
}

func (m Model) selected() (model.Todo, bool) {
	li, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return model.Todo{}, false
	}
	return li.todo, true
}

// position is the index of id in the unfiltered collection.
func (m Model) position(id string) int {
	for i, t := range m.store.Todos() {
		if t.ID == id {
			return i
		}
	}
	return 0
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = ws.Width, ws.Height
		m.resize()
		return m, nil
	}

	switch m.mode {
	case modeForm:
		return m.updateForm(msg)
	case modeSearch:
		return m.updateSearch(msg)
	}

	if k, ok := msg.(tea.KeyMsg); ok {
		m.flash = ""
		switch {
		case key.Matches(k, quitBind):
			return m, tea.Quit
		case key.Matches(k, toggleBind):
			if t, ok := m.selected(); ok {
				m.store.Toggle(t.ID)
				m.refresh()
			}
			return m, nil
		case key.Matches(k, deleteBind):
			if t, ok := m.selected(); ok {
				m.undo = &deleted{todo: t, index: m.position(t.ID)}
				m.store.Delete(t.ID)
				m.flash = "deleted " + ui.Truncate(t.Title, 30) + " (u to undo)"
				m.refresh()
			}
			return m, nil
		case key.Matches(k, undoBind):
			if m.undo != nil {
				m.store.Restore(m.undo.todo, m.undo.index)
				m.flash = "restored " + ui.Truncate(m.undo.todo.Title, 30)
				m.undo = nil
				m.refresh()
			}
			return m, nil
		case key.Matches(k, addBind):
			m.form = newForm()
			m.mode = modeForm
			m.resize()
			return m, textinput.Blink
		case key.Matches(k, editBind):
			if t, ok := m.selected(); ok {
				m.form = editForm(t)
				m.mode = modeForm
				m.resize()
				return m, textinput.Blink
			}
			return m, nil
		case key.Matches(k, searchBind):
			m.mode = modeSearch
			m.search.SetValue(m.crit.Search)
			m.search.CursorEnd()
			m.search.Focus()
			m.resize()
			return m, textinput.Blink
		case key.Matches(k, prioBind):
			m.crit.Priority = filter.Next(filter.PriorityOptions(), m.crit.Priority)
			m.refresh()
			return m, nil
		case key.Matches(k, catBind):
			m.crit.Category = filter.Next(filter.CategoryOptions(), m.crit.Category)
			m.refresh()
			return m, nil
		case key.Matches(k, statusBind):
			m.crit.Status = filter.Next(filter.Statuses(), m.crit.Status)
			m.refresh()
			return m, nil
		case key.Matches(k, clearBind):
			m.crit = filter.Criteria{Priority: filter.All, Category: filter.All, Status: filter.StatusAll}
			m.search.SetValue("")
			m.refresh()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// updateSearch filters live while typing; enter keeps the term, esc drops it.
func (m Model) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, acceptBind):
			m.search.Blur()
			m.mode = modeList
			m.resize()
			return m, nil
		case key.Matches(k, cancelBind):
			m.search.SetValue("")
			m.search.Blur()
			m.crit.Search = ""
			m.mode = modeList
			m.refresh()
			m.resize()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != m.crit.Search {
		m.crit.Search = m.search.Value()
		m.refresh()
	}
	return m, cmd
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && key.Matches(k, cancelBind) {
		m.mode = modeList
		m.resize()
		return m, nil
	}
	f, cmd, submit := m.form.update(msg)
	m.form = f
	if !submit {
		return m, cmd
	}

	if m.form.editID != "" {
		p, ok := m.form.patch()
		if !ok {
			return m, nil
		}
		m.store.Update(m.form.editID, p)
		m.flash = "updated " + *p.Title
	} else {
		d, ok := m.form.draft()
		if !ok {
			return m, nil
		}
		m.store.Add(d)
		m.flash = "added " + d.Title
		m.list.Select(0)
	}
	if err := m.store.Err(); err != nil {
		m.flash = "save failed: " + err.Error()
	}
	m.mode = modeList
	m.refresh()
	m.resize()
	return m, nil
}

func (m *Model) resize() {
	reserved := 8
	switch m.mode {
	case modeForm:
		reserved += 14
	case modeSearch:
		reserved += 2
	}
	h := m.height - reserved
	if h < 4 {
		h = 4
	}
	m.list.SetSize(m.width-4, h)
}

func (m Model) View() string {
	all := m.store.Todos()
	days := m.cfg.UI.DueSoonDays
	sum := stats.ComputeWindow(all, m.now(), time.Duration(days)*24*time.Hour)

	header := ui.Header(sum) + "   " + ui.MutedStyle.Render(ui.ProgressBar(sum.CompletionRate, 20))
	if hint := dueHint(sum.DueSoon, days); hint != "" {
		header += "\n" + hint
	}

	sections := []string{header, m.filterBar()}
	if m.mode == modeSearch {
		sections = append(sections, m.search.View())
	}
	if len(m.list.Items()) == 0 {
		sections = append(sections, ui.MutedStyle.Render("No todos found"))
	} else {
		sections = append(sections, m.list.View())
	}
	if m.mode == modeForm {
		sections = append(sections, m.form.view())
	}
	if m.flash != "" {
		sections = append(sections, ui.MutedStyle.Render(m.flash))
	}
	return ui.BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m Model) filterBar() string {
	search := m.crit.Search
	if search == "" {
		search = "-"
	}
	return ui.HelpStyle.Render(fmt.Sprintf("search: %s  priority: %s  category: %s  status: %s",
		search, m.crit.Priority, m.crit.Category, m.crit.Status))
}
