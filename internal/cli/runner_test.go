package cli

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/atulkashyap404/taskmaster/internal/config"
	"github.com/atulkashyap404/taskmaster/internal/model"
	"github.com/atulkashyap404/taskmaster/internal/store"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type harness struct {
	store  *store.Store
	slot   *store.MemSlot
	stdout bytes.Buffer
	stderr bytes.Buffer
	tuiRan bool
	tuiErr error
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{slot: &store.MemSlot{Key: "todos"}}
	n := 0
	h.store = store.Open(h.slot,
		store.WithClock(func() time.Time { return now }),
		store.WithIDFunc(func() string {
			n++
			return fmt.Sprintf("id%02d-%08x", n, n)
		}),
	)
	return h
}

func (h *harness) run(args ...string) int {
	h.stdout.Reset()
	h.stderr.Reset()
	return Run(args, Options{
		Config: config.Default(),
		Store:  h.store,
		Stdout: &h.stdout,
		Stderr: &h.stderr,
		Now:    func() time.Time { return now },
		Interactive: func(*store.Store, *config.Config) error {
			h.tuiRan = true
			return h.tuiErr
		},
	})
}

func TestAdd(t *testing.T) {
	h := newHarness(t)
	if code := h.run("add", "Buy", "milk", "-p", "low", "-c", "shopping", "-d", "2 litres", "--due", "2025-06-02"); code != 0 {
		t.Fatalf("add: exit %d, stderr %s", code, h.stderr.String())
	}
	todos := h.store.Todos()
	if len(todos) != 1 {
		t.Fatalf("len: got %d", len(todos))
	}
	got := todos[0]
	if got.Title != "Buy milk" || got.Priority != model.PriorityLow || got.Category != model.CategoryShopping ||
		got.Description != "2 litres" || !got.HasDue() || got.Completed {
		t.Errorf("added: %+v", got)
	}
	if !strings.Contains(h.stdout.String(), "added id01") {
		t.Errorf("stdout: %q", h.stdout.String())
	}
	if !strings.Contains(string(h.slot.Data), `"title": "Buy milk"`) {
		t.Error("add was not persisted")
	}
}

func TestAddArgumentOrder(t *testing.T) {
	tests := []struct {
		args  []string
		title string
		prio  model.Priority
	}{
		{[]string{"add", "Buy", "milk", "-p", "low"}, "Buy milk", model.PriorityLow},
		{[]string{"add", "-p", "high", "Fix", "--", "-x", "-y"}, "Fix -x -y", model.PriorityHigh},
		{[]string{"add", "Fix", "--", "-p", "low"}, "Fix -p low", model.PriorityMedium},
		{[]string{"add", "--", "--", "dashes"}, "-- dashes", model.PriorityMedium},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			h := newHarness(t)
			if code := h.run(tt.args...); code != 0 {
				t.Fatalf("exit %d, stderr %q", code, h.stderr.String())
			}
			todos := h.store.Todos()
			if len(todos) != 1 || todos[0].Title != tt.title || todos[0].Priority != tt.prio {
				t.Fatalf("stored %+v, want %q/%s", todos, tt.title, tt.prio)
			}
		})
	}
}

func TestAddDefaultsAndErrors(t *testing.T) {
	h := newHarness(t)
	if code := h.run("add", "Call mom"); code != 0 {
		t.Fatalf("add: exit %d", code)
	}
	if got := h.store.Todos()[0]; got.Priority != model.PriorityMedium || got.Category != model.CategoryPersonal {
		t.Errorf("defaults: %+v", got)
	}

	tests := []struct {
		name string
		args []string
	}{
		{"no title", []string{"add"}},
		{"blank title", []string{"add", "  "}},
		{"bad priority", []string{"add", "x", "-p", "urgent"}},
		{"bad category", []string{"add", "x", "-c", "errands"}},
		{"bad due", []string{"add", "x", "--due", "tomorrow"}},
		{"unknown flag", []string{"add", "x", "--bogus"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code := h.run(tt.args...); code != 2 {
				t.Errorf("exit: got %d, want 2", code)
			}
		})
	}
	if h.store.Len() != 1 {
		t.Errorf("failed adds changed the store: len %d", h.store.Len())
	}
}

func TestListFilters(t *testing.T) {
	h := newHarness(t)
	h.run("add", "Buy milk", "-p", "low", "-c", "shopping")
	h.run("add", "Write report", "-p", "high", "-c", "work")
	h.run("add", "Gym", "-c", "health")
	h.run("done", "2") // Write report

	if code := h.run("ls"); code != 0 {
		t.Fatalf("ls: exit %d", code)
	}
	out := h.stdout.String()
	for _, want := range []string{"Buy milk", "Write report", "Gym", "Total 3"} {
		if !strings.Contains(out, want) {
			t.Errorf("ls missing %q:\n%s", want, out)
		}
	}

	h.run("ls", "--status", "active", "-s", "MILK")
	out = h.stdout.String()
	if !strings.Contains(out, "Buy milk") || strings.Contains(out, "Write report") || strings.Contains(out, "Gym") {
		t.Errorf("filtered ls:\n%s", out)
	}
	if !strings.Contains(out, "showing 1 of 3") {
		t.Errorf("filtered ls should report counts:\n%s", out)
	}

	h.run("ls", "-s", "dentist")
	if !strings.Contains(h.stdout.String(), "No todos found") {
		t.Errorf("empty ls:\n%s", h.stdout.String())
	}

	h.run("ls", "--group")
	out = h.stdout.String()
	if strings.Index(out, "Active") > strings.Index(out, "Completed") {
		t.Errorf("group order:\n%s", out)
	}

	if code := h.run("ls", "--status", "finished"); code != 2 {
		t.Errorf("bad status: exit %d", code)
	}
}

func TestDoneRmEdit(t *testing.T) {
	h := newHarness(t)
	h.run("add", "first")
	h.run("add", "second")
	first := h.store.Todos()[1]

	if code := h.run("done", first.ID[:4]); code != 0 {
		t.Fatalf("done by prefix: exit %d %s", code, h.stderr.String())
	}
	if got, _ := h.store.Get(first.ID); !got.Completed {
		t.Error("done did not complete")
	}
	h.run("done", first.ID)
	if got, _ := h.store.Get(first.ID); got.Completed {
		t.Error("second done should reopen")
	}
	if !strings.Contains(h.stdout.String(), "reopened") {
		t.Errorf("stdout: %q", h.stdout.String())
	}

	if code := h.run("edit", "2", "--title", "first!", "-p", "high", "--due", "2025-06-03"); code != 0 {
		t.Fatalf("edit: exit %d %s", code, h.stderr.String())
	}
	got, _ := h.store.Get(first.ID)
	if got.Title != "first!" || got.Priority != model.PriorityHigh || !got.HasDue() || !got.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("edited: %+v", got)
	}
	h.run("edit", "2", "--no-due")
	if got, _ := h.store.Get(first.ID); got.HasDue() {
		t.Error("--no-due kept the due date")
	}
	if code := h.run("edit", "2"); code != 2 {
		t.Errorf("edit without changes: exit %d", code)
	}
	if code := h.run("edit", "2", "--due", "2025-01-01", "--no-due"); code != 2 {
		t.Errorf("edit exclusive flags: exit %d", code)
	}

	if code := h.run("rm", "1"); code != 0 {
		t.Fatalf("rm: exit %d", code)
	}
	if h.store.Len() != 1 || h.store.Todos()[0].ID != first.ID {
		t.Errorf("after rm: %+v", h.store.Todos())
	}

	if code := h.run("rm", "9"); code != 2 {
		t.Errorf("rm out of range: exit %d", code)
	}
	if !strings.Contains(h.stderr.String(), "Hint") {
		t.Errorf("stderr: %q", h.stderr.String())
	}
	if code := h.run("done"); code != 2 {
		t.Errorf("done without ref: exit %d", code)
	}
}

func TestStats(t *testing.T) {
	h := newHarness(t)
	h.run("add", "a", "--due", "2025-06-02")
	h.run("add", "b")
	h.run("add", "c")
	h.run("done", "1")

	if code := h.run("stats"); code != 0 {
		t.Fatalf("stats: exit %d", code)
	}
	out := h.stdout.String()
	for _, want := range []string{"Total Tasks", "Active Tasks", "Completed Tasks", "Due Soon", "33.3% of tasks completed"} {
		if !strings.Contains(out, want) {
			t.Errorf("stats missing %q:\n%s", want, out)
		}
	}
}

func TestSaveFailureExitsOne(t *testing.T) {
	h := newHarness(t)
	h.slot.Fail = errors.New("disk full")
	if code := h.run("add", "x"); code != 1 {
		t.Errorf("add with failing slot: exit %d", code)
	}
	if !strings.Contains(h.stderr.String(), "disk full") {
		t.Errorf("stderr: %q", h.stderr.String())
	}
}

func TestInteractiveAndHelp(t *testing.T) {
	h := newHarness(t)
	if code := h.run(); code != 0 || !h.tuiRan {
		t.Errorf("bare run: exit %d, tui ran %v", code, h.tuiRan)
	}
	h.tuiErr = errors.New("no tty")
	if code := h.run("tui"); code != 1 {
		t.Errorf("tui error: exit %d", code)
	}
	if code := h.run("help"); code != 0 || !strings.Contains(h.stdout.String(), "Subcommands") {
		t.Errorf("help: exit %d", code)
	}
	if code := h.run("frobnicate"); code != 2 || !strings.Contains(h.stderr.String(), "unknown subcommand") {
		t.Errorf("unknown: exit %d", code)
	}
}
