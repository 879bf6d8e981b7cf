package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/atulkashyap404/taskmaster/internal/store/sqlitestore"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	for _, k := range []string{
		"TASKMASTER_STORAGE", "TASKMASTER_DATA_DIR", "TASKMASTER_SLOT", "TASKMASTER_THEME",
		"TASKMASTER_DUE_SOON_DAYS", "TASKMASTER_LOG_LEVEL", "TASKMASTER_LOG_FORMAT",
		"TASKMASTER_LOG_TIMESTAMPS",
	} {
		t.Setenv(k, "")
	}
	chdir(t, t.TempDir())
	return filepath.Join(home, "data")
}

func TestRunJSONBackend(t *testing.T) {
	dir := isolate(t)
	base := []string{"--data-dir", dir, "--theme", "mono"}

	if code := run(append(base, "add", "Buy milk", "-p", "high", "-c", "shopping")); code != 0 {
		t.Fatalf("add exit = %d", code)
	}
	if code := run(append(base, "done", "1")); code != 0 {
		t.Fatalf("done exit = %d", code)
	}

	b, err := os.ReadFile(filepath.Join(dir, "todos.json"))
	if err != nil {
		t.Fatal(err)
	}
	var got []map[string]any
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("persisted file is not a JSON array: %v\n%s", err, b)
	}
	if len(got) != 1 || got[0]["title"] != "Buy milk" || got[0]["completed"] != true ||
		got[0]["priority"] != "high" || got[0]["category"] != "shopping" {
		t.Fatalf("persisted = %v", got)
	}
}

func TestRunSQLiteBackend(t *testing.T) {
	dir := isolate(t)
	base := []string{"--data-dir", dir, "--storage", "sqlite", "--slot", "work"}

	if code := run(append(base, "add", "Write report")); code != 0 {
		t.Fatalf("add exit = %d", code)
	}

	db, err := sqlitestore.Open(filepath.Join(dir, "taskmaster.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	b, err := db.Slot("work").Read()
	if err != nil {
		t.Fatal(err)
	}
	var got []map[string]any
	if err := json.Unmarshal(b, &got); err != nil || len(got) != 1 || got[0]["title"] != "Write report" {
		t.Fatalf("slot value = %s (%v)", b, err)
	}
}

func TestRunExitCodes(t *testing.T) {
	dir := isolate(t)
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"help flag", []string{"-h"}, 0},
		{"help command", []string{"--data-dir", dir, "help"}, 0},
		{"bad backend", []string{"--storage", "redis"}, 2},
		{"unknown command", []string{"--data-dir", dir, "fly"}, 2},
		{"missing ref", []string{"--data-dir", dir, "done", "9"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := run(tt.args); got != tt.want {
				t.Fatalf("run(%q) = %d, want %d", tt.args, got, tt.want)
			}
		})
	}
}

// chdir changes the working directory for the duration of the test,
// restoring it on cleanup (equivalent of testing.T.Chdir, Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
