package jsonstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// JSON-file slot. One file per slot, human-readable, portable.
// No locking; fine for a local single-user tool.

const ext = ".json"

type Slot struct {
	name string
	path string
}

// New returns the slot stored at <dir>/<name>.json.
func New(dir, name string) (*Slot, error) {
	if name == "" {
		return nil, errors.New("jsonstore: empty slot name")
	}
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getwd: %w", err)
		}
		dir = wd
	}
	return &Slot{name: name, path: filepath.Join(dir, name+ext)}, nil
}

func (s *Slot) Name() string { return s.name }

// Path is the backing file.
func (s *Slot) Path() string { return s.path }

func (s *Slot) Read() ([]byte, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	return b, nil
}

// Write replaces the file via a temp file and rename so a crash never
// leaves a half-written slot behind.
func (s *Slot) Write(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+s.name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
