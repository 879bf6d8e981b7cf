// Package store owns the in-memory todo collection and keeps it in sync
// with a persisted slot.
package store

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/atulkashyap404/taskmaster/internal/logging"
	"github.com/atulkashyap404/taskmaster/internal/model"
)

var (
	ErrNotFound  = errors.New("todo not found")
	ErrAmbiguous = errors.New("ambiguous reference")
)

// ChangeFunc is called after every mutation with the new collection.
type ChangeFunc func(todos []model.Todo)

// Store holds the collection newest first. Mutations never fail; they
// replace the slice and fire the change hooks, the first of which is
// Persist unless auto-persist is turned off.
type Store struct {
	mu     sync.Mutex
	todos  []model.Todo
	slot   Slot
	schema *jsonschema.Schema
	logger *log.Logger

	now         func() time.Time
	newID       func() string
	autoPersist bool
	hooks       []ChangeFunc
	lastErr     error
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDFunc overrides the UUID generator.
func WithIDFunc(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// WithLogger sets the logger. Defaults to a discarding logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithAutoPersist toggles persisting after each mutation (default on).
func WithAutoPersist(on bool) Option {
	return func(s *Store) { s.autoPersist = on }
}

// WithOnChange registers a change hook.
func WithOnChange(fn ChangeFunc) Option {
	return func(s *Store) { s.hooks = append(s.hooks, fn) }
}

// New builds an empty store over slot. Call Load to read persisted state.
func New(slot Slot, opts ...Option) *Store {
	s := &Store{
		slot:        slot,
		now:         time.Now,
		newID:       func() string { return uuid.New().String() },
		autoPersist: true,
		todos:       []model.Todo{},
	}
	for _, o := range opts {
		o(s)
	}
	if s.logger == nil {
		s.logger = logging.Discard()
	}
	schema, err := compileTodoSchema()
	if err != nil {
		// Loading still works without validation.
		s.logger.Error("compile todo schema", "err", err)
	}
	s.schema = schema
	return s
}

// Open is New followed by Load.
func Open(slot Slot, opts ...Option) *Store {
	s := New(slot, opts...)
	s.Load()
	return s
}

// Load replaces the collection with whatever the slot holds. Anything it
// cannot read is dropped and logged; the result may be empty.
func (s *Store) Load() []model.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.slot.Read()
	if err != nil {
		s.logger.Warn("read slot", "slot", s.slot.Name(), "err", err)
		s.todos = []model.Todo{}
		return s.snapshot()
	}
	s.todos = decode(data, s.schema, s.logger)
	s.logger.Debug("loaded", "slot", s.slot.Name(), "count", len(s.todos))
	return s.snapshot()
}

// Persist writes the full collection to the slot.
func (s *Store) Persist() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked()
}

func (s *Store) persistLocked() error {
	b, err := encode(s.todos)
	if err != nil {
		s.lastErr = err
		return err
	}
	if err := s.slot.Write(b); err != nil {
		s.lastErr = fmt.Errorf("write slot %s: %w", s.slot.Name(), err)
		return s.lastErr
	}
	s.lastErr = nil
	return nil
}

// Err returns the error from the most recent persist, if any.
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Todos returns a copy of the collection, newest first.
func (s *Store) Todos() []model.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Len returns the collection size.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.todos)
}

// Get looks up a todo by exact ID.
func (s *Store) Get(id string) (model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.todos[i], nil
	}
	return model.Todo{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Resolve maps a user reference to a todo: a 1-based position, an exact
// ID, or a unique ID prefix.
func (s *Store) Resolve(ref string) (model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ref = strings.TrimSpace(ref)
	if ref == "" {
		return model.Todo{}, fmt.Errorf("%w: empty reference", ErrNotFound)
	}
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(s.todos) {
			return model.Todo{}, fmt.Errorf("%w: index out of range: have %d, got %d", ErrNotFound, len(s.todos), n)
		}
		return s.todos[n-1], nil
	}
	if i := s.indexOf(ref); i >= 0 {
		return s.todos[i], nil
	}
	match := -1
	for i, t := range s.todos {
		if strings.HasPrefix(t.ID, ref) {
			if match >= 0 {
				return model.Todo{}, fmt.Errorf("%w: %s", ErrAmbiguous, ref)
			}
			match = i
		}
	}
	if match < 0 {
		return model.Todo{}, fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	return s.todos[match], nil
}

// Add creates a todo from d and puts it first.
func (s *Store) Add(d model.Draft) model.Todo {
	s.mu.Lock()
	t := model.Todo{
		ID:          s.newID(),
		Title:       d.Title,
		Description: d.Description,
		Completed:   d.Completed,
		CreatedAt:   s.now(),
		Priority:    d.Priority,
		Category:    d.Category,
	}
	if d.DueDate != nil {
		due := *d.DueDate
		t.DueDate = &due
	}
	t = t.WithDefaults()
	next := make([]model.Todo, 0, len(s.todos)+1)
	next = append(next, t)
	next = append(next, s.todos...)
	s.commitLocked(next, "add", t.ID)
	return t
}

// Toggle flips the completion flag. Unknown IDs are ignored.
func (s *Store) Toggle(id string) {
	s.mu.Lock()
	s.mapLocked(id, "toggle", func(t model.Todo) model.Todo {
		t.Completed = !t.Completed
		return t
	})
}

// Update merges p into the todo with the given ID. Unknown IDs are ignored.
func (s *Store) Update(id string, p model.Patch) {
	s.mu.Lock()
	s.mapLocked(id, "update", p.Apply)
}

// Delete removes the todo. Unknown IDs are ignored.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	if s.indexOf(id) < 0 {
		s.mu.Unlock()
		return
	}
	next := make([]model.Todo, 0, len(s.todos)-1)
	for _, t := range s.todos {
		if t.ID != id {
			next = append(next, t)
		}
	}
	s.commitLocked(next, "delete", id)
}

// Restore puts a previously deleted todo back at position idx, keeping
// its ID and CreatedAt. It is a no-op if the ID is already present.
func (s *Store) Restore(t model.Todo, idx int) {
	s.mu.Lock()
	if t.ID == "" || s.indexOf(t.ID) >= 0 {
		s.mu.Unlock()
		return
	}
	if idx < 0 {
		idx = 0
	}
	if idx > len(s.todos) {
		idx = len(s.todos)
	}
	next := make([]model.Todo, 0, len(s.todos)+1)
	next = append(next, s.todos[:idx]...)
	next = append(next, t.WithDefaults())
	next = append(next, s.todos[idx:]...)
	s.commitLocked(next, "restore", t.ID)
}

// mapLocked expects s.mu held and releases it.
func (s *Store) mapLocked(id, op string, fn func(model.Todo) model.Todo) {
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	next := make([]model.Todo, len(s.todos))
	copy(next, s.todos)
	updated := fn(next[i])
	updated.ID = next[i].ID
	updated.CreatedAt = next[i].CreatedAt
	next[i] = updated.WithDefaults()
	s.commitLocked(next, op, id)
}

// commitLocked swaps in next, persists if enabled, releases s.mu and then
// runs the hooks outside the lock.
func (s *Store) commitLocked(next []model.Todo, op, id string) {
	s.todos = next
	if s.autoPersist {
		if err := s.persistLocked(); err != nil {
			s.logger.Error("persist", "op", op, "id", id, "err", err)
		}
	}
	s.logger.Debug(op, "id", id, "count", len(s.todos))
	snap := s.snapshot()
	hooks := s.hooks
	s.mu.Unlock()
	for _, h := range hooks {
		h(snap)
	}
}

func (s *Store) indexOf(id string) int {
	for i, t := range s.todos {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) snapshot() []model.Todo {
	out := make([]model.Todo, len(s.todos))
	copy(out, s.todos)
	return out
}
