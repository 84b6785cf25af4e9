package task

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hay-kot/ticked/internal/core/kv"
)

// StorageKey is the single key the whole list is written under.
const StorageKey = "todos"

// Confirmation messages sent to the Notifier. Toggling is deliberately silent.
const (
	MsgAdded    = "Todo added"
	MsgDeleted  = "Todo deleted"
	MsgUpdated  = "Todo updated"
	msgImported = "Imported %d todos"
)

var (
	// ErrNotLoaded is returned by mutating operations called before Load.
	ErrNotLoaded = errors.New("task store not loaded")
	// ErrAlreadyLoaded is returned by a second call to Load.
	ErrAlreadyLoaded = errors.New("task store already loaded")
	// ErrNotFound is returned by Find when no task matches.
	ErrNotFound = errors.New("task not found")
	// ErrAmbiguous is returned by Find when an id prefix matches several tasks.
	ErrAmbiguous = errors.New("task id prefix is ambiguous")
)

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the wall clock.
func WithClock(c Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithIDGenerator overrides the UUID generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Store) { s.ids = g }
}

// Store owns the task list, the active filter and the edit session.
//
// Store is not safe for concurrent use. Load must be called exactly once
// before any mutating operation; every mutation writes the full list back
// to storage.
type Store struct {
	storage  kv.KV
	notifier Notifier
	clock    Clock
	ids      IDGenerator
	log      zerolog.Logger

	tasks  []Task
	filter Filter
	edit   *EditSession
	loaded bool
}

// NewStore creates a Store persisting through storage. A nil notifier
// discards confirmations.
func NewStore(storage kv.KV, notifier Notifier, log zerolog.Logger, opts ...Option) *Store {
	if notifier == nil {
		notifier = nopNotifier{}
	}

	s := &Store{
		storage:  storage,
		notifier: notifier,
		clock:    SystemClock,
		ids:      UUIDGenerator,
		log:      log,
		filter:   FilterAll,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the persisted list. A missing or empty value yields an empty
// list. A malformed value is logged, copied aside under a ".corrupt" key and
// replaced by an empty list; it is never returned as an error. Errors from
// the storage backend itself are returned and leave the store unloaded.
func (s *Store) Load(ctx context.Context) error {
	if s.loaded {
		return ErrAlreadyLoaded
	}

	raw, err := s.storage.Get(ctx, StorageKey)
	switch {
	case errors.Is(err, kv.ErrNotFound):
		raw = ""
	case err != nil:
		return fmt.Errorf("read task list: %w", err)
	}

	s.loaded = true
	s.tasks = nil
	s.filter = FilterAll
	s.edit = nil

	if raw == "" {
		s.log.Debug().Ctx(ctx).Msg("no persisted tasks")
		return nil
	}

	tasks, err := Decode([]byte(raw))
	if err != nil {
		s.log.Error().Ctx(ctx).Err(err).Str("key", StorageKey).Msg("discarding malformed persisted tasks")
		s.backupCorrupt(ctx, raw)
		return nil
	}

	s.tasks = tasks
	s.log.Debug().Ctx(ctx).Int("count", len(tasks)).Msg("loaded tasks")
	return nil
}

// Loaded reports whether Load has completed.
func (s *Store) Loaded() bool {
	return s.loaded
}

// Create adds a task with the trimmed text at the front of the list.
// Blank text is a no-op and reports false.
func (s *Store) Create(ctx context.Context, text string) (Task, bool, error) {
	if !s.loaded {
		return Task{}, false, ErrNotLoaded
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, false, nil
	}

	t := Task{
		ID:        s.ids.NewID(),
		Text:      text,
		CreatedAt: s.now(),
	}
	s.tasks = slices.Insert(s.tasks, 0, t)

	if err := s.persist(ctx); err != nil {
		return t.clone(), true, err
	}

	s.notifier.Infof(MsgAdded)
	return t.clone(), true, nil
}

// Toggle flips completion of the task with id. Unknown ids are ignored.
func (s *Store) Toggle(ctx context.Context, id string) error {
	if !s.loaded {
		return ErrNotLoaded
	}

	i := s.indexOf(id)
	if i < 0 {
		return nil
	}

	t := &s.tasks[i]
	if t.Completed {
		t.Completed = false
		t.CompletedAt = nil
	} else {
		now := s.now()
		t.Completed = true
		t.CompletedAt = &now
	}

	return s.persist(ctx)
}

// Delete removes the task with id, keeping the order of the rest.
// Unknown ids are ignored.
func (s *Store) Delete(ctx context.Context, id string) error {
	if !s.loaded {
		return ErrNotLoaded
	}

	i := s.indexOf(id)
	if i < 0 {
		return nil
	}

	s.tasks = slices.Delete(s.tasks, i, i+1)
	if s.edit != nil && s.edit.TaskID == id {
		s.edit = nil
	}

	if err := s.persist(ctx); err != nil {
		return err
	}

	s.notifier.Infof(MsgDeleted)
	return nil
}

// BeginEdit starts editing id with text as the buffer, discarding any
// uncommitted session.
func (s *Store) BeginEdit(id, text string) {
	s.edit = &EditSession{TaskID: id, Buffer: text}
}

// UpdateEditBuffer replaces the staged text. Ignored without an active session.
func (s *Store) UpdateEditBuffer(text string) {
	if _, ok := s.Edit(); !ok {
		return
	}
	s.edit.Buffer = text
}

// CommitEdit writes the trimmed buffer to the edited task and ends the
// session. A blank buffer is a no-op that keeps the session open.
func (s *Store) CommitEdit(ctx context.Context) error {
	if !s.loaded {
		return ErrNotLoaded
	}

	if s.edit == nil {
		return nil
	}

	i := s.indexOf(s.edit.TaskID)
	if i < 0 {
		s.edit = nil
		return nil
	}

	text := strings.TrimSpace(s.edit.Buffer)
	if text == "" {
		return nil
	}

	s.tasks[i].Text = text
	s.edit = nil

	if err := s.persist(ctx); err != nil {
		return err
	}

	s.notifier.Infof(MsgUpdated)
	return nil
}

// CancelEdit drops the edit session without saving.
func (s *Store) CancelEdit() {
	s.edit = nil
}

// Edit returns the active session. A session whose task no longer exists
// is reported as absent.
func (s *Store) Edit() (EditSession, bool) {
	if s.edit == nil || s.indexOf(s.edit.TaskID) < 0 {
		return EditSession{}, false
	}
	return *s.edit, true
}

// SetFilter changes the visible subset. Unknown filters are ignored.
func (s *Store) SetFilter(f Filter) {
	if !f.IsValid() {
		return
	}
	s.filter = f
}

// Filter returns the active filter.
func (s *Store) Filter() Filter {
	return s.filter
}

// Visible returns a fresh copy of the tasks matching the active filter,
// in list order.
func (s *Store) Visible() []Task {
	out := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if s.filter.Matches(t) {
			out = append(out, t.clone())
		}
	}
	return out
}

// Tasks returns a copy of the full list, newest first.
func (s *Store) Tasks() []Task {
	out := make([]Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.clone()
	}
	return out
}

// Get returns the task with the exact id.
func (s *Store) Get(id string) (Task, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return Task{}, false
	}
	return s.tasks[i].clone(), true
}

// Find resolves an exact id or a unique id prefix.
func (s *Store) Find(ref string) (Task, error) {
	if ref == "" {
		return Task{}, ErrNotFound
	}
	if t, ok := s.Get(ref); ok {
		return t, nil
	}

	var match *Task
	for i := range s.tasks {
		if strings.HasPrefix(s.tasks[i].ID, ref) {
			if match != nil {
				return Task{}, fmt.Errorf("%w: %q", ErrAmbiguous, ref)
			}
			match = &s.tasks[i]
		}
	}
	if match == nil {
		return Task{}, fmt.Errorf("%w: %q", ErrNotFound, ref)
	}
	return match.clone(), nil
}

// Counts tallies the list under every filter.
func (s *Store) Counts() Counts {
	c := Counts{All: len(s.tasks)}
	for _, t := range s.tasks {
		if t.Completed {
			c.Completed++
		} else {
			c.Active++
		}
	}
	return c
}

// Replace swaps the whole list for tasks after validating them, ends any
// edit session and persists.
func (s *Store) Replace(ctx context.Context, tasks []Task) error {
	if !s.loaded {
		return ErrNotLoaded
	}

	next := make([]Task, len(tasks))
	for i, t := range tasks {
		t.Text = strings.TrimSpace(t.Text)
		next[i] = normalize(t.clone())
	}
	if err := validateTasks(next); err != nil {
		return fmt.Errorf("invalid task list: %w", err)
	}

	s.tasks = next
	s.edit = nil

	if err := s.persist(ctx); err != nil {
		return err
	}

	s.notifier.Infof(msgImported, len(next))
	return nil
}

// persist writes the full list under StorageKey.
func (s *Store) persist(ctx context.Context) error {
	data, err := Encode(s.tasks)
	if err != nil {
		s.log.Error().Ctx(ctx).Err(err).Msg("encode tasks")
		return err
	}

	if err := s.storage.Set(ctx, StorageKey, string(data)); err != nil {
		s.log.Error().Ctx(ctx).Err(err).Str("key", StorageKey).Msg("persist tasks")
		return fmt.Errorf("persist tasks: %w", err)
	}
	return nil
}

func (s *Store) backupCorrupt(ctx context.Context, raw string) {
	key := fmt.Sprintf("%s.corrupt.%s", StorageKey, s.now().Format("20060102-150405"))
	if err := s.storage.Set(ctx, key, raw); err != nil {
		s.log.Error().Ctx(ctx).Err(err).Str("key", key).Msg("back up malformed tasks")
		return
	}
	s.log.Warn().Ctx(ctx).Str("key", key).Msg("malformed tasks copied aside")
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.tasks, func(t Task) bool { return t.ID == id })
}

// now strips the monotonic reading and location so timestamps compare
// equal after a JSON round trip.
func (s *Store) now() time.Time {
	return s.clock.Now().UTC().Round(0)
}
