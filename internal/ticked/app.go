// Package ticked assembles the storage backend, notification bus and task
// store that the CLI and TUI share.
package ticked

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/hay-kot/ticked/internal/core/config"
	"github.com/hay-kot/ticked/internal/core/kv"
	"github.com/hay-kot/ticked/internal/core/logging"
	"github.com/hay-kot/ticked/internal/core/task"
	"github.com/hay-kot/ticked/internal/core/validate"
	"github.com/hay-kot/ticked/internal/data/db"
	tuinotify "github.com/hay-kot/ticked/internal/tui/notify"
)

var _ task.Notifier = (*tuinotify.Bus)(nil)

// App is the central entry point for all task operations.
// Commands and the TUI consume App instead of cherry-picking raw dependencies.
type App struct {
	Tasks   *task.Store
	Notify  *tuinotify.Bus
	Config  *config.Config
	Storage kv.KV  // scoped to List
	DB      *db.DB // nil unless the sqlite backend is active
	List    string

	backend *Backend
}

// NewApp constructs an App from explicit dependencies.
func NewApp(tasks *task.Store, bus *tuinotify.Bus, cfg *config.Config, backend *Backend, list string) *App {
	return &App{
		Tasks:   tasks,
		Notify:  bus,
		Config:  cfg,
		Storage: kv.Scoped(backend.KV, list),
		DB:      backend.DB,
		List:    list,
		backend: backend,
	}
}

// Open opens the configured backend and loads the named list. An empty
// list selects the default list.
func Open(ctx context.Context, cfg *config.Config, list string, opts ...task.Option) (*App, error) {
	if err := validate.ListName(list); err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}

	backend, err := OpenBackend(cfg)
	if err != nil {
		return nil, err
	}

	bus := tuinotify.NewBus(backend.History(list), tuinotify.WithList(list))
	store := task.NewStore(kv.Scoped(backend.KV, list), bus, logging.Component("tasks"), opts...)

	if err := store.Load(logging.WithList(ctx, list)); err != nil {
		_ = backend.Close()
		return nil, fmt.Errorf("load tasks: %w", err)
	}

	return NewApp(store, bus, cfg, backend, list), nil
}

// Lists returns the names of every list with stored tasks, sorted. The
// default list is reported as "".
func (a *App) Lists(ctx context.Context) ([]string, error) {
	keys, err := a.backend.KV.ListKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}

	var lists []string
	for _, k := range keys {
		if k == task.StorageKey {
			lists = append(lists, "")
			continue
		}
		if name, ok := strings.CutSuffix(k, ":"+task.StorageKey); ok && name != "" && validate.ListName(name) == nil {
			lists = append(lists, name)
		}
	}
	slices.Sort(lists)
	return lists, nil
}

// Close releases the storage backend.
func (a *App) Close() error {
	if a.backend == nil {
		return nil
	}
	return a.backend.Close()
}
