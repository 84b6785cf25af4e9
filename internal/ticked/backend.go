package ticked

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hay-kot/ticked/internal/core/config"
	"github.com/hay-kot/ticked/internal/core/kv"
	"github.com/hay-kot/ticked/internal/core/notify"
	"github.com/hay-kot/ticked/internal/data/db"
	"github.com/hay-kot/ticked/internal/data/stores"
	"github.com/hay-kot/ticked/internal/store/jsonfile"
)

// Backend is an opened storage backend.
type Backend struct {
	Name string
	KV   kv.KV
	DB   *db.DB // sqlite only

	persistNotifications bool
}

// History returns the notification history for list, or nil when history
// is not recorded.
func (b *Backend) History(list string) notify.Store {
	if b.DB == nil || !b.persistNotifications {
		return nil
	}
	return stores.NewNotifyStore(b.DB, list)
}

// OpenBackend opens the storage selected by cfg.Storage.Backend.
func OpenBackend(cfg *config.Config) (*Backend, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		return &Backend{Name: config.BackendMemory, KV: kv.NewMemory()}, nil

	case config.BackendFile:
		file := jsonfile.NewKVFile(cfg.StoragePath())
		log.Debug().Str("path", file.Path()).Msg("using json file storage")
		return &Backend{Name: config.BackendFile, KV: file}, nil

	case config.BackendSQLite, "":
		database, err := openDatabase(cfg)
		if err != nil {
			return nil, err
		}

		return &Backend{
			Name:                 config.BackendSQLite,
			KV:                   stores.NewKVStore(database),
			DB:                   database,
			persistNotifications: cfg.PersistNotifications(),
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// openDatabase opens the SQLite file, moving a corrupt file aside and
// starting fresh once.
func openDatabase(cfg *config.Config) (*db.DB, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	opts := db.OpenOptions{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		BusyTimeout:  cfg.Database.BusyTimeout,
	}

	database, err := db.Open(cfg.DataDir, opts)
	if err == nil {
		return database, nil
	}
	if !stores.IsCorruptionError(err) {
		return nil, fmt.Errorf("open database: %w", err)
	}

	backup, rerr := stores.RecoverFromCorruption(cfg.DataDir, time.Now())
	if rerr != nil {
		return nil, fmt.Errorf("recover database: %w", rerr)
	}
	log.Warn().Err(err).Str("backup", backup).Msg("database corrupt, moved aside")

	database, err = db.Open(cfg.DataDir, opts)
	if err != nil {
		return nil, fmt.Errorf("open database after recovery: %w", err)
	}
	return database, nil
}

// Close releases the database connection, if any.
func (b *Backend) Close() error {
	if b.DB == nil {
		return nil
	}
	return b.DB.Close()
}
