package db

import (
	"cmp"
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var migrationFileRe = regexp.MustCompile(`^(\d{4})_([a-z0-9_]+)\.sql$`)

// Migration is one embedded schema change. Migrations only move forward.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// loadMigrations reads the embedded files in version order.
func loadMigrations() ([]Migration, error) {
	paths, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("listing migrations: %w", err)
	}

	seen := make(map[int]string, len(paths))
	migrations := make([]Migration, 0, len(paths))

	for _, p := range paths {
		file := path.Base(p)

		version, name, err := parseFilename(file)
		if err != nil {
			return nil, fmt.Errorf("invalid migration filename %q: %w", file, err)
		}
		if other, dup := seen[version]; dup {
			return nil, fmt.Errorf("migrations %q and %q share version %04d", other, file, version)
		}
		seen[version] = file

		content, err := fs.ReadFile(migrationsFS, p)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", file, err)
		}
		if strings.TrimSpace(string(content)) == "" {
			return nil, fmt.Errorf("migration %s is empty", file)
		}

		migrations = append(migrations, Migration{Version: version, Name: name, SQL: string(content)})
	}

	slices.SortFunc(migrations, func(a, b Migration) int {
		return cmp.Compare(a.Version, b.Version)
	})

	return migrations, nil
}

// parseFilename splits "NNNN_name.sql" into its version and name.
func parseFilename(filename string) (int, string, error) {
	m := migrationFileRe.FindStringSubmatch(filename)
	if m == nil {
		return 0, "", fmt.Errorf("expected format NNNN_name.sql")
	}

	version, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, "", err
	}
	if version == 0 {
		return 0, "", fmt.Errorf("version must be positive")
	}

	return version, m[2], nil
}

// migrateUp applies every migration newer than the recorded schema version.
// Each migration and its bookkeeping row commit together.
func (db *DB) migrateUp(ctx context.Context) error {
	migrations, err := loadMigrations()
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}

	if err := db.queries.EnsureSchemaMigrations(ctx); err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	current, err := db.queries.SchemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}

		log.Debug().Int("version", m.Version).Str("name", m.Name).Msg("applying migration")

		err := db.WithTx(ctx, func(q *Queries) error {
			if err := q.ExecScript(ctx, m.SQL); err != nil {
				return err
			}
			return q.RecordMigration(ctx, RecordMigrationParams{
				Version:   m.Version,
				Name:      m.Name,
				AppliedAt: time.Now().UnixNano(),
			})
		})
		if err != nil {
			return fmt.Errorf("migration %04d (%s): %w", m.Version, m.Name, err)
		}
	}

	return nil
}
