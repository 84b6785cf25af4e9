package db

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// New wraps a connection or transaction in a query set.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// Queries holds the SQL statements used by the stores.
type Queries struct {
	db DBTX
}

// WithTx returns a query set bound to tx.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// KvStore is a row of the kv_store table.
type KvStore struct {
	Key       string
	Value     string
	CreatedAt int64
	UpdatedAt int64
}

// Notification is a row of the notifications table.
type Notification struct {
	ID        int64
	List      string
	Level     string
	Message   string
	CreatedAt int64
}

const kvGet = `SELECT key, value, created_at, updated_at FROM kv_store WHERE key = ?`

func (q *Queries) KVGet(ctx context.Context, key string) (KvStore, error) {
	row := q.db.QueryRowContext(ctx, kvGet, key)
	var i KvStore
	err := row.Scan(&i.Key, &i.Value, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const kvSet = `INSERT INTO kv_store (key, value, created_at, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

type KVSetParams struct {
	Key       string
	Value     string
	CreatedAt int64
	UpdatedAt int64
}

func (q *Queries) KVSet(ctx context.Context, arg KVSetParams) error {
	_, err := q.db.ExecContext(ctx, kvSet, arg.Key, arg.Value, arg.CreatedAt, arg.UpdatedAt)
	return err
}

const kvDelete = `DELETE FROM kv_store WHERE key = ?`

func (q *Queries) KVDelete(ctx context.Context, key string) error {
	_, err := q.db.ExecContext(ctx, kvDelete, key)
	return err
}

const kvHas = `SELECT COUNT(*) FROM kv_store WHERE key = ?`

func (q *Queries) KVHas(ctx context.Context, key string) (int64, error) {
	row := q.db.QueryRowContext(ctx, kvHas, key)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const kvListKeys = `SELECT key FROM kv_store ORDER BY key`

func (q *Queries) KVListKeys(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, kvListKeys)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		items = append(items, key)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const insertNotification = `INSERT INTO notifications (list, level, message, created_at) VALUES (?, ?, ?, ?) RETURNING id`

type InsertNotificationParams struct {
	List      string
	Level     string
	Message   string
	CreatedAt int64
}

func (q *Queries) InsertNotification(ctx context.Context, arg InsertNotificationParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, insertNotification, arg.List, arg.Level, arg.Message, arg.CreatedAt)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const listNotifications = `SELECT id, list, level, message, created_at FROM notifications WHERE list = ? ORDER BY created_at DESC, id DESC`

func (q *Queries) ListNotifications(ctx context.Context, list string) ([]Notification, error) {
	rows, err := q.db.QueryContext(ctx, listNotifications, list)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []Notification
	for rows.Next() {
		var i Notification
		if err := rows.Scan(&i.ID, &i.List, &i.Level, &i.Message, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteNotifications = `DELETE FROM notifications WHERE list = ?`

// DeleteNotifications removes every notification recorded for list and
// returns how many rows were deleted.
func (q *Queries) DeleteNotifications(ctx context.Context, list string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteNotifications, list)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const countNotifications = `SELECT COUNT(*) FROM notifications WHERE list = ?`

func (q *Queries) CountNotifications(ctx context.Context, list string) (int64, error) {
	row := q.db.QueryRowContext(ctx, countNotifications, list)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const createSchemaMigrations = `CREATE TABLE IF NOT EXISTS schema_migrations (
    version    INTEGER PRIMARY KEY,
    name       TEXT NOT NULL,
    applied_at INTEGER NOT NULL
)`

func (q *Queries) EnsureSchemaMigrations(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, createSchemaMigrations)
	return err
}

const schemaVersion = `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`

func (q *Queries) SchemaVersion(ctx context.Context) (int, error) {
	row := q.db.QueryRowContext(ctx, schemaVersion)
	var v int
	err := row.Scan(&v)
	return v, err
}

const recordMigration = `INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)`

type RecordMigrationParams struct {
	Version   int
	Name      string
	AppliedAt int64
}

func (q *Queries) RecordMigration(ctx context.Context, arg RecordMigrationParams) error {
	_, err := q.db.ExecContext(ctx, recordMigration, arg.Version, arg.Name, arg.AppliedAt)
	return err
}

// ExecScript runs statements that return no rows, such as a migration file.
func (q *Queries) ExecScript(ctx context.Context, script string) error {
	_, err := q.db.ExecContext(ctx, script)
	return err
}
