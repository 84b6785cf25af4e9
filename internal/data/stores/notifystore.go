package stores

import (
	"context"
	"fmt"
	"time"

	"github.com/hay-kot/ticked/internal/core/notify"
	"github.com/hay-kot/ticked/internal/data/db"
)

// NotifyStore implements notify.Store using SQLite. Each store reads and
// writes the history of one task list, so `ticked -l work notifications ls`
// never shows messages raised for another list.
type NotifyStore struct {
	db   *db.DB
	list string
}

var _ notify.Store = (*NotifyStore)(nil)

// NewNotifyStore creates a notification store for list. An empty list is
// the default list.
func NewNotifyStore(db *db.DB, list string) *NotifyStore {
	return &NotifyStore{db: db, list: list}
}

// Save records n against the store's list and returns its row ID. n.List is
// ignored.
func (s *NotifyStore) Save(ctx context.Context, n notify.Notification) (int64, error) {
	id, err := s.db.Queries().InsertNotification(ctx, db.InsertNotificationParams{
		List:      s.list,
		Level:     string(n.Level),
		Message:   n.Message,
		CreatedAt: n.CreatedAt.UnixNano(),
	})
	if err != nil {
		if IsBusyError(err) {
			return 0, fmt.Errorf("record %q for list %q: database is locked: %w", n.Message, s.list, err)
		}
		return 0, fmt.Errorf("record %q for list %q: %w", n.Message, s.list, err)
	}
	return id, nil
}

// List returns the list's notifications, newest first.
func (s *NotifyStore) List(ctx context.Context) ([]notify.Notification, error) {
	rows, err := s.db.Queries().ListNotifications(ctx, s.list)
	if err != nil {
		return nil, fmt.Errorf("read history of list %q: %w", s.list, err)
	}

	history := make([]notify.Notification, len(rows))
	for i, row := range rows {
		history[i] = notify.Notification{
			ID:        row.ID,
			List:      row.List,
			Level:     notify.Level(row.Level),
			Message:   row.Message,
			CreatedAt: time.Unix(0, row.CreatedAt),
		}
	}
	return history, nil
}

// Clear deletes the list's notifications. Other lists keep theirs.
func (s *NotifyStore) Clear(ctx context.Context) error {
	if _, err := s.db.Queries().DeleteNotifications(ctx, s.list); err != nil {
		return fmt.Errorf("clear history of list %q: %w", s.list, err)
	}
	return nil
}

// Count returns how many notifications the list has recorded.
func (s *NotifyStore) Count(ctx context.Context) (int64, error) {
	n, err := s.db.Queries().CountNotifications(ctx, s.list)
	if err != nil {
		return 0, fmt.Errorf("count history of list %q: %w", s.list, err)
	}
	return n, nil
}
