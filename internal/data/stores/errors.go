package stores

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/hay-kot/ticked/internal/data/db"
)

// IsBusyError returns true if the error is a SQLITE_BUSY error.
func IsBusyError(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_BUSY
	}
	return false
}

// IsCorruptionError returns true if the error indicates database corruption.
func IsCorruptionError(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		return code == sqlite3.SQLITE_CORRUPT ||
			code == sqlite3.SQLITE_NOTADB ||
			code == sqlite3.SQLITE_CANTOPEN
	}

	// Also check for common corruption error messages
	errStr := err.Error()
	return strings.Contains(errStr, "database disk image is malformed") ||
		strings.Contains(errStr, "file is not a database") ||
		strings.Contains(errStr, "database corruption")
}

// IsNotFoundError returns true if the error is a "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// backupTimeFormat matches the suffix used for corrupt task list backups.
const backupTimeFormat = "20060102-150405"

// RecoverFromCorruption moves the database file and its WAL/SHM companions
// to "<file>.corrupt.<timestamp>" so the next Open starts from an empty
// database. Companions that cannot be renamed are removed, since SQLite
// would otherwise replay them into the new file. It returns the backup path,
// or "" when there was no database file.
func RecoverFromCorruption(dataDir string, now time.Time) (string, error) {
	dbPath := filepath.Join(dataDir, db.FileName)
	backupPath := fmt.Sprintf("%s.corrupt.%s", dbPath, now.Format(backupTimeFormat))

	moved := false
	for _, suffix := range []string{"", "-wal", "-shm"} {
		src := dbPath + suffix
		err := os.Rename(src, backupPath+suffix)
		switch {
		case err == nil:
			moved = moved || suffix == ""
		case errors.Is(err, fs.ErrNotExist):
		case suffix == "":
			return "", fmt.Errorf("backup corrupt database: %w", err)
		default:
			if rmErr := os.Remove(src); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
				return "", fmt.Errorf("remove stale %s file: %w", strings.TrimPrefix(suffix, "-"), err)
			}
		}
	}

	if !moved {
		return "", nil
	}
	return backupPath, nil
}
