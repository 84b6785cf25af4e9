// Package jsonfile provides a kv.KV backed by a single JSON document on disk.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hay-kot/ticked/internal/core/kv"
	"github.com/hay-kot/ticked/pkg/randid"
)

// File is the root JSON structure stored on disk.
type File struct {
	Entries map[string]string `json:"entries"`
}

// KVFile implements kv.KV by reading and rewriting one JSON file per call.
// Writes go to a temp file in the same directory and are renamed into place.
type KVFile struct {
	path string
	mu   sync.RWMutex
}

var _ kv.KV = (*KVFile)(nil)

// backupTimeFormat matches the suffix used for quarantined sqlite files.
const backupTimeFormat = "20060102-150405"

// NewKVFile creates a JSON file KV at path. The file is created on first write.
func NewKVFile(path string) *KVFile {
	return &KVFile{path: path}
}

// Path returns the backing file location.
func (s *KVFile) Path() string {
	return s.path
}

// Get returns the value stored under key.
func (s *KVFile) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	file, err := s.load()
	if err != nil {
		return "", fmt.Errorf("kv get %q: %w", key, err)
	}

	v, ok := file.Entries[key]
	if !ok {
		return "", fmt.Errorf("kv get %q: %w", key, kv.ErrNotFound)
	}
	return v, nil
}

// Set stores value under key.
func (s *KVFile) Set(_ context.Context, key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.load()
	if err != nil {
		return fmt.Errorf("kv set %q: %w", key, err)
	}

	file.Entries[key] = value
	if err := s.save(file); err != nil {
		return fmt.Errorf("kv set %q: %w", key, err)
	}
	return nil
}

// Delete removes a key.
func (s *KVFile) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.load()
	if err != nil {
		return fmt.Errorf("kv delete %q: %w", key, err)
	}

	if _, ok := file.Entries[key]; !ok {
		return nil
	}

	delete(file.Entries, key)
	if err := s.save(file); err != nil {
		return fmt.Errorf("kv delete %q: %w", key, err)
	}
	return nil
}

// Has reports whether a key exists.
func (s *KVFile) Has(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	file, err := s.load()
	if err != nil {
		return false, fmt.Errorf("kv has %q: %w", key, err)
	}

	_, ok := file.Entries[key]
	return ok, nil
}

// ListKeys returns all keys in sorted order.
func (s *KVFile) ListKeys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	file, err := s.load()
	if err != nil {
		return nil, fmt.Errorf("kv list keys: %w", err)
	}

	keys := make([]string, 0, len(file.Entries))
	for k := range file.Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// load reads the file from disk.
// Returns an empty File if the file doesn't exist or is empty. A file that
// does not parse is moved aside by quarantine and also reads as empty.
func (s *KVFile) load() (File, error) {
	file := File{Entries: map[string]string{}}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return file, nil
		}
		return File{}, err
	}

	if len(data) == 0 {
		return file, nil
	}

	if err := json.Unmarshal(data, &file); err != nil {
		backup, qerr := s.quarantine(time.Now())
		if qerr != nil {
			return File{}, fmt.Errorf("parse %s: %w (backup failed: %w)", s.path, err, qerr)
		}
		log.Warn().
			Err(err).
			Str("path", s.path).
			Str("backup", backup).
			Msg("storage file is not valid JSON, moved aside and starting empty")
		return File{Entries: map[string]string{}}, nil
	}
	if file.Entries == nil {
		file.Entries = map[string]string{}
	}

	return file, nil
}

// quarantine renames the backing file to <path>.corrupt.<timestamp> and
// returns the new location. A file already moved by a concurrent reader is
// not an error.
func (s *KVFile) quarantine(now time.Time) (string, error) {
	backup := s.path + ".corrupt." + now.Format(backupTimeFormat)
	if err := os.Rename(s.path, backup); err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", err
	}
	return backup, nil
}

// save writes the file to disk atomically.
func (s *KVFile) save(file File) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return err
	}

	// Unique temp name so two processes never clobber each other's staging file.
	tmp := filepath.Join(dir, "."+filepath.Base(s.path)+"."+randid.Generate(6)+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}

	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
