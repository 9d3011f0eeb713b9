// Package settings persists application settings as a single JSON document.
// The schema is owned by the frontend; this store only guarantees defaults
// when the file is absent and atomic writes when it changes.
package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Store reads and writes one settings file.
type Store struct {
	path string
}

// NewStore creates a store for the given settings file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Defaults returns the settings used when no file exists yet.
func Defaults() map[string]any {
	return map[string]any{
		"theme":        "light",
		"autoSave":     true,
		"soundEnabled": true,
	}
}

// Load returns the stored settings, or the defaults when the file does not
// exist. Unlike the history index, a present-but-corrupt settings file is an
// error: silently resetting user preferences would lose data.
func (s *Store) Load() (map[string]any, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Defaults(), nil
		}
		return nil, fmt.Errorf("read settings %s: %w", s.path, err)
	}
	var values map[string]any
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", s.path, err)
	}
	return values, nil
}

// Save writes the settings atomically (temp file plus rename), creating the
// parent directory when needed.
func (s *Store) Save(values map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write settings temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace settings file: %w", err)
	}
	return nil
}

// Set updates one key and persists the whole document.
func (s *Store) Set(key string, value any) error {
	values, err := s.Load()
	if err != nil {
		return err
	}
	values[key] = value
	return s.Save(values)
}

// Get returns one key from the stored settings.
func (s *Store) Get(key string) (any, bool, error) {
	values, err := s.Load()
	if err != nil {
		return nil, false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

// Watch invokes onChange with freshly loaded settings whenever the backing
// file is written or recreated, until ctx is done. The watcher observes the
// parent directory so atomic rename-based saves are seen.
func (s *Store) Watch(ctx context.Context, onChange func(map[string]any)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create settings watcher: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("create settings directory: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch settings directory: %w", err)
	}

	go func() {
		defer func() { _ = watcher.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name != s.path {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				values, err := s.Load()
				if err != nil {
					continue
				}
				onChange(values)
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()
	return nil
}
