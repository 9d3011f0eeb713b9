// Package files is the generic JSON file pass-through: read, write, delete,
// stat, and list files relative to the storage root. It carries no archive
// semantics; its only contract is "bytes at a path", constrained to stay
// inside the root.
package files

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// Service performs file operations rooted at a single directory.
type Service struct {
	fs   afero.Fs
	root string
}

// NewService creates a pass-through service over fs, rooted at root.
// Production callers pass afero.NewOsFs(); tests use an in-memory fs.
func NewService(fs afero.Fs, root string) *Service {
	return &Service{fs: fs, root: filepath.Clean(root)}
}

// resolve joins rel onto the root and rejects anything that would escape it.
func (s *Service) resolve(rel string) (string, error) {
	trimmed := strings.TrimSpace(rel)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.Contains(rel, "\x00") {
		return "", fmt.Errorf("path contains null byte")
	}
	if filepath.IsAbs(trimmed) {
		return "", fmt.Errorf("path must be relative to the storage root: %s", rel)
	}
	full := filepath.Clean(filepath.Join(s.root, trimmed))
	if full != s.root && !strings.HasPrefix(full, s.root+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes the storage root: %s", rel)
	}
	return full, nil
}

// SaveJSON writes a JSON document at rel, creating parent directories. The
// payload must be valid JSON; the content is otherwise uninterpreted.
func (s *Service) SaveJSON(rel string, data []byte) error {
	if !json.Valid(data) {
		return fmt.Errorf("payload for %s is not valid JSON", rel)
	}
	full, err := s.resolve(rel)
	if err != nil {
		return err
	}
	if err := s.fs.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", rel, err)
	}
	if err := afero.WriteFile(s.fs, full, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", rel, err)
	}
	return nil
}

// Load returns the file content and whether it exists. A missing file is
// (nil, false, nil), not an error.
func (s *Service) Load(rel string) ([]byte, bool, error) {
	full, err := s.resolve(rel)
	if err != nil {
		return nil, false, err
	}
	data, err := afero.ReadFile(s.fs, full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read %s: %w", rel, err)
	}
	return data, true, nil
}

// Delete removes the file at rel; a missing file is a no-op.
func (s *Service) Delete(rel string) error {
	full, err := s.resolve(rel)
	if err != nil {
		return err
	}
	if err := s.fs.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete %s: %w", rel, err)
	}
	return nil
}

// Exists reports whether a file exists at rel.
func (s *Service) Exists(rel string) (bool, error) {
	full, err := s.resolve(rel)
	if err != nil {
		return false, err
	}
	return afero.Exists(s.fs, full)
}

// Size returns the file size in bytes, or 0 when the file does not exist.
func (s *Service) Size(rel string) (int64, error) {
	full, err := s.resolve(rel)
	if err != nil {
		return 0, err
	}
	info, err := s.fs.Stat(full)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("stat %s: %w", rel, err)
	}
	return info.Size(), nil
}

// ListDir returns the sorted entry names of a directory, or an empty slice
// when the directory does not exist. "." lists the root itself.
func (s *Service) ListDir(rel string) ([]string, error) {
	full, err := s.resolve(rel)
	if err != nil {
		return nil, err
	}
	infos, err := afero.ReadDir(s.fs, full)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("list %s: %w", rel, err)
	}
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name())
	}
	sort.Strings(names)
	return names, nil
}
