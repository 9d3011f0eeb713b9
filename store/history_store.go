package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/vistamin/starchive/models"
	"github.com/vistamin/starchive/types"
)

const (
	rootDirKey   = "rootDir"
	indexFileKey = "indexFile"
	retentionKey = "retention"

	defaultRootDir   = "coredata"
	defaultIndexFile = "history.json"
	defaultRetention = 100

	historyDirName = "history"
	lockSuffix     = ".lock"
)

// FileHistoryStore is the file-based archive implementation: one JSON shard
// file per task id under <root>/history/<year>/<month>/, plus a single
// bounded index file at <root>/history.json.
//
// Index mutations follow a load-modify-save cycle, so they are serialized
// through an in-process mutex and a cross-process file lock. Shard writes
// are keyed by unique id and run outside the lock.
type FileHistoryStore struct {
	rootDir    string
	historyDir string
	indexPath  string
	retention  int

	mu  sync.Mutex
	flk *flock.Flock
}

// NewFileHistoryStore creates a new instance of FileHistoryStore.
// It does not initialize the store; Initialize must be called separately.
func NewFileHistoryStore() *FileHistoryStore {
	return &FileHistoryStore{}
}

// Initialize configures the store. Recognized config keys: rootDir (storage
// root, default "coredata"), indexFile (default "history.json"), retention
// (index cap, default 100).
func (s *FileHistoryStore) Initialize(config map[string]string) error {
	root := config[rootDirKey]
	if root == "" {
		root = defaultRootDir
	}
	indexFile := config[indexFileKey]
	if indexFile == "" {
		indexFile = defaultIndexFile
	}
	s.retention = defaultRetention
	if v, ok := config[retentionKey]; ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return fmt.Errorf("invalid retention %q: must be a positive integer", v)
		}
		s.retention = n
	}

	if err := os.MkdirAll(root, 0o755); err != nil {
		return types.NewHistoryError(types.ErrIO, "create storage root "+root, err)
	}
	s.rootDir = root
	s.historyDir = filepath.Join(root, historyDirName)
	s.indexPath = filepath.Join(root, indexFile)
	s.flk = flock.New(s.indexPath + lockSuffix)
	return nil
}

// Close releases the index file lock.
func (s *FileHistoryStore) Close() error {
	if s.flk != nil {
		return s.flk.Unlock()
	}
	return nil
}

// lockIndex serializes index access across goroutines and processes.
// The returned function releases both locks.
func (s *FileHistoryStore) lockIndex() (func(), error) {
	s.mu.Lock()
	if err := s.flk.Lock(); err != nil {
		s.mu.Unlock()
		return nil, types.NewHistoryError(types.ErrIO, "lock index", err)
	}
	return func() {
		if unlockErr := s.flk.Unlock(); unlockErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to unlock index: %v\n", unlockErr)
		}
		s.mu.Unlock()
	}, nil
}

// loadIndex reads the whole index. A missing or unparsable backing file is
// an empty sequence, never an error; the store heals itself on the next
// save.
func (s *FileHistoryStore) loadIndex() []models.IndexEntry {
	data, err := os.ReadFile(s.indexPath)
	if err != nil {
		return []models.IndexEntry{}
	}
	var entries []models.IndexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return []models.IndexEntry{}
	}
	return entries
}

// saveIndex writes the whole index atomically: temp file, then rename.
func (s *FileHistoryStore) saveIndex(entries []models.IndexEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return types.NewHistoryError(types.ErrSerialization, "marshal index", err)
	}
	tmp := s.indexPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return types.NewHistoryError(types.ErrIO, "write index temp file", err)
	}
	if err := os.Rename(tmp, s.indexPath); err != nil {
		_ = os.Remove(tmp)
		return types.NewHistoryError(types.ErrIO, "replace index file", err)
	}
	return nil
}

// upsert replaces the entry with the same id in place, or inserts at the
// front when new, then trims the sequence to the retention cap.
func (s *FileHistoryStore) upsert(entries []models.IndexEntry, entry models.IndexEntry) []models.IndexEntry {
	replaced := false
	for i := range entries {
		if entries[i].ID == entry.ID {
			entries[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		entries = append([]models.IndexEntry{entry}, entries...)
	}
	if len(entries) > s.retention {
		entries = entries[:s.retention]
	}
	return entries
}

// Archive persists one record into its shard file and upserts the index.
func (s *FileHistoryStore) Archive(record models.TaskRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}
	sh, err := resolveShard(record)
	if err != nil {
		return err
	}

	monthDir := filepath.Join(s.historyDir, strconv.Itoa(sh.Year), sh.MonthDir())
	if err := os.MkdirAll(monthDir, 0o755); err != nil {
		return types.NewHistoryError(types.ErrIO, "create shard directory "+monthDir, err)
	}

	archive := models.ArchiveFile{
		TaskData:    record,
		CreatedTime: time.Now().UTC().Format(time.RFC3339),
		Year:        sh.Year,
		Month:       sh.Month,
	}
	data, err := json.MarshalIndent(archive, "", "  ")
	if err != nil {
		return types.NewHistoryError(types.ErrSerialization, "marshal archive file", err)
	}
	// Overwriting an existing file at this path is safe: the name embeds
	// the record id.
	filePath := filepath.Join(monthDir, sh.FileName)
	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		return types.NewHistoryError(types.ErrIO, "write archive file "+filePath, err)
	}

	entry := models.IndexEntry{
		ID:           record.ID,
		Name:         record.DisplayName(),
		Timestamp:    record.Timestamp,
		FileName:     sh.FileName,
		RelativePath: sh.RelativePath(),
		TotalCount:   record.TotalCount,
		GroupName:    record.Group(),
		Year:         sh.Year,
		Month:        sh.Month,
	}

	unlock, err := s.lockIndex()
	if err != nil {
		return err
	}
	defer unlock()
	return s.saveIndex(s.upsert(s.loadIndex(), entry))
}

// List joins every index entry with its shard file. A missing or corrupt
// shard degrades that one entry to a summary built from the index; the
// index is trusted over the shard payloads.
func (s *FileHistoryStore) List() ([]models.TaskRecord, error) {
	unlock, err := s.lockIndex()
	if err != nil {
		return nil, err
	}
	entries := s.loadIndex()
	unlock()

	records := make([]models.TaskRecord, 0, len(entries))
	for _, entry := range entries {
		if record, ok := s.readShard(entry); ok {
			records = append(records, record)
			continue
		}
		records = append(records, degradedRecord(entry))
	}
	return records, nil
}

// Get returns the record for one id. Absence of the index entry or of a
// readable shard file both yield (zero, false, nil): a single-item lookup
// returns absence, not a degraded value.
func (s *FileHistoryStore) Get(id string) (models.TaskRecord, bool, error) {
	unlock, err := s.lockIndex()
	if err != nil {
		return models.TaskRecord{}, false, err
	}
	entries := s.loadIndex()
	unlock()

	for _, entry := range entries {
		if entry.ID != id {
			continue
		}
		if record, ok := s.readShard(entry); ok {
			return record, true, nil
		}
		return models.TaskRecord{}, false, nil
	}
	return models.TaskRecord{}, false, nil
}

// readShard loads one archive file and extracts the original record.
func (s *FileHistoryStore) readShard(entry models.IndexEntry) (models.TaskRecord, bool) {
	path := filepath.Join(s.historyDir, filepath.FromSlash(entry.RelativePath))
	data, err := os.ReadFile(path)
	if err != nil {
		return models.TaskRecord{}, false
	}
	var archive models.ArchiveFile
	if err := json.Unmarshal(data, &archive); err != nil {
		return models.TaskRecord{}, false
	}
	if archive.TaskData.ID == "" {
		return models.TaskRecord{}, false
	}
	return archive.TaskData, true
}

// degradedRecord synthesizes a summary from index fields alone: empty
// result set, protection flags reset to safe defaults.
func degradedRecord(entry models.IndexEntry) models.TaskRecord {
	fileName, _ := json.Marshal(entry.FileName)
	return models.TaskRecord{
		ID:         entry.ID,
		Name:       entry.Name,
		Timestamp:  entry.Timestamp,
		TotalCount: entry.TotalCount,
		GroupName:  entry.GroupName,
		Extra: map[string]json.RawMessage{
			"results":        json.RawMessage(`[]`),
			"edit_protected": json.RawMessage(`false`),
			"edit_password":  json.RawMessage(`""`),
			"file_path":      fileName,
		},
	}
}

// Delete removes the shard file and the index entry for an id. The index
// removal is attempted even when the file delete fails, so the id stops
// being findable either way; the file error is still reported.
func (s *FileHistoryStore) Delete(id string) error {
	unlock, err := s.lockIndex()
	if err != nil {
		return err
	}
	defer unlock()

	entries := s.loadIndex()
	var fileErr error
	kept := entries[:0]
	found := false
	for _, entry := range entries {
		if entry.ID != id {
			kept = append(kept, entry)
			continue
		}
		found = true
		path := filepath.Join(s.historyDir, filepath.FromSlash(entry.RelativePath))
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			fileErr = types.NewHistoryError(types.ErrIO, "delete archive file "+path, err)
		}
	}
	if !found {
		return nil
	}
	if err := s.saveIndex(kept); err != nil {
		return err
	}
	return fileErr
}

// ClearAll deletes every archive file under the year/month layout (best
// effort, individual failures are swallowed) and resets the index. The
// index reset always happens.
func (s *FileHistoryStore) ClearAll() error {
	unlock, err := s.lockIndex()
	if err != nil {
		return err
	}
	defer unlock()

	if years, err := os.ReadDir(s.historyDir); err == nil {
		for _, year := range years {
			if !year.IsDir() {
				continue
			}
			yearDir := filepath.Join(s.historyDir, year.Name())
			months, err := os.ReadDir(yearDir)
			if err != nil {
				continue
			}
			for _, month := range months {
				if !month.IsDir() {
					continue
				}
				monthDir := filepath.Join(yearDir, month.Name())
				files, err := os.ReadDir(monthDir)
				if err != nil {
					continue
				}
				for _, file := range files {
					if strings.EqualFold(filepath.Ext(file.Name()), ".json") {
						_ = os.Remove(filepath.Join(monthDir, file.Name()))
					}
				}
			}
		}
	}
	return s.saveIndex([]models.IndexEntry{})
}

// Stats aggregates counts from the index alone.
func (s *FileHistoryStore) Stats() (models.HistoryStats, error) {
	unlock, err := s.lockIndex()
	if err != nil {
		return models.HistoryStats{}, err
	}
	entries := s.loadIndex()
	unlock()

	stats := models.HistoryStats{
		TotalTasks: len(entries),
		Years:      []int{},
		Months:     map[string]int{},
	}
	yearSet := map[int]bool{}
	for _, entry := range entries {
		stats.TotalResults += entry.TotalCount
		yearSet[entry.Year] = true
		stats.Months[fmt.Sprintf("%d-%02d", entry.Year, entry.Month)]++
	}
	for year := range yearSet {
		stats.Years = append(stats.Years, year)
	}
	sort.Ints(stats.Years)
	return stats, nil
}
