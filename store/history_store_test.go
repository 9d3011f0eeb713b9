package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/vistamin/starchive/models"
	"github.com/vistamin/starchive/types"
)

// compactJSON normalizes raw JSON for comparison: the indented shard files
// reflow whitespace inside extra fields, but the values must be unchanged.
func compactJSON(t *testing.T, raw json.RawMessage) string {
	t.Helper()
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		t.Fatalf("compact %s: %v", raw, err)
	}
	return buf.String()
}

func newTestStore(t *testing.T) *FileHistoryStore {
	t.Helper()
	s := NewFileHistoryStore()
	if err := s.Initialize(map[string]string{rootDirKey: filepath.Join(t.TempDir(), "coredata")}); err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testRecord(id, name, timestamp string, count int) models.TaskRecord {
	return models.TaskRecord{
		ID:         id,
		Name:       name,
		Timestamp:  timestamp,
		TotalCount: count,
		GroupName:  "Class 3",
	}
}

func TestArchiveThenGetRoundTrip(t *testing.T) {
	s := newTestStore(t)

	rec := testRecord("task-1", "Morning Draw", "2024-03-15T09:30:00Z", 7)
	rec.Extra = map[string]json.RawMessage{
		"results":  json.RawMessage(`[{"number":42},{"number":7}]`),
		"mode":     json.RawMessage(`"sequential"`),
		"nested":   json.RawMessage(`{"a":[1,2,3],"b":null}`),
		"duration": json.RawMessage(`12.5`),
	}
	if err := s.Archive(rec); err != nil {
		t.Fatalf("archive: %v", err)
	}

	got, ok, err := s.Get("task-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok {
		t.Fatal("expected record to be found")
	}
	if got.ID != rec.ID || got.Name != rec.Name || got.Timestamp != rec.Timestamp ||
		got.TotalCount != rec.TotalCount || got.GroupName != rec.GroupName {
		t.Fatalf("typed fields mismatch: got %+v", got)
	}
	for key, want := range rec.Extra {
		if compactJSON(t, got.Extra[key]) != compactJSON(t, want) {
			t.Fatalf("extra field %q: got %s, want %s", key, got.Extra[key], want)
		}
	}
}

func TestArchiveIdempotentUpsert(t *testing.T) {
	s := newTestStore(t)

	rec := testRecord("task-1", "Draw", "2024-03-15T09:30:00Z", 3)
	if err := s.Archive(rec); err != nil {
		t.Fatalf("first archive: %v", err)
	}
	if err := s.Archive(rec); err != nil {
		t.Fatalf("second archive: %v", err)
	}

	records, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record after repeat archive, got %d", len(records))
	}
}

func TestUpsertPreservesPosition(t *testing.T) {
	s := newTestStore(t)

	for i := 1; i <= 3; i++ {
		rec := testRecord(fmt.Sprintf("task-%d", i), fmt.Sprintf("Draw %d", i),
			fmt.Sprintf("2024-03-%02dT09:00:00Z", i), i)
		if err := s.Archive(rec); err != nil {
			t.Fatalf("archive %d: %v", i, err)
		}
	}

	// Re-archive the oldest entry with a new count. Its value must change
	// but its position (last) must not.
	updated := testRecord("task-1", "Draw 1 updated", "2024-03-01T09:00:00Z", 99)
	if err := s.Archive(updated); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	records, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	wantOrder := []string{"task-3", "task-2", "task-1"}
	for i, want := range wantOrder {
		if records[i].ID != want {
			t.Fatalf("position %d: got %s, want %s", i, records[i].ID, want)
		}
	}
	if records[2].TotalCount != 99 {
		t.Fatalf("expected updated count 99, got %d", records[2].TotalCount)
	}
}

func TestRetentionBound(t *testing.T) {
	s := newTestStore(t)

	for i := 0; i < 150; i++ {
		rec := testRecord(fmt.Sprintf("task-%03d", i), "Draw",
			fmt.Sprintf("2024-01-01T%02d:%02d:00Z", i/60, i%60), 1)
		if err := s.Archive(rec); err != nil {
			t.Fatalf("archive %d: %v", i, err)
		}
	}

	records, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 100 {
		t.Fatalf("expected index capped at 100, got %d", len(records))
	}
	// The cap keeps the 100 most recently archived, by insertion order.
	if records[0].ID != "task-149" {
		t.Fatalf("expected newest first, got %s", records[0].ID)
	}
	if records[99].ID != "task-050" {
		t.Fatalf("expected oldest surviving entry task-050, got %s", records[99].ID)
	}
}

func TestConfigurableRetention(t *testing.T) {
	s := NewFileHistoryStore()
	if err := s.Initialize(map[string]string{
		rootDirKey:   filepath.Join(t.TempDir(), "coredata"),
		retentionKey: "5",
	}); err != nil {
		t.Fatalf("init: %v", err)
	}
	defer func() { _ = s.Close() }()

	for i := 0; i < 8; i++ {
		rec := testRecord(fmt.Sprintf("t%d", i), "n", "2024-05-01T00:00:00Z", 0)
		if err := s.Archive(rec); err != nil {
			t.Fatalf("archive: %v", err)
		}
	}
	records, _ := s.List()
	if len(records) != 5 {
		t.Fatalf("expected retention 5, got %d", len(records))
	}
}

func TestDeleteRemovesFileAndIndex(t *testing.T) {
	s := newTestStore(t)

	rec := testRecord("task-1", "Draw", "2024-03-15T09:30:00Z", 2)
	if err := s.Archive(rec); err != nil {
		t.Fatalf("archive: %v", err)
	}
	shardFile := filepath.Join(s.historyDir, "2024", "03", "Draw_task-1.json")
	if _, err := os.Stat(shardFile); err != nil {
		t.Fatalf("expected shard file at %s: %v", shardFile, err)
	}

	if err := s.Delete("task-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := s.Get("task-1"); ok {
		t.Fatal("expected record gone after delete")
	}
	if _, err := os.Stat(shardFile); !os.IsNotExist(err) {
		t.Fatalf("expected shard file removed, stat err: %v", err)
	}

	// Deleting a nonexistent id is a no-op, not an error.
	if err := s.Delete("no-such-id"); err != nil {
		t.Fatalf("delete of unknown id: %v", err)
	}
}

func TestClearAllEmptiesEverything(t *testing.T) {
	s := newTestStore(t)

	for i := 0; i < 4; i++ {
		rec := testRecord(fmt.Sprintf("t%d", i), "Draw",
			fmt.Sprintf("202%d-06-01T00:00:00Z", i), 3)
		if err := s.Archive(rec); err != nil {
			t.Fatalf("archive: %v", err)
		}
	}
	if err := s.ClearAll(); err != nil {
		t.Fatalf("clear all: %v", err)
	}

	records, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty list, got %d", len(records))
	}
	stats, err := s.Stats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalTasks != 0 {
		t.Fatalf("expected 0 total tasks, got %d", stats.TotalTasks)
	}
}

func TestListDegradesMissingShard(t *testing.T) {
	s := newTestStore(t)

	rec := testRecord("task-1", "Draw", "2024-03-15T09:30:00Z", 5)
	if err := s.Archive(rec); err != nil {
		t.Fatalf("archive: %v", err)
	}
	// Simulate external deletion of the shard file.
	shardFile := filepath.Join(s.historyDir, "2024", "03", "Draw_task-1.json")
	if err := os.Remove(shardFile); err != nil {
		t.Fatalf("remove shard: %v", err)
	}

	records, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected degraded summary, got %d records", len(records))
	}
	got := records[0]
	if got.ID != "task-1" || got.Name != "Draw" || got.TotalCount != 5 ||
		got.Timestamp != "2024-03-15T09:30:00Z" {
		t.Fatalf("degraded summary fields wrong: %+v", got)
	}
	if string(got.Extra["results"]) != `[]` {
		t.Fatalf("expected empty results, got %s", got.Extra["results"])
	}
	if string(got.Extra["edit_protected"]) != `false` {
		t.Fatalf("expected protection reset, got %s", got.Extra["edit_protected"])
	}

	// Single-item lookup returns absence, not a degraded value.
	if _, ok, err := s.Get("task-1"); err != nil || ok {
		t.Fatalf("expected get to report absence, ok=%v err=%v", ok, err)
	}
}

func TestListDegradesCorruptShard(t *testing.T) {
	s := newTestStore(t)

	rec := testRecord("task-1", "Draw", "2024-03-15T09:30:00Z", 5)
	if err := s.Archive(rec); err != nil {
		t.Fatalf("archive: %v", err)
	}
	shardFile := filepath.Join(s.historyDir, "2024", "03", "Draw_task-1.json")
	if err := os.WriteFile(shardFile, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("corrupt shard: %v", err)
	}

	records, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 || records[0].ID != "task-1" {
		t.Fatalf("expected one degraded record, got %+v", records)
	}
}

func TestStatsAggregation(t *testing.T) {
	s := newTestStore(t)

	specs := []struct {
		id, ts string
		count  int
	}{
		{"a", "2024-01-10T00:00:00Z", 3},
		{"b", "2024-02-10T00:00:00Z", 5},
		{"c", "2025-01-10T00:00:00Z", 2},
	}
	for _, sp := range specs {
		if err := s.Archive(testRecord(sp.id, "Draw", sp.ts, sp.count)); err != nil {
			t.Fatalf("archive %s: %v", sp.id, err)
		}
	}

	stats, err := s.Stats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalTasks != 3 {
		t.Fatalf("total_tasks: got %d, want 3", stats.TotalTasks)
	}
	if stats.TotalResults != 10 {
		t.Fatalf("total_results: got %d, want 10", stats.TotalResults)
	}
	if len(stats.Years) != 2 || stats.Years[0] != 2024 || stats.Years[1] != 2025 {
		t.Fatalf("years: got %v, want [2024 2025]", stats.Years)
	}
	wantMonths := map[string]int{"2024-01": 1, "2024-02": 1, "2025-01": 1}
	for k, v := range wantMonths {
		if stats.Months[k] != v {
			t.Fatalf("months[%s]: got %d, want %d", k, stats.Months[k], v)
		}
	}
	if len(stats.Months) != len(wantMonths) {
		t.Fatalf("months: got %v", stats.Months)
	}
}

func TestArchiveRejectsInvalidRecords(t *testing.T) {
	s := newTestStore(t)

	cases := []struct {
		name   string
		record models.TaskRecord
		code   types.ErrorCode
	}{
		{"missing id", models.TaskRecord{Timestamp: "2024-01-01T00:00:00Z"}, types.ErrMissingField},
		{"missing timestamp", models.TaskRecord{ID: "x"}, types.ErrMissingField},
		{"malformed timestamp", models.TaskRecord{ID: "x", Timestamp: "yesterday"}, types.ErrMalformedTimestamp},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := s.Archive(tc.record)
			if err == nil {
				t.Fatal("expected error")
			}
			if !types.IsCode(err, tc.code) {
				t.Fatalf("expected code %s, got %v", tc.code, err)
			}
		})
	}

	// No side effects: the index must be untouched.
	records, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty index after rejected archives, got %d", len(records))
	}
	if _, err := os.Stat(s.indexPath); err == nil {
		data, _ := os.ReadFile(s.indexPath)
		var entries []models.IndexEntry
		_ = json.Unmarshal(data, &entries)
		if len(entries) != 0 {
			t.Fatalf("index file gained entries: %v", entries)
		}
	}
}

func TestIndexSelfHealsOnCorruptFile(t *testing.T) {
	s := newTestStore(t)

	if err := os.WriteFile(s.indexPath, []byte("###"), 0o644); err != nil {
		t.Fatalf("write corrupt index: %v", err)
	}
	records, err := s.List()
	if err != nil {
		t.Fatalf("list over corrupt index: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty list, got %d", len(records))
	}

	// The next archive rebuilds a valid index.
	if err := s.Archive(testRecord("t1", "Draw", "2024-03-15T09:30:00Z", 1)); err != nil {
		t.Fatalf("archive: %v", err)
	}
	records, _ = s.List()
	if len(records) != 1 {
		t.Fatalf("expected 1 record after heal, got %d", len(records))
	}
}

func TestRetentionOrphansShardFiles(t *testing.T) {
	s := NewFileHistoryStore()
	if err := s.Initialize(map[string]string{
		rootDirKey:   filepath.Join(t.TempDir(), "coredata"),
		retentionKey: "2",
	}); err != nil {
		t.Fatalf("init: %v", err)
	}
	defer func() { _ = s.Close() }()

	for i := 0; i < 3; i++ {
		rec := testRecord(fmt.Sprintf("t%d", i), "Draw", "2024-03-15T09:30:00Z", 0)
		if err := s.Archive(rec); err != nil {
			t.Fatalf("archive: %v", err)
		}
	}

	records, _ := s.List()
	if len(records) != 2 {
		t.Fatalf("expected 2 indexed records, got %d", len(records))
	}
	// The evicted entry's shard file stays on disk: retention never
	// touches shard files.
	orphan := filepath.Join(s.historyDir, "2024", "03", "Draw_t0.json")
	if _, err := os.Stat(orphan); err != nil {
		t.Fatalf("expected orphaned shard file to remain: %v", err)
	}
}
