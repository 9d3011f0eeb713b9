package models

// ArchiveFile is the unit of durable storage: one task record wrapped with
// provenance metadata. The created-time is the capture timestamp, distinct
// from the record's own timestamp; year and month are extracted from the
// record timestamp and decide the shard directory.
type ArchiveFile struct {
	TaskData    TaskRecord `json:"task-data"`
	CreatedTime string     `json:"created-time"`
	Year        int        `json:"year"`
	Month       int        `json:"month"`
}

// IndexEntry is the denormalized projection of one archive file kept in the
// index so listing and stats never have to open every shard.
type IndexEntry struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Timestamp    string `json:"timestamp"`
	FileName     string `json:"fileName"`
	RelativePath string `json:"relativePath"`
	TotalCount   int    `json:"totalCount"`
	GroupName    string `json:"groupName"`
	Year         int    `json:"year"`
	Month        int    `json:"month"`
}

// HistoryStats aggregates counts derived purely from the index. It can lag
// the true archive when the index and shard files have drifted; that is the
// documented trade-off of never reading shards for stats.
type HistoryStats struct {
	TotalTasks   int            `json:"total_tasks"`
	TotalResults int            `json:"total_results"`
	Years        []int          `json:"years"`
	Months       map[string]int `json:"months"`
}
