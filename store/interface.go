package store

import "github.com/vistamin/starchive/models"

// HistoryStore defines the contract for the task history archive: durable
// shard files on disk plus a compact, bounded index used for listing and
// aggregate counts.
type HistoryStore interface {
	// Initialize configures the store with backend-specific settings such
	// as the storage root, index file name, and retention cap. It must be
	// called before any other store operation.
	Initialize(config map[string]string) error

	// Archive persists one task record: it writes the record plus
	// provenance metadata into its year/month shard file, then upserts the
	// index entry and enforces retention. The record needs a non-empty id
	// and an RFC 3339 timestamp; nothing is written otherwise.
	Archive(record models.TaskRecord) error

	// List returns one record per index entry, newest-relevant-first.
	// Entries whose shard file is missing or unreadable are degraded to a
	// summary reconstructed from the index rather than failing the call.
	List() ([]models.TaskRecord, error)

	// Get returns the full record for an id. The boolean is false when the
	// index lacks the id or the shard file cannot be read; a single-item
	// lookup returns absence, never a degraded value.
	Get(id string) (models.TaskRecord, bool, error)

	// Delete removes the shard file and the index entry for an id. The
	// index removal happens even when the file delete fails; that failure
	// is still reported to the caller. An unknown id is a no-op.
	Delete(id string) error

	// ClearAll deletes every archive file (best effort) and resets the
	// index to an empty sequence. The index reset always happens.
	ClearAll() error

	// Stats derives aggregate counts purely from the index. It never opens
	// shard files.
	Stats() (models.HistoryStats, error)

	// Close releases resources held by the store, such as file locks.
	Close() error
}
