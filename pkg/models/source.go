package models

import "time"

// SourceDocument is an imported file held in the managed sources directory.
// Checksum and InternalPath are unique across all records.
type SourceDocument struct {
	ID               string    `json:"id"`
	OriginalFileName string    `json:"original_file_name"`
	OriginalPath     string    `json:"original_path"`
	InternalPath     string    `json:"internal_path"`
	PageCount        int       `json:"page_count"`
	FileSizeBytes    int64     `json:"file_size"`
	Checksum         string    `json:"checksum"`
	ImportedAt       time.Time `json:"imported_at"`
}

// OutputRecord is an assembled document written to the outputs directory.
// ProjectID is empty once the owning project has been deleted.
type OutputRecord struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id,omitempty"`
	FileName  string    `json:"file_name"`
	FilePath  string    `json:"file_path"`
	CreatedAt time.Time `json:"created_at"`
}

// CacheEntry describes one per-source directory in the derived asset cache.
type CacheEntry struct {
	SourceID     string    `json:"source_id"`
	Path         string    `json:"path"`
	SizeBytes    int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// ImportStatus is the per-file result of an import batch.
type ImportStatus string

const (
	ImportStatusImported  ImportStatus = "imported"
	ImportStatusDuplicate ImportStatus = "duplicate"
	ImportStatusRejected  ImportStatus = "rejected"
	ImportStatusFailed    ImportStatus = "failed"
)

// ImportOutcome reports what happened to one path of an import batch.
type ImportOutcome struct {
	Path     string       `json:"path"`
	Status   ImportStatus `json:"status"`
	SourceID string       `json:"source_id,omitempty"`
	Checksum string       `json:"checksum,omitempty"`
	Reason   string       `json:"reason,omitempty"`
	Err      error        `json:"-"`
}
