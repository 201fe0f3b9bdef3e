// Package importer drives batches of files into the content store and
// record store, one file at a time.
package importer

import (
	"context"
	"fmt"
	"time"

	"pagevault/pkg/cache"
	"pagevault/pkg/models"
)

const (
	// DefaultMaxFileSize is the per-file import ceiling.
	DefaultMaxFileSize int64 = 200 << 20
	defaultFileTimeout       = 2 * time.Minute
)

// ContentStore is the part of the content store the importer uses.
type ContentStore interface {
	ComputeChecksum(ctx context.Context, path string) (string, error)
	ImportDocument(ctx context.Context, path, newID string) (string, error)
	DiscardDocument(path string) error
}

// Records is the part of the record store the importer uses.
type Records interface {
	GetByChecksum(ctx context.Context, checksum string) (*models.SourceDocument, error)
	InsertSource(ctx context.Context, doc *models.SourceDocument) error
}

// AssetCache accepts derived asset requests for freshly imported sources.
type AssetCache interface {
	RequestDerivedAsset(ctx context.Context, sourceID, sourcePath string, spec cache.Spec) error
}

// PageCounter inspects a stored document and returns its page count. It
// must give up once ctx is done.
type PageCounter func(ctx context.Context, path string) (int, error)

// Options tunes an Orchestrator. Zero values take defaults.
type Options struct {
	MaxFileSize int64
	FileTimeout time.Duration
	Thumbnail   cache.Spec
}

// DuplicateSignal means the content is already stored. It is a skip, not a
// failure.
type DuplicateSignal struct {
	Checksum   string
	ExistingID string
}

func (d DuplicateSignal) Error() string {
	return fmt.Sprintf("content %s already stored as source %s", d.Checksum, d.ExistingID)
}

// SizeLimitError rejects a file over the configured ceiling.
type SizeLimitError struct {
	Size  int64
	Limit int64
}

func (e SizeLimitError) Error() string {
	return fmt.Sprintf("file size %d exceeds limit %d", e.Size, e.Limit)
}
