package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"pagevault/pkg/log"
	"pagevault/pkg/models"
	"pagevault/pkg/records"
)

// Orchestrator imports files: size gate, dedup, copy, inspect, persist and
// a derived asset request.
type Orchestrator struct {
	store     ContentStore
	records   Records
	pageCount PageCounter
	assets    AssetCache
	opts      Options
	locks     *keyedMutex
	newID     func() string
	now       func() time.Time
}

// New builds an Orchestrator. assets may be nil to skip preview requests.
func New(store ContentStore, recs Records, pageCount PageCounter, assets AssetCache, opts Options) *Orchestrator {
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = DefaultMaxFileSize
	}
	if opts.FileTimeout <= 0 {
		opts.FileTimeout = defaultFileTimeout
	}

	return &Orchestrator{
		store:     store,
		records:   recs,
		pageCount: pageCount,
		assets:    assets,
		opts:      opts,
		locks:     newKeyedMutex(),
		newID:     models.NewID,
		now:       time.Now,
	}
}

// ImportFiles processes paths in order. One file's failure never stops the
// batch; every path gets an outcome at the same index.
func (o *Orchestrator) ImportFiles(ctx context.Context, paths []string) []models.ImportOutcome {
	outcomes := make([]models.ImportOutcome, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			outcomes = append(outcomes, models.ImportOutcome{
				Path: path, Status: models.ImportStatusFailed, Reason: err.Error(), Err: err,
			})
			continue
		}
		outcomes = append(outcomes, o.importFile(ctx, path))
	}

	imported := 0
	for _, outcome := range outcomes {
		if outcome.Status == models.ImportStatusImported {
			imported++
		}
	}
	log.Info().Int("files", len(paths)).Int("imported", imported).Msg("Import batch finished")

	return outcomes
}

func (o *Orchestrator) importFile(ctx context.Context, path string) models.ImportOutcome {
	ctx, cancel := context.WithTimeout(ctx, o.opts.FileTimeout)
	defer cancel()

	outcome := models.ImportOutcome{Path: path}
	doc, err := o.importOne(ctx, path)

	var (
		duplicate DuplicateSignal
		tooLarge  SizeLimitError
	)
	switch {
	case err == nil:
		outcome.Status = models.ImportStatusImported
		outcome.SourceID = doc.ID
		outcome.Checksum = doc.Checksum
		log.Info().Str("path", path).Str("source_id", doc.ID).Int("pages", doc.PageCount).Msg("File imported")
	case errors.As(err, &duplicate):
		outcome.Status = models.ImportStatusDuplicate
		outcome.SourceID = duplicate.ExistingID
		outcome.Checksum = duplicate.Checksum
		outcome.Reason = "already imported"
		log.Info().Str("path", path).Str("source_id", duplicate.ExistingID).Msg("Duplicate content skipped")
	case errors.As(err, &tooLarge):
		outcome.Status = models.ImportStatusRejected
		outcome.Reason = err.Error()
		outcome.Err = err
		log.Warn().Str("path", path).Int64("bytes", tooLarge.Size).Msg("File rejected")
	default:
		outcome.Status = models.ImportStatusFailed
		outcome.Reason = err.Error()
		outcome.Err = err
		log.Error().Err(err).Str("path", path).Msg("Import failed")
	}
	return outcome
}

func (o *Orchestrator) importOne(ctx context.Context, path string) (*models.SourceDocument, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s is not a regular file", path)
	}
	if info.Size() > o.opts.MaxFileSize {
		return nil, SizeLimitError{Size: info.Size(), Limit: o.opts.MaxFileSize}
	}

	checksum, err := o.store.ComputeChecksum(ctx, path)
	if err != nil {
		return nil, err
	}

	// Lookup and insert form one critical section per checksum.
	unlock := o.locks.Lock(checksum)
	defer unlock()

	existing, err := o.records.GetByChecksum(ctx, checksum)
	if err == nil {
		return nil, DuplicateSignal{Checksum: checksum, ExistingID: existing.ID}
	}
	if !errors.Is(err, records.ErrSourceNotFound) {
		return nil, err
	}

	id := o.newID()
	internalPath, err := o.store.ImportDocument(ctx, path, id)
	if err != nil {
		return nil, err
	}

	doc, err := o.persist(ctx, path, id, internalPath, checksum, info.Size())
	if err != nil {
		if discardErr := o.store.DiscardDocument(internalPath); discardErr != nil {
			log.Error().Err(discardErr).Str("path", internalPath).Msg("Failed to remove orphaned copy")
		}
		return nil, err
	}

	// The preview is rebuildable; a refused request does not undo the import.
	if o.assets != nil {
		if err := o.assets.RequestDerivedAsset(ctx, id, internalPath, o.opts.Thumbnail); err != nil {
			log.Warn().Err(err).Str("source_id", id).Msg("Preview not requested")
		}
	}

	return doc, nil
}

func (o *Orchestrator) persist(ctx context.Context, path, id, internalPath, checksum string, size int64) (*models.SourceDocument, error) {
	pages, err := o.pageCount(ctx, internalPath)
	if err != nil {
		return nil, fmt.Errorf("inspect %s: %w", filepath.Base(path), err)
	}
	if pages <= 0 {
		return nil, fmt.Errorf("inspect %s: document has no pages", filepath.Base(path))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := &models.SourceDocument{
		ID:               id,
		OriginalFileName: filepath.Base(path),
		OriginalPath:     path,
		InternalPath:     internalPath,
		PageCount:        pages,
		FileSizeBytes:    size,
		Checksum:         checksum,
		ImportedAt:       o.now().UTC(),
	}

	if err := o.records.InsertSource(ctx, doc); err != nil {
		if errors.Is(err, records.ErrDuplicateChecksum) {
			// Another process won the race; report it like any duplicate.
			existingID := ""
			if existing, lookupErr := o.records.GetByChecksum(ctx, checksum); lookupErr == nil {
				existingID = existing.ID
			}
			return nil, DuplicateSignal{Checksum: checksum, ExistingID: existingID}
		}
		return nil, err
	}

	return doc, nil
}
