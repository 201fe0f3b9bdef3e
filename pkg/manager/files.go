package manager

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"pagevault/pkg/log"
	"pagevault/pkg/models"
	"pagevault/pkg/records"
)

// DeleteFile moves a file to the trash and drops its output record if it
// had one. A stored source file goes through DeleteSource so its record
// never outlives it. Other files the vault manages are refused. A missing
// file is not an error.
func (m *Manager) DeleteFile(ctx context.Context, path string) error {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return models.ValidationError{Field: "path", Reason: err.Error()}
	}

	paths := m.deps.Store.Paths()
	switch {
	case within(paths.Outputs, absPath):
	case within(paths.Sources, absPath):
		doc, err := m.sourceAt(ctx, path, absPath)
		if errors.Is(err, records.ErrSourceNotFound) {
			// Unrecorded leftover; nothing points at it.
			return m.deps.Store.DeleteDocument(absPath)
		} else if err != nil {
			return err
		}
		return m.deleteSource(ctx, doc)
	case within(paths.Base, absPath) || sameDir(paths.Base, absPath):
		return models.ValidationError{Field: "path", Reason: "managed by the vault"}
	}

	if err := m.deps.Store.DeleteDocument(path); err != nil {
		return err
	}

	err = m.deps.Records.DeleteOutputByPath(ctx, path)
	if err != nil && !errors.Is(err, records.ErrOutputNotFound) {
		return err
	}
	return nil
}

// DeleteSource removes a source record, trashes its stored file and drops
// its cache entry. Projects still referencing it fail at export.
func (m *Manager) DeleteSource(ctx context.Context, id string) error {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	doc, err := m.deps.Records.GetSource(ctx, id)
	if err != nil {
		return err
	}
	return m.deleteSource(ctx, doc)
}

func (m *Manager) deleteSource(ctx context.Context, doc *models.SourceDocument) error {
	id := doc.ID
	if err := m.deps.Records.DeleteSource(ctx, id); err != nil {
		return err
	}

	if err := m.deps.Store.DeleteDocument(doc.InternalPath); err != nil {
		log.Error().Err(err).Str("source_id", id).Str("path", doc.InternalPath).Msg("Source record removed but file was not trashed")
		return fmt.Errorf("trash source %s: %w", id, err)
	}
	if err := m.deps.Cache.Remove(id); err != nil {
		log.Warn().Err(err).Str("source_id", id).Msg("Failed to drop cache entry")
	}

	log.Info().Str("source_id", id).Str("checksum", doc.Checksum).Msg("Source deleted")
	return nil
}

// sourceAt finds the record for a file under the sources directory, trying
// the path as given and then in absolute form.
func (m *Manager) sourceAt(ctx context.Context, path, absPath string) (*models.SourceDocument, error) {
	doc, err := m.deps.Records.GetSourceByPath(ctx, filepath.Clean(path))
	if errors.Is(err, records.ErrSourceNotFound) && absPath != filepath.Clean(path) {
		return m.deps.Records.GetSourceByPath(ctx, absPath)
	}
	return doc, err
}

// within reports whether path lies strictly below dir.
func within(dir, path string) bool {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absDir, path)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func sameDir(dir, path string) bool {
	absDir, err := filepath.Abs(dir)
	return err == nil && absDir == path
}

// RevealInFileExplorer shows path in the platform file manager.
func (m *Manager) RevealInFileExplorer(ctx context.Context, path string) error {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()
	return m.deps.Store.RevealInFileExplorer(ctx, path)
}

// GetDiskUsage returns the recursive size of path in bytes. An empty path
// measures the whole base directory.
func (m *Manager) GetDiskUsage(path string) (int64, error) {
	if path == "" {
		path = m.deps.Store.Paths().Base
	}
	return m.deps.Store.GetDiskUsage(path)
}
