package disk

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pagevault/pkg/log"
	"pagevault/pkg/store"
)

// ImportDocument copies the file at path into sources/{newID}{ext}.
// Deduplication happens before this call; the store only moves bytes.
func (s *Store) ImportDocument(ctx context.Context, path, newID string) (string, error) {
	if newID == "" || strings.ContainsAny(newID, `/\`) {
		return "", store.IOError{Op: "import", Path: path, Err: fmt.Errorf("invalid document id %q", newID)}
	}

	targetPath := filepath.Join(s.paths.Sources, newID+sourceExt(path))
	if _, err := os.Stat(targetPath); err == nil {
		return "", store.IOError{Op: "import", Path: targetPath, Err: os.ErrExist}
	}

	log.Debug().Str("path", path).Str("target_path", targetPath).Msg("Importing document")

	//nolint:gosec // path is an import candidate chosen by the user
	src, err := os.Open(path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("Failed to open source file")
		return "", store.IOError{Op: "open", Path: path, Err: err}
	}
	defer func() {
		if err := src.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close source file")
		}
	}()

	if err := os.MkdirAll(s.paths.Sources, dirPerm); err != nil {
		return "", store.IOError{Op: "mkdir", Path: s.paths.Sources, Err: err}
	}

	written, err := WriteAtomic(ctx, s.paths.Sources, targetPath, src)
	if err != nil {
		log.Error().Err(err).Str("target_path", targetPath).Msg("Failed to copy document into sources")
		op := "copy"
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			op = "copy (cancelled)"
		}
		return "", store.IOError{Op: op, Path: targetPath, Err: err}
	}

	log.Info().Str("id", newID).Str("target_path", targetPath).Int64("bytes", written).Msg("Document imported")
	return targetPath, nil
}

func sourceExt(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return defaultExt
	}
	return ext
}
