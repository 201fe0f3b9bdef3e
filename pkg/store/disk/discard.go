package disk

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pagevault/pkg/log"
	"pagevault/pkg/store"
)

// DiscardDocument deletes path outright. Only files directly inside the
// sources directory are accepted; a missing file is a no-op.
func (s *Store) DiscardDocument(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return store.IOError{Op: "discard", Path: path, Err: err}
	}
	sourcesDir, err := filepath.Abs(s.paths.Sources)
	if err != nil {
		return store.IOError{Op: "discard", Path: path, Err: err}
	}
	if filepath.Dir(absPath) != sourcesDir || strings.HasPrefix(filepath.Base(absPath), ".") {
		return store.IOError{Op: "discard", Path: path, Err: fmt.Errorf("not a managed source file")}
	}

	if err := os.Remove(absPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Error().Err(err).Str("path", absPath).Msg("Failed to discard document")
		return store.IOError{Op: "discard", Path: absPath, Err: err}
	}

	log.Debug().Str("path", absPath).Msg("Document discarded")
	return nil
}
