package disk

import (
	"errors"
	"os"
	"path/filepath"

	"pagevault/pkg/log"
	"pagevault/pkg/store"
)

// DeleteDocument moves path into the system trash so the user can restore
// it from there. A path that does not exist is a no-op.
func (s *Store) DeleteDocument(path string) error {
	info, err := os.Lstat(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Debug().Str("path", path).Msg("Nothing to delete")
		return nil
	} else if err != nil {
		return store.IOError{Op: "stat", Path: path, Err: err}
	}
	if info.IsDir() {
		return store.IOError{Op: "delete", Path: path, Err: errors.New("is a directory")}
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return store.IOError{Op: "delete", Path: path, Err: err}
	}

	if err := s.trash(absPath); err != nil {
		log.Error().Err(err).Str("path", absPath).Msg("Failed to move file to trash")
		return store.IOError{Op: "trash", Path: absPath, Err: err}
	}

	log.Info().Str("path", absPath).Int64("size", info.Size()).Msg("File moved to trash")
	return nil
}
