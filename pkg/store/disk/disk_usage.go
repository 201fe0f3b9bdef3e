package disk

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"pagevault/pkg/log"
	"pagevault/pkg/store"
)

// GetDiskUsage walks directory and sums regular file sizes. The walk is
// O(entries) on every call. A missing directory reports 0 with no error.
func (s *Store) GetDiskUsage(directory string) (int64, error) {
	return DirSize(directory)
}

// DirSize is the walk behind GetDiskUsage, shared with the cache manager.
func DirSize(directory string) (int64, error) {
	if _, err := os.Stat(directory); errors.Is(err, os.ErrNotExist) {
		return 0, nil
	} else if err != nil {
		return 0, store.IOError{Op: "stat", Path: directory, Err: err}
	}

	var total int64
	err := filepath.WalkDir(directory, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			// Entries removed mid-walk (eviction, trash) are not errors.
			if errors.Is(err, os.ErrNotExist) {
				return nil
			}
			return err
		}
		if !entry.Type().IsRegular() {
			return nil
		}

		info, err := entry.Info()
		if errors.Is(err, os.ErrNotExist) {
			return nil
		} else if err != nil {
			return err
		}

		total += info.Size()
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("dir", directory).Msg("Failed to compute disk usage")
		return 0, store.IOError{Op: "walk", Path: directory, Err: err}
	}

	return total, nil
}
