package cache

import (
	"errors"
	"os"
	"path/filepath"
	"sort"

	"pagevault/pkg/log"
	"pagevault/pkg/models"
	"pagevault/pkg/store/disk"
)

// EvictionReport summarizes one eviction pass.
type EvictionReport struct {
	Before  int64    `json:"before"`
	After   int64    `json:"after"`
	Removed []string `json:"removed"`
	Failed  int      `json:"failed"`
}

// Evict walks the whole cache root and removes entries, oldest first, until
// the total is within the limit. The walk is O(entries) per call.
func (m *Manager) Evict() (EvictionReport, error) {
	m.evictMu.Lock()
	defer m.evictMu.Unlock()

	entries, err := m.scan()
	if err != nil {
		return EvictionReport{}, err
	}

	var total int64
	for _, entry := range entries {
		total += entry.SizeBytes
	}
	report := EvictionReport{Before: total, After: total}
	if total <= m.limit {
		return report, nil
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].LastModified.Before(entries[j].LastModified)
	})

	for _, entry := range entries {
		if total <= m.limit {
			break
		}
		if err := os.RemoveAll(entry.Path); err != nil {
			log.Warn().Err(err).Str("source_id", entry.SourceID).Msg("Failed to evict cache entry")
			report.Failed++
			continue
		}
		total -= entry.SizeBytes
		report.Removed = append(report.Removed, entry.SourceID)
		log.Debug().Str("source_id", entry.SourceID).Int64("bytes", entry.SizeBytes).Msg("Cache entry evicted")
	}
	report.After = total

	log.Info().Int64("before", report.Before).Int64("after", report.After).
		Int("removed", len(report.Removed)).Int64("limit", m.limit).Msg("Cache eviction finished")
	return report, nil
}

// Entries lists cache entries with their current size and mtime.
func (m *Manager) Entries() ([]models.CacheEntry, error) {
	m.evictMu.Lock()
	defer m.evictMu.Unlock()
	return m.scan()
}

// TotalSize is the aggregate size of all entries.
func (m *Manager) TotalSize() (int64, error) {
	return disk.DirSize(m.root)
}

// Remove drops the entry for sourceID. A missing entry is not an error.
func (m *Manager) Remove(sourceID string) error {
	dir, err := m.entryDir(sourceID)
	if err != nil {
		return err
	}

	m.evictMu.Lock()
	defer m.evictMu.Unlock()
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	log.Debug().Str("source_id", sourceID).Msg("Cache entry removed")
	return nil
}

func (m *Manager) scan() ([]models.CacheEntry, error) {
	dirEntries, err := os.ReadDir(m.root)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	entries := make([]models.CacheEntry, 0, len(dirEntries))
	for _, dirEntry := range dirEntries {
		if !dirEntry.IsDir() {
			continue
		}
		info, err := dirEntry.Info()
		if errors.Is(err, os.ErrNotExist) {
			continue
		} else if err != nil {
			return nil, err
		}

		path := filepath.Join(m.root, dirEntry.Name())
		size, err := disk.DirSize(path)
		if err != nil {
			return nil, err
		}
		entries = append(entries, models.CacheEntry{
			SourceID:     dirEntry.Name(),
			Path:         path,
			SizeBytes:    size,
			LastModified: info.ModTime(),
		})
	}
	return entries, nil
}
