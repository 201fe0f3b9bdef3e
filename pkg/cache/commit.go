package cache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pagevault/pkg/log"
	"pagevault/pkg/render"
	"pagevault/pkg/store/disk"
)

// ErrUnknownSource is returned when a completion arrives for a source that
// no longer exists.
var ErrUnknownSource = errors.New("source no longer exists")

// SourceChecker reports whether sourceID still names a stored source.
type SourceChecker func(ctx context.Context, sourceID string) (bool, error)

// CommitDerivedAsset writes data to {root}/{sourceID}/{page}.{ext}, marks the
// entry as fresh and schedules an eviction pass without waiting for it.
func (m *Manager) CommitDerivedAsset(sourceID string, page int, ext string, data []byte) (string, error) {
	return m.commit(context.Background(), sourceID, page, ext, data, nil)
}

// commit writes the asset. With a checker, the source is checked under
// evictMu so a concurrent Remove either sees the entry or prevents it.
func (m *Manager) commit(ctx context.Context, sourceID string, page int, ext string, data []byte, live SourceChecker) (string, error) {
	dir, err := m.entryDir(sourceID)
	if err != nil {
		return "", err
	}
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" || strings.ContainsAny(ext, `/\`) {
		return "", fmt.Errorf("invalid asset extension %q", ext)
	}

	m.evictMu.Lock()
	if live != nil {
		exists, err := live(ctx, sourceID)
		if err == nil && !exists {
			err = ErrUnknownSource
		}
		if err != nil {
			m.evictMu.Unlock()
			return "", err
		}
	}
	target, err := m.write(dir, page, ext, data)
	m.evictMu.Unlock()
	if err != nil {
		log.Error().Err(err).Str("source_id", sourceID).Msg("Failed to write cached asset")
		return "", err
	}

	log.Debug().Str("source_id", sourceID).Str("path", target).Int("bytes", len(data)).Msg("Derived asset cached")

	m.pending.Add(1)
	go func() {
		defer m.pending.Done()
		if _, err := m.Evict(); err != nil {
			log.Warn().Err(err).Msg("Cache eviction failed")
		}
	}()

	return target, nil
}

// write stores one asset and bumps the entry mtime. Callers hold evictMu.
func (m *Manager) write(dir string, page int, ext string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return "", err
	}

	target := filepath.Join(dir, fmt.Sprintf("%d.%s", page, ext))
	if _, err := disk.WriteAtomic(context.Background(), dir, target, bytes.NewReader(data)); err != nil {
		return "", err
	}

	now := m.now()
	if err := os.Chtimes(dir, now, now); err != nil {
		log.Warn().Err(err).Str("dir", dir).Msg("Failed to touch cache entry")
	}
	return target, nil
}

// Consume commits renderer completions until the channel closes or ctx ends.
// It is the only reader of the completion channel. Completions for sources
// that live reports gone are dropped; a nil live commits everything.
func (m *Manager) Consume(ctx context.Context, completions <-chan render.Completion, live SourceChecker) {
	for {
		select {
		case <-ctx.Done():
			return
		case c, ok := <-completions:
			if !ok {
				return
			}
			if c.Err != nil {
				log.Warn().Err(c.Err).Str("source_id", c.Request.SourceID).Msg("Skipping failed render")
				continue
			}
			_, err := m.commit(ctx, c.Request.SourceID, c.Request.Page, c.Ext, c.Data, live)
			if errors.Is(err, ErrUnknownSource) {
				log.Debug().Str("source_id", c.Request.SourceID).Msg("Dropping render for deleted source")
			} else if err != nil {
				log.Error().Err(err).Str("source_id", c.Request.SourceID).Msg("Failed to commit render")
			}
		}
	}
}
