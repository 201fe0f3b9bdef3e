// Package cache keeps a size-bounded directory of derived per-source assets.
// Each source owns one directory under the root; whole directories are
// evicted oldest first once the total size passes the limit.
package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"pagevault/pkg/render"
)

const (
	// DefaultLimit is the aggregate cap for all entries.
	DefaultLimit int64 = 1 << 30
	dirPerm            = 0750
)

// Renderer accepts asynchronous render requests.
type Renderer interface {
	RequestRender(req render.Request) error
}

// Spec describes the derived asset to produce.
type Spec struct {
	Page   int `json:"page"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Manager owns the cache root.
type Manager struct {
	root     string
	limit    int64
	renderer Renderer
	now      func() time.Time

	// evictMu makes measure, pick and delete one critical section. Writes
	// into the root take it too.
	evictMu sync.Mutex
	pending sync.WaitGroup
}

// New creates a cache manager rooted at root. A limit <= 0 uses DefaultLimit.
func New(root string, limit int64, renderer Renderer) *Manager {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Manager{
		root:     root,
		limit:    limit,
		renderer: renderer,
		now:      time.Now,
	}
}

// Root returns the cache directory.
func (m *Manager) Root() string {
	return m.root
}

// Limit returns the configured cap in bytes.
func (m *Manager) Limit() int64 {
	return m.limit
}

// Wait blocks until every eviction scheduled so far has finished.
func (m *Manager) Wait() {
	m.pending.Wait()
}

func (m *Manager) entryDir(sourceID string) (string, error) {
	if sourceID == "" || strings.ContainsAny(sourceID, `/\`) || sourceID == "." || sourceID == ".." {
		return "", fmt.Errorf("invalid source id %q", sourceID)
	}
	return filepath.Join(m.root, sourceID), nil
}

// AssetPath returns the cached file for a page and marks the entry as
// recently used. ok is false when nothing is cached.
func (m *Manager) AssetPath(sourceID string, page int) (path string, ok bool) {
	dir, err := m.entryDir(sourceID)
	if err != nil {
		return "", false
	}

	matches, err := filepath.Glob(filepath.Join(dir, fmt.Sprintf("%d.*", page)))
	if err != nil || len(matches) == 0 {
		return "", false
	}

	now := m.now()
	if err := os.Chtimes(dir, now, now); err != nil {
		return "", false
	}
	return matches[0], true
}
