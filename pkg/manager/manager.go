// Package manager is the operational surface: it ties the content store,
// record store, cache, importer and assembler together behind one API.
package manager

import (
	"context"
	"errors"
	"sync"
	"time"

	"pagevault/pkg/assembler"
	"pagevault/pkg/cache"
	"pagevault/pkg/importer"
	"pagevault/pkg/log"
	"pagevault/pkg/models"
	"pagevault/pkg/records"
	"pagevault/pkg/render"
	"pagevault/pkg/store/disk"
)

// DefaultOperationTimeout bounds every call that is not an import batch.
const DefaultOperationTimeout = 2 * time.Minute

// ErrNotStarted is returned by Stop when Start was never called.
var ErrNotStarted = errors.New("manager not started")

// RenderPool is the background renderer whose completions feed the cache.
type RenderPool interface {
	Start(ctx context.Context)
	Completions() <-chan render.Completion
	Close() error
}

// Deps is the full dependency graph. Every field except Pool is required.
type Deps struct {
	Store            *disk.Store
	Records          *records.Store
	Cache            *cache.Manager
	Pool             RenderPool
	Importer         *importer.Orchestrator
	Assembler        *assembler.Assembler
	OperationTimeout time.Duration
}

// Manager exposes the document operations.
type Manager struct {
	deps    Deps
	timeout time.Duration
	now     func() time.Time

	mu       sync.Mutex
	cancel   context.CancelFunc
	consumer sync.WaitGroup
}

// New creates a Manager from deps.
func New(deps Deps) *Manager {
	timeout := deps.OperationTimeout
	if timeout <= 0 {
		timeout = DefaultOperationTimeout
	}
	return &Manager{deps: deps, timeout: timeout, now: time.Now}
}

// Start launches the render pool and the goroutine that commits its output
// into the cache.
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil || m.deps.Pool == nil {
		return
	}

	ctx, m.cancel = context.WithCancel(ctx)
	m.deps.Pool.Start(ctx)

	m.consumer.Add(1)
	go func() {
		defer m.consumer.Done()
		m.deps.Cache.Consume(ctx, m.deps.Pool.Completions(), m.sourceExists)
	}()

	log.Info().Str("cache_root", m.deps.Cache.Root()).Int64("cache_limit", m.deps.Cache.Limit()).Msg("Manager started")
}

// sourceExists backs the cache consumer's check for deleted sources.
func (m *Manager) sourceExists(ctx context.Context, id string) (bool, error) {
	_, err := m.deps.Records.GetSource(ctx, id)
	if errors.Is(err, records.ErrSourceNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Stop drains the render pool, waits for the consumer and for pending
// evictions.
func (m *Manager) Stop() error {
	m.mu.Lock()
	cancel := m.cancel
	m.cancel = nil
	m.mu.Unlock()
	if cancel == nil {
		return ErrNotStarted
	}

	err := m.deps.Pool.Close()
	m.consumer.Wait()
	cancel()
	m.deps.Cache.Wait()

	log.Info().Msg("Manager stopped")
	return err
}

// Import runs one import batch. Each file has its own timeout inside the
// importer, so the batch itself is not bounded.
func (m *Manager) Import(ctx context.Context, paths []string) []models.ImportOutcome {
	return m.deps.Importer.ImportFiles(ctx, paths)
}

// ListSources returns every imported source document.
func (m *Manager) ListSources(ctx context.Context) ([]models.SourceDocument, error) {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()
	return m.deps.Records.ListSources(ctx)
}

// ListOutputs returns output records, for one project or all of them.
func (m *Manager) ListOutputs(ctx context.Context, projectID string) ([]models.OutputRecord, error) {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()
	return m.deps.Records.ListOutputs(ctx, projectID)
}

// AssetPath returns the cached preview of a source page, if present.
func (m *Manager) AssetPath(sourceID string, page int) (string, bool) {
	return m.deps.Cache.AssetPath(sourceID, page)
}

func (m *Manager) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, m.timeout)
}
