package manager

import (
	"context"

	"pagevault/pkg/models"
)

// Status counts records and measures every managed directory.
func (m *Manager) Status(ctx context.Context) (*models.VaultStatus, error) {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	sources, err := m.deps.Records.ListSources(ctx)
	if err != nil {
		return nil, err
	}
	projects, err := m.deps.Records.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	outputs, err := m.deps.Records.ListOutputs(ctx, "")
	if err != nil {
		return nil, err
	}

	entries, err := m.deps.Cache.Entries()
	if err != nil {
		return nil, err
	}
	cacheInfo := models.CacheInfo{Entries: len(entries), Limit: m.deps.Cache.Limit()}
	for _, entry := range entries {
		cacheInfo.Used += entry.SizeBytes
	}

	paths := m.deps.Store.Paths()
	var storage models.StorageInfo
	for _, dir := range []struct {
		path string
		size *int64
	}{
		{paths.Sources, &storage.Sources},
		{paths.Outputs, &storage.Outputs},
		{paths.Thumbnails, &storage.Thumbnails},
		{paths.Base, &storage.Total},
	} {
		if *dir.size, err = m.deps.Store.GetDiskUsage(dir.path); err != nil {
			return nil, err
		}
	}

	return &models.VaultStatus{
		Sources:  len(sources),
		Projects: len(projects),
		Outputs:  len(outputs),
		Cache:    cacheInfo,
		Storage:  storage,
	}, nil
}
