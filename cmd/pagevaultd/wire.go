package main

import (
	"fmt"

	"pagevault/pkg/assembler"
	"pagevault/pkg/cache"
	"pagevault/pkg/config"
	"pagevault/pkg/importer"
	"pagevault/pkg/log"
	"pagevault/pkg/manager"
	"pagevault/pkg/pdf"
	"pagevault/pkg/records"
	"pagevault/pkg/render"
	"pagevault/pkg/store/disk"
)

// buildManager wires the dependency graph once. The returned func closes
// the record store.
func buildManager(cfg *config.Config) (*manager.Manager, func(), error) {
	store := disk.New(cfg.BaseDir)
	if err := store.Init(); err != nil {
		return nil, nil, err
	}
	paths := store.Paths()

	recs, err := records.NewStore(paths.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("open records %s: %w", paths.Database, err)
	}

	pool := render.NewPool(rasterizerFor(cfg), render.PoolOptions{
		Workers: cfg.Render.Workers,
		Queue:   cfg.Render.Queue,
		Timeout: cfg.Render.Timeout,
	})
	assets := cache.New(paths.Thumbnails, cfg.CacheLimitBytes(), pool)

	imp := importer.New(store, recs, pdf.PageCount, assets, importer.Options{
		MaxFileSize: cfg.MaxImportBytes(),
		FileTimeout: cfg.OperationTimeout,
		Thumbnail:   cache.Spec{Width: cfg.Thumbnail.Width, Height: cfg.Thumbnail.Height},
	})

	mgr := manager.New(manager.Deps{
		Store:            store,
		Records:          recs,
		Cache:            assets,
		Pool:             pool,
		Importer:         imp,
		Assembler:        assembler.New(recs, store),
		OperationTimeout: cfg.OperationTimeout,
	})

	log.Info().
		Str("base_dir", paths.Base).
		Str("rasterizer", cfg.Render.Rasterizer).
		Int("cache_limit_mb", cfg.CacheLimitMB).
		Msg("Dependencies ready")

	closeDeps := func() {
		if err := recs.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close record store")
		}
	}
	return mgr, closeDeps, nil
}

func rasterizerFor(cfg *config.Config) render.Rasterizer {
	if cfg.Render.Rasterizer == config.RasterizerPdfcpu {
		return render.PageRasterizer{}
	}
	return render.CommandRasterizer{Binary: cfg.Render.Binary}
}
