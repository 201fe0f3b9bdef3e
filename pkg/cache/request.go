package cache

import (
	"context"

	"pagevault/pkg/log"
	"pagevault/pkg/render"
)

// RequestDerivedAsset hands the job to the renderer and returns at once.
// The bytes arrive later through CommitDerivedAsset.
func (m *Manager) RequestDerivedAsset(ctx context.Context, sourceID, sourcePath string, spec Spec) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := m.entryDir(sourceID); err != nil {
		return err
	}

	err := m.renderer.RequestRender(render.Request{
		SourceID:   sourceID,
		SourcePath: sourcePath,
		Page:       spec.Page,
		Width:      spec.Width,
		Height:     spec.Height,
	})
	if err != nil {
		log.Warn().Err(err).Str("source_id", sourceID).Msg("Derived asset request not accepted")
		return err
	}

	log.Debug().Str("source_id", sourceID).Int("page", spec.Page).Msg("Derived asset requested")
	return nil
}
