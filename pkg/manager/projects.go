package manager

import (
	"context"

	"pagevault/pkg/log"
	"pagevault/pkg/models"
)

// CreateProject stores a new empty project.
func (m *Manager) CreateProject(ctx context.Context, name string) (*models.ProjectState, error) {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	project, err := m.deps.Records.CreateProject(ctx, name)
	if err != nil {
		return nil, err
	}

	log.Info().Str("project_id", project.ID).Str("name", name).Msg("Project created")
	return project, nil
}

// GetProject loads a project with its page list.
func (m *Manager) GetProject(ctx context.Context, id string) (*models.ProjectState, error) {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()
	return m.deps.Records.GetProject(ctx, id)
}

// ListProjects returns every project.
func (m *Manager) ListProjects(ctx context.Context) ([]models.ProjectState, error) {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()
	return m.deps.Records.ListProjects(ctx)
}

// UpdateProjectState replaces the page list and returns the saved project.
// References are not resolved here; a missing source fails at export.
func (m *Manager) UpdateProjectState(ctx context.Context, id string, assets models.PageAssets) (*models.ProjectState, error) {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	if err := m.deps.Records.SaveProjectState(ctx, id, assets); err != nil {
		return nil, err
	}

	log.Debug().Str("project_id", id).Int("pages", len(assets)).Msg("Project state saved")
	return m.deps.Records.GetProject(ctx, id)
}

// DeleteProject removes a project. Its exported files stay on disk.
func (m *Manager) DeleteProject(ctx context.Context, id string) error {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	if err := m.deps.Records.DeleteProject(ctx, id); err != nil {
		return err
	}

	log.Info().Str("project_id", id).Msg("Project deleted")
	return nil
}
