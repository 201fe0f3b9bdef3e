package records

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pagevault/pkg/models"
)

func scanProject(row rowScanner) (*models.ProjectState, error) {
	project := &models.ProjectState{}
	var stateJSON string
	if err := row.Scan(&project.ID, &project.Name, &stateJSON, &project.CreatedAt, &project.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(stateJSON), &project.State); err != nil {
		return nil, fmt.Errorf("%w: failed to parse project state: %w", ErrDatabaseError, err)
	}
	if project.State == nil {
		project.State = models.PageAssets{}
	}
	return project, nil
}

// CreateProject stores a new project with an empty page list.
func (s *Store) CreateProject(ctx context.Context, name string) (*models.ProjectState, error) {
	if err := models.ValidateProjectName(name); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	project := &models.ProjectState{
		ID:        models.NewID(),
		Name:      name,
		State:     models.PageAssets{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO projects (id, name, state, created_at, updated_at) VALUES (?, ?, '[]', ?, ?)`,
		project.ID, project.Name, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}

	return project, nil
}

// GetProject retrieves a project with its page list.
func (s *Store) GetProject(ctx context.Context, id string) (*models.ProjectState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	project, err := scanProject(s.db.QueryRowContext(ctx,
		`SELECT id, name, state, created_at, updated_at FROM projects WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		if errors.Is(err, ErrDatabaseError) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}
	return project, nil
}

// ListProjects returns every project, most recently updated first.
func (s *Store) ListProjects(ctx context.Context) ([]models.ProjectState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, state, created_at, updated_at FROM projects ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}
	defer func() { _ = rows.Close() }()

	var projects []models.ProjectState
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			if errors.Is(err, ErrDatabaseError) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %w", ErrDatabaseError, err)
		}
		projects = append(projects, *project)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}

	return projects, nil
}

// SaveProjectState replaces the whole page list of a project.
func (s *Store) SaveProjectState(ctx context.Context, id string, assets models.PageAssets) error {
	if err := models.ValidatePageAssets(assets); err != nil {
		return err
	}
	if assets == nil {
		assets = models.PageAssets{}
	}

	stateJSON, err := json.Marshal(assets)
	if err != nil {
		return fmt.Errorf("%w: failed to serialize project state: %w", ErrDatabaseError, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx,
		`UPDATE projects SET state = ?, updated_at = ? WHERE id = ?`,
		string(stateJSON), time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}

	if rowsAffected == 0 {
		return ErrProjectNotFound
	}

	return nil
}

// DeleteProject removes a project. Its outputs keep existing with no project.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}

	if rowsAffected == 0 {
		return ErrProjectNotFound
	}

	return nil
}
