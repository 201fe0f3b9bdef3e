package records

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pagevault/pkg/models"
)

func scanOutput(row rowScanner) (*models.OutputRecord, error) {
	output := &models.OutputRecord{}
	var projectID sql.NullString
	if err := row.Scan(&output.ID, &projectID, &output.FileName, &output.FilePath, &output.CreatedAt); err != nil {
		return nil, err
	}
	if projectID.Valid {
		output.ProjectID = projectID.String
	}
	return output, nil
}

// InsertOutput records a written output document.
func (s *Store) InsertOutput(ctx context.Context, output *models.OutputRecord) error {
	if output.ID == "" {
		output.ID = models.NewID()
	}
	if output.CreatedAt.IsZero() {
		output.CreatedAt = time.Now().UTC()
	}

	var projectID sql.NullString
	if output.ProjectID != "" {
		projectID = sql.NullString{String: output.ProjectID, Valid: true}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO outputs (id, project_id, file_name, file_path, created_at) VALUES (?, ?, ?, ?, ?)`,
		output.ID, projectID, output.FileName, output.FilePath, output.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}
	return nil
}

// ListOutputs returns outputs newest first. A non-empty projectID filters
// to that project.
func (s *Store) ListOutputs(ctx context.Context, projectID string) ([]models.OutputRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, project_id, file_name, file_path, created_at FROM outputs`
	var args []any
	if projectID != "" {
		query += ` WHERE project_id = ?`
		args = append(args, projectID)
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}
	defer func() { _ = rows.Close() }()

	var outputs []models.OutputRecord
	for rows.Next() {
		output, err := scanOutput(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDatabaseError, err)
		}
		outputs = append(outputs, *output)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}

	return outputs, nil
}

// DeleteOutputByPath drops the record for a file that was removed from disk.
func (s *Store) DeleteOutputByPath(ctx context.Context, filePath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `DELETE FROM outputs WHERE file_path = ?`, filePath)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}

	if rowsAffected == 0 {
		return ErrOutputNotFound
	}

	return nil
}
