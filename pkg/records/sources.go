package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pagevault/pkg/models"
)

const sourceColumns = `id, original_file_name, original_path, internal_path, page_count, file_size, checksum, imported_at`

func scanSource(row rowScanner) (*models.SourceDocument, error) {
	doc := &models.SourceDocument{}
	err := row.Scan(&doc.ID, &doc.OriginalFileName, &doc.OriginalPath, &doc.InternalPath,
		&doc.PageCount, &doc.FileSizeBytes, &doc.Checksum, &doc.ImportedAt)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// GetByChecksum returns the source holding the given content, or
// ErrSourceNotFound.
func (s *Store) GetByChecksum(ctx context.Context, checksum string) (*models.SourceDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, err := scanSource(s.db.QueryRowContext(ctx,
		`SELECT `+sourceColumns+` FROM sources WHERE checksum = ?`, checksum))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSourceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}
	return doc, nil
}

// GetSource retrieves a source by id.
func (s *Store) GetSource(ctx context.Context, id string) (*models.SourceDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, err := scanSource(s.db.QueryRowContext(ctx,
		`SELECT `+sourceColumns+` FROM sources WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSourceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}
	return doc, nil
}

// GetSourceByPath returns the source stored at internalPath, or
// ErrSourceNotFound.
func (s *Store) GetSourceByPath(ctx context.Context, internalPath string) (*models.SourceDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, err := scanSource(s.db.QueryRowContext(ctx,
		`SELECT `+sourceColumns+` FROM sources WHERE internal_path = ?`, internalPath))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSourceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}
	return doc, nil
}

// ListSources returns every source, oldest import first.
func (s *Store) ListSources(ctx context.Context) ([]models.SourceDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT `+sourceColumns+` FROM sources ORDER BY imported_at, id`)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}
	defer func() { _ = rows.Close() }()

	var docs []models.SourceDocument
	for rows.Next() {
		doc, err := scanSource(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDatabaseError, err)
		}
		docs = append(docs, *doc)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}

	return docs, nil
}

// InsertSource stores a new source. A checksum already on record yields
// ErrDuplicateChecksum, which callers treat as the dedup signal.
func (s *Store) InsertSource(ctx context.Context, doc *models.SourceDocument) error {
	if len(doc.Checksum) != checksumLength {
		return ErrInvalidChecksum
	}
	if doc.ImportedAt.IsZero() {
		doc.ImportedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sources (`+sourceColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.OriginalFileName, doc.OriginalPath, doc.InternalPath,
		doc.PageCount, doc.FileSizeBytes, doc.Checksum, doc.ImportedAt,
	)
	if err != nil {
		if column, ok := uniqueViolation(err); ok {
			if column == "sources.checksum" {
				return ErrDuplicateChecksum
			}
			return ErrSourceExists
		}
		return fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}

	return nil
}

// DeleteSource removes a source record. The backing file is the caller's.
func (s *Store) DeleteSource(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `DELETE FROM sources WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}

	if rowsAffected == 0 {
		return ErrSourceNotFound
	}

	return nil
}
