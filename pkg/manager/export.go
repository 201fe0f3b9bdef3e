package manager

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode"

	"pagevault/pkg/log"
	"pagevault/pkg/models"
)

const (
	exportTimeFormat   = "2006-01-02T15-04-05"
	exportExt          = ".pdf"
	maxExportAttempts  = 100
	defaultExportName  = "export"
	maxExportNameRunes = 100
)

// ExportProject assembles a project into outputs/{name}_{timestamp}.pdf and
// records it. A nil assets list exports the stored page list; an empty name
// uses the project name. A failed assembly writes nothing.
func (m *Manager) ExportProject(ctx context.Context, id, name string, assets models.PageAssets) (*models.OutputRecord, error) {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	project, err := m.deps.Records.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if assets == nil {
		assets = project.State
	} else if err := models.ValidatePageAssets(assets); err != nil {
		return nil, err
	}
	if name == "" {
		name = project.Name
	}

	result, err := m.deps.Assembler.Assemble(ctx, assets, name)
	if err != nil {
		log.Warn().Err(err).Str("project_id", id).Msg("Export assembly failed")
		return nil, err
	}

	path, fileName, err := m.save(ctx, result.Data, exportBaseName(name, m.now()))
	if err != nil {
		return nil, err
	}

	record := &models.OutputRecord{ProjectID: id, FileName: fileName, FilePath: path}
	if err := m.deps.Records.InsertOutput(ctx, record); err != nil {
		log.Error().Err(err).Str("project_id", id).Str("path", path).Msg("Failed to record output")
		if removeErr := os.Remove(path); removeErr != nil {
			log.Warn().Err(removeErr).Str("path", path).Msg("Failed to remove unrecorded output")
		}
		return nil, err
	}

	log.Info().Str("project_id", id).Str("path", path).Int("pages", result.PageCount).Msg("Project exported")
	return record, nil
}

// save writes data under base.pdf, or base-N.pdf if that name is taken.
func (m *Manager) save(ctx context.Context, data []byte, base string) (path, fileName string, err error) {
	for attempt := 1; attempt <= maxExportAttempts; attempt++ {
		fileName = base + exportExt
		if attempt > 1 {
			fileName = fmt.Sprintf("%s-%d%s", base, attempt, exportExt)
		}

		path, err = m.deps.Store.SaveOutput(ctx, data, fileName)
		if !errors.Is(err, os.ErrExist) {
			return path, fileName, err
		}
	}
	return "", "", err
}

// exportBaseName builds "{name}_{timestamp}" with the name reduced to
// characters that are safe in a file name on every platform.
func exportBaseName(name string, at time.Time) string {
	var b strings.Builder
	runes := 0
	for _, r := range strings.TrimSpace(name) {
		if runes == maxExportNameRunes {
			break
		}
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ', r == '.':
			b.WriteRune('_')
		default:
			continue
		}
		runes++
	}

	safe := strings.Trim(b.String(), "_")
	if safe == "" {
		safe = defaultExportName
	}
	return safe + "_" + at.Format(exportTimeFormat)
}
