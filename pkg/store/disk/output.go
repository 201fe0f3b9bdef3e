package disk

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pagevault/pkg/log"
	"pagevault/pkg/store"
)

// SaveOutput writes data to outputs/{fileName}. Callers pick unique,
// timestamp-qualified names; an existing file is never overwritten.
func (s *Store) SaveOutput(ctx context.Context, data []byte, fileName string) (string, error) {
	if fileName == "" || fileName != filepath.Base(fileName) || strings.HasPrefix(fileName, ".") {
		return "", store.IOError{Op: "write", Path: fileName, Err: fmt.Errorf("invalid output file name %q", fileName)}
	}

	outputPath := filepath.Join(s.paths.Outputs, fileName)
	if _, err := os.Stat(outputPath); err == nil {
		return "", store.IOError{Op: "write", Path: outputPath, Err: os.ErrExist}
	}

	if err := os.MkdirAll(s.paths.Outputs, dirPerm); err != nil {
		return "", store.IOError{Op: "mkdir", Path: s.paths.Outputs, Err: err}
	}

	if _, err := WriteAtomic(ctx, s.paths.Outputs, outputPath, bytes.NewReader(data)); err != nil {
		log.Error().Err(err).Str("output_path", outputPath).Msg("Failed to save output")
		return "", store.IOError{Op: "write", Path: outputPath, Err: err}
	}

	log.Info().Str("output_path", outputPath).Int("bytes", len(data)).Msg("Output saved")
	return outputPath, nil
}
