package disk

import (
	"bytes"
	"context"
	"io"
	"os"

	"pagevault/pkg/log"
	"pagevault/pkg/store"
)

// ReadDocument reads a stored document, honouring ctx between chunks.
func (s *Store) ReadDocument(ctx context.Context, path string) ([]byte, error) {
	//nolint:gosec // path comes from a source record
	file, err := os.Open(path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("Failed to open document")
		return nil, store.IOError{Op: "open", Path: path, Err: err}
	}
	defer func() { _ = file.Close() }()

	var buf bytes.Buffer
	if info, err := file.Stat(); err == nil {
		buf.Grow(int(info.Size()))
	}
	if _, err := io.CopyBuffer(&buf, ctxReader{ctx: ctx, r: file}, make([]byte, chunkSize)); err != nil {
		return nil, store.IOError{Op: "read", Path: path, Err: err}
	}
	return buf.Bytes(), nil
}
