package disk

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"

	"pagevault/pkg/log"
	"pagevault/pkg/store"
)

// ComputeChecksum streams the file through SHA-256 in fixed-size chunks.
func (s *Store) ComputeChecksum(ctx context.Context, path string) (string, error) {
	//nolint:gosec // path is an import candidate chosen by the user
	file, err := os.Open(path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("Failed to open file for checksum")
		return "", store.IOError{Op: "open", Path: path, Err: err}
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.Error().Err(err).Str("path", path).Msg("Failed to close file after checksum")
		}
	}()

	hasher := sha256.New()
	if _, err := io.CopyBuffer(hasher, ctxReader{ctx: ctx, r: file}, make([]byte, chunkSize)); err != nil {
		log.Error().Err(err).Str("path", path).Msg("Failed to read file for checksum")
		return "", store.IOError{Op: "read", Path: path, Err: err}
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
