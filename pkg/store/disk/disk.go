package disk

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/Bios-Marcel/wastebasket/v2"

	"pagevault/pkg/log"
	"pagevault/pkg/store"
)

const (
	dirPerm        = 0750
	filePerm       = 0640
	chunkSize      = 64 * 1024 // Checksum and copy buffer size
	defaultExt     = ".pdf"
	tempPattern    = ".incoming-*"
	commandTimeout = 10 * time.Second // Timeout for the file explorer command

	sourcesDirName    = "sources"
	outputsDirName    = "outputs"
	thumbnailsDirName = "thumbnails"
	databaseFileName  = "app.db"
)

// TrashFunc moves files into a recoverable location outside the store.
type TrashFunc func(paths ...string) error

// Option configures a Store.
type Option func(*Store)

// WithTrash replaces the system trash, which is the default.
func WithTrash(trash TrashFunc) Option {
	return func(s *Store) {
		s.trash = trash
	}
}

// Store implements store.ContentStore on the local filesystem.
type Store struct {
	paths store.Paths
	trash TrashFunc
}

// New creates a disk store rooted at baseDir. Call Init before use.
func New(baseDir string, opts ...Option) *Store {
	s := &Store{
		paths: store.Paths{
			Base:       baseDir,
			Sources:    filepath.Join(baseDir, sourcesDirName),
			Outputs:    filepath.Join(baseDir, outputsDirName),
			Thumbnails: filepath.Join(baseDir, thumbnailsDirName),
			Database:   filepath.Join(baseDir, databaseFileName),
		},
		trash: wastebasket.Trash,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Paths returns the managed directory layout.
func (s *Store) Paths() store.Paths {
	return s.paths
}

// Init creates the managed directory structure.
func (s *Store) Init() error {
	for _, dir := range []string{s.paths.Base, s.paths.Sources, s.paths.Outputs, s.paths.Thumbnails} {
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			log.Error().Err(err).Str("dir", dir).Msg("Failed to create storage directory")
			return store.IOError{Op: "mkdir", Path: dir, Err: err}
		}
	}

	log.Debug().Str("base_dir", s.paths.Base).Msg("Storage directories ready")
	return nil
}

// ctxReader fails reads once the context is done so long copies honour timeouts.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

// WriteAtomic streams src into a temp file inside dir and renames it to target.
// The target never exists in a partially written state.
func WriteAtomic(ctx context.Context, dir, target string, src io.Reader) (int64, error) {
	tmp, err := os.CreateTemp(dir, tempPattern)
	if err != nil {
		return 0, err
	}
	tmpName := tmp.Name()

	cleanup := func() {
		if err := os.Remove(tmpName); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Error().Err(err).Str("temp_file", tmpName).Msg("Failed to remove temporary file")
		}
	}

	written, err := io.CopyBuffer(tmp, ctxReader{ctx: ctx, r: src}, make([]byte, chunkSize))
	if err != nil {
		_ = tmp.Close()
		cleanup()
		return 0, err
	}

	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return 0, err
	}

	if err := tmp.Close(); err != nil {
		cleanup()
		return 0, err
	}

	if err := os.Chmod(tmpName, filePerm); err != nil {
		cleanup()
		return 0, err
	}

	if err := os.Rename(tmpName, target); err != nil {
		cleanup()
		return 0, err
	}

	return written, nil
}
