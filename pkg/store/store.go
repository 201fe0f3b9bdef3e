package store

import (
	"context"
	"fmt"
)

// Paths is the managed directory layout under one base directory.
type Paths struct {
	Base       string `json:"base"`
	Sources    string `json:"sources"`
	Outputs    string `json:"outputs"`
	Thumbnails string `json:"thumbnails"`
	Database   string `json:"database"`
}

// ContentStore defines the operations on managed document bytes.
type ContentStore interface {
	// Init creates the managed directories if they are missing.
	Init() error

	// Paths returns the directory layout.
	Paths() Paths

	// ComputeChecksum streams the file through SHA-256 and returns the hex digest.
	ComputeChecksum(ctx context.Context, path string) (string, error)

	// ImportDocument copies path into the sources directory under newID and
	// returns the internal path. No file is left behind on failure.
	ImportDocument(ctx context.Context, path, newID string) (string, error)

	// ReadDocument loads a stored document into memory.
	ReadDocument(ctx context.Context, path string) ([]byte, error)

	// GetDiskUsage recursively sums file sizes. A missing directory is 0.
	GetDiskUsage(directory string) (int64, error)

	// DeleteDocument moves path to the system trash. A missing path is a no-op.
	DeleteDocument(path string) error

	// DiscardDocument permanently removes a file under the sources directory.
	// It undoes an ImportDocument whose record was never written.
	DiscardDocument(path string) error

	// SaveOutput writes data into the outputs directory as fileName.
	SaveOutput(ctx context.Context, data []byte, fileName string) (string, error)
}

// IOError is returned when a copy, read, write or mkdir fails.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e IOError) Unwrap() error {
	return e.Err
}
