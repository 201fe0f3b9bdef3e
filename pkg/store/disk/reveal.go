package disk

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"pagevault/pkg/log"
	"pagevault/pkg/store"
)

// revealCommand builds the platform command that shows path in a file manager.
func revealCommand(ctx context.Context, goos, path string) *exec.Cmd {
	switch goos {
	case "darwin":
		return exec.CommandContext(ctx, "open", "-R", path)
	case "windows":
		return exec.CommandContext(ctx, "explorer", "/select,", path)
	default:
		// xdg-open cannot select a file, so open its folder.
		return exec.CommandContext(ctx, "xdg-open", filepath.Dir(path))
	}
}

// RevealInFileExplorer opens the folder containing path. A missing path is
// ignored.
func (s *Store) RevealInFileExplorer(ctx context.Context, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		log.Debug().Str("path", path).Msg("Reveal skipped, path does not exist")
		return nil
	} else if err != nil {
		return store.IOError{Op: "stat", Path: path, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	//nolint:gosec // path was checked to exist and is passed as a single argument
	cmd := revealCommand(ctx, runtime.GOOS, path)
	if err := cmd.Run(); err != nil {
		// explorer.exe exits 1 even when it opened the window.
		var exitErr *exec.ExitError
		if runtime.GOOS == "windows" && errors.As(err, &exitErr) {
			return nil
		}
		log.Error().Err(err).Str("path", path).Msg("Failed to open file explorer")
		return store.IOError{Op: "reveal", Path: path, Err: err}
	}

	return nil
}
