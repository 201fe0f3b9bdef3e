package render

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"pagevault/pkg/log"
)

const defaultBinary = "pdftoppm"

// CommandRasterizer renders JPEG previews with poppler's pdftoppm.
type CommandRasterizer struct {
	Binary  string // defaults to pdftoppm on PATH
	TempDir string // defaults to os.TempDir()
}

func (c CommandRasterizer) args(req Request, outPrefix string) []string {
	page := strconv.Itoa(req.Page + 1)
	return []string{
		"-jpeg", "-singlefile",
		"-f", page, "-l", page,
		"-scale-to-x", strconv.Itoa(req.Width),
		"-scale-to-y", strconv.Itoa(req.Height),
		req.SourcePath, outPrefix,
	}
}

// Rasterize runs pdftoppm for a single page and returns the JPEG bytes.
func (c CommandRasterizer) Rasterize(ctx context.Context, req Request) ([]byte, string, error) {
	binary := c.Binary
	if binary == "" {
		binary = defaultBinary
	}

	workDir, err := os.MkdirTemp(c.TempDir, "render-*")
	if err != nil {
		return nil, "", err
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			log.Warn().Err(err).Str("dir", workDir).Msg("Failed to remove render work dir")
		}
	}()

	outPrefix := filepath.Join(workDir, "page")

	var stderr bytes.Buffer
	//nolint:gosec // binary comes from configuration, arguments are not shell-expanded
	cmd := exec.CommandContext(ctx, binary, c.args(req, outPrefix)...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, "", ctx.Err()
		}
		return nil, "", fmt.Errorf("%s failed: %w: %s", binary, err, bytes.TrimSpace(stderr.Bytes()))
	}

	//nolint:gosec // path is inside our own temp dir
	data, err := os.ReadFile(outPrefix + ".jpg")
	if err != nil {
		return nil, "", err
	}
	return data, "jpg", nil
}
