// Package pdf wraps the pdfcpu operations the document pipeline needs:
// structural inspection, single-page extraction and merging.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

var (
	// ErrInvalidDocument is returned when bytes cannot be parsed as a PDF.
	ErrInvalidDocument = errors.New("invalid pdf document")
	// ErrPageOutOfRange is returned when a zero-based page index is not in the document.
	ErrPageOutOfRange = errors.New("page index out of range")
)

func init() {
	// Keep pdfcpu from writing its config tree into the user's config dir.
	api.DisableConfigDir()
}

// Dim is a page size in PDF points.
type Dim struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func newConfig() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// PageCount opens the file at path and returns its page count. pdfcpu takes
// no context, so a done ctx abandons the parse and returns ctx.Err().
func PageCount(ctx context.Context, path string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	type result struct {
		count int
		err   error
	}
	done := make(chan result, 1)
	go func() {
		count, err := pageCountFile(path)
		done <- result{count: count, err: err}
	}()

	select {
	case r := <-done:
		return r.count, r.err
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

func pageCountFile(path string) (int, error) {
	//nolint:gosec // path is a managed source file
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer func() { _ = file.Close() }()

	return pageCount(file)
}

// PageCountBytes returns the page count of an in-memory document.
func PageCountBytes(data []byte) (int, error) {
	return pageCount(bytes.NewReader(data))
}

func pageCount(rs io.ReadSeeker) (int, error) {
	ctx, err := api.ReadValidateAndOptimize(rs, newConfig())
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return ctx.PageCount, nil
}

// PageDims returns the media box size of every page in order.
func PageDims(data []byte) ([]Dim, error) {
	dims, err := api.PageDims(bytes.NewReader(data), newConfig())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return toDims(dims), nil
}

func toDims(dims []types.Dim) []Dim {
	out := make([]Dim, len(dims))
	for i, d := range dims {
		out[i] = Dim{Width: d.Width, Height: d.Height}
	}
	return out
}
