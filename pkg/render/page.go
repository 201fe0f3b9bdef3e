package render

import (
	"context"
	"os"

	"pagevault/pkg/pdf"
)

// PageRasterizer stores the requested page as a single-page PDF. It needs
// no external binary, so it serves hosts without poppler installed.
type PageRasterizer struct{}

// Rasterize extracts the page with pdfcpu.
func (PageRasterizer) Rasterize(ctx context.Context, req Request) ([]byte, string, error) {
	//nolint:gosec // managed source path
	data, err := os.ReadFile(req.SourcePath)
	if err != nil {
		return nil, "", err
	}
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	count, err := pdf.PageCountBytes(data)
	if err != nil {
		return nil, "", err
	}

	page, err := pdf.ExtractPage(data, req.Page, count)
	if err != nil {
		return nil, "", err
	}
	return page, "pdf", nil
}
