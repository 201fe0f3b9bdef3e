package pdf

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Merge concatenates parts in order into one document. No parts yields an
// empty document with zero pages. A single part is returned as is.
func Merge(parts [][]byte) ([]byte, error) {
	switch len(parts) {
	case 0:
		return Blank(), nil
	case 1:
		return parts[0], nil
	}

	readers := make([]io.ReadSeeker, len(parts))
	for i, part := range parts {
		readers[i] = bytes.NewReader(part)
	}

	var out bytes.Buffer
	if err := api.MergeRaw(readers, &out, false, newConfig()); err != nil {
		return nil, fmt.Errorf("merge %d parts: %w", len(parts), err)
	}
	return out.Bytes(), nil
}
