package pdf

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// ExtractPage returns a single-page document holding page index (zero-based)
// of data. pageCount is the caller's known count for the range check.
func ExtractPage(data []byte, index, pageCount int) ([]byte, error) {
	if index < 0 || index >= pageCount {
		return nil, fmt.Errorf("%w: index %d, document has %d pages", ErrPageOutOfRange, index, pageCount)
	}

	var out bytes.Buffer
	selected := []string{strconv.Itoa(index + 1)}
	if err := api.Trim(bytes.NewReader(data), &out, selected, newConfig()); err != nil {
		return nil, fmt.Errorf("extract page %d: %w", index, err)
	}
	return out.Bytes(), nil
}
