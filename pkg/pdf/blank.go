package pdf

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"pagevault/pkg/models"
)

// Page sizes in points.
var (
	A4     = Dim{Width: 595.28, Height: 841.89}
	Letter = Dim{Width: 612, Height: 792}
)

// SizeOf maps a page size to its dimensions, A4 for anything unknown.
func SizeOf(size models.PageSize) Dim {
	if size == models.PageSizeLetter {
		return Letter
	}
	return A4
}

// Blank writes a document with one empty page per size, in order. With no
// sizes it returns a valid document with zero pages.
func Blank(sizes ...models.PageSize) []byte {
	// Object 1 is the catalog, 2 the page tree, 3.. the pages.
	objects := make([]string, 0, len(sizes)+2)
	kids := make([]string, len(sizes))
	for i := range sizes {
		kids[i] = strconv.Itoa(i+3) + " 0 R"
	}

	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(sizes)),
	)
	for _, size := range sizes {
		dim := SizeOf(size)
		objects = append(objects, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %s %s] /Resources << >> >>",
			formatPoints(dim.Width), formatPoints(dim.Height),
		))
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n")

	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	// Each xref entry is exactly 20 bytes including the two-byte EOL.
	buf.WriteString("0000000000 65535 f\r\n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n\r\n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	return buf.Bytes()
}

func formatPoints(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
