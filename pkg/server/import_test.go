package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"

	"pagevault/pkg/models"
)

// ImportTestSuite tests the import handler
type ImportTestSuite struct {
	handlerSuite
}

// TestImportReportsEveryPath tests per-file outcomes in request order
func (s *ImportTestSuite) TestImportReportsEveryPath() {
	paths := []string{"/docs/a.pdf", "/docs/notes.txt", "/docs/b.pdf"}

	rec := s.do(http.MethodPost, "/import", map[string][]string{"paths": paths})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var resp importResponse
	s.decode(rec, &resp)
	s.Require().Len(resp.Outcomes, 3)
	s.Equal(2, resp.Imported)
	for i, path := range paths {
		s.Equal(path, resp.Outcomes[i].Path)
	}
	s.Equal(models.ImportStatusFailed, resp.Outcomes[1].Status)
	s.Equal("not a pdf", resp.Outcomes[1].Reason)
	s.Equal([][]string{paths}, s.service.imported)
}

// TestImportInvalidRequest tests bodies that never reach the service
func (s *ImportTestSuite) TestImportInvalidRequest() {
	testCases := []struct {
		name string
		body any
	}{
		{"no paths", map[string][]string{"paths": {}}},
		{"empty body", nil},
		{"wrong type", `{"paths":"a.pdf"}`},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			rec := s.do(http.MethodPost, "/import", tc.body)
			s.Equal(http.StatusBadRequest, rec.Code)
		})
	}
	s.Empty(s.service.imported)
}

func TestImportSuite(t *testing.T) {
	suite.Run(t, new(ImportTestSuite))
}
