package models

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

// PageAssetTestSuite tests the page asset union and validation helpers
type PageAssetTestSuite struct {
	suite.Suite
	sourceID string
}

func (s *PageAssetTestSuite) SetupTest() {
	s.sourceID = NewID()
}

type recordingVisitor struct {
	kinds []string
}

func (r *recordingVisitor) VisitSourcePage(position int, ref SourcePageRef) error {
	r.kinds = append(r.kinds, "source")
	return nil
}

func (r *recordingVisitor) VisitBlankPage(position int, blank BlankPage) error {
	r.kinds = append(r.kinds, "blank:"+string(blank.Size()))
	return nil
}

// TestWalkPreservesOrder tests that assets are visited in list order
func (s *PageAssetTestSuite) TestWalkPreservesOrder() {
	assets := PageAssets{
		SourcePageRef{SourceID: s.sourceID, PageIndex: 0},
		BlankPage{},
		BlankPage{PageSize: PageSizeLetter},
		SourcePageRef{SourceID: s.sourceID, PageIndex: 1},
	}

	v := &recordingVisitor{}
	s.Require().NoError(assets.Walk(v))
	s.Equal([]string{"source", "blank:A4", "blank:Letter", "source"}, v.kinds)
}

// TestWalkNilAsset tests that a nil entry is a validation error
func (s *PageAssetTestSuite) TestWalkNilAsset() {
	err := PageAssets{nil}.Walk(&recordingVisitor{})
	var validationErr ValidationError
	s.True(errors.As(err, &validationErr))
}

// TestJSONWireFormat tests the tagged union encoding
func (s *PageAssetTestSuite) TestJSONWireFormat() {
	assets := PageAssets{
		SourcePageRef{SourceID: s.sourceID, PageIndex: 0},
		BlankPage{},
	}

	data, err := json.Marshal(assets)
	s.Require().NoError(err)
	s.Contains(string(data), `"type":"sourcePage"`)
	s.Contains(string(data), `"pageIndex":0`)
	s.Contains(string(data), `"type":"blankPage"`)
	s.Contains(string(data), `"pageSize":"A4"`)

	var decoded PageAssets
	s.Require().NoError(json.Unmarshal(data, &decoded))
	s.Equal(assets[0], decoded[0])
	s.Equal(BlankPage{PageSize: PageSizeA4}, decoded[1])
}

// TestUnmarshalDefaultsPageSize tests that a blank page without size is A4
func (s *PageAssetTestSuite) TestUnmarshalDefaultsPageSize() {
	var decoded PageAssets
	s.Require().NoError(json.Unmarshal([]byte(`[{"type":"blankPage"}]`), &decoded))
	s.Require().Len(decoded, 1)
	s.Equal(BlankPage{PageSize: PageSizeA4}, decoded[0])
}

// TestUnmarshalRejectsMalformed tests malformed union members
func (s *PageAssetTestSuite) TestUnmarshalRejectsMalformed() {
	cases := []struct {
		name  string
		input string
		field string
	}{
		{"unknown_type", `[{"type":"imagePage"}]`, "assets[0].type"},
		{"missing_page_index", `[{"type":"sourcePage","sourceId":"x"}]`, "assets[0].pageIndex"},
		{"not_an_array", `{"type":"blankPage"}`, "assets"},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			var decoded PageAssets
			err := json.Unmarshal([]byte(tc.input), &decoded)
			var validationErr ValidationError
			s.Require().True(errors.As(err, &validationErr), "got %v", err)
			s.Equal(tc.field, validationErr.Field)
		})
	}
}

// TestValidatePageAssets tests shape validation
func (s *PageAssetTestSuite) TestValidatePageAssets() {
	cases := []struct {
		name   string
		assets PageAssets
		valid  bool
	}{
		{"empty", PageAssets{}, true},
		{"source_and_blank", PageAssets{SourcePageRef{SourceID: s.sourceID}, BlankPage{PageSize: PageSizeLetter}}, true},
		{"bad_source_id", PageAssets{SourcePageRef{SourceID: "not-a-uuid"}}, false},
		{"negative_index", PageAssets{SourcePageRef{SourceID: s.sourceID, PageIndex: -1}}, false},
		{"bad_page_size", PageAssets{BlankPage{PageSize: "A3"}}, false},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			err := ValidatePageAssets(tc.assets)
			if tc.valid {
				s.NoError(err)
			} else {
				s.Error(err)
				s.IsType(ValidationError{}, err)
			}
		})
	}
}

// TestValidateProjectName tests the name length rule
func (s *PageAssetTestSuite) TestValidateProjectName() {
	s.Error(ValidateProjectName(""))
	s.NoError(ValidateProjectName("a"))
	s.NoError(ValidateProjectName(strings.Repeat("ž", 100)))
	s.Error(ValidateProjectName(strings.Repeat("a", 101)))
}

// TestNewID tests generated ids are unique UUIDs
func (s *PageAssetTestSuite) TestNewID() {
	a, b := NewID(), NewID()
	s.NotEqual(a, b)
	s.NoError(ValidateID("id", a))
	s.Error(ValidateID("id", "nope"))
}

func TestPageAssetSuite(t *testing.T) {
	suite.Run(t, new(PageAssetTestSuite))
}
