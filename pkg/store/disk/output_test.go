package disk

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"pagevault/pkg/store"
)

// OutputTestSuite tests SaveOutput and RevealInFileExplorer
type OutputTestSuite struct {
	suite.Suite
	tempDir string
	store   *Store
}

// SetupTest runs before each test
func (s *OutputTestSuite) SetupTest() {
	var err error
	s.tempDir, err = os.MkdirTemp("", "output-test-*")
	s.Require().NoError(err)
	s.store = New(filepath.Join(s.tempDir, "base"))
	s.Require().NoError(s.store.Init())
}

// TearDownTest runs after each test
func (s *OutputTestSuite) TearDownTest() {
	os.RemoveAll(s.tempDir)
}

// TestSaveOutput tests bytes land in outputs/
func (s *OutputTestSuite) TestSaveOutput() {
	path, err := s.store.SaveOutput(context.Background(), []byte("%PDF-1.7"), "merged_2026-10-19T12-00-00.pdf")
	s.Require().NoError(err)
	s.Equal(filepath.Join(s.store.Paths().Outputs, "merged_2026-10-19T12-00-00.pdf"), path)

	data, err := os.ReadFile(path)
	s.Require().NoError(err)
	s.Equal("%PDF-1.7", string(data))
}

// TestSaveOutputNoOverwrite tests an existing output is kept
func (s *OutputTestSuite) TestSaveOutputNoOverwrite() {
	_, err := s.store.SaveOutput(context.Background(), []byte("first"), "out.pdf")
	s.Require().NoError(err)

	_, err = s.store.SaveOutput(context.Background(), []byte("second"), "out.pdf")
	s.Error(err)
	s.ErrorIs(err, os.ErrExist)

	data, err := os.ReadFile(filepath.Join(s.store.Paths().Outputs, "out.pdf"))
	s.Require().NoError(err)
	s.Equal("first", string(data))
}

// TestSaveOutputInvalidNames tests names that escape outputs/
func (s *OutputTestSuite) TestSaveOutputInvalidNames() {
	for _, name := range []string{"", "../escape.pdf", "nested/out.pdf", ".hidden"} {
		s.Run("name_"+name, func() {
			_, err := s.store.SaveOutput(context.Background(), []byte("x"), name)
			s.Error(err)
			s.IsType(store.IOError{}, err)
		})
	}
}

// TestRevealMissingPathIsNoop tests revealing an absent file
func (s *OutputTestSuite) TestRevealMissingPathIsNoop() {
	err := s.store.RevealInFileExplorer(context.Background(), filepath.Join(s.tempDir, "missing.pdf"))
	s.NoError(err)
}

// TestRevealCommand tests the per-platform command lines
func (s *OutputTestSuite) TestRevealCommand() {
	path := filepath.Join("data", "outputs", "a.pdf")
	cases := []struct {
		goos string
		args []string
	}{
		{"darwin", []string{"open", "-R", path}},
		{"windows", []string{"explorer", "/select,", path}},
		{"linux", []string{"xdg-open", filepath.Dir(path)}},
	}

	for _, tc := range cases {
		s.Run(tc.goos, func() {
			cmd := revealCommand(context.Background(), tc.goos, path)
			s.Equal(tc.args, cmd.Args)
		})
	}
}

func TestOutputSuite(t *testing.T) {
	suite.Run(t, new(OutputTestSuite))
}
