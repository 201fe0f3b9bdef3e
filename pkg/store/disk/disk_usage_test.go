package disk

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
)

// DiskUsageTestSuite tests the GetDiskUsage functionality
type DiskUsageTestSuite struct {
	suite.Suite
	tempDir string
	store   *Store
}

// SetupTest runs before each test
func (s *DiskUsageTestSuite) SetupTest() {
	var err error
	s.tempDir, err = os.MkdirTemp("", "disk-usage-test-*")
	s.Require().NoError(err)
	s.store = New(s.tempDir)
}

// TearDownTest runs after each test
func (s *DiskUsageTestSuite) TearDownTest() {
	os.RemoveAll(s.tempDir)
}

// TestMissingDirectoryIsZero tests that an absent directory reports 0
func (s *DiskUsageTestSuite) TestMissingDirectoryIsZero() {
	usage, err := s.store.GetDiskUsage(filepath.Join(s.tempDir, "does", "not", "exist"))
	s.NoError(err)
	s.Equal(int64(0), usage)
}

// TestEmptyDirectoryIsZero tests that an empty directory reports 0
func (s *DiskUsageTestSuite) TestEmptyDirectoryIsZero() {
	dir := filepath.Join(s.tempDir, "empty")
	s.Require().NoError(os.MkdirAll(dir, 0755))

	usage, err := s.store.GetDiskUsage(dir)
	s.NoError(err)
	s.Equal(int64(0), usage)
}

// TestRecursiveSum tests nested files are summed
func (s *DiskUsageTestSuite) TestRecursiveSum() {
	dir := filepath.Join(s.tempDir, "tree")
	nested := filepath.Join(dir, "a", "b")
	s.Require().NoError(os.MkdirAll(nested, 0755))
	s.Require().NoError(os.WriteFile(filepath.Join(dir, "top.bin"), make([]byte, 100), 0644))
	s.Require().NoError(os.WriteFile(filepath.Join(dir, "a", "mid.bin"), make([]byte, 20), 0644))
	s.Require().NoError(os.WriteFile(filepath.Join(nested, "deep.bin"), make([]byte, 3), 0644))

	usage, err := s.store.GetDiskUsage(dir)
	s.NoError(err)
	s.Equal(int64(123), usage)
}

// TestSingleFile tests that a file path reports its own size
func (s *DiskUsageTestSuite) TestSingleFile() {
	path := filepath.Join(s.tempDir, "one.bin")
	s.Require().NoError(os.WriteFile(path, make([]byte, 42), 0644))

	usage, err := DirSize(path)
	s.NoError(err)
	s.Equal(int64(42), usage)
}

func TestDiskUsageSuite(t *testing.T) {
	suite.Run(t, new(DiskUsageTestSuite))
}
