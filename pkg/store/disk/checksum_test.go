package disk

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"pagevault/pkg/store"
)

// ChecksumTestSuite tests the ComputeChecksum functionality
type ChecksumTestSuite struct {
	suite.Suite
	tempDir string
	store   *Store
}

// SetupTest runs before each test
func (s *ChecksumTestSuite) SetupTest() {
	var err error
	s.tempDir, err = os.MkdirTemp("", "checksum-test-*")
	s.Require().NoError(err)
	s.store = New(filepath.Join(s.tempDir, "base"))
	s.Require().NoError(s.store.Init())
}

// TearDownTest runs after each test
func (s *ChecksumTestSuite) TearDownTest() {
	os.RemoveAll(s.tempDir)
}

func (s *ChecksumTestSuite) writeFile(name, content string) string {
	path := filepath.Join(s.tempDir, name)
	s.Require().NoError(os.WriteFile(path, []byte(content), 0644))
	return path
}

// TestChecksumMatchesSHA256 tests the digest is plain hex SHA-256
func (s *ChecksumTestSuite) TestChecksumMatchesSHA256() {
	content := "hello pdf bytes"
	path := s.writeFile("a.pdf", content)

	sum := sha256.Sum256([]byte(content))
	digest, err := s.store.ComputeChecksum(context.Background(), path)
	s.Require().NoError(err)
	s.Equal(hex.EncodeToString(sum[:]), digest)
	s.Len(digest, 64)
}

// TestChecksumDeterministic tests repeated calls return the same digest
func (s *ChecksumTestSuite) TestChecksumDeterministic() {
	path := s.writeFile("a.pdf", "same bytes")

	first, err := s.store.ComputeChecksum(context.Background(), path)
	s.Require().NoError(err)
	for i := 0; i < 3; i++ {
		again, err := s.store.ComputeChecksum(context.Background(), path)
		s.Require().NoError(err)
		s.Equal(first, again)
	}
}

// TestChecksumIgnoresFileName tests identical bytes under different names
func (s *ChecksumTestSuite) TestChecksumIgnoresFileName() {
	a := s.writeFile("a.pdf", "identical")
	b := s.writeFile("renamed-copy.pdf", "identical")

	digestA, err := s.store.ComputeChecksum(context.Background(), a)
	s.Require().NoError(err)
	digestB, err := s.store.ComputeChecksum(context.Background(), b)
	s.Require().NoError(err)
	s.Equal(digestA, digestB)
}

// TestChecksumLargerThanChunk tests a file spanning several chunks
func (s *ChecksumTestSuite) TestChecksumLargerThanChunk() {
	content := strings.Repeat("0123456789abcdef", chunkSize/8)
	path := s.writeFile("big.pdf", content)

	sum := sha256.Sum256([]byte(content))
	digest, err := s.store.ComputeChecksum(context.Background(), path)
	s.Require().NoError(err)
	s.Equal(hex.EncodeToString(sum[:]), digest)
}

// TestChecksumMissingFile tests an unreadable path is an IOError
func (s *ChecksumTestSuite) TestChecksumMissingFile() {
	_, err := s.store.ComputeChecksum(context.Background(), filepath.Join(s.tempDir, "missing.pdf"))
	s.Error(err)
	s.IsType(store.IOError{}, err)
	s.True(errors.Is(err, os.ErrNotExist))
}

// TestChecksumCancelled tests a cancelled context stops the read
func (s *ChecksumTestSuite) TestChecksumCancelled() {
	path := s.writeFile("a.pdf", "bytes")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.store.ComputeChecksum(ctx, path)
	s.Error(err)
	s.True(errors.Is(err, context.Canceled))
}

func TestChecksumSuite(t *testing.T) {
	suite.Run(t, new(ChecksumTestSuite))
}
