package store

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/suite"
)

// StoreTestSuite tests the store package types and errors
type StoreTestSuite struct {
	suite.Suite
}

// TestIOErrorMessage tests the operation and path are reported
func (s *StoreTestSuite) TestIOErrorMessage() {
	err := IOError{Op: "copy", Path: "/base/sources/a.pdf", Err: errors.New("no space left on device")}
	s.Equal("copy /base/sources/a.pdf: no space left on device", err.Error())
}

// TestIOErrorUnwrap tests the cause stays reachable through wrapping
func (s *StoreTestSuite) TestIOErrorUnwrap() {
	err := fmt.Errorf("import: %w", IOError{Op: "open", Path: "/tmp/x.pdf", Err: os.ErrNotExist})

	s.ErrorIs(err, os.ErrNotExist)

	var ioErr IOError
	s.Require().ErrorAs(err, &ioErr)
	s.Equal("open", ioErr.Op)
	s.Equal("/tmp/x.pdf", ioErr.Path)
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}
