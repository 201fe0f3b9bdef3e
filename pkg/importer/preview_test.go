package importer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"pagevault/pkg/cache"
	"pagevault/pkg/models"
	"pagevault/pkg/store/disk"
)

// MockAssetCache is a mock implementation of AssetCache for testing
type MockAssetCache struct {
	mock.Mock
}

func (m *MockAssetCache) RequestDerivedAsset(ctx context.Context, sourceID, sourcePath string, spec cache.Spec) error {
	args := m.Called(ctx, sourceID, sourcePath, spec)
	return args.Error(0)
}

// PreviewTestSuite tests the preview request made after an import
type PreviewTestSuite struct {
	suite.Suite
	tempDir string
	store   *disk.Store
	records *memoryRecords
	assets  *MockAssetCache
}

// SetupTest runs before each test
func (s *PreviewTestSuite) SetupTest() {
	var err error
	s.tempDir, err = os.MkdirTemp("", "preview-test-*")
	s.Require().NoError(err)

	s.store = disk.New(filepath.Join(s.tempDir, "base"))
	s.Require().NoError(s.store.Init())
	s.records = newMemoryRecords()
	s.assets = new(MockAssetCache)
}

// TearDownTest runs after each test
func (s *PreviewTestSuite) TearDownTest() {
	os.RemoveAll(s.tempDir)
}

func (s *PreviewTestSuite) orchestrator(assets AssetCache) *Orchestrator {
	counter := func(context.Context, string) (int, error) { return 1, nil }
	o := New(s.store, s.records, counter, assets, Options{Thumbnail: cache.Spec{Width: 120, Height: 160}})
	o.newID = func() string { return "0190b6c4-5a1e-7c3d-9a4b-2f1e0d9c8b7a" }
	return o
}

// TestPreviewRequestArguments tests the stored copy is what gets rendered
func (s *PreviewTestSuite) TestPreviewRequestArguments() {
	id := "0190b6c4-5a1e-7c3d-9a4b-2f1e0d9c8b7a"
	internalPath := filepath.Join(s.store.Paths().Sources, id+".pdf")
	s.assets.On("RequestDerivedAsset", mock.Anything, id, internalPath, cache.Spec{Page: 0, Width: 120, Height: 160}).Return(nil).Once()

	path := filepath.Join(s.tempDir, "scan.pdf")
	s.Require().NoError(os.WriteFile(path, []byte("scan"), 0644))

	outcomes := s.orchestrator(s.assets).ImportFiles(context.Background(), []string{path})
	s.Require().Len(outcomes, 1)
	s.Equal(models.ImportStatusImported, outcomes[0].Status)
	s.Equal(id, outcomes[0].SourceID)
	s.assets.AssertExpectations(s.T())
}

// TestNoPreviewForDuplicate tests a duplicate never requests a render
func (s *PreviewTestSuite) TestNoPreviewForDuplicate() {
	s.assets.On("RequestDerivedAsset", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	first := filepath.Join(s.tempDir, "a.pdf")
	second := filepath.Join(s.tempDir, "b.pdf")
	s.Require().NoError(os.WriteFile(first, []byte("same"), 0644))
	s.Require().NoError(os.WriteFile(second, []byte("same"), 0644))

	o := s.orchestrator(s.assets)
	o.newID = models.NewID
	outcomes := o.ImportFiles(context.Background(), []string{first, second})
	s.Equal(models.ImportStatusDuplicate, outcomes[1].Status)
	s.assets.AssertNumberOfCalls(s.T(), "RequestDerivedAsset", 1)
}

// TestNilAssetCache tests previews are optional
func (s *PreviewTestSuite) TestNilAssetCache() {
	path := filepath.Join(s.tempDir, "a.pdf")
	s.Require().NoError(os.WriteFile(path, []byte("a"), 0644))

	outcomes := s.orchestrator(nil).ImportFiles(context.Background(), []string{path})
	s.Equal(models.ImportStatusImported, outcomes[0].Status)
}

func TestPreviewSuite(t *testing.T) {
	suite.Run(t, new(PreviewTestSuite))
}
