package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"pagevault/pkg/render"
)

type recordingRenderer struct {
	mu       sync.Mutex
	requests []render.Request
	err      error
}

func (r *recordingRenderer) RequestRender(req render.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.requests = append(r.requests, req)
	return nil
}

// CacheTestSuite tests the derived asset cache
type CacheTestSuite struct {
	suite.Suite
	tempDir  string
	renderer *recordingRenderer
	manager  *Manager
	clock    time.Time
}

// SetupTest runs before each test
func (s *CacheTestSuite) SetupTest() {
	var err error
	s.tempDir, err = os.MkdirTemp("", "cache-test-*")
	s.Require().NoError(err)

	s.renderer = &recordingRenderer{}
	s.manager = New(filepath.Join(s.tempDir, "thumbnails"), 100, s.renderer)
	s.clock = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.manager.now = func() time.Time {
		s.clock = s.clock.Add(time.Minute)
		return s.clock
	}
}

// TearDownTest runs after each test
func (s *CacheTestSuite) TearDownTest() {
	s.manager.Wait()
	os.RemoveAll(s.tempDir)
}

func (s *CacheTestSuite) commit(sourceID string, size int) {
	_, err := s.manager.CommitDerivedAsset(sourceID, 0, "jpg", make([]byte, size))
	s.Require().NoError(err)
	s.manager.Wait()
}

func (s *CacheTestSuite) entryIDs() []string {
	entries, err := s.manager.Entries()
	s.Require().NoError(err)
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.SourceID)
	}
	return ids
}

// TestDefaultLimit tests the 1 GiB default cap
func (s *CacheTestSuite) TestDefaultLimit() {
	s.Equal(int64(1<<30), New(s.tempDir, 0, s.renderer).Limit())
}

// TestRequestDerivedAsset tests the request is forwarded without bytes
func (s *CacheTestSuite) TestRequestDerivedAsset() {
	err := s.manager.RequestDerivedAsset(context.Background(), "src-1", "/data/sources/src-1.pdf", Spec{Page: 0, Width: 200, Height: 280})
	s.Require().NoError(err)

	s.Require().Len(s.renderer.requests, 1)
	s.Equal(render.Request{SourceID: "src-1", SourcePath: "/data/sources/src-1.pdf", Width: 200, Height: 280}, s.renderer.requests[0])

	_, err = os.Stat(filepath.Join(s.manager.Root(), "src-1"))
	s.True(os.IsNotExist(err))
}

// TestRequestRejected tests renderer refusals reach the caller
func (s *CacheTestSuite) TestRequestRejected() {
	s.renderer.err = render.ErrQueueFull
	err := s.manager.RequestDerivedAsset(context.Background(), "src-1", "x.pdf", Spec{})
	s.ErrorIs(err, render.ErrQueueFull)

	err = s.manager.RequestDerivedAsset(context.Background(), "../escape", "x.pdf", Spec{})
	s.Error(err)
}

// TestCommitWritesEntry tests the on-disk layout of a committed asset
func (s *CacheTestSuite) TestCommitWritesEntry() {
	path, err := s.manager.CommitDerivedAsset("src-1", 0, ".jpg", []byte("jpeg"))
	s.Require().NoError(err)
	s.Equal(filepath.Join(s.manager.Root(), "src-1", "0.jpg"), path)

	data, err := os.ReadFile(path)
	s.Require().NoError(err)
	s.Equal("jpeg", string(data))

	found, ok := s.manager.AssetPath("src-1", 0)
	s.True(ok)
	s.Equal(path, found)

	_, ok = s.manager.AssetPath("src-1", 3)
	s.False(ok)
}

// TestCommitInvalidInput tests ids and extensions that would escape the root
func (s *CacheTestSuite) TestCommitInvalidInput() {
	cases := []struct {
		name     string
		sourceID string
		ext      string
	}{
		{"empty id", "", "jpg"},
		{"parent id", "..", "jpg"},
		{"nested id", "a/b", "jpg"},
		{"empty ext", "src", ""},
		{"nested ext", "src", "x/jpg"},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			_, err := s.manager.CommitDerivedAsset(tc.sourceID, 0, tc.ext, []byte("x"))
			s.Error(err)
		})
	}
}

// TestEvictOldestFirst tests whole entries are removed in mtime order
func (s *CacheTestSuite) TestEvictOldestFirst() {
	s.commit("a", 40)
	s.commit("b", 40)
	s.commit("c", 40)

	s.ElementsMatch([]string{"b", "c"}, s.entryIDs())

	total, err := s.manager.TotalSize()
	s.NoError(err)
	s.Equal(int64(80), total)
}

// TestAccessRefreshesRecency tests a looked-up entry survives eviction
func (s *CacheTestSuite) TestAccessRefreshesRecency() {
	s.commit("a", 40)
	s.commit("b", 40)

	_, ok := s.manager.AssetPath("a", 0)
	s.Require().True(ok)

	s.commit("c", 40)
	s.ElementsMatch([]string{"a", "c"}, s.entryIDs())
}

// TestEntryRemovedAsUnit tests multi-file entries are never partially evicted
func (s *CacheTestSuite) TestEntryRemovedAsUnit() {
	for page := 0; page < 3; page++ {
		_, err := s.manager.CommitDerivedAsset("multi", page, "jpg", make([]byte, 20))
		s.Require().NoError(err)
	}
	s.manager.Wait()
	s.commit("new", 50)

	s.Equal([]string{"new"}, s.entryIDs())
}

// TestCapInvariant tests the total stays under the cap after many commits
func (s *CacheTestSuite) TestCapInvariant() {
	for i := 0; i < 20; i++ {
		_, err := s.manager.CommitDerivedAsset(strings.Repeat("x", i+1), 0, "jpg", make([]byte, 30))
		s.Require().NoError(err)
	}
	s.manager.Wait()

	report, err := s.manager.Evict()
	s.Require().NoError(err)
	s.LessOrEqual(report.After, s.manager.Limit())

	total, err := s.manager.TotalSize()
	s.NoError(err)
	s.LessOrEqual(total, s.manager.Limit())
}

// TestEvictUnderLimitIsNoop tests nothing is removed below the cap
func (s *CacheTestSuite) TestEvictUnderLimitIsNoop() {
	s.commit("a", 10)

	report, err := s.manager.Evict()
	s.NoError(err)
	s.Empty(report.Removed)
	s.Equal(int64(10), report.Before)
	s.Equal(report.Before, report.After)
}

// TestEvictMissingRoot tests a cache that was never written
func (s *CacheTestSuite) TestEvictMissingRoot() {
	report, err := s.manager.Evict()
	s.NoError(err)
	s.Zero(report.Before)

	total, err := s.manager.TotalSize()
	s.NoError(err)
	s.Zero(total)
}

// TestRemove tests dropping a single entry
func (s *CacheTestSuite) TestRemove() {
	s.commit("a", 10)
	s.commit("b", 10)

	s.NoError(s.manager.Remove("a"))
	s.NoError(s.manager.Remove("never-cached"))
	s.Equal([]string{"b"}, s.entryIDs())
}

// TestConsume tests successful completions are committed and failures skipped
func (s *CacheTestSuite) TestConsume() {
	completions := make(chan render.Completion, 3)
	completions <- render.Completion{Request: render.Request{SourceID: "ok", Page: 1}, Data: []byte("img"), Ext: "jpg"}
	completions <- render.Completion{Request: render.Request{SourceID: "failed"}, Err: errors.New("boom")}
	completions <- render.Completion{Request: render.Request{SourceID: "slow"}, Err: render.RenderTimeoutError{SourceID: "slow"}}
	close(completions)

	s.manager.Consume(context.Background(), completions, nil)
	s.manager.Wait()

	s.Equal([]string{"ok"}, s.entryIDs())
	_, ok := s.manager.AssetPath("ok", 1)
	s.True(ok)
}

// TestConsumeDropsDeletedSources tests completions for gone sources leave no entry
func (s *CacheTestSuite) TestConsumeDropsDeletedSources() {
	lookupErr := errors.New("database locked")
	live := func(_ context.Context, sourceID string) (bool, error) {
		switch sourceID {
		case "kept":
			return true, nil
		case "broken":
			return false, lookupErr
		default:
			return false, nil
		}
	}

	completions := make(chan render.Completion, 3)
	completions <- render.Completion{Request: render.Request{SourceID: "kept"}, Data: []byte("img"), Ext: "jpg"}
	completions <- render.Completion{Request: render.Request{SourceID: "deleted"}, Data: []byte("img"), Ext: "jpg"}
	completions <- render.Completion{Request: render.Request{SourceID: "broken"}, Data: []byte("img"), Ext: "jpg"}
	close(completions)

	s.manager.Consume(context.Background(), completions, live)
	s.manager.Wait()

	s.Equal([]string{"kept"}, s.entryIDs())
}

// TestConsumeStopsOnCancel tests the consumer exits with its context
func (s *CacheTestSuite) TestConsumeStopsOnCancel() {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.manager.Consume(ctx, make(chan render.Completion), nil)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		s.Fail("Consume did not return after cancel")
	}
}

func TestCacheSuite(t *testing.T) {
	suite.Run(t, new(CacheTestSuite))
}
