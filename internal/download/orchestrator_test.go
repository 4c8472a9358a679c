package download_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hbomb79/Reel/internal/artifact"
	"github.com/hbomb79/Reel/internal/download"
	"github.com/hbomb79/Reel/internal/download/mocks"
	"github.com/hbomb79/Reel/internal/extract"
	"github.com/hbomb79/Reel/internal/fault"
	"github.com/hbomb79/Reel/internal/identity"
	"github.com/hbomb79/Reel/internal/source"
	"github.com/hbomb79/Reel/pkg/logger"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	errExpected = errors.New("test: expected error")
	testRef     = source.Reference{ID: "abc123", URL: "https://www.youtube.com/watch?v=abc123"}
)

func init() {
	logger.SetMinLoggingLevel(logger.VERBOSE.Level())
}

// writeOutput returns a fetch implementation which writes a file for each
// extension given using the request's output template.
func writeOutput(fs afero.Fs, title string, exts ...string) func(context.Context, string, identity.Identity, extract.Strategy, download.FetchRequest) (*download.FetchResult, error) {
	return func(_ context.Context, _ string, _ identity.Identity, _ extract.Strategy, req download.FetchRequest) (*download.FetchResult, error) {
		for _, ext := range exts {
			path := strings.Replace(req.OutputTemplate, "%(ext)s", ext, 1)
			if err := afero.WriteFile(fs, path, []byte("media"), 0o644); err != nil {
				return nil, err
			}
		}

		return &download.FetchResult{Title: title}, nil
	}
}

func newOrchestrator(t *testing.T, config download.Config, fetcher download.Fetcher) (*download.Orchestrator, *artifact.Store, afero.Fs) {
	fs := afero.NewMemMapFs()
	store, err := artifact.NewStore(fs, "/downloads")
	require.NoError(t, err)

	orchestrator, err := download.New(config, store, fetcher, identity.NewDefaultPool())
	require.NoError(t, err)

	return orchestrator, store, fs
}

func Test_Download_ProducesArtifact(t *testing.T) {
	fetcher := mocks.NewMockFetcher(t)
	orchestrator, store, fs := newOrchestrator(t, download.Config{MergeFormat: "mp4"}, fetcher)

	fetcher.EXPECT().
		Fetch(mock.Anything, testRef.URL, mock.Anything, mock.MatchedBy(func(s extract.Strategy) bool { return s.Name == "web-full" }), mock.MatchedBy(func(req download.FetchRequest) bool {
			return req.FormatSelector == download.DefaultFormatSelector && req.MergeFormat == "mp4" && strings.HasPrefix(req.OutputTemplate, "/downloads/")
		})).
		RunAndReturn(writeOutput(fs, "T", "mp4")).
		Once()

	result, err := orchestrator.Download(context.Background(), testRef, "")
	require.NoError(t, err)
	assert.Equal(t, "T", result.Title)
	assert.True(t, artifact.ValidID(result.Artifact.ID))
	assert.Equal(t, "/downloads/"+result.Artifact.ID+".mp4", result.Artifact.Path)
	assert.WithinDuration(t, time.Now(), result.Artifact.CreatedAt, time.Minute)

	file, _, err := store.ResolveForServing(result.Artifact.ID)
	require.NoError(t, err)
	file.Close()
}

func Test_Download_ReconcilesOtherExtension(t *testing.T) {
	fetcher := mocks.NewMockFetcher(t)
	orchestrator, _, fs := newOrchestrator(t, download.Config{}, fetcher)
	fetcher.EXPECT().Fetch(mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).RunAndReturn(writeOutput(fs, "", "webm")).Once()

	result, err := orchestrator.Download(context.Background(), testRef, "best")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(result.Artifact.Path, result.Artifact.ID+".webm"))
	assert.Equal(t, testRef.ID, result.Title, "reference ID used when no title is reported")
}

func Test_Download_NoOutputIsIncomplete(t *testing.T) {
	fetcher := mocks.NewMockFetcher(t)
	orchestrator, _, fs := newOrchestrator(t, download.Config{}, fetcher)
	fetcher.EXPECT().Fetch(mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).RunAndReturn(writeOutput(fs, "T", "mp4.part")).Once()

	_, err := orchestrator.Download(context.Background(), testRef, "")
	assert.Equal(t, fault.DownloadIncomplete, fault.KindOf(err))
}

func Test_Download_ZeroReferenceRejected(t *testing.T) {
	fetcher := mocks.NewMockFetcher(t)
	orchestrator, _, _ := newOrchestrator(t, download.Config{}, fetcher)

	_, err := orchestrator.Download(context.Background(), source.Reference{}, "")
	assert.Equal(t, fault.InvalidURL, fault.KindOf(err))
	fetcher.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func Test_Download_TransientRetriedThenSucceeds(t *testing.T) {
	fetcher := mocks.NewMockFetcher(t)
	orchestrator, _, fs := newOrchestrator(t, download.Config{Retries: 1}, fetcher)
	fetcher.EXPECT().Fetch(mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, errExpected).Once()
	fetcher.EXPECT().Fetch(mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).RunAndReturn(writeOutput(fs, "T", "mp4")).Once()

	_, err := orchestrator.Download(context.Background(), testRef, "")
	require.NoError(t, err)
}

func Test_Download_UnavailableNotRetried(t *testing.T) {
	fetcher := mocks.NewMockFetcher(t)
	orchestrator, _, _ := newOrchestrator(t, download.Config{Retries: 3}, fetcher)
	fetcher.EXPECT().
		Fetch(mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("ERROR: [youtube] abc123: Private video")).
		Once()

	_, err := orchestrator.Download(context.Background(), testRef, "")
	assert.Equal(t, fault.Unavailable, fault.KindOf(err))
}

func Test_Download_IgnoresCallerCancellation(t *testing.T) {
	fetcher := mocks.NewMockFetcher(t)
	orchestrator, _, fs := newOrchestrator(t, download.Config{Timeout: time.Minute}, fetcher)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher.EXPECT().
		Fetch(mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		RunAndReturn(func(fetchCtx context.Context, url string, id identity.Identity, s extract.Strategy, req download.FetchRequest) (*download.FetchResult, error) {
			require.NoError(t, fetchCtx.Err())
			_, hasDeadline := fetchCtx.Deadline()
			assert.True(t, hasDeadline)
			return writeOutput(fs, "T", "mp4")(fetchCtx, url, id, s, req)
		}).
		Once()

	_, err := orchestrator.Download(ctx, testRef, "")
	require.NoError(t, err)
}

func Test_Download_ConcurrentRequestsAreDistinct(t *testing.T) {
	const n = 8
	fetcher := mocks.NewMockFetcher(t)
	orchestrator, _, fs := newOrchestrator(t, download.Config{}, fetcher)
	fetcher.EXPECT().Fetch(mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).RunAndReturn(writeOutput(fs, "T", "mp4")).Times(n)

	results := make([]*download.Result, n)
	wg := sync.WaitGroup{}
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := orchestrator.Download(context.Background(), testRef, "")
			assert.NoError(t, err)
			results[i] = result
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for _, result := range results {
		require.NotNil(t, result)
		assert.False(t, seen[result.Artifact.ID])
		seen[result.Artifact.ID] = true
	}

	files, err := afero.ReadDir(fs, "/downloads")
	require.NoError(t, err)
	assert.Len(t, files, n)
}

func Test_New_UnknownStrategy(t *testing.T) {
	store, err := artifact.NewStore(afero.NewMemMapFs(), "/d")
	require.NoError(t, err)

	_, err = download.New(download.Config{Strategy: "nope"}, store, mocks.NewMockFetcher(t), identity.NewDefaultPool())
	assert.Error(t, err)
}

func Test_New_MergeFormatMustMatchStore(t *testing.T) {
	store, err := artifact.NewStore(afero.NewMemMapFs(), "/d")
	require.NoError(t, err)

	_, err = download.New(download.Config{MergeFormat: "mkv"}, store, mocks.NewMockFetcher(t), identity.NewDefaultPool())
	assert.Error(t, err)

	_, err = download.New(download.Config{MergeFormat: "mkv"}, store.WithPreferredExt("mkv"), mocks.NewMockFetcher(t), identity.NewDefaultPool())
	assert.NoError(t, err)
}

func Test_Download_ServedFileMatchesReportedFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	store, err := artifact.NewStore(fs, "/downloads")
	require.NoError(t, err)
	store.WithPreferredExt("mkv")

	fetcher := mocks.NewMockFetcher(t)
	orchestrator, err := download.New(download.Config{MergeFormat: "mkv"}, store, fetcher, identity.NewDefaultPool())
	require.NoError(t, err)

	fetcher.EXPECT().
		Fetch(mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.MatchedBy(func(req download.FetchRequest) bool { return req.MergeFormat == "mkv" })).
		RunAndReturn(func(ctx context.Context, url string, id identity.Identity, s extract.Strategy, req download.FetchRequest) (*download.FetchResult, error) {
			if _, err := writeOutput(fs, "", "f137.mp4", "a.webm", "mkv")(ctx, url, id, s, req); err != nil {
				return nil, err
			}

			return &download.FetchResult{Title: "T", Filename: strings.Replace(req.OutputTemplate, "%(ext)s", "mkv", 1)}, nil
		}).
		Once()

	result, err := orchestrator.Download(context.Background(), testRef, "")
	require.NoError(t, err)
	assert.Equal(t, "/downloads/"+result.Artifact.ID+".mkv", result.Artifact.Path)

	file, info, err := store.ResolveForServing(result.Artifact.ID)
	require.NoError(t, err)
	defer file.Close()
	assert.Equal(t, result.Artifact.ID+".mkv", info.Name())
}
