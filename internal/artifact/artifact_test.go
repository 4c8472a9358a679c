package artifact_test

import (
	"context"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/hbomb79/Reel/internal/artifact"
	"github.com/hbomb79/Reel/internal/fault"
	"github.com/hbomb79/Reel/pkg/logger"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDir = "/downloads"

func init() {
	logger.SetMinLoggingLevel(logger.VERBOSE.Level())
}

func newStore(t *testing.T) (*artifact.Store, afero.Fs) {
	fs := afero.NewMemMapFs()
	store, err := artifact.NewStore(fs, testDir)
	require.NoError(t, err)

	return store, fs
}

func writeFile(t *testing.T, fs afero.Fs, name string, content string, modTime time.Time) string {
	path := filepath.Join(testDir, name)
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	require.NoError(t, fs.Chtimes(path, modTime, modTime))

	return path
}

func Test_NewStore_CreatesDirectory(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, err := artifact.NewStore(fs, "/a/b/c")
	require.NoError(t, err)

	exists, err := afero.DirExists(fs, "/a/b/c")
	require.NoError(t, err)
	assert.True(t, exists)
}

func Test_NewStore_RejectsFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/file", []byte("x"), 0o644))

	_, err := artifact.NewStore(fs, "/file")
	assert.Error(t, err)
}

func Test_NewID_Distinct(t *testing.T) {
	store, _ := newStore(t)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := store.NewID()
		assert.True(t, artifact.ValidID(id))
		assert.False(t, seen[id])
		seen[id] = true
	}
	assert.Equal(t, filepath.Join(testDir, "x.%(ext)s"), store.OutputTemplate("x"))
}

func Test_Locate(t *testing.T) {
	store, fs := newStore(t)
	id := store.NewID()
	now := time.Now()

	_, err := store.Locate(id)
	assert.Equal(t, fault.NotFound, fault.KindOf(err))

	writeFile(t, fs, id+".webm.part", "partial", now)
	_, err = store.Locate(id)
	assert.Equal(t, fault.NotFound, fault.KindOf(err), "leftovers are never artifacts")

	webm := writeFile(t, fs, id+".webm", "webm", now)
	path, err := store.Locate(id)
	require.NoError(t, err)
	assert.Equal(t, webm, path, "falls back to any extension when preferred is missing")

	mp4 := writeFile(t, fs, id+".mp4", "mp4", now)
	path, err = store.Locate(id)
	require.NoError(t, err)
	assert.Equal(t, mp4, path)
}

func Test_Locate_SkipsUnmergedFragments(t *testing.T) {
	store, fs := newStore(t)
	id := store.NewID()
	now := time.Now()

	writeFile(t, fs, id+".f137.mp4", "video only", now)
	writeFile(t, fs, id+".f251.webm", "audio only", now)
	_, err := store.Locate(id)
	assert.Equal(t, fault.NotFound, fault.KindOf(err), "format fragments are never artifacts")

	mkv := writeFile(t, fs, id+".mkv", "merged", now)
	path, err := store.Locate(id)
	require.NoError(t, err)
	assert.Equal(t, mkv, path)
}

func Test_Locate_UsesConfiguredPreference(t *testing.T) {
	store, fs := newStore(t)
	assert.Equal(t, "mp4", store.PreferredExt())
	store.WithPreferredExt(".mkv")
	assert.Equal(t, "mkv", store.PreferredExt())
	store.WithPreferredExt("")
	assert.Equal(t, "mkv", store.PreferredExt(), "empty preference is ignored")

	id := store.NewID()
	now := time.Now()
	writeFile(t, fs, id+".f137.mp4", "video only", now)
	writeFile(t, fs, id+".a.webm", "sorts first", now)
	mkv := writeFile(t, fs, id+".mkv", "merged", now)

	path, err := store.Locate(id)
	require.NoError(t, err)
	assert.Equal(t, mkv, path)

	file, info, err := store.ResolveForServing(id)
	require.NoError(t, err)
	defer file.Close()
	assert.Equal(t, filepath.Base(mkv), info.Name(), "serving picks the same file as Locate")
}

func Test_ResolveForServing(t *testing.T) {
	store, fs := newStore(t)
	id := store.NewID()
	writeFile(t, fs, id+".mp4", "media", time.Now())

	file, info, err := store.ResolveForServing(id)
	require.NoError(t, err)
	defer file.Close()

	content, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Equal(t, "media", string(content))
	assert.Equal(t, int64(5), info.Size())
}

func Test_ResolveForServing_RejectsUnsafeIDs(t *testing.T) {
	store, fs := newStore(t)
	require.NoError(t, afero.WriteFile(fs, "/secret.txt", []byte("secret"), 0o644))
	writeFile(t, fs, "..mp4", "x", time.Now())

	ids := []string{
		"",
		"../secret",
		"..\\secret",
		"..",
		"not-a-uuid",
		"6ba7b810-9dad-11d1-80b4-00c04fd430c8.mp4",
		"6ba7b810/9dad-11d1-80b4-00c04fd430c8",
		"{6ba7b810-9dad-11d1-80b4-00c04fd430c8}",
		"urn:uuid:6ba7b810-9dad-11d1-80b4-00c04fd430c8",
	}
	for _, id := range ids {
		_, _, err := store.ResolveForServing(id)
		assert.Equal(t, fault.NotFound, fault.KindOf(err), "id %q", id)
	}
}

func Test_ResolveForServing_MissingIsNotFound(t *testing.T) {
	store, _ := newStore(t)

	_, _, err := store.ResolveForServing(store.NewID())
	assert.Equal(t, fault.NotFound, fault.KindOf(err))
}

func Test_Sweep_RemovesExpiredOnly(t *testing.T) {
	store, fs := newStore(t)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	expired := writeFile(t, fs, store.NewID()+".mp4", "old", now.Add(-2*time.Hour))
	fresh := writeFile(t, fs, store.NewID()+".mp4", "new", now.Add(-10*time.Minute))
	require.NoError(t, fs.Mkdir(filepath.Join(testDir, "nested"), 0o755))

	janitor := artifact.NewJanitor(store, artifact.Config{Retention: time.Hour}).WithClock(func() time.Time { return now })
	report := janitor.Sweep()
	assert.Equal(t, artifact.SweepReport{Scanned: 2, Removed: 1, Failed: 0, Freed: 3}, report)

	exists, _ := afero.Exists(fs, expired)
	assert.False(t, exists)
	exists, _ = afero.Exists(fs, fresh)
	assert.True(t, exists)

	// Sweeping again changes nothing
	report = janitor.Sweep()
	assert.Equal(t, artifact.SweepReport{Scanned: 1}, report)
}

func Test_Sweep_ContinuesPastFailures(t *testing.T) {
	base := afero.NewMemMapFs()
	now := time.Now()
	require.NoError(t, base.MkdirAll(testDir, 0o755))
	for _, name := range []string{"a.mp4", "b.mp4"} {
		path := filepath.Join(testDir, name)
		require.NoError(t, afero.WriteFile(base, path, []byte("x"), 0o644))
		require.NoError(t, base.Chtimes(path, now.Add(-time.Hour), now.Add(-time.Hour)))
	}

	store, err := artifact.NewStore(afero.NewReadOnlyFs(base), testDir)
	require.NoError(t, err)

	report := artifact.NewJanitor(store, artifact.Config{Retention: time.Minute}).Sweep()
	assert.Equal(t, artifact.SweepReport{Scanned: 2, Failed: 2}, report)
}

func Test_ServingRacesJanitor(t *testing.T) {
	store, fs := newStore(t)
	id := store.NewID()
	writeFile(t, fs, id+".mp4", "media", time.Now().Add(-time.Hour))

	janitor := artifact.NewJanitor(store, artifact.Config{Retention: time.Minute})
	wg := sync.WaitGroup{}
	wg.Add(2)
	go func() {
		defer wg.Done()
		janitor.Sweep()
	}()
	go func() {
		defer wg.Done()
		file, _, err := store.ResolveForServing(id)
		if err != nil {
			assert.Equal(t, fault.NotFound, fault.KindOf(err))
			return
		}
		file.Close()
	}()
	wg.Wait()

	_, _, err := store.ResolveForServing(id)
	assert.Equal(t, fault.NotFound, fault.KindOf(err))
}

func Test_Janitor_RunSweepsOnStart(t *testing.T) {
	store, fs := newStore(t)
	path := writeFile(t, fs, store.NewID()+".mp4", "x", time.Now().Add(-time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- artifact.NewJanitor(store, artifact.Config{Retention: time.Minute, SweepInterval: time.Hour}).Run(ctx) }()

	assert.Eventually(t, func() bool {
		exists, _ := afero.Exists(fs, path)
		return !exists
	}, time.Second, 10*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}
