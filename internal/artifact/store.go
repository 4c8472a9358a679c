// Package artifact manages the flat directory of downloaded media files.
// Files are named '<uuid>.<ext>' and live only until the janitor removes
// them.
package artifact

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hbomb79/Reel/internal/fault"
	"github.com/spf13/afero"
)

// leftoverSuffixes are written by the fetch tool while a download is in
// progress (or was abandoned), and are never considered artifacts.
var leftoverSuffixes = []string{".part", ".ytdl", ".temp"}

// fragmentName matches the per-format intermediates ('<id>.f137.mp4') the
// fetch tool writes before merging. They survive a failed merge.
var fragmentName = regexp.MustCompile(`^f[0-9]+\.`)

const defaultPreferredExt = "mp4"

type (
	// Artifact is a fetched media file on disk. The ID is the only
	// identifier ever exposed to clients.
	Artifact struct {
		ID        string
		Path      string
		CreatedAt time.Time
	}

	// Store resolves artifact IDs to files inside of the download directory.
	// It holds no state of its own; the directory listing is the source of
	// truth.
	Store struct {
		fs           afero.Fs
		dir          string
		preferredExt string
	}
)

// NewStore creates a store over the directory provided. If the directory is
// missing it will be created; if the path points to an existing FILE, an
// error is returned.
func NewStore(fs afero.Fs, dir string) (*Store, error) {
	if info, err := fs.Stat(dir); err == nil {
		if !info.IsDir() {
			return nil, fmt.Errorf("download path '%s' is not a directory", dir)
		}
	} else if errors.Is(err, os.ErrNotExist) {
		if err := fs.MkdirAll(dir, os.ModePerm); err != nil {
			return nil, fmt.Errorf("download path '%s' could not be created: %w", dir, err)
		}
	} else {
		return nil, fmt.Errorf("download path '%s' could not be accessed: %w", dir, err)
	}

	return &Store{fs: fs, dir: filepath.Clean(dir), preferredExt: defaultPreferredExt}, nil
}

// WithPreferredExt sets the extension Locate prefers when more than one file
// exists for an artifact. This should match the merge format handed to the
// fetch tool. An empty ext leaves the current preference in place.
func (store *Store) WithPreferredExt(ext string) *Store {
	if ext = strings.TrimPrefix(ext, "."); ext != "" {
		store.preferredExt = ext
	}

	return store
}

func (store *Store) PreferredExt() string { return store.preferredExt }

func (store *Store) Dir() string { return store.dir }

func (store *Store) Fs() afero.Fs { return store.fs }

// NewID allocates a fresh artifact ID.
func (store *Store) NewID() string { return uuid.NewString() }

// OutputTemplate returns the output template handed to the fetch tool for
// the artifact ID given. The tool substitutes the extension.
func (store *Store) OutputTemplate(id string) string {
	return filepath.Join(store.dir, id+".%(ext)s")
}

// Locate finds the file for the artifact ID. The path '<id>.<preferred ext>'
// is checked first; failing that, the first directory entry (in lexical
// order) named '<id>.*' is used, skipping in-progress leftovers and unmerged
// format fragments. If nothing matches, a fault.NotFound error is returned.
//
// Both the orchestrator and ResolveForServing use Locate, so the file served
// for an ID is always the file its download reported.
func (store *Store) Locate(id string) (string, error) {
	preferred := filepath.Join(store.dir, id+"."+store.preferredExt)
	if info, err := store.fs.Stat(preferred); err == nil && info.Mode().IsRegular() {
		return preferred, nil
	}

	// afero.ReadDir returns entries sorted by name
	entries, err := afero.ReadDir(store.fs, store.dir)
	if err != nil {
		return "", fault.Wrap(fault.NotFound, err, "failed to list download directory")
	}

	prefix := id + "."
	for _, entry := range entries {
		name := entry.Name()
		if !entry.Mode().IsRegular() || !strings.HasPrefix(name, prefix) || isLeftover(name) || fragmentName.MatchString(name[len(prefix):]) {
			continue
		}

		return filepath.Join(store.dir, name), nil
	}

	return "", fault.New(fault.NotFound, "no file found for artifact %s", id)
}

// ResolveForServing opens the artifact for reading. The ID must be a
// canonical UUID before any path is constructed, so that client input can
// never reference a file outside of the download directory. Any failure to
// locate, open or stat the file (including losing a race with the janitor)
// is reported as fault.NotFound.
func (store *Store) ResolveForServing(id string) (afero.File, os.FileInfo, error) {
	if !ValidID(id) {
		return nil, nil, fault.New(fault.NotFound, "artifact %q not found", id)
	}

	path, err := store.Locate(id)
	if err != nil {
		return nil, nil, err
	}

	file, err := store.fs.Open(path)
	if err != nil {
		return nil, nil, fault.Wrap(fault.NotFound, err, "artifact %s could not be opened", id)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, nil, fault.Wrap(fault.NotFound, err, "artifact %s could not be inspected", id)
	}

	return file, info, nil
}

// ValidID reports whether id is a canonical, hyphenated UUID string.
func ValidID(id string) bool {
	if len(id) != 36 {
		return false
	}

	_, err := uuid.Parse(id)
	return err == nil
}

func isLeftover(name string) bool {
	for _, suffix := range leftoverSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}

	return false
}
