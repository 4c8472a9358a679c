// Package download turns a resolved source reference in to a media file on
// disk, using the external fetch tool and reconciling the file it actually
// produced.
package download

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/hbomb79/Reel/internal/artifact"
	"github.com/hbomb79/Reel/internal/extract"
	"github.com/hbomb79/Reel/internal/fault"
	"github.com/hbomb79/Reel/internal/identity"
	"github.com/hbomb79/Reel/internal/source"
	"github.com/hbomb79/Reel/pkg/logger"
	"github.com/labstack/gommon/bytes"
)

// DefaultFormatSelector prefers the best video up to 1080p merged with the
// best audio, falling back to the best single file.
const DefaultFormatSelector = "bv*[height<=1080]+ba/b[height<=1080]/b"

var log = logger.Get("Download")

type (
	Config struct {
		Strategy      string        `yaml:"strategy" env:"DOWNLOAD_STRATEGY" env-default:"web-full"`
		MergeFormat   string        `yaml:"merge_format" env:"DOWNLOAD_MERGE_FORMAT" env-default:"mp4"`
		DefaultFormat string        `yaml:"default_format" env:"DOWNLOAD_DEFAULT_FORMAT"`
		Timeout       time.Duration `yaml:"timeout" env:"DOWNLOAD_TIMEOUT" env-default:"15m"`
		Retries       int           `yaml:"retries" env:"DOWNLOAD_RETRIES" env-default:"1"`
	}

	FetchRequest struct {
		FormatSelector string
		OutputTemplate string
		MergeFormat    string
	}

	FetchResult struct {
		Title    string
		Filename string
	}

	// Fetcher downloads the media at url to the output template in the
	// request, presenting the identity and strategy persona given.
	Fetcher interface {
		Fetch(ctx context.Context, url string, id identity.Identity, strategy extract.Strategy, req FetchRequest) (*FetchResult, error)
	}

	identitySource interface {
		Rotation() *identity.Rotation
	}

	Result struct {
		Artifact artifact.Artifact
		Title    string
	}

	// Orchestrator fetches a single reference per call. It writes at most one
	// file per call and never deletes anything; expiry is the janitor's job.
	Orchestrator struct {
		config     Config
		strategy   extract.Strategy
		store      *artifact.Store
		fetcher    Fetcher
		identities identitySource
	}
)

func New(config Config, store *artifact.Store, fetcher Fetcher, identities identitySource) (*Orchestrator, error) {
	name := config.Strategy
	if name == "" {
		name = "web-full"
	}

	strategy, err := extract.LookupStrategy(name)
	if err != nil {
		return nil, fmt.Errorf("download strategy: %w", err)
	}

	orchestrator := &Orchestrator{
		config:     config,
		strategy:   strategy,
		store:      store,
		fetcher:    fetcher,
		identities: identities,
	}
	if merge, preferred := orchestrator.mergeFormat(), store.PreferredExt(); merge != preferred {
		return nil, fmt.Errorf("merge format %q does not match the artifact store's preferred extension %q", merge, preferred)
	}

	return orchestrator, nil
}

// Download fetches the reference using the format selector given (or the
// configured default when empty) and returns the artifact produced.
//
// The fetch runs detached from the caller's cancellation and is bounded only
// by the configured timeout, so that a client disconnect does not leave a
// half-written file behind.
func (orchestrator *Orchestrator) Download(ctx context.Context, ref source.Reference, formatSelector string) (*Result, error) {
	if ref.IsZero() {
		return nil, fault.New(fault.InvalidURL, "source reference is empty")
	}

	id := orchestrator.store.NewID()
	request := FetchRequest{
		FormatSelector: orchestrator.selector(formatSelector),
		OutputTemplate: orchestrator.store.OutputTemplate(id),
		MergeFormat:    orchestrator.mergeFormat(),
	}

	fetchCtx := context.WithoutCancel(ctx)
	if orchestrator.config.Timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(fetchCtx, orchestrator.config.Timeout)
		defer cancel()
	}

	log.Emit(logger.NEW, "Downloading %s as artifact %s (format %q)\n", ref.ID, id, request.FormatSelector)
	fetched, err := orchestrator.fetch(fetchCtx, ref, request)
	if err != nil {
		return nil, err
	}

	path, err := orchestrator.store.Locate(id)
	if err != nil {
		return nil, fault.Wrap(fault.DownloadIncomplete, err, "fetch of %s completed but no output file was found for artifact %s (tool reported %q)", ref.ID, id, fetched.Filename)
	}
	if fetched.Filename != "" && filepath.Base(fetched.Filename) != filepath.Base(path) {
		log.Emit(logger.WARNING, "Fetch of %s reported output %s, but artifact %s resolves to %s\n", ref.ID, filepath.Base(fetched.Filename), id, filepath.Base(path))
	}

	title := fetched.Title
	if title == "" {
		title = ref.ID
	}

	if info, err := orchestrator.store.Fs().Stat(path); err == nil {
		log.Emit(logger.SUCCESS, "Downloaded %s to %s (%s)\n", ref.ID, filepath.Base(path), bytes.Format(info.Size()))
	}

	return &Result{
		Artifact: artifact.Artifact{ID: id, Path: path, CreatedAt: time.Now()},
		Title:    title,
	}, nil
}

// fetch invokes the fetcher, retrying Transient failures with a fresh
// identity each time.
func (orchestrator *Orchestrator) fetch(ctx context.Context, ref source.Reference, request FetchRequest) (*FetchResult, error) {
	rotation := orchestrator.identities.Rotation()
	retries := max(orchestrator.config.Retries, 0)

	var last *fault.Error
	for attempt := 0; attempt <= retries; attempt++ {
		id := rotation.Next()
		fetched, err := orchestrator.fetcher.Fetch(ctx, ref.URL, id, orchestrator.strategy, request)
		if err == nil {
			if fetched == nil {
				fetched = &FetchResult{}
			}
			return fetched, nil
		}

		last = fault.Wrap(extract.Classify(err), err, "fetch attempt %d/%d for %s", attempt+1, retries+1, ref.ID)
		log.Emit(logger.WARNING, "Fetch attempt %d/%d for %s as %s failed: %v\n", attempt+1, retries+1, ref.ID, id.Name, err)
		if last.Kind != fault.Transient || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			break
		}
	}

	return nil, last
}

func (orchestrator *Orchestrator) selector(requested string) string {
	if requested != "" {
		return requested
	}
	if orchestrator.config.DefaultFormat != "" {
		return orchestrator.config.DefaultFormat
	}

	return DefaultFormatSelector
}

func (orchestrator *Orchestrator) mergeFormat() string {
	if orchestrator.config.MergeFormat != "" {
		return orchestrator.config.MergeFormat
	}

	return "mp4"
}
