// Package service is the facade consumed by every outer surface of Reel
// (REST and CLI). It resolves raw URLs and routes them to the extraction
// chain, download orchestrator and artifact store.
package service

import (
	"context"
	"os"
	"time"

	"github.com/hbomb79/Reel/internal/download"
	"github.com/hbomb79/Reel/internal/extract"
	"github.com/hbomb79/Reel/internal/fault"
	"github.com/hbomb79/Reel/internal/source"
	"github.com/hbomb79/Reel/pkg/logger"
	"github.com/spf13/afero"
)

var log = logger.Get("Service")

type (
	extractor interface {
		ExtractInfo(ctx context.Context, ref source.Reference) (*extract.VideoMetadata, error)
	}

	downloader interface {
		Download(ctx context.Context, ref source.Reference, formatSelector string) (*download.Result, error)
	}

	artifactStore interface {
		ResolveForServing(id string) (afero.File, os.FileInfo, error)
	}

	DownloadResult struct {
		ArtifactID string `json:"artifact_id"`
		Title      string `json:"title"`
	}

	Health struct {
		Status    string    `json:"status"`
		Timestamp time.Time `json:"timestamp"`
	}

	Service struct {
		extractor  extractor
		downloader downloader
		store      artifactStore
	}
)

func New(extractor extractor, downloader downloader, store artifactStore) *Service {
	return &Service{extractor: extractor, downloader: downloader, store: store}
}

// GetInfo resolves the URL and returns the normalized metadata for it.
func (service *Service) GetInfo(ctx context.Context, rawURL string) (*extract.VideoMetadata, error) {
	ref, err := source.Resolve(rawURL)
	if err != nil {
		return nil, err
	}

	metadata, err := service.extractor.ExtractInfo(ctx, ref)
	if err != nil {
		return nil, classified(err)
	}

	return metadata, nil
}

// Download resolves the URL and fetches it using the format selector given.
// An empty selector uses the configured default.
func (service *Service) Download(ctx context.Context, rawURL string, formatSelector string) (*DownloadResult, error) {
	ref, err := source.Resolve(rawURL)
	if err != nil {
		return nil, err
	}

	result, err := service.downloader.Download(ctx, ref, formatSelector)
	if err != nil {
		return nil, classified(err)
	}

	return &DownloadResult{ArtifactID: result.Artifact.ID, Title: result.Title}, nil
}

// FetchArtifact opens the artifact with the ID given. The caller owns the
// returned file and must close it.
func (service *Service) FetchArtifact(id string) (afero.File, os.FileInfo, error) {
	file, info, err := service.store.ResolveForServing(id)
	if err != nil {
		return nil, nil, classified(err)
	}

	return file, info, nil
}

// StreamURL returns the direct stream URL of the first muxed mp4 format
// exposed for the URL given.
func (service *Service) StreamURL(ctx context.Context, rawURL string) (string, error) {
	metadata, err := service.GetInfo(ctx, rawURL)
	if err != nil {
		return "", err
	}

	for _, format := range metadata.Formats {
		if format.Muxed && format.Ext == "mp4" && format.URL != "" {
			return format.URL, nil
		}
	}

	log.Emit(logger.DEBUG, "No direct muxed mp4 stream among %d formats for %s\n", len(metadata.Formats), rawURL)
	return "", fault.New(fault.Unavailable, "no direct stream available for %s", rawURL)
}

func (service *Service) HealthCheck() Health {
	return Health{Status: "healthy", Timestamp: time.Now().UTC()}
}

// classified ensures every error leaving the facade is a *fault.Error.
func classified(err error) error {
	if _, ok := err.(*fault.Error); ok {
		return err
	}

	return fault.Wrap(fault.KindOf(err), err, "request failed")
}
