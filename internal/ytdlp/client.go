// Package ytdlp drives the yt-dlp command line tool. It provides both an
// extraction engine (metadata only) and the fetcher used by the download
// orchestrator.
package ytdlp

import (
	"context"
	"fmt"

	"github.com/hbomb79/Reel/internal/download"
	"github.com/hbomb79/Reel/internal/extract"
	"github.com/hbomb79/Reel/internal/identity"
	"github.com/hbomb79/Reel/pkg/logger"
	"github.com/lrstanley/go-ytdlp"
)

var log = logger.Get("YtDlp")

type Config struct {
	BinPath string `yaml:"bin_path" env:"YTDLP_BIN_PATH" env-default:"yt-dlp"`
}

// Client invokes yt-dlp on behalf of the extraction chain and the download
// orchestrator. Each call constructs a new command, so a Client is safe for
// concurrent use.
type Client struct {
	config Config
}

func New(config Config) *Client {
	return &Client{config: config}
}

// Extract runs yt-dlp in metadata mode (--dump-single-json) for the URL
// given, presenting the identity's headers and the strategy's player client.
func (client *Client) Extract(ctx context.Context, url string, id identity.Identity, strategy extract.Strategy) (*extract.RawInfo, error) {
	inv := buildInvocation(id, strategy)
	cmd := client.command(inv).
		DumpSingleJSON().
		SkipDownload()

	log.Emit(logger.VERBOSE, "Running yt-dlp metadata extraction for %s (strategy %s)\n", url, strategy.Name)
	result, err := cmd.Run(ctx, inv.args(url)...)
	if err != nil {
		return nil, runError(result, err)
	}

	return ParseInfo(result.Stdout)
}

// Fetch downloads the media for URL in to the output template provided by the
// request, merging separate video and audio streams in to the requested
// container. The info JSON printed once the download completes provides the
// title and final filename.
//
// The file's modification time is left as the time of download (--no-mtime)
// as the janitor ages artifacts by it.
func (client *Client) Fetch(ctx context.Context, url string, id identity.Identity, strategy extract.Strategy, req download.FetchRequest) (*download.FetchResult, error) {
	inv := buildInvocation(id, strategy)
	cmd := client.command(inv).
		Format(req.FormatSelector).
		Output(req.OutputTemplate).
		ForceOverwrites().
		NoMtime().
		PrintJSON()
	if req.MergeFormat != "" {
		cmd.MergeOutputFormat(req.MergeFormat)
	}

	log.Emit(logger.DEBUG, "Running yt-dlp download for %s using format %q\n", url, req.FormatSelector)
	result, err := cmd.Run(ctx, inv.args(url)...)
	if err != nil {
		return nil, runError(result, err)
	}

	fetched := &download.FetchResult{}
	info, err := result.GetExtractedInfo()
	if err != nil || len(info) == 0 {
		log.Emit(logger.WARNING, "yt-dlp reported no info JSON for %s: %v\n", url, err)
		return fetched, nil
	}

	if info[0].Title != nil {
		fetched.Title = *info[0].Title
	}
	if info[0].Filename != nil {
		fetched.Filename = *info[0].Filename
	} else if info[0].AltFilename != nil {
		fetched.Filename = *info[0].AltFilename
	}

	return fetched, nil
}

// command constructs the base yt-dlp invocation shared by extraction and
// download. Headers are not set here; see invocation.args.
func (client *Client) command(inv invocation) *ytdlp.Command {
	cmd := ytdlp.New().
		NoWarnings().
		NoPlaylist().
		NoProgress()
	if client.config.BinPath != "" {
		cmd.SetExecutable(client.config.BinPath)
	}
	if inv.extractorArgs != "" {
		cmd.ExtractorArgs(inv.extractorArgs)
	}

	return cmd
}

// runError attaches yt-dlp's error output to the error returned by the
// command, which is what the classifier inspects.
func runError(result *ytdlp.Result, err error) error {
	if result == nil {
		return fmt.Errorf("yt-dlp failed: %w", err)
	}

	return fmt.Errorf("yt-dlp exited with code %d (%s): %w", result.ExitCode, describe(result.Stderr), err)
}
