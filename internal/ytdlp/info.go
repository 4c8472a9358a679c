package ytdlp

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/hbomb79/Reel/internal/extract"
	"github.com/hbomb79/Reel/internal/fault"
)

// infoJSON is the subset of yt-dlp's info dict that Reel consumes.
type (
	infoJSON struct {
		ID        string       `json:"id"`
		Title     string       `json:"title"`
		Uploader  string       `json:"uploader"`
		Channel   string       `json:"channel"`
		Duration  float64      `json:"duration"`
		Thumbnail string       `json:"thumbnail"`
		Formats   []formatJSON `json:"formats"`
	}

	formatJSON struct {
		FormatID       string  `json:"format_id"`
		FormatNote     string  `json:"format_note"`
		Ext            string  `json:"ext"`
		URL            string  `json:"url"`
		Height         float64 `json:"height"`
		Filesize       float64 `json:"filesize"`
		FilesizeApprox float64 `json:"filesize_approx"`
		VCodec         string  `json:"vcodec"`
		ACodec         string  `json:"acodec"`
	}
)

// ParseInfo decodes the output of `yt-dlp --dump-single-json`. yt-dlp may
// emit log lines ahead of the JSON document, so decoding begins at the
// first line which opens a JSON object.
func ParseInfo(stdout string) (*extract.RawInfo, error) {
	start := strings.Index(stdout, "{")
	if start < 0 {
		return nil, fault.New(fault.Transient, "yt-dlp produced no JSON output")
	}

	var info infoJSON
	if err := json.NewDecoder(strings.NewReader(stdout[start:])).Decode(&info); err != nil {
		return nil, fault.Wrap(fault.Transient, err, "failed to parse yt-dlp JSON output")
	}
	if info.Title == "" && len(info.Formats) == 0 {
		return nil, fault.Wrap(fault.Transient, errors.New("empty info dict"), "yt-dlp output for %q carried no title or formats", info.ID)
	}

	uploader := info.Uploader
	if uploader == "" {
		uploader = info.Channel
	}

	raw := &extract.RawInfo{
		Title:     info.Title,
		Uploader:  uploader,
		Thumbnail: info.Thumbnail,
		Duration:  info.Duration,
		Formats:   make([]extract.RawFormat, 0, len(info.Formats)),
	}
	for _, f := range info.Formats {
		raw.Formats = append(raw.Formats, f.toRaw())
	}

	return raw, nil
}

func (f formatJSON) toRaw() extract.RawFormat {
	height := int(f.Height)
	return extract.RawFormat{
		FormatID:       f.FormatID,
		FormatNote:     f.FormatNote,
		Ext:            f.Ext,
		URL:            f.URL,
		Height:         height,
		Filesize:       int64(f.Filesize),
		FilesizeApprox: int64(f.FilesizeApprox),
		HasVideo:       hasCodec(f.VCodec) || (f.VCodec == "" && height > 0),
		HasAudio:       hasCodec(f.ACodec),
	}
}

func hasCodec(codec string) bool {
	return codec != "" && codec != "none"
}

// tail returns the last n non-empty lines of the output given, which is
// where yt-dlp reports the reason for a failure.
func tail(output string, n int) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}

	return strings.Join(lines, " | ")
}

func describe(stderr string) string {
	if strings.TrimSpace(stderr) == "" {
		return "no error output"
	}

	return fmt.Sprintf("stderr: %s", tail(stderr, 3))
}
