package extract

import (
	"fmt"
	"math"
	"strings"

	"github.com/samber/lo"
)

type (
	// RawInfo is the engine-independent shape of the information an
	// extraction engine returns, before any normalization.
	RawInfo struct {
		Title     string
		Uploader  string
		Thumbnail string
		Duration  float64
		Formats   []RawFormat
	}

	// RawFormat is a single format as reported by an engine. Sizes of
	// zero are unknown.
	RawFormat struct {
		FormatID       string
		FormatNote     string
		Ext            string
		URL            string
		Height         int
		Filesize       int64
		FilesizeApprox int64
		HasVideo       bool
		HasAudio       bool
	}

	// FormatOption describes one fetchable rendition. Within a set
	// returned by Normalize, the (Quality, Resolution) pair is unique.
	FormatOption struct {
		FormatID   string `json:"format_id"`
		Quality    string `json:"quality"`
		Ext        string `json:"ext"`
		Filesize   int64  `json:"filesize"`
		Resolution int    `json:"resolution"`

		// URL is the direct stream URL, when upstream exposed one.
		URL string `json:"-"`
		// Muxed is true when the rendition carries audio and video.
		Muxed bool `json:"-"`
	}

	VideoMetadata struct {
		Title     string         `json:"title"`
		Author    string         `json:"author"`
		Duration  int            `json:"duration"`
		Thumbnail string         `json:"thumbnail"`
		Formats   []FormatOption `json:"formats"`
	}
)

// presetFormats are returned by ModePreset strategies. The format IDs are
// the long-lived progressive itags, with 'best' deferring the choice to
// the fetch tool.
var presetFormats = []FormatOption{
	{FormatID: "18", Quality: "360p", Ext: "mp4", Resolution: 360, Muxed: true},
	{FormatID: "22", Quality: "720p", Ext: "mp4", Resolution: 720, Muxed: true},
	{FormatID: "best", Quality: "Best", Ext: "mp4", Muxed: true},
}

// Size returns the known size of the format, preferring the exact size
// over the approximation. Zero means unknown.
func (f RawFormat) Size() int64 {
	if f.Filesize > 0 {
		return f.Filesize
	}
	if f.FilesizeApprox > 0 {
		return f.FilesizeApprox
	}

	return 0
}

func (f RawFormat) quality() string {
	if note := strings.TrimSpace(f.FormatNote); note != "" {
		return note
	}
	if f.Height > 0 {
		return fmt.Sprintf("%dp", f.Height)
	}

	return f.FormatID
}

func (f RawFormat) toOption() FormatOption {
	return FormatOption{
		FormatID:   f.FormatID,
		Quality:    f.quality(),
		Ext:        f.Ext,
		Filesize:   f.Size(),
		Resolution: f.Height,
		URL:        f.URL,
		Muxed:      f.HasVideo && f.HasAudio,
	}
}

// Normalize converts raw engine output in to VideoMetadata. Formats with an
// unknown size and formats without video are discarded (as are formats
// without audio in ModeFlat), at most limit formats are considered, and the
// survivors are de-duplicated on (Quality, Resolution). ModePreset skips all
// of this in favour of the preset format list.
func Normalize(raw *RawInfo, mode Mode, limit int) *VideoMetadata {
	metadata := &VideoMetadata{
		Title:     raw.Title,
		Author:    raw.Uploader,
		Duration:  int(math.Round(math.Max(raw.Duration, 0))),
		Thumbnail: raw.Thumbnail,
	}

	if mode == ModePreset {
		metadata.Formats = presetsFrom(raw.Formats)
		return metadata
	}

	candidates := lo.Filter(raw.Formats, func(f RawFormat, _ int) bool {
		if f.Size() <= 0 || !f.HasVideo {
			return false
		}

		return mode != ModeFlat || f.HasAudio
	})
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	metadata.Formats = Dedupe(lo.Map(candidates, func(f RawFormat, _ int) FormatOption { return f.toOption() }))
	return metadata
}

// Dedupe collapses formats sharing a (Quality, Resolution) pair, keeping
// the first occurrence and preserving order.
func Dedupe(formats []FormatOption) []FormatOption {
	return lo.UniqBy(formats, func(f FormatOption) string {
		return fmt.Sprintf("%s|%d", f.Quality, f.Resolution)
	})
}

// presetsFrom returns a copy of the preset formats, populating the direct
// URL of each preset from the upstream format with the same ID, if any.
func presetsFrom(upstream []RawFormat) []FormatOption {
	byID := lo.SliceToMap(upstream, func(f RawFormat) (string, RawFormat) { return f.FormatID, f })

	return lo.Map(presetFormats, func(preset FormatOption, _ int) FormatOption {
		if match, ok := byID[preset.FormatID]; ok {
			preset.URL = match.URL
			preset.Filesize = match.Size()
		}

		return preset
	})
}
