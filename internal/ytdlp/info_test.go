package ytdlp

import (
	"testing"

	"github.com/hbomb79/Reel/internal/extract"
	"github.com/hbomb79/Reel/internal/fault"
	"github.com/hbomb79/Reel/internal/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDump = `[youtube] Extracting URL: https://www.youtube.com/watch?v=abc123
{"id": "abc123", "title": "T", "uploader": null, "channel": "U", "duration": 41.6, "thumbnail": "https://i.ytimg.com/vi/abc123/hq.jpg",
 "formats": [
  {"format_id": "sb0", "ext": "mhtml", "vcodec": "none", "acodec": "none", "height": 90},
  {"format_id": "140", "format_note": "medium", "ext": "m4a", "vcodec": "none", "acodec": "mp4a.40.2", "filesize": 3400000},
  {"format_id": "18", "format_note": "360p", "ext": "mp4", "vcodec": "avc1.42001E", "acodec": "mp4a.40.2", "height": 360, "filesize_approx": 9100000.0, "url": "https://rr.googlevideo.com/18"},
  {"format_id": "137", "format_note": "1080p", "ext": "mp4", "vcodec": "avc1.640028", "acodec": "none", "height": 1080, "filesize": null}
 ]}`

func Test_ParseInfo(t *testing.T) {
	raw, err := ParseInfo(sampleDump)
	require.NoError(t, err)

	assert.Equal(t, "T", raw.Title)
	assert.Equal(t, "U", raw.Uploader, "channel used when uploader is null")
	assert.InDelta(t, 41.6, raw.Duration, 0.001)
	require.Len(t, raw.Formats, 4)

	assert.False(t, raw.Formats[0].HasVideo)
	assert.False(t, raw.Formats[0].HasAudio)
	assert.False(t, raw.Formats[1].HasVideo)
	assert.True(t, raw.Formats[1].HasAudio)
	assert.Equal(t, extract.RawFormat{
		FormatID: "18", FormatNote: "360p", Ext: "mp4", URL: "https://rr.googlevideo.com/18",
		Height: 360, FilesizeApprox: 9100000, HasVideo: true, HasAudio: true,
	}, raw.Formats[2])
	assert.True(t, raw.Formats[3].HasVideo)
	assert.False(t, raw.Formats[3].HasAudio)
	assert.Zero(t, raw.Formats[3].Size())
}

func Test_ParseInfo_Failures(t *testing.T) {
	_, err := ParseInfo("ERROR: something went wrong")
	assert.Equal(t, fault.Transient, fault.KindOf(err))

	_, err = ParseInfo(`{"title": `)
	assert.Equal(t, fault.Transient, fault.KindOf(err))

	_, err = ParseInfo(`{"id": "abc"}`)
	assert.Error(t, err)
}

func Test_BuildInvocation(t *testing.T) {
	id := identity.Identity{Name: "test", UserAgent: "identity-ua", Headers: map[string]string{"Accept-Language": "en-GB"}}
	strategy := extract.Strategy{
		Name:          "android-flat",
		PlayerClient:  "android",
		SkipProtocols: []string{"dash", "hls"},
		Headers:       map[string]string{"User-Agent": "persona-ua"},
	}

	inv := buildInvocation(id, strategy)
	assert.Equal(t, "youtube:player_client=android;skip=dash,hls", inv.extractorArgs)
	assert.Equal(t, []string{"Accept-Language:en-GB", "User-Agent:persona-ua"}, inv.headers)
}

func Test_BuildInvocation_NoExtractorArgs(t *testing.T) {
	inv := buildInvocation(identity.Identity{UserAgent: "ua"}, extract.Strategy{Name: "bare"})
	assert.Empty(t, inv.extractorArgs)
	assert.Equal(t, []string{"User-Agent:ua"}, inv.headers)
}

func Test_Tail(t *testing.T) {
	assert.Equal(t, "b | c", tail("a\nb\nc\n", 2))
	assert.Equal(t, "no error output", describe("  "))
}
