package browser

import (
	"testing"

	"github.com/hbomb79/Reel/internal/extract"
	"github.com/hbomb79/Reel/internal/fault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_DecodePage(t *testing.T) {
	value := map[string]any{
		"status":    "OK",
		"title":     "T",
		"author":    "U",
		"duration":  "42",
		"thumbnail": "https://i/x.jpg",
		"formats": []any{
			map[string]any{"itag": "18", "url": "https://rr/18", "height": float64(360), "qualityLabel": "360p", "contentLength": "1000", "audioQuality": "AUDIO_QUALITY_LOW"},
			map[string]any{"itag": "140", "url": "https://rr/140", "height": float64(0), "contentLength": "20", "audioQuality": "AUDIO_QUALITY_MEDIUM"},
		},
	}

	raw, err := decodePage(value)
	require.NoError(t, err)
	assert.Equal(t, "T", raw.Title)
	assert.Equal(t, "U", raw.Uploader)
	assert.Equal(t, float64(42), raw.Duration)
	require.Len(t, raw.Formats, 2)
	assert.Equal(t, extract.RawFormat{FormatID: "18", FormatNote: "360p", URL: "https://rr/18", Height: 360, Filesize: 1000, HasVideo: true, HasAudio: true}, raw.Formats[0])
	assert.False(t, raw.Formats[1].HasVideo)

	metadata := extract.Normalize(raw, extract.ModePreset, 15)
	require.Len(t, metadata.Formats, 3)
	assert.Equal(t, "https://rr/18", metadata.Formats[0].URL)
}

func Test_DecodePage_Failures(t *testing.T) {
	_, err := decodePage(map[string]any{"status": "LOGIN_REQUIRED", "reason": "Sign in to confirm you're not a bot"})
	assert.Equal(t, fault.RateLimited, fault.KindOf(err))

	_, err = decodePage(map[string]any{"status": "ERROR", "reason": "Something odd"})
	assert.Equal(t, fault.Unavailable, fault.KindOf(err))

	_, err = decodePage(map[string]any{"status": "OK"})
	assert.Error(t, err, "no title")

	_, err = decodePage("not an object")
	assert.Error(t, err)
}
