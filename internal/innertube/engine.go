// Package innertube implements an extraction engine which talks directly to
// YouTube's internal player API while presenting as a mobile app client.
package innertube

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/hbomb79/Reel/internal/extract"
	"github.com/hbomb79/Reel/internal/fault"
	"github.com/hbomb79/Reel/internal/identity"
	"github.com/hbomb79/Reel/internal/source"
	"github.com/hbomb79/Reel/pkg/logger"
)

const (
	DefaultEndpoint      = "https://www.youtube.com/youtubei/v1/player?prettyPrint=false"
	defaultClientVersion = "20.11.6"
	maxResponseBytes     = 8 << 20
)

var log = logger.Get("Innertube")

type (
	// ClientFactory returns the HTTP client used to issue requests as the
	// identity given.
	ClientFactory func(id identity.Identity) *http.Client

	Engine struct {
		endpoint   string
		clientFunc ClientFactory
	}

	playerRequest struct {
		Context        requestContext `json:"context"`
		VideoID        string         `json:"videoId"`
		ContentCheckOk bool           `json:"contentCheckOk"`
		RacyCheckOk    bool           `json:"racyCheckOk"`
	}

	requestContext struct {
		Client requestClient `json:"client"`
	}

	requestClient struct {
		ClientName    string `json:"clientName"`
		ClientVersion string `json:"clientVersion"`
		DeviceMake    string `json:"deviceMake"`
		DeviceModel   string `json:"deviceModel"`
		UserAgent     string `json:"userAgent"`
		OsName        string `json:"osName"`
		OsVersion     string `json:"osVersion"`
		Hl            string `json:"hl"`
		Gl            string `json:"gl"`
	}

	playerResponse struct {
		PlayabilityStatus struct {
			Status string `json:"status"`
			Reason string `json:"reason"`
		} `json:"playabilityStatus"`
		VideoDetails struct {
			VideoID       string `json:"videoId"`
			Title         string `json:"title"`
			LengthSeconds string `json:"lengthSeconds"`
			Author        string `json:"author"`
			Thumbnail     struct {
				Thumbnails []struct {
					URL    string `json:"url"`
					Width  int    `json:"width"`
					Height int    `json:"height"`
				} `json:"thumbnails"`
			} `json:"thumbnail"`
		} `json:"videoDetails"`
		StreamingData struct {
			Formats         []streamFormat `json:"formats"`
			AdaptiveFormats []streamFormat `json:"adaptiveFormats"`
		} `json:"streamingData"`
	}

	streamFormat struct {
		ITag          int    `json:"itag"`
		URL           string `json:"url"`
		MimeType      string `json:"mimeType"`
		Height        int    `json:"height"`
		QualityLabel  string `json:"qualityLabel"`
		ContentLength string `json:"contentLength"`
		AudioQuality  string `json:"audioQuality"`
	}
)

// New constructs an engine against the endpoint given (DefaultEndpoint when
// empty). A nil clientFunc uses the identity's fingerprinted client.
func New(endpoint string, clientFunc ClientFactory) *Engine {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if clientFunc == nil {
		clientFunc = func(id identity.Identity) *http.Client { return id.Client(0) }
	}

	return &Engine{endpoint: endpoint, clientFunc: clientFunc}
}

// Extract issues a player request for the video referenced by url. Timeouts
// are governed by ctx.
func (engine *Engine) Extract(ctx context.Context, url string, id identity.Identity, strategy extract.Strategy) (*extract.RawInfo, error) {
	ref, err := source.Resolve(url)
	if err != nil {
		return nil, err
	}

	headers := id.Merge(strategy.Headers)
	body, err := json.Marshal(newPlayerRequest(ref.ID, headers))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal player request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, engine.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create player request: %w", err)
	}
	req.Header = headers
	req.Header.Set("Content-Type", "application/json")

	log.Emit(logger.VERBOSE, "POST %s for %s as %s\n", engine.endpoint, ref.ID, id.Name)
	resp, err := engine.clientFunc(id).Do(req)
	if err != nil {
		return nil, fmt.Errorf("player request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read player response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("player API returned HTTP Error %d: %s", resp.StatusCode, snippet(payload))
	}

	var response playerResponse
	if err := json.Unmarshal(payload, &response); err != nil {
		return nil, fmt.Errorf("failed to parse player response: %w", err)
	}

	return toRawInfo(&response)
}

func newPlayerRequest(videoID string, headers http.Header) playerRequest {
	version := headers.Get("X-Youtube-Client-Version")
	if version == "" {
		version = defaultClientVersion
	}

	return playerRequest{
		Context: requestContext{Client: requestClient{
			ClientName:    "IOS",
			ClientVersion: version,
			DeviceMake:    "Apple",
			DeviceModel:   "iPhone16,2",
			UserAgent:     headers.Get("User-Agent"),
			OsName:        "iOS",
			OsVersion:     "18.1.0.22B83",
			Hl:            "en",
			Gl:            "US",
		}},
		VideoID:        videoID,
		ContentCheckOk: true,
		RacyCheckOk:    true,
	}
}

// toRawInfo converts the player response, mapping a non-OK playability
// status to a classified failure.
func toRawInfo(response *playerResponse) (*extract.RawInfo, error) {
	status := response.PlayabilityStatus
	switch status.Status {
	case "OK":
	case "LOGIN_REQUIRED":
		if kind := extract.ClassifyMessage(status.Reason); kind == fault.RateLimited {
			return nil, fault.New(kind, "player refused request: %s", status.Reason)
		}
		return nil, fault.New(fault.Unavailable, "login required: %s", status.Reason)
	case "UNPLAYABLE", "ERROR", "CONTENT_CHECK_REQUIRED", "AGE_CHECK_REQUIRED":
		return nil, fault.New(fault.Unavailable, "video not playable (%s): %s", status.Status, status.Reason)
	default:
		return nil, fault.New(extract.ClassifyMessage(status.Reason), "unexpected playability status %q: %s", status.Status, status.Reason)
	}

	details := response.VideoDetails
	duration, _ := strconv.ParseFloat(details.LengthSeconds, 64)
	raw := &extract.RawInfo{
		Title:    details.Title,
		Uploader: details.Author,
		Duration: duration,
	}
	if thumbs := details.Thumbnail.Thumbnails; len(thumbs) > 0 {
		raw.Thumbnail = thumbs[len(thumbs)-1].URL
	}

	streams := response.StreamingData
	raw.Formats = make([]extract.RawFormat, 0, len(streams.Formats)+len(streams.AdaptiveFormats))
	for _, f := range streams.Formats {
		raw.Formats = append(raw.Formats, f.toRaw())
	}
	for _, f := range streams.AdaptiveFormats {
		raw.Formats = append(raw.Formats, f.toRaw())
	}

	return raw, nil
}

func (f streamFormat) toRaw() extract.RawFormat {
	size, _ := strconv.ParseInt(f.ContentLength, 10, 64)
	mimeType, codecs, _ := strings.Cut(f.MimeType, ";")
	kind, ext, _ := strings.Cut(strings.TrimSpace(mimeType), "/")

	hasVideo := kind == "video"
	hasAudio := kind == "audio" || (hasVideo && (f.AudioQuality != "" || strings.Contains(codecs, ",")))

	return extract.RawFormat{
		FormatID:   strconv.Itoa(f.ITag),
		FormatNote: f.QualityLabel,
		Ext:        ext,
		URL:        f.URL,
		Height:     f.Height,
		Filesize:   size,
		HasVideo:   hasVideo,
		HasAudio:   hasAudio,
	}
}

func snippet(body []byte) string {
	const limit = 200
	text := strings.TrimSpace(string(body))
	if len(text) > limit {
		return text[:limit] + "..."
	}

	return text
}
