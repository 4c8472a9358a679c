// Package browser implements the last-resort extraction engine: a stealth
// headless browser loads the watch page and the player response embedded in
// the page is read back.
package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/hbomb79/Reel/internal/extract"
	"github.com/hbomb79/Reel/internal/fault"
	"github.com/hbomb79/Reel/internal/identity"
	"github.com/hbomb79/Reel/pkg/logger"
	"github.com/mitchellh/mapstructure"
)

var log = logger.Get("Browser")

type Config struct {
	BinPath  string        `yaml:"bin_path" env:"BROWSER_BIN_PATH"`
	Headless bool          `yaml:"headless" env:"BROWSER_HEADLESS" env-default:"true"`
	Settle   time.Duration `yaml:"settle" env:"BROWSER_SETTLE" env-default:"3s"`
}

// pageScript collects the player response and page metadata. Formats are
// flattened in to one list so that the result decodes without knowledge of
// the player response layout.
const pageScript = `() => {
	const player = window.ytInitialPlayerResponse || {};
	const details = player.videoDetails || {};
	const status = player.playabilityStatus || {};
	const streaming = player.streamingData || {};
	const thumbs = (details.thumbnail && details.thumbnail.thumbnails) || [];
	const meta = (name) => {
		const el = document.querySelector('meta[itemprop="' + name + '"], meta[property="og:' + name + '"]');
		return el ? el.getAttribute('content') : '';
	};
	return {
		status: status.status || '',
		reason: status.reason || '',
		title: details.title || meta('title') || document.title || '',
		author: details.author || '',
		duration: details.lengthSeconds || '0',
		thumbnail: thumbs.length ? thumbs[thumbs.length - 1].url : meta('image'),
		formats: (streaming.formats || []).concat(streaming.adaptiveFormats || []).map(f => ({
			itag: String(f.itag || ''),
			url: f.url || '',
			mimeType: f.mimeType || '',
			height: f.height || 0,
			qualityLabel: f.qualityLabel || '',
			contentLength: f.contentLength || '0',
			audioQuality: f.audioQuality || '',
		})),
	};
}`

type (
	Engine struct {
		config Config
	}

	pageInfo struct {
		Status    string       `mapstructure:"status"`
		Reason    string       `mapstructure:"reason"`
		Title     string       `mapstructure:"title"`
		Author    string       `mapstructure:"author"`
		Duration  float64      `mapstructure:"duration"`
		Thumbnail string       `mapstructure:"thumbnail"`
		Formats   []pageFormat `mapstructure:"formats"`
	}

	pageFormat struct {
		ITag          string `mapstructure:"itag"`
		URL           string `mapstructure:"url"`
		MimeType      string `mapstructure:"mimeType"`
		Height        int    `mapstructure:"height"`
		QualityLabel  string `mapstructure:"qualityLabel"`
		ContentLength int64  `mapstructure:"contentLength"`
		AudioQuality  string `mapstructure:"audioQuality"`
	}
)

func New(config Config) *Engine {
	return &Engine{config: config}
}

// Extract launches a browser, loads the URL with the identity's user-agent,
// waits for the page to settle and evaluates pageScript.
func (engine *Engine) Extract(ctx context.Context, url string, id identity.Identity, _ extract.Strategy) (*extract.RawInfo, error) {
	l := engine.launcher(ctx)
	defer l.Cleanup()

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}
	defer browser.Close()

	page, err := stealth.Page(browser)
	if err != nil {
		return nil, fmt.Errorf("failed to open stealth page: %w", err)
	}
	defer page.Close()

	if id.UserAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: id.UserAgent}); err != nil {
			return nil, fmt.Errorf("failed to set user-agent: %w", err)
		}
	}

	log.Emit(logger.VERBOSE, "Navigating browser to %s as %s\n", url, id.Name)
	if err := page.Navigate(url); err != nil {
		return nil, fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("page did not load: %w", err)
	}
	if err := settle(ctx, engine.config.Settle); err != nil {
		return nil, err
	}

	result, err := page.Eval(pageScript)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate page script: %w", err)
	}

	return decodePage(result.Value.Val())
}

func (engine *Engine) launcher(ctx context.Context) *launcher.Launcher {
	l := launcher.New().
		Context(ctx).
		Headless(engine.config.Headless).
		Set("no-sandbox").
		Set("disable-gpu").
		Set("disable-dev-shm-usage")
	if engine.config.BinPath != "" {
		l = l.Bin(engine.config.BinPath)
	}

	return l
}

// decodePage converts the value returned by pageScript in to RawInfo.
func decodePage(value any) (*extract.RawInfo, error) {
	var info pageInfo
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &info,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(value); err != nil {
		return nil, fault.Wrap(fault.Transient, err, "unexpected page script result")
	}

	if info.Status != "" && info.Status != "OK" {
		kind := extract.ClassifyMessage(info.Reason)
		if kind == fault.Transient {
			kind = fault.Unavailable
		}
		return nil, fault.New(kind, "page reports %s: %s", info.Status, info.Reason)
	}
	if info.Title == "" {
		return nil, errors.New("page did not expose a title")
	}

	raw := &extract.RawInfo{
		Title:     info.Title,
		Uploader:  info.Author,
		Thumbnail: info.Thumbnail,
		Duration:  info.Duration,
		Formats:   make([]extract.RawFormat, 0, len(info.Formats)),
	}
	for _, f := range info.Formats {
		raw.Formats = append(raw.Formats, extract.RawFormat{
			FormatID:   f.ITag,
			FormatNote: f.QualityLabel,
			URL:        f.URL,
			Height:     f.Height,
			Filesize:   f.ContentLength,
			HasVideo:   f.Height > 0,
			HasAudio:   f.AudioQuality != "",
		})
	}

	return raw, nil
}

func settle(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
