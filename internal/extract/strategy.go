package extract

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
)

// Mode controls how aggressively the formats returned by an engine are
// parsed in to FormatOptions.
type Mode string

const (
	// ModeFull considers every format which carries video.
	ModeFull Mode = "full"

	// ModeFlat considers only muxed formats (audio and video in one
	// stream), which are the formats degraded clients are served.
	ModeFlat Mode = "flat"

	// ModePreset ignores the upstream format list and returns a fixed set
	// of well-known formats. Used by engines which cannot enumerate
	// formats reliably.
	ModePreset Mode = "preset"
)

const (
	EngineYtdlp     = "ytdlp"
	EngineInnertube = "innertube"
	EngineBrowser   = "browser"
)

const (
	iosClientVersion = "20.11.6"
	iosUserAgent     = "com.google.ios.youtube/20.11.6 (iPhone16,2; U; CPU iOS 18_1_0 like Mac OS X;)"
)

// Strategy is a single configured attempt profile: which engine to use,
// which upstream client persona to present, which sub-protocols to skip,
// and how aggressively to parse the returned formats. Timeout and Retries
// fall back to the chain configuration when zero; a negative Retries
// disables retrying entirely.
type Strategy struct {
	Name          string
	Engine        string
	PlayerClient  string
	SkipProtocols []string
	Mode          Mode
	Headers       map[string]string
	Timeout       time.Duration
	Retries       int
}

// catalogue contains every strategy known to Reel, keyed by name. The
// order in which they are attempted is decided by configuration.
var catalogue = map[string]Strategy{
	"web-full": {
		Name:         "web-full",
		Engine:       EngineYtdlp,
		PlayerClient: "web",
		Mode:         ModeFull,
		Headers: map[string]string{
			"Origin":  "https://www.youtube.com",
			"Referer": "https://www.youtube.com/",
		},
	},
	"android-flat": {
		Name:          "android-flat",
		Engine:        EngineYtdlp,
		PlayerClient:  "android",
		SkipProtocols: []string{"dash", "hls"},
		Mode:          ModeFlat,
	},
	"tv-embedded": {
		Name:         "tv-embedded",
		Engine:       EngineYtdlp,
		PlayerClient: "tv_embedded",
		Mode:         ModeFlat,
		Headers: map[string]string{
			"Referer": "https://www.youtube.com/",
		},
	},
	"ios-innertube": {
		Name:         "ios-innertube",
		Engine:       EngineInnertube,
		PlayerClient: "ios",
		Mode:         ModeFlat,
		Headers: map[string]string{
			"User-Agent":               iosUserAgent,
			"X-Youtube-Client-Name":    "5",
			"X-Youtube-Client-Version": iosClientVersion,
		},
	},
	"browser-preset": {
		Name:    "browser-preset",
		Engine:  EngineBrowser,
		Mode:    ModePreset,
		Timeout: 60 * time.Second,
		Retries: -1,
	},
}

// LookupStrategy returns a copy of the named strategy from the catalogue.
func LookupStrategy(name string) (Strategy, error) {
	strategy, ok := catalogue[strings.TrimSpace(name)]
	if !ok {
		return Strategy{}, fmt.Errorf("unknown extraction strategy %q (known: %s)", name, strings.Join(StrategyNames(), ", "))
	}

	strategy.Headers = maps.Clone(strategy.Headers)
	strategy.SkipProtocols = slices.Clone(strategy.SkipProtocols)
	return strategy, nil
}

// StrategyNames returns the sorted names of every catalogued strategy.
func StrategyNames() []string {
	return slices.Sorted(maps.Keys(catalogue))
}

func (s Strategy) String() string {
	return fmt.Sprintf("%s(%s/%s)", s.Name, s.Engine, s.Mode)
}
