package identity

import (
	"maps"
	"net/http"
)

// Engine names the browser engine an Identity claims to be. It decides
// which TLS ClientHello is presented when Reel itself talks to upstream.
type Engine string

const (
	Blink  Engine = "blink"
	Gecko  Engine = "gecko"
	WebKit Engine = "webkit"
)

// Identity is a simulated browser fingerprint: the user-agent and the
// accompanying headers that a real browser on the named OS would send.
type Identity struct {
	Name      string
	OS        string
	Engine    Engine
	UserAgent string
	Headers   map[string]string
}

// Merge layers the provided headers over the identity's own headers and
// returns the result as an http.Header. The provided headers win, which
// allows a strategy persona to replace the user-agent of the identity
// when the persona requires it (e.g. a mobile app client).
func (id Identity) Merge(overrides map[string]string) http.Header {
	merged := make(http.Header, len(id.Headers)+len(overrides)+1)
	if id.UserAgent != "" {
		merged.Set("User-Agent", id.UserAgent)
	}
	for k, v := range id.Headers {
		merged.Set(k, v)
	}
	for k, v := range overrides {
		merged.Set(k, v)
	}

	return merged
}

// clone returns a deep copy so that callers can never mutate the
// records held by a Pool.
func (id Identity) clone() Identity {
	out := id
	out.Headers = maps.Clone(id.Headers)
	return out
}

const (
	acceptHTML  = "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8"
	acceptBlink = "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.7"
)

// DefaultIdentities is the built-in pool of identities. It covers the
// desktop and mobile platforms most seen in real traffic across the
// Blink, Gecko and WebKit engines.
var DefaultIdentities = []Identity{
	{
		Name:      "chrome-windows",
		OS:        "windows",
		Engine:    Blink,
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
		Headers: map[string]string{
			"Accept":             acceptBlink,
			"Accept-Language":    "en-US,en;q=0.9",
			"Sec-Ch-Ua":          `"Google Chrome";v="131", "Chromium";v="131", "Not_A Brand";v="24"`,
			"Sec-Ch-Ua-Mobile":   "?0",
			"Sec-Ch-Ua-Platform": `"Windows"`,
		},
	},
	{
		Name:      "edge-windows",
		OS:        "windows",
		Engine:    Blink,
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36 Edg/131.0.0.0",
		Headers: map[string]string{
			"Accept":             acceptBlink,
			"Accept-Language":    "en-GB,en;q=0.9,en-US;q=0.8",
			"Sec-Ch-Ua":          `"Microsoft Edge";v="131", "Chromium";v="131", "Not_A Brand";v="24"`,
			"Sec-Ch-Ua-Mobile":   "?0",
			"Sec-Ch-Ua-Platform": `"Windows"`,
		},
	},
	{
		Name:      "chrome-macos",
		OS:        "macos",
		Engine:    Blink,
		UserAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/130.0.0.0 Safari/537.36",
		Headers: map[string]string{
			"Accept":             acceptBlink,
			"Accept-Language":    "en-US,en;q=0.9",
			"Sec-Ch-Ua":          `"Chromium";v="130", "Google Chrome";v="130", "Not?A_Brand";v="99"`,
			"Sec-Ch-Ua-Mobile":   "?0",
			"Sec-Ch-Ua-Platform": `"macOS"`,
		},
	},
	{
		Name:      "chrome-linux",
		OS:        "linux",
		Engine:    Blink,
		UserAgent: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
		Headers: map[string]string{
			"Accept":             acceptBlink,
			"Accept-Language":    "en-US,en;q=0.8",
			"Sec-Ch-Ua":          `"Google Chrome";v="131", "Chromium";v="131", "Not_A Brand";v="24"`,
			"Sec-Ch-Ua-Mobile":   "?0",
			"Sec-Ch-Ua-Platform": `"Linux"`,
		},
	},
	{
		Name:      "chrome-android",
		OS:        "android",
		Engine:    Blink,
		UserAgent: "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.6778.104 Mobile Safari/537.36",
		Headers: map[string]string{
			"Accept":             acceptBlink,
			"Accept-Language":    "en-US,en;q=0.9",
			"Sec-Ch-Ua":          `"Google Chrome";v="131", "Chromium";v="131", "Not_A Brand";v="24"`,
			"Sec-Ch-Ua-Mobile":   "?1",
			"Sec-Ch-Ua-Platform": `"Android"`,
		},
	},
	{
		Name:      "firefox-windows",
		OS:        "windows",
		Engine:    Gecko,
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:133.0) Gecko/20100101 Firefox/133.0",
		Headers: map[string]string{
			"Accept":                    acceptHTML,
			"Accept-Language":           "en-US,en;q=0.5",
			"Upgrade-Insecure-Requests": "1",
		},
	},
	{
		Name:      "firefox-linux",
		OS:        "linux",
		Engine:    Gecko,
		UserAgent: "Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:132.0) Gecko/20100101 Firefox/132.0",
		Headers: map[string]string{
			"Accept":                    acceptHTML,
			"Accept-Language":           "en-GB,en;q=0.5",
			"Upgrade-Insecure-Requests": "1",
		},
	},
	{
		Name:      "firefox-macos",
		OS:        "macos",
		Engine:    Gecko,
		UserAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X 14.7; rv:133.0) Gecko/20100101 Firefox/133.0",
		Headers: map[string]string{
			"Accept":                    acceptHTML,
			"Accept-Language":           "en-US,en;q=0.5",
			"Upgrade-Insecure-Requests": "1",
		},
	},
	{
		Name:      "safari-macos",
		OS:        "macos",
		Engine:    WebKit,
		UserAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/18.1 Safari/605.1.15",
		Headers: map[string]string{
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
			"Accept-Language": "en-US,en;q=0.9",
		},
	},
	{
		Name:      "safari-ios",
		OS:        "ios",
		Engine:    WebKit,
		UserAgent: "Mozilla/5.0 (iPhone; CPU iPhone OS 18_1 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/18.1 Mobile/15E148 Safari/604.1",
		Headers: map[string]string{
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
			"Accept-Language": "en-US,en;q=0.9",
		},
	},
}
