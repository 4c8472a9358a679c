package source

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/hbomb79/Reel/internal/fault"
)

const canonicalHost = "www.youtube.com"

var (
	idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

	// aliasHosts are the hosts which serve the same content as the
	// canonical host, and are collapsed to it when building the
	// canonical URL.
	aliasHosts = map[string]struct{}{
		"youtube.com":              {},
		"www.youtube.com":          {},
		"m.youtube.com":            {},
		"music.youtube.com":        {},
		"gaming.youtube.com":       {},
		"youtu.be":                 {},
		"www.youtu.be":             {},
		"youtube-nocookie.com":     {},
		"www.youtube-nocookie.com": {},
		"youtubekids.com":          {},
		"www.youtubekids.com":      {},
	}
)

type (
	// Reference is a validated reference to a remote video. A Reference
	// only exists if an ID was extracted from the source URL, and the URL
	// it holds is rebuilt from that ID so every accepted shape of the same
	// content yields an identical Reference.
	Reference struct {
		ID  string
		URL string
	}

	// matcher attempts to extract a content ID from a parsed URL. The
	// bool return indicates whether the URL matched this shape at all.
	matcher struct {
		label string
		match func(*url.URL) (string, bool)
	}
)

// matchers are tried in order; the first to match wins.
var matchers = []matcher{
	{label: "watch", match: matchWatch},
	{label: "short", match: matchShortLink},
	{label: "embed", match: matchPathPrefix("embed")},
	{label: "legacy", match: matchPathPrefix("v", "shorts", "live")},
}

// IsZero reports whether the reference is the zero value, which is never
// returned by Resolve alongside a nil error.
func (ref Reference) IsZero() bool { return ref.ID == "" }

func (ref Reference) String() string { return ref.URL }

// Resolve parses a raw source URL in to a Reference. Watch pages, short
// links, embed links and shorts/live/legacy paths are understood. If
// no pattern yields an ID, a fault.InvalidURL error is returned.
func Resolve(rawURL string) (Reference, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return Reference{}, fault.New(fault.InvalidURL, "no URL provided")
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return Reference{}, fault.Wrap(fault.InvalidURL, err, "URL %q could not be parsed", trimmed)
	}

	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return Reference{}, fault.New(fault.InvalidURL, "URL %q must use http or https", trimmed)
	}
	if parsed.Hostname() == "" {
		return Reference{}, fault.New(fault.InvalidURL, "URL %q has no host", trimmed)
	}

	for _, m := range matchers {
		id, ok := m.match(parsed)
		if !ok {
			continue
		}

		if !idPattern.MatchString(id) {
			return Reference{}, fault.New(fault.InvalidURL, "URL %q matched %s shape but %q is not a valid content ID", trimmed, m.label, id)
		}

		return Reference{ID: id, URL: canonicalURL(parsed, id)}, nil
	}

	return Reference{}, fault.New(fault.InvalidURL, "URL %q does not reference a video", trimmed)
}

func matchWatch(u *url.URL) (string, bool) {
	if !strings.HasSuffix(strings.TrimSuffix(u.Path, "/"), "/watch") {
		return "", false
	}

	id := u.Query().Get("v")
	return id, id != ""
}

func matchShortLink(u *url.URL) (string, bool) {
	host := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
	if host != "youtu.be" && host != "www.youtu.be" {
		return "", false
	}

	segment := firstSegment(u.Path)
	return segment, segment != ""
}

// matchPathPrefix returns a matcher func which accepts paths of the
// form /<prefix>/<id>, for any of the prefixes given.
func matchPathPrefix(prefixes ...string) func(*url.URL) (string, bool) {
	return func(u *url.URL) (string, bool) {
		parts := strings.Split(strings.Trim(u.Path, "/"), "/")
		if len(parts) < 2 {
			return "", false
		}

		for _, prefix := range prefixes {
			if parts[0] == prefix && parts[1] != "" {
				return parts[1], true
			}
		}

		return "", false
	}
}

func firstSegment(path string) string {
	trimmed := strings.Trim(path, "/")
	if idx := strings.IndexByte(trimmed, '/'); idx >= 0 {
		return trimmed[:idx]
	}

	return trimmed
}

func canonicalURL(u *url.URL, id string) string {
	host := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
	if _, ok := aliasHosts[host]; ok {
		host = canonicalHost
	} else if port := u.Port(); port != "" {
		host = host + ":" + port
	}

	canonical := url.URL{
		Scheme:   "https",
		Host:     host,
		Path:     "/watch",
		RawQuery: url.Values{"v": []string{id}}.Encode(),
	}
	return canonical.String()
}
