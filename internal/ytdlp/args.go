package ytdlp

import (
	"fmt"
	"slices"
	"strings"

	"github.com/hbomb79/Reel/internal/extract"
	"github.com/hbomb79/Reel/internal/identity"
)

// invocation is the identity and strategy specific portion of a yt-dlp
// command line.
type invocation struct {
	headers       []string
	extractorArgs string
}

// args renders the trailing arguments for the command: one --add-headers
// pair per merged header, then the URL. The builder keeps only a single
// --add-headers value, so the headers are passed as raw arguments instead.
func (inv invocation) args(url string) []string {
	args := make([]string, 0, len(inv.headers)*2+1)
	for _, header := range inv.headers {
		args = append(args, "--add-headers", header)
	}

	return append(args, url)
}

// buildInvocation merges the identity headers with the strategy's persona
// headers (strategy wins) and renders the youtube extractor arguments for
// the strategy's player client and skipped protocols.
func buildInvocation(id identity.Identity, strategy extract.Strategy) invocation {
	merged := id.Merge(strategy.Headers)

	headers := make([]string, 0, len(merged))
	for key := range merged {
		headers = append(headers, fmt.Sprintf("%s:%s", key, merged.Get(key)))
	}
	slices.Sort(headers)

	args := make([]string, 0, 2)
	if strategy.PlayerClient != "" {
		args = append(args, "player_client="+strategy.PlayerClient)
	}
	if len(strategy.SkipProtocols) > 0 {
		args = append(args, "skip="+strings.Join(strategy.SkipProtocols, ","))
	}

	inv := invocation{headers: headers}
	if len(args) > 0 {
		inv.extractorArgs = "youtube:" + strings.Join(args, ";")
	}

	return inv
}
