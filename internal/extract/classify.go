package extract

import (
	"context"
	"errors"
	"regexp"

	"github.com/hbomb79/Reel/internal/fault"
)

type classification struct {
	kind    fault.Kind
	pattern *regexp.Regexp
}

// classifications are checked in order, and the first pattern to match the
// error text decides the kind. Rate limiting is checked first as upstream
// often pairs a bot check with an otherwise 'unavailable' looking message.
var classifications = []classification{
	{fault.RateLimited, regexp.MustCompile(`(?i)http error 429|too many requests|rate[- ]?limit|try again later`)},
	{fault.RateLimited, regexp.MustCompile(`(?i)confirm (that )?you(['’]re| are) not a bot|captcha|unusual traffic|automated queries`)},
	{fault.Unavailable, regexp.MustCompile(`(?i)private video|video is private|this video has been removed|video unavailable|no longer available`)},
	{fault.Unavailable, regexp.MustCompile(`(?i)account associated with this video has been terminated|(video|playlist) does not exist|http error 404`)},
	{fault.Unavailable, regexp.MustCompile(`(?i)available in your country|geo[- ]?restricted|members[- ]only|join this channel`)},
	{fault.Unavailable, regexp.MustCompile(`(?i)confirm your age|age[- ]restricted|inappropriate for some users`)},
	{fault.Unavailable, regexp.MustCompile(`(?i)premieres in|live event will begin|is not a valid url|unsupported url`)},
}

// Classify maps an extraction or fetch failure to a fault.Kind. Errors
// which have already been classified keep their kind; timeouts and
// anything unrecognised are Transient.
func Classify(err error) fault.Kind {
	if err == nil {
		return fault.Transient
	}

	var classified *fault.Error
	if errors.As(err, &classified) {
		return classified.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fault.Transient
	}

	return ClassifyMessage(err.Error())
}

// ClassifyMessage applies the classification patterns to raw error text.
func ClassifyMessage(message string) fault.Kind {
	for _, c := range classifications {
		if c.pattern.MatchString(message) {
			return c.kind
		}
	}

	return fault.Transient
}
