package extract

import "time"

// Config controls the ordering and bounds of the extraction strategy
// chain.
type Config struct {
	// Names of the strategies to attempt, in order. See StrategyNames
	// for the accepted values.
	Strategies []string `yaml:"strategies" env:"EXTRACT_STRATEGIES" env-separator:"," env-default:"web-full,android-flat,ios-innertube"`

	// Upper bound on a single extraction attempt, used when a strategy
	// does not declare its own.
	Timeout time.Duration `yaml:"timeout" env:"EXTRACT_TIMEOUT" env-default:"45s"`

	// Number of times a Transient failure is retried within a strategy
	// before the chain moves on.
	Retries int `yaml:"retries" env:"EXTRACT_RETRIES" env-default:"2"`

	// Delay before retry N is N * RetryBackoff.
	RetryBackoff time.Duration `yaml:"retry_backoff" env:"EXTRACT_RETRY_BACKOFF" env-default:"2s"`

	// Maximum number of upstream formats considered per response.
	FormatLimit int `yaml:"format_limit" env:"EXTRACT_FORMAT_LIMIT" env-default:"15"`
}
