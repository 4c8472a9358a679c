package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hbomb79/Reel/internal/fault"
	"github.com/hbomb79/Reel/internal/identity"
	"github.com/hbomb79/Reel/internal/source"
	"github.com/hbomb79/Reel/pkg/logger"
)

var log = logger.Get("Extract")

type (
	// Engine is an underlying extraction mechanism. It is given the
	// canonical source URL, the identity to present, and the strategy
	// being attempted, and returns the raw information or a raw error.
	Engine interface {
		Extract(ctx context.Context, url string, id identity.Identity, strategy Strategy) (*RawInfo, error)
	}

	identitySource interface {
		Rotation() *identity.Rotation
	}

	// Chain executes an ordered list of strategies until one succeeds.
	// Transient failures are retried within a strategy and then passed
	// over to the next strategy; RateLimited and Unavailable failures
	// stop the chain immediately.
	Chain struct {
		config     Config
		strategies []Strategy
		engines    map[string]Engine
		identities identitySource
		sleep      func(context.Context, time.Duration) error
	}

	// attemptFailure records the outcome of one failed strategy, used
	// to build the aggregated error when the chain is exhausted.
	attemptFailure struct {
		strategy string
		err      *fault.Error
	}
)

// NewChain constructs a chain using the strategies named in the config. Each
// strategy must name an engine present in the engines provided.
func NewChain(config Config, identities identitySource, engines map[string]Engine) (*Chain, error) {
	if len(config.Strategies) == 0 {
		return nil, errors.New("extraction chain requires at least one strategy")
	}

	strategies := make([]Strategy, 0, len(config.Strategies))
	for _, name := range config.Strategies {
		strategy, err := LookupStrategy(name)
		if err != nil {
			return nil, err
		}

		strategies = append(strategies, strategy)
	}

	return NewChainWithStrategies(config, identities, engines, strategies)
}

// NewChainWithStrategies constructs a chain over an explicit strategy list,
// bypassing the catalogue. The config's Strategies field is ignored.
func NewChainWithStrategies(config Config, identities identitySource, engines map[string]Engine, strategies []Strategy) (*Chain, error) {
	if len(strategies) == 0 {
		return nil, errors.New("extraction chain requires at least one strategy")
	}
	for _, strategy := range strategies {
		if _, ok := engines[strategy.Engine]; !ok {
			return nil, fmt.Errorf("strategy %s requires engine %q, which is not available", strategy.Name, strategy.Engine)
		}
	}

	return &Chain{
		config:     config,
		strategies: strategies,
		engines:    engines,
		identities: identities,
		sleep:      sleepContext,
	}, nil
}

// Strategies returns the names of the strategies in the order they will
// be attempted.
func (chain *Chain) Strategies() []string {
	names := make([]string, len(chain.strategies))
	for i, s := range chain.strategies {
		names[i] = s.Name
	}

	return names
}

// ExtractInfo runs the strategies in order for the reference given. The
// first successful strategy's normalized output is returned. If every
// strategy fails, the returned *fault.Error carries the most specific kind
// encountered, and wraps the failure which produced it.
func (chain *Chain) ExtractInfo(ctx context.Context, ref source.Reference) (*VideoMetadata, error) {
	if ref.IsZero() {
		return nil, fault.New(fault.InvalidURL, "source reference is empty")
	}

	rotation := chain.identities.Rotation()
	failures := make([]attemptFailure, 0, len(chain.strategies))
	for _, strategy := range chain.strategies {
		metadata, err := chain.runStrategy(ctx, ref, strategy, rotation)
		if err == nil {
			log.Emit(logger.SUCCESS, "Extracted %s using strategy %s (%d formats)\n", ref.ID, strategy.Name, len(metadata.Formats))
			return metadata, nil
		}

		failures = append(failures, attemptFailure{strategy: strategy.Name, err: err})
		switch err.Kind {
		case fault.RateLimited:
			log.Emit(logger.WARNING, "Strategy %s for %s was rate limited, abandoning remaining strategies: %v\n", strategy.Name, ref.ID, err)
			return nil, err
		case fault.Unavailable:
			log.Emit(logger.WARNING, "Strategy %s reports %s is unavailable: %v\n", strategy.Name, ref.ID, err)
			return nil, err
		}

		log.Emit(logger.DEBUG, "Strategy %s for %s failed, falling back: %v\n", strategy.Name, ref.ID, err)
		if ctx.Err() != nil {
			break
		}
	}

	return nil, aggregate(ref, failures)
}

// runStrategy performs the (possibly retried) attempts of a single
// strategy. Only Transient failures are retried, and each attempt draws
// a fresh identity from the rotation.
func (chain *Chain) runStrategy(ctx context.Context, ref source.Reference, strategy Strategy, rotation *identity.Rotation) (*VideoMetadata, *fault.Error) {
	engine := chain.engines[strategy.Engine]
	timeout, retries := chain.boundsFor(strategy)

	var last *fault.Error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			if err := chain.sleep(ctx, time.Duration(attempt)*chain.config.RetryBackoff); err != nil {
				return nil, fault.Wrap(fault.Transient, err, "strategy %s cancelled before retry", strategy.Name)
			}
		}

		id := rotation.Next()
		log.Emit(logger.VERBOSE, "Attempt %d/%d of strategy %s for %s as %s\n", attempt+1, retries+1, strategy.Name, ref.ID, id.Name)

		metadata, err := chain.attempt(ctx, engine, ref, id, strategy, timeout)
		if err == nil {
			return metadata, nil
		}

		last = fault.Wrap(Classify(err), err, "strategy %s attempt %d/%d", strategy.Name, attempt+1, retries+1)
		if last.Kind != fault.Transient || ctx.Err() != nil {
			return nil, last
		}
	}

	return nil, last
}

func (chain *Chain) attempt(ctx context.Context, engine Engine, ref source.Reference, id identity.Identity, strategy Strategy, timeout time.Duration) (*VideoMetadata, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	raw, err := engine.Extract(attemptCtx, ref.URL, id, strategy)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, fault.New(fault.Transient, "engine %s returned no information", strategy.Engine)
	}

	metadata := Normalize(raw, strategy.Mode, chain.config.FormatLimit)
	if len(metadata.Formats) == 0 {
		return nil, fault.New(fault.Transient, "no usable formats in %d upstream formats", len(raw.Formats))
	}

	return metadata, nil
}

func (chain *Chain) boundsFor(strategy Strategy) (time.Duration, int) {
	timeout := strategy.Timeout
	if timeout <= 0 {
		timeout = chain.config.Timeout
	}
	if timeout <= 0 {
		timeout = 45 * time.Second
	}

	retries := strategy.Retries
	if retries == 0 {
		retries = chain.config.Retries
	}

	return timeout, max(retries, 0)
}

// aggregate builds the error returned when every strategy has failed. The
// most specific kind wins; ties go to the later failure.
func aggregate(ref source.Reference, failures []attemptFailure) *fault.Error {
	if len(failures) == 0 {
		return fault.New(fault.Transient, "no extraction strategies attempted for %s", ref.ID)
	}

	best := failures[0].err
	summary := make([]string, 0, len(failures))
	for _, f := range failures {
		if fault.Rank(f.err.Kind) >= fault.Rank(best.Kind) {
			best = f.err
		}

		summary = append(summary, fmt.Sprintf("%s: %s", f.strategy, f.err.Kind))
	}

	return fault.Wrap(best.Kind, best, "all extraction strategies failed for %s [%s]", ref.ID, strings.Join(summary, ", "))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
