package internal

import (
	"context"
	"fmt"
	"sync"

	"github.com/hbomb79/Reel/internal/api"
	"github.com/hbomb79/Reel/internal/artifact"
	"github.com/hbomb79/Reel/internal/browser"
	"github.com/hbomb79/Reel/internal/download"
	"github.com/hbomb79/Reel/internal/extract"
	"github.com/hbomb79/Reel/internal/identity"
	"github.com/hbomb79/Reel/internal/innertube"
	"github.com/hbomb79/Reel/internal/service"
	"github.com/hbomb79/Reel/internal/ytdlp"
	"github.com/hbomb79/Reel/pkg/logger"
	"github.com/spf13/afero"
)

var log = logger.Get("Core")

type RunnableService interface {
	Run(context.Context) error
}

// reelImpl represents the top-level object for the server, and is responsible
// for constructing the extraction chain, the download orchestrator, the artifact
// store and the services which run for the lifetime of the process.
type reelImpl struct {
	config  ReelConfig
	store   *artifact.Store
	service *service.Service

	restGateway RunnableService
	janitor     *artifact.Janitor
}

func New(config ReelConfig) (*reelImpl, error) {
	logger.SetMinLoggingLevel(logger.ParseLevel(config.LogLevel).Level())
	log.Emit(logger.DEBUG, "Bootstrapping Reel services using config: %#v\n", config)

	store, err := artifact.NewStore(afero.NewOsFs(), config.Artifacts.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to construct artifact store: %w", err)
	}
	store.WithPreferredExt(config.Download.MergeFormat)

	identities := identity.NewDefaultPool()
	ytdlpClient := ytdlp.New(config.YtDlp)
	chain, err := extract.NewChain(config.Extraction, identities, map[string]extract.Engine{
		extract.EngineYtdlp:     ytdlpClient,
		extract.EngineInnertube: innertube.New(innertube.DefaultEndpoint, nil),
		extract.EngineBrowser:   browser.New(config.Browser),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to construct extraction chain: %w", err)
	}
	log.Emit(logger.INFO, "Extraction strategies: %v\n", chain.Strategies())

	orchestrator, err := download.New(config.Download, store, ytdlpClient, identities)
	if err != nil {
		return nil, fmt.Errorf("failed to construct download orchestrator: %w", err)
	}

	reel := &reelImpl{
		config:  config,
		store:   store,
		service: service.New(chain, orchestrator, store),
		janitor: artifact.NewJanitor(store, config.Artifacts),
	}
	reel.restGateway = api.NewRestGateway(&config.API, reel.service)

	return reel, nil
}

// Service returns the request-level operations, for callers (such as the
// CLI) which want to use Reel without the HTTP gateway.
func (reel *reelImpl) Service() *service.Service { return reel.service }

// Janitor returns the artifact janitor, allowing a single sweep to be
// performed on demand.
func (reel *reelImpl) Janitor() *artifact.Janitor { return reel.janitor }

// Run will start the REST gateway and the artifact janitor. This function
// will not return until Reel is stopped.
// To stop Reel, the provided context must be cancelled. Errors from which Reel
// cannot recover will also cause Reel to stop, and the first such error is
// returned.
func (reel *reelImpl) Run(parent context.Context) error {
	ctx, cancel := context.WithCancelCause(parent)
	defer cancel(nil)

	crashHandler := func(label string, err error) {
		log.Emit(logger.FATAL, "Service crash (%s)! %s\n", label, err.Error())
		cancel(fmt.Errorf("%s: %w", label, err))
	}

	wg := &sync.WaitGroup{}
	reel.spawnAsyncService(ctx, wg, reel.janitor, "artifact-janitor", crashHandler)
	reel.spawnAsyncService(ctx, wg, reel.restGateway, "rest-gateway", crashHandler)
	log.Emit(logger.SUCCESS, "Reel services spawned!\n")

	wg.Wait()
	log.Emit(logger.STOP, "Reel services stopped\n")

	if cause := context.Cause(ctx); cause != ctx.Err() {
		return cause
	}

	return nil
}

// spawnAsyncService will run the provided service as it's own
// go-routine, ensuring that the Reel service waitgroup is updated correctly
func (reel *reelImpl) spawnAsyncService(ctx context.Context, wg *sync.WaitGroup, service RunnableService, serviceLabel string, crashHandler func(string, error)) {
	log.Emit(logger.NEW, "Spawning %s\n", serviceLabel)
	wg.Add(1)

	go func(wg *sync.WaitGroup, label string, crash func(string, error)) {
		defer func() {
			if r := recover(); r != nil {
				crash(label, fmt.Errorf("panic %v", r))
			}
		}()

		defer wg.Done()
		if err := service.Run(ctx); err != nil {
			crash(label, err)
		}
	}(wg, serviceLabel, crashHandler)
}
