package api

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hbomb79/Reel/internal/api/files"
	"github.com/hbomb79/Reel/internal/api/health"
	"github.com/hbomb79/Reel/internal/api/videos"
	"github.com/hbomb79/Reel/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
)

var log = logger.Get("API")

const (
	apiPrefix    = "/api"
	filesPrefix  = apiPrefix + "/file"
	healthPrefix = apiPrefix + "/health"
)

type (
	RestConfig struct {
		HostAddr      string   `yaml:"host_address" env:"API_HOST_ADDR" env-default:"0.0.0.0:5000"`
		CorsOrigins   []string `yaml:"cors_origins" env:"API_CORS_ORIGINS" env-separator:"," env-default:"*"`
		RateLimitRPM  int      `yaml:"rate_limit_rpm" env:"API_RATE_LIMIT_RPM" env-default:"30"`
		TrustProxy    bool     `yaml:"trust_proxy" env:"API_TRUST_PROXY" env-default:"false"`
		RedisAddr     string   `yaml:"redis_addr" env:"REDIS_ADDR"`
		RedisPassword string   `yaml:"redis_password" env:"REDIS_PASSWORD"`
	}

	controller interface {
		SetRoutes(*echo.Group)
	}

	// Service represents a union of all the controller service requirements
	Service interface {
		videos.Service
		files.Service
		health.Service
	}

	// The RestGateway is a thin-wrapper around the Echo HTTP router. It's sole responsbility
	// is to create the routes Reel exposes, and to enforce the CORS and rate limiting
	// middleware.
	RestGateway struct {
		config           *RestConfig
		ec               *echo.Echo
		redis            *redis.Client
		limiter          *RateLimiter
		videoController  controller
		fileController   controller
		healthController controller
	}
)

// NewRestGateway constructs the Echo router and populates it with all the
// routes defined by the various controllers.
func NewRestGateway(config *RestConfig, service Service) *RestGateway {
	ec := echo.New()
	ec.OnAddRouteHandler = func(host string, route echo.Route, handler echo.HandlerFunc, middleware []echo.MiddlewareFunc) {
		log.Emit(logger.DEBUG, "Registered new route %s %s\n", route.Method, route.Path)
	}
	ec.HidePort = true
	ec.HideBanner = true
	ec.HTTPErrorHandler = handleError
	ec.IPExtractor = ipExtractor(config)

	validate := validator.New()
	gateway := &RestGateway{
		config:           config,
		ec:               ec,
		redis:            newRedisClient(config),
		videoController:  videos.New(validate, service, filesPrefix),
		fileController:   files.New(service),
		healthController: health.New(service),
	}
	gateway.limiter = NewRateLimiter(config.RateLimitRPM, time.Minute, gateway.redis)

	origins := config.CorsOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	ec.Use(middleware.Logger())
	ec.Use(middleware.Recover())
	ec.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodOptions},
	}))
	ec.Use(gateway.limiter.Middleware(func(ec echo.Context) bool {
		return strings.HasPrefix(ec.Request().URL.Path, healthPrefix)
	}))
	ec.Pre(middleware.AddTrailingSlash())

	gateway.videoController.SetRoutes(ec.Group(apiPrefix))
	gateway.fileController.SetRoutes(ec.Group(filesPrefix))
	gateway.healthController.SetRoutes(ec.Group(healthPrefix))

	return gateway
}

// ServeHTTP allows the gateway to be mounted or tested without starting a
// listener.
func (gateway *RestGateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	gateway.ec.ServeHTTP(w, r)
}

func (gateway *RestGateway) Run(parentCtx context.Context) error {
	ctx, ctxCancel := context.WithCancelCause(parentCtx)
	wg := &sync.WaitGroup{}

	// Start echo router
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Emit(logger.INFO, "Listening on %s\n", gateway.config.HostAddr)
		if err := gateway.ec.Start(gateway.config.HostAddr); err != nil && err != http.ErrServerClosed {
			ctxCancel(err)
		}
	}()

	// Start thread to listen for context cancellation
	go func(ec *echo.Echo) {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := ec.Shutdown(shutdownCtx); err != nil {
			ec.Close()
		}
	}(gateway.ec)

	wg.Wait()
	ctxCancel(nil)
	if gateway.redis != nil {
		gateway.redis.Close()
	}

	// Return cancellation cause if any, otherwise nil as parent context
	// cancellation is not an error case we should report.
	if cause := context.Cause(ctx); cause != ctx.Err() {
		return cause
	}

	return nil
}

// ipExtractor decides which address rate limits are keyed by. Forwarding
// headers are only honoured when Reel is deployed behind a trusted proxy,
// otherwise a client could rotate them to evade the limit.
func ipExtractor(config *RestConfig) echo.IPExtractor {
	if config.TrustProxy {
		return echo.ExtractIPFromXFFHeader()
	}

	return echo.ExtractIPDirect()
}

func newRedisClient(config *RestConfig) *redis.Client {
	if config.RedisAddr == "" {
		return nil
	}

	log.Emit(logger.INFO, "Rate limit counters shared via redis at %s\n", config.RedisAddr)
	return redis.NewClient(&redis.Options{
		Addr:         config.RedisAddr,
		Password:     config.RedisPassword,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
}
