package app

import (
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/w2wlabs/what2watch/external/apifootball"
	"github.com/w2wlabs/what2watch/external/eplschedule"
	"github.com/w2wlabs/what2watch/external/recommender"
	"github.com/w2wlabs/what2watch/external/streamcatalog"
	"github.com/w2wlabs/what2watch/internal/config"
	"github.com/w2wlabs/what2watch/internal/domain/broadcast"
	"github.com/w2wlabs/what2watch/internal/domain/watchlist"
	"github.com/w2wlabs/what2watch/internal/infrastructure/repository/memory"
	"github.com/w2wlabs/what2watch/internal/infrastructure/repository/postgres"
	"github.com/w2wlabs/what2watch/internal/interfaces/httpapi"
	"github.com/w2wlabs/what2watch/internal/platform/cache"
	idgen "github.com/w2wlabs/what2watch/internal/platform/id"
	"github.com/w2wlabs/what2watch/internal/platform/localtime"
	"github.com/w2wlabs/what2watch/internal/platform/logging"
	"github.com/w2wlabs/what2watch/internal/platform/resilience"
	"github.com/w2wlabs/what2watch/internal/usecase"
)

// App bundles the HTTP server with the connections it owns.
type App struct {
	Server *http.Server

	db          *sqlx.DB
	redisClient *redis.Client
	logger      *logging.Logger
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.NewJSON(cfg.LogLevel)
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	a := &App{logger: logger}

	store, err := a.buildCacheStore(cfg)
	if err != nil {
		return nil, err
	}
	loader := cache.NewLoader(store)

	converter, err := localtime.NewConverter(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("build time converter: %w", err)
	}
	channels := broadcast.NewDirectory()

	watchlistRepo, err := a.buildWatchlistRepository(cfg)
	if err != nil {
		return nil, err
	}

	footballClient := apifootball.NewClient(apifootball.ClientConfig{
		BaseURL:        cfg.APIFootball.BaseURL,
		APIKey:         cfg.APIFootball.APIKey,
		Timeout:        cfg.APIFootball.Timeout,
		MaxRetries:     cfg.APIFootball.MaxRetries,
		Logger:         logger,
		CircuitBreaker: breakerConfig(cfg.APIFootball),
	})
	eplClient := eplschedule.NewClient(eplschedule.ClientConfig{
		BaseURL:        cfg.EPLSchedule.BaseURL,
		APIKey:         cfg.EPLSchedule.APIKey,
		Timeout:        cfg.EPLSchedule.Timeout,
		MaxRetries:     cfg.EPLSchedule.MaxRetries,
		Logger:         logger,
		CircuitBreaker: breakerConfig(cfg.EPLSchedule),
	})
	catalogClient := streamcatalog.NewClient(streamcatalog.ClientConfig{
		BaseURL:        cfg.StreamCatalog.BaseURL,
		APIKey:         cfg.StreamCatalog.APIKey,
		Timeout:        cfg.StreamCatalog.Timeout,
		MaxRetries:     cfg.StreamCatalog.MaxRetries,
		Logger:         logger,
		CircuitBreaker: breakerConfig(cfg.StreamCatalog),
	})
	recommenderClient := recommender.NewClient(recommender.ClientConfig{
		BaseURL:        cfg.Recommender.BaseURL,
		APIKey:         cfg.Recommender.APIKey,
		Timeout:        cfg.Recommender.Timeout,
		MaxRetries:     cfg.Recommender.MaxRetries,
		Logger:         logger,
		CircuitBreaker: breakerConfig(cfg.Recommender),
	})

	matchSvc := usecase.NewMatchService(usecase.MatchServiceConfig{
		Provider:  footballClient,
		Cache:     loader,
		Converter: converter,
		Broadcast: channels,
		Logger:    logger,
	})
	premierLeagueSvc := usecase.NewPremierLeagueService(usecase.PremierLeagueServiceConfig{
		Provider:  eplClient,
		Cache:     loader,
		Converter: converter,
		Broadcast: channels,
		Logger:    logger,
	})
	footballMetaSvc := usecase.NewFootballMetaService(usecase.FootballMetaServiceConfig{
		Provider:  footballClient,
		Cache:     loader,
		Broadcast: channels,
		Logger:    logger,
	})
	streamingSvc := usecase.NewStreamingService(usecase.StreamingServiceConfig{
		Provider: catalogClient,
		Cache:    loader,
		Logger:   logger,
	})
	recommendSvc := usecase.NewRecommendService(usecase.RecommendServiceConfig{
		Provider: recommenderClient,
		Cache:    loader,
		Logger:   logger,
	})
	watchlistSvc := usecase.NewWatchlistService(watchlistRepo, idgen.NewRandomGenerator())

	handler := httpapi.NewHandler(
		matchSvc,
		premierLeagueSvc,
		footballMetaSvc,
		streamingSvc,
		recommendSvc,
		watchlistSvc,
		logger,
	)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	a.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return a, nil
}

// Close releases the database and cache connections after the HTTP
// server has been shut down.
func (a *App) Close() error {
	var firstErr error
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			firstErr = fmt.Errorf("close db: %w", err)
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close redis: %w", err)
		}
	}

	return firstErr
}

func (a *App) buildCacheStore(cfg config.Config) (cache.Store, error) {
	if cfg.CacheBackend != config.CacheBackendRedis {
		a.logger.Info("cache backend selected", "backend", config.CacheBackendMemory)
		return cache.NewMemoryStore(), nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}

	client := redis.NewClient(opts)
	a.redisClient = client
	a.logger.Info("cache backend selected", "backend", config.CacheBackendRedis, "addr", opts.Addr)

	return cache.NewRedisStore(client, cfg.ServiceName, a.logger), nil
}

func (a *App) buildWatchlistRepository(cfg config.Config) (watchlist.Repository, error) {
	if !cfg.DBEnabled {
		a.logger.Info("watchlist storage selected", "backend", "memory")
		return memory.NewWatchlistRepository(), nil
	}

	db, err := otelsqlx.Connect("postgres", normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	a.db = db
	a.logger.Info("watchlist storage selected", "backend", "postgres", "db", dbNameFromURL(cfg.DBURL))

	return postgres.NewWatchlistRepository(db), nil
}

func breakerConfig(p config.ProviderConfig) resilience.BreakerConfig {
	return resilience.BreakerConfig{
		Enabled:          p.CircuitEnabled,
		FailureThreshold: p.CircuitFailureCount,
		OpenTimeout:      p.CircuitOpenTimeout,
		HalfOpenMaxReq:   p.CircuitHalfOpenMaxReq,
	}
}
