package http

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"spotlapse/internal/cache"
	"spotlapse/internal/config"
	"spotlapse/internal/database"
	"spotlapse/internal/handler"
	"spotlapse/internal/logging"
	"spotlapse/internal/queue"
	"spotlapse/internal/redis"
	"spotlapse/internal/repository"
	"spotlapse/internal/service"
	"spotlapse/internal/worker"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
)

// Run wires every component from cfg and serves until SIGINT or SIGTERM.
func Run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Row store
	db, err := database.Connect(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.EnsureSchema(ctx, db); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	// 2. Object storage
	media, err := service.NewMediaService(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to init media service: %w", err)
	}

	// 3. Redis (optional): stats cache, activity stream, workers
	var (
		statsCache cache.StatsCache
		publisher  queue.Publisher
		manager    *worker.Manager
	)
	checks := map[string]handler.HealthCheck{
		"postgres": db.PingContext,
	}

	profileRepo := repository.NewProfileRepository(db)
	spotRepo := repository.NewSpotRepository(db)
	captureRepo := repository.NewCaptureRepository(db)
	followRepo := repository.NewFollowRepository(db)

	if cfg.RedisURL != "" {
		redisClient, err := redis.NewClient(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to create redis client: %w", err)
		}
		defer redisClient.Close()

		if err := redisClient.Ping(ctx); err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		logging.Info().Msg("Connected to Redis")

		statsCache = cache.NewStatsCache(redisClient.Client, cfg.StatsCacheTTL)
		publisher = queue.NewPublisher(redisClient.Client)
		checks["redis"] = redisClient.Ping

		workerCfg := worker.DefaultManagerConfig()
		workerCfg.WorkerCount = cfg.WorkerCount
		manager = worker.NewManager(
			queue.NewConsumer(redisClient.Client),
			worker.NewHandler(statsCache, profileRepo),
			workerCfg,
		)
	} else {
		logging.Warn().Msg("REDIS_URL not set, stats cache and activity workers disabled")
	}

	// 4. Services
	resolver := service.NewSpotResolver(spotRepo, cfg.SpotNameLocation)
	profileService := service.NewProfileService(profileRepo, spotRepo, captureRepo, followRepo, statsCache)
	followService := service.NewFollowService(followRepo, profileRepo, statsCache, publisher)
	captureService := service.NewCaptureService(captureRepo, resolver, media, statsCache, publisher)
	feedService := service.NewFeedService(captureRepo, profileRepo)
	spotService := service.NewSpotService(spotRepo)
	searchService := service.NewSearchService(profileRepo, spotRepo, captureRepo)

	// 5. Router
	router := NewRouter(RouterConfig{
		ProfileHandler: handler.NewProfileHandler(profileService),
		FollowHandler:  handler.NewFollowHandler(followService),
		CaptureHandler: handler.NewCaptureHandler(captureService),
		FeedHandler:    handler.NewFeedHandler(feedService),
		SpotHandler:    handler.NewSpotHandler(spotService),
		SearchHandler:  handler.NewSearchHandler(searchService),
		HealthHandler:  handler.NewHealthHandler(checks),

		JWTSecret:              cfg.JWTSecret,
		CORSAllowedOrigins:     cfg.CORSAllowedOrigins,
		CaptureRateLimitPerMin: cfg.CaptureRateLimitPerMin,
	})

	srv := &stdhttp.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	if manager != nil {
		if err := manager.Start(gctx); err != nil {
			return fmt.Errorf("failed to start workers: %w", err)
		}
		g.Go(func() error {
			<-gctx.Done()
			logging.Info().Msg("Stopping workers")
			manager.Stop()
			return nil
		})
	}

	g.Go(func() error {
		logging.Info().Str("port", cfg.ServerPort).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logging.Info().Msg("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
