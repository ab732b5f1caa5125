package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	httptransport "github.com/samueladole/crovio/internal/api/http"
	"github.com/samueladole/crovio/internal/api/http/handlers"
	"github.com/samueladole/crovio/internal/auth"
	"github.com/samueladole/crovio/internal/config"
	"github.com/samueladole/crovio/internal/events"
	"github.com/samueladole/crovio/internal/observability"
	"github.com/samueladole/crovio/internal/persistence"
	"github.com/samueladole/crovio/internal/repository"
	"github.com/samueladole/crovio/internal/service"
	"github.com/samueladole/crovio/internal/worker"
)

const tokenIssuer = "crovio"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Env)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	for _, warning := range cfg.Auth.Warnings() {
		logger.Warn(warning)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(registry)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	if pg.PoolHandle() == nil {
		logger.Fatal("POSTGRES_DSN is required")
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	rdb := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer rdb.Close()

	var denylist auth.Denylist
	if rdb.Enabled() {
		denylist = auth.NewRedisDenylist(rdb.Client)
	} else {
		denylist = auth.NewMemoryDenylist(cfg.Auth.DenylistCapacity, cfg.Auth.RefreshTTL())
	}

	codec, err := auth.NewTokenCodec(cfg.Auth.AccessSecret, cfg.Auth.RefreshSecret,
		auth.WithLeeway(cfg.Auth.Leeway()),
		auth.WithIssuer(tokenIssuer),
		auth.WithDenylist(denylist),
	)
	if err != nil {
		logger.Fatal("failed to build token codec", zap.Error(err))
	}
	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost)

	pool := pg.PoolHandle()
	userRepo := repository.NewBreakerUserRepository(repository.NewUserRepository(pool), cfg.Breaker, metrics, logger)
	productRepo := repository.NewProductRepository(pool)
	postRepo := repository.NewPostRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	dealerRepo := repository.NewDealerRepository(pool)

	dispatcher := events.NewInMemoryDispatcher(logger)
	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger))

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo:   userRepo,
		Codec:      codec,
		Hasher:     hasher,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})
	productService := service.NewProductService(productRepo)
	postService := service.NewPostService(postRepo)
	commentService := service.NewCommentService(postService, commentRepo)
	dealerService := service.NewDealerService(dealerRepo)

	resolver := auth.NewIdentityResolver(codec, logger, metrics)
	authMiddleware := auth.NewAuthMiddleware(resolver)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httptransport.ErrorHandler(logger, metrics),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	var redisHealth handlers.Pinger
	if rdb.Enabled() {
		redisHealth = rdb
	}

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redisHealth),
		Auth:           handlers.NewAuthHandler(authService),
		Products:       handlers.NewProductsHandler(productService),
		Posts:          handlers.NewPostsHandler(postService),
		Comments:       handlers.NewCommentsHandler(commentService),
		Dealers:        handlers.NewDealersHandler(dealerService),
		AuthMiddleware: authMiddleware,
		Roles:          userRepo,
		RateLimiter:    httptransport.NewRateLimiter(cfg.RateLimit),
		Metrics:        metrics.Handler(),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
