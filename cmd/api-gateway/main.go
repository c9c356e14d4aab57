package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/ideaboard-api/api/swagger"
	"github.com/noah-isme/ideaboard-api/internal/handler"
	internalmiddleware "github.com/noah-isme/ideaboard-api/internal/middleware"
	"github.com/noah-isme/ideaboard-api/internal/models"
	"github.com/noah-isme/ideaboard-api/internal/repository"
	"github.com/noah-isme/ideaboard-api/internal/service"
	"github.com/noah-isme/ideaboard-api/pkg/cache"
	"github.com/noah-isme/ideaboard-api/pkg/config"
	"github.com/noah-isme/ideaboard-api/pkg/database"
	"github.com/noah-isme/ideaboard-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/ideaboard-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/ideaboard-api/pkg/middleware/requestid"
	"github.com/noah-isme/ideaboard-api/pkg/storage"
)

// @title Ideaboard API
// @version 1.0.0
// @description Innovation ideas: submission, review, discovery, investor bookmarks and messaging
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const shutdownTimeout = 10 * time.Second

type ideaTableStore interface {
	Load(ctx context.Context) (models.IdeaTable, error)
	Save(ctx context.Context, table models.IdeaTable) error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	files, err := storage.NewLocalStorage(cfg.Storage.DataDir)
	if err != nil {
		logr.Fatal("failed to prepare data directory", zap.Error(err))
	}

	metricsSvc := service.NewMetricsService()
	validate := validator.New()
	checks := map[string]handler.ReadinessCheck{}

	users := repository.NewUserCSVRepository(files, cfg.Storage.UsersFile, logr)
	attempts := repository.NewLoginAttemptCSVRepository(files, cfg.Storage.LoginAttemptsFile, logr)
	savedTable := service.NewSavedIdeaTable(repository.NewSavedIdeaCSVRepository(files, cfg.Storage.SavedIdeasFile, logr))
	messageStore := repository.NewMessageCSVRepository(files, cfg.Storage.MessagesFile, logr)

	var ideaStore ideaTableStore = repository.NewIdeaCSVRepository(files, cfg.Storage.IdeasFile, logr)
	var db *sqlx.DB
	if cfg.Storage.Driver == config.StoragePostgres {
		db, err = database.NewPostgres(cfg.Database)
		if err != nil {
			logr.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer db.Close()
		ideaStore = repository.NewIdeaSQLRepository(db)
		checks["postgres"] = db.PingContext
	}
	checks["ideas"] = func(ctx context.Context) error {
		_, err := ideaStore.Load(ctx)
		return err
	}

	cacheSvc := newCacheService(cfg, metricsSvc, logr, checks)

	if err := bootstrapAdmin(ctx, users, cfg.Bootstrap, logr); err != nil {
		logr.Fatal("failed to bootstrap admin account", zap.Error(err))
	}

	guard := service.NewLoginGuard(attempts, service.LoginGuardConfig{
		MaxAttempts: cfg.Login.MaxAttempts,
		Window:      cfg.Login.Window,
	}, logr)
	authSvc := service.NewAuthService(users, guard, validate, logr, metricsSvc, service.AuthConfig{
		Secret: cfg.JWT.Secret,
		Expiry: cfg.JWT.Expiration,
		Issuer: cfg.JWT.Issuer,
	})
	ideaSvc := service.NewIdeaService(service.IdeaServiceParams{
		Store:     ideaStore,
		Saved:     savedTable,
		Access:    service.NewAccessFilter(service.AccessFilterConfig{ShowPrivateToAuthenticated: cfg.Ideas.ShowPrivateToAuthenticated}),
		Cache:     cacheSvc,
		Metrics:   metricsSvc,
		Validator: validate,
		Logger:    logr,
		Config: service.IdeaServiceConfig{
			AutoAccept:      cfg.Ideas.AutoAccept,
			WindowMinDays:   cfg.Ideas.WindowMinDays,
			WindowMaxDays:   cfg.Ideas.WindowMaxDays,
			DefaultPageSize: cfg.Ideas.DefaultPageSize,
		},
	})
	messageSvc := service.NewMessageService(messageStore, users, validate, logr)
	savedSvc := service.NewSavedIdeaService(savedTable, ideaSvc, logr)
	dashboardSvc := service.NewDashboardService(ideaSvc, cacheSvc, logr, service.DashboardServiceConfig{CacheTTL: cfg.Cache.DashboardTTL})
	exportSvc := service.NewExportService(ideaSvc, logr)

	metricsHandler := handler.NewMetricsHandler(metricsSvc, checks)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr, "/health", "/metrics"))
	r.Use(internalmiddleware.Metrics(metricsSvc, "/metrics", "/health"))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.Routes{
		Auth:      handler.NewAuthHandler(authSvc, messageSvc),
		Ideas:     handler.NewIdeaHandler(ideaSvc, exportSvc),
		Saved:     handler.NewSavedIdeaHandler(savedSvc),
		Messages:  handler.NewMessageHandler(messageSvc),
		Dashboard: handler.NewDashboardHandler(dashboardSvc),
	}.Register(r.Group(cfg.APIPrefix), authSvc)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logr.Error("server shutdown failed", zap.Error(err))
		}
	}()

	logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "storage", cfg.Storage.Driver, "users", cfg.Storage.Path(cfg.Storage.UsersFile))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
	logr.Info("server stopped")
}

// newCacheService connects Redis when caching is enabled. An unreachable Redis
// disables the cache instead of failing startup.
func newCacheService(cfg *config.Config, metrics *service.MetricsService, logr *zap.Logger, checks map[string]handler.ReadinessCheck) *service.CacheService {
	if !cfg.Cache.Enabled {
		return service.NewCacheService(nil, metrics, cfg.Cache.DashboardTTL, logr, false)
	}
	client, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, dashboard cache disabled", zap.Error(err))
		return service.NewCacheService(nil, metrics, cfg.Cache.DashboardTTL, logr, false)
	}
	repo := repository.NewCacheRepository(client, logr)
	checks["redis"] = repo.Ping
	return service.NewCacheService(repo, metrics, cfg.Cache.DashboardTTL, logr, true)
}
