package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rayob-cms/assets"
	"rayob-cms/config"
	"rayob-cms/handlers"
	"rayob-cms/middleware"
	"rayob-cms/models"
	"rayob-cms/policy"
	"rayob-cms/repositories"
	"rayob-cms/services"
	"rayob-cms/slug"
	"rayob-cms/validation"

	"github.com/gin-gonic/gin"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := config.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)
	slog.SetDefault(logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	db, err := config.InitDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer config.CloseDB(db)

	if err := repositories.AutoMigrate(ctx, db); err != nil {
		return err
	}

	v := validation.New()
	hasher := services.NewBcryptHasher(0)
	metrics := middleware.NewMetrics("cms")

	userRepo := repositories.NewUserRepository(db, cfg.RequestTimeout)
	if _, err := services.EnsureAdmin(ctx, userRepo, hasher, services.SeedAdmin{
		Email:    cfg.SeedAdmin.Email,
		Password: cfg.SeedAdmin.Password,
		Name:     cfg.SeedAdmin.Name,
	}, logger); err != nil {
		return err
	}

	revocations := services.NewMemoryRevocationStore()
	if cfg.UseRedis() {
		store, client, err := services.NewRedisRevocationStoreFromURL(ctx, cfg.RedisURL, "cms:")
		if err != nil {
			return err
		}
		defer client.Close()
		revocations = store
		logger.Info("token revocation backed by redis")
	}
	tokens := services.NewTokenService([]byte(cfg.JWTSecret), cfg.JWTExpiration, revocations)

	authService, err := services.NewAuthService(userRepo, tokens, hasher, v)
	if err != nil {
		return err
	}
	userService := services.NewUserService(userRepo, hasher, v)

	collection := func(name string) repositories.OrderedOptions {
		return repositories.OrderedOptions{
			Name:      name,
			Timeout:   cfg.RequestTimeout,
			Validator: v,
			Observer:  metrics.ObserveCollectionOp,
		}
	}

	strategies, err := slug.ParseStrategies(cfg.SlugStrategies)
	if err != nil {
		return err
	}

	var uploader assets.Uploader
	if cfg.AssetsEnabled() {
		minioUploader, err := assets.NewMinioUploader(assets.Config{
			Endpoint:  cfg.Minio.Endpoint,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			Bucket:    cfg.Minio.Bucket,
			UseSSL:    cfg.Minio.UseSSL,
			PublicURL: cfg.Minio.PublicURL,
		})
		if err != nil {
			return err
		}
		if err := minioUploader.EnsureBucket(ctx); err != nil {
			return err
		}
		uploader = minioUploader
		logger.Info("asset uploads enabled", "bucket", cfg.Minio.Bucket)
	}

	router := handlers.NewRouter(handlers.Dependencies{
		Logger:            logger,
		Gate:              policy.NewGate(policy.DefaultTable()),
		Metrics:           metrics,
		Tokens:            tokens,
		AuthService:       authService,
		UserService:       userService,
		Clients:           repositories.NewOrderedRepository[models.Client](db, collection("clients")),
		Team:              repositories.NewOrderedRepository[models.TeamMember](db, collection("team_members")),
		Testimonials:      repositories.NewOrderedRepository[models.Testimonial](db, collection("testimonials")),
		Company:           repositories.NewSingletonRepository[models.CompanyOverview](db, collection("company_overview")),
		SlugResolver:      slug.NewResolver(strategies...),
		Uploader:          uploader,
		LoginLimiter:      middleware.NewRateLimiter(cfg.LoginRatePerMinute),
		AllowedOrigins:    cfg.AllowedOrigins,
		AllowRegistration: cfg.AllowRegistration,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("http server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErrors:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("http server stopped")
	return nil
}
