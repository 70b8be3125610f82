package main

import (
	"context"
	"fmt"

	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/cache"
	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/config"
	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/controllers"
	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/middleware"
	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/router"
	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	config.SetConfig(cfg)

	logger, err := config.NewLogger(cfg)
	if err != nil {
		panic(fmt.Sprintf("failed to build logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()
	logger.Info("Starting store API server...", zap.String("env", cfg.GoEnv))

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	if err := config.ConnectDatabase(ctx, cfg, logger); err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	store, closeCache := newCache(ctx, cfg, logger)
	defer closeCache()

	ctl := newController(ctx, cfg, store, logger)
	if cfg.Auth0Domain == "" {
		logger.Warn("AUTH0_DOMAIN is not set, admin routes will reject every token")
	}
	r := router.New(cfg, ctl, middleware.EnsureValidToken(cfg, logger), logger)

	addr := ":" + cfg.Port
	logger.Info("Server is running", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

// newCache connects to Redis when REDIS_ADDR is set and falls back to an
// in-process cache otherwise, or when Redis does not answer.
func newCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) (cache.Store, func()) {
	if cfg.RedisAddr == "" {
		logger.Info("using in-memory cache")
		return cache.NewMemoryStore(), func() {}
	}

	redisStore := cache.NewRedisStore(cache.RedisOptions{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := redisStore.Ping(ctx); err != nil {
		logger.Warn("redis unreachable, using in-memory cache", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		_ = redisStore.Close()
		return cache.NewMemoryStore(), func() {}
	}

	logger.Info("using redis cache", zap.String("addr", cfg.RedisAddr))
	return redisStore, func() {
		if err := redisStore.Close(); err != nil {
			logger.Warn("failed to close redis", zap.Error(err))
		}
	}
}

// newController builds the services on top of the main database client.
func newController(ctx context.Context, cfg *config.Config, store cache.Store, logger *zap.Logger) *controllers.Controller {
	db := config.GetDB()
	sessions := services.NewSessionService(cfg.JWTSecret, cfg.SessionTTL, store)

	ctl := &controllers.Controller{
		DB:       db,
		Stores:   services.NewStoreService(db, store, cfg.CacheTTL, logger),
		Sessions: sessions,
		Staff:    services.NewStaffService(sessions, logger),
		Menu:     services.NewMenuService(store, cfg.CacheTTL, logger),
		Orders:   services.NewOrderService(store, cfg.CacheTTL, logger),
		Register: services.NewRegisterService(logger),
		Logger:   logger,
	}

	switch {
	case cfg.AWSS3Bucket != "":
		s3Service, err := services.NewS3Service(ctx, cfg)
		if err != nil {
			logger.Fatal("Failed to initialize S3 service", zap.Error(err))
		}
		ctl.Archive = services.NewBackupArchiveService(s3Service, logger)
	case cfg.IsDevelopment():
		logger.Info("AWS_S3_BUCKET is not set, archiving backups in memory")
		ctl.Archive = services.NewBackupArchiveService(services.NewMockS3Service(), logger)
	default:
		logger.Warn("AWS_S3_BUCKET is not set, backup archive routes are disabled")
	}
	return ctl
}
