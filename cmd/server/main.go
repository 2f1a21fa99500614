package main

import (
	"context"
	"fmt"
	stdlog "log"

	"github.com/gin-gonic/gin"

	"github.com/tubededentifrice/twitter-clone/internal/cache"
	"github.com/tubededentifrice/twitter-clone/internal/config"
	"github.com/tubededentifrice/twitter-clone/internal/domain"
	"github.com/tubededentifrice/twitter-clone/internal/handler"
	"github.com/tubededentifrice/twitter-clone/internal/repository"
	"github.com/tubededentifrice/twitter-clone/internal/service"
	"github.com/tubededentifrice/twitter-clone/pkg/database"
	"github.com/tubededentifrice/twitter-clone/pkg/jwt"
	pkglog "github.com/tubededentifrice/twitter-clone/pkg/log"
	"github.com/tubededentifrice/twitter-clone/pkg/middleware"
	"github.com/tubededentifrice/twitter-clone/pkg/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	pkglog.Init(pkglog.Config{
		Level:       cfg.Log.Level,
		ServiceName: "twitter-clone",
	})
	logger := pkglog.L()

	// Connect to database using GORM
	db, err := database.New(&database.Config{
		Driver:          cfg.Database.Driver,
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		FilePath:        cfg.Database.FilePath,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Auto-migrate
	if err := database.AutoMigrate(db, domain.AllModels()...); err != nil {
		logger.Fatal().Err(err).Msg("failed to auto-migrate")
	}
	logger.Info().Msg("database migration completed")

	// Follower count store: Redis when enabled, in-process otherwise
	var counts cache.CountStore
	if cfg.Redis.Enabled {
		counts, err = cache.NewRedisCountStore(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB, cfg.Cache.TTL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
	} else {
		counts = cache.NewMemoryCountStore()
	}
	defer counts.Close()

	// Object storage for profile pictures
	files, err := newStorage(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}

	// Token manager
	if cfg.JWT.Secret == "" {
		logger.Fatal().Msg("jwt.secret must be configured")
	}
	tokens, err := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessDuration, cfg.JWT.RefreshDuration, cfg.JWT.Issuer)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create token manager")
	}

	// Repositories
	userRepo := repository.NewGormUserRepository(db)
	tweetRepo := repository.NewGormTweetRepository(db)
	followRepo := repository.NewGormFollowRepository(db)
	reactionRepo := repository.NewGormReactionRepository(db)

	// Services
	userService := service.NewUserService(userRepo, followRepo, counts, tokens, files)
	tweetService := service.NewTweetService(tweetRepo, reactionRepo, userRepo)
	socialService := service.NewSocialGraphService(followRepo, userRepo, counts)

	// HTTP surface
	authMiddleware := middleware.NewAuthMiddleware(tokens)
	httpHandler := handler.NewHandler(userService, tweetService, socialService, authMiddleware)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(pkglog.GinMiddleware(logger))
	r.Use(gin.Recovery())

	httpHandler.RegisterRoutes(r)

	// Serve locally stored profile pictures
	if local, ok := files.(*storage.LocalStorage); ok {
		r.Static("/uploads", local.GetBasePath()+"/uploads")
	}

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info().
		Str("addr", addr).
		Str("db_driver", cfg.Database.Driver).
		Str("storage_driver", cfg.Storage.Driver).
		Msg("server starting")
	if err := r.Run(addr); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}

func newStorage(cfg *config.Config) (storage.Storage, error) {
	switch cfg.Storage.Driver {
	case "s3":
		return storage.NewS3Storage(context.Background(), storage.S3Config{
			Endpoint:        cfg.Storage.S3.Endpoint,
			Region:          cfg.Storage.S3.Region,
			Bucket:          cfg.Storage.S3.Bucket,
			AccessKeyID:     cfg.Storage.S3.AccessKeyID,
			SecretAccessKey: cfg.Storage.S3.SecretAccessKey,
			UsePathStyle:    cfg.Storage.S3.UsePathStyle,
			PublicURL:       cfg.Storage.S3.PublicURL,
		})
	case "local", "":
		return storage.NewLocalStorage(storage.LocalConfig{BasePath: cfg.Storage.Local.BasePath})
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Storage.Driver)
	}
}
