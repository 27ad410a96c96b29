package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/yukikurage/workspace-api/internal/auth"
	"github.com/yukikurage/workspace-api/internal/config"
	"github.com/yukikurage/workspace-api/internal/constants"
	"github.com/yukikurage/workspace-api/internal/database"
	"github.com/yukikurage/workspace-api/internal/handlers"
	"github.com/yukikurage/workspace-api/internal/observ"
	"github.com/yukikurage/workspace-api/internal/repository"
	"github.com/yukikurage/workspace-api/internal/services"
	"github.com/yukikurage/workspace-api/internal/storage"
	"github.com/yukikurage/workspace-api/internal/tenancy"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	db, err := database.Connect(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	ctx := context.Background()

	var redisClient *redis.Client
	var cache tenancy.Cache = tenancy.NewMemoryCache()
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal("Invalid REDIS_URL", zap.Error(err))
		}
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		cache = tenancy.NewRedisCache(redisClient)
	}

	sessionStore, err := newSessionStore(cfg, redisClient)
	if err != nil {
		logger.Fatal("Failed to create session store", zap.Error(err))
	}

	blobs, err := newBlobStorage(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize storage", zap.Error(err), zap.String("driver", cfg.StorageDriver))
	}

	// Repositories and services
	workspaceRepo := repository.NewWorkspaceRepository(db)
	userRepo := repository.NewUserRepository(db)
	resolver := tenancy.NewResolver(workspaceRepo, cache, cfg.WorkspaceCacheTTL, logger)
	slugs := services.NewSlugAllocator()

	r := handlers.NewRouter(handlers.Services{
		Auth:           services.NewAuthService(userRepo),
		Workspaces:     services.NewWorkspaceService(workspaceRepo, userRepo, resolver),
		Channels:       services.NewChannelService(db, repository.NewChannelRepository(db), slugs),
		Publications:   services.NewPublicationService(db, repository.NewPublicationRepository(db), slugs),
		Comments:       services.NewCommentService(db, repository.NewCommentRepository(db)),
		Reactions:      services.NewReactionService(db, repository.NewReactionRepository(db)),
		Media:          services.NewMediaService(db, repository.NewMediaRepository(db), blobs, cfg.MaxUploadBytes(), logger),
		Resolver:       resolver,
		Tokens:         auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL),
		SessionStore:   sessionStore,
		Logger:         logger,
		MaxUploadBytes: cfg.MaxUploadBytes(),
	})

	// Start server
	logger.Info("Server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

// newSessionStore keeps sessions in Redis when it is configured and in signed
// cookies otherwise.
func newSessionStore(cfg *config.Config, client *redis.Client) (sessions.Store, error) {
	var store sessions.Store
	if client != nil {
		opts := client.Options()
		rs, err := redisStore.NewStore(
			10, // Redis pool size
			"tcp",
			opts.Addr,
			opts.Username,
			opts.Password,
			[]byte(cfg.SessionSecret),
		)
		if err != nil {
			return nil, err
		}
		store = rs
	} else {
		store = cookie.NewStore([]byte(cfg.SessionSecret))
	}

	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   constants.SessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}

func newBlobStorage(ctx context.Context, cfg *config.Config) (storage.BlobStorage, error) {
	if cfg.StorageDriver == "s3" {
		s3Storage, err := storage.NewS3Storage(ctx, storage.S3Config{
			Bucket:      cfg.S3Bucket,
			Region:      cfg.S3Region,
			AccessKeyID: cfg.S3AccessKeyID,
			SecretKey:   cfg.S3SecretAccessKey,
			Endpoint:    cfg.S3Endpoint,
		}, nil)
		if err != nil {
			return nil, err
		}
		return s3Storage, nil
	}

	local, err := storage.NewLocalStorage(cfg.UploadDir)
	if err != nil {
		return nil, err
	}
	return local, nil
}
