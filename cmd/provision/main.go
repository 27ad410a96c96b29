// Command provision creates or deletes workspaces. Workspaces have no HTTP
// endpoint for this; operators run it against the configured database.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/yukikurage/workspace-api/internal/config"
	"github.com/yukikurage/workspace-api/internal/database"
	"github.com/yukikurage/workspace-api/internal/observ"
	"github.com/yukikurage/workspace-api/internal/repository"
	"github.com/yukikurage/workspace-api/internal/services"
	"github.com/yukikurage/workspace-api/internal/tenancy"
)

func main() {
	slug := flag.String("slug", "", "workspace slug (required)")
	name := flag.String("name", "", "display name, defaults to the slug")
	selfSignup := flag.Bool("self-signup", false, "allow registration without a join code")
	remove := flag.Bool("delete", false, "delete the workspace and everything in it")
	flag.Parse()

	if *slug == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	db, err := database.Connect(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	ctx := context.Background()
	workspaceRepo := repository.NewWorkspaceRepository(db)

	// Deleting a workspace must also drop it from the resolver cache shared
	// with running servers.
	var invalidator services.SlugInvalidator
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal("Invalid REDIS_URL", zap.Error(err))
		}
		client := redis.NewClient(opts)
		defer client.Close()
		invalidator = tenancy.NewResolver(workspaceRepo, tenancy.NewRedisCache(client), cfg.WorkspaceCacheTTL, logger)
	}

	workspaces := services.NewWorkspaceService(workspaceRepo, repository.NewUserRepository(db), invalidator)

	if *remove {
		if err := workspaces.DeleteWorkspace(ctx, *slug); err != nil {
			logger.Fatal("Failed to delete workspace", zap.String("slug", *slug), zap.Error(err))
		}
		logger.Info("Workspace deleted", zap.String("slug", *slug))
		return
	}

	ws, code, err := workspaces.Provision(ctx, services.ProvisionInput{
		Slug:            *slug,
		Name:            *name,
		AllowSelfSignup: *selfSignup,
	})
	if err != nil {
		logger.Fatal("Failed to provision workspace", zap.String("slug", *slug), zap.Error(err))
	}

	logger.Info("Workspace provisioned", zap.Uint64("id", ws.ID), zap.String("slug", ws.Slug))
	fmt.Printf("join code: %s\n", code)
}
