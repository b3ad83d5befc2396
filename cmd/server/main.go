// Command server runs the social network HTTP API.
//
// @title                       Social Network API
// @version                     1.0
// @description                 Profiles, posts and comments behind a session-token access gate.
// @BasePath                    /api
// @securityDefinitions.apikey  TokenAuth
// @in                          header
// @name                        X-Auth-Token
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/minilinkedin/social-network/internal/api"
	"github.com/minilinkedin/social-network/internal/core/ports"
	"github.com/minilinkedin/social-network/internal/core/service"
	"github.com/minilinkedin/social-network/internal/infrastructure/config"
	"github.com/minilinkedin/social-network/internal/infrastructure/db/memory"
	mongodb "github.com/minilinkedin/social-network/internal/infrastructure/db/mongo"
	redisdb "github.com/minilinkedin/social-network/internal/infrastructure/db/redis"
	httpserver "github.com/minilinkedin/social-network/internal/infrastructure/http"
	"github.com/minilinkedin/social-network/internal/infrastructure/http/handlers"
	"github.com/minilinkedin/social-network/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		l := logger.Init(logger.Options{})
		l.Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "social-api",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	secret := cfg.JWTSecret
	if secret == "" {
		secret = uuid.NewString()
		log.Warn().Msg("JWT_SECRET not set; using a random secret, tokens will not survive a restart")
	}

	checks := map[string]handlers.Checker{}

	var (
		users    ports.UserRepository
		posts    ports.PostRepository
		comments ports.CommentRepository
	)
	switch cfg.StoreDriver {
	case config.StoreMemory:
		store := memory.NewStore()
		users, posts, comments = store.Users(), store.Posts(), store.Comments()
		log.Warn().Msg("using in-memory store; data is lost on exit")
	default:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			AppName:  "social-api",
		})
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect(context.Background()) }()

		repos := mongodb.NewRepositories(db)
		if err := repos.EnsureIndexes(ctx); err != nil {
			return err
		}
		users, posts, comments = repos.Users, repos.Posts, repos.Comments
		checks["mongodb"] = handlers.CheckFunc(func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		})
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")
	}

	var cache ports.ProfileCache
	if cfg.Redis.Addr != "" {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()

		cache = redisdb.NewProfileCache(rdb, cfg.Redis.ProfileTTL)
		checks["redis"] = handlers.CheckFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
		log.Info().Str("addr", cfg.Redis.Addr).Msg("profile cache enabled")
	}

	userService := service.NewUserService(users, cache, log)
	authService := service.NewAuthService(userService, service.NewTokenIssuer(secret, cfg.TokenTTL))
	contentService := service.NewContentService(posts, comments, users, cache, log)

	e := api.NewRouter(api.Dependencies{
		Auth:        authService,
		Users:       userService,
		Content:     contentService,
		Checks:      checks,
		Log:         log,
		CORSOrigins: cfg.CORSOrigins,
		Registerer:  prometheus.DefaultRegisterer,
		Gatherer:    prometheus.DefaultGatherer,
	})

	return httpserver.Serve(ctx, e, ":"+cfg.Port, log)
}
