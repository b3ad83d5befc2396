// Command social is a terminal client for the social network API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"

	"github.com/minilinkedin/social-network/internal/client/api"
	"github.com/minilinkedin/social-network/internal/client/cli"
	"github.com/minilinkedin/social-network/internal/client/session"
	"github.com/minilinkedin/social-network/internal/client/store"
	"github.com/minilinkedin/social-network/pkg/logger"
)

type config struct {
	APIURL    string `env:"SOCIAL_API_URL,   default=http://localhost:8080/api"`
	SessionDB string `env:"SOCIAL_SESSION_DB"`
	LogLevel  string `env:"LOG_LEVEL,        default=warn"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	_ = godotenv.Load()

	var cfg config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.SessionDB == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("locate home directory: %w", err)
		}
		cfg.SessionDB = filepath.Join(home, ".social-session.db")
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Output: os.Stderr})

	tokens, err := store.Open(ctx, cfg.SessionDB)
	if err != nil {
		return err
	}
	defer tokens.Close()

	ctrl := session.NewController(api.New(cfg.APIURL, nil), tokens, session.WithLogger(log))
	return cli.NewApp(ctrl, os.Stdin, os.Stdout).Run(ctx, os.Args[1:])
}
