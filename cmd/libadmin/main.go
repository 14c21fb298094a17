// Command libadmin runs maintenance tasks against the library database.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"library/config"
	logs "library/internal/infra/log"
	"library/internal/infra/persistence/postgres"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// app is opened once per invocation and shared by the subcommands.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *gorm.DB
}

func openApp() (*app, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}

	// stdout is reserved for command output
	logger, err := logs.NewWithWriter(cfg, os.Stderr)
	if err != nil {
		return nil, err
	}

	db, err := postgres.Open(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, logger: logger, db: db}, nil
}

func (a *app) Close() error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return errors.Wrap(err, "close database")
	}

	return sqlDB.Close()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(openApp).ExecuteContext(ctx); err != nil {
		slog.Error("libadmin failed", slog.Any("error", err))
		stop()
		os.Exit(1)
	}
}
