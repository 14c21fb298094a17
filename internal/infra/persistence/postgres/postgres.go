package postgres

import (
	"context"
	"log/slog"

	"library/config"
	"library/internal/domain/lifecycle"
	"library/internal/infra/persistence/model"

	"github.com/pkg/errors"
	pgLib "github.com/slighter12/go-lib/database/postgres"
	"go.uber.org/fx"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Params are the fx inputs of New.
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New opens the configured database and migrates it when auto_migrate is
// set. The pool is pinged on start and closed on stop; its stats are
// exported by the metrics package.
func New(params Params) (*gorm.DB, error) {
	db, err := Open(params.Config, params.Logger)
	if err != nil {
		return nil, err
	}

	if params.Config.Database != nil && params.Config.Database.AutoMigrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get sql.DB")
	}

	params.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
			defer cancel()

			return errors.Wrap(sqlDB.PingContext(ctx), "failed to ping database")
		},
		OnStop: func(context.Context) error {
			return sqlDB.Close()
		},
	})

	return db, nil
}

// Open connects with the driver named in the database config.
func Open(cfg *config.Config, logger *slog.Logger) (*gorm.DB, error) {
	driver := config.DriverPostgres
	if cfg.Database != nil && cfg.Database.Driver != "" {
		driver = cfg.Database.Driver
	}

	var (
		db  *gorm.DB
		err error
	)
	switch driver {
	case config.DriverPostgres:
		if cfg.Postgres == nil {
			return nil, errors.New("postgres config is required")
		}
		db, err = pgLib.New(cfg.Postgres)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create PostgreSQL client")
		}
	case config.DriverSQLite:
		db, err = OpenSQLite(sqliteDSN(cfg))
		if err != nil {
			return nil, err
		}
	default:
		return nil, errors.Errorf("unsupported database driver %q", driver)
	}

	return db.Session(&gorm.Session{
		// multi-statement writes go through txManager.Execute
		SkipDefaultTransaction: true,
		Logger:                 newQueryLogger(logger, cfg),
	}), nil
}

// OpenSQLite opens a SQLite database. SQLite allows one writer, so the pool is capped at one connection.
func OpenSQLite(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open SQLite database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get SQLite sql.DB")
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, errors.Wrap(err, "failed to enable SQLite foreign keys")
	}

	return db, nil
}

func sqliteDSN(cfg *config.Config) string {
	if cfg.SQLite == nil || cfg.SQLite.DSN == "" {
		return "file::memory:?cache=shared"
	}

	return cfg.SQLite.DSN
}

// Migrate creates or updates every table, including the many-to-many join tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.All()...); err != nil {
		return errors.Wrap(err, "failed to migrate schema")
	}

	return nil
}
