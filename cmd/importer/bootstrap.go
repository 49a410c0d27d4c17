package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/discfound/discfound-backend/pkg/config"
	"github.com/discfound/discfound-backend/pkg/db"
	"github.com/discfound/discfound-backend/pkg/logger"
	"github.com/discfound/discfound-backend/pkg/migrate"
	"github.com/discfound/discfound-backend/pkg/redis"
)

// deps carries the runtime pieces the DB-backed subcommands share. Logs go to
// stderr so stdout stays clean for summaries and --json output.
type deps struct {
	cfg   *config.Config
	logg  *logger.Logger
	db    *db.Client
	redis *redis.Client
}

func bootstrap(ctx context.Context, withRedis bool) (*deps, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.Service.Kind = "importer"

	logg := logger.New(logger.Options{
		ServiceName: "importer",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Output:      os.Stderr,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		_ = dbClient.Close()
		return nil, fmt.Errorf("dev migrations: %w", err)
	}

	d := &deps{cfg: cfg, logg: logg, db: dbClient}
	if withRedis {
		redisClient, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			_ = dbClient.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		d.redis = redisClient
	}
	return d, nil
}

func (d *deps) close() {
	if d.redis != nil {
		if err := d.redis.Close(); err != nil {
			d.logg.Error(context.Background(), "error closing redis", err)
		}
	}
	if d.db != nil {
		if err := d.db.Close(); err != nil {
			d.logg.Error(context.Background(), "error closing database", err)
		}
	}
}
