package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/discfound/discfound-backend/internal/cron"
	"github.com/discfound/discfound-backend/internal/linker"
	"github.com/discfound/discfound-backend/pkg/config"
	"github.com/discfound/discfound-backend/pkg/db"
	"github.com/discfound/discfound-backend/pkg/logger"
	"github.com/discfound/discfound-backend/pkg/metrics"
	"github.com/discfound/discfound-backend/pkg/migrate"
	"github.com/discfound/discfound-backend/pkg/outbox"
	"github.com/discfound/discfound-backend/pkg/redis"
)

// schedule pairs a job with its own cadence. Each job runs on a dedicated
// loop with a per-job Redis lock, so a slow outbox sweep never delays the
// link-task sweep.
type schedule struct {
	job      cron.Job
	interval time.Duration
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "cron-worker"

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gdb := dbClient.DB()
	outboxRepo := outbox.NewRepository(gdb)
	outboxService := outbox.NewService(outboxRepo, logg)

	linkerService, err := linker.NewService(dbClient, linker.NewRepository(gdb), outboxService, logg, cfg.Bootstrap)
	if err != nil {
		logg.Error(context.Background(), "failed to create linker service", err)
		os.Exit(1)
	}

	linkSweepJob, err := cron.NewLinkTaskSweepJob(cron.LinkTaskSweepJobParams{
		Logger:      logg,
		Linker:      linkerService,
		MaxAttempts: cfg.Cron.LinkTaskMaxAttempts,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create link task sweep job", err)
		os.Exit(1)
	}

	outboxSweepJob, err := cron.NewOutboxRetentionJob(cron.OutboxRetentionJobParams{
		Logger:     logg,
		DB:         dbClient,
		Repository: outboxRepo,
		Retention:  cfg.Cron.OutboxRetention,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create outbox retention job", err)
		os.Exit(1)
	}

	metricsCollector := metrics.NewCronJobMetrics(prometheus.DefaultRegisterer)

	schedules := []schedule{
		{job: linkSweepJob, interval: cfg.Cron.LinkSweepInterval},
		{job: outboxSweepJob, interval: cfg.Cron.OutboxSweepInterval},
	}

	services := make([]*cron.Service, 0, len(schedules))
	for _, sched := range schedules {
		lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey("cron-worker", cfg.App.Env, sched.job.Name()), cfg.Cron.JobLockTTL)
		if err != nil {
			logg.Error(context.Background(), "failed to create cron lock", err)
			os.Exit(1)
		}
		service, err := cron.NewService(cron.ServiceParams{
			Logger:   logg,
			Registry: cron.NewRegistry(sched.job),
			Lock:     lock,
			Metrics:  metricsCollector,
			Interval: sched.interval,
		})
		if err != nil {
			logg.Error(context.Background(), "failed to create cron service", err)
			os.Exit(1)
		}
		services = append(services, service)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(ctx, "starting cron worker")

	group, groupCtx := errgroup.WithContext(ctx)
	for _, service := range services {
		group.Go(func() error {
			return service.Run(groupCtx)
		})
	}

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}
