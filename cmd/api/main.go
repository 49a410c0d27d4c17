package main

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/discfound/discfound-backend/api/routes"
	"github.com/discfound/discfound-backend/internal/claims"
	"github.com/discfound/discfound-backend/internal/contacts"
	"github.com/discfound/discfound-backend/internal/items"
	"github.com/discfound/discfound-backend/internal/linker"
	"github.com/discfound/discfound-backend/internal/profiles"
	"github.com/discfound/discfound-backend/internal/reports"
	"github.com/discfound/discfound-backend/internal/sales"
	"github.com/discfound/discfound-backend/internal/sources"
	"github.com/discfound/discfound-backend/pkg/config"
	"github.com/discfound/discfound-backend/pkg/db"
	"github.com/discfound/discfound-backend/pkg/logger"
	"github.com/discfound/discfound-backend/pkg/migrate"
	"github.com/discfound/discfound-backend/pkg/outbox"
	"github.com/discfound/discfound-backend/pkg/redis"
	"github.com/discfound/discfound-backend/pkg/square"
	"github.com/joho/godotenv"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
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
	itemRepo := items.NewRepository(gdb)
	sourceRepo := sources.NewRepository(gdb)
	outboxService := outbox.NewService(outbox.NewRepository(gdb), logg)

	itemService, err := items.NewService(itemRepo, sourceRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create item service", err)
		os.Exit(1)
	}
	profileService, err := profiles.NewService(profiles.NewRepository(gdb))
	if err != nil {
		logg.Error(context.Background(), "failed to create profile service", err)
		os.Exit(1)
	}
	sourceService, err := sources.NewService(sourceRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create source service", err)
		os.Exit(1)
	}
	contactService, err := contacts.NewService(contacts.NewRepository(gdb), itemRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create contact service", err)
		os.Exit(1)
	}
	claimService, err := claims.NewService(itemRepo, sourceRepo, contactService, cfg.ClaimToken, cfg.Security)
	if err != nil {
		logg.Error(context.Background(), "failed to create claim service", err)
		os.Exit(1)
	}

	// Sales stay dark when Square credentials are absent; the controller
	// answers with a coded error instead of the whole API refusing to boot.
	var saleService sales.Service
	if strings.TrimSpace(cfg.Square.AccessToken) != "" {
		squareClient, err := square.NewClient(context.Background(), cfg.Square, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create square client", err)
			os.Exit(1)
		}
		saleService, err = sales.NewService(dbClient, sales.NewRepository(gdb), outboxService, squareClient, cfg.Square, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create sale service", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "square access token missing; sale recording disabled")
	}

	linkerService, err := linker.NewService(dbClient, linker.NewRepository(gdb), outboxService, logg, cfg.Bootstrap)
	if err != nil {
		logg.Error(context.Background(), "failed to create linker service", err)
		os.Exit(1)
	}
	reportService, err := reports.NewService(reports.NewRepository(gdb), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create report service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			itemService,
			profileService,
			sourceService,
			contactService,
			claimService,
			saleService,
			linkerService,
			reportService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
