package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"concert_syncer/internal/config"
	"concert_syncer/internal/provider/bachtrack"
	"concert_syncer/internal/provider/bandsintown"
	"concert_syncer/internal/provider/eventbrite"
	"concert_syncer/internal/provider/ticketmaster"
	"concert_syncer/internal/publisher"
	"concert_syncer/internal/scheduler"
	"concert_syncer/internal/service"
	"concert_syncer/internal/storage/postgres"
	"concert_syncer/internal/tagging"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// Setup logger
	logger := setupLogger("info")

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to database")

	// Initialize RabbitMQ publisher
	rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
		URL:        cfg.RabbitMQ.URL,
		Exchange:   cfg.RabbitMQ.Exchange,
		RoutingKey: cfg.RabbitMQ.RoutingKey,
		QueueName:  cfg.RabbitMQ.QueueName,
	}, logger)
	if err != nil {
		logger.Error("failed to connect to rabbitmq", "error", err)
		os.Exit(1)
	}
	defer rabbitMQ.Close()

	// Initialize stores
	concertStore := postgres.NewConcertStore(db)
	syncStateStore := postgres.NewSyncStateStore(db)
	txManager := postgres.NewTransactionManager(db)

	// Initialize provider adapters
	providers := []service.Provider{
		bachtrack.New(bachtrack.Config{
			BaseURL: cfg.Providers.Bachtrack.BaseURL,
			APIKey:  cfg.Providers.Bachtrack.APIKey,
			Timeout: cfg.Providers.Bachtrack.Timeout,
		}, logger),
		bandsintown.New(bandsintown.Config{
			BaseURL: cfg.Providers.Bandsintown.BaseURL,
			AppID:   cfg.Providers.Bandsintown.APIKey,
			Timeout: cfg.Providers.Bandsintown.Timeout,
		}, logger),
		eventbrite.New(eventbrite.Config{
			BaseURL: cfg.Providers.Eventbrite.BaseURL,
			Token:   cfg.Providers.Eventbrite.APIKey,
			Timeout: cfg.Providers.Eventbrite.Timeout,
		}, logger),
		ticketmaster.New(ticketmaster.Config{
			BaseURL: cfg.Providers.TicketMaster.BaseURL,
			APIKey:  cfg.Providers.TicketMaster.APIKey,
			Timeout: cfg.Providers.TicketMaster.Timeout,
		}, logger),
	}

	// Tagging is optional; without it concerts keep their seeded tags.
	var tagger service.Tagger
	if cfg.Tagging.Enabled {
		tagger = tagging.NewClient(tagging.Config{
			BaseURL: cfg.Tagging.BaseURL,
			APIKey:  cfg.Tagging.APIKey,
			Timeout: cfg.Tagging.Timeout,
		}, logger)
	}

	sweeper := service.NewSweeper(concertStore, logger)

	orchestrator := service.NewOrchestrator(
		providers,
		concertStore,
		syncStateStore,
		txManager,
		rabbitMQ,
		tagger,
		sweeper,
		logger,
		cfg.Sync,
	)

	sched := scheduler.NewScheduler(orchestrator, cfg.Sync.Interval, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	logger.Info("starting concert syncer",
		"providers", len(providers),
		"interval", cfg.Sync.Interval,
		"retention_days", cfg.Sync.RetentionDays,
	)

	if err := sched.Start(ctx); err != nil && err != context.Canceled {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
