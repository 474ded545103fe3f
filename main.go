package main

import (
	"context"
	"flag"
	"os"

	"wgwatcher/config"
	"wgwatcher/helpers"
	"wgwatcher/logger"
	"wgwatcher/services/notify"
	"wgwatcher/services/publisher"
	"wgwatcher/services/store"
	"wgwatcher/services/watcher"

	"github.com/joho/godotenv"
)

func main() {
	htmlFile := flag.String("html-file", "", "parse listings from a local HTML file instead of fetching the search page")
	flag.Parse()

	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if *htmlFile != "" {
		cfg.HTMLFile = *htmlFile
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("state_backend", cfg.StateBackend).
		Msg("Starting watch run")

	// Initialize services
	services, err := initializeServices(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}

	w := watcher.New(
		cfg,
		services.Fetcher,
		services.Store,
		services.Notifier,
		services.Publisher,
		logger.ForWatcher(),
	)

	res, err := w.Run()
	services.Cleanup()

	if err != nil {
		log.Fatal().Err(err).Msg("Watch run failed")
	}

	log.Info().
		Int("found", res.Found).
		Int("new", res.New).
		Int("sent", res.Sent).
		Int("failed", res.Failed).
		Msg("Watch run finished")

	if res.Failed > 0 {
		os.Exit(1)
	}
}

// Services holds all the initialized services
type Services struct {
	Fetcher   *helpers.PageFetcher
	Store     store.Store
	Notifier  notify.Notifier
	Publisher publisher.Publisher
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.Publisher != nil {
		s.Publisher.Close()
	}
}

// initializeServices initializes all required services
func initializeServices(ctx context.Context, cfg *config.Config) (*Services, error) {
	services := &Services{
		Fetcher: helpers.NewPageFetcher(cfg.RequestTimeout, cfg.UserAgent),
	}

	// Initialize the seen-set store
	switch cfg.StateBackend {
	case config.StateBackendMemcache:
		services.Store = store.NewMemcacheStore(cfg.MemcacheAddr)
		logger.Info("Using memcache state at %s", cfg.MemcacheAddr)
	default:
		services.Store = store.NewFileStore(cfg.StatePath)
		logger.Info("Using file state at %s", cfg.StatePath)
	}

	// Initialize the notifier; without credentials the run is a dry run
	if cfg.TelegramEnabled() {
		services.Notifier = notify.NewTelegramNotifier(
			cfg.TelegramAPIURL,
			cfg.TelegramToken,
			cfg.TelegramChatID,
			cfg.RequestTimeout,
			cfg.DisableLinkPreview,
		)
	} else {
		logger.Warn("Telegram credentials missing, running without notifications")
	}

	// Initialize the event publisher when configured
	if cfg.RedisAddr != "" {
		services.Publisher = publisher.NewRedisPublisher(
			ctx,
			cfg.RedisAddr,
			cfg.RedisDB,
			cfg.RedisStream,
			cfg.RedisStreamMaxLength,
		)
		logger.Info("Connected to Redis at %s (DB: %d, Stream: %s)",
			cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)
	}

	return services, nil
}
