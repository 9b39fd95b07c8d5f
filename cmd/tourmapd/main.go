package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/1pybb7-prog/mytourproject1/internal/app"
	"github.com/1pybb7-prog/mytourproject1/internal/bookmarks"
	"github.com/1pybb7-prog/mytourproject1/internal/config"
	"github.com/1pybb7-prog/mytourproject1/internal/models"
	"github.com/1pybb7-prog/mytourproject1/internal/report"
	"github.com/1pybb7-prog/mytourproject1/internal/utils"
)

const version = "1.0.0"

func main() {
	var (
		port            = flag.Int("port", 4000, "API server port")
		env             = flag.String("env", "development", "Environment (development|staging|production)")
		configFile      = flag.String("config-file", "", "Path to a local JSON source configuration file")
		configURL       = flag.String("config-url", "", "URL to a remote JSON source configuration file")
		cacheDir        = flag.String("cache-dir", "cache", "Directory for place snapshot files")
		bookmarkDB      = flag.String("bookmark-db", "bookmarks.db", "Path to the bookmark SQLite database")
		refreshInterval = flag.Duration("refresh-interval", 10*time.Minute, "How often to re-fetch the place catalogs")
	)
	flag.Parse()

	configAuthUser := os.Getenv("CONFIG_AUTH_USER")
	configAuthPass := os.Getenv("CONFIG_AUTH_PASS")

	if err := config.ValidateConfigFlags(configFile, configURL); err != nil {
		fmt.Println("Error:", err)
		flag.Usage()
		os.Exit(1)
	}

	report.SetupSentry()
	defer report.FlushSentry()
	report.ConfigureScope(*env, version)

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	client := app.NewPooledClient()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		sources []models.TourSource
		err     error
	)
	if *configFile != "" {
		sources, err = config.LoadConfigFromFile(*configFile)
	} else {
		sources, err = config.LoadConfigFromURL(ctx, client, *configURL, configAuthUser, configAuthPass)
	}
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	if len(sources) == 0 {
		fmt.Println("Error: No sources found in configuration.")
		os.Exit(1)
	}

	cfg := config.NewConfig(*port, *env, sources)

	if err := utils.CreateCacheDirectory(*cacheDir, logger); err != nil {
		logger.Error("Failed to create cache directory", "error", err)
		os.Exit(1)
	}

	bookmarkStore, err := bookmarks.Open(*bookmarkDB)
	if err != nil {
		logger.Error("Failed to open bookmark database", "error", err)
		os.Exit(1)
	}
	defer bookmarkStore.Close()

	application := app.New(cfg, logger, client, bookmarkStore, *cacheDir, version)

	// Restore the last good snapshots so the API can serve data before the
	// first live fetch finishes.
	for _, source := range sources {
		if err := application.TourService.LoadSnapshot(source.ID); err == nil {
			logger.Info("Restored place snapshot", "source_id", source.ID)
		}
	}

	// Warm the catalog in the background; handlers also call Ensure, so a
	// slow first fetch only delays the requests that need it.
	go func() {
		if err := application.Loader.Ensure(ctx); err != nil {
			logger.Error("Initial catalog load failed", "error", err)
		}
	}()

	application.StartPlaceRefresh(ctx, *refreshInterval)

	if *configURL != "" {
		go application.ConfigService.RefreshConfig(ctx, *configURL, configAuthUser, configAuthPass, time.Minute)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      application.Routes(ctx),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	logger.Info("starting server", "addr", srv.Addr, "env", cfg.Env)
	err = srv.ListenAndServe()
	report.ReportError(err, sentry.LevelFatal)
	report.FlushSentry()
	logger.Error(err.Error())
	os.Exit(1)
}
