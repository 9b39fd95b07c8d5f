package app

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/1pybb7-prog/mytourproject1/internal/bookmarks"
	"github.com/1pybb7-prog/mytourproject1/internal/config"
	"github.com/1pybb7-prog/mytourproject1/internal/markers"
	"github.com/1pybb7-prog/mytourproject1/internal/tourapi"
)

// Application wires the configuration service, the tour catalog service,
// the bookmark store, and the startup loader together behind the HTTP
// surface.
type Application struct {
	ConfigService *config.ConfigService
	TourService   *tourapi.TourService
	Bookmarks     *bookmarks.Store
	Loader        *markers.Loader
	Logger        *slog.Logger
	Version       string
}

// New creates and wires all dependencies for the Application. The returned
// application's Loader performs the first catalog fetch on demand; handlers
// that need place data call Loader.Ensure before serving.
func New(cfg *config.Config, logger *slog.Logger, client *http.Client, bookmarkStore *bookmarks.Store, cacheDir, version string) *Application {
	placeStore := tourapi.NewPlaceStore()
	backoffStore := config.NewBackoffStore()

	configService := config.NewConfigService(logger, client, cfg)
	tourClient := tourapi.NewClient(client, logger)
	tourService := tourapi.NewTourService(placeStore, backoffStore, logger, tourClient, cacheDir)

	loader := markers.NewLoader(func(ctx context.Context) error {
		tourService.FetchAll(ctx, cfg.GetSources())
		if placeStore.Count() == 0 {
			return errFetchedNothing
		}
		return nil
	})

	return &Application{
		ConfigService: configService,
		TourService:   tourService,
		Bookmarks:     bookmarkStore,
		Loader:        loader,
		Logger:        logger,
		Version:       version,
	}
}
