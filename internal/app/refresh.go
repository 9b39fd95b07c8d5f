package app

import (
	"context"
	"time"
)

// StartPlaceRefresh periodically re-fetches the catalog for every
// currently configured source until ctx is cancelled. Sources are
// re-read from the config each round so remote config updates take
// effect without a restart.
func (app *Application) StartPlaceRefresh(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				app.Logger.Info("Stopping place refresh")
				return
			case <-ticker.C:
				sources := app.ConfigService.Config.GetSources()
				app.TourService.FetchAll(ctx, sources)
			}
		}
	}()
}
