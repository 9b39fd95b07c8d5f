package tourapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/1pybb7-prog/mytourproject1/internal/config"
	"github.com/1pybb7-prog/mytourproject1/internal/metrics"
	"github.com/1pybb7-prog/mytourproject1/internal/models"
	"github.com/1pybb7-prog/mytourproject1/internal/report"
	"github.com/1pybb7-prog/mytourproject1/internal/utils"
)

// TourService fetches place catalogs for the configured sources, keeps the
// results in the PlaceStore, and snapshots the last good payload to disk
// so restarts can serve data before the first fetch completes.
type TourService struct {
	Places   *PlaceStore
	Backoffs *config.BackoffStore
	Logger   *slog.Logger
	Client   *Client
	CacheDir string
}

// NewTourService creates a new TourService instance.
func NewTourService(places *PlaceStore, backoffs *config.BackoffStore, logger *slog.Logger, client *Client, cacheDir string) *TourService {
	return &TourService{
		Places:   places,
		Backoffs: backoffs,
		Logger:   logger,
		Client:   client,
		CacheDir: cacheDir,
	}
}

// FetchAndStorePlaces pulls the full catalog for one source, stores it,
// and writes a disk snapshot.
func (ts *TourService) FetchAndStorePlaces(ctx context.Context, source models.TourSource) error {
	places, err := ts.Client.FetchAllPlaces(ctx, source)
	if err != nil {
		return err
	}

	ts.Places.Set(source.ID, places)
	metrics.PlacesFetched.WithLabelValues(strconv.Itoa(source.ID)).Set(float64(len(places)))

	if ts.CacheDir != "" {
		if err := ts.writeSnapshot(source.ID, places); err != nil {
			// Snapshot failures are not fatal; the in-memory store is
			// already updated.
			ts.Logger.Error("Failed to write place snapshot", "source_id", source.ID, "error", err)
			report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
				Tags:  utils.MakeMap("source_id", strconv.Itoa(source.ID)),
				Level: sentry.LevelWarning,
			})
		}
	}

	ts.Logger.Info("Fetched places", "source_id", source.ID, "count", len(places))
	return nil
}

// FetchAll fetches every configured source, honoring per-source backoff:
// a source that failed recently is skipped until its retry time arrives.
func (ts *TourService) FetchAll(ctx context.Context, sources []models.TourSource) {
	now := time.Now().UTC()
	for _, source := range sources {
		if retryAt, ok := ts.Backoffs.NextRetryAt(source.ID); ok && now.Before(retryAt) {
			ts.Logger.Info("Skipping source in backoff", "source_id", source.ID, "retry_at", retryAt)
			continue
		}

		if err := ts.FetchAndStorePlaces(ctx, source); err != nil {
			ts.Backoffs.UpdateBackoff(source.ID)
			ts.Logger.Error("Failed to fetch places", "source_id", source.ID, "error", err)
			report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
				Tags:  utils.MakeMap("source_id", strconv.Itoa(source.ID)),
				Level: sentry.LevelError,
			})
			continue
		}
		ts.Backoffs.ResetBackoff(source.ID)
	}
}

// RefreshPlaces periodically re-fetches all sources at the given interval
// until the context is cancelled.
func (ts *TourService) RefreshPlaces(ctx context.Context, sources []models.TourSource, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			ts.Logger.Info("Stopping place refresh routine")
			return
		case <-ticker.C:
			ts.FetchAll(ctx, sources)
		}
	}
}

// LoadSnapshot restores the last good disk snapshot for a source into the
// store. It is used at startup before the first live fetch.
func (ts *TourService) LoadSnapshot(sourceID int) error {
	path, err := utils.GetLastCachedFile(ts.CacheDir, sourceID)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read place snapshot: %v", err)
	}
	var places []models.Place
	if err := json.Unmarshal(data, &places); err != nil {
		return fmt.Errorf("failed to unmarshal place snapshot: %v", err)
	}
	ts.Places.Set(sourceID, places)
	metrics.PlacesFetched.WithLabelValues(strconv.Itoa(sourceID)).Set(float64(len(places)))
	return nil
}

func (ts *TourService) writeSnapshot(sourceID int, places []models.Place) error {
	data, err := json.Marshal(places)
	if err != nil {
		return err
	}
	return os.WriteFile(utils.CacheFilePath(ts.CacheDir, sourceID), data, 0o644)
}
