package config

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-playground/validator/v10"

	"github.com/1pybb7-prog/mytourproject1/internal/models"
	"github.com/1pybb7-prog/mytourproject1/internal/report"
	"github.com/1pybb7-prog/mytourproject1/internal/utils"
)

const loaderMaxRetries = 3

var validate = validator.New()

// ValidateConfigFlags ensures that only one configuration source is specified:
// either a config file "--config-file", a remote config URL "--config-url".
//
// Returns an error if more than one input method is specified.
func ValidateConfigFlags(configFile, configURL *string) error {
	if *configFile == "" && *configURL == "" {
		return fmt.Errorf("no configuration provided, either --config-file or --config-url must be specified")
	}
	if (*configFile != "" && *configURL != "") || (*configFile != "" && len(flag.Args()) > 0) || (*configURL != "" && len(flag.Args()) > 0) {
		return fmt.Errorf("only one of --config-file or --config-url can be specified")
	}
	return nil
}

// validateSources runs struct validation over every loaded source so a
// typo in the config file surfaces at load time, not on the first fetch.
func validateSources(sources []models.TourSource) error {
	for i, source := range sources {
		if err := validate.Struct(source); err != nil {
			return fmt.Errorf("invalid source at index %d (id=%d): %w", i, source.ID, err)
		}
	}
	return nil
}

// refreshConfig periodically fetches configuration from a remote URL and
// updates the application's list of catalog sources.
//
// Errors during fetch or parse are logged and reported to Sentry, but the
// loop continues, ensuring resiliency in the presence of transient issues.
//
// The routine stops gracefully when the context is canceled.
func refreshConfig(ctx context.Context, client *http.Client, configURL, configAuthUser, configAuthPass string, cfg *Config, logger *slog.Logger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Stopping config refresh routine")
			return
		case <-ticker.C:
			newSources, err := loadConfigFromURL(ctx, client, configURL, configAuthUser, configAuthPass)
			if err != nil {
				report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
					Tags:  utils.MakeMap("config_url", configURL),
					Level: sentry.LevelError,
				})
				logger.Error("Failed to refresh remote config", "error", err)
			} else {
				cfg.UpdateConfig(newSources)
				logger.Info("Successfully refreshed source configuration")
			}
		}
	}
}

// loadConfigFromFile reads a JSON configuration file from disk and
// unmarshals it into a list of catalog sources.
func loadConfigFromFile(filePath string) ([]models.TourSource, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %v", err)
	}

	var sources []models.TourSource
	if err := json.Unmarshal(data, &sources); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON: %v", err)
	}

	if err := validateSources(sources); err != nil {
		return nil, err
	}

	return sources, nil
}

// loadConfigFromURL fetches a JSON configuration from a remote HTTP(S)
// endpoint, using the provided client and optional basic authentication.
func loadConfigFromURL(ctx context.Context, client *http.Client, url, authUser, authPass string) ([]models.TourSource, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}

	if authUser != "" && authPass != "" {
		req.SetBasicAuth(authUser, authPass)
	}

	resp, err := DoWithBackoff(ctx, client, req, loaderMaxRetries)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch remote config: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("remote config returned status: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read remote config: %v", err)
	}

	var sources []models.TourSource
	if err := json.Unmarshal(data, &sources); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON: %v", err)
	}

	if err := validateSources(sources); err != nil {
		return nil, err
	}

	return sources, nil
}
