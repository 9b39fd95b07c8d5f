package config

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/1pybb7-prog/mytourproject1/internal/models"
	"github.com/1pybb7-prog/mytourproject1/internal/report"
	"github.com/1pybb7-prog/mytourproject1/internal/utils"
)

// ConfigService holds dependencies and provides config operations.
type ConfigService struct {
	Logger *slog.Logger
	Client *http.Client
	Config *Config
}

// NewConfigService creates a new ConfigService instance with the provided logger and HTTP client.
func NewConfigService(logger *slog.Logger, client *http.Client, config *Config) *ConfigService {
	return &ConfigService{
		Logger: logger,
		Client: client,
		Config: config,
	}
}

// RefreshConfig periodically re-reads the remote config until the context
// is cancelled.
func (cs *ConfigService) RefreshConfig(ctx context.Context, url, authUser, authPass string, interval time.Duration) {
	refreshConfig(ctx, cs.Client, url, authUser, authPass, cs.Config, cs.Logger, interval)
}

// exported helper functions

// LoadConfigFromFile loads and validates catalog sources from a local file.
func LoadConfigFromFile(filePath string) ([]models.TourSource, error) {
	sources, err := loadConfigFromFile(filePath)
	if err != nil {
		err := fmt.Errorf("failed to load config from file %s: %w", filePath, err)
		report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
			Tags:  utils.MakeMap("file_path", filePath),
			Level: sentry.LevelError,
		})
		return nil, err
	}
	return sources, nil
}

// LoadConfigFromURL loads and validates catalog sources from a remote URL.
func LoadConfigFromURL(ctx context.Context, client *http.Client, url, authUser, authPass string) ([]models.TourSource, error) {
	sources, err := loadConfigFromURL(ctx, client, url, authUser, authPass)
	if err != nil {
		err := fmt.Errorf("failed to load config from URL %s: %w", url, err)
		report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
			Tags:  utils.MakeMap("config_url", url),
			Level: sentry.LevelError,
		})
		return nil, err
	}
	return sources, nil
}
