package config

import (
	"sync"

	"github.com/1pybb7-prog/mytourproject1/internal/models"
)

// Config holds all the configuration settings for our application.
type Config struct {
	Port          int
	Env           string
	FetchInterval int
	Mu            sync.RWMutex
	Sources       []models.TourSource
}

// NewConfig creates a new instance of a Config struct.
func NewConfig(port int, env string, sources []models.TourSource) *Config {
	return &Config{
		Port:    port,
		Env:     env,
		Sources: sources,
	}
}

// UpdateConfig safely replaces the configured catalog sources.
func (cfg *Config) UpdateConfig(newSources []models.TourSource) {
	cfg.Mu.Lock()
	defer cfg.Mu.Unlock()
	cfg.Sources = newSources
}

// GetSources safely returns a copy of the sources slice to avoid
// concurrent modification issues.
// This method should be used to access the sources from other parts of
// the application.
func (cfg *Config) GetSources() []models.TourSource {
	cfg.Mu.RLock()
	defer cfg.Mu.RUnlock()
	return append([]models.TourSource(nil), cfg.Sources...)
}
