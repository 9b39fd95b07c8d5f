package utils

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/1pybb7-prog/mytourproject1/internal/report"
	"github.com/getsentry/sentry-go"
)

const cacheTimeFormat = "20060102T150405"

// CacheFilePath returns the path a new snapshot for the source should be
// written to. Paths embed a UTC timestamp so successive snapshots never
// overwrite each other.
func CacheFilePath(cacheDir string, sourceID int) string {
	stamp := time.Now().UTC().Format(cacheTimeFormat)
	return filepath.Join(cacheDir, fmt.Sprintf("source_%d_%s.json", sourceID, stamp))
}

// GetLastCachedFile returns the most recently modified snapshot for the
// source, or an error if none exists.
func GetLastCachedFile(cacheDir string, sourceID int) (string, error) {
	files, err := os.ReadDir(cacheDir)
	if err != nil {
		return "", err
	}

	var lastModTime time.Time
	var lastModFile string

	sourcePrefix := fmt.Sprintf("source_%d_", sourceID)

	for _, file := range files {
		if !file.IsDir() && strings.HasPrefix(file.Name(), sourcePrefix) {
			fileInfo, err := file.Info()
			if err != nil {
				return "", err
			}
			if fileInfo.ModTime().After(lastModTime) {
				lastModTime = fileInfo.ModTime()
				lastModFile = file.Name()
			}
		}
	}

	if lastModFile == "" {
		return "", fmt.Errorf("no cached files found for source %d", sourceID)
	}

	return filepath.Join(cacheDir, lastModFile), nil
}

// CreateCacheDirectory ensures the cache directory exists, creating it if necessary.
func CreateCacheDirectory(cacheDir string, logger *slog.Logger) error {
	stat, err := os.Stat(cacheDir)

	if err != nil {
		if os.IsNotExist(err) {
			if err := os.MkdirAll(cacheDir, os.ModePerm); err != nil {
				report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
					Level: sentry.LevelError,
					ExtraContext: map[string]interface{}{
						"cache_dir": cacheDir,
					},
				})
				return err
			}
			return nil
		}
		return err

	}
	if !stat.IsDir() {
		err := fmt.Errorf("%s is not a directory", cacheDir)
		report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
			Level: sentry.LevelError,
			ExtraContext: map[string]interface{}{
				"cache_dir": cacheDir,
			},
		})
		return err
	}
	return nil
}
