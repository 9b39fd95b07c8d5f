package app

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/1pybb7-prog/mytourproject1/internal/bookmarks"
	"github.com/1pybb7-prog/mytourproject1/internal/config"
	"github.com/1pybb7-prog/mytourproject1/internal/models"
)

const catalogResponse = `{
	"response": {
		"header": {"resultCode": "0000", "resultMsg": "OK"},
		"body": {
			"items": {"item": [
				{"contentid": "1", "contenttypeid": "12", "title": "해운대해수욕장", "mapx": "129.1604", "mapy": "35.1587"},
				{"contentid": "2", "contenttypeid": "12", "title": "광안리해수욕장", "mapx": "129.1187", "mapy": "35.1532"},
				{"contentid": "3", "contenttypeid": "14", "title": "Busan Museum", "mapx": "129.0931", "mapy": "35.1296"}
			]},
			"numOfRows": 100,
			"pageNo": 1,
			"totalCount": 3
		}
	}
}`

// newTestApplication wires an Application against a fake catalog server
// and a temporary bookmark database.
func newTestApplication(t *testing.T) *Application {
	t.Helper()

	catalog := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(catalogResponse))
	}))
	t.Cleanup(catalog.Close)

	source := models.TourSource{
		Name:          "Test Source",
		ID:            1,
		BaseURL:       catalog.URL,
		ServiceKey:    "test-key",
		AreaCode:      "6",
		ContentTypeID: "",
		AppName:       "tourmapd",
	}
	cfg := config.NewConfig(4000, "testing", []models.TourSource{source})

	store, err := bookmarks.Open(filepath.Join(t.TempDir(), "bookmarks.db"))
	if err != nil {
		t.Fatalf("failed to open bookmark store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return New(cfg, logger, catalog.Client(), store, "", "test-version")
}
