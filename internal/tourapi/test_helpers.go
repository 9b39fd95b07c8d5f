package tourapi

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/1pybb7-prog/mytourproject1/internal/models"
)

// createTestSource returns a TourSource pointing at the given base URL,
// configured the way a Busan deployment would be.
func createTestSource(baseURL string, id int) models.TourSource {
	return models.TourSource{
		Name:          "Test Source",
		ID:            id,
		BaseURL:       baseURL,
		ServiceKey:    "test-key",
		AreaCode:      "6",
		ContentTypeID: "12",
		AppName:       "tourmapd",
	}
}

// setupTourServer creates an httptest.Server that responds with the given
// JSON string and status code, capturing the last request for inspection.
func setupTourServer(t *testing.T, response string, statusCode int, lastReq **http.Request) *httptest.Server {
	t.Helper()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if lastReq != nil {
			*lastReq = r.Clone(r.Context())
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		w.Write([]byte(response))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// listResponseJSON builds a minimal catalog list payload around the given
// item JSON fragments.
func listResponseJSON(totalCount int, items string) string {
	return `{
		"response": {
			"header": {"resultCode": "0000", "resultMsg": "OK"},
			"body": {
				"items": {"item": [` + items + `]},
				"numOfRows": 100,
				"pageNo": 1,
				"totalCount": ` + strconv.Itoa(totalCount) + `
			}
		}
	}`
}
