package tourapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/dnaeon/go-vcr.v4/pkg/recorder"
)

const testItems = `{
	"contentid": "2763807",
	"contenttypeid": "12",
	"title": "해운대해수욕장",
	"addr1": "부산광역시 해운대구 해운대해변로 264",
	"tel": "051-749-7601",
	"firstimage": "http://tong.visitkorea.or.kr/cms/resource/haeundae.jpg",
	"mapx": "1291603556",
	"mapy": "351586522"
}, {
	"contentid": "126508",
	"contenttypeid": "12",
	"title": "광안리해수욕장",
	"mapx": "129.118666",
	"mapy": "35.153177"
}`

func TestAreaBasedList(t *testing.T) {
	t.Run("successful fetch", func(t *testing.T) {
		var lastReq *http.Request
		ts := setupTourServer(t, listResponseJSON(2, testItems), http.StatusOK, &lastReq)

		client := NewClient(ts.Client(), testLogger())
		source := createTestSource(ts.URL, 1)

		places, total, err := client.AreaBasedList(context.Background(), source, 1, 100)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if total != 2 {
			t.Errorf("expected total 2, got %d", total)
		}
		if len(places) != 2 {
			t.Fatalf("expected 2 places, got %d", len(places))
		}

		first := places[0]
		if first.ID != "2763807" || first.Title != "해운대해수욕장" {
			t.Errorf("unexpected first place: %+v", first)
		}
		// Fixed-point coordinates come back as decimal degrees, with the
		// catalog's x/y order swapped into lat/lng.
		if diff := first.Position.Lat - 35.1586522; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("expected lat 35.1586522, got %v", first.Position.Lat)
		}
		if diff := first.Position.Lng - 129.1603556; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("expected lng 129.1603556, got %v", first.Position.Lng)
		}

		// Already-decimal coordinates pass through untouched.
		second := places[1]
		if second.Position.Lat != 35.153177 || second.Position.Lng != 129.118666 {
			t.Errorf("unexpected second position: %+v", second.Position)
		}

		query := lastReq.URL.Query()
		for param, want := range map[string]string{
			"serviceKey":    "test-key",
			"MobileOS":      "ETC",
			"MobileApp":     "tourmapd",
			"_type":         "json",
			"areaCode":      "6",
			"contentTypeId": "12",
			"numOfRows":     "100",
			"pageNo":        "1",
		} {
			if got := query.Get(param); got != want {
				t.Errorf("query param %s = %q, want %q", param, got, want)
			}
		}
		if !strings.HasSuffix(lastReq.URL.Path, "/areaBasedList1") {
			t.Errorf("unexpected path %s", lastReq.URL.Path)
		}
	})

	t.Run("skips items with unparseable coordinates", func(t *testing.T) {
		items := `{
			"contentid": "1",
			"contenttypeid": "12",
			"title": "good",
			"mapx": "129.0",
			"mapy": "35.0"
		}, {
			"contentid": "2",
			"contenttypeid": "12",
			"title": "bad",
			"mapx": "not-a-number",
			"mapy": "35.0"
		}`
		ts := setupTourServer(t, listResponseJSON(2, items), http.StatusOK, nil)

		client := NewClient(ts.Client(), testLogger())
		places, _, err := client.AreaBasedList(context.Background(), createTestSource(ts.URL, 1), 1, 100)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(places) != 1 || places[0].ID != "1" {
			t.Errorf("expected only the valid place, got %+v", places)
		}
	})

	t.Run("skips items at null island", func(t *testing.T) {
		items := `{
			"contentid": "3",
			"contenttypeid": "12",
			"title": "nowhere",
			"mapx": "0",
			"mapy": "0"
		}`
		ts := setupTourServer(t, listResponseJSON(1, items), http.StatusOK, nil)

		client := NewClient(ts.Client(), testLogger())
		places, _, err := client.AreaBasedList(context.Background(), createTestSource(ts.URL, 1), 1, 100)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(places) != 0 {
			t.Errorf("expected no places, got %+v", places)
		}
	})

	t.Run("API-level error code", func(t *testing.T) {
		response := `{
			"response": {
				"header": {"resultCode": "30", "resultMsg": "SERVICE_KEY_IS_NOT_REGISTERED_ERROR"},
				"body": {}
			}
		}`
		ts := setupTourServer(t, response, http.StatusOK, nil)

		client := NewClient(ts.Client(), testLogger())
		_, _, err := client.AreaBasedList(context.Background(), createTestSource(ts.URL, 1), 1, 100)
		if err == nil {
			t.Fatal("expected error for non-0000 result code")
		}
		if !strings.Contains(err.Error(), "SERVICE_KEY_IS_NOT_REGISTERED_ERROR") {
			t.Errorf("expected result message in error, got %v", err)
		}
	})

	t.Run("HTTP error status", func(t *testing.T) {
		ts := setupTourServer(t, `{"error":"forbidden"}`, http.StatusForbidden, nil)

		client := NewClient(ts.Client(), testLogger())
		_, _, err := client.AreaBasedList(context.Background(), createTestSource(ts.URL, 1), 1, 100)
		if err == nil {
			t.Fatal("expected error for 403 response")
		}
	})

	t.Run("malformed JSON", func(t *testing.T) {
		ts := setupTourServer(t, `{not json`, http.StatusOK, nil)

		client := NewClient(ts.Client(), testLogger())
		_, _, err := client.AreaBasedList(context.Background(), createTestSource(ts.URL, 1), 1, 100)
		if err == nil {
			t.Fatal("expected error for malformed JSON")
		}
	})
}

func TestSearchKeyword(t *testing.T) {
	t.Run("keyword forwarded", func(t *testing.T) {
		var lastReq *http.Request
		ts := setupTourServer(t, listResponseJSON(0, ""), http.StatusOK, &lastReq)

		client := NewClient(ts.Client(), testLogger())
		_, _, err := client.SearchKeyword(context.Background(), createTestSource(ts.URL, 1), "해수욕장", 1, 50)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := lastReq.URL.Query().Get("keyword"); got != "해수욕장" {
			t.Errorf("keyword = %q", got)
		}
		if !strings.HasSuffix(lastReq.URL.Path, "/searchKeyword1") {
			t.Errorf("unexpected path %s", lastReq.URL.Path)
		}
	})

	t.Run("empty keyword rejected", func(t *testing.T) {
		client := NewClient(nil, testLogger())
		_, _, err := client.SearchKeyword(context.Background(), createTestSource("http://example.com", 1), "", 1, 50)
		if err == nil {
			t.Fatal("expected error for empty keyword")
		}
	})
}

func TestFetchAllPlaces(t *testing.T) {
	pages := map[string]string{
		"1": listResponseJSON(3, `{"contentid":"1","contenttypeid":"12","title":"a","mapx":"129.0","mapy":"35.0"},
			{"contentid":"2","contenttypeid":"12","title":"b","mapx":"129.1","mapy":"35.1"}`),
		"2": listResponseJSON(3, `{"contentid":"3","contenttypeid":"12","title":"c","mapx":"129.2","mapy":"35.2"}`),
	}

	var requests []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pageNo := r.URL.Query().Get("pageNo")
		requests = append(requests, pageNo)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(pages[pageNo]))
	}))
	defer ts.Close()

	client := NewClient(ts.Client(), testLogger())
	places, err := client.FetchAllPlaces(context.Background(), createTestSource(ts.URL, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(places) != 3 {
		t.Errorf("expected 3 places across pages, got %d", len(places))
	}
	if len(requests) != 2 || requests[0] != "1" || requests[1] != "2" {
		t.Errorf("expected pages 1 and 2 to be requested, got %v", requests)
	}
}

func TestAreaBasedListWithVCR(t *testing.T) {
	rec, err := recorder.New(filepath.Join("testdata", "vcr", "area_based_list_successful_request"))
	if err != nil {
		t.Fatalf("Failed to create recorder: %v", err)
	}
	defer rec.Stop()

	client := NewClient(&http.Client{
		Transport: rec,
		Timeout:   10 * time.Second,
	}, testLogger())

	source := createTestSource("https://apis.data.go.kr/B551011/KorService1", 1)

	places, total, err := client.AreaBasedList(context.Background(), source, 1, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 {
		t.Errorf("expected total 2, got %d", total)
	}
	if len(places) != 2 {
		t.Fatalf("expected 2 places, got %d", len(places))
	}
	if places[0].Title != "해운대해수욕장" {
		t.Errorf("unexpected first place title %q", places[0].Title)
	}
}
