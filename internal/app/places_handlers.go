package app

import (
	"net/http"
	"strconv"

	"github.com/1pybb7-prog/mytourproject1/internal/geo"
	"github.com/1pybb7-prog/mytourproject1/internal/models"
	"github.com/1pybb7-prog/mytourproject1/internal/tourapi"
)

// PlacesResponse is the paginated place list served by /v1/places and
// /v1/places/search.
type PlacesResponse struct {
	Places []models.Place `json:"places"`
	Total  int            `json:"total"`
	Page   int            `json:"page"`
	Size   int            `json:"size"`
}

// listPlacesHandler serves the stored catalog, optionally filtered by
// content type and title keyword, sorted, and paginated.
//
// Query parameters:
//   - content_type_id: restrict to one catalog content type
//   - keyword: case-insensitive title substring
//   - sort: "title" (default) or "distance"
//   - lat, lng: reference point for distance sort
//   - page, size: 1-based pagination
func (app *Application) listPlacesHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.Loader.Ensure(r.Context()); err != nil {
		app.errorResponse(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	query := r.URL.Query()

	places := tourapi.FilterPlaces(app.TourService.Places.All(), query.Get("content_type_id"), query.Get("keyword"))

	sortBy := query.Get("sort")
	ref, err := parseLatLng(query.Get("lat"), query.Get("lng"))
	if sortBy == tourapi.SortByDistance && err != nil {
		app.errorResponse(w, http.StatusBadRequest, "distance sort requires valid lat and lng parameters")
		return
	}
	places = tourapi.SortPlaces(places, sortBy, ref)

	page := parseIntOr(query.Get("page"), 1)
	size := parseIntOr(query.Get("size"), tourapi.DefaultPageSize)

	app.writeJSON(w, http.StatusOK, PlacesResponse{
		Places: tourapi.PaginatePlaces(places, page, size),
		Total:  len(places),
		Page:   page,
		Size:   size,
	})
}

// searchPlacesHandler performs a live keyword search against every
// configured source and merges the results.
func (app *Application) searchPlacesHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	keyword := query.Get("keyword")
	if keyword == "" {
		app.errorResponse(w, http.StatusBadRequest, "keyword parameter is required")
		return
	}

	page := parseIntOr(query.Get("page"), 1)
	size := parseIntOr(query.Get("size"), tourapi.DefaultPageSize)

	var merged []models.Place
	total := 0
	for _, source := range app.ConfigService.Config.GetSources() {
		places, count, err := app.TourService.Client.SearchKeyword(r.Context(), source, keyword, page, size)
		if err != nil {
			app.Logger.Error("Keyword search failed", "source_id", source.ID, "error", err)
			continue
		}
		merged = append(merged, places...)
		total += count
	}

	app.writeJSON(w, http.StatusOK, PlacesResponse{
		Places: merged,
		Total:  total,
		Page:   page,
		Size:   size,
	})
}

func parseLatLng(latStr, lngStr string) (geo.Position, error) {
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return geo.Position{}, err
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return geo.Position{}, err
	}
	return geo.Position{Lat: lat, Lng: lng}, nil
}

func parseIntOr(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func parseFloatOr(s string, fallback float64) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return f
}
