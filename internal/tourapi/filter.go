package tourapi

import (
	"sort"
	"strings"

	"github.com/1pybb7-prog/mytourproject1/internal/geo"
	"github.com/1pybb7-prog/mytourproject1/internal/models"
)

// Sort orders accepted by SortPlaces.
const (
	SortByTitle    = "title"
	SortByDistance = "distance"
)

// FilterPlaces returns the places matching the given content type and
// title keyword. Empty filter values match everything; the keyword match
// is case-insensitive.
func FilterPlaces(places []models.Place, contentTypeID, keyword string) []models.Place {
	keyword = strings.ToLower(strings.TrimSpace(keyword))

	out := make([]models.Place, 0, len(places))
	for _, p := range places {
		if contentTypeID != "" && p.ContentTypeID != contentTypeID {
			continue
		}
		if keyword != "" && !strings.Contains(strings.ToLower(p.Title), keyword) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// SortPlaces returns a sorted copy of places. SortByDistance orders by
// great-circle distance from ref; SortByTitle (and any unknown value)
// orders lexicographically by title. The sort is stable so equal keys keep
// their fetch order.
func SortPlaces(places []models.Place, by string, ref geo.Position) []models.Place {
	out := append([]models.Place(nil), places...)
	switch by {
	case SortByDistance:
		sort.SliceStable(out, func(i, j int) bool {
			di := geo.HaversineDistance(ref.Lat, ref.Lng, out[i].Position.Lat, out[i].Position.Lng)
			dj := geo.HaversineDistance(ref.Lat, ref.Lng, out[j].Position.Lat, out[j].Position.Lng)
			return di < dj
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Title < out[j].Title
		})
	}
	return out
}

// PaginatePlaces slices one page out of places. Pages are 1-based; an
// out-of-range page yields an empty slice.
func PaginatePlaces(places []models.Place, page, size int) []models.Place {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page <= 0 {
		page = 1
	}
	start := (page - 1) * size
	if start >= len(places) {
		return nil
	}
	end := start + size
	if end > len(places) {
		end = len(places)
	}
	return places[start:end]
}
