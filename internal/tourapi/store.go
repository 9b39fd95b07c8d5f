package tourapi

import (
	"sort"
	"sync"

	"github.com/1pybb7-prog/mytourproject1/internal/models"
)

// PlaceStore holds the fetched place lists per source in memory with
// concurrency safety.
type PlaceStore struct {
	mu    sync.RWMutex
	store map[int][]models.Place
}

// NewPlaceStore creates and returns a new PlaceStore.
func NewPlaceStore() *PlaceStore {
	return &PlaceStore{
		store: make(map[int][]models.Place),
	}
}

// Set replaces the place list for a specific source ID.
func (s *PlaceStore) Set(sourceID int, places []models.Place) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store[sourceID] = append([]models.Place(nil), places...)
}

// Get retrieves a copy of the place list for a specific source ID.
func (s *PlaceStore) Get(sourceID int) ([]models.Place, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	places, ok := s.store[sourceID]
	if !ok {
		return nil, false
	}
	return append([]models.Place(nil), places...), true
}

// All returns every stored place across sources, ordered by source ID so
// repeated calls yield a stable sequence.
func (s *PlaceStore) All() []models.Place {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int, 0, len(s.store))
	for id := range s.store {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var all []models.Place
	for _, id := range ids {
		all = append(all, s.store[id]...)
	}
	return all
}

// Count returns the total number of stored places.
func (s *PlaceStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, places := range s.store {
		n += len(places)
	}
	return n
}
