package app

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/1pybb7-prog/mytourproject1/internal/bookmarks"
	"github.com/1pybb7-prog/mytourproject1/internal/geo"
)

// createBookmarkRequest is the JSON body accepted by POST /v1/bookmarks.
type createBookmarkRequest struct {
	PlaceID string  `json:"place_id"`
	Title   string  `json:"title"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

func (app *Application) listBookmarksHandler(w http.ResponseWriter, r *http.Request) {
	list, err := app.Bookmarks.List(r.Context())
	if err != nil {
		app.Logger.Error("Failed to list bookmarks", "error", err)
		app.errorResponse(w, http.StatusInternalServerError, "failed to list bookmarks")
		return
	}
	if list == nil {
		list = []bookmarks.Bookmark{}
	}
	app.writeJSON(w, http.StatusOK, map[string][]bookmarks.Bookmark{"bookmarks": list})
}

func (app *Application) createBookmarkHandler(w http.ResponseWriter, r *http.Request) {
	var req createBookmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		app.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.PlaceID == "" || req.Title == "" {
		app.errorResponse(w, http.StatusBadRequest, "place_id and title are required")
		return
	}
	if !geo.IsValidLatLng(req.Lat, req.Lng) {
		app.errorResponse(w, http.StatusBadRequest, "lat and lng must be valid coordinates")
		return
	}

	bookmark, err := app.Bookmarks.Add(r.Context(), req.PlaceID, req.Title, geo.Position{Lat: req.Lat, Lng: req.Lng})
	if err != nil {
		app.Logger.Error("Failed to create bookmark", "error", err)
		app.errorResponse(w, http.StatusInternalServerError, "failed to create bookmark")
		return
	}
	app.writeJSON(w, http.StatusCreated, bookmark)
}

func (app *Application) deleteBookmarkHandler(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	id := params.ByName("id")

	err := app.Bookmarks.Delete(r.Context(), id)
	if errors.Is(err, bookmarks.ErrNotFound) {
		app.errorResponse(w, http.StatusNotFound, "no bookmark with id "+id)
		return
	}
	if err != nil {
		app.Logger.Error("Failed to delete bookmark", "error", err)
		app.errorResponse(w, http.StatusInternalServerError, "failed to delete bookmark")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
