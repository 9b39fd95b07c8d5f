package app

import (
	"context"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/1pybb7-prog/mytourproject1/internal/middleware"
)

// Routes registers all endpoints and returns the final http.Handler. The
// router is wrapped with Sentry error capture and security headers; the
// metrics endpoint serves a cached exposition refreshed until ctx is
// cancelled.
func (app *Application) Routes(ctx context.Context) http.Handler {
	router := httprouter.New()

	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", app.healthcheckHandler)

	router.HandlerFunc(http.MethodGet, "/v1/places", app.listPlacesHandler)
	router.HandlerFunc(http.MethodGet, "/v1/places/search", app.searchPlacesHandler)

	router.HandlerFunc(http.MethodGet, "/v1/clusters", app.clustersHandler)
	router.HandlerFunc(http.MethodGet, "/v1/markers", app.markersHandler)

	router.HandlerFunc(http.MethodGet, "/v1/bookmarks", app.listBookmarksHandler)
	router.HandlerFunc(http.MethodPost, "/v1/bookmarks", app.createBookmarkHandler)
	router.Handle(http.MethodDelete, "/v1/bookmarks/:id", app.deleteBookmarkHandler)

	router.Handler(http.MethodGet, "/metrics", middleware.NewCachedPromHandler(ctx, prometheus.DefaultGatherer, 10*time.Second))

	handler := middleware.SentryMiddleware(router)
	return middleware.SecurityHeaders(handler)
}
