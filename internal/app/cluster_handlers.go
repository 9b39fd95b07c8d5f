package app

import (
	"net/http"
	"time"

	"github.com/1pybb7-prog/mytourproject1/internal/cluster"
	"github.com/1pybb7-prog/mytourproject1/internal/geo"
	"github.com/1pybb7-prog/mytourproject1/internal/markers"
	"github.com/1pybb7-prog/mytourproject1/internal/metrics"
	"github.com/1pybb7-prog/mytourproject1/internal/models"
)

// ClusterView is one cluster in the /v1/clusters response.
type ClusterView struct {
	Center geo.Position `json:"center"`
	Count  int          `json:"count"`
	Places []string     `json:"place_ids"`
}

// ClustersResponse is the JSON body served by /v1/clusters.
type ClustersResponse struct {
	Clusters []ClusterView `json:"clusters"`
	Zoom     float64       `json:"zoom"`
	Mode     string        `json:"mode"`
}

// viewportFromQuery builds a web-mercator viewport from the request's
// lat, lng, zoom, width, and height parameters, defaulting to a Busan
// overview when absent.
func viewportFromQuery(r *http.Request) *geo.MercatorViewport {
	query := r.URL.Query()
	return &geo.MercatorViewport{
		Center: geo.Position{
			Lat: parseFloatOr(query.Get("lat"), 35.1796),
			Lng: parseFloatOr(query.Get("lng"), 129.0756),
		},
		ZoomLevel: parseFloatOr(query.Get("zoom"), 12),
		Width:     parseFloatOr(query.Get("width"), 1024),
		Height:    parseFloatOr(query.Get("height"), 768),
	}
}

func placePoints(places []models.Place) []cluster.Point {
	points := make([]cluster.Point, len(places))
	for i, p := range places {
		points[i] = cluster.Point{ID: p.ID, Position: p.Position, Payload: p}
	}
	return points
}

// clustersHandler clusters the stored places for the requested viewport.
// mode=grid selects the order-independent engine; anything else uses the
// greedy single-pass engine.
func (app *Application) clustersHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.Loader.Ensure(r.Context()); err != nil {
		app.errorResponse(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	vp := viewportFromQuery(r)
	points := placePoints(app.TourService.Places.All())

	opts := cluster.Options{
		MinDistancePixels: parseFloatOr(r.URL.Query().Get("min_distance"), 0),
	}

	mode := r.URL.Query().Get("mode")
	var engine interface {
		Clusters([]cluster.Point, cluster.Viewport) []cluster.Cluster
	}
	if mode == "grid" {
		engine = cluster.NewGrid(opts)
	} else {
		mode = "greedy"
		engine = cluster.New(opts)
	}

	start := time.Now()
	clusters := engine.Clusters(points, vp)
	metrics.ClusteringDuration.Observe(time.Since(start).Seconds())
	metrics.ClusteredPoints.WithLabelValues(mode).Set(float64(len(points)))
	metrics.ClustersProduced.WithLabelValues(mode).Set(float64(len(clusters)))

	views := make([]ClusterView, len(clusters))
	for i, c := range clusters {
		ids := make([]string, len(c.Points))
		for j, p := range c.Points {
			ids[j] = p.ID
		}
		views[i] = ClusterView{Center: c.Center, Count: c.Count(), Places: ids}
	}

	app.writeJSON(w, http.StatusOK, ClustersResponse{
		Clusters: views,
		Zoom:     vp.Zoom(),
		Mode:     mode,
	})
}

// MarkersResponse is the JSON body served by /v1/markers: the sequence of
// render commands a map front-end would replay to draw the current
// viewport.
type MarkersResponse struct {
	Commands []markers.Command `json:"commands"`
	Markers  int               `json:"markers"`
}

// markersHandler renders the stored places through a marker manager and
// returns the resulting command list. An optional expand parameter
// identifies a place whose cluster should be expanded; an optional
// move_to parameter centers the view on one place at detail zoom.
func (app *Application) markersHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.Loader.Ensure(r.Context()); err != nil {
		app.errorResponse(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	vp := viewportFromQuery(r)
	renderer := markers.NewCommandRenderer()

	manager := markers.NewManager(renderer, vp, app.Logger, markers.Options{
		Grid: r.URL.Query().Get("mode") == "grid",
	})
	defer manager.Close()

	manager.AddMarkers(placePoints(app.TourService.Places.All()))

	if moveTo := r.URL.Query().Get("move_to"); moveTo != "" {
		if err := manager.MoveToMarker(moveTo); err != nil {
			app.errorResponse(w, http.StatusNotFound, "no marker with id "+moveTo)
			return
		}
	}

	if expand := r.URL.Query().Get("expand"); expand != "" {
		if !app.expandClusterOf(manager, expand) {
			app.errorResponse(w, http.StatusNotFound, "no cluster containing id "+expand)
			return
		}
	}

	app.writeJSON(w, http.StatusOK, MarkersResponse{
		Commands: renderer.Commands(),
		Markers:  manager.Count(),
	})
}

// expandClusterOf finds the cluster containing the given place and asks
// the manager to fit the view to it.
func (app *Application) expandClusterOf(manager *markers.Manager, placeID string) bool {
	for _, c := range manager.Clusters() {
		for _, p := range c.Points {
			if p.ID == placeID {
				return manager.ExpandCluster(c) == nil
			}
		}
	}
	return false
}
