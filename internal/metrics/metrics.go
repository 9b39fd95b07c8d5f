package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TourApiStatus API Status (up/down)
	TourApiStatus = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tour_api_status",
			Help: "Status of the tour information API source (0 = not working, 1 = working)",
		},
		[]string{"source_id", "source_url"},
	)
)

var (
	PlacesFetched = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tour_places_fetched",
		Help: "Number of places currently held for the source",
	}, []string{"source_id"})

	PlacesSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tour_places_skipped_total",
		Help: "Number of place records dropped because their coordinates could not be parsed",
	}, []string{"source_id"})
)

var (
	ClusteringDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "clustering_duration_seconds",
		Help:    "Time spent running one clustering pass",
		Buckets: prometheus.DefBuckets,
	})

	ClustersProduced = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "clusters_produced",
		Help: "Number of clusters produced by the last clustering pass",
	}, []string{"mode"})

	ClusteredPoints = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "clustered_points",
		Help: "Number of points fed into the last clustering pass",
	}, []string{"mode"})
)

var (
	BookmarksTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bookmarks_total",
		Help: "Number of bookmarks currently stored",
	})
)

var (
	OutgoingRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "outgoing_request_duration_seconds",
		Help:    "Duration of outgoing HTTP requests to tour information sources",
		Buckets: prometheus.DefBuckets,
	}, []string{"host", "method", "status"})
)
