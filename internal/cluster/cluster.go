// Package cluster groups geo-tagged points into visual clusters based on
// their pixel distance at the current map zoom. It is a pure in-memory
// transform: callers supply the points and a viewport, and get back a
// partition of the input ready for a rendering layer to draw.
package cluster

import (
	"math"

	"github.com/1pybb7-prog/mytourproject1/internal/geo"
)

// Point is one geo-tagged input to the clusterer. Payload carries an opaque
// reference back to the domain entity being visualized (typically a
// models.Place) and is never inspected here.
type Point struct {
	ID       string
	Position geo.Position
	Payload  any
}

// Cluster is a computed grouping of points. A single-member cluster is
// rendered as a plain marker; two or more members render as an aggregate
// marker showing the count.
type Cluster struct {
	Center geo.Position
	Points []Point
}

// Count returns the number of member points.
func (c Cluster) Count() int {
	return len(c.Points)
}

// Singleton reports whether the cluster holds exactly one point.
func (c Cluster) Singleton() bool {
	return len(c.Points) == 1
}

// Bounds returns the bounding box enclosing all member positions.
func (c Cluster) Bounds() (geo.BoundingBox, error) {
	positions := make([]geo.Position, len(c.Points))
	for i, p := range c.Points {
		positions[i] = p.Position
	}
	return geo.ComputeBoundingBox(positions)
}

// Viewport supplies the clusterer with the map state it needs: the zoom
// level and a position-to-pixel projection. It is owned by the rendering
// layer, not the clusterer. Project returns false when the projection is
// not available yet (rendering context not ready), in which case the
// clusterer degrades to an approximate distance instead of failing.
type Viewport interface {
	Zoom() float64
	Project(geo.Position) (geo.Pixel, bool)
}

// Style holds the visual parameters for aggregate cluster markers.
type Style struct {
	FillColor      string `json:"fill_color"`
	TextColor      string `json:"text_color"`
	DiameterPixels int    `json:"diameter_pixels"`
}

// Options configures a clusterer. The zero value of any field is replaced
// by its default.
type Options struct {
	// MinDistancePixels is the pixel distance below which two points fold
	// into the same cluster. Points exactly at this distance stay apart.
	MinDistancePixels float64

	// MinZoom disables clustering entirely below this zoom level; every
	// point renders individually when the map is zoomed far out.
	MinZoom float64

	Style Style
}

const (
	DefaultMinDistancePixels = 60
	DefaultMinZoom           = 10

	// approxPixelsPerDegree scales raw degree differences to a rough pixel
	// distance when no projection is available. Only gates clustering
	// granularity, so precision is not required.
	approxPixelsPerDegree = 1000
)

// DefaultStyle is the aggregate marker style used when none is configured.
var DefaultStyle = Style{
	FillColor:      "#FF8E01",
	TextColor:      "white",
	DiameterPixels: 40,
}

func (o Options) withDefaults() Options {
	if o.MinDistancePixels == 0 {
		o.MinDistancePixels = DefaultMinDistancePixels
	}
	if o.MinZoom == 0 {
		o.MinZoom = DefaultMinZoom
	}
	if o.Style == (Style{}) {
		o.Style = DefaultStyle
	}
	return o
}

// Clusterer partitions points with a greedy single-pass proximity scan.
//
// The scan visits points in input order: each unassigned point seeds a new
// cluster and folds in every later unassigned point whose pixel distance to
// the seed is strictly below MinDistancePixels. The result therefore
// depends on input order and ties break first-seed-wins. That is a
// deliberate simplification; GridClusterer provides an order-independent
// alternative.
type Clusterer struct {
	opts Options
}

// New creates a Clusterer, filling unset options with defaults.
func New(opts Options) *Clusterer {
	return &Clusterer{opts: opts.withDefaults()}
}

// Options returns the effective configuration after defaulting.
func (c *Clusterer) Options() Options {
	return c.opts
}

// Clusters partitions the given points for the current viewport. Every
// input point appears in exactly one output cluster.
func (c *Clusterer) Clusters(points []Point, vp Viewport) []Cluster {
	if len(points) == 0 {
		return nil
	}
	if vp == nil || vp.Zoom() < c.opts.MinZoom {
		return singletons(points)
	}

	assigned := make([]bool, len(points))
	clusters := make([]Cluster, 0, len(points))

	for i := range points {
		if assigned[i] {
			continue
		}
		assigned[i] = true
		members := []Point{points[i]}

		for j := i + 1; j < len(points); j++ {
			if assigned[j] {
				continue
			}
			if c.pixelDistance(vp, points[i].Position, points[j].Position) < c.opts.MinDistancePixels {
				assigned[j] = true
				members = append(members, points[j])
			}
		}

		clusters = append(clusters, Cluster{Center: centroid(members), Points: members})
	}

	return clusters
}

// pixelDistance is the Euclidean screen distance between two positions. It
// falls back to a scaled degree difference when the projection is
// unavailable.
func (c *Clusterer) pixelDistance(vp Viewport, a, b geo.Position) float64 {
	pa, okA := vp.Project(a)
	pb, okB := vp.Project(b)
	if !okA || !okB {
		return approxDistance(a, b)
	}
	return math.Hypot(pa.X-pb.X, pa.Y-pb.Y)
}

func approxDistance(a, b geo.Position) float64 {
	return math.Hypot(a.Lat-b.Lat, a.Lng-b.Lng) * approxPixelsPerDegree
}

// centroid is the unweighted arithmetic mean of the member positions.
func centroid(points []Point) geo.Position {
	var lat, lng float64
	for _, p := range points {
		lat += p.Position.Lat
		lng += p.Position.Lng
	}
	n := float64(len(points))
	return geo.Position{Lat: lat / n, Lng: lng / n}
}

func singletons(points []Point) []Cluster {
	clusters := make([]Cluster, len(points))
	for i, p := range points {
		clusters[i] = Cluster{Center: p.Position, Points: []Point{p}}
	}
	return clusters
}
