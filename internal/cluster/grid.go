package cluster

import (
	"math"
	"sort"

	"github.com/dhconnelly/rtreego"
)

const (
	dimensions  = 2
	minChildren = 25
	maxChildren = 50

	// pointTolerance is the side length of the degenerate rect that
	// represents a point in the R-tree.
	pointTolerance = 0.001
)

// spatialPoint wraps a projected point to implement rtreego.Spatial.
type spatialPoint struct {
	idx  int
	rect *rtreego.Rect
}

func (sp *spatialPoint) Bounds() *rtreego.Rect {
	return sp.rect
}

// GridClusterer partitions points like Clusterer but independently of input
// order: candidate seeds are visited in ascending ID order and neighbor
// lookups go through an R-tree over the projected pixel positions, so the
// lowest-ID point of every neighborhood always wins the seed role.
//
// Output differs from the greedy Clusterer for ambiguous configurations.
// This is a documented behavior choice, selectable per call site, not a
// replacement for the greedy engine.
type GridClusterer struct {
	opts Options
}

// NewGrid creates a GridClusterer, filling unset options with defaults.
func NewGrid(opts Options) *GridClusterer {
	return &GridClusterer{opts: opts.withDefaults()}
}

// Options returns the effective configuration after defaulting.
func (g *GridClusterer) Options() Options {
	return g.opts
}

// Clusters partitions the given points for the current viewport. Every
// input point appears in exactly one output cluster, and permuting the
// input does not change the resulting partition.
func (g *GridClusterer) Clusters(points []Point, vp Viewport) []Cluster {
	if len(points) == 0 {
		return nil
	}
	if vp == nil || vp.Zoom() < g.opts.MinZoom {
		return singletons(points)
	}

	// Seed order is ID order regardless of how the caller arranged the
	// slice.
	order := make([]int, len(points))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return points[order[a]].ID < points[order[b]].ID
	})

	pixels := make([]struct {
		px rtreego.Point
		ok bool
	}, len(points))
	tree := rtreego.NewTree(dimensions, minChildren, maxChildren)
	indexed := false
	for i, p := range points {
		px, ok := vp.Project(p.Position)
		pixels[i].ok = ok
		if !ok {
			continue
		}
		pixels[i].px = rtreego.Point{px.X, px.Y}
		tree.Insert(&spatialPoint{idx: i, rect: pixels[i].px.ToRect(pointTolerance)})
		indexed = true
	}
	if !indexed {
		// Projection not ready for any point; degrade to the greedy scan
		// with its approximate distance rather than failing.
		return New(g.opts).Clusters(points, vp)
	}

	assigned := make([]bool, len(points))
	clusters := make([]Cluster, 0, len(points))
	dist := g.opts.MinDistancePixels

	for _, i := range order {
		if assigned[i] {
			continue
		}
		assigned[i] = true
		members := []Point{points[i]}

		if pixels[i].ok {
			seed := pixels[i].px
			searchRect, err := rtreego.NewRect(
				rtreego.Point{seed[0] - dist, seed[1] - dist},
				[]float64{2 * dist, 2 * dist},
			)
			if err == nil {
				neighbors := make([]int, 0, 8)
				for _, hit := range tree.SearchIntersect(searchRect) {
					sp, ok := hit.(*spatialPoint)
					if !ok || assigned[sp.idx] {
						continue
					}
					if pixelHypot(seed, pixels[sp.idx].px) < dist {
						neighbors = append(neighbors, sp.idx)
					}
				}
				// Deterministic member order inside the cluster.
				sort.Slice(neighbors, func(a, b int) bool {
					return points[neighbors[a]].ID < points[neighbors[b]].ID
				})
				for _, j := range neighbors {
					assigned[j] = true
					members = append(members, points[j])
				}
			}
		}

		clusters = append(clusters, Cluster{Center: centroid(members), Points: members})
	}

	return clusters
}

func pixelHypot(a, b rtreego.Point) float64 {
	return math.Hypot(a[0]-b[0], a[1]-b[1])
}
