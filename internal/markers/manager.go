package markers

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/1pybb7-prog/mytourproject1/internal/cluster"
)

// ErrMarkerNotFound is returned when no managed point matches the
// requested identifier.
var ErrMarkerNotFound = errors.New("marker not found")

const (
	// DefaultDetailZoom is the zoom level applied when jumping from a list
	// selection to its map location.
	DefaultDetailZoom = 15

	// DefaultFitPadding is the pixel padding applied on each side when
	// fitting the viewport to an expanded cluster.
	DefaultFitPadding = 40

	// DefaultDebounceDelay coalesces bursts of viewport-change events into
	// a single re-clustering pass.
	DefaultDebounceDelay = 100 * time.Millisecond
)

// Options configures a Manager. Zero-value fields take defaults.
type Options struct {
	Cluster       cluster.Options
	DetailZoom    float64
	FitPadding    int
	DebounceDelay time.Duration

	// Grid selects the order-independent grid clusterer instead of the
	// greedy single-pass engine.
	Grid bool
}

func (o Options) withDefaults() Options {
	if o.DetailZoom == 0 {
		o.DetailZoom = DefaultDetailZoom
	}
	if o.FitPadding == 0 {
		o.FitPadding = DefaultFitPadding
	}
	if o.DebounceDelay == 0 {
		o.DebounceDelay = DefaultDebounceDelay
	}
	return o
}

// clusterEngine is satisfied by both cluster.Clusterer and
// cluster.GridClusterer.
type clusterEngine interface {
	Clusters([]cluster.Point, cluster.Viewport) []cluster.Cluster
	Options() cluster.Options
}

// Manager owns the point set currently shown on the map and reconciles the
// rendered markers against freshly computed clusters. Updates are full
// destroy/recreate cycles; there is no incremental diffing, which is
// acceptable for typical point-list sizes.
//
// All methods are safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	opts     Options
	engine   clusterEngine
	renderer Renderer
	viewport cluster.Viewport
	logger   *slog.Logger

	points   []cluster.Point
	clusters []cluster.Cluster
	handles  []MarkerHandle

	debounce *time.Timer
	closed   bool
}

// NewManager creates a Manager rendering through the given renderer and
// clustering against the given viewport.
func NewManager(renderer Renderer, viewport cluster.Viewport, logger *slog.Logger, opts Options) *Manager {
	opts = opts.withDefaults()
	var engine clusterEngine
	if opts.Grid {
		engine = cluster.NewGrid(opts.Cluster)
	} else {
		engine = cluster.New(opts.Cluster)
	}
	return &Manager{
		opts:     opts,
		engine:   engine,
		renderer: renderer,
		viewport: viewport,
		logger:   logger,
	}
}

// AddMarkers appends points to the managed set and re-renders.
func (m *Manager) AddMarkers(points []cluster.Point) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.points = append(m.points, points...)
	m.update()
}

// ClearMarkers removes every rendered marker and empties the managed set.
// Clearing an already-empty manager is a no-op.
func (m *Manager) ClearMarkers() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeAll()
	m.points = nil
	m.clusters = nil
}

// Update re-clusters the managed set for the current viewport and
// re-renders. It is idempotent: all current markers are removed before the
// new set is created.
func (m *Manager) Update() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.update()
}

func (m *Manager) update() {
	m.removeAll()
	m.clusters = m.engine.Clusters(m.points, m.viewport)

	style := m.engine.Options().Style
	for _, c := range m.clusters {
		var content MarkerContent
		if !c.Singleton() {
			s := style
			content = MarkerContent{
				Label: fmt.Sprintf("%d", c.Count()),
				Style: &s,
			}
		}
		m.handles = append(m.handles, m.renderer.CreateMarker(c.Center, content))
	}
}

func (m *Manager) removeAll() {
	for _, h := range m.handles {
		m.renderer.RemoveMarker(h)
	}
	m.handles = nil
}

// Clusters returns a copy of the most recently computed cluster set.
func (m *Manager) Clusters() []cluster.Cluster {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]cluster.Cluster(nil), m.clusters...)
}

// Count returns the number of managed points.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.points)
}

// FindMarker returns the managed point with the given ID.
func (m *Manager) FindMarker(id string) (cluster.Point, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.points {
		if p.ID == id {
			return p, nil
		}
	}
	return cluster.Point{}, fmt.Errorf("%w: %s", ErrMarkerNotFound, id)
}

// MoveToMarker recenters the viewport on the identified point at the
// detail zoom level.
func (m *Manager) MoveToMarker(id string) error {
	point, err := m.FindMarker(id)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.renderer.SetCenter(point.Position, m.opts.DetailZoom)
	return nil
}

// ExpandCluster fits the viewport to the bounding box of the cluster's
// members. At the resulting zoom the clusterer naturally re-partitions the
// now-closer points into smaller clusters or singletons.
func (m *Manager) ExpandCluster(c cluster.Cluster) error {
	box, err := c.Bounds()
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.renderer.FitBounds(box, m.opts.FitPadding)
	return nil
}

// ViewportChanged schedules a debounced re-cluster. A pending timer is
// cancelled and replaced on every call, so only the final settled viewport
// state of a pan/zoom gesture triggers the recompute.
func (m *Manager) ViewportChanged() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	if m.debounce != nil {
		m.debounce.Stop()
	}
	m.debounce = time.AfterFunc(m.opts.DebounceDelay, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.closed {
			return
		}
		m.update()
		if m.logger != nil {
			m.logger.Debug("re-clustered after viewport change", "clusters", len(m.clusters))
		}
	})
}

// Close cancels any pending debounce timer and releases all marker state.
// The manager cannot be used afterwards.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	if m.debounce != nil {
		m.debounce.Stop()
		m.debounce = nil
	}
	m.removeAll()
	m.points = nil
	m.clusters = nil
	m.closed = true
}
