package cluster

import (
	"math/rand"
	"reflect"
	"sort"
	"testing"

	"github.com/1pybb7-prog/mytourproject1/internal/geo"
)

// canonical reduces a cluster set to a sorted list of sorted member ID
// slices so two partitions can be compared regardless of ordering.
func canonical(clusters []Cluster) [][]string {
	out := make([][]string, 0, len(clusters))
	for _, c := range clusters {
		ids := make([]string, 0, len(c.Points))
		for _, p := range c.Points {
			ids = append(ids, p.ID)
		}
		sort.Strings(ids)
		out = append(out, ids)
	}
	sort.Slice(out, func(a, b int) bool {
		return out[a][0] < out[b][0]
	})
	return out
}

func TestGridClustersMatchScenario(t *testing.T) {
	points := testPoints(
		geo.Position{Lat: 35.0, Lng: 129.0},
		geo.Position{Lat: 35.0, Lng: 129.1},
		geo.Position{Lat: 35.0, Lng: 134.0},
	)
	g := NewGrid(Options{MinDistancePixels: 60, MinZoom: 10})

	clusters := g.Clusters(points, &flatViewport{zoom: 12, available: true})

	assertPartition(t, points, clusters)
	if len(clusters) != 2 {
		t.Fatalf("expected 2 clusters, got %d", len(clusters))
	}
}

func TestGridClustersOrderIndependent(t *testing.T) {
	base := testPoints(
		geo.Position{Lat: 35.0, Lng: 129.0},
		geo.Position{Lat: 35.0, Lng: 129.3},
		geo.Position{Lat: 35.0, Lng: 129.5},
		geo.Position{Lat: 35.2, Lng: 129.0},
		geo.Position{Lat: 36.0, Lng: 130.0},
		geo.Position{Lat: 36.001, Lng: 130.001},
	)
	g := NewGrid(Options{MinDistancePixels: 60, MinZoom: 10})
	vp := &flatViewport{zoom: 12, available: true}

	want := canonical(g.Clusters(base, vp))

	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 20; trial++ {
		shuffled := append([]Point(nil), base...)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		got := canonical(g.Clusters(shuffled, vp))
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("trial %d: partition changed under permutation\ngot  %v\nwant %v", trial, got, want)
		}
	}
}

func TestGridClustersLowestIDSeeds(t *testing.T) {
	// p1 sits between p0 and p2; with ID-ordered seeding p0 always claims
	// it, no matter where it appears in the input slice.
	points := testPoints(
		geo.Position{Lat: 35.0, Lng: 129.0},
		geo.Position{Lat: 35.0, Lng: 129.5},
		geo.Position{Lat: 35.0, Lng: 130.0},
	)
	reversed := []Point{points[2], points[1], points[0]}

	g := NewGrid(Options{MinDistancePixels: 60, MinZoom: 10})
	clusters := g.Clusters(reversed, &flatViewport{zoom: 12, available: true})

	if len(clusters) != 2 {
		t.Fatalf("expected 2 clusters, got %d", len(clusters))
	}
	for _, c := range clusters {
		ids := memberIDs(c)
		if ids["p1"] && !ids["p0"] {
			t.Errorf("shared point should belong to the lowest-ID seed: %v", ids)
		}
	}
}

func TestGridClustersBelowMinZoom(t *testing.T) {
	points := testPoints(
		geo.Position{Lat: 35.0, Lng: 129.0},
		geo.Position{Lat: 35.0001, Lng: 129.0001},
	)
	g := NewGrid(Options{MinZoom: 10})

	clusters := g.Clusters(points, &flatViewport{zoom: 5, available: true})
	if len(clusters) != 2 {
		t.Errorf("expected singletons below min zoom, got %d clusters", len(clusters))
	}
}

func TestGridClustersProjectionUnavailable(t *testing.T) {
	points := testPoints(
		geo.Position{Lat: 35.0, Lng: 129.0},
		geo.Position{Lat: 35.00001, Lng: 129.00001},
	)
	g := NewGrid(Options{MinDistancePixels: 60, MinZoom: 10})

	clusters := g.Clusters(points, &flatViewport{zoom: 12, available: false})

	assertPartition(t, points, clusters)
	if len(clusters) != 1 {
		t.Errorf("expected fallback merge, got %d clusters", len(clusters))
	}
}
