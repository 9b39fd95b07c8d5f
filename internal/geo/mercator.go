package geo

import "math"

// tileSize is the side length in pixels of one web-mercator tile at zoom 0.
const tileSize = 256

// MercatorViewport projects geographic positions to screen pixels using the
// standard web-mercator tile scheme. The screen origin is the top-left
// corner of a Width x Height window centered on Center.
//
// It satisfies the cluster.Viewport interface and stands in for the
// projection a map SDK would normally supply.
type MercatorViewport struct {
	Center    Position
	ZoomLevel float64
	Width     float64
	Height    float64
}

// Zoom returns the current zoom level.
func (v *MercatorViewport) Zoom() float64 {
	return v.ZoomLevel
}

// Project converts a position to screen pixel coordinates. The second
// return value is always true: the mercator projection is never
// unavailable, unlike an SDK-backed projection that may not be ready yet.
func (v *MercatorViewport) Project(p Position) (Pixel, bool) {
	wx, wy := mercatorWorld(p, v.ZoomLevel)
	cx, cy := mercatorWorld(v.Center, v.ZoomLevel)
	return Pixel{
		X: wx - cx + v.Width/2,
		Y: wy - cy + v.Height/2,
	}, true
}

// mercatorWorld returns absolute world pixel coordinates at the given zoom.
func mercatorWorld(p Position, zoom float64) (x, y float64) {
	scale := tileSize * math.Exp2(zoom)

	siny := math.Sin(p.Lat * math.Pi / 180)
	// Clamp to keep y finite near the poles.
	siny = math.Min(math.Max(siny, -0.9999), 0.9999)

	x = (p.Lng + 180) / 360 * scale
	y = (0.5 - math.Log((1+siny)/(1-siny))/(4*math.Pi)) * scale
	return x, y
}
