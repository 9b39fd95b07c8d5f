// Package markers reconciles computed cluster sets against the visual
// markers a rendering layer draws, and owns the small amount of map UI
// state that is not pure geometry: debounced viewport-driven re-clustering,
// click-to-expand, and jump-to-marker navigation.
package markers

import (
	"fmt"
	"sync"

	"github.com/1pybb7-prog/mytourproject1/internal/cluster"
	"github.com/1pybb7-prog/mytourproject1/internal/geo"
)

// MarkerHandle identifies a rendered marker to the renderer that created
// it. Handles are opaque to the manager.
type MarkerHandle any

// MarkerContent describes what a marker shows. Label is empty for plain
// single-point markers; aggregate markers carry the member count as the
// label plus the configured style.
type MarkerContent struct {
	Label string         `json:"label,omitempty"`
	Style *cluster.Style `json:"style,omitempty"`
}

// Renderer is the capability a map binding must provide. The clustering
// and lifecycle code has no compile-time dependency on any specific
// mapping SDK; alternative SDK bindings are interchangeable implementations
// of this interface.
type Renderer interface {
	CreateMarker(pos geo.Position, content MarkerContent) MarkerHandle
	RemoveMarker(handle MarkerHandle)
	FitBounds(box geo.BoundingBox, padding int)
	SetCenter(pos geo.Position, zoom float64)
}

// Command is one renderer invocation in serializable form. The command
// renderer accumulates these for a web client to replay against its map
// SDK; the recorder uses the same shape for test assertions.
type Command struct {
	Op      string           `json:"op"`
	Pos     *geo.Position    `json:"pos,omitempty"`
	Content *MarkerContent   `json:"content,omitempty"`
	Box     *geo.BoundingBox `json:"box,omitempty"`
	Padding int              `json:"padding,omitempty"`
	Zoom    float64          `json:"zoom,omitempty"`
	Handle  string           `json:"handle,omitempty"`
}

// CommandRenderer implements Renderer by recording commands instead of
// touching a real map. It backs the HTTP marker endpoint and doubles as
// the test renderer.
type CommandRenderer struct {
	mu       sync.Mutex
	commands []Command
	nextID   int
}

// NewCommandRenderer creates an empty CommandRenderer.
func NewCommandRenderer() *CommandRenderer {
	return &CommandRenderer{}
}

func (r *CommandRenderer) CreateMarker(pos geo.Position, content MarkerContent) MarkerHandle {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	handle := fmt.Sprintf("m%d", r.nextID)
	p := pos
	c := content
	r.commands = append(r.commands, Command{Op: "create", Pos: &p, Content: &c, Handle: handle})
	return handle
}

func (r *CommandRenderer) RemoveMarker(handle MarkerHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, _ := handle.(string)
	r.commands = append(r.commands, Command{Op: "remove", Handle: id})
}

func (r *CommandRenderer) FitBounds(box geo.BoundingBox, padding int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b := box
	r.commands = append(r.commands, Command{Op: "fit_bounds", Box: &b, Padding: padding})
}

func (r *CommandRenderer) SetCenter(pos geo.Position, zoom float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := pos
	r.commands = append(r.commands, Command{Op: "set_center", Pos: &p, Zoom: zoom})
}

// Commands returns a copy of the recorded command log.
func (r *CommandRenderer) Commands() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Command(nil), r.commands...)
}

// Reset clears the command log.
func (r *CommandRenderer) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = nil
}
