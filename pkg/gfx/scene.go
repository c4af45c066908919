package gfx

import (
	"image/color"

	"github.com/kjkrol/seqview/pkg/ui"
)

// Quad is one textured rectangle in window pixel coordinates, origin at the
// top-left corner.
type Quad struct {
	Texture Texture
	X, Y    float32
	Width   float32
	Height  float32
	Alpha   float32
}

// Empty reports whether the quad would not cover any pixel.
func (q Quad) Empty() bool {
	return q.Texture == nil || q.Width <= 0 || q.Height <= 0 || q.Alpha <= 0
}

// Scene is everything drawn in a single frame, back to front.
type Scene struct {
	Background color.Color
	Quads      []Quad
	Labels     []ui.Label
}

// SceneSource builds the scene for the current window size. It is called on
// the render thread once per rendered frame.
type SceneSource interface {
	BuildScene(width, height int) Scene
}
