package renderer

import (
	"image/color"

	"github.com/kjkrol/seqview/pkg/gfx"
)

// instance is one textured rectangle ready for a draw call.
type instance struct {
	texture uint32
	rect    [4]float32 // x0, y0, x1, y1 in window pixels
	texRect [4]float32
	alpha   float32
}

var fullTexRect = [4]float32{0, 0, 1, 1}

func appendQuadInstance(dst []instance, q gfx.Quad) []instance {
	if q.Empty() {
		return dst
	}
	alpha := q.Alpha
	if alpha > 1 {
		alpha = 1
	}
	return append(dst, instance{
		texture: q.Texture.Handle(),
		rect:    [4]float32{q.X, q.Y, q.X + q.Width, q.Y + q.Height},
		texRect: fullTexRect,
		alpha:   alpha,
	})
}

// appendLabelInstance places a label texture at its natural size with its
// top-left corner at (x, y).
func appendLabelInstance(dst []instance, tex gfx.Texture, x, y float32) []instance {
	if tex == nil {
		return dst
	}
	w, h := tex.Size()
	if w <= 0 || h <= 0 {
		return dst
	}
	return append(dst, instance{
		texture: tex.Handle(),
		rect:    [4]float32{x, y, x + float32(w), y + float32(h)},
		texRect: fullTexRect,
		alpha:   1,
	})
}

func colorToFloat(c color.Color) [4]float32 {
	if c == nil {
		return [4]float32{}
	}
	r, g, b, a := c.RGBA()
	const inv = 1.0 / 65535.0
	return [4]float32{
		float32(r) * inv,
		float32(g) * inv,
		float32(b) * inv,
		float32(a) * inv,
	}
}

func sameColor(a, b color.Color) bool {
	if a == nil || b == nil {
		return a == b
	}
	return colorToFloat(a) == colorToFloat(b)
}
