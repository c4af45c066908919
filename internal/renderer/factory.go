package renderer

import (
	"log/slog"

	"golang.org/x/image/font"

	"github.com/kjkrol/seqview/pkg/gfx"
)

// RendererConfig describes GPU shader inputs provided by the caller.
// ShaderSource must be a single-source shader that supports the stage
// defines VERTEX and FRAGMENT and the uniforms uViewport, uRect, uTexRect,
// uTex and uAlpha.
type RendererConfig struct {
	ShaderSource string
	// Face rasterizes labels. Nil selects ui.DefaultFace.
	Face   font.Face
	Logger *slog.Logger
}

func NewRendererFactory(conf RendererConfig, source gfx.SceneSource) gfx.RendererFactory {
	return func(w *gfx.Window) gfx.Renderer {
		return newRenderer(w, conf, source)
	}
}
