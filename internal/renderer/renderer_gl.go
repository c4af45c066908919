//go:build !js

package renderer

import (
	"fmt"
	"image/color"
	"log/slog"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
	"golang.org/x/image/font"

	"github.com/kjkrol/seqview/pkg/gfx"
	"github.com/kjkrol/seqview/pkg/ui"
)

type renderer struct {
	shaderSource string
	initialized  bool
	failed       bool

	program uint32
	quadVbo uint32
	quadVao uint32

	viewportUniform int32
	rectUniform     int32
	texRectUniform  int32
	texUniform      int32
	alphaUniform    int32

	face      font.Face
	labels    map[ui.WidgetID]*labelState
	instances []instance
	source    gfx.SceneSource
	logger    *slog.Logger
}

// labelState caches the rasterized texture of one widget until its text or
// colour changes.
type labelState struct {
	text    string
	color   color.Color
	texture *glTexture
}

func newRenderer(_ *gfx.Window, conf RendererConfig, source gfx.SceneSource) *renderer {
	face := conf.Face
	if face == nil {
		face = ui.DefaultFace()
	}
	logger := conf.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &renderer{
		shaderSource: conf.ShaderSource,
		face:         face,
		labels:       make(map[ui.WidgetID]*labelState),
		source:       source,
		logger:       logger,
	}
}

func (r *renderer) Render(w *gfx.Window) {
	if w == nil || r.source == nil || r.failed {
		return
	}
	if err := r.ensureInit(); err != nil {
		r.failed = true
		r.logger.Error("renderer disabled", "err", err)
		return
	}

	width, height := w.Size()
	if width <= 0 || height <= 0 {
		return
	}
	scene := r.source.BuildScene(width, height)

	r.instances = r.instances[:0]
	for _, quad := range scene.Quads {
		r.instances = appendQuadInstance(r.instances, quad)
	}
	for _, label := range scene.Labels {
		r.instances = appendLabelInstance(r.instances, r.labelTexture(label), label.X, label.Y)
	}

	bg := colorToFloat(scene.Background)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.ClearColor(bg[0], bg[1], bg[2], 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	gl.UseProgram(r.program)
	gl.BindVertexArray(r.quadVao)
	gl.Uniform2f(r.viewportUniform, float32(width), float32(height))
	gl.ActiveTexture(gl.TEXTURE0)
	gl.Uniform1i(r.texUniform, 0)

	for _, inst := range r.instances {
		gl.Uniform4f(r.rectUniform, inst.rect[0], inst.rect[1], inst.rect[2], inst.rect[3])
		gl.Uniform4f(r.texRectUniform, inst.texRect[0], inst.texRect[1], inst.texRect[2], inst.texRect[3])
		gl.Uniform1f(r.alphaUniform, inst.alpha)
		gl.BindTexture(gl.TEXTURE_2D, inst.texture)
		gl.DrawArrays(gl.TRIANGLES, 0, 6)
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.BindVertexArray(0)
}

// labelTexture returns the texture for label, rasterizing it again only when
// the text or colour differs from the cached one.
func (r *renderer) labelTexture(label ui.Label) *glTexture {
	if !label.ID.Valid() {
		return nil
	}
	state := r.labels[label.ID]
	if state == nil {
		state = &labelState{}
		r.labels[label.ID] = state
	}
	if state.texture != nil && state.text == label.Text && sameColor(state.color, label.Color) {
		return state.texture
	}
	if state.texture != nil {
		state.texture.Release()
		state.texture = nil
	}
	state.text = label.Text
	state.color = label.Color

	img := ui.Rasterize(r.face, label)
	if img == nil {
		return nil
	}
	tex, err := uploadRGBA(img)
	if err != nil {
		r.logger.Warn("label upload failed", "widget", label.ID, "err", err)
		return nil
	}
	state.texture = tex
	return tex
}

func (r *renderer) Close() {
	if !r.initialized {
		return
	}
	for id, state := range r.labels {
		if state.texture != nil {
			state.texture.Release()
		}
		delete(r.labels, id)
	}
	if r.quadVao != 0 {
		gl.DeleteVertexArrays(1, &r.quadVao)
	}
	if r.quadVbo != 0 {
		gl.DeleteBuffers(1, &r.quadVbo)
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
	}
	r.initialized = false
}

func (r *renderer) ensureInit() error {
	if r.initialized {
		return nil
	}
	if err := initGL(); err != nil {
		return err
	}

	program, err := r.buildProgram()
	if err != nil {
		return err
	}
	r.program = program

	r.viewportUniform = gl.GetUniformLocation(r.program, gl.Str("uViewport\x00"))
	r.rectUniform = gl.GetUniformLocation(r.program, gl.Str("uRect\x00"))
	r.texRectUniform = gl.GetUniformLocation(r.program, gl.Str("uTexRect\x00"))
	r.texUniform = gl.GetUniformLocation(r.program, gl.Str("uTex\x00"))
	r.alphaUniform = gl.GetUniformLocation(r.program, gl.Str("uAlpha\x00"))

	r.initQuad()

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.ONE, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.DEPTH_TEST)

	r.initialized = true
	return nil
}

func (r *renderer) initQuad() {
	quad := []float32{
		0, 0,
		1, 0,
		1, 1,
		0, 0,
		1, 1,
		0, 1,
	}
	gl.GenBuffers(1, &r.quadVbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.quadVbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quad)*4, gl.Ptr(quad), gl.STATIC_DRAW)

	gl.GenVertexArrays(1, &r.quadVao)
	gl.BindVertexArray(r.quadVao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.quadVbo)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, gl.PtrOffset(0))
	gl.BindVertexArray(0)
}

func (r *renderer) buildProgram() (uint32, error) {
	vertexShader, err := compileShader(gl.VERTEX_SHADER, r.buildShaderSource("VERTEX"))
	if err != nil {
		return 0, err
	}
	fragmentShader, err := compileShader(gl.FRAGMENT_SHADER, r.buildShaderSource("FRAGMENT"))
	if err != nil {
		gl.DeleteShader(vertexShader)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)
	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link error: %s", log)
	}
	return program, nil
}

func (r *renderer) buildShaderSource(stage string) string {
	var sb strings.Builder
	sb.WriteString("#version 330 core\n")
	sb.WriteString("#define " + stage + "\n")
	sb.WriteString(r.shaderSource)
	if !strings.HasSuffix(r.shaderSource, "\n") {
		sb.WriteString("\n")
	}
	return sb.String()
}

func compileShader(shaderType uint32, source string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile error: %s", log)
	}
	return shader, nil
}
