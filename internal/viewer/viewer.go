// Package viewer is the application state of seqview: which frame is shown,
// how input moves between frames, and what the renderer draws.
//
// A Viewer is driven entirely from the window loop goroutine: HandleEvent
// for input, BuildScene once per rendered frame.
package viewer

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"time"

	"github.com/kjkrol/seqview/pkg/framestore"
	"github.com/kjkrol/seqview/pkg/gfx"
	"github.com/kjkrol/seqview/pkg/layout"
	"github.com/kjkrol/seqview/pkg/ui"
)

// Controller is the part of the window the viewer drives.
type Controller interface {
	Stop()
	StartAnimation(animation *gfx.Animation)
}

type Options struct {
	Background color.Color
	// Title is drawn every frame. An empty Text hides it.
	Title     ui.Label
	TopMargin float64

	// Prefetch is the number of frames decoded ahead on each side.
	Prefetch int
	// Async draws the last good frame while the current one decodes in
	// the background instead of blocking the render loop.
	Async bool
	// SkipBadFrames keeps the viewer running when a frame fails to decode.
	SkipBadFrames bool

	Loop             bool
	Autoplay         bool
	PlaybackInterval time.Duration

	TransitionDuration time.Duration
	Easing             gfx.EasingFunc

	Console io.Writer
	Logger  *slog.Logger
	// Now is the clock used for transitions. Nil selects time.Now.
	Now func() time.Time
}

type Viewer struct {
	store  *framestore.Store
	layout *layout.Layout
	ctrl   Controller
	opts   Options

	playback   *gfx.Animation
	transition *gfx.Transition
	// shown is the frame whose texture was last drawn, -1 before the first
	// draw; fading is the frame being faded out, -1 for none.
	shown  int
	fading int

	lmbPressed bool
	status     string
	err        error

	console io.Writer
	logger  *slog.Logger
	now     func() time.Time
}

func New(store *framestore.Store, ctrl Controller, width, height int, opts Options) *Viewer {
	v := &Viewer{
		store:  store,
		layout: layout.New(float64(width), float64(height)),
		ctrl:   ctrl,
		opts:   opts,
		shown:  -1,
		fading: -1,
	}
	v.layout.SetTopMargin(opts.TopMargin)
	v.console = opts.Console
	if v.console == nil {
		v.console = io.Discard
	}
	v.logger = opts.Logger
	if v.logger == nil {
		v.logger = slog.Default()
	}
	v.now = opts.Now
	if v.now == nil {
		v.now = time.Now
	}
	if opts.Background == nil {
		v.opts.Background = color.Black
	}
	v.transition = gfx.NewTransition(opts.TransitionDuration, opts.Easing)
	if opts.PlaybackInterval > 0 {
		v.playback = gfx.NewAnimation(opts.PlaybackInterval, v.advance)
	}
	v.updateAspect(store.CurrentFrame())
	v.prefetchAround(store.CurrentFrame())
	return v
}

// Start begins playback when Autoplay is set. It must be called once the
// window loop is about to run.
func (v *Viewer) Start() {
	if v.opts.Autoplay {
		v.Play()
	}
}

// Err is the fatal error that stopped the viewer, if any.
func (v *Viewer) Err() error {
	return v.err
}

func (v *Viewer) Layout() *layout.Layout {
	return v.layout
}

func (v *Viewer) Playing() bool {
	return v.playback != nil && v.playback.Running()
}

func (v *Viewer) Play() {
	if v.playback == nil || v.playback.Running() {
		return
	}
	v.ctrl.StartAnimation(v.playback)
	v.logger.Debug("playback started", "interval", v.opts.PlaybackInterval)
}

func (v *Viewer) Pause() {
	if v.playback == nil {
		return
	}
	v.playback.Stop()
}

func (v *Viewer) TogglePlayback() {
	if v.Playing() {
		v.Pause()
		return
	}
	v.Play()
}

// Quit stops playback and the window loop.
func (v *Viewer) Quit() {
	v.Pause()
	v.ctrl.Stop()
}

func (v *Viewer) HandleEvent(event gfx.Event) {
	switch e := event.(type) {
	case gfx.Resize:
		v.layout.SetWindowSize(float64(e.Width), float64(e.Height))
	case gfx.KeyPress:
		v.handleKey(e)
	case gfx.TextInput:
		fmt.Fprintf(v.console, "text %q\n", e.Text)
	case gfx.ButtonPress:
		if e.Button == gfx.ButtonLeft {
			v.lmbPressed = true
		}
		fmt.Fprintf(v.console, "button %d pressed at %d %d\n", e.Button, e.X, e.Y)
	case gfx.ButtonRelease:
		switch e.Button {
		case gfx.ButtonLeft:
			v.lmbPressed = false
			v.Next()
		case gfx.ButtonRight:
			v.Previous()
		}
	case gfx.MotionNotify:
		if v.lmbPressed {
			fmt.Fprintf(v.console, "mouse %d %d\n", e.X, e.Y)
		}
	case gfx.RelativeMotion:
		if v.lmbPressed {
			fmt.Fprintf(v.console, "drag %.1f %.1f\n", e.DX, e.DY)
		}
	case gfx.MouseWheel:
		switch {
		case e.DeltaY > 0:
			v.Previous()
		case e.DeltaY < 0:
			v.Next()
		}
	case gfx.LeaveNotify:
		v.lmbPressed = false
	case gfx.FileChanged:
		v.reload(e.Index)
	case gfx.ClientMessage:
		v.Quit()
	}
}

func (v *Viewer) handleKey(e gfx.KeyPress) {
	switch e.Key {
	case gfx.KeyRight, gfx.KeyPageDown, gfx.KeyN:
		v.Next()
	case gfx.KeyLeft, gfx.KeyPageUp, gfx.KeyBackspace, gfx.KeyP:
		v.Previous()
	case gfx.KeyHome:
		v.SetFrame(0)
	case gfx.KeyEnd:
		v.SetFrame(v.store.FrameCount() - 1)
	case gfx.KeySpace:
		v.TogglePlayback()
	case gfx.KeyEscape, gfx.KeyQ:
		v.Quit()
	}
}

// Next moves one frame forward. Past the last frame it wraps to the first
// when looping and stays put otherwise.
func (v *Viewer) Next() {
	v.step(1)
}

// Previous moves one frame back with the same edge rule as Next.
func (v *Viewer) Previous() {
	v.step(-1)
}

func (v *Viewer) step(delta int) {
	count := v.store.FrameCount()
	index := v.store.CurrentFrame() + delta
	if index < 0 || index >= count {
		if !v.opts.Loop {
			return
		}
		index = (index%count + count) % count
	}
	v.SetFrame(index)
}

// advance is the playback tick. Without looping playback stops on the last
// frame.
func (v *Viewer) advance() {
	current := v.store.CurrentFrame()
	if current+1 >= v.store.FrameCount() && !v.opts.Loop {
		v.Pause()
		return
	}
	v.Next()
}

// SetFrame makes index the current frame. Loading happens when the next
// scene is built.
func (v *Viewer) SetFrame(index int) error {
	previous := v.store.CurrentFrame()
	if err := v.store.SetCurrentFrame(index); err != nil {
		return err
	}
	if index == previous {
		return nil
	}
	v.status = ""
	v.updateAspect(index)
	v.prefetchAround(index)
	fmt.Fprintf(v.console, "frame %d/%d\n", index+1, v.store.FrameCount())
	return nil
}

func (v *Viewer) updateAspect(index int) {
	info, ok := v.store.Info(index)
	if !ok {
		return
	}
	if err := v.layout.SetImageSize(info.Width, info.Height); err != nil {
		v.logger.Warn("frame has no usable size", "index", index, "width", info.Width, "height", info.Height)
	}
}

// prefetchAround queues background decodes for the neighbours of index and
// cancels queued decodes that fell out of that window.
func (v *Viewer) prefetchAround(index int) {
	radius := v.opts.Prefetch
	count := v.store.FrameCount()
	if radius <= 0 || count <= 1 {
		return
	}
	wanted := make(map[int]bool, 2*radius+1)
	wanted[index] = true
	for d := 1; d <= radius; d++ {
		for _, n := range []int{index + d, index - d} {
			if v.opts.Loop {
				n = (n%count + count) % count
			}
			if n >= 0 && n < count {
				wanted[n] = true
			}
		}
	}
	v.store.CancelExcept(func(i int) bool { return wanted[i] })
	for n := range wanted {
		if n != index {
			v.store.Prefetch(n)
		}
	}
}

// reload swaps in the changed file once it decodes. Until then, and if it
// never decodes, the frame keeps its previous image; a half written file
// does not go through the bad-frame policy.
func (v *Viewer) reload(index int) {
	if err := v.store.Reload(index); err != nil {
		v.logger.Warn("change reported for unknown frame", "index", index, "err", err)
		return
	}
	v.logger.Info("frame changed on disk", "index", index)
	if index == v.store.CurrentFrame() {
		v.status = ""
	}
}

// BuildScene loads the current frame if needed and lays out everything
// drawn this frame.
func (v *Viewer) BuildScene(width, height int) gfx.Scene {
	v.layout.SetWindowSize(float64(width), float64(height))
	v.store.Pump()

	scene := gfx.Scene{Background: v.opts.Background}
	current := v.store.CurrentFrame()
	tex, err := v.currentTexture(current)
	if err != nil {
		v.handleDecodeError(current, err)
	}

	now := v.now()
	if tex != nil && current != v.shown {
		if v.shown >= 0 && v.opts.TransitionDuration > 0 {
			v.fading = v.shown
			v.transition.Start(now)
		} else {
			v.fading = -1
		}
		v.shown = current
	}
	if v.shown >= 0 {
		v.updateAspect(v.shown)
	}

	progress := float32(v.transition.Progress(now))
	if v.fading >= 0 && v.transition.Done(now) {
		v.fading = -1
	}
	if v.fading >= 0 {
		if old, ok := v.store.Peek(v.fading); ok {
			scene.Quads = append(scene.Quads, quad(old, v.fadingRect(v.fading, old), 1-progress))
		}
	}
	if v.shown >= 0 {
		if shownTex, ok := v.store.Peek(v.shown); ok {
			alpha := float32(1)
			if v.fading >= 0 {
				alpha = progress
			}
			scene.Quads = append(scene.Quads, quad(shownTex, v.layout.ComputeRect(), alpha))
		}
	}

	scene.Labels = v.labels(current)
	return scene
}

func (v *Viewer) currentTexture(index int) (gfx.Texture, error) {
	if !v.opts.Async {
		return v.store.Texture(index)
	}
	tex, ok, err := v.store.TryTexture(index)
	if err != nil || !ok {
		return nil, err
	}
	return tex, nil
}

// fadingRect fits the outgoing frame with its own aspect ratio; the viewer's
// layout already follows the incoming one.
func (v *Viewer) fadingRect(index int, tex gfx.Texture) layout.Rect {
	fit := layout.New(v.layout.WindowSize())
	fit.SetTopMargin(v.layout.TopMargin())
	width, height := tex.Size()
	if info, ok := v.store.Info(index); ok {
		width, height = info.Width, info.Height
	}
	if err := fit.SetImageSize(width, height); err != nil {
		v.logger.Warn("fading frame has no usable size", "index", index, "width", width, "height", height)
	}
	return fit.ComputeRect()
}

func quad(tex gfx.Texture, r layout.Rect, alpha float32) gfx.Quad {
	return gfx.Quad{
		Texture: tex,
		X:       float32(r.X),
		Y:       float32(r.Y),
		Width:   float32(r.Width),
		Height:  float32(r.Height),
		Alpha:   alpha,
	}
}

func (v *Viewer) labels(current int) []ui.Label {
	labels := make([]ui.Label, 0, 3)
	if v.opts.Title.Text != "" {
		title := v.opts.Title
		title.ID = ui.TitleLabel
		labels = append(labels, title)
	}
	frameLabel := ui.Label{
		ID:    ui.FrameLabel,
		Text:  fmt.Sprintf("%d/%d", current+1, v.store.FrameCount()),
		X:     v.opts.Title.X,
		Y:     v.opts.Title.Y + 40,
		Color: v.opts.Title.Color,
	}
	labels = append(labels, frameLabel)
	if v.status != "" {
		width, _ := v.layout.WindowSize()
		labels = append(labels, ui.Label{
			ID:    ui.StatusLabel,
			Text:  v.status,
			X:     float32(width) / 2,
			Y:     frameLabel.Y,
			Color: color.White,
		})
	}
	return labels
}

// handleDecodeError applies the bad-frame policy: stop the viewer, or
// report the frame and keep going.
func (v *Viewer) handleDecodeError(index int, err error) {
	if v.err != nil {
		return
	}
	if !v.opts.SkipBadFrames || !errors.Is(err, framestore.ErrDecode) {
		v.err = err
		v.logger.Error("cannot display frame", "index", index, "err", err)
		v.Quit()
		return
	}
	if v.status == "" {
		path, _ := v.store.Path(index)
		v.status = fmt.Sprintf("cannot load %s", path)
		fmt.Fprintf(v.console, "skipped frame %d/%d\n", index+1, v.store.FrameCount())
	}
}
