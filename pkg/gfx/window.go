package gfx

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/kjkrol/seqview/internal/platform"
)

type WindowConfig struct {
	PositionX         int
	PositionY         int
	Width             int
	Height            int
	Title             string
	Samples           int
	VSync             bool
	FPS               int
	ChannelBufferSize int
}

func (w WindowConfig) convert() platform.WindowConfig {
	return platform.WindowConfig{
		PositionX: w.PositionX,
		PositionY: w.PositionY,
		Width:     w.Width,
		Height:    w.Height,
		Title:     w.Title,
		Samples:   w.Samples,
		VSync:     w.VSync,
	}
}

type Window struct {
	platformWinWrapper platform.PlatformWindowWrapper
	renderer           Renderer
	refreshDelay       time.Duration
	width              int
	height             int
	wg                 sync.WaitGroup
	ctx                context.Context
	cancel             context.CancelFunc

	updates chan func()
	events  chan Event
}

const maxEventWait = 50 * time.Millisecond

// NewWindow opens a platform window. The window stays hidden until Show.
func NewWindow(conf WindowConfig) (*Window, error) {
	wrapper, err := platform.NewPlatformWindowWrapper(conf.convert())
	if err != nil {
		return nil, err
	}
	return newWindow(wrapper, conf), nil
}

func newWindow(wrapper platform.PlatformWindowWrapper, conf WindowConfig) *Window {
	bufferSize := conf.ChannelBufferSize
	if bufferSize <= 0 {
		bufferSize = 1024
	}
	window := Window{
		platformWinWrapper: wrapper,
		updates:            make(chan func(), bufferSize),
		events:             make(chan Event, bufferSize),
	}
	window.width, window.height = wrapper.Size()
	window.RefreshRate(conf.FPS)
	window.ctx, window.cancel = context.WithCancel(context.Background())
	return &window
}

func (w *Window) Size() (int, int) {
	if w == nil {
		return 0, 0
	}
	return w.width, w.height
}

func (w *Window) Show() {
	w.platformWinWrapper.Show()
}

func (w *Window) RefreshRate(fps int) {
	if fps <= 0 {
		fps = 60
	}
	w.refreshDelay = time.Second / time.Duration(fps)
}

// Context is cancelled when the window stops listening for events.
func (w *Window) Context() context.Context {
	return w.ctx
}

func (w *Window) Stop() {
	w.cancel()
}

func (w *Window) Close() {
	w.cancel()
	if w.renderer != nil {
		w.renderer.Close()
		w.renderer = nil
	}
	w.platformWinWrapper.Close()
}

// SetRenderer installs the renderer, closing the previous one. The factory
// form lets the renderer keep a reference to the window.
func (w *Window) SetRenderer(factory RendererFactory) {
	if w == nil {
		return
	}
	if w.renderer != nil {
		w.renderer.Close()
		w.renderer = nil
	}
	if factory != nil {
		w.renderer = factory(w)
	}
}

// ListenEvents runs the event and render loop on the calling goroutine
// until Stop is called. handleEvent and every queued update run on this
// goroutine, which stays locked to its OS thread.
func (w *Window) ListenEvents(handleEvent func(event Event), strategy EventsConsumerStrategy) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if strategy == nil {
		strategy = DrainAll()
	}
	poll := func(timeoutMs int) (Event, bool) {
		if event, ok := w.nextEmitted(); ok {
			return event, true
		}
		platformEvent := w.platformWinWrapper.NextEventTimeout(timeoutMs)
		if _, ok := platformEvent.(platform.TimeoutEvent); ok {
			return nil, false
		}
		event := convert(platformEvent)
		if resize, ok := event.(Resize); ok {
			w.width, w.height = resize.Width, resize.Height
		}
		return event, true
	}
	updater := newRenderUpdater(w.refreshDelay, w.renderFrame)

	for {
		select {
		case <-w.ctx.Done():
			w.wg.Wait()
			return
		default:
			timeoutMs := updater.pollTimeout(time.Now(), maxEventWait)
			strategy.Consume(poll, handleEvent, timeoutMs)
			if w.ctx.Err() != nil {
				continue
			}
			updater.run(time.Now())
		}
	}
}

func (w *Window) renderFrame() {
	w.runUpdates()
	w.platformWinWrapper.BeginFrame()
	if w.renderer != nil {
		w.renderer.Render(w)
	}
	w.platformWinWrapper.EndFrame()
}

func (w *Window) StartAnimation(animation *Animation) {
	animation.Run(w.ctx, &w.wg, w.updates)
}
