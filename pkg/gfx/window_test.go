package gfx

import (
	"testing"

	"github.com/kjkrol/seqview/internal/platform"
)

type fakeWrapper struct {
	queue  []platform.Event
	frames int
	closed bool
}

func (f *fakeWrapper) Show()  {}
func (f *fakeWrapper) Close() { f.closed = true }

func (f *fakeWrapper) NextEventTimeout(int) platform.Event {
	if len(f.queue) == 0 {
		return platform.TimeoutEvent{}
	}
	event := f.queue[0]
	f.queue = f.queue[1:]
	return event
}

func (f *fakeWrapper) Size() (int, int) { return 640, 480 }
func (f *fakeWrapper) BeginFrame()      {}
func (f *fakeWrapper) EndFrame()        { f.frames++ }

type countingRenderer struct {
	renders int
	closed  bool
}

func (r *countingRenderer) Render(*Window) { r.renders++ }
func (r *countingRenderer) Close()         { r.closed = true }

func TestListenEventsDeliversAndStops(t *testing.T) {
	wrapper := &fakeWrapper{queue: []platform.Event{
		platform.Resize{Width: 300, Height: 200},
		platform.KeyPress{Code: 65307, Key: platform.KeyEscape, Label: "Escape"},
	}}
	w := newWindow(wrapper, WindowConfig{FPS: 1000})
	r := &countingRenderer{}
	w.SetRenderer(func(*Window) Renderer { return r })

	if !w.EmitEvent(FileChanged{Path: "a.png", Index: 0}) {
		t.Fatal("EmitEvent rejected an event")
	}

	var got []Event
	w.ListenEvents(func(e Event) {
		got = append(got, e)
		if key, ok := e.(KeyPress); ok && key.Key == KeyEscape {
			w.Stop()
		}
	}, DrainAll())

	if len(got) != 3 {
		t.Fatalf("handled %d events, want 3: %#v", len(got), got)
	}
	if _, ok := got[0].(FileChanged); !ok {
		t.Errorf("first event = %T, want emitted FileChanged first", got[0])
	}
	if width, height := w.Size(); width != 300 || height != 200 {
		t.Errorf("Size() = %dx%d after resize, want 300x200", width, height)
	}
	if w.Context().Err() == nil {
		t.Error("context still live after Stop")
	}
	w.Close()
	if !r.closed || !wrapper.closed {
		t.Error("Close did not close the renderer and the platform window")
	}
}

func TestRenderFrameRunsUpdatesFirst(t *testing.T) {
	wrapper := &fakeWrapper{}
	w := newWindow(wrapper, WindowConfig{})
	var order []string
	w.SetRenderer(func(*Window) Renderer {
		return rendererFunc(func() { order = append(order, "render") })
	})
	w.Post(func() { order = append(order, "update") })

	w.renderFrame()

	if len(order) != 2 || order[0] != "update" || order[1] != "render" {
		t.Fatalf("order = %v, want update then render", order)
	}
	if wrapper.frames != 1 {
		t.Errorf("frames = %d, want 1", wrapper.frames)
	}
}

type rendererFunc func()

func (f rendererFunc) Render(*Window) { f() }
func (f rendererFunc) Close()         {}

func TestEmitEventDropsWhenFull(t *testing.T) {
	w := newWindow(&fakeWrapper{}, WindowConfig{ChannelBufferSize: 1})
	if !w.EmitEvent(Expose{}) {
		t.Fatal("first EmitEvent failed")
	}
	if w.EmitEvent(Expose{}) {
		t.Error("EmitEvent on a full buffer accepted a second event")
	}
	var nilWindow *Window
	if nilWindow.EmitEvent(Expose{}) {
		t.Error("nil window accepted an event")
	}
}

func TestRenderUpdaterPollTimeout(t *testing.T) {
	u := newRenderUpdater(0, func() {})
	if u.rendererRefreshRate <= 0 {
		t.Fatal("zero refresh rate not defaulted")
	}
	now := u.nextRenderTime.Add(-maxEventWait * 2)
	if got := u.pollTimeout(now, maxEventWait); got != int(maxEventWait.Milliseconds()) {
		t.Errorf("pollTimeout far from render = %d, want %d", got, maxEventWait.Milliseconds())
	}
	if got := u.pollTimeout(u.nextRenderTime, maxEventWait); got != 0 {
		t.Errorf("pollTimeout at render time = %d, want 0", got)
	}
	if !u.run(u.nextRenderTime) {
		t.Error("run at render time did not render")
	}
}
