//go:build cgo

package platform

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
)

type glfwWindowWrapper struct {
	window  *glfw.Window
	queue   []Event
	width   int
	height  int
	cursorX float64
	cursorY float64
	tracked bool
}

// NewPlatformWindowWrapper creates a hidden GLFW window with a current
// OpenGL 3.3 core context. It must be called from the main goroutine, and
// every later call on the wrapper must happen on the same OS thread.
func NewPlatformWindowWrapper(conf WindowConfig) (PlatformWindowWrapper, error) {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("glfw init: %w", err)
	}

	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	if conf.Samples > 0 {
		glfw.WindowHint(glfw.Samples, conf.Samples)
	}

	window, err := glfw.CreateWindow(conf.Width, conf.Height, conf.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("glfw create window: %w", err)
	}
	if conf.PositionX != 0 || conf.PositionY != 0 {
		window.SetPos(conf.PositionX, conf.PositionY)
	}
	window.MakeContextCurrent()
	if conf.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	w := &glfwWindowWrapper{window: window}
	w.width, w.height = window.GetFramebufferSize()
	w.installCallbacks()
	return w, nil
}

func (w *glfwWindowWrapper) installCallbacks() {
	w.window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.width, w.height = width, height
		w.push(Resize{Width: width, Height: height})
	})
	w.window.SetRefreshCallback(func(_ *glfw.Window) {
		w.push(Expose{})
	})
	w.window.SetCloseCallback(func(_ *glfw.Window) {
		w.push(ClientMessage{})
	})
	w.window.SetCursorEnterCallback(func(_ *glfw.Window, entered bool) {
		if entered {
			w.push(EnterNotify{})
			return
		}
		w.tracked = false
		w.push(LeaveNotify{})
	})
	w.window.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, _ glfw.ModifierKey) {
		label := glfw.GetKeyName(key, scancode)
		switch action {
		case glfw.Press, glfw.Repeat:
			w.push(KeyPress{Code: uint64(key), Key: translateKey(key), Label: label})
		case glfw.Release:
			w.push(KeyRelease{Code: uint64(key), Key: translateKey(key), Label: label})
		}
	})
	w.window.SetCharCallback(func(_ *glfw.Window, char rune) {
		w.push(TextInput{Text: string(char)})
	})
	w.window.SetMouseButtonCallback(func(win *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		x, y := win.GetCursorPos()
		switch action {
		case glfw.Press:
			w.push(ButtonPress{Button: translateButton(button), X: int(x), Y: int(y)})
		case glfw.Release:
			w.push(ButtonRelease{Button: translateButton(button), X: int(x), Y: int(y)})
		}
	})
	w.window.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		if w.tracked {
			w.push(RelativeMotion{DX: x - w.cursorX, DY: y - w.cursorY})
		}
		w.cursorX, w.cursorY, w.tracked = x, y, true
		w.push(MotionNotify{X: int(x), Y: int(y)})
	})
	w.window.SetScrollCallback(func(win *glfw.Window, dx, dy float64) {
		x, y := win.GetCursorPos()
		w.push(MouseWheel{DeltaX: dx, DeltaY: dy, X: int(x), Y: int(y)})
	})
}

func (w *glfwWindowWrapper) push(event Event) {
	w.queue = append(w.queue, event)
}

func (w *glfwWindowWrapper) pop() (Event, bool) {
	if len(w.queue) == 0 {
		return nil, false
	}
	event := w.queue[0]
	w.queue[0] = nil
	w.queue = w.queue[1:]
	return event, true
}

func (w *glfwWindowWrapper) Show() {
	w.window.Show()
}

func (w *glfwWindowWrapper) Close() {
	w.window.Destroy()
	glfw.Terminate()
	runtime.UnlockOSThread()
}

func (w *glfwWindowWrapper) NextEventTimeout(timeoutMs int) Event {
	if event, ok := w.pop(); ok {
		return event
	}
	if timeoutMs > 0 {
		glfw.WaitEventsTimeout(float64(timeoutMs) / 1000.0)
	} else {
		glfw.PollEvents()
	}
	if event, ok := w.pop(); ok {
		return event
	}
	return TimeoutEvent{}
}

func (w *glfwWindowWrapper) Size() (int, int) {
	return w.width, w.height
}

func (w *glfwWindowWrapper) BeginFrame() {
	w.window.MakeContextCurrent()
}

func (w *glfwWindowWrapper) EndFrame() {
	w.window.SwapBuffers()
}

// translateButton maps GLFW buttons onto X11 numbering (1 left, 2 middle,
// 3 right) so handlers do not depend on the backend.
func translateButton(button glfw.MouseButton) uint32 {
	switch button {
	case glfw.MouseButtonLeft:
		return 1
	case glfw.MouseButtonMiddle:
		return 2
	case glfw.MouseButtonRight:
		return 3
	default:
		return uint32(button) + 1
	}
}

func translateKey(key glfw.Key) Key {
	switch key {
	case glfw.KeyEscape:
		return KeyEscape
	case glfw.KeyEnter, glfw.KeyKPEnter:
		return KeyEnter
	case glfw.KeySpace:
		return KeySpace
	case glfw.KeyBackspace:
		return KeyBackspace
	case glfw.KeyLeft:
		return KeyLeft
	case glfw.KeyRight:
		return KeyRight
	case glfw.KeyUp:
		return KeyUp
	case glfw.KeyDown:
		return KeyDown
	case glfw.KeyPageUp:
		return KeyPageUp
	case glfw.KeyPageDown:
		return KeyPageDown
	case glfw.KeyHome:
		return KeyHome
	case glfw.KeyEnd:
		return KeyEnd
	case glfw.KeyN:
		return KeyN
	case glfw.KeyP:
		return KeyP
	case glfw.KeyQ:
		return KeyQ
	default:
		return KeyUnknown
	}
}
