package gfx

import (
	"github.com/kjkrol/seqview/internal/platform"
)

type Event interface{}

type Key = platform.Key

const (
	KeyUnknown   = platform.KeyUnknown
	KeyEscape    = platform.KeyEscape
	KeyEnter     = platform.KeyEnter
	KeySpace     = platform.KeySpace
	KeyBackspace = platform.KeyBackspace
	KeyLeft      = platform.KeyLeft
	KeyRight     = platform.KeyRight
	KeyUp        = platform.KeyUp
	KeyDown      = platform.KeyDown
	KeyPageUp    = platform.KeyPageUp
	KeyPageDown  = platform.KeyPageDown
	KeyHome      = platform.KeyHome
	KeyEnd       = platform.KeyEnd
	KeyN         = platform.KeyN
	KeyP         = platform.KeyP
	KeyQ         = platform.KeyQ
)

// Mouse buttons, X11 numbering.
const (
	ButtonLeft   uint32 = 1
	ButtonMiddle uint32 = 2
	ButtonRight  uint32 = 3
)

type Expose struct{}
type KeyPress struct {
	Code  uint64
	Key   Key
	Label string
}
type KeyRelease struct {
	Code  uint64
	Key   Key
	Label string
}
type TextInput struct {
	Text string
}
type ButtonPress struct {
	Button uint32
	X, Y   int
}
type ButtonRelease struct {
	Button uint32
	X, Y   int
}
type MotionNotify struct {
	X, Y int
}
type RelativeMotion struct {
	DX, DY float64
}
type Resize struct {
	Width, Height int
}
type EnterNotify struct{}
type LeaveNotify struct{}
type ClientMessage struct{}
type MouseWheel struct {
	DeltaX float64
	DeltaY float64
	X, Y   int
}
type UnexpectedEvent struct{}

// FileChanged is emitted from outside the platform layer when a watched
// source file changes on disk.
type FileChanged struct {
	Path  string
	Index int
}

func convert(event platform.Event) Event {
	switch e := event.(type) {
	case platform.Expose:
		return Expose{}
	case platform.KeyPress:
		return KeyPress{Code: e.Code, Key: e.Key, Label: e.Label}
	case platform.KeyRelease:
		return KeyRelease{Code: e.Code, Key: e.Key, Label: e.Label}
	case platform.TextInput:
		return TextInput{Text: e.Text}
	case platform.ButtonPress:
		return ButtonPress{Button: e.Button, X: e.X, Y: e.Y}
	case platform.ButtonRelease:
		return ButtonRelease{Button: e.Button, X: e.X, Y: e.Y}
	case platform.MotionNotify:
		return MotionNotify{X: e.X, Y: e.Y}
	case platform.RelativeMotion:
		return RelativeMotion{DX: e.DX, DY: e.DY}
	case platform.Resize:
		return Resize{Width: e.Width, Height: e.Height}
	case platform.EnterNotify:
		return EnterNotify{}
	case platform.LeaveNotify:
		return LeaveNotify{}
	case platform.ClientMessage:
		return ClientMessage{}
	case platform.MouseWheel:
		return MouseWheel{DeltaX: e.DeltaX, DeltaY: e.DeltaY, X: e.X, Y: e.Y}
	default:
		return UnexpectedEvent{}
	}
}
