package platform

type Event interface{}

// Key is a backend independent key identifier. Backends translate their
// native key codes into it and keep the native code alongside.
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeyEnter
	KeySpace
	KeyBackspace
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyPageUp
	KeyPageDown
	KeyHome
	KeyEnd
	KeyN
	KeyP
	KeyQ
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
type TimeoutEvent struct{}
