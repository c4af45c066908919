package platform

type WindowConfig struct {
	PositionX int
	PositionY int
	Width     int
	Height    int
	Title     string
	Samples   int
	VSync     bool
}

type PlatformWindowWrapper interface {
	Show()
	Close()
	// NextEventTimeout returns the next queued event, waiting at most
	// timeoutMs for one to arrive. TimeoutEvent means nothing arrived.
	NextEventTimeout(timeoutMs int) Event
	// Size reports the drawable (framebuffer) size in pixels.
	Size() (int, int)
	BeginFrame()
	EndFrame()
}
