// Package texture defines the handle shared by texture producers and the
// renderer. It has no dependencies so caches can be built and tested without
// a windowing backend.
package texture

// Texture is a GPU resident image. The owner calls Release exactly once
// when the texture is no longer drawn.
type Texture interface {
	// Handle is the backend object name (a GL texture id for the GL renderer).
	Handle() uint32
	Size() (width, height int)
	Release()
}
