package framestore

import (
	"image"

	"github.com/kjkrol/seqview/pkg/gfx/texture"
)

// Uploader moves decoded pixels to the GPU. It is only called from the
// goroutine that owns the Store.
type Uploader interface {
	Upload(img *image.RGBA) (texture.Texture, error)
}

// MemoryUploader keeps pixels in host memory. It backs headless use and
// tests; its textures have handle 0.
type MemoryUploader struct{}

func (MemoryUploader) Upload(img *image.RGBA) (texture.Texture, error) {
	return &MemoryTexture{Pixels: img}, nil
}

type MemoryTexture struct {
	Pixels   *image.RGBA
	released bool
}

func (t *MemoryTexture) Handle() uint32 { return 0 }

func (t *MemoryTexture) Size() (int, int) {
	if t.Pixels == nil {
		return 0, 0
	}
	b := t.Pixels.Bounds()
	return b.Dx(), b.Dy()
}

func (t *MemoryTexture) Release() {
	t.released = true
	t.Pixels = nil
}

func (t *MemoryTexture) Released() bool {
	return t.released
}
