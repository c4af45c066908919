//go:build !js

package renderer

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"sync"

	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/kjkrol/seqview/pkg/gfx"
)

var (
	glInitOnce sync.Once
	glInitErr  error
)

// initGL loads the GL entry points for the context current on this thread.
func initGL() error {
	glInitOnce.Do(func() {
		if err := gl.Init(); err != nil {
			glInitErr = fmt.Errorf("gl.Init error: %w", err)
		}
	})
	return glInitErr
}

type glTexture struct {
	id       uint32
	width    int
	height   int
	released bool
}

func (t *glTexture) Handle() uint32 {
	return t.id
}

func (t *glTexture) Size() (int, int) {
	return t.width, t.height
}

func (t *glTexture) Release() {
	if t.released {
		return
	}
	t.released = true
	if t.id != 0 {
		gl.DeleteTextures(1, &t.id)
		t.id = 0
	}
}

// TextureUploader creates GL textures. Upload must run on the thread that
// owns the GL context.
type TextureUploader struct{}

func (TextureUploader) Upload(img *image.RGBA) (gfx.Texture, error) {
	return uploadRGBA(img)
}

func uploadRGBA(img *image.RGBA) (*glTexture, error) {
	if img == nil {
		return nil, errors.New("upload: nil image")
	}
	if err := initGL(); err != nil {
		return nil, err
	}
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("upload: empty image %dx%d", width, height)
	}
	if img.Stride != 4*width || bounds.Min != (image.Point{}) {
		packed := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.Draw(packed, packed.Bounds(), img, bounds.Min, draw.Src)
		img = packed
	}

	tex := &glTexture{width: width, height: height}
	gl.GenTextures(1, &tex.id)
	gl.BindTexture(gl.TEXTURE_2D, tex.id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		tex.Release()
		return nil, fmt.Errorf("upload: gl error 0x%x", code)
	}
	return tex, nil
}
