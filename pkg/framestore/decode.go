package framestore

import (
	"context"
	"errors"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Image is a decoded frame ready for upload.
type Image struct {
	Pixels *image.RGBA
	// Width and Height are the source dimensions, before any downscaling.
	Width, Height int
}

// Decoder turns a file into pixels. Implementations must be safe for
// concurrent use: background prefetch calls Decode from worker goroutines.
type Decoder interface {
	Decode(ctx context.Context, path string) (Image, error)
}

var errEmptyImage = errors.New("image has no pixels")

// FileDecoder reads PNG, JPEG, GIF, BMP, TIFF and WebP files. Images larger
// than MaxTextureSize on either side are scaled down to fit; zero disables
// scaling.
type FileDecoder struct {
	MaxTextureSize int
}

func (d FileDecoder) Decode(ctx context.Context, path string) (Image, error) {
	if err := ctx.Err(); err != nil {
		return Image{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return Image{}, err
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return Image{}, err
	}
	bounds := src.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return Image{}, errEmptyImage
	}
	if err := ctx.Err(); err != nil {
		return Image{}, err
	}
	return Image{
		Pixels: toRGBA(src, d.MaxTextureSize),
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}

func toRGBA(src image.Image, maxSize int) *image.RGBA {
	bounds := src.Bounds()
	width, height := fitWithin(bounds.Dx(), bounds.Dy(), maxSize)
	if width == bounds.Dx() && height == bounds.Dy() {
		if rgba, ok := src.(*image.RGBA); ok && bounds.Min == (image.Point{}) {
			return rgba
		}
		dst := image.NewRGBA(image.Rect(0, 0, width, height))
		xdraw.Draw(dst, dst.Bounds(), src, bounds.Min, xdraw.Src)
		return dst
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, xdraw.Src, nil)
	return dst
}

// fitWithin scales width x height down, keeping the aspect ratio, until
// neither side exceeds maxSize. Sides never drop below one pixel.
func fitWithin(width, height, maxSize int) (int, int) {
	if maxSize <= 0 || (width <= maxSize && height <= maxSize) {
		return width, height
	}
	if width >= height {
		scaled := height * maxSize / width
		return maxSize, max(scaled, 1)
	}
	scaled := width * maxSize / height
	return max(scaled, 1), maxSize
}
