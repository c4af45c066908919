// Package ui holds the overlay widgets drawn on top of the current frame.
//
// Widgets are addressed by WidgetID, a small enumerated tag. Renderers key
// their per-widget GPU state by it, so a label keeps the same handle across
// frames while its text changes.
package ui

import (
	"fmt"
	"image"
	"image/color"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

type WidgetID uint8

const (
	TitleLabel WidgetID = iota
	FrameLabel
	StatusLabel

	widgetCount
)

func (id WidgetID) String() string {
	switch id {
	case TitleLabel:
		return "title"
	case FrameLabel:
		return "frame"
	case StatusLabel:
		return "status"
	default:
		return fmt.Sprintf("widget(%d)", uint8(id))
	}
}

// Valid reports whether id names a known widget.
func (id WidgetID) Valid() bool {
	return id < widgetCount
}

// Label is a single line of text anchored at its top-left corner, in window
// pixels.
type Label struct {
	ID    WidgetID
	Text  string
	X, Y  float32
	Color color.Color
}

// AssetError reports a bundled resource, such as a font, that could not be
// loaded.
type AssetError struct {
	Path string
	Err  error
}

func (e *AssetError) Error() string {
	return fmt.Sprintf("asset %s: %v", e.Path, e.Err)
}

func (e *AssetError) Unwrap() error {
	return e.Err
}

// DefaultFace is used when no font file is configured.
func DefaultFace() font.Face {
	return basicfont.Face7x13
}

// LoadFace parses a TrueType or OpenType font file. An empty path selects
// DefaultFace.
func LoadFace(path string, size float64) (font.Face, error) {
	if path == "" {
		return DefaultFace(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &AssetError{Path: path, Err: err}
	}
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, &AssetError{Path: path, Err: err}
	}
	if size <= 0 {
		size = 32
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, &AssetError{Path: path, Err: err}
	}
	return face, nil
}

// Rasterize draws the label text onto a transparent image sized to fit it.
// Empty text yields nil.
func Rasterize(face font.Face, label Label) *image.RGBA {
	if label.Text == "" {
		return nil
	}
	if face == nil {
		face = DefaultFace()
	}
	metrics := face.Metrics()
	advance := font.MeasureString(face, label.Text)
	width := advance.Ceil()
	height := (metrics.Ascent + metrics.Descent).Ceil()
	if width <= 0 || height <= 0 {
		return nil
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	textColor := label.Color
	if textColor == nil {
		textColor = color.White
	}
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(textColor),
		Face: face,
		Dot:  fixed.Point26_6{X: 0, Y: metrics.Ascent},
	}
	d.DrawString(label.Text)
	return img
}
