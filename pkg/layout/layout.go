// Package layout places the current image inside the window.
//
// The image is fitted below a fixed top margin reserved for the title label,
// keeping its aspect ratio. When the window is too narrow for the available
// height the image is fitted to the window width instead and centred
// vertically in the space below the margin.
package layout

import (
	"errors"
	"math"
)

// DefaultTopMargin is the vertical space, in pixels, kept free above the
// image.
const DefaultTopMargin = 100.0

var ErrInvalidAspect = errors.New("layout: aspect ratio must be positive and finite")

// Rect is the destination rectangle in window pixels, origin top-left.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Empty reports whether the rectangle covers no pixels.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

type Layout struct {
	windowWidth  float64
	windowHeight float64
	aspect       float64
	topMargin    float64
}

func New(windowWidth, windowHeight float64) *Layout {
	l := &Layout{topMargin: DefaultTopMargin}
	l.SetWindowSize(windowWidth, windowHeight)
	return l
}

// SetWindowSize records new window dimensions. Negative values clamp to 0.
func (l *Layout) SetWindowSize(width, height float64) {
	l.windowWidth = nonNegative(width)
	l.windowHeight = nonNegative(height)
}

func (l *Layout) WindowSize() (float64, float64) {
	return l.windowWidth, l.windowHeight
}

func (l *Layout) SetTopMargin(margin float64) {
	l.topMargin = nonNegative(margin)
}

func (l *Layout) TopMargin() float64 {
	return l.topMargin
}

// SetAspect sets width/height of the displayed image.
func (l *Layout) SetAspect(aspect float64) error {
	if !validAspect(aspect) {
		return ErrInvalidAspect
	}
	l.aspect = aspect
	return nil
}

// SetImageSize sets the aspect ratio from image dimensions.
func (l *Layout) SetImageSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return ErrInvalidAspect
	}
	return l.SetAspect(float64(width) / float64(height))
}

func (l *Layout) Aspect() float64 {
	return l.aspect
}

// ComputeRect fits the image below the top margin.
//
// Unlike a plain evaluation of the formula, the available height never goes
// negative: a window shorter than the margin, or an unset aspect ratio,
// yields an empty rectangle at (windowWidth/2, topMargin).
func (l *Layout) ComputeRect() Rect {
	topMargin := l.topMargin
	if !validAspect(l.aspect) {
		return Rect{X: l.windowWidth / 2, Y: topMargin}
	}

	availableHeight := nonNegative(l.windowHeight - topMargin)
	availableWidth := availableHeight * l.aspect

	if availableWidth > l.windowWidth {
		availableWidth = l.windowWidth
		availableHeight = l.windowWidth / l.aspect
		topMargin = (l.windowHeight-availableHeight-l.topMargin)/2 + l.topMargin
	}

	leftMargin := (l.windowWidth - availableWidth) / 2
	return Rect{
		X:      leftMargin,
		Y:      topMargin,
		Width:  availableWidth,
		Height: availableHeight,
	}
}

func validAspect(aspect float64) bool {
	return aspect > 0 && !math.IsInf(aspect, 0) && !math.IsNaN(aspect)
}

func nonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}
