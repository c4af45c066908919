package layout_test

import (
	"errors"
	"math"
	"testing"

	"github.com/kjkrol/seqview/pkg/layout"
)

const epsilon = 1e-9

func TestComputeRectFitsHeight(t *testing.T) {
	l := layout.New(1100, 550)
	if err := l.SetAspect(2.0); err != nil {
		t.Fatalf("SetAspect: %v", err)
	}

	got := l.ComputeRect()
	want := layout.Rect{X: 100, Y: 100, Width: 900, Height: 450}
	if got != want {
		t.Fatalf("ComputeRect() = %+v, want %+v", got, want)
	}
}

func TestComputeRectClampsToWidthAfterResize(t *testing.T) {
	l := layout.New(640, 480)
	if err := l.SetAspect(4.0); err != nil {
		t.Fatalf("SetAspect: %v", err)
	}
	l.SetWindowSize(300, 480)

	got := l.ComputeRect()
	if got.Width != 300 {
		t.Errorf("Width = %v, want 300", got.Width)
	}
	if got.Height != 75 {
		t.Errorf("Height = %v, want 75", got.Height)
	}
	if math.Abs(got.Y-252.5) > epsilon {
		t.Errorf("Y = %v, want 252.5", got.Y)
	}
	if got.X != 0 {
		t.Errorf("X = %v, want 0", got.X)
	}
}

func TestComputeRectStaysInsideWindow(t *testing.T) {
	aspects := []float64{0.05, 0.1, 0.5, 1, 4.0 / 3.0, 16.0 / 9.0, 2.39, 5, 10}
	for _, aspect := range aspects {
		for w := 200.0; w <= 2000; w += 137 {
			for h := 200.0; h <= 2000; h += 113 {
				l := layout.New(w, h)
				if err := l.SetAspect(aspect); err != nil {
					t.Fatalf("SetAspect(%v): %v", aspect, err)
				}
				r := l.ComputeRect()
				if r.Width > w+epsilon || r.Height > h+epsilon {
					t.Fatalf("aspect=%v window=%vx%v: rect %+v overflows", aspect, w, h, r)
				}
				if r.X < -epsilon || r.X+r.Width > w+epsilon {
					t.Fatalf("aspect=%v window=%vx%v: rect %+v leaves window horizontally", aspect, w, h, r)
				}
				if r.Y+r.Height > h+epsilon {
					t.Fatalf("aspect=%v window=%vx%v: rect %+v leaves window vertically", aspect, w, h, r)
				}
				if r.Y < layout.DefaultTopMargin-epsilon {
					t.Fatalf("aspect=%v window=%vx%v: rect %+v covers the top margin", aspect, w, h, r)
				}
				if math.Abs(r.Width/r.Height-aspect) > 1e-6 {
					t.Fatalf("aspect=%v window=%vx%v: rect %+v has aspect %v", aspect, w, h, r, r.Width/r.Height)
				}
			}
		}
	}
}

func TestComputeRectDegenerateInputs(t *testing.T) {
	tests := []struct {
		name   string
		width  float64
		height float64
		aspect float64
	}{
		{name: "window shorter than margin", width: 400, height: 80, aspect: 1.5},
		{name: "window exactly margin", width: 400, height: 100, aspect: 1.5},
		{name: "zero window", width: 0, height: 0, aspect: 1},
		{name: "negative window", width: -10, height: -10, aspect: 1},
		{name: "aspect never set", width: 400, height: 400},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := layout.New(tt.width, tt.height)
			if tt.aspect > 0 {
				if err := l.SetAspect(tt.aspect); err != nil {
					t.Fatalf("SetAspect: %v", err)
				}
			}
			r := l.ComputeRect()
			if !r.Empty() {
				t.Fatalf("ComputeRect() = %+v, want empty", r)
			}
			for _, v := range []float64{r.X, r.Y, r.Width, r.Height} {
				if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
					t.Fatalf("ComputeRect() = %+v, want finite non-negative values", r)
				}
			}
		})
	}
}

func TestSetAspectRejectsInvalid(t *testing.T) {
	l := layout.New(640, 480)
	for _, aspect := range []float64{0, -1, math.Inf(1), math.NaN()} {
		if err := l.SetAspect(aspect); !errors.Is(err, layout.ErrInvalidAspect) {
			t.Errorf("SetAspect(%v) error = %v, want ErrInvalidAspect", aspect, err)
		}
	}
	if err := l.SetImageSize(100, 0); !errors.Is(err, layout.ErrInvalidAspect) {
		t.Errorf("SetImageSize(100, 0) error = %v, want ErrInvalidAspect", err)
	}
	if err := l.SetImageSize(100, 50); err != nil {
		t.Fatalf("SetImageSize(100, 50): %v", err)
	}
	if l.Aspect() != 2 {
		t.Errorf("Aspect() = %v, want 2", l.Aspect())
	}
}

func TestTopMarginIsConfigurable(t *testing.T) {
	l := layout.New(800, 400)
	l.SetTopMargin(0)
	if err := l.SetAspect(2); err != nil {
		t.Fatalf("SetAspect: %v", err)
	}
	got := l.ComputeRect()
	want := layout.Rect{X: 0, Y: 0, Width: 800, Height: 400}
	if got != want {
		t.Fatalf("ComputeRect() = %+v, want %+v", got, want)
	}

	l.SetTopMargin(-5)
	if l.TopMargin() != 0 {
		t.Errorf("TopMargin() = %v, want 0 after negative margin", l.TopMargin())
	}
}
