package gfx

import (
	"context"
	"sync"
	"time"

	"github.com/fogleman/ease"
)

// Animation calls Evolve on the render thread every Interval while running.
// The ticker lives on its own goroutine and only posts callbacks into the
// window update queue.
type Animation struct {
	Interval time.Duration
	Evolve   func()

	running    bool
	generation uint64
	stop       context.CancelFunc
}

func NewAnimation(interval time.Duration, evolve func()) *Animation {
	return &Animation{
		Interval: interval,
		Evolve:   evolve,
	}
}

func (a *Animation) Running() bool {
	return a.running
}

func (a *Animation) Run(ctx context.Context, wg *sync.WaitGroup, updates chan<- func()) {
	if a.running || a.Interval <= 0 {
		return
	}
	a.running = true
	a.generation++
	generation := a.generation
	runCtx, cancel := context.WithCancel(ctx)
	a.stop = cancel
	wg.Add(1)

	go func() {
		defer wg.Done()

		ticker := time.NewTicker(a.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				tick := func() {
					// a tick queued before Stop must not evolve a stopped run
					if !a.running || a.generation != generation || a.Evolve == nil {
						return
					}
					a.Evolve()
				}
				select {
				case updates <- tick:
				case <-runCtx.Done():
					return
				}
			}
		}
	}()
}

func (a *Animation) Stop() {
	if !a.running {
		return
	}
	a.running = false
	if a.stop != nil {
		a.stop()
		a.stop = nil
	}
}

// EasingFunc maps linear progress in [0,1] to eased progress.
type EasingFunc func(t float64) float64

var easings = map[string]EasingFunc{
	"linear":         ease.Linear,
	"in_quad":        ease.InQuad,
	"out_quad":       ease.OutQuad,
	"in_out_quad":    ease.InOutQuad,
	"in_cubic":       ease.InCubic,
	"out_cubic":      ease.OutCubic,
	"in_out_cubic":   ease.InOutCubic,
	"in_sine":        ease.InSine,
	"out_sine":       ease.OutSine,
	"in_out_sine":    ease.InOutSine,
	"in_out_expo":    ease.InOutExpo,
	"out_back":       ease.OutBack,
	"in_out_elastic": ease.InOutElastic,
}

// EasingByName resolves an easing curve name such as "in_out_quad".
func EasingByName(name string) (EasingFunc, bool) {
	fn, ok := easings[name]
	return fn, ok
}

// Transition is a one-shot eased progress from 0 to 1 over Duration.
type Transition struct {
	Duration time.Duration
	Easing   EasingFunc

	start   time.Time
	started bool
}

func NewTransition(duration time.Duration, easing EasingFunc) *Transition {
	if easing == nil {
		easing = ease.Linear
	}
	return &Transition{Duration: duration, Easing: easing}
}

func (t *Transition) Start(now time.Time) {
	t.start = now
	t.started = true
}

// Progress returns the eased progress at now. A transition that was never
// started, or has no duration, is complete.
func (t *Transition) Progress(now time.Time) float64 {
	if !t.started || t.Duration <= 0 {
		return 1
	}
	p := float64(now.Sub(t.start)) / float64(t.Duration)
	if p <= 0 {
		return t.Easing(0)
	}
	if p >= 1 {
		return 1
	}
	return t.Easing(p)
}

func (t *Transition) Done(now time.Time) bool {
	return !t.started || t.Duration <= 0 || !now.Before(t.start.Add(t.Duration))
}
