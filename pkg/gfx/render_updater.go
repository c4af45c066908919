package gfx

import "time"

type renderUpdater struct {
	rendererRefreshRate time.Duration
	nextRenderTime      time.Time
	render              func()
}

func newRenderUpdater(
	rendererRefreshRate time.Duration,
	render func(),
) *renderUpdater {
	if rendererRefreshRate <= 0 {
		rendererRefreshRate = time.Second / 60
	}
	return &renderUpdater{
		rendererRefreshRate: rendererRefreshRate,
		nextRenderTime:      time.Now().Add(rendererRefreshRate),
		render:              render,
	}
}

// pollTimeout is how long the loop may block on input before the next
// render is due, capped at maxWait and rounded up to whole milliseconds.
func (r *renderUpdater) pollTimeout(now time.Time, maxWait time.Duration) int {
	timeout := r.nextRenderTime.Sub(now)
	if timeout < 0 {
		timeout = 0
	}
	if timeout > maxWait {
		timeout = maxWait
	}
	timeoutMs := int(timeout / time.Millisecond)
	if timeout > 0 && timeoutMs == 0 {
		timeoutMs = 1
	}
	return timeoutMs
}

// run renders when the next frame is due and reports whether it did.
func (r *renderUpdater) run(now time.Time) bool {
	if now.Before(r.nextRenderTime) {
		return false
	}
	r.render()
	r.nextRenderTime = now.Add(r.rendererRefreshRate)
	return true
}
