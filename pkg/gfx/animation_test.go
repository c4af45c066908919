package gfx_test

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/kjkrol/seqview/pkg/gfx"
)

func TestTransitionProgress(t *testing.T) {
	linear, ok := gfx.EasingByName("linear")
	if !ok {
		t.Fatal("linear easing missing")
	}
	start := time.Unix(100, 0)
	tr := gfx.NewTransition(200*time.Millisecond, linear)

	if tr.Progress(start) != 1 || !tr.Done(start) {
		t.Fatal("a transition that never started must be complete")
	}

	tr.Start(start)
	tests := []struct {
		at   time.Duration
		want float64
		done bool
	}{
		{0, 0, false},
		{50 * time.Millisecond, 0.25, false},
		{100 * time.Millisecond, 0.5, false},
		{200 * time.Millisecond, 1, true},
		{time.Second, 1, true},
	}
	for _, tt := range tests {
		now := start.Add(tt.at)
		if got := tr.Progress(now); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Progress(+%v) = %v, want %v", tt.at, got, tt.want)
		}
		if got := tr.Done(now); got != tt.done {
			t.Errorf("Done(+%v) = %v, want %v", tt.at, got, tt.done)
		}
	}
}

func TestTransitionWithoutDurationIsImmediate(t *testing.T) {
	tr := gfx.NewTransition(0, nil)
	now := time.Now()
	tr.Start(now)
	if tr.Progress(now) != 1 || !tr.Done(now) {
		t.Fatal("zero duration transition must complete immediately")
	}
}

func TestEasingByName(t *testing.T) {
	for _, name := range []string{"linear", "in_out_quad", "out_cubic", "in_out_sine"} {
		fn, ok := gfx.EasingByName(name)
		if !ok {
			t.Fatalf("EasingByName(%q) missing", name)
		}
		if fn(0) != 0 || math.Abs(fn(1)-1) > 1e-9 {
			t.Errorf("%s(0)=%v %s(1)=%v, want 0 and 1", name, fn(0), name, fn(1))
		}
	}
	if _, ok := gfx.EasingByName("bounce_forever"); ok {
		t.Error("unknown easing resolved")
	}
}

func TestAnimationPostsTicksUntilStopped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var wg sync.WaitGroup
	updates := make(chan func(), 4)

	ticks := 0
	anim := gfx.NewAnimation(time.Millisecond, func() { ticks++ })
	anim.Run(ctx, &wg, updates)
	if !anim.Running() {
		t.Fatal("Running() = false after Run")
	}

	for i := 0; i < 3; i++ {
		select {
		case fn := <-updates:
			fn()
		case <-time.After(2 * time.Second):
			t.Fatal("no tick posted")
		}
	}
	if ticks != 3 {
		t.Fatalf("ticks = %d, want 3", ticks)
	}

	anim.Stop()
	// ticks queued before Stop must not evolve
	for {
		select {
		case fn := <-updates:
			fn()
			continue
		default:
		}
		break
	}
	if ticks != 3 {
		t.Errorf("ticks = %d after Stop, want 3", ticks)
	}
	cancel()
	wg.Wait()
}
