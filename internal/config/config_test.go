package config_test

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kjkrol/seqview/internal/config"
)

func TestDefaultIsValid(t *testing.T) {
	conf := config.Default()
	if err := conf.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if conf.Window.Width != 1100 || conf.Window.Height != 550 {
		t.Errorf("default window = %dx%d, want 1100x550", conf.Window.Width, conf.Window.Height)
	}
	if conf.Layout.TopMargin != 100 {
		t.Errorf("default top margin = %v, want 100", conf.Layout.TopMargin)
	}
	if got := conf.Background.Hex(); got != "#ff0066" {
		t.Errorf("default background = %s, want #ff0066", got)
	}
}

func TestParseEmptyKeepsDefaults(t *testing.T) {
	conf, err := config.Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Parse(\"\") = %v", err)
	}
	want := config.Default()
	if conf.Window != want.Window || conf.Cache != want.Cache || conf.Playback != want.Playback {
		t.Errorf("Parse(\"\") = %+v, want defaults", conf)
	}
}

func TestParseOverrides(t *testing.T) {
	src := `
window:
  width: 640
  title: frames
background: "#102030"
label:
  text: "hello"
  color: "#00ff00"
cache:
  capacity: 8
  async: false
transition:
  duration: 300ms
  easing: linear
skip_bad_frames: true
log:
  level: debug
`
	conf, err := config.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if conf.Window.Width != 640 || conf.Window.Height != 550 {
		t.Errorf("window = %dx%d, want 640x550", conf.Window.Width, conf.Window.Height)
	}
	if conf.Window.Title != "frames" {
		t.Errorf("title = %q, want frames", conf.Window.Title)
	}
	if got := conf.Background.Hex(); got != "#102030" {
		t.Errorf("background = %s, want #102030", got)
	}
	if conf.Label.Text != "hello" || conf.Label.Color.Hex() != "#00ff00" {
		t.Errorf("label = %+v", conf.Label)
	}
	if conf.Label.Size != 32 {
		t.Errorf("label size = %v, want default 32", conf.Label.Size)
	}
	if conf.Cache.Capacity != 8 || conf.Cache.Async {
		t.Errorf("cache = %+v", conf.Cache)
	}
	if conf.Transition.Duration.Std() != 300*time.Millisecond || conf.Transition.Easing != "linear" {
		t.Errorf("transition = %+v", conf.Transition)
	}
	if !conf.SkipBadFrames {
		t.Error("skip_bad_frames not applied")
	}
	level, err := conf.Log.SlogLevel()
	if err != nil || level != slog.LevelDebug {
		t.Errorf("SlogLevel() = %v, %v; want debug", level, err)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "bad colour", src: `background: "pink"`},
		{name: "bad duration", src: "transition:\n  duration: soon"},
		{name: "unknown easing", src: "transition:\n  easing: wobble"},
		{name: "zero width", src: "window:\n  width: 0"},
		{name: "negative capacity", src: "cache:\n  capacity: -1"},
		{name: "no workers", src: "cache:\n  workers: 0"},
		{name: "zero playback fps", src: "playback:\n  fps: 0"},
		{name: "bad log level", src: "log:\n  level: loud"},
		{name: "unknown key", src: "windw:\n  width: 10"},
		{name: "malformed yaml", src: "window: [1, 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := config.Parse(strings.NewReader(tt.src)); err == nil {
				t.Fatalf("Parse(%q) succeeded, want error", tt.src)
			}
		})
	}
}

func TestValidateReportsAllProblems(t *testing.T) {
	conf := config.Default()
	conf.Window.Width = 0
	conf.Label.Size = -1
	err := conf.Validate()
	if !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("Validate() = %v, want ErrInvalid", err)
	}
	msg := err.Error()
	for _, key := range []string{"window.width", "label.size"} {
		if !strings.Contains(msg, key) {
			t.Errorf("Validate() = %q, missing %s", msg, key)
		}
	}
}

func TestValidateClampsPrefetchToCapacity(t *testing.T) {
	conf := config.Default()
	conf.Cache.Capacity = 4
	conf.Cache.Prefetch = 10
	if err := conf.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if conf.Cache.Prefetch != 1 {
		t.Errorf("Prefetch = %d, want 1", conf.Cache.Prefetch)
	}

	conf.Cache.Capacity = 0
	conf.Cache.Prefetch = 10
	if err := conf.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if conf.Cache.Prefetch != 10 {
		t.Errorf("unbounded cache changed Prefetch to %d", conf.Cache.Prefetch)
	}
}

func TestLoad(t *testing.T) {
	conf, err := config.Load("")
	if err != nil {
		t.Fatalf("Load(\"\") = %v", err)
	}
	if conf.Window.Title != "seqview" {
		t.Errorf("Load(\"\") title = %q", conf.Window.Title)
	}

	path := filepath.Join(t.TempDir(), "seqview.yaml")
	if err := os.WriteFile(path, []byte("playback:\n  fps: 12\n  autoplay: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	conf, err = config.Load(path)
	if err != nil {
		t.Fatalf("Load(%s) = %v", path, err)
	}
	if !conf.Playback.Autoplay || conf.Playback.Interval() != time.Second/12 {
		t.Errorf("playback = %+v interval %v", conf.Playback, conf.Playback.Interval())
	}

	if _, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) = %v, want ErrNotExist", err)
	}
}
