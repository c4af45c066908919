// Package config reads the viewer's YAML configuration file.
//
// Every key is optional. The file is decoded on top of Default, so a key
// that is absent keeps its default value.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v2"

	"github.com/kjkrol/seqview/pkg/gfx"
)

var ErrInvalid = errors.New("invalid config")

type Config struct {
	Window        WindowConfig     `yaml:"window"`
	Background    Color            `yaml:"background"`
	Layout        LayoutConfig     `yaml:"layout"`
	Label         LabelConfig      `yaml:"label"`
	Cache         CacheConfig      `yaml:"cache"`
	Playback      PlaybackConfig   `yaml:"playback"`
	Transition    TransitionConfig `yaml:"transition"`
	Watch         bool             `yaml:"watch"`
	SkipBadFrames bool             `yaml:"skip_bad_frames"`
	Log           LogConfig        `yaml:"log"`
}

type WindowConfig struct {
	Width             int    `yaml:"width"`
	Height            int    `yaml:"height"`
	Title             string `yaml:"title"`
	FPS               int    `yaml:"fps"`
	Samples           int    `yaml:"samples"`
	MaxEventsPerFrame int    `yaml:"max_events_per_frame"`
}

type LayoutConfig struct {
	TopMargin float64 `yaml:"top_margin"`
}

type LabelConfig struct {
	Text  string  `yaml:"text"`
	X     float32 `yaml:"x"`
	Y     float32 `yaml:"y"`
	Font  string  `yaml:"font"`
	Size  float64 `yaml:"size"`
	Color Color   `yaml:"color"`
}

type CacheConfig struct {
	// Capacity bounds resident textures, 0 keeps every loaded frame.
	Capacity int `yaml:"capacity"`
	// Prefetch is how many frames on each side of the current one are
	// decoded ahead.
	Prefetch       int  `yaml:"prefetch"`
	Workers        int  `yaml:"workers"`
	Async          bool `yaml:"async"`
	MaxTextureSize int  `yaml:"max_texture_size"`
}

type PlaybackConfig struct {
	FPS      float64 `yaml:"fps"`
	Loop     bool    `yaml:"loop"`
	Autoplay bool    `yaml:"autoplay"`
}

// Interval is the time between two frames during playback.
func (p PlaybackConfig) Interval() time.Duration {
	if p.FPS <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / p.FPS)
}

type TransitionConfig struct {
	Duration Duration `yaml:"duration"`
	Easing   string   `yaml:"easing"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// SlogLevel parses Level. Accepted names are those of slog.Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("%w: log.level %q", ErrInvalid, l.Level)
	}
	return level, nil
}

// Color is a hex colour such as "#ff0066".
type Color struct {
	colorful.Color
}

func MustHex(s string) Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return Color{c}
}

func (c *Color) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := colorful.Hex(s)
	if err != nil {
		return fmt.Errorf("%w: colour %q: %v", ErrInvalid, s, err)
	}
	c.Color = parsed
	return nil
}

// Duration accepts time.ParseDuration strings such as "150ms".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("%w: duration %q: %v", ErrInvalid, s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func Default() Config {
	return Config{
		Window: WindowConfig{
			Width:   1100,
			Height:  550,
			Title:   "seqview",
			FPS:     60,
			Samples: 4,
		},
		Background: MustHex("#ff0066"),
		Layout:     LayoutConfig{TopMargin: 100},
		Label: LabelConfig{
			Text:  "seqview",
			X:     100,
			Y:     40,
			Size:  32,
			Color: MustHex("#ffffff"),
		},
		Cache: CacheConfig{
			Capacity:       64,
			Prefetch:       2,
			Workers:        2,
			Async:          true,
			MaxTextureSize: 8192,
		},
		Playback:   PlaybackConfig{FPS: 24, Loop: true},
		Transition: TransitionConfig{Duration: Duration(150 * time.Millisecond), Easing: "in_out_quad"},
		Watch:      true,
		Log:        LogConfig{Level: "info"},
	}
}

// Load reads the file at path. An empty path yields Default.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	defer f.Close()
	conf, err := Parse(f)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return conf, nil
}

// Parse decodes YAML from r onto Default and validates the result. Unknown
// keys are rejected.
func Parse(r io.Reader) (Config, error) {
	conf := Default()
	decoder := yaml.NewDecoder(r)
	decoder.SetStrict(true)
	if err := decoder.Decode(&conf); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	if err := conf.Validate(); err != nil {
		return Config{}, err
	}
	return conf, nil
}

// Validate reports every invalid value. A prefetch radius too large for the
// cache is clamped rather than rejected.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...interface{}) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalid}, args...)...))
		}
	}

	check(c.Window.Width > 0, "window.width %d must be positive", c.Window.Width)
	check(c.Window.Height > 0, "window.height %d must be positive", c.Window.Height)
	check(c.Window.FPS > 0, "window.fps %d must be positive", c.Window.FPS)
	check(c.Window.Samples >= 0, "window.samples %d must not be negative", c.Window.Samples)
	check(c.Window.MaxEventsPerFrame >= 0, "window.max_events_per_frame %d must not be negative", c.Window.MaxEventsPerFrame)
	check(c.Layout.TopMargin >= 0, "layout.top_margin %v must not be negative", c.Layout.TopMargin)
	check(c.Label.Size > 0, "label.size %v must be positive", c.Label.Size)
	check(c.Cache.Capacity >= 0, "cache.capacity %d must not be negative", c.Cache.Capacity)
	check(c.Cache.Prefetch >= 0, "cache.prefetch %d must not be negative", c.Cache.Prefetch)
	check(c.Cache.Workers > 0, "cache.workers %d must be positive", c.Cache.Workers)
	check(c.Cache.MaxTextureSize >= 0, "cache.max_texture_size %d must not be negative", c.Cache.MaxTextureSize)
	check(c.Playback.FPS > 0, "playback.fps %v must be positive", c.Playback.FPS)
	check(c.Transition.Duration >= 0, "transition.duration %v must not be negative", c.Transition.Duration.Std())
	_, ok := gfx.EasingByName(c.Transition.Easing)
	check(ok, "transition.easing %q is unknown", c.Transition.Easing)
	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	// the current frame plus both prefetch windows must fit in the cache
	if c.Cache.Capacity > 0 && 2*c.Cache.Prefetch+1 > c.Cache.Capacity {
		c.Cache.Prefetch = (c.Cache.Capacity - 1) / 2
	}
	return nil
}
