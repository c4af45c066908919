package main

import (
	_ "embed"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/kjkrol/seqview/internal/config"
	"github.com/kjkrol/seqview/internal/renderer"
	"github.com/kjkrol/seqview/internal/viewer"
	"github.com/kjkrol/seqview/pkg/framestore"
	"github.com/kjkrol/seqview/pkg/gfx"
	"github.com/kjkrol/seqview/pkg/ui"
)

//go:embed shader.glsl
var shaderSource string

var version = "dev"

func init() {
	// GLFW and the GL context must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(argv []string, stdout, stderr io.Writer) int {
	a, err := parseArgs(argv)
	if errors.Is(err, flag.ErrHelp) {
		usage(stdout)
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "seqview: %v\n\n", err)
		usage(stderr)
		return 2
	}
	if a.Version {
		fmt.Fprintf(stdout, "seqview %s\n", version)
		return 0
	}

	conf, err := config.Load(a.ConfigPath)
	if err != nil {
		fmt.Fprintf(stderr, "seqview: %v\n", err)
		return 1
	}
	level, _ := conf.Log.SlogLevel()
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := view(a, conf, stdout, logger); err != nil {
		logger.Error("seqview failed", "err", err)
		return 1
	}
	return 0
}

func view(a args, conf config.Config, console io.Writer, logger *slog.Logger) error {
	face, err := ui.LoadFace(conf.Label.Font, conf.Label.Size)
	if err != nil {
		return err
	}

	window, err := gfx.NewWindow(gfx.WindowConfig{
		Width:   conf.Window.Width,
		Height:  conf.Window.Height,
		Title:   conf.Window.Title,
		Samples: conf.Window.Samples,
		VSync:   true,
		FPS:     conf.Window.FPS,
	})
	if err != nil {
		return err
	}
	defer window.Close()

	store, err := framestore.New(a.Files, a.Frame, framestore.Options{
		Decoder:  framestore.FileDecoder{MaxTextureSize: conf.Cache.MaxTextureSize},
		Uploader: renderer.TextureUploader{},
		Capacity: conf.Cache.Capacity,
		Workers:  conf.Cache.Workers,
		Logger:   logger.With("component", "framestore"),
	})
	if err != nil {
		return err
	}
	defer store.Close()

	easing, _ := gfx.EasingByName(conf.Transition.Easing)
	width, height := window.Size()
	v := viewer.New(store, window, width, height, viewer.Options{
		Background: conf.Background,
		Title: ui.Label{
			Text:  conf.Label.Text,
			X:     conf.Label.X,
			Y:     conf.Label.Y,
			Color: conf.Label.Color,
		},
		TopMargin:          conf.Layout.TopMargin,
		Prefetch:           conf.Cache.Prefetch,
		Async:              conf.Cache.Async,
		SkipBadFrames:      conf.SkipBadFrames,
		Loop:               conf.Playback.Loop,
		Autoplay:           conf.Playback.Autoplay,
		PlaybackInterval:   conf.Playback.Interval(),
		TransitionDuration: conf.Transition.Duration.Std(),
		Easing:             easing,
		Console:            console,
		Logger:             logger.With("component", "viewer"),
	})

	window.SetRenderer(renderer.NewRendererFactory(renderer.RendererConfig{
		ShaderSource: shaderSource,
		Face:         face,
		Logger:       logger.With("component", "renderer"),
	}, v))

	if conf.Watch {
		err := store.Watch(window.Context(), func(index int) {
			window.EmitEvent(gfx.FileChanged{Path: a.Files[index], Index: index})
		})
		if err != nil {
			logger.Warn("file watching disabled", "err", err)
		}
	}

	ctx, stop := signal.NotifyContext(window.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		window.Stop()
	}()

	strategy := gfx.DrainAll()
	if conf.Window.MaxEventsPerFrame > 0 {
		strategy = gfx.DrainMax(conf.Window.MaxEventsPerFrame)
	}

	logger.Info("showing sequence", "frames", store.FrameCount(), "first", a.Frame)
	fmt.Fprintf(console, "frame %d/%d\n", a.Frame+1, store.FrameCount())
	window.Show()
	v.Start()
	window.ListenEvents(v.HandleEvent, strategy)

	stats := store.Stats()
	logger.Debug("frame cache",
		"decodes", stats.Decodes,
		"hits", stats.Hits,
		"misses", stats.Misses,
		"evictions", stats.Evictions,
		"failures", stats.Failures,
		"cancelled", stats.Cancelled)
	return v.Err()
}

