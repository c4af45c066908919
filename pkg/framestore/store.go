// Package framestore owns the frames of an image sequence and their GPU
// textures.
//
// Frames are decoded lazily, at most once while they stay cached, and kept
// in a least-recently-used cache of textures. Decoding can also run ahead
// on worker goroutines (Prefetch, TryTexture); finished decodes are uploaded
// on the owner's goroutine by Pump, so the Uploader never runs concurrently.
//
// Apart from Watch's notify callback and the Decoder, every method must be
// called from a single goroutine, normally the render loop.
package framestore

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/kjkrol/seqview/pkg/gfx/texture"
)

const (
	DefaultWorkers    = 2
	DefaultWatchDelay = 100 * time.Millisecond

	resultsBufferSize = 64
)

// FrameInfo describes a frame's source image.
type FrameInfo struct {
	Width, Height int
	Aspect        float64
}

// Stats are cumulative counters since New.
type Stats struct {
	Decodes   int
	Hits      int
	Misses    int
	Evictions int
	Failures  int
	Cancelled int
	// Discarded counts background decodes dropped because the frame was
	// already resident when they finished.
	Discarded int
	// StaleReloads counts reloads that failed and kept the old texture.
	StaleReloads int
}

// Options configures a Store. The zero value decodes files with FileDecoder,
// keeps pixels in memory and never evicts.
type Options struct {
	Decoder  Decoder
	Uploader Uploader
	// Capacity bounds the number of resident textures. Zero or less keeps
	// every frame once loaded.
	Capacity int
	// Workers is how many background decodes may run at once.
	Workers int
	// WatchDelay is how long Watch waits for a file to stop changing before
	// reporting it. Zero selects DefaultWatchDelay.
	WatchDelay time.Duration
	Logger     *slog.Logger
}

type pendingDecode struct {
	id     uint64
	cancel context.CancelFunc
	// reload replaces a resident texture instead of filling a miss.
	reload bool
}

type decodeResult struct {
	index int
	id    uint64
	img   Image
	err   error
}

type Store struct {
	paths  []string
	byPath map[string][]int

	current  int
	decoder  Decoder
	uploader Uploader
	cache    *lru.Cache[int, texture.Texture]
	info     map[int]FrameInfo
	failed   map[int]error

	pending map[int]pendingDecode
	nextID  uint64
	results chan decodeResult
	sem     chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed bool

	watchDelay time.Duration
	stats      Stats
	logger     *slog.Logger
}

// New creates a store over paths and loads the initial frame synchronously.
// The initial frame becomes the current frame.
func New(paths []string, initial int, o Options) (*Store, error) {
	if initial < 0 || initial >= len(paths) {
		return nil, invalidIndex(initial, len(paths))
	}
	if o.Decoder == nil {
		o.Decoder = FileDecoder{}
	}
	if o.Uploader == nil {
		o.Uploader = MemoryUploader{}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Workers < 1 {
		o.Workers = DefaultWorkers
	}
	if o.WatchDelay <= 0 {
		o.WatchDelay = DefaultWatchDelay
	}
	capacity := o.Capacity
	if capacity <= 0 || capacity > len(paths) {
		capacity = len(paths)
	}

	s := &Store{
		paths:    append([]string(nil), paths...),
		byPath:   make(map[string][]int, len(paths)),
		current:  initial,
		decoder:  o.Decoder,
		uploader: o.Uploader,
		info:     make(map[int]FrameInfo),
		failed:   make(map[int]error),
		pending:  make(map[int]pendingDecode),
		results:  make(chan decodeResult, resultsBufferSize),
		sem:      make(chan struct{}, o.Workers),
		logger:   o.Logger,

		watchDelay: o.WatchDelay,
	}
	for i, path := range s.paths {
		key := filepath.Clean(path)
		s.byPath[key] = append(s.byPath[key], i)
	}
	cache, err := lru.NewWithEvict(capacity, func(_ int, tex texture.Texture) {
		tex.Release()
	})
	if err != nil {
		return nil, err
	}
	s.cache = cache
	s.ctx, s.cancel = context.WithCancel(context.Background())

	if _, err := s.Texture(initial); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) FrameCount() int {
	return len(s.paths)
}

func (s *Store) Path(index int) (string, error) {
	if err := s.checkIndex(index); err != nil {
		return "", err
	}
	return s.paths[index], nil
}

func (s *Store) CurrentFrame() int {
	return s.current
}

// SetCurrentFrame records which frame is displayed. It does not load it.
func (s *Store) SetCurrentFrame(index int) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	s.current = index
	return nil
}

// Texture returns the texture for index, decoding and uploading it first if
// it is not cached. A frame that failed before fails again without touching
// the disk until it is invalidated.
func (s *Store) Texture(index int) (texture.Texture, error) {
	if err := s.checkIndex(index); err != nil {
		return nil, err
	}
	if s.closed {
		return nil, ErrClosed
	}
	if tex, ok := s.cache.Get(index); ok {
		s.stats.Hits++
		return tex, nil
	}
	s.stats.Misses++
	if err := s.failed[index]; err != nil {
		return nil, err
	}
	img, err := s.decoder.Decode(s.ctx, s.paths[index])
	s.stats.Decodes++
	if err != nil {
		return nil, s.fail(index, err)
	}
	return s.insert(index, img)
}

// TryTexture returns the cached texture for index without blocking. On a
// miss it schedules a background decode and reports false; the texture
// becomes available after a later Pump.
func (s *Store) TryTexture(index int) (texture.Texture, bool, error) {
	if err := s.checkIndex(index); err != nil {
		return nil, false, err
	}
	if tex, ok := s.cache.Get(index); ok {
		s.stats.Hits++
		return tex, true, nil
	}
	if err := s.failed[index]; err != nil {
		return nil, false, err
	}
	if s.Prefetch(index) {
		s.stats.Misses++
	}
	return nil, false, nil
}

// Peek returns a cached texture without loading it or marking it as
// recently used.
func (s *Store) Peek(index int) (texture.Texture, bool) {
	return s.cache.Peek(index)
}

func (s *Store) Cached(index int) bool {
	return s.cache.Contains(index)
}

func (s *Store) Pending(index int) bool {
	_, ok := s.pending[index]
	return ok
}

// Info returns the source dimensions of a frame decoded at least once.
func (s *Store) Info(index int) (FrameInfo, bool) {
	info, ok := s.info[index]
	return info, ok
}

// Failed returns the remembered decode failure for index, if any.
func (s *Store) Failed(index int) error {
	return s.failed[index]
}

func (s *Store) Stats() Stats {
	return s.stats
}

// Len is the number of resident textures.
func (s *Store) Len() int {
	return s.cache.Len()
}

// Invalidate forgets everything known about a frame so the next access
// decodes it again.
func (s *Store) Invalidate(index int) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	if p, ok := s.pending[index]; ok {
		p.cancel()
		delete(s.pending, index)
	}
	s.cache.Remove(index)
	delete(s.failed, index)
	delete(s.info, index)
	s.logger.Debug("frame invalidated", "index", index, "path", s.paths[index])
	return nil
}

// Reload re-reads a frame whose file changed. A resident texture keeps being
// served until the new decode succeeds on a later Pump; if that decode fails
// the old texture stays and the failure is only logged. A frame that is not
// resident is invalidated instead.
func (s *Store) Reload(index int) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	if s.closed {
		return ErrClosed
	}
	if !s.cache.Contains(index) {
		return s.Invalidate(index)
	}
	if p, ok := s.pending[index]; ok {
		p.cancel()
		delete(s.pending, index)
	}
	delete(s.failed, index)
	s.schedule(index, true)
	s.logger.Debug("frame reload scheduled", "index", index, "path", s.paths[index])
	return nil
}

// Close stops background work and releases every texture.
func (s *Store) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.cancel()
	s.wg.Wait()
drain:
	for {
		select {
		case <-s.results:
		default:
			break drain
		}
	}
	for index, p := range s.pending {
		p.cancel()
		delete(s.pending, index)
	}
	s.cache.Purge()
}

func (s *Store) checkIndex(index int) error {
	if index < 0 || index >= len(s.paths) {
		return invalidIndex(index, len(s.paths))
	}
	return nil
}

func (s *Store) insert(index int, img Image) (texture.Texture, error) {
	tex, err := s.uploader.Upload(img.Pixels)
	if err != nil {
		return nil, s.fail(index, err)
	}
	info := FrameInfo{Width: img.Width, Height: img.Height}
	if img.Height > 0 {
		info.Aspect = float64(img.Width) / float64(img.Height)
	}
	s.info[index] = info
	if s.cache.Contains(index) {
		// Add on an existing key would drop the old texture without releasing it
		s.cache.Remove(index)
	}
	if s.cache.Add(index, tex) {
		s.stats.Evictions++
	}
	s.logger.Debug("frame loaded",
		"index", index,
		"path", s.paths[index],
		"width", img.Width,
		"height", img.Height,
		"resident", s.cache.Len())
	return tex, nil
}

func (s *Store) fail(index int, err error) error {
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		decodeErr = &DecodeError{Index: index, Path: s.paths[index], Err: err}
	}
	s.failed[index] = decodeErr
	s.stats.Failures++
	s.logger.Warn("frame failed to load", "index", index, "path", s.paths[index], "err", err)
	return decodeErr
}
