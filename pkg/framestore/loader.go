package framestore

import (
	"context"
	"errors"
)

// Prefetch schedules a background decode of index. It reports whether a new
// decode was scheduled: cached, failed, already pending and out of range
// frames are skipped.
func (s *Store) Prefetch(index int) bool {
	if s.closed || s.checkIndex(index) != nil {
		return false
	}
	if s.cache.Contains(index) || s.failed[index] != nil {
		return false
	}
	if _, ok := s.pending[index]; ok {
		return false
	}
	s.schedule(index, false)
	return true
}

func (s *Store) schedule(index int, reload bool) {
	s.nextID++
	ctx, cancel := context.WithCancel(s.ctx)
	s.pending[index] = pendingDecode{id: s.nextID, cancel: cancel, reload: reload}
	s.wg.Add(1)
	go s.decodeAsync(ctx, index, s.nextID, s.paths[index])
}

// CancelExcept cancels pending decodes of every frame for which keep
// returns false and reports how many were cancelled. A cancelled reload
// drops the outdated texture so the next access decodes the file again.
func (s *Store) CancelExcept(keep func(index int) bool) int {
	cancelled := 0
	for index, p := range s.pending {
		if keep != nil && keep(index) {
			continue
		}
		p.cancel()
		delete(s.pending, index)
		if p.reload {
			s.cache.Remove(index)
			delete(s.info, index)
		}
		cancelled++
	}
	s.stats.Cancelled += cancelled
	return cancelled
}

// Pump uploads every finished background decode and returns how many
// textures became resident. Call it once per frame on the owner goroutine.
func (s *Store) Pump() int {
	uploaded := 0
	for {
		select {
		case r := <-s.results:
			if s.apply(r) {
				uploaded++
			}
		default:
			return uploaded
		}
	}
}

func (s *Store) apply(r decodeResult) bool {
	p, ok := s.pending[r.index]
	if !ok || p.id != r.id {
		// cancelled or superseded while decoding
		return false
	}
	p.cancel()
	delete(s.pending, r.index)

	if r.err != nil {
		if errors.Is(r.err, context.Canceled) {
			s.stats.Cancelled++
			return false
		}
		s.stats.Decodes++
		if p.reload && s.cache.Contains(r.index) {
			s.stats.StaleReloads++
			s.logger.Warn("frame reload failed, keeping previous image",
				"index", r.index, "path", s.paths[r.index], "err", r.err)
			return false
		}
		s.fail(r.index, r.err)
		return false
	}
	if !p.reload && s.cache.Contains(r.index) {
		s.stats.Discarded++
		return false
	}
	s.stats.Decodes++
	_, err := s.insert(r.index, r.img)
	return err == nil
}

func (s *Store) decodeAsync(ctx context.Context, index int, id uint64, path string) {
	defer s.wg.Done()

	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		s.deliver(decodeResult{index: index, id: id, err: ctx.Err()})
		return
	}
	img, err := s.decoder.Decode(ctx, path)
	<-s.sem
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	s.deliver(decodeResult{index: index, id: id, img: img, err: err})
}

func (s *Store) deliver(r decodeResult) {
	select {
	case s.results <- r:
	case <-s.ctx.Done():
	}
}
