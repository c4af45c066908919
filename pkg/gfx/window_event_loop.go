package gfx

// EmitEvent queues a synthetic event for the loop. It is safe to call from
// any goroutine and never blocks: when the buffer is full the event is
// dropped.
func (w *Window) EmitEvent(event Event) bool {
	if w == nil || event == nil {
		return false
	}
	select {
	case w.events <- event:
		return true
	default:
		return false
	}
}

// Post queues fn to run on the loop goroutine before the next render.
func (w *Window) Post(fn func()) bool {
	if w == nil || fn == nil {
		return false
	}
	select {
	case w.updates <- fn:
		return true
	default:
		return false
	}
}

func (w *Window) nextEmitted() (Event, bool) {
	select {
	case event := <-w.events:
		return event, true
	default:
		return nil, false
	}
}

func (w *Window) runUpdates() int {
	count := 0
	for {
		select {
		case upd := <-w.updates:
			upd()
			count++
		default:
			return count
		}
	}
}
