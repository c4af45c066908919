package gfx

// Poller returns the next pending event, waiting at most timeoutMs.
// The bool is false when nothing arrived in time.
type Poller func(timeoutMs int) (Event, bool)

// EventsConsumerStrategy decides how many platform events are handled
// between two render ticks.
type EventsConsumerStrategy interface {
	Consume(poll Poller, handle func(Event), timeoutMs int) int
}

// drainStrategy waits up to timeoutMs for the first event and then keeps
// polling without waiting until the queue is empty or max events were
// handled. max <= 0 means no limit.
type drainStrategy struct {
	max int
}

func (s drainStrategy) Consume(poll Poller, handle func(Event), timeoutMs int) int {
	event, ok := poll(timeoutMs)
	if !ok {
		return 0
	}
	handle(event)
	count := 1
	for s.max <= 0 || count < s.max {
		event, ok = poll(0)
		if !ok {
			break
		}
		handle(event)
		count++
	}
	return count
}

// DrainAll handles every queued event before the next render.
func DrainAll() EventsConsumerStrategy {
	return drainStrategy{}
}

// DrainMax handles at most max events per render tick so a flood of
// pointer motion cannot starve rendering. max < 1 is treated as 1.
func DrainMax(max int) EventsConsumerStrategy {
	if max < 1 {
		max = 1
	}
	return drainStrategy{max: max}
}
