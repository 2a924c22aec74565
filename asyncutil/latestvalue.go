package asyncutil

import "sync"

// LatestValue is a broadcaster that also remembers its most recently sent
// value: a new subscriber immediately observes the current value, and
// every subsequent transition is delivered to all subscribers in the
// order it was sent. It is the observable-publisher counterpart to
// nmxutil.Bcaster, which only fans values out and forgets them;
// Session.LockState()/ConnectionState() need the initial-value replay a
// plain broadcaster doesn't give them.
type LatestValue struct {
	mtx     sync.Mutex
	current interface{}
	subs    []chan interface{}
}

// NewLatestValue creates a LatestValue primed with an initial value (e.g.
// LockUnknown or Disconnected).
func NewLatestValue(initial interface{}) *LatestValue {
	return &LatestValue{current: initial}
}

// Subscribe returns a channel that immediately receives the current value
// and every value published afterward, in order. The channel is buffered
// by one slot so a slow reader doesn't block Publish; a reader that falls
// more than one value behind sees only the latest, not a queue of history.
func (l *LatestValue) Subscribe() <-chan interface{} {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	ch := make(chan interface{}, 1)
	ch <- l.current
	l.subs = append(l.subs, ch)
	return ch
}

// Unsubscribe removes ch from the delivery list and closes it, so a
// subscriber that's done reading doesn't keep receiving Publish sends (or
// keep a relay goroutine alive) for the rest of the LatestValue's life.
// A ch not currently subscribed is a no-op.
func (l *LatestValue) Unsubscribe(ch <-chan interface{}) {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	for i, c := range l.subs {
		if c == ch {
			l.subs = append(l.subs[:i], l.subs[i+1:]...)
			close(c)
			return
		}
	}
}

// Get returns the current value without subscribing.
func (l *LatestValue) Get() interface{} {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	return l.current
}

// Publish records val as current and delivers it to every subscriber. A
// subscriber whose buffer already holds an undelivered value has that
// value replaced rather than queued, so subscribers always converge on the
// latest transition instead of falling behind.
func (l *LatestValue) Publish(val interface{}) {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	l.current = val
	for _, ch := range l.subs {
		select {
		case ch <- val:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- val
		}
	}
}
