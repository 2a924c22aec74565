package session

import (
	"sync"
	"time"

	"github.com/WeyeTech/welockbridge/lockerr"
)

// pendingResult is what the inbound dispatch loop or a connection drop
// hands to the command goroutine waiting on a pendingSlot.
type pendingResult struct {
	pf  parsedFrame
	err error
}

// pendingSlot is the one-shot promise a command's response travels
// through: sendCommand arms it right before writing the frame, and
// exactly one of the inbound dispatch loop (a correlated frame arrived),
// a connection drop, or a timeout resolves it. Unlike a general-purpose
// broadcast primitive built for an arbitrary number of waiters, a slot
// only ever has the one command goroutine that armed it reading from it,
// so arm hands out a fresh single-use channel each time rather than
// closing a shared one.
type pendingSlot struct {
	mtx sync.Mutex
	ch  chan pendingResult
}

// arm opens the slot for the next command and returns the channel its
// result will arrive on.
func (p *pendingSlot) arm() chan pendingResult {
	ch := make(chan pendingResult, 1)
	p.mtx.Lock()
	p.ch = ch
	p.mtx.Unlock()
	return ch
}

// armed reports whether a command is currently waiting on a response.
func (p *pendingSlot) armed() bool {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	return p.ch != nil
}

// deliver hands res to the current holder, if the slot is still armed,
// and closes the slot so a later stray frame isn't mistaken for a second
// delivery. Delivering with nothing armed is a no-op.
func (p *pendingSlot) deliver(res pendingResult) {
	p.mtx.Lock()
	ch := p.ch
	p.ch = nil
	p.mtx.Unlock()

	if ch != nil {
		ch <- res
	}
}

// wait blocks on ch, the channel arm returned, until deliver fills it,
// timeout elapses, or stop closes.
func (p *pendingSlot) wait(ch chan pendingResult, timeout time.Duration, stop <-chan struct{}) (pendingResult, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		return res, nil
	case <-timer.C:
		return pendingResult{}, lockerr.FmtTimeoutError("command", "timed out waiting for response after %s", timeout)
	case <-stop:
		return pendingResult{}, lockerr.NewNotConnectedError("session closed while awaiting response")
	}
}
