package session

import (
	"github.com/WeyeTech/welockbridge/asyncutil"
	"github.com/WeyeTech/welockbridge/lockdefs"
)

// subscribeLockState wraps a LatestValue's untyped channel in a typed one,
// so callers of Session.LockState never see the interface{} plumbing. The
// relay goroutine unsubscribes and exits once stop closes, so it never
// outlives the session that owns lv (Session passes its closeCh).
func subscribeLockState(lv *asyncutil.LatestValue, stop <-chan struct{}) <-chan lockdefs.LockState {
	raw := lv.Subscribe()
	out := make(chan lockdefs.LockState, 1)
	go func() {
		defer close(out)
		for {
			select {
			case v, ok := <-raw:
				if !ok {
					return
				}
				out <- v.(lockdefs.LockState)
			case <-stop:
				lv.Unsubscribe(raw)
				return
			}
		}
	}()
	return out
}

func subscribeConnState(lv *asyncutil.LatestValue, stop <-chan struct{}) <-chan lockdefs.ConnectionState {
	raw := lv.Subscribe()
	out := make(chan lockdefs.ConnectionState, 1)
	go func() {
		defer close(out)
		for {
			select {
			case v, ok := <-raw:
				if !ok {
					return
				}
				out <- v.(lockdefs.ConnectionState)
			case <-stop:
				lv.Unsubscribe(raw)
				return
			}
		}
	}()
	return out
}
