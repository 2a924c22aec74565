// Package asyncutil holds the small concurrency primitives the session
// engine is built from: a latest-value publisher (LatestValue) and a
// mutual-exclusion queue (SingleResource). Both are adapted from
// nmxact/nmxutil, which nmble's session and mgmt's transceiver both build
// on for exactly this purpose: coordinating a command-issuing goroutine
// with an inbound-notification pump without a dedicated actor runtime.
package asyncutil

import "sync"

type srWaiter struct {
	c     chan error
	token interface{}
}

// SingleResource serializes access to a resource one holder at a time,
// queueing additional acquirers in FIFO order. Session uses one per
// connection as the command pipeline lock: at most one command frame may
// be in flight, and the next command's Acquire doesn't return until the
// previous holder calls Release. Adapted from nmxact/nmxutil.SingleResource,
// which nmble's BLE master-priority arbitration is built on for the same
// one-holder-at-a-time shape.
type SingleResource struct {
	acquired  bool
	waitQueue []srWaiter
	mtx       sync.Mutex
}

// NewSingleResource returns a free SingleResource.
func NewSingleResource() *SingleResource {
	return &SingleResource{}
}

// Acquire blocks until the resource is free, then claims it. token
// identifies this acquisition so a concurrent StopWaiting/Abort can target
// it while it is still queued.
func (s *SingleResource) Acquire(token interface{}) error {
	s.mtx.Lock()

	if !s.acquired {
		s.acquired = true
		s.mtx.Unlock()
		return nil
	}

	w := srWaiter{
		c:     make(chan error),
		token: token,
	}
	s.waitQueue = append(s.waitQueue, w)
	s.mtx.Unlock()

	return <-w.c
}

// Release frees the resource, handing it directly to the next queued
// waiter if one exists. Returns true if a waiter picked it up.
func (s *SingleResource) Release() bool {
	s.mtx.Lock()

	if !s.acquired {
		s.mtx.Unlock()
		panic("SingleResource release without acquire")
	}

	if len(s.waitQueue) == 0 {
		s.acquired = false
		s.mtx.Unlock()
		return false
	}

	w := s.waitQueue[0]
	s.waitQueue = s.waitQueue[1:]
	s.mtx.Unlock()

	w.c <- nil
	return true
}

// StopWaiting cancels a single still-queued acquisition identified by
// token, delivering err to its Acquire call.
func (s *SingleResource) StopWaiting(token interface{}, err error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	for i, w := range s.waitQueue {
		if w.token == token {
			s.waitQueue = append(s.waitQueue[:i], s.waitQueue[i+1:]...)
			w.c <- err
			return
		}
	}
}

// Abort delivers err to every queued waiter, used when the session
// disconnects while commands are queued behind the pipeline lock.
func (s *SingleResource) Abort(err error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	for _, w := range s.waitQueue {
		w.c <- err
	}
	s.waitQueue = nil
}

// Acquired reports whether the resource is currently held.
func (s *SingleResource) Acquired() bool {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.acquired
}
