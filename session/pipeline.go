package session

import (
	"context"
	"time"

	"github.com/WeyeTech/welockbridge/lockerr"
)

// sendCommand serializes frame through the command pipeline: acquire the
// per-session lock, enforce the minimum inter-command delay, arm the
// pending-response slot, write, and await correlation or timeout.
func (s *Session) sendCommand(ctx context.Context, frame []byte) (parsedFrame, error) {
	token := new(struct{})
	if err := s.cmdLock.Acquire(token); err != nil {
		return parsedFrame{}, err
	}
	defer s.cmdLock.Release()

	s.waitMinInterval()

	ch := s.pending.arm()
	if err := s.transport.Write(ctx, s.ep, frame, true); err != nil {
		s.pending.deliver(pendingResult{})
		s.recordFailure()
		return parsedFrame{}, lockerr.FmtCommandFailedError(nil, "write: %v", err)
	}

	res, waitErr := s.pending.wait(ch, s.cfg.CommandTimeout, s.closeCh)

	s.mtx.Lock()
	s.lastCommandAt = time.Now()
	s.mtx.Unlock()

	if waitErr != nil {
		s.pending.deliver(pendingResult{}) // disarm so a late frame isn't routed to the next command
		s.recordFailure()
		return parsedFrame{}, waitErr
	}
	if res.err != nil {
		s.recordFailure()
		return parsedFrame{}, res.err
	}

	s.resetFailures()
	return res.pf, nil
}

func (s *Session) waitMinInterval() {
	s.mtx.Lock()
	last := s.lastCommandAt
	s.mtx.Unlock()

	if last.IsZero() {
		return
	}
	if elapsed := time.Since(last); elapsed < s.cfg.MinCommandInterval {
		time.Sleep(s.cfg.MinCommandInterval - elapsed)
	}
}

func (s *Session) recordFailure() {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.consecutiveFailures++

	max := s.cfg.MaxConsecutiveFailures
	if max <= 0 {
		max = defaultMaxConsecutiveFailures
	}
	if s.consecutiveFailures > max {
		s.pollStopped = true
	}
}

func (s *Session) resetFailures() {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.consecutiveFailures = 0
	s.pollStopped = false
}
