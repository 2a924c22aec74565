package session

import (
	"context"
	"time"
)

// pollLoop runs query-with-retry on a fixed interval while the session is
// connected. Errors are swallowed; a run of more than MaxConsecutiveFailures
// consecutive parse failures (tracked in recordFailure) suspends polling
// without exiting the loop, so a later successful command (recordFailure's
// counterpart resetFailures) can resume ticks without relaunching the
// goroutine.
func (s *Session) pollLoop() {
	defer close(s.pollDone)

	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.mtx.Lock()
			stopped := s.pollStopped
			s.mtx.Unlock()
			if stopped {
				continue
			}
			s.pollOnce()
		case <-s.closeCh:
			return
		}
	}
}

func (s *Session) pollOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.CommandTimeout)
	defer cancel()

	const maxAttempts = 2
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if _, err := s.QueryLockStatus(ctx); err == nil {
			return
		}
	}
}
