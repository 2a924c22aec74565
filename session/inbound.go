package session

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/WeyeTech/welockbridge/lockdefs"
	"github.com/WeyeTech/welockbridge/lockerr"
)

const heartbeatReplyTimeout = 3 * time.Second

// inboundLoop is the single reader of the transport's notification stream:
// it feeds every payload into the reassembly buffer and dispatches each
// complete frame it yields. Reassembly and dispatch are single-threaded
// per session.
func (s *Session) inboundLoop() {
	inbound := s.transport.Inbound()
	for {
		select {
		case data, ok := <-inbound:
			if !ok {
				return
			}
			s.buf.Append(data)
			for _, frame := range s.buf.Extract() {
				s.handleFrame(frame)
			}
		case <-s.closeCh:
			return
		}
	}
}

func (s *Session) handleFrame(frame []byte) {
	pf, err := s.codec.parse(frame)
	if err != nil {
		log.Warnf("session: dropping unparseable frame: %v", err)
		s.recordFailure()
		return
	}

	if pf.async {
		s.handleAsync(frame)
		return
	}

	if s.pending.armed() {
		s.pending.deliver(pendingResult{pf: pf})
	}
}

func (s *Session) handleAsync(frame []byte) {
	reply, ok := s.codec.asyncReply(frame)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), heartbeatReplyTimeout)
	defer cancel()
	if err := s.transport.Write(ctx, s.ep, reply, false); err != nil {
		log.Warnf("session: async reply write failed: %v", err)
	}
}

// connectionEventLoop translates transport-level link changes into
// ConnectionState transitions, and fails any pending command on drop.
func (s *Session) connectionEventLoop() {
	events := s.transport.ConnectionEvents()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if !ev.Connected {
				s.mtx.Lock()
				s.pollStopped = true
				s.mtx.Unlock()

				msg := "link dropped"
				if ev.Err != nil {
					msg = ev.Err.Error()
				}
				s.pending.deliver(pendingResult{err: lockerr.NewNotConnectedError(msg)})
				s.connState.Publish(lockdefs.Errored(msg))
				return
			}
		case <-s.closeCh:
			return
		}
	}
}
