package wireclock

import (
	"bytes"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// SerialClock derives the 6-byte monotonic serial G-Series encrypted
// frames carry. It is process-wide with process lifecycle, so
// DefaultSerialClock below is the value production code shares; tests of
// SerialClock itself construct their own to get deterministic, isolated
// output.
type SerialClock struct {
	mtx  sync.Mutex
	last [6]byte
	nowFn func() time.Time
}

// NewSerialClock returns a SerialClock that derives values from wall-clock
// time via time.Now.
func NewSerialClock() *SerialClock {
	return &SerialClock{nowFn: time.Now}
}

// NewSerialClockWithNow returns a SerialClock driven by a caller-supplied
// clock function, for deterministic tests.
func NewSerialClockWithNow(nowFn func() time.Time) *SerialClock {
	return &SerialClock{nowFn: nowFn}
}

// Next returns the next 6-byte BCD serial. Monotonicity is only a
// best-effort property of the wall clock the value is derived from; a
// violation (clock stepped backward, or two calls land in the same
// second) is logged but never fatal.
func (c *SerialClock) Next() [6]byte {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	cur := BCD6(c.nowFn())
	if bytes.Compare(cur[:], c.last[:]) <= 0 && c.last != [6]byte{} {
		log.Warnf("wireclock: serial not monotonic: last=% X next=% X", c.last, cur)
	}
	c.last = cur
	return cur
}

// DefaultSerialClock is the process-wide serial clock gseries.BuildEncrypted
// draws every serial from.
var DefaultSerialClock = NewSerialClock()
