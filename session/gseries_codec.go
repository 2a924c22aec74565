package session

import (
	"time"

	"github.com/WeyeTech/welockbridge/gseries"
	"github.com/WeyeTech/welockbridge/lockdefs"
	"github.com/WeyeTech/welockbridge/lockerr"
)

// gSeriesCodec adapts the gseries wire codec to the session-engine's codec
// interface. G-Series has no unsolicited frames, so parse never reports
// async and asyncReply is always a no-op.
type gSeriesCodec struct {
	key []byte
}

func newGSeriesCodec(creds lockdefs.Credentials) *gSeriesCodec {
	return &gSeriesCodec{key: creds.AESKey}
}

func (c *gSeriesCodec) buildLock() ([]byte, error)         { return gseries.BuildLock(c.key) }
func (c *gSeriesCodec) buildUnlock() ([]byte, error)       { return gseries.BuildUnlock(c.key) }
func (c *gSeriesCodec) buildQueryStatus() ([]byte, error)  { return gseries.BuildQueryStatus(c.key) }
func (c *gSeriesCodec) pollInterval() time.Duration        { return gSeriesDefaultPollInterval }
func (c *gSeriesCodec) minCommandInterval() time.Duration  { return 0 }
func (c *gSeriesCodec) asyncReply([]byte) ([]byte, bool)   { return nil, false }

const gSeriesDefaultPollInterval = 5 * time.Second

func (c *gSeriesCodec) parse(frame []byte) (parsedFrame, error) {
	ack, resp, err := gseries.ParseResponse(frame, c.key)
	if err != nil {
		return parsedFrame{}, err
	}

	if ack != nil {
		if ack.Code.IsReserved() {
			return parsedFrame{}, lockerr.FmtDecodingError("g-series short ack: reserved code 0x%02X", byte(ack.Code))
		}
		return parsedFrame{ok: ack.Success(), lockState: lockdefs.LockUnknown}, nil
	}

	pf := parsedFrame{lockState: lockdefs.LockUnknown}

	switch resp.ResultCode {
	case gseries.ResultSuccess:
		pf.ok = true
	case gseries.ResultMaybeSucceeded:
		pf.verifyResult17 = true
	default:
		pf.ok = false
	}

	if battery, ok := gseries.ExtractBattery(resp.Content); ok {
		pf.battery, pf.hasBattery = battery, true
	}

	switch gseries.ExtractLockState(resp.Content) {
	case gseries.LockLockedRaw:
		pf.lockState = lockdefs.LockLocked
		pf.ok = true
	case gseries.LockUnlockedRaw:
		pf.lockState = lockdefs.LockUnlocked
		pf.ok = true
	}

	return pf, nil
}
