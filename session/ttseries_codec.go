package session

import (
	"time"

	"github.com/WeyeTech/welockbridge/lockdefs"
	"github.com/WeyeTech/welockbridge/ttseries"
)

// ttSeriesCodec adapts the ttseries wire codec to the session-engine codec
// interface. now is a func rather than time.Now directly so tests can
// inject a fixed clock, matching wireclock.SerialClock's injectable-clock
// shape.
type ttSeriesCodec struct {
	lockID   string
	password string
	key      []byte
	now      func() time.Time
}

func newTTSeriesCodec(creds lockdefs.Credentials, now func() time.Time) *ttSeriesCodec {
	return &ttSeriesCodec{
		lockID:   creds.LockID,
		password: creds.TTPassword,
		key:      creds.TTAESKey,
		now:      now,
	}
}

func (c *ttSeriesCodec) buildLock() ([]byte, error) {
	return ttseries.BuildLock(c.lockID, c.password, c.now(), c.key)
}

func (c *ttSeriesCodec) buildUnlock() ([]byte, error) {
	return ttseries.BuildUnlock(c.lockID, c.password, c.now(), c.key)
}

func (c *ttSeriesCodec) buildQueryStatus() ([]byte, error) {
	return ttseries.BuildCheckStatus(c.lockID, c.password, c.now(), c.key)
}

func (c *ttSeriesCodec) buildCalibrateTime() ([]byte, error) {
	return ttseries.BuildCalibrateTime(c.now(), c.key)
}

func (c *ttSeriesCodec) buildCheckVersion() ([]byte, error) {
	return ttseries.BuildCheckVersion(c.now(), c.key)
}

func (c *ttSeriesCodec) buildSetWorkMode(sleep bool) ([]byte, error) {
	return ttseries.BuildSetWorkMode(c.lockID, sleep, c.key)
}

func (c *ttSeriesCodec) pollInterval() time.Duration       { return ttSeriesDefaultPollInterval }
func (c *ttSeriesCodec) minCommandInterval() time.Duration { return 500 * time.Millisecond }

const ttSeriesDefaultPollInterval = 10 * time.Second

func (c *ttSeriesCodec) parse(frame []byte) (parsedFrame, error) {
	resp, err := ttseries.ParseResponse(frame, c.key)
	if err != nil {
		return parsedFrame{}, err
	}

	if ttseries.IsAsync(resp.Business) {
		return parsedFrame{async: true}, nil
	}

	pf := parsedFrame{lockState: lockdefs.LockUnknown}
	code := resp.Business[0]

	switch ttseries.ClassifyResponseCode(code) {
	case ttseries.OutcomeLocked, ttseries.OutcomeLockedAgain, ttseries.OutcomeUnlocked, ttseries.OutcomeUnlockedAgain, ttseries.OutcomeCheckOK:
		reply, err := ttseries.InterpretLockReply(resp.Business)
		if err != nil {
			return parsedFrame{}, err
		}
		pf.ok = true
		pf.hasBattery = true
		pf.battery = reply.BatteryPercent
		pf.lockState = classifyLockState(reply.Status.Class)
		if code == ttseries.RspLockAgain || code == ttseries.RspUnlockAgain {
			pf.alreadyInState = true
		}
	case ttseries.OutcomeAuthFailed:
		pf.authFailed = true
	case ttseries.OutcomeCommandFailed:
		pf.ok = false
	default:
		// CALIBRATE_TIME/SET_WORK_MODE acks and CHECK_VERSION replies have
		// no documented response-code table; treat any other business
		// data as a bare success ack, with CHECK_VERSION's payload
		// (business[1:]) surfaced as an ASCII version string.
		pf.ok = true
		if len(resp.Business) > 1 {
			pf.version = string(resp.Business[1:])
		}
	}

	return pf, nil
}

func classifyLockState(class ttseries.LockStatusClass) lockdefs.LockState {
	switch class {
	case ttseries.ClassSealed, ttseries.ClassLocalSealed:
		return lockdefs.LockLocked
	case ttseries.ClassUnsealed, ttseries.ClassOpen:
		return lockdefs.LockUnlocked
	default:
		return lockdefs.LockUnknown
	}
}

// asyncReply builds the heartbeat-ack frame for an unsolicited HEARTBEAT
// message. Alarms (BROKE/ROD_CUT/OPENED) require no reply.
func (c *ttSeriesCodec) asyncReply(frame []byte) ([]byte, bool) {
	resp, err := ttseries.ParseResponse(frame, c.key)
	if err != nil || len(resp.Business) == 0 || resp.Business[0] != ttseries.MsgHeartbeat {
		return nil, false
	}

	reply, err := ttseries.BuildHeartbeatReply(c.lockID, c.now(), c.key)
	if err != nil {
		return nil, false
	}
	return reply, true
}
