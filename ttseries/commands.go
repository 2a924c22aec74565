package ttseries

import (
	"time"

	"github.com/WeyeTech/welockbridge/lockerr"
	"github.com/WeyeTech/welockbridge/wireclock"
)

// LockReply is the decoded business data of a Lock/Unlock/Check-status
// response: CMD || LockId || Battery || LockStatus || Reserved
// || OpSource || DateTime.
type LockReply struct {
	Code           byte
	LockID         string
	BatteryPercent int
	Status         InterpretedStatus
}

// BuildLock constructs a LOCK command frame: CMD || LockId(4) ||
// Password(6) || DateTime(6).
func BuildLock(lockID, password string, now time.Time, key []byte) ([]byte, error) {
	return buildLockIDCommand(CmdLock, lockID, password, now, key)
}

// BuildUnlock constructs an UNLOCK command frame with the same shape as
// BuildLock.
func BuildUnlock(lockID, password string, now time.Time, key []byte) ([]byte, error) {
	return buildLockIDCommand(CmdUnlock, lockID, password, now, key)
}

// BuildCheckStatus constructs a CHECK_STATUS command frame, same shape as
// BuildLock/BuildUnlock.
func BuildCheckStatus(lockID, password string, now time.Time, key []byte) ([]byte, error) {
	return buildLockIDCommand(CmdCheckStatus, lockID, password, now, key)
}

func buildLockIDCommand(cmd byte, lockID, password string, now time.Time, key []byte) ([]byte, error) {
	idBytes, err := EncodeLockID(lockID)
	if err != nil {
		return nil, err
	}
	pwBytes := EncodePassword(password)
	dt := wireclock.BCD6(now)

	business := make([]byte, 0, 1+4+6+6)
	business = append(business, cmd)
	business = append(business, idBytes[:]...)
	business = append(business, pwBytes[:]...)
	business = append(business, dt[:]...)

	return buildBusiness(business, key)
}

// BuildCalibrateTime constructs a CALIBRATE_TIME command frame: CMD ||
// DateTime(6).
func BuildCalibrateTime(now time.Time, key []byte) ([]byte, error) {
	return buildTimeOnlyCommand(CmdCalibrateTime, now, key)
}

// BuildCheckVersion constructs a CHECK_VERSION command frame, same shape as
// BuildCalibrateTime.
func BuildCheckVersion(now time.Time, key []byte) ([]byte, error) {
	return buildTimeOnlyCommand(CmdCheckVersion, now, key)
}

func buildTimeOnlyCommand(cmd byte, now time.Time, key []byte) ([]byte, error) {
	dt := wireclock.BCD6(now)
	business := make([]byte, 0, 1+6)
	business = append(business, cmd)
	business = append(business, dt[:]...)
	return buildBusiness(business, key)
}

// BuildSetWorkMode constructs a SET_WORK_MODE command frame: CMD || LockId(4)
// || Mode(1).
func BuildSetWorkMode(lockID string, sleep bool, key []byte) ([]byte, error) {
	idBytes, err := EncodeLockID(lockID)
	if err != nil {
		return nil, err
	}
	mode := byte(WorkModeRealtime)
	if sleep {
		mode = WorkModeSleep
	}

	business := []byte{CmdSetWorkMode, idBytes[0], idBytes[1], idBytes[2], idBytes[3], mode}
	return buildBusiness(business, key)
}

// BuildHeartbeatReply constructs the asynchronous reply a session sends
// after receiving an unsolicited HEARTBEAT message: CMD || LockId(4) ||
// DateTime(6).
func BuildHeartbeatReply(lockID string, now time.Time, key []byte) ([]byte, error) {
	idBytes, err := EncodeLockID(lockID)
	if err != nil {
		return nil, err
	}
	dt := wireclock.BCD6(now)

	business := make([]byte, 0, 1+4+6)
	business = append(business, MsgHeartbeat)
	business = append(business, idBytes[:]...)
	business = append(business, dt[:]...)

	return buildBusiness(business, key)
}

func buildBusiness(business []byte, key []byte) ([]byte, error) {
	if key == nil {
		return BuildPlain(business)
	}
	return BuildEncrypted(business, key)
}

// InterpretLockReply decodes the business data of a Lock/Unlock/Check-status
// response frame. CRC/frame-shape errors from ParseResponse have already
// been handled; this only interprets already-extracted business data.
func InterpretLockReply(business []byte) (LockReply, error) {
	if len(business) < 1+4+1+1 {
		return LockReply{}, lockerr.NewDecodingError("tt-series lock reply too short")
	}

	code := business[0]
	var idBytes [4]byte
	copy(idBytes[:], business[1:5])

	reply := LockReply{
		Code:           code,
		LockID:         DecodeLockID(idBytes),
		BatteryPercent: int(business[5]),
		Status:         InterpretStatus(business[6]),
	}
	return reply, nil
}

// ResponseOutcome is the coarse outcome ClassifyResponseCode assigns to a
// Lock/Unlock/Check-status response code from the "response codes of
// interest" table.
type ResponseOutcome int

const (
	OutcomeUnknown ResponseOutcome = iota
	OutcomeLocked
	OutcomeLockedAgain
	OutcomeUnlocked
	OutcomeUnlockedAgain
	OutcomeCheckOK
	OutcomeAuthFailed
	OutcomeCommandFailed
)

// ClassifyResponseCode maps a Lock/Unlock/Check-status response code to a
// coarse outcome. RspLockAgain/RspUnlockAgain get their own outcomes,
// distinct from RspLockSuccess/RspUnlockSuccess: the device is reporting an
// idempotent re-apply (it was already in the commanded state) rather than a
// fresh state transition, and callers need to tell the two apart.
func ClassifyResponseCode(code byte) ResponseOutcome {
	switch code {
	case RspLockSuccess:
		return OutcomeLocked
	case RspLockAgain:
		return OutcomeLockedAgain
	case RspUnlockSuccess:
		return OutcomeUnlocked
	case RspUnlockAgain:
		return OutcomeUnlockedAgain
	case RspCheckOK:
		return OutcomeCheckOK
	case RspUnlockWrongPassword:
		return OutcomeAuthFailed
	default:
		if code&0xF0 == 0x80 || code&0xF0 == 0x90 {
			return OutcomeCommandFailed
		}
		return OutcomeUnknown
	}
}
