package ttseries

import (
	"testing"
	"time"

	"github.com/WeyeTech/welockbridge/crc"
)

func TestBuildLockPlainLayout(t *testing.T) {
	// Lock/Unlock/Check-status business layout.
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	frame, err := BuildLock("83181001", "123456", fixed, nil)
	if err != nil {
		t.Fatalf("BuildLock: %v", err)
	}

	wantBusiness := []byte{
		0x31,
		0x20, 0x7E, 0x03, 0xE9,
		0x31, 0x32, 0x33, 0x34, 0x35, 0x36,
		0x24, 0x01, 0x02, 0x03, 0x04, 0x05,
	}

	if frame[0] != EncPlain {
		t.Errorf("ENC = 0x%02X, want 0x%02X", frame[0], EncPlain)
	}
	if int(frame[1]) != len(wantBusiness) {
		t.Errorf("LEN = %d, want %d", frame[1], len(wantBusiness))
	}
	if len(frame) != 2+len(wantBusiness)+1 {
		t.Fatalf("frame length = %d, want %d", len(frame), 2+len(wantBusiness)+1)
	}

	body := frame[2 : len(frame)-1]
	for i, b := range wantBusiness {
		if body[i] != b {
			t.Errorf("business[%d] = 0x%02X, want 0x%02X", i, body[i], b)
		}
	}

	wantCRC := crc.Maxim8(frame[:len(frame)-1])
	if frame[len(frame)-1] != wantCRC {
		t.Errorf("CRC8 = 0x%02X, want 0x%02X", frame[len(frame)-1], wantCRC)
	}
}

func TestInterpretStatusScenarios(t *testing.T) {
	// LockStatus byte classification.
	cases := []struct {
		raw       byte
		wantClass LockStatusClass
	}{
		{0x40, ClassSealed},
		{0x60, ClassUnsealed},
		{0x72, ClassAlarm},
		{0x30, ClassNotReady},
	}

	for _, c := range cases {
		got := InterpretStatus(c.raw)
		if got.Class != c.wantClass {
			t.Errorf("InterpretStatus(0x%02X).Class = %v, want %v", c.raw, got.Class, c.wantClass)
		}
	}

	alarm := InterpretStatus(0x72)
	if !alarm.Alarm.Opened() {
		t.Error("0x72 should set the Opened alarm flag")
	}
	if alarm.Alarm.RodCut() || alarm.Alarm.Shell() || alarm.Alarm.Emergency() {
		t.Error("0x72 should only set Opened")
	}
}

func TestBuildEncryptedFrameLengthInvariant(t *testing.T) {
	key := []byte("1234567890123456")
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	frame, err := BuildLock("83181001", "1", fixed, key)
	if err != nil {
		t.Fatalf("BuildLock: %v", err)
	}

	businessLen := int(frame[1])
	wantOnWire := ((businessLen + 15) / 16) * 16
	wantLen := 2 + wantOnWire + 1
	if len(frame) != wantLen {
		t.Errorf("encrypted frame length = %d, want %d", len(frame), wantLen)
	}
}

func TestRoundTripPlainThroughParseResponse(t *testing.T) {
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	frame, err := BuildLock("83181001", "123456", fixed, nil)
	if err != nil {
		t.Fatalf("BuildLock: %v", err)
	}

	resp, err := ParseResponse(frame, nil)
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if len(resp.Business) != int(frame[1]) {
		t.Errorf("business length = %d, want %d", len(resp.Business), frame[1])
	}
}

func TestRoundTripEncryptedThroughParseResponse(t *testing.T) {
	key := []byte("1234567890123456")
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	frame, err := BuildLock("83181001", "123456", fixed, key)
	if err != nil {
		t.Fatalf("BuildLock: %v", err)
	}

	resp, err := ParseResponse(frame, key)
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if resp.Business[0] != CmdLock {
		t.Errorf("decoded business[0] = 0x%02X, want CMD_LOCK", resp.Business[0])
	}
}

func TestParseResponseRejectsBadEnc(t *testing.T) {
	_, err := ParseResponse([]byte{0x99, 0x01, 0x00, 0x00}, nil)
	if err == nil {
		t.Fatal("expected error for unrecognized ENC")
	}
}

func TestClassifyResponseCode(t *testing.T) {
	cases := []struct {
		code byte
		want ResponseOutcome
	}{
		{RspLockSuccess, OutcomeLocked},
		{RspLockAgain, OutcomeLockedAgain},
		{RspUnlockSuccess, OutcomeUnlocked},
		{RspUnlockAgain, OutcomeUnlockedAgain},
		{RspCheckOK, OutcomeCheckOK},
		{RspUnlockWrongPassword, OutcomeAuthFailed},
		{0x82, OutcomeCommandFailed},
	}

	for _, c := range cases {
		if got := ClassifyResponseCode(c.code); got != c.want {
			t.Errorf("ClassifyResponseCode(0x%02X) = %v, want %v", c.code, got, c.want)
		}
	}
}

func TestIsAsyncDistinguishesUpstreamMessages(t *testing.T) {
	if !IsAsync([]byte{MsgHeartbeat, 0x00}) {
		t.Error("heartbeat should be classified async")
	}
	if IsAsync([]byte{RspLockSuccess, 0x00}) {
		t.Error("lock response should not be classified async")
	}
}

func TestEncodeLockIDRoundTrip(t *testing.T) {
	b, err := EncodeLockID("83181001")
	if err != nil {
		t.Fatalf("EncodeLockID: %v", err)
	}
	want := [4]byte{0x20, 0x7E, 0x03, 0xE9}
	if b != want {
		t.Errorf("EncodeLockID = % X, want % X", b, want)
	}
	if got := DecodeLockID(b); got != "83181001" {
		t.Errorf("DecodeLockID = %q, want 83181001", got)
	}
}

func TestEncodePasswordPadsWithZero(t *testing.T) {
	got := EncodePassword("12")
	want := [6]byte{'1', '2', '0', '0', '0', '0'}
	if got != want {
		t.Errorf("EncodePassword(12) = %q, want %q", got, want)
	}
}
