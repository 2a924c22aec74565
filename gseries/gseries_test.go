package gseries

import (
	"bytes"
	"testing"

	"github.com/WeyeTech/welockbridge/crc"
)

var testKey = []byte("1234567890123456")

func TestBuildUnlockEncryptedLayout(t *testing.T) {
	frame, err := BuildUnlock(testKey)
	if err != nil {
		t.Fatalf("BuildUnlock: %v", err)
	}

	if frame[0] != 0xF1 || frame[1] != 0x1F {
		t.Errorf("header = % X, want F1 1F", frame[:2])
	}
	if frame[2] != 0xFF || frame[3] != 0xEE {
		t.Errorf("comm = % X, want FF EE", frame[2:4])
	}
	if frame[4] != 0x03 || frame[5] != 0x10 {
		t.Errorf("cmd = % X, want 03 10", frame[4:6])
	}
	if frame[6] != 0x00 || frame[7] != 0x10 {
		t.Errorf("len = % X, want 00 10 (16)", frame[6:8])
	}

	// header(2)+comm(2)+cmd(2)+len(2)+body(16)+check(1)+tail(2) = 27
	if len(frame) != 27 {
		t.Fatalf("frame length = %d, want 27", len(frame))
	}

	body := frame[8:24]
	if len(body) != 16 {
		t.Fatalf("body length = %d, want 16", len(body))
	}

	if frame[len(frame)-2] != 0xF2 || frame[len(frame)-1] != 0x2F {
		t.Errorf("tail = % X, want F2 2F", frame[len(frame)-2:])
	}

	wantCheck := crc.SunCheck(frame[2 : len(frame)-3])
	if frame[len(frame)-3] != wantCheck {
		t.Errorf("SunCheck byte = 0x%02X, want 0x%02X", frame[len(frame)-3], wantCheck)
	}
}

func TestBuildEncryptedLengthInvariant(t *testing.T) {
	// length = 11 + 16*ceil((12+|content|)/16)
	for _, contentLen := range []int{0, 1, 4, 15, 16, 17, 40} {
		content := make([]byte, contentLen)
		frame, err := BuildEncrypted(CmdSetParams, content, testKey)
		if err != nil {
			t.Fatalf("BuildEncrypted(len=%d): %v", contentLen, err)
		}

		blocks := (12 + contentLen + 15) / 16
		want := 11 + 16*blocks
		if len(frame) != want {
			t.Errorf("contentLen=%d: frame length = %d, want %d", contentLen, len(frame), want)
		}
	}
}

func TestBuildPlainRoundTripsThroughParseResponse(t *testing.T) {
	// Simulate a device echoing a plain response frame with the same
	// shape as a command frame but the response header/tail.
	content := []byte{0x00} // result code success
	frame := buildFrameWithBodyAndLen(CmdSetParams, content, len(content), commPlain)
	frame[0], frame[1] = RspHeaderByte0, RspHeaderByte1
	frame[len(frame)-2], frame[len(frame)-1] = 0xF4, 0x4F

	ack, resp, err := ParseResponse(frame, nil)
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if ack != nil {
		t.Fatal("expected a full response, got a short ACK")
	}
	if !resp.Success() {
		t.Errorf("resp.ResultCode = 0x%02X, want success", resp.ResultCode)
	}
}

func TestParseShortAck(t *testing.T) {
	ack, resp, err := ParseResponse([]byte{0x20, 0xF1, 0x00}, nil)
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if resp != nil {
		t.Fatal("expected a short ACK, got a full response")
	}
	if !ack.Success() {
		t.Error("expected ack.Success() == true for code 0x00")
	}
}

func TestParseShortAckFailure(t *testing.T) {
	ack, _, err := ParseResponse([]byte{0x20, 0xF1, 0x01}, nil)
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if ack.Success() {
		t.Error("expected ack.Success() == false for code 0x01")
	}
	if ack.Code.IsReserved() {
		t.Error("0x01 is a documented code, should not be reserved")
	}
}

func TestExtractLockState(t *testing.T) {
	cases := []struct {
		content []byte
		want    LockClassification
	}{
		{[]byte{0x01, 0x30, 0x01, 0x31}, LockLockedRaw},
		{[]byte{0x01, 0x30, 0x01, 0x00}, LockUnlockedRaw},
		{[]byte{0x01, 0x30, 0x01, 0x7A}, LockUnknownRaw},
		{[]byte{0x2A}, LockUnknownRaw}, // bare status byte, no TLV
	}

	for _, c := range cases {
		got := ExtractLockState(c.content)
		if got != c.want {
			t.Errorf("ExtractLockState(% X) = %v, want %v", c.content, got, c.want)
		}
	}
}

func TestExtractBattery(t *testing.T) {
	content := []byte{0x01, ParamBattery, 0x01, 77}
	pct, ok := ExtractBattery(content)
	if !ok || pct != 77 {
		t.Errorf("ExtractBattery = (%d, %v), want (77, true)", pct, ok)
	}

	if _, ok := ExtractBattery([]byte{0x2A}); ok {
		t.Error("expected ExtractBattery to report absent on malformed content")
	}
}

func TestFrameRejectsMissingHeader(t *testing.T) {
	_, _, err := ParseResponse(bytes.Repeat([]byte{0x00}, 11), nil)
	if err == nil {
		t.Fatal("expected error for missing header")
	}
}
