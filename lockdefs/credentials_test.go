package lockdefs

import (
	"testing"
	"time"
)

func TestGSeriesValidateRejectsBadKeyLength(t *testing.T) {
	c := NewGSeriesCredentials([]byte("short"), "", time.Now())
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for short AES key")
	}
}

func TestGSeriesValidateAcceptsGoodKey(t *testing.T) {
	c := NewGSeriesCredentials([]byte("1234567890123456"), "pass1234", time.Now())
	if err := c.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTTSeriesAutoDetect(t *testing.T) {
	c := NewTTSeriesCredentials(AutoDetectLockID, "1234", nil, time.Now())
	if err := c.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.IsAutoDetect() {
		t.Error("expected IsAutoDetect() == true for sentinel lock-id")
	}
}

func TestTTSeriesRejectsMalformedLockID(t *testing.T) {
	c := NewTTSeriesCredentials("abc", "1234", nil, time.Now())
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for malformed lock-id")
	}
}

func TestExpiredAt(t *testing.T) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewGSeriesCredentials([]byte("1234567890123456"), "", created)

	now := created.Add(2 * time.Hour)
	if c.ExpiredAt(now, time.Hour) != true {
		t.Error("expected credentials to be expired after window elapsed")
	}
	if c.ExpiredAt(now, 3*time.Hour) != false {
		t.Error("expected credentials to still be valid within window")
	}
	if c.ExpiredAt(now, 0) != false {
		t.Error("expected zero window to disable expiry checking")
	}
}
