package session

import (
	"context"
	"testing"
	"time"

	"github.com/WeyeTech/welockbridge/gseries"
	"github.com/WeyeTech/welockbridge/lockdefs"
	"github.com/WeyeTech/welockbridge/ttseries"
)

var testGSeriesKey = []byte("1234567890123456")

func testCfg() Cfg {
	cfg := NewCfg(50 * time.Millisecond)
	cfg.CommandTimeout = 2 * time.Second
	cfg.InitialStatusRetries = 1
	cfg.InitialStatusRetryDelay = 10 * time.Millisecond
	cfg.VerifyRetryDelay = 10 * time.Millisecond
	cfg.MinCommandInterval = 0
	return cfg
}

func TestGSeriesConnectAndLock(t *testing.T) {
	ft := newFakeTransport()
	ft.queueResponse(buildGSeriesQueryLockedResponse(testGSeriesKey)) // connect's initial query
	ft.queueResponse(buildGSeriesAckResponse(gseries.ResultSuccess, testGSeriesKey)) // Lock() ack

	creds := lockdefs.NewGSeriesCredentials(testGSeriesKey, "", time.Now())
	s, err := New(ft, creds, testCfg(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := s.Connect(ctx); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	ok, err := s.Lock(ctx)
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}
	if !ok {
		t.Error("Lock() = false, want true")
	}

	if got := <-s.LockState(); got != lockdefs.LockLocked {
		t.Errorf("LockState = %v, want LockLocked", got)
	}
}

func TestGSeriesVerifyAndRetryOnResult17(t *testing.T) {
	ft := newFakeTransport()
	ft.queueResponse(buildGSeriesQueryLockedResponse(testGSeriesKey)) // connect's initial query
	ft.queueResponse(buildGSeriesAckResponse(gseries.ResultMaybeSucceeded, testGSeriesKey)) // Lock() ack: 0x11
	ft.queueResponse(buildGSeriesQueryLockedResponse(testGSeriesKey)) // verify re-query confirms LOCKED

	creds := lockdefs.NewGSeriesCredentials(testGSeriesKey, "", time.Now())
	s, err := New(ft, creds, testCfg(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := s.Connect(ctx); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	ok, err := s.Lock(ctx)
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}
	if !ok {
		t.Error("Lock() = false, want true after 0x11 verify-and-retry confirms LOCKED")
	}
}

func TestGSeriesCommandTimeout(t *testing.T) {
	ft := newFakeTransport()
	ft.queueResponse(buildGSeriesQueryLockedResponse(testGSeriesKey)) // connect's initial query
	// No response queued for the Lock() call: it must time out.

	creds := lockdefs.NewGSeriesCredentials(testGSeriesKey, "", time.Now())
	cfg := testCfg()
	cfg.CommandTimeout = 100 * time.Millisecond
	s, err := New(ft, creds, cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := s.Connect(ctx); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	_, err = s.Lock(ctx)
	if err == nil {
		t.Fatal("expected a timeout error")
	}
}

func fixedNow() time.Time {
	return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
}

func buildTTLockReply(code byte, lockID string, battery, status byte) []byte {
	idBytes, err := ttseries.EncodeLockID(lockID)
	if err != nil {
		panic(err)
	}
	business := []byte{code, idBytes[0], idBytes[1], idBytes[2], idBytes[3], battery, status, 0x00, 0x00, 0, 0, 0, 0, 0, 0}
	frame, err := ttseries.BuildPlain(business)
	if err != nil {
		panic(err)
	}
	return frame
}

func TestTTSeriesConnectAndLock(t *testing.T) {
	ft := newFakeTransport()
	ft.queueResponse(buildTTCalibrateAck())                                                            // calibrate-time ack
	ft.queueResponse(buildTTLockReply(ttseries.RspCheckOK, "83181001", 80, ttseries.StatusSealed))     // connect's initial query
	ft.queueResponse(buildTTLockReply(ttseries.RspLockSuccess, "83181001", 80, ttseries.StatusSealed)) // Lock() reply

	creds := lockdefs.NewTTSeriesCredentials("83181001", "123456", nil, time.Now())
	s, err := New(ft, creds, testCfg(), fixedNow)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.Connect(ctx); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	ok, err := s.Lock(ctx)
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}
	if !ok {
		t.Error("Lock() = false, want true")
	}
}

func buildTTCalibrateAck() []byte {
	frame, err := ttseries.BuildPlain([]byte{ttseries.CmdCalibrateTime, 0x00})
	if err != nil {
		panic(err)
	}
	return frame
}

func TestTTSeriesHeartbeatTriggersReply(t *testing.T) {
	ft := newFakeTransport()
	ft.queueResponse(buildTTCalibrateAck())
	ft.queueResponse(buildTTLockReply(ttseries.RspCheckOK, "83181001", 80, ttseries.StatusSealed)) // connect's initial query

	creds := lockdefs.NewTTSeriesCredentials("83181001", "123456", nil, time.Now())
	s, err := New(ft, creds, testCfg(), fixedNow)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.Connect(ctx); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	before := ft.writeCount()

	idBytes, _ := ttseries.EncodeLockID("83181001")
	heartbeat, err := ttseries.BuildPlain([]byte{ttseries.MsgHeartbeat, idBytes[0], idBytes[1], idBytes[2], idBytes[3], 0, 0, 0, 0, 0, 0})
	if err != nil {
		t.Fatalf("BuildPlain: %v", err)
	}
	ft.deliver(heartbeat)

	// Polling also writes frames, so look for a HEARTBEAT reply among the
	// writes made after the heartbeat rather than for any write at all.
	sawReply := func() bool {
		ft.mu.Lock()
		defer ft.mu.Unlock()
		for _, w := range ft.written[before:] {
			if resp, err := ttseries.ParseResponse(w, nil); err == nil && resp.Business[0] == ttseries.MsgHeartbeat {
				return true
			}
		}
		return false
	}

	deadline := time.Now().Add(2 * time.Second)
	for !sawReply() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	if !sawReply() {
		t.Fatal("expected a heartbeat reply to be written")
	}
}

func TestApplyDebounceReturnsCommandedStateWithinWindow(t *testing.T) {
	ft := newFakeTransport()
	creds := lockdefs.NewGSeriesCredentials(testGSeriesKey, "", time.Now())
	s, err := New(ft, creds, testCfg(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	s.publishLockState(lockdefs.LockLocked)

	got := s.applyDebounce(lockdefs.LockUnknown)
	if got != lockdefs.LockLocked {
		t.Errorf("applyDebounce = %v, want LockLocked within debounce window", got)
	}
}

func TestApplyDebounceExpiresAfterWindow(t *testing.T) {
	ft := newFakeTransport()
	creds := lockdefs.NewGSeriesCredentials(testGSeriesKey, "", time.Now())
	s, err := New(ft, creds, testCfg(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	s.mtx.Lock()
	s.lastValidState = lockdefs.LockLocked
	s.lastValidAt = time.Now().Add(-3 * time.Second)
	s.mtx.Unlock()

	got := s.applyDebounce(lockdefs.LockUnknown)
	if got != lockdefs.LockUnknown {
		t.Errorf("applyDebounce = %v, want LockUnknown once the window has passed", got)
	}
}
