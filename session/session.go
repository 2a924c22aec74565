// Package session implements the per-connection state machine that drives
// a G-Series or TT-Series lock over a GATT transport: connect sequencing,
// command pipeline serialization, response correlation, retry/debounce
// policy and status polling. Grounded on nmxact/nmble/ble_sesn.go's
// connect-then-serve state machine and nmxact/mgmt/transceiver.go's
// pending-response correlation loop.
package session

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/WeyeTech/welockbridge/asyncutil"
	"github.com/WeyeTech/welockbridge/framing"
	"github.com/WeyeTech/welockbridge/lockdefs"
	"github.com/WeyeTech/welockbridge/lockerr"
	"github.com/WeyeTech/welockbridge/transport"
)

// reassembler is the subset of framing.GSeriesBuffer/TTSeriesBuffer the
// session needs.
type reassembler interface {
	Append(data []byte)
	Extract() [][]byte
}

// Session drives one connected device. Construct with New, then Connect
// before issuing commands. A Session is single-use: once Closed, construct
// a new one to reconnect.
type Session struct {
	transport transport.Transport
	variant   lockdefs.ProtocolVariant
	creds     lockdefs.Credentials
	cfg       Cfg
	codec     codec
	ttCodec   *ttSeriesCodec // non-nil only when variant == TTSeries

	buf reassembler
	ep  transport.Endpoints

	connState *asyncutil.LatestValue // lockdefs.ConnectionState
	lockState *asyncutil.LatestValue // lockdefs.LockState

	cmdLock *asyncutil.SingleResource
	pending *pendingSlot

	mtx                 sync.Mutex
	lastValidState      lockdefs.LockState
	lastValidAt         time.Time
	lastCommandAt       time.Time
	consecutiveFailures int
	detectedLockID      string
	lastBattery         int
	hasBattery          bool
	pollStopped         bool

	closeCh   chan struct{}
	closeOnce sync.Once
	pollDone  chan struct{}
}

// New constructs a Session for one device. now, if nil, defaults to
// time.Now (a fixed clock may be injected for TT-Series tests).
func New(xport transport.Transport, creds lockdefs.Credentials, cfg Cfg, now func() time.Time) (*Session, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	if now == nil {
		now = time.Now
	}

	s := &Session{
		transport: xport,
		variant:   creds.Variant,
		creds:     creds,
		cfg:       cfg,
		connState: asyncutil.NewLatestValue(lockdefs.Disconnected()),
		lockState: asyncutil.NewLatestValue(lockdefs.LockUnknown),
		cmdLock:   asyncutil.NewSingleResource(),
		pending:   &pendingSlot{},
		closeCh:   make(chan struct{}),
		detectedLockID: creds.LockID,
	}

	switch creds.Variant {
	case lockdefs.GSeries:
		s.codec = newGSeriesCodec(creds)
		s.buf = framing.NewGSeriesBuffer()
	case lockdefs.TTSeries:
		s.ttCodec = newTTSeriesCodec(creds, now)
		s.codec = s.ttCodec
		s.buf = framing.NewTTSeriesBuffer()
	default:
		return nil, lockerr.NewUnsupportedProtocolError("unrecognized protocol variant")
	}

	if s.cfg.PollInterval == 0 {
		s.cfg.PollInterval = s.codec.pollInterval()
	}
	if s.cfg.MinCommandInterval == 0 {
		s.cfg.MinCommandInterval = s.codec.minCommandInterval()
	}

	return s, nil
}

// ConnectionState returns a subscription that immediately yields the
// current state and every subsequent transition. The returned channel is
// closed when the session is Closed.
func (s *Session) ConnectionState() <-chan lockdefs.ConnectionState {
	return subscribeConnState(s.connState, s.closeCh)
}

// LockState returns a subscription that immediately yields the current
// state and every subsequent transition. The returned channel is closed
// when the session is Closed.
func (s *Session) LockState() <-chan lockdefs.LockState {
	return subscribeLockState(s.lockState, s.closeCh)
}

// Connect runs the connect sequence and, on success, starts the inbound
// dispatch loop and the status-polling task.
func (s *Session) Connect(ctx context.Context) error {
	if s.creds.ExpiredAt(time.Now(), s.cfg.CredentialValidityWindow) {
		return lockerr.NewInvalidCredentialsError("credentials expired")
	}

	s.connState.Publish(lockdefs.Connecting())

	discCtx, cancel := context.WithTimeout(ctx, s.cfg.DiscoveryTimeout)
	ep, err := s.transport.Connect(discCtx)
	cancel()
	if err != nil {
		s.connState.Publish(lockdefs.Errored(err.Error()))
		return lockerr.FmtConnectionFailedError("connect: %v", err)
	}
	s.ep = ep

	cccdCtx, cancel := context.WithTimeout(ctx, s.cfg.CccdTimeout)
	err = s.transport.EnableNotifications(cccdCtx, ep)
	cancel()
	if err != nil {
		s.connState.Publish(lockdefs.Errored(err.Error()))
		return lockerr.FmtConnectionFailedError("enable notifications: %v", err)
	}

	go s.inboundLoop()
	go s.connectionEventLoop()

	if s.ttCodec != nil {
		if frame, buildErr := s.ttCodec.buildCalibrateTime(); buildErr == nil {
			if _, err := s.sendCommand(ctx, frame); err != nil {
				log.Warnf("session: tt-series calibrate-time failed: %v", err)
			}
		}
	}

	var lastErr error
	for attempt := 0; attempt < s.cfg.InitialStatusRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(s.cfg.InitialStatusRetryDelay)
		}
		if _, lastErr = s.QueryLockStatus(ctx); lastErr == nil {
			break
		}
	}
	if lastErr != nil {
		log.Warnf("session: initial status query did not succeed after %d attempts: %v", s.cfg.InitialStatusRetries, lastErr)
	}

	s.pollDone = make(chan struct{})
	go s.pollLoop()

	s.connState.Publish(lockdefs.Connected())
	return nil
}

// Close stops polling, fails any pending command, and disconnects the
// transport. Idempotent.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.closeCh)
		s.cmdLock.Abort(lockerr.NewNotConnectedError("session closed"))
		s.transport.Disconnect()
		s.connState.Publish(lockdefs.Disconnected())
	})
}

// Lock commands the device to the locked state.
func (s *Session) Lock(ctx context.Context) (bool, error) {
	return s.lockUnlock(ctx, lockdefs.LockLocked, s.codec.buildLock)
}

// Unlock commands the device to the unlocked state.
func (s *Session) Unlock(ctx context.Context) (bool, error) {
	return s.lockUnlock(ctx, lockdefs.LockUnlocked, s.codec.buildUnlock)
}

func (s *Session) lockUnlock(ctx context.Context, commanded lockdefs.LockState, build func() ([]byte, error)) (bool, error) {
	frame, err := build()
	if err != nil {
		return false, err
	}

	pf, err := s.sendCommand(ctx, frame)
	if err != nil {
		return false, err
	}

	if pf.authFailed {
		return false, lockerr.NewAuthFailedError("wrong password")
	}

	if pf.verifyResult17 {
		time.Sleep(s.cfg.VerifyRetryDelay)
		queried, qerr := s.QueryLockStatus(ctx)
		if qerr != nil || queried != commanded {
			return false, lockerr.NewCommandFailedError("device did not confirm commanded state after result 0x11", nil)
		}
		s.publishLockState(commanded)
		return true, nil
	}

	if !pf.ok {
		return false, lockerr.NewCommandFailedError("device rejected command", nil)
	}

	s.publishLockState(commanded)
	if pf.alreadyInState {
		return false, nil
	}
	return true, nil
}

// QueryLockStatus queries the current lock state. On failure it falls back
// to the last valid cached state if observed within the last 30s.
func (s *Session) QueryLockStatus(ctx context.Context) (lockdefs.LockState, error) {
	frame, err := s.codec.buildQueryStatus()
	if err != nil {
		return s.cachedOrErr(err)
	}

	pf, err := s.sendCommand(ctx, frame)
	if err != nil {
		return s.cachedOrErr(err)
	}
	if pf.authFailed {
		return s.cachedOrErr(lockerr.NewAuthFailedError("wrong password"))
	}
	if !pf.ok || pf.lockState == lockdefs.LockUnknown {
		return s.cachedOrErr(lockerr.NewCommandFailedError("query did not return a lock state", nil))
	}

	if pf.hasBattery {
		s.mtx.Lock()
		s.lastBattery, s.hasBattery = pf.battery, true
		s.mtx.Unlock()
	}

	resolved := s.applyDebounce(pf.lockState)
	s.publishLockState(resolved)
	return resolved, nil
}

// applyDebounce implements the rule that an UNKNOWN reading within the
// debounce window after a successful command returns the commanded state
// instead.
func (s *Session) applyDebounce(observed lockdefs.LockState) lockdefs.LockState {
	if observed != lockdefs.LockUnknown {
		return observed
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()
	if !s.lastValidAt.IsZero() && time.Since(s.lastValidAt) < debounceWindow {
		return s.lastValidState
	}
	return observed
}

const debounceWindow = 2 * time.Second
const cacheValidityWindow = 30 * time.Second

func (s *Session) cachedOrErr(err error) (lockdefs.LockState, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if !s.lastValidAt.IsZero() && time.Since(s.lastValidAt) < cacheValidityWindow {
		return s.lastValidState, nil
	}
	return lockdefs.LockUnknown, err
}

func (s *Session) publishLockState(state lockdefs.LockState) {
	s.mtx.Lock()
	s.lastValidState = state
	s.lastValidAt = time.Now()
	s.mtx.Unlock()
	s.lockState.Publish(state)
}

// QueryDeviceStatus reports the last known lock state, battery level and
// connectivity in one snapshot.
func (s *Session) QueryDeviceStatus(ctx context.Context) (lockdefs.DeviceStatus, error) {
	lockState, err := s.QueryLockStatus(ctx)

	s.mtx.Lock()
	battery := lockdefs.NoBattery
	if s.hasBattery {
		battery = s.lastBattery
	}
	lastUpdated := s.lastValidAt
	s.mtx.Unlock()

	connState := s.connState.Get().(lockdefs.ConnectionState)

	status := lockdefs.DeviceStatus{
		Lock:             lockState,
		BatteryPercent:   battery,
		IsConnected:      connState.Kind == lockdefs.ConnConnected,
		RSSI:             s.transport.LastRSSI(),
		LastUpdatedEpoch: lastUpdated.UnixMilli(),
	}
	return status, err
}

// CalibrateTime, GetVersion, SetWorkMode, DetectedLockID and BatteryLevel
// are TT-Series-only operations.

func (s *Session) CalibrateTime(ctx context.Context) error {
	if s.ttCodec == nil {
		return lockerr.NewUnsupportedProtocolError("calibrate_time is tt-series only")
	}
	frame, err := s.ttCodec.buildCalibrateTime()
	if err != nil {
		return err
	}
	_, err = s.sendCommand(ctx, frame)
	return err
}

func (s *Session) GetVersion(ctx context.Context) (string, error) {
	if s.ttCodec == nil {
		return "", lockerr.NewUnsupportedProtocolError("get_version is tt-series only")
	}
	frame, err := s.ttCodec.buildCheckVersion()
	if err != nil {
		return "", err
	}
	pf, err := s.sendCommand(ctx, frame)
	if err != nil {
		return "", err
	}
	return pf.version, nil
}

func (s *Session) SetWorkMode(ctx context.Context, sleep bool) error {
	if s.ttCodec == nil {
		return lockerr.NewUnsupportedProtocolError("set_work_mode is tt-series only")
	}
	frame, err := s.ttCodec.buildSetWorkMode(sleep)
	if err != nil {
		return err
	}
	_, err = s.sendCommand(ctx, frame)
	return err
}

// DetectedLockID returns the lock-id from this session's credentials, or
// nil for a non-TT-Series session or when the credentials carry the
// auto-detect sentinel. The session does not learn a lock-id from the
// device or from an advertised name.
func (s *Session) DetectedLockID() *string {
	if s.variant != lockdefs.TTSeries || s.detectedLockID == "" || s.detectedLockID == lockdefs.AutoDetectLockID {
		return nil
	}
	id := s.detectedLockID
	return &id
}

// BatteryLevel returns the last-observed battery percentage, or nil if
// none has been observed yet.
func (s *Session) BatteryLevel() *uint8 {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if !s.hasBattery {
		return nil
	}
	v := uint8(s.lastBattery)
	return &v
}
