package session

import (
	"time"

	"github.com/WeyeTech/welockbridge/lockdefs"
)

// parsedFrame is what a codec extracts from a single reassembled frame,
// normalized so the engine (session.go) never branches on protocol.
type parsedFrame struct {
	// async is true for TT-Series unsolicited messages (heartbeat, alarm);
	// these never satisfy the pending-response promise.
	async bool

	// ok reports whether the device-level outcome was a success. For a
	// G-Series short ACK or set-params response this is the ack/result
	// code; for TT-Series it's derived from the response-code table.
	ok bool

	// authFailed is set when the response indicates a wrong password
	// (TT-Series UNLOCK_WRONG_PASSWORD).
	authFailed bool

	// verifyResult17 is set for G-Series result code 0x11: "possibly
	// succeeded", the caller must re-query to confirm.
	verifyResult17 bool

	// alreadyInState is set when the device reports an idempotent re-apply
	// of the commanded lock/unlock state (TT-Series RspLockAgain/
	// RspUnlockAgain) rather than a fresh transition.
	alreadyInState bool

	// lockState is the LockState implied by this frame, or LockUnknown if
	// the frame carries no lock-state information.
	lockState lockdefs.LockState

	// battery is the battery percentage carried by this frame, if any.
	battery    int
	hasBattery bool

	// version is set only for TT-Series CHECK_VERSION replies. Left empty
	// otherwise.
	version string
}

// codec abstracts the two wire protocols behind one interface so the
// session engine's connect/command/poll logic is written once. Concrete
// implementations wrap the gseries/ttseries packages.
type codec interface {
	buildLock() ([]byte, error)
	buildUnlock() ([]byte, error)
	buildQueryStatus() ([]byte, error)

	// parse decodes a single already-extracted frame. err is non-nil only
	// for malformed frames; parse failures increment the failure counter,
	// they don't propagate as command errors directly.
	parse(frame []byte) (parsedFrame, error)

	// asyncReply builds a reply frame for an async frame the engine should
	// send back (TT-Series heartbeat ack), or returns ok=false if none is
	// needed.
	asyncReply(frame []byte) (reply []byte, ok bool)

	// pollInterval and minCommandInterval let each protocol pick its own
	// pacing defaults.
	pollInterval() time.Duration
	minCommandInterval() time.Duration
}
