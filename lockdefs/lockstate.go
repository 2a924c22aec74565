// Package lockdefs holds the domain types shared across codecs, transport
// and session: lock/connection state enums, device status snapshots,
// protocol variants and credentials. The enum-plus-string-map shape below
// (type, iota const block, name map, String method, JSON marshalling)
// mirrors nmxact/bledefs.go's treatment of BleAddrType and its peers.
package lockdefs

import (
	"encoding/json"
	"fmt"
)

// LockState is a session's observable notion of the physical lock.
type LockState int

const (
	LockUnknown LockState = iota
	LockLocked
	LockUnlocked
)

var lockStateNames = map[LockState]string{
	LockUnknown:  "unknown",
	LockLocked:   "locked",
	LockUnlocked: "unlocked",
}

func (s LockState) String() string {
	if name, ok := lockStateNames[s]; ok {
		return name
	}
	return "???"
}

func (s LockState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *LockState) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for state, n := range lockStateNames {
		if n == name {
			*s = state
			return nil
		}
	}
	return fmt.Errorf("lockdefs: invalid LockState string: %s", name)
}
