package ttseries

import "strings"

// AlarmFlags is the low-nibble bitset carried by a LockStatus byte whose
// class is StatusAlarm.
type AlarmFlags byte

func (f AlarmFlags) RodCut() bool    { return f&AlarmRodCut != 0 }
func (f AlarmFlags) Opened() bool    { return f&AlarmOpened != 0 }
func (f AlarmFlags) Shell() bool     { return f&AlarmShell != 0 }
func (f AlarmFlags) Emergency() bool { return f&AlarmEmergency != 0 }

// Strings renders the set flags as human-readable names, for diagnostic
// log lines.
func (f AlarmFlags) Strings() []string {
	var names []string
	if f.RodCut() {
		names = append(names, "rod_cut")
	}
	if f.Opened() {
		names = append(names, "opened")
	}
	if f.Shell() {
		names = append(names, "shell")
	}
	if f.Emergency() {
		names = append(names, "emergency")
	}
	return names
}

func (f AlarmFlags) String() string {
	if names := f.Strings(); len(names) > 0 {
		return strings.Join(names, "|")
	}
	return "none"
}

// LockStatusClass is a decoded LockStatus high nibble.
type LockStatusClass int

const (
	ClassUnknown LockStatusClass = iota
	ClassOpen
	ClassStandby
	ClassNotReady
	ClassSealed
	ClassLocalSealed
	ClassUnsealed
	ClassAlarm
	ClassCancelAlarm
	ClassAbnormal
)

// InterpretedStatus is the decomposition of a raw LockStatus byte.
type InterpretedStatus struct {
	Class LockStatusClass
	Alarm AlarmFlags // only meaningful when Class == ClassAlarm
}

// InterpretStatus decodes a raw LockStatus byte: the high nibble selects
// a status class, and the low nibble is an alarm bitset only when the
// class is ClassAlarm.
func InterpretStatus(raw byte) InterpretedStatus {
	class := classifyHighNibble(raw & 0xF0)
	s := InterpretedStatus{Class: class}
	if class == ClassAlarm {
		s.Alarm = AlarmFlags(raw & 0x0F)
	}
	return s
}

func classifyHighNibble(hi byte) LockStatusClass {
	switch hi {
	case StatusOpen:
		return ClassOpen
	case StatusStandby:
		return ClassStandby
	case StatusNotReady:
		return ClassNotReady
	case StatusSealed:
		return ClassSealed
	case StatusLocalSealed:
		return ClassLocalSealed
	case StatusUnsealed:
		return ClassUnsealed
	case StatusAlarm:
		return ClassAlarm
	case StatusCancelAlarm:
		return ClassCancelAlarm
	case StatusAbnormal:
		return ClassAbnormal
	default:
		return ClassUnknown
	}
}
