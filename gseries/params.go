package gseries

// buildParamTLV encodes a single-parameter TLV list prefixed by a 1-byte
// parameter count: [count=1][id][len][value...].
func buildParamTLV(id byte, value []byte) []byte {
	out := make([]byte, 0, 3+len(value))
	out = append(out, 0x01, id, byte(len(value)))
	out = append(out, value...)
	return out
}

// tlvParam is one decoded [id][len][value] entry.
type tlvParam struct {
	id    byte
	value []byte
}

// walkParams reads content as [count][id][len][value]... (the same shape
// buildParamTLV writes). It tolerates a missing count byte: some queries
// return a single raw status byte with no TLV structure at all, which
// this simply fails to find any parameter in rather than
// erroring — extract_lock_state / extract_battery both rely on that to
// degrade to "not found" instead of aborting on malformed input.
func walkParams(content []byte) []tlvParam {
	if len(content) < 1 {
		return nil
	}

	count := int(content[0])
	off := 1
	var params []tlvParam
	for i := 0; i < count && off < len(content); i++ {
		if off+2 > len(content) {
			break
		}
		id := content[off]
		l := int(content[off+1])
		off += 2
		if off+l > len(content) {
			break
		}
		params = append(params, tlvParam{id: id, value: content[off : off+l]})
		off += l
	}
	return params
}

// ExtractLockState walks the parameter TLV list for LOCK_STATE (0x30) and
// classifies it. Content with no recognizable parameter list (e.g. a bare
// one-byte status query response) yields LockUnknownRaw.
func ExtractLockState(content []byte) LockClassification {
	for _, p := range walkParams(content) {
		if p.id == ParamLockState && len(p.value) > 0 {
			return classifyLockStateValue(p.value[0])
		}
	}
	return LockUnknownRaw
}

// LockClassification is ExtractLockState's result before it is mapped onto
// the shared lockdefs.LockState enum by the session layer.
type LockClassification int

const (
	LockUnknownRaw LockClassification = iota
	LockLockedRaw
	LockUnlockedRaw
)

func classifyLockStateValue(v byte) LockClassification {
	switch v {
	case lockStateValUnlockedA, lockStateValUnlockedB:
		return LockUnlockedRaw
	case lockStateValLockedA, lockStateValLockedB:
		return LockLockedRaw
	default:
		return LockUnknownRaw
	}
}

// ExtractBattery walks the parameter TLV list for PARAM_BATTERY (0x94).
// Returns (percent, true) on success, (0, false) if absent or malformed.
func ExtractBattery(content []byte) (int, bool) {
	for _, p := range walkParams(content) {
		if p.id == ParamBattery && len(p.value) > 0 {
			return int(p.value[0]), true
		}
	}
	return 0, false
}
