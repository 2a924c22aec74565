package lockdefs

// NoBattery is the sentinel BatteryPercent value meaning "unknown", since
// battery is batteryPercent ∈ [0,100] ∪ {unknown} and Go has no natural
// optional-int literal.
const NoBattery = -1

// DeviceStatus is a point-in-time snapshot of a session's peer.
type DeviceStatus struct {
	Lock             LockState
	BatteryPercent   int // 0-100, or NoBattery
	IsConnected      bool
	RSSI             int16
	LastUpdatedEpoch int64 // milliseconds since Unix epoch
}

func (d DeviceStatus) HasBattery() bool {
	return d.BatteryPercent >= 0 && d.BatteryPercent <= 100
}
