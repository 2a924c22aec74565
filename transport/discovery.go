package transport

import "strings"

// standardServiceUUIDs are generic BLE services that never carry lock
// traffic; discovery must skip them even if they happen to expose a
// writable+notifiable characteristic.
var standardServiceUUIDs = map[string]bool{
	"00001800-0000-1000-8000-00805f9b34fb": true, // generic access
	"00001801-0000-1000-8000-00805f9b34fb": true, // generic attribute
	"0000180a-0000-1000-8000-00805f9b34fb": true, // device information
	"0000180f-0000-1000-8000-00805f9b34fb": true, // battery service
	"00001805-0000-1000-8000-00805f9b34fb": true, // current time
	"00001802-0000-1000-8000-00805f9b34fb": true, // immediate alert
	"0000fe59-0000-1000-8000-00805f9b34fb": true, // Nordic DFU
	"8ec90001-f315-4f60-9fb8-838830daea50": true, // legacy DFU
}

const nordicUARTPrefix = "6e400001"

// CharProps mirrors the subset of GATT characteristic properties discovery
// cares about.
type CharProps struct {
	UUID        GattID
	Write       bool
	WriteNoRsp  bool
	Notify      bool
	Indicate    bool
}

// ServiceCandidate is a discovered service and its characteristics, as a
// platform GATT layer would report them.
type ServiceCandidate struct {
	UUID  GattID
	Chars []CharProps
}

// SelectService picks the candidate most likely to be the lock's data
// service: it must have at least one write-capable and one notify-capable
// characteristic, standard/DFU services are skipped outright, and a Nordic
// UART service UUID wins ties.
func SelectService(candidates []ServiceCandidate) (Endpoints, bool) {
	var best Endpoints
	found := false
	bestScore := -1

	for _, c := range candidates {
		if standardServiceUUIDs[strings.ToLower(string(c.UUID))] {
			continue
		}

		writeChar, notifyChar, ok := pickChars(c.Chars)
		if !ok {
			continue
		}

		score := 0
		if strings.HasPrefix(strings.ToLower(string(c.UUID)), nordicUARTPrefix) {
			score = 100
		}

		if !found || score > bestScore {
			best = Endpoints{Service: c.UUID, WriteChar: writeChar, NotifyChar: notifyChar}
			bestScore = score
			found = true
		}
	}

	return best, found
}

func pickChars(chars []CharProps) (writeChar, notifyChar GattID, ok bool) {
	for _, c := range chars {
		if c.Write || c.WriteNoRsp {
			writeChar = c.UUID
		}
		if c.Notify || c.Indicate {
			notifyChar = c.UUID
		}
	}
	return writeChar, notifyChar, writeChar != "" && notifyChar != ""
}
