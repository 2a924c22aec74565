// Package selector maps credentials and scanned-name hints to the
// protocol variant a session should speak, grounded on
// nmxact/nmble/ble_scanner.go's advertisement-report scan predicate
// pattern of matching against a discovered device's advertised data.
package selector

import (
	"regexp"
	"strings"

	"github.com/WeyeTech/welockbridge/lockdefs"
)

// ttLockIDNamePattern recognizes TT-Series devices whose advertised name
// IS their 8-digit lock-id.
var ttLockIDNamePattern = regexp.MustCompile(`^\d{8}$`)

// gSeriesNameHints are secondary signals only; an explicit non-auto-detect
// credential always wins over name inference.
var gSeriesNameHints = []string{"g4-", "g-lock", "gseries", "imz", "bander"}

// Confidence reports how strongly a Select result should be trusted.
type Confidence int

const (
	// Certain means an explicit, non-auto-detect credential decided the
	// variant; no name inference was needed.
	Certain Confidence = iota
	// Heuristic means a scanned-name hint decided the variant, because the
	// credential was ambiguous (TT-Series auto-detect sentinel).
	Heuristic
)

func (c Confidence) String() string {
	if c == Certain {
		return "certain"
	}
	return "heuristic"
}

// Select picks the protocol variant a session should use for creds,
// consulting advertisedName only when creds itself is ambiguous (the
// TT-Series auto-detect sentinel lock-id).
func Select(creds lockdefs.Credentials, advertisedName string) (lockdefs.ProtocolVariant, Confidence) {
	if creds.Variant == lockdefs.GSeries || !creds.IsAutoDetect() {
		return creds.Variant, Certain
	}

	if ttLockIDNamePattern.MatchString(advertisedName) {
		return lockdefs.TTSeries, Heuristic
	}

	lower := strings.ToLower(advertisedName)
	for _, hint := range gSeriesNameHints {
		if strings.Contains(lower, hint) {
			return lockdefs.GSeries, Heuristic
		}
	}

	// No hint matched; fall back to the credential's declared variant
	// (still TT-Series, since that's the only variant with an auto-detect
	// sentinel) rather than guessing.
	return creds.Variant, Heuristic
}

// DetectedLockID extracts the lock-id from advertisedName when it matches
// the TT-Series convention, for callers that want to populate
// Credentials.LockID after auto-detection.
func DetectedLockID(advertisedName string) (string, bool) {
	if ttLockIDNamePattern.MatchString(advertisedName) {
		return advertisedName, true
	}
	return "", false
}
