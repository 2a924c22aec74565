package lockdefs

import (
	"regexp"
	"time"

	"github.com/WeyeTech/welockbridge/lockerr"
)

// ProtocolVariant tags which wire protocol a Credentials value speaks.
type ProtocolVariant int

const (
	GSeries ProtocolVariant = iota
	TTSeries
)

var protocolVariantNames = map[ProtocolVariant]string{
	GSeries:  "g_series",
	TTSeries: "tt_series",
}

func (v ProtocolVariant) String() string {
	if name, ok := protocolVariantNames[v]; ok {
		return name
	}
	return "???"
}

// AutoDetectLockID is the TT-Series sentinel meaning "the caller doesn't
// know the lock-id yet; detect it from the advertised name".
const AutoDetectLockID = "00000000"

var ttLockIDPattern = regexp.MustCompile(`^\d{8}$`)

// Credentials is an immutable per-device credential bundle. Only the
// fields relevant to its Variant are meaningful; a G-Series credential's
// LockID/Password (TT-Series fields) are simply unused, mirroring the
// "tagged union carried as a plain struct" shape.
type Credentials struct {
	Variant ProtocolVariant

	// G-Series fields.
	AESKey       []byte // required, 16 bytes
	AuthPassword string // optional, 4-16 chars

	// TT-Series fields.
	LockID       string // 8 decimal digits, or AutoDetectLockID
	TTPassword   string // 1-6 digits
	TTAESKey     []byte // optional, 16 bytes

	CreatedAt time.Time
}

// NewGSeriesCredentials builds a G-Series credential bundle. password may
// be empty.
func NewGSeriesCredentials(aesKey []byte, password string, createdAt time.Time) Credentials {
	return Credentials{
		Variant:      GSeries,
		AESKey:       aesKey,
		AuthPassword: password,
		CreatedAt:    createdAt,
	}
}

// NewTTSeriesCredentials builds a TT-Series credential bundle. lockID may
// be AutoDetectLockID. aesKey may be nil (plain frames only).
func NewTTSeriesCredentials(lockID, password string, aesKey []byte, createdAt time.Time) Credentials {
	return Credentials{
		Variant:    TTSeries,
		LockID:     lockID,
		TTPassword: password,
		TTAESKey:   aesKey,
		CreatedAt:  createdAt,
	}
}

// Validate applies the static shape checks for each variant, independent
// of any validity-window check (see ExpiredAt).
func (c Credentials) Validate() error {
	switch c.Variant {
	case GSeries:
		if len(c.AESKey) != 16 {
			return lockerr.FmtInvalidCredentialsError("g-series credentials require a 16-byte AES key, got %d", len(c.AESKey))
		}
		if c.AuthPassword != "" && (len(c.AuthPassword) < 4 || len(c.AuthPassword) > 16) {
			return lockerr.FmtInvalidCredentialsError("g-series password must be 4-16 characters, got %d", len(c.AuthPassword))
		}
	case TTSeries:
		if c.LockID != AutoDetectLockID && !ttLockIDPattern.MatchString(c.LockID) {
			return lockerr.FmtInvalidCredentialsError("tt-series lock-id must be 8 decimal digits or the auto-detect sentinel, got %q", c.LockID)
		}
		if len(c.TTPassword) < 1 || len(c.TTPassword) > 6 {
			return lockerr.FmtInvalidCredentialsError("tt-series password must be 1-6 digits, got %d", len(c.TTPassword))
		}
		if c.TTAESKey != nil && len(c.TTAESKey) != 16 {
			return lockerr.FmtInvalidCredentialsError("tt-series AES key must be 16 bytes when present, got %d", len(c.TTAESKey))
		}
	default:
		return lockerr.FmtInvalidCredentialsError("unrecognized protocol variant %d", c.Variant)
	}
	return nil
}

// IsAutoDetect reports whether a TT-Series credential defers lock-id
// detection to the advertised name: an explicit lock-id always wins over
// name inference, so callers should check this before trusting a scanned
// hint.
func (c Credentials) IsAutoDetect() bool {
	return c.Variant == TTSeries && c.LockID == AutoDetectLockID
}

// ExpiredAt reports whether the credentials are older than window,
// evaluated at now. A zero window means "no expiry enforced."
func (c Credentials) ExpiredAt(now time.Time, window time.Duration) bool {
	if window <= 0 || c.CreatedAt.IsZero() {
		return false
	}
	return now.Sub(c.CreatedAt) > window
}
