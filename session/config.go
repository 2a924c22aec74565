package session

import "time"

// Cfg holds the timing knobs the session engine uses, mirroring
// nmxact/sesn.SesnCfg's "one struct, sane defaults via NewCfg" shape.
type Cfg struct {
	// DiscoveryTimeout bounds GATT service discovery during connect.
	DiscoveryTimeout time.Duration

	// CccdTimeout bounds the CCCD descriptor-write completion wait.
	CccdTimeout time.Duration

	// CommandTimeout bounds how long a single command waits for its
	// correlated response.
	CommandTimeout time.Duration

	// MinCommandInterval is the minimum delay enforced between the end of
	// one command's response wait and the write of the next command. Left
	// at its zero value by NewCfg: the
	// protocol-specific default (TT-Series ~500ms, G-Series none) is
	// applied by session.New via the codec's minCommandInterval().
	MinCommandInterval time.Duration

	// InitialStatusRetries and InitialStatusRetryDelay govern the
	// connect-time status query used to populate initial state (up to a
	// few attempts, spaced apart).
	InitialStatusRetries    int
	InitialStatusRetryDelay time.Duration

	// PollInterval is the status-polling task's period; the zero value is
	// replaced with the protocol-appropriate default (G-Series 5s,
	// TT-Series 10s) by session.New via the codec's pollInterval().
	PollInterval time.Duration

	// VerifyRetryDelay is the settle delay before the verify-and-retry
	// re-query after a G-Series 0x11 result code.
	VerifyRetryDelay time.Duration

	// MaxConsecutiveFailures is how many consecutive parse/write failures
	// recordFailure tolerates before it stops the poll loop (commands
	// remain allowed; only background polling stops). Zero is replaced
	// with defaultMaxConsecutiveFailures rather than disabling the cap.
	MaxConsecutiveFailures int

	// CredentialValidityWindow, when non-zero, is passed to
	// Credentials.ExpiredAt before Connect proceeds.
	CredentialValidityWindow time.Duration
}

// NewCfg returns sensible default timings. pollInterval should be
// GSeriesPollInterval or TTSeriesPollInterval depending on the
// session's protocol variant.
func NewCfg(pollInterval time.Duration) Cfg {
	return Cfg{
		DiscoveryTimeout:        15 * time.Second,
		CccdTimeout:             3 * time.Second,
		CommandTimeout:          8 * time.Second,
		InitialStatusRetries:    3,
		InitialStatusRetryDelay: 1 * time.Second,
		PollInterval:            pollInterval,
		VerifyRetryDelay:        1 * time.Second,
		MaxConsecutiveFailures:  defaultMaxConsecutiveFailures,
	}
}

// defaultMaxConsecutiveFailures is the built-in poll-shutdown threshold
// used whenever Cfg.MaxConsecutiveFailures is left at its zero value.
const defaultMaxConsecutiveFailures = 5

// Default poll intervals per protocol.
const (
	GSeriesPollInterval  = 5 * time.Second
	TTSeriesPollInterval = 10 * time.Second
)
