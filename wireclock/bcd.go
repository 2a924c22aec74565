// Package wireclock builds the time-derived fields both wire protocols
// embed in their frames: a 6-byte BCD timestamp, a 6-byte monotonic serial
// (G-Series encrypted envelopes), and a 4-byte anti-replay nonce. The
// serial counter is a SerialClock value guarded by a mutex, the same way
// nmxact/nmxutil.NextSeq() is a single package-level counter guarded by a
// mutex; a SerialClock can be built around a deterministic clock function.
// The G-Series codec always draws from the package-level
// DefaultSerialClock; no clock is injected into the codec.
package wireclock

import "time"

func bcdByte(v int) byte {
	return byte(((v / 10) << 4) | (v % 10))
}

// BCD6 encodes t as [YY MM DD hh mm ss], each field packed as one BCD
// byte. YY is the year modulo 100.
func BCD6(t time.Time) [6]byte {
	return [6]byte{
		bcdByte(t.Year() % 100),
		bcdByte(int(t.Month())),
		bcdByte(t.Day()),
		bcdByte(t.Hour()),
		bcdByte(t.Minute()),
		bcdByte(t.Second()),
	}
}

// NowBCD6 returns BCD6(time.Now()).
func NowBCD6() [6]byte {
	return BCD6(time.Now())
}
