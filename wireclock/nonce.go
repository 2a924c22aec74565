package wireclock

import "math/rand"

// Nonce4 returns a 4-byte anti-replay token. This is padding against
// frame replay, not cryptographic randomness, so a process-local
// math/rand source is sufficient — the same judgment call
// nmxact/nmxutil.NextSeq() makes for its sequence numbers.
func Nonce4() [4]byte {
	var n [4]byte
	rand.Read(n[:])
	return n
}
