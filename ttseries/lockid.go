package ttseries

import (
	"encoding/binary"

	"github.com/spf13/cast"

	"github.com/WeyeTech/welockbridge/lockerr"
)

const passwordLen = 6

// EncodeLockID converts an 8-digit decimal lock-id string into its 4-byte
// wire form: the high 4 digits as a big-endian uint16, followed by the low
// 4 digits as a big-endian uint16.
func EncodeLockID(lockID string) ([4]byte, error) {
	var out [4]byte
	if len(lockID) != 8 {
		return out, lockerr.FmtDecodingError("tt-series lock-id must be 8 digits, got %q", lockID)
	}

	high, err := cast.ToIntE(lockID[:4])
	if err != nil {
		return out, lockerr.FmtDecodingError("tt-series lock-id high digits invalid: %v", err)
	}
	low, err := cast.ToIntE(lockID[4:])
	if err != nil {
		return out, lockerr.FmtDecodingError("tt-series lock-id low digits invalid: %v", err)
	}

	binary.BigEndian.PutUint16(out[0:2], uint16(high))
	binary.BigEndian.PutUint16(out[2:4], uint16(low))
	return out, nil
}

// DecodeLockID is the inverse of EncodeLockID, rendering the 4-byte wire
// form back into an 8-digit decimal string (zero-padded per half).
func DecodeLockID(b [4]byte) string {
	high := binary.BigEndian.Uint16(b[0:2])
	low := binary.BigEndian.Uint16(b[2:4])
	return padDigits(int(high), 4) + padDigits(int(low), 4)
}

func padDigits(v int, width int) string {
	s := cast.ToString(v)
	for len(s) < width {
		s = "0" + s
	}
	return s
}

// EncodePassword renders password as exactly 6 ASCII bytes, right-padded
// with '0' when shorter.
func EncodePassword(password string) [passwordLen]byte {
	var out [passwordLen]byte
	copy(out[:], password)
	for i := len(password); i < passwordLen; i++ {
		out[i] = '0'
	}
	return out
}
