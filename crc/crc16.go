// Package crc implements the three integrity checks the wire protocols use:
// CRC-16/CCITT-FALSE over G-Series encrypted-envelope content, CRC-8/MAXIM
// over TT-Series frames, and the single-byte SunCheck used by G-Series
// outer frames.
//
// nmxact/nmserial reaches for a small dedicated crc16 package
// (github.com/joaojeronimo/go-crc16) rather than hand-rolling the
// polynomial division; that package's Crc16 function implements the
// CCITT/XModem variant with a zero initial register, not the init=0xFFFF,
// no-reflection "CCITT-FALSE" variant this wire format requires. Silently
// wiring it would compute a checksum a real lock firmware rejects, so this
// file hand-rolls the bit-by-bit polynomial division instead (see DESIGN.md).
package crc

// CCITTFalse computes CRC-16/CCITT-FALSE (poly 0x1021, init 0xFFFF, no
// input/output reflection, no output XOR) over data. G-Series uses this
// over CONTENT only, inside the encrypted envelope.
func CCITTFalse(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = (crc << 1) ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
