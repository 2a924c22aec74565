// Package framing implements the per-protocol reassembly buffers that
// recover whole frames from arbitrarily fragmented GATT notification
// bursts. Both buffers are append-only byte queues, grounded on
// nmxact/nmp/frag.go's Reassembler: keep accumulating fragments, and only
// slice a complete frame off the front once one is fully present.
package framing

import "github.com/WeyeTech/welockbridge/gseries"

// GSeriesBuffer reassembles G-Series frames: a leading 3-byte short ACK is
// emitted immediately, otherwise the buffer scans for
// RESPONSE_HEADER..RESPONSE_TAIL and discards anything before the header.
type GSeriesBuffer struct {
	buf []byte
}

func NewGSeriesBuffer() *GSeriesBuffer {
	return &GSeriesBuffer{}
}

// Append adds newly-received notification bytes to the buffer.
func (b *GSeriesBuffer) Append(data []byte) {
	b.buf = append(b.buf, data...)
}

// Extract removes and returns every complete frame currently available, in
// arrival order. Any residual partial frame remains buffered for the next
// Append.
func (b *GSeriesBuffer) Extract() [][]byte {
	var frames [][]byte
	for {
		frame := b.extractOne()
		if frame == nil {
			return frames
		}
		frames = append(frames, frame)
	}
}

func (b *GSeriesBuffer) extractOne() []byte {
	if len(b.buf) >= gseries.ShortAckLen &&
		b.buf[0] == gseries.ShortAckByte0 && b.buf[1] == gseries.ShortAckByte1 {
		frame := clone(b.buf[:gseries.ShortAckLen])
		b.buf = b.buf[gseries.ShortAckLen:]
		return frame
	}

	headerIdx := indexOfPair(b.buf, gseries.RspHeaderByte0, gseries.RspHeaderByte1)
	if headerIdx < 0 {
		return nil
	}
	if headerIdx > 0 {
		// Bytes before the header are junk; discard them.
		b.buf = b.buf[headerIdx:]
	}

	tailIdx := indexOfPairFrom(b.buf, 2, gseries.RspTailByte0, gseries.RspTailByte1)
	if tailIdx < 0 {
		return nil
	}

	end := tailIdx + 2
	frame := clone(b.buf[:end])
	b.buf = b.buf[end:]
	return frame
}

func indexOfPair(data []byte, b0, b1 byte) int {
	return indexOfPairFrom(data, 0, b0, b1)
}

func indexOfPairFrom(data []byte, from int, b0, b1 byte) int {
	for i := from; i+1 < len(data); i++ {
		if data[i] == b0 && data[i+1] == b1 {
			return i
		}
	}
	return -1
}

func clone(data []byte) []byte {
	out := make([]byte, len(data))
	copy(out, data)
	return out
}
