package framing

import (
	log "github.com/sirupsen/logrus"

	"github.com/WeyeTech/welockbridge/ttseries"
)

// TTSeriesBuffer reassembles TT-Series frames: ENC and LEN at the front of
// the buffer determine the expected total frame length; an invalid ENC
// value forces a full resync.
type TTSeriesBuffer struct {
	buf []byte
}

func NewTTSeriesBuffer() *TTSeriesBuffer {
	return &TTSeriesBuffer{}
}

func (b *TTSeriesBuffer) Append(data []byte) {
	b.buf = append(b.buf, data...)
}

func (b *TTSeriesBuffer) Extract() [][]byte {
	var frames [][]byte
	for {
		frame := b.extractOne()
		if frame == nil {
			return frames
		}
		frames = append(frames, frame)
	}
}

func (b *TTSeriesBuffer) extractOne() []byte {
	if len(b.buf) < 2 {
		return nil
	}

	enc := b.buf[0]
	businessLen := int(b.buf[1])

	var onWireLen int
	switch enc {
	case ttseries.EncPlain:
		onWireLen = businessLen
	case ttseries.EncAES:
		onWireLen = ((businessLen + 15) / 16) * 16
	default:
		log.Warnf("framing: tt-series buffer resync, bad ENC byte 0x%02X", enc)
		b.buf = nil
		return nil
	}

	want := 2 + onWireLen + 1
	if len(b.buf) < want {
		return nil
	}

	frame := clone(b.buf[:want])
	b.buf = b.buf[want:]
	return frame
}
