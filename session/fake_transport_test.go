package session

import (
	"context"
	"encoding/binary"
	"sync"

	"github.com/WeyeTech/welockbridge/aescrypto"
	"github.com/WeyeTech/welockbridge/crc"
	"github.com/WeyeTech/welockbridge/gseries"
	"github.com/WeyeTech/welockbridge/transport"
	"github.com/WeyeTech/welockbridge/wireclock"
)

// fakeTransport is an in-memory stand-in for a real GATT transport: Write
// calls are recorded, and responses are delivered by pushing pre-built
// frames onto inbound directly (either queued per-Write, or injected
// out-of-band to simulate unsolicited device traffic).
type fakeTransport struct {
	mu        sync.Mutex
	written   [][]byte
	responses [][]byte // consumed one per Write call, in order
	inbound   chan []byte
	events    chan transport.ConnectionEvent
}

var _ transport.Transport = (*fakeTransport)(nil)

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		inbound: make(chan []byte, 32),
		events:  make(chan transport.ConnectionEvent, 4),
	}
}

func (f *fakeTransport) Connect(ctx context.Context) (transport.Endpoints, error) {
	return transport.Endpoints{Service: "svc", WriteChar: "w", NotifyChar: "n"}, nil
}

func (f *fakeTransport) EnableNotifications(ctx context.Context, ep transport.Endpoints) error {
	return nil
}

func (f *fakeTransport) Write(ctx context.Context, ep transport.Endpoints, data []byte, withResponse bool) error {
	f.mu.Lock()
	cp := append([]byte(nil), data...)
	f.written = append(f.written, cp)

	var resp []byte
	if len(f.responses) > 0 {
		resp = f.responses[0]
		f.responses = f.responses[1:]
	}
	f.mu.Unlock()

	if resp != nil {
		f.inbound <- resp
	}
	return nil
}

func (f *fakeTransport) Inbound() <-chan []byte { return f.inbound }

func (f *fakeTransport) ConnectionEvents() <-chan transport.ConnectionEvent { return f.events }

func (f *fakeTransport) Disconnect() {}

func (f *fakeTransport) LastRSSI() int16 { return 0 }

func (f *fakeTransport) queueResponse(frame []byte) {
	f.mu.Lock()
	f.responses = append(f.responses, frame)
	f.mu.Unlock()
}

func (f *fakeTransport) deliver(frame []byte) {
	f.inbound <- frame
}

func (f *fakeTransport) writeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.written)
}

// buildGSeriesFullResponse constructs a full G-Series encrypted response
// frame with the response header/tail, mirroring gseries.buildFrameWithBodyAndLen's
// internal shape (that helper is unexported, so tests reconstruct it from
// the package's exported primitives).
func buildGSeriesFullResponse(content []byte, key []byte) []byte {
	checksum := crc.CCITTFalse(content)
	serial := wireclock.DefaultSerialClock.Next()
	nonce := wireclock.Nonce4()

	inner := make([]byte, 0, 2+6+4+len(content))
	inner = binary.BigEndian.AppendUint16(inner, checksum)
	inner = append(inner, serial[:]...)
	inner = append(inner, nonce[:]...)
	inner = append(inner, content...)

	body, err := aescrypto.EncryptECB(key, inner)
	if err != nil {
		panic(err)
	}

	frame := make([]byte, 0, 2+2+2+2+len(body)+1+2)
	frame = append(frame, gseries.RspHeaderByte0, gseries.RspHeaderByte1)
	frame = binary.BigEndian.AppendUint16(frame, 0xFFEE) // commEncrypted
	frame = binary.BigEndian.AppendUint16(frame, gseries.CmdSetParams)
	frame = binary.BigEndian.AppendUint16(frame, uint16(len(inner)))
	frame = append(frame, body...)
	frame = append(frame, crc.SunCheck(frame[2:]))
	frame = append(frame, gseries.RspTailByte0, gseries.RspTailByte1)
	return frame
}

func buildGSeriesQueryLockedResponse(key []byte) []byte {
	// [count=1][0x30][len=1][0x31] -> LOCKED
	content := []byte{0x01, gseries.ParamLockState, 0x01, 0x31}
	return buildGSeriesFullResponse(content, key)
}

func buildGSeriesAckResponse(resultCode byte, key []byte) []byte {
	return buildGSeriesFullResponse([]byte{resultCode}, key)
}
