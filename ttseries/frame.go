package ttseries

import (
	log "github.com/sirupsen/logrus"

	"github.com/WeyeTech/welockbridge/aescrypto"
	"github.com/WeyeTech/welockbridge/crc"
	"github.com/WeyeTech/welockbridge/lockerr"
)

// ParsedResponse is the decoded content of a TT-Series response frame.
type ParsedResponse struct {
	Business []byte
}

// BuildPlain wraps business as an unencrypted TT-Series frame: ENC(0x01) ||
// LEN || business || CRC8-MAXIM(ENC||LEN||business).
func BuildPlain(business []byte) ([]byte, error) {
	return buildFrame(EncPlain, business, business)
}

// BuildEncrypted wraps business as an AES-128-ECB encrypted TT-Series
// frame. LEN carries the pre-padding business length; the on-wire body is
// zero-padded to a 16-byte multiple.
func BuildEncrypted(business []byte, key []byte) ([]byte, error) {
	body, err := aescrypto.EncryptECB(key, business)
	if err != nil {
		return nil, lockerr.NewDecodingError(err.Error())
	}
	return buildFrame(EncAES, business, body)
}

// buildFrame assembles ENC||LEN||body||CRC8, where len declares the
// plaintext business length (which may differ from len(body) when
// encrypted).
func buildFrame(enc byte, business []byte, body []byte) ([]byte, error) {
	if len(business) > 0xFF {
		return nil, lockerr.FmtDecodingError("tt-series business data too long: %d bytes", len(business))
	}

	frame := make([]byte, 0, 2+len(body)+1)
	frame = append(frame, enc, byte(len(business)))
	frame = append(frame, body...)
	frame = append(frame, crc.Maxim8(frame))
	return frame, nil
}

// ParseResponse decodes a single complete TT-Series frame already extracted
// from the reassembly buffer. key is required only when the frame is
// encrypted (ENC == 0x11).
func ParseResponse(data []byte, key []byte) (*ParsedResponse, error) {
	if len(data) < 3 {
		return nil, lockerr.NewDecodingError("tt-series frame too short")
	}

	enc := data[0]
	businessLen := int(data[1])

	var onWireLen int
	switch enc {
	case EncPlain:
		onWireLen = businessLen
	case EncAES:
		onWireLen = ((businessLen + 15) / 16) * 16
	default:
		return nil, lockerr.FmtDecodingError("tt-series unrecognized ENC value 0x%02X", enc)
	}

	want := 2 + onWireLen + 1
	if len(data) != want {
		return nil, lockerr.FmtDecodingError("tt-series frame length mismatch: got %d want %d", len(data), want)
	}

	if got := crc.Maxim8(data[:len(data)-1]); got != data[len(data)-1] {
		log.Warnf("ttseries: CRC-8 mismatch on response: got 0x%02X want 0x%02X", got, data[len(data)-1])
	}

	body := data[2 : len(data)-1]

	var business []byte
	switch enc {
	case EncPlain:
		business = body
	case EncAES:
		if key == nil {
			return nil, lockerr.NewDecodingError("tt-series response is encrypted but no key was supplied")
		}
		plain, err := aescrypto.DecryptECB(key, body)
		if err != nil {
			return nil, lockerr.NewDecodingError(err.Error())
		}
		if businessLen > len(plain) {
			return nil, lockerr.NewDecodingError("tt-series LEN exceeds decrypted body size")
		}
		business = plain[:businessLen]
	}

	if len(business) == 0 {
		return nil, lockerr.NewDecodingError("tt-series response business data empty")
	}

	return &ParsedResponse{Business: business}, nil
}

// IsAsync reports whether business is an unsolicited upstream message
// (heartbeat or alarm) rather than a reply to a pending command.
// TT-Series identifies these by inspecting the first business-data byte.
func IsAsync(business []byte) bool {
	if len(business) == 0 {
		return false
	}
	switch business[0] {
	case MsgHeartbeat, MsgBroke, MsgRodCut, MsgOpened:
		return true
	default:
		return false
	}
}
