package gseries

import (
	"encoding/binary"

	log "github.com/sirupsen/logrus"

	"github.com/WeyeTech/welockbridge/aescrypto"
	"github.com/WeyeTech/welockbridge/crc"
	"github.com/WeyeTech/welockbridge/lockerr"
	"github.com/WeyeTech/welockbridge/wireclock"
)

// ShortAck is the 3-byte 0x20 0xF1 {code} acknowledgement some G-Series
// set operations return instead of a full response frame.
type ShortAck struct {
	Code ShortAckCode
}

func (a ShortAck) Success() bool { return a.Code == ShortAckOK }

// ParsedResponse is the decoded content of a full response frame. For
// SET_PARAMS acknowledgements, Content is a single result-code byte and
// ResultCode (= Content[0]) is meaningful on its own. For QUERY_PARAMS
// responses, Content is a count-prefixed parameter TLV list instead —
// ResultCode there is just Content[0] (typically a parameter count, not a
// status), and callers use ExtractLockState/ExtractBattery on Content
// rather than trusting ResultCode.
type ParsedResponse struct {
	ResultCode byte
	Content    []byte
}

func (r ParsedResponse) Success() bool { return r.ResultCode == ResultSuccess }

// BuildPlain constructs an unencrypted command frame carrying content as
// its body.
func BuildPlain(cmd uint16, content []byte) []byte {
	return buildFrame(cmd, content, commPlain)
}

// BuildEncrypted constructs an encrypted command frame. The body is
// AES-128-ECB( CRC16(content) || serial || nonce || content ), zero-padded
// to a 16-byte multiple; LEN carries the pre-padding length.
func BuildEncrypted(cmd uint16, content []byte, key []byte) ([]byte, error) {
	inner := encryptedInnerPlaintext(content, wireclock.DefaultSerialClock.Next(), wireclock.Nonce4())

	body, err := aescrypto.EncryptECB(key, inner)
	if err != nil {
		return nil, lockerr.NewDecodingError(err.Error())
	}

	return buildFrameWithBodyAndLen(cmd, body, len(inner), commEncrypted), nil
}

func encryptedInnerPlaintext(content []byte, serial [6]byte, nonce [4]byte) []byte {
	checksum := crc.CCITTFalse(content)

	inner := make([]byte, 0, 2+6+4+len(content))
	inner = binary.BigEndian.AppendUint16(inner, checksum)
	inner = append(inner, serial[:]...)
	inner = append(inner, nonce[:]...)
	inner = append(inner, content...)
	return inner
}

func buildFrame(cmd uint16, body []byte, comm uint16) []byte {
	return buildFrameWithBodyAndLen(cmd, body, len(body), comm)
}

// buildFrameWithBodyAndLen assembles the outer frame given the on-wire body
// and the LEN field to declare (which for encrypted frames is the
// pre-padding plaintext length, not len(body)).
func buildFrameWithBodyAndLen(cmd uint16, body []byte, declaredLen int, comm uint16) []byte {
	frame := make([]byte, 0, 2+2+2+2+len(body)+1+2)
	frame = append(frame, cmdHeaderByte0, cmdHeaderByte1)
	frame = binary.BigEndian.AppendUint16(frame, comm)
	frame = binary.BigEndian.AppendUint16(frame, cmd)
	frame = binary.BigEndian.AppendUint16(frame, uint16(declaredLen))
	frame = append(frame, body...)

	// SunCheck covers every byte strictly between HDR and CHK.
	check := crc.SunCheck(frame[2:])
	frame = append(frame, check)

	frame = append(frame, cmdTailByte0, cmdTailByte1)
	return frame
}

// ParseResponse decodes a single complete frame already extracted from the
// reassembly buffer (a 3-byte short ACK, or a full response frame). key is
// required only when the frame turns out to be encrypted.
func ParseResponse(data []byte, key []byte) (ack *ShortAck, resp *ParsedResponse, err error) {
	if isShortAck(data) {
		return &ShortAck{Code: ShortAckCode(data[2])}, nil, nil
	}

	if len(data) < 11 {
		return nil, nil, lockerr.NewDecodingError("g-series response frame too short")
	}
	if data[0] != RspHeaderByte0 || data[1] != RspHeaderByte1 {
		return nil, nil, lockerr.NewDecodingError("g-series response missing header")
	}
	if data[len(data)-2] != RspTailByte0 || data[len(data)-1] != RspTailByte1 {
		return nil, nil, lockerr.NewDecodingError("g-series response missing tail")
	}

	comm := binary.BigEndian.Uint16(data[2:4])
	declaredLen := int(binary.BigEndian.Uint16(data[6:8]))
	body := data[8 : len(data)-3] // strip header+comm+cmd+len prefix and check+tail suffix

	if got := crc.SunCheck(data[2 : len(data)-3]); got != data[len(data)-3] {
		log.Warnf("gseries: SunCheck mismatch on response: got 0x%02X want 0x%02X", got, data[len(data)-3])
	}

	var content []byte
	switch comm {
	case commPlain:
		if declaredLen > len(body) {
			return nil, nil, lockerr.NewDecodingError("g-series LEN exceeds body size")
		}
		content = body[:declaredLen]
	case commEncrypted:
		if key == nil {
			return nil, nil, lockerr.NewDecodingError("g-series response is encrypted but no key was supplied")
		}
		plain, derr := aescrypto.DecryptECB(key, body)
		if derr != nil {
			return nil, nil, lockerr.NewDecodingError(derr.Error())
		}
		if declaredLen < 12 || declaredLen > len(plain) {
			return nil, nil, lockerr.NewDecodingError("g-series encrypted LEN out of range")
		}
		content = plain[12:declaredLen]
	default:
		return nil, nil, lockerr.FmtDecodingError("g-series unrecognized COMM value 0x%04X", comm)
	}

	if len(content) == 0 {
		return nil, nil, lockerr.NewDecodingError("g-series response content empty")
	}

	return nil, &ParsedResponse{ResultCode: content[0], Content: content}, nil
}

func isShortAck(data []byte) bool {
	return len(data) == ShortAckLen && data[0] == ShortAckByte0 && data[1] == ShortAckByte1
}
