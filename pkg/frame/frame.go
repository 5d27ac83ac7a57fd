package frame

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/zxhio/linkframe/pkg/netaddr"
)

// Wire layout, no length prefix and no magic:
//
//	+---------+---------+----------+------------------+-------------+
//	| dst (6) | src (6) | type (2) | payload (N)      | trailer (4) |
//	+---------+---------+----------+------------------+-------------+
//
// type and trailer are big-endian. Frame boundaries come from the transport.
const (
	HeaderLen  = netaddr.HwAddrLen*2 + 2
	TrailerLen = 4
	MinLen     = HeaderLen + TrailerLen
	MaxLen     = 6000 // capture cap
)

// Common type tags
const (
	TypeGreeting uint16 = 0x2333
)

var ErrTooShort = errors.New("frame too short")

type Frame struct {
	Dst  netaddr.HwAddr
	Src  netaddr.HwAddr
	Type uint16

	// HasPayload is false when the payload is absent, or when the received
	// bytes are not valid UTF-8.
	Payload    string
	HasPayload bool

	// Trailer is carried opaquely, nothing computes or verifies it.
	Trailer uint32

	// raw keeps a received payload that is not valid UTF-8.
	raw []byte
}

func New(dst, src netaddr.HwAddr, typ uint16, payload string) *Frame {
	return &Frame{Dst: dst, Src: src, Type: typ, Payload: payload, HasPayload: true}
}

// Encode returns dst|src|type|payload|trailer.
func Encode(dst, src netaddr.HwAddr, typ uint16, payload string, trailer uint32) []byte {
	f := Frame{Dst: dst, Src: src, Type: typ, Payload: payload, HasPayload: true, Trailer: trailer}
	return f.Encode()
}

// Len returns the encoded length. For a decoded frame it equals the
// length of the captured data.
func (f *Frame) Len() int {
	if !f.HasPayload {
		return MinLen + len(f.raw)
	}
	return MinLen + len(f.Payload)
}

func (f *Frame) Encode() []byte {
	return f.AppendEncode(make([]byte, 0, f.Len()))
}

// AppendEncode appends the encoded frame to b and returns the extended buffer.
func (f *Frame) AppendEncode(b []byte) []byte {
	b = append(b, f.Dst[:]...)
	b = append(b, f.Src[:]...)
	b = binary.BigEndian.AppendUint16(b, f.Type)
	if f.HasPayload {
		b = append(b, f.Payload...)
	} else {
		b = append(b, f.raw...)
	}
	return binary.BigEndian.AppendUint32(b, f.Trailer)
}

// Decode parses data produced by Encode.
// The payload is copied, data may be reused by the caller afterwards.
func Decode(data []byte) (*Frame, error) {
	if len(data) < MinLen {
		return nil, fmt.Errorf("%w: %d bytes, need at least %d", ErrTooShort, len(data), MinLen)
	}

	var f Frame
	copy(f.Dst[:], data[0:6])
	copy(f.Src[:], data[6:12])
	f.Type = binary.BigEndian.Uint16(data[12:14])
	f.Trailer = binary.BigEndian.Uint32(data[len(data)-TrailerLen:])

	payload := data[HeaderLen : len(data)-TrailerLen]
	if utf8.Valid(payload) {
		f.Payload = string(payload)
		f.HasPayload = true
	} else {
		f.raw = bytes.Clone(payload)
	}
	return &f, nil
}

// Message returns the text payload and whether it is present.
func (f *Frame) Message() (string, bool) {
	return f.Payload, f.HasPayload
}

func (f *Frame) String() string {
	payload := "<absent>"
	if f.HasPayload {
		payload = fmt.Sprintf("%q", f.Payload)
	}
	return fmt.Sprintf("%s > %s, type 0x%04x, length %d, payload %s, trailer 0x%08x",
		f.Src, f.Dst, f.Type, f.Len(), payload, f.Trailer)
}
