package sv2wire

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
)

// Frame is one wire message: a registered type tag plus its owned payload.
type Frame struct {
	Type    MessageType
	Payload []byte
}

// EncodeFrame serializes the 6-byte envelope followed by the payload. The
// channel bit is OR-ed into the extension word when the type demands it.
func EncodeFrame(f Frame) ([]byte, error) {
	if !f.Type.valid() {
		return nil, fmt.Errorf("%w: unregistered type %d", ErrUnknownMessageType, uint8(f.Type))
	}
	payloadLen, err := newU24(uint32(len(f.Payload)))
	if err != nil {
		return nil, err
	}
	extWord := f.Type.ExtensionType()
	if f.Type.ChannelBit() {
		extWord |= channelMsgBit
	}
	out := make([]byte, frameHeaderLen+len(f.Payload))
	binary.LittleEndian.PutUint16(out[0:2], extWord)
	out[2] = f.Type.MsgType()
	putUint24LE(out[3:6], payloadLen)
	copy(out[frameHeaderLen:], f.Payload)
	return out, nil
}

// DecodeFrame parses a complete frame. The declared payload length must match
// the bytes available after the header exactly.
func DecodeFrame(b []byte) (Frame, error) {
	p := newByteParser(b)
	hdr, err := p.nextBy(frameHeaderLen)
	if err != nil {
		return Frame{}, err
	}
	extWord := binary.LittleEndian.Uint16(hdr[0:2])
	channelBit := extWord&channelMsgBit != 0
	ext := extWord & extensionTypeMask
	mt, err := MessageTypeFromWire(ext, hdr[2])
	if err != nil {
		return Frame{}, err
	}
	if mt.ChannelBit() != channelBit {
		return Frame{}, fmt.Errorf("%w: %s got channel_bit=%v", ErrUnexpectedChannelBit, mt, channelBit)
	}
	payloadLen := int(readUint24LE(hdr[3:6]))
	payload, err := p.nextBy(payloadLen)
	if err != nil {
		return Frame{}, err
	}
	if err := p.expectEnd(); err != nil {
		return Frame{}, err
	}
	return Frame{Type: mt, Payload: append([]byte(nil), payload...)}, nil
}

// unframePayload enforces the expected type tag before handing the payload to
// a typed decoder.
func unframePayload(f Frame, want MessageType) (*byteParser, error) {
	if f.Type != want {
		return nil, fmt.Errorf("%w: ext=%#04x msg=%#02x (want %s)",
			ErrUnexpectedMessageType, f.Type.ExtensionType(), f.Type.MsgType(), want)
	}
	return newByteParser(f.Payload), nil
}

func encodeMessageFrame(mt MessageType, build func(*payloadBuilder) error) ([]byte, error) {
	var w payloadBuilder
	if err := build(&w); err != nil {
		return nil, err
	}
	return EncodeFrame(Frame{Type: mt, Payload: w.bytes()})
}

// ReadFrameFrom reads exactly one frame from a byte stream. A clean EOF
// before any header byte is reported as io.EOF so read loops can stop.
func ReadFrameFrom(r io.Reader) ([]byte, error) {
	var hdr [frameHeaderLen]byte
	n, err := io.ReadFull(r, hdr[:])
	if err != nil {
		if (err == io.EOF || err == io.ErrUnexpectedEOF) && n == 0 {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("%w: short frame header: %v", ErrParse, err)
	}
	payloadLen := int(readUint24LE(hdr[3:6]))
	out := make([]byte, frameHeaderLen+payloadLen)
	copy(out[:frameHeaderLen], hdr[:])
	if payloadLen == 0 {
		return out, nil
	}
	if _, err := io.ReadFull(r, out[frameHeaderLen:]); err != nil {
		return nil, fmt.Errorf("%w: short frame payload: %v", ErrParse, err)
	}
	return out, nil
}

// WriteFrameTo encodes and writes one frame, retrying partial writes.
func WriteFrameTo(w io.Writer, f Frame) error {
	b, err := EncodeFrame(f)
	if err != nil {
		return err
	}
	for len(b) > 0 {
		n, err := w.Write(b)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrIO, err)
		}
		b = b[n:]
	}
	return nil
}

type frameDebugView struct {
	Type       string `json:"type"`
	Ext        uint16 `json:"ext"`
	Msg        uint8  `json:"msg"`
	ChannelBit bool   `json:"channel_bit"`
	PayloadLen int    `json:"payload_len"`
	Payload    string `json:"payload_hex,omitempty"`
}

// frameDebugJSON renders a frame for debug log lines.
func frameDebugJSON(f Frame) string {
	out, err := fastJSONMarshal(frameDebugView{
		Type:       f.Type.String(),
		Ext:        f.Type.ExtensionType(),
		Msg:        f.Type.MsgType(),
		ChannelBit: f.Type.ChannelBit(),
		PayloadLen: len(f.Payload),
		Payload:    hex.EncodeToString(f.Payload),
	})
	if err != nil {
		return fmt.Sprintf("{%q}", f.Type.String())
	}
	return string(out)
}
