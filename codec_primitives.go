package sv2wire

import (
	"encoding/binary"
	"fmt"
	"math"
)

const (
	maxU24 = 0xFFFFFF
)

// byteParser is a bounds-checked cursor over one message's bytes. It is not
// restartable; build a fresh parser per payload.
type byteParser struct {
	b   []byte
	off int
}

func newByteParser(b []byte) *byteParser {
	return &byteParser{b: b}
}

func (p *byteParser) remaining() int {
	return len(p.b) - p.off
}

// nextBy returns the next n bytes and advances the cursor. The returned slice
// aliases the parser's backing array; callers that retain it must copy.
func (p *byteParser) nextBy(n int) ([]byte, error) {
	if n < 0 || p.remaining() < n {
		return nil, fmt.Errorf("%w: out of bounds: need %d have %d", ErrParse, n, p.remaining())
	}
	out := p.b[p.off : p.off+n]
	p.off += n
	return out, nil
}

func (p *byteParser) u8() (uint8, error) {
	b, err := p.nextBy(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (p *byteParser) u16() (uint16, error) {
	b, err := p.nextBy(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// u24 pads the 3 wire bytes into a 4-byte buffer before conversion.
func (p *byteParser) u24() (uint32, error) {
	b, err := p.nextBy(3)
	if err != nil {
		return 0, err
	}
	return readUint24LE(b), nil
}

func (p *byteParser) u32() (uint32, error) {
	b, err := p.nextBy(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (p *byteParser) u64() (uint64, error) {
	b, err := p.nextBy(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (p *byteParser) f32() (float32, error) {
	v, err := p.u32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// boolean interprets only the LSB; the higher bits are reserved.
func (p *byteParser) boolean() (bool, error) {
	b, err := p.u8()
	if err != nil {
		return false, err
	}
	return b&1 == 1, nil
}

func (p *byteParser) u256() ([32]byte, error) {
	var out [32]byte
	b, err := p.nextBy(32)
	if err != nil {
		return out, err
	}
	copy(out[:], b)
	return out, nil
}

// expectEnd rejects trailing garbage after a fully decoded payload.
func (p *byteParser) expectEnd() error {
	if p.remaining() != 0 {
		return fmt.Errorf("%w: %d trailing bytes after payload", ErrParse, p.remaining())
	}
	return nil
}

// payloadBuilder is an append-only sink for message payload serialization.
type payloadBuilder struct {
	b []byte
}

func (w *payloadBuilder) bytes() []byte { return w.b }

func (w *payloadBuilder) u8(v uint8) {
	w.b = append(w.b, v)
}

func (w *payloadBuilder) u16(v uint16) {
	w.b = binary.LittleEndian.AppendUint16(w.b, v)
}

func (w *payloadBuilder) u24(v uint32) error {
	if v > maxU24 {
		return fmt.Errorf("%w: u24 value out of range: %d", ErrRequirement, v)
	}
	w.b = append(w.b, byte(v), byte(v>>8), byte(v>>16))
	return nil
}

func (w *payloadBuilder) u32(v uint32) {
	w.b = binary.LittleEndian.AppendUint32(w.b, v)
}

func (w *payloadBuilder) u64(v uint64) {
	w.b = binary.LittleEndian.AppendUint64(w.b, v)
}

func (w *payloadBuilder) f32(v float32) {
	w.u32(math.Float32bits(v))
}

func (w *payloadBuilder) boolean(v bool) {
	if v {
		w.u8(1)
		return
	}
	w.u8(0)
}

func (w *payloadBuilder) u256(v [32]byte) {
	w.b = append(w.b, v[:]...)
}

func putUint24LE(dst []byte, v uint32) {
	if len(dst) < 3 {
		return
	}
	dst[0] = byte(v)
	dst[1] = byte(v >> 8)
	dst[2] = byte(v >> 16)
}

func readUint24LE(src []byte) uint32 {
	if len(src) < 3 {
		return 0
	}
	return uint32(src[0]) | uint32(src[1])<<8 | uint32(src[2])<<16
}

// newU24 validates the 24-bit range used for frame payload lengths.
func newU24(v uint32) (uint32, error) {
	if v > maxU24 {
		return 0, fmt.Errorf("%w: u24 value out of range: %d", ErrRequirement, v)
	}
	return v, nil
}
