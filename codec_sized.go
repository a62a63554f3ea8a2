package sv2wire

import (
	"fmt"
	"unicode/utf8"
)

// Length-prefixed container bounds. The prefix is the smallest integer type
// covering the bound: u8 up to 255, u16 up to 64K-1, u24 up to 16M-1.
const (
	maxStr0_32  = 32
	maxStr0_255 = 255
	maxB0_31    = 31
	maxB0_32    = 32
	maxB0_255   = 255
	maxB0_64K   = 0xFFFF
	maxB0_16M   = 0xFFFFFF
)

func (w *payloadBuilder) lengthPrefix(n, max int) error {
	if n > max {
		return fmt.Errorf("%w: length %d exceeds container bound %d", ErrRequirement, n, max)
	}
	switch {
	case max <= 0xFF:
		w.u8(uint8(n))
	case max <= 0xFFFF:
		w.u16(uint16(n))
	default:
		return w.u24(uint32(n))
	}
	return nil
}

func (p *byteParser) lengthPrefix(max int) (int, error) {
	var n uint32
	var err error
	switch {
	case max <= 0xFF:
		var v uint8
		v, err = p.u8()
		n = uint32(v)
	case max <= 0xFFFF:
		var v uint16
		v, err = p.u16()
		n = uint32(v)
	default:
		n, err = p.u24()
	}
	if err != nil {
		return 0, err
	}
	// The prefix type's domain can be wider than the container bound
	// (e.g. STR0_32 carries a u8 prefix), so re-check after decode.
	if int(n) > max {
		return 0, fmt.Errorf("%w: declared length %d exceeds container bound %d", ErrRequirement, n, max)
	}
	return int(n), nil
}

// str0 writes a length-prefixed string bounded by max.
func (w *payloadBuilder) str0(s string, max int) error {
	if err := w.lengthPrefix(len(s), max); err != nil {
		return err
	}
	w.b = append(w.b, s...)
	return nil
}

// b0 writes a length-prefixed byte buffer bounded by max.
func (w *payloadBuilder) b0(b []byte, max int) error {
	if err := w.lengthPrefix(len(b), max); err != nil {
		return err
	}
	w.b = append(w.b, b...)
	return nil
}

func (p *byteParser) str0(max int) (string, error) {
	n, err := p.lengthPrefix(max)
	if err != nil {
		return "", err
	}
	b, err := p.nextBy(n)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", fmt.Errorf("%w: STR0 payload is not valid utf-8", ErrUTF8)
	}
	return string(b), nil
}

func (p *byteParser) b0(max int) ([]byte, error) {
	n, err := p.lengthPrefix(max)
	if err != nil {
		return nil, err
	}
	b, err := p.nextBy(n)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), b...), nil
}

// checkStr0 is the construction-time bound check used by message factories.
func checkStr0(s string, max int) error {
	if len(s) > max {
		return fmt.Errorf("%w: string length %d exceeds %d", ErrRequirement, len(s), max)
	}
	if !utf8.ValidString(s) {
		return fmt.Errorf("%w: string is not valid utf-8", ErrUTF8)
	}
	return nil
}

func checkB0(b []byte, max int) error {
	if len(b) > max {
		return fmt.Errorf("%w: buffer length %d exceeds %d", ErrRequirement, len(b), max)
	}
	return nil
}
