package sv2wire

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestStr0Roundtrip(t *testing.T) {
	var w payloadBuilder
	if err := w.str0("miner-01", maxStr0_255); err != nil {
		t.Fatalf("str0: %v", err)
	}
	p := newByteParser(w.bytes())
	got, err := p.str0(maxStr0_255)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != "miner-01" {
		t.Fatalf("got %q", got)
	}
}

func TestStr0RejectsOversize(t *testing.T) {
	var w payloadBuilder
	long := strings.Repeat("a", maxStr0_32+1)
	if err := w.str0(long, maxStr0_32); !errors.Is(err, ErrRequirement) {
		t.Fatalf("encode oversize: got %v, want ErrRequirement", err)
	}
	if err := checkStr0(long, maxStr0_32); !errors.Is(err, ErrRequirement) {
		t.Fatalf("checkStr0: got %v, want ErrRequirement", err)
	}
}

func TestStr0RejectsInvalidUTF8(t *testing.T) {
	// Length byte 2 followed by a broken UTF-8 sequence.
	p := newByteParser([]byte{0x02, 0xC3, 0x28})
	if _, err := p.str0(maxStr0_255); !errors.Is(err, ErrUTF8) {
		t.Fatalf("got %v, want ErrUTF8", err)
	}
}

func TestStr0PrefixBeyondBound(t *testing.T) {
	// STR0_32 carries a u8 prefix whose domain is wider than the bound.
	p := newByteParser(append([]byte{40}, make([]byte, 40)...))
	if _, err := p.str0(maxStr0_32); !errors.Is(err, ErrRequirement) {
		t.Fatalf("declared length 40 in STR0_32: got %v, want ErrRequirement", err)
	}
}

func TestB0PrefixWidths(t *testing.T) {
	cases := []struct {
		max    int
		prefix int
	}{
		{maxB0_31, 1},
		{maxB0_32, 1},
		{maxB0_255, 1},
		{maxB0_64K, 2},
		{maxB0_16M, 3},
	}
	payload := []byte{0xAA, 0xBB, 0xCC}
	for _, tc := range cases {
		var w payloadBuilder
		if err := w.b0(payload, tc.max); err != nil {
			t.Fatalf("b0 max=%d: %v", tc.max, err)
		}
		if got := len(w.bytes()); got != tc.prefix+len(payload) {
			t.Fatalf("b0 max=%d: encoded %d bytes, want %d", tc.max, got, tc.prefix+len(payload))
		}
		p := newByteParser(w.bytes())
		back, err := p.b0(tc.max)
		if err != nil {
			t.Fatalf("decode max=%d: %v", tc.max, err)
		}
		if !bytes.Equal(back, payload) {
			t.Fatalf("decode max=%d: got %x", tc.max, back)
		}
		if err := p.expectEnd(); err != nil {
			t.Fatalf("trailing bytes max=%d: %v", tc.max, err)
		}
	}
}

func TestB0TruncatedBody(t *testing.T) {
	// Prefix declares 5 bytes, only 2 present.
	p := newByteParser([]byte{0x05, 0x01, 0x02})
	if _, err := p.b0(maxB0_255); !errors.Is(err, ErrParse) {
		t.Fatalf("got %v, want ErrParse", err)
	}
}

func TestB0EmptyAllowed(t *testing.T) {
	var w payloadBuilder
	if err := w.b0(nil, maxB0_32); err != nil {
		t.Fatalf("empty b0: %v", err)
	}
	p := newByteParser(w.bytes())
	got, err := p.b0(maxB0_32)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %x, want empty", got)
	}
}
