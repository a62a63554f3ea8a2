package sv2wire

import (
	"encoding/binary"
	"errors"
	"testing"
)

func TestNewSetupConnectionValidation(t *testing.T) {
	if _, err := NewMiningSetupConnection(1, 2, 0, "h", 1, "v", "", "fw", ""); !errors.Is(err, ErrVersion) {
		t.Fatalf("min_version 1: got %v, want ErrVersion", err)
	}
	if _, err := NewMiningSetupConnection(2, 2, 0, "h", 1, "", "", "fw", ""); !errors.Is(err, ErrRequirement) {
		t.Fatalf("empty vendor: got %v, want ErrRequirement", err)
	}
	if _, err := NewMiningSetupConnection(2, 2, 0, "h", 1, "v", "", "", ""); !errors.Is(err, ErrRequirement) {
		t.Fatalf("empty firmware: got %v, want ErrRequirement", err)
	}
	if _, err := NewMiningSetupConnection(2, 2, 1<<5, "h", 1, "v", "", "fw", ""); !errors.Is(err, ErrUnknownFlags) {
		t.Fatalf("undefined flag: got %v, want ErrUnknownFlags", err)
	}
}

func TestSetupConnectionPerProtocolFactories(t *testing.T) {
	jn, err := NewJobNegotiationSetupConnection(2, 3, JobNegotiationFlagRequiresAsyncJobMining,
		"jn.example.com", 8442, "vendor", "", "fw-1.0", "")
	if err != nil {
		t.Fatalf("job negotiation: %v", err)
	}
	if jn.Protocol != ProtocolJobNegotiation {
		t.Fatalf("protocol %s", jn.Protocol)
	}
	td, err := NewTemplateDistributionSetupConnection(2, 2,
		"td.example.com", 8442, "vendor", "", "fw-1.0", "")
	if err != nil {
		t.Fatalf("template distribution: %v", err)
	}
	if td.Flags != 0 {
		t.Fatalf("template distribution flags %#x", td.Flags)
	}
	if _, err := td.MiningFlags(); !errors.Is(err, ErrRequirement) {
		t.Fatalf("MiningFlags on template distribution: got %v, want ErrRequirement", err)
	}
}

func TestDecodeSetupConnectionRejectsBadDiscriminant(t *testing.T) {
	b, err := EncodeSetupConnectionFrame(testSetupConnection(t))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	b[frameHeaderLen] = 7 // protocol byte
	f, err := DecodeFrame(b)
	if err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	if _, err := UnframeSetupConnection(f); !errors.Is(err, ErrUnknownMessageType) {
		t.Fatalf("got %v, want ErrUnknownMessageType", err)
	}
}

func TestDecodeSetupConnectionRejectsForeignFlags(t *testing.T) {
	b, err := EncodeSetupConnectionFrame(testSetupConnection(t))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	// Flags word sits after protocol(1) + min(2) + max(2).
	off := frameHeaderLen + 5
	binary.LittleEndian.PutUint32(b[off:off+4], 1<<9)
	f, err := DecodeFrame(b)
	if err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	if _, err := UnframeSetupConnection(f); !errors.Is(err, ErrUnknownFlags) {
		t.Fatalf("got %v, want ErrUnknownFlags", err)
	}
}

func TestSetupConnectionSuccessRoundtrip(t *testing.T) {
	m, err := NewMiningSetupConnectionSuccess(2, MiningSuccessFlagRequiresFixedVersion)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	b, err := EncodeSetupConnectionSuccessFrame(m)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	f, err := DecodeFrame(b)
	if err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	back, err := UnframeSetupConnectionSuccess(f, ProtocolMining)
	if err != nil {
		t.Fatalf("unframe: %v", err)
	}
	if back != m {
		t.Fatalf("roundtrip mismatch: %+v", back)
	}
	// The same wire flags are invalid under a protocol with no success flags.
	if _, err := UnframeSetupConnectionSuccess(f, ProtocolTemplateDistribution); !errors.Is(err, ErrUnknownFlags) {
		t.Fatalf("template distribution mask: got %v, want ErrUnknownFlags", err)
	}
}

func TestSetupConnectionErrorCodes(t *testing.T) {
	if _, err := NewSetupConnectionError(0, SetupErrUnsupportedFeatureFlags); !errors.Is(err, ErrRequirement) {
		t.Fatalf("empty flags with unsupported-feature-flags: got %v, want ErrRequirement", err)
	}
	m, err := NewSetupConnectionError(0, SetupErrProtocolVersionMismatch)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	b, err := EncodeSetupConnectionErrorFrame(m)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	f, err := DecodeFrame(b)
	if err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	back, err := UnframeSetupConnectionError(f)
	if err != nil {
		t.Fatalf("unframe: %v", err)
	}
	if back.ErrorCode != SetupErrProtocolVersionMismatch {
		t.Fatalf("code %s", back.ErrorCode)
	}
}

func TestSetupConnectionErrorUnknownCodeString(t *testing.T) {
	var w payloadBuilder
	w.u32(0)
	if err := w.str0("some-novel-error", maxStr0_255); err != nil {
		t.Fatalf("str0: %v", err)
	}
	p := newByteParser(w.bytes())
	if _, err := decodeSetupConnectionErrorPayload(p); !errors.Is(err, ErrUnknownErrorCode) {
		t.Fatalf("got %v, want ErrUnknownErrorCode", err)
	}
}
