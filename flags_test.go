package sv2wire

import (
	"errors"
	"testing"
)

func TestMiningSetupFlagsMask(t *testing.T) {
	if AllMiningSetupFlags() != 0x7 {
		t.Fatalf("mining setup mask = %#x, want 0x7", uint32(AllMiningSetupFlags()))
	}
	if _, err := miningSetupFlagsFromWire(uint32(AllMiningSetupFlags())); err != nil {
		t.Fatalf("full mask rejected: %v", err)
	}
	if _, err := miningSetupFlagsFromWire(1 << 3); !errors.Is(err, ErrUnknownFlags) {
		t.Fatalf("bit 3: got %v, want ErrUnknownFlags", err)
	}
}

func TestSuccessFlagsMask(t *testing.T) {
	if _, err := miningSetupSuccessFlagsFromWire(uint32(MiningSuccessFlagRequiresFixedVersion | MiningSuccessFlagRequiresExtendedChannels)); err != nil {
		t.Fatalf("defined success flags rejected: %v", err)
	}
	if _, err := miningSetupSuccessFlagsFromWire(1 << 2); !errors.Is(err, ErrUnknownFlags) {
		t.Fatalf("bit 2: got %v, want ErrUnknownFlags", err)
	}
}

func TestDistributionProtocolsHaveNoFlags(t *testing.T) {
	for _, p := range []Protocol{ProtocolTemplateDistribution, ProtocolJobDistribution} {
		mask, err := setupFlagsMask(p)
		if err != nil {
			t.Fatalf("%s: %v", p, err)
		}
		if mask != 0 {
			t.Fatalf("%s: mask %#x, want 0", p, mask)
		}
		if err := checkFlagsAgainstMask(1, mask); !errors.Is(err, ErrUnknownFlags) {
			t.Fatalf("%s: any set bit should be rejected, got %v", p, err)
		}
	}
}

func TestJobNegotiationFlags(t *testing.T) {
	if _, err := jobNegotiationSetupFlagsFromWire(uint32(JobNegotiationFlagRequiresAsyncJobMining)); err != nil {
		t.Fatalf("async job mining flag rejected: %v", err)
	}
	if _, err := jobNegotiationSetupFlagsFromWire(1 << 1); !errors.Is(err, ErrUnknownFlags) {
		t.Fatalf("bit 1: got %v, want ErrUnknownFlags", err)
	}
}

func TestProtocolString(t *testing.T) {
	if ProtocolMining.String() != "mining" {
		t.Fatalf("got %q", ProtocolMining.String())
	}
	if Protocol(9).valid() {
		t.Fatalf("protocol 9 reported valid")
	}
}
