package sv2wire

import (
	"errors"
	"testing"
)

// Every registered triple must resolve back to the same enum value.
func TestMessageTypeBijection(t *testing.T) {
	for mt := MessageType(0); mt < numMessageTypes; mt++ {
		back, err := MessageTypeFromWire(mt.ExtensionType(), mt.MsgType())
		if err != nil {
			t.Fatalf("%s: %v", mt, err)
		}
		if back != mt {
			t.Fatalf("%s maps back to %s", mt, back)
		}
	}
}

func TestMessageTypeUnknown(t *testing.T) {
	if _, err := MessageTypeFromWire(0x0000, 0x7F); !errors.Is(err, ErrUnknownMessageType) {
		t.Fatalf("msg 0x7f: got %v, want ErrUnknownMessageType", err)
	}
	if _, err := MessageTypeFromWire(0x0001, 0x00); !errors.Is(err, ErrUnknownMessageType) {
		t.Fatalf("ext 0x0001: got %v, want ErrUnknownMessageType", err)
	}
}

func TestMessageTypeTableShape(t *testing.T) {
	if numMessageTypes != 27 {
		t.Fatalf("registered %d message types, want 27", numMessageTypes)
	}
	for mt := MessageType(0); mt < numMessageTypes; mt++ {
		if mt.ExtensionType() != coreExtensionType {
			t.Fatalf("%s: ext %#04x, want core extension", mt, mt.ExtensionType())
		}
	}
	// Spot-check channel bit assignments at the boundaries.
	if MsgSetupConnection.ChannelBit() {
		t.Fatalf("SetupConnection must not carry the channel bit")
	}
	if !MsgSubmitSharesStandard.ChannelBit() {
		t.Fatalf("SubmitSharesStandard must carry the channel bit")
	}
	if !MsgSetTarget.ChannelBit() {
		t.Fatalf("SetTarget must carry the channel bit")
	}
	if MsgReconnect.ChannelBit() {
		t.Fatalf("Reconnect must not carry the channel bit")
	}
}
