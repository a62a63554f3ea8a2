package sv2wire

import "fmt"

const (
	frameHeaderLen    = 6
	coreExtensionType = uint16(0x0000)
	channelMsgBit     = uint16(0x8000)
	extensionTypeMask = uint16(0x7FFF)
)

// MessageType is the closed enumeration of registered protocol messages.
// Each variant maps to a fixed (extension_type, msg_type, channel_bit)
// triple; the (ext, msg) mapping is bijective.
type MessageType uint8

const (
	MsgSetupConnection MessageType = iota
	MsgSetupConnectionSuccess
	MsgSetupConnectionError
	MsgChannelEndpointChanged
	MsgOpenStandardMiningChannel
	MsgOpenStandardMiningChannelSuccess
	MsgOpenStandardMiningChannelError
	MsgOpenExtendedMiningChannel
	MsgOpenExtendedMiningChannelSuccess
	MsgOpenExtendedMiningChannelError
	MsgUpdateChannel
	MsgUpdateChannelError
	MsgCloseChannel
	MsgSetExtranoncePrefix
	MsgSubmitSharesStandard
	MsgSubmitSharesExtended
	MsgSubmitSharesSuccess
	MsgSubmitSharesError
	MsgNewMiningJob
	MsgNewExtendedMiningJob
	MsgSetNewPrevHash
	MsgSetTarget
	MsgSetCustomMiningJob
	MsgSetCustomMiningJobSuccess
	MsgSetCustomMiningJobError
	MsgReconnect
	MsgSetGroupChannel

	numMessageTypes
)

type messageTypeInfo struct {
	name       string
	ext        uint16
	msg        uint8
	channelBit bool
}

var messageTypeTable = [numMessageTypes]messageTypeInfo{
	MsgSetupConnection:                  {"SetupConnection", 0x0000, 0x00, false},
	MsgSetupConnectionSuccess:           {"SetupConnection.Success", 0x0000, 0x01, false},
	MsgSetupConnectionError:             {"SetupConnection.Error", 0x0000, 0x02, false},
	MsgChannelEndpointChanged:           {"ChannelEndpointChanged", 0x0000, 0x03, true},
	MsgOpenStandardMiningChannel:        {"OpenStandardMiningChannel", 0x0000, 0x10, false},
	MsgOpenStandardMiningChannelSuccess: {"OpenStandardMiningChannel.Success", 0x0000, 0x11, false},
	MsgOpenStandardMiningChannelError:   {"OpenStandardMiningChannel.Error", 0x0000, 0x12, false},
	MsgOpenExtendedMiningChannel:        {"OpenExtendedMiningChannel", 0x0000, 0x13, false},
	MsgOpenExtendedMiningChannelSuccess: {"OpenExtendedMiningChannel.Success", 0x0000, 0x14, false},
	MsgOpenExtendedMiningChannelError:   {"OpenExtendedMiningChannel.Error", 0x0000, 0x15, false},
	MsgUpdateChannel:                    {"UpdateChannel", 0x0000, 0x16, true},
	MsgUpdateChannelError:               {"UpdateChannel.Error", 0x0000, 0x17, true},
	MsgCloseChannel:                     {"CloseChannel", 0x0000, 0x18, true},
	MsgSetExtranoncePrefix:              {"SetExtranoncePrefix", 0x0000, 0x19, true},
	MsgSubmitSharesStandard:             {"SubmitSharesStandard", 0x0000, 0x1a, true},
	MsgSubmitSharesExtended:             {"SubmitSharesExtended", 0x0000, 0x1b, true},
	MsgSubmitSharesSuccess:              {"SubmitShares.Success", 0x0000, 0x1c, true},
	MsgSubmitSharesError:                {"SubmitShares.Error", 0x0000, 0x1d, true},
	MsgNewMiningJob:                     {"NewMiningJob", 0x0000, 0x1e, true},
	MsgNewExtendedMiningJob:             {"NewExtendedMiningJob", 0x0000, 0x1f, true},
	MsgSetNewPrevHash:                   {"SetNewPrevHash", 0x0000, 0x20, true},
	MsgSetTarget:                        {"SetTarget", 0x0000, 0x21, true},
	MsgSetCustomMiningJob:               {"SetCustomMiningJob", 0x0000, 0x22, false},
	MsgSetCustomMiningJobSuccess:        {"SetCustomMiningJob.Success", 0x0000, 0x23, false},
	MsgSetCustomMiningJobError:          {"SetCustomMiningJob.Error", 0x0000, 0x24, false},
	MsgReconnect:                        {"Reconnect", 0x0000, 0x25, false},
	MsgSetGroupChannel:                  {"SetGroupChannel", 0x0000, 0x26, false},
}

// messageTypeIndex maps (ext, msg) back to the enum. Built once at init;
// the table is closed so collisions are a programming error.
var messageTypeIndex = buildMessageTypeIndex()

func buildMessageTypeIndex() map[uint32]MessageType {
	idx := make(map[uint32]MessageType, numMessageTypes)
	for mt := MessageType(0); mt < numMessageTypes; mt++ {
		info := messageTypeTable[mt]
		key := uint32(info.ext)<<8 | uint32(info.msg)
		if _, dup := idx[key]; dup {
			panic(fmt.Sprintf("duplicate message type registration ext=%#04x msg=%#02x", info.ext, info.msg))
		}
		idx[key] = mt
	}
	return idx
}

// MessageTypeFromWire resolves a registered (extension_type, msg_type) pair.
func MessageTypeFromWire(ext uint16, msg uint8) (MessageType, error) {
	mt, ok := messageTypeIndex[uint32(ext)<<8|uint32(msg)]
	if !ok {
		return 0, fmt.Errorf("%w: ext=%#04x msg=%#02x", ErrUnknownMessageType, ext, msg)
	}
	return mt, nil
}

func (m MessageType) valid() bool { return m < numMessageTypes }

func (m MessageType) ExtensionType() uint16 {
	if !m.valid() {
		return 0
	}
	return messageTypeTable[m].ext
}

func (m MessageType) MsgType() uint8 {
	if !m.valid() {
		return 0
	}
	return messageTypeTable[m].msg
}

// ChannelBit reports whether frames of this type address a specific channel.
// It is a static property of the type.
func (m MessageType) ChannelBit() bool {
	if !m.valid() {
		return false
	}
	return messageTypeTable[m].channelBit
}

func (m MessageType) String() string {
	if !m.valid() {
		return fmt.Sprintf("MessageType(%d)", uint8(m))
	}
	return messageTypeTable[m].name
}
