package sv2wire

import "fmt"

const minProtocolVersion = 2

// SetupConnection opens capability negotiation on a fresh connection. The
// Protocol discriminant selects the sub-protocol and therefore the flag mask
// the Flags word is validated against.
type SetupConnection struct {
	Protocol        Protocol
	MinVersion      uint16
	MaxVersion      uint16
	Flags           uint32
	EndpointHost    string // STR0_255
	EndpointPort    uint16
	Vendor          string // STR0_255, non-empty
	HardwareVersion string // STR0_255
	Firmware        string // STR0_255, non-empty
	DeviceID        string // STR0_255
}

func newSetupConnection(p Protocol, minVersion, maxVersion uint16, flags uint32,
	host string, port uint16, vendor, hardwareVersion, firmware, deviceID string) (SetupConnection, error) {
	if minVersion < minProtocolVersion || maxVersion < minProtocolVersion {
		return SetupConnection{}, fmt.Errorf("%w: version range [%d, %d] below %d",
			ErrVersion, minVersion, maxVersion, minProtocolVersion)
	}
	if vendor == "" {
		return SetupConnection{}, fmt.Errorf("%w: vendor must not be empty", ErrRequirement)
	}
	if firmware == "" {
		return SetupConnection{}, fmt.Errorf("%w: firmware must not be empty", ErrRequirement)
	}
	for _, s := range []string{host, vendor, hardwareVersion, firmware, deviceID} {
		if err := checkStr0(s, maxStr0_255); err != nil {
			return SetupConnection{}, err
		}
	}
	mask, err := setupFlagsMask(p)
	if err != nil {
		return SetupConnection{}, err
	}
	if err := checkFlagsAgainstMask(flags, mask); err != nil {
		return SetupConnection{}, err
	}
	return SetupConnection{
		Protocol:        p,
		MinVersion:      minVersion,
		MaxVersion:      maxVersion,
		Flags:           flags,
		EndpointHost:    host,
		EndpointPort:    port,
		Vendor:          vendor,
		HardwareVersion: hardwareVersion,
		Firmware:        firmware,
		DeviceID:        deviceID,
	}, nil
}

func NewMiningSetupConnection(minVersion, maxVersion uint16, flags MiningSetupFlags,
	host string, port uint16, vendor, hardwareVersion, firmware, deviceID string) (SetupConnection, error) {
	return newSetupConnection(ProtocolMining, minVersion, maxVersion, uint32(flags),
		host, port, vendor, hardwareVersion, firmware, deviceID)
}

func NewJobNegotiationSetupConnection(minVersion, maxVersion uint16, flags JobNegotiationSetupFlags,
	host string, port uint16, vendor, hardwareVersion, firmware, deviceID string) (SetupConnection, error) {
	return newSetupConnection(ProtocolJobNegotiation, minVersion, maxVersion, uint32(flags),
		host, port, vendor, hardwareVersion, firmware, deviceID)
}

func NewTemplateDistributionSetupConnection(minVersion, maxVersion uint16,
	host string, port uint16, vendor, hardwareVersion, firmware, deviceID string) (SetupConnection, error) {
	return newSetupConnection(ProtocolTemplateDistribution, minVersion, maxVersion, 0,
		host, port, vendor, hardwareVersion, firmware, deviceID)
}

func NewJobDistributionSetupConnection(minVersion, maxVersion uint16,
	host string, port uint16, vendor, hardwareVersion, firmware, deviceID string) (SetupConnection, error) {
	return newSetupConnection(ProtocolJobDistribution, minVersion, maxVersion, 0,
		host, port, vendor, hardwareVersion, firmware, deviceID)
}

// MiningFlags returns the typed flag set when the mining sub-protocol was
// selected.
func (m SetupConnection) MiningFlags() (MiningSetupFlags, error) {
	if m.Protocol != ProtocolMining {
		return 0, fmt.Errorf("%w: setup carries %s", ErrRequirement, m.Protocol)
	}
	return MiningSetupFlags(m.Flags), nil
}

func EncodeSetupConnectionFrame(m SetupConnection) ([]byte, error) {
	return encodeMessageFrame(MsgSetupConnection, func(w *payloadBuilder) error {
		if !m.Protocol.valid() {
			return fmt.Errorf("%w: protocol discriminant %d", ErrUnknownMessageType, uint8(m.Protocol))
		}
		w.u8(uint8(m.Protocol))
		w.u16(m.MinVersion)
		w.u16(m.MaxVersion)
		w.u32(m.Flags)
		if err := w.str0(m.EndpointHost, maxStr0_255); err != nil {
			return err
		}
		w.u16(m.EndpointPort)
		for _, s := range []string{m.Vendor, m.HardwareVersion, m.Firmware, m.DeviceID} {
			if err := w.str0(s, maxStr0_255); err != nil {
				return err
			}
		}
		return nil
	})
}

func decodeSetupConnectionPayload(p *byteParser) (SetupConnection, error) {
	var m SetupConnection
	proto, err := p.u8()
	if err != nil {
		return m, err
	}
	m.Protocol = Protocol(proto)
	if !m.Protocol.valid() {
		return m, fmt.Errorf("%w: protocol discriminant %d", ErrUnknownMessageType, proto)
	}
	if m.MinVersion, err = p.u16(); err != nil {
		return m, err
	}
	if m.MaxVersion, err = p.u16(); err != nil {
		return m, err
	}
	if m.Flags, err = p.u32(); err != nil {
		return m, err
	}
	mask, err := setupFlagsMask(m.Protocol)
	if err != nil {
		return m, err
	}
	if err := checkFlagsAgainstMask(m.Flags, mask); err != nil {
		return m, err
	}
	if m.EndpointHost, err = p.str0(maxStr0_255); err != nil {
		return m, err
	}
	if m.EndpointPort, err = p.u16(); err != nil {
		return m, err
	}
	if m.Vendor, err = p.str0(maxStr0_255); err != nil {
		return m, err
	}
	if m.HardwareVersion, err = p.str0(maxStr0_255); err != nil {
		return m, err
	}
	if m.Firmware, err = p.str0(maxStr0_255); err != nil {
		return m, err
	}
	if m.DeviceID, err = p.str0(maxStr0_255); err != nil {
		return m, err
	}
	return m, p.expectEnd()
}

// SetupConnectionSuccess confirms negotiation; flags use the responder
// direction's set for the negotiated sub-protocol.
type SetupConnectionSuccess struct {
	UsedVersion uint16
	Flags       uint32
}

func NewMiningSetupConnectionSuccess(usedVersion uint16, flags MiningSetupSuccessFlags) (SetupConnectionSuccess, error) {
	if usedVersion < minProtocolVersion {
		return SetupConnectionSuccess{}, fmt.Errorf("%w: used_version %d below %d",
			ErrVersion, usedVersion, minProtocolVersion)
	}
	return SetupConnectionSuccess{UsedVersion: usedVersion, Flags: uint32(flags)}, nil
}

func EncodeSetupConnectionSuccessFrame(m SetupConnectionSuccess) ([]byte, error) {
	return encodeMessageFrame(MsgSetupConnectionSuccess, func(w *payloadBuilder) error {
		w.u16(m.UsedVersion)
		w.u32(m.Flags)
		return nil
	})
}

// decodeSetupConnectionSuccessPayload validates the flag word against the
// success mask of the protocol negotiated for this connection; the wire form
// carries no discriminant of its own.
func decodeSetupConnectionSuccessPayload(p *byteParser, proto Protocol) (SetupConnectionSuccess, error) {
	var m SetupConnectionSuccess
	var err error
	if m.UsedVersion, err = p.u16(); err != nil {
		return m, err
	}
	if m.Flags, err = p.u32(); err != nil {
		return m, err
	}
	mask, err := setupSuccessFlagsMask(proto)
	if err != nil {
		return m, err
	}
	if err := checkFlagsAgainstMask(m.Flags, mask); err != nil {
		return m, err
	}
	return m, p.expectEnd()
}

// SetupConnectionErrorCode enumerates the registered SetupConnection.Error
// code strings.
type SetupConnectionErrorCode uint8

const (
	SetupErrUnsupportedFeatureFlags SetupConnectionErrorCode = iota
	SetupErrUnsupportedProtocol
	SetupErrProtocolVersionMismatch
)

var setupConnectionErrorCodeStrings = map[SetupConnectionErrorCode]string{
	SetupErrUnsupportedFeatureFlags: "unsupported-feature-flags",
	SetupErrUnsupportedProtocol:     "unsupported-protocol",
	SetupErrProtocolVersionMismatch: "protocol-version-mismatch",
}

func (c SetupConnectionErrorCode) String() string {
	if s, ok := setupConnectionErrorCodeStrings[c]; ok {
		return s
	}
	return fmt.Sprintf("setup-error(%d)", uint8(c))
}

func setupConnectionErrorCodeFromString(s string) (SetupConnectionErrorCode, error) {
	for code, str := range setupConnectionErrorCodeStrings {
		if s == str {
			return code, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownErrorCode, s)
}

// SetupConnectionError rejects negotiation. When the code is
// unsupported-feature-flags, Flags must carry the complete set of flags the
// responder does not support and so must be non-empty.
type SetupConnectionError struct {
	Flags     uint32
	ErrorCode SetupConnectionErrorCode
}

func NewSetupConnectionError(flags uint32, code SetupConnectionErrorCode) (SetupConnectionError, error) {
	if _, ok := setupConnectionErrorCodeStrings[code]; !ok {
		return SetupConnectionError{}, fmt.Errorf("%w: code %d", ErrUnknownErrorCode, uint8(code))
	}
	if code == SetupErrUnsupportedFeatureFlags && flags == 0 {
		return SetupConnectionError{}, fmt.Errorf(
			"%w: unsupported-feature-flags requires a non-empty flag set", ErrRequirement)
	}
	return SetupConnectionError{Flags: flags, ErrorCode: code}, nil
}

func EncodeSetupConnectionErrorFrame(m SetupConnectionError) ([]byte, error) {
	return encodeMessageFrame(MsgSetupConnectionError, func(w *payloadBuilder) error {
		code, ok := setupConnectionErrorCodeStrings[m.ErrorCode]
		if !ok {
			return fmt.Errorf("%w: code %d", ErrUnknownErrorCode, uint8(m.ErrorCode))
		}
		w.u32(m.Flags)
		return w.str0(code, maxStr0_255)
	})
}

func decodeSetupConnectionErrorPayload(p *byteParser) (SetupConnectionError, error) {
	var m SetupConnectionError
	var err error
	if m.Flags, err = p.u32(); err != nil {
		return m, err
	}
	codeStr, err := p.str0(maxStr0_255)
	if err != nil {
		return m, err
	}
	if m.ErrorCode, err = setupConnectionErrorCodeFromString(codeStr); err != nil {
		return m, err
	}
	return m, p.expectEnd()
}
