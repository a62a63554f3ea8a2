package sv2wire

import "fmt"

// ServerHandler implements the responder side of connection setup for the
// mining sub-protocol. It negotiates the protocol version and feature flags,
// records the accepted setup state on the peer and enqueues the reply frame.
type ServerHandler struct {
	// SupportedFlags is the set of mining setup flags this server honors.
	SupportedFlags MiningSetupFlags
	// SuccessFlags is advertised back to accepted clients.
	SuccessFlags MiningSetupSuccessFlags
	// PreferredVersion is the highest protocol version the server speaks.
	PreferredVersion uint16
}

// NewServerHandler returns a handler with the given flag policy speaking the
// current protocol version.
func NewServerHandler(supported MiningSetupFlags, success MiningSetupSuccessFlags) *ServerHandler {
	return &ServerHandler{
		SupportedFlags:   supported,
		SuccessFlags:     success,
		PreferredVersion: minProtocolVersion,
	}
}

// HandleNewConn processes a decoded SetupConnection for a fresh peer. The
// reply frame (success or error) is enqueued on the peer; the returned error
// is reserved for encoding failures, not protocol rejections.
func (h *ServerHandler) HandleNewConn(p *Peer, sc SetupConnection) error {
	if sc.Protocol != ProtocolMining {
		return h.reject(p, SetupErrUnsupportedProtocol, 0)
	}
	requested, err := sc.MiningFlags()
	if err != nil {
		return err
	}

	// Flags the client requires but the server does not support. The error
	// reply carries every flag the server lacks, not just the offending ones,
	// so the client can retry with full knowledge.
	unsupported := (AllMiningSetupFlags() ^ h.SupportedFlags) & requested
	if unsupported != 0 {
		logger.Info("setup rejected on flags",
			"endpoint", sc.EndpointHost,
			"requested", fmt.Sprintf("%#x", uint32(requested)),
			"unsupported", fmt.Sprintf("%#x", uint32(unsupported)))
		return h.reject(p, SetupErrUnsupportedFeatureFlags, AllMiningSetupFlags()^h.SupportedFlags)
	}

	if sc.MinVersion > h.PreferredVersion || sc.MaxVersion < minProtocolVersion {
		logger.Info("setup rejected on version",
			"endpoint", sc.EndpointHost,
			"client_min", sc.MinVersion, "client_max", sc.MaxVersion,
			"server_max", h.PreferredVersion)
		return h.reject(p, SetupErrProtocolVersionMismatch, 0)
	}
	used := h.PreferredVersion
	if sc.MaxVersion < used {
		used = sc.MaxVersion
	}

	success, err := NewMiningSetupConnectionSuccess(used, h.SuccessFlags)
	if err != nil {
		return err
	}
	b, err := EncodeSetupConnectionSuccessFrame(success)
	if err != nil {
		return err
	}
	p.setSetupConn(&sc)
	p.EnqueueFrame(b)
	logger.Info("setup accepted",
		"endpoint", sc.EndpointHost,
		"version", used,
		"vendor", sc.Vendor,
		"device", sc.HardwareVersion)
	return nil
}

func (h *ServerHandler) reject(p *Peer, code SetupConnectionErrorCode, flags MiningSetupFlags) error {
	msg, err := NewSetupConnectionError(uint32(flags), code)
	if err != nil {
		return err
	}
	b, err := EncodeSetupConnectionErrorFrame(msg)
	if err != nil {
		return err
	}
	p.EnqueueFrame(b)
	return nil
}

// HandleInbound routes one decoded frame for an established peer. Setup
// frames go through connection negotiation; everything else requires setup
// to have completed first.
func (h *ServerHandler) HandleInbound(p *Peer, f Frame) error {
	if f.Type == MsgSetupConnection {
		if p.SetupConn() != nil {
			return fmt.Errorf("%w: repeated setup on established connection", ErrUnexpectedMessageType)
		}
		sc, err := UnframeSetupConnection(f)
		if err != nil {
			return err
		}
		return h.HandleNewConn(p, sc)
	}
	if p.SetupConn() == nil {
		return fmt.Errorf("%w: %s before setup", ErrUnexpectedMessageType, f.Type)
	}
	msg, err := DecodeMiningFramePayload(f)
	if err != nil {
		return err
	}
	return h.handleMiningMessage(p, f.Type, msg)
}

func (h *ServerHandler) handleMiningMessage(p *Peer, mt MessageType, msg any) error {
	switch m := msg.(type) {
	case OpenStandardMiningChannel:
		logger.Debug("open standard channel", "request_id", m.RequestID, "user", m.UserIdentity)
	case OpenExtendedMiningChannel:
		logger.Debug("open extended channel", "request_id", m.RequestID, "user", m.UserIdentity)
	case SubmitSharesStandard:
		logger.Debug("share submitted", "channel", m.ChannelID, "seq", m.SequenceNumber)
	case SubmitSharesExtended:
		logger.Debug("extended share submitted", "channel", m.ChannelID, "seq", m.SequenceNumber)
	case UpdateChannel:
		logger.Debug("channel update", "channel", m.ChannelID)
	case CloseChannel:
		logger.Debug("channel closed", "channel", m.ChannelID, "reason", m.ReasonCode)
	default:
		logger.Debug("mining message", "type", mt.String())
	}
	return nil
}
