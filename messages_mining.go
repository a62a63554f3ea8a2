package sv2wire

import "fmt"

// Wire message records for the mining sub-protocol. Field order matches the
// payload byte order exactly; every record has a matching Encode*Frame and
// decode*Payload pair wired into DecodeMiningWireFrame.

type ChannelEndpointChanged struct {
	ChannelID uint32
}

func EncodeChannelEndpointChangedFrame(m ChannelEndpointChanged) ([]byte, error) {
	return encodeMessageFrame(MsgChannelEndpointChanged, func(w *payloadBuilder) error {
		w.u32(m.ChannelID)
		return nil
	})
}

func decodeChannelEndpointChangedPayload(p *byteParser) (ChannelEndpointChanged, error) {
	var m ChannelEndpointChanged
	var err error
	if m.ChannelID, err = p.u32(); err != nil {
		return m, err
	}
	return m, p.expectEnd()
}

// OpenMiningChannelErrorCode enumerates the registered channel-open error
// strings shared by the standard and extended variants.
type OpenMiningChannelErrorCode uint8

const (
	OpenChannelErrUnknownUser OpenMiningChannelErrorCode = iota
	OpenChannelErrMaxTargetOutOfRange
)

var openMiningChannelErrorCodeStrings = map[OpenMiningChannelErrorCode]string{
	OpenChannelErrUnknownUser:         "unknown-user",
	OpenChannelErrMaxTargetOutOfRange: "max-target-out-of-range",
}

func (c OpenMiningChannelErrorCode) String() string {
	if s, ok := openMiningChannelErrorCodeStrings[c]; ok {
		return s
	}
	return fmt.Sprintf("open-channel-error(%d)", uint8(c))
}

func openMiningChannelErrorCodeFromString(s string) (OpenMiningChannelErrorCode, error) {
	for code, str := range openMiningChannelErrorCodeStrings {
		if s == str {
			return code, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownErrorCode, s)
}

type OpenStandardMiningChannel struct {
	RequestID       uint32
	UserIdentity    string // STR0_255
	NominalHashRate float32
	MaxTarget       [32]byte // U256
}

func NewOpenStandardMiningChannel(requestID uint32, userIdentity string,
	nominalHashRate float32, maxTarget [32]byte) (OpenStandardMiningChannel, error) {
	if err := checkStr0(userIdentity, maxStr0_255); err != nil {
		return OpenStandardMiningChannel{}, err
	}
	return OpenStandardMiningChannel{
		RequestID:       requestID,
		UserIdentity:    userIdentity,
		NominalHashRate: nominalHashRate,
		MaxTarget:       maxTarget,
	}, nil
}

func EncodeOpenStandardMiningChannelFrame(m OpenStandardMiningChannel) ([]byte, error) {
	return encodeMessageFrame(MsgOpenStandardMiningChannel, func(w *payloadBuilder) error {
		w.u32(m.RequestID)
		if err := w.str0(m.UserIdentity, maxStr0_255); err != nil {
			return err
		}
		w.f32(m.NominalHashRate)
		w.u256(m.MaxTarget)
		return nil
	})
}

func decodeOpenStandardMiningChannelPayload(p *byteParser) (OpenStandardMiningChannel, error) {
	var m OpenStandardMiningChannel
	var err error
	if m.RequestID, err = p.u32(); err != nil {
		return m, err
	}
	if m.UserIdentity, err = p.str0(maxStr0_255); err != nil {
		return m, err
	}
	if m.NominalHashRate, err = p.f32(); err != nil {
		return m, err
	}
	if m.MaxTarget, err = p.u256(); err != nil {
		return m, err
	}
	return m, p.expectEnd()
}

type OpenStandardMiningChannelSuccess struct {
	RequestID        uint32
	ChannelID        uint32
	Target           [32]byte // U256
	ExtranoncePrefix []byte   // B0_32
	GroupChannelID   uint32
}

func EncodeOpenStandardMiningChannelSuccessFrame(m OpenStandardMiningChannelSuccess) ([]byte, error) {
	return encodeMessageFrame(MsgOpenStandardMiningChannelSuccess, func(w *payloadBuilder) error {
		w.u32(m.RequestID)
		w.u32(m.ChannelID)
		w.u256(m.Target)
		if err := w.b0(m.ExtranoncePrefix, maxB0_32); err != nil {
			return err
		}
		w.u32(m.GroupChannelID)
		return nil
	})
}

func decodeOpenStandardMiningChannelSuccessPayload(p *byteParser) (OpenStandardMiningChannelSuccess, error) {
	var m OpenStandardMiningChannelSuccess
	var err error
	if m.RequestID, err = p.u32(); err != nil {
		return m, err
	}
	if m.ChannelID, err = p.u32(); err != nil {
		return m, err
	}
	if m.Target, err = p.u256(); err != nil {
		return m, err
	}
	if m.ExtranoncePrefix, err = p.b0(maxB0_32); err != nil {
		return m, err
	}
	if m.GroupChannelID, err = p.u32(); err != nil {
		return m, err
	}
	return m, p.expectEnd()
}

// OpenMiningChannelError is the shared payload shape of both channel-open
// error messages; the frame type distinguishes standard from extended.
type OpenMiningChannelError struct {
	RequestID uint32
	ErrorCode OpenMiningChannelErrorCode
}

func encodeOpenMiningChannelErrorFrame(mt MessageType, m OpenMiningChannelError) ([]byte, error) {
	return encodeMessageFrame(mt, func(w *payloadBuilder) error {
		code, ok := openMiningChannelErrorCodeStrings[m.ErrorCode]
		if !ok {
			return fmt.Errorf("%w: code %d", ErrUnknownErrorCode, uint8(m.ErrorCode))
		}
		w.u32(m.RequestID)
		return w.str0(code, maxStr0_255)
	})
}

func EncodeOpenStandardMiningChannelErrorFrame(m OpenMiningChannelError) ([]byte, error) {
	return encodeOpenMiningChannelErrorFrame(MsgOpenStandardMiningChannelError, m)
}

func EncodeOpenExtendedMiningChannelErrorFrame(m OpenMiningChannelError) ([]byte, error) {
	return encodeOpenMiningChannelErrorFrame(MsgOpenExtendedMiningChannelError, m)
}

func decodeOpenMiningChannelErrorPayload(p *byteParser) (OpenMiningChannelError, error) {
	var m OpenMiningChannelError
	var err error
	if m.RequestID, err = p.u32(); err != nil {
		return m, err
	}
	codeStr, err := p.str0(maxStr0_255)
	if err != nil {
		return m, err
	}
	if m.ErrorCode, err = openMiningChannelErrorCodeFromString(codeStr); err != nil {
		return m, err
	}
	return m, p.expectEnd()
}

type OpenExtendedMiningChannel struct {
	OpenStandardMiningChannel
	MinExtranonceSize uint16
}

func EncodeOpenExtendedMiningChannelFrame(m OpenExtendedMiningChannel) ([]byte, error) {
	return encodeMessageFrame(MsgOpenExtendedMiningChannel, func(w *payloadBuilder) error {
		w.u32(m.RequestID)
		if err := w.str0(m.UserIdentity, maxStr0_255); err != nil {
			return err
		}
		w.f32(m.NominalHashRate)
		w.u256(m.MaxTarget)
		w.u16(m.MinExtranonceSize)
		return nil
	})
}

func decodeOpenExtendedMiningChannelPayload(p *byteParser) (OpenExtendedMiningChannel, error) {
	var m OpenExtendedMiningChannel
	var err error
	if m.RequestID, err = p.u32(); err != nil {
		return m, err
	}
	if m.UserIdentity, err = p.str0(maxStr0_255); err != nil {
		return m, err
	}
	if m.NominalHashRate, err = p.f32(); err != nil {
		return m, err
	}
	if m.MaxTarget, err = p.u256(); err != nil {
		return m, err
	}
	if m.MinExtranonceSize, err = p.u16(); err != nil {
		return m, err
	}
	return m, p.expectEnd()
}

type OpenExtendedMiningChannelSuccess struct {
	RequestID        uint32
	ChannelID        uint32
	Target           [32]byte // U256
	ExtranonceSize   uint16
	ExtranoncePrefix []byte // B0_32
	GroupChannelID   uint32
}

func EncodeOpenExtendedMiningChannelSuccessFrame(m OpenExtendedMiningChannelSuccess) ([]byte, error) {
	return encodeMessageFrame(MsgOpenExtendedMiningChannelSuccess, func(w *payloadBuilder) error {
		w.u32(m.RequestID)
		w.u32(m.ChannelID)
		w.u256(m.Target)
		w.u16(m.ExtranonceSize)
		if err := w.b0(m.ExtranoncePrefix, maxB0_32); err != nil {
			return err
		}
		w.u32(m.GroupChannelID)
		return nil
	})
}

func decodeOpenExtendedMiningChannelSuccessPayload(p *byteParser) (OpenExtendedMiningChannelSuccess, error) {
	var m OpenExtendedMiningChannelSuccess
	var err error
	if m.RequestID, err = p.u32(); err != nil {
		return m, err
	}
	if m.ChannelID, err = p.u32(); err != nil {
		return m, err
	}
	if m.Target, err = p.u256(); err != nil {
		return m, err
	}
	if m.ExtranonceSize, err = p.u16(); err != nil {
		return m, err
	}
	if m.ExtranoncePrefix, err = p.b0(maxB0_32); err != nil {
		return m, err
	}
	if m.GroupChannelID, err = p.u32(); err != nil {
		return m, err
	}
	return m, p.expectEnd()
}

type UpdateChannel struct {
	ChannelID       uint32
	NominalHashRate float32
	MaximumTarget   [32]byte // U256
}

func EncodeUpdateChannelFrame(m UpdateChannel) ([]byte, error) {
	return encodeMessageFrame(MsgUpdateChannel, func(w *payloadBuilder) error {
		w.u32(m.ChannelID)
		w.f32(m.NominalHashRate)
		w.u256(m.MaximumTarget)
		return nil
	})
}

func decodeUpdateChannelPayload(p *byteParser) (UpdateChannel, error) {
	var m UpdateChannel
	var err error
	if m.ChannelID, err = p.u32(); err != nil {
		return m, err
	}
	if m.NominalHashRate, err = p.f32(); err != nil {
		return m, err
	}
	if m.MaximumTarget, err = p.u256(); err != nil {
		return m, err
	}
	return m, p.expectEnd()
}

type UpdateChannelError struct {
	ChannelID uint32
	ErrorCode string // STR0_255
}

func EncodeUpdateChannelErrorFrame(m UpdateChannelError) ([]byte, error) {
	return encodeMessageFrame(MsgUpdateChannelError, func(w *payloadBuilder) error {
		w.u32(m.ChannelID)
		return w.str0(m.ErrorCode, maxStr0_255)
	})
}

func decodeUpdateChannelErrorPayload(p *byteParser) (UpdateChannelError, error) {
	var m UpdateChannelError
	var err error
	if m.ChannelID, err = p.u32(); err != nil {
		return m, err
	}
	if m.ErrorCode, err = p.str0(maxStr0_255); err != nil {
		return m, err
	}
	return m, p.expectEnd()
}

type CloseChannel struct {
	ChannelID  uint32
	ReasonCode string // STR0_255
}

func EncodeCloseChannelFrame(m CloseChannel) ([]byte, error) {
	return encodeMessageFrame(MsgCloseChannel, func(w *payloadBuilder) error {
		w.u32(m.ChannelID)
		return w.str0(m.ReasonCode, maxStr0_255)
	})
}

func decodeCloseChannelPayload(p *byteParser) (CloseChannel, error) {
	var m CloseChannel
	var err error
	if m.ChannelID, err = p.u32(); err != nil {
		return m, err
	}
	if m.ReasonCode, err = p.str0(maxStr0_255); err != nil {
		return m, err
	}
	return m, p.expectEnd()
}

type SetExtranoncePrefix struct {
	ChannelID        uint32
	ExtranoncePrefix []byte // B0_32
}

func EncodeSetExtranoncePrefixFrame(m SetExtranoncePrefix) ([]byte, error) {
	return encodeMessageFrame(MsgSetExtranoncePrefix, func(w *payloadBuilder) error {
		w.u32(m.ChannelID)
		return w.b0(m.ExtranoncePrefix, maxB0_32)
	})
}

func decodeSetExtranoncePrefixPayload(p *byteParser) (SetExtranoncePrefix, error) {
	var m SetExtranoncePrefix
	var err error
	if m.ChannelID, err = p.u32(); err != nil {
		return m, err
	}
	if m.ExtranoncePrefix, err = p.b0(maxB0_32); err != nil {
		return m, err
	}
	return m, p.expectEnd()
}

type SubmitSharesStandard struct {
	ChannelID      uint32
	SequenceNumber uint32
	JobID          uint32
	Nonce          uint32
	NTime          uint32
	Version        uint32
}

func EncodeSubmitSharesStandardFrame(m SubmitSharesStandard) ([]byte, error) {
	return encodeMessageFrame(MsgSubmitSharesStandard, func(w *payloadBuilder) error {
		w.u32(m.ChannelID)
		w.u32(m.SequenceNumber)
		w.u32(m.JobID)
		w.u32(m.Nonce)
		w.u32(m.NTime)
		w.u32(m.Version)
		return nil
	})
}

func decodeSubmitSharesStandardPayload(p *byteParser) (SubmitSharesStandard, error) {
	m, err := decodeSubmitSharesStandardFields(p)
	if err != nil {
		return m, err
	}
	return m, p.expectEnd()
}

type SubmitSharesExtended struct {
	SubmitSharesStandard
	Extranonce []byte // B0_32
}

func EncodeSubmitSharesExtendedFrame(m SubmitSharesExtended) ([]byte, error) {
	return encodeMessageFrame(MsgSubmitSharesExtended, func(w *payloadBuilder) error {
		w.u32(m.ChannelID)
		w.u32(m.SequenceNumber)
		w.u32(m.JobID)
		w.u32(m.Nonce)
		w.u32(m.NTime)
		w.u32(m.Version)
		return w.b0(m.Extranonce, maxB0_32)
	})
}

func decodeSubmitSharesExtendedPayload(p *byteParser) (SubmitSharesExtended, error) {
	var m SubmitSharesExtended
	std, err := decodeSubmitSharesStandardFields(p)
	if err != nil {
		return m, err
	}
	m.SubmitSharesStandard = std
	if m.Extranonce, err = p.b0(maxB0_32); err != nil {
		return m, err
	}
	return m, p.expectEnd()
}

func decodeSubmitSharesStandardFields(p *byteParser) (SubmitSharesStandard, error) {
	var m SubmitSharesStandard
	for _, dst := range []*uint32{&m.ChannelID, &m.SequenceNumber, &m.JobID, &m.Nonce, &m.NTime, &m.Version} {
		v, err := p.u32()
		if err != nil {
			return m, err
		}
		*dst = v
	}
	return m, nil
}

type SubmitSharesSuccess struct {
	ChannelID               uint32
	LastSequenceNumber      uint32
	NewSubmitsAcceptedCount uint32
	NewSharesSum            uint64
}

func EncodeSubmitSharesSuccessFrame(m SubmitSharesSuccess) ([]byte, error) {
	return encodeMessageFrame(MsgSubmitSharesSuccess, func(w *payloadBuilder) error {
		w.u32(m.ChannelID)
		w.u32(m.LastSequenceNumber)
		w.u32(m.NewSubmitsAcceptedCount)
		w.u64(m.NewSharesSum)
		return nil
	})
}

func decodeSubmitSharesSuccessPayload(p *byteParser) (SubmitSharesSuccess, error) {
	var m SubmitSharesSuccess
	var err error
	if m.ChannelID, err = p.u32(); err != nil {
		return m, err
	}
	if m.LastSequenceNumber, err = p.u32(); err != nil {
		return m, err
	}
	if m.NewSubmitsAcceptedCount, err = p.u32(); err != nil {
		return m, err
	}
	if m.NewSharesSum, err = p.u64(); err != nil {
		return m, err
	}
	return m, p.expectEnd()
}

type SubmitSharesError struct {
	ChannelID      uint32
	SequenceNumber uint32
	ErrorCode      string // STR0_255
}

func EncodeSubmitSharesErrorFrame(m SubmitSharesError) ([]byte, error) {
	return encodeMessageFrame(MsgSubmitSharesError, func(w *payloadBuilder) error {
		w.u32(m.ChannelID)
		w.u32(m.SequenceNumber)
		return w.str0(m.ErrorCode, maxStr0_255)
	})
}

func decodeSubmitSharesErrorPayload(p *byteParser) (SubmitSharesError, error) {
	var m SubmitSharesError
	var err error
	if m.ChannelID, err = p.u32(); err != nil {
		return m, err
	}
	if m.SequenceNumber, err = p.u32(); err != nil {
		return m, err
	}
	if m.ErrorCode, err = p.str0(maxStr0_255); err != nil {
		return m, err
	}
	return m, p.expectEnd()
}

// NewMiningJob carries the header fields a standard channel needs to start
// hashing. MinNTime is optional on the wire: a presence byte followed by the
// timestamp only when set.
type NewMiningJob struct {
	ChannelID   uint32
	JobID       uint32
	HasMinNTime bool
	MinNTime    uint32
	Version     uint32
	MerkleRoot  [32]byte // U256
}

func EncodeNewMiningJobFrame(m NewMiningJob) ([]byte, error) {
	return encodeMessageFrame(MsgNewMiningJob, func(w *payloadBuilder) error {
		w.u32(m.ChannelID)
		w.u32(m.JobID)
		w.boolean(m.HasMinNTime)
		if m.HasMinNTime {
			w.u32(m.MinNTime)
		}
		w.u32(m.Version)
		w.u256(m.MerkleRoot)
		return nil
	})
}

func decodeNewMiningJobPayload(p *byteParser) (NewMiningJob, error) {
	var m NewMiningJob
	var err error
	if m.ChannelID, err = p.u32(); err != nil {
		return m, err
	}
	if m.JobID, err = p.u32(); err != nil {
		return m, err
	}
	if m.HasMinNTime, err = p.boolean(); err != nil {
		return m, err
	}
	if m.HasMinNTime {
		if m.MinNTime, err = p.u32(); err != nil {
			return m, err
		}
	}
	if m.Version, err = p.u32(); err != nil {
		return m, err
	}
	if m.MerkleRoot, err = p.u256(); err != nil {
		return m, err
	}
	return m, p.expectEnd()
}

type NewExtendedMiningJob struct {
	ChannelID        uint32
	JobID            uint32
	HasMinNTime      bool
	MinNTime         uint32
	Version          uint32
	CoinbaseTxPrefix []byte     // B0_64K
	CoinbaseTxSuffix []byte     // B0_64K
	MerklePath       [][32]byte // u8 count, then count hashes
}

func EncodeNewExtendedMiningJobFrame(m NewExtendedMiningJob) ([]byte, error) {
	return encodeMessageFrame(MsgNewExtendedMiningJob, func(w *payloadBuilder) error {
		w.u32(m.ChannelID)
		w.u32(m.JobID)
		w.boolean(m.HasMinNTime)
		if m.HasMinNTime {
			w.u32(m.MinNTime)
		}
		w.u32(m.Version)
		if err := w.b0(m.CoinbaseTxPrefix, maxB0_64K); err != nil {
			return err
		}
		if err := w.b0(m.CoinbaseTxSuffix, maxB0_64K); err != nil {
			return err
		}
		if len(m.MerklePath) > 255 {
			return fmt.Errorf("%w: merkle path length %d exceeds 255", ErrRequirement, len(m.MerklePath))
		}
		w.u8(uint8(len(m.MerklePath)))
		for _, h := range m.MerklePath {
			w.u256(h)
		}
		return nil
	})
}

func decodeNewExtendedMiningJobPayload(p *byteParser) (NewExtendedMiningJob, error) {
	var m NewExtendedMiningJob
	var err error
	if m.ChannelID, err = p.u32(); err != nil {
		return m, err
	}
	if m.JobID, err = p.u32(); err != nil {
		return m, err
	}
	if m.HasMinNTime, err = p.boolean(); err != nil {
		return m, err
	}
	if m.HasMinNTime {
		if m.MinNTime, err = p.u32(); err != nil {
			return m, err
		}
	}
	if m.Version, err = p.u32(); err != nil {
		return m, err
	}
	if m.CoinbaseTxPrefix, err = p.b0(maxB0_64K); err != nil {
		return m, err
	}
	if m.CoinbaseTxSuffix, err = p.b0(maxB0_64K); err != nil {
		return m, err
	}
	pathLen, err := p.u8()
	if err != nil {
		return m, err
	}
	if pathLen > 0 {
		m.MerklePath = make([][32]byte, pathLen)
		for i := range m.MerklePath {
			if m.MerklePath[i], err = p.u256(); err != nil {
				return m, err
			}
		}
	}
	return m, p.expectEnd()
}

type SetNewPrevHash struct {
	ChannelID uint32
	JobID     uint32
	PrevHash  [32]byte // U256
	MinNTime  uint32
	NBits     uint32
}

func EncodeSetNewPrevHashFrame(m SetNewPrevHash) ([]byte, error) {
	return encodeMessageFrame(MsgSetNewPrevHash, func(w *payloadBuilder) error {
		w.u32(m.ChannelID)
		w.u32(m.JobID)
		w.u256(m.PrevHash)
		w.u32(m.MinNTime)
		w.u32(m.NBits)
		return nil
	})
}

func decodeSetNewPrevHashPayload(p *byteParser) (SetNewPrevHash, error) {
	var m SetNewPrevHash
	var err error
	if m.ChannelID, err = p.u32(); err != nil {
		return m, err
	}
	if m.JobID, err = p.u32(); err != nil {
		return m, err
	}
	if m.PrevHash, err = p.u256(); err != nil {
		return m, err
	}
	if m.MinNTime, err = p.u32(); err != nil {
		return m, err
	}
	if m.NBits, err = p.u32(); err != nil {
		return m, err
	}
	return m, p.expectEnd()
}

type SetTarget struct {
	ChannelID     uint32
	MaximumTarget [32]byte // U256
}

func EncodeSetTargetFrame(m SetTarget) ([]byte, error) {
	return encodeMessageFrame(MsgSetTarget, func(w *payloadBuilder) error {
		w.u32(m.ChannelID)
		w.u256(m.MaximumTarget)
		return nil
	})
}

func decodeSetTargetPayload(p *byteParser) (SetTarget, error) {
	var m SetTarget
	var err error
	if m.ChannelID, err = p.u32(); err != nil {
		return m, err
	}
	if m.MaximumTarget, err = p.u256(); err != nil {
		return m, err
	}
	return m, p.expectEnd()
}

type SetCustomMiningJob struct {
	ChannelID        uint32
	RequestID        uint32
	Token            []byte // B0_255
	Version          uint32
	PrevHash         [32]byte // U256
	MinNTime         uint32
	NBits            uint32
	CoinbaseTxPrefix []byte // B0_64K
	CoinbaseTxSuffix []byte // B0_64K
}

func EncodeSetCustomMiningJobFrame(m SetCustomMiningJob) ([]byte, error) {
	return encodeMessageFrame(MsgSetCustomMiningJob, func(w *payloadBuilder) error {
		w.u32(m.ChannelID)
		w.u32(m.RequestID)
		if err := w.b0(m.Token, maxB0_255); err != nil {
			return err
		}
		w.u32(m.Version)
		w.u256(m.PrevHash)
		w.u32(m.MinNTime)
		w.u32(m.NBits)
		if err := w.b0(m.CoinbaseTxPrefix, maxB0_64K); err != nil {
			return err
		}
		return w.b0(m.CoinbaseTxSuffix, maxB0_64K)
	})
}

func decodeSetCustomMiningJobPayload(p *byteParser) (SetCustomMiningJob, error) {
	var m SetCustomMiningJob
	var err error
	if m.ChannelID, err = p.u32(); err != nil {
		return m, err
	}
	if m.RequestID, err = p.u32(); err != nil {
		return m, err
	}
	if m.Token, err = p.b0(maxB0_255); err != nil {
		return m, err
	}
	if m.Version, err = p.u32(); err != nil {
		return m, err
	}
	if m.PrevHash, err = p.u256(); err != nil {
		return m, err
	}
	if m.MinNTime, err = p.u32(); err != nil {
		return m, err
	}
	if m.NBits, err = p.u32(); err != nil {
		return m, err
	}
	if m.CoinbaseTxPrefix, err = p.b0(maxB0_64K); err != nil {
		return m, err
	}
	if m.CoinbaseTxSuffix, err = p.b0(maxB0_64K); err != nil {
		return m, err
	}
	return m, p.expectEnd()
}

type SetCustomMiningJobSuccess struct {
	ChannelID uint32
	RequestID uint32
	JobID     uint32
}

func EncodeSetCustomMiningJobSuccessFrame(m SetCustomMiningJobSuccess) ([]byte, error) {
	return encodeMessageFrame(MsgSetCustomMiningJobSuccess, func(w *payloadBuilder) error {
		w.u32(m.ChannelID)
		w.u32(m.RequestID)
		w.u32(m.JobID)
		return nil
	})
}

func decodeSetCustomMiningJobSuccessPayload(p *byteParser) (SetCustomMiningJobSuccess, error) {
	var m SetCustomMiningJobSuccess
	var err error
	if m.ChannelID, err = p.u32(); err != nil {
		return m, err
	}
	if m.RequestID, err = p.u32(); err != nil {
		return m, err
	}
	if m.JobID, err = p.u32(); err != nil {
		return m, err
	}
	return m, p.expectEnd()
}

type SetCustomMiningJobError struct {
	ChannelID uint32
	RequestID uint32
	ErrorCode string // STR0_255
}

func EncodeSetCustomMiningJobErrorFrame(m SetCustomMiningJobError) ([]byte, error) {
	return encodeMessageFrame(MsgSetCustomMiningJobError, func(w *payloadBuilder) error {
		w.u32(m.ChannelID)
		w.u32(m.RequestID)
		return w.str0(m.ErrorCode, maxStr0_255)
	})
}

func decodeSetCustomMiningJobErrorPayload(p *byteParser) (SetCustomMiningJobError, error) {
	var m SetCustomMiningJobError
	var err error
	if m.ChannelID, err = p.u32(); err != nil {
		return m, err
	}
	if m.RequestID, err = p.u32(); err != nil {
		return m, err
	}
	if m.ErrorCode, err = p.str0(maxStr0_255); err != nil {
		return m, err
	}
	return m, p.expectEnd()
}

type Reconnect struct {
	NewHost string // STR0_255
	NewPort uint16
}

func EncodeReconnectFrame(m Reconnect) ([]byte, error) {
	return encodeMessageFrame(MsgReconnect, func(w *payloadBuilder) error {
		if err := w.str0(m.NewHost, maxStr0_255); err != nil {
			return err
		}
		w.u16(m.NewPort)
		return nil
	})
}

func decodeReconnectPayload(p *byteParser) (Reconnect, error) {
	var m Reconnect
	var err error
	if m.NewHost, err = p.str0(maxStr0_255); err != nil {
		return m, err
	}
	if m.NewPort, err = p.u16(); err != nil {
		return m, err
	}
	return m, p.expectEnd()
}

type SetGroupChannel struct {
	GroupChannelID uint32
	ChannelIDs     []uint32 // u16 count, then count ids
}

func EncodeSetGroupChannelFrame(m SetGroupChannel) ([]byte, error) {
	return encodeMessageFrame(MsgSetGroupChannel, func(w *payloadBuilder) error {
		w.u32(m.GroupChannelID)
		if len(m.ChannelIDs) > 0xFFFF {
			return fmt.Errorf("%w: channel list length %d exceeds 65535", ErrRequirement, len(m.ChannelIDs))
		}
		w.u16(uint16(len(m.ChannelIDs)))
		for _, id := range m.ChannelIDs {
			w.u32(id)
		}
		return nil
	})
}

func decodeSetGroupChannelPayload(p *byteParser) (SetGroupChannel, error) {
	var m SetGroupChannel
	var err error
	if m.GroupChannelID, err = p.u32(); err != nil {
		return m, err
	}
	count, err := p.u16()
	if err != nil {
		return m, err
	}
	if count > 0 {
		m.ChannelIDs = make([]uint32, count)
		for i := range m.ChannelIDs {
			if m.ChannelIDs[i], err = p.u32(); err != nil {
				return m, err
			}
		}
	}
	return m, p.expectEnd()
}

// DecodeMiningWireFrame decodes a complete frame from a mining sub-protocol
// connection into its typed record. SetupConnection.Success flag validation
// uses the mining success mask since this entry point serves mining links.
func DecodeMiningWireFrame(b []byte) (any, error) {
	frame, err := DecodeFrame(b)
	if err != nil {
		return nil, err
	}
	return DecodeMiningFramePayload(frame)
}

// DecodeMiningFramePayload decodes an already-parsed frame's payload.
func DecodeMiningFramePayload(frame Frame) (any, error) {
	p := newByteParser(frame.Payload)
	switch frame.Type {
	case MsgSetupConnection:
		return decodeSetupConnectionPayload(p)
	case MsgSetupConnectionSuccess:
		return decodeSetupConnectionSuccessPayload(p, ProtocolMining)
	case MsgSetupConnectionError:
		return decodeSetupConnectionErrorPayload(p)
	case MsgChannelEndpointChanged:
		return decodeChannelEndpointChangedPayload(p)
	case MsgOpenStandardMiningChannel:
		return decodeOpenStandardMiningChannelPayload(p)
	case MsgOpenStandardMiningChannelSuccess:
		return decodeOpenStandardMiningChannelSuccessPayload(p)
	case MsgOpenStandardMiningChannelError, MsgOpenExtendedMiningChannelError:
		return decodeOpenMiningChannelErrorPayload(p)
	case MsgOpenExtendedMiningChannel:
		return decodeOpenExtendedMiningChannelPayload(p)
	case MsgOpenExtendedMiningChannelSuccess:
		return decodeOpenExtendedMiningChannelSuccessPayload(p)
	case MsgUpdateChannel:
		return decodeUpdateChannelPayload(p)
	case MsgUpdateChannelError:
		return decodeUpdateChannelErrorPayload(p)
	case MsgCloseChannel:
		return decodeCloseChannelPayload(p)
	case MsgSetExtranoncePrefix:
		return decodeSetExtranoncePrefixPayload(p)
	case MsgSubmitSharesStandard:
		return decodeSubmitSharesStandardPayload(p)
	case MsgSubmitSharesExtended:
		return decodeSubmitSharesExtendedPayload(p)
	case MsgSubmitSharesSuccess:
		return decodeSubmitSharesSuccessPayload(p)
	case MsgSubmitSharesError:
		return decodeSubmitSharesErrorPayload(p)
	case MsgNewMiningJob:
		return decodeNewMiningJobPayload(p)
	case MsgNewExtendedMiningJob:
		return decodeNewExtendedMiningJobPayload(p)
	case MsgSetNewPrevHash:
		return decodeSetNewPrevHashPayload(p)
	case MsgSetTarget:
		return decodeSetTargetPayload(p)
	case MsgSetCustomMiningJob:
		return decodeSetCustomMiningJobPayload(p)
	case MsgSetCustomMiningJobSuccess:
		return decodeSetCustomMiningJobSuccessPayload(p)
	case MsgSetCustomMiningJobError:
		return decodeSetCustomMiningJobErrorPayload(p)
	case MsgReconnect:
		return decodeReconnectPayload(p)
	case MsgSetGroupChannel:
		return decodeSetGroupChannelPayload(p)
	default:
		return nil, fmt.Errorf("%w: no payload decoder for %s", ErrUnknownMessageType, frame.Type)
	}
}
