package sv2wire

import "fmt"

// Protocol is the SetupConnection sub-protocol discriminant byte.
type Protocol uint8

const (
	ProtocolMining               Protocol = 0
	ProtocolJobNegotiation       Protocol = 1
	ProtocolTemplateDistribution Protocol = 2
	ProtocolJobDistribution      Protocol = 3
)

func (p Protocol) valid() bool { return p <= ProtocolJobDistribution }

func (p Protocol) String() string {
	switch p {
	case ProtocolMining:
		return "mining"
	case ProtocolJobNegotiation:
		return "job-negotiation"
	case ProtocolTemplateDistribution:
		return "template-distribution"
	case ProtocolJobDistribution:
		return "job-distribution"
	default:
		return fmt.Sprintf("protocol(%d)", uint8(p))
	}
}

// Capability flag sets, one u32 bit-field type per (sub-protocol, direction).
// Deserializing a value with bits outside the defined mask is rejected.

type MiningSetupFlags uint32

const (
	MiningFlagRequiresStandardJobs   MiningSetupFlags = 1 << 0
	MiningFlagRequiresWorkSelection  MiningSetupFlags = 1 << 1
	MiningFlagRequiresVersionRolling MiningSetupFlags = 1 << 2

	miningSetupFlagsMask = MiningFlagRequiresStandardJobs |
		MiningFlagRequiresWorkSelection |
		MiningFlagRequiresVersionRolling
)

func AllMiningSetupFlags() MiningSetupFlags { return miningSetupFlagsMask }

func (f MiningSetupFlags) Contains(other MiningSetupFlags) bool { return f&other == other }
func (f MiningSetupFlags) IsEmpty() bool                        { return f == 0 }

type MiningSetupSuccessFlags uint32

const (
	MiningSuccessFlagRequiresFixedVersion     MiningSetupSuccessFlags = 1 << 0
	MiningSuccessFlagRequiresExtendedChannels MiningSetupSuccessFlags = 1 << 1

	miningSetupSuccessFlagsMask = MiningSuccessFlagRequiresFixedVersion |
		MiningSuccessFlagRequiresExtendedChannels
)

func (f MiningSetupSuccessFlags) Contains(other MiningSetupSuccessFlags) bool {
	return f&other == other
}
func (f MiningSetupSuccessFlags) IsEmpty() bool { return f == 0 }

type JobNegotiationSetupFlags uint32

const (
	JobNegotiationFlagRequiresAsyncJobMining JobNegotiationSetupFlags = 1 << 0

	jobNegotiationSetupFlagsMask = JobNegotiationFlagRequiresAsyncJobMining
)

func (f JobNegotiationSetupFlags) Contains(other JobNegotiationSetupFlags) bool {
	return f&other == other
}
func (f JobNegotiationSetupFlags) IsEmpty() bool { return f == 0 }

// Template and job distribution define no capability flags yet; their masks
// are zero so any set bit is rejected at decode time.
const (
	templateDistributionSetupFlagsMask uint32 = 0
	jobDistributionSetupFlagsMask      uint32 = 0
	successFlagsMaskNone               uint32 = 0
)

func setupFlagsMask(p Protocol) (uint32, error) {
	switch p {
	case ProtocolMining:
		return uint32(miningSetupFlagsMask), nil
	case ProtocolJobNegotiation:
		return uint32(jobNegotiationSetupFlagsMask), nil
	case ProtocolTemplateDistribution:
		return templateDistributionSetupFlagsMask, nil
	case ProtocolJobDistribution:
		return jobDistributionSetupFlagsMask, nil
	default:
		return 0, fmt.Errorf("%w: protocol discriminant %d", ErrUnknownMessageType, uint8(p))
	}
}

func setupSuccessFlagsMask(p Protocol) (uint32, error) {
	switch p {
	case ProtocolMining:
		return uint32(miningSetupSuccessFlagsMask), nil
	case ProtocolJobNegotiation, ProtocolTemplateDistribution, ProtocolJobDistribution:
		return successFlagsMaskNone, nil
	default:
		return 0, fmt.Errorf("%w: protocol discriminant %d", ErrUnknownMessageType, uint8(p))
	}
}

// checkFlagsAgainstMask rejects wire flag words carrying undefined bits.
func checkFlagsAgainstMask(v, mask uint32) error {
	if v&^mask != 0 {
		return fmt.Errorf("%w: bits %#08x outside mask %#08x", ErrUnknownFlags, v&^mask, mask)
	}
	return nil
}

func miningSetupFlagsFromWire(v uint32) (MiningSetupFlags, error) {
	if err := checkFlagsAgainstMask(v, uint32(miningSetupFlagsMask)); err != nil {
		return 0, err
	}
	return MiningSetupFlags(v), nil
}

func miningSetupSuccessFlagsFromWire(v uint32) (MiningSetupSuccessFlags, error) {
	if err := checkFlagsAgainstMask(v, uint32(miningSetupSuccessFlagsMask)); err != nil {
		return 0, err
	}
	return MiningSetupSuccessFlags(v), nil
}

func jobNegotiationSetupFlagsFromWire(v uint32) (JobNegotiationSetupFlags, error) {
	if err := checkFlagsAgainstMask(v, uint32(jobNegotiationSetupFlagsMask)); err != nil {
		return 0, err
	}
	return JobNegotiationSetupFlags(v), nil
}
