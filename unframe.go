package sv2wire

// Typed unframe helpers: each rejects frames whose type tag does not match
// the requested message before decoding the payload.

func UnframeSetupConnection(f Frame) (SetupConnection, error) {
	p, err := unframePayload(f, MsgSetupConnection)
	if err != nil {
		return SetupConnection{}, err
	}
	return decodeSetupConnectionPayload(p)
}

// UnframeSetupConnectionSuccess validates the success flag word against the
// mask of the sub-protocol negotiated for the connection.
func UnframeSetupConnectionSuccess(f Frame, proto Protocol) (SetupConnectionSuccess, error) {
	p, err := unframePayload(f, MsgSetupConnectionSuccess)
	if err != nil {
		return SetupConnectionSuccess{}, err
	}
	return decodeSetupConnectionSuccessPayload(p, proto)
}

func UnframeSetupConnectionError(f Frame) (SetupConnectionError, error) {
	p, err := unframePayload(f, MsgSetupConnectionError)
	if err != nil {
		return SetupConnectionError{}, err
	}
	return decodeSetupConnectionErrorPayload(p)
}

func UnframeChannelEndpointChanged(f Frame) (ChannelEndpointChanged, error) {
	p, err := unframePayload(f, MsgChannelEndpointChanged)
	if err != nil {
		return ChannelEndpointChanged{}, err
	}
	return decodeChannelEndpointChangedPayload(p)
}

func UnframeOpenStandardMiningChannel(f Frame) (OpenStandardMiningChannel, error) {
	p, err := unframePayload(f, MsgOpenStandardMiningChannel)
	if err != nil {
		return OpenStandardMiningChannel{}, err
	}
	return decodeOpenStandardMiningChannelPayload(p)
}

func UnframeOpenStandardMiningChannelSuccess(f Frame) (OpenStandardMiningChannelSuccess, error) {
	p, err := unframePayload(f, MsgOpenStandardMiningChannelSuccess)
	if err != nil {
		return OpenStandardMiningChannelSuccess{}, err
	}
	return decodeOpenStandardMiningChannelSuccessPayload(p)
}

func UnframeNewMiningJob(f Frame) (NewMiningJob, error) {
	p, err := unframePayload(f, MsgNewMiningJob)
	if err != nil {
		return NewMiningJob{}, err
	}
	return decodeNewMiningJobPayload(p)
}

func UnframeSetNewPrevHash(f Frame) (SetNewPrevHash, error) {
	p, err := unframePayload(f, MsgSetNewPrevHash)
	if err != nil {
		return SetNewPrevHash{}, err
	}
	return decodeSetNewPrevHashPayload(p)
}

func UnframeSetTarget(f Frame) (SetTarget, error) {
	p, err := unframePayload(f, MsgSetTarget)
	if err != nil {
		return SetTarget{}, err
	}
	return decodeSetTargetPayload(p)
}

func UnframeSubmitSharesStandard(f Frame) (SubmitSharesStandard, error) {
	p, err := unframePayload(f, MsgSubmitSharesStandard)
	if err != nil {
		return SubmitSharesStandard{}, err
	}
	return decodeSubmitSharesStandardPayload(p)
}
