package sv2wire

import "errors"

// Every decode/construct/handshake failure in this package wraps exactly one
// of these sentinels, so callers can branch with errors.Is without parsing
// message text.
var (
	ErrParse                 = errors.New("sv2 parse error")
	ErrRequirement           = errors.New("sv2 requirement violation")
	ErrVersion               = errors.New("sv2 unsupported protocol version")
	ErrUTF8                  = errors.New("sv2 invalid utf-8")
	ErrUnknownMessageType    = errors.New("sv2 unknown message type")
	ErrUnexpectedMessageType = errors.New("sv2 unexpected message type")
	ErrUnexpectedChannelBit  = errors.New("sv2 unexpected channel bit")
	ErrUnknownFlags          = errors.New("sv2 unknown flags")
	ErrUnknownErrorCode      = errors.New("sv2 unknown error code")
	ErrAuthorityKey          = errors.New("sv2 authority key verification failed")
	ErrSystemTime            = errors.New("sv2 system time before unix epoch")
	ErrNoise                 = errors.New("sv2 noise failure")
	ErrIO                    = errors.New("sv2 write failed")
)
