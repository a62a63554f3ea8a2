package sv2wire

import "fmt"

// ConnectionEncryptor is the role-aware handshake/transport wrapper the I/O
// driver talks to. Inbound connections are noise responders, outbound
// connections are initiators. A handshake failure poisons the encryptor; the
// caller must drop the connection.
type ConnectionEncryptor struct {
	session   *NoiseSession
	initiator bool
	failed    bool
}

// NewInboundEncryptor wraps a responder session for an accepted connection.
func NewInboundEncryptor(static *StaticKeyPair) (*ConnectionEncryptor, error) {
	s, err := NewNoiseResponder(static)
	if err != nil {
		return nil, err
	}
	return &ConnectionEncryptor{session: s}, nil
}

// NewOutboundEncryptor wraps an initiator session for a dialed connection.
func NewOutboundEncryptor() (*ConnectionEncryptor, error) {
	s, err := NewNoiseInitiator()
	if err != nil {
		return nil, err
	}
	return &ConnectionEncryptor{session: s, initiator: true}, nil
}

// InitHandshake produces the initiator's first handshake message. Responders
// never call it; they only react to received bytes.
func (e *ConnectionEncryptor) InitHandshake() ([]byte, error) {
	if e.failed {
		return nil, fmt.Errorf("%w: encryptor poisoned by earlier failure", ErrNoise)
	}
	if !e.initiator {
		return nil, fmt.Errorf("%w: inbound encryptor cannot initiate", ErrNoise)
	}
	out, err := e.session.SendMessage(nil)
	if err != nil {
		e.failed = true
		return nil, err
	}
	return out, nil
}

// RecvHandshake consumes one inbound handshake message and returns any bytes
// to send back (empty once the handshake is complete on this side).
func (e *ConnectionEncryptor) RecvHandshake(buf []byte) ([]byte, error) {
	if e.failed {
		return nil, fmt.Errorf("%w: encryptor poisoned by earlier failure", ErrNoise)
	}
	if e.session.IsTransport() {
		return nil, fmt.Errorf("%w: handshake already complete", ErrNoise)
	}
	if _, err := e.session.RecvMessage(buf); err != nil {
		e.failed = true
		return nil, err
	}
	if e.initiator {
		// NX message 2 completes the initiator's handshake; nothing to emit.
		if hash, ok := e.session.HandshakeHash(); ok {
			logger.Debug("noise handshake complete", "role", "initiator", "binding", keyFingerprint(hash[:]))
		}
		return nil, nil
	}
	reply, err := e.session.SendMessage(nil)
	if err != nil {
		e.failed = true
		return nil, err
	}
	if hash, ok := e.session.HandshakeHash(); ok {
		logger.Debug("noise handshake complete", "role", "responder", "binding", keyFingerprint(hash[:]))
	}
	return reply, nil
}

// IsHandshakeComplete reports whether the session reached transport state.
func (e *ConnectionEncryptor) IsHandshakeComplete() bool {
	return !e.failed && e.session.IsTransport()
}

// Encrypt AEAD-seals a plaintext payload once in transport.
func (e *ConnectionEncryptor) Encrypt(buf []byte) ([]byte, error) {
	if !e.IsHandshakeComplete() {
		return nil, fmt.Errorf("%w: encrypt before handshake completion", ErrNoise)
	}
	return e.session.SendMessage(buf)
}

// Decrypt opens a ciphertext payload once in transport.
func (e *ConnectionEncryptor) Decrypt(buf []byte) ([]byte, error) {
	if !e.IsHandshakeComplete() {
		return nil, fmt.Errorf("%w: decrypt before handshake completion", ErrNoise)
	}
	return e.session.RecvMessage(buf)
}

// RemoteStaticPublicKey exposes the responder static key for certificate
// verification on the initiator side.
func (e *ConnectionEncryptor) RemoteStaticPublicKey() (StaticPublicKey, bool) {
	return e.session.RemoteStaticPublicKey()
}

// HandshakeHash exposes the channel binding digest once in transport.
func (e *ConnectionEncryptor) HandshakeHash() ([32]byte, bool) {
	return e.session.HandshakeHash()
}
