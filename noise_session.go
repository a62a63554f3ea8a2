package sv2wire

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/flynn/noise"
)

// Noise protocol parameters fixed by the transport design: two-message NX
// handshake, responder static key authenticated out-of-band via the pool
// authority certificate.
const (
	noiseProtocolName = "Noise_NX_25519_ChaChaPoly_SHA256"

	// NoiseMaxMessageLen bounds one noise message in either direction:
	// handshake material plus certificate payload, or a frame plus the
	// 16-byte AEAD tag. The protocol's messages all fit in 1024 bytes.
	NoiseMaxMessageLen = 1024
)

var noiseCipherSuite = noise.NewCipherSuite(noise.DH25519, noise.CipherChaChaPoly, noise.HashSHA256)

// StaticPublicKey is a Curve25519 public key used as the responder's noise
// static key.
type StaticPublicKey [32]byte

// StaticKeyPair is the responder-side Curve25519 static keypair. The private
// half never leaves this package.
type StaticKeyPair struct {
	public  StaticPublicKey
	private [32]byte
}

func (k StaticKeyPair) Public() StaticPublicKey { return k.public }

// GenerateStaticKeyPair sources a fresh Curve25519 keypair from rng
// (crypto/rand when nil).
func GenerateStaticKeyPair(rng io.Reader) (StaticKeyPair, error) {
	if rng == nil {
		rng = rand.Reader
	}
	dh, err := noise.DH25519.GenerateKeypair(rng)
	if err != nil {
		return StaticKeyPair{}, fmt.Errorf("%w: generate static keypair: %v", ErrNoise, err)
	}
	var kp StaticKeyPair
	copy(kp.public[:], dh.Public)
	copy(kp.private[:], dh.Private)
	return kp, nil
}

func (k StaticKeyPair) dhKey() noise.DHKey {
	return noise.DHKey{
		Public:  append([]byte(nil), k.public[:]...),
		Private: append([]byte(nil), k.private[:]...),
	}
}

type noiseSessionState uint8

const (
	noiseStateInit noiseSessionState = iota
	noiseStateWaitResp // initiator sent e, waiting for responder
	noiseStateHaveE    // responder consumed e, must reply
	noiseStateTransport
	noiseStateFailed
)

// NoiseSession runs the NX pattern and, after the split, the AEAD transport.
// It never touches a socket; callers move the returned byte slices.
type NoiseSession struct {
	initiator bool
	state     noiseSessionState
	hs        *noise.HandshakeState

	send *noise.CipherState
	recv *noise.CipherState

	handshakeHash []byte
	remoteStatic  []byte
}

// NewNoiseInitiator creates the client-side session.
func NewNoiseInitiator() (*NoiseSession, error) {
	return newNoiseSession(true, nil, rand.Reader)
}

// NewNoiseResponder creates the server-side session. A static keypair is
// generated when none is supplied.
func NewNoiseResponder(static *StaticKeyPair) (*NoiseSession, error) {
	return newNoiseSession(false, static, rand.Reader)
}

func newNoiseSession(initiator bool, static *StaticKeyPair, rng io.Reader) (*NoiseSession, error) {
	cfg := noise.Config{
		CipherSuite: noiseCipherSuite,
		Pattern:     noise.HandshakeNX,
		Initiator:   initiator,
		Random:      rng,
	}
	if !initiator {
		if static == nil {
			kp, err := GenerateStaticKeyPair(rng)
			if err != nil {
				return nil, err
			}
			static = &kp
		}
		cfg.StaticKeypair = static.dhKey()
	}
	hs, err := noise.NewHandshakeState(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: new handshake state: %v", ErrNoise, err)
	}
	return &NoiseSession{initiator: initiator, state: noiseStateInit, hs: hs}, nil
}

// SendMessage produces the next outbound noise message. During the handshake
// it writes the pattern's tokens with payload as handshake payload; in
// transport it AEAD-encrypts payload.
func (s *NoiseSession) SendMessage(payload []byte) ([]byte, error) {
	switch s.state {
	case noiseStateInit:
		if !s.initiator {
			return nil, s.fail("responder cannot send the first handshake message")
		}
		out, _, _, err := s.hs.WriteMessage(nil, payload)
		if err != nil {
			return nil, s.fail("write handshake message: %v", err)
		}
		s.state = noiseStateWaitResp
		return out, nil
	case noiseStateHaveE:
		out, cs1, cs2, err := s.hs.WriteMessage(nil, payload)
		if err != nil {
			return nil, s.fail("write handshake reply: %v", err)
		}
		s.enterTransport(cs1, cs2)
		return out, nil
	case noiseStateTransport:
		out, err := s.send.Encrypt(nil, nil, payload)
		if err != nil {
			return nil, fmt.Errorf("%w: transport encrypt: %v", ErrNoise, err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: send in state %d", ErrNoise, s.state)
	}
}

// RecvMessage consumes one inbound noise message and returns its plaintext
// payload. During the handshake the payload is the peer's handshake payload;
// in transport it is the decrypted frame bytes.
func (s *NoiseSession) RecvMessage(msg []byte) ([]byte, error) {
	switch s.state {
	case noiseStateInit:
		if s.initiator {
			return nil, s.fail("initiator cannot receive before sending")
		}
		payload, _, _, err := s.hs.ReadMessage(nil, msg)
		if err != nil {
			return nil, s.fail("read handshake message: %v", err)
		}
		s.state = noiseStateHaveE
		return payload, nil
	case noiseStateWaitResp:
		payload, cs1, cs2, err := s.hs.ReadMessage(nil, msg)
		if err != nil {
			return nil, s.fail("read handshake reply: %v", err)
		}
		s.enterTransport(cs1, cs2)
		return payload, nil
	case noiseStateTransport:
		out, err := s.recv.Decrypt(nil, nil, msg)
		if err != nil {
			return nil, fmt.Errorf("%w: transport decrypt: %v", ErrNoise, err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: recv in state %d", ErrNoise, s.state)
	}
}

// enterTransport installs the split cipher states. Noise orders the split as
// (initiator->responder, responder->initiator).
func (s *NoiseSession) enterTransport(cs1, cs2 *noise.CipherState) {
	if s.initiator {
		s.send, s.recv = cs1, cs2
	} else {
		s.send, s.recv = cs2, cs1
	}
	s.handshakeHash = append([]byte(nil), s.hs.ChannelBinding()...)
	if peer := s.hs.PeerStatic(); len(peer) == 32 {
		s.remoteStatic = append([]byte(nil), peer...)
	}
	s.state = noiseStateTransport
}

func (s *NoiseSession) fail(format string, args ...any) error {
	s.state = noiseStateFailed
	return fmt.Errorf("%w: "+format, append([]any{ErrNoise}, args...)...)
}

// IsTransport reports whether the handshake has completed.
func (s *NoiseSession) IsTransport() bool { return s.state == noiseStateTransport }

// HandshakeHash returns the 32-byte channel binding once in transport. Both
// sides of a completed handshake observe the same digest.
func (s *NoiseSession) HandshakeHash() ([32]byte, bool) {
	var out [32]byte
	if s.state != noiseStateTransport || len(s.handshakeHash) != 32 {
		return out, false
	}
	copy(out[:], s.handshakeHash)
	return out, true
}

// RemoteStaticPublicKey returns the responder's static key as seen by the
// initiator after the handshake.
func (s *NoiseSession) RemoteStaticPublicKey() (StaticPublicKey, bool) {
	var out StaticPublicKey
	if len(s.remoteStatic) != 32 {
		return out, false
	}
	copy(out[:], s.remoteStatic)
	return out, true
}
