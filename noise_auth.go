package sv2wire

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"io"
	"time"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/hako/durafmt"
)

const (
	signedCertificateLen    = 42 // version(2) + valid_from(4) + not_valid_after(4) + static_key(32)
	signatureNoiseMessageLen = 74 // version(2) + valid_from(4) + not_valid_after(4) + signature(64)
)

// AuthorityKeyPair is the pool operator's Ed25519 identity. It signs the
// responder's noise static key; the public half is distributed to miners
// out-of-band as a base58 string.
type AuthorityKeyPair struct {
	public  ed25519.PublicKey
	private ed25519.PrivateKey
}

func GenerateAuthorityKeyPair(rng io.Reader) (AuthorityKeyPair, error) {
	if rng == nil {
		rng = rand.Reader
	}
	pub, priv, err := ed25519.GenerateKey(rng)
	if err != nil {
		return AuthorityKeyPair{}, fmt.Errorf("%w: generate authority keypair: %v", ErrAuthorityKey, err)
	}
	return AuthorityKeyPair{public: pub, private: priv}, nil
}

func (k AuthorityKeyPair) Public() AuthorityPublicKey {
	var out AuthorityPublicKey
	copy(out[:], k.public)
	return out
}

// PublicBase58 renders the authority public key in its distribution format.
func (k AuthorityKeyPair) PublicBase58() string {
	return base58.Encode(k.public)
}

// AuthorityPublicKey is the 32-byte Ed25519 verification key miners pin.
type AuthorityPublicKey [32]byte

// ParseAuthorityPublicKey decodes the base58 distribution form.
func ParseAuthorityPublicKey(s string) (AuthorityPublicKey, error) {
	var out AuthorityPublicKey
	raw := base58.Decode(s)
	if len(raw) != ed25519.PublicKeySize {
		return out, fmt.Errorf("%w: authority key decodes to %d bytes, want %d",
			ErrParse, len(raw), ed25519.PublicKeySize)
	}
	copy(out[:], raw)
	return out, nil
}

func (k AuthorityPublicKey) Base58() string {
	return base58.Encode(k[:])
}

// SignedCertificate is the authority's signing input. It never crosses the
// wire as-is; only the SignatureNoiseMessage derived from it does.
type SignedCertificate struct {
	Version       uint16
	ValidFrom     uint32 // unix seconds
	NotValidAfter uint32 // unix seconds
	PublicKey     StaticPublicKey
}

func NewSignedCertificate(version uint16, validFrom, notValidAfter uint32, pub StaticPublicKey) (SignedCertificate, error) {
	if validFrom >= notValidAfter {
		return SignedCertificate{}, fmt.Errorf("%w: valid_from %d is not before not_valid_after %d",
			ErrRequirement, validFrom, notValidAfter)
	}
	return SignedCertificate{
		Version:       version,
		ValidFrom:     validFrom,
		NotValidAfter: notValidAfter,
		PublicKey:     pub,
	}, nil
}

// signingBytes serializes the fixed 42-byte form the authority signs.
func (c SignedCertificate) signingBytes() []byte {
	var w payloadBuilder
	w.u16(c.Version)
	w.u32(c.ValidFrom)
	w.u32(c.NotValidAfter)
	w.b = append(w.b, c.PublicKey[:]...)
	return w.bytes()
}

// SignatureNoiseMessage carries the certificate's validity window and the
// authority signature inside the encrypted noise channel, right after the
// handshake.
type SignatureNoiseMessage struct {
	Version       uint16
	ValidFrom     uint32
	NotValidAfter uint32
	Signature     [64]byte
}

// NewSignatureNoiseMessage signs the certificate with the authority key.
func NewSignatureNoiseMessage(auth AuthorityKeyPair, cert SignedCertificate) (SignatureNoiseMessage, error) {
	if len(auth.private) != ed25519.PrivateKeySize {
		return SignatureNoiseMessage{}, fmt.Errorf("%w: authority private key missing", ErrAuthorityKey)
	}
	input := cert.signingBytes()
	if len(input) != signedCertificateLen {
		return SignatureNoiseMessage{}, fmt.Errorf("%w: signing input is %d bytes, want %d",
			ErrRequirement, len(input), signedCertificateLen)
	}
	m := SignatureNoiseMessage{
		Version:       cert.Version,
		ValidFrom:     cert.ValidFrom,
		NotValidAfter: cert.NotValidAfter,
	}
	copy(m.Signature[:], ed25519.Sign(auth.private, input))
	return m, nil
}

func EncodeSignatureNoiseMessage(m SignatureNoiseMessage) []byte {
	var w payloadBuilder
	w.u16(m.Version)
	w.u32(m.ValidFrom)
	w.u32(m.NotValidAfter)
	w.b = append(w.b, m.Signature[:]...)
	return w.bytes()
}

func DecodeSignatureNoiseMessage(b []byte) (SignatureNoiseMessage, error) {
	if len(b) != signatureNoiseMessageLen {
		return SignatureNoiseMessage{}, fmt.Errorf("%w: signature noise message is %d bytes, want %d",
			ErrParse, len(b), signatureNoiseMessageLen)
	}
	p := newByteParser(b)
	var m SignatureNoiseMessage
	var err error
	if m.Version, err = p.u16(); err != nil {
		return m, err
	}
	if m.ValidFrom, err = p.u32(); err != nil {
		return m, err
	}
	if m.NotValidAfter, err = p.u32(); err != nil {
		return m, err
	}
	sig, err := p.nextBy(64)
	if err != nil {
		return m, err
	}
	copy(m.Signature[:], sig)
	return m, nil
}

// CertificateFormat binds the pieces the initiator holds after the handshake:
// the pinned authority key, the responder static key extracted from the noise
// session, and the received signature message.
type CertificateFormat struct {
	Authority AuthorityPublicKey
	StaticKey StaticPublicKey
	Message   SignatureNoiseMessage
}

// Verify checks the validity window against now and the authority signature
// over the reconstructed signing input. The clock is passed explicitly; the
// package keeps no global time source.
func (c CertificateFormat) Verify(now time.Time) error {
	unixNow := now.Unix()
	if unixNow < 0 {
		return fmt.Errorf("%w: %v", ErrSystemTime, now)
	}
	if uint64(unixNow) >= uint64(c.Message.NotValidAfter) {
		logger.Debug("certificate expired",
			"not_valid_after", c.Message.NotValidAfter,
			"expired_for", durafmt.Parse(now.Sub(time.Unix(int64(c.Message.NotValidAfter), 0))).LimitFirstN(2).String())
		return fmt.Errorf("%w: expired", ErrRequirement)
	}
	cert := SignedCertificate{
		Version:       c.Message.Version,
		ValidFrom:     c.Message.ValidFrom,
		NotValidAfter: c.Message.NotValidAfter,
		PublicKey:     c.StaticKey,
	}
	if !ed25519.Verify(ed25519.PublicKey(c.Authority[:]), cert.signingBytes(), c.Message.Signature[:]) {
		return fmt.Errorf("%w: signature does not match authority %s over static key %s",
			ErrAuthorityKey, keyFingerprint(c.Authority[:]), keyFingerprint(c.StaticKey[:]))
	}
	logger.Debug("certificate verified",
		"authority", keyFingerprint(c.Authority[:]),
		"static_key", keyFingerprint(c.StaticKey[:]),
		"valid_for", durafmt.Parse(time.Unix(int64(c.Message.NotValidAfter), 0).Sub(now)).LimitFirstN(2).String())
	return nil
}
