package sv2wire

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"
	"time"
)

func testAuthority(t *testing.T) AuthorityKeyPair {
	t.Helper()
	auth, err := GenerateAuthorityKeyPair(rand.Reader)
	if err != nil {
		t.Fatalf("authority keypair: %v", err)
	}
	return auth
}

func testCertificate(t *testing.T, auth AuthorityKeyPair, static StaticPublicKey, validFrom, notValidAfter uint32) SignatureNoiseMessage {
	t.Helper()
	cert, err := NewSignedCertificate(0, validFrom, notValidAfter, static)
	if err != nil {
		t.Fatalf("certificate: %v", err)
	}
	msg, err := NewSignatureNoiseMessage(auth, cert)
	if err != nil {
		t.Fatalf("signature noise message: %v", err)
	}
	return msg
}

func TestAuthorityKeyBase58Roundtrip(t *testing.T) {
	auth := testAuthority(t)
	encoded := auth.PublicBase58()
	back, err := ParseAuthorityPublicKey(encoded)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if back != auth.Public() {
		t.Fatalf("roundtrip mismatch")
	}
	if _, err := ParseAuthorityPublicKey("abc"); !errors.Is(err, ErrParse) {
		t.Fatalf("short key: got %v, want ErrParse", err)
	}
}

func TestSignedCertificateWindow(t *testing.T) {
	var static StaticPublicKey
	if _, err := NewSignedCertificate(0, 100, 100, static); !errors.Is(err, ErrRequirement) {
		t.Fatalf("empty window: got %v, want ErrRequirement", err)
	}
	if _, err := NewSignedCertificate(0, 200, 100, static); !errors.Is(err, ErrRequirement) {
		t.Fatalf("inverted window: got %v, want ErrRequirement", err)
	}
}

func TestSignatureNoiseMessageWireSize(t *testing.T) {
	auth := testAuthority(t)
	var static StaticPublicKey
	static[0] = 0x01
	msg := testCertificate(t, auth, static, 100, 200)
	b := EncodeSignatureNoiseMessage(msg)
	if len(b) != signatureNoiseMessageLen {
		t.Fatalf("encoded %d bytes, want %d", len(b), signatureNoiseMessageLen)
	}
	back, err := DecodeSignatureNoiseMessage(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if back != msg {
		t.Fatalf("roundtrip mismatch")
	}
	if _, err := DecodeSignatureNoiseMessage(b[:len(b)-1]); !errors.Is(err, ErrParse) {
		t.Fatalf("truncated: got %v, want ErrParse", err)
	}
}

func TestCertificateVerify(t *testing.T) {
	auth := testAuthority(t)
	static, err := GenerateStaticKeyPair(rand.Reader)
	if err != nil {
		t.Fatalf("static keypair: %v", err)
	}
	now := time.Unix(1700000000, 0)
	msg := testCertificate(t, auth, static.Public(), uint32(now.Unix()-3600), uint32(now.Unix()+3600))

	cf := CertificateFormat{Authority: auth.Public(), StaticKey: static.Public(), Message: msg}
	if err := cf.Verify(now); err != nil {
		t.Fatalf("verify: %v", err)
	}

	// Expiry boundary: not_valid_after itself is already invalid.
	if err := cf.Verify(time.Unix(int64(msg.NotValidAfter), 0)); !errors.Is(err, ErrRequirement) {
		t.Fatalf("at expiry: got %v, want ErrRequirement", err)
	}
	if err := cf.Verify(time.Unix(int64(msg.NotValidAfter)-1, 0)); err != nil {
		t.Fatalf("one second before expiry: %v", err)
	}

	// Pre-epoch local clock.
	if err := cf.Verify(time.Unix(-5, 0)); !errors.Is(err, ErrSystemTime) {
		t.Fatalf("pre-epoch: got %v, want ErrSystemTime", err)
	}

	// Wrong authority.
	other := testAuthority(t)
	bad := cf
	bad.Authority = other.Public()
	if err := bad.Verify(now); !errors.Is(err, ErrAuthorityKey) {
		t.Fatalf("wrong authority: got %v, want ErrAuthorityKey", err)
	}

	// Signature over a different static key.
	swapped := cf
	swapped.StaticKey[0] ^= 0x01
	if err := swapped.Verify(now); !errors.Is(err, ErrAuthorityKey) {
		t.Fatalf("swapped static key: got %v, want ErrAuthorityKey", err)
	}

	// Corrupted signature bits.
	forged := cf
	forged.Message.Signature[10] ^= 0x01
	if err := forged.Verify(now); !errors.Is(err, ErrAuthorityKey) {
		t.Fatalf("forged signature: got %v, want ErrAuthorityKey", err)
	}
}

// Full authenticated session: handshake, certificate exchange inside the
// encrypted channel, verification against the pinned authority, then frames.
func TestAuthenticatedSessionEndToEnd(t *testing.T) {
	auth := testAuthority(t)
	static, err := GenerateStaticKeyPair(rand.Reader)
	if err != nil {
		t.Fatalf("static keypair: %v", err)
	}
	now := time.Unix(1700000000, 0)
	certMsg := testCertificate(t, auth, static.Public(), uint32(now.Unix()-60), uint32(now.Unix()+86400))

	server, err := NewInboundEncryptor(&static)
	if err != nil {
		t.Fatalf("inbound encryptor: %v", err)
	}
	client, err := NewOutboundEncryptor()
	if err != nil {
		t.Fatalf("outbound encryptor: %v", err)
	}

	msg1, err := client.InitHandshake()
	if err != nil {
		t.Fatalf("init handshake: %v", err)
	}
	msg2, err := server.RecvHandshake(msg1)
	if err != nil {
		t.Fatalf("server handshake: %v", err)
	}
	if reply, err := client.RecvHandshake(msg2); err != nil || reply != nil {
		t.Fatalf("client handshake: reply=%x err=%v", reply, err)
	}
	if !client.IsHandshakeComplete() || !server.IsHandshakeComplete() {
		t.Fatalf("handshake incomplete")
	}

	// Server sends its certificate through the encrypted channel.
	ct, err := server.Encrypt(EncodeSignatureNoiseMessage(certMsg))
	if err != nil {
		t.Fatalf("encrypt certificate: %v", err)
	}
	plain, err := client.Decrypt(ct)
	if err != nil {
		t.Fatalf("decrypt certificate: %v", err)
	}
	received, err := DecodeSignatureNoiseMessage(plain)
	if err != nil {
		t.Fatalf("decode certificate: %v", err)
	}
	remoteStatic, ok := client.RemoteStaticPublicKey()
	if !ok {
		t.Fatalf("remote static unavailable")
	}
	cf := CertificateFormat{Authority: auth.Public(), StaticKey: remoteStatic, Message: received}
	if err := cf.Verify(now); err != nil {
		t.Fatalf("certificate verify: %v", err)
	}

	// Protocol frames flow over the same channel afterward.
	frameBytes, err := EncodeSetupConnectionFrame(testSetupConnection(t))
	if err != nil {
		t.Fatalf("encode setup: %v", err)
	}
	ct, err = client.Encrypt(frameBytes)
	if err != nil {
		t.Fatalf("encrypt frame: %v", err)
	}
	plain, err = server.Decrypt(ct)
	if err != nil {
		t.Fatalf("decrypt frame: %v", err)
	}
	if !bytes.Equal(plain, frameBytes) {
		t.Fatalf("frame bytes changed in transit")
	}
	f, err := DecodeFrame(plain)
	if err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	if f.Type != MsgSetupConnection {
		t.Fatalf("type %s", f.Type)
	}
}
