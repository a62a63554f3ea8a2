package sv2wire

import (
	stdsha "crypto/sha256"
	"encoding/hex"

	simdsha "github.com/minio/sha256-simd"
)

type sha256SumFunc func([]byte) [32]byte

var sha256Sum sha256SumFunc = stdsha.Sum256

// UseSimdSha256 switches the digest implementation. The SIMD variant helps
// hosts that fingerprint many peer keys per second.
func UseSimdSha256(enable bool) {
	if enable {
		sha256Sum = simdsha.Sum256
		return
	}
	sha256Sum = stdsha.Sum256
}

// keyFingerprint is a short stable identifier for keys and digests in logs.
func keyFingerprint(b []byte) string {
	sum := sha256Sum(b)
	return hex.EncodeToString(sum[:8])
}
