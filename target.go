package sv2wire

import (
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Wire U256 values carry raw 32-byte little-endian integers. These helpers
// convert between that form, math/big for target comparisons, and the
// reversed-hex display convention used for block hashes.

// TargetToBig interprets a wire target as an integer.
func TargetToBig(t [32]byte) *big.Int {
	var be [32]byte
	for i := range t {
		be[31-i] = t[i]
	}
	return new(big.Int).SetBytes(be[:])
}

// BigToTarget converts an integer back to wire form. Values wider than 256
// bits are rejected.
func BigToTarget(v *big.Int) ([32]byte, error) {
	var t [32]byte
	if v.Sign() < 0 {
		return t, fmt.Errorf("%w: negative target", ErrRequirement)
	}
	if v.BitLen() > 256 {
		return t, fmt.Errorf("%w: target exceeds 256 bits", ErrRequirement)
	}
	be := v.FillBytes(make([]byte, 32))
	for i := range t {
		t[i] = be[31-i]
	}
	return t, nil
}

// TargetMeets reports whether a share hash (wire byte order) is at or below
// the channel target.
func TargetMeets(hash, target [32]byte) bool {
	return TargetToBig(hash).Cmp(TargetToBig(target)) <= 0
}

// HashDisplay renders a wire-order hash the way block explorers print it.
func HashDisplay(h [32]byte) string {
	ch := chainhash.Hash(h)
	return ch.String()
}

// HashFromDisplay parses an explorer-style hex string back into wire order.
func HashFromDisplay(s string) ([32]byte, error) {
	ch, err := chainhash.NewHashFromStr(s)
	if err != nil {
		return [32]byte{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return [32]byte(*ch), nil
}
