package solana

import (
	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// IsValidPubkey reports whether s is a base58 string decoding to exactly
// 32 bytes.
func IsValidPubkey(s string) bool {
	raw, err := base58.Decode(s)
	return err == nil && len(raw) == 32
}

// IsOnCurve reports whether a base58 address decodes to a point on the
// ed25519 curve. Wallet addresses are on-curve; program derived
// addresses are not.
func IsOnCurve(s string) bool {
	raw, err := base58.Decode(s)
	if err != nil || len(raw) != 32 {
		return false
	}
	_, err = new(edwards25519.Point).SetBytes(raw)
	return err == nil
}
