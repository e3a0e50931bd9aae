package solana

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"

	"github.com/mr-tron/base58"
)

// tokenAccountBaseLen is the size of the base SPL token account layout:
// mint(32) + owner(32) + amount(8) + delegate option(36) + state(1) +
// is_native option(12) + delegated_amount(8) + close_authority option(36).
// Token-2022 accounts carry extensions beyond this length.
const tokenAccountBaseLen = 165

// Field offsets within the base layout.
const (
	tokenAccountMintOffset   = 0
	tokenAccountOwnerOffset  = 32
	tokenAccountAmountOffset = 64
)

// TokenAccount is a decoded SPL token account balance record.
type TokenAccount struct {
	Mint   string
	Owner  string
	Amount uint64
}

// DecodeTokenAccount decodes a base64-encoded SPL token account payload.
// Works for both the legacy token program and Token-2022 (extension data
// past the base layout is ignored).
func DecodeTokenAccount(data string) (*TokenAccount, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("decode account data: %w", err)
	}
	if len(raw) < tokenAccountBaseLen {
		return nil, fmt.Errorf("account data too short: %d bytes, want at least %d", len(raw), tokenAccountBaseLen)
	}

	return &TokenAccount{
		Mint:   base58.Encode(raw[tokenAccountMintOffset : tokenAccountMintOffset+32]),
		Owner:  base58.Encode(raw[tokenAccountOwnerOffset : tokenAccountOwnerOffset+32]),
		Amount: binary.LittleEndian.Uint64(raw[tokenAccountAmountOffset:]),
	}, nil
}

// EncodeTokenAccount builds a base64 payload in the base SPL layout.
// Used by tests and fixtures; fields beyond mint/owner/amount are zeroed.
func EncodeTokenAccount(mint, owner string, amount uint64) (string, error) {
	raw := make([]byte, tokenAccountBaseLen)

	mintBytes, err := base58.Decode(mint)
	if err != nil || len(mintBytes) != 32 {
		return "", fmt.Errorf("invalid mint address %q", mint)
	}
	ownerBytes, err := base58.Decode(owner)
	if err != nil || len(ownerBytes) != 32 {
		return "", fmt.Errorf("invalid owner address %q", owner)
	}

	copy(raw[tokenAccountMintOffset:], mintBytes)
	copy(raw[tokenAccountOwnerOffset:], ownerBytes)
	binary.LittleEndian.PutUint64(raw[tokenAccountAmountOffset:], amount)

	return base64.StdEncoding.EncodeToString(raw), nil
}
