// Package wallet loads the trading keypair and verifies its funding.
package wallet

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mr-tron/base58"
)

// keypairLen is the standard Solana keypair file length: a 32-byte
// ed25519 seed followed by the 32-byte public key.
const keypairLen = 64

// LamportsPerSOL is the lamport denomination of one SOL.
const LamportsPerSOL = 1_000_000_000

// Wallet is a loaded signing keypair.
type Wallet struct {
	key ed25519.PrivateKey
}

// Load reads a JSON keypair file (an array of 64 byte values) and
// validates that the embedded public key matches the seed.
func Load(path string) (*Wallet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keypair file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a JSON keypair byte array.
func Parse(data []byte) (*Wallet, error) {
	// The file is a JSON array of byte values, not a base64 string.
	var nums []int
	if err := json.Unmarshal(data, &nums); err != nil {
		return nil, fmt.Errorf("decode keypair json: %w", err)
	}
	if len(nums) != keypairLen {
		return nil, fmt.Errorf("keypair must be %d bytes, got %d", keypairLen, len(nums))
	}

	raw := make([]byte, keypairLen)
	for i, n := range nums {
		if n < 0 || n > 255 {
			return nil, fmt.Errorf("keypair byte %d out of range: %d", i, n)
		}
		raw[i] = byte(n)
	}

	key := ed25519.NewKeyFromSeed(raw[:ed25519.SeedSize])
	if !key.Public().(ed25519.PublicKey).Equal(ed25519.PublicKey(raw[ed25519.SeedSize:])) {
		return nil, fmt.Errorf("keypair public key does not match seed")
	}

	return &Wallet{key: key}, nil
}

// Address returns the base58-encoded public key.
func (w *Wallet) Address() string {
	return base58.Encode(w.key.Public().(ed25519.PublicKey))
}

// Sign signs a message with the wallet key.
func (w *Wallet) Sign(message []byte) []byte {
	return ed25519.Sign(w.key, message)
}

// BalanceClient is the RPC surface funding verification needs.
type BalanceClient interface {
	GetBalance(ctx context.Context, pubkey string) (uint64, error)
}

// VerifyBalance checks that the wallet holds at least minLamports.
// Unlike the soft failures in enrichment, an unfunded or unreachable
// wallet is fatal at startup.
func (w *Wallet) VerifyBalance(ctx context.Context, client BalanceClient, minLamports uint64) (uint64, error) {
	balance, err := client.GetBalance(ctx, w.Address())
	if err != nil {
		return 0, fmt.Errorf("query wallet balance: %w", err)
	}
	if balance < minLamports {
		return balance, fmt.Errorf("wallet %s holds %d lamports, need at least %d", w.Address(), balance, minLamports)
	}
	return balance, nil
}
