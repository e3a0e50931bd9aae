package classify

import (
	"errors"
	"fmt"
	"regexp"

	"solana-pool-watch/internal/domain"
	"solana-pool-watch/internal/solana"
)

// Classification errors. The pipeline drops the offending notification
// and continues.
var (
	ErrMissingSignature = errors.New("notification missing signature")
	ErrMissingSlot      = errors.New("notification missing slot")
	ErrUnresolvedPool   = errors.New("could not resolve pool address")
	ErrUnresolvedToken  = errors.New("could not resolve token address")
)

// mintPattern extracts a mint address emitted in an instruction log
// payload, e.g. "Program log: mint=9xQeWv...".
var mintPattern = regexp.MustCompile(`mint=([1-9A-HJ-NP-Za-km-z]{32,44})`)

// raydiumPoolIndex is the AMM ID position in the Raydium swap/initialize
// account list.
const raydiumPoolIndex = 1

// knownPrograms are excluded when scanning account keys for pool or
// token addresses.
var knownPrograms = map[string]bool{
	PumpFun:                       true,
	RaydiumAMMV4:                  true,
	solana.TokenProgram:           true,
	solana.Token2022Program:       true,
	solana.AssociatedTokenProgram: true,
	solana.SystemProgram:          true,
	solana.WSOL:                   true,
}

// Extractor builds PoolCreationEvents from classified notifications.
type Extractor struct{}

// NewExtractor creates a new event extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract assembles a PoolCreationEvent from the notification envelope
// and the enclosing transaction's account keys. Signature and slot are
// mandatory; pool and token addresses are resolved from the instruction
// log payload where the program emits one, otherwise from the account
// keys. Holder and buy counts are left zero for enrichment.
func (e *Extractor) Extract(variant domain.PoolVariant, signature string, slot uint64, logs []string, accountKeys []string, timestamp int64) (*domain.PoolCreationEvent, error) {
	if signature == "" {
		return nil, ErrMissingSignature
	}
	if slot == 0 {
		return nil, ErrMissingSlot
	}

	token := tokenFromLogs(logs)
	if token == "" {
		token = tokenFromAccountKeys(accountKeys)
	}
	if token == "" {
		return nil, fmt.Errorf("%w for tx %s", ErrUnresolvedToken, signature)
	}

	pool := poolFromAccountKeys(variant, accountKeys, token)
	if pool == "" {
		return nil, fmt.Errorf("%w for tx %s", ErrUnresolvedPool, signature)
	}

	return &domain.PoolCreationEvent{
		Signature: signature,
		Pool:      pool,
		Token:     token,
		Timestamp: timestamp,
		Slot:      slot,
		Variant:   variant,
	}, nil
}

// tokenFromLogs looks for a mint= payload in the instruction logs.
func tokenFromLogs(logs []string) string {
	for _, line := range logs {
		if m := mintPattern.FindStringSubmatch(line); m != nil && solana.IsValidPubkey(m[1]) {
			return m[1]
		}
	}
	return ""
}

// tokenFromAccountKeys scans account keys for a plausible mint: an
// on-curve pubkey that is not the fee payer and not a known program.
func tokenFromAccountKeys(accountKeys []string) string {
	for i, key := range accountKeys {
		if i == 0 || knownPrograms[key] {
			continue // index 0 is the fee payer
		}
		if solana.IsOnCurve(key) {
			return key
		}
	}
	return ""
}

// poolFromAccountKeys resolves the pool account. Raydium places the AMM
// ID at a fixed index; pump.fun pools are program derived addresses, so
// the first off-curve non-program key is taken.
func poolFromAccountKeys(variant domain.PoolVariant, accountKeys []string, token string) string {
	if variant == domain.VariantRaydium {
		if len(accountKeys) > raydiumPoolIndex {
			return accountKeys[raydiumPoolIndex]
		}
		return ""
	}

	for _, key := range accountKeys {
		if knownPrograms[key] || key == token {
			continue
		}
		if solana.IsValidPubkey(key) && !solana.IsOnCurve(key) {
			return key
		}
	}
	return ""
}
