// Package tokenstats enriches pool-creation events with on-chain token
// statistics: distinct holder counts and early buy activity.
package tokenstats

import (
	"context"
	"log"

	"solana-pool-watch/internal/observability"
	"solana-pool-watch/internal/solana"
)

// TokenAccountsClient is the RPC surface the holder aggregator needs.
type TokenAccountsClient interface {
	GetTokenAccountsByOwner(ctx context.Context, owner string, filter solana.TokenAccountsFilter) ([]solana.KeyedAccount, error)
}

// HolderAggregator counts distinct token accounts with a positive
// balance across the legacy and Token-2022 programs. Results are
// memoized per mint, so at most one query pair runs per token.
type HolderAggregator struct {
	client TokenAccountsClient
	cache  *holderCache
	logger *log.Logger
}

// HolderAggregatorOptions configures the aggregator.
type HolderAggregatorOptions struct {
	// CacheSize bounds the memoization cache. Zero means DefaultCacheSize.
	CacheSize int
	Logger    *log.Logger
}

// NewHolderAggregator creates a holder aggregator backed by the given
// RPC client.
func NewHolderAggregator(client TokenAccountsClient, opts HolderAggregatorOptions) *HolderAggregator {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &HolderAggregator{
		client: client,
		cache:  newHolderCache(opts.CacheSize),
		logger: logger,
	}
}

// HolderCount returns the number of token accounts holding a positive
// balance of the mint. Both the mint-filtered and the Token-2022
// program-filtered ownership queries run best effort: a failed
// sub-query contributes zero rather than failing the whole count.
func (a *HolderAggregator) HolderCount(ctx context.Context, token string) (int, error) {
	if count, ok := a.cache.get(token); ok {
		observability.RecordCacheHit()
		return count, nil
	}
	observability.RecordCacheMiss()

	count := 0
	count += a.countPositive(ctx, token, solana.TokenAccountsFilter{Mint: token})
	count += a.countPositive(ctx, token, solana.TokenAccountsFilter{ProgramID: solana.Token2022Program})

	a.cache.put(token, count)
	return count, nil
}

// countPositive runs one ownership query and counts accounts whose
// decoded balance is strictly positive. Accounts that fail to decode
// are skipped.
func (a *HolderAggregator) countPositive(ctx context.Context, token string, filter solana.TokenAccountsFilter) int {
	accounts, err := a.client.GetTokenAccountsByOwner(ctx, token, filter)
	if err != nil {
		a.logger.Printf("[tokenstats] token accounts query failed for %s: %v", token, err)
		return 0
	}

	positive := 0
	for _, acc := range accounts {
		decoded, err := solana.DecodeTokenAccount(acc.Data)
		if err != nil {
			a.logger.Printf("[tokenstats] skipping undecodable account %s: %v", acc.Pubkey, err)
			continue
		}
		if decoded.Amount > 0 {
			positive++
		}
	}
	return positive
}
