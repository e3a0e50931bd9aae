package tokenstats

import (
	"context"

	"solana-pool-watch/internal/solana"
)

// signatureHistoryLimit caps one history page. The criteria band tops
// out well below this, so one page is enough to decide.
const signatureHistoryLimit = 1000

// SignaturesClient is the RPC surface the buy counter needs.
type SignaturesClient interface {
	GetSignaturesForAddress(ctx context.Context, address string, opts *solana.SignaturesOpts) ([]solana.SignatureInfo, error)
}

// BuyCounter reports early buy activity against a pool account.
type BuyCounter interface {
	BuyCount(ctx context.Context, pool string) (int, error)
}

// SignatureBuyCounter approximates buy activity by counting successful
// transactions in the pool's recent signature history.
type SignatureBuyCounter struct {
	client SignaturesClient
}

// NewSignatureBuyCounter creates a buy counter backed by the given RPC
// client.
func NewSignatureBuyCounter(client SignaturesClient) *SignatureBuyCounter {
	return &SignatureBuyCounter{client: client}
}

var _ BuyCounter = (*SignatureBuyCounter)(nil)

// BuyCount returns the number of successful transactions in the pool's
// most recent signature history page. Failed transactions are excluded.
func (c *SignatureBuyCounter) BuyCount(ctx context.Context, pool string) (int, error) {
	sigs, err := c.client.GetSignaturesForAddress(ctx, pool, &solana.SignaturesOpts{Limit: signatureHistoryLimit})
	if err != nil {
		return 0, err
	}

	count := 0
	for _, sig := range sigs {
		if sig.Err == nil {
			count++
		}
	}
	return count, nil
}
