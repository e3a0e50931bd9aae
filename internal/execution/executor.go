// Package execution receives qualified pool-creation events from the
// monitoring pipeline.
package execution

import (
	"context"
	"log"

	"solana-pool-watch/internal/domain"
)

// TradeExecutor accepts a qualified pool-creation event. Execution
// outcome is the executor's concern; the pipeline treats the handoff
// as terminal either way.
type TradeExecutor interface {
	Execute(ctx context.Context, event *domain.PoolCreationEvent) error
}

// LoggingExecutor records qualified events without placing trades. It
// stands in until a real execution engine is attached.
type LoggingExecutor struct {
	logger *log.Logger
}

// NewLoggingExecutor creates an executor that only logs handoffs.
func NewLoggingExecutor(logger *log.Logger) *LoggingExecutor {
	if logger == nil {
		logger = log.Default()
	}
	return &LoggingExecutor{logger: logger}
}

var _ TradeExecutor = (*LoggingExecutor)(nil)

// Execute logs the qualified event and returns nil.
func (e *LoggingExecutor) Execute(_ context.Context, event *domain.PoolCreationEvent) error {
	e.logger.Printf("[execution] qualified pool: variant=%s pool=%s token=%s holders=%d buys=%d tx=%s",
		event.Variant, event.Pool, event.Token, event.HolderCount, event.BuyCount, event.Signature)
	return nil
}
