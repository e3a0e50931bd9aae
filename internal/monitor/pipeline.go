package monitor

import (
	"context"
	"log"
	"time"

	"solana-pool-watch/internal/classify"
	"solana-pool-watch/internal/decision"
	"solana-pool-watch/internal/domain"
	"solana-pool-watch/internal/execution"
	"solana-pool-watch/internal/observability"
	"solana-pool-watch/internal/solana"
	"solana-pool-watch/internal/storage"
)

// HolderCounter reports the positive-balance holder count for a token.
type HolderCounter interface {
	HolderCount(ctx context.Context, token string) (int, error)
}

// BuyCounter reports early buy activity against a pool account.
type BuyCounter interface {
	BuyCount(ctx context.Context, pool string) (int, error)
}

// TransactionClient fetches transactions for account-key resolution.
type TransactionClient interface {
	GetTransaction(ctx context.Context, signature string) (*solana.Transaction, error)
}

// Pipeline advances each notification through classification, the
// environment gate, enrichment and evaluation, handing qualified
// events to the execution collaborator. Every per-notification failure
// is logged and isolated; the pipeline itself never returns an error
// to the stream.
type Pipeline struct {
	classifier *classify.Classifier
	extractor  *classify.Extractor
	env        domain.Environment
	holders    HolderCounter
	buys       BuyCounter
	evaluator  *decision.Evaluator
	executor   execution.TradeExecutor

	tx      TransactionClient           // optional, improves address resolution
	journal storage.PoolEventStore      // optional, best effort
	archive storage.NotificationArchive // optional, best effort

	logger *log.Logger
	debug  bool
	now    func() time.Time
}

// PipelineOptions configures a Pipeline.
type PipelineOptions struct {
	// Transactions resolves account keys for classified notifications.
	// Nil restricts extraction to the log payload.
	Transactions TransactionClient
	// Journal persists qualified events. Nil disables journaling.
	Journal storage.PoolEventStore
	// Archive records every classified candidate. Nil disables archiving.
	Archive storage.NotificationArchive
	Logger  *log.Logger
	// Debug enables per-drop logging for the environment gate.
	Debug bool
}

// NewPipeline creates a qualification pipeline for the given runtime
// environment.
func NewPipeline(env domain.Environment, holders HolderCounter, buys BuyCounter, evaluator *decision.Evaluator, executor execution.TradeExecutor, opts PipelineOptions) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Pipeline{
		classifier: classify.NewClassifier(),
		extractor:  classify.NewExtractor(),
		env:        env,
		holders:    holders,
		buys:       buys,
		evaluator:  evaluator,
		executor:   executor,
		tx:         opts.Transactions,
		journal:    opts.Journal,
		archive:    opts.Archive,
		logger:     logger,
		debug:      opts.Debug,
		now:        time.Now,
	}
}

// Compile-time interface check.
var _ NotificationHandler = (*Pipeline)(nil)

// Handle runs one notification through the state machine. Notifications
// are handled strictly in arrival order by the stream's read loop.
func (p *Pipeline) Handle(ctx context.Context, n Notification) {
	// Received -> Classified
	variant, ok := p.classifier.Classify(n.Logs)
	if !ok {
		return
	}
	observability.RecordClassified(string(variant))
	p.archiveCandidate(ctx, n, variant)

	// Classified -> Gated
	if !domain.Actionable(variant, p.env) {
		if p.debug {
			p.logger.Printf("[pipeline] drop %s: variant %s not actionable in %s", n.Signature, variant, p.env)
		}
		observability.RecordGatedOut()
		return
	}

	// Gated -> Enriched
	accountKeys, timestamp := p.resolveTransaction(ctx, n)

	event, err := p.extractor.Extract(variant, n.Signature, n.Slot, n.Logs, accountKeys, timestamp)
	if err != nil {
		p.logger.Printf("[pipeline] classification error: %v", err)
		observability.RecordClassificationError()
		return
	}

	holderCount, err := p.holders.HolderCount(ctx, event.Token)
	if err != nil {
		// Query failures contribute zero rather than aborting.
		p.logger.Printf("[pipeline] holder count failed for %s: %v", event.Token, err)
		holderCount = 0
	}
	buyCount, err := p.buys.BuyCount(ctx, event.Pool)
	if err != nil {
		p.logger.Printf("[pipeline] buy count failed for %s: %v", event.Pool, err)
		buyCount = 0
	}
	event.HolderCount = uint64(holderCount)
	event.BuyCount = uint64(buyCount)

	// Enriched -> Qualified
	result := p.evaluator.Evaluate(decision.EvaluationInput{
		HolderCount: holderCount,
		BuyCount:    buyCount,
	})
	if !result.Pass {
		p.logger.Printf("[pipeline] criteria failed for %s: holders=%d (ok=%v) buys=%d (ok=%v)",
			event.Token, holderCount, result.HolderOK, buyCount, result.BuyOK)
		if !result.HolderOK {
			observability.RecordCriteriaFailure("holders")
		}
		if !result.BuyOK {
			observability.RecordCriteriaFailure("buys")
		}
		return
	}

	// Qualified -> handoff. Execution outcome is terminal either way.
	observability.RecordQualified(string(variant))
	if err := p.executor.Execute(ctx, event); err != nil {
		p.logger.Printf("[pipeline] execution handoff failed for %s: %v", event.Signature, err)
	}
	p.journalEvent(ctx, event)
}

// resolveTransaction fetches the enclosing transaction best effort for
// account keys and block time. Failures fall back to the notification
// alone with the current wall clock.
func (p *Pipeline) resolveTransaction(ctx context.Context, n Notification) ([]string, int64) {
	timestamp := p.now().Unix()
	if p.tx == nil {
		return nil, timestamp
	}

	tx, err := p.tx.GetTransaction(ctx, n.Signature)
	if err != nil || tx == nil {
		p.logger.Printf("[pipeline] transaction lookup failed for %s: %v", n.Signature, err)
		return nil, timestamp
	}
	if tx.BlockTime > 0 {
		timestamp = tx.BlockTime
	}
	return tx.AccountKeys, timestamp
}

// archiveCandidate records a classified candidate best effort.
func (p *Pipeline) archiveCandidate(ctx context.Context, n Notification, variant domain.PoolVariant) {
	if p.archive == nil {
		return
	}

	rec := &domain.NotificationRecord{
		Signature:  n.Signature,
		Slot:       n.Slot,
		Variant:    variant,
		Logs:       n.Logs,
		ReceivedAt: p.now().Unix(),
	}
	if err := p.archive.Archive(ctx, rec); err != nil {
		p.logger.Printf("[pipeline] archive failed for %s: %v", n.Signature, err)
		observability.RecordDBError("clickhouse", "archive")
	}
}

// journalEvent persists a qualified event best effort.
func (p *Pipeline) journalEvent(ctx context.Context, event *domain.PoolCreationEvent) {
	if p.journal == nil {
		return
	}

	if err := p.journal.Insert(ctx, event); err != nil {
		p.logger.Printf("[pipeline] journal failed for %s: %v", event.Signature, err)
		observability.RecordDBError("postgres", "insert_pool_event")
	}
}
