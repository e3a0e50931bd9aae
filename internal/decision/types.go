// Package decision holds the qualification criteria applied to enriched
// pool-creation events.
package decision

// Default criteria thresholds.
const (
	// DefaultMinHolders is the minimum distinct positive-balance holder
	// count for a pool to qualify.
	DefaultMinHolders = 140
	// DefaultMinBuys and DefaultMaxBuys bound the acceptable early buy
	// activity band, inclusive on both ends. Too few buys means no
	// traction; too many means the entry is already crowded.
	DefaultMinBuys = 140
	DefaultMaxBuys = 300
)

// Criteria are the thresholds a pool must meet to qualify.
type Criteria struct {
	MinHolders int
	MinBuys    int
	MaxBuys    int
}

// DefaultCriteria returns the standard qualification thresholds.
func DefaultCriteria() Criteria {
	return Criteria{
		MinHolders: DefaultMinHolders,
		MinBuys:    DefaultMinBuys,
		MaxBuys:    DefaultMaxBuys,
	}
}

// EvaluationInput carries the enriched statistics under evaluation.
type EvaluationInput struct {
	HolderCount int
	BuyCount    int
}

// EvaluationResult records the outcome per criterion. Pass is true only
// when every criterion holds.
type EvaluationResult struct {
	Pass     bool
	HolderOK bool
	BuyOK    bool
}
