// Package classify inspects log notifications for pool-creation events
// and extracts the fields the qualification pipeline needs.
package classify

import (
	"strings"

	"solana-pool-watch/internal/domain"
)

// Known pool-creation program IDs.
const (
	// RaydiumAMMV4 is the Raydium AMM v4 program ID.
	RaydiumAMMV4 = "675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8"
	// PumpFun is the pump.fun program ID.
	PumpFun = "6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P"
)

// createMarker is the instruction log emitted when a pool initializes its
// token accounts idempotently. Its presence is the creation signal.
const createMarker = "Program log: Instruction: CreateIdempotent"

// programVariants is scanned in declaration order; combined with
// line-order scanning this makes variant resolution deterministic even
// if a notification somehow mentioned both programs.
var programVariants = []struct {
	programID string
	variant   domain.PoolVariant
}{
	{PumpFun, domain.VariantPumpFun},
	{RaydiumAMMV4, domain.VariantRaydium},
}

// Classifier decides whether one notification's log lines represent a
// pool-creation event and, if so, which program produced it.
type Classifier struct{}

// NewClassifier creates a new log classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify scans the log lines of a single notification. It returns the
// pool variant and true when the idempotent-create marker is present and
// a known creation program is mentioned. The first matching program in
// line order wins.
func (c *Classifier) Classify(logs []string) (domain.PoolVariant, bool) {
	if !containsMarker(logs) {
		return "", false
	}

	for _, line := range logs {
		for _, pv := range programVariants {
			if strings.Contains(line, pv.programID) {
				return pv.variant, true
			}
		}
	}
	return "", false
}

func containsMarker(logs []string) bool {
	for _, line := range logs {
		if strings.Contains(line, createMarker) {
			return true
		}
	}
	return false
}
