package decision

// Evaluator applies qualification criteria to enriched events.
type Evaluator struct {
	criteria Criteria
}

// NewEvaluator creates an evaluator with the given criteria.
func NewEvaluator(criteria Criteria) *Evaluator {
	return &Evaluator{criteria: criteria}
}

// Evaluate checks the input against every criterion. The overall result
// passes only when all individual checks pass.
func (e *Evaluator) Evaluate(input EvaluationInput) EvaluationResult {
	holderOK := input.HolderCount >= e.criteria.MinHolders
	buyOK := input.BuyCount >= e.criteria.MinBuys && input.BuyCount <= e.criteria.MaxBuys

	return EvaluationResult{
		Pass:     holderOK && buyOK,
		HolderOK: holderOK,
		BuyOK:    buyOK,
	}
}
