package classify

import (
	"testing"

	"solana-pool-watch/internal/domain"
)

func TestClassify_PumpFunCreation(t *testing.T) {
	c := NewClassifier()

	logs := []string{
		"Program " + PumpFun + " invoke [1]",
		"Program log: Instruction: Create",
		"Program log: Instruction: CreateIdempotent",
		"Program " + PumpFun + " success",
	}

	variant, ok := c.Classify(logs)
	if !ok {
		t.Fatal("expected creation event")
	}
	if variant != domain.VariantPumpFun {
		t.Errorf("variant = %s, want %s", variant, domain.VariantPumpFun)
	}
}

func TestClassify_RaydiumCreation(t *testing.T) {
	c := NewClassifier()

	logs := []string{
		"Program " + RaydiumAMMV4 + " invoke [1]",
		"Program log: Instruction: CreateIdempotent",
		"Program " + RaydiumAMMV4 + " success",
	}

	variant, ok := c.Classify(logs)
	if !ok {
		t.Fatal("expected creation event")
	}
	if variant != domain.VariantRaydium {
		t.Errorf("variant = %s, want %s", variant, domain.VariantRaydium)
	}
}

func TestClassify_NoMarker(t *testing.T) {
	c := NewClassifier()

	logs := []string{
		"Program " + PumpFun + " invoke [1]",
		"Program log: Instruction: Buy",
		"Program " + PumpFun + " success",
	}

	if _, ok := c.Classify(logs); ok {
		t.Error("logs without the creation marker must not classify")
	}
}

func TestClassify_MarkerWithoutKnownProgram(t *testing.T) {
	c := NewClassifier()

	logs := []string{
		"Program SomeOtherProgram1111111111111111111111111 invoke [1]",
		"Program log: Instruction: CreateIdempotent",
	}

	if _, ok := c.Classify(logs); ok {
		t.Error("marker without a recognized program must not classify")
	}
}

func TestClassify_EmptyLogs(t *testing.T) {
	c := NewClassifier()

	if _, ok := c.Classify(nil); ok {
		t.Error("empty logs must not classify")
	}
}

func TestClassify_FirstProgramInLineOrderWins(t *testing.T) {
	c := NewClassifier()

	// Both programs cannot co-occur in practice; if they did, line order
	// decides.
	logs := []string{
		"Program log: Instruction: CreateIdempotent",
		"Program " + RaydiumAMMV4 + " invoke [1]",
		"Program " + PumpFun + " invoke [2]",
	}

	variant, ok := c.Classify(logs)
	if !ok {
		t.Fatal("expected creation event")
	}
	if variant != domain.VariantRaydium {
		t.Errorf("variant = %s, want first mentioned %s", variant, domain.VariantRaydium)
	}
}
