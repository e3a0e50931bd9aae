package domain

import "fmt"

// PoolVariant identifies which pool-creation program produced an event.
type PoolVariant string

const (
	// VariantPumpFun marks pools created through the pump.fun program.
	VariantPumpFun PoolVariant = "PUMP_FUN"
	// VariantRaydium marks pools created through the Raydium AMM v4 program.
	VariantRaydium PoolVariant = "RAYDIUM"
)

// Environment is the runtime environment tag selecting which pool
// variant is actionable.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

// ParseEnvironment parses an environment tag from configuration.
func ParseEnvironment(s string) (Environment, error) {
	switch Environment(s) {
	case EnvDevelopment, EnvProduction:
		return Environment(s), nil
	}
	return "", fmt.Errorf("unknown environment %q (want development or production)", s)
}

// variantEnvironments maps each variant to the environment it is
// actionable in. Cross combinations are dropped by the pipeline.
var variantEnvironments = map[PoolVariant]Environment{
	VariantPumpFun: EnvDevelopment,
	VariantRaydium: EnvProduction,
}

// Actionable reports whether an event of the given variant should be
// acted on under the given runtime environment.
func Actionable(v PoolVariant, env Environment) bool {
	return variantEnvironments[v] == env
}

// NotificationRecord is a raw classified creation candidate as it
// arrived on the stream, kept for offline analysis regardless of
// whether the pool later qualified.
type NotificationRecord struct {
	Signature  string
	Slot       uint64
	Variant    PoolVariant
	Logs       []string
	ReceivedAt int64 // Unix seconds
}

// PoolCreationEvent is a classified and (eventually) enriched
// pool-creation notification. It lives from classification until the
// execution handoff; only qualified events are journaled.
type PoolCreationEvent struct {
	Signature   string      // transaction signature of the creating tx
	Pool        string      // pool account address
	Token       string      // token mint address
	HolderCount uint64      // enriched; zero until the aggregator runs
	BuyCount    uint64      // enriched; zero until the buy counter runs
	Timestamp   int64       // Unix seconds at classification time
	Slot        uint64      // ledger slot from the notification envelope
	Variant     PoolVariant // which program created the pool
}
