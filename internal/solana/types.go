package solana

// Well-known program addresses.
const (
	// TokenProgram is the legacy SPL Token program.
	TokenProgram = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	// Token2022Program is the extended Token-2022 program.
	Token2022Program = "TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb"
	// AssociatedTokenProgram creates canonical token accounts.
	AssociatedTokenProgram = "ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL"
	// SystemProgram is the native system program.
	SystemProgram = "11111111111111111111111111111111"
	// WSOL is the Wrapped SOL mint address.
	WSOL = "So11111111111111111111111111111111111111112"
)

// KeyedAccount is an account record returned by an ownership query.
type KeyedAccount struct {
	Pubkey   string
	Owner    string
	Lamports uint64
	Data     string // base64-encoded account state
}

// SignatureInfo is one entry of an address signature history.
type SignatureInfo struct {
	Signature string
	Slot      int64
	BlockTime *int64
	Err       interface{} // nil for successful transactions
}

// Transaction is a flattened transaction lookup result.
type Transaction struct {
	Signature   string
	Slot        int64
	BlockTime   int64
	Err         interface{}
	LogMessages []string
	AccountKeys []string
}
