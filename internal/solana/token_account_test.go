package solana

import (
	"encoding/base64"
	"testing"
)

func TestDecodeTokenAccount_RoundTrip(t *testing.T) {
	payload, err := EncodeTokenAccount(WSOL, TokenProgram, 1234567)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	acc, err := DecodeTokenAccount(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if acc.Mint != WSOL {
		t.Errorf("mint = %s, want %s", acc.Mint, WSOL)
	}
	if acc.Owner != TokenProgram {
		t.Errorf("owner = %s, want %s", acc.Owner, TokenProgram)
	}
	if acc.Amount != 1234567 {
		t.Errorf("amount = %d, want 1234567", acc.Amount)
	}
}

func TestDecodeTokenAccount_TooShort(t *testing.T) {
	short := base64.StdEncoding.EncodeToString(make([]byte, 64))
	if _, err := DecodeTokenAccount(short); err == nil {
		t.Error("expected error for truncated account data")
	}
}

func TestDecodeTokenAccount_BadBase64(t *testing.T) {
	if _, err := DecodeTokenAccount("!!not-base64!!"); err == nil {
		t.Error("expected error for invalid base64")
	}
}

func TestDecodeTokenAccount_Token2022Extensions(t *testing.T) {
	// Token-2022 accounts append extension data past the base layout.
	payload, err := EncodeTokenAccount(WSOL, Token2022Program, 9)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	raw, _ := base64.StdEncoding.DecodeString(payload)
	raw = append(raw, make([]byte, 17)...)

	acc, err := DecodeTokenAccount(base64.StdEncoding.EncodeToString(raw))
	if err != nil {
		t.Fatalf("decode with extensions: %v", err)
	}
	if acc.Amount != 9 {
		t.Errorf("amount = %d, want 9", acc.Amount)
	}
}

func TestIsOnCurve(t *testing.T) {
	// Wallet-style addresses are on-curve, system-program-style strings of
	// ones decode to the identity point which is also on-curve; a PDA-like
	// arbitrary hash usually is not. Use known fixed addresses.
	if !IsValidPubkey(WSOL) {
		t.Errorf("IsValidPubkey(%s) = false", WSOL)
	}
	if IsValidPubkey("tooShort") {
		t.Error("IsValidPubkey(tooShort) = true")
	}
	if IsOnCurve("not-base58-0OIl") {
		t.Error("IsOnCurve should reject undecodable input")
	}
}
