package tokens

import (
	"encoding/hex"
	"strconv"
	"testing"
)

func TestGenerateResetToken(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 32; i++ {
		tok, err := GenerateResetToken()
		if err != nil {
			t.Fatal(err)
		}
		if len(tok) != 64 {
			t.Fatalf("len=%d want 64 hex chars", len(tok))
		}
		if _, err := hex.DecodeString(tok); err != nil {
			t.Fatalf("not hex: %q", tok)
		}
		if seen[tok] {
			t.Fatalf("duplicate token %q", tok)
		}
		seen[tok] = true
	}
}

func TestGenerateSMSCode_Range(t *testing.T) {
	for i := 0; i < 256; i++ {
		code, err := GenerateSMSCode()
		if err != nil {
			t.Fatal(err)
		}
		n, err := strconv.Atoi(code)
		if err != nil {
			t.Fatalf("not numeric: %q", code)
		}
		if n < 100000 || n > 999999 {
			t.Fatalf("code %d fuera del rango de 6 dígitos", n)
		}
	}
}
