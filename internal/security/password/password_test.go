package password

import (
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/fastbreakhq/campauth/internal/domain/types"
)

func TestHash_UsesConfiguredCost(t *testing.T) {
	h, err := Hash("secret123")
	if err != nil {
		t.Fatal(err)
	}
	cost, err := bcrypt.Cost([]byte(h))
	if err != nil {
		t.Fatal(err)
	}
	if cost != Cost {
		t.Fatalf("cost=%d want %d", cost, Cost)
	}
}

func TestHash_RejectsEmpty(t *testing.T) {
	if _, err := Hash(""); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestCredentialOf_HashTakesPriority(t *testing.T) {
	h, _ := Hash("real-password")
	rec := types.UserRecord{
		"passwordHash": h,
		"password":     "stale-plaintext",
	}

	cred := CredentialOf(rec)
	if cred.Kind != KindHashed {
		t.Fatalf("kind=%v want KindHashed", cred.Kind)
	}
	if !cred.Matches("real-password") {
		t.Fatal("hash should match")
	}
	// El plaintext viejo no cuenta cuando hay hash
	if cred.Matches("stale-plaintext") {
		t.Fatal("stale plaintext must not match against the hash")
	}
}

func TestCredentialOf_LegacyPlaintext(t *testing.T) {
	rec := types.UserRecord{"password": "hunter2x"}

	cred := CredentialOf(rec)
	if cred.Kind != KindLegacy {
		t.Fatalf("kind=%v want KindLegacy", cred.Kind)
	}
	if !cred.Matches("hunter2x") {
		t.Fatal("exact match expected")
	}
	if cred.Matches("HUNTER2X") {
		t.Fatal("legacy compare is case sensitive")
	}
}

func TestCredentialOf_None(t *testing.T) {
	cred := CredentialOf(types.UserRecord{"email": "a@b.com"})
	if cred.Kind != KindNone {
		t.Fatalf("kind=%v want KindNone", cred.Kind)
	}
	if cred.Matches("") || cred.Matches("anything") {
		t.Fatal("a record without credential never matches")
	}
}
