package session

import (
	"testing"
	"time"

	"github.com/fastbreakhq/campauth/internal/domain/types"
)

func TestIssueAndParse(t *testing.T) {
	i := NewIssuer("topsecret", time.Hour)

	tok, err := i.Issue("mom@example.com", "Sam", types.RoleParent)
	if err != nil {
		t.Fatal(err)
	}
	if tok == "" {
		t.Fatal("expected a token")
	}

	claims, err := i.Parse(tok)
	if err != nil {
		t.Fatal(err)
	}
	if claims.Email != "mom@example.com" || claims.Role != types.RoleParent {
		t.Fatalf("claims=%+v", claims)
	}
}

func TestIssue_NoSecretNoToken(t *testing.T) {
	i := NewIssuer("", time.Hour)
	tok, err := i.Issue("a@b.com", "A", types.RoleParent)
	if err != nil {
		t.Fatal(err)
	}
	if tok != "" {
		t.Fatal("without secret there is no session token")
	}
}

func TestParse_RejectsTampered(t *testing.T) {
	i := NewIssuer("topsecret", time.Hour)
	tok, _ := i.Issue("a@b.com", "A", types.RoleAdmin)

	other := NewIssuer("othersecret", time.Hour)
	if _, err := other.Parse(tok); err == nil {
		t.Fatal("expected signature rejection")
	}
	if _, err := i.Parse(tok + "x"); err == nil {
		t.Fatal("expected malformed rejection")
	}
}

func TestParse_Expired(t *testing.T) {
	i := NewIssuer("topsecret", -time.Minute)
	tok, _ := i.Issue("a@b.com", "A", types.RoleParent)
	if _, err := i.Parse(tok); err == nil {
		t.Fatal("expected expiry rejection")
	}
}
