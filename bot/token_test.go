package bot

import (
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestSubstituteToken_RoundTrip(t *testing.T) {
	issuer := NewSubstituteTokenIssuer("secret", "https://app.example.com/substitute")

	link, err := issuer.Link("P1", "t1", "M1")
	if err != nil {
		t.Fatalf("Link failed: %v", err)
	}

	parsed, err := url.Parse(link)
	if err != nil {
		t.Fatalf("Failed to parse link: %v", err)
	}
	token := parsed.Query().Get("token")
	if token == "" {
		t.Fatal("Expected link to carry a token parameter")
	}

	claims, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if claims.ParticipantID != "P1" || claims.TenantID != "t1" || claims.MeetingID != "M1" {
		t.Errorf("Unexpected claims: %+v", claims)
	}
}

func TestSubstituteToken_ExpiresAfterWindow(t *testing.T) {
	issuer := NewSubstituteTokenIssuer("secret", "https://app.example.com/substitute")
	issued := time.Date(2026, 3, 7, 9, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return issued }

	link, err := issuer.Link("P1", "t1", "M1")
	if err != nil {
		t.Fatalf("Link failed: %v", err)
	}
	token := strings.TrimPrefix(link, "https://app.example.com/substitute?token=")

	issuer.now = func() time.Time { return issued.Add(substituteTokenTTL - time.Minute) }
	if _, err := issuer.Verify(token); err != nil {
		t.Errorf("Expected token to verify inside the window, got %v", err)
	}

	issuer.now = func() time.Time { return issued.Add(substituteTokenTTL + time.Minute) }
	if _, err := issuer.Verify(token); err == nil {
		t.Error("Expected token to fail past the window")
	}
}

func TestSubstituteToken_WrongSecretFails(t *testing.T) {
	issuer := NewSubstituteTokenIssuer("secret", "https://app.example.com/substitute")
	other := NewSubstituteTokenIssuer("different-secret", "https://app.example.com/substitute")

	link, err := issuer.Link("P1", "t1", "M1")
	if err != nil {
		t.Fatalf("Link failed: %v", err)
	}
	token := strings.TrimPrefix(link, "https://app.example.com/substitute?token=")

	if _, err := other.Verify(token); err == nil {
		t.Error("Expected verification under another secret to fail")
	}
}
