package bot

import (
	"fmt"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// substituteTokenTTL bounds how long a substitute-registration link stays
// valid.
const substituteTokenTTL = 48 * time.Hour

// SubstituteClaims are the ids a substitute-registration token carries. The
// registration page verifies signature and expiry before trusting them.
type SubstituteClaims struct {
	ParticipantID string
	TenantID      string
	MeetingID     string
}

// SubstituteTokenIssuer signs time-scoped deep-link tokens for the
// substitute-registration page.
type SubstituteTokenIssuer struct {
	secret  string
	baseURL string
	now     func() time.Time
}

func NewSubstituteTokenIssuer(secret, baseURL string) *SubstituteTokenIssuer {
	return &SubstituteTokenIssuer{
		secret:  secret,
		baseURL: baseURL,
		now:     time.Now,
	}
}

// Link returns the deep link carrying a signed HS256 token embedding the
// participant, tenant and meeting ids.
func (i *SubstituteTokenIssuer) Link(participantID, tenantID, meetingID string) (string, error) {
	now := i.now().UTC()
	claims := jwt.MapClaims{
		"sub": participantID,
		"tid": tenantID,
		"mid": meetingID,
		"exp": now.Add(substituteTokenTTL).Unix(),
		"iat": now.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(i.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign substitute token: %w", err)
	}

	return i.baseURL + "?token=" + url.QueryEscape(signed), nil
}

// Verify parses and validates a substitute token, returning the embedded
// ids. Expired or tampered tokens fail.
func (i *SubstituteTokenIssuer) Verify(token string) (SubstituteClaims, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(i.secret), nil
	}, jwt.WithTimeFunc(func() time.Time { return i.now() }))
	if err != nil {
		return SubstituteClaims{}, fmt.Errorf("invalid substitute token: %w", err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return SubstituteClaims{}, fmt.Errorf("invalid substitute token claims")
	}

	sub, _ := claims["sub"].(string)
	tid, _ := claims["tid"].(string)
	mid, _ := claims["mid"].(string)
	if sub == "" || tid == "" || mid == "" {
		return SubstituteClaims{}, fmt.Errorf("substitute token missing ids")
	}

	return SubstituteClaims{ParticipantID: sub, TenantID: tid, MeetingID: mid}, nil
}
