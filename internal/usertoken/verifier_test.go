package usertoken

import (
	"errors"
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestVerifier(t *testing.T) *Verifier {
	t.Helper()
	v, err := NewVerifier(Config{Secret: testSecret, Issuer: "issuer-a", Audience: "aud-a"})
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}
	return v
}

func TestNewVerifierRequiresSecret(t *testing.T) {
	if _, err := NewVerifier(Config{}); err == nil {
		t.Fatalf("expected missing secret to fail")
	}
	if _, err := NewVerifier(Config{Secret: "short"}); err == nil {
		t.Fatalf("expected short secret to fail")
	}
}

func TestVerifyIssuedToken(t *testing.T) {
	v := newTestVerifier(t)
	token, err := v.Issue("user-a", "teacher", time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := v.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "user-a" || claims.Role != "teacher" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if sub, err := v.VerifySubject(token); err != nil || sub != "user-a" {
		t.Fatalf("verify subject: sub=%s err=%v", sub, err)
	}
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	v := newTestVerifier(t)
	other, err := NewVerifier(Config{Secret: strings.Repeat("x", 32), Issuer: "issuer-a", Audience: "aud-a"})
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}
	wrongKey, _ := other.Issue("user-a", "", time.Minute)
	expired, _ := v.Issue("user-a", "", -time.Hour)
	noSubject, _ := v.Issue("", "", time.Minute)

	wrongAudience := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-a",
		Issuer:    "issuer-a",
		Audience:  jwt.ClaimStrings{"someone-else"},
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	})
	signedWrongAudience, err := wrongAudience.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	noExpiry := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:  "user-a",
		Issuer:   "issuer-a",
		Audience: jwt.ClaimStrings{"aud-a"},
	})
	signedNoExpiry, err := noExpiry.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-jwt"},
		{"wrong key", wrongKey},
		{"expired", expired},
		{"wrong audience", signedWrongAudience},
		{"missing expiry", signedNoExpiry},
		{"missing subject", noSubject},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := v.Verify(tc.token); err == nil {
				t.Fatalf("expected %s token to be rejected", tc.name)
			}
		})
	}
	if _, err := v.Verify(noSubject); !errors.Is(err, ErrSubjectMissing) {
		t.Fatalf("expected ErrSubjectMissing, got %v", err)
	}
}
