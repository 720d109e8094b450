package identity

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	testIssuer   = "https://token.actions.githubusercontent.com"
	testAudience = "tokengate"
)

func signedTestToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("signing test token: %v", err)
	}
	return signed
}

func TestPrecheckClaims(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	baseClaims := func() jwt.MapClaims {
		return jwt.MapClaims{
			"iss": testIssuer,
			"aud": testAudience,
			"exp": now.Add(time.Hour).Unix(),
			"sub": "repo:octo-org/octo-repo:ref:refs/heads/main",
		}
	}

	tests := []struct {
		name     string
		token    func(t *testing.T) string
		wantKind VerifyErrorKind
	}{
		{
			name:  "Valid Claims Pass",
			token: func(t *testing.T) string { return signedTestToken(t, baseClaims()) },
		},
		{
			name:     "Garbage Token",
			token:    func(t *testing.T) string { return "not-a-jwt" },
			wantKind: KindMalformed,
		},
		{
			name: "Wrong Issuer",
			token: func(t *testing.T) string {
				claims := baseClaims()
				claims["iss"] = "https://accounts.example.com"
				return signedTestToken(t, claims)
			},
			wantKind: KindIssuerMismatch,
		},
		{
			name: "Wrong Audience",
			token: func(t *testing.T) string {
				claims := baseClaims()
				claims["aud"] = "someone-else"
				return signedTestToken(t, claims)
			},
			wantKind: KindAudienceMismatch,
		},
		{
			name: "Expired",
			token: func(t *testing.T) string {
				claims := baseClaims()
				claims["exp"] = now.Add(-time.Minute).Unix()
				return signedTestToken(t, claims)
			},
			wantKind: KindExpired,
		},
		{
			name: "Missing Expiry",
			token: func(t *testing.T) string {
				claims := baseClaims()
				delete(claims, "exp")
				return signedTestToken(t, claims)
			},
			wantKind: KindMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := precheckClaims(tt.token(t), testIssuer, testAudience, now)
			if tt.wantKind == "" {
				if err != nil {
					t.Fatalf("precheckClaims() error = %v, want nil", err)
				}
				return
			}
			var verifyErr *VerifyError
			if !errors.As(err, &verifyErr) {
				t.Fatalf("precheckClaims() error = %v, want *VerifyError", err)
			}
			if verifyErr.Kind != tt.wantKind {
				t.Errorf("precheckClaims() kind = %s, want %s", verifyErr.Kind, tt.wantKind)
			}
		})
	}
}

func TestDecodeIdentity(t *testing.T) {
	claims := map[string]any{
		"sub":              "repo:octo-org/octo-repo:ref:refs/heads/main",
		"repository":       "octo-org/octo-repo",
		"repository_owner": "octo-org",
		"ref":              "refs/heads/main",
		"actor":            "octocat",
		"run_id":           "6370333187",
		"event_name":       "push",
	}

	ident, err := decodeIdentity(claims)
	if err != nil {
		t.Fatalf("decodeIdentity() error = %v", err)
	}
	if ident.Subject != claims["sub"] {
		t.Errorf("Subject = %q, want %q", ident.Subject, claims["sub"])
	}
	if ident.Repository != "octo-org/octo-repo" {
		t.Errorf("Repository = %q", ident.Repository)
	}
	if ident.RunID != "6370333187" {
		t.Errorf("RunID = %q", ident.RunID)
	}
	if ident.Claims["event_name"] != "push" {
		t.Error("raw claims not carried through")
	}
}

func TestDecodeIdentityRejectsIncompleteClaims(t *testing.T) {
	tests := []struct {
		name   string
		claims map[string]any
	}{
		{name: "Missing Subject", claims: map[string]any{"repository": "octo-org/octo-repo"}},
		{name: "Missing Repository", claims: map[string]any{"sub": "repo:octo-org/octo-repo:ref:refs/heads/main"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeIdentity(tt.claims)
			var verifyErr *VerifyError
			if !errors.As(err, &verifyErr) || verifyErr.Kind != KindMalformed {
				t.Errorf("decodeIdentity() error = %v, want malformed VerifyError", err)
			}
		})
	}
}

func TestSubjectAllowList(t *testing.T) {
	subject := "repo:octo-org/octo-repo:ref:refs/heads/main"

	tests := []struct {
		name     string
		patterns []string
		want     bool
	}{
		{name: "Empty List Allows All", patterns: nil, want: true},
		{name: "Exact Match", patterns: []string{subject}, want: true},
		{name: "Wildcard Match", patterns: []string{"repo:octo-org/*"}, want: true},
		{name: "No Match", patterns: []string{"repo:other-org/*"}, want: false},
		{
			name:     "No Abbreviation Expansion",
			patterns: []string{"ref:refs/heads/main"},
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allowList := NewSubjectAllowList(tt.patterns)
			if got := allowList.Allows(subject); got != tt.want {
				t.Errorf("Allows(%q) = %v, want %v", subject, got, tt.want)
			}
		})
	}
}
