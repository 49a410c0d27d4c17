package security_test

import (
	"strings"
	"testing"

	"github.com/discfound/discfound-backend/pkg/config"
	"github.com/discfound/discfound-backend/pkg/security"
)

func testSecurityConfig() config.SecurityConfig {
	return config.SecurityConfig{
		ArgonMemoryKB:    32768,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
		ClaimCodeLength:  6,
	}
}

func TestHashAndVerifyClaimCode(t *testing.T) {
	cfg := testSecurityConfig()

	hash, err := security.HashClaimCode("XK7P2M", cfg)
	if err != nil {
		t.Fatalf("HashClaimCode returned error: %v", err)
	}
	if hash == "" {
		t.Fatal("HashClaimCode returned empty string")
	}

	ok, err := security.VerifyClaimCode("XK7P2M", hash)
	if err != nil {
		t.Fatalf("VerifyClaimCode returned error for valid hash: %v", err)
	}
	if !ok {
		t.Fatal("VerifyClaimCode failed for the correct code")
	}

	ok, err = security.VerifyClaimCode("WRONG9", hash)
	if err != nil {
		t.Fatalf("VerifyClaimCode returned error for wrong code: %v", err)
	}
	if ok {
		t.Fatal("VerifyClaimCode returned true for incorrect code")
	}
}

func TestVerifyClaimCodeCaseInsensitive(t *testing.T) {
	cfg := testSecurityConfig()

	hash, err := security.HashClaimCode("XK7P2M", cfg)
	if err != nil {
		t.Fatalf("HashClaimCode returned error: %v", err)
	}

	ok, err := security.VerifyClaimCode("  xk7p2m ", hash)
	if err != nil {
		t.Fatalf("VerifyClaimCode returned error: %v", err)
	}
	if !ok {
		t.Fatal("expected lowercase code with padding to verify")
	}
}

func TestVerifyClaimCodeBadHash(t *testing.T) {
	if _, err := security.VerifyClaimCode("irrelevant", "not-a-hash"); err == nil {
		t.Fatal("expected error for malformed hash")
	}
}

func TestGenerateClaimCode(t *testing.T) {
	code, err := security.GenerateClaimCode(6)
	if err != nil {
		t.Fatalf("GenerateClaimCode returned error: %v", err)
	}
	if len(code) != 6 {
		t.Fatalf("expected 6 characters, got %q", code)
	}
	for _, r := range code {
		if strings.ContainsRune("0O1I", r) {
			t.Fatalf("code %q contains ambiguous character %q", code, r)
		}
	}

	if _, err := security.GenerateClaimCode(0); err == nil {
		t.Fatal("expected error for non-positive length")
	}
}
