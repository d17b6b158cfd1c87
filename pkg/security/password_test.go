package security

import (
	"strings"
	"testing"

	"github.com/he2-ai/backoffice-backend/pkg/config"
)

func testPasswordConfig() config.PasswordConfig {
	// Small parameters keep the test fast; production values come from env.
	return config.PasswordConfig{
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple", testPasswordConfig())
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$") {
		t.Fatalf("unexpected hash format: %s", hash)
	}

	ok, err := VerifyPassword("correct horse battery staple", hash)
	if err != nil {
		t.Fatalf("VerifyPassword error: %v", err)
	}
	if !ok {
		t.Fatal("expected password to verify")
	}

	ok, err = VerifyPassword("wrong password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword error: %v", err)
	}
	if ok {
		t.Fatal("expected mismatch")
	}
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	if _, err := HashPassword("", testPasswordConfig()); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	if _, err := VerifyPassword("anything", "$bcrypt$not-argon"); err == nil {
		t.Fatal("expected malformed hash error")
	}
}

func TestGenerateCode(t *testing.T) {
	code, err := GenerateCode(10)
	if err != nil {
		t.Fatalf("GenerateCode error: %v", err)
	}
	if len(code) != 10 {
		t.Fatalf("unexpected code length %d", len(code))
	}
	for _, r := range code {
		if strings.ContainsRune("01OIL", r) {
			t.Fatalf("code contains ambiguous glyph %q", r)
		}
	}

	if _, err := GenerateCode(0); err == nil {
		t.Fatal("expected error for non-positive length")
	}
}
