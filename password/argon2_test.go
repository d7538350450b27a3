package password

import (
	"strings"
	"testing"
)

func testHasher(t *testing.T) *Argon2 {
	t.Helper()

	h, err := NewArgon2(Config{
		Memory:      8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	})
	if err != nil {
		t.Fatalf("NewArgon2 failed: %v", err)
	}
	return h
}

func TestHashAndVerify(t *testing.T) {
	h := testHasher(t)

	encoded, err := h.Hash("correct horse battery")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$") {
		t.Fatalf("expected PHC format, got %q", encoded)
	}

	ok, err := h.Verify("correct horse battery", encoded)
	if err != nil || !ok {
		t.Fatalf("expected verification, ok=%v err=%v", ok, err)
	}

	ok, err = h.Verify("wrong password", encoded)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if ok {
		t.Fatal("wrong password must not verify")
	}
}

func TestHashSaltsDiffer(t *testing.T) {
	h := testHasher(t)

	a, err := h.Hash("same password")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	b, err := h.Hash("same password")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if a == b {
		t.Fatal("two hashes of one password must use different salts")
	}
}

func TestHashRejectsShortPassword(t *testing.T) {
	h := testHasher(t)

	if _, err := h.Hash("tiny"); err == nil {
		t.Fatal("expected error for password under 6 bytes")
	}
}

func TestVerifyUsesEmbeddedParameters(t *testing.T) {
	strong, err := NewArgon2(Config{
		Memory:      16 * 1024,
		Time:        2,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	})
	if err != nil {
		t.Fatalf("NewArgon2 failed: %v", err)
	}

	encoded, err := strong.Hash("correct horse battery")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	// A hasher with different parameters still verifies, because the PHC
	// string carries its own.
	weak := testHasher(t)
	ok, err := weak.Verify("correct horse battery", encoded)
	if err != nil || !ok {
		t.Fatalf("expected cross-parameter verification, ok=%v err=%v", ok, err)
	}
}

func TestVerifyRejectsMalformed(t *testing.T) {
	h := testHasher(t)

	cases := []string{
		"",
		"not a hash",
		"$argon2i$v=19$m=8192,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA",
		"$argon2id$v=1$m=8192,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA",
		"$argon2id$v=19$m=8192,t=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA",
		"$argon2id$v=19$m=8192,t=1,p=1$!!!$aGFzaA",
	}

	for _, encoded := range cases {
		if _, err := h.Verify("whatever password", encoded); err == nil {
			t.Fatalf("expected parse error for %q", encoded)
		}
	}
}

func TestNewArgon2Floors(t *testing.T) {
	base := Config{Memory: 8 * 1024, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

	weakMem := base
	weakMem.Memory = 1024
	if _, err := NewArgon2(weakMem); err == nil {
		t.Fatal("expected error for weak memory")
	}

	weakSalt := base
	weakSalt.SaltLength = 8
	if _, err := NewArgon2(weakSalt); err == nil {
		t.Fatal("expected error for short salt")
	}

	weakKey := base
	weakKey.KeyLength = 8
	if _, err := NewArgon2(weakKey); err == nil {
		t.Fatal("expected error for short key")
	}
}
