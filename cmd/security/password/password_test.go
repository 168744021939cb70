package password

import "testing"

func testConfig() Config {
	cfg := DefaultConfig()
	// Keep tests fast; production params are much heavier.
	cfg.Params.MemoryKiB = 8 * 1024
	cfg.Params.Iterations = 1
	return cfg
}

func TestHashAndVerify_OK(t *testing.T) {
	cfg := testConfig()

	h, err := cfg.Hash("Secur3p!")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	ok, err := cfg.Verify(h, "Secur3p!")
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if !ok {
		t.Fatalf("expected match")
	}
}

func TestHash_SaltedPerCall(t *testing.T) {
	cfg := testConfig()

	h1, err := cfg.Hash("Secur3p!")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	h2, err := cfg.Hash("Secur3p!")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	if h1 == h2 {
		t.Fatalf("two hashes of the same password must differ")
	}

	for _, h := range []string{h1, h2} {
		ok, err := cfg.Verify(h, "Secur3p!")
		if err != nil || !ok {
			t.Fatalf("Verify(%q) = (%v, %v), want match", h, ok, err)
		}
	}
}

func TestVerify_WrongPassword(t *testing.T) {
	cfg := testConfig()

	h, err := cfg.Hash("Secur3p!")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	ok, err := cfg.Verify(h, "wrong password")
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if ok {
		t.Fatalf("expected mismatch")
	}
}

func TestVerify_InvalidHash(t *testing.T) {
	cfg := testConfig()

	cases := []string{
		"",
		"not-a-hash",
		"$argon2id$v=18$m=8192,t=1,p=1$c2FsdHNhbHQ$aGFzaGhhc2hoYXNoaGFzaA",
		"$argon2id$v=19$m=0,t=1,p=1$c2FsdHNhbHQ$aGFzaGhhc2hoYXNoaGFzaA",
		"$bcrypt$whatever",
	}
	for _, enc := range cases {
		ok, err := cfg.Verify(enc, "whatever")
		if err != ErrInvalidHash {
			t.Fatalf("Verify(%q): expected ErrInvalidHash, got %v", enc, err)
		}
		if ok {
			t.Fatalf("Verify(%q): expected false", enc)
		}
	}
}

func TestVerify_RejectsOversizedParams(t *testing.T) {
	cfg := testConfig()

	// A digest claiming far more memory than our configured maximum must be
	// refused before any argon2 work happens.
	big := "$argon2id$v=19$m=1048576,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2hoYXNoaGFzaGhhc2hoYXNoaGFzaGhhc2g"
	ok, err := cfg.Verify(big, "whatever")
	if err != ErrInvalidHash {
		t.Fatalf("expected ErrInvalidHash, got %v", err)
	}
	if ok {
		t.Fatalf("expected false")
	}
}
