package app

import (
	"strings"
	"testing"

	"clubhouse/cmd/security/token"
)

func TestValidateSecurityConfigRequiresClubSecret(t *testing.T) {
	err := ValidateSecurityConfig(Config{DevMode: true})
	if err == nil || !strings.Contains(err.Error(), "CLUBHOUSE_CLUB_SECRET") {
		t.Fatalf("err = %v", err)
	}
}

func TestValidateSecurityConfigDevModeSkipsKeyCheck(t *testing.T) {
	t.Setenv(token.EnvKey, "")

	if err := ValidateSecurityConfig(Config{DevMode: true, ClubSecret: "s"}); err != nil {
		t.Fatalf("dev mode should not require the signing key: %v", err)
	}
}

func TestValidateSecurityConfigRequiresKeyOutsideDev(t *testing.T) {
	t.Setenv(token.EnvKey, "")
	err := ValidateSecurityConfig(Config{ClubSecret: "s"})
	if err == nil || !strings.Contains(err.Error(), "missing") {
		t.Fatalf("err = %v", err)
	}

	t.Setenv(token.EnvKey, "too-short")
	err = ValidateSecurityConfig(Config{ClubSecret: "s"})
	if err == nil || !strings.Contains(err.Error(), "too short") {
		t.Fatalf("err = %v", err)
	}

	t.Setenv(token.EnvKey, strings.Repeat("k", 32))
	if err := ValidateSecurityConfig(Config{ClubSecret: "s"}); err != nil {
		t.Fatalf("valid key rejected: %v", err)
	}
}
