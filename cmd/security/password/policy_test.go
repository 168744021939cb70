package password

import "testing"

func TestValidate_Composition(t *testing.T) {
	cfg := DefaultConfig()

	cases := []struct {
		name string
		pw   string
		want error
	}{
		{"ok mixed", "Passw0rd", nil},
		{"ok scenario password", "Secur3p!", nil},
		{"too short", "Ab1", ErrPasswordTooShort},
		{"purely lowercase", "password", ErrPasswordNeedsMix},
		{"lowercase with digit", "passw0rd", ErrPasswordNeedsMix},
		{"no lowercase", "PASSWORD1", ErrPasswordNeedsMix},
		{"purely numeric", "12345678", ErrPasswordNeedsMix},
		{"purely alphabetic", "PassWord", ErrPasswordNeedsMix},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := cfg.Validate(tc.pw); got != tc.want {
				t.Fatalf("Validate(%q) = %v, want %v", tc.pw, got, tc.want)
			}
		})
	}
}

func TestValidate_MaxLength(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Policy.MaxLength = 10

	if err := cfg.Validate("Aa1aaaaaaaa"); err != ErrPasswordTooLong {
		t.Fatalf("expected ErrPasswordTooLong, got %v", err)
	}
}
