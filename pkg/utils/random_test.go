package utils

import (
	"regexp"
	"testing"
)

func TestGenerateNumericCode(t *testing.T) {
	pattern := regexp.MustCompile(`^[0-9]{6}$`)
	for i := 0; i < 200; i++ {
		code, err := GenerateNumericCode()
		if err != nil {
			t.Fatalf("GenerateNumericCode() error = %v", err)
		}
		if !pattern.MatchString(code) {
			t.Fatalf("code = %q, want 6 digits", code)
		}
		if code[0] == '0' {
			t.Fatalf("code = %q, want >= 100000", code)
		}
	}
}

func TestRandomIntInRange(t *testing.T) {
	for i := 0; i < 100; i++ {
		n, err := RandomIntInRange(3, 5)
		if err != nil {
			t.Fatalf("RandomIntInRange() error = %v", err)
		}
		if n < 3 || n > 5 {
			t.Errorf("n = %d, want within [3,5]", n)
		}
	}

	if _, err := RandomIntInRange(5, 3); err == nil {
		t.Error("want error for inverted range")
	}
}
