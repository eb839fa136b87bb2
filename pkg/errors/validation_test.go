package errors

import (
	"math"
	"testing"
)

func TestValidateInstanceName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "noug3-rnd-001.txt", false},
		{"valid with path", "instances/noug3-rnd-001.txt", false},
		{"valid with spaces", "my instance", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 300)), true},
		{"newline", "foo\nbar", true},
		{"carriage return", "foo\rbar", true},
		{"null byte", "foo\x00bar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInstanceName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateInstanceName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateIntegers(t *testing.T) {
	if err := ValidateNonNegative("move distance", 0); err != nil {
		t.Errorf("ValidateNonNegative(0) error = %v", err)
	}
	if err := ValidateNonNegative("move distance", -1); !Is(err, ErrCodeInvalidOptions) {
		t.Errorf("ValidateNonNegative(-1) error = %v, want %s", err, ErrCodeInvalidOptions)
	}
	if err := ValidatePositive("runs", 1); err != nil {
		t.Errorf("ValidatePositive(1) error = %v", err)
	}
	if err := ValidatePositive("runs", 0); err == nil {
		t.Error("ValidatePositive(0) should fail")
	}
}

func TestValidateFraction(t *testing.T) {
	tests := []struct {
		name    string
		input   float64
		wantErr bool
	}{
		{"one", 1, false},
		{"quarter", 0.25, false},
		{"tiny", 1e-9, false},

		{"zero", 0, true},
		{"negative", -0.5, true},
		{"above one", 1.01, true},
		{"NaN", math.NaN(), true},
		{"Inf", math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFraction("perturb", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFraction(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateChoice(t *testing.T) {
	if err := ValidateChoice("construction", "greedy", "random", "greedy"); err != nil {
		t.Errorf("ValidateChoice(greedy) error = %v", err)
	}
	err := ValidateChoice("construction", "Greedy", "random", "greedy")
	if err == nil {
		t.Fatal("ValidateChoice(Greedy) should fail: comparison is case-sensitive")
	}
	want := `INVALID_OPTIONS: construction must be one of [random, greedy], got "Greedy"`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
