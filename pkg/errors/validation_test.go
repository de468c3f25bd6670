package errors

import (
	"math"
	"strings"
	"testing"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "safe_top", false},
		{"with dash", "row-safe", false},
		{"with dot", "sec.size", false},
		{"digits", "123", false},
		{"uuid style", "dynamic_0b1c2d3e-4f50-6172-8394-a5b6c7d8e9f0", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 200), true},
		{"space", "safe top", true},
		{"tab", "safe\ttop", true},
		{"control char", "safe\x01top", true},
		{"leading underscore", "_safe", true},
		{"leading dash", "-safe", true},
		{"slash", "safe/top", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID("field", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidID) {
				t.Errorf("ValidateID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidID)
			}
		})
	}
}

func TestValidateDimension(t *testing.T) {
	tests := []struct {
		name    string
		input   float64
		wantErr bool
	}{
		{"zero", 0, false},
		{"positive", 210, false},
		{"fraction", 0.5, false},

		{"negative", -1, true},
		{"nan", math.NaN(), true},
		{"inf", math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDimension("finish.w", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDimension(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateCount(t *testing.T) {
	tests := []struct {
		name    string
		n, max  int
		wantErr bool
	}{
		{"one", 1, 0, false},
		{"within max", 5, 10, false},
		{"at max", 10, 10, false},

		{"zero", 0, 0, true},
		{"negative", -2, 0, true},
		{"over max", 11, 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCount("variants", tt.n, tt.max)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCount(%d, %d) error = %v, wantErr %v", tt.n, tt.max, err, tt.wantErr)
			}
		})
	}
}
