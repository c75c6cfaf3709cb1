package errors

import (
	"math"
	"testing"
)

func TestValidateProportion(t *testing.T) {
	tests := []struct {
		name    string
		input   float64
		wantErr bool
	}{
		{"one", 1, false},
		{"small", 1e-9, false},
		{"typical", 0.05, false},

		{"zero", 0, true},
		{"negative", -0.1, true},
		{"above one", 1.5, true},
		{"nan", math.NaN(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProportion(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateProportion(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidConfig) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidConfig)
			}
		})
	}
}

func TestValidateMinWeight(t *testing.T) {
	tests := []struct {
		name    string
		input   float64
		wantErr bool
	}{
		{"zero", 0, false},
		{"negative", -5, false},
		{"positive", 500, false},
		{"nan", math.NaN(), true},
		{"inf", math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateMinWeight(tt.input); (err != nil) != tt.wantErr {
				t.Errorf("ValidateMinWeight(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateOpacity(t *testing.T) {
	for _, o := range []float64{0, 0.5, 1} {
		if err := ValidateOpacity(o); err != nil {
			t.Errorf("ValidateOpacity(%v) = %v", o, err)
		}
	}
	for _, o := range []float64{-0.1, 1.1, math.NaN()} {
		if err := ValidateOpacity(o); err == nil {
			t.Errorf("ValidateOpacity(%v) should fail", o)
		}
	}
}

func TestValidateSeparator(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"_", false},
		{"::", false},
		{"", true},
		{" ", true},
		{"_\t", true},
	}

	for _, tt := range tests {
		if err := ValidateSeparator(tt.input); (err != nil) != tt.wantErr {
			t.Errorf("ValidateSeparator(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "data/graph_occupation.json", false},
		{"absolute", "/tmp/graph.json", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 600)), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidatePath(tt.input); (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
