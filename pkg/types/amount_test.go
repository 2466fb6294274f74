package types

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseMinorUnits(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		decimals int32
		want     string
		wantErr  bool
	}{
		{name: "whole cspr", input: "2.5", decimals: CSPRDecimals, want: "2500000000"},
		{name: "full precision", input: "0.000000001", decimals: CSPRDecimals, want: "1"},
		{name: "zero decimals", input: "42", decimals: 0, want: "42"},
		{name: "token decimals", input: "1.25", decimals: 2, want: "125"},
		{name: "too precise", input: "0.0000000001", decimals: CSPRDecimals, wantErr: true},
		{name: "negative", input: "-1", decimals: CSPRDecimals, wantErr: true},
		{name: "garbage", input: "abc", decimals: CSPRDecimals, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMinorUnits(tt.input, tt.decimals)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAmount) {
					t.Fatalf("ParseMinorUnits(%q) error = %v, want ErrInvalidAmount", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMinorUnits(%q) error: %v", tt.input, err)
			}
			if got.String() != tt.want {
				t.Errorf("ParseMinorUnits(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestFromMinorUnits(t *testing.T) {
	d, err := FromMinorUnits("2500000000", CSPRDecimals)
	if err != nil {
		t.Fatalf("FromMinorUnits() error: %v", err)
	}
	if !d.Equal(decimal.RequireFromString("2.5")) {
		t.Errorf("FromMinorUnits() = %s, want 2.5", d)
	}
	if _, err := FromMinorUnits("1.5", CSPRDecimals); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("fractional minor units error = %v, want ErrInvalidAmount", err)
	}
}

func TestIsMinorUnits(t *testing.T) {
	for _, s := range []string{"0", "123", "340282366920938463463374607431768211455"} {
		if !IsMinorUnits(s) {
			t.Errorf("IsMinorUnits(%q) = false", s)
		}
	}
	for _, s := range []string{"", "-1", "1.0", "1e9", " 1"} {
		if IsMinorUnits(s) {
			t.Errorf("IsMinorUnits(%q) = true", s)
		}
	}
}
