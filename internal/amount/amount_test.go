package amount

import (
	"errors"
	"math/big"
	"testing"
)

func TestToBaseUnits(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		decimals uint8
		expected string
	}{
		{"whole units 6 decimals", "100", 6, "100000000"},
		{"fractional 6 decimals", "1.5", 6, "1500000"},
		{"zero", "0", 6, "0"},
		{"zero with zero decimals", "0", 0, "0"},
		{"18 decimals large supply", "123456789.123456789123456789", 18, "123456789123456789123456789"},
		{"rounds half up", "0.0000005", 6, "1"},
		{"rounds down below half", "0.0000004", 6, "0"},
		{"8 decimals", "0.00000001", 8, "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToBaseUnits(tt.value, tt.decimals)
			if err != nil {
				t.Fatalf("ToBaseUnits(%q, %d): %v", tt.value, tt.decimals, err)
			}
			if got.String() != tt.expected {
				t.Errorf("ToBaseUnits(%q, %d) = %s, expected %s", tt.value, tt.decimals, got, tt.expected)
			}
		})
	}
}

func TestToBaseUnitsInvalid(t *testing.T) {
	for _, value := range []string{"", "abc", "-1", "-0.5", "1.2.3"} {
		_, err := ToBaseUnits(value, 6)
		if !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("ToBaseUnits(%q) error = %v, expected ErrInvalidAmount", value, err)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	values := []string{"0", "1", "0.5", "100.25", "123456.789", "0.000001"}
	for _, decimals := range []uint8{0, 6, 8, 18} {
		for _, v := range values {
			if decimals == 0 && v != "0" && v != "1" {
				continue // fractional values don't survive zero precision
			}
			scaled, err := Scale(v, decimals)
			if err != nil {
				t.Fatalf("Scale(%q, %d): %v", v, decimals, err)
			}
			back, err := Unscale(scaled, decimals)
			if err != nil {
				t.Fatalf("Unscale(%q, %d): %v", scaled, decimals, err)
			}
			if back != v {
				t.Errorf("round trip %q at %d decimals: got %q", v, decimals, back)
			}
		}
	}
}

func TestFromBaseUnitsCanonical(t *testing.T) {
	tests := []struct {
		value    string
		decimals uint8
		expected string
	}{
		{"1500000", 6, "1.5"},
		{"100000000", 6, "100"},
		{"1", 18, "0.000000000000000001"},
		{"0", 6, "0"},
	}
	for _, tt := range tests {
		v, _ := new(big.Int).SetString(tt.value, 10)
		if got := FromBaseUnits(v, tt.decimals); got != tt.expected {
			t.Errorf("FromBaseUnits(%s, %d) = %q, expected %q", tt.value, tt.decimals, got, tt.expected)
		}
	}
}
