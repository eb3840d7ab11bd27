package core

import (
	"math"
	"testing"
)

func TestFormatINR(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want string
	}{
		{name: "zero", in: 0, want: "₹0"},
		{name: "three digits", in: 999, want: "₹999"},
		{name: "four digits", in: 1000, want: "₹1,000"},
		{name: "five digits", in: 90000, want: "₹90,000"},
		{name: "worked example expenses", in: 57597, want: "₹57,597"},
		{name: "lakh grouping", in: 114000, want: "₹1,14,000"},
		{name: "crore grouping", in: 12345678, want: "₹1,23,45,678"},
		{name: "rounds fractions away", in: 10000.5, want: "₹10,001"},
		{name: "negative", in: -500, want: "-₹500"},
		{name: "negative grouped", in: -8000, want: "-₹8,000"},
		{name: "nan coerced to zero", in: math.NaN(), want: "₹0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatINR(tt.in); got != tt.want {
				t.Errorf("FormatINR(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSafeAmount(t *testing.T) {
	if got := SafeAmount(math.NaN()); got != 0 {
		t.Errorf("SafeAmount(NaN) = %v, want 0", got)
	}
	if got := SafeAmount(math.Inf(1)); got != 0 {
		t.Errorf("SafeAmount(+Inf) = %v, want 0", got)
	}
	if got := SafeAmount(-12.5); got != -12.5 {
		t.Errorf("SafeAmount(-12.5) = %v, want -12.5", got)
	}
}

func TestMonthName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2025-01", "January"},
		{"2025-12", "December"},
		{"2025-13", "2025-13"},
		{"bogus", "bogus"},
	}
	for _, tt := range tests {
		if got := MonthName(tt.in); got != tt.want {
			t.Errorf("MonthName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
