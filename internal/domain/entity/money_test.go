package entity

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidAmount(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"0.01", true},
		{"10.50", true},
		{"999999999999.99", true},
		{"0", false},
		{"-1", false},
		{"0.004", false},
		{"10.005", false},
		{"1000000000000", false},
		{"1e15", false},
	}
	for _, tt := range tests {
		if got := ValidAmount(decimal.RequireFromString(tt.in)); got != tt.want {
			t.Errorf("ValidAmount(%s) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
