package utils

import "testing"

func TestFormatMoney(t *testing.T) {
	cases := []struct {
		amount   float64
		currency string
		want     string
	}{
		{1250000, "IDR", "Rp1.250.000"},
		{1250000, "", "Rp1.250.000"},
		{-5000, "idr", "-Rp5.000"},
		{0, "IDR", "Rp0"},
		{1234.5, "USD", "USD 1,234.50"},
		{0.07, "sgd", "SGD 0.07"},
		{98000, "JPY", "JPY 98,000"},
	}
	for _, tc := range cases {
		if got := FormatMoney(tc.amount, tc.currency); got != tc.want {
			t.Fatalf("FormatMoney(%v, %q) = %q, want %q", tc.amount, tc.currency, got, tc.want)
		}
	}
}
