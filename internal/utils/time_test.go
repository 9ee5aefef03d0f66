package utils

import "testing"

func TestDisplayDateTime(t *testing.T) {
	cases := map[string]string{
		"2026-03-01T07:45:00+07:00": "01 Mar 2026 07:45",
		"2026-03-01 07:45:00":       "01 Mar 2026 07:45",
		"2026-03-01":                "01 Mar 2026",
		"soon":                      "soon",
		"":                          "",
	}
	for in, want := range cases {
		if got := DisplayDateTime(in); got != want {
			t.Fatalf("DisplayDateTime(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSafeFilenamePart(t *testing.T) {
	if got := SafeFilenamePart(` TRV/12:"x" `); got != "TRV_12__x_" {
		t.Fatalf("SafeFilenamePart = %q", got)
	}
	if got := SafeFilenamePart(""); got != "NA" {
		t.Fatalf("empty should be NA, got %q", got)
	}
}
