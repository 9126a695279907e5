package format

import (
	"math"
	"testing"
)

func TestRating(t *testing.T) {
	cases := map[float64]string{
		8.5:   "8.5/10",
		7.234: "7.2/10",
		10:    "10.0/10",
		0:     "0.0/10",
		5.55:  "5.5/10",
		9.95:  "9.9/10",
		1.01:  "1.0/10",
		9.99:  "10.0/10",
		-1:    "-1.0/10",
		-0.5:  "-0.5/10",
		0.25:  "0.3/10",
	}
	for in, want := range cases {
		if got := Rating(in); got != want {
			t.Errorf("Rating(%v) = %q, want %q", in, got, want)
		}
	}
	if got := Rating(math.NaN()); got != NotAvailable {
		t.Errorf("Rating(NaN) = %q, want N/A", got)
	}
}

func TestInt(t *testing.T) {
	cases := map[float64]string{
		1000:       "1,000",
		1234567:    "1,234,567",
		42:         "42",
		0:          "0",
		-1000:      "-1,000",
		1000000000: "1,000,000,000",
		-999:       "-999",
		1000.5:     "1,000.5",
		1234.99:    "1,234.99",
	}
	for in, want := range cases {
		if got := Int(in); got != want {
			t.Errorf("Int(%v) = %q, want %q", in, got, want)
		}
	}
	if got := Int(math.NaN()); got != NotAvailable {
		t.Errorf("Int(NaN) = %q, want N/A", got)
	}
}

func TestCurrency(t *testing.T) {
	cases := map[float64]string{
		999:         "$999",
		1:           "$1",
		1000:        "$1K",
		5500:        "$6K",
		1500:        "$2K",
		2500:        "$3K",
		10000:       "$10K",
		999999:      "$1000K",
		1000000:     "$1.0M",
		5500000:     "$5.5M",
		2300000:     "$2.3M",
		150000000:   "$150.0M",
		999999999:   "$1000.0M",
		1000000000:  "$1.0B",
		2500000000:  "$2.5B",
		10000000000: "$10.0B",
		-1000:       "$-1,000",
		-1:          "$-1",
		-500:        "$-500",
	}
	for in, want := range cases {
		if got := Currency(in); got != want {
			t.Errorf("Currency(%v) = %q, want %q", in, got, want)
		}
	}
	for _, in := range []float64{0, math.NaN()} {
		if got := Currency(in); got != NotAvailable {
			t.Errorf("Currency(%v) = %q, want N/A", in, got)
		}
	}
}

func TestToFixedPadsSmallValues(t *testing.T) {
	if got := toFixed(0.04, 1); got != "0.0" {
		t.Fatalf("toFixed(0.04, 1) = %q, want 0.0", got)
	}
	if got := toFixed(0.5, 0); got != "1" {
		t.Fatalf("toFixed(0.5, 0) = %q, want 1", got)
	}
}
