package format

import (
	"math"
	"testing"
	"time"
)

func TestCurrency(t *testing.T) {
	cases := []struct {
		name string
		in   float64
		want string
	}{
		{"zero", 0, "$0"},
		{"thousands", 1500, "$1.5K"},
		{"negative", -5, "N/A"},
		{"missing", math.NaN(), "N/A"},
		{"infinite", math.Inf(1), "N/A"},
		{"billions", 2_500_000_000, "$2.5B"},
		{"millions", 1_230_000, "$1.23M"},
		{"small", 999.994, "$999.99"},
		{"sub-dollar", 0.5, "$0.5"},
		{"exact-thousand", 1000, "$1K"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Currency(tc.in); got != tc.want {
				t.Errorf("Currency(%v) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestCurrency_ParsedStrings(t *testing.T) {
	if got := Currency(ParseNumber("abc")); got != "N/A" {
		t.Errorf(`Currency(ParseNumber("abc")) = %q, want "N/A"`, got)
	}
	if got := Currency(ParseNumber("")); got != "N/A" {
		t.Errorf(`Currency(ParseNumber("")) = %q, want "N/A"`, got)
	}
	if got := Currency(ParseNumber("1500")); got != "$1.5K" {
		t.Errorf(`Currency(ParseNumber("1500")) = %q, want "$1.5K"`, got)
	}
}

func TestCount(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{math.NaN(), "0"},
		{0, "0"},
		{999, "999"},
		{999.9, "999"},
		{1000, "1K"},
		{1250, "1.25K"},
		{2_500_000, "2.5M"},
	}

	for _, tc := range cases {
		if got := Count(tc.in); got != tc.want {
			t.Errorf("Count(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPercentChange(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{math.NaN(), "N/A"},
		{0, "0.00%"},
		{5.678, "+5.68%"},
		{-12.3, "-12.30%"},
	}

	for _, tc := range cases {
		if got := PercentChange(tc.in); got != tc.want {
			t.Errorf("PercentChange(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTimeAgoAt(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		t    time.Time
		want string
	}{
		{"zero-time", time.Time{}, "N/A"},
		{"seconds", now.Add(-45 * time.Second), "45s ago"},
		{"minutes", now.Add(-5 * time.Minute), "5m ago"},
		{"ninety-minutes", now.Add(-90 * time.Minute), "1h ago"},
		{"hours", now.Add(-23 * time.Hour), "23h ago"},
		{"days", now.Add(-3 * 24 * time.Hour), "3d ago"},
		{"forty-days", now.Add(-40 * 24 * time.Hour), "1mo ago"},
		{"months", now.Add(-100 * 24 * time.Hour), "3mo ago"},
		{"years", now.Add(-800 * 24 * time.Hour), "2y ago"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := TimeAgoAt(tc.t, now); got != tc.want {
				t.Errorf("TimeAgoAt = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	if got := Progress(math.NaN()); got != 0 {
		t.Errorf("Progress(NaN) = %v, want 0", got)
	}
	if got := Progress(-3); got != 0 {
		t.Errorf("Progress(-3) = %v, want 0", got)
	}
	if got := Progress(150); got != 100 {
		t.Errorf("Progress(150) = %v, want 100", got)
	}
	if got := Progress(42.5); got != 42.5 {
		t.Errorf("Progress(42.5) = %v, want 42.5", got)
	}
}

func TestShortAddress(t *testing.T) {
	if got := ShortAddress("0x1234567890abcdef"); got != "0x12...cdef" {
		t.Errorf("ShortAddress = %q", got)
	}
	if got := ShortAddress("0xabc"); got != "0xabc" {
		t.Errorf("ShortAddress short input = %q", got)
	}
}
