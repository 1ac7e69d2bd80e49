// Package format converts raw token metrics into the display strings used by
// every dashboard surface. All functions are pure.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Relative-time bucket thresholds in seconds.
const (
	minuteSeconds = 60
	hourSeconds   = 3600
	daySeconds    = 86400
	monthSeconds  = 2592000  // 30 days
	yearSeconds   = 31536000 // 365 days
)

// ParseNumber parses a raw numeric string. Returns NaN for empty or
// unparseable input so the formatters render it as missing.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == "null" || s == "undefined" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// Currency formats a USD amount with the largest applicable suffix.
// Missing, non-finite and negative values render as "N/A"; zero as "$0".
func Currency(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "N/A"
	}
	if v == 0 {
		return "$0"
	}
	if v < 0 {
		return "N/A"
	}
	switch {
	case v >= 1e9:
		return "$" + trimFloat(round2(v/1e9)) + "B"
	case v >= 1e6:
		return "$" + trimFloat(round2(v/1e6)) + "M"
	case v >= 1e3:
		return "$" + trimFloat(round2(v/1e3)) + "K"
	default:
		return "$" + trimFloat(round2(v))
	}
}

// Count formats a plain count (holders, comments). Missing values render
// as "0"; large counts are scaled to M/K with 2-decimal rounding, small
// ones truncated to an integer.
func Count(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	switch {
	case v >= 1e6:
		return trimFloat(round2(v/1e6)) + "M"
	case v >= 1e3:
		return trimFloat(round2(v/1e3)) + "K"
	default:
		return strconv.FormatInt(int64(math.Floor(v)), 10)
	}
}

// PercentChange formats a 24h price change. Positive values carry an
// explicit "+"; missing values render as "N/A".
func PercentChange(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "N/A"
	}
	if v > 0 {
		return fmt.Sprintf("+%.2f%%", v)
	}
	return fmt.Sprintf("%.2f%%", v)
}

// TimeAgo formats the elapsed time since t relative to the current clock.
func TimeAgo(t time.Time) string {
	return TimeAgoAt(t, time.Now())
}

// TimeAgoAt formats the elapsed time between t and now, bucketed into
// seconds/minutes/hours/days/months/years. Zero time renders as "N/A".
func TimeAgoAt(t, now time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	secs := int64(math.Floor(now.Sub(t).Seconds()))
	switch {
	case secs < minuteSeconds:
		return fmt.Sprintf("%ds ago", secs)
	case secs < hourSeconds:
		return fmt.Sprintf("%dm ago", secs/minuteSeconds)
	case secs < daySeconds:
		return fmt.Sprintf("%dh ago", secs/hourSeconds)
	case secs < monthSeconds:
		return fmt.Sprintf("%dd ago", secs/daySeconds)
	case secs < yearSeconds:
		return fmt.Sprintf("%dmo ago", secs/monthSeconds)
	default:
		return fmt.Sprintf("%dy ago", secs/yearSeconds)
	}
}

// Progress clamps a bonding progress percentage to [0, 100].
// Missing values clamp to 0.
func Progress(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// ShortAddress abbreviates an address to its first and last four characters.
func ShortAddress(addr string) string {
	if len(addr) <= 8 {
		return addr
	}
	return addr[:4] + "..." + addr[len(addr)-4:]
}

// round2 rounds to 2 decimal places, half away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// trimFloat renders a float without trailing zeros ("2.5", not "2.50").
func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
