package logger

import (
	"strings"
	"time"
)

// Status collapses an error into the ok/error status attribute.
func Status(err error) string {
	if err == nil {
		return "ok"
	}
	return "error"
}

// Took reports time elapsed since start, rounded like RoundMS.
func Took(start time.Time) time.Duration {
	return RoundMS(time.Since(start))
}

// RoundMS rounds a duration to whole milliseconds. Negative values
// collapse to zero.
func RoundMS(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return d.Round(time.Millisecond)
}

// SummarizeStrings joins at most limit values for a preview attribute
// and reports whether anything was left out.
func SummarizeStrings(values []string, limit int) (string, bool) {
	if limit <= 0 {
		return "", len(values) > 0
	}
	truncated := len(values) > limit
	if truncated {
		values = values[:limit]
	}
	return strings.Join(values, ", "), truncated
}
