package composition

import (
	"math"
	"strconv"
	"strings"
)

// parseNumber parses a decimal attribute value. Non-finite values are
// rejected along with malformed ones.
func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// parseInt parses an integer attribute value. Decimal text such as "800.0"
// is rejected, matching how declared source sizes are stored.
func parseInt(s string) (int64, bool) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// formatDecimal renders v in its shortest round-tripping form, always with a
// fractional part: 200 becomes "200.0", 133.333... keeps every digit.
func formatDecimal(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

// formatTruncated renders v truncated toward zero as an integer.
func formatTruncated(v float64) string {
	return strconv.FormatInt(int64(v), 10)
}
