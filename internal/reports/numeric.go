package reports

import (
	"strconv"
	"strings"
)

// Placeholder tokens the bulletins print instead of a number: a dashed
// rule for "no trade", UNCH for an unchanged price and NEW for a newly
// listed contract month.
func isPlaceholder(tok string) bool {
	switch tok {
	case "", "----", "UNCH", "NEW":
		return true
	}
	return false
}

// normalizeToken strips thousands separators, the bid/ask markers some
// settlement columns carry, and collapses the detached sign the layout
// extractor produces ("-   6482" becomes "-6482").
func normalizeToken(tok string) string {
	tok = strings.TrimSpace(tok)
	tok = strings.ReplaceAll(tok, ",", "")
	tok = strings.TrimSuffix(tok, "B")
	tok = strings.TrimSuffix(tok, "A")
	if strings.HasPrefix(tok, "+") || strings.HasPrefix(tok, "-") {
		tok = tok[:1] + strings.TrimSpace(tok[1:])
	}
	return strings.TrimSpace(tok)
}

// ParseAmount parses a price or quantity token. Placeholder tokens and
// unparsable input return ok=false; callers decide whether that means
// zero or null for the field at hand.
func ParseAmount(tok string) (float64, bool) {
	tok = normalizeToken(tok)
	if isPlaceholder(tok) {
		return 0, false
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseCount parses a non-negative count token. Placeholders and
// unparsable input read as zero.
func ParseCount(tok string) int {
	v, ok := ParseAmount(tok)
	if !ok {
		return 0
	}
	return int(v)
}

// ParseSigned parses a signed delta token such as "+ 1645" or
// "-   6482". Placeholders read as zero.
func ParseSigned(tok string) int64 {
	v, ok := ParseAmount(tok)
	if !ok {
		return 0
	}
	return int64(v)
}

// FormatCount renders a count with thousands separators the way the
// reports print them. The inverse of ParseCount for valid tokens.
func FormatCount(v int) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := strconv.Itoa(v)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		return "-" + s
	}
	return s
}
