// Package provider holds one extraction strategy per tracked provider.
// Each strategy is an ordered fallback chain of tiers: structural
// markup first, text patterns second, known-good defaults last.
package provider

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	rupeeExpr  = regexp.MustCompile(`(?:₹|Rs\.?)\s*([\d,]+(?:\.\d{1,2})?)`)
	dollarExpr = regexp.MustCompile(`\$\s*([\d,]+(?:\.\d+)?)`)
	monthExpr  = regexp.MustCompile(`(\d+)\s*month`)
)

// parseRupee pulls the first ₹/Rs amount out of text.
func parseRupee(text string) *float64 {
	return parseFirst(rupeeExpr, text)
}

// parseDollar pulls the first $ amount out of text.
func parseDollar(text string) *float64 {
	return parseFirst(dollarExpr, text)
}

func parseFirst(expr *regexp.Regexp, text string) *float64 {
	m := expr.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return nil
	}
	return &v
}

// amount converts a captured digit group (possibly comma-separated) to
// a float, returning false on garbage.
func amount(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	return v, err == nil
}

// durationMonths infers a billing period from a plan name such as
// "Quarterly Prime (3 months)". Unknown names default to monthly.
func durationMonths(planName string) int {
	lower := strings.ToLower(planName)

	switch {
	case strings.Contains(lower, "1 month") || strings.Contains(lower, "monthly"):
		return 1
	case strings.Contains(lower, "3 month") || strings.Contains(lower, "quarterly"):
		return 3
	case strings.Contains(lower, "12 month") || strings.Contains(lower, "annual") || strings.Contains(lower, "yearly"):
		return 12
	}

	if m := monthExpr.FindStringSubmatch(lower); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}

	return 1
}
