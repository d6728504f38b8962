package normalize

import "math"

// UsageProfile is the assumed monthly consumption used to turn per-token
// API rates into a representative monthly cost.
type UsageProfile struct {
	InputMTokens  float64
	OutputMTokens float64
}

// Normalizer reconciles scraped price pairs and derives monthly costs
// for metered providers. FxRate converts USD billing to the local
// currency; it is fixed configuration, not a live rate.
type Normalizer struct {
	FxRate float64
	Usage  UsageProfile
}

// New returns a Normalizer with the given fixed exchange rate and usage
// profile.
func New(fxRate float64, usage UsageProfile) *Normalizer {
	return &Normalizer{FxRate: fxRate, Usage: usage}
}

// Reconcile resolves an optional (monthly, yearly) pair into a
// consistent one:
//   - yearly only: monthly = yearly/12
//   - monthly only: yearly = monthly×12
//   - yearly < monthly: yearly is bogus, recompute as monthly×12
//   - monthly ≤ yearly < monthly×10: the "yearly" figure is a
//     monthly-equivalent from yearly billing, so yearly = yearly×12
//
// The last rule can misread a genuinely steep discount; it is kept for
// compatibility with observed pricing pages.
func (n *Normalizer) Reconcile(monthly, yearly *float64) (float64, float64) {
	var m, y float64
	if monthly != nil {
		m = *monthly
	}
	if yearly != nil {
		y = *yearly
	}

	if y > 0 && m <= 0 {
		m = Round2(y / 12.0)
	}

	if m > 0 && y <= 0 {
		y = m * 12.0
	}

	if m > 0 && y > 0 {
		if y < m {
			y = m * 12.0
		} else if y < m*10 {
			y = y * 12.0
		}
	}

	return Round2(m), Round2(y)
}

// MeteredMonthly estimates a monthly cost in local currency for a
// pay-per-token provider, given USD rates per million input and output
// tokens.
func (n *Normalizer) MeteredMonthly(inputPerM, outputPerM float64) float64 {
	usd := inputPerM*n.Usage.InputMTokens + outputPerM*n.Usage.OutputMTokens
	return Round2(usd * n.FxRate)
}

// FromUSD converts a USD price to local currency at the fixed rate.
func (n *Normalizer) FromUSD(usd float64) float64 {
	return Round2(usd * n.FxRate)
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100.0) / 100.0
}
