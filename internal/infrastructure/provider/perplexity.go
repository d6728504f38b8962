package provider

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"SubTracker/internal/domain"
	"SubTracker/internal/extract"
	"SubTracker/internal/normalize"
)

// perplexityPlans is the published USD lineup, converted to the local
// currency on extraction.
var perplexityPlans = []struct {
	name       string
	usdMonthly float64
	usdYearly  float64
	features   []string
}{
	{"Perplexity Pro", 20, 200, []string{
		"Unlimited Pro searches",
		"Access to GPT, Claude, and Gemini models",
		"Image generation",
		"File and image uploads",
	}},
	{"Enterprise Pro", 40, 400, []string{
		"Everything in Pro",
		"SOC 2 compliance and SSO",
		"User management",
		"Data retention controls",
	}},
	{"Enterprise Max", 325, 3250, []string{
		"Everything in Enterprise Pro",
		"Highest usage limits",
		"Priority support",
		"Advanced agents access",
	}},
}

// Perplexity prices in USD. The card tier reads the framer-built
// pricing page; the defaults tier carries the published rates.
type Perplexity struct {
	norm *normalize.Normalizer
}

// NewPerplexity wires the normalizer used for currency conversion.
func NewPerplexity(norm *normalize.Normalizer) *Perplexity {
	return &Perplexity{norm: norm}
}

func (*Perplexity) Name() string { return "perplexity" }

// Extract runs the pricing-card tier, then the defaults tier.
func (p *Perplexity) Extract(doc *goquery.Document) ([]domain.RawPlan, error) {
	return extract.RunTiers(doc, []extract.Tier{p.fromCards, p.defaults})
}

func (p *Perplexity) fromCards(doc *goquery.Document) []domain.RawPlan {
	var plans []domain.RawPlan

	doc.Find("h2.framer-text, h2[class*='framer-text']").Each(func(_ int, heading *goquery.Selection) {
		title := strings.TrimSpace(heading.Text())
		known := matchPerplexityPlan(title)
		if known == nil {
			return
		}

		// The dollar amount sits inside the same card, shortly after
		// the plan title.
		card := heading.Closest("div")
		usd := parseDollar(card.Text())
		for i := 0; usd == nil && i < 3; i++ {
			card = card.Parent()
			usd = parseDollar(card.Text())
		}
		if usd == nil {
			return
		}

		plans = append(plans, p.convert(known.name, *usd, *usd*10, known.features))
	})

	return plans
}

func (p *Perplexity) defaults(*goquery.Document) []domain.RawPlan {
	plans := make([]domain.RawPlan, 0, len(perplexityPlans))
	for _, kp := range perplexityPlans {
		plans = append(plans, p.convert(kp.name, kp.usdMonthly, kp.usdYearly, kp.features))
	}
	return plans
}

func (p *Perplexity) convert(name string, usdMonthly, usdYearly float64, features []string) domain.RawPlan {
	return domain.RawPlan{
		PlanName:      name,
		PriceMonthly:  domain.Float(p.norm.FromUSD(usdMonthly)),
		PriceYearly:   domain.Float(p.norm.FromUSD(usdYearly)),
		VideoQuality:  "N/A",
		DeviceTypes:   "Web, Mobile, Desktop",
		ExtraFeatures: "Billed in USD",
		Features:      features,
	}
}

func matchPerplexityPlan(title string) *struct {
	name       string
	usdMonthly float64
	usdYearly  float64
	features   []string
} {
	lower := strings.ToLower(title)
	for i := range perplexityPlans {
		switch {
		case strings.Contains(lower, "max") && strings.Contains(perplexityPlans[i].name, "Max"),
			strings.Contains(lower, "enterprise") && !strings.Contains(lower, "max") &&
				perplexityPlans[i].name == "Enterprise Pro",
			strings.Contains(lower, "pro") && !strings.Contains(lower, "enterprise") &&
				perplexityPlans[i].name == "Perplexity Pro":
			return &perplexityPlans[i]
		}
	}
	return nil
}
