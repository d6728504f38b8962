package provider

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"SubTracker/internal/domain"
	"SubTracker/internal/extract"
)

// geminiPlans is the known lineup; the page is heavily scripted, so
// extraction confirms prices against these and falls back to them.
var geminiPlans = []struct {
	name    string
	price   float64
	pattern *regexp.Regexp
	feature string
}{
	{"Gemini Free", 0, regexp.MustCompile(`(?i)\bFree\b`), "Access to Gemini 2.5 Flash"},
	{"Google AI Plus", 399, regexp.MustCompile(`(?i)AI\s*Plus.*?₹\s*([\d,]+)`), "Gemini 2.5 Pro with higher limits"},
	{"Google AI Pro", 1950, regexp.MustCompile(`(?i)AI\s*Pro.*?₹\s*([\d,]+)`), "Gemini 2.5 Pro, Veo video generation"},
	{"Google AI Ultra", 24500, regexp.MustCompile(`(?i)AI\s*Ultra.*?₹\s*([\d,]+)`), "Highest limits, Deep Think, 30 TB storage"},
}

// Gemini confirms the published tier prices against the page text and
// refines them from the rendered price amounts when available.
type Gemini struct{}

// NewGemini builds the extractor.
func NewGemini() *Gemini { return &Gemini{} }

func (*Gemini) Name() string { return "gemini" }

// Extract runs the text-confirmation tier, then the defaults tier.
func (g *Gemini) Extract(doc *goquery.Document) ([]domain.RawPlan, error) {
	return extract.RunTiers(doc, []extract.Tier{g.fromText, g.defaults})
}

func (g *Gemini) fromText(doc *goquery.Document) []domain.RawPlan {
	text := doc.Text()

	// Rendered price amounts, in tier order, refine the known prices.
	var rendered []float64
	doc.Find("span.price-amount, span[class*='price-amount']").Each(func(_ int, sel *goquery.Selection) {
		if p := parseRupee(sel.Text()); p != nil {
			rendered = append(rendered, *p)
		}
	})

	var plans []domain.RawPlan
	for i, kp := range geminiPlans {
		if !kp.pattern.MatchString(text) {
			continue
		}

		price := kp.price
		if m := kp.pattern.FindStringSubmatch(text); len(m) > 1 {
			if v, ok := amount(m[1]); ok && geminiSane(v, kp.price) {
				price = v
			}
		} else if i > 0 && len(rendered) >= i {
			if v := rendered[i-1]; geminiSane(v, kp.price) {
				price = v
			}
		}

		plans = append(plans, geminiPlan(kp.name, price, kp.feature))
	}

	// A page that only mentions "Free" is not a pricing page.
	if len(plans) < 2 {
		return nil
	}
	return plans
}

func (g *Gemini) defaults(*goquery.Document) []domain.RawPlan {
	plans := make([]domain.RawPlan, 0, len(geminiPlans))
	for _, kp := range geminiPlans {
		plans = append(plans, geminiPlan(kp.name, kp.price, kp.feature))
	}
	return plans
}

// geminiSane rejects scraped amounts wildly off the known tier price,
// which usually means the regex matched an unrelated number.
func geminiSane(scraped, known float64) bool {
	if known == 0 {
		return scraped == 0
	}
	return scraped >= known*0.2 && scraped <= known*5
}

func geminiPlan(name string, price float64, feature string) domain.RawPlan {
	plan := domain.RawPlan{
		PlanName:     name,
		PriceMonthly: domain.Float(price),
		VideoQuality: "N/A",
		DeviceTypes:  "Web, Mobile, API",
		Features:     []string{feature},
	}

	switch {
	case strings.Contains(name, "Ultra"):
		plan.Features = append(plan.Features,
			"Gemini 2.5 Deep Think",
			"Veo 3 video generation",
			"30 TB Google One storage",
			"YouTube Premium included")
		plan.ExtraFeatures = "Highest usage limits"
	case strings.Contains(name, "Pro"):
		plan.Features = append(plan.Features,
			"2 TB Google One storage",
			"Gemini in Gmail, Docs, and more",
			"NotebookLM higher limits")
	case strings.Contains(name, "Plus"):
		plan.Features = append(plan.Features,
			"200 GB Google One storage",
			"Gemini in Gmail and Docs")
	default:
		plan.Features = append(plan.Features, "Basic usage limits")
	}

	return plan
}
