package provider

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"SubTracker/internal/domain"
	"SubTracker/internal/extract"
	"SubTracker/internal/normalize"
)

var bareNumberExpr = regexp.MustCompile(`([\d,]+(?:\.\d{2})?)`)

// amazonTextPlans drive the text fallback: name, pattern, billing months.
var amazonTextPlans = []struct {
	name    string
	pattern *regexp.Regexp
	months  int
}{
	{"Monthly Prime (1 month)", regexp.MustCompile(`(?i)Monthly Prime.*?₹\s*([\d,]+)`), 1},
	{"Quarterly Prime (3 months)", regexp.MustCompile(`(?i)Quarterly Prime.*?₹\s*([\d,]+)`), 3},
	{"Annual Prime (12 months)", regexp.MustCompile(`(?i)Annual Prime(?:\s+Membership)?(?:[^L]|$).*?₹\s*([\d,]+)`), 12},
	{"Annual Prime Lite (12 months)", regexp.MustCompile(`(?i)Annual Prime Lite.*?₹\s*([\d,]+)`), 12},
	{"Prime Shopping Edition (12 months)", regexp.MustCompile(`(?i)Prime Shopping Edition.*?₹\s*([\d,]+)`), 12},
}

// AmazonPrime reads the bordered comparison table on the help page.
// Plan names carry their billing period ("Quarterly Prime (3 months)"),
// which is used to derive a monthly figure.
type AmazonPrime struct{}

// NewAmazonPrime builds the extractor.
func NewAmazonPrime() *AmazonPrime { return &AmazonPrime{} }

func (*AmazonPrime) Name() string { return "amazon-prime" }

// Extract runs the table tier, then the page-text tier.
func (a *AmazonPrime) Extract(doc *goquery.Document) ([]domain.RawPlan, error) {
	return extract.RunTiers(doc, []extract.Tier{a.fromTable, a.fromText})
}

func (a *AmazonPrime) fromTable(doc *goquery.Document) []domain.RawPlan {
	var plans []domain.RawPlan

	doc.Find("table.a-bordered tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}

		name := strings.TrimSpace(cells.Eq(0).Text())
		priceText := strings.TrimSpace(cells.Eq(1).Text())
		if name == "" || strings.EqualFold(name, "Plan") || strings.Contains(strings.ToLower(priceText), "price") {
			return
		}

		price := parsePrimePrice(priceText)
		if price == nil {
			return
		}

		plans = append(plans, buildPrimePlan(name, *price, durationMonths(name)))
	})

	return plans
}

func (a *AmazonPrime) fromText(doc *goquery.Document) []domain.RawPlan {
	var plans []domain.RawPlan
	text := doc.Text()

	for _, tp := range amazonTextPlans {
		m := tp.pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if price, ok := amount(m[1]); ok {
			plans = append(plans, buildPrimePlan(tp.name, price, tp.months))
		}
	}

	return plans
}

func buildPrimePlan(name string, price float64, months int) domain.RawPlan {
	plan := domain.RawPlan{PlanName: name}

	switch months {
	case 1:
		plan.PriceMonthly = domain.Float(price)
	case 3:
		plan.PriceMonthly = domain.Float(normalize.Round2(price / 3.0))
		plan.PriceYearly = domain.Float(price * 4)
	case 12:
		plan.PriceMonthly = domain.Float(normalize.Round2(price / 12.0))
		plan.PriceYearly = domain.Float(price)
	default:
		plan.PriceMonthly = domain.Float(price)
	}

	setPrimeFeatures(&plan, name)
	return plan
}

func setPrimeFeatures(plan *domain.RawPlan, name string) {
	lower := strings.ToLower(name)
	plan.DeviceTypes = "All Devices"

	switch {
	case strings.Contains(lower, "lite"):
		plan.Features = append(plan.Features,
			"Prime Video with ads on Mobile",
			"Ad-free music",
			"Free delivery on eligible orders",
			"Mobile-only video streaming")
		plan.VideoQuality = "SD/HD (Mobile only)"
		plan.MaxScreens = 1
		plan.HasAds = true
		plan.ExtraFeatures = "Limited Prime benefits"
	case strings.Contains(lower, "shopping edition"):
		plan.Features = append(plan.Features,
			"Free delivery on eligible orders",
			"Early access to deals",
			"No Prime Video",
			"No Prime Music")
		plan.VideoQuality = "N/A"
		plan.ExtraFeatures = "Shopping benefits only"
	default:
		plan.Features = append(plan.Features,
			"Unlimited ad-free Prime Video streaming",
			"Ad-free Prime Music",
			"Free & fast delivery",
			"Prime Reading",
			"Prime Gaming benefits",
			"Early access to deals")
		plan.VideoQuality = "4K Ultra HD"
		plan.MaxScreens = 3
		plan.DownloadDevices = 2
		plan.ExtraFeatures = "Full Prime benefits"
	}
}

// parsePrimePrice reads "₹ 299" style cells, falling back to a bare
// number with a sanity range when the currency sign is absent.
func parsePrimePrice(text string) *float64 {
	if p := parseRupee(text); p != nil {
		return p
	}

	if p := parseFirst(bareNumberExpr, text); p != nil {
		if *p >= 100 && *p <= 5000 {
			return p
		}
	}

	return nil
}
