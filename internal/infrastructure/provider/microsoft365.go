package provider

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"SubTracker/internal/domain"
	"SubTracker/internal/extract"
)

// microsoftPlans is the known consumer lineup with separate monthly
// and yearly patterns; the pricing page shows both billing periods.
var microsoftPlans = []struct {
	name        string
	monthly     float64
	yearly      float64
	monthlyExpr *regexp.Regexp
	yearlyExpr  *regexp.Regexp
	people      int
}{
	{"Microsoft 365 Personal", 689, 6899,
		regexp.MustCompile(`(?is)Personal.*?₹\s*([\d,]+(?:\.\d{2})?)\s*/\s*month`),
		regexp.MustCompile(`(?is)Personal.*?₹\s*([\d,]+(?:\.\d{2})?)\s*/\s*year`), 1},
	{"Microsoft 365 Family", 819, 8199,
		regexp.MustCompile(`(?is)Family.*?₹\s*([\d,]+(?:\.\d{2})?)\s*/\s*month`),
		regexp.MustCompile(`(?is)Family.*?₹\s*([\d,]+(?:\.\d{2})?)\s*/\s*year`), 6},
	{"Microsoft 365 Premium", 1999, 19999,
		regexp.MustCompile(`(?is)Premium.*?₹\s*([\d,]+(?:\.\d{2})?)\s*/\s*month`),
		regexp.MustCompile(`(?is)Premium.*?₹\s*([\d,]+(?:\.\d{2})?)\s*/\s*year`), 1},
}

// Microsoft365 reads the consumer plan cards, picking up both the
// monthly and the yearly price for each plan.
type Microsoft365 struct{}

// NewMicrosoft365 builds the extractor.
func NewMicrosoft365() *Microsoft365 { return &Microsoft365{} }

func (*Microsoft365) Name() string { return "microsoft-365" }

// Extract runs the card tier, the page-text tier, then the defaults.
func (m *Microsoft365) Extract(doc *goquery.Document) ([]domain.RawPlan, error) {
	return extract.RunTiers(doc, []extract.Tier{m.fromCards, m.fromText, m.defaults})
}

func (m *Microsoft365) fromCards(doc *goquery.Document) []domain.RawPlan {
	var plans []domain.RawPlan

	doc.Find("div.card, div[class*='sku-card']").Each(func(_ int, card *goquery.Selection) {
		title := strings.TrimSpace(card.Find("h3, h2").First().Text())
		kp := matchMicrosoftPlan(title)
		if kp == nil {
			return
		}

		text := card.Text()
		monthly := parseFirst(microsoftMonthExpr, text)
		if monthly == nil {
			monthly = parseRupee(text)
		}
		if monthly == nil {
			return
		}

		plan := microsoftPlan(kp.name, *monthly, *monthly*10, kp.people)
		if yearly := parseFirst(microsoftYearExpr, text); yearly != nil {
			plan.PriceYearly = domain.Float(*yearly)
		}
		plans = append(plans, plan)
	})

	return plans
}

var (
	microsoftMonthExpr = regexp.MustCompile(`₹\s*([\d,]+(?:\.\d{2})?)\s*/\s*month`)
	microsoftYearExpr  = regexp.MustCompile(`₹\s*([\d,]+(?:\.\d{2})?)\s*/\s*year`)
)

func (m *Microsoft365) fromText(doc *goquery.Document) []domain.RawPlan {
	var plans []domain.RawPlan
	text := doc.Text()

	for i := range microsoftPlans {
		kp := &microsoftPlans[i]
		mm := kp.monthlyExpr.FindStringSubmatch(text)
		if mm == nil {
			continue
		}
		monthly, ok := amount(mm[1])
		if !ok {
			continue
		}

		yearly := monthly * 10
		if ym := kp.yearlyExpr.FindStringSubmatch(text); ym != nil {
			if v, vok := amount(ym[1]); vok {
				yearly = v
			}
		}

		plans = append(plans, microsoftPlan(kp.name, monthly, yearly, kp.people))
	}

	return plans
}

func (m *Microsoft365) defaults(*goquery.Document) []domain.RawPlan {
	plans := make([]domain.RawPlan, 0, len(microsoftPlans))
	for i := range microsoftPlans {
		kp := &microsoftPlans[i]
		plans = append(plans, microsoftPlan(kp.name, kp.monthly, kp.yearly, kp.people))
	}
	return plans
}

func matchMicrosoftPlan(title string) *struct {
	name        string
	monthly     float64
	yearly      float64
	monthlyExpr *regexp.Regexp
	yearlyExpr  *regexp.Regexp
	people      int
} {
	lower := strings.ToLower(title)
	if !strings.Contains(lower, "microsoft 365") {
		return nil
	}
	for i := range microsoftPlans {
		short := strings.ToLower(strings.TrimPrefix(microsoftPlans[i].name, "Microsoft 365 "))
		if strings.Contains(lower, short) {
			return &microsoftPlans[i]
		}
	}
	return nil
}

func microsoftPlan(name string, monthly, yearly float64, people int) domain.RawPlan {
	plan := domain.RawPlan{
		PlanName:     name,
		PriceMonthly: domain.Float(monthly),
		PriceYearly:  domain.Float(yearly),
		VideoQuality: "N/A",
		MaxScreens:   people,
		DeviceTypes:  "PC, Mac, Mobile, Tablet",
		Features: []string{
			"Word, Excel, PowerPoint, Outlook",
			"1 TB OneDrive cloud storage per person",
			"Microsoft Defender advanced security",
		},
	}

	switch {
	case strings.Contains(name, "Family"):
		plan.ExtraFeatures = "Up to 6 people"
		plan.Features = append(plan.Features,
			"Share with up to 5 other people",
			"Copilot AI credits for all members")
	case strings.Contains(name, "Premium"):
		plan.ExtraFeatures = "Highest Copilot limits"
		plan.Features = append(plan.Features,
			"Copilot Pro-level AI in Office apps",
			"Priority model access")
	default:
		plan.ExtraFeatures = "Single user"
		plan.Features = append(plan.Features, "Copilot AI credits")
	}

	return plan
}
