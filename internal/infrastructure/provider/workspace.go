package provider

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"SubTracker/internal/domain"
	"SubTracker/internal/extract"
)

// workspacePlans is the known per-user lineup with sanity bounds for
// scraped amounts; the pricing page mixes promo and regular figures.
var workspacePlans = []struct {
	name     string
	price    float64
	min, max float64
	pattern  *regexp.Regexp
	storage  string
}{
	{"Business Starter", 160.65, 50, 400,
		regexp.MustCompile(`(?is)Business\s*Starter.*?₹\s*([\d,]+(?:\.\d{1,2})?)`), "30 GB per user"},
	{"Business Standard", 864, 400, 1500,
		regexp.MustCompile(`(?is)Business\s*Standard.*?₹\s*([\d,]+(?:\.\d{1,2})?)`), "2 TB per user"},
	{"Business Plus", 1700, 900, 3500,
		regexp.MustCompile(`(?is)Business\s*Plus.*?₹\s*([\d,]+(?:\.\d{1,2})?)`), "5 TB per user"},
}

// Workspace reads the Google Workspace pricing cards, confirming each
// scraped amount against a per-plan sanity range before trusting it.
type Workspace struct{}

// NewWorkspace builds the extractor.
func NewWorkspace() *Workspace { return &Workspace{} }

func (*Workspace) Name() string { return "google-workspace" }

// Extract runs the card tier, the page-text tier, then the defaults.
func (w *Workspace) Extract(doc *goquery.Document) ([]domain.RawPlan, error) {
	return extract.RunTiers(doc, []extract.Tier{w.fromCards, w.fromText, w.defaults})
}

func (w *Workspace) fromCards(doc *goquery.Document) []domain.RawPlan {
	var plans []domain.RawPlan

	doc.Find("div.NAufUb, div[class*='NAufUb']").Each(func(_ int, card *goquery.Selection) {
		name := strings.TrimSpace(card.Find("div.bznaLe, div[class*='bznaLe']").First().Text())
		if name == "" {
			name = strings.TrimSpace(card.Find("h3, h2").First().Text())
		}

		for i := range workspacePlans {
			kp := &workspacePlans[i]
			if !strings.EqualFold(name, kp.name) {
				continue
			}
			price := parseRupee(card.Text())
			if price == nil || *price < kp.min || *price > kp.max {
				break
			}
			plans = append(plans, workspacePlan(kp.name, *price, kp.storage))
			break
		}
	})

	return plans
}

func (w *Workspace) fromText(doc *goquery.Document) []domain.RawPlan {
	var plans []domain.RawPlan
	text := doc.Text()

	for i := range workspacePlans {
		kp := &workspacePlans[i]
		m := kp.pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		price, ok := amount(m[1])
		if !ok || price < kp.min || price > kp.max {
			continue
		}
		plans = append(plans, workspacePlan(kp.name, price, kp.storage))
	}

	return plans
}

func (w *Workspace) defaults(*goquery.Document) []domain.RawPlan {
	plans := make([]domain.RawPlan, 0, len(workspacePlans))
	for i := range workspacePlans {
		kp := &workspacePlans[i]
		plans = append(plans, workspacePlan(kp.name, kp.price, kp.storage))
	}
	return plans
}

func workspacePlan(name string, price float64, storage string) domain.RawPlan {
	plan := domain.RawPlan{
		PlanName:      name,
		PriceMonthly:  domain.Float(price),
		PriceYearly:   domain.Float(price * 12),
		VideoQuality:  "N/A",
		DeviceTypes:   "Web, Mobile, Desktop",
		ExtraFeatures: "Per user / month, annual commitment",
		Features: []string{
			"Custom business email",
			"Gemini AI assistant in Gmail",
			storage + " pooled storage",
		},
	}

	switch name {
	case "Business Starter":
		plan.MaxScreens = 100
		plan.Features = append(plan.Features, "100-participant video meetings")
	case "Business Standard":
		plan.MaxScreens = 150
		plan.Features = append(plan.Features,
			"150-participant video meetings with recording",
			"Appointment booking pages")
	case "Business Plus":
		plan.MaxScreens = 500
		plan.Features = append(plan.Features,
			"500-participant video meetings with attendance tracking",
			"Enhanced security and eDiscovery",
			"eSignature with Docs")
	}

	return plan
}
