package provider

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"SubTracker/internal/domain"
	"SubTracker/internal/extract"
	"SubTracker/internal/normalize"
)

var (
	hotstarMobileExpr  = regexp.MustCompile(`(?i)Mobile\s*\(Ad-Supported\s*plan\)\s*-\s*Rs\s*([\d,]+)\s*/\s*3\s*months\s*and\s*Rs\s*([\d,]+)\s*/\s*year`)
	hotstarSuperExpr   = regexp.MustCompile(`(?i)Super\s*\(Ad-Supported\s*plan\)\**\s*-\s*Rs\s*([\d,]+)\s*/\s*3\s*months\s*and\s*Rs\s*([\d,]+)\s*/\s*year`)
	hotstarPremiumExpr = regexp.MustCompile(`(?is)Premium\s*\(Ad-Free\s*plan\).*?Rs\s*([\d,]+)\s*/\s*month`)
	hotstarQuarterExpr = regexp.MustCompile(`Rs\s*([\d,]+)\s*/\s*3\s*months`)
	hotstarYearExpr    = regexp.MustCompile(`Rs\s*([\d,]+)\s*/\s*year`)
	hotstarMonthExpr   = regexp.MustCompile(`Rs\s*([\d,]+)\s*/\s*month`)
)

// Hotstar's help article describes plans in prose, so the primary tier
// is already text-pattern based; the second tier walks bold elements.
type Hotstar struct{}

// NewHotstar builds the extractor.
func NewHotstar() *Hotstar { return &Hotstar{} }

func (*Hotstar) Name() string { return "hotstar" }

// Extract runs the prose-pattern tier, then the bold-element tier.
func (h *Hotstar) Extract(doc *goquery.Document) ([]domain.RawPlan, error) {
	return extract.RunTiers(doc, []extract.Tier{h.fromProse, h.fromBoldElements})
}

func (h *Hotstar) fromProse(doc *goquery.Document) []domain.RawPlan {
	var plans []domain.RawPlan
	text := doc.Text()

	if plan := hotstarQuarterlyPlan(text, "Mobile", hotstarMobileExpr); plan != nil {
		plan.MaxScreens = 1
		plan.DeviceTypes = "Mobile only"
		plan.Features = append(plan.Features,
			"Access content on 1 mobile device at a time",
			"Live sports streaming",
			"Indian movies and shows")
		plans = append(plans, *plan)
	}

	if plan := hotstarQuarterlyPlan(text, "Super", hotstarSuperExpr); plan != nil {
		plan.MaxScreens = 2
		plan.DeviceTypes = "All Devices"
		plan.Features = append(plan.Features,
			"Access content on any 2 devices at a time",
			"Mobile, Web, and Living Room devices",
			"Live sports streaming",
			"Disney+, HBO, Paramount+ content")
		plans = append(plans, *plan)
	}

	if plan := hotstarPremiumPlan(text); plan != nil {
		plans = append(plans, *plan)
	}

	return plans
}

func (h *Hotstar) fromBoldElements(doc *goquery.Document) []domain.RawPlan {
	var plans []domain.RawPlan

	doc.Find("span.doc-editor__marks__bold, strong, b").Each(func(_ int, bold *goquery.Selection) {
		text := strings.TrimSpace(bold.Text())
		lower := strings.ToLower(text)

		switch {
		case strings.Contains(lower, "mobile") && strings.Contains(lower, "ad-supported"):
			if plan := hotstarFromBoldText("Mobile", text, true, 1, "Mobile only"); plan != nil {
				plans = append(plans, *plan)
			}
		case strings.Contains(lower, "super") && strings.Contains(lower, "ad-supported"):
			if plan := hotstarFromBoldText("Super", text, true, 2, "All Devices"); plan != nil {
				plans = append(plans, *plan)
			}
		case strings.Contains(lower, "premium") && strings.Contains(lower, "ad-free"):
			if m := hotstarMonthExpr.FindStringSubmatch(text); m != nil {
				if price, ok := amount(m[1]); ok {
					plans = append(plans, domain.RawPlan{
						PlanName:      "Premium",
						PriceMonthly:  domain.Float(price),
						MaxScreens:    4,
						DeviceTypes:   "All Devices",
						ExtraFeatures: "Ad-free except LIVE",
					})
				}
			}
		}
	})

	return plans
}

// hotstarQuarterlyPlan parses "Rs X / 3 months and Rs Y / year" into a
// monthly figure derived from the 3-month price plus the yearly total.
func hotstarQuarterlyPlan(text, name string, expr *regexp.Regexp) *domain.RawPlan {
	m := expr.FindStringSubmatch(text)
	if m == nil {
		return nil
	}

	quarterly, okQ := amount(m[1])
	yearly, okY := amount(m[2])
	if !okQ || !okY {
		return nil
	}

	return &domain.RawPlan{
		PlanName:     name,
		PriceMonthly: domain.Float(normalize.Round2(quarterly / 3.0)),
		PriceYearly:  domain.Float(yearly),
		HasAds:       true,
		VideoQuality: "HD",
	}
}

func hotstarPremiumPlan(text string) *domain.RawPlan {
	plan := &domain.RawPlan{PlanName: "Premium"}

	if m := hotstarPremiumExpr.FindStringSubmatch(text); m != nil {
		if price, ok := amount(m[1]); ok {
			plan.PriceMonthly = domain.Float(price)
		}
	}

	// Yearly price sits inside the Premium section, a short span after
	// the plan header.
	if idx := strings.Index(strings.ToLower(text), "premium (ad-free"); idx >= 0 {
		end := idx + 500
		if end > len(text) {
			end = len(text)
		}
		if m := hotstarYearExpr.FindStringSubmatch(text[idx:end]); m != nil {
			if price, ok := amount(m[1]); ok {
				plan.PriceYearly = domain.Float(price)
			}
		}
	}

	if plan.PriceMonthly == nil && plan.PriceYearly != nil {
		plan.PriceMonthly = domain.Float(normalize.Round2(*plan.PriceYearly / 12.0))
	}
	if plan.PriceMonthly == nil {
		return nil
	}

	plan.MaxScreens = 4
	plan.DeviceTypes = "All Devices"
	plan.VideoQuality = "4K"
	plan.ExtraFeatures = "Ad-free except LIVE sports"
	plan.Features = append(plan.Features,
		"Access content on any 4 devices at a time",
		"Mobile, Web, and Living Room devices",
		"Ad-free entertainment (except LIVE content)",
		"Disney+, HBO, Paramount+ content")
	return plan
}

func hotstarFromBoldText(name, text string, hasAds bool, screens int, devices string) *domain.RawPlan {
	var monthly, yearly *float64

	if m := hotstarQuarterExpr.FindStringSubmatch(text); m != nil {
		if price, ok := amount(m[1]); ok {
			monthly = domain.Float(normalize.Round2(price / 3.0))
		}
	}
	if m := hotstarYearExpr.FindStringSubmatch(text); m != nil {
		if price, ok := amount(m[1]); ok {
			yearly = domain.Float(price)
		}
	}
	if monthly == nil {
		return nil
	}

	return &domain.RawPlan{
		PlanName:     name,
		PriceMonthly: monthly,
		PriceYearly:  yearly,
		HasAds:       hasAds,
		MaxScreens:   screens,
		DeviceTypes:  devices,
	}
}
