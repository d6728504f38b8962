package provider

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"SubTracker/internal/domain"
	"SubTracker/internal/extract"
	"SubTracker/internal/normalize"
)

var (
	spotifyMonthlyExpr  = regexp.MustCompile(`₹\s*([\d,]+)\s*/\s*month`)
	spotifyPromoExpr    = regexp.MustCompile(`₹\s*([\d,]+)\s+for\s+(\d+)\s+months?`)
	spotifyAccountsExpr = regexp.MustCompile(`(?i)(?:up to\s*)?(\d+)\s*(?:premium|lite|standard|platinum|verified)?\s*accounts?`)
)

// spotifyTextPlans drive the text-pattern fallback tier: plan family,
// pattern over the rendered page, audio quality, account count.
var spotifyTextPlans = []struct {
	name     string
	pattern  *regexp.Regexp
	quality  string
	accounts int
}{
	{"Premium Lite", regexp.MustCompile(`(?is)Lite.*?₹\s*([\d,]+)\s*/\s*month`), "High (~160kbps)", 1},
	{"Premium Standard", regexp.MustCompile(`(?is)Standard.*?₹\s*([\d,]+)\s*/\s*month`), "Very High (~320kbps)", 1},
	{"Premium Platinum", regexp.MustCompile(`(?is)Platinum.*?₹\s*([\d,]+)\s*/\s*month`), "Lossless (24-bit)", 3},
	{"Premium Student", regexp.MustCompile(`(?is)Student.*?₹\s*([\d,]+)\s*/\s*month`), "Very High (~320kbps)", 1},
}

// Spotify reads premium plan cards tagged with data-event-plan-name.
// When a card shows both a promo price and a "₹N/month after" price,
// the regular after-promo price wins.
type Spotify struct{}

// NewSpotify builds the extractor.
func NewSpotify() *Spotify { return &Spotify{} }

func (*Spotify) Name() string { return "spotify" }

// Extract runs the card tier, then the page-text tier.
func (s *Spotify) Extract(doc *goquery.Document) ([]domain.RawPlan, error) {
	return extract.RunTiers(doc, []extract.Tier{s.fromCards, s.fromText})
}

func (s *Spotify) fromCards(doc *goquery.Document) []domain.RawPlan {
	var plans []domain.RawPlan

	doc.Find("div[data-event-plan-name]").Each(func(_ int, card *goquery.Selection) {
		name := card.AttrOr("data-event-plan-name", "")
		if name == "" {
			return
		}

		plan := domain.RawPlan{
			PlanName:    name,
			DeviceTypes: "All Devices",
		}

		if price := parseSpotifyPrice(card.Find("p.jIMmw, p[class*='jIMmw']").First().Text()); price != nil {
			plan.PriceMonthly = price
		}
		// Regular price after the promo period, if shown.
		if after := parseSpotifyPrice(card.Find("p.oFhpN, p[class*='oFhpN']").First().Text()); after != nil {
			plan.PriceMonthly = after
		}

		card.Find("ul li p.euprEz, ul li p[class*='euprEz']").Each(func(_ int, item *goquery.Selection) {
			feature := strings.TrimSpace(item.Text())
			plan.Features = append(plan.Features, feature)
			parseSpotifyFeature(&plan, feature)
		})

		if plan.PriceMonthly != nil && *plan.PriceMonthly > 0 {
			plans = append(plans, plan)
		}
	})

	return plans
}

func (s *Spotify) fromText(doc *goquery.Document) []domain.RawPlan {
	var plans []domain.RawPlan
	text := doc.Text()

	for _, tp := range spotifyTextPlans {
		m := tp.pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		price, ok := amount(m[1])
		if !ok {
			continue
		}
		plans = append(plans, domain.RawPlan{
			PlanName:     tp.name,
			PriceMonthly: domain.Float(price),
			VideoQuality: tp.quality,
			MaxScreens:   tp.accounts,
			DeviceTypes:  "All Devices",
		})
	}

	return plans
}

// parseSpotifyPrice handles "₹139 / month", "₹99 for 3 months" (promo,
// amortized) and a bare "₹139".
func parseSpotifyPrice(text string) *float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	if m := spotifyMonthlyExpr.FindStringSubmatch(text); m != nil {
		if v, ok := amount(m[1]); ok {
			return domain.Float(v)
		}
	}

	if m := spotifyPromoExpr.FindStringSubmatch(text); m != nil {
		total, ok := amount(m[1])
		months, err := strconv.Atoi(m[2])
		if ok && err == nil && months > 0 {
			return domain.Float(normalize.Round2(total / float64(months)))
		}
	}

	return parseRupee(text)
}

func parseSpotifyFeature(plan *domain.RawPlan, feature string) {
	lower := strings.ToLower(feature)

	switch {
	case strings.Contains(lower, "lossless") || strings.Contains(lower, "24-bit"):
		plan.VideoQuality = "Lossless (24-bit/44.1kHz)"
	case strings.Contains(lower, "very high") || strings.Contains(lower, "320kbps"):
		plan.VideoQuality = "Very High (~320kbps)"
	case strings.Contains(lower, "high") || strings.Contains(lower, "160kbps"):
		plan.VideoQuality = "High (~160kbps)"
	}

	if m := spotifyAccountsExpr.FindStringSubmatch(feature); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			plan.MaxScreens = n
		}
	}

	if strings.Contains(lower, "download") && strings.Contains(lower, "offline") {
		plan.DownloadDevices = 1
	}

	if strings.Contains(lower, "ai dj") || strings.Contains(lower, "ai playlist") {
		plan.ExtraFeatures = appendExtra(plan.ExtraFeatures, "AI Features")
	}
	if strings.Contains(lower, "dj software") {
		plan.ExtraFeatures = appendExtra(plan.ExtraFeatures, "DJ Software Support")
	}
}
