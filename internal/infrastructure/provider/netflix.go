package provider

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"SubTracker/internal/domain"
	"SubTracker/internal/extract"
)

var (
	netflixPriceExpr    = regexp.MustCompile(`(?i)(Mobile|Basic|Standard|Premium)[:\s]+₹\s*([\d,]+)`)
	netflixScreensExpr  = regexp.MustCompile(`watch on (\d+)`)
	netflixDownloadExpr = regexp.MustCompile(`download on (\d+)`)
)

// Netflix reads the help-center plans table: plan names in bold table
// cells, feature bullet lists beside them, prices in a list under the
// "Pricing" heading.
type Netflix struct{}

// NewNetflix builds the extractor.
func NewNetflix() *Netflix { return &Netflix{} }

// Name identifies the strategy inside the registry.
func (*Netflix) Name() string { return "netflix" }

// Extract runs the structural tier, then the page-text tier.
func (n *Netflix) Extract(doc *goquery.Document) ([]domain.RawPlan, error) {
	return extract.RunTiers(doc, []extract.Tier{n.fromTable, n.fromText})
}

func (n *Netflix) fromTable(doc *goquery.Document) []domain.RawPlan {
	var order []string
	byName := map[string]*domain.RawPlan{}

	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}

		bold := cells.Eq(0).Find("strong, b, span[style*='font-weight:bold']").First()
		name := strings.TrimSpace(bold.Text())
		if name == "" || strings.EqualFold(name, "Netflix Plans") {
			return
		}

		plan := &domain.RawPlan{PlanName: name}
		cells.Eq(1).Find("li").Each(func(_ int, item *goquery.Selection) {
			feature := strings.TrimSpace(item.Text())
			plan.Features = append(plan.Features, feature)
			parseNetflixFeature(plan, feature)
		})

		byName[name] = plan
		order = append(order, name)
	})

	// Prices live in a list following the "Pricing" heading.
	doc.Find("h2, h3, h4").EachWithBreak(func(_ int, heading *goquery.Selection) bool {
		if !strings.Contains(strings.ToLower(heading.Text()), "pricing") {
			return true
		}
		for sib := heading.Next(); sib.Length() > 0; sib = sib.Next() {
			items := sib.Find("li")
			if goquery.NodeName(sib) == "ul" || items.Length() > 0 {
				items.Each(func(_ int, item *goquery.Selection) {
					order = applyNetflixPrice(byName, order, item.Text())
				})
				break
			}
		}
		return false
	})

	plans := make([]domain.RawPlan, 0, len(order))
	for _, name := range order {
		plans = append(plans, *byName[name])
	}
	return plans
}

func (n *Netflix) fromText(doc *goquery.Document) []domain.RawPlan {
	var plans []domain.RawPlan
	for _, m := range netflixPriceExpr.FindAllStringSubmatch(doc.Text(), -1) {
		price, ok := amount(m[2])
		if !ok {
			continue
		}
		plans = append(plans, domain.RawPlan{
			PlanName:     normalizePlanName(m[1]),
			PriceMonthly: domain.Float(price),
		})
	}
	return plans
}

func applyNetflixPrice(byName map[string]*domain.RawPlan, order []string, text string) []string {
	m := netflixPriceExpr.FindStringSubmatch(text)
	if m == nil {
		return order
	}
	price, ok := amount(m[2])
	if !ok {
		return order
	}

	name := normalizePlanName(m[1])
	if plan, exists := byName[name]; exists {
		plan.PriceMonthly = domain.Float(price)
		return order
	}
	byName[name] = &domain.RawPlan{PlanName: name, PriceMonthly: domain.Float(price)}
	return append(order, name)
}

func parseNetflixFeature(plan *domain.RawPlan, feature string) {
	lower := strings.ToLower(feature)

	switch {
	case strings.Contains(lower, "480p") || strings.Contains(lower, "sd"):
		plan.VideoQuality = "480p (SD)"
	case strings.Contains(lower, "720p"),
		strings.Contains(lower, "hd") && !strings.Contains(lower, "full hd") && !strings.Contains(lower, "ultra"):
		plan.VideoQuality = "720p (HD)"
	case strings.Contains(lower, "1080p") || strings.Contains(lower, "full hd"):
		plan.VideoQuality = "1080p (Full HD)"
	case strings.Contains(lower, "4k") || strings.Contains(lower, "ultra hd"):
		plan.VideoQuality = "4K (Ultra HD)"
		if strings.Contains(lower, "hdr") {
			plan.VideoQuality += " + HDR"
		}
	}

	if m := netflixScreensExpr.FindStringSubmatch(lower); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			plan.MaxScreens = n
		}
	}
	if m := netflixDownloadExpr.FindStringSubmatch(lower); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			plan.DownloadDevices = n
		}
	}

	if strings.Contains(lower, "phone") || strings.Contains(lower, "tablet") {
		plan.DeviceTypes = "Mobile/Tablet"
	} else if strings.Contains(lower, "supported device") {
		plan.DeviceTypes = "All Devices"
	}

	if strings.Contains(lower, "spatial audio") {
		plan.ExtraFeatures = appendExtra(plan.ExtraFeatures, "Spatial Audio")
	}

	if strings.Contains(lower, "with ads") || strings.Contains(lower, "ad-supported") {
		plan.HasAds = true
	} else if strings.Contains(lower, "ad-free") {
		plan.HasAds = false
	}
}

func normalizePlanName(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + strings.ToLower(name[1:])
}

func appendExtra(existing, extra string) string {
	if existing == "" {
		return extra
	}
	return existing + ", " + extra
}
