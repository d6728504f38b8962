package provider

import (
	"fmt"
	"regexp"

	"github.com/PuerkitoBio/goquery"

	"SubTracker/internal/domain"
	"SubTracker/internal/extract"
	"SubTracker/internal/normalize"
)

var (
	deepseekCacheMissExpr = regexp.MustCompile(`(?i)1M\s*INPUT\s*TOKENS?\s*\(?CACHE\s*MISS\)?[^$]*\$([\d.]+)`)
	deepseekOutputExpr    = regexp.MustCompile(`(?i)1M\s*OUTPUT\s*TOKENS?[^$]*\$([\d.]+)`)
)

// Known-good DeepSeek token rates, used when the pricing table cannot
// be read. USD per million tokens.
const (
	deepseekChatInput      = 0.27
	deepseekChatOutput     = 1.10
	deepseekReasonerInput  = 0.55
	deepseekReasonerOutput = 2.19
)

// DeepSeek bills per token, not per month. The extractor reads the
// published per-million-token rates and lets the normalizer derive a
// representative monthly cost from the configured usage profile.
type DeepSeek struct {
	norm *normalize.Normalizer
}

// NewDeepSeek wires the normalizer used for metered cost estimation.
func NewDeepSeek(norm *normalize.Normalizer) *DeepSeek {
	return &DeepSeek{norm: norm}
}

func (*DeepSeek) Name() string { return "deepseek" }

// Extract reads token rates from the page text, falling back to the
// known-good defaults so the catalog is never left empty.
func (d *DeepSeek) Extract(doc *goquery.Document) ([]domain.RawPlan, error) {
	return extract.RunTiers(doc, []extract.Tier{d.fromRates, d.defaults})
}

func (d *DeepSeek) fromRates(doc *goquery.Document) []domain.RawPlan {
	text := doc.Text()

	input := findRate(deepseekCacheMissExpr, text)
	output := findRate(deepseekOutputExpr, text)
	if input == nil || output == nil {
		return nil
	}

	return d.buildPlans(*input, *output)
}

func (d *DeepSeek) defaults(*goquery.Document) []domain.RawPlan {
	return d.buildPlans(deepseekChatInput, deepseekChatOutput)
}

func (d *DeepSeek) buildPlans(chatInput, chatOutput float64) []domain.RawPlan {
	chat := meteredPlan("DeepSeek Chat (V3.2)", d.norm, chatInput, chatOutput)
	chat.Features = append(chat.Features,
		"Context Length: 128K tokens",
		"Max Output: 8K tokens",
		"JSON Output support",
		"Tool Calls support")

	reasoner := meteredPlan("DeepSeek Reasoner (R1)", d.norm, deepseekReasonerInput, deepseekReasonerOutput)
	reasoner.Features = append(reasoner.Features,
		"Context Length: 128K tokens",
		"Max Output: 64K tokens",
		"Thinking Mode enabled",
		"Chain-of-thought reasoning")

	// Heavy usage tier: roughly 10M input + 5M output tokens per month.
	pro := domain.RawPlan{
		PlanName:      "DeepSeek Pro (Estimated)",
		PriceMonthly:  domain.Float(normalize.Round2((deepseekReasonerInput*10 + deepseekReasonerOutput*5) * d.norm.FxRate)),
		VideoQuality:  "N/A",
		DeviceTypes:   "API Access",
		ExtraFeatures: "Heavy usage estimate: ~10M input + 5M output tokens/month",
		Features: []string{
			"All Reasoner features",
			"Estimated heavy usage tier",
		},
	}

	return []domain.RawPlan{chat, reasoner, pro}
}

func meteredPlan(name string, norm *normalize.Normalizer, inputPerM, outputPerM float64) domain.RawPlan {
	return domain.RawPlan{
		PlanName:     name,
		PriceMonthly: domain.Float(norm.MeteredMonthly(inputPerM, outputPerM)),
		VideoQuality: "N/A",
		DeviceTypes:  "API Access",
		ExtraFeatures: fmt.Sprintf("Token Pricing: Input $%.2f/1M, Output $%.2f/1M (Pay-per-use API)",
			inputPerM, outputPerM),
	}
}

func findRate(expr *regexp.Regexp, text string) *float64 {
	m := expr.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	if v, ok := amount(m[1]); ok {
		return &v
	}
	return nil
}
