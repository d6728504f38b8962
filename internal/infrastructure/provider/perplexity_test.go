package provider

import "testing"

func TestPerplexityFromCards(t *testing.T) {
	t.Parallel()

	html := `<div>
	<div><h2 class="framer-text">Perplexity Pro</h2><p>$20 / month</p></div>
	<div><h2 class="framer-text">Enterprise Pro</h2><p>$40 / month</p></div>
	</div>`

	plans, err := NewPerplexity(testNormalizer()).Extract(docFromHTML(t, html))
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if len(plans) != 2 {
		t.Fatalf("expected 2 plans, got %d", len(plans))
	}

	pro := plans[0]
	if pro.PlanName != "Perplexity Pro" {
		t.Fatalf("unexpected first plan: %s", pro.PlanName)
	}
	// $20 × 83 = 1660
	if pro.PriceMonthly == nil || *pro.PriceMonthly != 1660 {
		t.Fatalf("unexpected pro price: %v", pro.PriceMonthly)
	}
	if pro.PriceYearly == nil || *pro.PriceYearly != 16600 {
		t.Fatalf("unexpected pro yearly: %v", pro.PriceYearly)
	}

	if *plans[1].PriceMonthly != 3320 {
		t.Fatalf("unexpected enterprise price: %v", *plans[1].PriceMonthly)
	}
}

func TestPerplexityDefaults(t *testing.T) {
	t.Parallel()

	plans, err := NewPerplexity(testNormalizer()).Extract(docFromHTML(t, "<p>redirecting…</p>"))
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if len(plans) != 3 {
		t.Fatalf("expected 3 default plans, got %d", len(plans))
	}

	if plans[0].PlanName != "Perplexity Pro" || *plans[0].PriceMonthly != 1660 {
		t.Fatalf("unexpected pro defaults: %+v", plans[0])
	}
	// Enterprise Max: $325 × 83 = 26975 monthly, $3250 × 83 yearly.
	max := plans[2]
	if max.PlanName != "Enterprise Max" || *max.PriceMonthly != 26975 {
		t.Fatalf("unexpected max defaults: %+v", max)
	}
	if *max.PriceYearly != 269750 {
		t.Fatalf("unexpected max yearly: %v", *max.PriceYearly)
	}
}
