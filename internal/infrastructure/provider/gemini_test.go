package provider

import "testing"

func TestGeminiFromText(t *testing.T) {
	t.Parallel()

	html := `<div>
	<p>Free</p>
	<p>Google AI Plus ₹399 /month</p>
	<p>Google AI Pro ₹1,950 /month</p>
	<p>Google AI Ultra ₹24,500 /month</p>
	</div>`

	plans, err := NewGemini().Extract(docFromHTML(t, html))
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if len(plans) != 4 {
		t.Fatalf("expected 4 plans, got %d", len(plans))
	}

	if plans[0].PlanName != "Gemini Free" || *plans[0].PriceMonthly != 0 {
		t.Fatalf("unexpected free plan: %+v", plans[0])
	}
	if *plans[1].PriceMonthly != 399 {
		t.Fatalf("unexpected plus price: %v", *plans[1].PriceMonthly)
	}
	if *plans[3].PriceMonthly != 24500 {
		t.Fatalf("unexpected ultra price: %v", *plans[3].PriceMonthly)
	}
}

func TestGeminiRejectsInsanePrice(t *testing.T) {
	t.Parallel()

	// A matched number far outside the known tier price means the
	// pattern hit unrelated text, so the known price is kept.
	html := `<div>
	<p>Google AI Plus ₹9 limited offer</p>
	<p>Google AI Pro ₹1,950 /month</p>
	</div>`

	plans, err := NewGemini().Extract(docFromHTML(t, html))
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}

	var plus *float64
	for i := range plans {
		if plans[i].PlanName == "Google AI Plus" {
			plus = plans[i].PriceMonthly
		}
	}
	if plus == nil || *plus != 399 {
		t.Fatalf("expected known plus price 399, got %v", plus)
	}
}

func TestGeminiDefaultsWhenPageUnreadable(t *testing.T) {
	t.Parallel()

	plans, err := NewGemini().Extract(docFromHTML(t, "<p>loading…</p>"))
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if len(plans) != 4 {
		t.Fatalf("expected 4 default plans, got %d", len(plans))
	}
	if *plans[2].PriceMonthly != 1950 {
		t.Fatalf("unexpected default pro price: %v", *plans[2].PriceMonthly)
	}
}
