package provider

import "testing"

func TestAmazonPrimeFromTable(t *testing.T) {
	t.Parallel()

	html := `<table class="a-bordered">
	<tr><td>Plan</td><td>Price</td></tr>
	<tr><td>Monthly Prime (1 month)</td><td>₹ 299</td></tr>
	<tr><td>Quarterly Prime (3 months)</td><td>₹ 599</td></tr>
	<tr><td>Annual Prime (12 months)</td><td>1499</td></tr>
	</table>`

	plans, err := NewAmazonPrime().Extract(docFromHTML(t, html))
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if len(plans) != 3 {
		t.Fatalf("expected 3 plans, got %d", len(plans))
	}

	monthly := plans[0]
	if *monthly.PriceMonthly != 299 {
		t.Fatalf("unexpected monthly price: %v", *monthly.PriceMonthly)
	}

	quarterly := plans[1]
	if *quarterly.PriceMonthly != 199.67 {
		t.Fatalf("expected 599/3 rounded, got %v", *quarterly.PriceMonthly)
	}
	if *quarterly.PriceYearly != 2396 {
		t.Fatalf("expected 599*4, got %v", *quarterly.PriceYearly)
	}

	// Bare number without the currency sign still parses inside the
	// sanity range.
	annual := plans[2]
	if *annual.PriceMonthly != 124.92 {
		t.Fatalf("expected 1499/12 rounded, got %v", *annual.PriceMonthly)
	}
	if *annual.PriceYearly != 1499 {
		t.Fatalf("unexpected annual yearly: %v", *annual.PriceYearly)
	}
	if annual.VideoQuality != "4K Ultra HD" {
		t.Fatalf("unexpected annual quality: %s", annual.VideoQuality)
	}
}

func TestAmazonPrimeTextFallback(t *testing.T) {
	t.Parallel()

	html := `<p>Choose Monthly Prime at ₹299, or Annual Prime Lite at ₹799 for the year.</p>`

	plans, err := NewAmazonPrime().Extract(docFromHTML(t, html))
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if len(plans) < 2 {
		t.Fatalf("expected at least 2 plans, got %d", len(plans))
	}

	var lite *float64
	for i := range plans {
		if plans[i].PlanName == "Annual Prime Lite (12 months)" {
			lite = plans[i].PriceYearly
		}
	}
	if lite == nil || *lite != 799 {
		t.Fatalf("unexpected lite yearly: %v", lite)
	}
}

func TestDurationMonths(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		want int
	}{
		{"Monthly Prime (1 month)", 1},
		{"Quarterly Prime (3 months)", 3},
		{"Annual Prime (12 months)", 12},
		{"Prime Shopping Edition (6 months)", 6},
		{"Some Plan", 1},
	}

	for _, c := range cases {
		if got := durationMonths(c.name); got != c.want {
			t.Fatalf("durationMonths(%q) = %d, want %d", c.name, got, c.want)
		}
	}
}
