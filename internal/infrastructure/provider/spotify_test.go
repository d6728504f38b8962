package provider

import "testing"

func TestSpotifyFromCards(t *testing.T) {
	t.Parallel()

	html := `<div>
	<div data-event-plan-name="Premium Standard">
	  <p class="jIMmw">₹66 for 3 months</p>
	  <p class="oFhpN">₹139 / month after</p>
	  <ul>
	    <li><p class="euprEz">1 Premium account</p></li>
	    <li><p class="euprEz">Very High audio quality (~320kbps)</p></li>
	    <li><p class="euprEz">Download to listen offline</p></li>
	  </ul>
	</div>
	<div data-event-plan-name="Premium Platinum">
	  <p class="jIMmw">₹299 / month</p>
	  <ul>
	    <li><p class="euprEz">Up to 3 Platinum accounts</p></li>
	    <li><p class="euprEz">Lossless audio quality (24-bit)</p></li>
	    <li><p class="euprEz">AI DJ and AI Playlist</p></li>
	  </ul>
	</div>
	</div>`

	plans, err := NewSpotify().Extract(docFromHTML(t, html))
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if len(plans) != 2 {
		t.Fatalf("expected 2 plans, got %d", len(plans))
	}

	standard := plans[0]
	if standard.PlanName != "Premium Standard" {
		t.Fatalf("unexpected first plan: %s", standard.PlanName)
	}
	// The after-promo price wins over the promo figure.
	if standard.PriceMonthly == nil || *standard.PriceMonthly != 139 {
		t.Fatalf("expected after-promo 139, got %v", standard.PriceMonthly)
	}
	if standard.MaxScreens != 1 {
		t.Fatalf("unexpected standard accounts: %d", standard.MaxScreens)
	}
	if standard.DownloadDevices != 1 {
		t.Fatalf("expected offline download flag, got %d", standard.DownloadDevices)
	}

	platinum := plans[1]
	if platinum.PriceMonthly == nil || *platinum.PriceMonthly != 299 {
		t.Fatalf("unexpected platinum price: %v", platinum.PriceMonthly)
	}
	if platinum.MaxScreens != 3 {
		t.Fatalf("unexpected platinum accounts: %d", platinum.MaxScreens)
	}
	if platinum.VideoQuality != "Lossless (24-bit/44.1kHz)" {
		t.Fatalf("unexpected platinum quality: %s", platinum.VideoQuality)
	}
	if platinum.ExtraFeatures != "AI Features" {
		t.Fatalf("unexpected platinum extras: %s", platinum.ExtraFeatures)
	}
}

func TestSpotifyPromoAmortizedWithoutRegularPrice(t *testing.T) {
	t.Parallel()

	html := `<div data-event-plan-name="Premium Lite">
	  <p class="jIMmw">₹99 for 3 months</p>
	</div>`

	plans, err := NewSpotify().Extract(docFromHTML(t, html))
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if len(plans) != 1 {
		t.Fatalf("expected 1 plan, got %d", len(plans))
	}
	if *plans[0].PriceMonthly != 33 {
		t.Fatalf("expected 99/3, got %v", *plans[0].PriceMonthly)
	}
}

func TestSpotifyTextFallback(t *testing.T) {
	t.Parallel()

	html := `<p>Premium Lite at ₹69 / month. Premium Standard at ₹139 / month.
	Premium Platinum at ₹299 / month. Premium Student at ₹66 / month.</p>`

	plans, err := NewSpotify().Extract(docFromHTML(t, html))
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if len(plans) != 4 {
		t.Fatalf("expected 4 plans, got %d", len(plans))
	}
	if plans[0].PlanName != "Premium Lite" || *plans[0].PriceMonthly != 69 {
		t.Fatalf("unexpected plan: %+v", plans[0])
	}
}
