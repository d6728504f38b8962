package extract

import (
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"SubTracker/internal/domain"
)

func testDoc(t *testing.T) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body></body></html>"))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	return doc
}

func TestRunTiersFirstUsableWins(t *testing.T) {
	t.Parallel()

	first := func(*goquery.Document) []domain.RawPlan {
		return []domain.RawPlan{{PlanName: "Basic", PriceMonthly: domain.Float(199)}}
	}
	second := func(*goquery.Document) []domain.RawPlan {
		t.Fatal("second tier must not run when the first succeeds")
		return nil
	}

	plans, err := RunTiers(testDoc(t), []Tier{first, second})
	if err != nil {
		t.Fatalf("RunTiers error: %v", err)
	}
	if len(plans) != 1 || plans[0].PlanName != "Basic" {
		t.Fatalf("unexpected plans: %+v", plans)
	}
}

func TestRunTiersFallsThrough(t *testing.T) {
	t.Parallel()

	// Names without prices do not count as successful extraction.
	nameless := func(*goquery.Document) []domain.RawPlan {
		return []domain.RawPlan{{PlanName: "Basic"}}
	}
	priced := func(*goquery.Document) []domain.RawPlan {
		return []domain.RawPlan{{PlanName: "Premium", PriceMonthly: domain.Float(649)}}
	}

	plans, err := RunTiers(testDoc(t), []Tier{nameless, priced})
	if err != nil {
		t.Fatalf("RunTiers error: %v", err)
	}
	if len(plans) != 1 || plans[0].PlanName != "Premium" {
		t.Fatalf("unexpected plans: %+v", plans)
	}
}

func TestRunTiersAllFail(t *testing.T) {
	t.Parallel()

	empty := func(*goquery.Document) []domain.RawPlan { return nil }

	_, err := RunTiers(testDoc(t), []Tier{empty, empty})
	if !errors.Is(err, ErrNoPlans) {
		t.Fatalf("expected ErrNoPlans, got %v", err)
	}
}

func TestRunTiersFreePlanIsUsable(t *testing.T) {
	t.Parallel()

	free := func(*goquery.Document) []domain.RawPlan {
		return []domain.RawPlan{{PlanName: "Free", PriceMonthly: domain.Float(0)}}
	}

	plans, err := RunTiers(testDoc(t), []Tier{free})
	if err != nil {
		t.Fatalf("RunTiers error: %v", err)
	}
	if len(plans) != 1 {
		t.Fatalf("expected 1 plan, got %d", len(plans))
	}
}

type stubExtractor struct{ name string }

func (s *stubExtractor) Name() string { return s.name }
func (s *stubExtractor) Extract(*goquery.Document) ([]domain.RawPlan, error) {
	return nil, ErrNoPlans
}

func TestRegistryResolve(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(&stubExtractor{name: "netflix"})

	e, err := reg.Resolve("netflix")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if e.Name() != "netflix" {
		t.Fatalf("unexpected extractor: %s", e.Name())
	}

	if _, err := reg.Resolve("unknown"); err == nil {
		t.Fatal("expected error for unknown extractor")
	}
}
