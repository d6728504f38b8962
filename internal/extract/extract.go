package extract

import (
	"errors"
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"SubTracker/internal/domain"
)

// ErrNoPlans reports that no extraction tier produced a plan with a
// usable monthly price. The caller must leave previously persisted
// plans untouched for that provider.
var ErrNoPlans = errors.New("no extraction tier yielded usable plans")

// Tier is one strategy in a provider's fallback chain. Tiers are pure
// over the document and safe to test against fixed sample pages.
type Tier func(doc *goquery.Document) []domain.RawPlan

// Extractor derives structured plans from one provider's pricing page.
type Extractor interface {
	Name() string
	Extract(doc *goquery.Document) ([]domain.RawPlan, error)
}

// RunTiers walks the chain in order and returns the first result that
// contains at least one plan bearing a usable monthly price.
func RunTiers(doc *goquery.Document, tiers []Tier) ([]domain.RawPlan, error) {
	for _, tier := range tiers {
		plans := tier(doc)
		if hasUsable(plans) {
			return plans, nil
		}
	}
	return nil, ErrNoPlans
}

func hasUsable(plans []domain.RawPlan) bool {
	for _, p := range plans {
		if p.HasUsableMonthly() {
			return true
		}
	}
	return false
}

// Registry keeps a mapping from provider ids to their extractors.
type Registry struct {
	extractors map[string]Extractor
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{extractors: map[string]Extractor{}}
}

// Register adds or replaces an extractor implementation.
func (r *Registry) Register(e Extractor) {
	if r.extractors == nil {
		r.extractors = map[string]Extractor{}
	}
	r.extractors[e.Name()] = e
}

// Resolve returns an extractor by provider id or an error if absent.
func (r *Registry) Resolve(name string) (Extractor, error) {
	if e, ok := r.extractors[name]; ok {
		return e, nil
	}
	return nil, fmt.Errorf("extractor %s is not registered", name)
}
