package search

import (
	"errors"
	"testing"

	"github.com/gleamstack/beautysearch/internal/catalog"
	apperrors "github.com/gleamstack/beautysearch/pkg/errors"
)

func testStore() *catalog.Store {
	products := []*catalog.Product{
		{ID: "p1", Name: "Hydrating Serum", Brand: "GlowLab", Price: 30, NormalizedText: "hydrating serum glowlab"},
		{ID: "p2", Name: "Mattifying Gel", Brand: "PureDerm", Price: 15, NormalizedText: "mattifying gel purederm"},
		{ID: "p3", Name: "Hydrating Cream", Brand: "GlowLab", Price: 0, NormalizedText: "hydrating cream glowlab"},
	}
	return catalog.NewStore(products, nil)
}

func TestFiltersValidate(t *testing.T) {
	ok := Filters{PriceRange: &PriceRange{Min: 10, Max: 50}}
	if err := ok.Validate(); err != nil {
		t.Errorf("valid filters rejected: %v", err)
	}

	bad := Filters{PriceRange: &PriceRange{Min: 50, Max: 10}}
	err := bad.Validate()
	if !errors.Is(err, apperrors.ErrInvalidFilter) {
		t.Errorf("got error %v, want ErrInvalidFilter", err)
	}

	if err := (Filters{}).Validate(); err != nil {
		t.Errorf("empty filters rejected: %v", err)
	}
}

func TestFiltersApplyNoPredicates(t *testing.T) {
	store := testStore()
	positions := Filters{}.apply(store)
	if len(positions) != 3 {
		t.Fatalf("got %d positions, want 3", len(positions))
	}
	for i, pos := range positions {
		if pos != i {
			t.Errorf("positions[%d] = %d, want %d", i, pos, i)
		}
	}
}

func TestFiltersApplyPriceRange(t *testing.T) {
	store := testStore()
	f := Filters{PriceRange: &PriceRange{Min: 10, Max: 20}}
	positions := f.apply(store)
	if len(positions) != 1 || positions[0] != 1 {
		t.Errorf("positions = %v, want [1]", positions)
	}
}

func TestFiltersApplyUnknownPriceOutsidePositiveRange(t *testing.T) {
	store := testStore()
	// p3 has price 0 (unknown); any positive minimum excludes it.
	f := Filters{PriceRange: &PriceRange{Min: 1, Max: 100}}
	positions := f.apply(store)
	if len(positions) != 2 || positions[0] != 0 || positions[1] != 1 {
		t.Errorf("positions = %v, want [0 1]", positions)
	}
}

func TestFiltersApplyZeroMinIncludesUnknownPrice(t *testing.T) {
	store := testStore()
	// A range starting at 0 admits unknown-price products: the range check
	// is a plain inclusive comparison over the stored price value.
	f := Filters{PriceRange: &PriceRange{Min: 0, Max: 50}}
	positions := f.apply(store)
	if len(positions) != 3 {
		t.Errorf("positions = %v, want all three products including unknown price", positions)
	}
}

func TestFiltersApplyBrandSubstring(t *testing.T) {
	store := testStore()
	positions := Filters{Brand: "glow"}.apply(store)
	if len(positions) != 2 || positions[0] != 0 || positions[1] != 2 {
		t.Errorf("positions = %v, want [0 2]", positions)
	}
}

func TestFiltersApplyBrandAll(t *testing.T) {
	store := testStore()
	positions := Filters{Brand: "All"}.apply(store)
	if len(positions) != 3 {
		t.Errorf("brand \"all\" should disable the brand predicate, got %v", positions)
	}
}

func TestFiltersApplyConjunction(t *testing.T) {
	store := testStore()
	f := Filters{
		PriceRange: &PriceRange{Min: 20, Max: 40},
		Brand:      "glowlab",
	}
	positions := f.apply(store)
	if len(positions) != 1 || positions[0] != 0 {
		t.Errorf("positions = %v, want [0]", positions)
	}
}

func TestFiltersApplyPreservesOriginalPositions(t *testing.T) {
	store := testStore()
	positions := Filters{Brand: "purederm"}.apply(store)
	// The surviving product keeps its original corpus position, never a
	// compacted one.
	if len(positions) != 1 || positions[0] != 1 {
		t.Errorf("positions = %v, want [1]", positions)
	}
}
