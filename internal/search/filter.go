package search

import (
	"fmt"
	"strings"

	"github.com/gleamstack/beautysearch/internal/catalog"
	apperrors "github.com/gleamstack/beautysearch/pkg/errors"
)

// brandFilterAll disables brand filtering when supplied as the filter value.
const brandFilterAll = "all"

// PriceRange is an inclusive [Min, Max] price predicate.
type PriceRange struct {
	Min float64
	Max float64
}

// Filters narrows the candidate set before any similarity computation runs.
// All supplied predicates must hold (conjunctive).
type Filters struct {
	PriceRange *PriceRange
	Brand      string
}

// Validate rejects structurally malformed filters. Core state is never
// touched by an invalid request.
func (f Filters) Validate() error {
	if f.PriceRange != nil && f.PriceRange.Min > f.PriceRange.Max {
		return fmt.Errorf("%w: price range min %.2f exceeds max %.2f",
			apperrors.ErrInvalidFilter, f.PriceRange.Min, f.PriceRange.Max)
	}
	return nil
}

// apply returns the corpus positions satisfying every supplied predicate, in
// original catalog order. Positions are never compacted: the caller maps
// them straight back to products and document vectors.
func (f Filters) apply(store *catalog.Store) []int {
	brand := strings.ToLower(strings.TrimSpace(f.Brand))
	if brand == brandFilterAll {
		brand = ""
	}

	positions := make([]int, 0, store.Len())
	for i := 0; i < store.Len(); i++ {
		p := store.At(i)
		if f.PriceRange != nil {
			// Plain inclusive check. Unknown prices are stored as 0, so a
			// range starting at 0 includes them while any positive minimum
			// excludes them.
			if p.Price < f.PriceRange.Min || p.Price > f.PriceRange.Max {
				continue
			}
		}
		if brand != "" && !strings.Contains(strings.ToLower(p.Brand), brand) {
			continue
		}
		positions = append(positions, i)
	}
	return positions
}
