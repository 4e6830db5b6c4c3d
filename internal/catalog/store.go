package catalog

// Store holds the built catalog: an ordered product list aligned 1:1 with
// the index corpus, plus the raw reviews for pass-through lookups. It is
// constructed once at startup and never mutated afterwards, so any number of
// readers may share it without locking.
type Store struct {
	products []*Product
	byID     map[string]int
	reviews  map[string][]ReviewRecord
	corpus   []string
}

// NewStore builds a Store from an ordered product list. The corpus position
// of products[i] is i; this alignment is what the vector index scores by.
func NewStore(products []*Product, reviews []ReviewRecord) *Store {
	s := &Store{
		products: products,
		byID:     make(map[string]int, len(products)),
		reviews:  make(map[string][]ReviewRecord),
		corpus:   make([]string, len(products)),
	}
	for i, p := range products {
		s.byID[p.ID] = i
		s.corpus[i] = p.NormalizedText
	}
	for _, r := range reviews {
		s.reviews[r.ProductID] = append(s.reviews[r.ProductID], r)
	}
	return s
}

// Len returns the number of products.
func (s *Store) Len() int {
	return len(s.products)
}

// Products returns the ordered product slice. Callers must not mutate it.
func (s *Store) Products() []*Product {
	return s.products
}

// At returns the product at corpus position i.
func (s *Store) At(i int) *Product {
	return s.products[i]
}

// ByID returns the product with the given ID, or nil.
func (s *Store) ByID(id string) *Product {
	i, ok := s.byID[id]
	if !ok {
		return nil
	}
	return s.products[i]
}

// Reviews returns the raw reviews for a product in snapshot order, capped at
// limit when limit > 0.
func (s *Store) Reviews(productID string, limit int) []ReviewRecord {
	reviews := s.reviews[productID]
	if limit > 0 && len(reviews) > limit {
		reviews = reviews[:limit]
	}
	return reviews
}

// ReviewCount returns the total number of raw review rows.
func (s *Store) ReviewCount() int {
	n := 0
	for _, rs := range s.reviews {
		n += len(rs)
	}
	return n
}

// Corpus returns the ordered normalized-text corpus, index-aligned with
// Products.
func (s *Store) Corpus() []string {
	return s.corpus
}
