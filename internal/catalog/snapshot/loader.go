// Package snapshot loads the raw catalog and review rows the engine is
// built from, either from CSV exports or from a Postgres snapshot schema.
package snapshot

import (
	"context"

	"github.com/gleamstack/beautysearch/internal/catalog"
)

// Snapshot is one complete raw dataset.
type Snapshot struct {
	Products []catalog.ProductRecord
	Reviews  []catalog.ReviewRecord
}

// Loader produces a snapshot from some backing source.
type Loader interface {
	Load(ctx context.Context) (*Snapshot, error)
}
