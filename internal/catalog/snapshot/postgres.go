package snapshot

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/gleamstack/beautysearch/internal/catalog"
	apperrors "github.com/gleamstack/beautysearch/pkg/errors"
	"github.com/gleamstack/beautysearch/pkg/postgres"
)

// PostgresLoader reads the snapshot from a database populated by the
// ingestion pipeline.
//
// Expected schema:
//
//	CREATE TABLE products (
//	    product_id         TEXT PRIMARY KEY,
//	    product_name       TEXT NOT NULL,
//	    brand_name         TEXT,
//	    primary_category   TEXT,
//	    secondary_category TEXT,
//	    ingredients        TEXT,
//	    price_usd          DOUBLE PRECISION,
//	    rating             DOUBLE PRECISION,
//	    reviews            INTEGER
//	);
//
//	CREATE TABLE reviews (
//	    id          BIGSERIAL PRIMARY KEY,
//	    product_id  TEXT NOT NULL,
//	    rating      INTEGER,
//	    review_text TEXT,
//	    sentiment   DOUBLE PRECISION,
//	    skin_tone   TEXT,
//	    eye_color   TEXT,
//	    skin_type   TEXT,
//	    hair_color  TEXT,
//	    age         TEXT
//	);
type PostgresLoader struct {
	db     *postgres.Client
	logger *slog.Logger
}

// NewPostgresLoader creates a loader over an established client.
func NewPostgresLoader(db *postgres.Client) *PostgresLoader {
	return &PostgresLoader{
		db:     db,
		logger: slog.Default().With("component", "snapshot-postgres"),
	}
}

// Load reads all product and review rows. NULL columns scan to zero values,
// which downstream code treats as unknown.
func (l *PostgresLoader) Load(ctx context.Context) (*Snapshot, error) {
	products, err := l.loadProducts(ctx)
	if err != nil {
		return nil, err
	}
	reviews, err := l.loadReviews(ctx)
	if err != nil {
		return nil, err
	}

	l.logger.Info("snapshot loaded", "products", len(products), "reviews", len(reviews))
	return &Snapshot{Products: products, Reviews: reviews}, nil
}

func (l *PostgresLoader) loadProducts(ctx context.Context) ([]catalog.ProductRecord, error) {
	rows, err := l.db.DB.QueryContext(ctx, `
		SELECT product_id, product_name,
		       COALESCE(brand_name, ''), COALESCE(primary_category, ''),
		       COALESCE(secondary_category, ''), COALESCE(ingredients, ''),
		       COALESCE(price_usd, 0), COALESCE(rating, 0), COALESCE(reviews, 0)
		FROM products
		ORDER BY product_id`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying products: %v", apperrors.ErrBuildFailed, err)
	}
	defer rows.Close()

	var products []catalog.ProductRecord
	for rows.Next() {
		var p catalog.ProductRecord
		if err := rows.Scan(&p.ProductID, &p.Name, &p.Brand, &p.PrimaryCategory,
			&p.SecondaryCategory, &p.Ingredients, &p.Price, &p.Rating, &p.ReviewCount); err != nil {
			return nil, fmt.Errorf("%w: scanning product row: %v", apperrors.ErrBuildFailed, err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading products: %v", apperrors.ErrBuildFailed, err)
	}
	return products, nil
}

func (l *PostgresLoader) loadReviews(ctx context.Context) ([]catalog.ReviewRecord, error) {
	rows, err := l.db.DB.QueryContext(ctx, `
		SELECT product_id, COALESCE(rating, 0), COALESCE(review_text, ''),
		       COALESCE(sentiment, 0), COALESCE(skin_tone, ''), COALESCE(eye_color, ''),
		       COALESCE(skin_type, ''), COALESCE(hair_color, ''), COALESCE(age, '')
		FROM reviews
		ORDER BY id`)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: querying reviews: %v", apperrors.ErrBuildFailed, err)
	}
	defer rows.Close()

	var reviews []catalog.ReviewRecord
	for rows.Next() {
		var r catalog.ReviewRecord
		if err := rows.Scan(&r.ProductID, &r.Rating, &r.Text, &r.Sentiment,
			&r.SkinTone, &r.EyeColor, &r.SkinType, &r.HairColor, &r.Age); err != nil {
			return nil, fmt.Errorf("%w: scanning review row: %v", apperrors.ErrBuildFailed, err)
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading reviews: %v", apperrors.ErrBuildFailed, err)
	}
	return reviews, nil
}
