package snapshot

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/gleamstack/beautysearch/internal/catalog"
	apperrors "github.com/gleamstack/beautysearch/pkg/errors"
)

// CSVLoader reads a product CSV plus any number of review CSVs matched by a
// glob pattern. Rows with unparseable numeric fields keep the zero value
// rather than failing the load; the feature builder treats zero as unknown.
type CSVLoader struct {
	ProductsPath string
	ReviewsGlob  string
	logger       *slog.Logger
}

// NewCSVLoader creates a loader for the given paths.
func NewCSVLoader(productsPath, reviewsGlob string) *CSVLoader {
	return &CSVLoader{
		ProductsPath: productsPath,
		ReviewsGlob:  reviewsGlob,
		logger:       slog.Default().With("component", "snapshot-csv"),
	}
}

// Load reads the product file and every review file. A missing product file
// is a build failure; having zero review files is not (the catalog falls
// back to listed ratings).
func (l *CSVLoader) Load(ctx context.Context) (*Snapshot, error) {
	products, err := l.loadProducts(ctx)
	if err != nil {
		return nil, err
	}

	reviewFiles, err := filepath.Glob(l.ReviewsGlob)
	if err != nil {
		return nil, fmt.Errorf("%w: bad reviews glob %q: %v", apperrors.ErrBuildFailed, l.ReviewsGlob, err)
	}
	sort.Strings(reviewFiles)

	snap := &Snapshot{Products: products}
	for _, path := range reviewFiles {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := l.loadReviews(path, snap)
		if err != nil {
			return nil, err
		}
		l.logger.Info("loaded review file", "path", path, "rows", n)
	}

	l.logger.Info("snapshot loaded",
		"products", len(snap.Products),
		"reviews", len(snap.Reviews),
		"review_files", len(reviewFiles),
	)
	return snap, nil
}

func (l *CSVLoader) loadProducts(ctx context.Context) ([]catalog.ProductRecord, error) {
	f, err := os.Open(l.ProductsPath)
	if err != nil {
		return nil, fmt.Errorf("%w: opening products file: %v", apperrors.ErrBuildFailed, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: reading products header: %v", apperrors.ErrBuildFailed, err)
	}
	cols := columnIndex(header)

	var products []catalog.ProductRecord
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: reading products row: %v", apperrors.ErrBuildFailed, err)
		}
		products = append(products, catalog.ProductRecord{
			ProductID:         field(row, cols, "product_id"),
			Name:              field(row, cols, "product_name"),
			Brand:             field(row, cols, "brand_name"),
			PrimaryCategory:   field(row, cols, "primary_category"),
			SecondaryCategory: field(row, cols, "secondary_category"),
			Ingredients:       field(row, cols, "ingredients"),
			Price:             floatField(row, cols, "price_usd"),
			Rating:            floatField(row, cols, "rating"),
			ReviewCount:       intField(row, cols, "reviews"),
		})
	}
	return products, nil
}

func (l *CSVLoader) loadReviews(path string, snap *Snapshot) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("%w: opening review file %s: %v", apperrors.ErrBuildFailed, path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		return 0, fmt.Errorf("%w: reading review header in %s: %v", apperrors.ErrBuildFailed, path, err)
	}
	cols := columnIndex(header)

	n := 0
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return n, fmt.Errorf("%w: reading review row in %s: %v", apperrors.ErrBuildFailed, path, err)
		}
		snap.Reviews = append(snap.Reviews, catalog.ReviewRecord{
			ProductID: field(row, cols, "product_id"),
			Rating:    intField(row, cols, "rating"),
			Text:      field(row, cols, "review_text"),
			Sentiment: floatField(row, cols, "sentiment"),
			SkinTone:  field(row, cols, "skin_tone"),
			EyeColor:  field(row, cols, "eye_color"),
			SkinType:  field(row, cols, "skin_type"),
			HairColor: field(row, cols, "hair_color"),
			Age:       field(row, cols, "age"),
		})
		n++
	}
	return n, nil
}

// columnIndex maps header names to positions, tolerating a pandas-style
// unnamed leading index column.
func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.ToLower(name))
		if name == "" {
			continue
		}
		cols[name] = i
	}
	return cols
}

func field(row []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func floatField(row []string, cols map[string]int, name string) float64 {
	v, err := strconv.ParseFloat(field(row, cols, name), 64)
	if err != nil {
		return 0
	}
	return v
}

func intField(row []string, cols map[string]int, name string) int {
	s := field(row, cols, name)
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	// Some exports write counts as floats ("120.0").
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return int(v)
	}
	return 0
}
