package datasource

import (
	"sort"
	"time"

	"github.com/agridata-lab/produce-report/internal/types"
	"github.com/agridata-lab/produce-report/pkg/errors"
	"github.com/moznion/go-optional"
)

// MemoryDataSource serves points from an in-memory slice. It backs unit
// tests and small deterministic replays where a DuckDB database is overkill.
type MemoryDataSource struct {
	points []types.ProducePoint
}

// NewMemoryDataSource creates a data source over the given points. The
// points are copied and kept sorted by time, product, form.
func NewMemoryDataSource(points []types.ProducePoint) *MemoryDataSource {
	sorted := make([]types.ProducePoint, len(points))
	copy(sorted, points)

	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Time.Equal(sorted[j].Time) {
			return sorted[i].Time.Before(sorted[j].Time)
		}

		if sorted[i].Product != sorted[j].Product {
			return sorted[i].Product < sorted[j].Product
		}

		return sorted[i].Form < sorted[j].Form
	})

	return &MemoryDataSource{points: sorted}
}

// Initialize implements DataSource. The memory source carries its data from
// construction, so any path is ignored.
func (m *MemoryDataSource) Initialize(path string) error {
	return nil
}

// ReadAll implements DataSource.
func (m *MemoryDataSource) ReadAll(start optional.Option[time.Time], end optional.Option[time.Time]) func(yield func(types.ProducePoint, error) bool) {
	return func(yield func(types.ProducePoint, error) bool) {
		for _, point := range m.points {
			if start.IsSome() && point.Time.Before(start.Unwrap()) {
				continue
			}

			if end.IsSome() && point.Time.After(end.Unwrap()) {
				continue
			}

			if !yield(point, nil) {
				return
			}
		}
	}
}

// History implements DataSource.
func (m *MemoryDataSource) History(end time.Time, symbol types.Symbol, count int) ([]types.ProducePoint, error) {
	if count <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidLookback, "history count must be positive, got %d", count)
	}

	var matched []types.ProducePoint

	for _, point := range m.points {
		if point.Time.After(end) {
			continue
		}

		if symbol.Matches(point) {
			matched = append(matched, point)
		}
	}

	if len(matched) > count {
		matched = matched[len(matched)-count:]
	}

	if len(matched) < count {
		return matched, errors.NewInsufficientDataErrorf(count, len(matched), symbol.String(),
			"insufficient history for %s: requested %d, got %d", symbol.String(), count, len(matched))
	}

	return matched, nil
}

// Count implements DataSource.
func (m *MemoryDataSource) Count(start optional.Option[time.Time], end optional.Option[time.Time]) (int, error) {
	count := 0

	for _, point := range m.points {
		if start.IsSome() && point.Time.Before(start.Unwrap()) {
			continue
		}

		if end.IsSome() && point.Time.After(end.Unwrap()) {
			continue
		}

		count++
	}

	return count, nil
}

// GetAllProducts implements DataSource.
func (m *MemoryDataSource) GetAllProducts() ([]string, error) {
	seen := make(map[string]bool)

	var products []string

	for _, point := range m.points {
		if !seen[point.Product] {
			seen[point.Product] = true

			products = append(products, point.Product)
		}
	}

	sort.Strings(products)

	return products, nil
}

// ExecuteSQL implements DataSource. The memory source has no SQL engine.
func (m *MemoryDataSource) ExecuteSQL(query string, params ...interface{}) ([]SQLResult, error) {
	return nil, errors.New(errors.ErrCodeQueryFailed, "memory data source does not support SQL queries")
}

// Close implements DataSource.
func (m *MemoryDataSource) Close() error {
	return nil
}
