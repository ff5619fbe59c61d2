package datasource

import (
	"time"

	"github.com/agridata-lab/produce-report/internal/types"
	"github.com/moznion/go-optional"
)

// SQLResult represents a row of data from a SQL query
type SQLResult struct {
	Values map[string]interface{}
}

// DataSource provides time-ordered USDA produce pricing observations along
// with synchronous history lookups for warm-up.
type DataSource interface {
	// Initialize initializes the data source with the given data path in CSV format
	Initialize(path string) error
	// ReadAll reads all the data from the data source in chronological order
	// and yields it to the caller
	ReadAll(start optional.Option[time.Time], end optional.Option[time.Time]) func(yield func(types.ProducePoint, error) bool)
	// History reads up to count observations for a symbol ending at the given
	// time, oldest first. Returns an InsufficientDataError when fewer than
	// count observations exist, together with whatever was found.
	History(end time.Time, symbol types.Symbol, count int) ([]types.ProducePoint, error)
	// Count returns the number of observations in the data source
	Count(start optional.Option[time.Time], end optional.Option[time.Time]) (int, error)
	// GetAllProducts returns all distinct products in the data source
	GetAllProducts() ([]string, error)
	// ExecuteSQL executes a raw SQL query and returns the results as SQLResult
	ExecuteSQL(query string, params ...interface{}) ([]SQLResult, error)
	// Close closes the data source and releases any resources
	Close() error
}
