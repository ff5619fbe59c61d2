package datasource

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/agridata-lab/produce-report/internal/logger"
	"github.com/agridata-lab/produce-report/internal/types"
	"github.com/agridata-lab/produce-report/pkg/errors"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"
)

const pointColumns = "time, product, form, value, unit, price_per_cup, average_retail_price, preparation_yield_factor, cup_equivalent_size, cup_equivalent_unit"

type DuckDBDataSource struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewDataSource creates a new DuckDB data source instance with the specified
// database path (":memory:" for an ephemeral database). This is distinct from
// Initialize() which loads the produce pricing data into the database.
func NewDataSource(path string, logger *logger.Logger) (DataSource, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, err
	}

	return &DuckDBDataSource{
		db:     db,
		logger: logger,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

// Initialize implements DataSource. The path points to a CSV file with one
// row per (product, form, date) observation; measurement columns may be
// empty for dates the source dataset has no value for.
func (d *DuckDBDataSource) Initialize(path string) error {
	d.logger.Debug("Initializing DuckDB data source", zap.String("path", path))

	_, err := d.db.Exec(`DROP VIEW IF EXISTS produce_data;`)
	if err != nil {
		return fmt.Errorf("failed to drop existing view: %w", err)
	}

	// Create a view from the CSV file - using raw SQL as Squirrel doesn't
	// support CREATE VIEW. header detection and NULL handling for empty
	// cells come from read_csv defaults.
	query := fmt.Sprintf(`
		CREATE VIEW produce_data AS
		SELECT * FROM read_csv('%s');
	`, path)

	_, err = d.db.Exec(query)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeDataSourceUnavailable, err, "failed to load produce data from %s", path)
	}

	return nil
}

// Count implements DataSource.
func (d *DuckDBDataSource) Count(start optional.Option[time.Time], end optional.Option[time.Time]) (int, error) {
	var count int

	query := "SELECT COUNT(*) FROM produce_data"

	var params []interface{}

	paramCount := 0

	if start.IsSome() {
		paramCount++
		query += fmt.Sprintf(" WHERE time >= $%d", paramCount)
		params = append(params, start.Unwrap())
	}

	if end.IsSome() {
		paramCount++
		if paramCount == 1 {
			query += " WHERE"
		} else {
			query += " AND"
		}

		query += fmt.Sprintf(" time <= $%d", paramCount)

		params = append(params, end.Unwrap())
	}

	err := d.db.QueryRow(query, params...).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// ReadAll implements DataSource. Points are yielded in chronological order;
// rows of the same day are ordered by product and form so slice assembly is
// deterministic.
func (d *DuckDBDataSource) ReadAll(start optional.Option[time.Time], end optional.Option[time.Time]) func(yield func(types.ProducePoint, error) bool) {
	return func(yield func(types.ProducePoint, error) bool) {
		d.logger.Debug("Reading all data from DuckDB")

		query := fmt.Sprintf("SELECT %s FROM produce_data", pointColumns)

		var conditions []string

		var params []interface{}

		paramCount := 0

		if start.IsSome() {
			paramCount++
			conditions = append(conditions, fmt.Sprintf("time >= $%d", paramCount))
			params = append(params, start.Unwrap())
		}

		if end.IsSome() {
			paramCount++
			conditions = append(conditions, fmt.Sprintf("time <= $%d", paramCount))
			params = append(params, end.Unwrap())
		}

		if len(conditions) > 0 {
			query += " WHERE " + strings.Join(conditions, " AND ")
		}

		query += " ORDER BY time ASC, product ASC, form ASC"

		stmt, err := d.db.Prepare(query)
		if err != nil {
			yield(types.ProducePoint{}, err)

			return
		}
		defer stmt.Close()

		rows, err := stmt.Query(params...)
		if err != nil {
			yield(types.ProducePoint{}, err)

			return
		}
		defer rows.Close()

		for rows.Next() {
			point, err := scanPoint(rows)
			if err != nil {
				yield(types.ProducePoint{}, err)

				return
			}

			if !yield(point, nil) {
				return
			}
		}

		if err := rows.Err(); err != nil {
			yield(types.ProducePoint{}, err)
		}
	}
}

// History implements DataSource.
func (d *DuckDBDataSource) History(end time.Time, symbol types.Symbol, count int) ([]types.ProducePoint, error) {
	d.logger.Debug("Reading history",
		zap.Time("end", end),
		zap.String("symbol", symbol.String()),
		zap.Int("count", count))

	if count <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidLookback, "history count must be positive, got %d", count)
	}

	conditions := squirrel.And{
		squirrel.Eq{"product": symbol.Product},
		squirrel.LtOrEq{"time": end},
	}
	if !symbol.IsAggregate() {
		conditions = append(conditions, squirrel.Eq{"form": string(symbol.Form)})
	}

	query, args, err := d.sq.
		Select(strings.Split(pointColumns, ", ")...).
		From("produce_data").
		Where(conditions).
		OrderBy("time DESC", "form DESC").
		Limit(uint64(count)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	stmt, err := d.db.Prepare(query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare query: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.Query(args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	result := make([]types.ProducePoint, 0, count)

	for rows.Next() {
		point, err := scanPoint(rows)
		if err != nil {
			return nil, err
		}

		result = append(result, point)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	// Reverse the slice to get chronological order (oldest to newest)
	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}

	if len(result) < count {
		return result, errors.NewInsufficientDataErrorf(count, len(result), symbol.String(),
			"insufficient history for %s: requested %d, got %d", symbol.String(), count, len(result))
	}

	return result, nil
}

// ExecuteSQL implements DataSource.
func (d *DuckDBDataSource) ExecuteSQL(query string, params ...interface{}) ([]SQLResult, error) {
	d.logger.Debug("Executing SQL query", zap.String("query", query))

	stmt, err := d.db.Prepare(query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare query: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.Query(params...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	var result []SQLResult

	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))

		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		rowMap := make(map[string]interface{})
		for i, col := range columns {
			rowMap[col] = values[i]
		}

		result = append(result, SQLResult{Values: rowMap})
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return result, nil
}

// GetAllProducts returns all distinct products from the produce data.
func (d *DuckDBDataSource) GetAllProducts() ([]string, error) {
	rows, err := d.db.Query("SELECT DISTINCT product FROM produce_data ORDER BY product")
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}
	defer rows.Close()

	var products []string

	for rows.Next() {
		var product string
		if err := rows.Scan(&product); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}

		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// Close implements DataSource.
func (d *DuckDBDataSource) Close() error {
	if d.db != nil {
		return d.db.Close()
	}

	return nil
}

// scanPoint scans one produce_data row in pointColumns order. Nullable
// measurement columns become None rather than zero values.
func scanPoint(rows *sql.Rows) (types.ProducePoint, error) {
	var (
		timestamp                                  time.Time
		product, form                              string
		value                                      float64
		unit, cupUnit                              sql.NullString
		pricePerCup, avgRetail, yieldFactor, cupSz sql.NullFloat64
	)

	err := rows.Scan(&timestamp, &product, &form, &value, &unit,
		&pricePerCup, &avgRetail, &yieldFactor, &cupSz, &cupUnit)
	if err != nil {
		return types.ProducePoint{}, fmt.Errorf("failed to scan row: %w", err)
	}

	point := types.ProducePoint{
		Time:    timestamp,
		Product: product,
		Form:    types.Form(form),
		Value:   value,
	}

	if unit.Valid {
		point.Unit = unit.String
	}

	if pricePerCup.Valid {
		point.PricePerCup = optional.Some(pricePerCup.Float64)
	}

	if avgRetail.Valid {
		point.AvgRetailPrice = optional.Some(avgRetail.Float64)
	}

	if yieldFactor.Valid {
		point.YieldFactor = optional.Some(yieldFactor.Float64)
	}

	if cupSz.Valid {
		point.CupEquivalentSize = optional.Some(cupSz.Float64)
	}

	if cupUnit.Valid {
		point.CupEquivalentUnit = optional.Some(cupUnit.String)
	}

	return point, nil
}
