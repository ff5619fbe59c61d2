package engine

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Masterminds/squirrel"
	"github.com/agridata-lab/produce-report/internal/log"
	"github.com/agridata-lab/produce-report/internal/logger"
	"github.com/agridata-lab/produce-report/internal/types"
	_ "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"
)

// ReportFileName is the name of the Parquet file a run's report is
// exported to.
const ReportFileName = "report.parquet"

// ReplayReport implements the log.Report interface for replay runs. It
// records strategy report lines in a DuckDB database.
type ReplayReport struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewReplayReport creates a new instance of ReplayReport backed by an
// in-memory DuckDB database.
func NewReplayReport(logger *logger.Logger) (*ReplayReport, error) {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		logger.Error("Failed to open database", zap.Error(err))

		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		logger.Error("Failed to connect to database", zap.Error(err))
		db.Close()

		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	report := &ReplayReport{
		logger: logger,
		db:     db,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}

	if err := report.initialize(); err != nil {
		db.Close()

		return nil, err
	}

	return report, nil
}

// Log implements the log.Report interface. It records a report entry.
func (r *ReplayReport) Log(entry log.ReportEntry) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("replay report or database is nil")
	}

	var nextID int

	err := r.db.QueryRow("SELECT nextval('report_entry_id_seq')").Scan(&nextID)
	if err != nil {
		return fmt.Errorf("failed to get next ID from sequence: %w", err)
	}

	var fieldsJSON string

	if len(entry.Fields) > 0 {
		fieldsBytes, err := json.Marshal(entry.Fields)
		if err != nil {
			return fmt.Errorf("failed to marshal fields to JSON: %w", err)
		}

		fieldsJSON = string(fieldsBytes)
	}

	insertQuery := r.sq.
		Insert("report_entries").
		Columns("id", "timestamp", "symbol", "level", "message", "fields").
		Values(nextID, entry.Timestamp, entry.Symbol, string(entry.Level), entry.Message, fieldsJSON).
		RunWith(r.db)

	_, err = insertQuery.Exec()
	if err != nil {
		return fmt.Errorf("failed to insert report entry: %w", err)
	}

	return nil
}

// GetEntries implements the log.Report interface. It returns all recorded
// entries in insertion order.
func (r *ReplayReport) GetEntries() ([]log.ReportEntry, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("replay report or database is nil")
	}

	selectQuery := r.sq.
		Select("id", "timestamp", "symbol", "level", "message", "fields").
		From("report_entries").
		OrderBy("id ASC").
		RunWith(r.db)

	rows, err := selectQuery.Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query report entries: %w", err)
	}
	defer rows.Close()

	var entries []log.ReportEntry

	for rows.Next() {
		var id int

		var entry log.ReportEntry

		var levelStr string

		var fieldsJSON sql.NullString

		err := rows.Scan(
			&id,
			&entry.Timestamp,
			&entry.Symbol,
			&levelStr,
			&entry.Message,
			&fieldsJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report entry: %w", err)
		}

		entry.Level = types.LogLevel(levelStr)

		if fieldsJSON.Valid && fieldsJSON.String != "" {
			var fields map[string]string
			if err := json.Unmarshal([]byte(fieldsJSON.String), &fields); err != nil {
				return nil, fmt.Errorf("failed to unmarshal fields from JSON: %w", err)
			}

			entry.Fields = fields
		}

		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating report entries: %w", err)
	}

	return entries, nil
}

// Write saves the report to a Parquet file in the specified directory.
func (r *ReplayReport) Write(path string) error {
	if r == nil || r.db == nil || r.logger == nil {
		return fmt.Errorf("replay report, database, or logger is nil")
	}

	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	reportPath := filepath.Join(path, ReportFileName)

	_, err := r.db.Exec(fmt.Sprintf(`COPY report_entries TO '%s' (FORMAT PARQUET)`, reportPath))
	if err != nil {
		return fmt.Errorf("failed to export report to Parquet: %w", err)
	}

	r.logger.Info("Successfully exported report to Parquet file",
		zap.String("report", reportPath),
	)

	return nil
}

// Cleanup resets the database state.
func (r *ReplayReport) Cleanup() error {
	if r == nil || r.db == nil {
		return fmt.Errorf("replay report or database is nil")
	}

	_, err := r.db.Exec(`
		DROP TABLE IF EXISTS report_entries;
		DROP SEQUENCE IF EXISTS report_entry_id_seq;
	`)
	if err != nil {
		return fmt.Errorf("failed to cleanup report table: %w", err)
	}

	return r.initialize()
}

// Close closes the database connection.
func (r *ReplayReport) Close() error {
	if r == nil || r.db == nil {
		return nil
	}

	return r.db.Close()
}

// initialize creates the necessary tables for storing report entries.
func (r *ReplayReport) initialize() error {
	if r == nil || r.db == nil {
		return fmt.Errorf("replay report or database is nil")
	}

	_, err := r.db.Exec(`CREATE SEQUENCE IF NOT EXISTS report_entry_id_seq`)
	if err != nil {
		return fmt.Errorf("failed to create sequence: %w", err)
	}

	_, err = r.db.Exec(`
		CREATE TABLE IF NOT EXISTS report_entries (
			id INTEGER PRIMARY KEY,
			timestamp TIMESTAMP,
			symbol TEXT,
			level TEXT,
			message TEXT,
			fields TEXT
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create report table: %w", err)
	}

	return nil
}
