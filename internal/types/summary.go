package types

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// RunSummary contains the end-of-run statistics for one replay run.
type RunSummary struct {
	// ID is the unique identifier for this replay run.
	ID string `yaml:"id" json:"id"`
	// Timestamp is when this replay run was executed.
	Timestamp time.Time `yaml:"timestamp" json:"timestamp"`
	// StrategyName is the name of the strategy that ran.
	StrategyName string `yaml:"strategy_name" json:"strategy_name"`
	// DataPath is the path to the produce pricing file used for this run.
	DataPath string `yaml:"data_path" json:"data_path"`
	// SlicesProcessed is the number of time steps delivered to the strategy.
	SlicesProcessed int `yaml:"slices_processed"`
	// PointsProcessed is the total number of points across all slices.
	PointsProcessed int `yaml:"points_processed"`
	// SymbolsTracked is the number of subscribed symbols.
	SymbolsTracked int `yaml:"symbols_tracked"`
	// FinalPortfolioValue is the portfolio total value read at end of run.
	FinalPortfolioValue string `yaml:"final_portfolio_value"`
	// ReportFilePath is the path to the exported report parquet file.
	ReportFilePath string `yaml:"report_file_path" json:"report_file_path"`
}

// WriteRunSummary writes the summary to a YAML file at the given path.
func WriteRunSummary(path string, summary RunSummary) error {
	data, err := yaml.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal run summary to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write run summary to file: %w", err)
	}

	return nil
}
