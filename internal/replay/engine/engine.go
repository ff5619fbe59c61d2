package engine

import (
	"github.com/agridata-lab/produce-report/internal/datasource"
	"github.com/agridata-lab/produce-report/internal/runtime"
	"github.com/moznion/go-optional"
)

// OnProcessDataCallback is called for each data point processed.
type OnProcessDataCallback func(current int, total int) error

type Engine interface {
	// Initialize the engine with the given configuration content.
	Initialize(config string) error
	// SetConfigPath sets the path to the strategy configuration file.
	// Accepts glob patterns for batch runs.
	SetConfigPath(path string) error
	// SetConfigContent sets strategy configurations directly from string
	// content, as an alternative to SetConfigPath for programmatic use.
	SetConfigContent(configs []string) error
	// SetDataPath sets the path to the produce pricing data file. Accepts
	// glob patterns for batch loading (e.g. "data/*.csv").
	SetDataPath(path string) error
	// SetResultsFolder sets the output directory for run results. Each run
	// writes into <folder>/<strategy>/<config>/<time range>/<data file>.
	SetResultsFolder(folder string) error
	// LoadStrategy loads a reporting strategy. Can be called multiple times
	// to load multiple strategies.
	LoadStrategy(strategy runtime.StrategyRuntime) error
	// SetDataSource sets the data source for the engine.
	SetDataSource(dataSource datasource.DataSource) error
	// Run replays the data chronologically through every loaded strategy.
	Run(onProcessDataCallback optional.Option[OnProcessDataCallback]) error
	// GetConfigSchema returns the JSON schema of the engine configuration.
	GetConfigSchema() (string, error)
}
