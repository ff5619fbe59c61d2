package runtime

import (
	"github.com/agridata-lab/produce-report/internal/cache"
	"github.com/agridata-lab/produce-report/internal/datasource"
	"github.com/agridata-lab/produce-report/internal/log"
	"github.com/agridata-lab/produce-report/internal/logger"
	"github.com/agridata-lab/produce-report/internal/portfolio"
	"github.com/agridata-lab/produce-report/internal/types"
)

// StrategyRuntime is the contract between the replay engine and a strategy.
// The engine calls InitializeContext and Initialize once per run, ProcessSlice
// once per time step in chronological order, and OnEnd after the last slice.
type StrategyRuntime interface {
	// InitializeContext hands the strategy its view of the replay framework.
	// Called before Initialize.
	InitializeContext(ctx RuntimeContext) error
	Initialize(config string) error
	ProcessSlice(slice *types.Slice) error
	OnEnd() error
	Name() string
}

// RuntimeContext is the strategy's view of the replay framework.
type RuntimeContext struct {
	// DataSource provides the produce data as well as the historical data
	DataSource datasource.DataSource
	// Report is the sink for the strategy's report lines
	Report log.Report
	// Cache holds per-run strategy state such as last-seen timestamps
	Cache *cache.CacheV1
	// Portfolio is the read-only account view
	Portfolio *portfolio.Portfolio
	// Logger is the engine logger
	Logger *logger.Logger
}
