package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/agridata-lab/produce-report/internal/cache"
	"github.com/agridata-lab/produce-report/internal/datasource"
	"github.com/agridata-lab/produce-report/internal/logger"
	"github.com/agridata-lab/produce-report/internal/portfolio"
	"github.com/agridata-lab/produce-report/internal/replay/engine"
	"github.com/agridata-lab/produce-report/internal/runtime"
	"github.com/agridata-lab/produce-report/internal/types"
	"github.com/agridata-lab/produce-report/internal/version"
	"github.com/agridata-lab/produce-report/pkg/errors"
	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

// SummaryFileName is the name of the YAML file a run's summary is
// written to.
const SummaryFileName = "summary.yaml"

type ReplayEngineV1 struct {
	config              ReplayEngineV1Config
	strategies          []runtime.StrategyRuntime
	strategyConfigPaths []string
	strategyConfigs     []string
	dataPaths           []string
	resultsFolder       string
	log                 *logger.Logger
	datasource          datasource.DataSource
	cache               *cache.CacheV1
	portfolio           *portfolio.Portfolio
}

func NewReplayEngineV1() engine.Engine {
	return &ReplayEngineV1{
		config:              EmptyConfig(),
		strategies:          nil,
		strategyConfigPaths: nil,
		strategyConfigs:     nil,
		dataPaths:           nil,
		resultsFolder:       "",
		log:                 nil,
		datasource:          nil,
		cache:               cache.NewCacheV1(),
		portfolio:           nil,
	}
}

// Initialize implements engine.Engine.
func (e *ReplayEngineV1) Initialize(config string) error {
	if err := yaml.Unmarshal([]byte(config), &e.config); err != nil {
		return errors.Wrap(errors.ErrCodeReplayConfigError, "failed to parse engine config", err)
	}

	if e.config.EngineVersion != "" {
		if err := version.CheckVersionCompatibility(version.GetVersion(), e.config.EngineVersion); err != nil {
			return errors.Wrap(errors.ErrCodeReplayConfigError, "incompatible engine config", err)
		}
	}

	var loggerError error

	e.log, loggerError = logger.NewLogger()
	if loggerError != nil {
		return loggerError
	}

	e.log.Debug("Replay engine initialized",
		zap.String("config", config),
	)

	e.portfolio = portfolio.NewPortfolio(e.config.InitialCapital)

	return nil
}

// LoadStrategy implements engine.Engine.
func (e *ReplayEngineV1) LoadStrategy(strategy runtime.StrategyRuntime) error {
	e.strategies = append(e.strategies, strategy)
	e.log.Debug("Strategy loaded",
		zap.Int("total_strategies", len(e.strategies)),
	)

	return nil
}

// SetConfigPath implements engine.Engine.
func (e *ReplayEngineV1) SetConfigPath(path string) error {
	files, err := filepath.Glob(path)
	if err != nil {
		e.log.Error("Failed to set config path",
			zap.String("path", path),
			zap.Error(err),
		)

		return err
	}

	e.strategyConfigPaths = files
	e.log.Debug("Config paths set",
		zap.Strings("files", files),
	)

	return nil
}

// SetConfigContent implements engine.Engine.
func (e *ReplayEngineV1) SetConfigContent(configs []string) error {
	e.strategyConfigs = configs
	e.strategyConfigPaths = nil
	e.log.Debug("Config content set",
		zap.Int("count", len(configs)),
	)

	return nil
}

// SetDataPath implements engine.Engine.
func (e *ReplayEngineV1) SetDataPath(path string) error {
	files, err := filepath.Glob(path)
	if err != nil {
		e.log.Error("Failed to set data path",
			zap.String("path", path),
			zap.Error(err),
		)

		return err
	}

	absolutePaths := make([]string, len(files))

	for i, file := range files {
		absPath, err := filepath.Abs(file)
		if err != nil {
			e.log.Error("Failed to get absolute path",
				zap.String("path", file),
				zap.Error(err),
			)

			return err
		}

		absolutePaths[i] = absPath
	}

	e.dataPaths = absolutePaths
	e.log.Debug("Data paths set",
		zap.Strings("files", absolutePaths),
	)

	return nil
}

// SetResultsFolder implements engine.Engine.
func (e *ReplayEngineV1) SetResultsFolder(folder string) error {
	e.resultsFolder = folder
	e.log.Debug("Results folder set",
		zap.String("folder", folder),
	)

	return nil
}

// SetDataSource implements engine.Engine.
func (e *ReplayEngineV1) SetDataSource(datasource datasource.DataSource) error {
	e.datasource = datasource

	return nil
}

// GetConfigSchema implements engine.Engine.
func (e *ReplayEngineV1) GetConfigSchema() (string, error) {
	schema, err := e.config.GenerateSchemaJSON()
	if err != nil {
		return "", fmt.Errorf("failed to generate schema: %w", err)
	}

	return schema, nil
}

// Run implements engine.Engine.
func (e *ReplayEngineV1) Run(onProcessDataCallback optional.Option[engine.OnProcessDataCallback]) error {
	if err := e.preRunCheck(); err != nil {
		return err
	}

	// clean the results folder
	if _, err := os.Stat(e.resultsFolder); err == nil {
		os.RemoveAll(e.resultsFolder)
	}

	os.MkdirAll(e.resultsFolder, 0755)

	// Build config list from either file paths or direct content
	type configItem struct {
		name    string
		content string
	}

	var configs []configItem

	if len(e.strategyConfigs) > 0 {
		for i, content := range e.strategyConfigs {
			configs = append(configs, configItem{
				name:    fmt.Sprintf("config_%d", i),
				content: content,
			})
		}
	} else {
		for _, configPath := range e.strategyConfigPaths {
			content, err := os.ReadFile(configPath)
			if err != nil {
				e.log.Error("Failed to read config",
					zap.String("config", configPath),
					zap.Error(err),
				)

				return err
			}

			configs = append(configs, configItem{
				name:    configPath,
				content: string(content),
			})
		}
	}

	for _, strategy := range e.strategies {
		for _, cfg := range configs {
			for _, dataPath := range e.dataPaths {
				if err := e.runOne(strategy, cfg.name, cfg.content, dataPath, onProcessDataCallback); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// runOne replays a single strategy+config+data combination and writes its
// results.
func (e *ReplayEngineV1) runOne(
	strategy runtime.StrategyRuntime,
	configName string,
	configContent string,
	dataPath string,
	onProcessDataCallback optional.Option[engine.OnProcessDataCallback],
) error {
	runID := uuid.New().String()

	report, err := NewReplayReport(e.log)
	if err != nil {
		return errors.Wrap(errors.ErrCodeReplayInitFailed, "failed to create replay report", err)
	}
	defer report.Close()

	e.cache.Reset()
	e.portfolio.Reset(e.config.InitialCapital)

	strategyContext := runtime.RuntimeContext{
		DataSource: e.datasource,
		Report:     report,
		Cache:      e.cache,
		Portfolio:  e.portfolio,
		Logger:     e.log,
	}

	if err := e.datasource.Initialize(dataPath); err != nil {
		return errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to initialize data source", err)
	}

	if err := strategy.InitializeContext(strategyContext); err != nil {
		return errors.Wrap(errors.ErrCodeStrategyRuntimeError, "failed to initialize strategy context", err)
	}

	if err := strategy.Initialize(configContent); err != nil {
		return errors.Wrap(errors.ErrCodeStrategyConfigError, "failed to initialize strategy", err)
	}

	resultFolderPath := getResultFolder(configName, dataPath, e, strategy)

	e.log.Debug("Running strategy",
		zap.String("run_id", runID),
		zap.String("strategy", strategy.Name()),
		zap.String("config", configName),
		zap.String("data", dataPath),
		zap.String("result", resultFolderPath),
	)

	count, err := e.datasource.Count(e.config.StartTime, e.config.EndTime)
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to get data count", err)
	}

	var slice *types.Slice

	slicesProcessed := 0
	pointsProcessed := 0
	symbolsSeen := make(map[types.Symbol]struct{})

	for point, err := range e.datasource.ReadAll(e.config.StartTime, e.config.EndTime) {
		if err != nil {
			return errors.Wrap(errors.ErrCodeQueryFailed, "failed to read data", err)
		}

		// A new timestamp closes the current slice.
		if slice != nil && !slice.Time().Equal(point.Time) {
			if err := strategy.ProcessSlice(slice); err != nil {
				return errors.Wrap(errors.ErrCodeStrategyRuntimeError, "failed to process slice", err)
			}

			slicesProcessed++
			slice = nil
		}

		if slice == nil {
			slice = types.NewSlice(point.Time)
		}

		e.addPoint(slice, point, symbolsSeen)

		pointsProcessed++

		if onProcessDataCallback.IsSome() {
			if err := onProcessDataCallback.Unwrap()(pointsProcessed, count); err != nil {
				return err
			}
		}
	}

	if slice != nil {
		if err := strategy.ProcessSlice(slice); err != nil {
			return errors.Wrap(errors.ErrCodeStrategyRuntimeError, "failed to process slice", err)
		}

		slicesProcessed++
	}

	if err := strategy.OnEnd(); err != nil {
		return errors.Wrap(errors.ErrCodeStrategyRuntimeError, "failed to finish strategy", err)
	}

	os.MkdirAll(resultFolderPath, 0755)

	if err := report.Write(resultFolderPath); err != nil {
		return errors.Wrap(errors.ErrCodeReportWriteFailed, "failed to write report", err)
	}

	summary := types.RunSummary{
		ID:                  runID,
		Timestamp:           time.Now(),
		StrategyName:        strategy.Name(),
		DataPath:            dataPath,
		SlicesProcessed:     slicesProcessed,
		PointsProcessed:     pointsProcessed,
		SymbolsTracked:      len(symbolsSeen),
		FinalPortfolioValue: e.portfolio.TotalValue().String(),
		ReportFilePath:      filepath.Join(resultFolderPath, ReportFileName),
	}

	if err := types.WriteRunSummary(filepath.Join(resultFolderPath, SummaryFileName), summary); err != nil {
		return errors.Wrap(errors.ErrCodeReportWriteFailed, "failed to write run summary", err)
	}

	return nil
}

// addPoint registers a point in the slice under both its aggregate symbol
// (all forms of the product) and its form-qualified symbol, so strategies can
// subscribe at either granularity.
func (e *ReplayEngineV1) addPoint(slice *types.Slice, point types.ProducePoint, symbolsSeen map[types.Symbol]struct{}) {
	aggregate := types.NewSymbol(point.Product)
	slice.Add(aggregate, point)
	symbolsSeen[aggregate] = struct{}{}

	if point.Form != "" {
		formSymbol := types.NewFormSymbol(point.Product, point.Form)
		slice.Add(formSymbol, point)
		symbolsSeen[formSymbol] = struct{}{}
	}
}

func (e *ReplayEngineV1) preRunCheck() error {
	if len(e.strategies) == 0 {
		e.log.Error("No strategies loaded")

		return errors.New(errors.ErrCodeReplayNoStrategy, "no strategies loaded")
	}

	if len(e.strategyConfigPaths) == 0 && len(e.strategyConfigs) == 0 {
		e.log.Error("No strategy configs loaded")

		return errors.New(errors.ErrCodeReplayConfigError, "no strategy configs loaded")
	}

	if len(e.dataPaths) == 0 {
		e.log.Error("No data paths loaded")

		return errors.New(errors.ErrCodeReplayNoDataPath, "no data paths loaded")
	}

	if e.resultsFolder == "" {
		e.log.Error("No results folder set")

		return errors.New(errors.ErrCodeReplayNoResultsDir, "no results folder set")
	}

	if e.datasource == nil {
		e.log.Error("No data source set")

		return errors.New(errors.ErrCodeReplayNoDatasource, "no data source set")
	}

	return nil
}
