package engine

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/agridata-lab/produce-report/internal/datasource"
	"github.com/agridata-lab/produce-report/internal/replay/engine"
	"github.com/agridata-lab/produce-report/internal/runtime"
	"github.com/agridata-lab/produce-report/internal/strategy"
	"github.com/agridata-lab/produce-report/internal/types"
	"github.com/agridata-lab/produce-report/internal/version"
	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v3"
)

// recordingStrategy captures the slices delivered by the engine.
type recordingStrategy struct {
	sliceTimes []time.Time
	pointCount int
	ended      bool
}

func (r *recordingStrategy) Name() string {
	return "Recording"
}

func (r *recordingStrategy) InitializeContext(ctx runtime.RuntimeContext) error {
	return nil
}

func (r *recordingStrategy) Initialize(config string) error {
	return nil
}

func (r *recordingStrategy) ProcessSlice(slice *types.Slice) error {
	r.sliceTimes = append(r.sliceTimes, slice.Time())
	r.pointCount += slice.Len()

	return nil
}

func (r *recordingStrategy) OnEnd() error {
	r.ended = true

	return nil
}

type ReplayEngineV1TestSuite struct {
	suite.Suite
	dataPath      string
	resultsFolder string
}

func TestReplayEngineV1Suite(t *testing.T) {
	suite.Run(t, new(ReplayEngineV1TestSuite))
}

func (suite *ReplayEngineV1TestSuite) SetupTest() {
	dir := suite.T().TempDir()

	// The memory data source ignores the file content; the engine only
	// needs a real path to glob.
	suite.dataPath = filepath.Join(dir, "produce.csv")
	suite.Require().NoError(os.WriteFile(suite.dataPath, []byte("placeholder"), 0644))

	suite.resultsFolder = filepath.Join(dir, "results")
}

func testPoints() []types.ProducePoint {
	day := func(d int) time.Time {
		return time.Date(2020, 1, d, 0, 0, 0, 0, time.UTC)
	}

	fresh := types.ProducePoint{Time: day(2), Product: "Apples", Form: types.FormFresh, Value: 1.5}
	fresh.PricePerCup = optional.Some(4.0)

	frozen := types.ProducePoint{Time: day(2), Product: "Apples", Form: types.FormFrozen, Value: 1.2}
	frozen.PricePerCup = optional.Some(2.0)

	later := types.ProducePoint{Time: day(9), Product: "Apples", Form: types.FormFresh, Value: 1.55}

	return []types.ProducePoint{fresh, frozen, later}
}

func (suite *ReplayEngineV1TestSuite) newEngine(s runtime.StrategyRuntime, strategyConfig string) engine.Engine {
	e := NewReplayEngineV1()
	suite.Require().NoError(e.Initialize("initial_capital: 100000"))
	suite.Require().NoError(e.SetDataSource(datasource.NewMemoryDataSource(testPoints())))
	suite.Require().NoError(e.LoadStrategy(s))
	suite.Require().NoError(e.SetConfigContent([]string{strategyConfig}))
	suite.Require().NoError(e.SetDataPath(suite.dataPath))
	suite.Require().NoError(e.SetResultsFolder(suite.resultsFolder))

	return e
}

func (suite *ReplayEngineV1TestSuite) TestRunGroupsPointsIntoSlices() {
	recorder := &recordingStrategy{}
	e := suite.newEngine(recorder, "symbols:\n  - Apples")

	suite.Require().NoError(e.Run(optional.None[engine.OnProcessDataCallback]()))

	// Two timestamps, so two slices
	suite.Len(recorder.sliceTimes, 2)
	suite.Equal(time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC), recorder.sliceTimes[0])
	suite.Equal(time.Date(2020, 1, 9, 0, 0, 0, 0, time.UTC), recorder.sliceTimes[1])
	suite.True(recorder.ended)
}

func (suite *ReplayEngineV1TestSuite) TestRunWritesResults() {
	recorder := &recordingStrategy{}
	e := suite.newEngine(recorder, "symbols:\n  - Apples")

	suite.Require().NoError(e.Run(optional.None[engine.OnProcessDataCallback]()))

	resultFolder := filepath.Join(suite.resultsFolder, "Recording", "config_0", "produce")

	_, err := os.Stat(filepath.Join(resultFolder, ReportFileName))
	suite.NoError(err)

	summaryData, err := os.ReadFile(filepath.Join(resultFolder, SummaryFileName))
	suite.Require().NoError(err)

	var summary types.RunSummary
	suite.Require().NoError(yaml.Unmarshal(summaryData, &summary))

	suite.NotEmpty(summary.ID)
	suite.Equal("Recording", summary.StrategyName)
	suite.Equal(suite.dataPath, summary.DataPath)
	suite.Equal(2, summary.SlicesProcessed)
	suite.Equal(3, summary.PointsProcessed)
	// Apples, Apples.Fresh, Apples.Frozen
	suite.Equal(3, summary.SymbolsTracked)
	suite.Equal("100000", summary.FinalPortfolioValue)
}

func (suite *ReplayEngineV1TestSuite) TestRunInvokesProcessDataCallback() {
	recorder := &recordingStrategy{}
	e := suite.newEngine(recorder, "symbols:\n  - Apples")

	calls := 0
	total := 0
	callback := engine.OnProcessDataCallback(func(current int, count int) error {
		calls++
		total = count

		return nil
	})

	suite.Require().NoError(e.Run(optional.Some(callback)))
	suite.Equal(3, calls)
	suite.Equal(3, total)
}

func (suite *ReplayEngineV1TestSuite) TestRunWithReportingStrategy() {
	s := strategy.NewUSDAReportStrategy(optional.None[time.Time]())
	e := suite.newEngine(s, "symbols:\n  - Apples")

	suite.Require().NoError(e.Run(optional.None[engine.OnProcessDataCallback]()))

	resultFolder := filepath.Join(suite.resultsFolder, s.Name(), "config_0", "produce")

	info, err := os.Stat(filepath.Join(resultFolder, ReportFileName))
	suite.NoError(err)
	suite.Greater(info.Size(), int64(0))
}

func (suite *ReplayEngineV1TestSuite) TestRunFailsWithoutStrategy() {
	e := NewReplayEngineV1()
	suite.Require().NoError(e.Initialize("initial_capital: 100000"))
	suite.Require().NoError(e.SetDataSource(datasource.NewMemoryDataSource(nil)))
	suite.Require().NoError(e.SetConfigContent([]string{"symbols:\n  - Apples"}))
	suite.Require().NoError(e.SetDataPath(suite.dataPath))
	suite.Require().NoError(e.SetResultsFolder(suite.resultsFolder))

	suite.Error(e.Run(optional.None[engine.OnProcessDataCallback]()))
}

func (suite *ReplayEngineV1TestSuite) TestRunFailsWithoutDataSource() {
	e := NewReplayEngineV1()
	suite.Require().NoError(e.Initialize("initial_capital: 100000"))
	suite.Require().NoError(e.LoadStrategy(&recordingStrategy{}))
	suite.Require().NoError(e.SetConfigContent([]string{"symbols:\n  - Apples"}))
	suite.Require().NoError(e.SetDataPath(suite.dataPath))
	suite.Require().NoError(e.SetResultsFolder(suite.resultsFolder))

	suite.Error(e.Run(optional.None[engine.OnProcessDataCallback]()))
}

func (suite *ReplayEngineV1TestSuite) TestInitializeRejectsIncompatibleConfigVersion() {
	previous := version.Version
	version.Version = "1.2.0"

	defer func() { version.Version = previous }()

	e := NewReplayEngineV1()
	suite.Error(e.Initialize("initial_capital: 100000\nengine_version: 2.0.0"))
	suite.NoError(e.Initialize("initial_capital: 100000\nengine_version: 1.2.5"))
}

func (suite *ReplayEngineV1TestSuite) TestGetConfigSchema() {
	e := NewReplayEngineV1()
	suite.Require().NoError(e.Initialize("initial_capital: 100000"))

	schema, err := e.GetConfigSchema()
	suite.NoError(err)
	suite.Contains(schema, "replay-engine-v1-config")
}
