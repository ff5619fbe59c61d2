package datasource

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/agridata-lab/produce-report/internal/logger"
	"github.com/agridata-lab/produce-report/internal/types"
	"github.com/agridata-lab/produce-report/pkg/errors"
	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"
)

const testCSV = `time,product,form,value,unit,price_per_cup,average_retail_price,preparation_yield_factor,cup_equivalent_size,cup_equivalent_unit
2020-01-02,Apples,Fresh,1.5193,per pound,0.4231,1.5193,0.9,0.2425,pounds
2020-01-02,Apples,Frozen,1.2062,per pound,,1.2062,,0.2425,pounds
2020-01-02,Oranges,Juice,0.6100,per pint,0.2015,0.6100,1.0,0.5,pints
2020-01-09,Apples,Fresh,1.5521,per pound,0.4320,1.5521,0.9,0.2425,pounds
2020-01-16,Apples,Fresh,1.4877,per pound,0.4140,,,,
`

// DuckDBTestSuite is a test suite for DuckDBDataSource
type DuckDBTestSuite struct {
	suite.Suite
	ds     DataSource
	logger *logger.Logger
	path   string
}

func TestDuckDBDataSourceSuite(t *testing.T) {
	suite.Run(t, new(DuckDBTestSuite))
}

// SetupSuite runs once before all tests in the suite
func (suite *DuckDBTestSuite) SetupSuite() {
	logger, err := logger.NewLogger()
	suite.Require().NoError(err)
	suite.logger = logger
}

// SetupTest runs before each test
func (suite *DuckDBTestSuite) SetupTest() {
	suite.path = filepath.Join(suite.T().TempDir(), "produce.csv")
	suite.Require().NoError(os.WriteFile(suite.path, []byte(testCSV), 0644))

	ds, err := NewDataSource(":memory:", suite.logger)
	suite.Require().NoError(err)
	suite.ds = ds

	suite.Require().NoError(suite.ds.Initialize(suite.path))
}

// TearDownTest runs after each test
func (suite *DuckDBTestSuite) TearDownTest() {
	if suite.ds != nil {
		suite.ds.Close()
		suite.ds = nil
	}
}

func (suite *DuckDBTestSuite) TestInitializeMissingFile() {
	ds, err := NewDataSource(":memory:", suite.logger)
	suite.Require().NoError(err)

	defer ds.Close()

	suite.Error(ds.Initialize(filepath.Join(suite.T().TempDir(), "missing.csv")))
}

func (suite *DuckDBTestSuite) TestCount() {
	count, err := suite.ds.Count(optional.None[time.Time](), optional.None[time.Time]())
	suite.NoError(err)
	suite.Equal(5, count)

	end := time.Date(2020, 1, 2, 23, 59, 59, 0, time.UTC)
	count, err = suite.ds.Count(optional.None[time.Time](), optional.Some(end))
	suite.NoError(err)
	suite.Equal(3, count)
}

func (suite *DuckDBTestSuite) TestReadAll() {
	var points []types.ProducePoint

	for point, err := range suite.ds.ReadAll(optional.None[time.Time](), optional.None[time.Time]()) {
		suite.Require().NoError(err)
		points = append(points, point)
	}

	suite.Require().Len(points, 5)

	// Chronological, then product/form order within a day
	suite.Equal("Apples", points[0].Product)
	suite.Equal(types.FormFresh, points[0].Form)
	suite.Equal(types.FormFrozen, points[1].Form)
	suite.Equal("Oranges", points[2].Product)

	// Optional fields present when the CSV cell has a value
	suite.True(points[0].PricePerCup.IsSome())
	suite.InDelta(0.4231, points[0].PricePerCup.Unwrap(), 1e-9)
	suite.Equal("per pound", points[0].Unit)

	// Empty cells come back as None
	suite.True(points[1].PricePerCup.IsNone())
	suite.True(points[1].YieldFactor.IsNone())
	suite.True(points[1].CupEquivalentSize.IsSome())

	last := points[4]
	suite.True(last.AvgRetailPrice.IsNone())
	suite.True(last.CupEquivalentUnit.IsNone())
}

func (suite *DuckDBTestSuite) TestReadAllRange() {
	start := time.Date(2020, 1, 5, 0, 0, 0, 0, time.UTC)
	end := time.Date(2020, 1, 12, 0, 0, 0, 0, time.UTC)

	var points []types.ProducePoint

	for point, err := range suite.ds.ReadAll(optional.Some(start), optional.Some(end)) {
		suite.Require().NoError(err)
		points = append(points, point)
	}

	suite.Require().Len(points, 1)
	suite.Equal(time.Date(2020, 1, 9, 0, 0, 0, 0, time.UTC), points[0].Time.UTC())
}

func (suite *DuckDBTestSuite) TestHistory() {
	end := time.Date(2020, 1, 31, 0, 0, 0, 0, time.UTC)

	points, err := suite.ds.History(end, types.NewFormSymbol("Apples", types.FormFresh), 3)
	suite.NoError(err)
	suite.Require().Len(points, 3)

	// Oldest first
	suite.InDelta(1.5193, points[0].Value, 1e-9)
	suite.InDelta(1.4877, points[2].Value, 1e-9)
}

func (suite *DuckDBTestSuite) TestHistoryInsufficient() {
	end := time.Date(2020, 1, 31, 0, 0, 0, 0, time.UTC)

	points, err := suite.ds.History(end, types.NewSymbol("Oranges"), 10)
	suite.Error(err)
	suite.True(errors.IsInsufficientDataError(err))
	suite.Len(points, 1)
}

func (suite *DuckDBTestSuite) TestGetAllProducts() {
	products, err := suite.ds.GetAllProducts()
	suite.NoError(err)
	suite.Equal([]string{"Apples", "Oranges"}, products)
}

func (suite *DuckDBTestSuite) TestExecuteSQL() {
	results, err := suite.ds.ExecuteSQL("SELECT COUNT(*) AS n FROM produce_data WHERE form = 'Fresh'")
	suite.NoError(err)
	suite.Require().Len(results, 1)
	suite.EqualValues(3, results[0].Values["n"])
}
