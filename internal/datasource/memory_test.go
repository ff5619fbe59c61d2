package datasource

import (
	"testing"
	"time"

	"github.com/agridata-lab/produce-report/internal/types"
	"github.com/agridata-lab/produce-report/pkg/errors"
	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"
)

type MemoryDataSourceTestSuite struct {
	suite.Suite
	source *MemoryDataSource
}

func TestMemoryDataSourceSuite(t *testing.T) {
	suite.Run(t, new(MemoryDataSourceTestSuite))
}

func (suite *MemoryDataSourceTestSuite) SetupTest() {
	day := func(d int) time.Time {
		return time.Date(2020, 1, d, 0, 0, 0, 0, time.UTC)
	}

	// Deliberately unsorted input; the source must order it.
	suite.source = NewMemoryDataSource([]types.ProducePoint{
		{Time: day(9), Product: "Apples", Form: types.FormFresh, Value: 1.55},
		{Time: day(2), Product: "Apples", Form: types.FormFresh, Value: 1.52},
		{Time: day(2), Product: "Apples", Form: types.FormFrozen, Value: 1.20},
		{Time: day(5), Product: "Oranges", Form: types.FormJuice, Value: 0.61},
	})
}

func (suite *MemoryDataSourceTestSuite) TestReadAllOrdered() {
	var points []types.ProducePoint

	for point, err := range suite.source.ReadAll(optional.None[time.Time](), optional.None[time.Time]()) {
		suite.NoError(err)
		points = append(points, point)
	}

	suite.Len(points, 4)
	suite.Equal(types.FormFresh, points[0].Form)
	suite.Equal(types.FormFrozen, points[1].Form)
	suite.Equal("Oranges", points[2].Product)
	suite.Equal(1.55, points[3].Value)
}

func (suite *MemoryDataSourceTestSuite) TestReadAllRange() {
	start := time.Date(2020, 1, 3, 0, 0, 0, 0, time.UTC)
	end := time.Date(2020, 1, 8, 0, 0, 0, 0, time.UTC)

	var points []types.ProducePoint

	for point, err := range suite.source.ReadAll(optional.Some(start), optional.Some(end)) {
		suite.NoError(err)
		points = append(points, point)
	}

	suite.Len(points, 1)
	suite.Equal("Oranges", points[0].Product)
}

func (suite *MemoryDataSourceTestSuite) TestHistory() {
	end := time.Date(2020, 1, 31, 0, 0, 0, 0, time.UTC)

	points, err := suite.source.History(end, types.NewFormSymbol("Apples", types.FormFresh), 2)
	suite.NoError(err)
	suite.Len(points, 2)
	suite.Equal(1.52, points[0].Value)
	suite.Equal(1.55, points[1].Value)
}

func (suite *MemoryDataSourceTestSuite) TestHistoryAggregateSymbol() {
	end := time.Date(2020, 1, 31, 0, 0, 0, 0, time.UTC)

	points, err := suite.source.History(end, types.NewSymbol("Apples"), 3)
	suite.NoError(err)
	suite.Len(points, 3)
}

func (suite *MemoryDataSourceTestSuite) TestHistoryInsufficient() {
	end := time.Date(2020, 1, 31, 0, 0, 0, 0, time.UTC)

	points, err := suite.source.History(end, types.NewSymbol("Oranges"), 5)
	suite.Error(err)
	suite.True(errors.IsInsufficientDataError(err))
	suite.Len(points, 1)
}

func (suite *MemoryDataSourceTestSuite) TestHistoryInvalidCount() {
	_, err := suite.source.History(time.Now(), types.NewSymbol("Apples"), 0)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidLookback))
}

func (suite *MemoryDataSourceTestSuite) TestCount() {
	count, err := suite.source.Count(optional.None[time.Time](), optional.None[time.Time]())
	suite.NoError(err)
	suite.Equal(4, count)

	end := time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)
	count, err = suite.source.Count(optional.None[time.Time](), optional.Some(end))
	suite.NoError(err)
	suite.Equal(2, count)
}

func (suite *MemoryDataSourceTestSuite) TestGetAllProducts() {
	products, err := suite.source.GetAllProducts()
	suite.NoError(err)
	suite.Equal([]string{"Apples", "Oranges"}, products)
}

func (suite *MemoryDataSourceTestSuite) TestExecuteSQLUnsupported() {
	_, err := suite.source.ExecuteSQL("SELECT 1")
	suite.Error(err)
}
