package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type CollectionTestSuite struct {
	suite.Suite
	collection Collection
}

func TestCollectionSuite(t *testing.T) {
	suite.Run(t, new(CollectionTestSuite))
}

func (suite *CollectionTestSuite) SetupTest() {
	day := time.Date(2020, 3, 4, 0, 0, 0, 0, time.UTC)
	forms := []Form{FormFresh, FormFrozen, "Apple Juice", "Juice Concentrate"}

	suite.collection = nil
	for i, form := range forms {
		suite.collection = append(suite.collection, ProducePoint{
			Time:    day,
			Product: "Apples",
			Form:    form,
			Value:   float64(i) + 0.5,
		})
	}
}

func (suite *CollectionTestSuite) TestFilterByForm() {
	fresh := suite.collection.FilterByForm(FormFresh)
	suite.Len(fresh, 1)
	suite.Equal(FormFresh, fresh[0].Form)
}

func (suite *CollectionTestSuite) TestFilterByFormContains() {
	// Substring match is case-sensitive and would also match a
	// hypothetical "Juiceless" label.
	juices := suite.collection.FilterByFormContains("Juice")
	suite.Len(juices, 2)
	suite.Equal(Form("Apple Juice"), juices[0].Form)
	suite.Equal(Form("Juice Concentrate"), juices[1].Form)

	suite.Empty(suite.collection.FilterByFormContains("juice"))
}

func (suite *CollectionTestSuite) TestFilterByFormNoMatch() {
	suite.Empty(suite.collection.FilterByForm(FormDried))
}

func (suite *CollectionTestSuite) TestFindForm() {
	frozen := suite.collection.FindForm(FormFrozen)
	suite.True(frozen.IsSome())
	suite.Equal(1.5, frozen.Unwrap().Value)

	suite.True(suite.collection.FindForm(FormCanned).IsNone())
}
