package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/agridata-lab/produce-report/internal/types"
	"github.com/moznion/go-optional"
)

// DataGenerator generates realistic produce pricing series for testing and
// benchmarking.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how produce pricing data is generated.
type GeneratorConfig struct {
	// Product is the produce name (e.g., "Apples")
	Product string
	// Forms are the forms generated per observation date
	Forms []types.Form
	// StartTime is the first observation date
	StartTime time.Time
	// Interval is the duration between observations
	Interval time.Duration
	// Count is the number of observation dates to generate
	Count int
	// InitialValue is the starting retail price per unit
	InitialValue float64
	// Volatility controls price movement between observations
	Volatility float64
	// Trend is the drift factor (negative for falling prices)
	Trend float64
	// Unit is the retail unit label
	Unit string
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Product:      "Apples",
		Forms:        []types.Form{types.FormFresh, types.FormFrozen},
		StartTime:    time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		Interval:     24 * time.Hour,
		Count:        1000,
		InitialValue: 1.50,
		Volatility:   0.02,
		Trend:        0.0,
		Unit:         "per pound",
	}
}

// Generate creates a slice of ProducePoint based on the configuration. Prices
// follow a geometric random walk per form, and the cup-equivalent fields are
// derived from the retail value. Output is ordered by time, then form.
func (g *DataGenerator) Generate(config GeneratorConfig) []types.ProducePoint {
	data := make([]types.ProducePoint, 0, config.Count*len(config.Forms))

	values := make(map[types.Form]float64, len(config.Forms))
	for _, form := range config.Forms {
		// Non-fresh forms start slightly cheaper
		offset := 1.0
		if form != types.FormFresh {
			offset = 0.8 + 0.1*g.rng.Float64()
		}

		values[form] = config.InitialValue * offset
	}

	currentTime := config.StartTime

	for i := 0; i < config.Count; i++ {
		for _, form := range config.Forms {
			value := values[form]
			data = append(data, g.point(config, form, currentTime, value))

			// Box-Muller transform for a normally distributed step
			u1 := g.rng.Float64()
			u2 := g.rng.Float64()
			z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

			drift := config.Trend / float64(config.Count)
			value *= math.Exp(drift + config.Volatility*z)

			// Retail prices stay positive
			values[form] = math.Max(value, 0.01)
		}

		currentTime = currentTime.Add(config.Interval)
	}

	return data
}

func (g *DataGenerator) point(config GeneratorConfig, form types.Form, t time.Time, value float64) types.ProducePoint {
	yieldFactor := 0.85 + 0.1*g.rng.Float64()
	cupSize := 0.2 + 0.1*g.rng.Float64()

	point := types.ProducePoint{
		Time:    t,
		Product: config.Product,
		Form:    form,
		Value:   value,
		Unit:    config.Unit,
	}
	point.AvgRetailPrice = optional.Some(value)
	point.YieldFactor = optional.Some(yieldFactor)
	point.CupEquivalentSize = optional.Some(cupSize)
	point.CupEquivalentUnit = optional.Some("pounds")
	point.PricePerCup = optional.Some(value * cupSize / yieldFactor)

	return point
}
