package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "DEBUG"
	LogLevelInfo  LogLevel = "INFO"
	LogLevelWarn  LogLevel = "WARN"
	LogLevelError LogLevel = "ERROR"
)

// ProducePoint is one USDA pricing measurement for a (product, form, date)
// tuple. The measurement fields are optional because the source dataset has
// missing values for many dates and forms.
type ProducePoint struct {
	Time    time.Time `yaml:"time" json:"time" validate:"required"`
	Product string    `yaml:"product" json:"product" validate:"required"`
	Form    Form      `yaml:"form" json:"form" validate:"required"`
	// Value is the normalized price for the observation.
	Value float64 `yaml:"value" json:"value"`
	// Unit is the unit of the average retail price (e.g. "per pound").
	Unit string `yaml:"unit" json:"unit"`

	PricePerCup       optional.Option[float64] `yaml:"price_per_cup" json:"price_per_cup"`
	AvgRetailPrice    optional.Option[float64] `yaml:"average_retail_price" json:"average_retail_price"`
	YieldFactor       optional.Option[float64] `yaml:"preparation_yield_factor" json:"preparation_yield_factor"`
	CupEquivalentSize optional.Option[float64] `yaml:"cup_equivalent_size" json:"cup_equivalent_size"`
	CupEquivalentUnit optional.Option[string]  `yaml:"cup_equivalent_unit" json:"cup_equivalent_unit"`
}

// Validate checks the point's required fields.
func (p ProducePoint) Validate() error {
	validate := validator.New()

	return validate.Struct(p)
}

// String renders the point with only its present fields. Absent optional
// measurements are omitted entirely, never printed as a placeholder.
func (p ProducePoint) String() string {
	parts := []string{
		fmt.Sprintf("%s(%s)", p.Product, p.Form),
		fmt.Sprintf("value=%.4f", p.Value),
	}

	if p.Unit != "" {
		parts = append(parts, fmt.Sprintf("unit=%q", p.Unit))
	}

	if p.PricePerCup.IsSome() {
		parts = append(parts, fmt.Sprintf("price_per_cup=$%.2f", p.PricePerCup.Unwrap()))
	}

	if p.AvgRetailPrice.IsSome() {
		parts = append(parts, fmt.Sprintf("avg_retail_price=$%.2f", p.AvgRetailPrice.Unwrap()))
	}

	if p.YieldFactor.IsSome() {
		parts = append(parts, fmt.Sprintf("yield_factor=%.2f", p.YieldFactor.Unwrap()))
	}

	if p.CupEquivalentSize.IsSome() {
		parts = append(parts, fmt.Sprintf("cup_equivalent_size=%.2f", p.CupEquivalentSize.Unwrap()))
	}

	if p.CupEquivalentUnit.IsSome() {
		parts = append(parts, fmt.Sprintf("cup_equivalent_unit=%q", p.CupEquivalentUnit.Unwrap()))
	}

	return strings.Join(parts, " ")
}
