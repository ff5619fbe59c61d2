package types

import (
	"strings"

	"github.com/agridata-lab/produce-report/pkg/errors"
)

// Symbol identifies one subscribed data series: a product plus an optional
// form. An empty Form means the series aggregates every form of the product
// (e.g. all Apple forms delivered together in one collection).
type Symbol struct {
	Product string `yaml:"product" json:"product" validate:"required"`
	Form    Form   `yaml:"form" json:"form"`
}

// NewSymbol creates a product-level symbol covering all forms.
func NewSymbol(product string) Symbol {
	return Symbol{Product: product, Form: ""}
}

// NewFormSymbol creates a symbol for a single product/form series.
func NewFormSymbol(product string, form Form) Symbol {
	return Symbol{Product: product, Form: form}
}

// ParseSymbol parses "APPLES" or "APPLES.FRESH" into a Symbol.
func ParseSymbol(s string) (Symbol, error) {
	if s == "" {
		return Symbol{}, errors.New(errors.ErrCodeInvalidSymbol, "empty symbol")
	}

	parts := strings.SplitN(s, ".", 2)
	if parts[0] == "" {
		return Symbol{}, errors.Newf(errors.ErrCodeInvalidSymbol, "symbol %q has no product", s)
	}

	symbol := Symbol{Product: parts[0], Form: ""}
	if len(parts) == 2 {
		if parts[1] == "" {
			return Symbol{}, errors.Newf(errors.ErrCodeInvalidSymbol, "symbol %q has an empty form", s)
		}

		symbol.Form = Form(parts[1])
	}

	return symbol, nil
}

// IsAggregate reports whether the symbol covers every form of its product.
func (s Symbol) IsAggregate() bool {
	return s.Form == ""
}

// Matches reports whether a point belongs to this symbol's series.
func (s Symbol) Matches(point ProducePoint) bool {
	if point.Product != s.Product {
		return false
	}

	return s.IsAggregate() || point.Form == s.Form
}

func (s Symbol) String() string {
	if s.IsAggregate() {
		return s.Product
	}

	return s.Product + "." + string(s.Form)
}
