package portfolio

import "github.com/shopspring/decimal"

// Portfolio is the read-only account view a reporting strategy can consult.
// The replay engine seeds it with the configured initial capital; no orders
// are placed during a reporting run, so the total value only moves through
// SetTotalValue when an engine has something to mark.
type Portfolio struct {
	initialCapital decimal.Decimal
	totalValue     decimal.Decimal
}

func NewPortfolio(initialCapital float64) *Portfolio {
	capital := decimal.NewFromFloat(initialCapital)

	return &Portfolio{
		initialCapital: capital,
		totalValue:     capital,
	}
}

// InitialCapital returns the capital the run started with.
func (p *Portfolio) InitialCapital() decimal.Decimal {
	return p.initialCapital
}

// TotalValue returns the current total portfolio value.
func (p *Portfolio) TotalValue() decimal.Decimal {
	return p.totalValue
}

// SetTotalValue updates the marked total value.
func (p *Portfolio) SetTotalValue(value decimal.Decimal) {
	p.totalValue = value
}

// Reset restores the portfolio to the given initial capital.
func (p *Portfolio) Reset(initialCapital float64) {
	p.initialCapital = decimal.NewFromFloat(initialCapital)
	p.totalValue = p.initialCapital
}
