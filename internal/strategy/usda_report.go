package strategy

import (
	"fmt"
	"strings"
	"time"

	"github.com/agridata-lab/produce-report/internal/log"
	"github.com/agridata-lab/produce-report/internal/runtime"
	"github.com/agridata-lab/produce-report/internal/types"
	"github.com/agridata-lab/produce-report/pkg/errors"
	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v2"
)

// USDAReportConfig configures the reporting strategy.
type USDAReportConfig struct {
	// Symbols lists the subscribed series, e.g. "Apples" (all forms
	// aggregated) or "Apples.Fresh" (a single form).
	Symbols []string `yaml:"symbols" json:"symbols" jsonschema:"title=Symbols,description=Subscribed series names" validate:"required,min=1"`
	// Lookback is the number of prior observations fetched per symbol for
	// warm-up reporting. Zero disables the warm-up fetch.
	Lookback int `yaml:"lookback" json:"lookback" jsonschema:"title=Lookback,description=Number of prior observations fetched per symbol at startup,minimum=0" validate:"gte=0"`
}

// USDAReportStrategy consumes USDA fruit & vegetable pricing slices and
// emits report lines: one per point, observation-gap reports, a Fresh vs
// Frozen price comparison, and form-filter summaries. It is a read-only
// reporting pass; a day with no data for a symbol is a normal no-op.
type USDAReportStrategy struct {
	ctx       runtime.RuntimeContext
	config    USDAReportConfig
	symbols   []types.Symbol
	startTime optional.Option[time.Time]
	lastTime  time.Time
	warmedUp  bool
}

// NewUSDAReportStrategy creates the strategy. startTime, when present, is
// the replay start used as the warm-up history anchor.
func NewUSDAReportStrategy(startTime optional.Option[time.Time]) *USDAReportStrategy {
	return &USDAReportStrategy{
		startTime: startTime,
	}
}

// InitializeContext implements runtime.StrategyRuntime.
func (s *USDAReportStrategy) InitializeContext(ctx runtime.RuntimeContext) error {
	s.ctx = ctx

	return nil
}

// Name implements runtime.StrategyRuntime.
func (s *USDAReportStrategy) Name() string {
	return "USDAProduceReport"
}

// Initialize implements runtime.StrategyRuntime. It parses the YAML config,
// records the subscriptions, and performs the warm-up history fetch.
func (s *USDAReportStrategy) Initialize(config string) error {
	if err := yaml.Unmarshal([]byte(config), &s.config); err != nil {
		return errors.Wrap(errors.ErrCodeStrategyConfigError, "failed to parse strategy config", err)
	}

	validate := validator.New()
	if err := validate.Struct(s.config); err != nil {
		return errors.Wrap(errors.ErrCodeStrategyConfigError, "invalid strategy config", err)
	}

	s.symbols = s.symbols[:0]

	for _, raw := range s.config.Symbols {
		symbol, err := types.ParseSymbol(raw)
		if err != nil {
			return err
		}

		s.symbols = append(s.symbols, symbol)
	}

	s.warmedUp = false
	if s.startTime.IsSome() {
		return s.warmup(s.startTime.Unwrap())
	}

	// Without a configured replay start the warm-up is anchored to the
	// first delivered slice instead.
	return nil
}

// warmup fetches the configured number of prior observations per symbol
// before end and reports how many were received. A short series is not an
// error; the warm-up reports whatever history exists.
func (s *USDAReportStrategy) warmup(end time.Time) error {
	s.warmedUp = true

	if s.config.Lookback == 0 {
		return nil
	}

	for _, symbol := range s.symbols {
		points, err := s.ctx.DataSource.History(end, symbol, s.config.Lookback)
		if err != nil && !errors.IsInsufficientDataError(err) {
			return errors.Wrapf(errors.ErrCodeHistoryFailed, err, "warm-up history failed for %s", symbol.String())
		}

		if err := s.report(end, symbol, types.LogLevelDebug,
			fmt.Sprintf("Received %d historical data points", len(points))); err != nil {
			return err
		}
	}

	return nil
}

// ProcessSlice implements runtime.StrategyRuntime.
func (s *USDAReportStrategy) ProcessSlice(slice *types.Slice) error {
	if !s.warmedUp {
		if err := s.warmup(slice.Time()); err != nil {
			return err
		}
	}

	s.lastTime = slice.Time()

	for _, symbol := range s.symbols {
		collection := slice.Lookup(symbol)
		if collection.IsNone() {
			// Sparse data: nothing for this symbol today.
			continue
		}

		if err := s.processCollection(slice.Time(), symbol, collection.Unwrap()); err != nil {
			return err
		}
	}

	return nil
}

// OnEnd implements runtime.StrategyRuntime.
func (s *USDAReportStrategy) OnEnd() error {
	return s.report(s.lastTime, types.Symbol{}, types.LogLevelDebug,
		fmt.Sprintf("Replay completed. Final portfolio value: %s", s.ctx.Portfolio.TotalValue().String()))
}

func (s *USDAReportStrategy) processCollection(t time.Time, symbol types.Symbol, collection types.Collection) error {
	for _, point := range collection {
		if err := s.report(t, symbol, types.LogLevelInfo,
			fmt.Sprintf("%s: %s", t.Format("2006-01-02"), point.String())); err != nil {
			return err
		}

		if point.PricePerCup.IsSome() {
			if err := s.report(t, symbol, types.LogLevelDebug,
				fmt.Sprintf("Price per cup: $%.2f", point.PricePerCup.Unwrap())); err != nil {
				return err
			}
		}
	}

	if err := s.reportGap(t, symbol); err != nil {
		return err
	}

	if err := s.reportFreshFrozen(t, symbol, collection); err != nil {
		return err
	}

	return s.reportFormFilters(t, symbol, collection)
}

// reportGap reports the elapsed whole days since the previous observation of
// the symbol. The first observation produces no gap line.
func (s *USDAReportStrategy) reportGap(t time.Time, symbol types.Symbol) error {
	previous := s.ctx.Cache.Observe(symbol, t)
	if previous.IsNone() {
		return nil
	}

	days := int(t.Sub(previous.Unwrap()).Hours() / 24)

	return s.report(t, symbol, types.LogLevelDebug,
		fmt.Sprintf("%d day(s) since last observation", days))
}

// reportFreshFrozen compares the Fresh and Frozen prices per cup equivalent
// when the collection carries both.
func (s *USDAReportStrategy) reportFreshFrozen(t time.Time, symbol types.Symbol, collection types.Collection) error {
	fresh := collection.FindForm(types.FormFresh)
	frozen := collection.FindForm(types.FormFrozen)

	if fresh.IsNone() || frozen.IsNone() {
		return nil
	}

	freshPrice := fresh.Unwrap().PricePerCup
	frozenPrice := frozen.Unwrap().PricePerCup

	if freshPrice.IsNone() || frozenPrice.IsNone() {
		return nil
	}

	frozenValue := frozenPrice.Unwrap()
	if decimal.NewFromFloat(frozenValue).IsZero() {
		// A percentage diff against a zero price is undefined.
		return nil
	}

	return s.report(t, symbol, types.LogLevelInfo,
		fmt.Sprintf("Fresh vs Frozen: %s%%", percentDiff(freshPrice.Unwrap(), frozenValue)))
}

// reportFormFilters reports the Fresh subset and the "Juice" substring
// subset of the collection.
func (s *USDAReportStrategy) reportFormFilters(t time.Time, symbol types.Symbol, collection types.Collection) error {
	fresh := collection.FilterByForm(types.FormFresh)
	if err := s.reportFiltered(t, symbol, "Fresh", fresh); err != nil {
		return err
	}

	juice := collection.FilterByFormContains("Juice")

	return s.reportFiltered(t, symbol, "Juice", juice)
}

func (s *USDAReportStrategy) reportFiltered(t time.Time, symbol types.Symbol, label string, filtered types.Collection) error {
	if err := s.report(t, symbol, types.LogLevelDebug,
		fmt.Sprintf("%s points: %d", label, len(filtered))); err != nil {
		return err
	}

	for _, point := range filtered {
		if err := s.report(t, symbol, types.LogLevelDebug,
			fmt.Sprintf("%s point: %s", label, point.String())); err != nil {
			return err
		}
	}

	return nil
}

func (s *USDAReportStrategy) report(t time.Time, symbol types.Symbol, level types.LogLevel, message string) error {
	return s.ctx.Report.Log(log.ReportEntry{
		Timestamp: t,
		Symbol:    symbol.String(),
		Level:     level,
		Message:   message,
	})
}

// percentDiff renders (fresh - frozen) / frozen * 100 as a signed percentage
// with one decimal place, e.g. "+100.0".
func percentDiff(fresh, frozen float64) string {
	frozenDec := decimal.NewFromFloat(frozen)
	pct := decimal.NewFromFloat(fresh).
		Sub(frozenDec).
		Div(frozenDec).
		Mul(decimal.NewFromInt(100))

	rendered := pct.StringFixed(1)
	if !strings.HasPrefix(rendered, "-") {
		rendered = "+" + rendered
	}

	return rendered
}
