package types

import (
	"sort"
	"time"

	"github.com/moznion/go-optional"
)

// Slice is the per-time-step data container delivered to a strategy. It maps
// each subscribed symbol to the collection observed on that day; symbols with
// no observation are simply absent.
type Slice struct {
	time    time.Time
	entries map[Symbol]Collection
}

// NewSlice creates an empty slice for the given time step.
func NewSlice(t time.Time) *Slice {
	return &Slice{
		time:    t,
		entries: make(map[Symbol]Collection),
	}
}

// Time returns the time step this slice belongs to.
func (s *Slice) Time() time.Time {
	return s.time
}

// Add appends a point to the symbol's collection.
func (s *Slice) Add(symbol Symbol, point ProducePoint) {
	s.entries[symbol] = append(s.entries[symbol], point)
}

// Lookup returns the collection for the symbol, or None when the symbol has
// no observation on this step. Absence is a normal outcome, not an error.
func (s *Slice) Lookup(symbol Symbol) optional.Option[Collection] {
	collection, ok := s.entries[symbol]
	if !ok {
		return optional.None[Collection]()
	}

	return optional.Some(collection)
}

// Symbols returns the symbols present in this slice in stable order.
func (s *Slice) Symbols() []Symbol {
	symbols := make([]Symbol, 0, len(s.entries))
	for symbol := range s.entries {
		symbols = append(symbols, symbol)
	}

	sort.Slice(symbols, func(i, j int) bool {
		return symbols[i].String() < symbols[j].String()
	})

	return symbols
}

// Len returns the number of symbols present in this slice.
func (s *Slice) Len() int {
	return len(s.entries)
}
