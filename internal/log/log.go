package log

import (
	"time"

	"github.com/agridata-lab/produce-report/internal/types"
)

// ReportEntry represents a single report line with data-time context.
type ReportEntry struct {
	// Timestamp is the data time when this entry was produced.
	Timestamp time.Time
	// Symbol is the data series associated with this entry.
	Symbol string
	// Level is the severity level of the entry.
	Level types.LogLevel
	// Message is the entry content.
	Message string
	// Fields contains optional structured key-value data.
	Fields map[string]string
}

// Report is the interface for storing strategy report lines. It is the
// strategy-facing log/debug sink; entries are fire-and-forget from the
// strategy's point of view.
type Report interface {
	// Log stores a report entry.
	Log(entry ReportEntry) error
	// GetEntries retrieves all stored entries in insertion order.
	GetEntries() ([]ReportEntry, error)
}
