package shared

import (
	"fmt"
	"time"
)

// Naming series prefixes for generated document names
const (
	SeriesAddress      = "ADDR-"
	SeriesQuotation    = "SAL-QTN-"
	SeriesSalesOrder   = "SAL-ORD-"
	SeriesPaymentEntry = "ACC-PAY-"
)

// SeriesPrefix returns the yearly prefix of a dated series, e.g. "SAL-ORD-2026-"
func SeriesPrefix(series string, at time.Time) string {
	return fmt.Sprintf("%s%d-", series, at.Year())
}

// SeriesName formats the nth document name for a prefix, e.g. "SAL-ORD-2026-00001"
func SeriesName(prefix string, n int64) string {
	return fmt.Sprintf("%s%05d", prefix, n)
}
