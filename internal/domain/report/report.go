// Package report turns canonical underwriting records into display ready views.
package report

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/yanqian/underwriting-gateway/internal/domain/underwriting"
)

// Missing is shown wherever a value is unknown.
const Missing = "—"

// Tone classifies a decision for styling.
type Tone string

const (
	ToneSuccess Tone = "success"
	ToneWarning Tone = "warning"
	ToneDanger  Tone = "danger"
	ToneInfo    Tone = "info"
)

var printer = message.NewPrinter(language.English)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Ratio divides num by den. A zero or non-finite result is reported as absent.
func Ratio(num, den float64) (float64, bool) {
	if den == 0 {
		return 0, false
	}
	r := num / den
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, false
	}
	return r, true
}

// DTI prefers the upstream ratio and derives debts/income otherwise.
// derived reports whether the value was computed locally.
func DTI(r underwriting.Record) (value float64, ok bool, derived bool) {
	if r.DTI != nil {
		return *r.DTI, true, false
	}
	value, ok = Ratio(r.MonthlyDebts, r.MonthlyIncome)
	return value, ok, ok
}

// LTV prefers the upstream ratio and derives loan/property otherwise.
func LTV(r underwriting.Record) (value float64, ok bool, derived bool) {
	if r.LTV != nil {
		return *r.LTV, true, false
	}
	value, ok = Ratio(r.LoanAmount, r.PropertyValue)
	return value, ok, ok
}

// FormatPercent renders a ratio as a percentage with two decimals, e.g. 0.36 as "36.00%".
func FormatPercent(ratio float64, ok bool) string {
	if !ok || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return Missing
	}
	return decimal.NewFromFloat(ratio).Shift(2).StringFixed(2) + "%"
}

// FormatCurrency renders a USD amount with grouping, e.g. "$1,234.56" or "-$5.00".
func FormatCurrency(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Missing
	}
	d := decimal.NewFromFloat(amount).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	fixed := d.StringFixed(2)
	cents := fixed[strings.LastIndexByte(fixed, '.')+1:]
	// Whole dollars go through %.0f rather than an int64 so amounts past 2^63 keep their digits.
	dollars := printer.Sprintf("%.0f", d.Truncate(0).InexactFloat64())
	return sign + "$" + dollars + "." + cents
}

// FormatTimestamp renders an upstream timestamp in UTC. Unparseable text is returned as-is.
func FormatTimestamp(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Missing
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC().Format("Jan 2, 2006 15:04 UTC")
		}
	}
	return raw
}

// ToneOf maps a decision onto its display tone.
func ToneOf(d underwriting.Decision) Tone {
	switch d {
	case underwriting.DecisionApprove:
		return ToneSuccess
	case underwriting.DecisionRefer:
		return ToneWarning
	case underwriting.DecisionDecline:
		return ToneDanger
	default:
		return ToneInfo
	}
}

// Describe returns the one-line explanation shown under a decision.
func Describe(d underwriting.Decision) string {
	switch d {
	case underwriting.DecisionApprove:
		return "Eligible for approval based on the provided data."
	case underwriting.DecisionRefer:
		return "Requires manual review before approval."
	case underwriting.DecisionDecline:
		return "Does not meet the underwriting criteria."
	default:
		return "Review the evaluation details below."
	}
}

// OccupancyLabel returns the readable occupancy, falling back to the raw code.
func OccupancyLabel(o underwriting.Occupancy) string {
	if label := o.Label(); label != "" {
		return label
	}
	if o == "" {
		return Missing
	}
	return string(o)
}
