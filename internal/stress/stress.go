// Package stress extracts CCAR capital-adequacy metrics from a bank record
// for comparison against benchmark constants. Extraction only; the rendering
// layer does the comparing.
package stress

import (
	"github.com/bankstacx/bankstacx/internal/dataset"
	"github.com/bankstacx/bankstacx/pkg/constants"
)

// Metric identifies one capital-adequacy figure.
type Metric string

// The fixed CCAR metric set.
const (
	CET1               Metric = "cet1-ratio"
	Tier1Capital       Metric = "tier1-capital-ratio"
	TotalCapital       Metric = "total-capital-ratio"
	Leverage           Metric = "leverage-ratio"
	SupplementaryTier1 Metric = "supplementary-tier1-ratio"
)

// metricColumns maps each metric to its spreadsheet column.
var metricColumns = map[Metric]string{
	CET1:               dataset.ColumnCET1Ratio,
	Tier1Capital:       dataset.ColumnTier1Ratio,
	TotalCapital:       dataset.ColumnTotalCapitalRatio,
	Leverage:           dataset.ColumnLeverageRatio,
	SupplementaryTier1: dataset.ColumnSuppTier1Ratio,
}

// Metrics returns the metric set in display order.
func Metrics() []Metric {
	return []Metric{CET1, Tier1Capital, TotalCapital, Leverage, SupplementaryTier1}
}

// IsMetric reports whether name is one of the fixed metrics.
func IsMetric(name string) bool {
	_, ok := metricColumns[Metric(name)]
	return ok
}

// Value is a metric that is either present with a numeric value or
// explicitly missing. A missing figure is surfaced as such, never replaced
// with a placeholder number.
type Value struct {
	Value   float64 `json:"value"`
	Missing bool    `json:"missing"`
}

// Extract pulls the fixed metric set from one bank's record.
func Extract(rec dataset.FinancialRecord) map[Metric]Value {
	out := make(map[Metric]Value, len(metricColumns))
	for metric, col := range metricColumns {
		if v, ok := rec.Value(col); ok {
			out[metric] = Value{Value: v}
		} else {
			out[metric] = Value{Missing: true}
		}
	}
	return out
}

// Benchmarks is the single table of constant benchmark values per metric.
// Benchmarks are configuration, independent of any loaded dataset, and are
// injected into consumers rather than embedded in them.
type Benchmarks map[Metric]float64

// DefaultBenchmarks returns the regulatory-minimum defaults.
func DefaultBenchmarks() Benchmarks {
	return Benchmarks{
		CET1:               constants.BenchmarkCET1,
		Tier1Capital:       constants.BenchmarkTier1Capital,
		TotalCapital:       constants.BenchmarkTotalCapital,
		Leverage:           constants.BenchmarkLeverage,
		SupplementaryTier1: constants.BenchmarkSupplementaryTier1,
	}
}

// Merge overlays the overrides onto b, returning a new table. Unknown metric
// names in overrides are ignored; callers surface those as configuration
// warnings.
func (b Benchmarks) Merge(overrides map[string]float64) Benchmarks {
	merged := make(Benchmarks, len(b))
	for metric, v := range b {
		merged[metric] = v
	}
	for name, v := range overrides {
		if IsMetric(name) {
			merged[Metric(name)] = v
		}
	}
	return merged
}
