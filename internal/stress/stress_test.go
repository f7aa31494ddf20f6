package stress_test

import (
	"testing"

	"github.com/bankstacx/bankstacx/internal/dataset"
	"github.com/bankstacx/bankstacx/internal/stress"
	"github.com/bankstacx/bankstacx/pkg/testutil"
)

func TestExtract(t *testing.T) {
	d := testutil.NewDataset(t, testutil.Rows{
		"Alpha Bank": testutil.FieldsWith(map[string]float64{
			dataset.ColumnCET1Ratio:  0.112,
			dataset.ColumnTier1Ratio: 0.128,
		}),
	})
	rec, _ := d.Lookup("Alpha Bank")

	metrics := stress.Extract(rec)

	if len(metrics) != len(stress.Metrics()) {
		t.Fatalf("Extract() returned %d metrics, expected %d", len(metrics), len(stress.Metrics()))
	}

	if v := metrics[stress.CET1]; v.Missing || v.Value != 0.112 {
		t.Errorf("CET1 = %+v, expected 0.112 present", v)
	}
	if v := metrics[stress.Tier1Capital]; v.Missing || v.Value != 0.128 {
		t.Errorf("Tier1Capital = %+v, expected 0.128 present", v)
	}

	// Columns absent from the sheet surface as explicitly missing, not 0.
	for _, metric := range []stress.Metric{stress.TotalCapital, stress.Leverage, stress.SupplementaryTier1} {
		if v := metrics[metric]; !v.Missing {
			t.Errorf("%s = %+v, expected missing", metric, v)
		}
	}
}

func TestDefaultBenchmarksCoverAllMetrics(t *testing.T) {
	b := stress.DefaultBenchmarks()
	for _, metric := range stress.Metrics() {
		if _, ok := b[metric]; !ok {
			t.Errorf("no default benchmark for %s", metric)
		}
	}
}

func TestBenchmarksMerge(t *testing.T) {
	merged := stress.DefaultBenchmarks().Merge(map[string]float64{
		string(stress.CET1): 0.07,
		"made-up-metric":    0.5,
	})

	if merged[stress.CET1] != 0.07 {
		t.Errorf("CET1 benchmark = %v, expected override 0.07", merged[stress.CET1])
	}
	if len(merged) != len(stress.Metrics()) {
		t.Errorf("merged table has %d entries, expected %d (unknown names ignored)",
			len(merged), len(stress.Metrics()))
	}
	if merged[stress.Leverage] != stress.DefaultBenchmarks()[stress.Leverage] {
		t.Errorf("Leverage benchmark changed unexpectedly")
	}
}

func TestIsMetric(t *testing.T) {
	if !stress.IsMetric("cet1-ratio") {
		t.Error("cet1-ratio should be a known metric")
	}
	if stress.IsMetric("npa-ratio") {
		t.Error("npa-ratio is a key metric, not a stress metric")
	}
}
