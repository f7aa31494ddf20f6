package report_test

import (
	"errors"
	"testing"

	"github.com/bankstacx/bankstacx/internal/dataset"
	"github.com/bankstacx/bankstacx/internal/peers"
	"github.com/bankstacx/bankstacx/internal/report"
	"github.com/bankstacx/bankstacx/internal/stress"
	"github.com/bankstacx/bankstacx/pkg/mathutil"
	"github.com/bankstacx/bankstacx/pkg/testutil"
	"go.uber.org/zap"
)

func threeBanks(t *testing.T) *dataset.Dataset {
	t.Helper()
	return testutil.NewDataset(t, testutil.Rows{
		"Alpha": testutil.FieldsWith(map[string]float64{
			dataset.ColumnCoreDeposits:  80,
			dataset.ColumnTotalDeposits: 100,
		}),
		"Beta": testutil.FieldsWith(map[string]float64{
			dataset.ColumnCoreDeposits:  60,
			dataset.ColumnTotalDeposits: 120,
		}),
		"Gamma": testutil.FieldsWith(map[string]float64{
			dataset.ColumnCoreDeposits:  90,
			dataset.ColumnTotalDeposits: 100,
		}),
	})
}

func TestAnalysisPeerAverageExcludesTarget(t *testing.T) {
	d := threeBanks(t)
	builder := report.NewBuilder(zap.NewNop(), nil, nil)

	analysis, err := builder.Analysis(d, "Beta", 1, "core-deposits-ratio")
	if err != nil {
		t.Fatalf("Analysis() error = %v", err)
	}

	if analysis.BankValue == nil || !mathutil.RatioEqual(*analysis.BankValue, 0.50) {
		t.Errorf("BankValue = %v, expected 0.50", analysis.BankValue)
	}

	// Overall average includes the target: mean(0.80, 0.50, 0.90).
	if analysis.Average == nil || !mathutil.RatioEqual(*analysis.Average, (0.80+0.50+0.90)/3) {
		t.Errorf("Average = %v, expected mean over all three banks", analysis.Average)
	}

	// Peer average excludes the target: mean(0.80, 0.90).
	if analysis.PeerAverage == nil || !mathutil.RatioEqual(*analysis.PeerAverage, 0.85) {
		t.Errorf("PeerAverage = %v, expected 0.85", analysis.PeerAverage)
	}
}

func TestAnalysisBankNotFound(t *testing.T) {
	d := threeBanks(t)
	builder := report.NewBuilder(zap.NewNop(), nil, nil)

	_, err := builder.Analysis(d, "Delta", 1, "core-deposits-ratio")
	var notFound *peers.BankNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected *BankNotFoundError, got %v", err)
	}
}

func TestStressReportUsesInjectedBenchmarks(t *testing.T) {
	d := threeBanks(t)
	benchmarks := stress.DefaultBenchmarks().Merge(map[string]float64{
		string(stress.CET1): 0.10,
	})
	builder := report.NewBuilder(zap.NewNop(), nil, benchmarks)

	sr, err := builder.StressReport(d, "Alpha")
	if err != nil {
		t.Fatalf("StressReport() error = %v", err)
	}

	if sr.Benchmarks[stress.CET1] != 0.10 {
		t.Errorf("benchmark CET1 = %v, expected injected 0.10", sr.Benchmarks[stress.CET1])
	}
	// No CCAR columns in the fixture, so every metric is missing.
	for metric, v := range sr.Metrics {
		if !v.Missing {
			t.Errorf("metric %s = %+v, expected missing", metric, v)
		}
	}
}

func TestSummaryMissingBondFields(t *testing.T) {
	d := threeBanks(t)
	builder := report.NewBuilder(zap.NewNop(), nil, nil)

	summary, err := builder.Summary(d, "Alpha")
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}

	if summary.CouponRate != nil || summary.FlatPrice != nil {
		t.Error("bond fields should be nil when absent from the sheet")
	}
	// Capital adequacy is computable from the required columns.
	if summary.CapitalAdequacy == nil || !mathutil.RatioEqual(*summary.CapitalAdequacy, 120.0/800.0) {
		t.Errorf("CapitalAdequacy = %v, expected 0.15", summary.CapitalAdequacy)
	}
}

func TestSummaryBondFieldsPresent(t *testing.T) {
	d := testutil.NewDataset(t, testutil.Rows{
		"Alpha": testutil.FieldsWith(map[string]float64{
			dataset.ColumnCouponRate:       4.25,
			dataset.ColumnFlatPrice:        101.5,
			dataset.ColumnYieldToMaturity:  4.8,
			dataset.ColumnModifiedDuration: 5.321,
		}),
		"Beta": testutil.FullFields(),
	})
	builder := report.NewBuilder(zap.NewNop(), nil, nil)

	summary, err := builder.Summary(d, "Alpha")
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if summary.CouponRate == nil || *summary.CouponRate != 4.25 {
		t.Errorf("CouponRate = %v, expected 4.25", summary.CouponRate)
	}
	if summary.ModifiedDuration == nil || *summary.ModifiedDuration != 5.321 {
		t.Errorf("ModifiedDuration = %v, expected 5.321", summary.ModifiedDuration)
	}
}

func TestFullReport(t *testing.T) {
	d := threeBanks(t)
	builder := report.NewBuilder(zap.NewNop(), nil, nil)

	rep, err := builder.Full(d, "Beta", 1)
	if err != nil {
		t.Fatalf("Full() error = %v", err)
	}

	if len(rep.Ratios) != 6 {
		t.Errorf("report carries %d ratios, expected the full catalog of 6", len(rep.Ratios))
	}
	if len(rep.PeerBanks) != 3 {
		t.Errorf("peer set has %d banks, expected 3", len(rep.PeerBanks))
	}
	if rep.Stress == nil || rep.Summary == nil || rep.Financials == nil {
		t.Fatal("report is missing a section")
	}
	if len(rep.Financials.Rows) != 3 {
		t.Errorf("financials table has %d rows, expected 3", len(rep.Financials.Rows))
	}
	if len(rep.Financials.Columns) != len(dataset.RequiredColumns) {
		t.Errorf("financials table has %d columns, expected %d",
			len(rep.Financials.Columns), len(dataset.RequiredColumns))
	}
}

func TestFinancialsMissingCellIsNil(t *testing.T) {
	d := testutil.NewDataset(t, testutil.Rows{
		"Alpha": testutil.FieldsWithout(dataset.ColumnMarketableSecurities),
		"Beta":  testutil.FullFields(),
	})
	builder := report.NewBuilder(zap.NewNop(), nil, nil)

	table, err := builder.Financials(d, "Alpha", 1)
	if err != nil {
		t.Fatalf("Financials() error = %v", err)
	}

	for _, row := range table.Rows {
		v := row.Values[dataset.ColumnMarketableSecurities]
		switch row.Bank {
		case "Alpha":
			if v != nil {
				t.Errorf("Alpha's missing cell = %v, expected nil", *v)
			}
		case "Beta":
			if v == nil || *v != 60 {
				t.Errorf("Beta's cell = %v, expected 60", v)
			}
		}
	}
}
