// Package report assembles the numeric payloads consumed by the rendering
// layer: ratio analyses with peer averages, stress-test extracts with their
// benchmarks, the key-financials table, and the per-bank summary block.
package report

import (
	"github.com/bankstacx/bankstacx/internal/dataset"
	"github.com/bankstacx/bankstacx/internal/peers"
	"github.com/bankstacx/bankstacx/internal/ratios"
	"github.com/bankstacx/bankstacx/internal/stress"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
)

// Builder computes reports over a loaded dataset. It holds no dataset state
// itself; the dataset handle is passed in by the calling context, which owns
// the load/reload lifecycle.
type Builder struct {
	logger     *zap.Logger
	criteria   peers.Criteria
	benchmarks stress.Benchmarks
}

// NewBuilder constructs a Builder. A nil criteria selects the default
// neighbor policy; a nil logger is replaced by a no-op logger.
func NewBuilder(logger *zap.Logger, criteria peers.Criteria, benchmarks stress.Benchmarks) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	if criteria == nil {
		criteria = peers.NeighborCriteria{}
	}
	if benchmarks == nil {
		benchmarks = stress.DefaultBenchmarks()
	}
	return &Builder{logger: logger, criteria: criteria, benchmarks: benchmarks}
}

// RatioAnalysis is one ratio computed over a peer set. Average is nil when
// no bank had a defined value; Partial marks averages that cover only part
// of the peer set so they are labeled as such, not presented as complete.
// PeerAverage is the mean over the peers excluding the target bank, the
// figure the bank-vs-peers comparison chart plots.
type RatioAnalysis struct {
	Bank        string             `json:"bank"`
	Ratio       string             `json:"ratio"`
	Description string             `json:"description"`
	PeerBanks   []string           `json:"peerBanks"`
	Values      map[string]float64 `json:"values"`
	Excluded    []ratios.BankError `json:"excluded,omitempty"`
	Average     *float64           `json:"average,omitempty"`
	Partial     bool               `json:"partial"`
	BankValue   *float64           `json:"bankValue,omitempty"`
	PeerAverage *float64           `json:"peerAverage,omitempty"`
}

// StressReport pairs one bank's extracted CCAR metrics with the benchmark
// table they are rendered against.
type StressReport struct {
	Bank       string                         `json:"bank"`
	Metrics    map[stress.Metric]stress.Value `json:"metrics"`
	Benchmarks stress.Benchmarks              `json:"benchmarks"`
}

// FinancialsRow is one bank's raw line items. Missing cells are nil, never
// zero.
type FinancialsRow struct {
	Bank   string              `json:"bank"`
	Values map[string]*float64 `json:"values"`
}

// FinancialsTable is the key-financials peer comparison: the raw line-item
// columns for every bank in the peer set.
type FinancialsTable struct {
	Bank    string          `json:"bank"`
	Columns []string        `json:"columns"`
	Rows    []FinancialsRow `json:"rows"`
}

// Summary is the per-bank summary block: bond statistics straight from the
// record plus the computed capital-adequacy ratio. Fields are nil when the
// underlying figure is absent.
type Summary struct {
	Bank             string   `json:"bank"`
	CouponRate       *float64 `json:"couponRate,omitempty"`
	FlatPrice        *float64 `json:"flatPrice,omitempty"`
	YieldToMaturity  *float64 `json:"yieldToMaturity,omitempty"`
	ModifiedDuration *float64 `json:"modifiedDuration,omitempty"`
	CapitalAdequacy  *float64 `json:"capitalAdequacy,omitempty"`
}

// Report is the full analysis payload for one bank and peer count: every
// catalog ratio, the stress extract, the summary, and the financials table.
type Report struct {
	Bank       string           `json:"bank"`
	PeerBanks  []string         `json:"peerBanks"`
	Ratios     []RatioAnalysis  `json:"ratios"`
	Stress     *StressReport    `json:"stress"`
	Summary    *Summary         `json:"summary"`
	Financials *FinancialsTable `json:"financials"`
}

// Analysis computes one named ratio for the bank's peer set.
func (b *Builder) Analysis(d *dataset.Dataset, bank string, peerCount int, ratioName string) (*RatioAnalysis, error) {
	ps, err := b.criteria.SelectPeers(d, bank, peerCount)
	if err != nil {
		return nil, err
	}
	return b.analyzeRatio(ps, ratioName)
}

func (b *Builder) analyzeRatio(ps *peers.PeerSet, ratioName string) (*RatioAnalysis, error) {
	result, err := ratios.Compute(ps, ratioName)
	if err != nil {
		return nil, err
	}
	def, _ := ratios.Lookup(result.Ratio)

	analysis := &RatioAnalysis{
		Bank:        ps.Target(),
		Ratio:       result.Ratio,
		Description: def.Description,
		PeerBanks:   ps.Banks(),
		Values:      result.Values,
		Excluded:    result.Excluded,
		Partial:     result.Partial,
	}

	if result.HasAverage {
		avg := result.Average
		analysis.Average = &avg
	}

	if v, defined := result.Values[ps.Target()]; defined {
		bankValue := v
		analysis.BankValue = &bankValue
	}

	// Peer average excludes the target so the comparison is bank vs peers,
	// not bank vs a mean it is part of.
	var peerValues []float64
	for bank, v := range result.Values {
		if bank == ps.Target() {
			continue
		}
		peerValues = append(peerValues, v)
	}
	if len(peerValues) > 0 {
		peerAvg := stat.Mean(peerValues, nil)
		analysis.PeerAverage = &peerAvg
	}

	b.logger.Debug("computed ratio analysis",
		zap.String("op", "report.Analysis"),
		zap.String("bank", ps.Target()),
		zap.String("ratio", result.Ratio),
		zap.Int("peerSetSize", ps.Len()),
		zap.Int("excluded", len(result.Excluded)),
	)

	return analysis, nil
}

// StressReport extracts the bank's CCAR metrics alongside the benchmark
// table. Extraction only; comparison against the benchmarks happens in the
// rendering layer.
func (b *Builder) StressReport(d *dataset.Dataset, bank string) (*StressReport, error) {
	rec, ok := d.Lookup(bank)
	if !ok {
		return nil, &peers.BankNotFoundError{Bank: bank}
	}

	return &StressReport{
		Bank:       bank,
		Metrics:    stress.Extract(rec),
		Benchmarks: b.benchmarks,
	}, nil
}

// Financials builds the key-financials table for the bank's peer set.
func (b *Builder) Financials(d *dataset.Dataset, bank string, peerCount int) (*FinancialsTable, error) {
	ps, err := b.criteria.SelectPeers(d, bank, peerCount)
	if err != nil {
		return nil, err
	}
	return b.financialsTable(ps), nil
}

func (b *Builder) financialsTable(ps *peers.PeerSet) *FinancialsTable {
	table := &FinancialsTable{
		Bank:    ps.Target(),
		Columns: append([]string(nil), dataset.RequiredColumns...),
	}

	for _, rec := range ps.Records() {
		row := FinancialsRow{
			Bank:   rec.Bank(),
			Values: make(map[string]*float64, len(table.Columns)),
		}
		for _, col := range table.Columns {
			if v, ok := rec.Value(col); ok {
				value := v
				row.Values[col] = &value
			} else {
				row.Values[col] = nil
			}
		}
		table.Rows = append(table.Rows, row)
	}

	return table
}

// Summary builds the per-bank summary block.
func (b *Builder) Summary(d *dataset.Dataset, bank string) (*Summary, error) {
	rec, ok := d.Lookup(bank)
	if !ok {
		return nil, &peers.BankNotFoundError{Bank: bank}
	}

	summary := &Summary{
		Bank:             bank,
		CouponRate:       optionalValue(rec, dataset.ColumnCouponRate),
		FlatPrice:        optionalValue(rec, dataset.ColumnFlatPrice),
		YieldToMaturity:  optionalValue(rec, dataset.ColumnYieldToMaturity),
		ModifiedDuration: optionalValue(rec, dataset.ColumnModifiedDuration),
	}

	if def, ok := ratios.Lookup(ratios.CapitalAdequacy); ok {
		if v, err := def.Evaluate(rec); err == nil {
			summary.CapitalAdequacy = &v
		}
	}

	return summary, nil
}

// Full assembles the complete report for one bank and peer count.
func (b *Builder) Full(d *dataset.Dataset, bank string, peerCount int) (*Report, error) {
	ps, err := b.criteria.SelectPeers(d, bank, peerCount)
	if err != nil {
		return nil, err
	}

	rep := &Report{
		Bank:      bank,
		PeerBanks: ps.Banks(),
	}

	for _, name := range ratios.Names() {
		analysis, err := b.analyzeRatio(ps, name)
		if err != nil {
			return nil, err
		}
		rep.Ratios = append(rep.Ratios, *analysis)
	}

	stressReport, err := b.StressReport(d, bank)
	if err != nil {
		return nil, err
	}
	rep.Stress = stressReport

	summary, err := b.Summary(d, bank)
	if err != nil {
		return nil, err
	}
	rep.Summary = summary

	rep.Financials = b.financialsTable(ps)

	b.logger.Info("assembled full report",
		zap.String("op", "report.Full"),
		zap.String("bank", bank),
		zap.Int("peerSetSize", ps.Len()),
		zap.Int("ratios", len(rep.Ratios)),
	)

	return rep, nil
}

func optionalValue(rec dataset.FinancialRecord, column string) *float64 {
	if v, ok := rec.Value(column); ok {
		return &v
	}
	return nil
}
