// Package ratios defines the fixed catalog of financial ratios and computes
// them over a peer set.
//
// Two definitions of the liquidity and solvency ratios circulated in earlier
// revisions of this analysis; this package implements liquidity as cash &
// equivalents over total assets and solvency as total liabilities (excluding
// equity) over total assets, and only those.
package ratios

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bankstacx/bankstacx/internal/dataset"
	"github.com/bankstacx/bankstacx/internal/peers"
	"gonum.org/v1/gonum/stat"
)

// Ratio names accepted by Compute.
const (
	CoreDeposits    = "core-deposits-ratio"
	NPA             = "npa-ratio"
	Liquidity       = "liquidity-ratio"
	CapitalAdequacy = "capital-adequacy-ratio"
	Solvency        = "solvency-ratio"
	LoanDeposit     = "loan-deposit-ratio"
)

// Definition is a named pure formula over a record's columns: the sum of the
// numerator columns divided by the denominator column. Definitions are fixed
// at process start and never mutated.
type Definition struct {
	Name        string
	Description string
	Numerator   []string
	Denominator string
}

// Catalog is the fixed ratio catalog in display order.
var Catalog = []Definition{
	{
		Name:        CoreDeposits,
		Description: "Core deposits to total deposits",
		Numerator:   []string{dataset.ColumnCoreDeposits},
		Denominator: dataset.ColumnTotalDeposits,
	},
	{
		Name:        NPA,
		Description: "Non-performing assets to total loans",
		Numerator:   []string{dataset.ColumnNonPerformingAssets},
		Denominator: dataset.ColumnLoans,
	},
	{
		Name:        Liquidity,
		Description: "Cash & equivalents to total assets",
		Numerator:   []string{dataset.ColumnCashAndEquivalents},
		Denominator: dataset.ColumnTotalAssets,
	},
	{
		Name:        CapitalAdequacy,
		Description: "Tier-1 plus Tier-2 capital to risk-weighted assets",
		Numerator:   []string{dataset.ColumnTier1Capital, dataset.ColumnTier2Capital},
		Denominator: dataset.ColumnRiskWeightedAssets,
	},
	{
		Name:        Solvency,
		Description: "Total liabilities (excluding equity) to total assets",
		Numerator:   []string{dataset.ColumnTotalLiabilities},
		Denominator: dataset.ColumnTotalAssets,
	},
	{
		Name:        LoanDeposit,
		Description: "Loans to total deposits",
		Numerator:   []string{dataset.ColumnLoans},
		Denominator: dataset.ColumnTotalDeposits,
	},
}

// Names returns the catalog's ratio names in display order.
func Names() []string {
	names := make([]string, len(Catalog))
	for i, def := range Catalog {
		names[i] = def.Name
	}
	return names
}

// Lookup finds a catalog entry by name.
func Lookup(name string) (Definition, bool) {
	for _, def := range Catalog {
		if def.Name == name {
			return def, true
		}
	}
	return Definition{}, false
}

// UnknownRatioError signals a ratio name outside the fixed catalog.
type UnknownRatioError struct {
	Name string
}

func (e *UnknownRatioError) Error() string {
	return fmt.Sprintf("unknown ratio %q, expected one of: %s", e.Name, strings.Join(Names(), ", "))
}

// BankError records why a single bank's value is undefined for a ratio. The
// bank is excluded from the average; the rest of the peer set is unaffected.
type BankError struct {
	Bank   string `json:"bank"`
	Reason string `json:"reason"`
}

func (e BankError) Error() string {
	return fmt.Sprintf("computation error for bank %q: %s", e.Bank, e.Reason)
}

// Result holds one ratio computed over a peer set: per-bank values for every
// bank with a defined value, the arithmetic mean of those values, and the
// exclusions. Partial is set when at least one bank was excluded so callers
// can label the average as covering only part of the peer set; HasAverage is
// false when no bank had a defined value, in which case Average must not be
// read (there is no NaN in the output contract).
type Result struct {
	Ratio      string
	Values     map[string]float64
	Excluded   []BankError
	Average    float64
	HasAverage bool
	Partial    bool
}

// Evaluate applies the formula to one record. A zero denominator or a
// missing operand yields a BankError rather than a placeholder value.
func (d Definition) Evaluate(rec dataset.FinancialRecord) (float64, error) {
	var num float64
	for _, col := range d.Numerator {
		v, ok := rec.Value(col)
		if !ok {
			return 0, BankError{Bank: rec.Bank(), Reason: fmt.Sprintf("missing value for %q", col)}
		}
		num += v
	}

	den, ok := rec.Value(d.Denominator)
	if !ok {
		return 0, BankError{Bank: rec.Bank(), Reason: fmt.Sprintf("missing value for %q", d.Denominator)}
	}
	if den == 0 {
		return 0, BankError{Bank: rec.Bank(), Reason: fmt.Sprintf("zero denominator %q", d.Denominator)}
	}

	return num / den, nil
}

// Compute evaluates the named ratio for every bank in the peer set and
// averages the defined values. Per-bank failures are isolated: the failing
// bank is reported in Excluded and skipped, never aborting the batch.
func Compute(ps *peers.PeerSet, name string) (*Result, error) {
	def, ok := Lookup(name)
	if !ok {
		return nil, &UnknownRatioError{Name: name}
	}
	if ps == nil || ps.Len() == 0 {
		return nil, fmt.Errorf("ratio %q requires a non-empty peer set", name)
	}

	result := &Result{
		Ratio:  def.Name,
		Values: make(map[string]float64, ps.Len()),
	}

	var defined []float64
	for _, rec := range ps.Records() {
		v, err := def.Evaluate(rec)
		if err != nil {
			bankErr, isBankErr := err.(BankError)
			if !isBankErr {
				bankErr = BankError{Bank: rec.Bank(), Reason: err.Error()}
			}
			result.Excluded = append(result.Excluded, bankErr)
			continue
		}
		result.Values[rec.Bank()] = v
		defined = append(defined, v)
	}

	sort.Slice(result.Excluded, func(i, j int) bool {
		return result.Excluded[i].Bank < result.Excluded[j].Bank
	})

	if len(defined) > 0 {
		result.Average = stat.Mean(defined, nil)
		result.HasAverage = true
	}
	result.Partial = len(result.Excluded) > 0

	return result, nil
}
