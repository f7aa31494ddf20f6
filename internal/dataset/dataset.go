// Package dataset defines the in-memory tabular representation of the bank
// line-items spreadsheet and includes functions for loading it.
package dataset

import "sort"

// Column names as they appear in the spreadsheet header. Matching is exact and
// case-sensitive apart from the Bank/Company alias.
const (
	ColumnBank    = "Bank"
	ColumnCompany = "Company"

	ColumnPAT                  = "PAT"
	ColumnDepreciation         = "Depreciation"
	ColumnTotalLiabilities     = "Total Liabilities (excluding equity)"
	ColumnCashAndEquivalents   = "Cash & cash equivalents"
	ColumnTotalAssets          = "Total Assets"
	ColumnCurrentAssets        = "Current Assets"
	ColumnCurrentLiabilities   = "Current Liabilities"
	ColumnAccountsReceivables  = "Accounts Receivables"
	ColumnMarketableSecurities = "Marketable Securities"
	ColumnCoreDeposits         = "Core Deposits"
	ColumnTotalDeposits        = "Total Deposits"
	ColumnLoans                = "Loans"
	ColumnNonPerformingAssets  = "Non performing assets"
	ColumnTier1Capital         = "Tier-1 Capital"
	ColumnTier2Capital         = "Tier-2 capital"
	ColumnRiskWeightedAssets   = "Risk weighted assets"

	ColumnCET1Ratio         = "CET1_ratio"
	ColumnTier1Ratio        = "Tier1_ratio"
	ColumnTotalCapitalRatio = "Total_capital_ratio"
	ColumnLeverageRatio     = "Leverage_ratio"
	ColumnSuppTier1Ratio    = "Supp_Tier1_ratio"

	ColumnCouponRate       = "Coupon Rate (%)"
	ColumnFlatPrice        = "Flat Price"
	ColumnYieldToMaturity  = "Yield to Maturity (YTC%)"
	ColumnModifiedDuration = "Modified Duration"
)

// RequiredColumns lists the financial columns every input file must carry in
// addition to the bank name column. The stress-test and bond summary columns
// are optional; absent values surface as missing, never as zero.
var RequiredColumns = []string{
	ColumnPAT,
	ColumnDepreciation,
	ColumnTotalLiabilities,
	ColumnCashAndEquivalents,
	ColumnTotalAssets,
	ColumnCurrentAssets,
	ColumnCurrentLiabilities,
	ColumnAccountsReceivables,
	ColumnMarketableSecurities,
	ColumnCoreDeposits,
	ColumnTotalDeposits,
	ColumnLoans,
	ColumnNonPerformingAssets,
	ColumnTier1Capital,
	ColumnTier2Capital,
	ColumnRiskWeightedAssets,
}

// FinancialRecord is one bank's row of line items. Records are immutable once
// loaded; numeric fields are reachable only through Value so a missing cell
// can never be mistaken for zero.
type FinancialRecord struct {
	bank   string
	fields map[string]float64
}

// NewRecord constructs a record from a bank name and its numeric fields.
// Intended for loaders and tests; the field map is copied.
func NewRecord(bank string, fields map[string]float64) FinancialRecord {
	copied := make(map[string]float64, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	return FinancialRecord{bank: bank, fields: copied}
}

// Bank returns the record's bank name key.
func (r FinancialRecord) Bank() string {
	return r.bank
}

// Value returns the named numeric field and whether it was present in the
// source file.
func (r FinancialRecord) Value(column string) (float64, bool) {
	v, ok := r.fields[column]
	return v, ok
}

// Columns returns the names of the fields present on this record, sorted.
func (r FinancialRecord) Columns() []string {
	cols := make([]string, 0, len(r.fields))
	for col := range r.fields {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}

// Dataset is the ordered, read-only collection of FinancialRecords loaded
// from one spreadsheet. Bank names are assumed unique; on duplicates the
// lookup index keeps the first occurrence while Records retains every row.
type Dataset struct {
	source  string
	columns []string
	records []FinancialRecord
	index   map[string]int
}

// Source identifies where the dataset was loaded from.
func (d *Dataset) Source() string {
	return d.source
}

// Len returns the number of bank rows.
func (d *Dataset) Len() int {
	return len(d.records)
}

// Columns returns the header columns in file order, bank column excluded.
func (d *Dataset) Columns() []string {
	return append([]string(nil), d.columns...)
}

// Banks returns the distinct bank names in file order.
func (d *Dataset) Banks() []string {
	names := make([]string, 0, len(d.records))
	seen := make(map[string]struct{}, len(d.records))
	for _, rec := range d.records {
		if _, dup := seen[rec.bank]; dup {
			continue
		}
		seen[rec.bank] = struct{}{}
		names = append(names, rec.bank)
	}
	return names
}

// SortedBanks returns the distinct bank names in lexicographic order, the
// ordering peer selection operates on.
func (d *Dataset) SortedBanks() []string {
	names := d.Banks()
	sort.Strings(names)
	return names
}

// Records returns the rows in file order.
func (d *Dataset) Records() []FinancialRecord {
	return append([]FinancialRecord(nil), d.records...)
}

// Lookup returns the record for the named bank.
func (d *Dataset) Lookup(bank string) (FinancialRecord, bool) {
	i, ok := d.index[bank]
	if !ok {
		return FinancialRecord{}, false
	}
	return d.records[i], true
}
