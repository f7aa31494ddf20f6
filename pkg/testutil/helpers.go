// Package testutil provides common utility functions for testing.
package testutil

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/bankstacx/bankstacx/internal/dataset"
)

// Rows maps bank name to column values. Columns left out of a bank's map
// load as missing, mirroring blank spreadsheet cells.
type Rows map[string]map[string]float64

// NewDataset builds a Dataset from test rows by writing a CSV in the
// expected input shape and running it through the real loader. Banks appear
// in sorted name order.
func NewDataset(t *testing.T, rows Rows) *dataset.Dataset {
	t.Helper()

	banks := make([]string, 0, len(rows))
	for bank := range rows {
		banks = append(banks, bank)
	}
	sort.Strings(banks)

	// Header: bank column, every required column, then any extras the rows
	// mention (stress metrics, bond fields).
	columns := append([]string(nil), dataset.RequiredColumns...)
	known := make(map[string]struct{}, len(columns))
	for _, col := range columns {
		known[col] = struct{}{}
	}
	var extras []string
	for _, fields := range rows {
		for col := range fields {
			if _, ok := known[col]; !ok {
				known[col] = struct{}{}
				extras = append(extras, col)
			}
		}
	}
	sort.Strings(extras)
	columns = append(columns, extras...)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := append([]string{dataset.ColumnBank}, columns...)
	if err := w.Write(header); err != nil {
		t.Fatalf("failed to write test CSV header: %v", err)
	}

	for _, bank := range banks {
		record := make([]string, 0, len(header))
		record = append(record, bank)
		for _, col := range columns {
			if v, ok := rows[bank][col]; ok {
				record = append(record, fmt.Sprintf("%v", v))
			} else {
				record = append(record, "")
			}
		}
		if err := w.Write(record); err != nil {
			t.Fatalf("failed to write test CSV row for %s: %v", bank, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		t.Fatalf("failed to flush test CSV: %v", err)
	}

	d, err := dataset.LoadReader(strings.NewReader(buf.String()), "test.csv")
	if err != nil {
		t.Fatalf("failed to load test dataset: %v", err)
	}
	return d
}

// FullFields returns a complete, internally consistent set of required
// line-item values to use as a base record in tests.
func FullFields() map[string]float64 {
	return map[string]float64{
		dataset.ColumnPAT:                  120,
		dataset.ColumnDepreciation:         40,
		dataset.ColumnTotalLiabilities:     900,
		dataset.ColumnCashAndEquivalents:   150,
		dataset.ColumnTotalAssets:          1000,
		dataset.ColumnCurrentAssets:        400,
		dataset.ColumnCurrentLiabilities:   300,
		dataset.ColumnAccountsReceivables:  80,
		dataset.ColumnMarketableSecurities: 60,
		dataset.ColumnCoreDeposits:         500,
		dataset.ColumnTotalDeposits:        700,
		dataset.ColumnLoans:                600,
		dataset.ColumnNonPerformingAssets:  30,
		dataset.ColumnTier1Capital:         90,
		dataset.ColumnTier2Capital:         30,
		dataset.ColumnRiskWeightedAssets:   800,
	}
}

// FieldsWith copies FullFields and applies the overrides.
func FieldsWith(overrides map[string]float64) map[string]float64 {
	fields := FullFields()
	for col, v := range overrides {
		fields[col] = v
	}
	return fields
}

// FieldsWithout copies FullFields and removes the named columns, producing
// missing cells.
func FieldsWithout(cols ...string) map[string]float64 {
	fields := FullFields()
	for _, col := range cols {
		delete(fields, col)
	}
	return fields
}
