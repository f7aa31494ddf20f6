// Package output provides utilities for formatting and displaying analysis
// reports.
package output

import (
	"fmt"
	"strings"

	"github.com/bankstacx/bankstacx/internal/report"
	"github.com/bankstacx/bankstacx/internal/stress"
	"github.com/bankstacx/bankstacx/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat outputs a human-readable rather than machine-readable report.
func PrettyFormat(rep *report.Report) {
	p := message.NewPrinter(language.English)

	fmt.Printf("--- Analysis for bank %s ---\n", rep.Bank)
	fmt.Printf("Peer set: %s\n\n", strings.Join(rep.PeerBanks, ", "))

	fmt.Printf("Key metrics vs peer set average\n")
	fmt.Printf("Ratio                     | Bank      | Average   | Coverage\n")
	fmt.Printf("_________________________ | _________ | _________ | ________\n")
	for _, analysis := range rep.Ratios {
		bankValue := "n/a"
		if analysis.BankValue != nil {
			bankValue = format.Percent(*analysis.BankValue)
		}
		average := "n/a"
		if analysis.Average != nil {
			average = format.Percent(*analysis.Average)
		}
		coverage := "complete"
		if analysis.Partial {
			coverage = fmt.Sprintf("partial (%d of %d banks)",
				len(analysis.Values), len(analysis.PeerBanks))
		}
		fmt.Printf("%-25s | %9s | %9s | %s\n", analysis.Ratio, bankValue, average, coverage)
		for _, excluded := range analysis.Excluded {
			fmt.Printf("    excluded %s: %s\n", excluded.Bank, excluded.Reason)
		}
	}

	if rep.Stress != nil {
		fmt.Printf("\nCCAR stress metrics vs benchmark\n")
		fmt.Printf("Metric                    | Value     | Benchmark\n")
		fmt.Printf("_________________________ | _________ | _________\n")
		for _, metric := range stress.Metrics() {
			benchmark, ok := rep.Stress.Benchmarks[metric]
			if !ok {
				continue
			}
			value := "missing"
			if v, ok := rep.Stress.Metrics[metric]; ok && !v.Missing {
				value = format.Percent(v.Value)
			}
			fmt.Printf("%-25s | %9s | %9s\n", string(metric), value, format.Percent(benchmark))
		}
	}

	if rep.Summary != nil {
		fmt.Printf("\nSummary for %s\n", rep.Summary.Bank)
		printSummaryLine("Coupon rate", rep.Summary.CouponRate, "%.2f%%")
		if rep.Summary.FlatPrice != nil {
			fmt.Printf("  %-20s %s\n", "Flat price", format.Number(*rep.Summary.FlatPrice))
		} else {
			fmt.Printf("  %-20s missing\n", "Flat price")
		}
		printSummaryLine("Yield to maturity", rep.Summary.YieldToMaturity, "%.2f%%")
		printSummaryLine("Modified duration", rep.Summary.ModifiedDuration, "%.3f yr")
	}

	if rep.Financials != nil {
		fmt.Printf("\nKey financials\n")
		for _, row := range rep.Financials.Rows {
			fmt.Printf("%s:\n", row.Bank)
			for _, col := range rep.Financials.Columns {
				if v := row.Values[col]; v != nil {
					_, _ = p.Printf("  %-40s %.2f\n", col, *v)
				} else {
					fmt.Printf("  %-40s (missing)\n", col)
				}
			}
		}
	}
}

func printSummaryLine(label string, value *float64, layout string) {
	if value == nil {
		fmt.Printf("  %-20s missing\n", label)
		return
	}
	fmt.Printf("  %-20s "+layout+"\n", label, *value)
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(rep *report.Report) {
	fmt.Print(CsvString(rep))
}

// CsvString renders the per-bank ratio values as CSV: one row per bank with
// a column per catalog ratio, then an averages row. Undefined values are
// left empty rather than filled with a placeholder.
func CsvString(rep *report.Report) string {
	var b strings.Builder

	b.WriteString(`"bank"`)
	for _, analysis := range rep.Ratios {
		b.WriteString(fmt.Sprintf(`,"%s"`, analysis.Ratio))
	}
	b.WriteString("\n")

	for _, bank := range rep.PeerBanks {
		b.WriteString(fmt.Sprintf(`"%s"`, bank))
		for _, analysis := range rep.Ratios {
			if v, ok := analysis.Values[bank]; ok {
				b.WriteString(fmt.Sprintf(",%.9f", v))
			} else {
				b.WriteString(",")
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(`"average"`)
	for _, analysis := range rep.Ratios {
		if analysis.Average != nil {
			b.WriteString(fmt.Sprintf(",%.9f", *analysis.Average))
		} else {
			b.WriteString(",")
		}
	}
	b.WriteString("\n")

	return b.String()
}
