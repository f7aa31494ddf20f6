package dataset

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

const testHeader = "Bank,PAT,Depreciation,Total Liabilities (excluding equity)," +
	"Cash & cash equivalents,Total Assets,Current Assets,Current Liabilities," +
	"Accounts Receivables,Marketable Securities,Core Deposits,Total Deposits," +
	"Loans,Non performing assets,Tier-1 Capital,Tier-2 capital,Risk weighted assets"

const testRows = testHeader + "\n" +
	"Alpha Bank,120,40,900,150,1000,400,300,80,60,500,700,600,30,90,30,800\n" +
	"Beta Bank,80,20,700,100,800,300,250,50,40,400,600,500,25,70,20,650\n"

func TestLoadReaderCSV(t *testing.T) {
	d, err := LoadReader(strings.NewReader(testRows), "line-items.csv")
	if err != nil {
		t.Fatalf("LoadReader() error = %v", err)
	}

	if d.Len() != 2 {
		t.Errorf("Len() = %d, expected 2", d.Len())
	}

	banks := d.Banks()
	if len(banks) != 2 || banks[0] != "Alpha Bank" || banks[1] != "Beta Bank" {
		t.Errorf("Banks() = %v, expected [Alpha Bank, Beta Bank]", banks)
	}

	rec, ok := d.Lookup("Alpha Bank")
	if !ok {
		t.Fatal("Lookup(Alpha Bank) not found")
	}
	if v, ok := rec.Value(ColumnTotalAssets); !ok || v != 1000 {
		t.Errorf("Total Assets = %v (present=%v), expected 1000", v, ok)
	}
	if v, ok := rec.Value(ColumnCoreDeposits); !ok || v != 500 {
		t.Errorf("Core Deposits = %v (present=%v), expected 500", v, ok)
	}
}

func TestLoadReaderBlankCellIsMissing(t *testing.T) {
	// Tier-2 capital left blank for Beta Bank.
	data := testHeader + "\n" +
		"Alpha Bank,120,40,900,150,1000,400,300,80,60,500,700,600,30,90,30,800\n" +
		"Beta Bank,80,20,700,100,800,300,250,50,40,400,600,500,25,70,,650\n"

	d, err := LoadReader(strings.NewReader(data), "line-items.csv")
	if err != nil {
		t.Fatalf("LoadReader() error = %v", err)
	}

	rec, _ := d.Lookup("Beta Bank")
	if v, ok := rec.Value(ColumnTier2Capital); ok {
		t.Errorf("blank cell parsed as %v, expected missing", v)
	}
}

func TestLoadReaderThousandsSeparators(t *testing.T) {
	data := testHeader + "\n" +
		`"Alpha Bank","1,200",40,900,150,"10,000",400,300,80,60,500,700,600,30,90,30,800` + "\n"

	d, err := LoadReader(strings.NewReader(data), "line-items.csv")
	if err != nil {
		t.Fatalf("LoadReader() error = %v", err)
	}

	rec, _ := d.Lookup("Alpha Bank")
	if v, ok := rec.Value(ColumnTotalAssets); !ok || v != 10000 {
		t.Errorf("Total Assets = %v (present=%v), expected 10000", v, ok)
	}
}

func TestLoadReaderCompanyAlias(t *testing.T) {
	data := strings.Replace(testRows, "Bank,", "Company,", 1)

	d, err := LoadReader(strings.NewReader(data), "line-items.csv")
	if err != nil {
		t.Fatalf("LoadReader() error = %v", err)
	}
	if _, ok := d.Lookup("Alpha Bank"); !ok {
		t.Error("Lookup(Alpha Bank) not found with Company header alias")
	}
}

func TestLoadReaderMissingRequiredColumns(t *testing.T) {
	data := "Bank,PAT\nAlpha Bank,120\n"

	_, err := LoadReader(strings.NewReader(data), "line-items.csv")
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *LoadError, got %v", err)
	}
	if !strings.Contains(loadErr.Reason, "missing required columns") {
		t.Errorf("unexpected reason: %s", loadErr.Reason)
	}
	if !strings.Contains(loadErr.Reason, ColumnTotalDeposits) {
		t.Errorf("reason should name the missing column, got: %s", loadErr.Reason)
	}
}

func TestLoadReaderMissingBankColumn(t *testing.T) {
	data := strings.Replace(testRows, "Bank,", "Institution,", 1)

	_, err := LoadReader(strings.NewReader(data), "line-items.csv")
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *LoadError, got %v", err)
	}
}

func TestLoadReaderUnsupportedFormat(t *testing.T) {
	_, err := LoadReader(strings.NewReader(testRows), "line-items.txt")
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *LoadError, got %v", err)
	}
}

func TestLoadReaderEmptyFile(t *testing.T) {
	_, err := LoadReader(strings.NewReader(""), "line-items.csv")
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *LoadError, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.csv"))
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *LoadError, got %v", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected wrapped fs.ErrNotExist, got %v", err)
	}
}

func TestLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "line-items.csv")
	if err := os.WriteFile(path, []byte(testRows), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	first, err := Load(path)
	if err != nil {
		t.Fatalf("first Load() error = %v", err)
	}
	second, err := Load(path)
	if err != nil {
		t.Fatalf("second Load() error = %v", err)
	}

	firstBanks := first.Banks()
	secondBanks := second.Banks()
	if len(firstBanks) != len(secondBanks) {
		t.Fatalf("bank counts differ: %d vs %d", len(firstBanks), len(secondBanks))
	}
	for i, bank := range firstBanks {
		if secondBanks[i] != bank {
			t.Errorf("bank order differs at %d: %s vs %s", i, bank, secondBanks[i])
		}
		firstRec, _ := first.Lookup(bank)
		secondRec, _ := second.Lookup(bank)
		for _, col := range firstRec.Columns() {
			v1, ok1 := firstRec.Value(col)
			v2, ok2 := secondRec.Value(col)
			if ok1 != ok2 || v1 != v2 {
				t.Errorf("value for %s/%s differs between loads: %v/%v vs %v/%v",
					bank, col, v1, ok1, v2, ok2)
			}
		}
	}
}

func TestLoadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "line-items.xlsx")

	book := excelize.NewFile()
	sheet := book.GetSheetName(0)

	header := strings.Split(testHeader, ",")
	for i, col := range header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			t.Fatalf("failed to build cell name: %v", err)
		}
		if err := book.SetCellValue(sheet, cell, col); err != nil {
			t.Fatalf("failed to set header cell: %v", err)
		}
	}

	row := []interface{}{"Alpha Bank", 120, 40, 900, 150, 1000, 400, 300, 80, 60, 500, 700, 600, 30, 90, 30, 800}
	for i, value := range row {
		cell, err := excelize.CoordinatesToCellName(i+1, 2)
		if err != nil {
			t.Fatalf("failed to build cell name: %v", err)
		}
		if err := book.SetCellValue(sheet, cell, value); err != nil {
			t.Fatalf("failed to set data cell: %v", err)
		}
	}

	if err := book.SaveAs(path); err != nil {
		t.Fatalf("failed to save workbook: %v", err)
	}
	if err := book.Close(); err != nil {
		t.Fatalf("failed to close workbook: %v", err)
	}

	d, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if d.Len() != 1 {
		t.Fatalf("Len() = %d, expected 1", d.Len())
	}
	rec, ok := d.Lookup("Alpha Bank")
	if !ok {
		t.Fatal("Lookup(Alpha Bank) not found")
	}
	if v, ok := rec.Value(ColumnRiskWeightedAssets); !ok || v != 800 {
		t.Errorf("Risk weighted assets = %v (present=%v), expected 800", v, ok)
	}
}

func TestBanksDeduplicates(t *testing.T) {
	data := testRows + "Alpha Bank,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1\n"

	d, err := LoadReader(strings.NewReader(data), "line-items.csv")
	if err != nil {
		t.Fatalf("LoadReader() error = %v", err)
	}

	if got := len(d.Banks()); got != 2 {
		t.Errorf("Banks() returned %d names, expected 2 distinct", got)
	}

	// Lookup keeps the first occurrence.
	rec, _ := d.Lookup("Alpha Bank")
	if v, _ := rec.Value(ColumnPAT); v != 120 {
		t.Errorf("Lookup returned later duplicate, PAT = %v, expected 120", v)
	}
}
