package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// LoadError signals that the input file is absent, unreadable, or does not
// have the expected shape. It is fatal to the session; callers do not retry.
type LoadError struct {
	Source string
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to load %s: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("failed to load %s: %s", e.Source, e.Reason)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load reads the spreadsheet at path into a Dataset. The format is chosen by
// extension: .xlsx (first sheet only) or .csv. The file is read once and the
// result is read-only; reloading is the caller's lifecycle decision.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &LoadError{Source: path, Reason: "file does not exist", Err: err}
		}
		return nil, &LoadError{Source: path, Reason: "file is not readable", Err: err}
	}
	defer func() {
		_ = f.Close()
	}()

	return LoadReader(f, path)
}

// LoadReader reads a spreadsheet from r. The name is used for format
// detection by extension and for error reporting; it is typically the file
// path or an uploaded file's name.
func LoadReader(r io.Reader, name string) (*Dataset, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx":
		return loadXLSX(r, name)
	case ".csv":
		return loadCSV(r, name)
	default:
		return nil, &LoadError{Source: name, Reason: "unsupported file format, expected .xlsx or .csv"}
	}
}

func loadXLSX(r io.Reader, name string) (*Dataset, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &LoadError{Source: name, Reason: "file is not a valid xlsx workbook", Err: err}
	}
	defer func() {
		_ = book.Close()
	}()

	// Only the first sheet is read.
	sheet := book.GetSheetName(0)
	if sheet == "" {
		return nil, &LoadError{Source: name, Reason: "workbook has no sheets"}
	}

	rows, err := book.GetRows(sheet)
	if err != nil {
		return nil, &LoadError{Source: name, Reason: fmt.Sprintf("failed to read sheet %q", sheet), Err: err}
	}

	return buildDataset(rows, name)
}

func loadCSV(r io.Reader, name string) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, &LoadError{Source: name, Reason: "file is not valid CSV", Err: err}
	}
	return buildDataset(rows, name)
}

func buildDataset(rows [][]string, name string) (*Dataset, error) {
	if len(rows) == 0 {
		return nil, &LoadError{Source: name, Reason: "file is empty"}
	}

	header := rows[0]
	colIndex := make(map[string]int, len(header))
	for i, col := range header {
		trimmed := strings.TrimSpace(col)
		if trimmed == "" {
			continue
		}
		if _, dup := colIndex[trimmed]; !dup {
			colIndex[trimmed] = i
		}
	}

	bankCol, ok := colIndex[ColumnBank]
	if !ok {
		// Some revisions of the sheet label the key column Company.
		bankCol, ok = colIndex[ColumnCompany]
	}
	if !ok {
		return nil, &LoadError{Source: name, Reason: fmt.Sprintf("missing bank name column %q or %q", ColumnBank, ColumnCompany)}
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, present := colIndex[col]; !present {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &LoadError{Source: name, Reason: fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", "))}
	}

	columns := make([]string, 0, len(header))
	for _, col := range header {
		trimmed := strings.TrimSpace(col)
		if trimmed == "" || trimmed == ColumnBank || trimmed == ColumnCompany {
			continue
		}
		columns = append(columns, trimmed)
	}

	d := &Dataset{
		source:  name,
		columns: columns,
		index:   make(map[string]int),
	}

	for _, row := range rows[1:] {
		if bankCol >= len(row) {
			continue
		}
		bank := strings.TrimSpace(row[bankCol])
		if bank == "" {
			continue
		}

		fields := make(map[string]float64, len(columns))
		for _, col := range columns {
			i := colIndex[col]
			if i >= len(row) {
				continue
			}
			// Blank or non-numeric cells stay absent; substituting zero
			// would silently corrupt downstream averages.
			if v, numOK := parseCell(row[i]); numOK {
				fields[col] = v
			}
		}

		d.records = append(d.records, FinancialRecord{bank: bank, fields: fields})
		if _, dup := d.index[bank]; !dup {
			d.index[bank] = len(d.records) - 1
		}
	}

	if len(d.records) == 0 {
		return nil, &LoadError{Source: name, Reason: "file contains no bank rows"}
	}

	return d, nil
}

// parseCell converts one spreadsheet cell to a float. Thousands separators
// and surrounding whitespace are tolerated since exported sheets often carry
// display formatting.
func parseCell(cell string) (float64, bool) {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return 0, false
	}
	trimmed = strings.ReplaceAll(trimmed, ",", "")
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
