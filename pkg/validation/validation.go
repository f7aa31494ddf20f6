// Package validation provides common validation utilities.
package validation

import (
	"fmt"

	"github.com/bankstacx/bankstacx/internal/ratios"
	"github.com/bankstacx/bankstacx/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	if format != constants.OutputFormatPretty && format != constants.OutputFormatCSV {
		return fmt.Errorf("expected output format of %s or %s, got %s",
			constants.OutputFormatPretty, constants.OutputFormatCSV, format)
	}
	return nil
}

// ValidateRatioName checks that name is part of the fixed ratio catalog.
func ValidateRatioName(name string) error {
	if _, ok := ratios.Lookup(name); !ok {
		return &ratios.UnknownRatioError{Name: name}
	}
	return nil
}

// ValidatePeerCount checks the peer count bounds against the dataset size
// before selection runs, so CLI usage errors read as input problems rather
// than engine failures.
func ValidatePeerCount(n, totalBanks int) error {
	if n < 1 {
		return fmt.Errorf("peer count must be at least 1, got %d", n)
	}
	if n >= totalBanks {
		return fmt.Errorf("peer count %d must be less than the number of banks (%d)", n, totalBanks)
	}
	return nil
}
