// Package constants provides shared constants for the bankstacx application.
package constants

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultDataFile is the default spreadsheet of bank line items
	DefaultDataFile = "line-items.xlsx"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Analysis defaults
const (
	// DefaultPeerCount is the number of neighbors taken on each side of the
	// selected bank when no peer count is supplied
	DefaultPeerCount = 3

	// RatioTolerance is the tolerance for ratio and average comparisons
	RatioTolerance = 1e-9

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for
	// spreadsheet files (8 MB)
	DefaultMaxUploadSizeBytes int64 = 8 * 1024 * 1024
)

// Regulatory benchmark defaults; overridden by the benchmarks table in the
// configuration file.
const (
	// BenchmarkCET1 is the minimum Common Equity Tier 1 capital ratio
	BenchmarkCET1 = 0.045

	// BenchmarkTier1Capital is the minimum Tier 1 capital ratio
	BenchmarkTier1Capital = 0.06

	// BenchmarkTotalCapital is the minimum total capital ratio
	BenchmarkTotalCapital = 0.08

	// BenchmarkLeverage is the minimum leverage ratio
	BenchmarkLeverage = 0.04

	// BenchmarkSupplementaryTier1 is the minimum supplementary leverage ratio
	BenchmarkSupplementaryTier1 = 0.03
)
