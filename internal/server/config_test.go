package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bankstacx/bankstacx/pkg/constants"
)

func TestLoadConfigDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Address != constants.DefaultServerAddress {
		t.Errorf("Address = %s, expected %s", cfg.Address, constants.DefaultServerAddress)
	}
	if cfg.DataFile != constants.DefaultDataFile {
		t.Errorf("DataFile = %s, expected %s", cfg.DataFile, constants.DefaultDataFile)
	}
	if cfg.PeerCount != constants.DefaultPeerCount {
		t.Errorf("PeerCount = %d, expected %d", cfg.PeerCount, constants.DefaultPeerCount)
	}
	if cfg.UploadSizeBytes() != constants.DefaultMaxUploadSizeBytes {
		t.Errorf("UploadSizeBytes() = %d, expected %d", cfg.UploadSizeBytes(), constants.DefaultMaxUploadSizeBytes)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	content := `address: ":9090"
dataFile: "data/banks.xlsx"
peerCount: 2
maxUploadSize: "2M"
benchmarks:
  cet1-ratio: 0.07
logging:
  level: debug
`
	path := filepath.Join(t.TempDir(), "server-config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Address != ":9090" {
		t.Errorf("Address = %s, expected :9090", cfg.Address)
	}
	if cfg.DataFile != "data/banks.xlsx" {
		t.Errorf("DataFile = %s, expected data/banks.xlsx", cfg.DataFile)
	}
	if cfg.PeerCount != 2 {
		t.Errorf("PeerCount = %d, expected 2", cfg.PeerCount)
	}
	if cfg.UploadSizeBytes() != 2*1024*1024 {
		t.Errorf("UploadSizeBytes() = %d, expected 2M", cfg.UploadSizeBytes())
	}
	if cfg.Benchmarks["cet1-ratio"] != 0.07 {
		t.Errorf("benchmark override not loaded: %v", cfg.Benchmarks)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %s, expected debug", cfg.Logging.Level)
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
		wantErr  bool
	}{
		{"1024", 1024, false},
		{"1024B", 1024, false},
		{"256K", 256 * 1024, false},
		{"256KB", 256 * 1024, false},
		{"10M", 10 * 1024 * 1024, false},
		{"1G", 1024 * 1024 * 1024, false},
		{" 8 MB ", 8 * 1024 * 1024, false},
		{"", constants.DefaultMaxUploadSizeBytes, false},
		{"abc", 0, true},
		{"10T", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSize(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseSize(%q) expected error, got %d", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSize(%q) error = %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ParseSize(%q) = %d, expected %d", tt.input, got, tt.expected)
			}
		})
	}
}
