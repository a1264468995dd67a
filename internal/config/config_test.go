package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "data/reports", cfg.Paths.ReportsDir)
	assert.Equal(t, "data/charts", cfg.Paths.ChartsDir)
	assert.Equal(t, 10, cfg.Analysis.TopN)
	assert.Equal(t, UnresolvedBucket, cfg.Analysis.Unresolved)
	assert.Equal(t, "Unknown", cfg.Analysis.UnresolvedLabel)
	assert.Equal(t, "USD", cfg.Analysis.CurrencyCode)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "invalid log level",
			modify:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: true,
		},
		{
			name:    "invalid unresolved policy",
			modify:  func(c *Config) { c.Analysis.Unresolved = "ignore" },
			wantErr: true,
		},
		{
			name:    "zero top n",
			modify:  func(c *Config) { c.Analysis.TopN = 0 },
			wantErr: true,
		},
		{
			name:    "bad currency code length",
			modify:  func(c *Config) { c.Analysis.CurrencyCode = "US" },
			wantErr: true,
		},
		{
			name:    "drop policy is valid",
			modify:  func(c *Config) { c.Analysis.Unresolved = UnresolvedDrop },
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_Validate_NormalizesFormat(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "text"

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestMergeConfigs(t *testing.T) {
	fileCfg := Config{}
	fileCfg.Logging.Level = "debug"
	fileCfg.Analysis.TopN = 5
	fileCfg.Analysis.UnresolvedLabel = "Unassigned"

	envCfg := Config{}
	envCfg.Logging.Level = "warn" // env wins

	merged := mergeConfigs(fileCfg, envCfg)

	assert.Equal(t, "warn", merged.Logging.Level)
	assert.Equal(t, 5, merged.Analysis.TopN)
	assert.Equal(t, "Unassigned", merged.Analysis.UnresolvedLabel)
}
