package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Load / Defaults ──

func TestDefaults(t *testing.T) {
	t.Setenv(fmpKeyEnv, "")
	cfg := Default()

	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "outputs", cfg.OutputDir)
	assert.Equal(t, 1_000_000.0, cfg.MinRequirements.MinTradeValueUSD)
	assert.Equal(t, 10.0, cfg.MinRequirements.MinPositionIncreasePct)
	assert.Equal(t, 500_000_000.0, cfg.MinRequirements.MaxMarketCapUSD)
	assert.False(t, cfg.MinRequirements.RequireMarketCap)

	assert.Equal(t, Weights{TradeValue: 1, PositionIncrease: 1, MarketCap: 1, Industry: 0.5, Cannibal: 0.5}, cfg.Weights)
	assert.Contains(t, cfg.Industry.Keywords, "biotech")
	assert.Equal(t, 2.0, cfg.Cannibal.MinReductionPct)

	assert.Equal(t, 0.12, cfg.Fetch.SECSleepSeconds)
	assert.Equal(t, 0.25, cfg.Fetch.YahooSleepSeconds)
	assert.Equal(t, ".us", cfg.Fetch.StooqSymbolSuffix)
	assert.Equal(t, 6, cfg.Fetch.YahooMaxSymbols)

	assert.Equal(t, "P", cfg.Filters.RequiredTransCode)
	assert.Equal(t, "A", cfg.Filters.RequiredAcqDispCode)
	assert.Equal(t, []string{"option", "derivative", "restricted stock unit", "rsu"}, cfg.Filters.ExcludeSecurityTitleKeywords)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, filepath.Join("data", "cache"), cfg.CacheDir())
	assert.Equal(t, filepath.Join("data", "fmp_usage.json"), cfg.UsagePath())

	assert.Equal(t, 120*time.Millisecond, cfg.SECPacing())
	assert.Equal(t, 250*time.Millisecond, cfg.YahooPacing())
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.Equal(t, time.Minute, cfg.SECTimeout())
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv(fmpKeyEnv, "")
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
user_agent = "Research Bot research@example.com"
data_dir = "/tmp/insider"

[min_requirements]
min_trade_value_usd = 250000
require_market_cap = true

[weights]
industry = 2.0

[industry]
keywords = ["uranium"]

[fetch]
sec_sleep_seconds = 0.5

[fmp]
api_key = "from-file-key"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "Research Bot research@example.com", cfg.UserAgent)
	assert.Equal(t, "/tmp/insider", cfg.DataDir)
	assert.Equal(t, "outputs", cfg.OutputDir, "unset keys keep defaults")
	assert.Equal(t, 250000.0, cfg.MinRequirements.MinTradeValueUSD)
	assert.Equal(t, 10.0, cfg.MinRequirements.MinPositionIncreasePct)
	assert.True(t, cfg.MinRequirements.RequireMarketCap)
	assert.Equal(t, 2.0, cfg.Weights.Industry)
	assert.Equal(t, 1.0, cfg.Weights.TradeValue)
	assert.Equal(t, []string{"uranium"}, cfg.Industry.Keywords)
	assert.Equal(t, 0.5, cfg.Fetch.SECSleepSeconds)
	assert.Equal(t, "from-file-key", cfg.FMP.APIKey)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(fmpKeyEnv, "env-key-123456")
	t.Setenv("INSIDERSCAN_DATA_DIR", "/var/lib/insider")

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[fmp]\napi_key = \"file-key\"\n"), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "env-key-123456", cfg.FMP.APIKey)
	assert.Equal(t, "/var/lib/insider", cfg.DataDir)
}

func TestValidate(t *testing.T) {
	t.Setenv(fmpKeyEnv, "")
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero trade value", func(c *Config) { c.MinRequirements.MinTradeValueUSD = 0 }},
		{"zero position increase", func(c *Config) { c.MinRequirements.MinPositionIncreasePct = 0 }},
		{"negative ceiling", func(c *Config) { c.MinRequirements.MaxMarketCapUSD = -1 }},
		{"negative sleep", func(c *Config) { c.Fetch.SECSleepSeconds = -0.1 }},
		{"no symbols", func(c *Config) { c.Fetch.YahooMaxSymbols = 0 }},
		{"empty trans code", func(c *Config) { c.Filters.RequiredTransCode = " " }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			require.NoError(t, cfg.Validate())
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

// ── Keys ──

func TestCheckAPIKeys(t *testing.T) {
	t.Setenv(fmpKeyEnv, "")
	t.Setenv("INSIDERSCAN_FMP_API_KEY", "")

	cfg := Default()
	status := CheckAPIKeys(cfg)
	require.Len(t, status, 1)
	assert.False(t, status[0].IsSet)
	assert.Equal(t, KeySourceNone, status[0].Source)

	cfg.FMP.APIKey = "abcdefghijkl"
	status = CheckAPIKeys(cfg)
	assert.True(t, status[0].IsSet)
	assert.Equal(t, KeySourceConfig, status[0].Source)
	assert.Equal(t, "abc...jkl", status[0].Masked)

	t.Setenv(fmpKeyEnv, "abcdefghijkl")
	assert.Equal(t, KeySourceEnv, CheckAPIKeys(cfg)[0].Source)
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "***", maskKey("short"))
	assert.Equal(t, "123...789", maskKey("123456789"))
}

// ── Write ──

func TestWriteFileRoundTrip(t *testing.T) {
	t.Setenv(fmpKeyEnv, "")
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	require.NoError(t, WriteFile(path, Default()))
	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	err = WriteFile(path, Default())
	assert.True(t, errors.Is(err, ErrExists))
}
