// Package config handles configuration loading for insiderscan.
// It reads an optional TOML file, applies defaults for every key and lets
// environment variables override the result.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g. INSIDERSCAN_DATA_DIR.
const EnvPrefix = "INSIDERSCAN"

// Config represents the complete application configuration.
type Config struct {
	UserAgent string `mapstructure:"user_agent" toml:"user_agent"`
	DataDir   string `mapstructure:"data_dir"   toml:"data_dir"`
	OutputDir string `mapstructure:"output_dir" toml:"output_dir"`

	MinRequirements MinRequirements `mapstructure:"min_requirements" toml:"min_requirements"`
	Weights         Weights         `mapstructure:"weights"          toml:"weights"`
	Industry        IndustryConfig  `mapstructure:"industry"         toml:"industry"`
	Cannibal        CannibalConfig  `mapstructure:"cannibal"         toml:"cannibal"`
	Fetch           FetchConfig     `mapstructure:"fetch"            toml:"fetch"`
	Filters         FilterConfig    `mapstructure:"filters"          toml:"filters"`
	FMP             FMPConfig       `mapstructure:"fmp"              toml:"fmp"`
	Logging         LoggingConfig   `mapstructure:"logging"          toml:"logging"`
	Tracing         TracingConfig   `mapstructure:"tracing"          toml:"tracing"`
}

// MinRequirements holds the thresholds a trade must meet.
type MinRequirements struct {
	MinTradeValueUSD       float64 `mapstructure:"min_trade_value_usd"       toml:"min_trade_value_usd"`
	MinPositionIncreasePct float64 `mapstructure:"min_position_increase_pct" toml:"min_position_increase_pct"`
	MaxMarketCapUSD        float64 `mapstructure:"max_market_cap_usd"        toml:"max_market_cap_usd"`
	RequireMarketCap       bool    `mapstructure:"require_market_cap"        toml:"require_market_cap"`
}

// Weights scale the five score components.
type Weights struct {
	TradeValue       float64 `mapstructure:"trade_value"       toml:"trade_value"`
	PositionIncrease float64 `mapstructure:"position_increase" toml:"position_increase"`
	MarketCap        float64 `mapstructure:"market_cap"        toml:"market_cap"`
	Industry         float64 `mapstructure:"industry"          toml:"industry"`
	Cannibal         float64 `mapstructure:"cannibal"          toml:"cannibal"`
}

// IndustryConfig lists industry description keywords that earn a bonus.
type IndustryConfig struct {
	Keywords []string `mapstructure:"keywords" toml:"keywords"`
}

// CannibalConfig sets the share count reduction that earns a bonus.
type CannibalConfig struct {
	MinReductionPct float64 `mapstructure:"min_reduction_pct" toml:"min_reduction_pct"`
}

// FetchConfig holds network pacing and timeouts.
type FetchConfig struct {
	SECSleepSeconds   float64 `mapstructure:"sec_sleep_seconds"   toml:"sec_sleep_seconds"`
	YahooSleepSeconds float64 `mapstructure:"yahoo_sleep_seconds" toml:"yahoo_sleep_seconds"`
	StooqSymbolSuffix string  `mapstructure:"stooq_symbol_suffix" toml:"stooq_symbol_suffix"`
	YahooMaxSymbols   int     `mapstructure:"yahoo_max_symbols"   toml:"yahoo_max_symbols"`
	TimeoutSeconds    int     `mapstructure:"timeout_seconds"     toml:"timeout_seconds"`
	SECTimeoutSeconds int     `mapstructure:"sec_timeout_seconds" toml:"sec_timeout_seconds"`
}

// FilterConfig holds the early gate's transaction and title rules.
type FilterConfig struct {
	RequiredTransCode            string   `mapstructure:"required_trans_code"             toml:"required_trans_code"`
	RequiredAcqDispCode          string   `mapstructure:"required_acq_disp_code"          toml:"required_acq_disp_code"`
	ExcludeSecurityTitleKeywords []string `mapstructure:"exclude_security_title_keywords" toml:"exclude_security_title_keywords"`
}

// FMPConfig holds the Financial Modeling Prep credentials.
type FMPConfig struct {
	APIKey string `mapstructure:"api_key" toml:"api_key"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  toml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" toml:"format"` // "text" or "json"
}

// TracingConfig toggles span export to stdout.
type TracingConfig struct {
	Enabled bool `mapstructure:"enabled" toml:"enabled"`
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config.toml
//  2. ~/.insiderscan/config.toml
//
// The file is optional. Environment variables override file values.
// Format: INSIDERSCAN_<SECTION>_<KEY>, e.g., INSIDERSCAN_FETCH_SEC_SLEEP_SECONDS
func Load() (*Config, error) {
	v := newViper()
	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath(filepath.Join(homeDir(), ".insiderscan"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return decode(v)
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}
	return decode(v)
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg, err := decode(newViper())
	if err != nil {
		panic(err) // defaults are static
	}
	return cfg
}

func newViper() *viper.Viper {
	// A missing .env is normal.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	overrideFromEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults sets defaults for all config values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("user_agent", "InsiderTradingTracker your.email@example.com")
	v.SetDefault("data_dir", "data")
	v.SetDefault("output_dir", "outputs")

	v.SetDefault("min_requirements.min_trade_value_usd", 1_000_000.0)
	v.SetDefault("min_requirements.min_position_increase_pct", 10.0)
	v.SetDefault("min_requirements.max_market_cap_usd", 500_000_000.0)
	v.SetDefault("min_requirements.require_market_cap", false)

	v.SetDefault("weights.trade_value", 1.0)
	v.SetDefault("weights.position_increase", 1.0)
	v.SetDefault("weights.market_cap", 1.0)
	v.SetDefault("weights.industry", 0.5)
	v.SetDefault("weights.cannibal", 0.5)

	v.SetDefault("industry.keywords", []string{"biotech", "pharma", "therapeutics", "gold", "mining", "exploration"})
	v.SetDefault("cannibal.min_reduction_pct", 2.0)

	v.SetDefault("fetch.sec_sleep_seconds", 0.12)
	v.SetDefault("fetch.yahoo_sleep_seconds", 0.25)
	v.SetDefault("fetch.stooq_symbol_suffix", ".us")
	v.SetDefault("fetch.yahoo_max_symbols", 6)
	v.SetDefault("fetch.timeout_seconds", 30)
	v.SetDefault("fetch.sec_timeout_seconds", 60)

	v.SetDefault("filters.required_trans_code", "P")
	v.SetDefault("filters.required_acq_disp_code", "A")
	v.SetDefault("filters.exclude_security_title_keywords", []string{"option", "derivative", "restricted stock unit", "rsu"})

	v.SetDefault("fmp.api_key", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("tracing.enabled", false)
}

// overrideFromEnv reads the FMP key from its conventional variable.
func overrideFromEnv(cfg *Config) {
	if key := os.Getenv(fmpKeyEnv); key != "" {
		cfg.FMP.APIKey = key
	}
}

// Validate checks values the pipeline divides by or depends on.
func (c *Config) Validate() error {
	var errs []error
	if c.MinRequirements.MinTradeValueUSD <= 0 {
		errs = append(errs, errors.New("min_requirements.min_trade_value_usd must be > 0"))
	}
	if c.MinRequirements.MinPositionIncreasePct <= 0 {
		errs = append(errs, errors.New("min_requirements.min_position_increase_pct must be > 0"))
	}
	if c.MinRequirements.MaxMarketCapUSD < 0 {
		errs = append(errs, errors.New("min_requirements.max_market_cap_usd must be >= 0"))
	}
	if c.Fetch.SECSleepSeconds < 0 || c.Fetch.YahooSleepSeconds < 0 {
		errs = append(errs, errors.New("fetch sleep seconds must be >= 0"))
	}
	if c.Fetch.YahooMaxSymbols < 1 {
		errs = append(errs, errors.New("fetch.yahoo_max_symbols must be >= 1"))
	}
	if strings.TrimSpace(c.Filters.RequiredTransCode) == "" {
		errs = append(errs, errors.New("filters.required_trans_code must not be empty"))
	}
	if strings.TrimSpace(c.UserAgent) == "" {
		errs = append(errs, errors.New("user_agent must not be empty"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Timeout returns the per-request timeout for price sources.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}

// SECTimeout returns the per-request timeout for EDGAR.
func (c *Config) SECTimeout() time.Duration {
	return time.Duration(c.Fetch.SECTimeoutSeconds) * time.Second
}

// SECPacing returns the minimum gap between two EDGAR requests.
func (c *Config) SECPacing() time.Duration {
	return seconds(c.Fetch.SECSleepSeconds)
}

// YahooPacing returns the minimum gap between two Yahoo requests.
func (c *Config) YahooPacing() time.Duration {
	return seconds(c.Fetch.YahooSleepSeconds)
}

func seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}

// CacheDir is where company documents are cached.
func (c *Config) CacheDir() string {
	return filepath.Join(c.DataDir, "cache")
}

// UsagePath is the FMP daily usage file.
func (c *Config) UsagePath() string {
	return filepath.Join(c.DataDir, "fmp_usage.json")
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
