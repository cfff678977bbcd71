// Package providers creates the concrete data providers from configuration
// and registers them with a provider registry.
package providers

import (
	"github.com/rs/zerolog"

	"github.com/seenimoa/insiderscan/internal/config"
	"github.com/seenimoa/insiderscan/internal/provider"
	"github.com/seenimoa/insiderscan/internal/providers/fmp"
	"github.com/seenimoa/insiderscan/internal/providers/sec"
	"github.com/seenimoa/insiderscan/internal/providers/stooq"
	"github.com/seenimoa/insiderscan/internal/providers/yfinance"
)

// RegisterAllTo registers sec, stooq and yfinance with reg, and fmp when an
// API key is configured. FMP calls are counted on usage, which may be nil.
// The SEC provider is returned for the dataset downloads that bypass the
// registry.
func RegisterAllTo(reg *provider.Registry, cfg *config.Config, usage fmp.UsageCounter, logger zerolog.Logger) (*sec.Provider, error) {
	// --- SEC EDGAR (free, User-Agent required) ---
	sp := sec.New(
		sec.WithUserAgent(cfg.UserAgent),
		sec.WithPacing(cfg.SECPacing()),
		sec.WithTimeout(cfg.SECTimeout()),
		sec.WithLogger(logger),
	)
	if err := register(reg, sp, nil); err != nil {
		return nil, err
	}

	// --- Stooq (free, no API key) ---
	st := stooq.New(
		stooq.WithSymbolSuffix(cfg.Fetch.StooqSymbolSuffix),
		stooq.WithTimeout(cfg.Timeout()),
		stooq.WithLogger(logger),
	)
	if err := register(reg, st, nil); err != nil {
		return nil, err
	}

	// --- YFinance (free, no API key) ---
	yf := yfinance.New(
		yfinance.WithPacing(cfg.YahooPacing()),
		yfinance.WithTimeout(cfg.Timeout()),
		yfinance.WithLogger(logger),
	)
	if err := register(reg, yf, nil); err != nil {
		return nil, err
	}

	// --- FMP (requires API key) ---
	if cfg.FMP.APIKey != "" {
		opts := []fmp.Option{fmp.WithTimeout(cfg.Timeout()), fmp.WithLogger(logger)}
		if usage != nil {
			opts = append(opts, fmp.WithUsageCounter(usage))
		}
		fp := fmp.New(opts...)
		if err := register(reg, fp, map[string]string{"api_key": cfg.FMP.APIKey}); err != nil {
			return nil, err
		}
	}

	return sp, nil
}

func register(reg *provider.Registry, p provider.Provider, credentials map[string]string) error {
	if err := p.Init(credentials); err != nil {
		return err
	}
	return reg.Register(p)
}
