// Package yfinance implements the Yahoo Finance data provider.
// It wraps the public v8 chart and v10 quoteSummary endpoints into the
// provider/fetcher framework: last traded price and market capitalization.
//
// Yahoo Finance needs no API key but throttles aggressive clients, so every
// request is paced.
package yfinance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/seenimoa/insiderscan/internal/infra"
	"github.com/seenimoa/insiderscan/internal/provider"
)

const (
	providerName   = "yfinance"
	defaultBaseURL = "https://query1.finance.yahoo.com"
	defaultPacing  = 250 * time.Millisecond
)

// Provider implements provider.Provider for Yahoo Finance.
type Provider struct {
	provider.BaseProvider

	baseURL string
	client  *http.Client
	pacer   *infra.Pacer
	logger  zerolog.Logger
}

// Option configures a Provider.
type Option func(*Provider)

// WithBaseURL overrides the API host.
func WithBaseURL(u string) Option {
	return func(p *Provider) { p.baseURL = u }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) {
		if c != nil {
			p.client = c
		}
	}
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(p *Provider) {
		if d > 0 {
			p.client = &http.Client{Timeout: d}
		}
	}
}

// WithPacing sets the minimum gap between two requests. Zero disables pacing.
func WithPacing(d time.Duration) Option {
	return func(p *Provider) { p.pacer = infra.NewPacer(d) }
}

// WithLogger sets the provider logger.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Provider) { p.logger = l.With().Str("provider", providerName).Logger() }
}

// New creates a new YFinance provider and registers all fetchers.
func New(opts ...Option) *Provider {
	p := &Provider{
		BaseProvider: provider.NewBaseProvider(
			providerName,
			"Yahoo Finance - free global quotes",
			"https://finance.yahoo.com",
			nil, // no credentials required
		),
		baseURL: defaultBaseURL,
		client:  infra.DefaultClient,
		pacer:   infra.NewPacer(defaultPacing),
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}

	// --- Price ---
	p.RegisterFetcher(newLastPriceFetcher(p))
	p.RegisterFetcher(newMarketCapFetcher(p))

	return p
}

// --- Shared helpers ---

func jsonHeaders() map[string]string {
	return map[string]string{
		"Accept":     "application/json",
		"User-Agent": "Mozilla/5.0",
	}
}

// fetchJSON performs a GET request and decodes the response into dest.
func (p *Provider) fetchJSON(ctx context.Context, url string, dest any) error {
	data, err := infra.ReadAll(ctx, p.client, url, jsonHeaders())
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("parse JSON: %w", err)
	}
	return nil
}

func newResult(data any) *provider.FetchResult {
	r := provider.NewResult(data)
	r.Provider = providerName
	return r
}

func newCachedResult(data any) *provider.FetchResult {
	r := provider.NewCachedResult(data)
	r.Provider = providerName
	return r
}
