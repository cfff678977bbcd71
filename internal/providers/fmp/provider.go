// Package fmp implements the Financial Modeling Prep (FMP) data provider.
// FMP serves market capitalization over a REST API with API key
// authentication.
//
// Free tier: 250 requests/day, so every attempt is counted.
// Docs: https://financialmodelingprep.com/developer/docs
package fmp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/seenimoa/insiderscan/internal/infra"
	"github.com/seenimoa/insiderscan/internal/provider"
)

const (
	providerName   = "fmp"
	defaultBaseURL = "https://financialmodelingprep.com/api/v3"
	credAPIKey     = "api_key"
	paramAPIKey    = "_fmp_api_key"
)

// UsageCounter records metered calls. quota.Counter implements it.
type UsageCounter interface {
	Increment() (int, error)
}

// Provider implements provider.Provider for FMP.
type Provider struct {
	provider.BaseProvider

	baseURL string
	client  *http.Client
	usage   UsageCounter
	logger  zerolog.Logger
}

// Option configures a Provider.
type Option func(*Provider)

// WithBaseURL overrides the API root.
func WithBaseURL(u string) Option {
	return func(p *Provider) { p.baseURL = strings.TrimRight(u, "/") }
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

// WithUsageCounter counts every request attempt against the daily quota.
func WithUsageCounter(u UsageCounter) Option {
	return func(p *Provider) { p.usage = u }
}

// WithLogger sets the provider logger.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Provider) { p.logger = l.With().Str("provider", providerName).Logger() }
}

// New creates a new FMP provider and registers all fetchers.
func New(opts ...Option) *Provider {
	p := &Provider{
		BaseProvider: provider.NewBaseProvider(
			providerName,
			"Financial Modeling Prep - market capitalization",
			"https://financialmodelingprep.com",
			[]provider.ProviderCredential{
				{
					Name:        credAPIKey,
					Description: "FMP API key from financialmodelingprep.com",
					Required:    true,
					EnvVar:      "FMP_API_KEY",
				},
			},
		),
		baseURL: defaultBaseURL,
		client:  infra.DefaultClient,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}

	p.RegisterFetcher(newMarketCapFetcher(p))
	return p
}

// APIKey returns the key stored by Init.
func (p *Provider) APIKey() string {
	return p.Credential(credAPIKey)
}

// Fetcher overrides BaseProvider.Fetcher to return a wrapper that
// injects the API key into query params before delegating.
func (p *Provider) Fetcher(model provider.ModelType) provider.Fetcher {
	inner := p.BaseProvider.Fetcher(model)
	if inner == nil {
		return nil
	}
	return &apiKeyInjector{inner: inner, p: p}
}

// apiKeyInjector wraps a Fetcher and injects the FMP API key.
type apiKeyInjector struct {
	inner provider.Fetcher
	p     *Provider
}

func (w *apiKeyInjector) ModelType() provider.ModelType { return w.inner.ModelType() }
func (w *apiKeyInjector) Description() string           { return w.inner.Description() }
func (w *apiKeyInjector) RequiredParams() []string      { return w.inner.RequiredParams() }
func (w *apiKeyInjector) OptionalParams() []string      { return w.inner.OptionalParams() }

func (w *apiKeyInjector) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	enriched := make(provider.QueryParams, len(params)+1)
	for k, v := range params {
		enriched[k] = v
	}
	enriched[paramAPIKey] = w.p.APIKey()
	return w.inner.Fetch(ctx, enriched)
}

// --- Shared helpers ---

// fmpURL builds a full FMP API URL with the API key appended.
func (p *Provider) fmpURL(path, apiKey string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return p.baseURL + path + sep + "apikey=" + apiKey
}

// fetchJSON counts the attempt, then performs the GET and decodes the response.
func (p *Provider) fetchJSON(ctx context.Context, path, apiKey string, dest any) error {
	if p.usage != nil {
		if n, err := p.usage.Increment(); err != nil {
			p.logger.Warn().Err(err).Msg("could not record API usage")
		} else {
			p.logger.Debug().Int("calls_today", n).Msg("API call counted")
		}
	}

	data, err := infra.ReadAll(ctx, p.client, p.fmpURL(path, apiKey), map[string]string{"Accept": "application/json"})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("parse FMP JSON: %w", err)
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
