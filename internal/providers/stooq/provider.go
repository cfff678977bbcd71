// Package stooq implements the Stooq data provider.
// Stooq publishes daily OHLC history as CSV without an API key; only the
// last close is used here.
package stooq

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/seenimoa/insiderscan/internal/infra"
	"github.com/seenimoa/insiderscan/internal/provider"
)

const (
	providerName  = "stooq"
	defaultURL    = "https://stooq.com/q/d/l/"
	defaultSuffix = ".us"
)

// Provider implements provider.Provider for Stooq.
type Provider struct {
	provider.BaseProvider

	baseURL string
	suffix  string
	client  *http.Client
	logger  zerolog.Logger
}

// Option configures a Provider.
type Option func(*Provider)

// WithBaseURL overrides the CSV download endpoint.
func WithBaseURL(u string) Option {
	return func(p *Provider) { p.baseURL = u }
}

// WithSymbolSuffix sets the market suffix appended to lower-cased symbols.
func WithSymbolSuffix(s string) Option {
	return func(p *Provider) { p.suffix = s }
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

// WithLogger sets the provider logger.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Provider) { p.logger = l.With().Str("provider", providerName).Logger() }
}

// New creates a new Stooq provider and registers its fetcher.
func New(opts ...Option) *Provider {
	p := &Provider{
		BaseProvider: provider.NewBaseProvider(
			providerName,
			"Stooq - free daily price history",
			"https://stooq.com",
			nil,
		),
		baseURL: defaultURL,
		suffix:  defaultSuffix,
		client:  infra.DefaultClient,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}

	p.RegisterFetcher(newLastPriceFetcher(p))
	return p
}

// Symbol maps a ticker to its Stooq form, e.g. "BRK-B" to "brk-b.us".
func (p *Provider) Symbol(ticker string) string {
	return strings.ToLower(strings.TrimSpace(ticker)) + p.suffix
}

// ---- LastPrice fetcher ----

type lastPriceFetcher struct {
	provider.BaseFetcher
	p *Provider
}

func newLastPriceFetcher(p *Provider) *lastPriceFetcher {
	return &lastPriceFetcher{
		BaseFetcher: provider.NewBaseFetcher(
			provider.ModelLastPrice,
			"Last daily close from Stooq CSV history",
			[]string{provider.ParamSymbol},
			nil,
		),
		p: p,
	}
}

func (f *lastPriceFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	cacheKey := provider.CacheKey(f.ModelType(), params)
	if cached, ok := f.CacheGet(cacheKey); ok {
		return newCachedResult(cached), nil
	}

	symbol := f.p.Symbol(params[provider.ParamSymbol])
	u := fmt.Sprintf("%s?s=%s&i=d", f.p.baseURL, url.QueryEscape(symbol))
	data, err := infra.ReadAll(ctx, f.p.client, u, nil)
	if err != nil {
		return nil, fmt.Errorf("stooq %s: %w", symbol, err)
	}

	price, ok := lastClose(string(data))
	if !ok {
		f.p.logger.Debug().Str("symbol", symbol).Msg("no close in CSV")
		return nil, &provider.ErrNoData{Provider: providerName, Query: symbol}
	}

	f.CacheSet(cacheKey, price)
	return newResult(price), nil
}

// lastClose returns the Close column of the final CSV row.
func lastClose(text string) (float64, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, false
	}
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil || len(rows) < 2 {
		return 0, false
	}

	col := -1
	for i, name := range rows[0] {
		if strings.EqualFold(strings.TrimSpace(name), "close") {
			col = i
			break
		}
	}
	last := rows[len(rows)-1]
	if col < 0 || col >= len(last) {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(last[col]), 64)
	if err != nil {
		return 0, false
	}
	return v, true
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
