package fmp

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/seenimoa/insiderscan/internal/provider"
)

// fmpMarketCap is one element of the market-capitalization response.
type fmpMarketCap struct {
	Symbol    string   `json:"symbol"`
	Date      string   `json:"date"`
	MarketCap *float64 `json:"marketCap"`
}

// ---- MarketCap fetcher ----

type marketCapFetcher struct {
	provider.BaseFetcher
	p *Provider
}

func newMarketCapFetcher(p *Provider) *marketCapFetcher {
	return &marketCapFetcher{
		BaseFetcher: provider.NewBaseFetcherWithOpts(
			provider.ModelMarketCap,
			"Current market capitalization",
			[]string{provider.ParamSymbol},
			nil,
			time.Hour, nil,
		),
		p: p,
	}
}

func (f *marketCapFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	symbol := params[provider.ParamSymbol]
	apiKey := params[paramAPIKey]
	if apiKey == "" {
		return nil, &provider.ErrInvalidCredentials{Provider: providerName, Detail: "no API key"}
	}

	cacheKey := provider.CacheKey(f.ModelType(), params)
	if cached, ok := f.CacheGet(cacheKey); ok {
		return newCachedResult(cached), nil
	}

	var resp []fmpMarketCap
	path := "/market-capitalization/" + url.PathEscape(symbol)
	if err := f.p.fetchJSON(ctx, path, apiKey, &resp); err != nil {
		return nil, fmt.Errorf("fmp market cap %s: %w", symbol, err)
	}
	if len(resp) == 0 || resp[0].MarketCap == nil {
		return nil, &provider.ErrNoData{Provider: providerName, Query: symbol}
	}

	mc := *resp[0].MarketCap
	f.CacheSet(cacheKey, mc)
	return newResult(mc), nil
}
