package yfinance

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/seenimoa/insiderscan/internal/provider"
)

// ---- LastPrice fetcher ----
// Reads the v8 chart for the last five daily sessions.

type lastPriceFetcher struct {
	provider.BaseFetcher
	p *Provider
}

func newLastPriceFetcher(p *Provider) *lastPriceFetcher {
	return &lastPriceFetcher{
		BaseFetcher: provider.NewBaseFetcherWithOpts(
			provider.ModelLastPrice,
			"Latest traded price from the Yahoo chart endpoint",
			[]string{provider.ParamSymbol},
			nil,
			5*time.Minute, p.pacer,
		),
		p: p,
	}
}

func (f *lastPriceFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	symbol := params[provider.ParamSymbol]
	cacheKey := provider.CacheKey(f.ModelType(), params)
	if cached, ok := f.CacheGet(cacheKey); ok {
		return newCachedResult(cached), nil
	}
	if err := f.Pace(ctx); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=5d", f.p.baseURL, url.PathEscape(symbol))
	var resp yfChartResponse
	if err := f.p.fetchJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("yfinance chart %s: %w", symbol, err)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, &provider.ErrNoData{Provider: providerName, Query: symbol}
	}
	price, ok := resp.Chart.Result[0].lastPrice()
	if !ok {
		return nil, &provider.ErrNoData{Provider: providerName, Query: symbol}
	}

	f.CacheSet(cacheKey, price)
	return newResult(price), nil
}

// ---- MarketCap fetcher ----
// Reads price.marketCap from the v10 quoteSummary endpoint.

type marketCapFetcher struct {
	provider.BaseFetcher
	p *Provider
}

func newMarketCapFetcher(p *Provider) *marketCapFetcher {
	return &marketCapFetcher{
		BaseFetcher: provider.NewBaseFetcherWithOpts(
			provider.ModelMarketCap,
			"Market capitalization from the Yahoo quoteSummary price module",
			[]string{provider.ParamSymbol},
			nil,
			5*time.Minute, p.pacer,
		),
		p: p,
	}
}

func (f *marketCapFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	symbol := params[provider.ParamSymbol]
	cacheKey := provider.CacheKey(f.ModelType(), params)
	if cached, ok := f.CacheGet(cacheKey); ok {
		return newCachedResult(cached), nil
	}
	if err := f.Pace(ctx); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=price", f.p.baseURL, url.PathEscape(symbol))
	var resp yfQuoteSummaryResponse
	if err := f.p.fetchJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("yfinance quoteSummary %s: %w", symbol, err)
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return nil, &provider.ErrNoData{Provider: providerName, Query: symbol}
	}
	price := resp.QuoteSummary.Result[0].Price
	if price == nil || price.MarketCap == nil || price.MarketCap.Raw == nil {
		return nil, &provider.ErrNoData{Provider: providerName, Query: symbol}
	}

	mc := *price.MarketCap.Raw
	f.CacheSet(cacheKey, mc)
	return newResult(mc), nil
}
