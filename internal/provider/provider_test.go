package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/seenimoa/insiderscan/internal/infra"
)

// mockFetcher implements the Fetcher interface for testing.
type mockFetcher struct {
	BaseFetcher
	calls   int
	fetchFn func(ctx context.Context, params QueryParams) (*FetchResult, error)
}

func newMockFetcher(model ModelType, required []string) *mockFetcher {
	return &mockFetcher{
		BaseFetcher: NewBaseFetcher(model, "mock fetcher for "+string(model), required, nil),
	}
}

func (m *mockFetcher) Fetch(ctx context.Context, params QueryParams) (*FetchResult, error) {
	m.calls++
	if m.fetchFn != nil {
		return m.fetchFn(ctx, params)
	}
	return &FetchResult{Data: "mock-data"}, nil
}

// mockProvider implements the Provider interface for testing.
type mockProvider struct {
	BaseProvider
}

func newMockProvider(name string, models ...ModelType) *mockProvider {
	mp := &mockProvider{
		BaseProvider: NewBaseProvider(name, "Mock "+name, "https://example.com", nil),
	}
	for _, m := range models {
		mp.RegisterFetcher(newMockFetcher(m, []string{ParamSymbol}))
	}
	return mp
}

func TestRegistryRegisterAndGet(t *testing.T) {
	reg := NewRegistry()
	p := newMockProvider("test-provider", ModelLastPrice, ModelMarketCap)
	if err := p.Init(nil); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := reg.Register(p); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	got, err := reg.Get("test-provider")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Info().Name != "test-provider" {
		t.Errorf("wrong provider returned: %s", got.Info().Name)
	}
	if len(got.Info().Models) != 2 {
		t.Errorf("expected 2 models in info, got %d", len(got.Info().Models))
	}
	if !reg.Has("test-provider") || reg.Has("nope") {
		t.Error("Has reported wrong membership")
	}

	var notFound *ErrProviderNotFound
	if _, err := reg.Get("nope"); !errors.As(err, &notFound) {
		t.Errorf("expected ErrProviderNotFound, got %v", err)
	}
}

func TestRegistryRejectsEmptyName(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(newMockProvider("")); err == nil {
		t.Error("expected error for empty provider name")
	}
}

func TestRegistryProvidersForOrder(t *testing.T) {
	reg := NewRegistry()
	reg.Register(newMockProvider("yfinance", ModelMarketCap, ModelLastPrice))
	reg.Register(newMockProvider("fmp", ModelMarketCap))
	reg.Register(newMockProvider("yfinance", ModelMarketCap, ModelLastPrice)) // re-register keeps order

	got := reg.ProvidersFor(ModelMarketCap)
	if len(got) != 2 || got[0] != "yfinance" || got[1] != "fmp" {
		t.Errorf("ProvidersFor(MarketCap) = %v, want [yfinance fmp]", got)
	}
	if len(reg.ProvidersFor(ModelCompanyFacts)) != 0 {
		t.Error("expected no providers for CompanyFacts")
	}

	infos := reg.List()
	if len(infos) != 2 || infos[0].Name != "fmp" {
		t.Errorf("List not sorted by name: %+v", infos)
	}
}

func TestRegistryFetch(t *testing.T) {
	reg := NewRegistry()
	reg.Register(newMockProvider("a", ModelLastPrice))
	reg.Register(newMockProvider("b", ModelLastPrice))

	res, err := reg.Fetch(context.Background(), ModelLastPrice, QueryParams{ParamSymbol: "ABC"})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if res.Provider != "a" || res.Model != ModelLastPrice {
		t.Errorf("result metadata = %s/%s", res.Provider, res.Model)
	}
	if res.FetchedAt.IsZero() {
		t.Error("FetchedAt should be filled in")
	}

	res, err = reg.FetchFrom(context.Background(), "b", ModelLastPrice, QueryParams{ParamSymbol: "ABC"})
	if err != nil {
		t.Fatalf("FetchFrom: %v", err)
	}
	if res.Provider != "b" {
		t.Errorf("FetchFrom provider = %s, want b", res.Provider)
	}
}

func TestRegistryFetchErrors(t *testing.T) {
	reg := NewRegistry()
	p := newMockProvider("a", ModelLastPrice)
	reg.Register(p)
	ctx := context.Background()

	var missing *ErrMissingParam
	if _, err := reg.Fetch(ctx, ModelLastPrice, QueryParams{}); !errors.As(err, &missing) {
		t.Errorf("expected ErrMissingParam, got %v", err)
	}

	var unsupported *ErrModelNotSupported
	if _, err := reg.FetchFrom(ctx, "a", ModelMarketCap, QueryParams{ParamSymbol: "X"}); !errors.As(err, &unsupported) {
		t.Errorf("expected ErrModelNotSupported, got %v", err)
	}

	var notFound *ErrProviderNotFound
	if _, err := reg.Fetch(ctx, ModelCompanyFacts, QueryParams{ParamCIK: "1"}); !errors.As(err, &notFound) {
		t.Errorf("expected ErrProviderNotFound, got %v", err)
	}

	noData := &ErrNoData{Provider: "a", Query: "X"}
	p.Fetcher(ModelLastPrice).(*mockFetcher).fetchFn = func(context.Context, QueryParams) (*FetchResult, error) {
		return nil, noData
	}
	_, err := reg.Fetch(ctx, ModelLastPrice, QueryParams{ParamSymbol: "X"})
	var gotNoData *ErrNoData
	if !errors.As(err, &gotNoData) {
		t.Errorf("expected wrapped ErrNoData, got %v", err)
	}
}

func TestBaseProviderCredentials(t *testing.T) {
	bp := NewBaseProvider("fmp", "FMP", "https://example.com", []ProviderCredential{
		{Name: "api_key", Required: true, EnvVar: "FMP_API_KEY"},
	})
	var invalid *ErrInvalidCredentials
	if err := bp.Init(map[string]string{}); !errors.As(err, &invalid) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if err := bp.Init(map[string]string{"api_key": "k"}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if bp.Credential("api_key") != "k" {
		t.Errorf("Credential = %q", bp.Credential("api_key"))
	}
}

func TestCacheKeyDeterministic(t *testing.T) {
	a := CacheKey(ModelLastPrice, QueryParams{"symbol": "ABC", "limit": "5", ParamProvider: "x", "_secret": "k"})
	b := CacheKey(ModelLastPrice, QueryParams{"limit": "5", "symbol": "ABC"})
	if a != b {
		t.Errorf("cache keys differ: %q vs %q", a, b)
	}
	if a != "LastPrice:limit=5:symbol=ABC" {
		t.Errorf("unexpected key %q", a)
	}
}

func TestBaseFetcherCacheAndPace(t *testing.T) {
	bf := NewBaseFetcherWithOpts(ModelMarketCap, "d", nil, nil, time.Minute, infra.NewPacer(0))
	if _, ok := bf.CacheGet("k"); ok {
		t.Error("expected empty cache")
	}
	bf.CacheSet("k", 42.0)
	if v, ok := bf.CacheGet("k"); !ok || v.(float64) != 42.0 {
		t.Errorf("CacheGet = %v, %v", v, ok)
	}
	if err := bf.Pace(context.Background()); err != nil {
		t.Errorf("Pace: %v", err)
	}
}
