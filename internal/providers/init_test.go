package providers

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/seenimoa/insiderscan/internal/config"
	"github.com/seenimoa/insiderscan/internal/provider"
)

type countingUsage struct{ n int }

func (c *countingUsage) Increment() (int, error) {
	c.n++
	return c.n, nil
}

func keylessConfig() *config.Config {
	cfg := config.Default()
	cfg.FMP.APIKey = ""
	return cfg
}

func TestRegisterAllTo(t *testing.T) {
	cfg := keylessConfig()

	reg := provider.NewRegistry()
	sp, err := RegisterAllTo(reg, cfg, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("RegisterAllTo: %v", err)
	}
	if sp == nil || sp.Info().Name != "sec" {
		t.Fatal("expected the sec provider to be returned")
	}

	for _, name := range []string{"sec", "stooq", "yfinance"} {
		if !reg.Has(name) {
			t.Errorf("%s not registered", name)
		}
	}
	if reg.Has("fmp") {
		t.Error("fmp must not be registered without an API key")
	}
}

func TestRegisterAllToWithFMPKey(t *testing.T) {
	cfg := config.Default()
	cfg.FMP.APIKey = "demo-key"

	reg := provider.NewRegistry()
	if _, err := RegisterAllTo(reg, cfg, &countingUsage{}, zerolog.Nop()); err != nil {
		t.Fatalf("RegisterAllTo: %v", err)
	}
	if !reg.Has("fmp") {
		t.Fatal("fmp not registered")
	}

	want := []string{"yfinance", "fmp"}
	got := reg.ProvidersFor(provider.ModelMarketCap)
	if len(got) != len(want) {
		t.Fatalf("market cap providers = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("market cap providers = %v, want %v", got, want)
		}
	}
}

func TestRegisterAllToModelCoverage(t *testing.T) {
	reg := provider.NewRegistry()
	if _, err := RegisterAllTo(reg, keylessConfig(), nil, zerolog.Nop()); err != nil {
		t.Fatalf("RegisterAllTo: %v", err)
	}

	keyModels := []provider.ModelType{
		provider.ModelCompanySubmissions,
		provider.ModelCompanyFacts,
		provider.ModelDatasetIndex,
		provider.ModelInsiderFeed,
		provider.ModelLastPrice,
		provider.ModelMarketCap,
	}
	for _, m := range keyModels {
		if len(reg.ProvidersFor(m)) == 0 {
			t.Errorf("no providers for model %s", m)
		}
	}
}

func TestRegisterAllIdempotent(t *testing.T) {
	reg := provider.NewRegistry()
	for i := 0; i < 2; i++ {
		if _, err := RegisterAllTo(reg, keylessConfig(), nil, zerolog.Nop()); err != nil {
			t.Fatalf("RegisterAllTo #%d: %v", i+1, err)
		}
	}
	if n := len(reg.List()); n != 3 {
		t.Errorf("expected 3 providers, got %d", n)
	}
	if got := reg.ProvidersFor(provider.ModelLastPrice); len(got) != 2 {
		t.Errorf("expected stooq and yfinance for LastPrice, got %v", got)
	}
}
