package insider

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/seenimoa/insiderscan/internal/provider"
)

// fakeFetcher answers from a per-symbol (or per-CIK) table and records calls.
type fakeFetcher struct {
	provider.BaseFetcher
	key     string
	answers map[string]any

	mu    sync.Mutex
	calls []string
}

func (f *fakeFetcher) Fetch(_ context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	k := params[f.key]
	f.mu.Lock()
	f.calls = append(f.calls, k)
	f.mu.Unlock()

	v, ok := f.answers[k]
	if !ok {
		return nil, &provider.ErrNoData{Provider: "fake", Query: k}
	}
	if err, isErr := v.(error); isErr {
		return nil, err
	}
	return provider.NewResult(v), nil
}

func (f *fakeFetcher) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type fakeProvider struct {
	provider.BaseProvider
	fetchers map[provider.ModelType]*fakeFetcher
}

func newFakeProvider(name string) *fakeProvider {
	return &fakeProvider{
		BaseProvider: provider.NewBaseProvider(name, "fake "+name, "", nil),
		fetchers:     make(map[provider.ModelType]*fakeFetcher),
	}
}

// serve registers a fetcher for model keyed by the given query parameter.
func (p *fakeProvider) serve(model provider.ModelType, key string, answers map[string]any) *fakeFetcher {
	f := &fakeFetcher{
		BaseFetcher: provider.NewBaseFetcher(model, "fake", []string{key}, nil),
		key:         key,
		answers:     answers,
	}
	p.fetchers[model] = f
	p.RegisterFetcher(f)
	return f
}

func register(t *testing.T, reg *provider.Registry, providers ...*fakeProvider) {
	t.Helper()
	for _, p := range providers {
		require.NoError(t, reg.Register(p))
	}
}
