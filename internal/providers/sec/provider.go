// Package sec implements the SEC EDGAR data provider.
// It serves company submissions and XBRL facts from data.sec.gov, the index
// of quarterly insider transaction data sets, the current Form 4 feed, and
// downloads of the quarterly Form 3/4/5 archives.
//
// No API key required. Every request must carry a descriptive User-Agent.
// Docs: https://www.sec.gov/edgar/sec-api-documentation
package sec

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/seenimoa/insiderscan/internal/infra"
	"github.com/seenimoa/insiderscan/internal/provider"
)

const (
	providerName = "sec"

	defaultDataURL        = "https://data.sec.gov"
	defaultDatasetURL     = "https://www.sec.gov/files/structureddata/data/insider-transactions-data-sets"
	defaultDatasetPageURL = "https://www.sec.gov/data-research/sec-markets-data/insider-transactions-data-sets"
	defaultFeedURL        = "https://www.sec.gov/cgi-bin/browse-edgar?action=getcurrent&type=4&company=&dateb=&owner=include&start=0&count=100&output=atom"

	defaultUserAgent = "insiderscan/1.0 (contact: example@example.com)"
	defaultTimeout   = 60 * time.Second
	defaultPacing    = 120 * time.Millisecond
)

// Provider implements provider.Provider for SEC EDGAR.
type Provider struct {
	provider.BaseProvider

	userAgent      string
	dataURL        string
	datasetURL     string
	datasetPageURL string
	feedURL        string
	client         *http.Client
	downloadClient *http.Client
	pacer          *infra.Pacer
	logger         zerolog.Logger
}

// Option configures a Provider.
type Option func(*Provider)

// WithUserAgent sets the User-Agent sent with every request.
func WithUserAgent(ua string) Option {
	return func(p *Provider) {
		if ua != "" {
			p.userAgent = ua
		}
	}
}

// WithBaseURL overrides the data.sec.gov JSON API root.
func WithBaseURL(u string) Option {
	return func(p *Provider) { p.dataURL = u }
}

// WithDatasetURL overrides the directory holding the quarterly archives.
func WithDatasetURL(u string) Option {
	return func(p *Provider) { p.datasetURL = u }
}

// WithDatasetPageURL overrides the page listing the published archives.
func WithDatasetPageURL(u string) Option {
	return func(p *Provider) { p.datasetPageURL = u }
}

// WithFeedURL overrides the current-filings Atom feed.
func WithFeedURL(u string) Option {
	return func(p *Provider) { p.feedURL = u }
}

// WithHTTPClient replaces the client used for API and page requests.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) {
		if c != nil {
			p.client = c
		}
	}
}

// WithTimeout bounds each API request. Archive downloads only bound the
// wait for response headers since the body may take minutes.
func WithTimeout(d time.Duration) Option {
	return func(p *Provider) {
		if d <= 0 {
			return
		}
		p.client = &http.Client{Timeout: d}
		p.downloadClient = &http.Client{Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			ResponseHeaderTimeout: d,
		}}
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

// New creates a new SEC provider and registers all fetchers.
func New(opts ...Option) *Provider {
	p := &Provider{
		BaseProvider: provider.NewBaseProvider(
			providerName,
			"SEC EDGAR - company filings, XBRL facts and insider transaction data sets",
			"https://www.sec.gov/edgar",
			nil,
		),
		userAgent:      defaultUserAgent,
		dataURL:        defaultDataURL,
		datasetURL:     defaultDatasetURL,
		datasetPageURL: defaultDatasetPageURL,
		feedURL:        defaultFeedURL,
		pacer:          infra.NewPacer(defaultPacing),
		logger:         zerolog.Nop(),
	}
	WithTimeout(defaultTimeout)(p)
	for _, opt := range opts {
		opt(p)
	}

	// --- Company ---
	p.RegisterFetcher(newSubmissionsFetcher(p))
	p.RegisterFetcher(newCompanyFactsFetcher(p))

	// --- Data sets ---
	p.RegisterFetcher(newDatasetIndexFetcher(p))
	p.RegisterFetcher(newInsiderFeedFetcher(p))

	return p
}

// --- Shared helpers ---

func (p *Provider) headers() map[string]string {
	return map[string]string{
		"User-Agent":      p.userAgent,
		"Accept-Encoding": "gzip, deflate",
	}
}

// get performs one GET and returns the whole body. Callers pace themselves.
func (p *Provider) get(ctx context.Context, url string) ([]byte, error) {
	p.logger.Debug().Str("url", url).Msg("GET")
	return infra.ReadAll(ctx, p.client, url, p.headers())
}

// padCIK left-pads a CIK to the 10 digits EDGAR URLs expect.
func padCIK(cik string) string {
	for len(cik) < 10 {
		cik = "0" + cik
	}
	return cik
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

func wrapErr(op string, err error) error {
	return fmt.Errorf("sec %s: %w", op, err)
}
