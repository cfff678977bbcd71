package sec

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/seenimoa/insiderscan/internal/provider"
)

// ---- DatasetIndex fetcher ----
// Scrapes the insider transaction data sets page for quarterly archive links.

type datasetIndexFetcher struct {
	provider.BaseFetcher
	p *Provider
}

func newDatasetIndexFetcher(p *Provider) *datasetIndexFetcher {
	return &datasetIndexFetcher{
		BaseFetcher: provider.NewBaseFetcherWithOpts(
			provider.ModelDatasetIndex,
			"Published quarterly Form 3/4/5 insider transaction archives",
			nil,
			nil,
			time.Hour, p.pacer,
		),
		p: p,
	}
}

func (f *datasetIndexFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	cacheKey := provider.CacheKey(f.ModelType(), params)
	if cached, ok := f.CacheGet(cacheKey); ok {
		return newCachedResult(cached), nil
	}
	if err := f.Pace(ctx); err != nil {
		return nil, err
	}

	data, err := f.p.get(ctx, f.p.datasetPageURL)
	if err != nil {
		return nil, wrapErr("dataset index", err)
	}
	archives, err := parseDatasetPage(data, f.p.datasetPageURL)
	if err != nil {
		return nil, wrapErr("dataset index", err)
	}
	if len(archives) == 0 {
		return nil, &provider.ErrNoData{Provider: providerName, Query: "dataset index"}
	}

	f.CacheSet(cacheKey, archives)
	return newResult(archives), nil
}

// parseDatasetPage extracts the *_form345.zip links, newest quarter first.
func parseDatasetPage(data []byte, pageURL string) ([]provider.DatasetArchive, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse dataset page: %w", err)
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse page url: %w", err)
	}

	seen := make(map[string]bool)
	var archives []provider.DatasetArchive
	doc.Find(`a[href$="_form345.zip"]`).Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref).String()
		name := path.Base(ref.Path)
		if seen[name] {
			return
		}
		seen[name] = true
		archives = append(archives, provider.DatasetArchive{Name: name, URL: abs})
	})

	// Names start with "YYYYqN", so descending name order is newest first.
	sort.SliceStable(archives, func(i, j int) bool { return archives[i].Name > archives[j].Name })
	return archives, nil
}

// ---- InsiderFeed fetcher ----
// Reads the EDGAR current-filings Atom feed restricted to Form 4.

type insiderFeedFetcher struct {
	provider.BaseFetcher
	p *Provider
}

func newInsiderFeedFetcher(p *Provider) *insiderFeedFetcher {
	return &insiderFeedFetcher{
		BaseFetcher: provider.NewBaseFetcherWithOpts(
			provider.ModelInsiderFeed,
			"Latest Form 4 filings from the EDGAR current feed",
			nil,
			[]string{provider.ParamLimit},
			time.Minute, p.pacer,
		),
		p: p,
	}
}

func (f *insiderFeedFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	cacheKey := provider.CacheKey(f.ModelType(), params)
	if cached, ok := f.CacheGet(cacheKey); ok {
		return newCachedResult(cached), nil
	}
	if err := f.Pace(ctx); err != nil {
		return nil, err
	}

	data, err := f.p.get(ctx, f.p.feedURL)
	if err != nil {
		return nil, wrapErr("insider feed", err)
	}
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(data))
	if err != nil {
		return nil, wrapErr("insider feed", fmt.Errorf("parse feed: %w", err))
	}

	limit := 0
	if lim := params[provider.ParamLimit]; lim != "" {
		if n, err := strconv.Atoi(lim); err == nil && n > 0 {
			limit = n
		}
	}

	entries := make([]provider.FeedEntry, 0, len(feed.Items))
	for _, item := range feed.Items {
		if limit > 0 && len(entries) >= limit {
			break
		}
		e := provider.FeedEntry{
			Title: strings.TrimSpace(item.Title),
			Link:  item.Link,
			Form:  formOf(item.Title),
		}
		switch {
		case item.UpdatedParsed != nil:
			e.Updated = *item.UpdatedParsed
		case item.PublishedParsed != nil:
			e.Updated = *item.PublishedParsed
		}
		entries = append(entries, e)
	}

	f.CacheSet(cacheKey, entries)
	return newResult(entries), nil
}

// formOf returns the form type that prefixes an EDGAR feed title,
// e.g. "4/A" for "4/A - Example Corp (0000123456) (Reporting)".
func formOf(title string) string {
	form, _, ok := strings.Cut(strings.TrimSpace(title), " - ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(form)
}
