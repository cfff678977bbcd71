package provider

// ModelType names a kind of data a fetcher returns.
type ModelType string

// --- SEC EDGAR ---
const (
	// ModelCompanySubmissions: raw submissions JSON document ([]byte), "{}" when unknown.
	ModelCompanySubmissions ModelType = "CompanySubmissions"
	// ModelCompanyFacts: raw XBRL company facts JSON document ([]byte), "{}" when unknown.
	ModelCompanyFacts ModelType = "CompanyFacts"
	// ModelDatasetIndex: published insider transaction archives ([]DatasetArchive).
	ModelDatasetIndex ModelType = "DatasetIndex"
	// ModelInsiderFeed: latest ownership filings from the EDGAR feed ([]FeedEntry).
	ModelInsiderFeed ModelType = "InsiderFeed"
)

// --- Prices ---
const (
	// ModelLastPrice: latest close or traded price in USD (float64).
	ModelLastPrice ModelType = "LastPrice"
	// ModelMarketCap: market capitalization in USD (float64).
	ModelMarketCap ModelType = "MarketCap"
)
