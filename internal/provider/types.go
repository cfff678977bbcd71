package provider

import "time"

// DatasetArchive is one downloadable quarterly insider transaction archive.
type DatasetArchive struct {
	Name string `json:"name"` // e.g., "2024q3_form345.zip"
	URL  string `json:"url"`
}

// FeedEntry is one filing from the EDGAR current-filings feed.
type FeedEntry struct {
	Title   string    `json:"title"`
	Link    string    `json:"link"`
	Form    string    `json:"form,omitempty"`
	Updated time.Time `json:"updated"`
}
