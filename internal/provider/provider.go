// Package provider implements the data provider abstraction layer. It
// defines a Provider interface, a Fetcher interface, and a registry that
// routes data requests to a named provider by model type.
package provider

import (
	"context"
	"fmt"
	"time"
)

// ProviderCredential describes a credential a provider needs.
type ProviderCredential struct {
	Name        string `json:"name"`        // e.g., "api_key"
	Description string `json:"description"` // e.g., "FMP API key from financialmodelingprep.com"
	Required    bool   `json:"required"`
	EnvVar      string `json:"env_var"` // e.g., "FMP_API_KEY"
}

// ProviderInfo holds metadata about a registered provider.
type ProviderInfo struct {
	Name        string               `json:"name"` // e.g., "sec", "yfinance"
	Description string               `json:"description"`
	Website     string               `json:"website"`
	Credentials []ProviderCredential `json:"credentials"`
	Models      []ModelType          `json:"models"`
}

// Provider is the interface all data providers implement. Each provider
// registers one Fetcher per model type it can serve.
type Provider interface {
	// Info returns metadata about this provider.
	Info() ProviderInfo

	// Init configures the provider with credentials. Returns an error if
	// required credentials are missing.
	Init(credentials map[string]string) error

	// Fetcher returns the fetcher for the given model type, or nil if unsupported.
	Fetcher(model ModelType) Fetcher

	// SupportedModels returns all model types this provider can fetch.
	SupportedModels() []ModelType
}

// QueryParams is the generic parameter map passed to fetchers.
type QueryParams map[string]string

// Common query parameter keys.
const (
	ParamSymbol   = "symbol"
	ParamCIK      = "cik"
	ParamLimit    = "limit"
	ParamProvider = "provider"
)

// FetchResult wraps a fetcher result with metadata.
type FetchResult struct {
	Provider  string    `json:"provider"`
	Model     ModelType `json:"model"`
	Data      any       `json:"data"` // typed per model, see ModelType
	FetchedAt time.Time `json:"fetched_at"`
	Cached    bool      `json:"cached"`
}

// NewResult wraps freshly fetched data.
func NewResult(data any) *FetchResult {
	return &FetchResult{Data: data, FetchedAt: time.Now()}
}

// NewCachedResult wraps data served from a fetcher cache.
func NewCachedResult(data any) *FetchResult {
	return &FetchResult{Data: data, FetchedAt: time.Now(), Cached: true}
}

// Fetcher fetches one model type.
type Fetcher interface {
	ModelType() ModelType
	Description() string
	RequiredParams() []string
	OptionalParams() []string

	// Fetch retrieves data for the given parameters. The Data type depends
	// on the model; see the ModelType constants.
	Fetch(ctx context.Context, params QueryParams) (*FetchResult, error)
}

// ErrProviderNotFound is returned when a requested provider is not registered.
type ErrProviderNotFound struct {
	Name string
}

func (e *ErrProviderNotFound) Error() string {
	return fmt.Sprintf("provider %q not found", e.Name)
}

// ErrModelNotSupported is returned when a provider doesn't support a model type.
type ErrModelNotSupported struct {
	Provider string
	Model    ModelType
}

func (e *ErrModelNotSupported) Error() string {
	return fmt.Sprintf("provider %q does not support model %q", e.Provider, e.Model)
}

// ErrMissingParam is returned when a required query parameter is missing.
type ErrMissingParam struct {
	Param string
}

func (e *ErrMissingParam) Error() string {
	return fmt.Sprintf("missing required parameter %q", e.Param)
}

// ErrInvalidCredentials is returned when provider credentials are invalid.
type ErrInvalidCredentials struct {
	Provider string
	Detail   string
}

func (e *ErrInvalidCredentials) Error() string {
	return fmt.Sprintf("invalid credentials for provider %q: %s", e.Provider, e.Detail)
}

// ErrNoData is returned when a source answered but had nothing usable for the query.
type ErrNoData struct {
	Provider string
	Query    string
}

func (e *ErrNoData) Error() string {
	return fmt.Sprintf("%s: no data for %s", e.Provider, e.Query)
}

// ValidateParams checks that all required parameters are present in params.
func ValidateParams(params QueryParams, required []string) error {
	for _, key := range required {
		if v, ok := params[key]; !ok || v == "" {
			return &ErrMissingParam{Param: key}
		}
	}
	return nil
}
