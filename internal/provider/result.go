package provider

import "github.com/catalogus/catalogus-backend/internal/domain"

// NormalizedMedia is the provider-independent shape of a title's details.
type NormalizedMedia struct {
	Title      string
	MediaType  domain.MediaType
	Provider   domain.Provider
	ExternalID string
	Metadata   domain.Metadata
}

// SearchResult is one candidate returned by a provider or by the local catalog.
type SearchResult struct {
	Title      string
	MediaType  domain.MediaType
	Provider   domain.Provider
	ExternalID string
	Metadata   domain.Metadata
	Popularity float64

	// ItemID is set when the title already exists in the local catalog.
	ItemID *int64
}

// Key identifies a result across sources.
func (r SearchResult) Key() string {
	return string(r.Provider) + ":" + r.ExternalID
}
