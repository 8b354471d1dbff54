package embedding

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// CredentialServerURL is the credentials key holding the embedding server base URL
const CredentialServerURL = "server_url"

// Credentials is the configuration bag identifying the embedding server
type Credentials map[string]string

// ServerURL returns the configured base URL, empty when absent
func (c Credentials) ServerURL() string {
	return c[CredentialServerURL]
}

// Usage is the accounting record for a single embedding call
type Usage struct {
	Tokens      int             `json:"tokens"`
	TotalTokens int             `json:"total_tokens"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	PriceUnit   decimal.Decimal `json:"price_unit"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	Currency    string          `json:"currency"`
	Latency     time.Duration   `json:"latency"`
}

// Result is the normalized response of an embedding call
type Result struct {
	Model      string      `json:"model"`
	Embeddings [][]float64 `json:"embeddings"`
	Usage      Usage       `json:"usage"`
}

// TextEmbeddingModel represents a provider-facing text embedding model
type TextEmbeddingModel interface {
	// Invoke embeds texts with the given model and credentials
	Invoke(ctx context.Context, model string, credentials Credentials, texts []string, user string) (*Result, error)

	// GetNumTokens counts the tokens of texts without calling the server
	GetNumTokens(ctx context.Context, model string, credentials Credentials, texts []string) (int, error)

	// ValidateCredentials checks that the credentials reach a working server
	ValidateCredentials(ctx context.Context, model string, credentials Credentials) error
}

// Embedder represents an interface for text embedding operations
type Embedder interface {
	// EmbedDocuments converts a slice of documents into vector embeddings
	EmbedDocuments(ctx context.Context, documents []string) ([][]float64, error)

	// EmbedQuery converts a single query text into a vector embedding
	EmbedQuery(ctx context.Context, text string) ([]float64, error)
}
