package embedding

import (
	"context"
	"fmt"
)

type boundEmbedder struct {
	model       TextEmbeddingModel
	name        string
	credentials Credentials
}

// Bind fixes the model name and credentials of a TextEmbeddingModel so it can be
// used wherever an Embedder is expected. Every text is sent in its own request.
func Bind(model TextEmbeddingModel, name string, credentials Credentials) Embedder {
	return &boundEmbedder{
		model:       model,
		name:        name,
		credentials: credentials,
	}
}

// EmbedDocuments implements the Embedder interface
func (b *boundEmbedder) EmbedDocuments(ctx context.Context, documents []string) ([][]float64, error) {
	if len(documents) == 0 {
		return nil, ErrInvalidRequest("EmbedDocuments", "input documents cannot be empty")
	}

	vectors := make([][]float64, 0, len(documents))
	for i, doc := range documents {
		vector, err := b.embed(ctx, doc)
		if err != nil {
			return nil, fmt.Errorf("error embedding document %d: %w", i, err)
		}
		vectors = append(vectors, vector)
	}

	return vectors, nil
}

// EmbedQuery implements the Embedder interface
func (b *boundEmbedder) EmbedQuery(ctx context.Context, text string) ([]float64, error) {
	if text == "" {
		return nil, ErrInvalidRequest("EmbedQuery", "input text cannot be empty")
	}
	return b.embed(ctx, text)
}

func (b *boundEmbedder) embed(ctx context.Context, text string) ([]float64, error) {
	result, err := b.model.Invoke(ctx, b.name, b.credentials, []string{text}, "")
	if err != nil {
		return nil, err
	}
	if len(result.Embeddings) == 0 {
		return nil, ErrUnavailable("Embed", nil, "no embedding returned from server")
	}
	return result.Embeddings[0], nil
}
