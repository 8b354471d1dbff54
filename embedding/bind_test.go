package embedding

import (
	"context"
	"errors"
	"testing"
)

type fakeModel struct {
	calls  [][]string
	failAt int
}

func (f *fakeModel) Invoke(ctx context.Context, model string, credentials Credentials, texts []string, user string) (*Result, error) {
	f.calls = append(f.calls, texts)
	if f.failAt > 0 && len(f.calls) == f.failAt {
		return nil, ErrRateLimitExceeded("Invoke", "slow down")
	}
	return &Result{
		Model:      model,
		Embeddings: [][]float64{{float64(len(texts[0]))}},
	}, nil
}

func (f *fakeModel) GetNumTokens(ctx context.Context, model string, credentials Credentials, texts []string) (int, error) {
	return 0, nil
}

func (f *fakeModel) ValidateCredentials(ctx context.Context, model string, credentials Credentials) error {
	return nil
}

func TestBind_EmbedDocuments(t *testing.T) {
	model := &fakeModel{}
	embedder := Bind(model, "bert", Credentials{CredentialServerURL: "http://localhost:8080"})

	vectors, err := embedder.EmbedDocuments(context.Background(), []string{"a", "bb", "ccc"})
	if err != nil {
		t.Fatalf("EmbedDocuments() error = %v", err)
	}

	if len(model.calls) != 3 {
		t.Fatalf("EmbedDocuments() made %d calls, want 3", len(model.calls))
	}
	for i, v := range vectors {
		if v[0] != float64(i+1) {
			t.Errorf("vector %d = %v, want [%d]", i, v, i+1)
		}
	}
}

func TestBind_EmbedDocumentsError(t *testing.T) {
	model := &fakeModel{failAt: 2}
	embedder := Bind(model, "bert", nil)

	_, err := embedder.EmbedDocuments(context.Background(), []string{"a", "b", "c"})
	if !errors.Is(err, ErrRateLimit) {
		t.Fatalf("EmbedDocuments() error = %v, want rate limit", err)
	}
	if len(model.calls) != 2 {
		t.Errorf("EmbedDocuments() made %d calls, want 2", len(model.calls))
	}
}

func TestBind_EmptyInput(t *testing.T) {
	embedder := Bind(&fakeModel{}, "bert", nil)

	if _, err := embedder.EmbedDocuments(context.Background(), nil); !errors.Is(err, ErrBadRequest) {
		t.Errorf("EmbedDocuments(nil) error = %v, want bad request", err)
	}
	if _, err := embedder.EmbedQuery(context.Background(), ""); !errors.Is(err, ErrBadRequest) {
		t.Errorf("EmbedQuery(\"\") error = %v, want bad request", err)
	}
}

func TestBind_EmbedQuery(t *testing.T) {
	embedder := Bind(&fakeModel{}, "bert", nil)

	vector, err := embedder.EmbedQuery(context.Background(), "four")
	if err != nil {
		t.Fatalf("EmbedQuery() error = %v", err)
	}
	if len(vector) != 1 || vector[0] != 4 {
		t.Errorf("EmbedQuery() = %v, want [4]", vector)
	}
}
