package embedding

import (
	"context"
	"fmt"
)

// RootPath is the field-path specifier that selects the entire stored value,
// JSON-stringified, as a single indexable fragment.
const RootPath = "__root__"

// Embedder converts text into fixed-length vectors. Implementations are
// expected to return one vector per input text, in input order.
type Embedder interface {
	// EmbedDocuments embeds a batch of document texts.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery embeds a single search query.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Config wires an Embedder into a store.
type Config struct {
	// Dims is the informational dimensionality of produced vectors.
	Dims int

	// Embedder performs the actual embedding round-trips.
	Embedder Embedder

	// TextFields is the ordered list of field-path specifiers extracted from
	// stored values for indexing. Defaults to [RootPath].
	TextFields []string
}

// Func adapts a batch embedding function to the Embedder interface.
// EmbedQuery delegates to the batch function with a single input.
type Func func(ctx context.Context, texts []string) ([][]float32, error)

// EmbedDocuments implements Embedder.
func (f Func) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	return f(ctx, texts)
}

// EmbedQuery implements Embedder.
func (f Func) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vecs, err := f(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("embedding: expected 1 vector, got %d", len(vecs))
	}
	return vecs[0], nil
}
