package embedding

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimited wraps an Embedder so that every gateway round-trip first
// acquires a token from limiter. Blocks (honoring ctx) until a token is
// available.
func RateLimited(e Embedder, limiter *rate.Limiter) Embedder {
	return &rateLimited{e: e, limiter: limiter}
}

type rateLimited struct {
	e       Embedder
	limiter *rate.Limiter
}

func (r *rateLimited) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.e.EmbedDocuments(ctx, texts)
}

func (r *rateLimited) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.e.EmbedQuery(ctx, text)
}
