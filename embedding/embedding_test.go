package embedding

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFunc(t *testing.T) {
	ctx := context.Background()
	var got []string
	emb := Func(func(_ context.Context, texts []string) ([][]float32, error) {
		got = texts
		out := make([][]float32, len(texts))
		for i := range texts {
			out[i] = []float32{float32(i), 1}
		}
		return out, nil
	})

	vecs, err := emb.EmbedDocuments(ctx, []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, vecs, 2)
	assert.Equal(t, []string{"a", "b"}, got)

	vec, err := emb.EmbedQuery(ctx, "q")
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1}, vec)
	assert.Equal(t, []string{"q"}, got)
}

func TestFuncError(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	emb := Func(func(context.Context, []string) ([][]float32, error) {
		return nil, boom
	})

	_, err := emb.EmbedDocuments(ctx, []string{"a"})
	require.ErrorIs(t, err, boom)

	_, err = emb.EmbedQuery(ctx, "q")
	require.ErrorIs(t, err, boom)
}

func TestFuncQueryCountMismatch(t *testing.T) {
	ctx := context.Background()
	emb := Func(func(context.Context, []string) ([][]float32, error) {
		return [][]float32{{1}, {2}}, nil
	})

	_, err := emb.EmbedQuery(ctx, "q")
	require.Error(t, err)
}
