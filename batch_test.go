package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/memstore/embedding"
	"github.com/hupe1980/memstore/internal/pool"
)

func TestBatchLastWriteWins(t *testing.T) {
	ctx := context.Background()
	store := New()
	ns := Namespace{"ns"}

	_, err := store.Batch(ctx, []Op{
		PutOp{Namespace: ns, Key: "k", Value: map[string]any{"v": 1}},
		PutOp{Namespace: ns, Key: "k", Value: map[string]any{"v": 2}},
	})
	require.NoError(t, err)

	item, err := store.Get(ctx, ns, "k")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, map[string]any{"v": 2}, item.Value)
}

func TestBatchLastWriteWinsDelete(t *testing.T) {
	ctx := context.Background()
	store := New()
	ns := Namespace{"ns"}

	_, err := store.Batch(ctx, []Op{
		PutOp{Namespace: ns, Key: "k", Value: map[string]any{"v": 1}},
		PutOp{Namespace: ns, Key: "k", Value: nil},
	})
	require.NoError(t, err)

	item, err := store.Get(ctx, ns, "k")
	require.NoError(t, err)
	assert.Nil(t, item)
}

// Reads always observe pre-batch state, regardless of their position
// relative to writes in the same batch. This is intentional, not a bug.
func TestBatchReadBeforeWriteIsolation(t *testing.T) {
	ctx := context.Background()
	store := New()
	ns := Namespace{"ns"}

	require.NoError(t, store.Put(ctx, ns, "k", map[string]any{"v": 1}))

	results, err := store.Batch(ctx, []Op{
		GetOp{Namespace: ns, Key: "k"},
		PutOp{Namespace: ns, Key: "k", Value: map[string]any{"v": 2}},
		GetOp{Namespace: ns, Key: "k"},
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	before, ok := results[0].(*Item)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"v": 1}, before.Value)

	after, ok := results[2].(*Item)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"v": 1}, after.Value, "a get after a put in the same batch still sees pre-batch state")

	item, err := store.Get(ctx, ns, "k")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"v": 2}, item.Value)
}

func TestBatchResultPositions(t *testing.T) {
	ctx := context.Background()
	store := New()
	ns := Namespace{"ns"}

	require.NoError(t, store.Put(ctx, ns, "k", map[string]any{"v": 1}))

	results, err := store.Batch(ctx, []Op{
		ListNamespacesOp{},
		PutOp{Namespace: ns, Key: "k2", Value: map[string]any{"v": 2}},
		GetOp{Namespace: ns, Key: "k"},
		SearchOp{NamespacePrefix: ns},
	})
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.IsType(t, []Namespace{}, results[0])
	assert.Nil(t, results[1])
	assert.IsType(t, &Item{}, results[2])
	assert.IsType(t, []SearchItem{}, results[3])
}

func TestBatchCoalescesDocumentTexts(t *testing.T) {
	ctx := context.Background()
	emb := newStubEmbedder(2, map[string][]float32{
		"shared": {1, 0},
	})
	store := newVectorStore(t, emb)
	ns := Namespace{"docs"}

	_, err := store.Batch(ctx, []Op{
		PutOp{Namespace: ns, Key: "a", Value: map[string]any{"text": "shared"}},
		PutOp{Namespace: ns, Key: "b", Value: map[string]any{"text": "shared"}},
	})
	require.NoError(t, err)

	require.Equal(t, 1, emb.docCalls)
	require.Len(t, emb.docTexts[0], 1, "identical fragments coalesce into one embedded text")

	// One embedded text fans out to both destinations.
	assert.NotEmpty(t, store.vectors[ns.join()]["a"])
	assert.NotEmpty(t, store.vectors[ns.join()]["b"])
}

func TestBatchEmbeddingCountMismatchAborts(t *testing.T) {
	ctx := context.Background()
	emb := newStubEmbedder(2, nil)
	store := newVectorStore(t, emb)
	ns := Namespace{"docs"}

	require.NoError(t, store.Put(ctx, ns, "keep", map[string]any{"text": "old"}))

	emb.forceCount = 5
	_, err := store.Batch(ctx, []Op{
		PutOp{Namespace: ns, Key: "new", Value: map[string]any{"text": "fresh"}},
	})

	var mismatch *ErrEmbeddingCountMismatch
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 1, mismatch.Expected)
	assert.Equal(t, 5, mismatch.Actual)

	// The batch aborted before any write: the store is exactly as before.
	item, err := store.Get(ctx, ns, "new")
	require.NoError(t, err)
	assert.Nil(t, item)
	item, err = store.Get(ctx, ns, "keep")
	require.NoError(t, err)
	require.NotNil(t, item)
}

func TestBatchEmbeddingFailureAborts(t *testing.T) {
	ctx := context.Background()
	emb := newStubEmbedder(2, nil)
	store := newVectorStore(t, emb)
	ns := Namespace{"docs"}

	emb.err = errors.New("gateway down")
	_, err := store.Batch(ctx, []Op{
		PutOp{Namespace: ns, Key: "d", Value: map[string]any{"text": "x"}},
	})
	require.Error(t, err)

	item, err := store.Get(ctx, ns, "d")
	require.NoError(t, err)
	assert.Nil(t, item)
}

func TestBatchContextCancellationAborts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	emb := newStubEmbedder(2, nil)
	emb.err = ctx.Err()
	store := newVectorStore(t, emb)
	ns := Namespace{"docs"}

	_, err := store.Batch(ctx, []Op{
		PutOp{Namespace: ns, Key: "d", Value: map[string]any{"text": "x"}},
	})
	require.Error(t, err)

	item, err := store.Get(context.Background(), ns, "d")
	require.NoError(t, err)
	assert.Nil(t, item, "cancellation aborts the batch before any write")
}

func TestPutWithIndexDisabled(t *testing.T) {
	ctx := context.Background()
	emb := newStubEmbedder(2, map[string][]float32{"hello": {1, 0}})
	store := newVectorStore(t, emb)
	ns := Namespace{"docs"}

	require.NoError(t, store.Put(ctx, ns, "d", map[string]any{"text": "hello"}, WithIndex(false)))

	item, err := store.Get(ctx, ns, "d")
	require.NoError(t, err)
	require.NotNil(t, item)

	assert.Zero(t, emb.docCalls)
	_, ok := store.vectors[ns.join()]
	assert.False(t, ok)
}

func TestBatchQueryWithoutEmbeddingConfig(t *testing.T) {
	ctx := context.Background()
	store := New()

	_, err := store.Search(ctx, Namespace{"docs"}, WithQuery("anything"))
	require.ErrorIs(t, err, ErrNoEmbeddingConfig)
}

func TestBatchEmbedsUniqueQueriesOnce(t *testing.T) {
	ctx := context.Background()
	emb := newStubEmbedder(2, map[string][]float32{"q": {1, 0}})
	store := newVectorStore(t, emb)
	ns := Namespace{"docs"}

	require.NoError(t, store.Put(ctx, ns, "d", map[string]any{"text": "q"}))

	_, err := store.Batch(ctx, []Op{
		SearchOp{NamespacePrefix: ns, Query: "q"},
		SearchOp{NamespacePrefix: ns, Query: "q"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, emb.queryCalls, "identical query texts embed once per batch")
}

func TestBatchQueryFanOutViaWorkerPool(t *testing.T) {
	ctx := context.Background()
	emb := newStubEmbedder(2, map[string][]float32{
		"alpha doc": {1, 0},
		"beta doc":  {0, 1},
		"alpha":     {1, 0},
		"beta":      {0, 1},
	})

	wp := pool.New(2)
	defer wp.Close()

	store := New(
		WithEmbedding(embedding.Config{Dims: emb.dims, Embedder: emb, TextFields: []string{"text"}}),
		WithWorkerPool(wp),
	)
	ns := Namespace{"docs"}

	require.NoError(t, store.Put(ctx, ns, "a", map[string]any{"text": "alpha doc"}))
	require.NoError(t, store.Put(ctx, ns, "b", map[string]any{"text": "beta doc"}))

	results, err := store.Batch(ctx, []Op{
		SearchOp{NamespacePrefix: ns, Query: "alpha"},
		SearchOp{NamespacePrefix: ns, Query: "beta"},
	})
	require.NoError(t, err)

	forAlpha := results[0].([]SearchItem)
	require.NotEmpty(t, forAlpha)
	assert.Equal(t, "a", forAlpha[0].Key)

	forBeta := results[1].([]SearchItem)
	require.NotEmpty(t, forBeta)
	assert.Equal(t, "b", forBeta[0].Key)

	assert.Equal(t, 2, emb.queryCalls)
}

func TestBatchWorkerPoolClosedAborts(t *testing.T) {
	ctx := context.Background()
	emb := newStubEmbedder(2, map[string][]float32{"doc": {1, 0}})

	wp := pool.New(1)
	store := New(
		WithEmbedding(embedding.Config{Dims: emb.dims, Embedder: emb}),
		WithWorkerPool(wp),
	)
	ns := Namespace{"docs"}

	require.NoError(t, store.Put(ctx, ns, "d", map[string]any{"text": "doc"}))

	wp.Close()

	_, err := store.Search(ctx, ns, WithQuery("doc"))
	require.ErrorIs(t, err, pool.ErrClosed)
}
