// Package memstore provides an ephemeral, process-local key-value store
// organized by hierarchical namespaces, with structured filtering and
// optional semantic (vector) search over stored values.
//
// It serves embedding-style lookup for short-lived application state where
// durability is not required. All data lives in memory and is lost when the
// process exits.
//
// # Quick Start
//
// Basic key-value storage:
//
//	ctx := context.Background()
//	store := memstore.New()
//
//	store.Put(ctx, memstore.Namespace{"users", "123"}, "prefs", map[string]any{"theme": "dark"})
//	item, _ := store.Get(ctx, memstore.Namespace{"users", "123"}, "prefs")
//
// Vector search with embeddings:
//
//	embedder, _ := openai.New(openai.Config{APIKey: apiKey})
//	store := memstore.New(memstore.WithEmbedding(embedding.Config{
//	    Dims:     1536,
//	    Embedder: embedder,
//	}))
//
//	store.Put(ctx, memstore.Namespace{"docs"}, "doc1", map[string]any{"text": "Go tutorial"})
//	store.Put(ctx, memstore.Namespace{"docs"}, "doc2", map[string]any{"text": "Rust guide"})
//
//	results, _ := store.Search(ctx, memstore.Namespace{"docs"},
//	    memstore.WithQuery("learning go"))
//
// Structured filtering:
//
//	results, _ := store.Search(ctx, memstore.Namespace{"users"},
//	    memstore.WithFilter(map[string]any{"age": map[string]any{"$gte": 18}}))
//
// # Batch Semantics
//
// Every operation goes through Batch, which executes a heterogeneous list of
// operations and returns one result per operation in input order. Within one
// batch, all reads observe store state as of the start of the batch — a Get
// does not see a Put submitted earlier in the same batch — and multiple
// writes to the same (namespace, key) collapse to the last one submitted.
// Embedding round-trips happen at most once each for query texts and for
// document texts per batch.
//
// # Concurrency
//
// Store performs no internal locking. One batch call runs to completion
// before its writes become visible in full; concurrent invocation against
// the same Store instance must be serialized by the caller. Only the
// embedding round-trip runs goroutines or blocks on the context.
package memstore
