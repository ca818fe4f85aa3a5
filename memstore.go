package memstore

import (
	"context"
	"fmt"

	"github.com/hupe1980/memstore/embedding"
	"github.com/hupe1980/memstore/internal/pool"
)

// Store is an ephemeral, process-local key-value store organized by
// hierarchical namespaces, with structured filtering and optional vector
// search over stored values.
//
// All state lives in memory for the lifetime of the Store and does not
// survive process restart.
//
// Store performs no internal locking. One batch runs to completion before
// its writes become visible; concurrent calls against the same Store must be
// serialized by the caller.
type Store struct {
	// data is the source of truth: joined namespace -> key -> item.
	data map[string]*nsBucket

	// vectors is derived from data: joined namespace -> key -> field path ->
	// embedding. Every entry corresponds to a live item.
	vectors map[string]map[string]map[string][]float32

	embedding  *embedding.Config
	fieldPaths []fieldPath

	// pool, when set, runs the query-embedding fan-out. Owned by the caller.
	pool *pool.WorkerPool

	logger *Logger
}

// nsBucket owns the items of one namespace. Buckets are created on first
// write and dropped when their last item is deleted, so the set of buckets
// is exactly the set of live namespaces.
type nsBucket struct {
	ns    Namespace
	items map[string]*Item
}

// fieldPath is a tokenized text-field specifier.
type fieldPath struct {
	name   string
	tokens []string
}

// New creates an empty Store.
//
// Without WithEmbedding, the store supports key-value access, structured
// filtering and namespace listing; search queries return an error.
func New(opts ...Option) *Store {
	o := options{
		logger: NoopLogger(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Store{
		data:      make(map[string]*nsBucket),
		vectors:   make(map[string]map[string]map[string][]float32),
		embedding: o.embedding,
		pool:      o.pool,
		logger:    o.logger,
	}

	if s.embedding != nil {
		fields := s.embedding.TextFields
		if len(fields) == 0 {
			fields = []string{embedding.RootPath}
		}
		for _, f := range fields {
			s.fieldPaths = append(s.fieldPaths, fieldPath{
				name:   f,
				tokens: embedding.TokenizePath(f),
			})
		}
	}

	return s
}

// Get fetches a single item. Returns nil when absent.
//
// The returned item's Value map is not deep-copied and aliases store state;
// callers must not mutate it.
func (s *Store) Get(ctx context.Context, ns Namespace, key string) (*Item, error) {
	results, err := s.Batch(ctx, []Op{GetOp{Namespace: ns, Key: key}})
	if err != nil {
		return nil, err
	}
	item, _ := results[0].(*Item)
	return item, nil
}

// Put upserts an item. Overwriting re-indexes the value and refreshes both
// timestamps.
func (s *Store) Put(ctx context.Context, ns Namespace, key string, value map[string]any, opts ...PutOption) error {
	op := PutOp{Namespace: ns, Key: key, Value: value}
	for _, opt := range opts {
		opt(&op)
	}
	_, err := s.Batch(ctx, []Op{op})
	return err
}

// Delete removes an item and all its vector-index entries. Deleting an
// absent item is a no-op.
func (s *Store) Delete(ctx context.Context, ns Namespace, key string) error {
	_, err := s.Batch(ctx, []Op{PutOp{Namespace: ns, Key: key, Value: nil}})
	return err
}

// Search finds items under the namespace prefix. With WithQuery, results are
// ranked by cosine similarity; otherwise they follow namespace/key order.
//
// The returned items' Value maps are not deep-copied and alias store state;
// callers must not mutate them.
func (s *Store) Search(ctx context.Context, prefix Namespace, opts ...SearchOption) ([]SearchItem, error) {
	op := SearchOp{NamespacePrefix: prefix}
	for _, opt := range opts {
		opt(&op)
	}
	results, err := s.Batch(ctx, []Op{op})
	if err != nil {
		return nil, err
	}
	items, _ := results[0].([]SearchItem)
	return items, nil
}

// ListNamespaces lists namespaces with live items, sorted lexicographically
// by segment sequence.
func (s *Store) ListNamespaces(ctx context.Context, opts ...ListOption) ([]Namespace, error) {
	op := ListNamespacesOp{}
	for _, opt := range opts {
		opt(&op)
	}
	results, err := s.Batch(ctx, []Op{op})
	if err != nil {
		return nil, err
	}
	namespaces, _ := results[0].([]Namespace)
	return namespaces, nil
}

// getItem returns a copy of the stored item, or nil.
func (s *Store) getItem(ns Namespace, key string) *Item {
	bucket, ok := s.data[ns.join()]
	if !ok {
		return nil
	}
	item, ok := bucket.items[key]
	if !ok {
		return nil
	}
	cp := *item
	return &cp
}

// ensureBucket returns the bucket for ns, creating it on first write.
func (s *Store) ensureBucket(ns Namespace) *nsBucket {
	nsKey := ns.join()
	bucket, ok := s.data[nsKey]
	if !ok {
		bucket = &nsBucket{
			ns:    ns,
			items: make(map[string]*Item),
		}
		s.data[nsKey] = bucket
	}
	return bucket
}

// validateNamespace enforces the data model: namespaces are non-empty and
// segments must not be empty or the wildcard.
func validateNamespace(ns Namespace) error {
	if len(ns) == 0 {
		return fmt.Errorf("%w: namespace must not be empty", ErrInvalidNamespace)
	}
	for _, seg := range ns {
		if seg == "" {
			return fmt.Errorf("%w: namespace segments must not be empty", ErrInvalidNamespace)
		}
		if seg == "*" {
			return fmt.Errorf("%w: namespace segments must not be %q", ErrInvalidNamespace, "*")
		}
	}
	return nil
}
