package memstore

import (
	"github.com/hupe1980/memstore/embedding"
	"github.com/hupe1980/memstore/internal/pool"
)

type options struct {
	logger    *Logger
	embedding *embedding.Config
	pool      *pool.WorkerPool
}

// Option configures Store construction behavior.
type Option func(*options)

// WithLogger configures the logger used for operational logging.
//
// If nil is passed, a no-op logger is used.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithEmbedding enables vector search. cfg.Embedder performs the embedding
// round-trips; cfg.TextFields selects which parts of stored values are
// indexed (default: the whole value).
func WithEmbedding(cfg embedding.Config) Option {
	return func(o *options) {
		o.embedding = &cfg
	}
}

// WithWorkerPool routes the per-batch query-embedding fan-out through a
// caller-managed worker pool instead of per-batch goroutines, so several
// stores can share one bounded pool. The caller owns the pool's lifecycle;
// submitting to a closed pool fails the batch.
func WithWorkerPool(wp *pool.WorkerPool) Option {
	return func(o *options) {
		o.pool = wp
	}
}

// PutOption configures a single Put call.
type PutOption func(*PutOp)

// WithIndex controls whether the value is indexed for vector search.
// Pass false to store the value without indexing it.
func WithIndex(index bool) PutOption {
	return func(op *PutOp) {
		op.Index = &index
	}
}

// SearchOption configures a single Search call.
type SearchOption func(*SearchOp)

// WithFilter restricts results to values matching the structured filter.
func WithFilter(filt map[string]any) SearchOption {
	return func(op *SearchOp) {
		op.Filter = filt
	}
}

// WithQuery ranks results by vector similarity against the embedded query.
// Requires an embedding configuration on the store.
func WithQuery(query string) SearchOption {
	return func(op *SearchOp) {
		op.Query = query
	}
}

// WithLimit caps the number of search results (default 10).
func WithLimit(limit int) SearchOption {
	return func(op *SearchOp) {
		op.Limit = limit
	}
}

// WithOffset skips the first offset results.
func WithOffset(offset int) SearchOption {
	return func(op *SearchOp) {
		op.Offset = offset
	}
}

// ListOption configures a single ListNamespaces call.
type ListOption func(*ListNamespacesOp)

// WithMatchConditions restricts listed namespaces; all conditions must hold.
func WithMatchConditions(conds ...MatchCondition) ListOption {
	return func(op *ListNamespacesOp) {
		op.MatchConditions = conds
	}
}

// WithMaxDepth truncates listed namespaces to depth leading segments and
// deduplicates the result.
func WithMaxDepth(depth int) ListOption {
	return func(op *ListNamespacesOp) {
		op.MaxDepth = depth
	}
}

// WithListLimit caps the number of listed namespaces (default 100).
func WithListLimit(limit int) ListOption {
	return func(op *ListNamespacesOp) {
		op.Limit = limit
	}
}

// WithListOffset skips the first offset namespaces.
func WithListOffset(offset int) ListOption {
	return func(op *ListNamespacesOp) {
		op.Offset = offset
	}
}
