package memstore

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/memstore/embedding"
)

// maxQueryEmbedConcurrency bounds the per-batch fan-out of query embedding
// round-trips.
const maxQueryEmbedConcurrency = 8

// Batch executes a heterogeneous sequence of operations and returns one
// result per operation, at the same position.
//
// All reads (GetOp, SearchOp candidate gathering, ListNamespacesOp) observe
// store state as of the start of the batch; writes are applied only after
// every read and every embedding round-trip has completed. Multiple PutOps
// for the same (namespace, key) collapse to the last one submitted. On any
// error — including context cancellation during embedding — the batch aborts
// with no write applied, leaving the store in its pre-batch state.
func (s *Store) Batch(ctx context.Context, ops []Op) ([]Result, error) {
	results, puts, putOrder, searches, err := s.prepareOps(ops)
	if err != nil {
		s.logger.LogBatch(ctx, len(ops), err)
		return nil, err
	}

	queryVecs, err := s.embedQueries(ctx, searches)
	if err != nil {
		s.logger.LogBatch(ctx, len(ops), err)
		return nil, err
	}
	for _, pend := range searches {
		results[pend.idx] = s.finalizeSearch(ctx, pend, queryVecs)
	}

	newVecs, err := s.embedPutTexts(ctx, puts, putOrder)
	if err != nil {
		s.logger.LogBatch(ctx, len(ops), err)
		return nil, err
	}

	s.applyPuts(puts, putOrder, newVecs)

	s.logger.LogBatch(ctx, len(ops), nil)
	return results, nil
}

// prepareOps classifies the batch: gets and namespace listings resolve
// immediately, puts collapse last-write-wins into an insertion-ordered map,
// searches gather their candidate sets against pre-batch state.
func (s *Store) prepareOps(ops []Op) ([]Result, map[string]PutOp, []string, []*pendingSearch, error) {
	results := make([]Result, len(ops))
	puts := make(map[string]PutOp)
	var putOrder []string
	var searches []*pendingSearch

	for i, op := range ops {
		switch op := op.(type) {
		case GetOp:
			if err := validateNamespace(op.Namespace); err != nil {
				return nil, nil, nil, nil, err
			}
			results[i] = s.getItem(op.Namespace, op.Key)

		case PutOp:
			if err := validateNamespace(op.Namespace); err != nil {
				return nil, nil, nil, nil, err
			}
			k := op.Namespace.join() + nsSep + op.Key
			if _, ok := puts[k]; !ok {
				putOrder = append(putOrder, k)
			}
			puts[k] = op

		case SearchOp:
			pend, err := s.gatherCandidates(i, op)
			if err != nil {
				return nil, nil, nil, nil, err
			}
			searches = append(searches, pend)

		case ListNamespacesOp:
			namespaces, err := s.listNamespaces(op)
			if err != nil {
				return nil, nil, nil, nil, err
			}
			results[i] = namespaces

		default:
			// Op is a closed union; this is unreachable from outside the
			// package.
			return nil, nil, nil, nil, fmt.Errorf("unknown operation type: %T", op)
		}
	}

	return results, puts, putOrder, searches, nil
}

// embedQueries embeds the unique query strings of the batch in one bounded
// parallel fan-out, keyed by query text.
func (s *Store) embedQueries(ctx context.Context, searches []*pendingSearch) (map[string][]float32, error) {
	var queries []string
	seen := make(map[string]struct{})
	for _, pend := range searches {
		q := pend.op.Query
		if q == "" {
			continue
		}
		if _, ok := seen[q]; ok {
			continue
		}
		seen[q] = struct{}{}
		queries = append(queries, q)
	}
	if len(queries) == 0 {
		return nil, nil
	}
	if s.embedding == nil || s.embedding.Embedder == nil {
		return nil, ErrNoEmbeddingConfig
	}

	vecs := make([][]float32, len(queries))
	var err error
	if s.pool != nil {
		err = s.embedQueriesPooled(ctx, queries, vecs)
	} else {
		err = s.embedQueriesGrouped(ctx, queries, vecs)
	}
	s.logger.LogEmbedding(ctx, len(queries), err)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]float32, len(queries))
	for i, q := range queries {
		out[q] = vecs[i]
	}
	return out, nil
}

// embedQueriesGrouped fans out over per-batch goroutines.
func (s *Store) embedQueriesGrouped(ctx context.Context, queries []string, vecs [][]float32) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxQueryEmbedConcurrency)
	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			vec, err := s.embedding.Embedder.EmbedQuery(gctx, q)
			if err != nil {
				return fmt.Errorf("embed query: %w", err)
			}
			vecs[i] = vec
			return nil
		})
	}
	return g.Wait()
}

// embedQueriesPooled fans out through the caller-managed worker pool. All
// submitted tasks are waited for before returning, so vecs is stable once
// this returns.
func (s *Store) embedQueriesPooled(ctx context.Context, queries []string, vecs [][]float32) error {
	var wg sync.WaitGroup
	errs := make([]error, len(queries))

	for i, q := range queries {
		i, q := i, q
		wg.Add(1)
		task := func() {
			defer wg.Done()
			vec, err := s.embedding.Embedder.EmbedQuery(ctx, q)
			if err != nil {
				errs[i] = fmt.Errorf("embed query: %w", err)
				return
			}
			vecs[i] = vec
		}
		if err := s.pool.Submit(ctx, task); err != nil {
			wg.Done()
			wg.Wait()
			return fmt.Errorf("submit embed query: %w", err)
		}
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// vecEntry is a new vector-index entry produced for one pending put.
type vecEntry struct {
	path string
	vec  []float32
}

// embedPutTexts extracts indexable text from the pending puts, coalesces
// identical fragments across the batch, embeds the unique texts in one
// round-trip and fans the vectors back out to their (namespace, key, field
// path) destinations. The returned map is keyed like puts.
func (s *Store) embedPutTexts(ctx context.Context, puts map[string]PutOp, putOrder []string) (map[string][]vecEntry, error) {
	if len(puts) == 0 || s.embedding == nil || s.embedding.Embedder == nil {
		return nil, nil
	}

	type dest struct {
		putKey string
		path   string
	}
	var texts []string
	var dests [][]dest
	index := make(map[string]int)

	for _, k := range putOrder {
		op := puts[k]
		if op.Value == nil || (op.Index != nil && !*op.Index) {
			continue
		}
		for _, fp := range s.fieldPaths {
			fragments := embedding.TextsAtPath(op.Value, fp.tokens)
			for fi, text := range fragments {
				path := fp.name
				if len(fragments) > 1 {
					path = fp.name + "." + strconv.Itoa(fi)
				}
				ti, ok := index[text]
				if !ok {
					ti = len(texts)
					index[text] = ti
					texts = append(texts, text)
					dests = append(dests, nil)
				}
				dests[ti] = append(dests[ti], dest{putKey: k, path: path})
			}
		}
	}
	if len(texts) == 0 {
		return nil, nil
	}

	vecs, err := s.embedding.Embedder.EmbedDocuments(ctx, texts)
	s.logger.LogEmbedding(ctx, len(texts), err)
	if err != nil {
		return nil, fmt.Errorf("embed documents: %w", err)
	}
	if len(vecs) != len(texts) {
		return nil, &ErrEmbeddingCountMismatch{Expected: len(texts), Actual: len(vecs)}
	}

	out := make(map[string][]vecEntry)
	for ti, vec := range vecs {
		for _, d := range dests[ti] {
			out[d.putKey] = append(out[d.putKey], vecEntry{path: d.path, vec: vec})
		}
	}
	return out, nil
}

// applyPuts mutates the document store and vector index. Stale vector
// entries of every written key are purged before any new ones are inserted.
func (s *Store) applyPuts(puts map[string]PutOp, putOrder []string, newVecs map[string][]vecEntry) {
	for _, k := range putOrder {
		op := puts[k]
		nsKey := op.Namespace.join()

		if byKey, ok := s.vectors[nsKey]; ok {
			delete(byKey, op.Key)
			if len(byKey) == 0 {
				delete(s.vectors, nsKey)
			}
		}

		if op.Value == nil {
			if bucket, ok := s.data[nsKey]; ok {
				delete(bucket.items, op.Key)
				if len(bucket.items) == 0 {
					delete(s.data, nsKey)
				}
			}
			continue
		}

		now := time.Now().UTC()
		bucket := s.ensureBucket(op.Namespace)
		bucket.items[op.Key] = &Item{
			Namespace: op.Namespace,
			Key:       op.Key,
			Value:     op.Value,
			CreatedAt: now,
			UpdatedAt: now,
		}

		for _, entry := range newVecs[k] {
			byKey, ok := s.vectors[nsKey]
			if !ok {
				byKey = make(map[string]map[string][]float32)
				s.vectors[nsKey] = byKey
			}
			byPath, ok := byKey[op.Key]
			if !ok {
				byPath = make(map[string][]float32)
				byKey[op.Key] = byPath
			}
			byPath[entry.path] = entry.vec
		}
	}
}
