package memstore

import (
	"context"
	"slices"
	"sort"

	"github.com/hupe1980/memstore/distance"
	"github.com/hupe1980/memstore/filter"
)

// pendingSearch is a SearchOp whose candidate set has been gathered against
// pre-batch state but whose ranking has not been finalized.
type pendingSearch struct {
	idx        int
	op         SearchOp
	candidates []candidate
}

// candidate is a matched item plus every vector currently indexed for it
// (one per field path). vectors stays empty for searches without a query.
type candidate struct {
	item    *Item
	vectors [][]float32
}

// gatherCandidates collects every item whose namespace has the operation's
// prefix as a literal leading subsequence and whose value passes the filter.
// Candidates are ordered by namespace, then key, so that unranked pagination
// is deterministic across calls.
func (s *Store) gatherCandidates(idx int, op SearchOp) (*pendingSearch, error) {
	pend := &pendingSearch{idx: idx, op: op}

	for _, nsKey := range sortedKeys(s.data) {
		bucket := s.data[nsKey]
		if !bucket.ns.HasPrefix(op.NamespacePrefix) {
			continue
		}
		for _, key := range sortedKeys(bucket.items) {
			item := bucket.items[key]
			ok, err := filter.Matches(item.Value, op.Filter)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}

			cand := candidate{item: item}
			if op.Query != "" {
				byPath := s.vectors[nsKey][key]
				for _, path := range sortedKeys(byPath) {
					cand.vectors = append(cand.vectors, byPath[path])
				}
			}
			pend.candidates = append(pend.candidates, cand)
		}
	}

	return pend, nil
}

// finalizeSearch turns a gathered candidate set into the result window.
// Query searches rank by cosine similarity with per-document max pooling;
// plain searches paginate the candidate order directly.
func (s *Store) finalizeSearch(ctx context.Context, pend *pendingSearch, queryVecs map[string][]float32) []SearchItem {
	op := pend.op
	limit := op.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	offset := op.Offset
	if offset < 0 {
		offset = 0
	}

	if op.Query == "" {
		window := page(pend.candidates, offset, limit)
		results := make([]SearchItem, 0, len(window))
		for _, cand := range window {
			results = append(results, SearchItem{Item: *cand.item})
		}
		s.logger.LogSearch(ctx, op.Query, len(results))
		return results
	}

	queryVec := queryVecs[op.Query]

	var flatItems []*Item
	var flatVecs [][]float32
	for _, cand := range pend.candidates {
		for _, vec := range cand.vectors {
			flatItems = append(flatItems, cand.item)
			flatVecs = append(flatVecs, vec)
		}
	}

	scores := distance.CosineSimilarityBatch(queryVec, flatVecs)

	order := make([]int, len(flatItems))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	// Max pooling: the first (highest-scoring) occurrence of a document wins;
	// later occurrences are skipped. Scanning stops once offset+limit
	// distinct documents have been placed.
	seen := make(map[string]struct{})
	var results []SearchItem
	for _, j := range order {
		item := flatItems[j]
		id := item.ident()
		if _, ok := seen[id]; ok {
			continue
		}
		ix := len(seen)
		seen[id] = struct{}{}
		if ix >= offset+limit {
			break
		}
		if ix < offset {
			continue
		}

		score := scores[j]
		results = append(results, SearchItem{Item: *item, Score: &score})
	}

	s.logger.LogSearch(ctx, op.Query, len(results))
	return results
}

// sortedKeys returns the keys of m in sorted order.
func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// page returns the window [offset, offset+limit) of items.
func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
