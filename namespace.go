package memstore

import (
	"slices"
)

// matchCondition reports whether ns satisfies cond. A "*" path segment
// matches any single namespace segment; the namespace must be at least as
// long as the condition path.
func matchCondition(ns Namespace, cond MatchCondition) (bool, error) {
	if len(ns) < len(cond.Path) {
		return false, nil
	}

	switch cond.MatchType {
	case MatchPrefix:
		for i, seg := range cond.Path {
			if seg == "*" {
				continue
			}
			if ns[i] != seg {
				return false, nil
			}
		}
		return true, nil

	case MatchSuffix:
		start := len(ns) - len(cond.Path)
		for i, seg := range cond.Path {
			if seg == "*" {
				continue
			}
			if ns[start+i] != seg {
				return false, nil
			}
		}
		return true, nil

	default:
		return false, &ErrUnsupportedMatchType{MatchType: cond.MatchType}
	}
}

// listNamespaces resolves a ListNamespacesOp against current store state.
func (s *Store) listNamespaces(op ListNamespacesOp) ([]Namespace, error) {
	limit := op.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	offset := op.Offset
	if offset < 0 {
		offset = 0
	}

	var matched []Namespace
	for _, bucket := range s.data {
		keep := true
		for _, cond := range op.MatchConditions {
			ok, err := matchCondition(bucket.ns, cond)
			if err != nil {
				return nil, err
			}
			if !ok {
				keep = false
				break
			}
		}
		if keep {
			matched = append(matched, bucket.ns)
		}
	}

	if op.MaxDepth > 0 {
		seen := make(map[string]struct{}, len(matched))
		var truncated []Namespace
		for _, ns := range matched {
			if len(ns) > op.MaxDepth {
				ns = ns[:op.MaxDepth]
			}
			k := ns.join()
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			truncated = append(truncated, ns)
		}
		matched = truncated
	}

	slices.SortFunc(matched, func(a, b Namespace) int {
		return slices.Compare(a, b)
	})

	return page(matched, offset, limit), nil
}
