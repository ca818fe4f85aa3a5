package memstore

import (
	"strings"
	"time"
)

// nsSep joins namespace segments into internal map keys. It is a control
// character so it cannot collide with segment content.
const nsSep = "\x1f"

// Namespace is the ordered path of string segments that partitions the key
// space, e.g. Namespace{"users", "123", "prefs"}.
type Namespace []string

// String returns a human-readable form of the namespace.
func (ns Namespace) String() string {
	return strings.Join(ns, "/")
}

// HasPrefix reports whether ns starts with the given prefix, compared
// segment by segment. No wildcard handling happens here; see MatchCondition
// for wildcard matching.
func (ns Namespace) HasPrefix(prefix Namespace) bool {
	if len(ns) < len(prefix) {
		return false
	}
	for i, seg := range prefix {
		if ns[i] != seg {
			return false
		}
	}
	return true
}

func (ns Namespace) join() string {
	return strings.Join(ns, nsSep)
}

// Item is a stored document. (Namespace, Key) is its unique identity.
type Item struct {
	Namespace Namespace
	Key       string
	Value     map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (it *Item) ident() string {
	return it.Namespace.join() + nsSep + it.Key
}

// SearchItem is an Item returned from a search. Score is non-nil only for
// query-based (vector) searches and holds the cosine similarity of the
// best-scoring indexed fragment.
type SearchItem struct {
	Item
	Score *float64
}

// MatchType selects how a MatchCondition walks a namespace.
type MatchType string

const (
	// MatchPrefix compares the condition path against the leading segments.
	MatchPrefix MatchType = "prefix"
	// MatchSuffix compares the condition path against the trailing segments.
	MatchSuffix MatchType = "suffix"
)

// MatchCondition constrains namespaces during ListNamespaces. A "*" segment
// in Path matches any single namespace segment.
type MatchCondition struct {
	MatchType MatchType
	Path      []string
}

// Op is a single operation submitted to Batch. The set of implementations is
// closed: GetOp, PutOp, SearchOp and ListNamespacesOp.
type Op interface {
	isOp()
}

// GetOp fetches a single item by namespace and key.
type GetOp struct {
	Namespace Namespace
	Key       string
}

// PutOp upserts an item, or deletes it when Value is nil. Index controls
// whether the value is indexed for vector search; nil means the store
// default (index when an embedding configuration is present).
type PutOp struct {
	Namespace Namespace
	Key       string
	Value     map[string]any
	Index     *bool
}

// SearchOp finds items whose namespace starts with NamespacePrefix and whose
// value matches Filter. When Query is non-empty, results are ranked by
// vector similarity against the embedded query. A non-positive Limit
// defaults to 10.
type SearchOp struct {
	NamespacePrefix Namespace
	Filter          map[string]any
	Query           string
	Limit           int
	Offset          int
}

// ListNamespacesOp lists namespaces that satisfy all MatchConditions.
// MaxDepth > 0 truncates namespaces to that many leading segments and
// deduplicates. A non-positive Limit defaults to 100.
type ListNamespacesOp struct {
	MatchConditions []MatchCondition
	MaxDepth        int
	Limit           int
	Offset          int
}

func (GetOp) isOp()            {}
func (PutOp) isOp()            {}
func (SearchOp) isOp()         {}
func (ListNamespacesOp) isOp() {}

// Result is the outcome of one Op, at the same position in the Batch output
// as the Op in its input:
//
//   - GetOp            -> *Item (nil when absent)
//   - PutOp            -> nil
//   - SearchOp         -> []SearchItem
//   - ListNamespacesOp -> []Namespace
type Result any

const (
	defaultSearchLimit = 10
	defaultListLimit   = 100
)
