package embedding

import (
	"encoding/json"
	"slices"
	"strconv"
	"strings"
)

// TokenizePath splits a field-path specifier into tokens. Tokens are
// dot-separated field names; a numeric token indexes into a list and "*"
// fans out over every element of a list or every value of a map.
//
// RootPath is not tokenized; it selects the whole value.
func TokenizePath(path string) []string {
	if path == "" || path == RootPath {
		return nil
	}
	return strings.Split(path, ".")
}

// TextsAtPath extracts the text fragments addressed by tokens from value.
// A nil token list (the RootPath specifier) yields the whole value as one
// fragment. Paths that address nothing yield no fragments; fan-out tokens
// may yield several.
func TextsAtPath(value any, tokens []string) []string {
	if len(tokens) == 0 {
		return []string{Stringify(value)}
	}

	frontier := []any{value}
	for _, token := range tokens {
		var next []any
		for _, node := range frontier {
			switch node := node.(type) {
			case map[string]any:
				if token == "*" {
					// Sorted key order keeps sub-path assignment deterministic.
					keys := make([]string, 0, len(node))
					for k := range node {
						keys = append(keys, k)
					}
					slices.Sort(keys)
					for _, k := range keys {
						next = append(next, node[k])
					}
					continue
				}
				if v, ok := node[token]; ok {
					next = append(next, v)
				}
			case []any:
				if token == "*" {
					next = append(next, node...)
					continue
				}
				if i, err := strconv.Atoi(token); err == nil && i >= 0 && i < len(node) {
					next = append(next, node[i])
				}
			}
		}
		if len(next) == 0 {
			return nil
		}
		frontier = next
	}

	texts := make([]string, 0, len(frontier))
	for _, node := range frontier {
		texts = append(texts, Stringify(node))
	}
	return texts
}

// Stringify renders a value as indexable text. Strings pass through
// unchanged; everything else is JSON-encoded.
func Stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
