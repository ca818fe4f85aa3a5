package embedding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenizePath(t *testing.T) {
	assert.Nil(t, TokenizePath(""))
	assert.Nil(t, TokenizePath(RootPath))
	assert.Equal(t, []string{"content"}, TokenizePath("content"))
	assert.Equal(t, []string{"metadata", "title"}, TokenizePath("metadata.title"))
	assert.Equal(t, []string{"tags", "*"}, TokenizePath("tags.*"))
	assert.Equal(t, []string{"items", "0", "name"}, TokenizePath("items.0.name"))
}

func TestTextsAtPath(t *testing.T) {
	value := map[string]any{
		"content": "hello world",
		"count":   3,
		"metadata": map[string]any{
			"title": "greetings",
			"tags":  []any{"a", "b"},
		},
		"sections": []any{
			map[string]any{"body": "first"},
			map[string]any{"body": "second"},
		},
	}

	tests := []struct {
		name string
		path string
		want []string
	}{
		{"Root", RootPath, []string{`{"content":"hello world","count":3,"metadata":{"tags":["a","b"],"title":"greetings"},"sections":[{"body":"first"},{"body":"second"}]}`}},
		{"TopLevel", "content", []string{"hello world"}},
		{"NonString", "count", []string{"3"}},
		{"Nested", "metadata.title", []string{"greetings"}},
		{"ListIndex", "metadata.tags.0", []string{"a"}},
		{"ListWildcard", "metadata.tags.*", []string{"a", "b"}},
		{"WildcardThenField", "sections.*.body", []string{"first", "second"}},
		{"Missing", "nope", nil},
		{"MissingNested", "metadata.nope", nil},
		{"IndexOutOfRange", "metadata.tags.9", nil},
		{"CompositeLeaf", "metadata.tags", []string{`["a","b"]`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TextsAtPath(value, TokenizePath(tt.path))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTextsAtPathMapWildcardDeterministic(t *testing.T) {
	value := map[string]any{
		"langs": map[string]any{"b": "beta", "a": "alpha", "c": "gamma"},
	}

	got := TextsAtPath(value, TokenizePath("langs.*"))
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, got, "map fan-out follows sorted key order")
}

func TestStringify(t *testing.T) {
	assert.Equal(t, "plain", Stringify("plain"))
	assert.Equal(t, "42", Stringify(42))
	assert.Equal(t, `{"a":1}`, Stringify(map[string]any{"a": 1}))
	assert.Equal(t, "null", Stringify(nil))
}
