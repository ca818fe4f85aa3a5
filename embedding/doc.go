// Package embedding defines the gateway between a store and an external
// text-embedding capability.
//
// The store never talks to an embedding provider directly; it batches the
// unique texts it needs for one purpose (document indexing or query scoring)
// and hands them to an Embedder in a single round-trip. Adapters for
// concrete providers live in subpackages (see embedding/openai); tests and
// local models can use Func.
//
// Text extraction from stored values is driven by field-path specifiers:
//
//	"content"          the top-level "content" field
//	"metadata.title"   a nested field
//	"tags.*"           every element of a list (fans out into tags.0, tags.1, ...)
//	RootPath           the whole value, JSON-stringified
package embedding
