// Package distance provides the similarity kernels used for vector search.
//
// Two kernel sets exist: an unrolled variant that the compiler can
// auto-vectorize on SIMD-capable hardware, and a plain scalar loop. The set
// is selected once at startup from CPU capabilities; both produce the same
// results. When only the scalar set is available a one-time advisory is
// logged, never an error.
package distance
