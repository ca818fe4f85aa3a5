package distance

import (
	"log/slog"
	"math"
	"sync"
)

var advisoryOnce sync.Once

// Backend reports which kernel set was selected at startup.
func Backend() string {
	if hasFastKernels {
		return "unrolled"
	}
	return "scalar"
}

func advise() {
	advisoryOnce.Do(func() {
		if !hasFastKernels {
			slog.Warn("SIMD-capable kernels unavailable, using scalar similarity loop",
				"backend", Backend(),
			)
		}
	})
}

// Dot calculates the dot product of two vectors.
// Assumes vectors are the same length (caller's responsibility).
func Dot(a, b []float32) float32 {
	return dotImpl(a, b)
}

// Magnitude calculates the L2 norm of v.
func Magnitude(v []float32) float32 {
	return float32(math.Sqrt(float64(dotImpl(v, v))))
}

// CosineSimilarity calculates the cosine similarity between a and b.
// A zero-norm vector has similarity 0 against anything; there is no division
// by zero. Assumes vectors are the same length.
func CosineSimilarity(a, b []float32) float64 {
	advise()

	dot := float64(dotImpl(a, b))
	na := math.Sqrt(float64(dotImpl(a, a)))
	nb := math.Sqrt(float64(dotImpl(b, b)))
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (na * nb)
}

// CosineSimilarityBatch calculates the cosine similarity of query against
// every vector in targets. Zero-norm vectors score 0.
func CosineSimilarityBatch(query []float32, targets [][]float32) []float64 {
	advise()

	qn := math.Sqrt(float64(dotImpl(query, query)))
	scores := make([]float64, len(targets))
	if qn == 0 {
		return scores
	}
	for i, t := range targets {
		tn := math.Sqrt(float64(dotImpl(t, t)))
		if tn == 0 {
			continue
		}
		scores[i] = float64(dotImpl(query, t)) / (qn * tn)
	}
	return scores
}
