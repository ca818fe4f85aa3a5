package distance

// Kernel implementations are bound to these vars at startup; see
// capability_*.go for the per-architecture probe.
var (
	hasFastKernels bool

	dotImpl = dotGeneric
)

func selectKernels() {
	if hasFastKernels {
		dotImpl = dotUnrolled
	}
}

// dotGeneric is the scalar fallback loop.
//
// SAFETY: assumes len(a) == len(b). Callers must ensure lengths match.
func dotGeneric(a, b []float32) float32 {
	var ret float32
	for i := range a {
		ret += a[i] * b[i]
	}
	return ret
}

// dotUnrolled keeps four independent accumulators so the compiler can emit
// vector instructions on AVX2/NEON-class hardware.
//
// SAFETY: assumes len(a) == len(b). Callers must ensure lengths match.
func dotUnrolled(a, b []float32) float32 {
	var s0, s1, s2, s3 float32
	i := 0
	for ; i+4 <= len(a); i += 4 {
		s0 += a[i] * b[i]
		s1 += a[i+1] * b[i+1]
		s2 += a[i+2] * b[i+2]
		s3 += a[i+3] * b[i+3]
	}
	for ; i < len(a); i++ {
		s0 += a[i] * b[i]
	}
	return s0 + s1 + s2 + s3
}
