package similarity

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Cosine calculates the cosine similarity between two embedding vectors.
// Returns a value in [-1, 1], or 0 for mismatched or empty vectors.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	af := make([]float64, len(a))
	bf := make([]float64, len(b))
	for i := range a {
		af[i] = float64(a[i])
		bf[i] = float64(b[i])
	}

	dot := floats.Dot(af, bf)
	magA := math.Sqrt(floats.Dot(af, af))
	magB := math.Sqrt(floats.Dot(bf, bf))

	if magA == 0 || magB == 0 {
		return 0
	}

	return dot / (magA * magB)
}
