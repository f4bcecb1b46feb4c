package embeddings

import (
	"math"
	"strconv"
	"strings"
)

// EncodeVector renders a vector as a bracketed comma-separated list of
// decimals for storage, e.g. "[0.123,-0.456,0.789]". A nil vector encodes to
// the empty string.
func EncodeVector(vector []float32) string {
	if vector == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("[")
	for i, v := range vector {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 32))
	}
	sb.WriteString("]")
	return sb.String()
}

// DecodeVector parses a stored vector string back into its original
// dimensionality. Surrounding whitespace is tolerated; malformed input yields
// nil rather than an error, so a corrupt record degrades to "never embedded".
func DecodeVector(s string) []float32 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	if strings.TrimSpace(s) == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	vector := make([]float32, len(parts))
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
		if err != nil {
			return nil
		}
		vector[i] = float32(v)
	}
	return vector
}

// ZeroVector returns an all-zero vector of the given dimension
func ZeroVector(dimension int) []float32 {
	return make([]float32, dimension)
}

// IsZeroVector reports whether every component is negligibly small. A zero
// vector marks a chunk whose embedding never succeeded.
func IsZeroVector(vector []float32) bool {
	if len(vector) == 0 {
		return true
	}
	for _, v := range vector {
		if math.Abs(float64(v)) > 1e-4 {
			return false
		}
	}
	return true
}
