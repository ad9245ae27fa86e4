package encoder

import (
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	shipathon "github.com/nakshatramandowara/Shipathon"
)

// DefaultDimensions matches the sentence-transformer models commonly used
// for this kind of retrieval (all-MiniLM-L6-v2 produces 384-dim vectors).
const DefaultDimensions = 384

// HashingEncoder is a deterministic feature-hashing bag-of-words encoder.
// Each token is hashed into one of D buckets with a sign hash, term
// frequencies are accumulated, and the result is L2-normalized. It is
// stateless: no shared vocabulary, so Encode is a pure function of its
// input and vectors from separate calls are directly comparable.
type HashingEncoder struct {
	dim int
}

// NewHashing creates a hashing encoder with the given dimension.
// Non-positive dim falls back to DefaultDimensions.
func NewHashing(dim int) *HashingEncoder {
	if dim <= 0 {
		dim = DefaultDimensions
	}
	return &HashingEncoder{dim: dim}
}

// Encode implements Encoder.
func (e *HashingEncoder) Encode(text string) ([]float32, error) {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: empty text", shipathon.ErrEncoding)
	}

	vec := make([]float32, e.dim)
	for _, tok := range tokens {
		h := fnv.New64a()
		_, _ = h.Write([]byte(tok))
		sum := h.Sum64()

		// Low bits pick the bucket, a high bit picks the sign. The sign
		// hash keeps colliding tokens from always reinforcing each other.
		bucket := int(sum % uint64(e.dim))
		sign := float32(1)
		if sum&(1<<63) != 0 {
			sign = -1
		}
		vec[bucket] += sign
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		// All tokens cancelled in their buckets; vanishingly rare, but a
		// zero vector has no direction and cannot be compared.
		return nil, fmt.Errorf("%w: degenerate text %q", shipathon.ErrEncoding, text)
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec, nil
}

// Dimensions implements Encoder.
func (e *HashingEncoder) Dimensions() int {
	return e.dim
}

func tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Compile-time check that HashingEncoder implements Encoder.
var _ Encoder = (*HashingEncoder)(nil)
