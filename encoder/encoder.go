// Package encoder turns text into fixed-length real-valued vectors for
// similarity search.
package encoder

// Encoder generates a vector embedding for a text string.
//
// Implementations must be deterministic pure functions of their input: the
// same text always yields the same vector. Callers must treat absent fields
// as zero contribution rather than encoding empty strings.
type Encoder interface {
	// Encode returns the embedding for text. Empty or whitespace-only input
	// is an error (shipathon.ErrEncoding).
	Encode(text string) ([]float32, error)

	// Dimensions returns the fixed output dimension D. D is constant for
	// the lifetime of the encoder and must match the vector index's
	// configured dimension.
	Dimensions() int
}
