// Package profile converts a structured user profile into a single
// composite query vector via per-field weighted embedding and a
// baseline-subtraction correction.
package profile

import (
	"fmt"
	"strings"

	shipathon "github.com/nakshatramandowara/Shipathon"
	"github.com/nakshatramandowara/Shipathon/encoder"
)

// baselineText is the neutral reference text. The encoder pulls short,
// sparse profiles toward its "not applicable" region; subtracting a scaled
// embedding of this text corrects that drift.
const baselineText = "N/A"

// Builder turns user profiles into query vectors.
type Builder struct {
	enc encoder.Encoder
}

// NewBuilder creates a Builder over the given encoder.
func NewBuilder(enc encoder.Encoder) *Builder {
	return &Builder{enc: enc}
}

// Build returns the query vector for a profile under the given weights.
//
// Each present, non-empty field with a non-zero weight contributes
// weight × Encode(fieldText) to a component-wise running sum; absent fields
// contribute zero and are never passed to the encoder. After summing,
// weights.Baseline × Encode("N/A") is subtracted component-wise. The result
// is intentionally not normalized: cosine on the stored side is
// scale-invariant, but callers must not assume the query vector is
// unit-length.
func (b *Builder) Build(p shipathon.UserProfile, weights shipathon.WeightConfig) ([]float32, error) {
	sum := make([]float32, b.enc.Dimensions())

	fields := []struct {
		text   string
		weight float32
	}{
		{p.Name, weights.Name},
		{p.Gender, weights.Gender},
		{p.Role, weights.Role},
		{p.Department, weights.Department},
		{p.YearText(), weights.Year},
		{strings.Join(p.PastEvents, " "), weights.PastEvents},
	}
	for _, f := range fields {
		if err := b.addWeighted(sum, f.text, f.weight); err != nil {
			return nil, err
		}
	}

	if err := b.addInterests(sum, p.Interests, weights); err != nil {
		return nil, err
	}

	// Baseline subtraction: addWeighted with a negated weight.
	if err := b.addWeighted(sum, baselineText, -weights.Baseline); err != nil {
		return nil, err
	}

	return sum, nil
}

// addInterests applies the configured rank-weighting policy. With RankNone
// all interests are joined into one text under the flat Interests weight;
// with RankLinear interest i of N is weighted Interests × (N-i)/N, so rank
// position encodes preference strength.
func (b *Builder) addInterests(sum []float32, interests []string, weights shipathon.WeightConfig) error {
	if len(interests) == 0 || weights.Interests == 0 {
		return nil
	}

	switch weights.InterestRanking {
	case shipathon.RankLinear:
		n := len(interests)
		for i, interest := range interests {
			scale := weights.Interests * float32(n-i) / float32(n)
			if err := b.addWeighted(sum, interest, scale); err != nil {
				return err
			}
		}
		return nil

	case shipathon.RankNone, "":
		return b.addWeighted(sum, strings.Join(interests, " "), weights.Interests)

	default:
		return fmt.Errorf("%w: unknown rank policy %q", shipathon.ErrInvalidConfig, weights.InterestRanking)
	}
}

// addWeighted adds weight × Encode(text) into sum. Empty text or a zero
// weight contributes nothing.
func (b *Builder) addWeighted(sum []float32, text string, weight float32) error {
	if strings.TrimSpace(text) == "" || weight == 0 {
		return nil
	}

	vec, err := b.enc.Encode(text)
	if err != nil {
		return fmt.Errorf("encoding field %q: %w", text, err)
	}
	if len(vec) != len(sum) {
		return fmt.Errorf("%w: encoder returned %d, expected %d",
			shipathon.ErrDimensionMismatch, len(vec), len(sum))
	}

	for i := range sum {
		sum[i] += weight * vec[i]
	}
	return nil
}
