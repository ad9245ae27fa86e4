package shipathon

// RankPolicy selects how interest rank influences the query vector.
type RankPolicy string

const (
	// RankNone joins all interests into one text and applies the flat
	// Interests weight.
	RankNone RankPolicy = "none"

	// RankLinear weights interest i (0-indexed, most preferred first) by
	// Interests * (N-i)/N, so the top interest carries full weight and the
	// last carries 1/N of it.
	RankLinear RankPolicy = "linear"
)

// WeightConfig maps profile fields to non-negative weights used when
// building a query vector. Weights are constants for the lifetime of one
// query: changing them changes ranking but never stored state.
type WeightConfig struct {
	Name       float32 `json:"name_weight"`
	Gender     float32 `json:"gender_weight"`
	Role       float32 `json:"role_weight"`
	Department float32 `json:"department_weight"`
	Year       float32 `json:"year_weight"`
	Interests  float32 `json:"interests_weight"`
	PastEvents float32 `json:"past_events_weight"`

	// Baseline scales the "N/A" vector subtracted from the weighted sum.
	// Short, sparse profiles otherwise drift toward a generic region of the
	// vector space and match the same events regardless of content.
	Baseline float32 `json:"na_weight"`

	// InterestRanking selects the rank-weighting scheme for interests.
	InterestRanking RankPolicy `json:"interest_ranking"`
}

// DefaultWeights returns the standard field weights.
func DefaultWeights() WeightConfig {
	return WeightConfig{
		Name:            0,
		Gender:          1,
		Role:            3,
		Department:      2,
		Year:            1,
		Interests:       5,
		PastEvents:      1,
		Baseline:        0.6,
		InterestRanking: RankLinear,
	}
}
