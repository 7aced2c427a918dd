package domain

// Factor names used in ScoreResult.Factors.
const (
	FactorCreditScore      = "creditScore"
	FactorIncome           = "income"
	FactorAgeGroup         = "ageGroup"
	FactorFamilyBackground = "familyBackground"
)

// ScoreResult is the output of a scoring pass. Factors are diagnostic only.
type ScoreResult struct {
	InitialScore  int                `json:"initialScore"`
	RerankedScore int                `json:"rerankedScore"`
	Factors       map[string]float64 `json:"factors,omitempty"`
}

// ScoreBand buckets a score for display.
type ScoreBand string

const (
	ScoreBandHigh     ScoreBand = "high"
	ScoreBandMedium   ScoreBand = "medium"
	ScoreBandLow      ScoreBand = "low"
	ScoreBandCold     ScoreBand = "cold"
	ScoreBandUnscored ScoreBand = "unscored"
)

// BandFor maps an optional score to its display band. A zero score is
// shown as unscored, like a missing one.
func BandFor(score *int) ScoreBand {
	switch {
	case score == nil || *score == 0:
		return ScoreBandUnscored
	case *score >= 80:
		return ScoreBandHigh
	case *score >= 60:
		return ScoreBandMedium
	case *score >= 40:
		return ScoreBandLow
	default:
		return ScoreBandCold
	}
}
