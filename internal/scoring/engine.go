package scoring

import (
	"math"
	"math/rand"
	"strings"

	"github.com/spec-kit/intent-score/internal/domain"
)

const (
	perturbationSpan = 20.0
	keywordBonus     = 5.0
	maxScore         = 100.0
	minScore         = 0.0
)

// intentKeywords boost the reranked score when any of them appears in the comments.
var intentKeywords = []string{
	"urgent", "important", "interested", "looking", "need", "want",
	"buy", "purchase", "invest", "soon", "immediately", "asap", "tomorrow",
}

// RandomSource yields values in [0, 1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// Engine computes initial and reranked intent scores.
type Engine struct {
	rnd RandomSource
}

// NewEngine returns an engine drawing its perturbation from rnd.
// A nil source uses the process-wide generator.
func NewEngine(rnd RandomSource) *Engine {
	if rnd == nil {
		rnd = globalSource{}
	}
	return &Engine{rnd: rnd}
}

// Score maps lead attributes to a ScoreResult. It never fails; out-of-range
// inputs still fall into the lowest or highest bucket.
func (e *Engine) Score(attrs domain.LeadAttributes) domain.ScoreResult {
	initial := float64(creditPoints(attrs.CreditScore) +
		incomePoints(attrs.Income) +
		agePoints(attrs.AgeGroup) +
		familyPoints(attrs.FamilyBackground))

	reranked := clamp(initial + (e.rnd.Float64()*perturbationSpan - perturbationSpan/2))
	if hasIntentKeyword(attrs.Comments) {
		reranked = clamp(reranked + keywordBonus)
	}

	initialScore := int(math.Round(initial))
	rerankedScore := int(math.Round(reranked))

	return domain.ScoreResult{
		InitialScore:  initialScore,
		RerankedScore: rerankedScore,
		Factors:       factors(attrs, initialScore),
	}
}

func creditPoints(credit int) int {
	switch {
	case credit >= 750:
		return 35
	case credit >= 700:
		return 30
	case credit >= 650:
		return 25
	case credit >= 600:
		return 15
	case credit >= 550:
		return 10
	default:
		return 5
	}
}

func incomePoints(income float64) int {
	switch {
	case income >= 1_000_000:
		return 25
	case income >= 800_000:
		return 22
	case income >= 600_000:
		return 18
	case income >= 400_000:
		return 12
	case income >= 200_000:
		return 8
	default:
		return 4
	}
}

func agePoints(group domain.AgeGroup) int {
	switch group {
	case domain.AgeGroup26To35:
		return 20
	case domain.AgeGroup36To50:
		return 18
	case domain.AgeGroup18To25:
		return 16
	default:
		return 10
	}
}

func familyPoints(background domain.FamilyBackground) int {
	switch background {
	case domain.FamilyMarriedWithKids:
		return 20
	case domain.FamilyMarried:
		return 15
	default:
		return 10
	}
}

func hasIntentKeyword(comments string) bool {
	if comments == "" {
		return false
	}
	lowered := strings.ToLower(comments)
	for _, keyword := range intentKeywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}

// factors is a display approximation; it does not sum back to the initial score.
func factors(attrs domain.LeadAttributes, initialScore int) map[string]float64 {
	return map[string]float64{
		domain.FactorCreditScore:      float64(attrs.CreditScore) / 850 * 35,
		domain.FactorIncome:           math.Min(attrs.Income/1_000_000*25, 25),
		domain.FactorAgeGroup:         float64(initialScore) * 0.2,
		domain.FactorFamilyBackground: float64(initialScore) * 0.2,
	}
}

func clamp(v float64) float64 {
	return math.Min(maxScore, math.Max(minScore, v))
}
