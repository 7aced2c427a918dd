package domain

import "time"

// AgeGroup enumerates the age brackets captured for a lead.
type AgeGroup string

const (
	AgeGroup18To25 AgeGroup = "18-25"
	AgeGroup26To35 AgeGroup = "26-35"
	AgeGroup36To50 AgeGroup = "36-50"
	AgeGroup51Plus AgeGroup = "51+"
)

// FamilyBackground enumerates household situations.
type FamilyBackground string

const (
	FamilySingle          FamilyBackground = "Single"
	FamilyMarried         FamilyBackground = "Married"
	FamilyMarriedWithKids FamilyBackground = "Married with Kids"
)

// ScoreSource records which path produced a lead's scores.
type ScoreSource string

const (
	ScoreSourceRemote   ScoreSource = "remote"
	ScoreSourceFallback ScoreSource = "fallback"
)

// LeadAttributes is everything captured about a prospect before it has an identity.
// It doubles as the request body of the remote scoring endpoint.
type LeadAttributes struct {
	PhoneNumber      string           `json:"phoneNumber"`
	Email            string           `json:"email"`
	CreditScore      int              `json:"creditScore"`
	Income           float64          `json:"income"`
	AgeGroup         AgeGroup         `json:"ageGroup"`
	FamilyBackground FamilyBackground `json:"familyBackground"`
	Comments         string           `json:"comments"`
}

// Lead is a captured prospect. Scores are set once, at creation, and never recomputed.
type Lead struct {
	ID               string           `json:"id"`
	PhoneNumber      string           `json:"phoneNumber"`
	Email            string           `json:"email"`
	CreditScore      int              `json:"creditScore"`
	Income           float64          `json:"income"`
	AgeGroup         AgeGroup         `json:"ageGroup"`
	FamilyBackground FamilyBackground `json:"familyBackground"`
	Comments         string           `json:"comments"`
	InitialScore     *int             `json:"initialScore,omitempty"`
	RerankedScore    *int             `json:"rerankedScore,omitempty"`
	ScoreSource      ScoreSource      `json:"scoreSource,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
}

// NewLead builds a scored lead from its attributes.
func NewLead(id string, attrs LeadAttributes, result ScoreResult, source ScoreSource, createdAt time.Time) Lead {
	initial := result.InitialScore
	reranked := result.RerankedScore
	return Lead{
		ID:               id,
		PhoneNumber:      attrs.PhoneNumber,
		Email:            attrs.Email,
		CreditScore:      attrs.CreditScore,
		Income:           attrs.Income,
		AgeGroup:         attrs.AgeGroup,
		FamilyBackground: attrs.FamilyBackground,
		Comments:         attrs.Comments,
		InitialScore:     &initial,
		RerankedScore:    &reranked,
		ScoreSource:      source,
		CreatedAt:        createdAt,
	}
}

// Clone returns a copy that shares no score storage with l.
func (l Lead) Clone() Lead {
	out := l
	out.InitialScore = cloneScore(l.InitialScore)
	out.RerankedScore = cloneScore(l.RerankedScore)
	return out
}

func cloneScore(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// Scored reports whether both scores are present.
func (l Lead) Scored() bool {
	return l.InitialScore != nil && l.RerankedScore != nil
}
