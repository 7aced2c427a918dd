package dto

import (
	"time"

	"github.com/spec-kit/intent-score/internal/domain"
	"github.com/spec-kit/intent-score/internal/service"
)

// ScoreLeadRequest is the body of POST /api/score-lead.
type ScoreLeadRequest struct {
	PhoneNumber      string                  `json:"phoneNumber" validate:"omitempty,max=32"`
	Email            string                  `json:"email" validate:"omitempty,max=254"`
	CreditScore      int                     `json:"creditScore"`
	Income           float64                 `json:"income"`
	AgeGroup         domain.AgeGroup         `json:"ageGroup"`
	FamilyBackground domain.FamilyBackground `json:"familyBackground"`
	Comments         string                  `json:"comments" validate:"max=2000"`
}

// Attributes converts the request to lead attributes.
func (r ScoreLeadRequest) Attributes() domain.LeadAttributes {
	return domain.LeadAttributes{
		PhoneNumber:      r.PhoneNumber,
		Email:            r.Email,
		CreditScore:      r.CreditScore,
		Income:           r.Income,
		AgeGroup:         r.AgeGroup,
		FamilyBackground: r.FamilyBackground,
		Comments:         r.Comments,
	}
}

// CreateLeadRequest is the body of POST /api/leads.
type CreateLeadRequest struct {
	PhoneNumber      string                  `json:"phoneNumber" validate:"required,min=10,max=15,phone"`
	Email            string                  `json:"email" validate:"required,email"`
	CreditScore      int                     `json:"creditScore" validate:"min=300,max=850"`
	Income           float64                 `json:"income" validate:"gte=0"`
	AgeGroup         domain.AgeGroup         `json:"ageGroup" validate:"required,oneof=18-25 26-35 36-50 51+"`
	FamilyBackground domain.FamilyBackground `json:"familyBackground" validate:"required,oneof=Single Married 'Married with Kids'"`
	Comments         string                  `json:"comments" validate:"max=2000"`
	Consent          bool                    `json:"consent" validate:"eq=true"`
}

// Attributes drops the consent flag, which is never stored.
func (r CreateLeadRequest) Attributes() domain.LeadAttributes {
	return domain.LeadAttributes{
		PhoneNumber:      r.PhoneNumber,
		Email:            r.Email,
		CreditScore:      r.CreditScore,
		Income:           r.Income,
		AgeGroup:         r.AgeGroup,
		FamilyBackground: r.FamilyBackground,
		Comments:         r.Comments,
	}
}

// LeadResponse is a lead as shown in the table.
type LeadResponse struct {
	ID               string                  `json:"id"`
	PhoneNumber      string                  `json:"phoneNumber"`
	Email            string                  `json:"email"`
	CreditScore      int                     `json:"creditScore"`
	Income           float64                 `json:"income"`
	AgeGroup         domain.AgeGroup         `json:"ageGroup"`
	FamilyBackground domain.FamilyBackground `json:"familyBackground"`
	Comments         string                  `json:"comments"`
	InitialScore     *int                    `json:"initialScore,omitempty"`
	RerankedScore    *int                    `json:"rerankedScore,omitempty"`
	ScoreBand        domain.ScoreBand        `json:"scoreBand"`
	ScoreSource      domain.ScoreSource      `json:"scoreSource,omitempty"`
	CreatedAt        time.Time               `json:"createdAt"`
}

// LeadStatsResponse backs the dashboard cards.
type LeadStatsResponse struct {
	service.LeadStats
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
}

// NewLeadResponse maps a domain lead.
func NewLeadResponse(lead domain.Lead) LeadResponse {
	return LeadResponse{
		ID:               lead.ID,
		PhoneNumber:      lead.PhoneNumber,
		Email:            lead.Email,
		CreditScore:      lead.CreditScore,
		Income:           lead.Income,
		AgeGroup:         lead.AgeGroup,
		FamilyBackground: lead.FamilyBackground,
		Comments:         lead.Comments,
		InitialScore:     lead.InitialScore,
		RerankedScore:    lead.RerankedScore,
		ScoreBand:        domain.BandFor(lead.RerankedScore),
		ScoreSource:      lead.ScoreSource,
		CreatedAt:        lead.CreatedAt,
	}
}
