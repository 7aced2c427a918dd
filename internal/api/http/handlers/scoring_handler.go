package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/intent-score/internal/api/dto"
	"github.com/spec-kit/intent-score/internal/scoring"
	apperrors "github.com/spec-kit/intent-score/pkg/util"
	"github.com/spec-kit/intent-score/pkg/validator"
)

// ScoringHandler serves the scoring endpoint that remote clients call.
type ScoringHandler struct {
	engine    *scoring.Engine
	validator *validator.Validator
}

// NewScoringHandler constructs handler.
func NewScoringHandler(engine *scoring.Engine, v *validator.Validator) *ScoringHandler {
	return &ScoringHandler{engine: engine, validator: v}
}

// ScoreLead POST /api/score-lead.
func (h *ScoringHandler) ScoreLead(c *fiber.Ctx) error {
	var req dto.ScoreLeadRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.validator.Struct(req); err != nil {
		return apperrors.NewValidationError("invalid lead attributes", validator.FieldErrors(err))
	}
	return c.JSON(h.engine.Score(req.Attributes()))
}
