package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/intent-score/internal/api/dto"
	"github.com/spec-kit/intent-score/internal/service"
	apperrors "github.com/spec-kit/intent-score/pkg/util"
	"github.com/spec-kit/intent-score/pkg/validator"
)

// LeadsHandler exposes the lead collection.
type LeadsHandler struct {
	store     *service.LeadStore
	validator *validator.Validator
}

// NewLeadsHandler constructs handler.
func NewLeadsHandler(store *service.LeadStore, v *validator.Validator) *LeadsHandler {
	return &LeadsHandler{store: store, validator: v}
}

// CreateLead POST /api/leads.
func (h *LeadsHandler) CreateLead(c *fiber.Ctx) error {
	var req dto.CreateLeadRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.validator.Struct(req); err != nil {
		return apperrors.NewValidationError("invalid lead", validator.FieldErrors(err))
	}

	lead, err := h.store.AddLead(c.UserContext(), req.Attributes())
	if err != nil {
		return apperrors.NewStoreError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewLeadResponse(*lead)})
}

// ListLeads GET /api/leads.
func (h *LeadsHandler) ListLeads(c *fiber.Ctx) error {
	sortBy, ok := service.ParseSortKey(c.Query("sort"))
	if !ok {
		return apperrors.NewValidationError("unknown sort column", map[string]any{"sort": c.Query("sort")})
	}
	direction, ok := service.ParseSortDirection(c.Query("direction"))
	if !ok {
		return apperrors.NewValidationError("unknown sort direction", map[string]any{"direction": c.Query("direction")})
	}

	leads := h.store.Query(service.LeadQuery{
		Search:    c.Query("search"),
		SortBy:    sortBy,
		Direction: direction,
	})
	items := make([]dto.LeadResponse, 0, len(leads))
	for _, lead := range leads {
		items = append(items, dto.NewLeadResponse(lead))
	}
	return c.JSON(fiber.Map{"data": items, "count": len(items)})
}

// Stats GET /api/leads/stats.
func (h *LeadsHandler) Stats(c *fiber.Ctx) error {
	state := h.store.State()
	return c.JSON(fiber.Map{"data": dto.LeadStatsResponse{
		LeadStats: h.store.Stats(),
		Loading:   state.Loading,
		Error:     state.Error,
	}})
}

// RemoveLead DELETE /api/leads/:id. Unknown ids still succeed.
func (h *LeadsHandler) RemoveLead(c *fiber.Ctx) error {
	h.store.RemoveLead(c.UserContext(), c.Params("id"))
	return c.SendStatus(http.StatusNoContent)
}

// ClearLeads DELETE /api/leads.
func (h *LeadsHandler) ClearLeads(c *fiber.Ctx) error {
	h.store.ClearLeads(c.UserContext())
	return c.SendStatus(http.StatusNoContent)
}
