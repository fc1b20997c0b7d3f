package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/escolinha-api/internal/dto"
	"github.com/noah-isme/escolinha-api/internal/service"
	"github.com/noah-isme/escolinha-api/pkg/response"
)

// PlanoHandler exposes financial plans.
type PlanoHandler struct {
	planos *service.PlanService
}

// NewPlanoHandler constructs PlanoHandler.
func NewPlanoHandler(planos *service.PlanService) *PlanoHandler {
	return &PlanoHandler{planos: planos}
}

// List godoc
// @Summary List financial plans
// @Tags Planos
// @Produce json
// @Param ativo query bool false "Filter by active state"
// @Success 200 {object} response.Envelope
// @Router /planos-financeiros [get]
func (h *PlanoHandler) List(c *gin.Context) {
	items, err := h.planos.List(c.Request.Context(), principalFromContext(c), queryBool(c, "ativo"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Get godoc
// @Summary Get financial plan
// @Tags Planos
// @Produce json
// @Param id path int true "Plano ID"
// @Success 200 {object} response.Envelope
// @Router /planos-financeiros/{id} [get]
func (h *PlanoHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	plano, err := h.planos.Get(c.Request.Context(), principalFromContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plano, nil)
}

// Preview godoc
// @Summary Compute a plan total without saving
// @Tags Planos
// @Accept json
// @Produce json
// @Param payload body dto.PlanoCalculoRequest true "Calculation inputs"
// @Success 200 {object} response.Envelope
// @Router /planos-financeiros/preview [post]
func (h *PlanoHandler) Preview(c *gin.Context) {
	var req dto.PlanoCalculoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	preview, err := h.planos.Preview(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, preview, nil)
}

// Create godoc
// @Summary Create financial plan
// @Tags Planos
// @Accept json
// @Produce json
// @Param payload body dto.PlanoRequest true "Plano payload"
// @Success 201 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /planos-financeiros [post]
func (h *PlanoHandler) Create(c *gin.Context) {
	var req dto.PlanoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	plano, err := h.planos.Create(c.Request.Context(), principalFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, plano)
}

// Update godoc
// @Summary Replace financial plan
// @Tags Planos
// @Accept json
// @Produce json
// @Param id path int true "Plano ID"
// @Param payload body dto.PlanoRequest true "Plano payload"
// @Success 200 {object} response.Envelope
// @Router /planos-financeiros/{id} [put]
func (h *PlanoHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.PlanoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	plano, err := h.planos.Update(c.Request.Context(), principalFromContext(c), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plano, nil)
}

// Delete godoc
// @Summary Delete financial plan
// @Tags Planos
// @Param id path int true "Plano ID"
// @Success 204
// @Router /planos-financeiros/{id} [delete]
func (h *PlanoHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.planos.Delete(c.Request.Context(), principalFromContext(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
