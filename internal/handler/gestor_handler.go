package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/escolinha-api/internal/dto"
	"github.com/noah-isme/escolinha-api/internal/service"
	"github.com/noah-isme/escolinha-api/pkg/response"
)

// GestorHandler exposes branch manager accounts to administrators.
type GestorHandler struct {
	gestores *service.GestorService
}

// NewGestorHandler constructs GestorHandler.
func NewGestorHandler(gestores *service.GestorService) *GestorHandler {
	return &GestorHandler{gestores: gestores}
}

// List godoc
// @Summary List branch managers
// @Tags Gestores
// @Produce json
// @Param filialId query int false "Filter by branch"
// @Success 200 {object} response.Envelope
// @Router /gestores [get]
func (h *GestorHandler) List(c *gin.Context) {
	items, err := h.gestores.List(c.Request.Context(), principalFromContext(c), queryID(c, "filialId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Create godoc
// @Summary Create branch manager
// @Tags Gestores
// @Accept json
// @Produce json
// @Param payload body dto.GestorRequest true "Gestor payload"
// @Success 201 {object} response.Envelope
// @Router /gestores [post]
func (h *GestorHandler) Create(c *gin.Context) {
	var req dto.GestorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	gestor, err := h.gestores.Create(c.Request.Context(), principalFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gestor)
}

// Delete godoc
// @Summary Deactivate branch manager
// @Tags Gestores
// @Param id path int true "Gestor ID"
// @Success 204
// @Router /gestores/{id} [delete]
func (h *GestorHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.gestores.Deactivate(c.Request.Context(), principalFromContext(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
