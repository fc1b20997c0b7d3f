package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/escolinha-api/internal/dto"
	"github.com/noah-isme/escolinha-api/internal/models"
	"github.com/noah-isme/escolinha-api/internal/service"
	"github.com/noah-isme/escolinha-api/pkg/response"
)

// FilialHandler exposes branch endpoints.
type FilialHandler struct {
	filiais *service.FilialService
}

// NewFilialHandler constructs FilialHandler.
func NewFilialHandler(filiais *service.FilialService) *FilialHandler {
	return &FilialHandler{filiais: filiais}
}

// List godoc
// @Summary List branches
// @Tags Filiais
// @Produce json
// @Param ativo query bool false "Filter by active state"
// @Param search query string false "Search by name"
// @Success 200 {object} response.Envelope
// @Router /filiais [get]
func (h *FilialHandler) List(c *gin.Context) {
	filter := models.FilialFilter{Ativo: queryBool(c, "ativo"), Search: strings.TrimSpace(c.Query("search"))}
	items, err := h.filiais.List(c.Request.Context(), principalFromContext(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Get godoc
// @Summary Get branch
// @Tags Filiais
// @Produce json
// @Param id path int true "Filial ID"
// @Success 200 {object} response.Envelope
// @Router /filiais/{id} [get]
func (h *FilialHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	filial, err := h.filiais.Get(c.Request.Context(), principalFromContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, filial, nil)
}

// Create godoc
// @Summary Create branch
// @Tags Filiais
// @Accept json
// @Produce json
// @Param payload body dto.FilialRequest true "Filial payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /filiais [post]
func (h *FilialHandler) Create(c *gin.Context) {
	var req dto.FilialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	filial, err := h.filiais.Create(c.Request.Context(), principalFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, filial)
}

// Update godoc
// @Summary Update branch
// @Tags Filiais
// @Accept json
// @Produce json
// @Param id path int true "Filial ID"
// @Param payload body dto.FilialRequest true "Filial payload"
// @Success 200 {object} response.Envelope
// @Router /filiais/{id} [put]
func (h *FilialHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.FilialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	filial, err := h.filiais.Update(c.Request.Context(), principalFromContext(c), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, filial, nil)
}

// Delete godoc
// @Summary Deactivate branch
// @Tags Filiais
// @Param id path int true "Filial ID"
// @Success 204
// @Router /filiais/{id} [delete]
func (h *FilialHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.filiais.Deactivate(c.Request.Context(), principalFromContext(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
