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

// ResponsavelHandler exposes guardian records to staff.
type ResponsavelHandler struct {
	responsaveis *service.ResponsavelService
}

// NewResponsavelHandler constructs ResponsavelHandler.
func NewResponsavelHandler(responsaveis *service.ResponsavelService) *ResponsavelHandler {
	return &ResponsavelHandler{responsaveis: responsaveis}
}

// List godoc
// @Summary List guardians
// @Description Branch managers only see guardians of students enrolled in their branch.
// @Tags Responsaveis
// @Produce json
// @Param search query string false "Search by name, email or CPF"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /responsaveis [get]
func (h *ResponsavelHandler) List(c *gin.Context) {
	filter := models.ResponsavelFilter{
		FilialID:    queryID(c, "filialId"),
		Search:      strings.TrimSpace(c.Query("search")),
		PageRequest: pageRequest(c),
	}
	items, pagination, err := h.responsaveis.List(c.Request.Context(), principalFromContext(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Get godoc
// @Summary Get guardian
// @Tags Responsaveis
// @Produce json
// @Param id path int true "Responsavel ID"
// @Success 200 {object} response.Envelope
// @Router /responsaveis/{id} [get]
func (h *ResponsavelHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	responsavel, err := h.responsaveis.Get(c.Request.Context(), principalFromContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, responsavel, nil)
}

// Create godoc
// @Summary Create guardian
// @Tags Responsaveis
// @Accept json
// @Produce json
// @Param payload body dto.ResponsavelRequest true "Responsavel payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /responsaveis [post]
func (h *ResponsavelHandler) Create(c *gin.Context) {
	var req dto.ResponsavelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	responsavel, err := h.responsaveis.Create(c.Request.Context(), principalFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, responsavel)
}

// Update godoc
// @Summary Update guardian
// @Tags Responsaveis
// @Accept json
// @Produce json
// @Param id path int true "Responsavel ID"
// @Param payload body dto.ResponsavelUpdateRequest true "Responsavel payload"
// @Success 200 {object} response.Envelope
// @Router /responsaveis/{id} [put]
func (h *ResponsavelHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.ResponsavelUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	responsavel, err := h.responsaveis.Update(c.Request.Context(), principalFromContext(c), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, responsavel, nil)
}

// Me godoc
// @Summary Guardian profile
// @Tags Portal
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /responsavel/me [get]
func (h *ResponsavelHandler) Me(c *gin.Context) {
	responsavel, err := h.responsaveis.Me(c.Request.Context(), principalFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, responsavel, nil)
}

// UpdateContato godoc
// @Summary Update own contact information
// @Tags Portal
// @Accept json
// @Produce json
// @Param payload body dto.ContatoUpdateRequest true "Contact"
// @Success 200 {object} response.Envelope
// @Router /responsavel/contato [put]
func (h *ResponsavelHandler) UpdateContato(c *gin.Context) {
	var req dto.ContatoUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	responsavel, err := h.responsaveis.UpdateContato(c.Request.Context(), principalFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, responsavel, nil)
}
