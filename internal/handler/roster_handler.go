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

// ProfessorHandler exposes coach endpoints.
type ProfessorHandler struct {
	professores *service.ProfessorService
}

// NewProfessorHandler constructs ProfessorHandler.
func NewProfessorHandler(professores *service.ProfessorService) *ProfessorHandler {
	return &ProfessorHandler{professores: professores}
}

func branchFilter(c *gin.Context) models.BranchFilter {
	return models.BranchFilter{
		FilialID: queryID(c, "filialId"),
		Ativo:    queryBool(c, "ativo"),
		Search:   strings.TrimSpace(c.Query("search")),
	}
}

// List godoc
// @Summary List coaches
// @Tags Professores
// @Produce json
// @Param filialId query int false "Filter by branch (admins only)"
// @Param ativo query bool false "Filter by active state"
// @Success 200 {object} response.Envelope
// @Router /professores [get]
func (h *ProfessorHandler) List(c *gin.Context) {
	items, err := h.professores.List(c.Request.Context(), principalFromContext(c), branchFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Get godoc
// @Summary Get coach
// @Tags Professores
// @Produce json
// @Param id path int true "Professor ID"
// @Success 200 {object} response.Envelope
// @Router /professores/{id} [get]
func (h *ProfessorHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	professor, err := h.professores.Get(c.Request.Context(), principalFromContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, professor, nil)
}

// Create godoc
// @Summary Create coach
// @Tags Professores
// @Accept json
// @Produce json
// @Param payload body dto.ProfessorRequest true "Professor payload"
// @Success 201 {object} response.Envelope
// @Router /professores [post]
func (h *ProfessorHandler) Create(c *gin.Context) {
	var req dto.ProfessorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	professor, err := h.professores.Create(c.Request.Context(), principalFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, professor)
}

// Update godoc
// @Summary Update coach
// @Tags Professores
// @Accept json
// @Produce json
// @Param id path int true "Professor ID"
// @Param payload body dto.ProfessorRequest true "Professor payload"
// @Success 200 {object} response.Envelope
// @Router /professores/{id} [put]
func (h *ProfessorHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.ProfessorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	professor, err := h.professores.Update(c.Request.Context(), principalFromContext(c), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, professor, nil)
}

// Delete godoc
// @Summary Deactivate coach
// @Tags Professores
// @Param id path int true "Professor ID"
// @Success 204
// @Router /professores/{id} [delete]
func (h *ProfessorHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.professores.Deactivate(c.Request.Context(), principalFromContext(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// TurmaHandler exposes training group endpoints.
type TurmaHandler struct {
	turmas *service.TurmaService
}

// NewTurmaHandler constructs TurmaHandler.
func NewTurmaHandler(turmas *service.TurmaService) *TurmaHandler {
	return &TurmaHandler{turmas: turmas}
}

// List godoc
// @Summary List training groups
// @Tags Turmas
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /turmas [get]
func (h *TurmaHandler) List(c *gin.Context) {
	items, err := h.turmas.List(c.Request.Context(), principalFromContext(c), branchFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Get godoc
// @Summary Get training group
// @Tags Turmas
// @Produce json
// @Param id path int true "Turma ID"
// @Success 200 {object} response.Envelope
// @Router /turmas/{id} [get]
func (h *TurmaHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	turma, err := h.turmas.Get(c.Request.Context(), principalFromContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, turma, nil)
}

// Create godoc
// @Summary Create training group
// @Tags Turmas
// @Accept json
// @Produce json
// @Param payload body dto.TurmaRequest true "Turma payload"
// @Success 201 {object} response.Envelope
// @Router /turmas [post]
func (h *TurmaHandler) Create(c *gin.Context) {
	var req dto.TurmaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	turma, err := h.turmas.Create(c.Request.Context(), principalFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, turma)
}

// Update godoc
// @Summary Update training group
// @Tags Turmas
// @Accept json
// @Produce json
// @Param id path int true "Turma ID"
// @Param payload body dto.TurmaRequest true "Turma payload"
// @Success 200 {object} response.Envelope
// @Router /turmas/{id} [put]
func (h *TurmaHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.TurmaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	turma, err := h.turmas.Update(c.Request.Context(), principalFromContext(c), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, turma, nil)
}

// Delete godoc
// @Summary Deactivate training group
// @Tags Turmas
// @Param id path int true "Turma ID"
// @Success 204
// @Router /turmas/{id} [delete]
func (h *TurmaHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.turmas.Deactivate(c.Request.Context(), principalFromContext(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
