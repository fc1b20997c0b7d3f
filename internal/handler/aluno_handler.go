package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/escolinha-api/internal/dto"
	"github.com/noah-isme/escolinha-api/internal/models"
	"github.com/noah-isme/escolinha-api/pkg/response"
)

type alunoService interface {
	List(ctx context.Context, p *models.Principal, filter models.AlunoFilter) ([]models.Aluno, *models.Pagination, error)
	Get(ctx context.Context, p *models.Principal, id int64) (*models.Aluno, error)
	Create(ctx context.Context, p *models.Principal, req dto.AlunoRequest) (*models.Aluno, error)
	CreateCompleto(ctx context.Context, p *models.Principal, req dto.AlunoCompletoRequest) (*models.Aluno, error)
	Update(ctx context.Context, p *models.Principal, id int64, req dto.AlunoUpdateRequest) (*models.Aluno, error)
	Deactivate(ctx context.Context, p *models.Principal, id int64) error
}

// AlunoHandler exposes student endpoints.
type AlunoHandler struct {
	alunos alunoService
}

// NewAlunoHandler constructs AlunoHandler.
func NewAlunoHandler(alunos alunoService) *AlunoHandler {
	return &AlunoHandler{alunos: alunos}
}

// List godoc
// @Summary List students
// @Description Staff see the students of their scope; guardians see their own.
// @Tags Alunos
// @Produce json
// @Param search query string false "Search by name or CPF"
// @Param turmaId query int false "Filter by training group"
// @Param ativo query bool false "Filter by active state"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /alunos [get]
func (h *AlunoHandler) List(c *gin.Context) {
	filter := models.AlunoFilter{
		TurmaID:     queryID(c, "turmaId"),
		Ativo:       queryBool(c, "ativo"),
		Search:      strings.TrimSpace(c.Query("search")),
		PageRequest: pageRequest(c),
	}
	alunos, pagination, err := h.alunos.List(c.Request.Context(), principalFromContext(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, alunos, pagination)
}

// Get godoc
// @Summary Get student detail
// @Tags Alunos
// @Produce json
// @Param id path int true "Aluno ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /alunos/{id} [get]
func (h *AlunoHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	aluno, err := h.alunos.Get(c.Request.Context(), principalFromContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, aluno, nil)
}

// Create godoc
// @Summary Create student
// @Tags Alunos
// @Accept json
// @Produce json
// @Param payload body dto.AlunoRequest true "Aluno payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /alunos [post]
func (h *AlunoHandler) Create(c *gin.Context) {
	var req dto.AlunoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	aluno, err := h.alunos.Create(c.Request.Context(), principalFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, aluno)
}

// CreateCompleto godoc
// @Summary Enroll a student together with a new guardian
// @Tags Alunos
// @Accept json
// @Produce json
// @Param payload body dto.AlunoCompletoRequest true "Guardian and student"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /alunos-completo [post]
func (h *AlunoHandler) CreateCompleto(c *gin.Context) {
	var req dto.AlunoCompletoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	aluno, err := h.alunos.CreateCompleto(c.Request.Context(), principalFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, aluno)
}

// Update godoc
// @Summary Update student
// @Description PUT and PATCH both apply only the fields present in the body.
// @Tags Alunos
// @Accept json
// @Produce json
// @Param id path int true "Aluno ID"
// @Param payload body dto.AlunoUpdateRequest true "Aluno payload"
// @Success 200 {object} response.Envelope
// @Router /alunos/{id} [put]
func (h *AlunoHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.AlunoUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	aluno, err := h.alunos.Update(c.Request.Context(), principalFromContext(c), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, aluno, nil)
}

// Delete godoc
// @Summary Deactivate student
// @Tags Alunos
// @Param id path int true "Aluno ID"
// @Success 204
// @Router /alunos/{id} [delete]
func (h *AlunoHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.alunos.Deactivate(c.Request.Context(), principalFromContext(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
