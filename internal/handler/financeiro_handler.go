package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/escolinha-api/internal/dto"
	"github.com/noah-isme/escolinha-api/internal/middleware"
	"github.com/noah-isme/escolinha-api/internal/models"
	"github.com/noah-isme/escolinha-api/internal/service"
	"github.com/noah-isme/escolinha-api/pkg/response"
)

type billingService interface {
	Status(ctx context.Context, p *models.Principal, alunoID int64) (*models.BillingStatus, error)
	Extrato(ctx context.Context, p *models.Principal, alunoID int64) (*models.Extrato, error)
	Inadimplentes(ctx context.Context, p *models.Principal) ([]models.Inadimplente, bool, error)
}

type paymentService interface {
	ListByAluno(ctx context.Context, p *models.Principal, alunoID int64) ([]models.Pagamento, error)
	Create(ctx context.Context, p *models.Principal, req dto.PagamentoRequest) (*models.Pagamento, error)
	RegisterBatch(ctx context.Context, p *models.Principal, req dto.BatchPagamentoRequest) (*models.BatchPagamentoResult, error)
	Delete(ctx context.Context, p *models.Principal, id int64) error
}

type extratoExporter interface {
	Export(ctx context.Context, p *models.Principal, alunoID int64, format string) (*service.ExportedFile, error)
}

// FinanceiroHandler exposes billing status, statements and payment registration.
type FinanceiroHandler struct {
	billing    billingService
	pagamentos paymentService
	exporter   extratoExporter
}

// NewFinanceiroHandler constructs FinanceiroHandler.
func NewFinanceiroHandler(billing billingService, pagamentos paymentService, exporter extratoExporter) *FinanceiroHandler {
	return &FinanceiroHandler{billing: billing, pagamentos: pagamentos, exporter: exporter}
}

// Status godoc
// @Summary Billing status of a student
// @Tags Financeiro
// @Produce json
// @Param id path int true "Aluno ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /alunos/{id}/status-financeiro [get]
func (h *FinanceiroHandler) Status(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	status, err := h.billing.Status(c.Request.Context(), principalFromContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}

// Extrato godoc
// @Summary Payment statement of a student
// @Tags Financeiro
// @Produce json
// @Param id path int true "Aluno ID"
// @Success 200 {object} response.Envelope
// @Router /alunos/{id}/extrato [get]
func (h *FinanceiroHandler) Extrato(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	extrato, err := h.billing.Extrato(c.Request.Context(), principalFromContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, extrato, nil)
}

// ExportExtrato godoc
// @Summary Download the payment statement
// @Tags Financeiro
// @Produce text/csv
// @Produce application/pdf
// @Param id path int true "Aluno ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /alunos/{id}/extrato/export [get]
func (h *FinanceiroHandler) ExportExtrato(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.exporter.Export(c.Request.Context(), principalFromContext(c), id, c.DefaultQuery("format", service.ExportFormatCSV))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}

// Inadimplentes godoc
// @Summary Overdue students in scope
// @Tags Financeiro
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /financeiro/inadimplentes [get]
func (h *FinanceiroHandler) Inadimplentes(c *gin.Context) {
	items, hit, err := h.billing.Inadimplentes(c.Request.Context(), principalFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	middleware.SetMeta(c, middleware.MetaTotal, len(items))
	response.JSON(c, http.StatusOK, items, nil, middleware.ExtractMeta(c))
}

// ListPagamentos godoc
// @Summary Payments of a student
// @Tags Pagamentos
// @Produce json
// @Param id path int true "Aluno ID"
// @Success 200 {object} response.Envelope
// @Router /alunos/{id}/pagamentos [get]
func (h *FinanceiroHandler) ListPagamentos(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	items, err := h.pagamentos.ListByAluno(c.Request.Context(), principalFromContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// CreatePagamento godoc
// @Summary Register one payment
// @Tags Pagamentos
// @Accept json
// @Produce json
// @Param payload body dto.PagamentoRequest true "Payment"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /pagamentos [post]
func (h *FinanceiroHandler) CreatePagamento(c *gin.Context) {
	var req dto.PagamentoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	pagamento, err := h.pagamentos.Create(c.Request.Context(), principalFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, pagamento)
}

// RegisterLote godoc
// @Summary Register one payment per month in a single atomic batch
// @Tags Pagamentos
// @Accept json
// @Produce json
// @Param payload body dto.BatchPagamentoRequest true "Batch"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /pagamentos/lote [post]
func (h *FinanceiroHandler) RegisterLote(c *gin.Context) {
	var req dto.BatchPagamentoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	result, err := h.pagamentos.RegisterBatch(c.Request.Context(), principalFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// DeletePagamento godoc
// @Summary Delete a payment
// @Tags Pagamentos
// @Param id path int true "Pagamento ID"
// @Success 204
// @Router /pagamentos/{id} [delete]
func (h *FinanceiroHandler) DeletePagamento(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.pagamentos.Delete(c.Request.Context(), principalFromContext(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
