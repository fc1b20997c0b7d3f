package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/escolinha-api/internal/middleware"
	"github.com/noah-isme/escolinha-api/internal/models"
	"github.com/noah-isme/escolinha-api/internal/service"
	appErrors "github.com/noah-isme/escolinha-api/pkg/errors"
)

func TestFinanceiroHandlerInadimplentesReportsCacheHit(t *testing.T) {
	billing := &fakeBillingService{overdue: []models.Inadimplente{{AlunoID: 1, Nome: "Joao"}}, cacheHit: true}
	handler := NewFinanceiroHandler(billing, &fakePaymentService{}, &fakeExporter{})

	c, rec := newTestContext(testManager)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/financeiro/inadimplentes", nil)
	middleware.WithResponseMeta()(c)

	handler.Inadimplentes(c)

	require.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, true, envelope.Meta["cacheHit"])
	assert.EqualValues(t, 1, envelope.Meta["total"])
	assert.JSONEq(t, `[{"alunoId":1,"nome":"Joao","filialId":null,"responsavelId":null,"status":{"emDia":false}}]`, string(envelope.Data))
}

func TestFinanceiroHandlerStatus(t *testing.T) {
	billing := &fakeBillingService{status: &models.BillingStatus{EmDia: true}}
	handler := NewFinanceiroHandler(billing, &fakePaymentService{}, &fakeExporter{})

	c, rec := newTestContext(testGuardian)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/responsavel/alunos/3/status-financeiro", nil)
	c.Params = gin.Params{{Key: "id", Value: "3"}}

	handler.Status(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(3), billing.lastAluno)
}

func TestFinanceiroHandlerExportExtrato(t *testing.T) {
	exporter := &fakeExporter{file: &service.ExportedFile{
		Filename:    "extrato-aluno-3.csv",
		ContentType: "text/csv; charset=utf-8",
		Body:        []byte("Mes;Valor\n"),
	}}
	handler := NewFinanceiroHandler(&fakeBillingService{}, &fakePaymentService{}, exporter)

	c, rec := newTestContext(testManager)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/alunos/3/extrato/export", nil)
	c.Params = gin.Params{{Key: "id", Value: "3"}}

	handler.ExportExtrato(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.ExportFormatCSV, exporter.lastFormat)
	assert.Equal(t, `attachment; filename="extrato-aluno-3.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "Mes;Valor\n", rec.Body.String())
}

func TestFinanceiroHandlerRegisterLoteConflict(t *testing.T) {
	conflict := appErrors.WithDetails(appErrors.Clone(appErrors.ErrConflict, "months already paid"),
		appErrors.FieldError{Field: "meses", Message: "2024-02"})
	payments := &fakePaymentService{err: conflict}
	handler := NewFinanceiroHandler(&fakeBillingService{}, payments, &fakeExporter{})

	body := `{"alunoId":3,"meses":["2024-01","2024-02"],"valor":"150.00","dataPagamento":"2024-03-01","formaPagamento":"pix"}`
	c, rec := newTestContext(testManager)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/pagamentos/lote", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.RegisterLote(c)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, []string{"2024-01", "2024-02"}, payments.lastBatch.Meses)
	assert.Equal(t, "150", payments.lastBatch.Valor.String())
	envelope := decodeEnvelope(t, rec)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "meses", envelope.Error.Details[0].Field)
}

func TestFinanceiroHandlerRegisterLoteCreated(t *testing.T) {
	payments := &fakePaymentService{batch: &models.BatchPagamentoResult{Count: 2, Meses: []string{"2024-01", "2024-02"}}}
	handler := NewFinanceiroHandler(&fakeBillingService{}, payments, &fakeExporter{})

	body := `{"alunoId":3,"meses":["2024-01","2024-02"],"valor":150,"dataPagamento":"2024-03-01","formaPagamento":"pix"}`
	c, rec := newTestContext(testManager)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/pagamentos/lote", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.RegisterLote(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.JSONEq(t, `{"pagamentos":null,"count":2,"meses":["2024-01","2024-02"]}`, string(envelope.Data))
}

func TestFinanceiroHandlerDeletePagamento(t *testing.T) {
	payments := &fakePaymentService{}
	handler := NewFinanceiroHandler(&fakeBillingService{}, payments, &fakeExporter{})

	c, rec := newTestContext(testManager)
	c.Request = httptest.NewRequest(http.MethodDelete, "/api/pagamentos/12", nil)
	c.Params = gin.Params{{Key: "id", Value: "12"}}

	handler.DeletePagamento(c)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, int64(12), payments.deleted)
}
