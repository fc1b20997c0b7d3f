package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/escolinha-api/internal/dto"
	"github.com/noah-isme/escolinha-api/internal/middleware"
	"github.com/noah-isme/escolinha-api/internal/models"
	"github.com/noah-isme/escolinha-api/internal/service"
	appErrors "github.com/noah-isme/escolinha-api/pkg/errors"
)

var (
	testManager  = models.NewBranchManagerPrincipal(3, 7, "Gestor")
	testGuardian = models.NewGuardianPrincipal(20, "Maria")
)

type responseEnvelope struct {
	Data       json.RawMessage        `json:"data"`
	Error      *appErrors.Error       `json:"error"`
	Pagination *models.Pagination     `json:"pagination"`
	Meta       map[string]interface{} `json:"meta"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) responseEnvelope {
	t.Helper()
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

func newTestContext(principal *models.Principal) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	if principal != nil {
		c.Set(middleware.ContextPrincipalKey, principal)
	}
	return c, rec
}

type fakeAlunoService struct {
	lastPrincipal *models.Principal
	lastFilter    models.AlunoFilter
	lastCreate    dto.AlunoRequest
	lastCompleto  dto.AlunoCompletoRequest
	items         []models.Aluno
	err           error
}

func (f *fakeAlunoService) List(_ context.Context, p *models.Principal, filter models.AlunoFilter) ([]models.Aluno, *models.Pagination, error) {
	f.lastPrincipal = p
	f.lastFilter = filter
	return f.items, filter.Pagination(len(f.items)), f.err
}

func (f *fakeAlunoService) Get(_ context.Context, p *models.Principal, id int64) (*models.Aluno, error) {
	f.lastPrincipal = p
	if f.err != nil {
		return nil, f.err
	}
	return &models.Aluno{ID: id, Nome: "Joao"}, nil
}

func (f *fakeAlunoService) Create(_ context.Context, p *models.Principal, req dto.AlunoRequest) (*models.Aluno, error) {
	f.lastPrincipal = p
	f.lastCreate = req
	if f.err != nil {
		return nil, f.err
	}
	filialID := p.FilialID
	return &models.Aluno{ID: 100, Nome: req.Nome, FilialID: &filialID}, nil
}

func (f *fakeAlunoService) CreateCompleto(_ context.Context, p *models.Principal, req dto.AlunoCompletoRequest) (*models.Aluno, error) {
	f.lastPrincipal = p
	f.lastCompleto = req
	if f.err != nil {
		return nil, f.err
	}
	responsavelID := int64(55)
	return &models.Aluno{ID: 101, Nome: req.Aluno.Nome, ResponsavelID: &responsavelID}, nil
}

func (f *fakeAlunoService) Update(_ context.Context, p *models.Principal, id int64, req dto.AlunoUpdateRequest) (*models.Aluno, error) {
	f.lastPrincipal = p
	if f.err != nil {
		return nil, f.err
	}
	aluno := &models.Aluno{ID: id}
	if req.Nome != nil {
		aluno.Nome = *req.Nome
	}
	return aluno, nil
}

func (f *fakeAlunoService) Deactivate(_ context.Context, p *models.Principal, _ int64) error {
	f.lastPrincipal = p
	return f.err
}

type fakeBillingService struct {
	status    *models.BillingStatus
	extrato   *models.Extrato
	overdue   []models.Inadimplente
	cacheHit  bool
	err       error
	lastAluno int64
}

func (f *fakeBillingService) Status(_ context.Context, _ *models.Principal, alunoID int64) (*models.BillingStatus, error) {
	f.lastAluno = alunoID
	return f.status, f.err
}

func (f *fakeBillingService) Extrato(_ context.Context, _ *models.Principal, alunoID int64) (*models.Extrato, error) {
	f.lastAluno = alunoID
	return f.extrato, f.err
}

func (f *fakeBillingService) Inadimplentes(context.Context, *models.Principal) ([]models.Inadimplente, bool, error) {
	return f.overdue, f.cacheHit, f.err
}

type fakePaymentService struct {
	batch     *models.BatchPagamentoResult
	err       error
	lastBatch dto.BatchPagamentoRequest
	deleted   int64
}

func (f *fakePaymentService) ListByAluno(context.Context, *models.Principal, int64) ([]models.Pagamento, error) {
	return []models.Pagamento{}, f.err
}

func (f *fakePaymentService) Create(_ context.Context, _ *models.Principal, req dto.PagamentoRequest) (*models.Pagamento, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Pagamento{ID: 1, AlunoID: req.AlunoID, MesReferencia: req.MesReferencia}, nil
}

func (f *fakePaymentService) RegisterBatch(_ context.Context, _ *models.Principal, req dto.BatchPagamentoRequest) (*models.BatchPagamentoResult, error) {
	f.lastBatch = req
	return f.batch, f.err
}

func (f *fakePaymentService) Delete(_ context.Context, _ *models.Principal, id int64) error {
	f.deleted = id
	return f.err
}

type fakeExporter struct {
	file       *service.ExportedFile
	err        error
	lastFormat string
}

func (f *fakeExporter) Export(_ context.Context, _ *models.Principal, _ int64, format string) (*service.ExportedFile, error) {
	f.lastFormat = format
	return f.file, f.err
}
