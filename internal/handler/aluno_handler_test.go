package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/escolinha-api/internal/models"
	appErrors "github.com/noah-isme/escolinha-api/pkg/errors"
)

func TestAlunoHandlerListPassesPrincipalAndFilter(t *testing.T) {
	svc := &fakeAlunoService{items: []models.Aluno{{ID: 1, Nome: "Joao"}}}
	handler := NewAlunoHandler(svc)

	c, rec := newTestContext(testManager)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/alunos?search=%20jo%20&ativo=true&turmaId=4&page=2&limit=10", nil)

	handler.List(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Same(t, testManager, svc.lastPrincipal)
	assert.Equal(t, "jo", svc.lastFilter.Search)
	require.NotNil(t, svc.lastFilter.Ativo)
	assert.True(t, *svc.lastFilter.Ativo)
	require.NotNil(t, svc.lastFilter.TurmaID)
	assert.Equal(t, int64(4), *svc.lastFilter.TurmaID)

	envelope := decodeEnvelope(t, rec)
	require.NotNil(t, envelope.Pagination)
	assert.Equal(t, 2, envelope.Pagination.Page)
	assert.Equal(t, 10, envelope.Pagination.PageSize)
}

func TestAlunoHandlerGetRejectsInvalidID(t *testing.T) {
	handler := NewAlunoHandler(&fakeAlunoService{})

	c, rec := newTestContext(testManager)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/alunos/abc", nil)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	handler.Get(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	envelope := decodeEnvelope(t, rec)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, appErrors.ErrValidation.Code, envelope.Error.Code)
}

func TestAlunoHandlerGetCrossTenantIsNotFound(t *testing.T) {
	handler := NewAlunoHandler(&fakeAlunoService{err: appErrors.Clone(appErrors.ErrNotFound, "aluno not found")})

	c, rec := newTestContext(testManager)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/alunos/9", nil)
	c.Params = gin.Params{{Key: "id", Value: "9"}}

	handler.Get(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAlunoHandlerCreate(t *testing.T) {
	svc := &fakeAlunoService{}
	handler := NewAlunoHandler(svc)

	body, _ := json.Marshal(map[string]interface{}{"nome": "Joao", "filialId": 9})
	c, rec := newTestContext(testManager)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/alunos", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Create(c)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, svc.lastCreate.FilialID)
	assert.Equal(t, int64(9), *svc.lastCreate.FilialID, "the handler forwards the payload; the service stamps the branch")

	var created struct {
		Data models.Aluno `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotNil(t, created.Data.FilialID)
	assert.Equal(t, int64(7), *created.Data.FilialID)
}

func TestAlunoHandlerCreateRejectsMalformedJSON(t *testing.T) {
	svc := &fakeAlunoService{}
	handler := NewAlunoHandler(svc)

	c, rec := newTestContext(testManager)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/alunos", bytes.NewBufferString("{"))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Create(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, svc.lastPrincipal)
}

func TestAlunoHandlerCreateCompletoDuplicate(t *testing.T) {
	duplicate := appErrors.WithDetails(appErrors.Clone(appErrors.ErrDuplicate, "cpf already registered"),
		appErrors.FieldError{Field: "responsavel.cpf", Message: "cpf already registered"})
	svc := &fakeAlunoService{err: duplicate}
	handler := NewAlunoHandler(svc)

	body := `{"aluno":{"nome":"Joao"},"responsavel":{"nome":"Maria","email":"maria@example.com","cpf":"12345678901"}}`
	c, rec := newTestContext(testManager)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/alunos-completo", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.CreateCompleto(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "maria@example.com", svc.lastCompleto.Responsavel.Email)
	envelope := decodeEnvelope(t, rec)
	require.NotNil(t, envelope.Error)
	require.Len(t, envelope.Error.Details, 1)
	assert.Equal(t, "responsavel.cpf", envelope.Error.Details[0].Field)
}

func TestAlunoHandlerPatchAndDelete(t *testing.T) {
	svc := &fakeAlunoService{}
	handler := NewAlunoHandler(svc)

	c, rec := newTestContext(testManager)
	c.Request = httptest.NewRequest(http.MethodPatch, "/api/alunos/5", bytes.NewBufferString(`{"nome":"Novo"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "5"}}
	handler.Update(c)
	require.Equal(t, http.StatusOK, rec.Code)

	c, rec = newTestContext(testManager)
	c.Request = httptest.NewRequest(http.MethodDelete, "/api/alunos/5", nil)
	c.Params = gin.Params{{Key: "id", Value: "5"}}
	handler.Delete(c)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
