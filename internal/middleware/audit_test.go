package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/escolinha-api/internal/models"
)

type stubAuditRecorder struct {
	logs []*models.AuditLog
}

func (s *stubAuditRecorder) CreateAuditLog(_ context.Context, log *models.AuditLog) error {
	s.logs = append(s.logs, log)
	return nil
}

func newAuditRouter(recorder AuditRecorder, principal *models.Principal, status int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if principal != nil {
			c.Set(ContextPrincipalKey, principal)
		}
		c.Next()
	})
	group := r.Group("/alunos", Audit(recorder, "aluno", nil))
	group.GET("/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	group.PUT("/:id", func(c *gin.Context) { c.Status(status) })
	return r
}

func TestAuditRecordsSuccessfulStaffWrites(t *testing.T) {
	recorder := &stubAuditRecorder{}
	r := newAuditRouter(recorder, models.NewBranchManagerPrincipal(3, 7, ""), http.StatusOK)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/alunos/42", nil))

	require.Len(t, recorder.logs, 1)
	log := recorder.logs[0]
	assert.Equal(t, models.AuditActionUpdate, log.Action)
	assert.Equal(t, "aluno", log.Resource)
	require.NotNil(t, log.ResourceID)
	assert.Equal(t, "42", *log.ResourceID)
	require.NotNil(t, log.PrincipalID)
	assert.Equal(t, int64(3), *log.PrincipalID)
	assert.Equal(t, string(models.PrincipalBranchManager), *log.PrincipalKind)
}

func TestAuditSkipsReadsFailuresAndGuardians(t *testing.T) {
	recorder := &stubAuditRecorder{}

	r := newAuditRouter(recorder, models.NewAdminPrincipal(1, ""), http.StatusOK)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/alunos/1", nil))

	r = newAuditRouter(recorder, models.NewAdminPrincipal(1, ""), http.StatusNotFound)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPut, "/alunos/1", nil))

	r = newAuditRouter(recorder, models.NewGuardianPrincipal(20, ""), http.StatusOK)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPut, "/alunos/1", nil))

	assert.Empty(t, recorder.logs)
}
