package main

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/noah-isme/escolinha-api/internal/handler"
	"github.com/noah-isme/escolinha-api/internal/models"
	"github.com/noah-isme/escolinha-api/pkg/config"
)

type tokenTable map[string]*models.Principal

func (t tokenTable) ValidateToken(token string) (*models.Principal, error) {
	if p, ok := t[token]; ok {
		return p, nil
	}
	return nil, errors.New("unknown token")
}

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{APIPrefix: "/api", Session: config.SessionConfig{Name: "escolinha_session"}}
	tokens := tokenTable{
		"admin":    models.NewAdminPrincipal(1, "Admin"),
		"gestor":   models.NewBranchManagerPrincipal(3, 7, "Gestor"),
		"guardian": models.NewGuardianPrincipal(20, "Maria"),
	}
	return newRouter(cfg, zap.NewNop(), routeDeps{
		handlers: routeHandlers{
			auth:         handler.NewAuthHandler(nil, nil),
			alunos:       handler.NewAlunoHandler(nil),
			financeiro:   handler.NewFinanceiroHandler(nil, nil, nil),
			fotos:        handler.NewFotoHandler(nil),
			responsaveis: handler.NewResponsavelHandler(nil),
			filiais:      handler.NewFilialHandler(nil),
			gestores:     handler.NewGestorHandler(nil),
			professores:  handler.NewProfessorHandler(nil),
			turmas:       handler.NewTurmaHandler(nil),
			planos:       handler.NewPlanoHandler(nil),
			notificacoes: handler.NewNotificacaoHandler(nil),
			metrics:      handler.NewMetricsHandler(nil),
		},
		sessions: cookie.NewStore([]byte("secret")),
		tokens:   tokens,
	})
}

func TestRouterRealmsDoNotInteroperate(t *testing.T) {
	r := testRouter()

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		status int
	}{
		{name: "anonymous staff route", method: http.MethodGet, path: "/api/alunos", status: http.StatusUnauthorized},
		{name: "guardian on staff route", method: http.MethodGet, path: "/api/alunos", token: "guardian", status: http.StatusForbidden},
		{name: "admin on guardian portal", method: http.MethodGet, path: "/api/responsavel/me", token: "admin", status: http.StatusForbidden},
		{name: "manager on guardian portal", method: http.MethodGet, path: "/api/responsavel/notificacoes", token: "gestor", status: http.StatusForbidden},
		{name: "manager on broadcast", method: http.MethodPost, path: "/api/notificacoes/enviar-todos", token: "gestor", status: http.StatusForbidden},
		{name: "manager on gestores", method: http.MethodGet, path: "/api/gestores", token: "gestor", status: http.StatusForbidden},
		{name: "anonymous portal", method: http.MethodGet, path: "/api/responsavel/alunos", status: http.StatusUnauthorized},
		{name: "unknown token", method: http.MethodGet, path: "/api/filiais", token: "forged", status: http.StatusUnauthorized},
		{name: "health is public", method: http.MethodGet, path: "/health", status: http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}
