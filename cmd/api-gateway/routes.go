package main

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/escolinha-api/api/swagger"
	"github.com/noah-isme/escolinha-api/internal/handler"
	"github.com/noah-isme/escolinha-api/internal/middleware"
	"github.com/noah-isme/escolinha-api/internal/models"
	"github.com/noah-isme/escolinha-api/internal/service"
	"github.com/noah-isme/escolinha-api/pkg/config"
	"github.com/noah-isme/escolinha-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/escolinha-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/escolinha-api/pkg/middleware/requestid"
)

type routeHandlers struct {
	auth         *handler.AuthHandler
	alunos       *handler.AlunoHandler
	financeiro   *handler.FinanceiroHandler
	fotos        *handler.FotoHandler
	responsaveis *handler.ResponsavelHandler
	filiais      *handler.FilialHandler
	gestores     *handler.GestorHandler
	professores  *handler.ProfessorHandler
	turmas       *handler.TurmaHandler
	planos       *handler.PlanoHandler
	notificacoes *handler.NotificacaoHandler
	metrics      *handler.MetricsHandler
}

type routeDeps struct {
	handlers routeHandlers
	sessions sessions.Store
	tokens   middleware.TokenValidator
	audit    middleware.AuditRecorder
	metrics  *service.MetricsService
}

func newRouter(cfg *config.Config, logr *zap.Logger, deps routeDeps) *gin.Engine {
	h := deps.handlers

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.metrics, "/metrics", "/health"))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", h.metrics.Health)
	if cfg.Metrics.Enabled {
		r.GET("/metrics", h.metrics.Prometheus)
	}
	if cfg.Docs.Enabled {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(sessions.Sessions(cfg.Session.Name, deps.sessions))
	api.Use(middleware.ResolvePrincipal(deps.tokens))

	// Public surface: the three login realms and signed photo downloads.
	api.POST("/admin/login", h.auth.LoginAdmin)
	api.POST("/unidade/login", h.auth.LoginGestor)
	api.POST("/responsavel/login", h.auth.LoginResponsavel)
	api.POST("/responsaveis/login", h.auth.LoginResponsavel)
	api.POST("/logout", h.auth.Logout)
	api.GET("/me", h.auth.Me)
	api.GET("/fotos/:token", h.fotos.Download)

	staff := api.Group("", middleware.RequireStaff())
	audited := func(resource string) gin.HandlerFunc {
		return middleware.Audit(deps.audit, resource, logr)
	}

	alunos := staff.Group("/alunos", audited("aluno"))
	alunos.GET("", h.alunos.List)
	alunos.POST("", h.alunos.Create)
	alunos.GET("/:id", h.alunos.Get)
	alunos.PUT("/:id", h.alunos.Update)
	alunos.PATCH("/:id", h.alunos.Update)
	alunos.DELETE("/:id", h.alunos.Delete)
	alunos.GET("/:id/pagamentos", h.financeiro.ListPagamentos)
	alunos.GET("/:id/status-financeiro", h.financeiro.Status)
	alunos.GET("/:id/extrato", h.financeiro.Extrato)
	alunos.GET("/:id/extrato/export", h.financeiro.ExportExtrato)
	alunos.POST("/:id/foto", h.fotos.Upload)
	alunos.GET("/:id/foto-url", h.fotos.URL)
	staff.POST("/alunos-completo", audited("aluno"), h.alunos.CreateCompleto)

	responsaveis := staff.Group("/responsaveis", audited("responsavel"))
	responsaveis.GET("", h.responsaveis.List)
	responsaveis.POST("", h.responsaveis.Create)
	responsaveis.GET("/:id", h.responsaveis.Get)
	responsaveis.PUT("/:id", h.responsaveis.Update)

	pagamentos := staff.Group("/pagamentos", audited("pagamento"))
	pagamentos.POST("", h.financeiro.CreatePagamento)
	pagamentos.POST("/lote", h.financeiro.RegisterLote)
	pagamentos.DELETE("/:id", h.financeiro.DeletePagamento)

	staff.GET("/financeiro/inadimplentes", h.financeiro.Inadimplentes)

	planos := staff.Group("/planos-financeiros", audited("plano_financeiro"))
	planos.GET("", h.planos.List)
	planos.POST("", h.planos.Create)
	planos.POST("/preview", h.planos.Preview)
	planos.GET("/:id", h.planos.Get)
	planos.PUT("/:id", h.planos.Update)
	planos.DELETE("/:id", h.planos.Delete)

	filiais := staff.Group("/filiais", audited("filial"))
	filiais.GET("", h.filiais.List)
	filiais.POST("", h.filiais.Create)
	filiais.GET("/:id", h.filiais.Get)
	filiais.PUT("/:id", h.filiais.Update)
	filiais.DELETE("/:id", h.filiais.Delete)

	professores := staff.Group("/professores", audited("professor"))
	professores.GET("", h.professores.List)
	professores.POST("", h.professores.Create)
	professores.GET("/:id", h.professores.Get)
	professores.PUT("/:id", h.professores.Update)
	professores.DELETE("/:id", h.professores.Delete)

	turmas := staff.Group("/turmas", audited("turma"))
	turmas.GET("", h.turmas.List)
	turmas.POST("", h.turmas.Create)
	turmas.GET("/:id", h.turmas.Get)
	turmas.PUT("/:id", h.turmas.Update)
	turmas.DELETE("/:id", h.turmas.Delete)

	admin := api.Group("", middleware.RequireRealm(models.PrincipalAdmin))
	gestores := admin.Group("/gestores", audited("gestor_unidade"))
	gestores.GET("", h.gestores.List)
	gestores.POST("", h.gestores.Create)
	gestores.DELETE("/:id", h.gestores.Delete)
	admin.POST("/notificacoes/enviar-todos", audited("notificacao"), h.notificacoes.EnviarTodos)
	admin.POST("/notificacoes/enviar-inadimplentes", audited("notificacao"), h.notificacoes.EnviarInadimplentes)
	admin.GET("/admin/metrics", h.metrics.Snapshot)

	portal := api.Group("/responsavel", middleware.RequireRealm(models.PrincipalGuardian))
	portal.GET("/me", h.responsaveis.Me)
	portal.PUT("/contato", h.responsaveis.UpdateContato)
	portal.GET("/alunos", h.alunos.List)
	portal.GET("/alunos/:id", h.alunos.Get)
	portal.GET("/alunos/:id/status-financeiro", h.financeiro.Status)
	portal.GET("/alunos/:id/extrato", h.financeiro.Extrato)
	portal.GET("/alunos/:id/pagamentos", h.financeiro.ListPagamentos)
	portal.POST("/pagamentos", h.financeiro.CreatePagamento)
	portal.GET("/notificacoes", h.notificacoes.Inbox)
	portal.PUT("/notificacoes/:id/lida", h.notificacoes.MarkRead)

	return r
}
