package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/escolinha-api/internal/handler"
	"github.com/noah-isme/escolinha-api/internal/repository"
	"github.com/noah-isme/escolinha-api/internal/service"
	"github.com/noah-isme/escolinha-api/pkg/cache"
	"github.com/noah-isme/escolinha-api/pkg/config"
	"github.com/noah-isme/escolinha-api/pkg/database"
	"github.com/noah-isme/escolinha-api/pkg/logger"
	"github.com/noah-isme/escolinha-api/pkg/storage"
	"github.com/noah-isme/escolinha-api/pkg/validation"
)

// @title Escolinha API
// @version 1.0.0
// @description Administration backend for a multi-branch youth football academy.
// @BasePath /api
// @schemes http https

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if err := run(cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db.DB, logr, "up"); err != nil {
			return err
		}
	}

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, report cache disabled", zap.Error(err))
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	blobs, err := storage.NewLocalStorage(cfg.Storage.Dir)
	if err != nil {
		return fmt.Errorf("init photo storage: %w", err)
	}

	var metrics *service.MetricsService
	if cfg.Metrics.Enabled {
		metrics = service.NewMetricsService()
	}
	validate := validation.New()

	admins := repository.NewAdminRepository(db)
	gestores := repository.NewGestorRepository(db)
	filiais := repository.NewFilialRepository(db)
	responsaveis := repository.NewResponsavelRepository(db)
	alunos := repository.NewAlunoRepository(db)
	pagamentos := repository.NewPagamentoRepository(db)
	planos := repository.NewPlanoRepository(db)
	notificacoes := repository.NewNotificacaoRepository(db)
	professores := repository.NewProfessorRepository(db)
	turmas := repository.NewTurmaRepository(db)
	audit := repository.NewAuditRepository(db)
	outbox := repository.NewSyncOutboxRepository(db)

	cacheSvc := service.NewCacheService(repository.NewCacheRepository(redisClient, logr), metrics, cfg.Cache.TTL, logr, cfg.Cache.Enabled && redisClient != nil)
	syncSvc := service.NewSyncService(outbox, logr, cfg.Sync.Enabled)
	dispatcher := service.NewSyncDispatcher(outbox, cacheSvc, metrics, service.SyncDispatcherConfig{
		PollInterval: cfg.Sync.PollInterval,
		BatchSize:    cfg.Sync.BatchSize,
		Workers:      cfg.Sync.Workers,
		MaxRetries:   cfg.Sync.MaxRetries,
	}, logr)

	authSvc := service.NewAuthService(admins, gestores, responsaveis, audit, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	billingSvc := service.NewBillingService(alunos, pagamentos, cacheSvc, service.BillingConfig{
		Location: cfg.Billing.Location(),
		DueDay:   cfg.Billing.DueDay,
		CacheTTL: cfg.Cache.TTL,
	}, logr)
	professorSvc := service.NewProfessorService(professores, validate, logr)
	fotoSvc := service.NewFotoService(alunos, blobs, storage.NewSigner(cfg.Storage.SignedURLSecret, cfg.Storage.SignedURLTTL), service.FotoConfig{
		APIPrefix:    cfg.APIPrefix,
		MaxBytes:     cfg.Storage.MaxPhotoBytes,
		AllowedMIMEs: cfg.Storage.AllowedMIMEs,
	}, logr)

	handlers := routeHandlers{
		auth:         handler.NewAuthHandler(authSvc, logr),
		alunos:       handler.NewAlunoHandler(service.NewAlunoService(alunos, responsaveis, turmas, syncSvc, validate, logr)),
		financeiro:   handler.NewFinanceiroHandler(billingSvc, service.NewPaymentService(alunos, pagamentos, syncSvc, metrics, validate, logr), service.NewExtratoExportService(billingSvc, nil, nil)),
		fotos:        handler.NewFotoHandler(fotoSvc),
		responsaveis: handler.NewResponsavelHandler(service.NewResponsavelService(responsaveis, validate, logr)),
		filiais:      handler.NewFilialHandler(service.NewFilialService(filiais, validate, logr)),
		gestores:     handler.NewGestorHandler(service.NewGestorService(gestores, filiais, validate, logr)),
		professores:  handler.NewProfessorHandler(professorSvc),
		turmas:       handler.NewTurmaHandler(service.NewTurmaService(turmas, professorSvc, validate, logr)),
		planos:       handler.NewPlanoHandler(service.NewPlanService(planos, syncSvc, validate, logr)),
		notificacoes: handler.NewNotificacaoHandler(service.NewNotificationService(responsaveis, billingSvc, notificacoes, metrics, validate, logr)),
		metrics:      handler.NewMetricsHandler(metrics),
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	store := cookie.NewStore([]byte(cfg.Session.Secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.Session.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Session.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	r := newRouter(cfg, logr, routeDeps{
		handlers: handlers,
		sessions: store,
		tokens:   authSvc,
		audit:    audit,
		metrics:  metrics,
	})

	if cfg.Sync.Enabled {
		dispatcher.Start(ctx)
		defer dispatcher.Stop()
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
		logr.Info("shutdown requested")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
		return srv.Close()
	}
	return nil
}
