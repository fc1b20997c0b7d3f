package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/escolinha-api/internal/dto"
	"github.com/noah-isme/escolinha-api/internal/models"
	appErrors "github.com/noah-isme/escolinha-api/pkg/errors"
	"github.com/noah-isme/escolinha-api/pkg/validation"
)

type responsavelIDLister interface {
	ListActiveIDs(ctx context.Context) ([]int64, error)
}

type overdueFinder interface {
	Overdue(ctx context.Context, scope models.Scope) ([]models.Inadimplente, error)
}

type notificacaoStore interface {
	CreateBatch(ctx context.Context, responsavelIDs []int64, titulo, mensagem, tipo, loteID string) (int, error)
	ListByResponsavel(ctx context.Context, responsavelID int64, unreadOnly bool) ([]models.Notificacao, error)
	MarkRead(ctx context.Context, id, responsavelID int64) (bool, error)
}

// NotificationService fans messages out to guardians.
type NotificationService struct {
	responsaveis responsavelIDLister
	overdue      overdueFinder
	repo         notificacaoStore
	metrics      *MetricsService
	policy       AccessPolicy
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewNotificationService constructs a NotificationService.
func NewNotificationService(responsaveis responsavelIDLister, overdue overdueFinder, repo notificacaoStore, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *NotificationService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{responsaveis: responsaveis, overdue: overdue, repo: repo, metrics: metrics, validator: validate, logger: logger}
}

// BroadcastAll sends the message to every active guardian.
func (s *NotificationService) BroadcastAll(ctx context.Context, p *models.Principal, req dto.BroadcastRequest) (*models.BroadcastResult, error) {
	if err := s.prepare(p, &req, models.NotificacaoGeral); err != nil {
		return nil, err
	}
	ids, err := s.responsaveis.ListActiveIDs(ctx)
	if err != nil {
		return nil, internalError(err, "failed to list responsaveis")
	}
	return s.deliver(ctx, ids, req, "notificações enviadas para todos os responsáveis")
}

// BroadcastOverdue sends the message once to each guardian with at least one
// overdue student, however many of their students are overdue.
func (s *NotificationService) BroadcastOverdue(ctx context.Context, p *models.Principal, req dto.BroadcastRequest) (*models.BroadcastResult, error) {
	if err := s.prepare(p, &req, models.NotificacaoInadimplente); err != nil {
		return nil, err
	}
	overdue, err := s.overdue.Overdue(ctx, models.Scope{})
	if err != nil {
		return nil, err
	}
	seen := make(map[int64]struct{}, len(overdue))
	ids := make([]int64, 0, len(overdue))
	for _, item := range overdue {
		if item.ResponsavelID == nil {
			continue
		}
		if _, dup := seen[*item.ResponsavelID]; dup {
			continue
		}
		seen[*item.ResponsavelID] = struct{}{}
		ids = append(ids, *item.ResponsavelID)
	}
	return s.deliver(ctx, ids, req, "notificações enviadas para responsáveis inadimplentes")
}

// ListForGuardian returns the guardian's own notifications.
func (s *NotificationService) ListForGuardian(ctx context.Context, p *models.Principal, unreadOnly bool) ([]models.Notificacao, error) {
	if !p.IsGuardian() {
		return nil, appErrors.ErrForbidden
	}
	items, err := s.repo.ListByResponsavel(ctx, p.ResponsavelID, unreadOnly)
	if err != nil {
		return nil, internalError(err, "failed to list notificacoes")
	}
	if items == nil {
		items = []models.Notificacao{}
	}
	return items, nil
}

// MarkRead flags one of the guardian's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, p *models.Principal, id int64) error {
	if !p.IsGuardian() {
		return appErrors.ErrForbidden
	}
	ok, err := s.repo.MarkRead(ctx, id, p.ResponsavelID)
	if err != nil {
		return internalError(err, "failed to update notificacao")
	}
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "notificacao not found")
	}
	return nil
}

func (s *NotificationService) prepare(p *models.Principal, req *dto.BroadcastRequest, defaultTipo string) error {
	if err := s.policy.RequireAdmin(p); err != nil {
		return err
	}
	if err := s.validator.Struct(req); err != nil {
		return validation.Wrap(err, "invalid notificacao payload")
	}
	if req.Tipo == "" {
		req.Tipo = defaultTipo
	}
	return nil
}

func (s *NotificationService) deliver(ctx context.Context, ids []int64, req dto.BroadcastRequest, message string) (*models.BroadcastResult, error) {
	loteID := uuid.NewString()
	count, err := s.repo.CreateBatch(ctx, ids, req.Titulo, req.Mensagem, req.Tipo, loteID)
	if err != nil {
		return nil, internalError(err, "failed to create notificacoes")
	}
	s.metrics.RecordNotificacoes(req.Tipo, count)
	s.logger.Info("notification broadcast", zap.String("lote_id", loteID), zap.String("tipo", req.Tipo), zap.Int("count", count))
	return &models.BroadcastResult{Message: fmt.Sprintf("%d %s", count, message), Count: count, LoteID: loteID}, nil
}
