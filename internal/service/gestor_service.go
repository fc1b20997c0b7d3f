package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/escolinha-api/internal/dto"
	"github.com/noah-isme/escolinha-api/internal/models"
	appErrors "github.com/noah-isme/escolinha-api/pkg/errors"
	"github.com/noah-isme/escolinha-api/pkg/validation"
)

type gestorStore interface {
	List(ctx context.Context, filialID *int64) ([]models.GestorUnidade, error)
	Create(ctx context.Context, gestor *models.GestorUnidade) error
	Deactivate(ctx context.Context, id int64) (bool, error)
}

type filialFinder interface {
	FindByID(ctx context.Context, id int64) (*models.Filial, error)
}

// GestorService lets admins manage branch manager accounts.
type GestorService struct {
	repo      gestorStore
	filiais   filialFinder
	policy    AccessPolicy
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGestorService constructs a GestorService.
func NewGestorService(repo gestorStore, filiais filialFinder, validate *validator.Validate, logger *zap.Logger) *GestorService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GestorService{repo: repo, filiais: filiais, validator: validate, logger: logger}
}

// List returns manager accounts, optionally of one branch.
func (s *GestorService) List(ctx context.Context, p *models.Principal, filialID *int64) ([]models.GestorUnidade, error) {
	if err := s.policy.RequireAdmin(p); err != nil {
		return nil, err
	}
	items, err := s.repo.List(ctx, filialID)
	if err != nil {
		return nil, internalError(err, "failed to list gestores")
	}
	if items == nil {
		items = []models.GestorUnidade{}
	}
	return items, nil
}

// Create opens a manager account bound to an existing branch.
func (s *GestorService) Create(ctx context.Context, p *models.Principal, req dto.GestorRequest) (*models.GestorUnidade, error) {
	if err := s.policy.RequireAdmin(p); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validation.Wrap(err, "invalid gestor payload")
	}
	if _, err := s.filiais.FindByID(ctx, req.FilialID); err != nil {
		if isNoRows(err) {
			return nil, validation.Field("invalid gestor payload", "filialId", "filial does not exist")
		}
		return nil, internalError(err, "failed to load filial")
	}
	hash, err := HashPassword(req.Senha)
	if err != nil {
		return nil, internalError(err, "failed to hash password")
	}
	gestor := &models.GestorUnidade{
		Nome:      req.Nome,
		Email:     req.Email,
		SenhaHash: hash,
		FilialID:  req.FilialID,
		Ativo:     true,
	}
	if err := s.repo.Create(ctx, gestor); err != nil {
		if dup := duplicateError(err, ""); dup != nil {
			return nil, dup
		}
		return nil, internalError(err, "failed to create gestor")
	}
	s.logger.Info("gestor created", zap.Int64("gestor_id", gestor.ID), zap.Int64("filial_id", gestor.FilialID))
	return gestor, nil
}

// Deactivate disables a manager login.
func (s *GestorService) Deactivate(ctx context.Context, p *models.Principal, id int64) error {
	if err := s.policy.RequireAdmin(p); err != nil {
		return err
	}
	ok, err := s.repo.Deactivate(ctx, id)
	if err != nil {
		return internalError(err, "failed to deactivate gestor")
	}
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "gestor not found")
	}
	return nil
}
