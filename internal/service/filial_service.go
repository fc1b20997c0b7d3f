package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/escolinha-api/internal/dto"
	"github.com/noah-isme/escolinha-api/internal/models"
	"github.com/noah-isme/escolinha-api/internal/repository"
	appErrors "github.com/noah-isme/escolinha-api/pkg/errors"
	"github.com/noah-isme/escolinha-api/pkg/validation"
)

const matrizConstraint = "uq_filiais_matriz"

type filialStore interface {
	List(ctx context.Context, filter models.FilialFilter) ([]models.Filial, error)
	FindByID(ctx context.Context, id int64) (*models.Filial, error)
	Create(ctx context.Context, filial *models.Filial) error
	Update(ctx context.Context, filial *models.Filial) error
	Deactivate(ctx context.Context, id int64) error
}

// FilialService manages branches. Only admins write; managers read their own branch.
type FilialService struct {
	repo      filialStore
	policy    AccessPolicy
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFilialService constructs a FilialService.
func NewFilialService(repo filialStore, validate *validator.Validate, logger *zap.Logger) *FilialService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FilialService{repo: repo, validator: validate, logger: logger}
}

// List returns all branches for admins and only the own branch for managers.
func (s *FilialService) List(ctx context.Context, p *models.Principal, filter models.FilialFilter) ([]models.Filial, error) {
	filialID, err := s.policy.FilialScope(p)
	if err != nil {
		return nil, err
	}
	if filialID != nil {
		filter.IDs = []int64{*filialID}
	}
	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, internalError(err, "failed to list filiais")
	}
	if items == nil {
		items = []models.Filial{}
	}
	return items, nil
}

// Get returns one branch.
func (s *FilialService) Get(ctx context.Context, p *models.Principal, id int64) (*models.Filial, error) {
	if err := s.policy.CheckFilial(p, &id); err != nil {
		if appErrors.FromError(err).Code == appErrors.ErrNotFound.Code {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "filial not found")
		}
		return nil, err
	}
	filial, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "filial")
	}
	return filial, nil
}

// Create registers a branch. A second headquarters is rejected with a conflict.
func (s *FilialService) Create(ctx context.Context, p *models.Principal, req dto.FilialRequest) (*models.Filial, error) {
	if err := s.policy.RequireAdmin(p); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validation.Wrap(err, "invalid filial payload")
	}
	filial := &models.Filial{
		Nome:     req.Nome,
		Endereco: req.Endereco,
		Telefone: req.Telefone,
		IsMatriz: req.IsMatriz,
		Ativo:    req.Ativo == nil || *req.Ativo,
	}
	if err := s.repo.Create(ctx, filial); err != nil {
		return nil, filialWriteError(err, "failed to create filial")
	}
	s.logger.Info("filial created", zap.Int64("filial_id", filial.ID), zap.Bool("matriz", filial.IsMatriz))
	return filial, nil
}

// Update replaces a branch's data.
func (s *FilialService) Update(ctx context.Context, p *models.Principal, id int64, req dto.FilialRequest) (*models.Filial, error) {
	if err := s.policy.RequireAdmin(p); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validation.Wrap(err, "invalid filial payload")
	}
	filial, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "filial")
	}
	filial.Nome = req.Nome
	filial.Endereco = req.Endereco
	filial.Telefone = req.Telefone
	filial.IsMatriz = req.IsMatriz
	if req.Ativo != nil {
		filial.Ativo = *req.Ativo
	}
	if err := s.repo.Update(ctx, filial); err != nil {
		return nil, filialWriteError(err, "failed to update filial")
	}
	return filial, nil
}

// Deactivate archives a branch.
func (s *FilialService) Deactivate(ctx context.Context, p *models.Principal, id int64) error {
	if err := s.policy.RequireAdmin(p); err != nil {
		return err
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return lookupError(err, "filial")
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return internalError(err, "failed to deactivate filial")
	}
	return nil
}

func filialWriteError(err error, message string) error {
	if constraint, ok := repository.UniqueViolation(err); ok && constraint == matrizConstraint {
		return appErrors.WithDetails(
			appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "a matriz already exists"),
			appErrors.FieldError{Field: "isMatriz", Message: "only one filial can be the matriz"},
		)
	}
	return internalError(err, message)
}
