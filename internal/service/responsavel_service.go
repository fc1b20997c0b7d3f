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

type responsavelStore interface {
	List(ctx context.Context, filter models.ResponsavelFilter) ([]models.Responsavel, int, error)
	FindByID(ctx context.Context, id int64) (*models.Responsavel, error)
	HasAlunoInFilial(ctx context.Context, responsavelID, filialID int64) (bool, error)
	Create(ctx context.Context, responsavel *models.Responsavel) error
	Update(ctx context.Context, responsavel *models.Responsavel) error
}

// ResponsavelService manages guardians for staff and the guardian's own profile.
type ResponsavelService struct {
	repo      responsavelStore
	policy    AccessPolicy
	validator *validator.Validate
	logger    *zap.Logger
}

// NewResponsavelService constructs a ResponsavelService.
func NewResponsavelService(repo responsavelStore, validate *validator.Validate, logger *zap.Logger) *ResponsavelService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResponsavelService{repo: repo, validator: validate, logger: logger}
}

// List returns guardians; managers only see guardians of their branch's students.
func (s *ResponsavelService) List(ctx context.Context, p *models.Principal, filter models.ResponsavelFilter) ([]models.Responsavel, *models.Pagination, error) {
	filialID, err := s.policy.FilialScope(p)
	if err != nil {
		return nil, nil, err
	}
	filter.FilialID = filialID
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "failed to list responsaveis")
	}
	if items == nil {
		items = []models.Responsavel{}
	}
	return items, filter.PageRequest.Pagination(total), nil
}

// Get returns a guardian visible to a staff principal.
func (s *ResponsavelService) Get(ctx context.Context, p *models.Principal, id int64) (*models.Responsavel, error) {
	if err := s.policy.RequireStaff(p); err != nil {
		return nil, err
	}
	responsavel, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "responsavel")
	}
	if p.IsBranchManager() && !p.IsAdmin() {
		ok, err := s.repo.HasAlunoInFilial(ctx, id, p.FilialID)
		if err != nil {
			return nil, internalError(err, "failed to verify responsavel access")
		}
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "responsavel not found")
		}
	}
	return responsavel, nil
}

// Create registers a guardian.
func (s *ResponsavelService) Create(ctx context.Context, p *models.Principal, req dto.ResponsavelRequest) (*models.Responsavel, error) {
	if err := s.policy.RequireStaff(p); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validation.Wrap(err, "invalid responsavel payload")
	}
	responsavel, err := newResponsavel(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, responsavel); err != nil {
		if dup := duplicateError(err, ""); dup != nil {
			return nil, dup
		}
		return nil, internalError(err, "failed to create responsavel")
	}
	return responsavel, nil
}

// Update changes guardian data from the staff side.
func (s *ResponsavelService) Update(ctx context.Context, p *models.Principal, id int64, req dto.ResponsavelUpdateRequest) (*models.Responsavel, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validation.Wrap(err, "invalid responsavel payload")
	}
	responsavel, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if req.Nome != nil {
		responsavel.Nome = *req.Nome
	}
	if req.Email != nil {
		responsavel.Email = *req.Email
	}
	if req.CPF != nil {
		responsavel.CPF = *req.CPF
	}
	if req.Telefone != nil {
		responsavel.Telefone = *req.Telefone
	}
	if req.Endereco != nil {
		responsavel.Endereco = *req.Endereco
	}
	if req.Senha != nil {
		hash, err := HashPassword(*req.Senha)
		if err != nil {
			return nil, internalError(err, "failed to hash password")
		}
		responsavel.SenhaHash = &hash
	}
	return s.save(ctx, responsavel)
}

// Me returns the authenticated guardian's profile.
func (s *ResponsavelService) Me(ctx context.Context, p *models.Principal) (*models.Responsavel, error) {
	if !p.IsGuardian() {
		return nil, appErrors.ErrForbidden
	}
	responsavel, err := s.repo.FindByID(ctx, p.ResponsavelID)
	if err != nil {
		return nil, lookupError(err, "responsavel")
	}
	return responsavel, nil
}

// UpdateContato lets a guardian change their own contact details.
func (s *ResponsavelService) UpdateContato(ctx context.Context, p *models.Principal, req dto.ContatoUpdateRequest) (*models.Responsavel, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validation.Wrap(err, "invalid contato payload")
	}
	responsavel, err := s.Me(ctx, p)
	if err != nil {
		return nil, err
	}
	if req.Telefone != nil {
		responsavel.Telefone = *req.Telefone
	}
	if req.Email != nil {
		responsavel.Email = *req.Email
	}
	if req.Endereco != nil {
		responsavel.Endereco = *req.Endereco
	}
	return s.save(ctx, responsavel)
}

func (s *ResponsavelService) save(ctx context.Context, responsavel *models.Responsavel) (*models.Responsavel, error) {
	if err := s.repo.Update(ctx, responsavel); err != nil {
		if dup := duplicateError(err, ""); dup != nil {
			return nil, dup
		}
		return nil, internalError(err, "failed to update responsavel")
	}
	return responsavel, nil
}
