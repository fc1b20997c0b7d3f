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

type professorStore interface {
	List(ctx context.Context, filter models.BranchFilter) ([]models.Professor, error)
	FindByID(ctx context.Context, id int64) (*models.Professor, error)
	Create(ctx context.Context, p *models.Professor) error
	Update(ctx context.Context, p *models.Professor) error
	Deactivate(ctx context.Context, id int64) error
}

type turmaStore interface {
	List(ctx context.Context, filter models.BranchFilter) ([]models.Turma, error)
	FindByID(ctx context.Context, id int64) (*models.Turma, error)
	Create(ctx context.Context, t *models.Turma) error
	Update(ctx context.Context, t *models.Turma) error
	Deactivate(ctx context.Context, id int64) error
}

// ProfessorService manages coaches inside the caller's tenant.
type ProfessorService struct {
	repo      professorStore
	policy    AccessPolicy
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProfessorService constructs a ProfessorService.
func NewProfessorService(repo professorStore, validate *validator.Validate, logger *zap.Logger) *ProfessorService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfessorService{repo: repo, validator: validate, logger: logger}
}

// List returns coaches of the visible branches.
func (s *ProfessorService) List(ctx context.Context, p *models.Principal, filter models.BranchFilter) ([]models.Professor, error) {
	filialID, err := s.policy.FilialScope(p)
	if err != nil {
		return nil, err
	}
	if filialID != nil {
		filter.FilialID = filialID
	}
	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, internalError(err, "failed to list professores")
	}
	if items == nil {
		items = []models.Professor{}
	}
	return items, nil
}

// Get returns a coach of a visible branch.
func (s *ProfessorService) Get(ctx context.Context, p *models.Principal, id int64) (*models.Professor, error) {
	if err := s.policy.RequireStaff(p); err != nil {
		return nil, err
	}
	professor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "professor")
	}
	if err := s.policy.CheckFilial(p, professor.FilialID); err != nil {
		return nil, appErrors.Clone(appErrors.FromError(err), "professor not found")
	}
	return professor, nil
}

// Create registers a coach.
func (s *ProfessorService) Create(ctx context.Context, p *models.Principal, req dto.ProfessorRequest) (*models.Professor, error) {
	if err := s.policy.RequireStaff(p); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validation.Wrap(err, "invalid professor payload")
	}
	professor := &models.Professor{Ativo: true}
	applyProfessor(professor, req)
	professor.FilialID = s.policy.StampFilial(p, req.FilialID)
	if err := s.repo.Create(ctx, professor); err != nil {
		return nil, internalError(err, "failed to create professor")
	}
	return professor, nil
}

// Update replaces a coach's data.
func (s *ProfessorService) Update(ctx context.Context, p *models.Principal, id int64, req dto.ProfessorRequest) (*models.Professor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validation.Wrap(err, "invalid professor payload")
	}
	professor, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}
	applyProfessor(professor, req)
	if req.FilialID != nil {
		professor.FilialID = req.FilialID
	}
	professor.FilialID = s.policy.StampFilial(p, professor.FilialID)
	if err := s.repo.Update(ctx, professor); err != nil {
		return nil, internalError(err, "failed to update professor")
	}
	return professor, nil
}

// Deactivate archives a coach.
func (s *ProfessorService) Deactivate(ctx context.Context, p *models.Principal, id int64) error {
	if _, err := s.Get(ctx, p, id); err != nil {
		return err
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return internalError(err, "failed to deactivate professor")
	}
	return nil
}

func applyProfessor(professor *models.Professor, req dto.ProfessorRequest) {
	professor.Nome = req.Nome
	professor.Email = req.Email
	professor.Telefone = req.Telefone
	professor.Especialidade = req.Especialidade
	if req.Ativo != nil {
		professor.Ativo = *req.Ativo
	}
}

// TurmaService manages training groups inside the caller's tenant.
type TurmaService struct {
	repo       turmaStore
	professors *ProfessorService
	policy     AccessPolicy
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewTurmaService constructs a TurmaService. The professor service checks that
// an assigned coach is visible to the caller.
func NewTurmaService(repo turmaStore, professors *ProfessorService, validate *validator.Validate, logger *zap.Logger) *TurmaService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TurmaService{repo: repo, professors: professors, validator: validate, logger: logger}
}

// List returns groups of the visible branches.
func (s *TurmaService) List(ctx context.Context, p *models.Principal, filter models.BranchFilter) ([]models.Turma, error) {
	filialID, err := s.policy.FilialScope(p)
	if err != nil {
		return nil, err
	}
	if filialID != nil {
		filter.FilialID = filialID
	}
	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, internalError(err, "failed to list turmas")
	}
	if items == nil {
		items = []models.Turma{}
	}
	return items, nil
}

// Get returns a group of a visible branch.
func (s *TurmaService) Get(ctx context.Context, p *models.Principal, id int64) (*models.Turma, error) {
	if err := s.policy.RequireStaff(p); err != nil {
		return nil, err
	}
	turma, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "turma")
	}
	if err := s.policy.CheckFilial(p, turma.FilialID); err != nil {
		return nil, appErrors.Clone(appErrors.FromError(err), "turma not found")
	}
	return turma, nil
}

// Create registers a group.
func (s *TurmaService) Create(ctx context.Context, p *models.Principal, req dto.TurmaRequest) (*models.Turma, error) {
	if err := s.policy.RequireStaff(p); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validation.Wrap(err, "invalid turma payload")
	}
	if err := s.checkProfessor(ctx, p, req.ProfessorID); err != nil {
		return nil, err
	}
	turma := &models.Turma{Ativo: true}
	applyTurma(turma, req)
	turma.FilialID = s.policy.StampFilial(p, req.FilialID)
	if err := s.repo.Create(ctx, turma); err != nil {
		return nil, internalError(err, "failed to create turma")
	}
	return turma, nil
}

// Update replaces a group's data.
func (s *TurmaService) Update(ctx context.Context, p *models.Principal, id int64, req dto.TurmaRequest) (*models.Turma, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validation.Wrap(err, "invalid turma payload")
	}
	turma, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkProfessor(ctx, p, req.ProfessorID); err != nil {
		return nil, err
	}
	applyTurma(turma, req)
	if req.FilialID != nil {
		turma.FilialID = req.FilialID
	}
	turma.FilialID = s.policy.StampFilial(p, turma.FilialID)
	if err := s.repo.Update(ctx, turma); err != nil {
		return nil, internalError(err, "failed to update turma")
	}
	return turma, nil
}

// Deactivate archives a group.
func (s *TurmaService) Deactivate(ctx context.Context, p *models.Principal, id int64) error {
	if _, err := s.Get(ctx, p, id); err != nil {
		return err
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return internalError(err, "failed to deactivate turma")
	}
	return nil
}

func (s *TurmaService) checkProfessor(ctx context.Context, p *models.Principal, professorID *int64) error {
	if professorID == nil || s.professors == nil {
		return nil
	}
	if _, err := s.professors.Get(ctx, p, *professorID); err != nil {
		if appErrors.FromError(err).Code == appErrors.ErrNotFound.Code {
			return validation.Field("invalid turma payload", "professorId", "professor not found")
		}
		return err
	}
	return nil
}

func applyTurma(turma *models.Turma, req dto.TurmaRequest) {
	turma.Nome = req.Nome
	turma.Categoria = req.Categoria
	turma.Horario = req.Horario
	turma.ProfessorID = req.ProfessorID
	if req.Ativo != nil {
		turma.Ativo = *req.Ativo
	}
}
