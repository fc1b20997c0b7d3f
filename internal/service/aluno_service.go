package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/escolinha-api/internal/dto"
	"github.com/noah-isme/escolinha-api/internal/models"
	"github.com/noah-isme/escolinha-api/internal/repository"
	appErrors "github.com/noah-isme/escolinha-api/pkg/errors"
	"github.com/noah-isme/escolinha-api/pkg/validation"
)

type alunoStore interface {
	List(ctx context.Context, filter models.AlunoFilter) ([]models.Aluno, int, error)
	FindByID(ctx context.Context, id int64) (*models.Aluno, error)
	Create(ctx context.Context, aluno *models.Aluno) error
	CreateWithResponsavel(ctx context.Context, responsavel *models.Responsavel, aluno *models.Aluno) error
	Update(ctx context.Context, aluno *models.Aluno) error
	Deactivate(ctx context.Context, id int64) error
}

// responsavelLinks answers which branches a guardian already belongs to.
type responsavelLinks interface {
	FindByID(ctx context.Context, id int64) (*models.Responsavel, error)
	HasAlunoInFilial(ctx context.Context, responsavelID, filialID int64) (bool, error)
	HasAlunos(ctx context.Context, responsavelID int64) (bool, error)
}

type turmaFinder interface {
	FindByID(ctx context.Context, id int64) (*models.Turma, error)
}

// AlunoService implements student enrollment and maintenance.
type AlunoService struct {
	repo         alunoStore
	responsaveis responsavelLinks
	turmas       turmaFinder
	sync         *SyncService
	policy    AccessPolicy
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAlunoService constructs an AlunoService. Guardian and turma lookups keep
// a manager from linking a student to another branch's records.
func NewAlunoService(repo alunoStore, responsaveis responsavelLinks, turmas turmaFinder, sync *SyncService, validate *validator.Validate, logger *zap.Logger) *AlunoService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AlunoService{repo: repo, responsaveis: responsaveis, turmas: turmas, sync: sync, validator: validate, logger: logger}
}

// List returns the students visible to the principal. The tenant scope always
// replaces whatever scope the caller passed in.
func (s *AlunoService) List(ctx context.Context, p *models.Principal, filter models.AlunoFilter) ([]models.Aluno, *models.Pagination, error) {
	scope, err := s.policy.StudentScope(p)
	if err != nil {
		return nil, nil, err
	}
	filter.Scope = scope
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "failed to list alunos")
	}
	if items == nil {
		items = []models.Aluno{}
	}
	return items, filter.PageRequest.Pagination(total), nil
}

// Get returns one student visible to the principal.
func (s *AlunoService) Get(ctx context.Context, p *models.Principal, id int64) (*models.Aluno, error) {
	if p.IsAnonymous() {
		return nil, appErrors.ErrUnauthorized
	}
	aluno, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "aluno")
	}
	if err := s.policy.CheckStudent(p, aluno); err != nil {
		return nil, err
	}
	return aluno, nil
}

// Create enrolls a student. Managers always enroll into their own branch.
func (s *AlunoService) Create(ctx context.Context, p *models.Principal, req dto.AlunoRequest) (*models.Aluno, error) {
	if err := s.policy.RequireStaff(p); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validation.Wrap(err, "invalid aluno payload")
	}
	if err := s.checkResponsavel(ctx, p, req.ResponsavelID); err != nil {
		return nil, err
	}
	if err := s.checkTurma(ctx, p, req.TurmaID, ""); err != nil {
		return nil, err
	}
	aluno := newAluno(req, s.policy.StampFilial(p, req.FilialID))
	if err := s.repo.Create(ctx, aluno); err != nil {
		return nil, internalError(err, "failed to create aluno")
	}
	s.sync.Record(ctx, models.SyncEntityAluno, aluno.ID, models.SyncActionCreated, aluno.FilialID, aluno)
	return aluno, nil
}

// CreateCompleto creates a guardian and their student in one transaction.
// Duplicate guardian email or CPF is reported as a 400 duplicate error.
func (s *AlunoService) CreateCompleto(ctx context.Context, p *models.Principal, req dto.AlunoCompletoRequest) (*models.Aluno, error) {
	if err := s.policy.RequireStaff(p); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validation.Wrap(err, "invalid cadastro payload")
	}
	if err := s.checkTurma(ctx, p, req.Aluno.TurmaID, "aluno."); err != nil {
		return nil, err
	}
	responsavel, err := newResponsavel(req.Responsavel)
	if err != nil {
		return nil, err
	}
	aluno := newAluno(req.Aluno, s.policy.StampFilial(p, req.Aluno.FilialID))
	if err := s.repo.CreateWithResponsavel(ctx, responsavel, aluno); err != nil {
		if dup := duplicateError(err, "responsavel."); dup != nil {
			return nil, dup
		}
		return nil, internalError(err, "failed to create aluno")
	}
	s.logger.Info("aluno enrolled with responsavel", zap.Int64("aluno_id", aluno.ID), zap.Int64("responsavel_id", responsavel.ID))
	s.sync.Record(ctx, models.SyncEntityAluno, aluno.ID, models.SyncActionCreated, aluno.FilialID, aluno)
	return aluno, nil
}

// Update applies the fields present in req.
func (s *AlunoService) Update(ctx context.Context, p *models.Principal, id int64, req dto.AlunoUpdateRequest) (*models.Aluno, error) {
	if err := s.policy.RequireStaff(p); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validation.Wrap(err, "invalid aluno payload")
	}
	aluno, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}

	if req.Nome != nil {
		aluno.Nome = *req.Nome
	}
	if req.CPF != nil {
		aluno.CPF = req.CPF
	}
	if req.DataNascimento != nil {
		aluno.DataNascimento = parseDate(req.DataNascimento)
	}
	if req.Telefone != nil {
		aluno.Telefone = *req.Telefone
	}
	if req.Email != nil {
		aluno.Email = *req.Email
	}
	if req.Endereco != nil {
		aluno.Endereco = *req.Endereco
	}
	if req.ResponsavelID != nil && !sameID(aluno.ResponsavelID, req.ResponsavelID) {
		if err := s.checkResponsavel(ctx, p, req.ResponsavelID); err != nil {
			return nil, err
		}
		aluno.ResponsavelID = req.ResponsavelID
	}
	if req.TurmaID != nil && !sameID(aluno.TurmaID, req.TurmaID) {
		if err := s.checkTurma(ctx, p, req.TurmaID, ""); err != nil {
			return nil, err
		}
		aluno.TurmaID = req.TurmaID
	}
	if req.Ativo != nil {
		aluno.Ativo = *req.Ativo
	}
	if req.FilialID != nil {
		aluno.FilialID = req.FilialID
	}
	aluno.FilialID = s.policy.StampFilial(p, aluno.FilialID)

	if err := s.repo.Update(ctx, aluno); err != nil {
		return nil, internalError(err, "failed to update aluno")
	}
	s.sync.Record(ctx, models.SyncEntityAluno, aluno.ID, models.SyncActionUpdated, aluno.FilialID, aluno)
	return aluno, nil
}

// Deactivate archives a student.
func (s *AlunoService) Deactivate(ctx context.Context, p *models.Principal, id int64) error {
	if err := s.policy.RequireStaff(p); err != nil {
		return err
	}
	aluno, err := s.Get(ctx, p, id)
	if err != nil {
		return err
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return internalError(err, "failed to deactivate aluno")
	}
	s.sync.Record(ctx, models.SyncEntityAluno, id, models.SyncActionDeleted, aluno.FilialID, nil)
	return nil
}

// checkResponsavel rejects guardians the caller may not link. A manager may
// link a guardian who has a student in their branch or has no student yet.
func (s *AlunoService) checkResponsavel(ctx context.Context, p *models.Principal, id *int64) error {
	if id == nil {
		return nil
	}
	invalid := validation.Field("invalid aluno payload", "responsavelId", "responsavel not found")
	if _, err := s.responsaveis.FindByID(ctx, *id); err != nil {
		if isNoRows(err) {
			return invalid
		}
		return internalError(err, "failed to load responsavel")
	}
	if p.IsAdmin() {
		return nil
	}
	inFilial, err := s.responsaveis.HasAlunoInFilial(ctx, *id, p.FilialID)
	if err != nil {
		return internalError(err, "failed to verify responsavel access")
	}
	if inFilial {
		return nil
	}
	linked, err := s.responsaveis.HasAlunos(ctx, *id)
	if err != nil {
		return internalError(err, "failed to verify responsavel access")
	}
	if linked {
		return invalid
	}
	return nil
}

// checkTurma rejects turmas outside the caller's branch.
func (s *AlunoService) checkTurma(ctx context.Context, p *models.Principal, id *int64, fieldPrefix string) error {
	if id == nil {
		return nil
	}
	invalid := validation.Field("invalid aluno payload", fieldPrefix+"turmaId", "turma not found")
	turma, err := s.turmas.FindByID(ctx, *id)
	if err != nil {
		if isNoRows(err) {
			return invalid
		}
		return internalError(err, "failed to load turma")
	}
	if err := s.policy.CheckFilial(p, turma.FilialID); err != nil {
		return invalid
	}
	return nil
}

func sameID(current, requested *int64) bool {
	return current != nil && requested != nil && *current == *requested
}

func newAluno(req dto.AlunoRequest, filialID *int64) *models.Aluno {
	aluno := &models.Aluno{
		Nome:           req.Nome,
		CPF:            req.CPF,
		DataNascimento: parseDate(req.DataNascimento),
		Telefone:       req.Telefone,
		Email:          req.Email,
		Endereco:       req.Endereco,
		FilialID:       filialID,
		ResponsavelID:  req.ResponsavelID,
		TurmaID:        req.TurmaID,
		Ativo:          true,
	}
	if matricula := parseDate(req.DataMatricula); matricula != nil {
		aluno.DataMatricula = *matricula
	}
	return aluno
}

func newResponsavel(req dto.ResponsavelRequest) (*models.Responsavel, error) {
	responsavel := &models.Responsavel{
		Nome:     req.Nome,
		Email:    req.Email,
		CPF:      req.CPF,
		Telefone: req.Telefone,
		Endereco: req.Endereco,
		Ativo:    true,
	}
	if req.Senha != nil {
		hash, err := HashPassword(*req.Senha)
		if err != nil {
			return nil, internalError(err, "failed to hash password")
		}
		responsavel.SenhaHash = &hash
	}
	return responsavel, nil
}

func parseDate(raw *string) *time.Time {
	if raw == nil || *raw == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, *raw)
	if err != nil {
		return nil
	}
	return &t
}

// duplicateError translates unique violations on guardian and manager
// accounts. It returns nil for any other error.
func duplicateError(err error, fieldPrefix string) error {
	constraint, ok := repository.UniqueViolation(err)
	if !ok {
		return nil
	}
	var field string
	switch constraint {
	case "uq_responsaveis_email", "uq_gestores_unidade_email":
		field = "email"
	case "uq_responsaveis_cpf":
		field = "cpf"
	default:
		return appErrors.Wrap(err, appErrors.ErrDuplicate.Code, appErrors.ErrDuplicate.Status, "duplicate value")
	}
	dup := appErrors.Wrap(err, appErrors.ErrDuplicate.Code, appErrors.ErrDuplicate.Status, field+" already registered")
	return appErrors.WithDetails(dup, appErrors.FieldError{Field: fieldPrefix + field, Message: field + " already registered"})
}
