package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/noah-isme/escolinha-api/internal/dto"
	"github.com/noah-isme/escolinha-api/internal/models"
	appErrors "github.com/noah-isme/escolinha-api/pkg/errors"
	"github.com/noah-isme/escolinha-api/pkg/validation"
)

const defaultDiaVencimento = 10

var hundred = decimal.NewFromInt(100)

// CalculatePlanTotal returns valorMensal × meses × (1 − desconto/100), rounded
// half-up to cents once, after the full product.
func CalculatePlanTotal(valorMensal decimal.Decimal, meses int, desconto decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1).Sub(desconto.Div(hundred))
	return valorMensal.Mul(decimal.NewFromInt(int64(meses))).Mul(factor).Round(2)
}

type planoStore interface {
	List(ctx context.Context, filter models.PlanoFilter) ([]models.PlanoFinanceiro, error)
	FindByID(ctx context.Context, id int64) (*models.PlanoFinanceiro, error)
	Create(ctx context.Context, p *models.PlanoFinanceiro) error
	Update(ctx context.Context, p *models.PlanoFinanceiro) error
	Delete(ctx context.Context, id int64) error
}

// PlanService manages financial plans. Writes are admin-only.
type PlanService struct {
	repo      planoStore
	sync      *SyncService
	policy    AccessPolicy
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPlanService constructs a PlanService.
func NewPlanService(repo planoStore, sync *SyncService, validate *validator.Validate, logger *zap.Logger) *PlanService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanService{repo: repo, sync: sync, validator: validate, logger: logger}
}

// Preview computes the plan total without persisting anything.
func (s *PlanService) Preview(req dto.PlanoCalculoRequest) (*dto.PlanoPreviewResponse, error) {
	if err := s.validateCalculo(req); err != nil {
		return nil, err
	}
	return &dto.PlanoPreviewResponse{
		ValorMensal:        req.ValorMensal,
		QuantidadeMeses:    req.QuantidadeMeses,
		DescontoPercentual: req.DescontoPercentual,
		ValorTotal:         CalculatePlanTotal(req.ValorMensal, req.QuantidadeMeses, req.DescontoPercentual),
	}, nil
}

// List returns every plan to admins, and global plus own-branch plans to managers.
func (s *PlanService) List(ctx context.Context, p *models.Principal, ativo *bool) ([]models.PlanoFinanceiro, error) {
	filialID, err := s.policy.FilialScope(p)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.List(ctx, models.PlanoFilter{FilialID: filialID, IncludeGlobal: true, Ativo: ativo})
	if err != nil {
		return nil, internalError(err, "failed to list planos")
	}
	if items == nil {
		items = []models.PlanoFinanceiro{}
	}
	return items, nil
}

// Get returns a plan visible to the principal.
func (s *PlanService) Get(ctx context.Context, p *models.Principal, id int64) (*models.PlanoFinanceiro, error) {
	if err := s.policy.RequireStaff(p); err != nil {
		return nil, err
	}
	plano, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "plano financeiro")
	}
	if plano.FilialID != nil {
		if err := s.policy.CheckFilial(p, plano.FilialID); err != nil {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "plano financeiro not found")
		}
	}
	return plano, nil
}

// Create persists a plan with its computed total.
func (s *PlanService) Create(ctx context.Context, p *models.Principal, req dto.PlanoRequest) (*models.PlanoFinanceiro, error) {
	if err := s.policy.RequireAdmin(p); err != nil {
		return nil, err
	}
	if err := s.validate(req); err != nil {
		return nil, err
	}
	plano := &models.PlanoFinanceiro{Ativo: true}
	applyPlano(plano, req)
	if err := s.repo.Create(ctx, plano); err != nil {
		return nil, internalError(err, "failed to create plano financeiro")
	}
	s.sync.Record(ctx, models.SyncEntityPlano, plano.ID, models.SyncActionCreated, plano.FilialID, plano)
	return plano, nil
}

// Update replaces a plan, recomputing its total.
func (s *PlanService) Update(ctx context.Context, p *models.Principal, id int64, req dto.PlanoRequest) (*models.PlanoFinanceiro, error) {
	if err := s.policy.RequireAdmin(p); err != nil {
		return nil, err
	}
	if err := s.validate(req); err != nil {
		return nil, err
	}
	plano, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "plano financeiro")
	}
	applyPlano(plano, req)
	if err := s.repo.Update(ctx, plano); err != nil {
		return nil, internalError(err, "failed to update plano financeiro")
	}
	s.sync.Record(ctx, models.SyncEntityPlano, plano.ID, models.SyncActionUpdated, plano.FilialID, plano)
	return plano, nil
}

// Delete erases a plan.
func (s *PlanService) Delete(ctx context.Context, p *models.Principal, id int64) error {
	if err := s.policy.RequireAdmin(p); err != nil {
		return err
	}
	plano, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return lookupError(err, "plano financeiro")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return internalError(err, "failed to delete plano financeiro")
	}
	s.sync.Record(ctx, models.SyncEntityPlano, id, models.SyncActionDeleted, plano.FilialID, nil)
	return nil
}

func (s *PlanService) validate(req dto.PlanoRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return validation.Wrap(err, "invalid plano payload")
	}
	return s.validateCalculo(req.Calculo())
}

func (s *PlanService) validateCalculo(req dto.PlanoCalculoRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return validation.Wrap(err, "invalid plano payload")
	}
	if req.ValorMensal.IsNegative() {
		return validation.Field("invalid plano payload", "valorMensal", "valorMensal must be 0 or greater")
	}
	if req.DescontoPercentual.IsNegative() || req.DescontoPercentual.GreaterThan(hundred) {
		return validation.Field("invalid plano payload", "descontoPercentual", "descontoPercentual must be between 0 and 100")
	}
	return nil
}

func applyPlano(plano *models.PlanoFinanceiro, req dto.PlanoRequest) {
	plano.Nome = req.Nome
	plano.ValorMensal = req.ValorMensal
	plano.QuantidadeMeses = req.QuantidadeMeses
	plano.DescontoPercentual = req.DescontoPercentual
	plano.ValorTotal = CalculatePlanTotal(req.ValorMensal, req.QuantidadeMeses, req.DescontoPercentual)
	plano.DiaVencimento = req.DiaVencimento
	if plano.DiaVencimento == 0 {
		plano.DiaVencimento = defaultDiaVencimento
	}
	plano.FilialID = req.FilialID
	if req.Ativo != nil {
		plano.Ativo = *req.Ativo
	}
}
