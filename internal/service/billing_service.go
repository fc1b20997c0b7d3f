package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/noah-isme/escolinha-api/internal/models"
	appErrors "github.com/noah-isme/escolinha-api/pkg/errors"
)

const mesReferenciaLayout = "2006-01"

// DeriveBillingStatus computes the payment situation of a student at now.
// now must already be expressed in the billing timezone. diasAtraso counts
// the days past dueDay of the current month and is only set when the month
// is unpaid.
func DeriveBillingStatus(pagamentos []models.Pagamento, now time.Time, dueDay int) models.BillingStatus {
	if dueDay < 1 {
		dueDay = 1
	}
	current := now.Format(mesReferenciaLayout)

	var status models.BillingStatus
	var latest *models.Pagamento
	for i := range pagamentos {
		p := &pagamentos[i]
		if p.MesReferencia == current {
			status.EmDia = true
		}
		if latest == nil || p.DataPagamento.After(latest.DataPagamento) ||
			(p.DataPagamento.Equal(latest.DataPagamento) && p.ID > latest.ID) {
			latest = p
		}
	}
	if latest != nil {
		mes := latest.MesReferencia
		status.UltimoPagamento = &mes
	}
	if !status.EmDia {
		dias := now.Day() - dueDay
		if dias < 0 {
			dias = 0
		}
		status.DiasAtraso = &dias
	}
	return status
}

type billingAlunoReader interface {
	FindByID(ctx context.Context, id int64) (*models.Aluno, error)
	ListActive(ctx context.Context, scope models.Scope) ([]models.Aluno, error)
}

type billingPagamentoReader interface {
	ListByAluno(ctx context.Context, alunoID int64) ([]models.Pagamento, error)
	ListByAlunoIDs(ctx context.Context, alunoIDs []int64) (map[int64][]models.Pagamento, error)
}

// BillingConfig fixes the clock convention of the deriver.
type BillingConfig struct {
	Location *time.Location
	DueDay   int
	CacheTTL time.Duration
}

// BillingService exposes billing status, statements and the overdue report.
type BillingService struct {
	alunos     billingAlunoReader
	pagamentos billingPagamentoReader
	cache      *CacheService
	policy     AccessPolicy
	cfg        BillingConfig
	logger     *zap.Logger
	now        func() time.Time
}

// NewBillingService constructs a BillingService.
func NewBillingService(alunos billingAlunoReader, pagamentos billingPagamentoReader, cache *CacheService, cfg BillingConfig, logger *zap.Logger) *BillingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.DueDay < 1 {
		cfg.DueDay = 1
	}
	return &BillingService{alunos: alunos, pagamentos: pagamentos, cache: cache, cfg: cfg, logger: logger, now: time.Now}
}

func (s *BillingService) clock() time.Time {
	return s.now().In(s.cfg.Location)
}

// Status returns the billing status of one student visible to the principal.
func (s *BillingService) Status(ctx context.Context, p *models.Principal, alunoID int64) (*models.BillingStatus, error) {
	aluno, err := s.loadAluno(ctx, p, alunoID)
	if err != nil {
		return nil, err
	}
	pagamentos, err := s.pagamentos.ListByAluno(ctx, aluno.ID)
	if err != nil {
		return nil, internalError(err, "failed to load pagamentos")
	}
	status := DeriveBillingStatus(pagamentos, s.clock(), s.cfg.DueDay)
	return &status, nil
}

// Extrato returns the payment statement of one student.
func (s *BillingService) Extrato(ctx context.Context, p *models.Principal, alunoID int64) (*models.Extrato, error) {
	aluno, err := s.loadAluno(ctx, p, alunoID)
	if err != nil {
		return nil, err
	}
	pagamentos, err := s.pagamentos.ListByAluno(ctx, aluno.ID)
	if err != nil {
		return nil, internalError(err, "failed to load pagamentos")
	}
	if pagamentos == nil {
		pagamentos = []models.Pagamento{}
	}
	total := decimal.Zero
	for _, pg := range pagamentos {
		total = total.Add(pg.Valor)
	}
	return &models.Extrato{
		Aluno:      *aluno,
		Status:     DeriveBillingStatus(pagamentos, s.clock(), s.cfg.DueDay),
		Pagamentos: pagamentos,
		TotalPago:  total,
	}, nil
}

// Overdue derives the status of every active student in scope and returns the
// ones whose current month is unpaid.
func (s *BillingService) Overdue(ctx context.Context, scope models.Scope) ([]models.Inadimplente, error) {
	alunos, err := s.alunos.ListActive(ctx, scope)
	if err != nil {
		return nil, internalError(err, "failed to list alunos")
	}
	ids := make([]int64, len(alunos))
	for i, a := range alunos {
		ids[i] = a.ID
	}
	byAluno, err := s.pagamentos.ListByAlunoIDs(ctx, ids)
	if err != nil {
		return nil, internalError(err, "failed to load pagamentos")
	}

	now := s.clock()
	result := make([]models.Inadimplente, 0)
	for _, a := range alunos {
		status := DeriveBillingStatus(byAluno[a.ID], now, s.cfg.DueDay)
		if status.EmDia {
			continue
		}
		result = append(result, models.Inadimplente{
			AlunoID:       a.ID,
			Nome:          a.Nome,
			FilialID:      a.FilialID,
			ResponsavelID: a.ResponsavelID,
			Status:        status,
		})
	}
	return result, nil
}

// Inadimplentes returns the overdue report for a staff principal, cached per
// branch scope and reference month. The boolean reports a cache hit.
func (s *BillingService) Inadimplentes(ctx context.Context, p *models.Principal) ([]models.Inadimplente, bool, error) {
	filialID, err := s.policy.FilialScope(p)
	if err != nil {
		return nil, false, err
	}
	key := InadimplentesKey(filialID, s.clock().Format(mesReferenciaLayout))

	var cached []models.Inadimplente
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, true, nil
	}

	items, err := s.Overdue(ctx, models.Scope{FilialID: filialID})
	if err != nil {
		return nil, false, err
	}
	if err := s.cache.Set(ctx, key, items, s.cfg.CacheTTL); err != nil {
		s.logger.Debug("overdue report not cached", zap.String("key", key), zap.Error(err))
	}
	return items, false, nil
}

func (s *BillingService) loadAluno(ctx context.Context, p *models.Principal, alunoID int64) (*models.Aluno, error) {
	if p.IsAnonymous() {
		return nil, appErrors.ErrUnauthorized
	}
	aluno, err := s.alunos.FindByID(ctx, alunoID)
	if err != nil {
		return nil, lookupError(err, "aluno")
	}
	if err := s.policy.CheckStudent(p, aluno); err != nil {
		return nil, err
	}
	return aluno, nil
}
