package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/noah-isme/escolinha-api/internal/dto"
	"github.com/noah-isme/escolinha-api/internal/models"
	"github.com/noah-isme/escolinha-api/internal/repository"
	appErrors "github.com/noah-isme/escolinha-api/pkg/errors"
	"github.com/noah-isme/escolinha-api/pkg/validation"
)

const dateLayout = "2006-01-02"

type alunoFinder interface {
	FindByID(ctx context.Context, id int64) (*models.Aluno, error)
}

type pagamentoStore interface {
	ListByAluno(ctx context.Context, alunoID int64) ([]models.Pagamento, error)
	FindByID(ctx context.Context, id int64) (*models.Pagamento, error)
	Create(ctx context.Context, p *models.Pagamento) error
	CreateBatch(ctx context.Context, template models.Pagamento, meses []string) ([]models.Pagamento, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// PaymentService registers and lists tuition payments.
type PaymentService struct {
	alunos    alunoFinder
	repo      pagamentoStore
	sync      *SyncService
	metrics   *MetricsService
	policy    AccessPolicy
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPaymentService constructs a PaymentService.
func NewPaymentService(alunos alunoFinder, repo pagamentoStore, sync *SyncService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *PaymentService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{alunos: alunos, repo: repo, sync: sync, metrics: metrics, validator: validate, logger: logger}
}

// ListByAluno returns a student's payments.
func (s *PaymentService) ListByAluno(ctx context.Context, p *models.Principal, alunoID int64) ([]models.Pagamento, error) {
	if _, err := s.authorizeAluno(ctx, p, alunoID); err != nil {
		return nil, err
	}
	items, err := s.repo.ListByAluno(ctx, alunoID)
	if err != nil {
		return nil, internalError(err, "failed to list pagamentos")
	}
	if items == nil {
		items = []models.Pagamento{}
	}
	return items, nil
}

// Create registers a single payment. Guardians may pay for their own students.
func (s *PaymentService) Create(ctx context.Context, p *models.Principal, req dto.PagamentoRequest) (*models.Pagamento, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validation.Wrap(err, "invalid pagamento payload")
	}
	if err := validatePositive(req.Valor, "valor"); err != nil {
		return nil, err
	}
	dataPagamento, err := parsePaymentDate(req.DataPagamento)
	if err != nil {
		return nil, err
	}

	aluno, err := s.authorizeAluno(ctx, p, req.AlunoID)
	if err != nil {
		return nil, err
	}

	pagamento := &models.Pagamento{
		AlunoID:        aluno.ID,
		Valor:          req.Valor.Round(2),
		MesReferencia:  req.MesReferencia,
		DataPagamento:  dataPagamento,
		FormaPagamento: req.FormaPagamento,
		Observacao:     req.Observacao,
	}
	if err := s.repo.Create(ctx, pagamento); err != nil {
		return nil, internalError(err, "failed to create pagamento")
	}

	s.metrics.RecordPagamentos("single", 1)
	s.sync.Record(ctx, models.SyncEntityPagamento, pagamento.ID, models.SyncActionCreated, aluno.FilialID, pagamento)
	return pagamento, nil
}

// RegisterBatch records one payment per month atomically. Months already paid
// abort the batch with a conflict listing them.
func (s *PaymentService) RegisterBatch(ctx context.Context, p *models.Principal, req dto.BatchPagamentoRequest) (*models.BatchPagamentoResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validation.Wrap(err, "invalid lote payload")
	}
	if err := validatePositive(req.Valor, "valor"); err != nil {
		return nil, err
	}
	dataPagamento, err := parsePaymentDate(req.DataPagamento)
	if err != nil {
		return nil, err
	}

	aluno, err := s.authorizeAluno(ctx, p, req.AlunoID)
	if err != nil {
		return nil, err
	}

	template := models.Pagamento{
		AlunoID:        aluno.ID,
		Valor:          req.Valor.Round(2),
		DataPagamento:  dataPagamento,
		FormaPagamento: req.FormaPagamento,
		Observacao:     req.Observacao,
	}
	created, err := s.repo.CreateBatch(ctx, template, req.Meses)
	if err != nil {
		return nil, batchError(err)
	}

	meses := make([]string, len(created))
	for i, pg := range created {
		meses[i] = pg.MesReferencia
		s.sync.Record(ctx, models.SyncEntityPagamento, pg.ID, models.SyncActionCreated, aluno.FilialID, pg)
	}
	s.metrics.RecordPagamentos("lote", len(created))
	s.logger.Info("pagamentos registered in batch",
		zap.Int64("aluno_id", aluno.ID),
		zap.Strings("meses", meses),
		zap.String("principal_kind", string(p.Kind)),
	)
	return &models.BatchPagamentoResult{Pagamentos: created, Count: len(created), Meses: meses}, nil
}

// Delete removes a payment. Only staff may erase payments.
func (s *PaymentService) Delete(ctx context.Context, p *models.Principal, id int64) error {
	if err := s.policy.RequireStaff(p); err != nil {
		return err
	}
	pagamento, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return lookupError(err, "pagamento")
	}
	aluno, err := s.authorizeAluno(ctx, p, pagamento.AlunoID)
	if err != nil {
		if appErrors.FromError(err).Code == appErrors.ErrNotFound.Code {
			return appErrors.Clone(appErrors.ErrNotFound, "pagamento not found")
		}
		return err
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return internalError(err, "failed to delete pagamento")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "pagamento not found")
	}
	s.sync.Record(ctx, models.SyncEntityPagamento, id, models.SyncActionDeleted, aluno.FilialID, nil)
	return nil
}

func (s *PaymentService) authorizeAluno(ctx context.Context, p *models.Principal, alunoID int64) (*models.Aluno, error) {
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

func batchError(err error) error {
	var paid *repository.PaidMonthsError
	if errors.As(err, &paid) {
		conflict := appErrors.Clone(appErrors.ErrConflict, "months already paid: "+strings.Join(paid.Months, ", "))
		details := make([]appErrors.FieldError, len(paid.Months))
		for i, mes := range paid.Months {
			details[i] = appErrors.FieldError{Field: "meses", Message: mes + " already paid"}
		}
		return appErrors.WithDetails(conflict, details...)
	}
	var failed *repository.BatchInsertError
	if errors.As(err, &failed) {
		return internalError(err, fmt.Sprintf("failed to register pagamento for %s; no month was recorded", failed.Month))
	}
	return internalError(err, "failed to register pagamentos")
}

func parsePaymentDate(raw string) (time.Time, error) {
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, validation.Field("invalid payload", "dataPagamento", "dataPagamento must be a YYYY-MM-DD date")
	}
	return t, nil
}

func validatePositive(value decimal.Decimal, field string) error {
	if !value.IsPositive() {
		return validation.Field("invalid payload", field, field+" must be greater than 0")
	}
	return nil
}
