package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/escolinha-api/internal/models"
)

const pagamentoColumns = `id, aluno_id, valor, mes_referencia, data_pagamento, forma_pagamento, observacao, created_at`

// PagamentoRepository manages tuition payments.
type PagamentoRepository struct {
	db *sqlx.DB
}

// NewPagamentoRepository constructs a PagamentoRepository.
func NewPagamentoRepository(db *sqlx.DB) *PagamentoRepository {
	return &PagamentoRepository{db: db}
}

// ListByAluno returns the payments of a student, newest first.
func (r *PagamentoRepository) ListByAluno(ctx context.Context, alunoID int64) ([]models.Pagamento, error) {
	query := fmt.Sprintf("SELECT %s FROM pagamentos WHERE aluno_id = $1 ORDER BY data_pagamento DESC, id DESC", pagamentoColumns)
	var items []models.Pagamento
	if err := r.db.SelectContext(ctx, &items, query, alunoID); err != nil {
		return nil, fmt.Errorf("list pagamentos: %w", err)
	}
	return items, nil
}

// ListByAlunoIDs loads payments for many students keyed by student id.
func (r *PagamentoRepository) ListByAlunoIDs(ctx context.Context, alunoIDs []int64) (map[int64][]models.Pagamento, error) {
	result := make(map[int64][]models.Pagamento, len(alunoIDs))
	if len(alunoIDs) == 0 {
		return result, nil
	}
	query := fmt.Sprintf("SELECT %s FROM pagamentos WHERE aluno_id = ANY($1) ORDER BY aluno_id, data_pagamento DESC, id DESC", pagamentoColumns)
	var items []models.Pagamento
	if err := r.db.SelectContext(ctx, &items, query, pq.Array(alunoIDs)); err != nil {
		return nil, fmt.Errorf("list pagamentos by alunos: %w", err)
	}
	for _, item := range items {
		result[item.AlunoID] = append(result[item.AlunoID], item)
	}
	return result, nil
}

// FindByID fetches a payment.
func (r *PagamentoRepository) FindByID(ctx context.Context, id int64) (*models.Pagamento, error) {
	query := fmt.Sprintf("SELECT %s FROM pagamentos WHERE id = $1", pagamentoColumns)
	var item models.Pagamento
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find pagamento: %w", err)
	}
	return &item, nil
}

// Create inserts a single payment. No duplicate-month check is applied here.
func (r *PagamentoRepository) Create(ctx context.Context, p *models.Pagamento) error {
	if err := insertPagamento(ctx, r.db, p); err != nil {
		return fmt.Errorf("create pagamento: %w", err)
	}
	return nil
}

// CreateBatch inserts one payment per month of template.MesReferencia values in
// meses. The whole batch is rejected with *PaidMonthsError when any month is
// already paid, and rolled back with *BatchInsertError when an insert fails.
// Concurrent batches for the same student are serialised by an advisory lock.
func (r *PagamentoRepository) CreateBatch(ctx context.Context, template models.Pagamento, meses []string) ([]models.Pagamento, error) {
	created := make([]models.Pagamento, 0, len(meses))
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, template.AlunoID); err != nil {
			return fmt.Errorf("lock aluno pagamentos: %w", err)
		}

		var paid []string
		const paidQuery = `SELECT DISTINCT mes_referencia FROM pagamentos WHERE aluno_id = $1 AND mes_referencia = ANY($2)`
		if err := tx.SelectContext(ctx, &paid, paidQuery, template.AlunoID, pq.Array(meses)); err != nil {
			return fmt.Errorf("check paid months: %w", err)
		}
		if len(paid) > 0 {
			return &PaidMonthsError{Months: sortedMonths(paid)}
		}

		for _, mes := range meses {
			p := template
			p.MesReferencia = mes
			if err := insertPagamento(ctx, tx, &p); err != nil {
				return &BatchInsertError{Month: mes, Err: err}
			}
			created = append(created, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func insertPagamento(ctx context.Context, q sqlx.QueryerContext, p *models.Pagamento) error {
	const query = `INSERT INTO pagamentos (aluno_id, valor, mes_referencia, data_pagamento, forma_pagamento, observacao)
        VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`
	return q.QueryRowxContext(ctx, query, p.AlunoID, p.Valor, p.MesReferencia, p.DataPagamento, p.FormaPagamento, p.Observacao).
		Scan(&p.ID, &p.CreatedAt)
}

// Delete removes a payment, returning false when it did not exist.
func (r *PagamentoRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pagamentos WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete pagamento: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete pagamento: %w", err)
	}
	return affected > 0, nil
}
