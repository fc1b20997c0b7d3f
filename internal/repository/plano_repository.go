package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/escolinha-api/internal/models"
)

const planoColumns = `id, nome, valor_mensal, quantidade_meses, desconto_percentual, valor_total, dia_vencimento, filial_id, ativo, created_at, updated_at`

// PlanoRepository manages financial plans.
type PlanoRepository struct {
	db *sqlx.DB
}

// NewPlanoRepository constructs a PlanoRepository.
func NewPlanoRepository(db *sqlx.DB) *PlanoRepository {
	return &PlanoRepository{db: db}
}

// List returns plans for a branch, optionally including global plans.
func (r *PlanoRepository) List(ctx context.Context, filter models.PlanoFilter) ([]models.PlanoFinanceiro, error) {
	var where whereBuilder
	if filter.FilialID != nil {
		if filter.IncludeGlobal {
			where.add("(filial_id = $%d OR filial_id IS NULL)", *filter.FilialID)
		} else {
			where.add("filial_id = $%d", *filter.FilialID)
		}
	}
	if filter.Ativo != nil {
		where.add("ativo = $%d", *filter.Ativo)
	}
	query := fmt.Sprintf("SELECT %s FROM planos_financeiros %s ORDER BY nome", planoColumns, where.String())
	var items []models.PlanoFinanceiro
	if err := r.db.SelectContext(ctx, &items, query, where.args...); err != nil {
		return nil, fmt.Errorf("list planos: %w", err)
	}
	return items, nil
}

// FindByID fetches a plan.
func (r *PlanoRepository) FindByID(ctx context.Context, id int64) (*models.PlanoFinanceiro, error) {
	query := fmt.Sprintf("SELECT %s FROM planos_financeiros WHERE id = $1", planoColumns)
	var item models.PlanoFinanceiro
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find plano: %w", err)
	}
	return &item, nil
}

// Create inserts a plan.
func (r *PlanoRepository) Create(ctx context.Context, p *models.PlanoFinanceiro) error {
	now := time.Now().UTC()
	const query = `INSERT INTO planos_financeiros (nome, valor_mensal, quantidade_meses, desconto_percentual, valor_total, dia_vencimento, filial_id, ativo, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9) RETURNING id, created_at, updated_at`
	if err := r.db.QueryRowxContext(ctx, query, p.Nome, p.ValorMensal, p.QuantidadeMeses, p.DescontoPercentual, p.ValorTotal,
		p.DiaVencimento, p.FilialID, p.Ativo, now).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return fmt.Errorf("create plano: %w", err)
	}
	return nil
}

// Update persists plan fields.
func (r *PlanoRepository) Update(ctx context.Context, p *models.PlanoFinanceiro) error {
	p.UpdatedAt = time.Now().UTC()
	const query = `UPDATE planos_financeiros SET nome = :nome, valor_mensal = :valor_mensal, quantidade_meses = :quantidade_meses,
        desconto_percentual = :desconto_percentual, valor_total = :valor_total, dia_vencimento = :dia_vencimento,
        filial_id = :filial_id, ativo = :ativo, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, p); err != nil {
		return fmt.Errorf("update plano: %w", err)
	}
	return nil
}

// Delete removes a plan.
func (r *PlanoRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM planos_financeiros WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete plano: %w", err)
	}
	return nil
}
