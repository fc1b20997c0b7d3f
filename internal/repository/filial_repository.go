package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/escolinha-api/internal/models"
)

const filialColumns = `id, nome, endereco, telefone, is_matriz, ativo, created_at, updated_at`

// FilialRepository manages branches.
type FilialRepository struct {
	db *sqlx.DB
}

// NewFilialRepository constructs a FilialRepository.
func NewFilialRepository(db *sqlx.DB) *FilialRepository {
	return &FilialRepository{db: db}
}

// List returns branches ordered with the headquarters first.
func (r *FilialRepository) List(ctx context.Context, filter models.FilialFilter) ([]models.Filial, error) {
	var where whereBuilder
	if len(filter.IDs) > 0 {
		where.add("id = ANY($%d)", pq.Array(filter.IDs))
	}
	if filter.Ativo != nil {
		where.add("ativo = $%d", *filter.Ativo)
	}
	where.search([]string{"nome"}, filter.Search)

	query := fmt.Sprintf("SELECT %s FROM filiais %s ORDER BY is_matriz DESC, nome ASC", filialColumns, where.String())
	var items []models.Filial
	if err := r.db.SelectContext(ctx, &items, query, where.args...); err != nil {
		return nil, fmt.Errorf("list filiais: %w", err)
	}
	return items, nil
}

// FindByID fetches a branch by id.
func (r *FilialRepository) FindByID(ctx context.Context, id int64) (*models.Filial, error) {
	query := fmt.Sprintf("SELECT %s FROM filiais WHERE id = $1", filialColumns)
	var item models.Filial
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find filial: %w", err)
	}
	return &item, nil
}

// Create inserts a branch. A second active headquarters violates uq_filiais_matriz.
func (r *FilialRepository) Create(ctx context.Context, filial *models.Filial) error {
	now := time.Now().UTC()
	const query = `INSERT INTO filiais (nome, endereco, telefone, is_matriz, ativo, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $6) RETURNING id, created_at, updated_at`
	if err := r.db.QueryRowxContext(ctx, query, filial.Nome, filial.Endereco, filial.Telefone, filial.IsMatriz, filial.Ativo, now).
		Scan(&filial.ID, &filial.CreatedAt, &filial.UpdatedAt); err != nil {
		return fmt.Errorf("create filial: %w", err)
	}
	return nil
}

// Update persists branch fields.
func (r *FilialRepository) Update(ctx context.Context, filial *models.Filial) error {
	filial.UpdatedAt = time.Now().UTC()
	const query = `UPDATE filiais SET nome = :nome, endereco = :endereco, telefone = :telefone, is_matriz = :is_matriz,
        ativo = :ativo, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, filial); err != nil {
		return fmt.Errorf("update filial: %w", err)
	}
	return nil
}

// Deactivate archives a branch.
func (r *FilialRepository) Deactivate(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE filiais SET ativo = FALSE, updated_at = $2 WHERE id = $1`, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate filial: %w", err)
	}
	return nil
}
