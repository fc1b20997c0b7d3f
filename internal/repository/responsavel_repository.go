package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/escolinha-api/internal/models"
)

const responsavelColumns = `r.id, r.nome, r.email, r.cpf, r.telefone, r.endereco, r.senha_hash, r.ativo, r.created_at, r.updated_at`

// ResponsavelRepository manages guardians.
type ResponsavelRepository struct {
	db *sqlx.DB
}

// NewResponsavelRepository constructs a ResponsavelRepository.
func NewResponsavelRepository(db *sqlx.DB) *ResponsavelRepository {
	return &ResponsavelRepository{db: db}
}

// List returns guardians, optionally limited to those owning a student of one branch.
func (r *ResponsavelRepository) List(ctx context.Context, filter models.ResponsavelFilter) ([]models.Responsavel, int, error) {
	var where whereBuilder
	if filter.FilialID != nil {
		where.add("EXISTS (SELECT 1 FROM alunos a WHERE a.responsavel_id = r.id AND a.filial_id = $%d)", *filter.FilialID)
	}
	where.search([]string{"r.nome", "r.email", "r.cpf"}, filter.Search)

	base := fmt.Sprintf("FROM responsaveis r %s", where.String())
	order := orderBy(filter.PageRequest, map[string]string{
		"nome":      "r.nome",
		"createdAt": "r.created_at",
	}, "r.nome")
	_, size, offset := filter.Normalize()

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s LIMIT %d OFFSET %d", responsavelColumns, base, order, size, offset)
	var items []models.Responsavel
	if err := r.db.SelectContext(ctx, &items, query, where.args...); err != nil {
		return nil, 0, fmt.Errorf("list responsaveis: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, where.args...); err != nil {
		return nil, 0, fmt.Errorf("count responsaveis: %w", err)
	}
	return items, total, nil
}

// ListActiveIDs returns the ids of every active guardian.
func (r *ResponsavelRepository) ListActiveIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, `SELECT id FROM responsaveis WHERE ativo = TRUE ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list responsavel ids: %w", err)
	}
	return ids, nil
}

// FindByID fetches a guardian by id.
func (r *ResponsavelRepository) FindByID(ctx context.Context, id int64) (*models.Responsavel, error) {
	return r.findOne(ctx, "r.id = $1", id)
}

// FindByEmail fetches a guardian by login email.
func (r *ResponsavelRepository) FindByEmail(ctx context.Context, email string) (*models.Responsavel, error) {
	return r.findOne(ctx, "LOWER(r.email) = LOWER($1)", email)
}

func (r *ResponsavelRepository) findOne(ctx context.Context, condition string, arg interface{}) (*models.Responsavel, error) {
	query := fmt.Sprintf("SELECT %s FROM responsaveis r WHERE %s LIMIT 1", responsavelColumns, condition)
	var item models.Responsavel
	if err := r.db.GetContext(ctx, &item, query, arg); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find responsavel: %w", err)
	}
	return &item, nil
}

// HasAlunoInFilial reports whether the guardian owns a student of the branch.
func (r *ResponsavelRepository) HasAlunoInFilial(ctx context.Context, responsavelID, filialID int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM alunos WHERE responsavel_id = $1 AND filial_id = $2)`
	var ok bool
	if err := r.db.GetContext(ctx, &ok, query, responsavelID, filialID); err != nil {
		return false, fmt.Errorf("check responsavel filial: %w", err)
	}
	return ok, nil
}

// HasAlunos reports whether the guardian owns any student.
func (r *ResponsavelRepository) HasAlunos(ctx context.Context, responsavelID int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM alunos WHERE responsavel_id = $1)`
	var ok bool
	if err := r.db.GetContext(ctx, &ok, query, responsavelID); err != nil {
		return false, fmt.Errorf("check responsavel alunos: %w", err)
	}
	return ok, nil
}

// Create inserts a guardian.
func (r *ResponsavelRepository) Create(ctx context.Context, responsavel *models.Responsavel) error {
	if err := insertResponsavel(ctx, r.db, responsavel); err != nil {
		return fmt.Errorf("create responsavel: %w", err)
	}
	return nil
}

func insertResponsavel(ctx context.Context, q sqlx.QueryerContext, responsavel *models.Responsavel) error {
	now := time.Now().UTC()
	const query = `INSERT INTO responsaveis (nome, email, cpf, telefone, endereco, senha_hash, ativo, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8) RETURNING id, created_at, updated_at`
	return q.QueryRowxContext(ctx, query,
		responsavel.Nome, responsavel.Email, responsavel.CPF, responsavel.Telefone, responsavel.Endereco,
		responsavel.SenhaHash, responsavel.Ativo, now,
	).Scan(&responsavel.ID, &responsavel.CreatedAt, &responsavel.UpdatedAt)
}

// Update persists guardian profile fields, including the password hash.
func (r *ResponsavelRepository) Update(ctx context.Context, responsavel *models.Responsavel) error {
	responsavel.UpdatedAt = time.Now().UTC()
	const query = `UPDATE responsaveis SET nome = :nome, email = :email, cpf = :cpf, telefone = :telefone, endereco = :endereco,
        senha_hash = :senha_hash, ativo = :ativo, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, responsavel); err != nil {
		return fmt.Errorf("update responsavel: %w", err)
	}
	return nil
}
