package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/escolinha-api/internal/models"
)

func branchWhere(filter models.BranchFilter) whereBuilder {
	var where whereBuilder
	if filter.FilialID != nil {
		where.add("filial_id = $%d", *filter.FilialID)
	}
	if filter.Ativo != nil {
		where.add("ativo = $%d", *filter.Ativo)
	}
	where.search([]string{"nome"}, filter.Search)
	return where
}

const professorColumns = `id, nome, email, telefone, especialidade, filial_id, ativo, created_at, updated_at`

// ProfessorRepository manages coaches.
type ProfessorRepository struct {
	db *sqlx.DB
}

// NewProfessorRepository constructs a ProfessorRepository.
func NewProfessorRepository(db *sqlx.DB) *ProfessorRepository {
	return &ProfessorRepository{db: db}
}

// List returns coaches matching the filter.
func (r *ProfessorRepository) List(ctx context.Context, filter models.BranchFilter) ([]models.Professor, error) {
	where := branchWhere(filter)
	query := fmt.Sprintf("SELECT %s FROM professores %s ORDER BY nome", professorColumns, where.String())
	var items []models.Professor
	if err := r.db.SelectContext(ctx, &items, query, where.args...); err != nil {
		return nil, fmt.Errorf("list professores: %w", err)
	}
	return items, nil
}

// FindByID fetches a coach.
func (r *ProfessorRepository) FindByID(ctx context.Context, id int64) (*models.Professor, error) {
	var item models.Professor
	query := fmt.Sprintf("SELECT %s FROM professores WHERE id = $1", professorColumns)
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find professor: %w", err)
	}
	return &item, nil
}

// Create inserts a coach.
func (r *ProfessorRepository) Create(ctx context.Context, p *models.Professor) error {
	now := time.Now().UTC()
	const query = `INSERT INTO professores (nome, email, telefone, especialidade, filial_id, ativo, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $7) RETURNING id, created_at, updated_at`
	if err := r.db.QueryRowxContext(ctx, query, p.Nome, p.Email, p.Telefone, p.Especialidade, p.FilialID, p.Ativo, now).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return fmt.Errorf("create professor: %w", err)
	}
	return nil
}

// Update persists coach fields.
func (r *ProfessorRepository) Update(ctx context.Context, p *models.Professor) error {
	p.UpdatedAt = time.Now().UTC()
	const query = `UPDATE professores SET nome = :nome, email = :email, telefone = :telefone, especialidade = :especialidade,
        filial_id = :filial_id, ativo = :ativo, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, p); err != nil {
		return fmt.Errorf("update professor: %w", err)
	}
	return nil
}

// Deactivate archives a coach.
func (r *ProfessorRepository) Deactivate(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE professores SET ativo = FALSE, updated_at = $2 WHERE id = $1`, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate professor: %w", err)
	}
	return nil
}

const turmaColumns = `id, nome, categoria, horario, professor_id, filial_id, ativo, created_at, updated_at`

// TurmaRepository manages training groups.
type TurmaRepository struct {
	db *sqlx.DB
}

// NewTurmaRepository constructs a TurmaRepository.
func NewTurmaRepository(db *sqlx.DB) *TurmaRepository {
	return &TurmaRepository{db: db}
}

// List returns groups matching the filter.
func (r *TurmaRepository) List(ctx context.Context, filter models.BranchFilter) ([]models.Turma, error) {
	where := branchWhere(filter)
	query := fmt.Sprintf("SELECT %s FROM turmas %s ORDER BY nome", turmaColumns, where.String())
	var items []models.Turma
	if err := r.db.SelectContext(ctx, &items, query, where.args...); err != nil {
		return nil, fmt.Errorf("list turmas: %w", err)
	}
	return items, nil
}

// FindByID fetches a group.
func (r *TurmaRepository) FindByID(ctx context.Context, id int64) (*models.Turma, error) {
	var item models.Turma
	query := fmt.Sprintf("SELECT %s FROM turmas WHERE id = $1", turmaColumns)
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find turma: %w", err)
	}
	return &item, nil
}

// Create inserts a group.
func (r *TurmaRepository) Create(ctx context.Context, t *models.Turma) error {
	now := time.Now().UTC()
	const query = `INSERT INTO turmas (nome, categoria, horario, professor_id, filial_id, ativo, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $7) RETURNING id, created_at, updated_at`
	if err := r.db.QueryRowxContext(ctx, query, t.Nome, t.Categoria, t.Horario, t.ProfessorID, t.FilialID, t.Ativo, now).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return fmt.Errorf("create turma: %w", err)
	}
	return nil
}

// Update persists group fields.
func (r *TurmaRepository) Update(ctx context.Context, t *models.Turma) error {
	t.UpdatedAt = time.Now().UTC()
	const query = `UPDATE turmas SET nome = :nome, categoria = :categoria, horario = :horario, professor_id = :professor_id,
        filial_id = :filial_id, ativo = :ativo, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, t); err != nil {
		return fmt.Errorf("update turma: %w", err)
	}
	return nil
}

// Deactivate archives a group.
func (r *TurmaRepository) Deactivate(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE turmas SET ativo = FALSE, updated_at = $2 WHERE id = $1`, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate turma: %w", err)
	}
	return nil
}
