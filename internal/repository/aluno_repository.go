package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/escolinha-api/internal/models"
)

const alunoColumns = `a.id, a.nome, a.cpf, a.data_nascimento, a.data_matricula, a.telefone, a.email, a.endereco,
        a.filial_id, a.responsavel_id, a.turma_id, a.foto_path, a.ativo, a.created_at, a.updated_at`

// AlunoRepository manages persistence for students.
type AlunoRepository struct {
	db *sqlx.DB
}

// NewAlunoRepository constructs an AlunoRepository.
func NewAlunoRepository(db *sqlx.DB) *AlunoRepository {
	return &AlunoRepository{db: db}
}

// List returns students matching the filter, always applying the tenant scope.
func (r *AlunoRepository) List(ctx context.Context, filter models.AlunoFilter) ([]models.Aluno, int, error) {
	var where whereBuilder
	where.scope("a", filter.Scope)
	if filter.TurmaID != nil {
		where.add("a.turma_id = $%d", *filter.TurmaID)
	}
	if filter.Ativo != nil {
		where.add("a.ativo = $%d", *filter.Ativo)
	}
	where.search([]string{"a.nome", "a.cpf"}, filter.Search)

	base := fmt.Sprintf("FROM alunos a %s", where.String())
	order := orderBy(filter.PageRequest, map[string]string{
		"nome":          "a.nome",
		"dataMatricula": "a.data_matricula",
		"createdAt":     "a.created_at",
	}, "a.created_at")
	_, size, offset := filter.Normalize()

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s LIMIT %d OFFSET %d", alunoColumns, base, order, size, offset)
	var alunos []models.Aluno
	if err := r.db.SelectContext(ctx, &alunos, query, where.args...); err != nil {
		return nil, 0, fmt.Errorf("list alunos: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, where.args...); err != nil {
		return nil, 0, fmt.Errorf("count alunos: %w", err)
	}
	return alunos, total, nil
}

// ListActive returns every active student in scope, unpaginated.
func (r *AlunoRepository) ListActive(ctx context.Context, scope models.Scope) ([]models.Aluno, error) {
	var where whereBuilder
	where.addRaw("a.ativo = TRUE")
	where.scope("a", scope)
	query := fmt.Sprintf("SELECT %s FROM alunos a %s ORDER BY a.id", alunoColumns, where.String())
	var alunos []models.Aluno
	if err := r.db.SelectContext(ctx, &alunos, query, where.args...); err != nil {
		return nil, fmt.Errorf("list active alunos: %w", err)
	}
	return alunos, nil
}

// FindByID fetches a student by id.
func (r *AlunoRepository) FindByID(ctx context.Context, id int64) (*models.Aluno, error) {
	query := fmt.Sprintf("SELECT %s FROM alunos a WHERE a.id = $1", alunoColumns)
	var aluno models.Aluno
	if err := r.db.GetContext(ctx, &aluno, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find aluno: %w", err)
	}
	return &aluno, nil
}

// Create inserts a student.
func (r *AlunoRepository) Create(ctx context.Context, aluno *models.Aluno) error {
	if err := insertAluno(ctx, r.db, aluno); err != nil {
		return fmt.Errorf("create aluno: %w", err)
	}
	return nil
}

// CreateWithResponsavel inserts a guardian and a student owned by them atomically.
func (r *AlunoRepository) CreateWithResponsavel(ctx context.Context, responsavel *models.Responsavel, aluno *models.Aluno) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := insertResponsavel(ctx, tx, responsavel); err != nil {
			return fmt.Errorf("create responsavel: %w", err)
		}
		aluno.ResponsavelID = &responsavel.ID
		if err := insertAluno(ctx, tx, aluno); err != nil {
			return fmt.Errorf("create aluno: %w", err)
		}
		return nil
	})
}

func insertAluno(ctx context.Context, q sqlx.QueryerContext, aluno *models.Aluno) error {
	now := time.Now().UTC()
	if aluno.DataMatricula.IsZero() {
		aluno.DataMatricula = now
	}
	const query = `INSERT INTO alunos (nome, cpf, data_nascimento, data_matricula, telefone, email, endereco, filial_id, responsavel_id, turma_id, ativo, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12) RETURNING id, created_at, updated_at`
	return q.QueryRowxContext(ctx, query,
		aluno.Nome, aluno.CPF, aluno.DataNascimento, aluno.DataMatricula, aluno.Telefone, aluno.Email, aluno.Endereco,
		aluno.FilialID, aluno.ResponsavelID, aluno.TurmaID, aluno.Ativo, now,
	).Scan(&aluno.ID, &aluno.CreatedAt, &aluno.UpdatedAt)
}

// Update persists the mutable fields of a student.
func (r *AlunoRepository) Update(ctx context.Context, aluno *models.Aluno) error {
	aluno.UpdatedAt = time.Now().UTC()
	const query = `UPDATE alunos SET nome = :nome, cpf = :cpf, data_nascimento = :data_nascimento, telefone = :telefone, email = :email,
        endereco = :endereco, filial_id = :filial_id, responsavel_id = :responsavel_id, turma_id = :turma_id, ativo = :ativo, updated_at = :updated_at
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, aluno); err != nil {
		return fmt.Errorf("update aluno: %w", err)
	}
	return nil
}

// UpdateFoto stores (or clears) the photo path of a student.
func (r *AlunoRepository) UpdateFoto(ctx context.Context, id int64, path *string) error {
	const query = `UPDATE alunos SET foto_path = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, path, time.Now().UTC()); err != nil {
		return fmt.Errorf("update aluno foto: %w", err)
	}
	return nil
}

// Deactivate archives a student.
func (r *AlunoRepository) Deactivate(ctx context.Context, id int64) error {
	const query = `UPDATE alunos SET ativo = FALSE, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate aluno: %w", err)
	}
	return nil
}
