package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/escolinha-api/internal/models"
)

// AdminRepository provides database access for administrator accounts.
type AdminRepository struct {
	db *sqlx.DB
}

// NewAdminRepository creates a new instance of AdminRepository.
func NewAdminRepository(db *sqlx.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// FindByLogin returns an admin by email or username.
func (r *AdminRepository) FindByLogin(ctx context.Context, login string) (*models.Admin, error) {
	const query = `SELECT id, usuario, email, nome, senha_hash, ativo, created_at, updated_at FROM admins
        WHERE LOWER(email) = LOWER($1) OR usuario = $1 LIMIT 1`
	var admin models.Admin
	if err := r.db.GetContext(ctx, &admin, query, login); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find admin: %w", err)
	}
	return &admin, nil
}

// Create inserts an admin account.
func (r *AdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	now := time.Now().UTC()
	const query = `INSERT INTO admins (usuario, email, nome, senha_hash, ativo, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $6) RETURNING id, created_at, updated_at`
	if err := r.db.QueryRowxContext(ctx, query, admin.Usuario, admin.Email, admin.Nome, admin.SenhaHash, admin.Ativo, now).
		Scan(&admin.ID, &admin.CreatedAt, &admin.UpdatedAt); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	return nil
}

// UpdatePassword replaces the password hash of an admin, returning false when no row matched.
func (r *AdminRepository) UpdatePassword(ctx context.Context, login, hash string) (bool, error) {
	const query = `UPDATE admins SET senha_hash = $2, updated_at = $3 WHERE LOWER(email) = LOWER($1) OR usuario = $1`
	res, err := r.db.ExecContext(ctx, query, login, hash, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("update admin password: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update admin password: %w", err)
	}
	return affected > 0, nil
}

const gestorColumns = `id, nome, email, senha_hash, filial_id, ativo, created_at, updated_at`

// GestorRepository provides database access for branch manager accounts.
type GestorRepository struct {
	db *sqlx.DB
}

// NewGestorRepository creates a new instance of GestorRepository.
func NewGestorRepository(db *sqlx.DB) *GestorRepository {
	return &GestorRepository{db: db}
}

// List returns managers, optionally for one branch.
func (r *GestorRepository) List(ctx context.Context, filialID *int64) ([]models.GestorUnidade, error) {
	var where whereBuilder
	if filialID != nil {
		where.add("filial_id = $%d", *filialID)
	}
	query := fmt.Sprintf("SELECT %s FROM gestores_unidade %s ORDER BY nome", gestorColumns, where.String())
	var items []models.GestorUnidade
	if err := r.db.SelectContext(ctx, &items, query, where.args...); err != nil {
		return nil, fmt.Errorf("list gestores: %w", err)
	}
	return items, nil
}

// FindByEmail returns a manager by login email.
func (r *GestorRepository) FindByEmail(ctx context.Context, email string) (*models.GestorUnidade, error) {
	query := fmt.Sprintf("SELECT %s FROM gestores_unidade WHERE LOWER(email) = LOWER($1) LIMIT 1", gestorColumns)
	var item models.GestorUnidade
	if err := r.db.GetContext(ctx, &item, query, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find gestor: %w", err)
	}
	return &item, nil
}

// Create inserts a manager account.
func (r *GestorRepository) Create(ctx context.Context, gestor *models.GestorUnidade) error {
	now := time.Now().UTC()
	const query = `INSERT INTO gestores_unidade (nome, email, senha_hash, filial_id, ativo, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $6) RETURNING id, created_at, updated_at`
	if err := r.db.QueryRowxContext(ctx, query, gestor.Nome, gestor.Email, gestor.SenhaHash, gestor.FilialID, gestor.Ativo, now).
		Scan(&gestor.ID, &gestor.CreatedAt, &gestor.UpdatedAt); err != nil {
		return fmt.Errorf("create gestor: %w", err)
	}
	return nil
}

// Deactivate disables a manager login.
func (r *GestorRepository) Deactivate(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE gestores_unidade SET ativo = FALSE, updated_at = $2 WHERE id = $1`, id, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("deactivate gestor: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deactivate gestor: %w", err)
	}
	return affected > 0, nil
}
