package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/escolinha-api/internal/models"
)

// NotificacaoRepository stores guardian notifications.
type NotificacaoRepository struct {
	db *sqlx.DB
}

// NewNotificacaoRepository constructs a NotificacaoRepository.
func NewNotificacaoRepository(db *sqlx.DB) *NotificacaoRepository {
	return &NotificacaoRepository{db: db}
}

// CreateBatch inserts the same message for every guardian in one statement and
// returns the number of rows written.
func (r *NotificacaoRepository) CreateBatch(ctx context.Context, responsavelIDs []int64, titulo, mensagem, tipo, loteID string) (int, error) {
	if len(responsavelIDs) == 0 {
		return 0, nil
	}
	const query = `INSERT INTO notificacoes (responsavel_id, titulo, mensagem, tipo, lote_id, created_at)
        SELECT unnest($1::bigint[]), $2, $3, $4, $5, $6`
	res, err := r.db.ExecContext(ctx, query, pq.Array(responsavelIDs), titulo, mensagem, tipo, loteID, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("create notificacoes: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("create notificacoes: %w", err)
	}
	return int(affected), nil
}

// ListByResponsavel returns the notifications of a guardian, newest first.
func (r *NotificacaoRepository) ListByResponsavel(ctx context.Context, responsavelID int64, unreadOnly bool) ([]models.Notificacao, error) {
	query := `SELECT id, responsavel_id, titulo, mensagem, tipo, lida, lote_id::text AS lote_id, created_at
        FROM notificacoes WHERE responsavel_id = $1`
	if unreadOnly {
		query += ` AND lida = FALSE`
	}
	query += ` ORDER BY created_at DESC, id DESC`
	var items []models.Notificacao
	if err := r.db.SelectContext(ctx, &items, query, responsavelID); err != nil {
		return nil, fmt.Errorf("list notificacoes: %w", err)
	}
	return items, nil
}

// MarkRead flags a guardian's notification as read, returning false when it is not theirs.
func (r *NotificacaoRepository) MarkRead(ctx context.Context, id, responsavelID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE notificacoes SET lida = TRUE WHERE id = $1 AND responsavel_id = $2`, id, responsavelID)
	if err != nil {
		return false, fmt.Errorf("mark notificacao read: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark notificacao read: %w", err)
	}
	return affected > 0, nil
}
