package models

import "time"

// Sync outbox entities and actions.
const (
	SyncEntityAluno     = "aluno"
	SyncEntityPagamento = "pagamento"
	SyncEntityPlano     = "plano_financeiro"

	SyncActionCreated = "created"
	SyncActionUpdated = "updated"
	SyncActionDeleted = "deleted"
)

// SyncEvent is a persisted outbox row. ProcessedAt doubles as the delivery offset.
type SyncEvent struct {
	ID          int64      `db:"id" json:"id"`
	EventID     string     `db:"event_id" json:"eventId"`
	Entity      string     `db:"entity" json:"entity"`
	EntityID    int64      `db:"entity_id" json:"entityId"`
	Action      string     `db:"action" json:"action"`
	FilialID    *int64     `db:"filial_id" json:"filialId,omitempty"`
	Payload     []byte     `db:"payload" json:"payload,omitempty"`
	Attempts    int        `db:"attempts" json:"attempts"`
	LastError   *string    `db:"last_error" json:"lastError,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	ProcessedAt *time.Time `db:"processed_at" json:"processedAt,omitempty"`
}

// Type returns the "<entity>.<action>" tag used for logging and job routing.
func (e SyncEvent) Type() string {
	return e.Entity + "." + e.Action
}
