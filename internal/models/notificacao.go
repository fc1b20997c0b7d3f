package models

import "time"

// Notification type tags.
const (
	NotificacaoGeral        = "geral"
	NotificacaoInadimplente = "inadimplencia"
)

// Notificacao is a message delivered to one guardian.
type Notificacao struct {
	ID            int64     `db:"id" json:"id"`
	ResponsavelID int64     `db:"responsavel_id" json:"responsavelId"`
	Titulo        string    `db:"titulo" json:"titulo"`
	Mensagem      string    `db:"mensagem" json:"mensagem"`
	Tipo          string    `db:"tipo" json:"tipo"`
	Lida          bool      `db:"lida" json:"lida"`
	LoteID        *string   `db:"lote_id" json:"loteId,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}

// BroadcastResult is returned by both broadcast operations.
type BroadcastResult struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
	LoteID  string `json:"loteId,omitempty"`
}
