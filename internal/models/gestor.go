package models

import "time"

// GestorUnidade is a branch manager account bound to exactly one filial.
type GestorUnidade struct {
	ID        int64     `db:"id" json:"id"`
	Nome      string    `db:"nome" json:"nome"`
	Email     string    `db:"email" json:"email"`
	SenhaHash string    `db:"senha_hash" json:"-"`
	FilialID  int64     `db:"filial_id" json:"filialId"`
	Ativo     bool      `db:"ativo" json:"ativo"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
