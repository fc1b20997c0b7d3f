package models

import "time"

// Professor is a coach working at a branch.
type Professor struct {
	ID            int64     `db:"id" json:"id"`
	Nome          string    `db:"nome" json:"nome"`
	Email         string    `db:"email" json:"email"`
	Telefone      string    `db:"telefone" json:"telefone"`
	Especialidade string    `db:"especialidade" json:"especialidade"`
	FilialID      *int64    `db:"filial_id" json:"filialId"`
	Ativo         bool      `db:"ativo" json:"ativo"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}
