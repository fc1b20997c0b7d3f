package models

import "time"

// Admin is a global administrator account.
type Admin struct {
	ID        int64     `db:"id" json:"id"`
	Usuario   string    `db:"usuario" json:"usuario"`
	Email     string    `db:"email" json:"email"`
	Nome      string    `db:"nome" json:"nome"`
	SenhaHash string    `db:"senha_hash" json:"-"`
	Ativo     bool      `db:"ativo" json:"ativo"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
