package models

import "time"

// Responsavel is a guardian with an optional portal login.
type Responsavel struct {
	ID        int64     `db:"id" json:"id"`
	Nome      string    `db:"nome" json:"nome"`
	Email     string    `db:"email" json:"email"`
	CPF       string    `db:"cpf" json:"cpf"`
	Telefone  string    `db:"telefone" json:"telefone"`
	Endereco  string    `db:"endereco" json:"endereco"`
	SenhaHash *string   `db:"senha_hash" json:"-"`
	Ativo     bool      `db:"ativo" json:"ativo"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// ResponsavelFilter captures list criteria for guardians. FilialID limits the
// result to guardians owning at least one student of that branch.
type ResponsavelFilter struct {
	FilialID *int64
	Search   string
	PageRequest
}
