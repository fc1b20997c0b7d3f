package models

import "time"

// Filial is a branch of the academy and the tenant boundary for branch managers.
type Filial struct {
	ID        int64     `db:"id" json:"id"`
	Nome      string    `db:"nome" json:"nome"`
	Endereco  string    `db:"endereco" json:"endereco"`
	Telefone  string    `db:"telefone" json:"telefone"`
	IsMatriz  bool      `db:"is_matriz" json:"isMatriz"`
	Ativo     bool      `db:"ativo" json:"ativo"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// FilialFilter captures list criteria for branches.
type FilialFilter struct {
	IDs    []int64
	Ativo  *bool
	Search string
}
