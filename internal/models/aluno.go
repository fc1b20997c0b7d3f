package models

import "time"

// Aluno is an enrolled student. Students are archived, never erased.
type Aluno struct {
	ID             int64      `db:"id" json:"id"`
	Nome           string     `db:"nome" json:"nome"`
	CPF            *string    `db:"cpf" json:"cpf,omitempty"`
	DataNascimento *time.Time `db:"data_nascimento" json:"dataNascimento,omitempty"`
	DataMatricula  time.Time  `db:"data_matricula" json:"dataMatricula"`
	Telefone       string     `db:"telefone" json:"telefone"`
	Email          string     `db:"email" json:"email"`
	Endereco       string     `db:"endereco" json:"endereco"`
	FilialID       *int64     `db:"filial_id" json:"filialId"`
	ResponsavelID  *int64     `db:"responsavel_id" json:"responsavelId"`
	TurmaID        *int64     `db:"turma_id" json:"turmaId,omitempty"`
	FotoPath       *string    `db:"foto_path" json:"-"`
	Ativo          bool       `db:"ativo" json:"ativo"`
	CreatedAt      time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updatedAt"`
}

// HasFoto reports whether a photo was uploaded for the student.
func (a *Aluno) HasFoto() bool {
	return a != nil && a.FotoPath != nil && *a.FotoPath != ""
}

// AlunoFilter captures list criteria for students. Scope carries the tenant filter.
type AlunoFilter struct {
	Scope   Scope
	TurmaID *int64
	Ativo   *bool
	Search  string
	PageRequest
}
