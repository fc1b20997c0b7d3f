package models

import "time"

// Turma is a training group (age category + schedule) at a branch.
type Turma struct {
	ID          int64     `db:"id" json:"id"`
	Nome        string    `db:"nome" json:"nome"`
	Categoria   string    `db:"categoria" json:"categoria"`
	Horario     string    `db:"horario" json:"horario"`
	ProfessorID *int64    `db:"professor_id" json:"professorId,omitempty"`
	FilialID    *int64    `db:"filial_id" json:"filialId"`
	Ativo       bool      `db:"ativo" json:"ativo"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// BranchFilter is shared by branch-scoped rosters (professores, turmas).
type BranchFilter struct {
	FilialID *int64
	Ativo    *bool
	Search   string
}
