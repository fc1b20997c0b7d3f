package dto

// FilialRequest creates or updates a branch.
type FilialRequest struct {
	Nome     string `json:"nome" validate:"required,max=160"`
	Endereco string `json:"endereco"`
	Telefone string `json:"telefone" validate:"max=40"`
	IsMatriz bool   `json:"isMatriz"`
	Ativo    *bool  `json:"ativo"`
}

// GestorRequest creates a branch manager account.
type GestorRequest struct {
	Nome     string `json:"nome" validate:"required,max=160"`
	Email    string `json:"email" validate:"required,email"`
	Senha    string `json:"senha" validate:"required,min=6"`
	FilialID int64  `json:"filialId" validate:"required,gt=0"`
}

// ProfessorRequest creates or updates a coach.
type ProfessorRequest struct {
	Nome          string `json:"nome" validate:"required,max=160"`
	Email         string `json:"email" validate:"omitempty,email"`
	Telefone      string `json:"telefone" validate:"max=40"`
	Especialidade string `json:"especialidade" validate:"max=120"`
	FilialID      *int64 `json:"filialId" validate:"omitempty,gt=0"`
	Ativo         *bool  `json:"ativo"`
}

// TurmaRequest creates or updates a training group.
type TurmaRequest struct {
	Nome        string `json:"nome" validate:"required,max=120"`
	Categoria   string `json:"categoria" validate:"max=40"`
	Horario     string `json:"horario" validate:"max=120"`
	ProfessorID *int64 `json:"professorId" validate:"omitempty,gt=0"`
	FilialID    *int64 `json:"filialId" validate:"omitempty,gt=0"`
	Ativo       *bool  `json:"ativo"`
}
