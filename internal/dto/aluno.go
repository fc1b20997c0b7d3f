package dto

// AlunoRequest is the payload for creating a student.
type AlunoRequest struct {
	Nome           string  `json:"nome" validate:"required,max=160"`
	CPF            *string `json:"cpf" validate:"omitempty,cpf"`
	DataNascimento *string `json:"dataNascimento" validate:"omitempty,datetime=2006-01-02"`
	DataMatricula  *string `json:"dataMatricula" validate:"omitempty,datetime=2006-01-02"`
	Telefone       string  `json:"telefone" validate:"max=40"`
	Email          string  `json:"email" validate:"omitempty,email"`
	Endereco       string  `json:"endereco"`
	FilialID       *int64  `json:"filialId" validate:"omitempty,gt=0"`
	ResponsavelID  *int64  `json:"responsavelId" validate:"omitempty,gt=0"`
	TurmaID        *int64  `json:"turmaId" validate:"omitempty,gt=0"`
}

// AlunoUpdateRequest updates a student. Absent fields are left unchanged, so
// PUT and PATCH share it.
type AlunoUpdateRequest struct {
	Nome           *string `json:"nome" validate:"omitempty,min=1,max=160"`
	CPF            *string `json:"cpf" validate:"omitempty,cpf"`
	DataNascimento *string `json:"dataNascimento" validate:"omitempty,datetime=2006-01-02"`
	Telefone       *string `json:"telefone" validate:"omitempty,max=40"`
	Email          *string `json:"email" validate:"omitempty,email"`
	Endereco       *string `json:"endereco"`
	FilialID       *int64  `json:"filialId" validate:"omitempty,gt=0"`
	ResponsavelID  *int64  `json:"responsavelId" validate:"omitempty,gt=0"`
	TurmaID        *int64  `json:"turmaId" validate:"omitempty,gt=0"`
	Ativo          *bool   `json:"ativo"`
}

// ResponsavelRequest is the payload for creating a guardian.
type ResponsavelRequest struct {
	Nome     string  `json:"nome" validate:"required,max=160"`
	Email    string  `json:"email" validate:"required,email"`
	CPF      string  `json:"cpf" validate:"required,cpf"`
	Telefone string  `json:"telefone" validate:"max=40"`
	Endereco string  `json:"endereco"`
	Senha    *string `json:"senha" validate:"omitempty,min=6"`
}

// ResponsavelUpdateRequest updates guardian data from the staff side.
type ResponsavelUpdateRequest struct {
	Nome     *string `json:"nome" validate:"omitempty,min=1,max=160"`
	Email    *string `json:"email" validate:"omitempty,email"`
	CPF      *string `json:"cpf" validate:"omitempty,cpf"`
	Telefone *string `json:"telefone" validate:"omitempty,max=40"`
	Endereco *string `json:"endereco"`
	Senha    *string `json:"senha" validate:"omitempty,min=6"`
}

// ContatoUpdateRequest is the only guardian data a guardian may change themselves.
type ContatoUpdateRequest struct {
	Telefone *string `json:"telefone" validate:"omitempty,max=40"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Endereco *string `json:"endereco"`
}

// AlunoCompletoRequest creates a guardian and a student in one step.
type AlunoCompletoRequest struct {
	Aluno       AlunoRequest       `json:"aluno"`
	Responsavel ResponsavelRequest `json:"responsavel"`
}

// FotoURLResponse carries a temporary download link for a student photo.
type FotoURLResponse struct {
	URL       string `json:"url"`
	ExpiresAt string `json:"expiresAt"`
}
