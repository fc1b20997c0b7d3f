package models

import "github.com/shopspring/decimal"

// BillingStatus is the derived payment situation of one student.
type BillingStatus struct {
	EmDia           bool    `json:"emDia"`
	UltimoPagamento *string `json:"ultimoPagamento,omitempty"`
	DiasAtraso      *int    `json:"diasAtraso,omitempty"`
}

// Inadimplente is an overdue student entry of the overdue report.
type Inadimplente struct {
	AlunoID       int64         `json:"alunoId"`
	Nome          string        `json:"nome"`
	FilialID      *int64        `json:"filialId"`
	ResponsavelID *int64        `json:"responsavelId"`
	Status        BillingStatus `json:"status"`
}

// Extrato is the payment statement of a student.
type Extrato struct {
	Aluno      Aluno           `json:"aluno"`
	Status     BillingStatus   `json:"status"`
	Pagamentos []Pagamento     `json:"pagamentos"`
	TotalPago  decimal.Decimal `json:"totalPago"`
}
