package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Accepted payment methods.
const (
	FormaPagamentoDinheiro      = "dinheiro"
	FormaPagamentoPix           = "pix"
	FormaPagamentoCartaoCredito = "cartao_credito"
	FormaPagamentoCartaoDebito  = "cartao_debito"
	FormaPagamentoBoleto        = "boleto"
	FormaPagamentoTransferencia = "transferencia"
)

// Pagamento is a tuition payment credited against one YYYY-MM month.
type Pagamento struct {
	ID             int64           `db:"id" json:"id"`
	AlunoID        int64           `db:"aluno_id" json:"alunoId"`
	Valor          decimal.Decimal `db:"valor" json:"valor"`
	MesReferencia  string          `db:"mes_referencia" json:"mesReferencia"`
	DataPagamento  time.Time       `db:"data_pagamento" json:"dataPagamento"`
	FormaPagamento string          `db:"forma_pagamento" json:"formaPagamento"`
	Observacao     *string         `db:"observacao" json:"observacao,omitempty"`
	CreatedAt      time.Time       `db:"created_at" json:"createdAt"`
}

// BatchPagamentoResult reports the rows created by a batch registration.
type BatchPagamentoResult struct {
	Pagamentos []Pagamento `json:"pagamentos"`
	Count      int         `json:"count"`
	Meses      []string    `json:"meses"`
}
