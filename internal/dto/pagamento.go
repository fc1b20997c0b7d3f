package dto

import "github.com/shopspring/decimal"

// PagamentoRequest registers a single payment.
type PagamentoRequest struct {
	AlunoID        int64           `json:"alunoId" validate:"required,gt=0"`
	Valor          decimal.Decimal `json:"valor"`
	MesReferencia  string          `json:"mesReferencia" validate:"required,mesref"`
	DataPagamento  string          `json:"dataPagamento" validate:"required,datetime=2006-01-02"`
	FormaPagamento string          `json:"formaPagamento" validate:"required,oneof=dinheiro pix cartao_credito cartao_debito boleto transferencia"`
	Observacao     *string         `json:"observacao" validate:"omitempty,max=500"`
}

// BatchPagamentoRequest registers one payment per month ("dar baixa em lote").
type BatchPagamentoRequest struct {
	AlunoID        int64           `json:"alunoId" validate:"required,gt=0"`
	Meses          []string        `json:"meses" validate:"required,min=1,max=24,unique,dive,mesref"`
	Valor          decimal.Decimal `json:"valor"`
	DataPagamento  string          `json:"dataPagamento" validate:"required,datetime=2006-01-02"`
	FormaPagamento string          `json:"formaPagamento" validate:"required,oneof=dinheiro pix cartao_credito cartao_debito boleto transferencia"`
	Observacao     *string         `json:"observacao" validate:"omitempty,max=500"`
}
