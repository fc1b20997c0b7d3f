package dto

import "github.com/shopspring/decimal"

// PlanoCalculoRequest holds the inputs of the plan total calculation.
type PlanoCalculoRequest struct {
	ValorMensal        decimal.Decimal `json:"valorMensal"`
	QuantidadeMeses    int             `json:"quantidadeMeses" validate:"required,min=1,max=120"`
	DescontoPercentual decimal.Decimal `json:"descontoPercentual"`
}

// PlanoRequest creates or replaces a financial plan.
type PlanoRequest struct {
	Nome               string          `json:"nome" validate:"required,max=160"`
	ValorMensal        decimal.Decimal `json:"valorMensal"`
	QuantidadeMeses    int             `json:"quantidadeMeses" validate:"required,min=1,max=120"`
	DescontoPercentual decimal.Decimal `json:"descontoPercentual"`
	DiaVencimento      int             `json:"diaVencimento" validate:"omitempty,min=1,max=28"`
	FilialID           *int64          `json:"filialId" validate:"omitempty,gt=0"`
	Ativo              *bool           `json:"ativo"`
}

// Calculo extracts the calculation inputs of the plan.
func (r PlanoRequest) Calculo() PlanoCalculoRequest {
	return PlanoCalculoRequest{
		ValorMensal:        r.ValorMensal,
		QuantidadeMeses:    r.QuantidadeMeses,
		DescontoPercentual: r.DescontoPercentual,
	}
}

// PlanoPreviewResponse echoes the inputs with the computed total.
type PlanoPreviewResponse struct {
	ValorMensal        decimal.Decimal `json:"valorMensal"`
	QuantidadeMeses    int             `json:"quantidadeMeses"`
	DescontoPercentual decimal.Decimal `json:"descontoPercentual"`
	ValorTotal         decimal.Decimal `json:"valorTotal"`
}
