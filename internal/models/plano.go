package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlanoFinanceiro is a billing template. FilialID nil means the plan is global.
type PlanoFinanceiro struct {
	ID                 int64           `db:"id" json:"id"`
	Nome               string          `db:"nome" json:"nome"`
	ValorMensal        decimal.Decimal `db:"valor_mensal" json:"valorMensal"`
	QuantidadeMeses    int             `db:"quantidade_meses" json:"quantidadeMeses"`
	DescontoPercentual decimal.Decimal `db:"desconto_percentual" json:"descontoPercentual"`
	ValorTotal         decimal.Decimal `db:"valor_total" json:"valorTotal"`
	DiaVencimento      int             `db:"dia_vencimento" json:"diaVencimento"`
	FilialID           *int64          `db:"filial_id" json:"filialId"`
	Ativo              bool            `db:"ativo" json:"ativo"`
	CreatedAt          time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time       `db:"updated_at" json:"updatedAt"`
}

// PlanoFilter restricts plan listings. IncludeGlobal adds plans without a branch.
type PlanoFilter struct {
	FilialID      *int64
	IncludeGlobal bool
	Ativo         *bool
}
