package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/escolinha-api/internal/models"
)

const pqUniqueViolation = "23505"

// UniqueViolation reports the violated constraint when err is a Postgres unique violation.
func UniqueViolation(err error) (string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
		return pqErr.Constraint, true
	}
	return "", false
}

// PaidMonthsError is returned when a batch targets months that already have a payment.
type PaidMonthsError struct {
	Months []string
}

func (e *PaidMonthsError) Error() string {
	return fmt.Sprintf("months already paid: %s", strings.Join(e.Months, ", "))
}

// BatchInsertError identifies the month whose insert aborted a batch.
type BatchInsertError struct {
	Month string
	Err   error
}

func (e *BatchInsertError) Error() string {
	return fmt.Sprintf("insert pagamento %s: %v", e.Month, e.Err)
}

func (e *BatchInsertError) Unwrap() error {
	return e.Err
}

// withTx runs fn inside a transaction, rolling back on error or panic.
func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// whereBuilder accumulates positional filters.
type whereBuilder struct {
	conditions []string
	args       []interface{}
}

func (w *whereBuilder) add(format string, value interface{}) {
	w.args = append(w.args, value)
	w.conditions = append(w.conditions, fmt.Sprintf(format, len(w.args)))
}

func (w *whereBuilder) addRaw(condition string) {
	w.conditions = append(w.conditions, condition)
}

func (w *whereBuilder) scope(alias string, scope models.Scope) {
	if scope.FilialID != nil {
		w.add(alias+".filial_id = $%d", *scope.FilialID)
	}
	if scope.ResponsavelID != nil {
		w.add(alias+".responsavel_id = $%d", *scope.ResponsavelID)
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func (w *whereBuilder) search(columns []string, term string) {
	if term == "" {
		return
	}
	w.args = append(w.args, "%"+likeEscaper.Replace(strings.ToLower(term))+"%")
	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = fmt.Sprintf(`LOWER(%s) LIKE $%d ESCAPE '\'`, col, len(w.args))
	}
	w.conditions = append(w.conditions, "("+strings.Join(parts, " OR ")+")")
}

func (w *whereBuilder) String() string {
	if len(w.conditions) == 0 {
		return "WHERE 1=1"
	}
	return "WHERE " + strings.Join(w.conditions, " AND ")
}

func orderBy(req models.PageRequest, allowed map[string]string, fallback string) string {
	column, ok := allowed[req.SortBy]
	if !ok {
		column = fallback
	}
	order := strings.ToUpper(req.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	return column + " " + order
}

func sortedMonths(months []string) []string {
	out := append([]string(nil), months...)
	sort.Strings(out)
	return out
}
