package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/escolinha-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	cleanup := func() {
		_ = sqlxDB.Close()
		db.Close()
	}
	return sqlxDB, mock, cleanup
}

func int64Ptr(v int64) *int64 { return &v }

func TestAlunoRepositoryListAppliesFilialScope(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAlunoRepository(db)

	rows := sqlmock.NewRows([]string{"id", "nome", "filial_id", "ativo"}).
		AddRow(int64(1), "Pedro", int64(7), true)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT a.id")).
		WithArgs(int64(7)).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM alunos a WHERE a.filial_id = $1")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	alunos, total, err := repo.List(context.Background(), models.AlunoFilter{Scope: models.Scope{FilialID: int64Ptr(7)}})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, alunos, 1)
	assert.Equal(t, int64(7), *alunos[0].FilialID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAlunoRepositoryCreateWithResponsavel(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAlunoRepository(db)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO responsaveis")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(10), now, now))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO alunos")).
		WithArgs("Lucas", nil, nil, sqlmock.AnyArg(), "", "", "", int64(3), int64(10), nil, true, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(20), now, now))
	mock.ExpectCommit()

	responsavel := &models.Responsavel{Nome: "Maria", Email: "maria@example.com", CPF: "12345678901", Ativo: true}
	aluno := &models.Aluno{Nome: "Lucas", FilialID: int64Ptr(3), Ativo: true}
	require.NoError(t, repo.CreateWithResponsavel(context.Background(), responsavel, aluno))
	assert.Equal(t, int64(10), responsavel.ID)
	assert.Equal(t, int64(20), aluno.ID)
	assert.Equal(t, int64(10), *aluno.ResponsavelID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAlunoRepositoryCreateWithResponsavelRollsBack(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAlunoRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO responsaveis")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "uq_responsaveis_cpf"})
	mock.ExpectRollback()

	err := repo.CreateWithResponsavel(context.Background(), &models.Responsavel{Nome: "Maria"}, &models.Aluno{Nome: "Lucas"})
	require.Error(t, err)
	constraint, ok := UniqueViolation(err)
	assert.True(t, ok)
	assert.Equal(t, "uq_responsaveis_cpf", constraint)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPagamentoRepositoryCreateBatch(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPagamentoRepository(db)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock($1)")).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT mes_referencia FROM pagamentos")).
		WithArgs(int64(5), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"mes_referencia"}))
	for i, mes := range []string{"2024-01", "2024-02", "2024-03"} {
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO pagamentos")).
			WithArgs(int64(5), sqlmock.AnyArg(), mes, sqlmock.AnyArg(), "pix", nil).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(i+1), now))
	}
	mock.ExpectCommit()

	template := models.Pagamento{AlunoID: 5, Valor: decimal.NewFromInt(150), DataPagamento: now, FormaPagamento: "pix"}
	created, err := repo.CreateBatch(context.Background(), template, []string{"2024-01", "2024-02", "2024-03"})
	require.NoError(t, err)
	require.Len(t, created, 3)
	assert.Equal(t, "2024-02", created[1].MesReferencia)
	assert.Equal(t, int64(3), created[2].ID)
	assert.True(t, created[0].Valor.Equal(decimal.NewFromInt(150)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPagamentoRepositoryCreateBatchRejectsPaidMonths(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPagamentoRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock($1)")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT mes_referencia FROM pagamentos")).
		WillReturnRows(sqlmock.NewRows([]string{"mes_referencia"}).AddRow("2024-03").AddRow("2024-02"))
	mock.ExpectRollback()

	_, err := repo.CreateBatch(context.Background(), models.Pagamento{AlunoID: 5}, []string{"2024-02", "2024-03", "2024-04"})
	var paidErr *PaidMonthsError
	require.True(t, errors.As(err, &paidErr))
	assert.Equal(t, []string{"2024-02", "2024-03"}, paidErr.Months)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPagamentoRepositoryCreateBatchRollsBackOnInsertFailure(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPagamentoRepository(db)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock($1)")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT mes_referencia FROM pagamentos")).
		WillReturnRows(sqlmock.NewRows([]string{"mes_referencia"}))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO pagamentos")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), now))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO pagamentos")).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	created, err := repo.CreateBatch(context.Background(), models.Pagamento{AlunoID: 5, DataPagamento: now}, []string{"2024-01", "2024-02"})
	assert.Nil(t, created)
	var insertErr *BatchInsertError
	require.True(t, errors.As(err, &insertErr))
	assert.Equal(t, "2024-02", insertErr.Month)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFilialRepositoryCreateSecondMatriz(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewFilialRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO filiais")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "uq_filiais_matriz"})

	err := repo.Create(context.Background(), &models.Filial{Nome: "Centro", IsMatriz: true, Ativo: true})
	constraint, ok := UniqueViolation(err)
	assert.True(t, ok)
	assert.Equal(t, "uq_filiais_matriz", constraint)
}

func TestResponsavelRepositoryListByFilial(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewResponsavelRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("EXISTS (SELECT 1 FROM alunos a WHERE a.responsavel_id = r.id AND a.filial_id = $1)")).
		WithArgs(int64(7), "%silva%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "nome"}).AddRow(int64(2), "Ana Silva"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM responsaveis r")).
		WithArgs(int64(7), "%silva%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	items, total, err := repo.List(context.Background(), models.ResponsavelFilter{FilialID: int64Ptr(7), Search: "Silva"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "Ana Silva", items[0].Nome)
}

func TestWhereBuilderSearchEscapesWildcards(t *testing.T) {
	var where whereBuilder
	where.search([]string{"r.nome", "r.email"}, `50%_Off\`)

	require.Len(t, where.args, 1)
	assert.Equal(t, `%50\%\_off\\%`, where.args[0])
	assert.Equal(t, `WHERE (LOWER(r.nome) LIKE $1 ESCAPE '\' OR LOWER(r.email) LIKE $1 ESCAPE '\')`, where.String())
}

func TestResponsavelRepositoryHasAlunos(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewResponsavelRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM alunos WHERE responsavel_id = $1)")).
		WithArgs(int64(21)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	linked, err := repo.HasAlunos(context.Background(), 21)
	require.NoError(t, err)
	assert.True(t, linked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificacaoRepositoryCreateBatch(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewNotificacaoRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("SELECT unnest($1::bigint[])")).
		WithArgs(sqlmock.AnyArg(), "Aviso", "Treino cancelado", models.NotificacaoGeral, "lote-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 3))

	count, err := repo.CreateBatch(context.Background(), []int64{1, 2, 3}, "Aviso", "Treino cancelado", models.NotificacaoGeral, "lote-1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificacaoRepositoryCreateBatchEmpty(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewNotificacaoRepository(db)

	count, err := repo.CreateBatch(context.Background(), nil, "Aviso", "x", models.NotificacaoGeral, "lote-1")
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncOutboxRepositoryFetchAndMark(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSyncOutboxRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM sync_outbox WHERE processed_at IS NULL AND attempts < $1")).
		WithArgs(int64(3), int64(50)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "event_id", "entity", "entity_id", "action"}).
			AddRow(int64(1), "evt-1", models.SyncEntityPagamento, int64(9), models.SyncActionCreated))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE sync_outbox SET attempts = attempts + 1")).
		WithArgs(int64(1), "boom").
		WillReturnResult(sqlmock.NewResult(0, 1))

	events, err := repo.FetchPending(context.Background(), 50, 3)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "pagamento.created", events[0].Type())
	require.NoError(t, repo.MarkFailed(context.Background(), events[0].ID, "boom"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminRepositoryUpdatePasswordMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAdminRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE admins SET senha_hash")).
		WithArgs("ghost", "hash", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.UpdatePassword(context.Background(), "ghost", "hash")
	require.NoError(t, err)
	assert.False(t, ok)
}
