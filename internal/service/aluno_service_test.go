package service

import (
	"context"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/escolinha-api/internal/dto"
	"github.com/noah-isme/escolinha-api/internal/models"
	appErrors "github.com/noah-isme/escolinha-api/pkg/errors"
)

func newTestAlunoService(repo *stubAlunoRepo, outbox *stubOutbox) *AlunoService {
	responsaveis := &stubResponsavelRepo{
		responsaveis: map[int64]models.Responsavel{
			20: {ID: 20, Nome: "Maria"},
			21: {ID: 21, Nome: "Carla"},
			22: {ID: 22, Nome: "Rita"},
		},
		// 22 has no student yet
		inFilial: map[int64]int64{20: 7, 21: 9},
	}
	turmas := &stubTurmaRepo{turmas: map[int64]models.Turma{
		50: {ID: 50, Nome: "Sub-11", FilialID: int64Ptr(7), Ativo: true},
		55: {ID: 55, Nome: "Sub-13", FilialID: int64Ptr(9), Ativo: true},
	}}
	return NewAlunoService(repo, responsaveis, turmas, NewSyncService(outbox, zap.NewNop(), true), nil, zap.NewNop())
}

func TestAlunoServiceListAppliesTenantScope(t *testing.T) {
	repo := newStubAlunoRepo(
		models.Aluno{ID: 1, Nome: "Joao", FilialID: int64Ptr(7), ResponsavelID: int64Ptr(20), Ativo: true},
		models.Aluno{ID: 2, Nome: "Pedro", FilialID: int64Ptr(9), ResponsavelID: int64Ptr(21), Ativo: true},
	)
	svc := newTestAlunoService(repo, newStubOutbox())

	// a manager asking for another branch still only sees their own
	items, pagination, err := svc.List(context.Background(), managerPrincipal, models.AlunoFilter{Scope: models.Scope{FilialID: int64Ptr(9)}})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(1), items[0].ID)
	assert.Equal(t, 1, pagination.TotalCount)
	assert.Equal(t, 20, pagination.PageSize)

	items, _, err = svc.List(context.Background(), guardianPrincipal, models.AlunoFilter{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(20), *repo.lastFilter.Scope.ResponsavelID)

	items, _, err = svc.List(context.Background(), adminPrincipal, models.AlunoFilter{})
	require.NoError(t, err)
	assert.Len(t, items, 2)

	_, _, err = svc.List(context.Background(), nil, models.AlunoFilter{})
	assert.Equal(t, 401, appErrors.FromError(err).Status)
}

func TestAlunoServiceCreateStampsManagerFilial(t *testing.T) {
	repo := newStubAlunoRepo()
	outbox := newStubOutbox()
	svc := newTestAlunoService(repo, outbox)

	aluno, err := svc.Create(context.Background(), managerPrincipal, dto.AlunoRequest{
		Nome:          "Lucas",
		FilialID:      int64Ptr(9),
		DataMatricula: strPtr("2024-02-01"),
	})
	require.NoError(t, err)
	require.NotNil(t, aluno.FilialID)
	assert.Equal(t, int64(7), *aluno.FilialID)
	assert.True(t, aluno.Ativo)
	assert.Equal(t, "2024-02-01", aluno.DataMatricula.Format(dateLayout))

	events := outbox.recorded()
	require.Len(t, events, 1)
	assert.Equal(t, "aluno.created", events[0].Type())
	assert.Equal(t, int64(7), *events[0].FilialID)

	_, err = svc.Create(context.Background(), guardianPrincipal, dto.AlunoRequest{Nome: "X"})
	assert.Equal(t, 403, appErrors.FromError(err).Status)

	_, err = svc.Create(context.Background(), adminPrincipal, dto.AlunoRequest{})
	appErr := appErrors.FromError(err)
	assert.Equal(t, 400, appErr.Status)
	require.NotEmpty(t, appErr.Details)
	assert.Equal(t, "nome", appErr.Details[0].Field)
}

func TestAlunoServiceCreateCompleto(t *testing.T) {
	repo := newStubAlunoRepo()
	svc := newTestAlunoService(repo, newStubOutbox())

	req := dto.AlunoCompletoRequest{
		Aluno: dto.AlunoRequest{Nome: "Lucas", FilialID: int64Ptr(9)},
		Responsavel: dto.ResponsavelRequest{
			Nome:  "Maria",
			Email: "maria@example.com",
			CPF:   "123.456.789-00",
			Senha: strPtr("segredo1"),
		},
	}
	aluno, err := svc.CreateCompleto(context.Background(), managerPrincipal, req)
	require.NoError(t, err)
	require.NotNil(t, aluno.ResponsavelID)
	assert.Equal(t, int64(7), *aluno.FilialID)

	stored, err := svc.Get(context.Background(), managerPrincipal, aluno.ID)
	require.NoError(t, err)
	assert.Equal(t, *aluno.ResponsavelID, *stored.ResponsavelID)
}

func TestAlunoServiceCreateCompletoHashesGuardianPassword(t *testing.T) {
	resp, err := newResponsavel(dto.ResponsavelRequest{Nome: "Maria", Email: "m@example.com", CPF: "12345678900", Senha: strPtr("segredo1")})
	require.NoError(t, err)
	require.NotNil(t, resp.SenhaHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*resp.SenhaHash), []byte("segredo1")))

	resp, err = newResponsavel(dto.ResponsavelRequest{Nome: "Maria", Email: "m@example.com", CPF: "12345678900"})
	require.NoError(t, err)
	assert.Nil(t, resp.SenhaHash)
}

func TestAlunoServiceCreateCompletoDuplicateGuardian(t *testing.T) {
	repo := newStubAlunoRepo()
	repo.createErr = &pq.Error{Code: "23505", Constraint: "uq_responsaveis_cpf"}
	svc := newTestAlunoService(repo, newStubOutbox())

	_, err := svc.CreateCompleto(context.Background(), adminPrincipal, dto.AlunoCompletoRequest{
		Aluno:       dto.AlunoRequest{Nome: "Lucas"},
		Responsavel: dto.ResponsavelRequest{Nome: "Maria", Email: "maria@example.com", CPF: "12345678900"},
	})
	appErr := appErrors.FromError(err)
	assert.Equal(t, 400, appErr.Status)
	assert.Equal(t, appErrors.ErrDuplicate.Code, appErr.Code)
	require.Len(t, appErr.Details, 1)
	assert.Equal(t, "responsavel.cpf", appErr.Details[0].Field)
}

func TestAlunoServiceCreateCompletoValidatesNestedPayload(t *testing.T) {
	svc := newTestAlunoService(newStubAlunoRepo(), newStubOutbox())

	_, err := svc.CreateCompleto(context.Background(), adminPrincipal, dto.AlunoCompletoRequest{
		Aluno:       dto.AlunoRequest{Nome: "Lucas"},
		Responsavel: dto.ResponsavelRequest{Nome: "Maria", Email: "not-an-email", CPF: "123"},
	})
	appErr := appErrors.FromError(err)
	assert.Equal(t, 400, appErr.Status)
	fields := make([]string, 0, len(appErr.Details))
	for _, d := range appErr.Details {
		fields = append(fields, d.Field)
	}
	assert.ElementsMatch(t, []string{"responsavel.email", "responsavel.cpf"}, fields)
}

func TestAlunoServiceUpdateAndDeactivate(t *testing.T) {
	repo := newStubAlunoRepo(
		models.Aluno{ID: 1, Nome: "Joao", FilialID: int64Ptr(7), Ativo: true},
		models.Aluno{ID: 2, Nome: "Pedro", FilialID: int64Ptr(9), Ativo: true},
	)
	outbox := newStubOutbox()
	svc := newTestAlunoService(repo, outbox)

	updated, err := svc.Update(context.Background(), managerPrincipal, 1, dto.AlunoUpdateRequest{
		Nome:     strPtr("Joao Silva"),
		FilialID: int64Ptr(9),
	})
	require.NoError(t, err)
	assert.Equal(t, "Joao Silva", updated.Nome)
	assert.Equal(t, int64(7), *updated.FilialID)

	_, err = svc.Update(context.Background(), managerPrincipal, 2, dto.AlunoUpdateRequest{Nome: strPtr("X")})
	assert.Equal(t, 404, appErrors.FromError(err).Status)

	err = svc.Deactivate(context.Background(), guardianPrincipal, 1)
	assert.Equal(t, 403, appErrors.FromError(err).Status)

	require.NoError(t, svc.Deactivate(context.Background(), managerPrincipal, 1))
	assert.Equal(t, []int64{1}, repo.deactivated)
	assert.False(t, repo.alunos[1].Ativo)

	events := outbox.recorded()
	require.Len(t, events, 2)
	assert.Equal(t, "aluno.deleted", events[1].Type())
}

func TestAlunoServiceCreateRejectsForeignReferences(t *testing.T) {
	repo := newStubAlunoRepo()
	svc := newTestAlunoService(repo, newStubOutbox())

	cases := map[string]struct {
		req   dto.AlunoRequest
		field string
	}{
		"responsavel of another branch": {dto.AlunoRequest{Nome: "Lucas", ResponsavelID: int64Ptr(21)}, "responsavelId"},
		"turma of another branch":       {dto.AlunoRequest{Nome: "Lucas", TurmaID: int64Ptr(55)}, "turmaId"},
		"unknown responsavel":           {dto.AlunoRequest{Nome: "Lucas", ResponsavelID: int64Ptr(99)}, "responsavelId"},
		"unknown turma":                 {dto.AlunoRequest{Nome: "Lucas", TurmaID: int64Ptr(99)}, "turmaId"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), managerPrincipal, tc.req)
			appErr := appErrors.FromError(err)
			assert.Equal(t, 400, appErr.Status)
			require.Len(t, appErr.Details, 1)
			assert.Equal(t, tc.field, appErr.Details[0].Field)
		})
	}
	assert.Empty(t, repo.alunos)

	aluno, err := svc.Create(context.Background(), managerPrincipal, dto.AlunoRequest{Nome: "Lucas", ResponsavelID: int64Ptr(20), TurmaID: int64Ptr(50)})
	require.NoError(t, err)
	assert.Equal(t, int64(20), *aluno.ResponsavelID)

	aluno, err = svc.Create(context.Background(), managerPrincipal, dto.AlunoRequest{Nome: "Bia", ResponsavelID: int64Ptr(22)})
	require.NoError(t, err)
	assert.Equal(t, int64(22), *aluno.ResponsavelID)
}

func TestAlunoServiceAdminLinksAnyBranch(t *testing.T) {
	svc := newTestAlunoService(newStubAlunoRepo(), newStubOutbox())

	aluno, err := svc.Create(context.Background(), adminPrincipal, dto.AlunoRequest{
		Nome:          "Lucas",
		FilialID:      int64Ptr(7),
		ResponsavelID: int64Ptr(21),
		TurmaID:       int64Ptr(55),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(21), *aluno.ResponsavelID)
	assert.Equal(t, int64(55), *aluno.TurmaID)

	_, err = svc.Create(context.Background(), adminPrincipal, dto.AlunoRequest{Nome: "Lucas", TurmaID: int64Ptr(99)})
	assert.Equal(t, 400, appErrors.FromError(err).Status)
}

func TestAlunoServiceUpdateRejectsForeignReferences(t *testing.T) {
	repo := newStubAlunoRepo(
		models.Aluno{ID: 1, Nome: "Joao", FilialID: int64Ptr(7), ResponsavelID: int64Ptr(20), Ativo: true},
		// linked by an admin across branches
		models.Aluno{ID: 2, Nome: "Pedro", FilialID: int64Ptr(7), ResponsavelID: int64Ptr(21), TurmaID: int64Ptr(55), Ativo: true},
	)
	svc := newTestAlunoService(repo, newStubOutbox())

	_, err := svc.Update(context.Background(), managerPrincipal, 1, dto.AlunoUpdateRequest{ResponsavelID: int64Ptr(21)})
	appErr := appErrors.FromError(err)
	assert.Equal(t, 400, appErr.Status)
	require.Len(t, appErr.Details, 1)
	assert.Equal(t, "responsavelId", appErr.Details[0].Field)

	_, err = svc.Update(context.Background(), managerPrincipal, 1, dto.AlunoUpdateRequest{TurmaID: int64Ptr(55)})
	assert.Equal(t, 400, appErrors.FromError(err).Status)
	assert.Equal(t, int64(20), *repo.alunos[1].ResponsavelID)
	assert.Nil(t, repo.alunos[1].TurmaID)

	// resending the current links is not a relink
	updated, err := svc.Update(context.Background(), managerPrincipal, 2, dto.AlunoUpdateRequest{
		Nome:          strPtr("Pedro Lima"),
		ResponsavelID: int64Ptr(21),
		TurmaID:       int64Ptr(55),
	})
	require.NoError(t, err)
	assert.Equal(t, "Pedro Lima", updated.Nome)

	updated, err = svc.Update(context.Background(), adminPrincipal, 1, dto.AlunoUpdateRequest{ResponsavelID: int64Ptr(21), TurmaID: int64Ptr(55)})
	require.NoError(t, err)
	assert.Equal(t, int64(21), *updated.ResponsavelID)
	assert.Equal(t, int64(55), *updated.TurmaID)
}

func TestAlunoServiceCreateCompletoRejectsForeignTurma(t *testing.T) {
	repo := newStubAlunoRepo()
	svc := newTestAlunoService(repo, newStubOutbox())

	_, err := svc.CreateCompleto(context.Background(), managerPrincipal, dto.AlunoCompletoRequest{
		Aluno:       dto.AlunoRequest{Nome: "Lucas", TurmaID: int64Ptr(55)},
		Responsavel: dto.ResponsavelRequest{Nome: "Maria", Email: "maria@example.com", CPF: "12345678900"},
	})
	appErr := appErrors.FromError(err)
	assert.Equal(t, 400, appErr.Status)
	require.Len(t, appErr.Details, 1)
	assert.Equal(t, "aluno.turmaId", appErr.Details[0].Field)
	assert.Empty(t, repo.alunos)
}
