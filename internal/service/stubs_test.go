package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/noah-isme/escolinha-api/internal/models"
	"github.com/noah-isme/escolinha-api/internal/repository"
	appErrors "github.com/noah-isme/escolinha-api/pkg/errors"
)

func int64Ptr(v int64) *int64 { return &v }

func strPtr(v string) *string { return &v }

var (
	adminPrincipal    = models.NewAdminPrincipal(1, "Admin")
	managerPrincipal  = models.NewBranchManagerPrincipal(3, 7, "Gestor Centro")
	guardianPrincipal = models.NewGuardianPrincipal(20, "Maria")
)

type stubAlunoRepo struct {
	alunos      map[int64]models.Aluno
	lastFilter  models.AlunoFilter
	lastScope   models.Scope
	deactivated []int64
	createErr   error
	findErr     error
	nextID      int64
}

func newStubAlunoRepo(alunos ...models.Aluno) *stubAlunoRepo {
	repo := &stubAlunoRepo{alunos: make(map[int64]models.Aluno), nextID: 100}
	for _, a := range alunos {
		repo.alunos[a.ID] = a
	}
	return repo
}

func (s *stubAlunoRepo) visible(a models.Aluno, scope models.Scope) bool {
	if scope.FilialID != nil && (a.FilialID == nil || *a.FilialID != *scope.FilialID) {
		return false
	}
	if scope.ResponsavelID != nil && (a.ResponsavelID == nil || *a.ResponsavelID != *scope.ResponsavelID) {
		return false
	}
	return true
}

func (s *stubAlunoRepo) sorted() []models.Aluno {
	items := make([]models.Aluno, 0, len(s.alunos))
	for _, a := range s.alunos {
		items = append(items, a)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

func (s *stubAlunoRepo) List(ctx context.Context, filter models.AlunoFilter) ([]models.Aluno, int, error) {
	s.lastFilter = filter
	var items []models.Aluno
	for _, a := range s.sorted() {
		if s.visible(a, filter.Scope) {
			items = append(items, a)
		}
	}
	return items, len(items), nil
}

func (s *stubAlunoRepo) ListActive(ctx context.Context, scope models.Scope) ([]models.Aluno, error) {
	s.lastScope = scope
	var items []models.Aluno
	for _, a := range s.sorted() {
		if a.Ativo && s.visible(a, scope) {
			items = append(items, a)
		}
	}
	return items, nil
}

func (s *stubAlunoRepo) FindByID(ctx context.Context, id int64) (*models.Aluno, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	a, ok := s.alunos[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &a, nil
}

func (s *stubAlunoRepo) Create(ctx context.Context, aluno *models.Aluno) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.nextID++
	aluno.ID = s.nextID
	s.alunos[aluno.ID] = *aluno
	return nil
}

func (s *stubAlunoRepo) CreateWithResponsavel(ctx context.Context, responsavel *models.Responsavel, aluno *models.Aluno) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.nextID++
	responsavel.ID = s.nextID
	aluno.ResponsavelID = &responsavel.ID
	return s.Create(ctx, aluno)
}

func (s *stubAlunoRepo) Update(ctx context.Context, aluno *models.Aluno) error {
	s.alunos[aluno.ID] = *aluno
	return nil
}

func (s *stubAlunoRepo) UpdateFoto(ctx context.Context, id int64, path *string) error {
	a, ok := s.alunos[id]
	if !ok {
		return sql.ErrNoRows
	}
	a.FotoPath = path
	s.alunos[id] = a
	return nil
}

func (s *stubAlunoRepo) Deactivate(ctx context.Context, id int64) error {
	s.deactivated = append(s.deactivated, id)
	if a, ok := s.alunos[id]; ok {
		a.Ativo = false
		s.alunos[id] = a
	}
	return nil
}

type stubPagamentoRepo struct {
	pagamentos []models.Pagamento
	batchMeses []string
	batchErr   error
	deleted    []int64
	nextID     int64
}

func (s *stubPagamentoRepo) ListByAluno(ctx context.Context, alunoID int64) ([]models.Pagamento, error) {
	var items []models.Pagamento
	for _, p := range s.pagamentos {
		if p.AlunoID == alunoID {
			items = append(items, p)
		}
	}
	return items, nil
}

func (s *stubPagamentoRepo) ListByAlunoIDs(ctx context.Context, alunoIDs []int64) (map[int64][]models.Pagamento, error) {
	result := make(map[int64][]models.Pagamento)
	for _, id := range alunoIDs {
		items, _ := s.ListByAluno(ctx, id)
		if len(items) > 0 {
			result[id] = items
		}
	}
	return result, nil
}

func (s *stubPagamentoRepo) FindByID(ctx context.Context, id int64) (*models.Pagamento, error) {
	for _, p := range s.pagamentos {
		if p.ID == id {
			found := p
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *stubPagamentoRepo) Create(ctx context.Context, p *models.Pagamento) error {
	s.nextID++
	p.ID = s.nextID
	s.pagamentos = append(s.pagamentos, *p)
	return nil
}

func (s *stubPagamentoRepo) CreateBatch(ctx context.Context, template models.Pagamento, meses []string) ([]models.Pagamento, error) {
	s.batchMeses = meses
	if s.batchErr != nil {
		return nil, s.batchErr
	}
	var paid []string
	for _, mes := range meses {
		for _, p := range s.pagamentos {
			if p.AlunoID == template.AlunoID && p.MesReferencia == mes {
				paid = append(paid, mes)
				break
			}
		}
	}
	if len(paid) > 0 {
		sort.Strings(paid)
		return nil, &repository.PaidMonthsError{Months: paid}
	}
	created := make([]models.Pagamento, 0, len(meses))
	for _, mes := range meses {
		p := template
		p.MesReferencia = mes
		_ = s.Create(ctx, &p)
		created = append(created, p)
	}
	return created, nil
}

func (s *stubPagamentoRepo) Delete(ctx context.Context, id int64) (bool, error) {
	for i, p := range s.pagamentos {
		if p.ID == id {
			s.pagamentos = append(s.pagamentos[:i], s.pagamentos[i+1:]...)
			s.deleted = append(s.deleted, id)
			return true, nil
		}
	}
	return false, nil
}

type stubOutbox struct {
	mu        sync.Mutex
	events    []models.SyncEvent
	processed map[int64]bool
	failed    map[int64]string
	insertErr error
}

func newStubOutbox(events ...models.SyncEvent) *stubOutbox {
	return &stubOutbox{events: events, processed: make(map[int64]bool), failed: make(map[int64]string)}
}

func (s *stubOutbox) Insert(ctx context.Context, event *models.SyncEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return s.insertErr
	}
	event.ID = int64(len(s.events) + 1)
	s.events = append(s.events, *event)
	return nil
}

func (s *stubOutbox) FetchPending(ctx context.Context, limit, maxAttempts int) ([]models.SyncEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var pending []models.SyncEvent
	for _, e := range s.events {
		if !s.processed[e.ID] && len(pending) < limit {
			pending = append(pending, e)
		}
	}
	return pending, nil
}

func (s *stubOutbox) MarkProcessed(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processed[id] = true
	return nil
}

func (s *stubOutbox) MarkFailed(ctx context.Context, id int64, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed[id] = reason
	return nil
}

func (s *stubOutbox) isProcessed(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processed[id]
}

func (s *stubOutbox) recorded() []models.SyncEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.SyncEvent(nil), s.events...)
}

type memoryCacheRepo struct {
	mu      sync.Mutex
	items   map[string][]byte
	deleted []string
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{items: make(map[string][]byte)}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.items[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = raw
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.items {
		if strings.HasPrefix(key, prefix) {
			delete(m.items, key)
			m.deleted = append(m.deleted, key)
		}
	}
	return nil
}

func (m *memoryCacheRepo) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.items[key]
	return ok
}
