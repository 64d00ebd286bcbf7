package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aurelia-concierge/vetting-service/internal/domain"
)

// MemoryStore is an in-process datastore used when no Postgres DSN is configured
// and as the per-test store. Every read returns a copy.
type MemoryStore struct {
	mu           rwLocker
	principals   map[string]domain.Principal
	grants       map[string]map[string]struct{}
	companies    map[string]domain.VettingCompany
	officers     map[string]domain.VettingOfficer
	applications map[string]domain.VettingApplication
	tasks        map[string]domain.VerificationTask
	history      []domain.ApplicationHistory
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		mu:           &sync.RWMutex{},
		principals:   make(map[string]domain.Principal),
		grants:       make(map[string]map[string]struct{}),
		companies:    make(map[string]domain.VettingCompany),
		officers:     make(map[string]domain.VettingOfficer),
		applications: make(map[string]domain.VettingApplication),
		tasks:        make(map[string]domain.VerificationTask),
	}
}

func (s *MemoryStore) Principals() PrincipalRepository     { return memoryPrincipals{s} }
func (s *MemoryStore) Permissions() PermissionRepository   { return memoryPermissions{s} }
func (s *MemoryStore) Companies() CompanyRepository        { return memoryCompanies{s} }
func (s *MemoryStore) Officers() OfficerRepository         { return memoryOfficers{s} }
func (s *MemoryStore) Applications() ApplicationRepository { return memoryApplications{s} }
func (s *MemoryStore) Tasks() TaskRepository               { return memoryTasks{s} }
func (s *MemoryStore) History() ApplicationHistoryRepository {
	return memoryHistory{s}
}

type rwLocker interface {
	Lock()
	Unlock()
	RLock()
	RUnlock()
}

// txLocker is used by the private copy a transaction works on; the store lock
// is already held by WithTx.
type txLocker struct{}

func (txLocker) Lock()    {}
func (txLocker) Unlock()  {}
func (txLocker) RLock()   {}
func (txLocker) RUnlock() {}

func (s *MemoryStore) inTx() bool {
	_, ok := s.mu.(txLocker)
	return ok
}

// WithTx runs fn against a private copy of the store and publishes the copy only
// when fn returns nil. The store lock is held throughout, so fn must use only the
// repositories it is given.
func (s *MemoryStore) WithTx(_ context.Context, fn func(Repositories) error) error {
	if s.inTx() {
		return fn(s.Repositories())
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := s.copyForTx()
	if err := fn(tx.Repositories()); err != nil {
		return err
	}
	s.principals = tx.principals
	s.grants = tx.grants
	s.companies = tx.companies
	s.officers = tx.officers
	s.applications = tx.applications
	s.tasks = tx.tasks
	s.history = tx.history
	return nil
}

func (s *MemoryStore) copyForTx() *MemoryStore {
	tx := &MemoryStore{
		mu:           txLocker{},
		principals:   copyMap(s.principals),
		grants:       make(map[string]map[string]struct{}, len(s.grants)),
		companies:    copyMap(s.companies),
		officers:     copyMap(s.officers),
		applications: copyMap(s.applications),
		tasks:        copyMap(s.tasks),
		history:      append([]domain.ApplicationHistory(nil), s.history...),
	}
	for principalID, set := range s.grants {
		tx.grants[principalID] = copyMap(set)
	}
	return tx
}

func copyMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func stampCreated(created, updated *time.Time) {
	now := time.Now().UTC()
	if created.IsZero() {
		*created = now
	}
	if updated.IsZero() {
		*updated = now
	}
}

type memoryPrincipals struct{ s *MemoryStore }

func (m memoryPrincipals) Create(_ context.Context, principal *domain.Principal) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	principal.Email = strings.ToLower(principal.Email)
	if _, exists := m.s.principals[principal.ID]; exists {
		return ErrDuplicate
	}
	for _, existing := range m.s.principals {
		if existing.Email == principal.Email {
			return ErrDuplicate
		}
	}
	stampCreated(&principal.CreatedAt, &principal.UpdatedAt)
	m.s.principals[principal.ID] = *principal
	return nil
}

func (m memoryPrincipals) GetByID(_ context.Context, id string) (*domain.Principal, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	p, ok := m.s.principals[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (m memoryPrincipals) GetByEmail(_ context.Context, email string) (*domain.Principal, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	email = strings.ToLower(email)
	for _, p := range m.s.principals {
		if p.Email == email {
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (m memoryPrincipals) List(_ context.Context, filter PrincipalFilter) ([]domain.Principal, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	var result []domain.Principal
	for _, p := range m.s.principals {
		if filter.Role != nil && p.Role != *filter.Role {
			continue
		}
		if filter.SubType != nil && p.SubType != *filter.SubType {
			continue
		}
		if filter.Active != nil && p.IsActive != *filter.Active {
			continue
		}
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return paginate(result, filter.Limit, filter.Offset), nil
}

type memoryPermissions struct{ s *MemoryStore }

func (m memoryPermissions) Grant(_ context.Context, grant *domain.PermissionGrant) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	set, ok := m.s.grants[grant.PrincipalID]
	if !ok {
		set = make(map[string]struct{})
		m.s.grants[grant.PrincipalID] = set
	}
	set[grant.Permission] = struct{}{}
	return nil
}

func (m memoryPermissions) ListByPrincipal(_ context.Context, principalID string) ([]string, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	perms := make([]string, 0, len(m.s.grants[principalID]))
	for perm := range m.s.grants[principalID] {
		perms = append(perms, perm)
	}
	sort.Strings(perms)
	return perms, nil
}

type memoryCompanies struct{ s *MemoryStore }

func (m memoryCompanies) Create(_ context.Context, company *domain.VettingCompany) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, exists := m.s.companies[company.ID]; exists {
		return ErrDuplicate
	}
	stampCreated(&company.CreatedAt, &company.UpdatedAt)
	c := *company
	c.Specializations = cloneStrings(company.Specializations)
	m.s.companies[c.ID] = c
	return nil
}

func (m memoryCompanies) GetByID(_ context.Context, id string) (*domain.VettingCompany, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	c, ok := m.s.companies[id]
	if !ok {
		return nil, ErrNotFound
	}
	c.Specializations = cloneStrings(c.Specializations)
	return &c, nil
}

func (m memoryCompanies) List(_ context.Context, activeOnly bool) ([]domain.VettingCompany, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	var result []domain.VettingCompany
	for _, c := range m.s.companies {
		if activeOnly && !c.IsActive {
			continue
		}
		c.Specializations = cloneStrings(c.Specializations)
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CompanyName < result[j].CompanyName })
	return result, nil
}

type memoryOfficers struct{ s *MemoryStore }

func (m memoryOfficers) Create(_ context.Context, officer *domain.VettingOfficer) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	officer.Email = strings.ToLower(officer.Email)
	if _, exists := m.s.officers[officer.ID]; exists {
		return ErrDuplicate
	}
	for _, existing := range m.s.officers {
		if existing.Email == officer.Email {
			return ErrDuplicate
		}
	}
	stampCreated(&officer.CreatedAt, &officer.UpdatedAt)
	o := *officer
	o.Specializations = cloneStrings(officer.Specializations)
	m.s.officers[o.ID] = o
	return nil
}

func (m memoryOfficers) GetByID(_ context.Context, id string) (*domain.VettingOfficer, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	o, ok := m.s.officers[id]
	if !ok {
		return nil, ErrNotFound
	}
	o.Specializations = cloneStrings(o.Specializations)
	return &o, nil
}

func (m memoryOfficers) GetByEmail(_ context.Context, email string) (*domain.VettingOfficer, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	email = strings.ToLower(email)
	for _, o := range m.s.officers {
		if o.Email == email {
			o.Specializations = cloneStrings(o.Specializations)
			return &o, nil
		}
	}
	return nil, ErrNotFound
}

func (m memoryOfficers) List(_ context.Context, filter OfficerFilter) ([]domain.VettingOfficer, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	var result []domain.VettingOfficer
	for _, o := range m.s.officers {
		if filter.CompanyID != nil && o.VettingCompanyID != *filter.CompanyID {
			continue
		}
		if filter.AccessLevel != nil && o.AccessLevel != *filter.AccessLevel {
			continue
		}
		if filter.Active != nil && o.IsActive != *filter.Active {
			continue
		}
		o.Specializations = cloneStrings(o.Specializations)
		result = append(result, o)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].LastName != result[j].LastName {
			return result[i].LastName < result[j].LastName
		}
		return result[i].FirstName < result[j].FirstName
	})
	return paginate(result, filter.Limit, filter.Offset), nil
}

type memoryApplications struct{ s *MemoryStore }

func (m memoryApplications) Create(_ context.Context, app *domain.VettingApplication) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, exists := m.s.applications[app.ID]; exists {
		return ErrDuplicate
	}
	m.s.applications[app.ID] = *app
	return nil
}

func (m memoryApplications) Update(_ context.Context, app *domain.VettingApplication) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	current, ok := m.s.applications[app.ID]
	if !ok {
		return ErrNotFound
	}
	if current.Version != app.Version {
		return ErrVersionConflict
	}
	app.Version++
	m.s.applications[app.ID] = *app
	return nil
}

func (m memoryApplications) GetByID(_ context.Context, id string) (*domain.VettingApplication, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	app, ok := m.s.applications[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &app, nil
}

func (m memoryApplications) List(_ context.Context, filter ApplicationFilter) ([]domain.VettingApplication, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	var result []domain.VettingApplication
	for _, app := range m.s.applications {
		if MatchesApplication(&app, filter) {
			result = append(result, app)
		}
	}
	SortApplications(result)
	return paginate(result, filter.Limit, filter.Offset), nil
}

func (m memoryApplications) Count(_ context.Context, filter ApplicationFilter) (int, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	total := 0
	for _, app := range m.s.applications {
		if MatchesApplication(&app, filter) {
			total++
		}
	}
	return total, nil
}

type memoryTasks struct{ s *MemoryStore }

func (m memoryTasks) Create(_ context.Context, task *domain.VerificationTask) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, exists := m.s.tasks[task.ID]; exists {
		return ErrDuplicate
	}
	m.s.tasks[task.ID] = cloneTask(*task)
	return nil
}

func (m memoryTasks) Update(_ context.Context, task *domain.VerificationTask) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	current, ok := m.s.tasks[task.ID]
	if !ok {
		return ErrNotFound
	}
	if current.Version != task.Version {
		return ErrVersionConflict
	}
	task.Version++
	m.s.tasks[task.ID] = cloneTask(*task)
	return nil
}

func (m memoryTasks) GetByID(_ context.Context, id string) (*domain.VerificationTask, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	task, ok := m.s.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	task = cloneTask(task)
	return &task, nil
}

func (m memoryTasks) ListByApplication(ctx context.Context, applicationID string) ([]domain.VerificationTask, error) {
	return m.List(ctx, TaskFilter{ApplicationID: &applicationID})
}

func (m memoryTasks) List(_ context.Context, filter TaskFilter) ([]domain.VerificationTask, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	var result []domain.VerificationTask
	for _, task := range m.s.tasks {
		if filter.ApplicationID != nil && task.ApplicationID != *filter.ApplicationID {
			continue
		}
		if filter.OfficerID != nil && !task.IsAssignedTo(*filter.OfficerID) {
			continue
		}
		if len(filter.Statuses) > 0 && !contains(filter.Statuses, task.Status) {
			continue
		}
		if len(filter.Types) > 0 && !contains(filter.Types, task.TaskType) {
			continue
		}
		result = append(result, cloneTask(task))
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

type memoryHistory struct{ s *MemoryStore }

func (m memoryHistory) Create(_ context.Context, history *domain.ApplicationHistory) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if history.CreatedAt.IsZero() {
		history.CreatedAt = time.Now().UTC()
	}
	m.s.history = append(m.s.history, *history)
	return nil
}

func (m memoryHistory) ListByApplication(_ context.Context, applicationID string) ([]domain.ApplicationHistory, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	var result []domain.ApplicationHistory
	for _, h := range m.s.history {
		if h.ApplicationID == applicationID {
			result = append(result, h)
		}
	}
	return result, nil
}

func cloneTask(task domain.VerificationTask) domain.VerificationTask {
	task.RequiredDocuments = cloneStrings(task.RequiredDocuments)
	task.DocumentsReceived = cloneStrings(task.DocumentsReceived)
	if task.Findings != nil {
		f := *task.Findings
		f.Issues = cloneStrings(f.Issues)
		f.Recommendations = cloneStrings(f.Recommendations)
		task.Findings = &f
	}
	return task
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		if offset == 0 {
			return items
		}
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
