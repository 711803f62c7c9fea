package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/resolvepro/complaint-service/internal/domain"
	"github.com/resolvepro/complaint-service/internal/events"
	"github.com/resolvepro/complaint-service/internal/repository"
)

// =============================================================================
// Mock repositories
// =============================================================================

type mockUserRepository struct {
	createFunc                func(ctx context.Context, user *domain.User) error
	getByIDFunc               func(ctx context.Context, id int64) (*domain.User, error)
	getByEmailFunc            func(ctx context.Context, email string) (*domain.User, error)
	getByExternalIDFunc       func(ctx context.Context, externalID string) (*domain.User, error)
	updateStatusFunc          func(ctx context.Context, id int64, status domain.UserStatus) error
	listByStatusFunc          func(ctx context.Context, status domain.UserStatus) ([]domain.User, error)
	listApprovedEngineersFunc func(ctx context.Context) ([]domain.User, error)
	listEngineersFunc         func(ctx context.Context, filter repository.EngineerFilter) ([]domain.User, error)
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return errors.New("not implemented")
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.getByEmailFunc != nil {
		return m.getByEmailFunc(ctx, email)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserRepository) GetByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	if m.getByExternalIDFunc != nil {
		return m.getByExternalIDFunc(ctx, externalID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserRepository) UpdateStatus(ctx context.Context, id int64, status domain.UserStatus) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return errors.New("not implemented")
}

func (m *mockUserRepository) ListByStatus(ctx context.Context, status domain.UserStatus) ([]domain.User, error) {
	if m.listByStatusFunc != nil {
		return m.listByStatusFunc(ctx, status)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserRepository) ListApprovedEngineers(ctx context.Context) ([]domain.User, error) {
	if m.listApprovedEngineersFunc != nil {
		return m.listApprovedEngineersFunc(ctx)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserRepository) ListEngineers(ctx context.Context, filter repository.EngineerFilter) ([]domain.User, error) {
	if m.listEngineersFunc != nil {
		return m.listEngineersFunc(ctx, filter)
	}
	return nil, errors.New("not implemented")
}

type mockCategoryRepository struct {
	getByIDFunc func(ctx context.Context, id int64) (*domain.Category, error)
	listFunc    func(ctx context.Context) ([]domain.Category, error)
}

func (m *mockCategoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockCategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, errors.New("not implemented")
}

// =============================================================================
// In-memory store backing the lifecycle tests
// =============================================================================

type memoryStore struct {
	users      map[int64]*domain.User
	categories map[int64]*domain.Category
	complaints map[int64]*domain.Complaint
	responses  map[int64]*domain.AdminResponse
	nextID     int64
	failWith   error
	// beforeStatusWrite runs inside UpdateStatus ahead of the conditional write.
	beforeStatusWrite func(id int64)
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:      map[int64]*domain.User{},
		categories: map[int64]*domain.Category{},
		complaints: map[int64]*domain.Complaint{},
		responses:  map[int64]*domain.AdminResponse{},
		nextID:     1000,
	}
}

func (s *memoryStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memoryStore) addUser(u domain.User) *domain.User {
	if u.ID == 0 {
		u.ID = s.id()
	}
	s.users[u.ID] = &u
	return &u
}

func (s *memoryStore) addEngineer(id int64, spec string) *domain.User {
	return s.addUser(domain.User{
		ID:             id,
		Name:           "Engineer " + spec,
		Email:          strings.ReplaceAll(strings.ToLower(spec), " ", "") + "@example.com",
		Role:           domain.RoleEngineer,
		Status:         domain.UserStatusApproved,
		Specialization: &spec,
	})
}

func (s *memoryStore) addCategory(id int64, name string) *domain.Category {
	c := &domain.Category{ID: id, Name: name}
	s.categories[id] = c
	return c
}

func (s *memoryStore) userRepo() *mockUserRepository {
	return &mockUserRepository{
		getByIDFunc: func(_ context.Context, id int64) (*domain.User, error) {
			if s.failWith != nil {
				return nil, s.failWith
			}
			u, ok := s.users[id]
			if !ok {
				return nil, pgx.ErrNoRows
			}
			cp := *u
			return &cp, nil
		},
		listApprovedEngineersFunc: func(context.Context) ([]domain.User, error) {
			if s.failWith != nil {
				return nil, s.failWith
			}
			var pool []domain.User
			for _, u := range s.users {
				if u.Role == domain.RoleEngineer && u.Status == domain.UserStatusApproved {
					pool = append(pool, *u)
				}
			}
			sort.Slice(pool, func(i, j int) bool { return pool[i].ID < pool[j].ID })
			return pool, nil
		},
	}
}

func (s *memoryStore) categoryRepo() *mockCategoryRepository {
	return &mockCategoryRepository{
		getByIDFunc: func(_ context.Context, id int64) (*domain.Category, error) {
			c, ok := s.categories[id]
			if !ok {
				return nil, pgx.ErrNoRows
			}
			cp := *c
			return &cp, nil
		},
	}
}

func (s *memoryStore) Create(_ context.Context, complaint *domain.Complaint) error {
	if s.failWith != nil {
		return s.failWith
	}
	complaint.ID = s.id()
	complaint.CreatedAt = time.Now()
	complaint.UpdatedAt = complaint.CreatedAt
	cp := *complaint
	s.complaints[complaint.ID] = &cp
	return nil
}

func (s *memoryStore) GetByID(_ context.Context, id int64) (*domain.Complaint, error) {
	c, ok := s.complaints[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *c
	return &cp, nil
}

func (s *memoryStore) GetView(ctx context.Context, id int64) (*domain.ComplaintView, error) {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(*c), nil
}

func (s *memoryStore) UpdateStatus(_ context.Context, id int64, status domain.ComplaintStatus, assigneeID *int64) (*domain.Complaint, error) {
	if s.beforeStatusWrite != nil {
		s.beforeStatusWrite(id)
	}
	c, ok := s.complaints[id]
	if !ok || (assigneeID != nil && !c.IsAssignedTo(*assigneeID)) {
		return nil, pgx.ErrNoRows
	}
	c.Status = status
	cp := *c
	return &cp, nil
}

func (s *memoryStore) Assign(_ context.Context, id, engineerID int64) (*domain.Complaint, error) {
	c, ok := s.complaints[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	c.AssigneeID = &engineerID
	c.Status = domain.ComplaintStatusInProgress
	cp := *c
	return &cp, nil
}

func (s *memoryStore) ListWithFilter(_ context.Context, filter repository.ComplaintFilter) ([]domain.ComplaintView, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	var out []domain.ComplaintView
	for _, c := range s.complaints {
		if filter.UserID != nil && c.UserID != *filter.UserID {
			continue
		}
		if filter.AssigneeID != nil && !c.IsAssignedTo(*filter.AssigneeID) {
			continue
		}
		if filter.Unassigned && c.AssigneeID != nil {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, c.Status) {
			continue
		}
		out = append(out, *s.view(*c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *memoryStore) Statistics(context.Context) (domain.ComplaintStatistics, error) {
	var stats domain.ComplaintStatistics
	for _, c := range s.complaints {
		stats.Total++
		switch c.Status {
		case domain.ComplaintStatusPending:
			stats.Pending++
		case domain.ComplaintStatusInProgress:
			stats.InProgress++
		case domain.ComplaintStatusResolved:
			stats.Resolved++
		}
	}
	return stats, nil
}

func (s *memoryStore) view(c domain.Complaint) *domain.ComplaintView {
	v := &domain.ComplaintView{Complaint: c}
	if cat, ok := s.categories[c.CategoryID]; ok {
		v.CategoryName = cat.Name
	}
	if u, ok := s.users[c.UserID]; ok {
		v.UserName, v.UserEmail = u.Name, u.Email
	}
	if r, ok := s.responses[c.ID]; ok {
		text, at := r.Response, r.CreatedAt
		v.Response, v.ResponseDate = &text, &at
	}
	return v
}

// responseStore adapts memoryStore to repository.ResponseRepository.
type responseStore struct{ *memoryStore }

func (r responseStore) Upsert(_ context.Context, resp *domain.AdminResponse) error {
	existing, ok := r.responses[resp.ComplaintID]
	if ok {
		existing.Response = resp.Response
		existing.CreatedAt = time.Now()
		resp.ID, resp.CreatedAt = existing.ID, existing.CreatedAt
		return nil
	}
	resp.ID = r.id()
	resp.CreatedAt = time.Now()
	cp := *resp
	r.responses[resp.ComplaintID] = &cp
	return nil
}

func containsStatus(list []domain.ComplaintStatus, s domain.ComplaintStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// =============================================================================
// Event and metric recorders
// =============================================================================

type recordingDispatcher struct {
	published []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) types() []events.EventType {
	out := make([]events.EventType, 0, len(d.published))
	for _, e := range d.published {
		out = append(out, e.Type)
	}
	return out
}

type recordingMetrics struct {
	kinds []string
}

func (m *recordingMetrics) RecordAssignment(kind string) {
	m.kinds = append(m.kinds, kind)
}
