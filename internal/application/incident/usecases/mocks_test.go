package usecases

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"urbanincidents/internal/domain/incident"
	vo "urbanincidents/internal/domain/incident/valueobjects"
	"urbanincidents/internal/domain/permission"
	"urbanincidents/internal/domain/user"
)

type mockTypeRepository struct {
	FindByIDFunc   func(ctx context.Context, id uint) (*incident.IncidentType, error)
	FindByNameFunc func(ctx context.Context, name string) (*incident.IncidentType, error)
	FindAllFunc    func(ctx context.Context) ([]*incident.IncidentType, error)
	SaveFunc       func(ctx context.Context, t *incident.IncidentType) error
	DeleteFunc     func(ctx context.Context, t *incident.IncidentType) error
}

func (m *mockTypeRepository) FindByID(ctx context.Context, id uint) (*incident.IncidentType, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, incident.ErrTypeNotFound
}

func (m *mockTypeRepository) FindByName(ctx context.Context, name string) (*incident.IncidentType, error) {
	if m.FindByNameFunc != nil {
		return m.FindByNameFunc(ctx, name)
	}
	return nil, incident.ErrTypeNotFound
}

func (m *mockTypeRepository) FindAll(ctx context.Context) ([]*incident.IncidentType, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx)
	}
	return nil, nil
}

func (m *mockTypeRepository) Save(ctx context.Context, t *incident.IncidentType) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, t)
	}
	return nil
}

func (m *mockTypeRepository) Delete(ctx context.Context, t *incident.IncidentType) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, t)
	}
	return nil
}

// catalogOf answers FindByName from a fixed set of types.
func catalogOf(types ...*incident.IncidentType) *mockTypeRepository {
	return &mockTypeRepository{
		FindByNameFunc: func(ctx context.Context, name string) (*incident.IncidentType, error) {
			for _, t := range types {
				if t.Name() == name {
					return t, nil
				}
			}
			return nil, incident.ErrTypeNotFound
		},
		FindAllFunc: func(ctx context.Context) ([]*incident.IncidentType, error) {
			return types, nil
		},
	}
}

type mockEnforcer struct {
	EnforceFunc func(role string, resource permission.Resource, action permission.Action) (bool, error)
}

func (m *mockEnforcer) Enforce(role string, resource permission.Resource, action permission.Action) (bool, error) {
	if m.EnforceFunc != nil {
		return m.EnforceFunc(role, resource, action)
	}
	return false, nil
}

func (m *mockEnforcer) AddPolicy(role string, resource permission.Resource, action permission.Action) error {
	return nil
}

func (m *mockEnforcer) RemovePolicy(role string, resource permission.Resource, action permission.Action) error {
	return nil
}

// defaultEnforcer grants exactly the default admin and user policies.
func defaultEnforcer() *mockEnforcer {
	granted := make(map[permission.Policy]bool)
	for _, p := range permission.DefaultPolicies("admin", "user") {
		granted[p] = true
	}
	return &mockEnforcer{
		EnforceFunc: func(role string, resource permission.Resource, action permission.Action) (bool, error) {
			return granted[permission.Policy{Role: role, Resource: resource, Action: action}], nil
		},
	}
}

type passthroughTx struct {
	mu    sync.Mutex
	calls int
}

func (tx *passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	tx.mu.Lock()
	tx.calls++
	tx.mu.Unlock()
	return fn(ctx)
}

type storedIncident struct {
	reportedAt    time.Time
	typeID        uint
	typeName      string
	description   string
	location      string
	coordinates   vo.Coordinate
	department    string
	state         vo.State
	reporterEmail string
	photo         []byte
	version       int
}

// memStore is an in-memory incident store with the same compare-and-swap
// discipline as the database repository. Every read returns a fresh copy.
type memStore struct {
	mu       sync.Mutex
	nextID   uint
	rows     map[uint]storedIncident
	conflict int

	// beforeWrite runs before the CAS check of Save and Delete.
	beforeWrite func(id uint)
	// onLoad runs after FindByIDForUpdate has read a row.
	onLoad func(id uint)
}

func newMemStore() *memStore {
	return &memStore{rows: make(map[uint]storedIncident)}
}

func (s *memStore) load(id uint) (*incident.Incident, error) {
	s.mu.Lock()
	row, ok := s.rows[id]
	s.mu.Unlock()
	if !ok {
		return nil, incident.ErrIncidentNotFound
	}
	return incident.ReconstructIncident(id, row.reportedAt, row.typeID, row.typeName, row.description,
		row.location, row.coordinates, row.department, row.state, row.reporterEmail, len(row.photo) > 0, row.version)
}

func (s *memStore) filter(keep func(storedIncident) bool) ([]*incident.Incident, error) {
	s.mu.Lock()
	ids := make([]uint, 0, len(s.rows))
	for id, row := range s.rows {
		if keep(row) {
			ids = append(ids, id)
		}
	}
	s.mu.Unlock()

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*incident.Incident, 0, len(ids))
	for _, id := range ids {
		inc, err := s.load(id)
		if err != nil {
			continue
		}
		out = append(out, inc)
	}
	return out, nil
}

func (s *memStore) FindByID(ctx context.Context, id uint) (*incident.Incident, error) {
	return s.load(id)
}

func (s *memStore) FindByIDForUpdate(ctx context.Context, id uint) (*incident.Incident, error) {
	inc, err := s.load(id)
	if err == nil && s.onLoad != nil {
		s.onLoad(id)
	}
	return inc, err
}

func (s *memStore) FindByReporter(ctx context.Context, email string) ([]*incident.Incident, error) {
	return s.filter(func(r storedIncident) bool { return r.reporterEmail == email })
}

func (s *memStore) FindByType(ctx context.Context, typeID uint) ([]*incident.Incident, error) {
	return s.filter(func(r storedIncident) bool { return r.typeID == typeID })
}

func (s *memStore) FindByState(ctx context.Context, state vo.State) ([]*incident.Incident, error) {
	return s.filter(func(r storedIncident) bool { return r.state == state })
}

func (s *memStore) FindOpen(ctx context.Context) ([]*incident.Incident, error) {
	return s.filter(func(r storedIncident) bool { return r.state.IsOpen() })
}

func (s *memStore) FindByTypeAndState(ctx context.Context, typeID uint, state vo.State) ([]*incident.Incident, error) {
	return s.filter(func(r storedIncident) bool { return r.typeID == typeID && r.state == state })
}

func (s *memStore) FindAll(ctx context.Context) ([]*incident.Incident, error) {
	return s.filter(func(storedIncident) bool { return true })
}

func (s *memStore) FindPhoto(ctx context.Context, id uint) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok {
		return nil, incident.ErrIncidentNotFound
	}
	return row.photo, nil
}

func (s *memStore) CountByType(ctx context.Context, typeID uint) (int64, error) {
	list, _ := s.FindByType(ctx, typeID)
	return int64(len(list)), nil
}

func (s *memStore) Save(ctx context.Context, inc *incident.Incident) error {
	if !inc.IsNew() && s.beforeWrite != nil {
		s.beforeWrite(inc.ID())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	row := storedIncident{
		reportedAt:    inc.ReportedAt(),
		typeID:        inc.TypeID(),
		typeName:      inc.TypeName(),
		description:   inc.Description(),
		location:      inc.Location(),
		coordinates:   inc.Coordinates(),
		department:    inc.Department(),
		state:         inc.State(),
		reporterEmail: inc.ReporterEmail(),
		photo:         inc.Photo(),
		version:       inc.Version(),
	}

	if inc.IsNew() {
		s.nextID++
		s.rows[s.nextID] = row
		return inc.SetID(s.nextID)
	}

	current, ok := s.rows[inc.ID()]
	if !ok {
		return incident.ErrIncidentNotFound
	}
	if current.version != inc.Version() {
		s.conflict++
		return incident.ErrVersionConflict
	}
	row.photo = current.photo
	row.version = current.version + 1
	s.rows[inc.ID()] = row
	inc.IncrementVersion()
	return nil
}

func (s *memStore) Delete(ctx context.Context, inc *incident.Incident) error {
	if s.beforeWrite != nil {
		s.beforeWrite(inc.ID())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.rows[inc.ID()]
	if !ok {
		return incident.ErrIncidentNotFound
	}
	if current.version != inc.Version() {
		s.conflict++
		return incident.ErrVersionConflict
	}
	delete(s.rows, inc.ID())
	return nil
}

func (s *memStore) Flush(ctx context.Context) error {
	return ctx.Err()
}

func (s *memStore) conflicts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conflict
}

// forceState rewrites a row as a concurrent writer would, bumping its version.
func (s *memStore) forceState(id uint, state vo.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := s.rows[id]
	row.state = state
	row.version++
	s.rows[id] = row
}

var (
	madrid    = vo.MustCoordinate(40.416775, -3.703790)
	near7m    = vo.MustCoordinate(40.41681991555875, -3.703731005258922)
	farAway   = vo.MustCoordinate(40.420000, -3.700000)
	reporting = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
)

func testType(t *testing.T, id uint, name string) *incident.IncidentType {
	t.Helper()
	it, err := incident.ReconstructIncidentType(id, name)
	require.NoError(t, err)
	return it
}

func testAdmin(t *testing.T) *user.User {
	t.Helper()
	admin, err := user.NewAdmin("admin@admin.es", "$2a$10$adminhash")
	require.NoError(t, err)
	return admin
}

func testCitizen(t *testing.T, email string) *user.User {
	t.Helper()
	u, err := user.ReconstructUser(email, "Ana", "García", time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC),
		"Calle Mayor 1", "612345678", "$2a$10$userhash")
	require.NoError(t, err)
	return u
}

// seedIncident stores an incident directly and returns its ID.
func seedIncident(t *testing.T, store *memStore, it *incident.IncidentType, reporter string, at vo.Coordinate, state vo.State) uint {
	t.Helper()
	inc, err := incident.NewIncident(reporting, it, "Overflowing bin", "Plaza Mayor", at, "Cleaning", reporter, nil)
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), inc))
	if state != vo.StatePending {
		require.NoError(t, inc.ChangeState(state))
		require.NoError(t, store.Save(context.Background(), inc))
	}
	return inc.ID()
}

func fastRetry() RetryPolicy {
	return RetryPolicy{MaxAttempts: 5, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
}
