package sync

import (
	"context"
	"sort"
	gosync "sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fabworks/backend/internal/domain/partner"
	"github.com/fabworks/backend/internal/domain/shared"
	"github.com/fabworks/backend/internal/domain/sync"
)

// ---------------------------------------------------------------------------
// Test Helpers
// ---------------------------------------------------------------------------

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

// fakeAuditRepo captures audit appends in memory
type fakeAuditRepo struct {
	mu      gosync.Mutex
	records []sync.ErrorRecord
}

func (f *fakeAuditRepo) Append(ctx context.Context, record *sync.ErrorRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, *record)
	return nil
}

func (f *fakeAuditRepo) List(ctx context.Context, filter sync.ErrorRecordFilter) ([]sync.ErrorRecord, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]sync.ErrorRecord, len(f.records))
	copy(out, f.records)
	return out, int64(len(out)), nil
}

func (f *fakeAuditRepo) CountSince(ctx context.Context, t time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, r := range f.records {
		if !r.OccurredAt.Before(t) {
			n++
		}
	}
	return n, nil
}

func (f *fakeAuditRepo) byKind(kind sync.ErrorKind) []sync.ErrorRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []sync.ErrorRecord
	for _, r := range f.records {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

func newTestAudit() (*AuditGateway, *fakeAuditRepo) {
	repo := &fakeAuditRepo{}
	return NewAuditGateway(repo, newTestLogger()), repo
}

// fakeWatermarkRepo is an in-memory watermark store with real claim semantics
type fakeWatermarkRepo struct {
	mu         gosync.Mutex
	watermarks map[sync.EntityType]*sync.Watermark
	claimErr   error
}

func newFakeWatermarkRepo() *fakeWatermarkRepo {
	return &fakeWatermarkRepo{watermarks: make(map[sync.EntityType]*sync.Watermark)}
}

func (f *fakeWatermarkRepo) row(entityType sync.EntityType) *sync.Watermark {
	if w, ok := f.watermarks[entityType]; ok {
		return w
	}
	w := &sync.Watermark{EntityType: entityType}
	f.watermarks[entityType] = w
	return w
}

func (f *fakeWatermarkRepo) Get(ctx context.Context, entityType sync.EntityType) (*sync.Watermark, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w := *f.row(entityType)
	return &w, nil
}

func (f *fakeWatermarkRepo) GetAll(ctx context.Context) ([]sync.Watermark, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []sync.Watermark
	for _, t := range sync.DependencyOrder() {
		out = append(out, *f.row(t))
	}
	return out, nil
}

func (f *fakeWatermarkRepo) Claim(ctx context.Context, entityType sync.EntityType) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.claimErr != nil {
		return f.claimErr
	}
	w := f.row(entityType)
	if w.InProgress {
		return sync.ErrSyncAlreadyRunning
	}
	w.InProgress = true
	return nil
}

func (f *fakeWatermarkRepo) Release(ctx context.Context, entityType sync.EntityType) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.row(entityType).InProgress = false
	return nil
}

func (f *fakeWatermarkRepo) Advance(ctx context.Context, entityType sync.EntityType, syncedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w := f.row(entityType)
	w.LastSyncedAt = &syncedAt
	w.InProgress = false
	return nil
}

// fakeClient implements sync.Client with pluggable behavior
type fakeClient struct {
	fetchFunc func(ctx context.Context, entityType sync.EntityType, modifiedSince time.Time, cursor string) (*sync.Page, error)
	pushFunc  func(ctx context.Context, entityType sync.EntityType, payload map[string]any, remoteID string) (string, error)
	voidFunc  func(ctx context.Context, entityType sync.EntityType, remoteID string) error
}

func (f *fakeClient) FetchPage(ctx context.Context, entityType sync.EntityType, modifiedSince time.Time, cursor string) (*sync.Page, error) {
	if f.fetchFunc == nil {
		return &sync.Page{}, nil
	}
	return f.fetchFunc(ctx, entityType, modifiedSince, cursor)
}

func (f *fakeClient) Push(ctx context.Context, entityType sync.EntityType, payload map[string]any, remoteID string) (string, error) {
	if f.pushFunc == nil {
		return "", nil
	}
	return f.pushFunc(ctx, entityType, payload, remoteID)
}

func (f *fakeClient) Void(ctx context.Context, entityType sync.EntityType, remoteID string) error {
	if f.voidFunc == nil {
		return nil
	}
	return f.voidFunc(ctx, entityType, remoteID)
}

// pagedClient serves a fixed sequence of pages keyed by cursor
func pagedClient(pages map[string]*sync.Page) *fakeClient {
	return &fakeClient{
		fetchFunc: func(ctx context.Context, entityType sync.EntityType, modifiedSince time.Time, cursor string) (*sync.Page, error) {
			page, ok := pages[cursor]
			if !ok {
				return &sync.Page{}, nil
			}
			return page, nil
		},
	}
}

// fakeModule implements EntityModule with pluggable behavior
type fakeModule struct {
	entityType sync.EntityType
	applyFunc  func(ctx context.Context, rec sync.RemoteRecord) (Outcome, error)
	applied    []sync.RemoteRecord
}

func (f *fakeModule) Type() sync.EntityType { return f.entityType }

func (f *fakeModule) Apply(ctx context.Context, rec sync.RemoteRecord) (Outcome, error) {
	f.applied = append(f.applied, rec)
	if f.applyFunc == nil {
		return OutcomeUpdated, nil
	}
	return f.applyFunc(ctx, rec)
}

// memCustomerRepo is an in-memory partner.CustomerRepository with the same
// unlinked-filter and claim semantics as the GORM implementation
type memCustomerRepo struct {
	mu        gosync.Mutex
	customers map[uuid.UUID]*partner.Customer
}

func newMemCustomerRepo() *memCustomerRepo {
	return &memCustomerRepo{customers: make(map[uuid.UUID]*partner.Customer)}
}

func (r *memCustomerRepo) add(c *partner.Customer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *c
	r.customers[c.ID] = &clone
}

func (r *memCustomerRepo) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *memCustomerRepo) FindByRemoteID(ctx context.Context, remoteID string) (*partner.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.customers {
		if c.RemoteID != nil && *c.RemoteID == remoteID {
			clone := *c
			return &clone, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memCustomerRepo) FindUnlinkedByName(ctx context.Context, name string) ([]partner.Customer, error) {
	return r.findUnlinked(func(c *partner.Customer) bool { return c.Name == name }), nil
}

func (r *memCustomerRepo) FindUnlinkedByEmail(ctx context.Context, email string) ([]partner.Customer, error) {
	return r.findUnlinked(func(c *partner.Customer) bool { return c.Email == email }), nil
}

func (r *memCustomerRepo) findUnlinked(match func(*partner.Customer) bool) []partner.Customer {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []partner.Customer
	for _, c := range r.customers {
		if c.RemoteID == nil && match(c) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *memCustomerRepo) ClaimRemoteID(ctx context.Context, id uuid.UUID, remoteID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[id]
	if !ok || c.RemoteID != nil {
		return shared.ErrConcurrencyConflict
	}
	c.RemoteID = &remoteID
	return nil
}

func (r *memCustomerRepo) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []partner.Customer
	for _, c := range r.customers {
		out = append(out, *c)
	}
	return out, nil
}

func (r *memCustomerRepo) Save(ctx context.Context, customer *partner.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *customer
	r.customers[customer.ID] = &clone
	return nil
}

func (r *memCustomerRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.customers)), nil
}

// memContactRepo is an in-memory partner.ContactPersonRepository
type memContactRepo struct {
	mu       gosync.Mutex
	contacts map[uuid.UUID]*partner.ContactPerson
}

func newMemContactRepo() *memContactRepo {
	return &memContactRepo{contacts: make(map[uuid.UUID]*partner.ContactPerson)}
}

func (r *memContactRepo) FindByID(ctx context.Context, id uuid.UUID) (*partner.ContactPerson, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contacts[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *memContactRepo) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]partner.ContactPerson, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []partner.ContactPerson
	for _, c := range r.contacts {
		if c.CustomerID == customerID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *memContactRepo) FindByRemoteID(ctx context.Context, remoteID string) (*partner.ContactPerson, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.contacts {
		if c.RemoteID != nil && *c.RemoteID == remoteID {
			clone := *c
			return &clone, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memContactRepo) Save(ctx context.Context, contact *partner.ContactPerson) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *contact
	r.contacts[contact.ID] = &clone
	return nil
}
