// README: Order service tests (respond flow, races, backlog) against an in-memory repository.
package order

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medmatch/internal/config"
	"medmatch/internal/events"
	"medmatch/internal/logging"
	"medmatch/internal/modules/hospital"
	"medmatch/internal/types"
)

type memRepo struct {
	mu       sync.Mutex
	orders   map[types.ID]*Order
	ledger   map[types.ID][]hospital.RequestSummary
	events   []*Event
	failWith error
}

func newMemRepo() *memRepo {
	return &memRepo{
		orders: map[types.ID]*Order{},
		ledger: map[types.ID][]hospital.RequestSummary{},
	}
}

func (m *memRepo) CreateWithRequest(_ context.Context, o *Order, summary hospital.RequestSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	cp := *o
	m.orders[o.ID] = &cp
	m.ledger[o.HospitalID] = append(m.ledger[o.HospitalID], summary)
	return nil
}

func (m *memRepo) Get(_ context.Context, id types.ID) (*Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	o, ok := m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *memRepo) ListBySupplier(_ context.Context, supplierID types.ID) ([]*Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Order
	for _, o := range m.orders {
		if o.SupplierID == supplierID {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, m.failWith
}

func (m *memRepo) UpdateStatus(_ context.Context, id types.ID, from, to Status, version int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok || o.Status != from || o.StatusVersion != version {
		return false, nil
	}
	now := time.Now()
	o.Status = to
	o.StatusVersion++
	o.RespondedAt = &now
	return true, nil
}

func (m *memRepo) AppendEvent(_ context.Context, e *Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return nil
}

func (m *memRepo) CountBySupplier(_ context.Context, supplierID types.ID) (int, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return 0, 0, m.failWith
	}
	var pending, rejected int
	for _, o := range m.orders {
		if o.SupplierID != supplierID {
			continue
		}
		switch o.Status {
		case StatusPending:
			pending++
		case StatusRejected:
			rejected++
		}
	}
	return pending, rejected, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) published() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

func newTestService(repo Repository, pub events.Publisher) *Service {
	return NewService(repo, pub, config.OrderConfig{BacklogAlertThreshold: 2}, logging.Discard())
}

func seedOrder(t *testing.T, svc *Service, id, hospitalID, supplierID types.ID) {
	t.Helper()
	err := svc.CreateMatched(context.Background(), &Order{
		ID:            id,
		HospitalID:    hospitalID,
		SupplierID:    supplierID,
		EquipmentName: "Ventilators",
		Quantity:      10,
		Urgency:       types.UrgencyNormal,
		Status:        StatusPending,
		CreatedAt:     time.Now(),
	}, hospital.RequestSummary{ID: types.ID("r-" + string(id)), OrderID: &id, EquipmentName: "Ventilators", Quantity: 10})
	require.NoError(t, err)
}

func TestCreateMatched_WritesOrderAndLedgerAndPublishes(t *testing.T) {
	repo := newMemRepo()
	pub := &recordingPublisher{}
	svc := newTestService(repo, pub)

	seedOrder(t, svc, "o1", "h1", "s1")

	o, err := svc.Get(context.Background(), "o1")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, o.Status)
	require.Len(t, repo.ledger["h1"], 1)
	assert.Equal(t, types.ID("o1"), *repo.ledger["h1"][0].OrderID)
	assert.Equal(t, []events.Type{events.OrderCreated}, pub.published())
}

func TestCreateMatched_Invalid(t *testing.T) {
	svc := newTestService(newMemRepo(), nil)
	err := svc.CreateMatched(context.Background(), &Order{ID: "o1", HospitalID: "h1", SupplierID: "s1", Quantity: 1, Status: StatusPending}, hospital.RequestSummary{})
	assert.ErrorIs(t, err, ErrInvalidOrder)

	err = svc.CreateMatched(context.Background(), &Order{ID: "o1", HospitalID: "h1", SupplierID: "s1", EquipmentName: "x", Quantity: 1, Status: StatusAccepted}, hospital.RequestSummary{})
	assert.ErrorIs(t, err, ErrInvalidOrder)
}

func TestCreateMatched_StoreFailureIsUnavailable(t *testing.T) {
	repo := newMemRepo()
	repo.failWith = errors.New("connection refused")
	pub := &recordingPublisher{}
	svc := newTestService(repo, pub)

	err := svc.CreateMatched(context.Background(), &Order{ID: "o1", HospitalID: "h1", SupplierID: "s1", EquipmentName: "x", Quantity: 1, Status: StatusPending}, hospital.RequestSummary{})
	assert.ErrorIs(t, err, types.ErrStoreUnavailable)
	assert.Empty(t, pub.published())
}

func TestRespond_Accept(t *testing.T) {
	repo := newMemRepo()
	pub := &recordingPublisher{}
	svc := newTestService(repo, pub)
	seedOrder(t, svc, "o1", "h1", "s1")

	status, err := svc.Respond(context.Background(), RespondCommand{OrderID: "o1", SupplierID: "s1", Decision: StatusAccepted})
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, status)

	o, err := svc.Get(context.Background(), "o1")
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, o.Status)
	assert.NotNil(t, o.RespondedAt)
	require.Len(t, repo.events, 1)
	assert.Equal(t, StatusPending, repo.events[0].FromStatus)
	assert.Equal(t, StatusAccepted, repo.events[0].ToStatus)
	assert.Equal(t, []events.Type{events.OrderCreated, events.OrderAccepted}, pub.published())
}

func TestRespond_Errors(t *testing.T) {
	svc := newTestService(newMemRepo(), nil)
	seedOrder(t, svc, "o1", "h1", "s1")
	ctx := context.Background()

	_, err := svc.Respond(ctx, RespondCommand{OrderID: "missing", SupplierID: "s1", Decision: StatusAccepted})
	assert.ErrorIs(t, err, types.ErrNotFound)

	_, err = svc.Respond(ctx, RespondCommand{OrderID: "o1", SupplierID: "s1", Decision: StatusPending})
	assert.ErrorIs(t, err, types.ErrBadRequest)

	_, err = svc.Respond(ctx, RespondCommand{OrderID: "o1", SupplierID: "s2", Decision: StatusAccepted})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, err, types.ErrForbidden)

	_, err = svc.Respond(ctx, RespondCommand{OrderID: "o1", SupplierID: "s1", Decision: StatusRejected})
	require.NoError(t, err)

	_, err = svc.Respond(ctx, RespondCommand{OrderID: "o1", SupplierID: "s1", Decision: StatusAccepted})
	assert.ErrorIs(t, err, ErrConflict)
	assert.ErrorIs(t, err, types.ErrConflict)
}

func TestRespond_ConcurrentAcceptVsReject(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo, nil)
	seedOrder(t, svc, "o1", "h1", "s1")

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for _, d := range []Status{StatusAccepted, StatusRejected} {
		wg.Add(1)
		go func(decision Status) {
			defer wg.Done()
			_, err := svc.Respond(context.Background(), RespondCommand{OrderID: "o1", SupplierID: "s1", Decision: decision})
			errs <- err
		}(d)
	}
	wg.Wait()
	close(errs)

	success := 0
	for err := range errs {
		if err == nil {
			success++
			continue
		}
		assert.ErrorIs(t, err, ErrConflict)
	}
	assert.Equal(t, 1, success)
	assert.Len(t, repo.events, 1)
}

func TestRespond_ManyConcurrentAccepts(t *testing.T) {
	svc := newTestService(newMemRepo(), nil)
	seedOrder(t, svc, "o1", "h1", "s1")

	const attempts = 8
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Respond(context.Background(), RespondCommand{OrderID: "o1", SupplierID: "s1", Decision: StatusAccepted})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	success := 0
	for err := range errs {
		if err == nil {
			success++
			continue
		}
		if !errors.Is(err, ErrConflict) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, success)
}

func TestRespond_PublishFailureDoesNotFail(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := newTestService(newMemRepo(), pub)
	seedOrder(t, svc, "o1", "h1", "s1")

	status, err := svc.Respond(context.Background(), RespondCommand{OrderID: "o1", SupplierID: "s1", Decision: StatusRejected})
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, status)
}

func TestGetForParty(t *testing.T) {
	svc := newTestService(newMemRepo(), nil)
	seedOrder(t, svc, "o1", "h1", "s1")
	ctx := context.Background()

	_, err := svc.GetForParty(ctx, "o1", "h1")
	assert.NoError(t, err)
	_, err = svc.GetForParty(ctx, "o1", "s1")
	assert.NoError(t, err)
	_, err = svc.GetForParty(ctx, "o1", "h2")
	assert.ErrorIs(t, err, ErrNotParty)
}

func TestBacklog_AlertAboveThreshold(t *testing.T) {
	svc := newTestService(newMemRepo(), nil)
	ctx := context.Background()
	seedOrder(t, svc, "o1", "h1", "s1")
	seedOrder(t, svc, "o2", "h1", "s1")
	seedOrder(t, svc, "o3", "h1", "s1")
	seedOrder(t, svc, "o4", "h1", "s2")

	b, err := svc.Backlog(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, Backlog{Pending: 3, Rejected: 0, Alert: true}, b)

	_, err = svc.Respond(ctx, RespondCommand{OrderID: "o1", SupplierID: "s1", Decision: StatusAccepted})
	require.NoError(t, err)
	_, err = svc.Respond(ctx, RespondCommand{OrderID: "o2", SupplierID: "s1", Decision: StatusRejected})
	require.NoError(t, err)

	b, err = svc.Backlog(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, Backlog{Pending: 1, Rejected: 1, Alert: false}, b)
}

func TestListBySupplier_EmptyIsNonNil(t *testing.T) {
	svc := newTestService(newMemRepo(), nil)
	orders, err := svc.ListBySupplier(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}
