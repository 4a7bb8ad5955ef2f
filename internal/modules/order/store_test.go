// README: Postgres-backed order store tests; skipped unless MEDMATCH_TEST_DSN is set. Rows use fresh ids so packages can share one database.
package order

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"

	"medmatch/internal/infra"
	"medmatch/internal/modules/hospital"
	"medmatch/internal/types"
)

type storeSuite struct {
	suite.Suite
	db    *pgxpool.Pool
	store *Store
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(storeSuite))
}

func (s *storeSuite) SetupSuite() {
	dsn := os.Getenv("MEDMATCH_TEST_DSN")
	if dsn == "" {
		s.T().Skip("MEDMATCH_TEST_DSN not set; skipping DB-backed order tests")
	}
	ctx := context.Background()
	db, err := infra.NewDB(ctx, dsn)
	s.Require().NoError(err)
	s.db = db

	root, err := infra.RepoRoot()
	s.Require().NoError(err)
	_, err = infra.ApplyMigrations(ctx, db, filepath.Join(root, "migrations"))
	s.Require().NoError(err)
	s.store = NewStore(db)
}

func (s *storeSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
}

func (s *storeSuite) newOrder(supplierID types.ID) (*Order, hospital.RequestSummary) {
	id := types.ID(uuid.NewString())
	o := &Order{
		ID:            id,
		HospitalID:    "h1",
		SupplierID:    supplierID,
		EquipmentName: "Ventilators",
		Quantity:      10,
		Urgency:       types.UrgencyUrgent,
		Status:        StatusPending,
		CreatedAt:     time.Now().UTC().Truncate(time.Microsecond),
	}
	summary := hospital.RequestSummary{
		ID:            types.ID(uuid.NewString()),
		OrderID:       &id,
		EquipmentName: "Ventilators",
		Quantity:      10,
		Urgency:       types.UrgencyUrgent,
		DateRequested: o.CreatedAt,
	}
	return o, summary
}

func (s *storeSuite) TestCreateWithRequestWritesBoth() {
	ctx := context.Background()
	o, summary := s.newOrder("s1")
	s.Require().NoError(s.store.CreateWithRequest(ctx, o, summary))

	got, err := s.store.Get(ctx, o.ID)
	s.Require().NoError(err)
	s.Equal(StatusPending, got.Status)
	s.Equal(types.UrgencyUrgent, got.Urgency)
	s.Nil(got.RespondedAt)

	var linked string
	err = s.db.QueryRow(ctx, "SELECT order_id FROM hospital_requests WHERE id = $1", string(summary.ID)).Scan(&linked)
	s.Require().NoError(err)
	s.Equal(string(o.ID), linked)

	var events int
	err = s.db.QueryRow(ctx, "SELECT COUNT(*) FROM order_state_events WHERE order_id = $1", string(o.ID)).Scan(&events)
	s.Require().NoError(err)
	s.Equal(1, events)
}

func (s *storeSuite) TestCreateWithRequestRollsBackOnLedgerFailure() {
	ctx := context.Background()
	o, summary := s.newOrder("s1")
	summary.Quantity = 0 // violates the ledger CHECK constraint

	s.Error(s.store.CreateWithRequest(ctx, o, summary))
	_, err := s.store.Get(ctx, o.ID)
	s.ErrorIs(err, ErrNotFound)
}

func (s *storeSuite) TestGetMissing() {
	_, err := s.store.Get(context.Background(), "nope")
	s.ErrorIs(err, ErrNotFound)
}

func (s *storeSuite) TestConcurrentAcceptVsReject() {
	ctx := context.Background()
	o, summary := s.newOrder("s1")
	s.Require().NoError(s.store.CreateWithRequest(ctx, o, summary))

	var wg sync.WaitGroup
	results := make(chan bool, 2)
	for _, to := range []Status{StatusAccepted, StatusRejected} {
		wg.Add(1)
		go func(to Status) {
			defer wg.Done()
			ok, err := s.store.UpdateStatus(ctx, o.ID, StatusPending, to, 0)
			s.NoError(err)
			results <- ok
		}(to)
	}
	wg.Wait()
	close(results)

	wins := 0
	for ok := range results {
		if ok {
			wins++
		}
	}
	s.Equal(1, wins)

	got, err := s.store.Get(ctx, o.ID)
	s.Require().NoError(err)
	s.Equal(1, got.StatusVersion)
	s.NotNil(got.RespondedAt)
}

func (s *storeSuite) TestListAndCountBySupplier() {
	ctx := context.Background()
	supplierID := types.ID("s-" + uuid.NewString())
	for i := 0; i < 3; i++ {
		o, summary := s.newOrder(supplierID)
		o.CreatedAt = o.CreatedAt.Add(time.Duration(i) * time.Second)
		s.Require().NoError(s.store.CreateWithRequest(ctx, o, summary))
	}
	other, summary := s.newOrder(types.ID("s-" + uuid.NewString()))
	s.Require().NoError(s.store.CreateWithRequest(ctx, other, summary))

	orders, err := s.store.ListBySupplier(ctx, supplierID)
	s.Require().NoError(err)
	s.Require().Len(orders, 3)
	s.True(orders[0].CreatedAt.After(orders[2].CreatedAt))

	ok, err := s.store.UpdateStatus(ctx, orders[0].ID, StatusPending, StatusRejected, 0)
	s.Require().NoError(err)
	s.True(ok)

	pending, rejected, err := s.store.CountBySupplier(ctx, supplierID)
	s.Require().NoError(err)
	s.Equal(2, pending)
	s.Equal(1, rejected)
}
