package hospital

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"

	"medmatch/internal/infra"
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
		s.T().Skip("MEDMATCH_TEST_DSN not set; skipping DB-backed hospital tests")
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

func (s *storeSuite) insertHospital(loc types.Point) types.ID {
	id := types.ID("h-" + uuid.NewString())
	_, err := s.db.Exec(context.Background(), `
		INSERT INTO hospitals (id, hospital_name, hospital_address, lat, lng, profile_complete)
		VALUES ($1, 'City General', '1 Main St', $2, $3, TRUE)`,
		string(id), loc.Lat, loc.Lng,
	)
	s.Require().NoError(err)
	return id
}

func (s *storeSuite) appendRequests(hospitalID types.ID, names ...string) []types.ID {
	ctx := context.Background()
	ids := make([]types.ID, len(names))
	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		for i, name := range names {
			ids[i] = types.ID(uuid.NewString())
			if err := AppendRequestTx(ctx, tx, hospitalID, RequestSummary{
				ID:            ids[i],
				EquipmentName: name,
				Quantity:      i + 1,
				Urgency:       types.UrgencyNormal,
				DateRequested: time.Now(),
			}); err != nil {
				return err
			}
		}
		return nil
	})
	s.Require().NoError(err)
	return ids
}

func (s *storeSuite) TestGet() {
	id := s.insertHospital(types.Point{Lat: 12.9, Lng: 77.6})
	h, err := s.store.Get(context.Background(), id)
	s.Require().NoError(err)
	s.Equal("City General", h.Name)
	s.Equal(types.Point{Lat: 12.9, Lng: 77.6}, h.Location)

	_, err = s.store.Get(context.Background(), "h-missing")
	s.ErrorIs(err, ErrNotFound)
}

func (s *storeSuite) TestLedgerKeepsAppendOrder() {
	id := s.insertHospital(types.Point{Lat: 1, Lng: 1})
	s.appendRequests(id, "Ventilators", "Beds", "Masks")

	reqs, err := s.store.ListRequests(context.Background(), id)
	s.Require().NoError(err)
	s.Require().Len(reqs, 3)
	s.Equal("Ventilators", reqs[0].EquipmentName)
	s.Equal("Beds", reqs[1].EquipmentName)
	s.Equal("Masks", reqs[2].EquipmentName)
	s.Nil(reqs[0].OrderID)
}

func (s *storeSuite) TestUpdateAndDeleteByID() {
	ctx := context.Background()
	id := s.insertHospital(types.Point{Lat: 1, Lng: 1})
	other := s.insertHospital(types.Point{Lat: 2, Lng: 2})
	ids := s.appendRequests(id, "Ventilators", "Beds")

	ok, err := s.store.UpdateRequest(ctx, id, ids[1], RequestEdit{EquipmentName: "Cots", Quantity: 7, Urgency: types.UrgencyCritical})
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.store.UpdateRequest(ctx, other, ids[0], RequestEdit{EquipmentName: "x", Quantity: 1, Urgency: types.UrgencyNormal})
	s.Require().NoError(err)
	s.False(ok)

	ok, err = s.store.DeleteRequest(ctx, id, ids[0])
	s.Require().NoError(err)
	s.True(ok)

	reqs, err := s.store.ListRequests(ctx, id)
	s.Require().NoError(err)
	s.Require().Len(reqs, 1)
	s.Equal(ids[1], reqs[0].ID)
	s.Equal("Cots", reqs[0].EquipmentName)
	s.Equal(types.UrgencyCritical, reqs[0].Urgency)
}
