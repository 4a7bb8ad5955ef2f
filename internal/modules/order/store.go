// README: Order store backed by PostgreSQL.
package order

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"medmatch/internal/modules/hospital"
	"medmatch/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// CreateWithRequest inserts the order, its creation event and the hospital
// ledger entry in one transaction.
func (s *Store) CreateWithRequest(ctx context.Context, o *Order, summary hospital.RequestSummary) error {
	return pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			INSERT INTO orders (
				id, hospital_id, supplier_id, equipment_name, quantity,
				urgency, status, status_version, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			string(o.ID),
			string(o.HospitalID),
			string(o.SupplierID),
			o.EquipmentName,
			o.Quantity,
			string(o.Urgency),
			string(o.Status),
			o.StatusVersion,
			o.CreatedAt,
		); err != nil {
			return err
		}
		if err := appendEvent(ctx, tx, &Event{
			OrderID:    o.ID,
			FromStatus: StatusNone,
			ToStatus:   o.Status,
			ActorType:  "hospital",
			ActorID:    &o.HospitalID,
			CreatedAt:  o.CreatedAt,
		}); err != nil {
			return err
		}
		return hospital.AppendRequestTx(ctx, tx, o.HospitalID, summary)
	})
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Order, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, hospital_id, supplier_id, equipment_name, quantity,
		       urgency, status, status_version, created_at, responded_at
		FROM orders
		WHERE id = $1`, string(id),
	)
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return o, err
}

func (s *Store) ListBySupplier(ctx context.Context, supplierID types.ID) ([]*Order, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, hospital_id, supplier_id, equipment_name, quantity,
		       urgency, status, status_version, created_at, responded_at
		FROM orders
		WHERE supplier_id = $1
		ORDER BY created_at DESC`, string(supplierID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// UpdateStatus is a compare-and-set on (status, status_version). It reports
// false when another writer got there first.
func (s *Store) UpdateStatus(ctx context.Context, id types.ID, from, to Status, version int) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE orders
		SET status = $1,
		    status_version = status_version + 1,
		    responded_at = NOW()
		WHERE id = $2 AND status = $3 AND status_version = $4`,
		string(to),
		string(id),
		string(from),
		version,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) AppendEvent(ctx context.Context, e *Event) error {
	return appendEvent(ctx, s.db, e)
}

func (s *Store) CountBySupplier(ctx context.Context, supplierID types.ID) (pending, rejected int, err error) {
	row := s.db.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE status = 'PENDING'),
			COUNT(*) FILTER (WHERE status = 'REJECTED')
		FROM orders
		WHERE supplier_id = $1`, string(supplierID),
	)
	err = row.Scan(&pending, &rejected)
	return pending, rejected, err
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func appendEvent(ctx context.Context, db execer, e *Event) error {
	_, err := db.Exec(ctx, `
		INSERT INTO order_state_events (
			order_id, from_status, to_status, actor_type, actor_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6)`,
		string(e.OrderID),
		string(e.FromStatus),
		string(e.ToStatus),
		e.ActorType,
		toStringPtr(e.ActorID),
		e.CreatedAt,
	)
	return err
}

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	var respondedAt *time.Time
	err := row.Scan(
		&o.ID, &o.HospitalID, &o.SupplierID, &o.EquipmentName, &o.Quantity,
		&o.Urgency, &o.Status, &o.StatusVersion, &o.CreatedAt, &respondedAt,
	)
	if err != nil {
		return nil, err
	}
	o.RespondedAt = respondedAt
	return &o, nil
}

func toStringPtr(v *types.ID) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}
