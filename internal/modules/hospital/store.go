// README: Hospital directory and request ledger backed by PostgreSQL.
package hospital

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"medmatch/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Hospital, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, hospital_name, hospital_address, lat, lng, profile_complete
		FROM hospitals
		WHERE id = $1`, string(id),
	)
	var h Hospital
	err := row.Scan(&h.ID, &h.Name, &h.Address, &h.Location.Lat, &h.Location.Lng, &h.ProfileComplete)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (s *Store) ListRequests(ctx context.Context, hospitalID types.ID) ([]RequestSummary, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, order_id, equipment_name, quantity, urgency, date_requested
		FROM hospital_requests
		WHERE hospital_id = $1
		ORDER BY position`, string(hospitalID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RequestSummary
	for rows.Next() {
		var r RequestSummary
		var orderID *string
		if err := rows.Scan(&r.ID, &orderID, &r.EquipmentName, &r.Quantity, &r.Urgency, &r.DateRequested); err != nil {
			return nil, err
		}
		if orderID != nil {
			id := types.ID(*orderID)
			r.OrderID = &id
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// UpdateRequest reports false when no ledger entry with that id belongs to the hospital.
func (s *Store) UpdateRequest(ctx context.Context, hospitalID, requestID types.ID, e RequestEdit) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE hospital_requests
		SET equipment_name = $1, quantity = $2, urgency = $3
		WHERE id = $4 AND hospital_id = $5`,
		e.EquipmentName, e.Quantity, string(e.Urgency), string(requestID), string(hospitalID),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) DeleteRequest(ctx context.Context, hospitalID, requestID types.ID) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		DELETE FROM hospital_requests
		WHERE id = $1 AND hospital_id = $2`,
		string(requestID), string(hospitalID),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// AppendRequestTx appends a ledger entry inside the caller's transaction.
func AppendRequestTx(ctx context.Context, tx pgx.Tx, hospitalID types.ID, r RequestSummary) error {
	var orderID *string
	if r.OrderID != nil {
		v := string(*r.OrderID)
		orderID = &v
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO hospital_requests (
			id, hospital_id, order_id, equipment_name, quantity, urgency, date_requested
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		string(r.ID),
		string(hospitalID),
		orderID,
		r.EquipmentName,
		r.Quantity,
		string(r.Urgency),
		r.DateRequested,
	)
	return err
}
