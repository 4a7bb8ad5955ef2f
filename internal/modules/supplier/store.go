// README: Supplier directory backed by PostgreSQL.
package supplier

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"medmatch/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// ListEligible returns suppliers with a complete profile, a set location and
// rating >= minRating, in registration order, each with its inventory in
// insertion order.
func (s *Store) ListEligible(ctx context.Context, minRating float64) ([]Supplier, error) {
	return s.list(ctx, `
		SELECT id, name, shop_name, address, contact_number, lat, lng, rating, profile_complete
		FROM suppliers
		WHERE profile_complete
		  AND NOT (lat = 0 AND lng = 0)
		  AND rating >= $1
		ORDER BY created_at, id`, minRating)
}

// ListProfileComplete returns every supplier with a complete profile.
func (s *Store) ListProfileComplete(ctx context.Context) ([]Supplier, error) {
	return s.list(ctx, `
		SELECT id, name, shop_name, address, contact_number, lat, lng, rating, profile_complete
		FROM suppliers
		WHERE profile_complete
		ORDER BY created_at, id`)
}

func (s *Store) list(ctx context.Context, query string, args ...any) ([]Supplier, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	var out []Supplier
	index := make(map[types.ID]int)
	for rows.Next() {
		var sp Supplier
		if err := rows.Scan(
			&sp.ID, &sp.Name, &sp.ShopName, &sp.Address, &sp.ContactNumber,
			&sp.Location.Lat, &sp.Location.Lng, &sp.Rating, &sp.ProfileComplete,
		); err != nil {
			rows.Close()
			return nil, err
		}
		index[sp.ID] = len(out)
		out = append(out, sp)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	ids := make([]string, len(out))
	for i, sp := range out {
		ids[i] = string(sp.ID)
	}
	itemRows, err := s.db.Query(ctx, `
		SELECT supplier_id, id, item_name, category, price, quantity, description, date_added
		FROM supplier_items
		WHERE supplier_id = ANY($1)
		ORDER BY supplier_id, position`, ids,
	)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()
	for itemRows.Next() {
		var supplierID types.ID
		var it InventoryItem
		if err := itemRows.Scan(&supplierID, &it.ID, &it.ItemName, &it.Category, &it.Price, &it.Quantity, &it.Description, &it.DateAdded); err != nil {
			return nil, err
		}
		if i, ok := index[supplierID]; ok {
			out[i].Items = append(out[i].Items, it)
		}
	}
	return out, itemRows.Err()
}
