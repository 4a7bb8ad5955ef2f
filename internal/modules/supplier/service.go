// README: Supplier service wraps the directory queries used by matching and the hospital view.
package supplier

import (
	"context"

	"medmatch/internal/types"
)

type Repository interface {
	ListEligible(ctx context.Context, minRating float64) ([]Supplier, error)
	ListProfileComplete(ctx context.Context) ([]Supplier, error)
}

type Service struct {
	store Repository
}

func NewService(store Repository) *Service {
	return &Service{store: store}
}

// ListEligible is the supplier directory query used by matching.
func (s *Service) ListEligible(ctx context.Context, minRating float64) ([]Supplier, error) {
	pool, err := s.store.ListEligible(ctx, minRating)
	if err != nil {
		return nil, types.Unavailable("list eligible suppliers", err)
	}
	return pool, nil
}

func (s *Service) Directory(ctx context.Context) ([]Supplier, error) {
	all, err := s.store.ListProfileComplete(ctx)
	if err != nil {
		return nil, types.Unavailable("list suppliers", err)
	}
	if all == nil {
		all = []Supplier{}
	}
	return all, nil
}
