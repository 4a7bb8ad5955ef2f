// README: Hospital service exposes the directory lookup and id-based ledger edits.
package hospital

import (
	"context"
	"errors"
	"strings"

	"medmatch/internal/types"
)

var (
	ErrNotFound        = types.NewError(types.ErrNotFound, "hospital not found")
	ErrRequestNotFound = types.NewError(types.ErrNotFound, "request not found")
	ErrBadRequest      = types.NewError(types.ErrBadRequest, "equipment name and a positive quantity are required")
)

// Repository is the persistence contract; *Store implements it.
type Repository interface {
	Get(ctx context.Context, id types.ID) (*Hospital, error)
	ListRequests(ctx context.Context, hospitalID types.ID) ([]RequestSummary, error)
	UpdateRequest(ctx context.Context, hospitalID, requestID types.ID, e RequestEdit) (bool, error)
	DeleteRequest(ctx context.Context, hospitalID, requestID types.ID) (bool, error)
}

type Service struct {
	store Repository
}

func NewService(store Repository) *Service {
	return &Service{store: store}
}

// Get returns the hospital without its ledger. Missing hospitals yield ErrNotFound.
func (s *Service) Get(ctx context.Context, id types.ID) (*Hospital, error) {
	h, err := s.store.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, types.Unavailable("get hospital", err)
	}
	return h, nil
}

func (s *Service) Requests(ctx context.Context, hospitalID types.ID) ([]RequestSummary, error) {
	reqs, err := s.store.ListRequests(ctx, hospitalID)
	if err != nil {
		return nil, types.Unavailable("list requests", err)
	}
	if reqs == nil {
		reqs = []RequestSummary{}
	}
	return reqs, nil
}

func (s *Service) EditRequest(ctx context.Context, hospitalID, requestID types.ID, e RequestEdit) error {
	e.EquipmentName = strings.TrimSpace(e.EquipmentName)
	if e.EquipmentName == "" || e.Quantity <= 0 {
		return ErrBadRequest
	}
	if e.Urgency == "" {
		e.Urgency = types.UrgencyNormal
	}
	ok, err := s.store.UpdateRequest(ctx, hospitalID, requestID, e)
	if err != nil {
		return types.Unavailable("update request", err)
	}
	if !ok {
		return ErrRequestNotFound
	}
	return nil
}

func (s *Service) DeleteRequest(ctx context.Context, hospitalID, requestID types.ID) error {
	ok, err := s.store.DeleteRequest(ctx, hospitalID, requestID)
	if err != nil {
		return types.Unavailable("delete request", err)
	}
	if !ok {
		return ErrRequestNotFound
	}
	return nil
}
