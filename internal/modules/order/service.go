// README: Order service implements creation, the supplier response transition and backlog counts.
package order

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"medmatch/internal/config"
	"medmatch/internal/events"
	"medmatch/internal/modules/hospital"
	"medmatch/internal/observability"
	"medmatch/internal/types"
)

var (
	ErrNotFound     = types.NewError(types.ErrNotFound, "order not found")
	ErrForbidden    = types.NewError(types.ErrForbidden, "order belongs to another supplier")
	ErrNotParty     = types.NewError(types.ErrForbidden, "not a party to this order")
	ErrConflict     = types.NewError(types.ErrConflict, "order has already been responded to")
	ErrBadDecision  = types.NewError(types.ErrBadRequest, "decision must be ACCEPTED or REJECTED")
	ErrInvalidOrder = types.NewError(types.ErrBadRequest, "order is missing hospital, supplier or item")
)

// Repository is the persistence contract; *Store implements it.
type Repository interface {
	CreateWithRequest(ctx context.Context, o *Order, summary hospital.RequestSummary) error
	Get(ctx context.Context, id types.ID) (*Order, error)
	ListBySupplier(ctx context.Context, supplierID types.ID) ([]*Order, error)
	UpdateStatus(ctx context.Context, id types.ID, from, to Status, version int) (bool, error)
	AppendEvent(ctx context.Context, e *Event) error
	CountBySupplier(ctx context.Context, supplierID types.ID) (pending, rejected int, err error)
}

type Service struct {
	store     Repository
	publisher events.Publisher
	cfg       config.OrderConfig
	log       logrus.FieldLogger
}

func NewService(store Repository, publisher events.Publisher, cfg config.OrderConfig, log logrus.FieldLogger) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{store: store, publisher: publisher, cfg: cfg, log: log}
}

type RespondCommand struct {
	OrderID    types.ID
	SupplierID types.ID
	Decision   Status
}

// CreateMatched persists a PENDING order together with the hospital's ledger
// entry. Either both are written or neither is.
func (s *Service) CreateMatched(ctx context.Context, o *Order, summary hospital.RequestSummary) error {
	if o.HospitalID == "" || o.SupplierID == "" || o.EquipmentName == "" || o.Quantity <= 0 {
		return ErrInvalidOrder
	}
	if !CanTransition(StatusNone, o.Status) {
		return ErrInvalidOrder
	}
	if err := s.store.CreateWithRequest(ctx, o, summary); err != nil {
		return types.Unavailable("create order", err)
	}
	s.publish(ctx, events.OrderCreated, o, o.Status)
	return nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Order, error) {
	o, err := s.store.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, types.Unavailable("get order", err)
	}
	return o, nil
}

// GetForParty returns the order only to its hospital or its supplier.
func (s *Service) GetForParty(ctx context.Context, id, callerID types.ID) (*Order, error) {
	o, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if callerID != o.HospitalID && callerID != o.SupplierID {
		return nil, ErrNotParty
	}
	return o, nil
}

// Respond moves a PENDING order to ACCEPTED or REJECTED on behalf of the
// supplier it was dispatched to. Inventory is not adjusted.
func (s *Service) Respond(ctx context.Context, cmd RespondCommand) (Status, error) {
	if cmd.Decision != StatusAccepted && cmd.Decision != StatusRejected {
		return "", ErrBadDecision
	}
	o, err := s.Get(ctx, cmd.OrderID)
	if err != nil {
		return "", err
	}
	if o.SupplierID != cmd.SupplierID {
		s.countResponse(cmd.Decision, "forbidden")
		return "", ErrForbidden
	}
	if !CanTransition(o.Status, cmd.Decision) {
		s.countResponse(cmd.Decision, "conflict")
		return "", ErrConflict
	}
	ok, err := s.store.UpdateStatus(ctx, o.ID, o.Status, cmd.Decision, o.StatusVersion)
	if err != nil {
		return "", types.Unavailable("update order status", err)
	}
	if !ok {
		s.countResponse(cmd.Decision, "conflict")
		return "", ErrConflict
	}
	s.countResponse(cmd.Decision, "ok")

	if err := s.store.AppendEvent(ctx, &Event{
		OrderID:    o.ID,
		FromStatus: o.Status,
		ToStatus:   cmd.Decision,
		ActorType:  "supplier",
		ActorID:    &cmd.SupplierID,
		CreatedAt:  time.Now(),
	}); err != nil {
		s.log.WithError(err).WithField("order_id", o.ID).Warn("append order event failed")
	}

	typ := events.OrderAccepted
	if cmd.Decision == StatusRejected {
		typ = events.OrderRejected
	}
	s.publish(ctx, typ, o, cmd.Decision)
	return cmd.Decision, nil
}

func (s *Service) ListBySupplier(ctx context.Context, supplierID types.ID) ([]*Order, error) {
	orders, err := s.store.ListBySupplier(ctx, supplierID)
	if err != nil {
		return nil, types.Unavailable("list orders", err)
	}
	if orders == nil {
		orders = []*Order{}
	}
	return orders, nil
}

// Backlog raises Alert once pending plus rejected orders exceed the configured threshold.
func (s *Service) Backlog(ctx context.Context, supplierID types.ID) (Backlog, error) {
	pending, rejected, err := s.store.CountBySupplier(ctx, supplierID)
	if err != nil {
		return Backlog{}, types.Unavailable("count orders", err)
	}
	return Backlog{
		Pending:  pending,
		Rejected: rejected,
		Alert:    pending+rejected > s.cfg.BacklogAlertThreshold,
	}, nil
}

func (s *Service) publish(ctx context.Context, typ events.Type, o *Order, status Status) {
	err := s.publisher.Publish(ctx, events.Event{
		Type:       typ,
		OrderID:    string(o.ID),
		HospitalID: string(o.HospitalID),
		SupplierID: string(o.SupplierID),
		Status:     string(status),
		Equipment:  o.EquipmentName,
		Quantity:   o.Quantity,
		Urgency:    string(o.Urgency),
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{"order_id": o.ID, "event": typ}).Warn("publish order event failed")
	}
}

func (s *Service) countResponse(decision Status, outcome string) {
	observability.OrderResponsesTotal.WithLabelValues(string(decision), outcome).Inc()
}
