// README: Dispatch orchestrator; validates, filters, ranks and records the winning order.
package matching

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"medmatch/internal/maps"
	"medmatch/internal/modules/hospital"
	"medmatch/internal/modules/order"
	"medmatch/internal/modules/supplier"
	"medmatch/internal/observability"
	"medmatch/internal/types"
)

var (
	ErrLocationNotSet = types.NewError(types.ErrPreconditionFailed, "hospital location not set")
	ErrNoSuppliers    = types.NewError(types.ErrNotFound, "no suppliers available")
	ErrInProgress     = types.NewError(types.ErrConflict, "match already in progress")
	ErrEquipmentName  = types.NewError(types.ErrBadRequest, "equipmentName is required")
	ErrQuantity       = types.NewError(types.ErrBadRequest, "quantity must be greater than 0")
	ErrUrgency        = types.NewError(types.ErrBadRequest, "urgency must be normal, urgent or critical")
)

type HospitalDirectory interface {
	Get(ctx context.Context, id types.ID) (*hospital.Hospital, error)
}

type SupplierDirectory interface {
	ListEligible(ctx context.Context, minRating float64) ([]supplier.Supplier, error)
}

type OrderRecorder interface {
	CreateMatched(ctx context.Context, o *order.Order, summary hospital.RequestSummary) error
}

// ResultCache makes FindSupplier idempotent per client key; *Store implements it.
type ResultCache interface {
	Load(ctx context.Context, key string) (*Result, bool, error)
	Reserve(ctx context.Context, key string) (bool, error)
	Save(ctx context.Context, key string, res *Result) error
	Release(ctx context.Context, key string) error
}

type RouteEstimator interface {
	Estimate(ctx context.Context, origin, destination types.Point) (*maps.TravelEstimate, error)
}

type Service struct {
	hospitals HospitalDirectory
	suppliers SupplierDirectory
	orders    OrderRecorder
	cache     ResultCache
	routes    RouteEstimator
	log       logrus.FieldLogger
	now       func() time.Time
	newID     func() types.ID
}

type Option func(*Service)

// WithResultCache enables Idempotency-Key handling.
func WithResultCache(c ResultCache) Option { return func(s *Service) { s.cache = c } }

// WithRouteEstimator attaches a driving estimate for the winner to each result.
func WithRouteEstimator(r RouteEstimator) Option { return func(s *Service) { s.routes = r } }

func NewService(hospitals HospitalDirectory, suppliers SupplierDirectory, orders OrderRecorder, log logrus.FieldLogger, opts ...Option) *Service {
	s := &Service{
		hospitals: hospitals,
		suppliers: suppliers,
		orders:    orders,
		log:       log,
		now:       time.Now,
		newID:     func() types.ID { return types.ID(uuid.NewString()) },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FindSupplier picks the best supplier for req, records a PENDING order with
// its ledger entry, and explains the choice.
func (s *Service) FindSupplier(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	res, err := s.findSupplier(ctx, req)
	observability.MatchLatency.Observe(time.Since(start).Seconds())
	observability.MatchRequestsTotal.WithLabelValues(outcome(err)).Inc()
	return res, err
}

func (s *Service) findSupplier(ctx context.Context, req Request) (res *Result, err error) {
	if strings.TrimSpace(req.EquipmentName) == "" {
		return nil, ErrEquipmentName
	}
	if req.Quantity <= 0 {
		return nil, ErrQuantity
	}
	urgency, ok := types.ParseUrgency(req.Urgency)
	if !ok {
		return nil, ErrUrgency
	}

	if s.cache != nil && req.IdempotencyKey != "" {
		key := string(req.HospitalID) + ":" + req.IdempotencyKey
		cached, found, lerr := s.cache.Load(ctx, key)
		if lerr != nil {
			return nil, types.Unavailable("load match result", lerr)
		}
		if found {
			return cached, nil
		}
		reserved, rerr := s.cache.Reserve(ctx, key)
		if rerr != nil {
			return nil, types.Unavailable("reserve match key", rerr)
		}
		if !reserved {
			return nil, ErrInProgress
		}
		defer s.settle(ctx, key, &res, &err)
	}

	h, err := s.hospitals.Get(ctx, req.HospitalID)
	switch {
	case errors.Is(err, types.ErrNotFound):
		return nil, ErrLocationNotSet
	case errors.Is(err, types.ErrStoreUnavailable):
		return nil, err
	case err != nil:
		return nil, types.Unavailable("get hospital", err)
	}
	if !h.Location.IsSet() {
		return nil, ErrLocationNotSet
	}

	pool, err := s.suppliers.ListEligible(ctx, supplier.MinRating)
	if err != nil {
		if errors.Is(err, types.ErrStoreUnavailable) {
			return nil, err
		}
		return nil, types.Unavailable("list suppliers", err)
	}
	sel, err := Select(h.Location, req.EquipmentName, req.Quantity, pool)
	if err != nil {
		return nil, err
	}
	winner := sel.Winner

	now := s.now().UTC()
	orderID := s.newID()
	requestID := s.newID()
	err = s.orders.CreateMatched(ctx, &order.Order{
		ID:            orderID,
		HospitalID:    req.HospitalID,
		SupplierID:    winner.SupplierID,
		EquipmentName: req.EquipmentName,
		Quantity:      req.Quantity,
		Urgency:       urgency,
		Status:        order.StatusPending,
		CreatedAt:     now,
	}, hospital.RequestSummary{
		ID:            requestID,
		OrderID:       &orderID,
		EquipmentName: req.EquipmentName,
		Quantity:      req.Quantity,
		Urgency:       urgency,
		DateRequested: now,
	})
	if err != nil {
		return nil, err
	}

	res = &Result{
		OrderID:      orderID,
		RequestID:    requestID,
		Supplier:     winner,
		Reasons:      sel.Reasons,
		Alternatives: sel.Alternatives,
	}
	if s.routes != nil {
		travel, terr := s.routes.Estimate(ctx, winner.Location, h.Location)
		if terr != nil {
			s.log.WithError(terr).WithField("order_id", orderID).Warn("travel estimate failed")
		} else {
			res.Travel = travel
		}
	}

	s.log.WithFields(logrus.Fields{
		"order_id":    orderID,
		"hospital_id": req.HospitalID,
		"supplier_id": winner.SupplierID,
		"candidates":  sel.Candidates,
		"distance_km": winner.DistanceKm,
	}).Info("supplier matched")
	return res, nil
}

// settle stores a successful result under key, or frees key after a failure
// so the client may retry.
func (s *Service) settle(ctx context.Context, key string, res **Result, err *error) {
	ctx = context.WithoutCancel(ctx)
	if *err != nil {
		if rerr := s.cache.Release(ctx, key); rerr != nil {
			s.log.WithError(rerr).WithField("key", key).Warn("release idempotency key failed")
		}
		return
	}
	if serr := s.cache.Save(ctx, key, *res); serr != nil {
		s.log.WithError(serr).WithField("key", key).Warn("store match result failed")
	}
}

func outcome(err error) string {
	switch types.Kind(err) {
	case nil:
		if err != nil {
			return "error"
		}
		return "matched"
	case types.ErrNotFound:
		return "no_match"
	case types.ErrStoreUnavailable:
		return "unavailable"
	default:
		return "rejected"
	}
}
