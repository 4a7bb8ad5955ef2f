// README: Order aggregate and status definitions.
package order

import (
	"time"

	"medmatch/internal/types"
)

type Status string

const (
	StatusNone     Status = "NONE"
	StatusPending  Status = "PENDING"
	StatusAccepted Status = "ACCEPTED"
	StatusRejected Status = "REJECTED"
)

type Order struct {
	ID            types.ID      `json:"id"`
	HospitalID    types.ID      `json:"hospitalId"`
	SupplierID    types.ID      `json:"supplierId"`
	EquipmentName string        `json:"equipmentName"`
	Quantity      int           `json:"quantity"`
	Urgency       types.Urgency `json:"urgency"`
	Status        Status        `json:"status"`
	StatusVersion int           `json:"-"`
	CreatedAt     time.Time     `json:"createdAt"`
	RespondedAt   *time.Time    `json:"respondedAt,omitempty"`
}

type Event struct {
	ID         int64
	OrderID    types.ID
	FromStatus Status
	ToStatus   Status
	ActorType  string
	ActorID    *types.ID
	CreatedAt  time.Time
}

// Backlog counts a supplier's unresolved and rejected orders.
type Backlog struct {
	Pending  int  `json:"pending"`
	Rejected int  `json:"rejected"`
	Alert    bool `json:"alert"`
}

// AllowedTransitions represents the order state flow (diagram) as code.
var AllowedTransitions = map[Status][]Status{
	StatusNone:    {StatusPending},
	StatusPending: {StatusAccepted, StatusRejected},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}
