// README: Hospital record and its request ledger.
package hospital

import (
	"time"

	"medmatch/internal/types"
)

type Hospital struct {
	ID              types.ID         `json:"id"`
	Name            string           `json:"hospitalName"`
	Address         string           `json:"hospitalAddress"`
	Location        types.Point      `json:"location"`
	ProfileComplete bool             `json:"profileComplete"`
	Requests        []RequestSummary `json:"requests,omitempty"`
}

// RequestSummary is the hospital-side copy of a matched request. OrderID links
// it to the order it spawned so orphaned orders can be reconciled.
type RequestSummary struct {
	ID            types.ID      `json:"id"`
	OrderID       *types.ID     `json:"orderId,omitempty"`
	EquipmentName string        `json:"equipmentName"`
	Quantity      int           `json:"quantity"`
	Urgency       types.Urgency `json:"urgency"`
	DateRequested time.Time     `json:"dateRequested"`
}

// RequestEdit replaces the editable fields of a ledger entry.
type RequestEdit struct {
	EquipmentName string
	Quantity      int
	Urgency       types.Urgency
}
