// Package events publishes order lifecycle events to a message broker after
// the state change has been committed. Publishing is best-effort.
package events

import (
	"context"
	"encoding/json"
	"time"
)

type Type string

const (
	OrderCreated  Type = "order.created"
	OrderAccepted Type = "order.accepted"
	OrderRejected Type = "order.rejected"
)

type Event struct {
	Type       Type      `json:"type"`
	OrderID    string    `json:"orderId"`
	HospitalID string    `json:"hospitalId"`
	SupplierID string    `json:"supplierId"`
	Status     string    `json:"status"`
	Equipment  string    `json:"equipmentName,omitempty"`
	Quantity   int       `json:"quantity,omitempty"`
	Urgency    string    `json:"urgency,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// encode returns the partition/routing key and JSON body. Keying by order id
// keeps one order's events ordered on a partition.
func encode(e Event) (key, body []byte, err error) {
	body, err = json.Marshal(e)
	if err != nil {
		return nil, nil, err
	}
	return []byte(e.OrderID), body, nil
}

// Nop discards events; used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }
